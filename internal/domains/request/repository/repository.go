package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"shareit/infras/otel"
	"shareit/infras/postgres"
	"shareit/internal/domains/request/model"
	gDto "shareit/shared/dto"
	gRepo "shareit/shared/repository"
)

type ItemRequest interface {
	Insert(ctx context.Context, model model.ItemRequest) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.ItemRequest, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.ItemRequest, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.ItemRequest]
}

func New(db *postgres.Connection, otel otel.Otel) ItemRequest {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.ItemRequest](model.EntityName, model.TableName, db, otel),
	}
}
