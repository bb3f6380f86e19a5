package service

import (
	"context"
	"fmt"
	"shareit/config"
	"shareit/infras/otel"
	itemModel "shareit/internal/domains/item/model"
	itemRepo "shareit/internal/domains/item/repository"
	"shareit/internal/domains/request/model"
	"shareit/internal/domains/request/model/dto"
	"shareit/internal/domains/request/repository"
	userModel "shareit/internal/domains/user/model"
	userRepo "shareit/internal/domains/user/repository"
	"shareit/shared"
	"shareit/shared/cache"
	"shareit/shared/constant"
	gDto "shareit/shared/dto"
	"shareit/shared/failure"
	"strings"

	"github.com/rs/zerolog/log"
)

const (
	msgIDRequired      = "Request id must be provided"
	msgRequestNotFound = "Request with id %s not found"
	msgUserNotFound    = "User with id %s not found"
)

type Request interface {
	FindByUser(ctx context.Context, userID string) ([]dto.RequestResponse, error)
	Get(ctx context.Context, requestID string) (dto.RequestResponse, error)
	GetAllExceptUser(ctx context.Context, userID string, params gDto.QueryParams) ([]dto.RequestResponse, error)
	Create(ctx context.Context, req dto.CreateRequestRequest, userID string) (dto.RequestResponse, error)
	Update(ctx context.Context, req dto.UpdateRequestRequest, userID, requestID string) (dto.RequestResponse, error)
	Delete(ctx context.Context, userID, requestID string) error
}

type serviceImpl struct {
	repo  repository.ItemRequest
	users userRepo.User
	items itemRepo.Item
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.ItemRequest, users userRepo.User, items itemRepo.Item, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Request {
	return &serviceImpl{
		repo:  repo,
		users: users,
		items: items,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) FindByUser(ctx context.Context, userID string) (res []dto.RequestResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Request.FindByUser")
	defer scope.End()
	defer scope.TraceIfError(err)

	return s.list(ctx, gDto.QueryParams{}, shared.FilterByID(userID, model.FieldRequesterID, model.TableName))
}

func (s *serviceImpl) GetAllExceptUser(ctx context.Context, userID string, params gDto.QueryParams) (res []dto.RequestResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Request.GetAllExceptUser")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.FieldRequesterID, Table: model.TableName, Operator: gDto.FilterOperatorNotEq, Value: userID},
		},
	}

	return s.list(ctx, params, filter)
}

func (s *serviceImpl) Get(ctx context.Context, requestID string) (res dto.RequestResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Request.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	if strings.TrimSpace(requestID) == "" {
		return res, failure.BadRequestFromString(msgIDRequired) // nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(constant.CacheKeyRequestGet, requestID)

	if s.cacheEnabled() {
		if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
			log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for item request")

			return res, nil
		}
	}

	request, err := s.find(ctx, shared.FilterByID(requestID, model.FieldID, model.TableName), requestID)
	if err != nil {
		return res, err
	}

	items, err := s.fulfilling(ctx, request.ID)
	if err != nil {
		return res, err
	}

	res.FromModel(request, items)

	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateRequestRequest, userID string) (res dto.RequestResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Request.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.ensureUser(ctx, userID); err != nil {
		return res, err
	}

	request := req.ToModel(userID)

	if err = s.repo.Insert(ctx, request); err != nil {
		log.Error().Err(err).Msg("failed to create item request")

		return res, fmt.Errorf("failed to create item request: %w", err)
	}

	res.FromModel(request, nil)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateRequestRequest, userID, requestID string) (res dto.RequestResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Request.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.ensureUser(ctx, userID); err != nil {
		return res, err
	}

	filter := ownedBy(requestID, userID)

	request, err := s.find(ctx, filter, requestID)
	if err != nil {
		return res, err
	}

	fields := req.Fields()
	if fields.Description != nil {
		request.Description = *fields.Description
	}

	if fields.Created != nil {
		request.Created = *fields.Created
	}

	if err = s.repo.Update(ctx, shared.TransformFields(fields, userID), filter); err != nil {
		log.Error().Err(err).Str("id", requestID).Msg("failed to update item request")

		return res, fmt.Errorf("failed to update item request: %w", err)
	}

	s.invalidate(ctx, requestID)

	items, err := s.fulfilling(ctx, requestID)
	if err != nil {
		return res, err
	}

	res.FromModel(request, items)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, userID, requestID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Request.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.repo.Delete(ctx, ownedBy(requestID, userID)); err != nil {
		log.Error().Err(err).Str("id", requestID).Msg("failed to delete item request")

		return fmt.Errorf("failed to delete item request: %w", err)
	}

	s.invalidate(ctx, requestID)

	return nil
}

// list returns requests newest first with the items created for each of them.
func (s *serviceImpl) list(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]dto.RequestResponse, error) {
	params = params.Sorted(model.TableName+"."+model.FieldCreated, gDto.SortDirDesc)

	requests, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get item requests")

		return nil, fmt.Errorf("failed to get item requests: %w", err)
	}

	res := make([]dto.RequestResponse, len(requests))
	if len(requests) == 0 {
		return res, nil
	}

	ids := make([]string, len(requests))
	for i, request := range requests {
		ids[i] = request.ID
	}

	items, err := s.items.GetAll(ctx, gDto.QueryParams{}, gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: itemModel.FieldRequestID, Table: itemModel.TableName, Operator: gDto.FilterOperatorIn, Value: ids},
		},
	})
	if err != nil {
		log.Error().Err(err).Msg("failed to get items of item requests")

		return nil, fmt.Errorf("failed to get items of item requests: %w", err)
	}

	byRequest := map[string][]itemModel.Item{}
	for _, item := range items {
		if item.RequestID != nil {
			byRequest[*item.RequestID] = append(byRequest[*item.RequestID], item)
		}
	}

	for i, request := range requests {
		res[i].FromModel(request, byRequest[request.ID])
	}

	return res, nil
}

func (s *serviceImpl) fulfilling(ctx context.Context, requestID string) ([]itemModel.Item, error) {
	params := gDto.QueryParams{}.Sorted(itemModel.TableName+"."+constant.FieldCreatedAt, gDto.SortDirAsc)

	items, err := s.items.GetAll(ctx, params, shared.FilterByID(requestID, itemModel.FieldRequestID, itemModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("requestID", requestID).Msg("failed to get items of item request")

		return nil, fmt.Errorf("failed to get items of item request: %w", err)
	}

	return items, nil
}

func (s *serviceImpl) find(ctx context.Context, filter gDto.FilterGroup, requestID string) (model.ItemRequest, error) {
	request, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Str("id", requestID).Msg("failed to get item request")

		return request, fmt.Errorf("failed to get item request: %w", err)
	}

	if request.ID == "" {
		return request, failure.NotFound(fmt.Sprintf(msgRequestNotFound, requestID)) // nolint:wrapcheck
	}

	return request, nil
}

func (s *serviceImpl) ensureUser(ctx context.Context, userID string) error {
	exist, err := s.users.Exist(ctx, shared.FilterByID(userID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("userID", userID).Msg("failed to check user")

		return fmt.Errorf("failed to check user: %w", err)
	}

	if !exist {
		return failure.NotFound(fmt.Sprintf(msgUserNotFound, userID)) // nolint:wrapcheck
	}

	return nil
}

func ownedBy(requestID, userID string) gDto.FilterGroup {
	return shared.FilterAll(
		gDto.Filter{Field: model.FieldID, Table: model.TableName, Operator: gDto.FilterOperatorEq, Value: requestID},
		gDto.Filter{Field: model.FieldRequesterID, Table: model.TableName, Operator: gDto.FilterOperatorEq, Value: userID},
	)
}

func (s *serviceImpl) cacheEnabled() bool {
	return s.cfg.Cache.TTL > 0
}

func (s *serviceImpl) save(ctx context.Context, key string, value any) {
	if !s.cacheEnabled() {
		return
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, key, value, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Str("cacheKey", key).Msg("failed to save item request cache")
		}
	}()
}

func (s *serviceImpl) invalidate(ctx context.Context, requestID string) {
	if !s.cacheEnabled() {
		return
	}

	if err := s.cache.Delete(ctx, shared.BuildCacheKey(constant.CacheKeyRequestGet, requestID)); err != nil {
		log.Error().Err(err).Str("id", requestID).Msg("failed to delete item request cache")
	}
}
