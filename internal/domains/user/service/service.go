package service

import (
	"context"
	"errors"
	"fmt"
	"shareit/config"
	"shareit/infras/otel"
	"shareit/internal/domains/user/model"
	"shareit/internal/domains/user/model/dto"
	"shareit/internal/domains/user/repository"
	"shareit/shared"
	"shareit/shared/cache"
	"shareit/shared/constant"
	gDto "shareit/shared/dto"
	"shareit/shared/failure"
	"strings"

	"github.com/lib/pq"
	"github.com/rs/zerolog/log"
)

const (
	msgEmailRequired = "Email must be provided"
	msgEmailTaken    = "Email already in use by another user"
	msgIDRequired    = "User id must be provided"
	msgUserNotFound  = "User with id %s not found"
)

type User interface {
	Create(ctx context.Context, req dto.CreateUserRequest) (dto.UserResponse, error)
	Update(ctx context.Context, id string, req dto.UpdateUserRequest) (dto.UserResponse, error)
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (dto.UserResponse, error)
	GetAll(ctx context.Context) ([]dto.UserResponse, error)
}

type serviceImpl struct {
	repo  repository.User
	cfg   *config.Config
	cache cache.RedisCache
	otel  otel.Otel
}

func New(repo repository.User, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) User {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		cache: cache,
		otel:  otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateUserRequest) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".User.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	if strings.TrimSpace(req.Email) == "" {
		return res, failure.BadRequestFromString(msgEmailRequired) // nolint:wrapcheck
	}

	user := req.ToModel()

	if err = s.ensureEmailFree(ctx, user.Email); err != nil {
		return res, err
	}

	if err = s.repo.Insert(ctx, user); err != nil {
		if isUniqueViolation(err) {
			return res, failure.Conflict(msgEmailTaken) // nolint:wrapcheck
		}

		log.Error().Err(err).Msg("failed to create user")

		return res, fmt.Errorf("failed to create user: %w", err)
	}

	s.invalidate(ctx, "")

	res.FromModel(user)

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, id string, req dto.UpdateUserRequest) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".User.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		req.Name = &name
		user.Name = name
	}

	if req.Email != nil {
		email := strings.TrimSpace(*req.Email)
		if email == "" {
			return res, failure.BadRequestFromString(msgEmailRequired) // nolint:wrapcheck
		}

		req.Email = &email

		if email != user.Email {
			if err = s.ensureEmailFree(ctx, email); err != nil {
				return res, err
			}
		}

		user.Email = email
	}

	updatedFields := shared.TransformFields(req, id)
	if err = s.repo.Update(ctx, updatedFields, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		if isUniqueViolation(err) {
			return res, failure.Conflict(msgEmailTaken) // nolint:wrapcheck
		}

		log.Error().Err(err).Str("id", id).Msg("failed to update user")

		return res, fmt.Errorf("failed to update user: %w", err)
	}

	s.invalidate(ctx, id)

	res.FromModel(user)

	return res, nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".User.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err = s.find(ctx, id); err != nil {
		return err
	}

	if err = s.repo.Delete(ctx, shared.FilterByID(id, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to delete user")

		return fmt.Errorf("failed to delete user: %w", err)
	}

	// Items and requests of the user go with it.
	s.invalidate(ctx, id)
	if s.cacheEnabled() {
		shared.InvalidateCaches(ctx, s.cache, constant.CacheKeyItemSearch)
		shared.InvalidateCaches(ctx, s.cache, constant.CacheKeyRequestGet)
	}

	return nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".User.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	if strings.TrimSpace(id) == "" {
		return res, failure.BadRequestFromString(msgIDRequired) // nolint:wrapcheck
	}

	cacheKey := shared.BuildCacheKey(constant.CacheKeyUserGet, id)

	if s.cacheEnabled() {
		if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
			log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for user")

			return res, nil
		}
	}

	user, err := s.find(ctx, id)
	if err != nil {
		return res, err
	}

	res.FromModel(user)

	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context) (res []dto.UserResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".User.GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := constant.CacheKeyUserGets

	if s.cacheEnabled() {
		if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
			log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for users")

			return res, nil
		}
	}

	params := gDto.QueryParams{}.Sorted(model.TableName+"."+constant.FieldCreatedAt, gDto.SortDirAsc)

	users, err := s.repo.GetAll(ctx, params, gDto.FilterGroup{})
	if err != nil {
		log.Error().Err(err).Msg("failed to get users")

		return nil, fmt.Errorf("failed to get users: %w", err)
	}

	res = dto.FromModels(users)

	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) find(ctx context.Context, id string) (model.User, error) {
	user, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("id", id).Msg("failed to get user")

		return user, fmt.Errorf("failed to get user: %w", err)
	}

	if user.ID == "" {
		return user, failure.NotFound(fmt.Sprintf(msgUserNotFound, id)) // nolint:wrapcheck
	}

	return user, nil
}

func (s *serviceImpl) ensureEmailFree(ctx context.Context, email string) error {
	exist, err := s.repo.Exist(ctx, shared.FilterByID(email, model.FieldEmail, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check email")

		return fmt.Errorf("failed to check email: %w", err)
	}

	if exist {
		return failure.Conflict(msgEmailTaken) // nolint:wrapcheck
	}

	return nil
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
			log.Error().Err(err).Str("cacheKey", key).Msg("failed to save user cache")
		}
	}()
}

func (s *serviceImpl) invalidate(ctx context.Context, id string) {
	if !s.cacheEnabled() {
		return
	}

	if id != "" {
		if err := s.cache.Delete(ctx, shared.BuildCacheKey(constant.CacheKeyUserGet, id)); err != nil {
			log.Error().Err(err).Str("id", id).Msg("failed to delete user cache")
		}
	}

	shared.InvalidateCaches(ctx, s.cache, constant.CacheKeyUserGets)
}

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error

	return errors.As(err, &pqErr) && string(pqErr.Code) == constant.PqErrorCodeUniqueViolation
}
