package service

import (
	"context"
	"fmt"
	"shareit/config"
	"shareit/infras/otel"
	bookingModel "shareit/internal/domains/booking/model"
	bookingRepo "shareit/internal/domains/booking/repository"
	"shareit/internal/domains/item/model"
	"shareit/internal/domains/item/model/dto"
	"shareit/internal/domains/item/repository"
	requestModel "shareit/internal/domains/request/model"
	requestRepo "shareit/internal/domains/request/repository"
	userModel "shareit/internal/domains/user/model"
	userRepo "shareit/internal/domains/user/repository"
	"shareit/shared"
	"shareit/shared/cache"
	"shareit/shared/constant"
	gDto "shareit/shared/dto"
	"shareit/shared/failure"
	"shareit/shared/timezone"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	msgAvailableRequired = "Field 'available' is required"
	msgItemNotFound      = "Item with id %s not found"
	msgUserNotFound      = "User with id %s not found"
	msgRequestNotFound   = "Request with id %s not found"
	msgNotBooked         = "User with id %s has not booked item with id %s"
	msgNotApproved       = "User with id %s has no approved booking for item with id %s"
	msgNotCompleted      = "Cannot comment until the booking of item with id %s is completed"
)

type Item interface {
	FindByOwner(ctx context.Context, ownerID string) ([]dto.ItemResponse, error)
	Get(ctx context.Context, itemID string) (dto.ItemResponse, error)
	Create(ctx context.Context, req dto.CreateItemRequest, ownerID string) (dto.ItemResponse, error)
	Update(ctx context.Context, req dto.UpdateItemRequest, ownerID, itemID string) (dto.ItemResponse, error)
	Delete(ctx context.Context, ownerID, itemID string) error
	Search(ctx context.Context, text string, params gDto.QueryParams) ([]dto.ItemResponse, error)
	AddComment(ctx context.Context, itemID, authorID string, req dto.CommentRequest) (dto.CommentResponse, error)
	RefreshBookingSummary(ctx context.Context, itemID string) error
}

type serviceImpl struct {
	repo     repository.Item
	comments repository.Comment
	users    userRepo.User
	requests requestRepo.ItemRequest
	bookings bookingRepo.Booking
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
}

func New(
	repo repository.Item,
	comments repository.Comment,
	users userRepo.User,
	requests requestRepo.ItemRequest,
	bookings bookingRepo.Booking,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
) Item {
	return &serviceImpl{
		repo:     repo,
		comments: comments,
		users:    users,
		requests: requests,
		bookings: bookings,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
	}
}

func (s *serviceImpl) FindByOwner(ctx context.Context, ownerID string) (res []dto.ItemResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Item.FindByOwner")
	defer scope.End()
	defer scope.TraceIfError(err)

	params := gDto.QueryParams{}.Sorted(model.TableName+"."+constant.FieldCreatedAt, gDto.SortDirAsc)

	items, err := s.repo.GetAll(ctx, params, shared.FilterByID(ownerID, model.FieldOwnerID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("ownerID", ownerID).Msg("failed to get items of owner")

		return nil, fmt.Errorf("failed to get items of owner: %w", err)
	}

	return dto.FromModels(items), nil
}

func (s *serviceImpl) Get(ctx context.Context, itemID string) (res dto.ItemResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Item.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	item, err := s.find(ctx, shared.FilterByID(itemID, model.FieldID, model.TableName), itemID)
	if err != nil {
		return res, err
	}

	last, next, err := s.summary(ctx, itemID)
	if err != nil {
		return res, err
	}

	params := gDto.QueryParams{}.Sorted(model.CommentTableName+"."+model.CommentFieldCreated, gDto.SortDirAsc)

	comments, err := s.comments.GetAll(ctx, params, shared.FilterByID(itemID, model.CommentFieldItemID, model.CommentTableName))
	if err != nil {
		log.Error().Err(err).Str("itemID", itemID).Msg("failed to get comments")

		return res, fmt.Errorf("failed to get comments: %w", err)
	}

	res.FromModel(item)
	res.LastBooking = nil
	res.NextBooking = nil

	if last != nil {
		res.LastBooking = dto.NewBookingShort(*last)
	}

	if next != nil {
		res.NextBooking = dto.NewBookingShort(*next)
	}

	res.Comments = dto.CommentsFromModels(comments)

	return res, nil
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateItemRequest, ownerID string) (res dto.ItemResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Item.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.ensureUser(ctx, ownerID); err != nil {
		return res, err
	}

	if req.Available == nil {
		return res, failure.BadRequestFromString(msgAvailableRequired) // nolint:wrapcheck
	}

	item := req.ToModel(ownerID)

	if item.RequestID != nil {
		if err = s.ensureRequest(ctx, *item.RequestID); err != nil {
			return res, err
		}
	}

	if err = s.repo.Insert(ctx, item); err != nil {
		log.Error().Err(err).Msg("failed to create item")

		return res, fmt.Errorf("failed to create item: %w", err)
	}

	return s.afterWrite(ctx, item.ID)
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateItemRequest, ownerID, itemID string) (res dto.ItemResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Item.Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.ensureUser(ctx, ownerID); err != nil {
		return res, err
	}

	filter := ownedBy(itemID, ownerID)

	if _, err = s.find(ctx, filter, itemID); err != nil {
		return res, err
	}

	updatedFields := shared.TransformFields(req.Fields(), ownerID)
	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Str("id", itemID).Msg("failed to update item")

		return res, fmt.Errorf("failed to update item: %w", err)
	}

	return s.afterWrite(ctx, itemID)
}

func (s *serviceImpl) Delete(ctx context.Context, ownerID, itemID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Item.Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.repo.Delete(ctx, ownedBy(itemID, ownerID)); err != nil {
		log.Error().Err(err).Str("id", itemID).Msg("failed to delete item")

		return fmt.Errorf("failed to delete item: %w", err)
	}

	s.invalidate(ctx)

	return nil
}

func (s *serviceImpl) Search(ctx context.Context, text string, params gDto.QueryParams) (res []dto.ItemResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Item.Search")
	defer scope.End()
	defer scope.TraceIfError(err)

	text = strings.TrimSpace(text)
	if text == "" {
		return []dto.ItemResponse{}, nil
	}

	params = params.Sorted(model.TableName+"."+constant.FieldCreatedAt, gDto.SortDirAsc)
	filter := shared.FilterAll(
		gDto.Filter{Field: model.FieldAvailable, Table: model.TableName, Operator: gDto.FilterOperatorEq, Value: true},
		gDto.FilterGroup{
			Operator: gDto.FilterGroupOperatorOr,
			Filters: []any{
				gDto.Filter{Field: model.FieldName, Table: model.TableName, ArgName: "text_name", Operator: gDto.FilterOperatorLike, Value: text},
				gDto.Filter{Field: model.FieldDescription, Table: model.TableName, ArgName: "text_description", Operator: gDto.FilterOperatorLike, Value: text},
			},
		},
	)

	cacheKey := shared.BuildCacheKeyWithQuery(constant.CacheKeyItemSearch, params, filter)

	if s.cacheEnabled() {
		if err = s.cache.Get(ctx, cacheKey, &res); err == nil {
			log.Debug().Str("cacheKey", cacheKey).Msg("cache hit for item search")

			return res, nil
		}
	}

	items, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Str("text", text).Msg("failed to search items")

		return nil, fmt.Errorf("failed to search items: %w", err)
	}

	res = dto.FromModels(items)

	s.save(ctx, cacheKey, res)

	return res, nil
}

func (s *serviceImpl) AddComment(ctx context.Context, itemID, authorID string, req dto.CommentRequest) (res dto.CommentResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Item.AddComment")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err = s.find(ctx, shared.FilterByID(itemID, model.FieldID, model.TableName), itemID); err != nil {
		return res, err
	}

	author, err := s.users.Get(ctx, shared.FilterByID(authorID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("authorID", authorID).Msg("failed to get comment author")

		return res, fmt.Errorf("failed to get comment author: %w", err)
	}

	if author.ID == "" {
		return res, failure.NotFound(fmt.Sprintf(msgUserNotFound, authorID)) // nolint:wrapcheck
	}

	bookings, err := s.bookings.GetAll(ctx, gDto.QueryParams{}, shared.FilterAll(
		gDto.Filter{Field: bookingModel.FieldItemID, Table: bookingModel.TableName, Operator: gDto.FilterOperatorEq, Value: itemID},
		gDto.Filter{Field: bookingModel.FieldBookerID, Table: bookingModel.TableName, Operator: gDto.FilterOperatorEq, Value: authorID},
	))
	if err != nil {
		log.Error().Err(err).Str("itemID", itemID).Str("authorID", authorID).Msg("failed to get bookings of comment author")

		return res, fmt.Errorf("failed to get bookings of comment author: %w", err)
	}

	if err = canComment(bookings, itemID, authorID, timezone.Now()); err != nil {
		return res, err
	}

	comment := req.ToModel(itemID, authorID, author.Name)

	if err = s.comments.Insert(ctx, comment); err != nil {
		log.Error().Err(err).Str("itemID", itemID).Msg("failed to create comment")

		return res, fmt.Errorf("failed to create comment: %w", err)
	}

	res.FromModel(comment)

	return res, nil
}

func (s *serviceImpl) RefreshBookingSummary(ctx context.Context, itemID string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Item.RefreshBookingSummary")
	defer scope.End()
	defer scope.TraceIfError(err)

	last, next, err := s.summary(ctx, itemID)
	if err != nil {
		return err
	}

	fields := map[string]any{
		model.FieldLastBookingID: nil,
		model.FieldNextBookingID: nil,
		constant.FieldModifiedAt: timezone.Now().UTC(),
	}

	if last != nil {
		fields[model.FieldLastBookingID] = last.ID
	}

	if next != nil {
		fields[model.FieldNextBookingID] = next.ID
	}

	if err = s.repo.Update(ctx, fields, shared.FilterByID(itemID, model.FieldID, model.TableName)); err != nil {
		log.Error().Err(err).Str("itemID", itemID).Msg("failed to refresh booking summary")

		return fmt.Errorf("failed to refresh booking summary: %w", err)
	}

	s.invalidate(ctx)

	return nil
}

// canComment requires an approved booking that has already ended.
func canComment(bookings []bookingModel.Booking, itemID, authorID string, now time.Time) error {
	if len(bookings) == 0 {
		return failure.BadRequestFromString(fmt.Sprintf(msgNotBooked, authorID, itemID)) // nolint:wrapcheck
	}

	approved := false

	for _, booking := range bookings {
		if booking.Status != bookingModel.StatusApproved {
			continue
		}

		approved = true

		if booking.Phase(now) == bookingModel.PhasePast {
			return nil
		}
	}

	if !approved {
		return failure.BadRequestFromString(fmt.Sprintf(msgNotApproved, authorID, itemID)) // nolint:wrapcheck
	}

	return failure.BadRequestFromString(fmt.Sprintf(msgNotCompleted, itemID)) // nolint:wrapcheck
}

// summary returns the booking that ended most recently and the one starting soonest, regardless of status.
func (s *serviceImpl) summary(ctx context.Context, itemID string) (last, next *bookingModel.Booking, err error) {
	now := timezone.Now().UTC()
	byItem := gDto.Filter{Field: bookingModel.FieldItemID, Table: bookingModel.TableName, Operator: gDto.FilterOperatorEq, Value: itemID}

	last, err = s.firstBooking(ctx,
		gDto.QueryParams{Limit: 1}.Sorted(bookingModel.TableName+"."+bookingModel.FieldEndTime, gDto.SortDirDesc),
		shared.FilterAll(byItem, gDto.Filter{Field: bookingModel.FieldEndTime, Table: bookingModel.TableName, Operator: gDto.FilterOperatorLess, Value: now}),
	)
	if err != nil {
		return nil, nil, err
	}

	next, err = s.firstBooking(ctx,
		gDto.QueryParams{Limit: 1}.Sorted(bookingModel.TableName+"."+bookingModel.FieldStartTime, gDto.SortDirAsc),
		shared.FilterAll(byItem, gDto.Filter{Field: bookingModel.FieldStartTime, Table: bookingModel.TableName, Operator: gDto.FilterOperatorGreater, Value: now}),
	)
	if err != nil {
		return nil, nil, err
	}

	return last, next, nil
}

func (s *serviceImpl) firstBooking(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (*bookingModel.Booking, error) {
	bookings, err := s.bookings.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings for summary")

		return nil, fmt.Errorf("failed to get bookings for summary: %w", err)
	}

	if len(bookings) == 0 {
		return nil, nil
	}

	return &bookings[0], nil
}

// afterWrite refreshes the summary, which also drops stale caches, and reloads the item.
func (s *serviceImpl) afterWrite(ctx context.Context, itemID string) (res dto.ItemResponse, err error) {
	if err = s.RefreshBookingSummary(ctx, itemID); err != nil {
		return res, err
	}

	item, err := s.find(ctx, shared.FilterByID(itemID, model.FieldID, model.TableName), itemID)
	if err != nil {
		return res, err
	}

	res.FromModel(item)

	return res, nil
}

func (s *serviceImpl) find(ctx context.Context, filter gDto.FilterGroup, itemID string) (model.Item, error) {
	item, err := s.repo.Get(ctx, filter)
	if err != nil {
		log.Error().Err(err).Str("id", itemID).Msg("failed to get item")

		return item, fmt.Errorf("failed to get item: %w", err)
	}

	if item.ID == "" {
		return item, failure.NotFound(fmt.Sprintf(msgItemNotFound, itemID)) // nolint:wrapcheck
	}

	return item, nil
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

func (s *serviceImpl) ensureRequest(ctx context.Context, requestID string) error {
	exist, err := s.requests.Exist(ctx, shared.FilterByID(requestID, requestModel.FieldID, requestModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("requestID", requestID).Msg("failed to check item request")

		return fmt.Errorf("failed to check item request: %w", err)
	}

	if !exist {
		return failure.NotFound(fmt.Sprintf(msgRequestNotFound, requestID)) // nolint:wrapcheck
	}

	return nil
}

func ownedBy(itemID, ownerID string) gDto.FilterGroup {
	return shared.FilterAll(
		gDto.Filter{Field: model.FieldID, Table: model.TableName, Operator: gDto.FilterOperatorEq, Value: itemID},
		gDto.Filter{Field: model.FieldOwnerID, Table: model.TableName, Operator: gDto.FilterOperatorEq, Value: ownerID},
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
			log.Error().Err(err).Str("cacheKey", key).Msg("failed to save item cache")
		}
	}()
}

// invalidate drops search results and request views, both of which embed items.
func (s *serviceImpl) invalidate(ctx context.Context) {
	if !s.cacheEnabled() {
		return
	}

	shared.InvalidateCaches(ctx, s.cache, constant.CacheKeyItemSearch)
	shared.InvalidateCaches(ctx, s.cache, constant.CacheKeyRequestGet)
}
