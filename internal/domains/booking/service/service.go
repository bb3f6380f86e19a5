package service

import (
	"context"
	"fmt"
	"shareit/config"
	"shareit/infras/kafka"
	"shareit/infras/metrics"
	"shareit/infras/otel"
	"shareit/internal/domains/booking/model"
	"shareit/internal/domains/booking/model/dto"
	"shareit/internal/domains/booking/repository"
	itemModel "shareit/internal/domains/item/model"
	itemRepo "shareit/internal/domains/item/repository"
	userModel "shareit/internal/domains/user/model"
	userRepo "shareit/internal/domains/user/repository"
	"shareit/shared"
	"shareit/shared/constant"
	gDto "shareit/shared/dto"
	"shareit/shared/failure"
	"shareit/shared/timezone"
	"time"

	"github.com/rs/zerolog/log"
)

const (
	msgWindowRequired   = "Booking start and end must be provided"
	msgUserNotFound     = "User with id %s not found"
	msgItemNotFound     = "Item with id %s not found"
	msgItemUnavailable  = "Item with id %s is not available"
	msgOwnerBooking     = "Owner cannot book their own item"
	msgInvalidDates     = "Invalid booking dates"
	msgBookingNotFound  = "Booking with id %s not found"
	msgOnlyOwnerApprove = "Only the owner can approve the booking"
	msgNotWaiting       = "Booking status is not WAITING"
	msgUnknownState     = "Unknown state: %s"
)

type Booking interface {
	Create(ctx context.Context, req dto.CreateBookingRequest, bookerID string) (dto.BookingResponse, error)
	Approve(ctx context.Context, bookingID, userID string, approved bool) (dto.BookingResponse, error)
	Get(ctx context.Context, bookingID, userID string) (dto.BookingResponse, error)
	GetByOwner(ctx context.Context, ownerID string, params gDto.QueryParams) ([]dto.BookingResponse, error)
	GetByBooker(ctx context.Context, bookerID, state string, params gDto.QueryParams) ([]dto.BookingResponse, error)
}

type serviceImpl struct {
	repo    repository.Booking
	users   userRepo.User
	items   itemRepo.Item
	kafka   kafka.Client
	metrics metrics.Metrics
	cfg     *config.Config
	otel    otel.Otel
}

func New(
	repo repository.Booking,
	users userRepo.User,
	items itemRepo.Item,
	kafka kafka.Client,
	metrics metrics.Metrics,
	cfg *config.Config,
	otel otel.Otel,
) Booking {
	return &serviceImpl{
		repo:    repo,
		users:   users,
		items:   items,
		kafka:   kafka,
		metrics: metrics,
		cfg:     cfg,
		otel:    otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBookingRequest, bookerID string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Booking.Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	if req.Start == nil || req.End == nil {
		return res, failure.BadRequestFromString(msgWindowRequired) // nolint:wrapcheck
	}

	booker, err := s.users.Get(ctx, shared.FilterByID(bookerID, userModel.FieldID, userModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("bookerID", bookerID).Msg("failed to get booker")

		return res, fmt.Errorf("failed to get booker: %w", err)
	}

	if booker.ID == "" {
		return res, failure.NotFound(fmt.Sprintf(msgUserNotFound, bookerID)) // nolint:wrapcheck
	}

	item, err := s.items.Get(ctx, shared.FilterByID(req.ItemID, itemModel.FieldID, itemModel.TableName))
	if err != nil {
		log.Error().Err(err).Str("itemID", req.ItemID).Msg("failed to get item")

		return res, fmt.Errorf("failed to get item: %w", err)
	}

	if item.ID == "" {
		return res, failure.NotFound(fmt.Sprintf(msgItemNotFound, req.ItemID)) // nolint:wrapcheck
	}

	if !item.Available {
		return res, failure.BadRequestFromString(fmt.Sprintf(msgItemUnavailable, item.ID)) // nolint:wrapcheck
	}

	// Booking your own item is reported as a missing item.
	if item.OwnerID == bookerID {
		return res, failure.NotFound(msgOwnerBooking) // nolint:wrapcheck
	}

	if !req.Start.Before(req.End.Time) {
		return res, failure.BadRequestFromString(msgInvalidDates) // nolint:wrapcheck
	}

	booking := req.ToModel(bookerID)

	if err = s.repo.Insert(ctx, booking); err != nil {
		log.Error().Err(err).Msg("failed to create booking")

		return res, fmt.Errorf("failed to create booking: %w", err)
	}

	booking.ItemName = item.Name
	booking.ItemOwnerID = item.OwnerID
	booking.BookerName = booker.Name
	booking.BookerEmail = booker.Email

	s.transition(ctx, model.EventCreated, booking)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Approve(ctx context.Context, bookingID, userID string, approved bool) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Booking.Approve")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.find(ctx, bookingID)
	if err != nil {
		return res, err
	}

	if booking.ItemOwnerID != userID {
		return res, failure.Forbidden(msgOnlyOwnerApprove) // nolint:wrapcheck
	}

	if booking.Status != model.StatusWaiting {
		return res, failure.BadRequestFromString(msgNotWaiting) // nolint:wrapcheck
	}

	status, event := model.StatusRejected, model.EventRejected
	if approved {
		status, event = model.StatusApproved, model.EventApproved
	}

	fields := map[string]any{
		model.FieldStatus:        status,
		constant.FieldModifiedAt: timezone.Now().UTC(),
		constant.FieldModifiedBy: userID,
	}

	// The status guard makes a concurrent second decision match no rows.
	filter := shared.FilterAll(
		gDto.Filter{Field: model.FieldID, Table: model.TableName, Operator: gDto.FilterOperatorEq, Value: bookingID},
		gDto.Filter{Field: model.FieldStatus, Table: model.TableName, ArgName: "current_status", Operator: gDto.FilterOperatorEq, Value: model.StatusWaiting},
	)

	affected, err := s.repo.UpdateAffected(ctx, fields, filter)
	if err != nil {
		log.Error().Err(err).Str("id", bookingID).Msg("failed to update booking status")

		return res, fmt.Errorf("failed to update booking status: %w", err)
	}

	if affected == 0 {
		return res, failure.BadRequestFromString(msgNotWaiting) // nolint:wrapcheck
	}

	booking.Status = status

	s.transition(ctx, event, booking)

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, bookingID, userID string) (res dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Booking.Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	booking, err := s.find(ctx, bookingID)
	if err != nil {
		return res, err
	}

	if booking.BookerID != userID && booking.ItemOwnerID != userID {
		return res, failure.NotFound(fmt.Sprintf(msgBookingNotFound, bookingID)) // nolint:wrapcheck
	}

	res.FromModel(booking)

	return res, nil
}

func (s *serviceImpl) GetByOwner(ctx context.Context, ownerID string, params gDto.QueryParams) (res []dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Booking.GetByOwner")
	defer scope.End()
	defer scope.TraceIfError(err)

	if err = s.ensureUser(ctx, ownerID); err != nil {
		return nil, err
	}

	filter := gDto.FilterGroup{
		Filters: []any{
			gDto.Filter{Field: model.FieldItemOwner, Table: model.TableItems, ArgName: "owner_id", Operator: gDto.FilterOperatorEq, Value: ownerID},
		},
	}

	return s.list(ctx, params, filter)
}

func (s *serviceImpl) GetByBooker(ctx context.Context, bookerID, state string, params gDto.QueryParams) (res []dto.BookingResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Booking.GetByBooker")
	defer scope.End()
	defer scope.TraceIfError(err)

	parsed, ok := model.ParseState(state)
	if !ok {
		return nil, failure.BadRequestFromString(fmt.Sprintf(msgUnknownState, state)) // nolint:wrapcheck
	}

	if err = s.ensureUser(ctx, bookerID); err != nil {
		return nil, err
	}

	return s.list(ctx, params, stateFilter(bookerID, parsed, timezone.Now().UTC()))
}

// stateFilter selects the bookings of bookerID in the given state as of now.
func stateFilter(bookerID string, state model.State, now time.Time) gDto.FilterGroup {
	filters := []any{
		gDto.Filter{Field: model.FieldBookerID, Table: model.TableName, Operator: gDto.FilterOperatorEq, Value: bookerID},
	}

	switch state {
	case model.StateCurrent:
		filters = append(filters,
			gDto.Filter{Field: model.FieldStartTime, Table: model.TableName, ArgName: "now_start", Operator: gDto.FilterOperatorLessEq, Value: now},
			gDto.Filter{Field: model.FieldEndTime, Table: model.TableName, ArgName: "now_end", Operator: gDto.FilterOperatorGreaterEq, Value: now},
		)
	case model.StatePast:
		filters = append(filters,
			gDto.Filter{Field: model.FieldEndTime, Table: model.TableName, ArgName: "now_end", Operator: gDto.FilterOperatorLess, Value: now},
		)
	case model.StateFuture:
		filters = append(filters,
			gDto.Filter{Field: model.FieldStartTime, Table: model.TableName, ArgName: "now_start", Operator: gDto.FilterOperatorGreater, Value: now},
		)
	case model.StateWaiting:
		filters = append(filters,
			gDto.Filter{Field: model.FieldStatus, Table: model.TableName, Operator: gDto.FilterOperatorEq, Value: model.StatusWaiting},
		)
	case model.StateRejected:
		filters = append(filters,
			gDto.Filter{Field: model.FieldStatus, Table: model.TableName, Operator: gDto.FilterOperatorEq, Value: model.StatusRejected},
		)
	case model.StateAll:
	}

	return shared.FilterAll(filters...)
}

func (s *serviceImpl) list(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) ([]dto.BookingResponse, error) {
	params = params.Sorted(model.TableName+"."+model.FieldStartTime, gDto.SortDirDesc)

	bookings, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get bookings")

		return nil, fmt.Errorf("failed to get bookings: %w", err)
	}

	return dto.FromModels(bookings), nil
}

func (s *serviceImpl) find(ctx context.Context, bookingID string) (model.Booking, error) {
	booking, err := s.repo.Get(ctx, shared.FilterByID(bookingID, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Str("id", bookingID).Msg("failed to get booking")

		return booking, fmt.Errorf("failed to get booking: %w", err)
	}

	if booking.ID == "" {
		return booking, failure.NotFound(fmt.Sprintf(msgBookingNotFound, bookingID)) // nolint:wrapcheck
	}

	return booking, nil
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

// transition counts the new status and publishes the event. Publishing is best-effort.
func (s *serviceImpl) transition(ctx context.Context, eventType string, booking model.Booking) {
	s.metrics.RecordBookingTransition(booking.Status)

	ctx, scope := s.otel.NewScope(ctx, constant.OtelEventScopeName, constant.OtelEventScopeName+".Booking."+eventType)
	defer scope.End()

	message := kafka.Message{
		Key:   booking.ID,
		Value: dto.NewEvent(eventType, booking),
	}

	if err := s.kafka.SendMessages(ctx, s.cfg.Kafka.Topic.Booking, message); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("bookingID", booking.ID).Str("event", eventType).Msg("failed to publish booking event")
	}
}
