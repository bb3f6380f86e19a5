package booking

import (
	"net/http"
	"shareit/infras/otel"
	"shareit/internal/domains/booking/model/dto"
	"shareit/internal/domains/booking/service"
	itemService "shareit/internal/domains/item/service"
	"shareit/shared"
	"shareit/shared/constant"
	gDto "shareit/shared/dto"
	"shareit/shared/failure"
	"shareit/shared/validator"
	"shareit/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Booking
	items   itemService.Item
	otel    otel.Otel
}

func New(service service.Booking, items itemService.Item, otel otel.Otel) Handler {
	return Handler{
		service: service,
		items:   items,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/bookings", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBooking)
		routerGroup.Get("/", handler.GetMyBookings)
		routerGroup.Get("/owner", handler.GetOwnerBookings)
		routerGroup.Get("/{id}", handler.GetBookingByID)
		routerGroup.Patch("/{id}", handler.ApproveBooking)
	})
}

// CreateBooking handles the creation of a new booking.
// @Summary Create a new booking
// @Description Book an available item of another user. The booking starts in WAITING status.
// @Tags Booking
// @Accept json
// @Produce json
// @Param X-Sharer-User-Id header string true "Booker ID"
// @Param request body dto.CreateBookingRequest true "Create Booking Request"
// @Success 201 {object} response.Data[dto.BookingResponse] "Created booking"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /bookings [post]
func (handler *Handler) CreateBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBooking")
	defer scope.End()

	userID, err := shared.UserIDFromContext(ctx)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	req := dto.CreateBookingRequest{}
	if err = validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	booking, err := handler.service.Create(ctx, req, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create booking")

		response.WithError(writer, err)

		return
	}

	if err = handler.items.RefreshBookingSummary(ctx, booking.Item.ID); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("itemID", booking.Item.ID).Msg("failed to refresh booking summary")
	}

	scope.AddEvent("Booking created successfully by user " + userID)

	response.WithJSON(writer, http.StatusCreated, booking)
}

// ApproveBooking lets the item owner approve or reject a waiting booking.
// @Summary Approve or reject a booking
// @Tags Booking
// @Produce json
// @Param X-Sharer-User-Id header string true "Owner ID"
// @Param id path string true "Booking ID"
// @Param approved query bool true "Decision"
// @Success 200 {object} response.Data[dto.BookingResponse] "Decided booking"
// @Failure 400 {object} response.Error
// @Failure 403 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /bookings/{id} [patch]
func (handler *Handler) ApproveBooking(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".ApproveBooking")
	defer scope.End()

	userID, err := shared.UserIDFromContext(ctx)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	id := chi.URLParam(request, constant.RequestParamID)

	approved := shared.ConvertStringToBool(request.URL.Query().Get(constant.RequestParamApproved))
	if approved == nil {
		response.WithError(writer, failure.BadRequestFromString("Parameter approved must be true or false"))

		return
	}

	booking, err := handler.service.Approve(ctx, id, userID, *approved)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to approve booking")

		response.WithError(writer, err)

		return
	}

	if err = handler.items.RefreshBookingSummary(ctx, booking.Item.ID); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("itemID", booking.Item.ID).Msg("failed to refresh booking summary")
	}

	scope.AddEvent("Booking " + booking.Status + " by user " + userID)

	response.WithJSON(writer, http.StatusOK, booking)
}

// GetBookingByID retrieves a booking visible to its booker or the item owner.
// @Summary Get a booking by ID
// @Tags Booking
// @Produce json
// @Param X-Sharer-User-Id header string true "Caller ID"
// @Param id path string true "Booking ID"
// @Success 200 {object} response.Data[dto.BookingResponse] "Booking details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /bookings/{id} [get]
func (handler *Handler) GetBookingByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBookingByID")
	defer scope.End()

	userID, err := shared.UserIDFromContext(ctx)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	id := chi.URLParam(request, constant.RequestParamID)

	booking, err := handler.service.Get(ctx, id, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to get booking by ID")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, booking)
}

// GetMyBookings lists the caller's bookings in the requested state.
// @Summary Get own bookings
// @Tags Booking
// @Produce json
// @Param X-Sharer-User-Id header string true "Booker ID"
// @Param state query string false "ALL, CURRENT, PAST, FUTURE, WAITING or REJECTED"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[[]dto.BookingResponse] "List of bookings"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /bookings [get]
func (handler *Handler) GetMyBookings(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyBookings")
	defer scope.End()

	userID, err := shared.UserIDFromContext(ctx)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, false)

	bookings, err := handler.service.GetByBooker(ctx, userID, request.URL.Query().Get(constant.RequestParamState), queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("bookerID", userID).Msg("failed to get bookings of booker")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, bookings)
}

// GetOwnerBookings lists bookings on the caller's items.
// @Summary Get bookings of own items
// @Tags Booking
// @Produce json
// @Param X-Sharer-User-Id header string true "Owner ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[[]dto.BookingResponse] "List of bookings"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /bookings/owner [get]
func (handler *Handler) GetOwnerBookings(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOwnerBookings")
	defer scope.End()

	userID, err := shared.UserIDFromContext(ctx)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, false)

	bookings, err := handler.service.GetByOwner(ctx, userID, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("ownerID", userID).Msg("failed to get bookings of owner")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, bookings)
}
