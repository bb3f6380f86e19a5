package request

import (
	"net/http"
	"shareit/infras/otel"
	"shareit/internal/domains/request/model/dto"
	"shareit/internal/domains/request/service"
	"shareit/shared"
	"shareit/shared/constant"
	gDto "shareit/shared/dto"
	"shareit/shared/validator"
	"shareit/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Request
	otel    otel.Otel
}

func New(service service.Request, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/requests", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetMyRequests)
		routerGroup.Post("/", handler.CreateRequest)
		routerGroup.Get("/all", handler.GetOtherRequests)
		routerGroup.Get("/{id}", handler.GetRequestByID)
		routerGroup.Patch("/{id}", handler.UpdateRequest)
		routerGroup.Delete("/{id}", handler.DeleteRequest)
	})
}

// GetMyRequests lists the caller's requests, newest first.
// @Summary Get own item requests
// @Tags Request
// @Produce json
// @Param X-Sharer-User-Id header string true "Requester ID"
// @Success 200 {object} response.Data[[]dto.RequestResponse] "List of requests"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /requests [get]
func (handler *Handler) GetMyRequests(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyRequests")
	defer scope.End()

	userID, err := shared.UserIDFromContext(ctx)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	requests, err := handler.service.FindByUser(ctx, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("userID", userID).Msg("failed to get item requests of user")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, requests)
}

// GetOtherRequests is the feed of requests posted by everyone except the caller.
// @Summary Get requests of other users
// @Tags Request
// @Produce json
// @Param X-Sharer-User-Id header string true "Caller ID"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[[]dto.RequestResponse] "List of requests"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /requests/all [get]
func (handler *Handler) GetOtherRequests(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOtherRequests")
	defer scope.End()

	userID, err := shared.UserIDFromContext(ctx)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, false)

	requests, err := handler.service.GetAllExceptUser(ctx, userID, queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get item requests")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, requests)
}

// GetRequestByID retrieves one request with the items offered for it.
// @Summary Get an item request by ID
// @Tags Request
// @Produce json
// @Param id path string true "Request ID"
// @Success 200 {object} response.Data[dto.RequestResponse] "Request details"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /requests/{id} [get]
func (handler *Handler) GetRequestByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetRequestByID")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	itemRequest, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to get item request by ID")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, itemRequest)
}

// CreateRequest posts a new request for an item.
// @Summary Create an item request
// @Tags Request
// @Accept json
// @Produce json
// @Param X-Sharer-User-Id header string true "Requester ID"
// @Param request body dto.CreateRequestRequest true "Create Request"
// @Success 201 {object} response.Data[dto.RequestResponse] "Created request"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /requests [post]
func (handler *Handler) CreateRequest(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateRequest")
	defer scope.End()

	userID, err := shared.UserIDFromContext(ctx)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	req := dto.CreateRequestRequest{}
	if err = validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	itemRequest, err := handler.service.Create(ctx, req, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create item request")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Item request created by user " + userID)

	response.WithJSON(writer, http.StatusCreated, itemRequest)
}

// UpdateRequest partially updates a request of the caller.
// @Summary Update an item request by ID
// @Tags Request
// @Accept json
// @Produce json
// @Param X-Sharer-User-Id header string true "Requester ID"
// @Param id path string true "Request ID"
// @Param request body dto.UpdateRequestRequest true "Update Request"
// @Success 200 {object} response.Data[dto.RequestResponse] "Updated request"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /requests/{id} [patch]
func (handler *Handler) UpdateRequest(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateRequest")
	defer scope.End()

	userID, err := shared.UserIDFromContext(ctx)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	id := chi.URLParam(request, constant.RequestParamID)

	req := dto.UpdateRequestRequest{}
	if err = validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	itemRequest, err := handler.service.Update(ctx, req, userID, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to update item request")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, itemRequest)
}

// DeleteRequest deletes a request of the caller.
// @Summary Delete an item request by ID
// @Tags Request
// @Param X-Sharer-User-Id header string true "Requester ID"
// @Param id path string true "Request ID"
// @Success 204
// @Failure 500 {object} response.Error
// @Router /requests/{id} [delete]
func (handler *Handler) DeleteRequest(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteRequest")
	defer scope.End()

	userID, err := shared.UserIDFromContext(ctx)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	id := chi.URLParam(request, constant.RequestParamID)

	if err = handler.service.Delete(ctx, userID, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to delete item request")

		response.WithError(writer, err)

		return
	}

	response.WithNoContent(writer)
}
