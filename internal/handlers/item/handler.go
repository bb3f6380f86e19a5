package item

import (
	"net/http"
	"shareit/infras/otel"
	"shareit/internal/domains/item/model/dto"
	"shareit/internal/domains/item/service"
	"shareit/shared"
	"shareit/shared/constant"
	gDto "shareit/shared/dto"
	"shareit/shared/validator"
	"shareit/transport/http/response"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"
)

type Handler struct {
	service service.Item
	otel    otel.Otel
}

func New(service service.Item, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/items", func(routerGroup chi.Router) {
		routerGroup.Get("/", handler.GetMyItems)
		routerGroup.Post("/", handler.CreateItem)
		routerGroup.Get("/search", handler.SearchItems)
		routerGroup.Get("/{id}", handler.GetItemByID)
		routerGroup.Patch("/{id}", handler.UpdateItem)
		routerGroup.Delete("/{id}", handler.DeleteItem)
		routerGroup.Post("/{id}/comment", handler.AddComment)
	})
}

// GetMyItems lists the caller's items.
// @Summary Get own items
// @Description Items of the caller with their stored last and next bookings.
// @Tags Item
// @Produce json
// @Param X-Sharer-User-Id header string true "Caller ID"
// @Success 200 {object} response.Data[[]dto.ItemResponse] "List of items"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /items [get]
func (handler *Handler) GetMyItems(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMyItems")
	defer scope.End()

	userID, err := shared.UserIDFromContext(ctx)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	items, err := handler.service.FindByOwner(ctx, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("ownerID", userID).Msg("failed to get items of owner")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, items)
}

// CreateItem handles the creation of a new item.
// @Summary Create a new item
// @Tags Item
// @Accept json
// @Produce json
// @Param X-Sharer-User-Id header string true "Owner ID"
// @Param request body dto.CreateItemRequest true "Create Item Request"
// @Success 201 {object} response.Data[dto.ItemResponse] "Created item"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /items [post]
func (handler *Handler) CreateItem(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateItem")
	defer scope.End()

	userID, err := shared.UserIDFromContext(ctx)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	req := dto.CreateItemRequest{}
	if err = validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	item, err := handler.service.Create(ctx, req, userID)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create item")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Item created successfully by user " + userID)

	response.WithJSON(writer, http.StatusCreated, item)
}

// SearchItems finds available items by text.
// @Summary Search items
// @Description Case-insensitive match on name or description of available items. Blank text returns an empty list.
// @Tags Item
// @Produce json
// @Param text query string false "Search text"
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Success 200 {object} response.Data[[]dto.ItemResponse] "Matching items"
// @Failure 500 {object} response.Error
// @Router /items/search [get]
func (handler *Handler) SearchItems(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".SearchItems")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(request, false)

	items, err := handler.service.Search(ctx, request.URL.Query().Get(constant.RequestParamText), queryParams)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to search items")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, items)
}

// GetItemByID retrieves an item with its comments and bookings.
// @Summary Get an item by ID
// @Tags Item
// @Produce json
// @Param id path string true "Item ID"
// @Success 200 {object} response.Data[dto.ItemResponse] "Item details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /items/{id} [get]
func (handler *Handler) GetItemByID(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetItemByID")
	defer scope.End()

	id := chi.URLParam(request, constant.RequestParamID)

	item, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to get item by ID")

		response.WithError(writer, err)

		return
	}

	response.WithJSON(writer, http.StatusOK, item)
}

// UpdateItem partially updates an item of the caller.
// @Summary Update an item by ID
// @Tags Item
// @Accept json
// @Produce json
// @Param X-Sharer-User-Id header string true "Owner ID"
// @Param id path string true "Item ID"
// @Param request body dto.UpdateItemRequest true "Update Item Request"
// @Success 200 {object} response.Data[dto.ItemResponse] "Updated item"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /items/{id} [patch]
func (handler *Handler) UpdateItem(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateItem")
	defer scope.End()

	userID, err := shared.UserIDFromContext(ctx)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	id := chi.URLParam(request, constant.RequestParamID)

	req := dto.UpdateItemRequest{}
	if err = validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	item, err := handler.service.Update(ctx, req, userID, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to update item")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Item updated successfully by user " + userID)

	response.WithJSON(writer, http.StatusOK, item)
}

// DeleteItem deletes an item of the caller. Items of other users are left untouched.
// @Summary Delete an item by ID
// @Tags Item
// @Param X-Sharer-User-Id header string true "Owner ID"
// @Param id path string true "Item ID"
// @Success 204
// @Failure 500 {object} response.Error
// @Router /items/{id} [delete]
func (handler *Handler) DeleteItem(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteItem")
	defer scope.End()

	userID, err := shared.UserIDFromContext(ctx)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	id := chi.URLParam(request, constant.RequestParamID)

	if err = handler.service.Delete(ctx, userID, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("id", id).Msg("failed to delete item")

		response.WithError(writer, err)

		return
	}

	response.WithNoContent(writer)
}

// AddComment lets a past booker comment on an item.
// @Summary Comment on an item
// @Description The caller needs an approved booking of the item that has already ended.
// @Tags Item
// @Accept json
// @Produce json
// @Param X-Sharer-User-Id header string true "Author ID"
// @Param id path string true "Item ID"
// @Param request body dto.CommentRequest true "Comment Request"
// @Success 200 {object} response.Data[dto.CommentResponse] "Created comment"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /items/{id}/comment [post]
func (handler *Handler) AddComment(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".AddComment")
	defer scope.End()

	userID, err := shared.UserIDFromContext(ctx)
	if err != nil {
		response.WithError(writer, err)

		return
	}

	id := chi.URLParam(request, constant.RequestParamID)

	req := dto.CommentRequest{}
	if err = validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	comment, err := handler.service.AddComment(ctx, id, userID, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Str("itemID", id).Msg("failed to add comment")

		response.WithError(writer, err)

		return
	}

	scope.AddEvent("Comment added by user " + userID)

	response.WithJSON(writer, http.StatusOK, comment)
}
