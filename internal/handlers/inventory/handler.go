package inventory

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"salones/infras/otel"
	"salones/internal/domains/inventory/model"
	"salones/internal/domains/inventory/model/dto"
	"salones/internal/domains/inventory/service"
	"salones/shared/constant"
	gDto "salones/shared/dto"
	"salones/shared/failure"
	"salones/shared/validator"
	"salones/transport/http/response"
)

type Handler struct {
	service service.Inventory
	otel    otel.Otel
}

func New(service service.Inventory, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/inventories", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateInventory)
		routerGroup.Get("/", handler.GetInventories)
		routerGroup.Get("/availability", handler.GetAvailability)
		routerGroup.Get("/{id}", handler.GetInventoryByID)
		routerGroup.Patch("/{id}", handler.UpdateInventory)
		routerGroup.Delete("/{id}", handler.DeleteInventory)
	})
}

// CreateInventory assigns a material quantity to a room.
// @Summary Create a room inventory entry
// @Description Assign a stock ceiling of a material to a room. Each room and material pair is unique.
// @Tags Inventory
// @Accept json
// @Produce json
// @Param request body dto.CreateInventoryRequest true "Create Inventory Request"
// @Success 201 {object} response.Message "Inventory created successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/inventories [post]
// @Security BearerAuth
func (handler *Handler) CreateInventory(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateInventory")
	defer scope.End()

	req := dto.CreateInventoryRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create inventory")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Inventory created successfully by user " + user)

	response.WithMessage(writer, http.StatusCreated, "Inventory created successfully")
}

// GetInventories lists room inventory entries.
// @Summary Get all inventories
// @Description Retrieve all room inventory entries with optional filtering and pagination.
// @Tags Inventory
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param room_id query string false "Filter by room ID"
// @Param material_id query string false "Filter by material ID"
// @Success 200 {object} response.Data[dto.GetInventoriesResponse] "List of inventories"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/inventories [get]
func (handler *Handler) GetInventories(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetInventories")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	for _, field := range []string{model.FieldRoomID, model.FieldMaterialID} {
		if value := r.URL.Query().Get(field); value != "" {
			filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
				Field:    field,
				Operator: gDto.FilterOperatorEq,
				Value:    value,
				Table:    model.TableName,
			})
		}
	}

	inventories, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get inventories")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Inventories retrieved successfully")

	response.WithJSON(w, http.StatusOK, inventories)
}

// GetAvailability shows per-material availability for a teaching block.
// @Summary Get material availability for a block
// @Description Retrieve capacity, committed demand and remaining availability per room and material for a date and teaching block.
// @Tags Inventory
// @Accept json
// @Produce json
// @Param date query string true "Date (YYYY-MM-DD)"
// @Param block query int true "Teaching block number"
// @Param room_id query string false "Restrict to one room"
// @Success 200 {object} response.Data[dto.GetAvailabilityResponse] "Availability per room and material"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/inventories/availability [get]
func (handler *Handler) GetAvailability(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetAvailability")
	defer scope.End()

	block, err := strconv.Atoi(r.URL.Query().Get("block"))
	if err != nil {
		scope.TraceError(err)

		response.WithError(w, failure.BadRequestFromString("Bloque inválido."))

		return
	}

	availability, err := handler.service.GetAvailability(ctx, r.URL.Query().Get("date"), block, r.URL.Query().Get(model.FieldRoomID))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get availability")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Availability retrieved successfully")

	response.WithJSON(w, http.StatusOK, availability)
}

// GetInventoryByID retrieves an inventory entry by its ID.
// @Summary Get an inventory entry by ID
// @Description Retrieve a room inventory entry by its unique identifier.
// @Tags Inventory
// @Accept json
// @Produce json
// @Param id path string true "Inventory ID"
// @Success 200 {object} response.Data[dto.InventoryResponse] "Inventory details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/inventories/{id} [get]
func (handler *Handler) GetInventoryByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetInventoryByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	inventory, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get inventory by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Inventory retrieved successfully")

	response.WithJSON(w, http.StatusOK, inventory)
}

// UpdateInventory changes the stock ceiling of an entry.
// @Summary Update an inventory entry by ID
// @Description Update the quantity of an existing room inventory entry.
// @Tags Inventory
// @Accept json
// @Produce json
// @Param id path string true "Inventory ID"
// @Param request body dto.UpdateInventoryRequest true "Update Inventory Request"
// @Success 200 {object} response.Message "Inventory updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/inventories/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateInventory(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateInventory")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateInventoryRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update inventory")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Inventory updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Inventory updated successfully")
}

// DeleteInventory removes an inventory entry.
// @Summary Delete an inventory entry by ID
// @Description Delete a room inventory entry using its unique identifier.
// @Tags Inventory
// @Accept json
// @Produce json
// @Param id path string true "Inventory ID"
// @Success 200 {object} response.Message "Inventory deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/inventories/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteInventory(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteInventory")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete inventory")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Inventory deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Inventory deleted successfully")
}
