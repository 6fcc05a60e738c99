package blackout

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"salones/infras/otel"
	"salones/internal/domains/blackout/model"
	"salones/internal/domains/blackout/model/dto"
	"salones/internal/domains/blackout/service"
	"salones/shared/constant"
	gDto "salones/shared/dto"
	"salones/shared/validator"
	"salones/transport/http/response"
)

type Handler struct {
	service service.Blackout
	otel    otel.Otel
}

func New(service service.Blackout, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/blackouts", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateBlackout)
		routerGroup.Get("/", handler.GetBlackouts)
		routerGroup.Get("/occupancy", handler.GetOccupancy)
		routerGroup.Get("/{id}", handler.GetBlackoutByID)
		routerGroup.Patch("/{id}", handler.UpdateBlackout)
		routerGroup.Delete("/{id}", handler.DeleteBlackout)
	})
}

// CreateBlackout blocks one or more rooms over one or more days.
// @Summary Create a blackout
// @Description Block a room, or every room, for a time window. Weekly and monthly repetition expands into multiple occurrences, and overlapping reservations are cancelled with a notification to their owners.
// @Tags Blackout
// @Accept json
// @Produce json
// @Param request body dto.CreateBlackoutRequest true "Create Blackout Request"
// @Success 201 {object} response.Data[dto.CreateBlackoutResponse] "Created occurrences and cancelled reservation count"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/blackouts [post]
// @Security BearerAuth
func (handler *Handler) CreateBlackout(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateBlackout")
	defer scope.End()

	req := dto.CreateBlackoutRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	blackouts, err := handler.service.Create(ctx, req)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create blackout")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Blackout created successfully by user " + user)

	response.WithJSON(writer, http.StatusCreated, blackouts)
}

// GetBlackouts lists blackout windows.
// @Summary Get all blackouts
// @Description Retrieve all blackout windows with optional filtering and pagination.
// @Tags Blackout
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param room_id query string false "Filter by room ID"
// @Success 200 {object} response.Data[dto.GetBlackoutsResponse] "List of blackouts"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/blackouts [get]
// @Security BearerAuth
func (handler *Handler) GetBlackouts(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBlackouts")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if roomID := r.URL.Query().Get(model.FieldRoomID); roomID != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldRoomID,
			Operator: gDto.FilterOperatorEq,
			Value:    roomID,
			Table:    model.TableName,
		})
	}

	blackouts, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get blackouts")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Blackouts retrieved successfully")

	response.WithJSON(w, http.StatusOK, blackouts)
}

// GetOccupancy lists every occupied window in a date range.
// @Summary Get occupancy for a date range
// @Description Retrieve blackouts and active reservations in one list for a date range, projected into the same shape.
// @Tags Blackout
// @Accept json
// @Produce json
// @Param from query string false "Start date (YYYY-MM-DD), defaults to today"
// @Param to query string false "End date (YYYY-MM-DD), defaults to one month ahead"
// @Success 200 {object} response.Data[dto.GetOccupancyResponse] "Occupied windows"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/blackouts/occupancy [get]
func (handler *Handler) GetOccupancy(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetOccupancy")
	defer scope.End()

	occupancy, err := handler.service.ListOccupancy(ctx, r.URL.Query().Get("from"), r.URL.Query().Get("to"))
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get occupancy")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Occupancy retrieved successfully")

	response.WithJSON(w, http.StatusOK, occupancy)
}

// GetBlackoutByID retrieves a blackout by its ID.
// @Summary Get a blackout by ID
// @Description Retrieve a blackout window by its unique identifier.
// @Tags Blackout
// @Accept json
// @Produce json
// @Param id path string true "Blackout ID"
// @Success 200 {object} response.Data[dto.BlackoutResponse] "Blackout details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/blackouts/{id} [get]
// @Security BearerAuth
func (handler *Handler) GetBlackoutByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetBlackoutByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	blackout, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get blackout by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Blackout retrieved successfully")

	response.WithJSON(w, http.StatusOK, blackout)
}

// UpdateBlackout moves or relabels a single blackout occurrence.
// @Summary Update a blackout by ID
// @Description Update one blackout occurrence. Repetition is fixed at creation. Newly overlapped reservations are cancelled.
// @Tags Blackout
// @Accept json
// @Produce json
// @Param id path string true "Blackout ID"
// @Param request body dto.UpdateBlackoutRequest true "Update Blackout Request"
// @Success 200 {object} response.Message "Blackout updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/blackouts/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateBlackout(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateBlackout")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateBlackoutRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update blackout")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Blackout updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Blackout updated successfully")
}

// DeleteBlackout removes a blackout occurrence.
// @Summary Delete a blackout by ID
// @Description Delete a blackout window using its unique identifier.
// @Tags Blackout
// @Accept json
// @Produce json
// @Param id path string true "Blackout ID"
// @Success 200 {object} response.Message "Blackout deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/blackouts/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteBlackout(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteBlackout")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete blackout")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Blackout deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Blackout deleted successfully")
}
