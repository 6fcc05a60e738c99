package material

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"salones/infras/otel"
	"salones/internal/domains/material/model"
	"salones/internal/domains/material/model/dto"
	"salones/internal/domains/material/service"
	"salones/shared/constant"
	gDto "salones/shared/dto"
	"salones/shared/validator"
	"salones/transport/http/response"
)

type Handler struct {
	service service.Material
	otel    otel.Otel
}

func New(service service.Material, otel otel.Otel) Handler {
	return Handler{
		service: service,
		otel:    otel,
	}
}

func (handler *Handler) Router(router chi.Router) {
	router.Route("/materials", func(routerGroup chi.Router) {
		routerGroup.Post("/", handler.CreateMaterial)
		routerGroup.Get("/", handler.GetMaterials)
		routerGroup.Get("/{id}", handler.GetMaterialByID)
		routerGroup.Patch("/{id}", handler.UpdateMaterial)
		routerGroup.Delete("/{id}", handler.DeleteMaterial)
	})
}

// CreateMaterial adds a material to the catalog.
// @Summary Create a new material
// @Description Add a new material to the catalog with a unique name.
// @Tags Material
// @Accept json
// @Produce json
// @Param request body dto.CreateMaterialRequest true "Create Material Request"
// @Success 201 {object} response.Message "Material created successfully"
// @Failure 400 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/materials [post]
// @Security BearerAuth
func (handler *Handler) CreateMaterial(writer http.ResponseWriter, request *http.Request) {
	ctx, scope := handler.otel.NewScope(request.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".CreateMaterial")
	defer scope.End()

	req := dto.CreateMaterialRequest{}

	if err := validator.Validate(request.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(writer, err)

		return
	}

	if err := handler.service.Create(ctx, req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to create material")

		response.WithError(writer, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Material created successfully by user " + user)

	response.WithMessage(writer, http.StatusCreated, "Material created successfully")
}

// GetMaterials lists the material catalog.
// @Summary Get all materials
// @Description Retrieve all materials with optional filtering and pagination.
// @Tags Material
// @Accept json
// @Produce json
// @Param pagination query gDto.QueryParams false "Pagination parameters"
// @Param name query string false "Filter by material name"
// @Success 200 {object} response.Data[dto.GetMaterialsResponse] "List of materials"
// @Failure 400 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/materials [get]
func (handler *Handler) GetMaterials(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMaterials")
	defer scope.End()

	queryParams := gDto.QueryParams{}
	queryParams.FromRequest(r, true)

	filterGroup := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters:  []any{},
	}

	if name := r.URL.Query().Get(model.FieldName); name != "" {
		filterGroup.Filters = append(filterGroup.Filters, gDto.Filter{
			Field:    model.FieldName,
			Operator: gDto.FilterOperatorLike,
			Value:    name,
			Table:    model.TableName,
		})
	}

	materials, err := handler.service.GetAll(ctx, queryParams, filterGroup)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get materials")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Materials retrieved successfully")

	response.WithJSON(w, http.StatusOK, materials)
}

// GetMaterialByID retrieves a material by its ID.
// @Summary Get a material by ID
// @Description Retrieve a material by its unique identifier.
// @Tags Material
// @Accept json
// @Produce json
// @Param id path string true "Material ID"
// @Success 200 {object} response.Data[dto.MaterialResponse] "Material details"
// @Failure 404 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/materials/{id} [get]
func (handler *Handler) GetMaterialByID(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".GetMaterialByID")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	material, err := handler.service.Get(ctx, id)
	if err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to get material by ID")

		response.WithError(w, err)

		return
	}

	scope.AddEvent("Material retrieved successfully")

	response.WithJSON(w, http.StatusOK, material)
}

// UpdateMaterial renames a material.
// @Summary Update a material by ID
// @Description Update the name of an existing material.
// @Tags Material
// @Accept json
// @Produce json
// @Param id path string true "Material ID"
// @Param request body dto.UpdateMaterialRequest true "Update Material Request"
// @Success 200 {object} response.Message "Material updated successfully"
// @Failure 400 {object} response.Error
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/materials/{id} [patch]
// @Security BearerAuth
func (handler *Handler) UpdateMaterial(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".UpdateMaterial")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	req := dto.UpdateMaterialRequest{}
	if err := validator.Validate(r.Body, &req); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to validate request body")

		response.WithError(w, err)

		return
	}

	if err := handler.service.Update(ctx, req, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to update material")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Material updated successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Material updated successfully")
}

// DeleteMaterial removes an unreferenced material from the catalog.
// @Summary Delete a material by ID
// @Description Delete a material using its unique identifier. Materials referenced by inventories or reservations cannot be deleted.
// @Tags Material
// @Accept json
// @Produce json
// @Param id path string true "Material ID"
// @Success 200 {object} response.Message "Material deleted successfully"
// @Failure 404 {object} response.Error
// @Failure 409 {object} response.Error
// @Failure 500 {object} response.Error
// @Router /v1/materials/{id} [delete]
// @Security BearerAuth
func (handler *Handler) DeleteMaterial(w http.ResponseWriter, r *http.Request) {
	ctx, scope := handler.otel.NewScope(r.Context(), constant.OtelHandlerScopeName, constant.OtelHandlerScopeName+".DeleteMaterial")
	defer scope.End()

	id := chi.URLParam(r, constant.RequestParamID)

	if err := handler.service.Delete(ctx, id); err != nil {
		scope.TraceError(err)
		log.Error().Err(err).Msg("failed to delete material")

		response.WithError(w, err)

		return
	}

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	scope.AddEvent("Material deleted successfully by user " + user)

	response.WithMessage(w, http.StatusOK, "Material deleted successfully")
}
