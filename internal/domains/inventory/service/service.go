package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"salones/config"
	"salones/infras/otel"
	"salones/internal/domains/inventory/model"
	"salones/internal/domains/inventory/model/dto"
	"salones/internal/domains/inventory/repository"
	materialModel "salones/internal/domains/material/model"
	materialRepo "salones/internal/domains/material/repository"
	roomModel "salones/internal/domains/room/model"
	roomRepo "salones/internal/domains/room/repository"
	"salones/shared"
	"salones/shared/cache"
	"salones/shared/constant"
	gDto "salones/shared/dto"
	"salones/shared/failure"
	"salones/shared/schedule"
	"salones/shared/timezone"
)

const (
	cacheGetInventory    = "inventory:get"
	cacheGetAllInventory = "inventory:gets"
	cacheCountInventory  = "inventory:count"
)

type Inventory interface {
	Create(ctx context.Context, req dto.CreateInventoryRequest) error
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetInventoriesResponse, error)
	Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (int, error)
	Get(ctx context.Context, id string) (dto.InventoryResponse, error)
	Update(ctx context.Context, req dto.UpdateInventoryRequest, id string) error
	Delete(ctx context.Context, id string) error
	GetAvailability(ctx context.Context, date string, blockNumber int, roomID string) (dto.GetAvailabilityResponse, error)
}

type serviceImpl struct {
	repo      repository.Inventory
	rooms     roomRepo.Room
	materials materialRepo.Material
	cfg       *config.Config
	cache     cache.RedisCache
	otel      otel.Otel
}

func New(repo repository.Inventory, rooms roomRepo.Room, materials materialRepo.Material, cfg *config.Config, cache cache.RedisCache, otel otel.Otel) Inventory {
	return &serviceImpl{
		repo:      repo,
		rooms:     rooms,
		materials: materials,
		cfg:       cfg,
		cache:     cache,
		otel:      otel,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateInventoryRequest) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	roomExists, err := s.rooms.Exist(ctx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if room exists")

		return fmt.Errorf("failed to check if room exists: %w", err)
	}

	if !roomExists {
		return failure.NotFound("Salón no encontrado.") // nolint:wrapcheck
	}

	materialExists, err := s.materials.Exist(ctx, shared.FilterByID(req.MaterialID, materialModel.FieldID, materialModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if material exists")

		return fmt.Errorf("failed to check if material exists: %w", err)
	}

	if !materialExists {
		return failure.NotFound("Material no encontrado.") // nolint:wrapcheck
	}

	pairFilter := gDto.FilterGroup{
		Operator: gDto.FilterGroupOperatorAnd,
		Filters: []any{
			gDto.Filter{
				Field:    model.FieldRoomID,
				Operator: gDto.FilterOperatorEq,
				Value:    req.RoomID,
				Table:    model.TableName,
			},
			gDto.Filter{
				Field:    model.FieldMaterialID,
				Operator: gDto.FilterOperatorEq,
				Value:    req.MaterialID,
				Table:    model.TableName,
			},
		},
	}

	exists, err := s.repo.Exist(ctx, pairFilter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if inventory exists")

		return fmt.Errorf("failed to check if inventory exists: %w", err)
	}

	if exists {
		return failure.Conflict("El salón ya tiene ese material en su inventario.") // nolint:wrapcheck
	}

	if err = s.repo.Insert(ctx, req.ToModel(user)); err != nil {
		log.Error().Err(err).Msg("failed to create inventory")

		return fmt.Errorf("failed to create inventory: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllInventory)
		shared.InvalidateCaches(c, s.cache, cacheCountInventory)
	}()

	return nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetInventoriesResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllInventory, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for inventories")

		return res, nil
	}

	total, err := s.Count(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count inventories")

		return res, fmt.Errorf("failed to count inventories: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get inventories")

		return res, fmt.Errorf("failed to get inventories: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save inventories to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Count(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Count")
	defer scope.End()
	defer scope.TraceIfError(err)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheCountInventory, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	res, err = s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count inventories")

		return res, fmt.Errorf("failed to count inventories: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save inventory count to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.InventoryResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(nil)

	cacheKey := shared.BuildCacheKey(cacheGetInventory, id)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		return res, nil
	}

	inventory, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get inventory")

		return res, fmt.Errorf("failed to get inventory: %w", err)
	}

	if inventory.ID == constant.Empty {
		return res, failure.NotFound("Inventario no encontrado.") // nolint:wrapcheck
	}

	res.FromModel(inventory)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save inventory to cache")
		}
	}()

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateInventoryRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if inventory exists")

		return fmt.Errorf("failed to check if inventory exists: %w", err)
	}

	if !exist {
		return failure.NotFound("Inventario no encontrado.") // nolint:wrapcheck
	}

	updatedFields := shared.TransformFields(req, user)
	if err = s.repo.Update(ctx, updatedFields, filter); err != nil {
		log.Error().Err(err).Msg("failed to update inventory")

		return fmt.Errorf("failed to update inventory: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetInventory)
		shared.InvalidateCaches(c, s.cache, cacheGetAllInventory)
	}()

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if inventory exists")

		return fmt.Errorf("failed to check if inventory exists: %w", err)
	}

	if !exist {
		return failure.NotFound("Inventario no encontrado.") // nolint:wrapcheck
	}

	if err = s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete inventory")

		return fmt.Errorf("failed to delete inventory: %w", err)
	}

	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetInventory)
		shared.InvalidateCaches(c, s.cache, cacheGetAllInventory)
		shared.InvalidateCaches(c, s.cache, cacheCountInventory)
	}()

	return nil
}

// GetAvailability reports, for every inventory line, how much of the material
// is still free during the given teaching block of the given date.
func (s *serviceImpl) GetAvailability(ctx context.Context, date string, blockNumber int, roomID string) (res dto.GetAvailabilityResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAvailability")
	defer scope.End()
	defer scope.TraceIfError(err)

	day, err := timezone.Parse(constant.DateOnlyFormat, date)
	if err != nil {
		return res, failure.BadRequestFromString("Fecha inválida.") // nolint:wrapcheck
	}

	blocks := schedule.BlocksFor(day.Weekday())
	if len(blocks) == 0 {
		return res, failure.BadRequestFromString("No hay bloques disponibles para ese día.") // nolint:wrapcheck
	}

	var block *schedule.Block

	for i := range blocks {
		if blocks[i].Number == blockNumber {
			block = &blocks[i]

			break
		}
	}

	if block == nil {
		return res, failure.BadRequestFromString("Bloque inválido para ese día.") // nolint:wrapcheck
	}

	rows, err := s.repo.GetAvailability(ctx, schedule.DateOnly(day), block.Start, block.End, roomID)
	if err != nil {
		log.Error().Err(err).Msg("failed to get inventory availability")

		return res, fmt.Errorf("failed to get inventory availability: %w", err)
	}

	res.Date = date
	res.StartTime = block.Start.String()
	res.EndTime = block.End.String()
	res.FromModels(rows)

	return res, nil
}
