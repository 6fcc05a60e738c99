package service

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"salones/config"
	"salones/infras/otel"
	blackoutRepo "salones/internal/domains/blackout/repository"
	invRepo "salones/internal/domains/inventory/repository"
	materialModel "salones/internal/domains/material/model"
	materialRepo "salones/internal/domains/material/repository"
	"salones/internal/domains/reservation/model"
	"salones/internal/domains/reservation/model/dto"
	"salones/internal/domains/reservation/repository"
	roomModel "salones/internal/domains/room/model"
	roomRepo "salones/internal/domains/room/repository"
	"salones/shared"
	"salones/shared/cache"
	"salones/shared/clock"
	"salones/shared/constant"
	gDto "salones/shared/dto"
	"salones/shared/failure"
	gRepo "salones/shared/repository"
	"salones/shared/schedule"
	"salones/shared/timezone"

	"github.com/google/uuid"
)

const (
	cacheGetReservation    = "reservation:get"
	cacheGetAllReservation = "reservation:gets"
	cacheCountReservation  = "reservation:count"
)

const (
	msgStartBeforeEnd   = "La hora de inicio debe ser menor que la hora de término."
	msgOutsideWorkHours = "Las reservas solo pueden realizarse entre las 08:00 y las 18:00."
	msgWeekendBooking   = "Solo se pueden reservar salones de lunes a viernes."
	msgRoomConflict     = "El salón ya está reservado en ese horario."
	msgRoomBlackout     = "El salón está bloqueado en ese horario."
	msgNotFound         = "Reserva no encontrada."
)

type Reservation interface {
	Create(ctx context.Context, req dto.CreateReservationRequest) (dto.ReservationResponse, error)
	Update(ctx context.Context, req dto.UpdateReservationRequest, id string) error
	Cancel(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (dto.ReservationResponse, error)
	GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (dto.GetReservationsResponse, error)
	ReleaseOverdue(ctx context.Context) (int, error)
}

type serviceImpl struct {
	repo        repository.Reservation
	rooms       roomRepo.Room
	materials   materialRepo.Material
	inventories invRepo.Inventory
	blackouts   blackoutRepo.Blackout
	tx          gRepo.TxRunner
	cfg         *config.Config
	cache       cache.RedisCache
	otel        otel.Otel
	clock       clock.Clock
}

func New(
	repo repository.Reservation,
	rooms roomRepo.Room,
	materials materialRepo.Material,
	inventories invRepo.Inventory,
	blackouts blackoutRepo.Blackout,
	tx gRepo.TxRunner,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	clock clock.Clock,
) Reservation {
	return &serviceImpl{
		repo:        repo,
		rooms:       rooms,
		materials:   materials,
		inventories: inventories,
		blackouts:   blackouts,
		tx:          tx,
		cfg:         cfg,
		cache:       cache,
		otel:        otel,
		clock:       clock,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateReservationRequest) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	s.releaseOverdueQuiet(ctx)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	date, err := timezone.Parse(constant.DateOnlyFormat, req.Date)
	if err != nil {
		return res, failure.BadRequestFromString("Fecha inválida.") // nolint:wrapcheck
	}

	date = schedule.DateOnly(date)

	if err = s.validateWindow(date, req.StartTime, req.EndTime); err != nil {
		return res, err
	}

	roomExists, err := s.rooms.Exist(ctx, shared.FilterByID(req.RoomID, roomModel.FieldID, roomModel.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to check if room exists")

		return res, fmt.Errorf("failed to check if room exists: %w", err)
	}

	if !roomExists {
		return res, failure.NotFound("Salón no encontrado.") // nolint:wrapcheck
	}

	if err = s.checkSlotFree(ctx, req.RoomID, date, req.StartTime, req.EndTime, constant.Empty); err != nil {
		return res, err
	}

	items := dto.NormalizeItems(req.Items)

	names, err := s.materialNames(ctx, items)
	if err != nil {
		return res, err
	}

	reservation := req.ToModel(user)

	err = s.tx.WithinTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.admitItems(ctx, tx, reservation.RoomID, date, req.StartTime, req.EndTime, constant.Empty, items, names); err != nil {
			return err
		}

		if err := s.repo.InsertTx(ctx, tx, reservation); err != nil {
			return err
		}

		return s.repo.InsertItemsTx(ctx, tx, buildItems(reservation.ID, items))
	})
	if err != nil {
		if failure.GetCode(err) >= 500 {
			log.Error().Err(err).Msg("failed to create reservation")
		}

		return res, err
	}

	s.invalidateListCaches(ctx)

	res.FromModel(reservation)
	res.Items = make([]dto.ReservationItemResponse, len(items))

	for i, item := range items {
		res.Items[i] = dto.ReservationItemResponse{
			MaterialID:   item.MaterialID,
			MaterialName: names[item.MaterialID],
			Quantity:     item.Quantity,
		}
	}

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateReservationRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	s.releaseOverdueQuiet(ctx)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	current, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return fmt.Errorf("failed to get reservation: %w", err)
	}

	if current.ID == constant.Empty || current.Status == model.StatusCancelled {
		return failure.NotFound(msgNotFound) // nolint:wrapcheck
	}

	if current.UserID != user && role != constant.RoleAdmin && role != constant.RoleSuperAdmin {
		return failure.Forbidden("No puedes modificar reservas de otros usuarios.") // nolint:wrapcheck
	}

	next := applyUpdate(current, req)

	if err = s.validateWindow(next.Date, next.StartTime, next.EndTime); err != nil {
		return err
	}

	if next.RoomID != current.RoomID {
		roomExists, err := s.rooms.Exist(ctx, shared.FilterByID(next.RoomID, roomModel.FieldID, roomModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to check if room exists")

			return fmt.Errorf("failed to check if room exists: %w", err)
		}

		if !roomExists {
			return failure.NotFound("Salón no encontrado.") // nolint:wrapcheck
		}
	}

	if err = s.checkSlotFree(ctx, next.RoomID, next.Date, next.StartTime, next.EndTime, id); err != nil {
		return err
	}

	currentItems, err := s.repo.GetItems(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation items")

		return fmt.Errorf("failed to get reservation items: %w", err)
	}

	items := itemRequests(currentItems)
	if req.Items != nil {
		items = dto.NormalizeItems(*req.Items)
	}

	names, err := s.materialNames(ctx, items)
	if err != nil {
		return err
	}

	updates, inserts, removed := diffItems(currentItems, items)

	err = s.tx.WithinTx(ctx, func(tx *sqlx.Tx) error {
		if err := s.admitItems(ctx, tx, next.RoomID, next.Date, next.StartTime, next.EndTime, id, items, names); err != nil {
			return err
		}

		for _, item := range updates {
			if err := s.repo.UpdateItemQuantityTx(ctx, tx, id, item.MaterialID, item.Quantity); err != nil {
				return err
			}
		}

		for _, materialID := range removed {
			if err := s.repo.DeleteItemTx(ctx, tx, id, materialID); err != nil {
				return err
			}
		}

		if len(inserts) > 0 {
			if err := s.repo.InsertItemsTx(ctx, tx, buildItems(id, inserts)); err != nil {
				return err
			}
		}

		fields := map[string]any{
			model.FieldRoomID:        next.RoomID,
			model.FieldDate:          next.Date,
			model.FieldStartTime:     next.StartTime,
			model.FieldEndTime:       next.EndTime,
			model.FieldCourse:        next.Course,
			model.FieldSubject:       next.Subject,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}

		return s.repo.UpdateTx(ctx, tx, fields, shared.FilterByID(id, model.FieldID, model.TableName))
	})
	if err != nil {
		if failure.GetCode(err) >= 500 {
			log.Error().Err(err).Msg("failed to update reservation")
		}

		return err
	}

	s.invalidateListCaches(ctx)
	shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, shared.BuildCacheKey(cacheGetReservation, id))

	return nil
}

func (s *serviceImpl) Cancel(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Cancel")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	role, _ := ctx.Value(constant.ContextKeyUserRole).(string)

	current, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return fmt.Errorf("failed to get reservation: %w", err)
	}

	if current.ID == constant.Empty || current.Status == model.StatusCancelled {
		return failure.NotFound(msgNotFound) // nolint:wrapcheck
	}

	if current.UserID != user && role != constant.RoleAdmin && role != constant.RoleSuperAdmin {
		return failure.Forbidden("No puedes cancelar reservas de otros usuarios.") // nolint:wrapcheck
	}

	cancelled, err := s.repo.Cancel(ctx, id, user)
	if err != nil {
		log.Error().Err(err).Msg("failed to cancel reservation")

		return fmt.Errorf("failed to cancel reservation: %w", err)
	}

	if !cancelled {
		return failure.NotFound(msgNotFound) // nolint:wrapcheck
	}

	s.invalidateListCaches(ctx)
	shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, shared.BuildCacheKey(cacheGetReservation, id))

	return nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.ReservationResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	reservation, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation")

		return res, fmt.Errorf("failed to get reservation: %w", err)
	}

	if reservation.ID == constant.Empty {
		return res, failure.NotFound(msgNotFound) // nolint:wrapcheck
	}

	items, err := s.repo.GetItems(ctx, id)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservation items")

		return res, fmt.Errorf("failed to get reservation items: %w", err)
	}

	res.FromModel(reservation)
	res.WithItems(items)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, req gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetReservationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	s.releaseOverdueQuiet(ctx)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllReservation, req, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for reservations")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count reservations")

		return res, fmt.Errorf("failed to count reservations: %w", err)
	}

	models, err := s.repo.GetAll(ctx, req, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get reservations")

		return res, fmt.Errorf("failed to get reservations: %w", err)
	}

	res.FromModels(models, total, req.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save reservations to cache")
		}
	}()

	return res, nil
}

// ReleaseOverdue flips every active reservation whose slot has already ended
// to released and reports how many rows changed.
func (s *serviceImpl) ReleaseOverdue(ctx context.Context) (released int, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ReleaseOverdue")
	defer scope.End()
	defer scope.TraceIfError(err)

	now := s.clock.Now()

	affected, err := s.repo.ReleaseOverdue(ctx, schedule.DateOnly(now), schedule.FromClock(now))
	if err != nil {
		log.Error().Err(err).Msg("failed to release overdue reservations")

		return 0, fmt.Errorf("failed to release overdue reservations: %w", err)
	}

	if affected > 0 {
		s.invalidateListCaches(ctx)
	}

	return int(affected), nil
}

// releaseOverdueQuiet keeps reservation state current before reads and
// writes; a sweep failure never blocks the caller.
func (s *serviceImpl) releaseOverdueQuiet(ctx context.Context) {
	if _, err := s.ReleaseOverdue(ctx); err != nil {
		log.Warn().Err(err).Msg("overdue sweep failed")
	}
}

func (s *serviceImpl) validateWindow(date time.Time, start, end schedule.TimeOfDay) error {
	if start >= end {
		return failure.BadRequestFromString(msgStartBeforeEnd) // nolint:wrapcheck
	}

	if !schedule.WithinWorkingHours(start, end) {
		return failure.BadRequestFromString(msgOutsideWorkHours) // nolint:wrapcheck
	}

	if !schedule.IsSchoolDay(date.Weekday()) {
		return failure.BadRequestFromString(msgWeekendBooking) // nolint:wrapcheck
	}

	today := schedule.DateOnly(s.clock.Now())
	maxDate := schedule.MaxReservationDate(today)

	if date.Before(today) || date.After(maxDate) {
		return failure.BadRequestFromString(fmt.Sprintf( // nolint:wrapcheck
			"La fecha debe estar entre el %s y el %s.",
			today.Format(constant.DisplayDateFormat),
			maxDate.Format(constant.DisplayDateFormat),
		))
	}

	return nil
}

func (s *serviceImpl) checkSlotFree(ctx context.Context, roomID string, date time.Time, start, end schedule.TimeOfDay, excludeID string) error {
	conflict, err := s.repo.ExistsOverlapping(ctx, roomID, date, start, end, excludeID)
	if err != nil {
		log.Error().Err(err).Msg("failed to check overlapping reservations")

		return fmt.Errorf("failed to check overlapping reservations: %w", err)
	}

	if conflict {
		return failure.Conflict(msgRoomConflict) // nolint:wrapcheck
	}

	blocked, err := s.blackouts.ExistsOverlapping(ctx, roomID, start.At(date), end.At(date))
	if err != nil {
		log.Error().Err(err).Msg("failed to check blackout overlap")

		return fmt.Errorf("failed to check blackout overlap: %w", err)
	}

	if blocked {
		return failure.Conflict(msgRoomBlackout) // nolint:wrapcheck
	}

	return nil
}

func (s *serviceImpl) materialNames(ctx context.Context, items []dto.ReservationItemRequest) (map[string]string, error) {
	names := make(map[string]string, len(items))

	for _, item := range items {
		material, err := s.materials.Get(ctx, shared.FilterByID(item.MaterialID, materialModel.FieldID, materialModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to get material")

			return nil, fmt.Errorf("failed to get material: %w", err)
		}

		if material.ID == constant.Empty {
			return nil, failure.NotFound("Material no encontrado.") // nolint:wrapcheck
		}

		names[item.MaterialID] = material.Name
	}

	return names, nil
}

// admitItems locks each inventory row and verifies that the requested
// quantity still fits alongside overlapping reservations. Rows lock in
// material order so concurrent requests cannot deadlock.
func (s *serviceImpl) admitItems(ctx context.Context, tx *sqlx.Tx, roomID string, date time.Time, start, end schedule.TimeOfDay, excludeID string, items []dto.ReservationItemRequest, names map[string]string) error {
	ordered := make([]dto.ReservationItemRequest, len(items))
	copy(ordered, items)
	sort.Slice(ordered, func(i, j int) bool { return ordered[i].MaterialID < ordered[j].MaterialID })

	for _, item := range ordered {
		inventory, err := s.inventories.GetForUpdateTx(ctx, tx, roomID, item.MaterialID)
		if err != nil {
			return err
		}

		if inventory.ID == constant.Empty {
			return failure.Conflict(fmt.Sprintf("El salón no tiene %s en su inventario.", names[item.MaterialID])) // nolint:wrapcheck
		}

		reserved, err := s.repo.ReservedQuantityTx(ctx, tx, roomID, item.MaterialID, date, start, end, excludeID)
		if err != nil {
			return err
		}

		if reserved+item.Quantity > inventory.Quantity {
			available := inventory.Quantity - reserved
			if available < 0 {
				available = 0
			}

			return failure.Conflict(fmt.Sprintf( // nolint:wrapcheck
				"Stock insuficiente de %s: disponible %d, solicitado %d.",
				names[item.MaterialID], available, item.Quantity,
			))
		}
	}

	return nil
}

func itemRequests(items []model.ReservationItem) []dto.ReservationItemRequest {
	requests := make([]dto.ReservationItemRequest, len(items))
	for i, item := range items {
		requests[i] = dto.ReservationItemRequest{MaterialID: item.MaterialID, Quantity: item.Quantity}
	}

	return requests
}

// diffItems compares the desired item set against the stored rows by
// material id, splitting it into quantity updates, new inserts, and
// removed material ids. Removals come back sorted.
func diffItems(current []model.ReservationItem, desired []dto.ReservationItemRequest) (updates, inserts []dto.ReservationItemRequest, removed []string) {
	existing := make(map[string]int, len(current))
	for _, item := range current {
		existing[item.MaterialID] = item.Quantity
	}

	for _, item := range desired {
		quantity, found := existing[item.MaterialID]
		if !found {
			inserts = append(inserts, item)

			continue
		}

		delete(existing, item.MaterialID)

		if quantity != item.Quantity {
			updates = append(updates, item)
		}
	}

	for materialID := range existing {
		removed = append(removed, materialID)
	}

	sort.Strings(removed)

	return updates, inserts, removed
}

func (s *serviceImpl) invalidateListCaches(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllReservation)
		shared.InvalidateCaches(c, s.cache, cacheCountReservation)
	}()
}

func applyUpdate(current model.Reservation, req dto.UpdateReservationRequest) model.Reservation {
	next := current

	if req.RoomID != constant.Empty {
		next.RoomID = req.RoomID
	}

	if req.Date != constant.Empty {
		if date, err := timezone.Parse(constant.DateOnlyFormat, req.Date); err == nil {
			next.Date = schedule.DateOnly(date)
		}
	}

	if req.StartTime != nil {
		next.StartTime = *req.StartTime
	}

	if req.EndTime != nil {
		next.EndTime = *req.EndTime
	}

	if req.Course != constant.Empty {
		next.Course = req.Course
	}

	if req.Subject != nil {
		next.Subject = *req.Subject
	}

	return next
}

func buildItems(reservationID string, items []dto.ReservationItemRequest) []model.ReservationItem {
	models := make([]model.ReservationItem, len(items))
	for i, item := range items {
		models[i] = model.ReservationItem{
			ID:            uuid.NewString(),
			ReservationID: reservationID,
			MaterialID:    item.MaterialID,
			Quantity:      item.Quantity,
		}
	}

	return models
}
