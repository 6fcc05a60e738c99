package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/rs/zerolog/log"

	"salones/config"
	"salones/infras/otel"
	"salones/internal/domains/blackout/model"
	"salones/internal/domains/blackout/model/dto"
	"salones/internal/domains/blackout/repository"
	notificationModel "salones/internal/domains/notification/model"
	notificationRepo "salones/internal/domains/notification/repository"
	reservationRepo "salones/internal/domains/reservation/repository"
	roomModel "salones/internal/domains/room/model"
	roomRepo "salones/internal/domains/room/repository"
	"salones/shared"
	"salones/shared/cache"
	"salones/shared/clock"
	"salones/shared/constant"
	gDto "salones/shared/dto"
	"salones/shared/failure"
	gModel "salones/shared/model"
	gRepo "salones/shared/repository"
	"salones/shared/schedule"
	"salones/shared/timezone"
)

const (
	cacheGetBlackout    = "blackout:get"
	cacheGetAllBlackout = "blackout:gets"
	cacheCountBlackout  = "blackout:count"

	cacheGetAllReservation = "reservation:gets"
	cacheCountReservation  = "reservation:count"
)

const (
	msgNotFound        = "Bloqueo no encontrado."
	msgStartBeforeEnd  = "La hora de inicio debe ser menor que la hora de término."
	msgDateInPast      = "La fecha del bloqueo no puede estar en el pasado."
	msgRepeatUntilGap  = "La fecha de término de repetición debe ser posterior o igual a la fecha inicial."
	msgRepeatUntilNeed = "El bloqueo mensual requiere una fecha de término."
	msgInvalidDate     = "Fecha inválida."

	defaultCascadeReason = "un bloqueo de agenda"
)

// OverdueReleaser flips expired reservations to released before blackout
// windows are evaluated against them.
type OverdueReleaser interface {
	ReleaseOverdue(ctx context.Context) (int, error)
}

type Blackout interface {
	Create(ctx context.Context, req dto.CreateBlackoutRequest) (dto.CreateBlackoutResponse, error)
	Update(ctx context.Context, req dto.UpdateBlackoutRequest, id string) error
	Delete(ctx context.Context, id string) error
	Get(ctx context.Context, id string) (dto.BlackoutResponse, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (dto.GetBlackoutsResponse, error)
	ListOccupancy(ctx context.Context, from, to string) (dto.GetOccupancyResponse, error)
}

type serviceImpl struct {
	repo          repository.Blackout
	rooms         roomRepo.Room
	reservations  reservationRepo.Reservation
	notifications notificationRepo.Notification
	releaser      OverdueReleaser
	tx            gRepo.TxRunner
	cfg           *config.Config
	cache         cache.RedisCache
	otel          otel.Otel
	clock         clock.Clock
}

func New(
	repo repository.Blackout,
	rooms roomRepo.Room,
	reservations reservationRepo.Reservation,
	notifications notificationRepo.Notification,
	releaser OverdueReleaser,
	tx gRepo.TxRunner,
	cfg *config.Config,
	cache cache.RedisCache,
	otel otel.Otel,
	clock clock.Clock,
) Blackout {
	return &serviceImpl{
		repo:          repo,
		rooms:         rooms,
		reservations:  reservations,
		notifications: notifications,
		releaser:      releaser,
		tx:            tx,
		cfg:           cfg,
		cache:         cache,
		otel:          otel,
		clock:         clock,
	}
}

func (s *serviceImpl) Create(ctx context.Context, req dto.CreateBlackoutRequest) (res dto.CreateBlackoutResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Create")
	defer scope.End()
	defer scope.TraceIfError(err)

	s.releaseOverdueQuiet(ctx)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	date, err := timezone.Parse(constant.DateOnlyFormat, req.Date)
	if err != nil {
		return res, failure.BadRequestFromString(msgInvalidDate) // nolint:wrapcheck
	}

	date = schedule.DateOnly(date)

	if req.StartTime >= req.EndTime {
		return res, failure.BadRequestFromString(msgStartBeforeEnd) // nolint:wrapcheck
	}

	if date.Before(schedule.DateOnly(s.clock.Now())) {
		return res, failure.BadRequestFromString(msgDateInPast) // nolint:wrapcheck
	}

	repeat := req.Repeat
	if repeat == constant.Empty {
		repeat = model.RepeatNone
	}

	var repeatUntil time.Time

	if repeat == model.RepeatMonthly {
		if req.RepeatUntil == constant.Empty {
			return res, failure.BadRequestFromString(msgRepeatUntilNeed) // nolint:wrapcheck
		}

		repeatUntil, err = timezone.Parse(constant.DateOnlyFormat, req.RepeatUntil)
		if err != nil {
			return res, failure.BadRequestFromString(msgInvalidDate) // nolint:wrapcheck
		}

		if schedule.DateOnly(repeatUntil).Before(date) {
			return res, failure.BadRequestFromString(msgRepeatUntilGap) // nolint:wrapcheck
		}
	}

	if req.RoomID != nil {
		roomExists, err := s.rooms.Exist(ctx, shared.FilterByID(*req.RoomID, roomModel.FieldID, roomModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to check if room exists")

			return res, fmt.Errorf("failed to check if room exists: %w", err)
		}

		if !roomExists {
			return res, failure.NotFound("Salón no encontrado.") // nolint:wrapcheck
		}
	}

	days := ExpandOccurrences(date, repeat, repeatUntil)
	blackouts := make([]model.Blackout, 0, len(days))
	cancelled := 0

	err = s.tx.WithinTx(ctx, func(tx *sqlx.Tx) error {
		for _, day := range days {
			blackout := req.ToModel(day, user)

			count, err := s.cascade(ctx, tx, blackout.RoomID, day, req.StartTime, req.EndTime, blackout.Reason)
			if err != nil {
				return err
			}

			cancelled += count

			if err := s.repo.InsertTx(ctx, tx, blackout); err != nil {
				return err
			}

			blackouts = append(blackouts, blackout)
		}

		return nil
	})
	if err != nil {
		if failure.GetCode(err) >= 500 {
			log.Error().Err(err).Msg("failed to create blackout")
		}

		return res, err
	}

	s.invalidateListCaches(ctx)

	res.CancelledReservations = cancelled
	res.Blackouts = make([]dto.BlackoutResponse, len(blackouts))

	for i, blackout := range blackouts {
		res.Blackouts[i].FromModel(blackout)
	}

	return res, nil
}

func (s *serviceImpl) Update(ctx context.Context, req dto.UpdateBlackoutRequest, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Update")
	defer scope.End()
	defer scope.TraceIfError(err)

	s.releaseOverdueQuiet(ctx)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)

	current, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get blackout")

		return fmt.Errorf("failed to get blackout: %w", err)
	}

	if current.ID == constant.Empty {
		return failure.NotFound(msgNotFound) // nolint:wrapcheck
	}

	day := schedule.DateOnly(current.StartDatetime)
	start := schedule.FromClock(current.StartDatetime)
	end := schedule.FromClock(current.EndDatetime)
	roomID := current.RoomID
	reason := current.Reason

	if req.Date != constant.Empty {
		parsed, err := timezone.Parse(constant.DateOnlyFormat, req.Date)
		if err != nil {
			return failure.BadRequestFromString(msgInvalidDate) // nolint:wrapcheck
		}

		day = schedule.DateOnly(parsed)
	}

	if req.StartTime != nil {
		start = *req.StartTime
	}

	if req.EndTime != nil {
		end = *req.EndTime
	}

	if req.Reason != constant.Empty {
		reason = req.Reason
	}

	if start >= end {
		return failure.BadRequestFromString(msgStartBeforeEnd) // nolint:wrapcheck
	}

	if req.RoomID != nil {
		roomExists, err := s.rooms.Exist(ctx, shared.FilterByID(*req.RoomID, roomModel.FieldID, roomModel.TableName))
		if err != nil {
			log.Error().Err(err).Msg("failed to check if room exists")

			return fmt.Errorf("failed to check if room exists: %w", err)
		}

		if !roomExists {
			return failure.NotFound("Salón no encontrado.") // nolint:wrapcheck
		}

		roomID = req.RoomID
	}

	err = s.tx.WithinTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.cascade(ctx, tx, roomID, day, start, end, reason); err != nil {
			return err
		}

		fields := map[string]any{
			model.FieldRoomID:        roomID,
			model.FieldStartDatetime: start.At(day),
			model.FieldEndDatetime:   end.At(day),
			model.FieldReason:        reason,
			constant.FieldModifiedAt: timezone.Now(),
			constant.FieldModifiedBy: user,
		}

		return s.repo.UpdateTx(ctx, tx, fields, shared.FilterByID(id, model.FieldID, model.TableName))
	})
	if err != nil {
		if failure.GetCode(err) >= 500 {
			log.Error().Err(err).Msg("failed to update blackout")
		}

		return err
	}

	s.invalidateListCaches(ctx)
	shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, shared.BuildCacheKey(cacheGetBlackout, id))

	return nil
}

func (s *serviceImpl) Delete(ctx context.Context, id string) (err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Delete")
	defer scope.End()
	defer scope.TraceIfError(err)

	filter := shared.FilterByID(id, model.FieldID, model.TableName)

	exist, err := s.repo.Exist(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to check if blackout exists")

		return fmt.Errorf("failed to check if blackout exists: %w", err)
	}

	if !exist {
		return failure.NotFound(msgNotFound) // nolint:wrapcheck
	}

	if err := s.repo.Delete(ctx, filter); err != nil {
		log.Error().Err(err).Msg("failed to delete blackout")

		return fmt.Errorf("failed to delete blackout: %w", err)
	}

	s.invalidateListCaches(ctx)
	shared.InvalidateCaches(context.WithoutCancel(ctx), s.cache, shared.BuildCacheKey(cacheGetBlackout, id))

	return nil
}

func (s *serviceImpl) Get(ctx context.Context, id string) (res dto.BlackoutResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Get")
	defer scope.End()
	defer scope.TraceIfError(err)

	blackout, err := s.repo.Get(ctx, shared.FilterByID(id, model.FieldID, model.TableName))
	if err != nil {
		log.Error().Err(err).Msg("failed to get blackout")

		return res, fmt.Errorf("failed to get blackout: %w", err)
	}

	if blackout.ID == constant.Empty {
		return res, failure.NotFound(msgNotFound) // nolint:wrapcheck
	}

	res.FromModel(blackout)

	return res, nil
}

func (s *serviceImpl) GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup) (res dto.GetBlackoutsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".GetAll")
	defer scope.End()
	defer scope.TraceIfError(err)

	s.releaseOverdueQuiet(ctx)

	cacheKey := shared.BuildCacheKeyWithQuery(cacheGetAllBlackout, params, filter)

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for blackouts")

		return res, nil
	}

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count blackouts")

		return res, fmt.Errorf("failed to count blackouts: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get blackouts")

		return res, fmt.Errorf("failed to get blackouts: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save blackouts to cache")
		}
	}()

	return res, nil
}

// ListOccupancy returns every occupied window in [from, to] as one list:
// blackout rows plus active reservations projected into the same shape.
func (s *serviceImpl) ListOccupancy(ctx context.Context, from, to string) (res dto.GetOccupancyResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListOccupancy")
	defer scope.End()
	defer scope.TraceIfError(err)

	s.releaseOverdueQuiet(ctx)

	today := schedule.DateOnly(s.clock.Now())
	fromDate, toDate := today, schedule.MaxReservationDate(today)

	if from != constant.Empty {
		if fromDate, err = timezone.Parse(constant.DateOnlyFormat, from); err != nil {
			return res, failure.BadRequestFromString(msgInvalidDate) // nolint:wrapcheck
		}
	}

	if to != constant.Empty {
		if toDate, err = timezone.Parse(constant.DateOnlyFormat, to); err != nil {
			return res, failure.BadRequestFromString(msgInvalidDate) // nolint:wrapcheck
		}
	}

	fromDate, toDate = schedule.DateOnly(fromDate), schedule.DateOnly(toDate)
	if toDate.Before(fromDate) {
		fromDate, toDate = toDate, fromDate
	}

	rows, err := s.repo.ListOccupancy(ctx, fromDate, toDate.AddDate(0, 0, 1))
	if err != nil {
		log.Error().Err(err).Msg("failed to list occupancy")

		return res, fmt.Errorf("failed to list occupancy: %w", err)
	}

	res.FromModels(rows)

	return res, nil
}

// cascade cancels every active or released reservation the blackout window
// swallows and leaves a notification for each owner. A nil roomID blocks all
// rooms.
func (s *serviceImpl) cascade(ctx context.Context, tx *sqlx.Tx, roomID *string, day time.Time, start, end schedule.TimeOfDay, reason string) (int, error) {
	room := constant.Empty
	if roomID != nil {
		room = *roomID
	}

	overlapping, err := s.reservations.ListOverlappingTx(ctx, tx, room, day, start, end)
	if err != nil {
		return 0, err
	}

	cancelled := 0

	for _, reservation := range overlapping {
		if _, err := s.reservations.CancelTx(ctx, tx, reservation.ID, constant.SystemUser); err != nil {
			return 0, err
		}

		cancelled++

		if reservation.UserID == constant.Empty {
			continue
		}

		notification := notificationModel.Notification{
			ID:      uuid.NewString(),
			UserID:  reservation.UserID,
			Message: cascadeMessage(reservation.RoomCode, reservation.Date, reservation.StartTime, reservation.EndTime, reason),
			Metadata: gModel.Metadata{
				CreatedAt: timezone.Now(),
				CreatedBy: constant.SystemUser,
			},
		}

		if err := s.notifications.InsertTx(ctx, tx, notification); err != nil {
			return 0, err
		}
	}

	return cancelled, nil
}

func cascadeMessage(roomCode string, date time.Time, start, end schedule.TimeOfDay, reason string) string {
	if strings.TrimSpace(reason) == constant.Empty {
		reason = defaultCascadeReason
	}

	return fmt.Sprintf(
		"Tu reserva del salon %s para el %s entre %s y %s fue cancelada debido a %s.",
		roomCode, date.Format(constant.DisplayDateFormat), start, end, reason,
	)
}

func (s *serviceImpl) releaseOverdueQuiet(ctx context.Context) {
	if _, err := s.releaser.ReleaseOverdue(ctx); err != nil {
		log.Warn().Err(err).Msg("overdue sweep failed")
	}
}

func (s *serviceImpl) invalidateListCaches(ctx context.Context) {
	go func() {
		c := context.WithoutCancel(ctx)

		shared.InvalidateCaches(c, s.cache, cacheGetAllBlackout)
		shared.InvalidateCaches(c, s.cache, cacheCountBlackout)
		shared.InvalidateCaches(c, s.cache, cacheGetAllReservation)
		shared.InvalidateCaches(c, s.cache, cacheCountReservation)
	}()
}
