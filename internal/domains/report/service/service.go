package service

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"salones/config"
	"salones/infras/otel"
	"salones/internal/domains/report/model/dto"
	"salones/internal/domains/report/repository"
	"salones/shared"
	"salones/shared/cache"
	"salones/shared/clock"
	"salones/shared/constant"
	"salones/shared/failure"
	"salones/shared/schedule"
	"salones/shared/timezone"
)

const cacheUsageReport = "report:usage"

// OverdueReleaser flips expired reservations to released so the aggregates
// reflect final lifecycle states.
type OverdueReleaser interface {
	ReleaseOverdue(ctx context.Context) (int, error)
}

type Report interface {
	Usage(ctx context.Context, from, to, roomID string) (dto.UsageReportResponse, error)
}

type serviceImpl struct {
	repo     repository.Report
	releaser OverdueReleaser
	cfg      *config.Config
	cache    cache.RedisCache
	otel     otel.Otel
	clock    clock.Clock
}

func New(repo repository.Report, releaser OverdueReleaser, cfg *config.Config, cache cache.RedisCache, otel otel.Otel, clock clock.Clock) Report {
	return &serviceImpl{
		repo:     repo,
		releaser: releaser,
		cfg:      cfg,
		cache:    cache,
		otel:     otel,
		clock:    clock,
	}
}

// Usage aggregates reservation counts per room and requested material
// quantities over a date range. Missing bounds default to the current month
// to date; reversed bounds are swapped.
func (s *serviceImpl) Usage(ctx context.Context, from, to, roomID string) (res dto.UsageReportResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".Usage")
	defer scope.End()
	defer scope.TraceIfError(err)

	if _, err := s.releaser.ReleaseOverdue(ctx); err != nil {
		log.Warn().Err(err).Msg("overdue sweep failed")
	}

	today := schedule.DateOnly(s.clock.Now())
	fromDate := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location())
	toDate := today

	if from != constant.Empty {
		if fromDate, err = timezone.Parse(constant.DateOnlyFormat, from); err != nil {
			return res, failure.BadRequestFromString("Fecha inválida.") // nolint:wrapcheck
		}
	}

	if to != constant.Empty {
		if toDate, err = timezone.Parse(constant.DateOnlyFormat, to); err != nil {
			return res, failure.BadRequestFromString("Fecha inválida.") // nolint:wrapcheck
		}
	}

	fromDate, toDate = schedule.DateOnly(fromDate), schedule.DateOnly(toDate)
	if toDate.Before(fromDate) {
		fromDate, toDate = toDate, fromDate
	}

	cacheKey := shared.BuildCacheKey(cacheUsageReport, fmt.Sprintf(
		"%s:%s:%s",
		fromDate.Format(constant.DateOnlyFormat),
		toDate.Format(constant.DateOnlyFormat),
		roomID,
	))

	err = s.cache.Get(ctx, cacheKey, &res)
	if err == nil {
		log.Info().Str("cacheKey", cacheKey).Msg("cache hit for usage report")

		return res, nil
	}

	rooms, err := s.repo.RoomUsage(ctx, fromDate, toDate, roomID)
	if err != nil {
		log.Error().Err(err).Msg("failed to aggregate room usage")

		return res, fmt.Errorf("failed to aggregate room usage: %w", err)
	}

	materials, err := s.repo.MaterialUsage(ctx, fromDate, toDate, roomID)
	if err != nil {
		log.Error().Err(err).Msg("failed to aggregate material usage")

		return res, fmt.Errorf("failed to aggregate material usage: %w", err)
	}

	res.From = fromDate.Format(constant.DateOnlyFormat)
	res.To = toDate.Format(constant.DateOnlyFormat)
	res.FromModels(rooms, materials)

	go func() {
		c := context.WithoutCancel(ctx)

		if err := s.cache.Save(c, cacheKey, res, s.cfg.Cache.TTL); err != nil {
			log.Error().Err(err).Msg("failed to save usage report to cache")
		}
	}()

	return res, nil
}
