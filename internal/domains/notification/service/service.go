package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"salones/config"
	"salones/infras/otel"
	"salones/internal/domains/notification/model"
	"salones/internal/domains/notification/model/dto"
	"salones/internal/domains/notification/repository"
	"salones/shared"
	"salones/shared/clock"
	"salones/shared/constant"
	gDto "salones/shared/dto"
)

type Notification interface {
	ListMine(ctx context.Context, params gDto.QueryParams) (dto.GetNotificationsResponse, error)
}

type serviceImpl struct {
	repo  repository.Notification
	cfg   *config.Config
	otel  otel.Otel
	clock clock.Clock
}

func New(repo repository.Notification, cfg *config.Config, otel otel.Otel, clock clock.Clock) Notification {
	return &serviceImpl{
		repo:  repo,
		cfg:   cfg,
		otel:  otel,
		clock: clock,
	}
}

// ListMine returns the caller's notifications and marks the unread ones as
// read, so each message surfaces as new exactly once.
func (s *serviceImpl) ListMine(ctx context.Context, params gDto.QueryParams) (res dto.GetNotificationsResponse, err error) {
	ctx, scope := s.otel.NewScope(ctx, constant.OtelServiceScopeName, constant.OtelServiceScopeName+".ListMine")
	defer scope.End()
	defer scope.TraceIfError(err)

	user, _ := ctx.Value(constant.ContextKeyUserID).(string)
	filter := shared.FilterByID(user, model.FieldUserID, model.TableName)

	total, err := s.repo.Count(ctx, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to count notifications")

		return res, fmt.Errorf("failed to count notifications: %w", err)
	}

	models, err := s.repo.GetAll(ctx, params, filter)
	if err != nil {
		log.Error().Err(err).Msg("failed to get notifications")

		return res, fmt.Errorf("failed to get notifications: %w", err)
	}

	res.FromModels(models, total, params.Limit)

	if err := s.repo.MarkRead(ctx, user, s.clock.Now()); err != nil {
		log.Warn().Err(err).Msg("failed to mark notifications as read")
	}

	return res, nil
}
