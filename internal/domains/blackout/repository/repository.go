package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"salones/infras/otel"
	"salones/infras/postgres"
	"salones/internal/domains/blackout/model"
	"salones/shared/constant"
	gDto "salones/shared/dto"
	"salones/shared/logger"
	gRepo "salones/shared/repository"
)

// A blackout with no room blocks every room.
const queryExistsOverlapping = `
SELECT EXISTS(
    SELECT 1
    FROM blackouts
    WHERE start_datetime < $3
      AND end_datetime > $2
      AND (room_id IS NULL OR room_id = $1)
)`

// Occupancy is the union of blackout windows and active reservations
// projected into the same shape, so callers see every occupied slot at once.
const queryListOccupancy = `
SELECT 'blackout' AS source, b.id, b.room_id, r.code AS room_code,
       b.start_datetime, b.end_datetime, b.reason
FROM blackouts b
LEFT JOIN rooms r ON r.id = b.room_id
WHERE b.start_datetime < $2
  AND b.end_datetime > $1
UNION ALL
SELECT 'reservation' AS source, res.id, res.room_id, r.code AS room_code,
       res.date + res.start_time, res.date + res.end_time,
       'Reserva de ' || COALESCE(u.username, 'usuario')
FROM reservations res
JOIN rooms r ON r.id = res.room_id
LEFT JOIN users u ON u.id = res.user_id
WHERE res.status = 'active'
  AND res.date + res.start_time < $2
  AND res.date + res.end_time > $1
ORDER BY start_datetime`

type Blackout interface {
	Insert(ctx context.Context, model model.Blackout) error
	InsertTx(ctx context.Context, tx *sqlx.Tx, model model.Blackout) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Blackout, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Blackout, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	UpdateTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	ExistsOverlapping(ctx context.Context, roomID string, start, end time.Time) (bool, error)
	ListOccupancy(ctx context.Context, from, to time.Time) ([]model.OccupancyRow, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Blackout]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Blackout {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Blackout](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *repositoryImpl) ExistsOverlapping(ctx context.Context, roomID string, start, end time.Time) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".blackout.ExistsOverlapping")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryExistsOverlapping)

	var exists bool

	err := repo.db.Read.GetContext(ctx, &exists, queryExistsOverlapping, roomID, start, end)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to check overlapping blackouts: %w", err)
	}

	return exists, nil
}

func (repo *repositoryImpl) ListOccupancy(ctx context.Context, from, to time.Time) ([]model.OccupancyRow, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".blackout.ListOccupancy")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryListOccupancy)

	var rows []model.OccupancyRow

	err := repo.db.Read.SelectContext(ctx, &rows, queryListOccupancy, from, to)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to list occupancy: %w", err)
	}

	return rows, nil
}
