package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"salones/infras/otel"
	"salones/infras/postgres"
	"salones/internal/domains/report/model"
	"salones/shared/constant"
	"salones/shared/logger"
)

// Cancelled reservations never happened, so both aggregates skip them.
const queryRoomUsage = `
SELECT res.room_id, r.code AS room_code, COUNT(*) AS reservations
FROM reservations res
JOIN rooms r ON r.id = res.room_id
WHERE res.status <> 'cancelled'
  AND res.date >= $1
  AND res.date <= $2
  AND ($3 = '' OR res.room_id = $3)
GROUP BY res.room_id, r.code
ORDER BY r.code`

const queryMaterialUsage = `
SELECT rit.material_id, m.name AS material_name, COALESCE(SUM(rit.quantity), 0) AS quantity
FROM reservation_items rit
JOIN reservations res ON res.id = rit.reservation_id
JOIN materials m ON m.id = rit.material_id
WHERE res.status <> 'cancelled'
  AND res.date >= $1
  AND res.date <= $2
  AND ($3 = '' OR res.room_id = $3)
GROUP BY rit.material_id, m.name
ORDER BY m.name`

type Report interface {
	RoomUsage(ctx context.Context, from, to time.Time, roomID string) ([]model.RoomUsageRow, error)
	MaterialUsage(ctx context.Context, from, to time.Time, roomID string) ([]model.MaterialUsageRow, error)
}

type repositoryImpl struct {
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Report {
	return &repositoryImpl{db: db, otel: otel}
}

func (repo *repositoryImpl) RoomUsage(ctx context.Context, from, to time.Time, roomID string) ([]model.RoomUsageRow, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".report.RoomUsage")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryRoomUsage)

	var rows []model.RoomUsageRow

	err := repo.db.Read.SelectContext(ctx, &rows, queryRoomUsage, from, to, roomID)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to aggregate room usage: %w", err)
	}

	return rows, nil
}

func (repo *repositoryImpl) MaterialUsage(ctx context.Context, from, to time.Time, roomID string) ([]model.MaterialUsageRow, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".report.MaterialUsage")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryMaterialUsage)

	var rows []model.MaterialUsageRow

	err := repo.db.Read.SelectContext(ctx, &rows, queryMaterialUsage, from, to, roomID)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to aggregate material usage: %w", err)
	}

	return rows, nil
}
