package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"salones/infras/otel"
	"salones/infras/postgres"
	"salones/internal/domains/reservation/model"
	"salones/shared/constant"
	gDto "salones/shared/dto"
	"salones/shared/logger"
	gRepo "salones/shared/repository"
	"salones/shared/schedule"
	"salones/shared/timezone"
)

// Two bookings collide when one starts before the other ends, half-open so
// back-to-back blocks never overlap.
const queryExistsOverlapping = `
SELECT EXISTS(
    SELECT 1
    FROM reservations
    WHERE room_id = $1
      AND date = $2
      AND status <> 'cancelled'
      AND start_time < $4
      AND end_time > $3
      AND id <> $5
)`

const queryReservedQuantity = `
SELECT COALESCE(SUM(rit.quantity), 0)
FROM reservation_items rit
JOIN reservations res ON res.id = rit.reservation_id
WHERE res.room_id = $1
  AND rit.material_id = $2
  AND res.status <> 'cancelled'
  AND res.date = $3
  AND res.start_time < $5
  AND res.end_time > $4
  AND res.id <> $6`

const queryInsertItem = `
INSERT INTO reservation_items (id, reservation_id, material_id, quantity)
VALUES (:id, :reservation_id, :material_id, :quantity)`

const queryUpdateItemQuantity = `
UPDATE reservation_items SET quantity = $3
WHERE reservation_id = $1 AND material_id = $2`

const queryDeleteItem = `
DELETE FROM reservation_items
WHERE reservation_id = $1 AND material_id = $2`

const queryGetItems = `
SELECT rit.id, rit.reservation_id, rit.material_id, rit.quantity, m.name AS material_name
FROM reservation_items rit
JOIN materials m ON m.id = rit.material_id
WHERE rit.reservation_id = $1
ORDER BY m.name`

const queryListOverlappingTx = `
SELECT res.id, res.room_id, res.user_id, res.date, res.start_time, res.end_time,
       res.course, res.subject, res.status, r.code AS room_code,
       res.created_at, res.modified_at, res.created_by, res.modified_by
FROM reservations res
JOIN rooms r ON r.id = res.room_id
WHERE res.date = $1
  AND res.status <> 'cancelled'
  AND res.start_time < $3
  AND res.end_time > $2
  AND ($4 = '' OR res.room_id = $4)
FOR UPDATE OF res`

const queryCancel = `
UPDATE reservations
SET status = 'cancelled', modified_at = $2, modified_by = $3
WHERE id = $1 AND status <> 'cancelled'`

const queryReleaseOverdue = `
UPDATE reservations
SET status = 'released', modified_at = $3, modified_by = 'system'
WHERE status = 'active'
  AND (date < $1 OR (date = $1 AND end_time <= $2))`

type Reservation interface {
	Insert(ctx context.Context, model model.Reservation) error
	InsertTx(ctx context.Context, tx *sqlx.Tx, model model.Reservation) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Reservation, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Reservation, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	UpdateTx(ctx context.Context, tx *sqlx.Tx, req map[string]any, filter gDto.FilterGroup) error
	ExistsOverlapping(ctx context.Context, roomID string, date time.Time, start, end schedule.TimeOfDay, excludeID string) (bool, error)
	ReservedQuantityTx(ctx context.Context, tx *sqlx.Tx, roomID, materialID string, date time.Time, start, end schedule.TimeOfDay, excludeID string) (int, error)
	InsertItemsTx(ctx context.Context, tx *sqlx.Tx, items []model.ReservationItem) error
	UpdateItemQuantityTx(ctx context.Context, tx *sqlx.Tx, reservationID, materialID string, quantity int) error
	DeleteItemTx(ctx context.Context, tx *sqlx.Tx, reservationID, materialID string) error
	GetItems(ctx context.Context, reservationID string) ([]model.ReservationItem, error)
	ListOverlappingTx(ctx context.Context, tx *sqlx.Tx, roomID string, date time.Time, start, end schedule.TimeOfDay) ([]model.Reservation, error)
	Cancel(ctx context.Context, id, user string) (bool, error)
	CancelTx(ctx context.Context, tx *sqlx.Tx, id, user string) (bool, error)
	ReleaseOverdue(ctx context.Context, today time.Time, now schedule.TimeOfDay) (int64, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.Reservation]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Reservation {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Reservation](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *repositoryImpl) ExistsOverlapping(ctx context.Context, roomID string, date time.Time, start, end schedule.TimeOfDay, excludeID string) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.ExistsOverlapping")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryExistsOverlapping)

	var exists bool

	err := repo.db.Read.GetContext(ctx, &exists, queryExistsOverlapping, roomID, date, start, end, excludeID)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to check overlapping reservations: %w", err)
	}

	return exists, nil
}

func (repo *repositoryImpl) ReservedQuantityTx(ctx context.Context, tx *sqlx.Tx, roomID, materialID string, date time.Time, start, end schedule.TimeOfDay, excludeID string) (int, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.ReservedQuantityTx")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryReservedQuantity)

	var reserved int

	err := tx.GetContext(ctx, &reserved, queryReservedQuantity, roomID, materialID, date, start, end, excludeID)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to sum reserved quantity: %w", err)
	}

	return reserved, nil
}

func (repo *repositoryImpl) InsertItemsTx(ctx context.Context, tx *sqlx.Tx, items []model.ReservationItem) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.InsertItemsTx")
	defer scope.End()

	if len(items) == 0 {
		return nil
	}

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryInsertItem)

	_, err := tx.NamedExecContext(ctx, queryInsertItem, items)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to insert reservation items: %w", err)
	}

	return nil
}

func (repo *repositoryImpl) UpdateItemQuantityTx(ctx context.Context, tx *sqlx.Tx, reservationID, materialID string, quantity int) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.UpdateItemQuantityTx")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryUpdateItemQuantity)

	_, err := tx.ExecContext(ctx, queryUpdateItemQuantity, reservationID, materialID, quantity)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to update reservation item quantity: %w", err)
	}

	return nil
}

func (repo *repositoryImpl) DeleteItemTx(ctx context.Context, tx *sqlx.Tx, reservationID, materialID string) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.DeleteItemTx")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryDeleteItem)

	_, err := tx.ExecContext(ctx, queryDeleteItem, reservationID, materialID)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to delete reservation item: %w", err)
	}

	return nil
}

func (repo *repositoryImpl) GetItems(ctx context.Context, reservationID string) ([]model.ReservationItem, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.GetItems")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryGetItems)

	var items []model.ReservationItem

	err := repo.db.Read.SelectContext(ctx, &items, queryGetItems, reservationID)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get reservation items: %w", err)
	}

	return items, nil
}

func (repo *repositoryImpl) ListOverlappingTx(ctx context.Context, tx *sqlx.Tx, roomID string, date time.Time, start, end schedule.TimeOfDay) ([]model.Reservation, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.ListOverlappingTx")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryListOverlappingTx)

	var reservations []model.Reservation

	err := tx.SelectContext(ctx, &reservations, queryListOverlappingTx, date, start, end, roomID)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to list overlapping reservations: %w", err)
	}

	return reservations, nil
}

func (repo *repositoryImpl) Cancel(ctx context.Context, id, user string) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.Cancel")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryCancel)

	result, err := repo.db.Write.ExecContext(ctx, queryCancel, id, timezone.Now(), user)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to cancel reservation: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to cancel reservation: %w", err)
	}

	return affected > 0, nil
}

func (repo *repositoryImpl) CancelTx(ctx context.Context, tx *sqlx.Tx, id, user string) (bool, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.CancelTx")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryCancel)

	result, err := tx.ExecContext(ctx, queryCancel, id, timezone.Now(), user)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to cancel reservation: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return false, fmt.Errorf("failed to cancel reservation: %w", err)
	}

	return affected > 0, nil
}

// ReleaseOverdue flips every active reservation whose slot already ended to
// released, in one guarded statement.
func (repo *repositoryImpl) ReleaseOverdue(ctx context.Context, today time.Time, now schedule.TimeOfDay) (int64, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".reservation.ReleaseOverdue")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryReleaseOverdue)

	result, err := repo.db.Write.ExecContext(ctx, queryReleaseOverdue, today, now, timezone.Now())
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to release overdue reservations: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return 0, fmt.Errorf("failed to release overdue reservations: %w", err)
	}

	return affected, nil
}
