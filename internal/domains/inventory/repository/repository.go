package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"salones/infras/otel"
	"salones/infras/postgres"
	"salones/internal/domains/inventory/model"
	"salones/shared/constant"
	gDto "salones/shared/dto"
	"salones/shared/logger"
	gRepo "salones/shared/repository"
	"salones/shared/schedule"
)

const queryInventoryForUpdate = `
SELECT id, room_id, material_id, quantity
FROM room_inventories
WHERE room_id = $1 AND material_id = $2
FOR UPDATE`

const queryAvailability = `
SELECT ri.id,
       ri.room_id,
       ri.material_id,
       ri.quantity,
       r.code AS room_code,
       m.name AS material_name,
       COALESCE((
           SELECT SUM(rit.quantity)
           FROM reservation_items rit
           JOIN reservations res ON res.id = rit.reservation_id
           WHERE res.room_id = ri.room_id
             AND rit.material_id = ri.material_id
             AND res.status <> 'cancelled'
             AND res.date = $1
             AND res.start_time < $3
             AND res.end_time > $2
       ), 0) AS reserved
FROM room_inventories ri
JOIN rooms r ON r.id = ri.room_id
JOIN materials m ON m.id = ri.material_id`

type Inventory interface {
	Insert(ctx context.Context, model model.RoomInventory) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.RoomInventory, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.RoomInventory, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
	GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, roomID, materialID string) (model.RoomInventory, error)
	GetAvailability(ctx context.Context, date time.Time, start, end schedule.TimeOfDay, roomID string) ([]model.AvailabilityRow, error)
}

type repositoryImpl struct {
	gRepo.Repository[model.RoomInventory]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Inventory {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.RoomInventory](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

// GetForUpdateTx locks the inventory row for the given room and material for
// the duration of the transaction. A missing row comes back with a zero ID.
func (repo *repositoryImpl) GetForUpdateTx(ctx context.Context, tx *sqlx.Tx, roomID, materialID string) (model.RoomInventory, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room_inventory.GetForUpdateTx")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryInventoryForUpdate)

	var inventory model.RoomInventory

	err := tx.GetContext(ctx, &inventory, queryInventoryForUpdate, roomID, materialID)
	if errors.Is(err, sql.ErrNoRows) {
		return model.RoomInventory{}, nil
	}

	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return model.RoomInventory{}, fmt.Errorf("failed to lock inventory row: %w", err)
	}

	return inventory, nil
}

func (repo *repositoryImpl) GetAvailability(ctx context.Context, date time.Time, start, end schedule.TimeOfDay, roomID string) ([]model.AvailabilityRow, error) {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".room_inventory.GetAvailability")
	defer scope.End()

	query := queryAvailability
	args := []any{date, start, end}

	if roomID != constant.Empty {
		query += " WHERE ri.room_id = $4"
		args = append(args, roomID)
	}

	query += " ORDER BY r.code, m.name"
	scope.SetAttribute(constant.OtelQueryAttributeKey, query)

	var rows []model.AvailabilityRow

	err := repo.db.Read.SelectContext(ctx, &rows, query, args...)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return nil, fmt.Errorf("failed to get inventory availability: %w", err)
	}

	return rows, nil
}
