package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"salones/infras/otel"
	"salones/infras/postgres"
	"salones/internal/domains/notification/model"
	"salones/shared/constant"
	gDto "salones/shared/dto"
	"salones/shared/logger"
	gRepo "salones/shared/repository"
)

const queryMarkRead = `
UPDATE notifications
SET read_at = $2, modified_at = $2, modified_by = $1
WHERE user_id = $1
  AND read_at IS NULL`

type Notification interface {
	Insert(ctx context.Context, model model.Notification) error
	InsertTx(ctx context.Context, tx *sqlx.Tx, model model.Notification) error
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Notification, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	MarkRead(ctx context.Context, userID string, readAt time.Time) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Notification]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Notification {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Notification](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}

func (repo *repositoryImpl) MarkRead(ctx context.Context, userID string, readAt time.Time) error {
	ctx, scope := repo.otel.NewScope(ctx, constant.OtelRepositoryScopeName, constant.OtelRepositoryScopeName+".notification.MarkRead")
	defer scope.End()

	scope.SetAttribute(constant.OtelQueryAttributeKey, queryMarkRead)

	_, err := repo.db.Write.ExecContext(ctx, queryMarkRead, userID, readAt)
	if err != nil {
		logger.ErrorWithStack(err)
		scope.TraceError(err)

		return fmt.Errorf("failed to mark notifications as read: %w", err)
	}

	return nil
}
