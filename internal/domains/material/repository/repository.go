package repository

//go:generate go run go.uber.org/mock/mockgen -source=./repository.go -destination=../mocks/repository_mock.go -package=mocks

import (
	"context"

	"salones/infras/otel"
	"salones/infras/postgres"
	"salones/internal/domains/material/model"
	gDto "salones/shared/dto"
	gRepo "salones/shared/repository"
)

type Material interface {
	Insert(ctx context.Context, model model.Material) error
	Get(ctx context.Context, filter gDto.FilterGroup, columns ...string) (model.Material, error)
	GetAll(ctx context.Context, params gDto.QueryParams, filter gDto.FilterGroup, columns ...string) ([]model.Material, error)
	Exist(ctx context.Context, filter gDto.FilterGroup) (bool, error)
	Count(ctx context.Context, filter gDto.FilterGroup) (int, error)
	Update(ctx context.Context, req map[string]any, filter gDto.FilterGroup) error
	Delete(ctx context.Context, filter gDto.FilterGroup) error
}

type repositoryImpl struct {
	gRepo.Repository[model.Material]
	db   *postgres.Connection
	otel otel.Otel
}

func New(db *postgres.Connection, otel otel.Otel) Material {
	return &repositoryImpl{
		Repository: gRepo.NewRepository[model.Material](model.EntityName, model.TableName, model.FieldID, db, otel),
		db:         db,
		otel:       otel,
	}
}
