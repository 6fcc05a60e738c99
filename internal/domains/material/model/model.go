package model

import "salones/shared/model"

const (
	TableName  = "materials"
	EntityName = "material"

	FieldID   = "id"
	FieldName = "name"
)

type Material struct {
	ID   string `db:"id"`
	Name string `db:"name"`
	model.Metadata
}
