package model

import "salones/shared/model"

const (
	TableName  = "rooms"
	EntityName = "room"

	FieldID   = "id"
	FieldCode = "code"
)

type Room struct {
	ID   string `db:"id"`
	Code string `db:"code"`
	model.Metadata
}
