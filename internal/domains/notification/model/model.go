package model

import (
	"time"

	"salones/shared/model"
)

const (
	TableName  = "notifications"
	EntityName = "notification"

	FieldID     = "id"
	FieldUserID = "user_id"
	FieldReadAt = "read_at"
)

type Notification struct {
	ID      string     `db:"id"`
	UserID  string     `db:"user_id"`
	Message string     `db:"message"`
	ReadAt  *time.Time `db:"read_at"`
	model.Metadata
}
