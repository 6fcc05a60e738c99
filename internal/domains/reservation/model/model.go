package model

import (
	"time"

	"salones/shared/model"
	"salones/shared/schedule"
)

const (
	TableName  = "reservations"
	EntityName = "reservation"

	FieldID        = "id"
	FieldRoomID    = "room_id"
	FieldUserID    = "user_id"
	FieldDate      = "date"
	FieldStartTime = "start_time"
	FieldEndTime   = "end_time"
	FieldCourse    = "course"
	FieldSubject   = "subject"
	FieldStatus    = "status"
)

const (
	StatusActive    = "active"
	StatusReleased  = "released"
	StatusCancelled = "cancelled"
)

const (
	ItemsTableName  = "reservation_items"
	ItemsEntityName = "reservation_item"
)

type Reservation struct {
	ID        string             `db:"id"`
	RoomID    string             `db:"room_id"`
	UserID    string             `db:"user_id"`
	Date      time.Time          `db:"date"`
	StartTime schedule.TimeOfDay `db:"start_time"`
	EndTime   schedule.TimeOfDay `db:"end_time"`
	Course    string             `db:"course"`
	Subject   string             `db:"subject"`
	Status    string             `db:"status"`
	RoomCode  string             `db:"room_code" table:"rooms" column:"code"`
	model.Metadata
}

func (Reservation) GetJoinQuery() string {
	return "JOIN rooms ON rooms.id = reservations.room_id"
}

type ReservationItem struct {
	ID            string `db:"id"`
	ReservationID string `db:"reservation_id"`
	MaterialID    string `db:"material_id"`
	Quantity      int    `db:"quantity"`
	MaterialName  string `db:"material_name"`
}
