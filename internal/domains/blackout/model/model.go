package model

import (
	"strings"
	"time"

	"salones/shared/model"
)

const (
	TableName  = "blackouts"
	EntityName = "blackout"

	FieldID            = "id"
	FieldRoomID        = "room_id"
	FieldStartDatetime = "start_datetime"
	FieldEndDatetime   = "end_datetime"
	FieldReason        = "reason"
)

const (
	RepeatNone    = "none"
	RepeatWeekly  = "weekly"
	RepeatMonthly = "monthly"
)

// Derived classification of a blackout, exposed on listings.
const (
	KindHoliday = "feriado"
	KindRoom    = "salon"
	KindGeneral = "general"

	holidayReasonPrefix = "feriado"
)

type Blackout struct {
	ID            string    `db:"id"`
	RoomID        *string   `db:"room_id"`
	StartDatetime time.Time `db:"start_datetime"`
	EndDatetime   time.Time `db:"end_datetime"`
	Reason        string    `db:"reason"`
	RoomCode      *string   `db:"room_code" table:"rooms" column:"code"`
	model.Metadata
}

func (Blackout) GetJoinQuery() string {
	return "LEFT JOIN rooms ON rooms.id = blackouts.room_id"
}

// Kind classifies a blackout: reason prefixed with "feriado" marks a holiday,
// a room-scoped window is "salon", the rest block every room.
func (b Blackout) Kind() string {
	if strings.HasPrefix(strings.ToLower(strings.TrimSpace(b.Reason)), holidayReasonPrefix) {
		return KindHoliday
	}

	if b.RoomID != nil {
		return KindRoom
	}

	return KindGeneral
}

// OccupancyRow is one occupied window in a date range: either a blackout or an
// active reservation projected into the same shape.
type OccupancyRow struct {
	Source        string    `db:"source"`
	ID            string    `db:"id"`
	RoomID        *string   `db:"room_id"`
	RoomCode      *string   `db:"room_code"`
	StartDatetime time.Time `db:"start_datetime"`
	EndDatetime   time.Time `db:"end_datetime"`
	Reason        string    `db:"reason"`
}
