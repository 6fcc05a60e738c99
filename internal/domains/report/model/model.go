package model

// RoomUsageRow counts non-cancelled reservations per room over a date range.
type RoomUsageRow struct {
	RoomID       string `db:"room_id"`
	RoomCode     string `db:"room_code"`
	Reservations int    `db:"reservations"`
}

// MaterialUsageRow sums requested material quantities over a date range.
type MaterialUsageRow struct {
	MaterialID   string `db:"material_id"`
	MaterialName string `db:"material_name"`
	Quantity     int    `db:"quantity"`
}
