package model

import "salones/shared/model"

const (
	TableName  = "room_inventories"
	EntityName = "room_inventory"

	FieldID         = "id"
	FieldRoomID     = "room_id"
	FieldMaterialID = "material_id"
	FieldQuantity   = "quantity"
)

type RoomInventory struct {
	ID           string `db:"id"`
	RoomID       string `db:"room_id"`
	MaterialID   string `db:"material_id"`
	Quantity     int    `db:"quantity"`
	RoomCode     string `db:"room_code"     table:"rooms"     column:"code"`
	MaterialName string `db:"material_name" table:"materials" column:"name"`
	model.Metadata
}

func (RoomInventory) GetJoinQuery() string {
	return "JOIN rooms ON rooms.id = room_inventories.room_id JOIN materials ON materials.id = room_inventories.material_id"
}

// AvailabilityRow is one inventory line with the quantity already committed to
// overlapping reservations on a given date and time window.
type AvailabilityRow struct {
	ID           string `db:"id"`
	RoomID       string `db:"room_id"`
	MaterialID   string `db:"material_id"`
	RoomCode     string `db:"room_code"`
	MaterialName string `db:"material_name"`
	Quantity     int    `db:"quantity"`
	Reserved     int    `db:"reserved"`
}
