package dto

import (
	"salones/internal/domains/report/model"
)

type RoomUsageResponse struct {
	RoomID       string `json:"room_id"`
	RoomCode     string `json:"room_code"`
	Reservations int    `json:"reservations"`
}

type MaterialUsageResponse struct {
	MaterialID   string `json:"material_id"`
	MaterialName string `json:"material_name"`
	Quantity     int    `json:"quantity"`
}

type UsageReportResponse struct {
	From      string                  `json:"from"`
	To        string                  `json:"to"`
	Rooms     []RoomUsageResponse     `json:"rooms"`
	Materials []MaterialUsageResponse `json:"materials"`
}

func (u *UsageReportResponse) FromModels(rooms []model.RoomUsageRow, materials []model.MaterialUsageRow) {
	u.Rooms = make([]RoomUsageResponse, len(rooms))
	for i, row := range rooms {
		u.Rooms[i] = RoomUsageResponse(row)
	}

	u.Materials = make([]MaterialUsageResponse, len(materials))
	for i, row := range materials {
		u.Materials[i] = MaterialUsageResponse(row)
	}
}
