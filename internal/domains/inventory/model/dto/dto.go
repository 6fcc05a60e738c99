package dto

import (
	"github.com/google/uuid"

	"salones/internal/domains/inventory/model"
	"salones/shared"
	gDto "salones/shared/dto"
	gModel "salones/shared/model"
	"salones/shared/timezone"
)

const (
	AvailabilityStatusAvailable = "disponible"
	AvailabilityStatusPartial   = "parcial"
	AvailabilityStatusDepleted  = "agotado"
)

type CreateInventoryRequest struct {
	RoomID     string `json:"room_id"     validate:"required,uuid"`
	MaterialID string `json:"material_id" validate:"required,uuid"`
	Quantity   int    `json:"quantity"    validate:"gte=0"`
}

func (c *CreateInventoryRequest) ToModel(user string) model.RoomInventory {
	return model.RoomInventory{
		ID:         uuid.NewString(),
		RoomID:     c.RoomID,
		MaterialID: c.MaterialID,
		Quantity:   c.Quantity,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateInventoryRequest struct {
	Quantity *int `db:"quantity" json:"quantity" validate:"required,gte=0"`
}

type InventoryResponse struct {
	ID           string `json:"id"`
	RoomID       string `json:"room_id"`
	MaterialID   string `json:"material_id"`
	RoomCode     string `json:"room_code"`
	MaterialName string `json:"material_name"`
	Quantity     int    `json:"quantity"`
	gDto.Metadata
}

func (r *InventoryResponse) FromModel(model model.RoomInventory) {
	r.ID = model.ID
	r.RoomID = model.RoomID
	r.MaterialID = model.MaterialID
	r.RoomCode = model.RoomCode
	r.MaterialName = model.MaterialName
	r.Quantity = model.Quantity
	r.Metadata.FromModel(model.Metadata)
}

type GetInventoriesResponse struct {
	Inventories []InventoryResponse `json:"inventories"`
	TotalPage   int                 `json:"total_page"`
	TotalData   int                 `json:"total_data"`
}

func (r *GetInventoriesResponse) FromModels(models []model.RoomInventory, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Inventories = make([]InventoryResponse, len(models))
	for i, mod := range models {
		r.Inventories[i].FromModel(mod)
	}
}

type AvailabilityResponse struct {
	ID           string `json:"id"`
	RoomID       string `json:"room_id"`
	MaterialID   string `json:"material_id"`
	RoomCode     string `json:"room_code"`
	MaterialName string `json:"material_name"`
	Quantity     int    `json:"quantity"`
	Reserved     int    `json:"reserved"`
	Available    int    `json:"available"`
	Status       string `json:"status"`
}

func (r *AvailabilityResponse) FromModel(row model.AvailabilityRow) {
	r.ID = row.ID
	r.RoomID = row.RoomID
	r.MaterialID = row.MaterialID
	r.RoomCode = row.RoomCode
	r.MaterialName = row.MaterialName
	r.Quantity = row.Quantity
	r.Reserved = row.Reserved

	r.Available = row.Quantity - row.Reserved
	if r.Available < 0 {
		r.Available = 0
	}

	switch {
	case r.Available <= 0 && row.Quantity > 0:
		r.Status = AvailabilityStatusDepleted
	case row.Reserved > 0:
		r.Status = AvailabilityStatusPartial
	default:
		r.Status = AvailabilityStatusAvailable
	}
}

type GetAvailabilityResponse struct {
	Date         string                 `json:"date"`
	StartTime    string                 `json:"start_time"`
	EndTime      string                 `json:"end_time"`
	Availability []AvailabilityResponse `json:"availability"`
}

func (r *GetAvailabilityResponse) FromModels(rows []model.AvailabilityRow) {
	r.Availability = make([]AvailabilityResponse, len(rows))
	for i, row := range rows {
		r.Availability[i].FromModel(row)
	}
}
