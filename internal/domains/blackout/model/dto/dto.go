package dto

import (
	"time"

	"github.com/google/uuid"

	"salones/internal/domains/blackout/model"
	"salones/shared"
	"salones/shared/constant"
	gDto "salones/shared/dto"
	gModel "salones/shared/model"
	"salones/shared/schedule"
	"salones/shared/timezone"
)

type CreateBlackoutRequest struct {
	RoomID      *string            `json:"room_id" validate:"omitempty,uuid" example:"f7a3dd9b-2f80-4b8e-9439-0ec487b37a88"`
	Date        string             `json:"date" validate:"required,datetime=2006-01-02" example:"2025-03-03"`
	StartTime   schedule.TimeOfDay `json:"start_time" validate:"gte=0,lt=1440" example:"08:00"`
	EndTime     schedule.TimeOfDay `json:"end_time" validate:"gt=0,lte=1440" example:"18:00"`
	Reason      string             `json:"reason" validate:"required,max=255" example:"Feriado nacional"`
	Repeat      string             `json:"repeat" validate:"omitempty,oneof=none weekly monthly" example:"none"`
	RepeatUntil string             `json:"repeat_until" validate:"omitempty,datetime=2006-01-02" example:"2025-06-30"`
}

// ToModel builds one blackout row for a single occurrence day.
func (c CreateBlackoutRequest) ToModel(day time.Time, user string) model.Blackout {
	return model.Blackout{
		ID:            uuid.NewString(),
		RoomID:        c.RoomID,
		StartDatetime: c.StartTime.At(day),
		EndDatetime:   c.EndTime.At(day),
		Reason:        c.Reason,
		Metadata: gModel.Metadata{
			CreatedAt: timezone.Now(),
			CreatedBy: user,
		},
	}
}

// UpdateBlackoutRequest moves or relabels a single occurrence. Repeat fields
// are write-once at creation and cannot change here.
type UpdateBlackoutRequest struct {
	RoomID    *string             `json:"room_id" validate:"omitempty,uuid"`
	Date      string              `json:"date" validate:"omitempty,datetime=2006-01-02"`
	StartTime *schedule.TimeOfDay `json:"start_time" validate:"omitempty,gte=0,lt=1440"`
	EndTime   *schedule.TimeOfDay `json:"end_time" validate:"omitempty,gt=0,lte=1440"`
	Reason    string              `json:"reason" validate:"omitempty,max=255"`
}

type BlackoutResponse struct {
	ID            string  `json:"id"`
	RoomID        *string `json:"room_id"`
	RoomCode      *string `json:"room_code"`
	StartDatetime string  `json:"start_datetime"`
	EndDatetime   string  `json:"end_datetime"`
	Reason        string  `json:"reason"`
	Kind          string  `json:"kind"`
	gDto.Metadata
}

func (b *BlackoutResponse) FromModel(mod model.Blackout) {
	b.ID = mod.ID
	b.RoomID = mod.RoomID
	b.RoomCode = mod.RoomCode
	b.StartDatetime = timezone.Format(mod.StartDatetime, constant.DateFormat)
	b.EndDatetime = timezone.Format(mod.EndDatetime, constant.DateFormat)
	b.Reason = mod.Reason
	b.Kind = mod.Kind()
	b.Metadata.FromModel(mod.Metadata)
}

type CreateBlackoutResponse struct {
	Blackouts             []BlackoutResponse `json:"blackouts"`
	CancelledReservations int                `json:"cancelled_reservations"`
}

type GetBlackoutsResponse struct {
	Blackouts []BlackoutResponse `json:"blackouts"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (g *GetBlackoutsResponse) FromModels(models []model.Blackout, totalData, limit int) {
	g.TotalData = totalData
	g.TotalPage = shared.CalculateTotalPage(totalData, limit)

	g.Blackouts = make([]BlackoutResponse, len(models))
	for i, mod := range models {
		g.Blackouts[i].FromModel(mod)
	}
}

type OccupancyResponse struct {
	Source        string  `json:"source"`
	ID            string  `json:"id"`
	RoomID        *string `json:"room_id"`
	RoomCode      *string `json:"room_code"`
	StartDatetime string  `json:"start_datetime"`
	EndDatetime   string  `json:"end_datetime"`
	Reason        string  `json:"reason"`
}

type GetOccupancyResponse struct {
	Occupancy []OccupancyResponse `json:"occupancy"`
}

func (g *GetOccupancyResponse) FromModels(rows []model.OccupancyRow) {
	g.Occupancy = make([]OccupancyResponse, len(rows))
	for i, row := range rows {
		g.Occupancy[i] = OccupancyResponse{
			Source:        row.Source,
			ID:            row.ID,
			RoomID:        row.RoomID,
			RoomCode:      row.RoomCode,
			StartDatetime: timezone.Format(row.StartDatetime, constant.DateFormat),
			EndDatetime:   timezone.Format(row.EndDatetime, constant.DateFormat),
			Reason:        row.Reason,
		}
	}
}
