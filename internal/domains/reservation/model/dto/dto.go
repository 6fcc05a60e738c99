package dto

import (
	"github.com/google/uuid"

	"salones/internal/domains/reservation/model"
	"salones/shared"
	"salones/shared/constant"
	gDto "salones/shared/dto"
	gModel "salones/shared/model"
	"salones/shared/schedule"
	"salones/shared/timezone"
)

type ReservationItemRequest struct {
	MaterialID string `json:"material_id" validate:"required,uuid"`
	Quantity   int    `json:"quantity"    validate:"gte=0"`
}

type CreateReservationRequest struct {
	RoomID    string                   `json:"room_id"    validate:"required,uuid"`
	Date      string                   `json:"date"       validate:"required,datetime=2006-01-02"`
	StartTime schedule.TimeOfDay       `json:"start_time" validate:"required"`
	EndTime   schedule.TimeOfDay       `json:"end_time"   validate:"required"`
	Course    string                   `json:"course"     validate:"required,max=100"`
	Subject   string                   `json:"subject"    validate:"omitempty,max=100"`
	Items     []ReservationItemRequest `json:"items"      validate:"omitempty,dive"`
}

func (c *CreateReservationRequest) ToModel(user string) model.Reservation {
	date, _ := timezone.Parse(constant.DateOnlyFormat, c.Date)

	return model.Reservation{
		ID:        uuid.NewString(),
		RoomID:    c.RoomID,
		UserID:    user,
		Date:      date,
		StartTime: c.StartTime,
		EndTime:   c.EndTime,
		Course:    c.Course,
		Subject:   c.Subject,
		Status:    model.StatusActive,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateReservationRequest struct {
	RoomID    string                    `json:"room_id"    validate:"omitempty,uuid"`
	Date      string                    `json:"date"       validate:"omitempty,datetime=2006-01-02"`
	StartTime *schedule.TimeOfDay       `json:"start_time" validate:"omitempty"`
	EndTime   *schedule.TimeOfDay       `json:"end_time"   validate:"omitempty"`
	Course    string                    `json:"course"     validate:"omitempty,max=100"`
	Subject   *string                   `json:"subject"    validate:"omitempty,max=100"`
	Items     *[]ReservationItemRequest `json:"items"      validate:"omitempty,dive"`
}

// NormalizeItems drops zero-quantity lines and merges duplicate materials,
// keeping first-seen order.
func NormalizeItems(items []ReservationItemRequest) []ReservationItemRequest {
	merged := make([]ReservationItemRequest, 0, len(items))
	index := make(map[string]int, len(items))

	for _, item := range items {
		if item.Quantity <= 0 {
			continue
		}

		if at, ok := index[item.MaterialID]; ok {
			merged[at].Quantity += item.Quantity

			continue
		}

		index[item.MaterialID] = len(merged)
		merged = append(merged, item)
	}

	return merged
}

type ReservationItemResponse struct {
	MaterialID   string `json:"material_id"`
	MaterialName string `json:"material_name"`
	Quantity     int    `json:"quantity"`
}

type ReservationResponse struct {
	ID        string                    `json:"id"`
	RoomID    string                    `json:"room_id"`
	RoomCode  string                    `json:"room_code"`
	UserID    string                    `json:"user_id"`
	Date      string                    `json:"date"`
	StartTime string                    `json:"start_time"`
	EndTime   string                    `json:"end_time"`
	Course    string                    `json:"course"`
	Subject   string                    `json:"subject"`
	Status    string                    `json:"status"`
	Items     []ReservationItemResponse `json:"items,omitempty"`
	gDto.Metadata
}

func (r *ReservationResponse) FromModel(mod model.Reservation) {
	r.ID = mod.ID
	r.RoomID = mod.RoomID
	r.RoomCode = mod.RoomCode
	r.UserID = mod.UserID
	r.Date = timezone.Format(mod.Date, constant.DateOnlyFormat)
	r.StartTime = mod.StartTime.String()
	r.EndTime = mod.EndTime.String()
	r.Course = mod.Course
	r.Subject = mod.Subject
	r.Status = mod.Status
	r.Metadata.FromModel(mod.Metadata)
}

func (r *ReservationResponse) WithItems(items []model.ReservationItem) {
	r.Items = make([]ReservationItemResponse, len(items))
	for i, item := range items {
		r.Items[i] = ReservationItemResponse{
			MaterialID:   item.MaterialID,
			MaterialName: item.MaterialName,
			Quantity:     item.Quantity,
		}
	}
}

type GetReservationsResponse struct {
	Reservations []ReservationResponse `json:"reservations"`
	TotalPage    int                   `json:"total_page"`
	TotalData    int                   `json:"total_data"`
}

func (r *GetReservationsResponse) FromModels(models []model.Reservation, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Reservations = make([]ReservationResponse, len(models))
	for i, mod := range models {
		r.Reservations[i].FromModel(mod)
	}
}

type ReleaseOverdueResponse struct {
	Released int `json:"released"`
}
