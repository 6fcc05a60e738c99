package dto

import (
	"salones/internal/domains/notification/model"
	"salones/shared"
	"salones/shared/constant"
	"salones/shared/timezone"
)

type NotificationResponse struct {
	ID        string  `json:"id"`
	Message   string  `json:"message"`
	ReadAt    *string `json:"read_at"`
	CreatedAt string  `json:"created_at"`
}

func (n *NotificationResponse) FromModel(mod model.Notification) {
	n.ID = mod.ID
	n.Message = mod.Message
	n.CreatedAt = timezone.Format(mod.CreatedAt, constant.DateFormat)

	if mod.ReadAt != nil {
		readAt := timezone.Format(*mod.ReadAt, constant.DateFormat)
		n.ReadAt = &readAt
	}
}

type GetNotificationsResponse struct {
	Notifications []NotificationResponse `json:"notifications"`
	TotalPage     int                    `json:"total_page"`
	TotalData     int                    `json:"total_data"`
}

func (g *GetNotificationsResponse) FromModels(models []model.Notification, totalData, limit int) {
	g.TotalData = totalData
	g.TotalPage = shared.CalculateTotalPage(totalData, limit)

	g.Notifications = make([]NotificationResponse, len(models))
	for i, mod := range models {
		g.Notifications[i].FromModel(mod)
	}
}
