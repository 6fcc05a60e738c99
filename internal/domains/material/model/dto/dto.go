package dto

import (
	"github.com/google/uuid"

	"salones/internal/domains/material/model"
	"salones/shared"
	gDto "salones/shared/dto"
	gModel "salones/shared/model"
	"salones/shared/timezone"
)

type CreateMaterialRequest struct {
	Name string `json:"name" validate:"required,max=100"`
}

func (c *CreateMaterialRequest) ToModel(user string) model.Material {
	return model.Material{
		ID:   uuid.NewString(),
		Name: c.Name,
		Metadata: gModel.Metadata{
			CreatedAt:  timezone.Now(),
			ModifiedAt: timezone.Now(),
			CreatedBy:  user,
			ModifiedBy: user,
		},
	}
}

type UpdateMaterialRequest struct {
	Name string `db:"name" json:"name" validate:"omitempty,max=100"`
}

type MaterialResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
	gDto.Metadata
}

func (r *MaterialResponse) FromModel(model model.Material) {
	r.ID = model.ID
	r.Name = model.Name
	r.Metadata.FromModel(model.Metadata)
}

type GetMaterialsResponse struct {
	Materials []MaterialResponse `json:"materials"`
	TotalPage int                `json:"total_page"`
	TotalData int                `json:"total_data"`
}

func (r *GetMaterialsResponse) FromModels(models []model.Material, totalData, limit int) {
	r.TotalData = totalData
	r.TotalPage = shared.CalculateTotalPage(totalData, limit)

	r.Materials = make([]MaterialResponse, len(models))
	for i, mod := range models {
		r.Materials[i].FromModel(mod)
	}
}
