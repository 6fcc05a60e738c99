package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/lib/pq"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"salones/config"
	"salones/infras/otel/mocks"
	materialMocks "salones/internal/domains/material/mocks"
	"salones/internal/domains/material/model/dto"
	"salones/internal/domains/material/service"
	cacheMocks "salones/shared/cache/mocks"
	"salones/shared/constant"
	"salones/shared/failure"
)

func newMaterialService(ctrl *gomock.Controller) (service.Material, *materialMocks.MockMaterial) {
	mockRepo := materialMocks.NewMockMaterial(ctrl)
	mockCache := cacheMocks.NewMockRedisCache(ctrl)

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	mockCache.EXPECT().
		Clear(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	return service.New(mockRepo, cfg, mockCache, mocks.NewOtel()), mockRepo
}

func TestMaterialService_Create(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(repo *materialMocks.MockMaterial)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful creation",
			setupMock: func(repo *materialMocks.MockMaterial) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "duplicate name",
			setupMock: func(repo *materialMocks.MockMaterial) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
			},
			wantErr:  true,
			wantCode: 409,
		},
		{
			name: "repository failure",
			setupMock: func(repo *materialMocks.MockMaterial) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
				repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, repo := newMaterialService(ctrl)
			tt.setupMock(repo)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-id")
			err := svc.Create(ctx, dto.CreateMaterialRequest{Name: "Proyector"})

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMaterialService_Update(t *testing.T) {
	tests := []struct {
		name      string
		req       dto.UpdateMaterialRequest
		setupMock func(repo *materialMocks.MockMaterial)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful rename",
			req:  dto.UpdateMaterialRequest{Name: "Notebook"},
			setupMock: func(repo *materialMocks.MockMaterial) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
				repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name:      "empty update rejected",
			req:       dto.UpdateMaterialRequest{},
			setupMock: func(repo *materialMocks.MockMaterial) {},
			wantErr:   true,
			wantCode:  400,
		},
		{
			name: "material not found",
			req:  dto.UpdateMaterialRequest{Name: "Notebook"},
			setupMock: func(repo *materialMocks.MockMaterial) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
		{
			name: "rename to an existing name",
			req:  dto.UpdateMaterialRequest{Name: "Notebook"},
			setupMock: func(repo *materialMocks.MockMaterial) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
				repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(&pq.Error{Code: pq.ErrorCode(constant.PqErrorCodeUniqueViolation)})
			},
			wantErr:  true,
			wantCode: 409,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, repo := newMaterialService(ctrl)
			tt.setupMock(repo)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-id")
			err := svc.Update(ctx, tt.req, "mat-1")

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestMaterialService_Delete(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(repo *materialMocks.MockMaterial)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful delete",
			setupMock: func(repo *materialMocks.MockMaterial) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
				repo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "material not found",
			setupMock: func(repo *materialMocks.MockMaterial) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
		{
			name: "material still referenced",
			setupMock: func(repo *materialMocks.MockMaterial) {
				repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
				repo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(&pq.Error{Code: pq.ErrorCode(constant.PqErrorCodeFkViolation)})
			},
			wantErr:  true,
			wantCode: 409,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			svc, repo := newMaterialService(ctrl)
			tt.setupMock(repo)

			err := svc.Delete(context.Background(), "mat-1")

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
