package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"salones/config"
	"salones/infras/otel/mocks"
	invMocks "salones/internal/domains/inventory/mocks"
	"salones/internal/domains/inventory/model"
	"salones/internal/domains/inventory/model/dto"
	"salones/internal/domains/inventory/service"
	materialMocks "salones/internal/domains/material/mocks"
	roomMocks "salones/internal/domains/room/mocks"
	cacheMocks "salones/shared/cache/mocks"
	"salones/shared/constant"
	"salones/shared/failure"
)

type inventoryFixture struct {
	repo      *invMocks.MockInventory
	rooms     *roomMocks.MockRoom
	materials *materialMocks.MockMaterial
	cache     *cacheMocks.MockRedisCache
	svc       service.Inventory
}

func newInventoryFixture(ctrl *gomock.Controller) *inventoryFixture {
	f := &inventoryFixture{
		repo:      invMocks.NewMockInventory(ctrl),
		rooms:     roomMocks.NewMockRoom(ctrl),
		materials: materialMocks.NewMockMaterial(ctrl),
		cache:     cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f.cache.EXPECT().
		Clear(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	f.svc = service.New(f.repo, f.rooms, f.materials, cfg, f.cache, mocks.NewOtel())

	return f
}

func TestInventoryService_Create(t *testing.T) {
	req := dto.CreateInventoryRequest{
		RoomID:     "room-1",
		MaterialID: "mat-1",
		Quantity:   5,
	}

	tests := []struct {
		name      string
		setupMock func(f *inventoryFixture)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful creation",
			setupMock: func(f *inventoryFixture) {
				f.rooms.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
				f.materials.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
				f.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
				f.repo.EXPECT().
					Insert(gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "room not found",
			setupMock: func(f *inventoryFixture) {
				f.rooms.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
		{
			name: "material not found",
			setupMock: func(f *inventoryFixture) {
				f.rooms.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
				f.materials.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
		{
			name: "duplicate room and material pair",
			setupMock: func(f *inventoryFixture) {
				f.rooms.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
				f.materials.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
				f.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
			},
			wantErr:  true,
			wantCode: 409,
		},
		{
			name: "repository error",
			setupMock: func(f *inventoryFixture) {
				f.rooms.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
				f.materials.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
				f.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
				f.repo.EXPECT().
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

			f := newInventoryFixture(ctrl)
			tt.setupMock(f)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			err := f.svc.Create(ctx, req)

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

func TestInventoryService_GetAvailability(t *testing.T) {
	tests := []struct {
		name       string
		date       string
		block      int
		roomID     string
		setupMock  func(f *inventoryFixture)
		wantErr    bool
		wantStatus []string
	}{
		{
			name:   "maps quantities to availability status",
			date:   "2025-03-05",
			block:  1,
			roomID: "",
			setupMock: func(f *inventoryFixture) {
				f.repo.EXPECT().
					GetAvailability(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), "").
					Return([]model.AvailabilityRow{
						{ID: "inv-1", MaterialName: "Proyector", Quantity: 5, Reserved: 0},
						{ID: "inv-2", MaterialName: "Notebook", Quantity: 5, Reserved: 2},
						{ID: "inv-3", MaterialName: "Telón", Quantity: 2, Reserved: 2},
					}, nil)
			},
			wantStatus: []string{
				dto.AvailabilityStatusAvailable,
				dto.AvailabilityStatusPartial,
				dto.AvailabilityStatusDepleted,
			},
		},
		{
			name:   "thursday evening block is valid",
			date:   "2025-03-06",
			block:  12,
			roomID: "room-1",
			setupMock: func(f *inventoryFixture) {
				f.repo.EXPECT().
					GetAvailability(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any(), "room-1").
					Return(nil, nil)
			},
			wantStatus: []string{},
		},
		{
			name:      "invalid date",
			date:      "not-a-date",
			block:     1,
			setupMock: func(f *inventoryFixture) {},
			wantErr:   true,
		},
		{
			name:      "weekend has no blocks",
			date:      "2025-03-08",
			block:     1,
			setupMock: func(f *inventoryFixture) {},
			wantErr:   true,
		},
		{
			name:      "friday afternoon block does not exist",
			date:      "2025-03-07",
			block:     7,
			setupMock: func(f *inventoryFixture) {},
			wantErr:   true,
		},
		{
			name:      "unknown block number",
			date:      "2025-03-05",
			block:     99,
			setupMock: func(f *inventoryFixture) {},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			f := newInventoryFixture(ctrl)
			tt.setupMock(f)

			res, err := f.svc.GetAvailability(context.Background(), tt.date, tt.block, tt.roomID)

			if tt.wantErr {
				assert.Error(t, err)
				assert.Equal(t, 400, failure.GetCode(err))

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.date, res.Date)
			assert.Len(t, res.Availability, len(tt.wantStatus))

			for i, status := range tt.wantStatus {
				assert.Equal(t, status, res.Availability[i].Status)
			}
		})
	}
}

func TestInventoryService_Update(t *testing.T) {
	quantity := 7

	tests := []struct {
		name      string
		setupMock func(f *inventoryFixture)
		wantErr   bool
	}{
		{
			name: "successful update",
			setupMock: func(f *inventoryFixture) {
				f.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
				f.repo.EXPECT().
					Update(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "inventory not found",
			setupMock: func(f *inventoryFixture) {
				f.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			f := newInventoryFixture(ctrl)
			tt.setupMock(f)

			ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "test-user-id")
			err := f.svc.Update(ctx, dto.UpdateInventoryRequest{Quantity: &quantity}, "inv-1")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
