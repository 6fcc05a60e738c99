package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"salones/config"
	"salones/infras/otel/mocks"
	blackoutMocks "salones/internal/domains/blackout/mocks"
	"salones/internal/domains/blackout/model"
	"salones/internal/domains/blackout/model/dto"
	"salones/internal/domains/blackout/service"
	notificationMocks "salones/internal/domains/notification/mocks"
	reservationModel "salones/internal/domains/reservation/model"
	reservationMocks "salones/internal/domains/reservation/mocks"
	roomMocks "salones/internal/domains/room/mocks"
	cacheMocks "salones/shared/cache/mocks"
	"salones/shared/clock"
	"salones/shared/constant"
	"salones/shared/failure"
	txMocks "salones/shared/repository/mocks"
	"salones/shared/schedule"
)

// fixedNow is a Tuesday so blackout dates in the same week stay valid.
var fixedNow = time.Date(2025, 3, 4, 7, 30, 0, 0, time.UTC)

type stubReleaser struct {
	err error
}

func (s stubReleaser) ReleaseOverdue(context.Context) (int, error) {
	return 0, s.err
}

type blackoutFixture struct {
	repo          *blackoutMocks.MockBlackout
	rooms         *roomMocks.MockRoom
	reservations  *reservationMocks.MockReservation
	notifications *notificationMocks.MockNotification
	tx            *txMocks.MockTxRunner
	cache         *cacheMocks.MockRedisCache
	svc           service.Blackout
}

func newBlackoutFixture(ctrl *gomock.Controller) *blackoutFixture {
	f := &blackoutFixture{
		repo:          blackoutMocks.NewMockBlackout(ctrl),
		rooms:         roomMocks.NewMockRoom(ctrl),
		reservations:  reservationMocks.NewMockReservation(ctrl),
		notifications: notificationMocks.NewMockNotification(ctrl),
		tx:            txMocks.NewMockTxRunner(ctrl),
		cache:         cacheMocks.NewMockRedisCache(ctrl),
	}

	cfg := &config.Config{}
	cfg.Cache.TTL = 3600

	f.cache.EXPECT().
		Clear(gomock.Any(), gomock.Any()).
		Return(nil).
		AnyTimes()

	f.svc = service.New(
		f.repo,
		f.rooms,
		f.reservations,
		f.notifications,
		stubReleaser{},
		f.tx,
		cfg,
		f.cache,
		mocks.NewOtel(),
		clock.NewFixed(fixedNow),
	)

	return f
}

func (f *blackoutFixture) runTx() {
	f.tx.EXPECT().
		WithinTx(gomock.Any(), gomock.Any()).
		DoAndReturn(func(ctx context.Context, fn func(*sqlx.Tx) error) error {
			return fn(nil)
		})
}

func adminContext() context.Context {
	ctx := context.WithValue(context.Background(), constant.ContextKeyUserID, "admin-id")

	return context.WithValue(ctx, constant.ContextKeyUserRole, constant.RoleAdmin)
}

func strPtr(s string) *string {
	return &s
}

func TestBlackoutService_Create(t *testing.T) {
	at := func(hhmm string) schedule.TimeOfDay {
		return schedule.MustParseTimeOfDay(hhmm)
	}

	baseReq := func() dto.CreateBlackoutRequest {
		return dto.CreateBlackoutRequest{
			RoomID:    strPtr("room-1"),
			Date:      "2025-03-05",
			StartTime: at("08:00"),
			EndTime:   at("12:00"),
			Reason:    "Mantención",
		}
	}

	tests := []struct {
		name          string
		req           func() dto.CreateBlackoutRequest
		setupMock     func(f *blackoutFixture)
		wantErr       bool
		wantCode      int
		wantBlackouts int
		wantCancelled int
	}{
		{
			name: "single blackout without affected reservations",
			req:  baseReq,
			setupMock: func(f *blackoutFixture) {
				f.rooms.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
				f.runTx()
				f.reservations.EXPECT().
					ListOverlappingTx(gomock.Any(), gomock.Any(), "room-1", gomock.Any(), at("08:00"), at("12:00")).
					Return(nil, nil)
				f.repo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantBlackouts: 1,
		},
		{
			name: "cascade cancels overlapping reservations and notifies owners",
			req:  baseReq,
			setupMock: func(f *blackoutFixture) {
				f.rooms.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
				f.runTx()
				f.reservations.EXPECT().
					ListOverlappingTx(gomock.Any(), gomock.Any(), "room-1", gomock.Any(), at("08:00"), at("12:00")).
					Return([]reservationModel.Reservation{
						{ID: "res-1", UserID: "user-1", RoomCode: "A"},
						{ID: "res-2", UserID: "user-2", RoomCode: "A"},
					}, nil)
				f.reservations.EXPECT().
					CancelTx(gomock.Any(), gomock.Any(), "res-1", constant.SystemUser).
					Return(true, nil)
				f.reservations.EXPECT().
					CancelTx(gomock.Any(), gomock.Any(), "res-2", constant.SystemUser).
					Return(true, nil)
				f.notifications.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					Times(2)
				f.repo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantBlackouts: 1,
			wantCancelled: 2,
		},
		{
			name: "weekly repeat inserts seven rows",
			req: func() dto.CreateBlackoutRequest {
				req := baseReq()
				req.Repeat = model.RepeatWeekly

				return req
			},
			setupMock: func(f *blackoutFixture) {
				f.rooms.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
				f.runTx()
				f.reservations.EXPECT().
					ListOverlappingTx(gomock.Any(), gomock.Any(), "room-1", gomock.Any(), at("08:00"), at("12:00")).
					Return(nil, nil).
					Times(7)
				f.repo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					Times(7)
			},
			wantBlackouts: 7,
		},
		{
			name: "monthly repeat inserts one row per month until the limit",
			req: func() dto.CreateBlackoutRequest {
				req := baseReq()
				req.Date = "2025-03-31"
				req.Repeat = model.RepeatMonthly
				req.RepeatUntil = "2025-05-15"

				return req
			},
			setupMock: func(f *blackoutFixture) {
				f.rooms.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
				f.runTx()
				f.reservations.EXPECT().
					ListOverlappingTx(gomock.Any(), gomock.Any(), "room-1", gomock.Any(), at("08:00"), at("12:00")).
					Return(nil, nil).
					Times(2)
				f.repo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					Times(2)
			},
			wantBlackouts: 2,
		},
		{
			name: "global blackout skips the room existence check",
			req: func() dto.CreateBlackoutRequest {
				req := baseReq()
				req.RoomID = nil

				return req
			},
			setupMock: func(f *blackoutFixture) {
				f.runTx()
				f.reservations.EXPECT().
					ListOverlappingTx(gomock.Any(), gomock.Any(), "", gomock.Any(), at("08:00"), at("12:00")).
					Return(nil, nil)
				f.repo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
			wantBlackouts: 1,
		},
		{
			name: "invalid date",
			req: func() dto.CreateBlackoutRequest {
				req := baseReq()
				req.Date = "05/03/2025"

				return req
			},
			setupMock: func(f *blackoutFixture) {},
			wantErr:   true,
			wantCode:  400,
		},
		{
			name: "start not before end",
			req: func() dto.CreateBlackoutRequest {
				req := baseReq()
				req.StartTime = at("12:00")
				req.EndTime = at("08:00")

				return req
			},
			setupMock: func(f *blackoutFixture) {},
			wantErr:   true,
			wantCode:  400,
		},
		{
			name: "date in the past",
			req: func() dto.CreateBlackoutRequest {
				req := baseReq()
				req.Date = "2025-03-03"

				return req
			},
			setupMock: func(f *blackoutFixture) {},
			wantErr:   true,
			wantCode:  400,
		},
		{
			name: "monthly repeat requires a limit",
			req: func() dto.CreateBlackoutRequest {
				req := baseReq()
				req.Repeat = model.RepeatMonthly

				return req
			},
			setupMock: func(f *blackoutFixture) {},
			wantErr:   true,
			wantCode:  400,
		},
		{
			name: "repeat limit before the start date",
			req: func() dto.CreateBlackoutRequest {
				req := baseReq()
				req.Repeat = model.RepeatMonthly
				req.RepeatUntil = "2025-03-04"

				return req
			},
			setupMock: func(f *blackoutFixture) {},
			wantErr:   true,
			wantCode:  400,
		},
		{
			name: "room not found",
			req:  baseReq,
			setupMock: func(f *blackoutFixture) {
				f.rooms.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
		{
			name: "insert failure rolls the batch back",
			req:  baseReq,
			setupMock: func(f *blackoutFixture) {
				f.rooms.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
				f.runTx()
				f.reservations.EXPECT().
					ListOverlappingTx(gomock.Any(), gomock.Any(), "room-1", gomock.Any(), at("08:00"), at("12:00")).
					Return(nil, nil)
				f.repo.EXPECT().
					InsertTx(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			f := newBlackoutFixture(ctrl)
			tt.setupMock(f)

			res, err := f.svc.Create(adminContext(), tt.req())

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}

				return
			}

			assert.NoError(t, err)
			assert.Len(t, res.Blackouts, tt.wantBlackouts)
			assert.Equal(t, tt.wantCancelled, res.CancelledReservations)
		})
	}
}

func TestBlackoutService_Update(t *testing.T) {
	current := model.Blackout{
		ID:            "blk-1",
		RoomID:        strPtr("room-1"),
		StartDatetime: time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC),
		EndDatetime:   time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
		Reason:        "Mantención",
	}

	tests := []struct {
		name      string
		req       dto.UpdateBlackoutRequest
		setupMock func(f *blackoutFixture)
		wantErr   bool
		wantCode  int
	}{
		{
			name: "successful reason change re-runs the cascade",
			req:  dto.UpdateBlackoutRequest{Reason: "Feriado regional"},
			setupMock: func(f *blackoutFixture) {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(current, nil)
				f.runTx()
				f.reservations.EXPECT().
					ListOverlappingTx(gomock.Any(), gomock.Any(), "room-1", gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, nil)
				f.repo.EXPECT().
					UpdateTx(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "blackout not found",
			req:  dto.UpdateBlackoutRequest{Reason: "Feriado"},
			setupMock: func(f *blackoutFixture) {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(model.Blackout{}, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
		{
			name: "rejects inverted window",
			req: dto.UpdateBlackoutRequest{
				StartTime: timeOfDayPtr("14:00"),
				EndTime:   timeOfDayPtr("09:00"),
			},
			setupMock: func(f *blackoutFixture) {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(current, nil)
			},
			wantErr:  true,
			wantCode: 400,
		},
		{
			name: "target room not found",
			req:  dto.UpdateBlackoutRequest{RoomID: strPtr("room-missing")},
			setupMock: func(f *blackoutFixture) {
				f.repo.EXPECT().
					Get(gomock.Any(), gomock.Any()).
					Return(current, nil)
				f.rooms.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(false, nil)
			},
			wantErr:  true,
			wantCode: 404,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			f := newBlackoutFixture(ctrl)
			tt.setupMock(f)

			err := f.svc.Update(adminContext(), tt.req, "blk-1")

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

func TestBlackoutService_Delete(t *testing.T) {
	tests := []struct {
		name      string
		setupMock func(f *blackoutFixture)
		wantErr   bool
	}{
		{
			name: "successful delete",
			setupMock: func(f *blackoutFixture) {
				f.repo.EXPECT().
					Exist(gomock.Any(), gomock.Any()).
					Return(true, nil)
				f.repo.EXPECT().
					Delete(gomock.Any(), gomock.Any()).
					Return(nil)
			},
		},
		{
			name: "blackout not found",
			setupMock: func(f *blackoutFixture) {
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

			f := newBlackoutFixture(ctrl)
			tt.setupMock(f)

			err := f.svc.Delete(adminContext(), "blk-1")

			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestBlackoutService_ListOccupancy(t *testing.T) {
	roomID := strPtr("room-1")
	roomCode := strPtr("A")

	tests := []struct {
		name      string
		from      string
		to        string
		setupMock func(f *blackoutFixture)
		wantErr   bool
		wantRows  int
	}{
		{
			name: "defaults to the bookable window",
			setupMock: func(f *blackoutFixture) {
				today := schedule.DateOnly(fixedNow)
				limit := schedule.MaxReservationDate(today).AddDate(0, 0, 1)

				f.repo.EXPECT().
					ListOccupancy(gomock.Any(), today, limit).
					Return([]model.OccupancyRow{
						{
							Source:        "blackout",
							ID:            "blk-1",
							RoomID:        roomID,
							RoomCode:      roomCode,
							StartDatetime: time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC),
							EndDatetime:   time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC),
							Reason:        "Mantención",
						},
					}, nil)
			},
			wantRows: 1,
		},
		{
			name: "swaps an inverted range",
			from: "2025-03-10",
			to:   "2025-03-05",
			setupMock: func(f *blackoutFixture) {
				f.repo.EXPECT().
					ListOccupancy(gomock.Any(), gomock.Any(), gomock.Any()).
					DoAndReturn(func(_ context.Context, from, to time.Time) ([]model.OccupancyRow, error) {
						assert.True(t, from.Before(to))

						return nil, nil
					})
			},
		},
		{
			name:      "invalid from date",
			from:      "bad-date",
			setupMock: func(f *blackoutFixture) {},
			wantErr:   true,
		},
		{
			name:      "invalid to date",
			to:        "bad-date",
			setupMock: func(f *blackoutFixture) {},
			wantErr:   true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			f := newBlackoutFixture(ctrl)
			tt.setupMock(f)

			res, err := f.svc.ListOccupancy(context.Background(), tt.from, tt.to)

			if tt.wantErr {
				assert.Error(t, err)

				return
			}

			assert.NoError(t, err)
			assert.Len(t, res.Occupancy, tt.wantRows)
		})
	}
}

func timeOfDayPtr(hhmm string) *schedule.TimeOfDay {
	v := schedule.MustParseTimeOfDay(hhmm)

	return &v
}
