package service_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/mock/gomock"

	"salones/config"
	"salones/infras/otel/mocks"
	"salones/internal/domains/report/model"
	reportMocks "salones/internal/domains/report/mocks"
	"salones/internal/domains/report/service"
	cacheMocks "salones/shared/cache/mocks"
	"salones/shared/clock"
	"salones/shared/failure"
)

var fixedNow = time.Date(2025, 3, 14, 7, 30, 0, 0, time.UTC)

type stubReleaser struct {
	err error
}

func (s stubReleaser) ReleaseOverdue(context.Context) (int, error) {
	return 0, s.err
}

func TestReportService_Usage(t *testing.T) {
	tests := []struct {
		name      string
		from      string
		to        string
		roomID    string
		releaser  stubReleaser
		setupMock func(repo *reportMocks.MockReport, cache *cacheMocks.MockRedisCache)
		wantErr   bool
		wantCode  int
		wantFrom  string
		wantTo    string
	}{
		{
			name: "explicit range aggregates rooms and materials",
			from: "2025-03-01",
			to:   "2025-03-10",
			setupMock: func(repo *reportMocks.MockReport, cache *cacheMocks.MockRedisCache) {
				cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))
				repo.EXPECT().
					RoomUsage(gomock.Any(), gomock.Any(), gomock.Any(), "").
					Return([]model.RoomUsageRow{
						{RoomID: "room-1", RoomCode: "A", Reservations: 4},
					}, nil)
				repo.EXPECT().
					MaterialUsage(gomock.Any(), gomock.Any(), gomock.Any(), "").
					Return([]model.MaterialUsageRow{
						{MaterialID: "mat-1", MaterialName: "Proyector", Quantity: 9},
					}, nil)
				cache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantFrom: "2025-03-01",
			wantTo:   "2025-03-10",
		},
		{
			name: "missing bounds default to the month to date",
			setupMock: func(repo *reportMocks.MockReport, cache *cacheMocks.MockRedisCache) {
				cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))
				repo.EXPECT().
					RoomUsage(gomock.Any(), gomock.Any(), gomock.Any(), "").
					Return(nil, nil)
				repo.EXPECT().
					MaterialUsage(gomock.Any(), gomock.Any(), gomock.Any(), "").
					Return(nil, nil)
				cache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantFrom: "2025-03-01",
			wantTo:   "2025-03-14",
		},
		{
			name: "reversed bounds are swapped",
			from: "2025-03-10",
			to:   "2025-03-01",
			setupMock: func(repo *reportMocks.MockReport, cache *cacheMocks.MockRedisCache) {
				cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))
				repo.EXPECT().
					RoomUsage(gomock.Any(), gomock.Any(), gomock.Any(), "").
					DoAndReturn(func(_ context.Context, from, to time.Time, _ string) ([]model.RoomUsageRow, error) {
						assert.True(t, from.Before(to))

						return nil, nil
					})
				repo.EXPECT().
					MaterialUsage(gomock.Any(), gomock.Any(), gomock.Any(), "").
					Return(nil, nil)
				cache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantFrom: "2025-03-01",
			wantTo:   "2025-03-10",
		},
		{
			name:     "sweep failure does not block the report",
			releaser: stubReleaser{err: errors.New("database error")},
			setupMock: func(repo *reportMocks.MockReport, cache *cacheMocks.MockRedisCache) {
				cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))
				repo.EXPECT().
					RoomUsage(gomock.Any(), gomock.Any(), gomock.Any(), "").
					Return(nil, nil)
				repo.EXPECT().
					MaterialUsage(gomock.Any(), gomock.Any(), gomock.Any(), "").
					Return(nil, nil)
				cache.EXPECT().
					Save(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil).
					AnyTimes()
			},
			wantFrom: "2025-03-01",
			wantTo:   "2025-03-14",
		},
		{
			name:      "invalid from date",
			from:      "bad-date",
			setupMock: func(repo *reportMocks.MockReport, cache *cacheMocks.MockRedisCache) {},
			wantErr:   true,
			wantCode:  400,
		},
		{
			name:      "invalid to date",
			to:        "bad-date",
			setupMock: func(repo *reportMocks.MockReport, cache *cacheMocks.MockRedisCache) {},
			wantErr:   true,
			wantCode:  400,
		},
		{
			name: "room usage error",
			setupMock: func(repo *reportMocks.MockReport, cache *cacheMocks.MockRedisCache) {
				cache.EXPECT().
					Get(gomock.Any(), gomock.Any(), gomock.Any()).
					Return(errors.New("cache miss"))
				repo.EXPECT().
					RoomUsage(gomock.Any(), gomock.Any(), gomock.Any(), "").
					Return(nil, errors.New("database error"))
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := reportMocks.NewMockReport(ctrl)
			mockCache := cacheMocks.NewMockRedisCache(ctrl)
			tt.setupMock(repo, mockCache)

			cfg := &config.Config{}
			cfg.Cache.TTL = 3600

			svc := service.New(repo, tt.releaser, cfg, mockCache, mocks.NewOtel(), clock.NewFixed(fixedNow))

			res, err := svc.Usage(context.Background(), tt.from, tt.to, tt.roomID)

			if tt.wantErr {
				assert.Error(t, err)

				if tt.wantCode != 0 {
					assert.Equal(t, tt.wantCode, failure.GetCode(err))
				}

				return
			}

			assert.NoError(t, err)
			assert.Equal(t, tt.wantFrom, res.From)
			assert.Equal(t, tt.wantTo, res.To)
		})
	}
}
