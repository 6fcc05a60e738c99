package service_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"salones/internal/domains/blackout/model"
	"salones/internal/domains/blackout/service"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestExpandOccurrences(t *testing.T) {
	tests := []struct {
		name        string
		date        time.Time
		repeat      string
		repeatUntil time.Time
		want        []time.Time
	}{
		{
			name:   "none yields a single day",
			date:   day(2025, time.March, 3),
			repeat: model.RepeatNone,
			want:   []time.Time{day(2025, time.March, 3)},
		},
		{
			name:   "unknown repeat treated as single day",
			date:   day(2025, time.March, 3),
			repeat: "",
			want:   []time.Time{day(2025, time.March, 3)},
		},
		{
			name:   "weekly covers seven consecutive days",
			date:   day(2025, time.March, 3),
			repeat: model.RepeatWeekly,
			want: []time.Time{
				day(2025, time.March, 3),
				day(2025, time.March, 4),
				day(2025, time.March, 5),
				day(2025, time.March, 6),
				day(2025, time.March, 7),
				day(2025, time.March, 8),
				day(2025, time.March, 9),
			},
		},
		{
			name:        "monthly clamps to shorter months and keeps the anchor day",
			date:        day(2025, time.January, 31),
			repeat:      model.RepeatMonthly,
			repeatUntil: day(2025, time.April, 15),
			want: []time.Time{
				day(2025, time.January, 31),
				day(2025, time.February, 28),
				day(2025, time.March, 31),
			},
		},
		{
			name:        "monthly stops at the repeat limit inclusive",
			date:        day(2025, time.March, 10),
			repeat:      model.RepeatMonthly,
			repeatUntil: day(2025, time.May, 10),
			want: []time.Time{
				day(2025, time.March, 10),
				day(2025, time.April, 10),
				day(2025, time.May, 10),
			},
		},
		{
			name:        "monthly with limit before next occurrence yields only the start",
			date:        day(2025, time.March, 10),
			repeat:      model.RepeatMonthly,
			repeatUntil: day(2025, time.March, 20),
			want:        []time.Time{day(2025, time.March, 10)},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := service.ExpandOccurrences(tt.date, tt.repeat, tt.repeatUntil)

			assert.Len(t, got, len(tt.want))

			for i, want := range tt.want {
				assert.True(t, got[i].Equal(want), "occurrence %d: got %s, want %s", i, got[i], want)
			}
		})
	}
}
