package schedule_test

import (
	"testing"
	"time"

	"salones/shared/schedule"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestMaxReservationDate(t *testing.T) {
	tests := []struct {
		name string
		base time.Time
		want time.Time
	}{
		{
			name: "mid month",
			base: date(2025, time.March, 10),
			want: date(2025, time.April, 10),
		},
		{
			name: "clamps to shorter month",
			base: date(2025, time.January, 31),
			want: date(2025, time.February, 28),
		},
		{
			name: "leap february",
			base: date(2024, time.January, 31),
			want: date(2024, time.February, 29),
		},
		{
			name: "year rollover",
			base: date(2025, time.December, 15),
			want: date(2026, time.January, 15),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := schedule.MaxReservationDate(tt.base)
			if !got.Equal(tt.want) {
				t.Errorf("MaxReservationDate(%v) = %v, want %v", tt.base, got, tt.want)
			}
		})
	}
}

func TestAddMonths(t *testing.T) {
	tests := []struct {
		name   string
		base   time.Time
		months int
		want   time.Time
	}{
		{
			name:   "keeps the anchor day across months",
			base:   date(2025, time.January, 31),
			months: 2,
			want:   date(2025, time.March, 31),
		},
		{
			name:   "clamps only the short month",
			base:   date(2025, time.January, 31),
			months: 1,
			want:   date(2025, time.February, 28),
		},
		{
			name:   "crosses a year boundary",
			base:   date(2025, time.November, 15),
			months: 3,
			want:   date(2026, time.February, 15),
		},
		{
			name:   "leap year february keeps day 29",
			base:   date(2024, time.January, 29),
			months: 1,
			want:   date(2024, time.February, 29),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := schedule.AddMonths(tt.base, tt.months)
			if !got.Equal(tt.want) {
				t.Errorf("AddMonths(%v, %d) = %v, want %v", tt.base, tt.months, got, tt.want)
			}
		})
	}
}

func TestAddOneMonthSequence(t *testing.T) {
	// clamped steps never recover the original day
	got := schedule.AddOneMonth(date(2025, time.January, 31))
	if got.Day() != 28 || got.Month() != time.February {
		t.Fatalf("first step = %v, want 2025-02-28", got)
	}

	got = schedule.AddOneMonth(got)
	if got.Day() != 28 || got.Month() != time.March {
		t.Fatalf("second step = %v, want 2025-03-28", got)
	}
}

func TestBlocksFor(t *testing.T) {
	tests := []struct {
		weekday time.Weekday
		count   int
	}{
		{time.Monday, 11},
		{time.Tuesday, 11},
		{time.Wednesday, 11},
		{time.Thursday, 12},
		{time.Friday, 6},
		{time.Saturday, 0},
		{time.Sunday, 0},
	}

	for _, tt := range tests {
		t.Run(tt.weekday.String(), func(t *testing.T) {
			blocks := schedule.BlocksFor(tt.weekday)
			if len(blocks) != tt.count {
				t.Fatalf("BlocksFor(%v) returned %d blocks, want %d", tt.weekday, len(blocks), tt.count)
			}
		})
	}

	thursday := schedule.BlocksFor(time.Thursday)
	last := thursday[len(thursday)-1]
	if last.Start.String() != "17:00" || last.End.String() != "18:00" {
		t.Errorf("thursday evening block = %s-%s, want 17:00-18:00", last.Start, last.End)
	}

	friday := schedule.BlocksFor(time.Friday)
	if friday[len(friday)-1].End.String() != "13:05" {
		t.Errorf("friday last block ends at %s, want 13:05", friday[len(friday)-1].End)
	}
}

func TestWithinWorkingHours(t *testing.T) {
	tod := schedule.MustParseTimeOfDay

	tests := []struct {
		name       string
		start, end schedule.TimeOfDay
		want       bool
	}{
		{"full window", tod("08:00"), tod("18:00"), true},
		{"inside", tod("10:00"), tod("11:00"), true},
		{"starts too early", tod("07:30"), tod("09:00"), false},
		{"ends too late", tod("17:00"), tod("18:30"), false},
		{"starts at closing", tod("18:00"), tod("18:00"), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := schedule.WithinWorkingHours(tt.start, tt.end); got != tt.want {
				t.Errorf("WithinWorkingHours(%s, %s) = %v, want %v", tt.start, tt.end, got, tt.want)
			}
		})
	}
}

func TestIsSchoolDay(t *testing.T) {
	if schedule.IsSchoolDay(time.Saturday) || schedule.IsSchoolDay(time.Sunday) {
		t.Error("weekend reported as school day")
	}

	if !schedule.IsSchoolDay(time.Monday) {
		t.Error("monday not reported as school day")
	}
}
