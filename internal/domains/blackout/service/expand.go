package service

import (
	"time"

	"salones/internal/domains/blackout/model"
	"salones/shared/schedule"
)

// ExpandOccurrences turns a blackout request into the concrete days it
// covers. Weekly means the initial day plus the six following calendar days,
// weekends included. Monthly repeats on the same day-of-month, clamped to
// shorter months, while the result stays within repeatUntil.
func ExpandOccurrences(date time.Time, repeat string, repeatUntil time.Time) []time.Time {
	date = schedule.DateOnly(date)

	switch repeat {
	case model.RepeatWeekly:
		days := make([]time.Time, 0, 7)
		for i := 0; i < 7; i++ {
			days = append(days, date.AddDate(0, 0, i))
		}

		return days
	case model.RepeatMonthly:
		days := []time.Time{date}

		limit := schedule.DateOnly(repeatUntil)
		for k := 1; ; k++ {
			next := schedule.AddMonths(date, k)
			if next.After(limit) {
				break
			}

			days = append(days, next)
		}

		return days
	default:
		return []time.Time{date}
	}
}
