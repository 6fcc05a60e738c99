// Package schedule holds the school calendar rules: the working window,
// the teaching block grid per weekday and the bounds of the booking window.
package schedule

import (
	"time"
)

var (
	WorkdayStart = MustParseTimeOfDay("08:00")
	WorkdayEnd   = MustParseTimeOfDay("18:00")
)

// Block is one teaching period of the daily grid.
type Block struct {
	Number int       `json:"number"`
	Start  TimeOfDay `json:"start"`
	End    TimeOfDay `json:"end"`
}

// baseBlocks is the Monday to Wednesday grid. Thursday appends an extra
// evening block and Friday keeps only the morning half.
var baseBlocks = []Block{
	{Number: 1, Start: MustParseTimeOfDay("08:00"), End: MustParseTimeOfDay("08:45")},
	{Number: 2, Start: MustParseTimeOfDay("08:45"), End: MustParseTimeOfDay("09:30")},
	{Number: 3, Start: MustParseTimeOfDay("09:50"), End: MustParseTimeOfDay("10:35")},
	{Number: 4, Start: MustParseTimeOfDay("10:35"), End: MustParseTimeOfDay("11:20")},
	{Number: 5, Start: MustParseTimeOfDay("11:35"), End: MustParseTimeOfDay("12:20")},
	{Number: 6, Start: MustParseTimeOfDay("12:20"), End: MustParseTimeOfDay("13:05")},
	{Number: 7, Start: MustParseTimeOfDay("13:05"), End: MustParseTimeOfDay("13:50")},
	{Number: 8, Start: MustParseTimeOfDay("13:50"), End: MustParseTimeOfDay("14:35")},
	{Number: 9, Start: MustParseTimeOfDay("14:35"), End: MustParseTimeOfDay("15:20")},
	{Number: 10, Start: MustParseTimeOfDay("15:20"), End: MustParseTimeOfDay("16:05")},
	{Number: 11, Start: MustParseTimeOfDay("16:05"), End: MustParseTimeOfDay("16:50")},
}

var thursdayExtra = Block{Number: 12, Start: MustParseTimeOfDay("17:00"), End: MustParseTimeOfDay("18:00")}

const fridayBlockCount = 6

// BlocksFor returns the teaching blocks available on the given weekday.
// Weekends have none.
func BlocksFor(weekday time.Weekday) []Block {
	switch weekday {
	case time.Saturday, time.Sunday:
		return nil
	case time.Thursday:
		blocks := make([]Block, 0, len(baseBlocks)+1)
		blocks = append(blocks, baseBlocks...)
		blocks = append(blocks, thursdayExtra)

		return blocks
	case time.Friday:
		blocks := make([]Block, fridayBlockCount)
		copy(blocks, baseBlocks[:fridayBlockCount])

		return blocks
	default:
		blocks := make([]Block, len(baseBlocks))
		copy(blocks, baseBlocks)

		return blocks
	}
}

// IsSchoolDay reports whether the weekday is Monday through Friday.
func IsSchoolDay(weekday time.Weekday) bool {
	return weekday != time.Saturday && weekday != time.Sunday
}

// WithinWorkingHours reports whether both endpoints fall inside the working
// window: the start before closing time and the end no later than it.
func WithinWorkingHours(start, end TimeOfDay) bool {
	return start >= WorkdayStart && start < WorkdayEnd &&
		end > WorkdayStart && end <= WorkdayEnd
}

// DateOnly truncates t to midnight in its own location.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// AddOneMonth advances t by one calendar month, clamping the day to the last
// day of the target month (Jan 31 advances to Feb 28, not Mar 3).
func AddOneMonth(t time.Time) time.Time {
	return AddMonths(t, 1)
}

// AddMonths advances t by the given number of calendar months, anchored to
// t's own day-of-month and clamped per target month. The anchor matters for
// repetition: Jan 31 plus two months is Mar 31, not Mar 28.
func AddMonths(t time.Time, months int) time.Time {
	year, month := t.Year(), int(t.Month())+months

	year += (month - 1) / 12
	month = (month-1)%12 + 1

	day := min(t.Day(), daysIn(year, time.Month(month)))

	return time.Date(year, time.Month(month), day, t.Hour(), t.Minute(), t.Second(), 0, t.Location())
}

// MaxReservationDate returns the last date bookable from base: the same day of
// the following month, clamped.
func MaxReservationDate(base time.Time) time.Time {
	return DateOnly(AddOneMonth(base))
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month+1, 0, 0, 0, 0, 0, time.UTC).Day()
}
