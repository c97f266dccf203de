package analytics

import (
	"fmt"
	"strconv"
	"time"
)

const monthKeyLayout = "2006-01"

// MonthKey returns the YYYY-MM bucket of t in loc.
func MonthKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	return t.In(loc).Format(monthKeyLayout)
}

// WeekKey returns the YYYY-Www bucket of t in loc.
//
// The week number is ceil((dayOfMonth + weekdayOfFirstOfMonth) / 7) with
// Sunday as weekday 0. It restarts at every month boundary, so W01 recurs
// each month and is not an ISO week.
func WeekKey(t time.Time, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	t = t.In(loc)
	first := time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, loc)
	offset := int(first.Weekday())
	week := (t.Day() + offset + 6) / 7
	return fmt.Sprintf("%04d-W%02d", t.Year(), week)
}

// periodTime reads a bucket key as a date for ordering. Month keys map to
// the first day of the month. Week keys are not calendar dates; only their
// leading year is read, which places them at January 1 of that year.
func periodTime(key string) time.Time {
	if t, err := time.Parse(monthKeyLayout, key); err == nil {
		return t
	}
	if len(key) >= 4 {
		if year, err := strconv.Atoi(key[:4]); err == nil {
			return time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
		}
	}
	return time.Time{}
}
