package dateutil

import (
	"fmt"
	"time"
)

const dayLayout = "2006-01-02"

// DayValue returns the calendar-day key of t, e.g. "2023-05-29".
func DayValue(t time.Time) string {
	return t.Format(dayLayout)
}

// WeekValue returns the ISO-week key of t, e.g. "week/22/2023".
func WeekValue(t time.Time) string {
	year, week := t.ISOWeek()
	return fmt.Sprintf("week/%d/%d", week, year)
}

// MonthValue returns the calendar-month key of t, e.g. "month/5/2023".
func MonthValue(t time.Time) string {
	return fmt.Sprintf("month/%d/%d", t.Month(), t.Year())
}

func LastDay(t time.Time) time.Time {
	return t.AddDate(0, 0, -1)
}

func BeginningOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
