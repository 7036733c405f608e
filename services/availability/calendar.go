package availability

import (
	"time"

	"crewcal/models"
)

const isoDateLayout = "2006-01-02"

// gridCells is always 6 full weeks so every month renders at the same height.
const gridCells = 42

var weekdayNames = [7]string{
	"sunday", "monday", "tuesday", "wednesday", "thursday", "friday", "saturday",
}

// WeekdayName returns the lowercase English weekday key used throughout the
// persisted documents ("sunday".."saturday").
func WeekdayName(w time.Weekday) string {
	return weekdayNames[int(w)%7]
}

// WeekdayOf resolves the weekday key for an ISO "YYYY-MM-DD" date. The
// boolean is false when the date does not parse.
func WeekdayOf(date string) (string, bool) {
	t, err := time.Parse(isoDateLayout, date)
	if err != nil {
		return "", false
	}
	return WeekdayName(t.Weekday()), true
}

// GenerateMonthGrid produces the 42-cell (6x7) grid every calendar surface
// renders from. monthIndex is zero-based (January = 0), matching the legacy
// UI contract. The grid starts at the Sunday on or before the 1st of the
// month; leading and trailing out-of-month cells are populated and flagged
// rather than filtered.
func GenerateMonthGrid(year, monthIndex int) []models.CalendarDay {
	first := time.Date(year, time.Month(monthIndex+1), 1, 0, 0, 0, 0, time.UTC)
	start := first.AddDate(0, 0, -int(first.Weekday()))

	cells := make([]models.CalendarDay, 0, gridCells)
	for i := 0; i < gridCells; i++ {
		d := start.AddDate(0, 0, i)
		cells = append(cells, models.CalendarDay{
			Day:           d.Day(),
			DayOfWeek:     d.Weekday(),
			ISODate:       d.Format(isoDateLayout),
			InTargetMonth: d.Month() == first.Month() && d.Year() == first.Year(),
		})
	}
	return cells
}

// DatesInRange expands an inclusive "YYYY-MM-DD" range into one date string
// per calendar day, in order. An unparseable bound or an inverted range
// yields nil.
func DatesInRange(startDate, endDate string) []string {
	start, err := time.Parse(isoDateLayout, startDate)
	if err != nil {
		return nil
	}
	end, err := time.Parse(isoDateLayout, endDate)
	if err != nil {
		return nil
	}
	if end.Before(start) {
		return nil
	}

	var dates []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(isoDateLayout))
	}
	return dates
}
