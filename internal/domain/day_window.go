package domain

import "time"

const DayLayout = "2006-01-02"

// DayWindow is the calendar day a ride falls on, [00:00:00.000, 23:59:59.999]
// in the booking timezone. Two bookings conflict when their windows share a Key.
type DayWindow struct {
	Start time.Time
	End   time.Time
}

func DayWindowFor(t time.Time, loc *time.Location) DayWindow {
	if loc == nil {
		loc = time.Local
	}
	lt := t.In(loc)
	start := time.Date(lt.Year(), lt.Month(), lt.Day(), 0, 0, 0, 0, loc)
	end := time.Date(lt.Year(), lt.Month(), lt.Day(), 23, 59, 59, int(999*time.Millisecond), loc)
	return DayWindow{Start: start, End: end}
}

// ParseDay reads a "YYYY-MM-DD" date or an RFC3339 timestamp.
func ParseDay(s string, loc *time.Location) (DayWindow, error) {
	if loc == nil {
		loc = time.Local
	}
	if t, err := time.ParseInLocation(DayLayout, s, loc); err == nil {
		return DayWindowFor(t, loc), nil
	}
	t, err := time.Parse(time.RFC3339, s)
	if err != nil {
		return DayWindow{}, &ValidationError{Field: "date", Msg: "must be YYYY-MM-DD or RFC3339"}
	}
	return DayWindowFor(t, loc), nil
}

func (w DayWindow) Key() string { return w.Start.Format(DayLayout) }

func (w DayWindow) Contains(t time.Time) bool {
	return !t.Before(w.Start) && !t.After(w.End)
}
