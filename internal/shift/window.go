// Package shift maps wall-clock time onto the café's fixed shift windows and
// keeps one shift record per window per day.
package shift

import (
	"fmt"
	"time"

	"pos-service/internal/domain"
)

const dateKeyLayout = "2006-01-02"

// Window covers [StartHour, EndHour) of a local day. EndHour 24 means
// midnight of the next day.
type Window struct {
	Type      domain.ShiftType
	Name      string
	StartHour int
	EndHour   int
}

// DefaultWindows leaves 00:00-06:00 uncovered: the café is closed.
var DefaultWindows = []Window{
	{Type: domain.ShiftMorning, Name: "Morning", StartHour: 6, EndHour: 12},
	{Type: domain.ShiftAfternoon, Name: "Afternoon", StartHour: 12, EndHour: 18},
	{Type: domain.ShiftEvening, Name: "Evening", StartHour: 18, EndHour: 24},
}

// WindowAt finds the window holding t's hour in t's own location.
func WindowAt(windows []Window, t time.Time) (Window, bool) {
	h := t.Hour()
	for _, w := range windows {
		if h >= w.StartHour && h < w.EndHour {
			return w, true
		}
	}
	return Window{}, false
}

func DateKey(t time.Time) string {
	return t.Format(dateKeyLayout)
}

// Bounds returns the start and end instants of w on the day named by dateKey.
func Bounds(dateKey string, w Window, loc *time.Location) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation(dateKeyLayout, dateKey, loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("parse date key %q: %w", dateKey, err)
	}
	start := time.Date(day.Year(), day.Month(), day.Day(), w.StartHour, 0, 0, 0, loc)
	end := time.Date(day.Year(), day.Month(), day.Day(), w.EndHour, 0, 0, 0, loc)
	return start, end, nil
}

// NewRecord builds the zero-revenue shift for w on dateKey.
func NewRecord(dateKey string, w Window, loc *time.Location) (*domain.Shift, error) {
	start, end, err := Bounds(dateKey, w, loc)
	if err != nil {
		return nil, err
	}
	return &domain.Shift{
		ShiftType: w.Type,
		Name:      w.Name,
		Date:      dateKey,
		StartTime: start,
		EndTime:   end,
	}, nil
}
