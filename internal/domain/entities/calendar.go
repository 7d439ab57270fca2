package entities

import (
	"fmt"
	"sort"
	"time"

	"github.com/google/uuid"

	"mentorbook/internal/domain"
)

// AvailabilityCalendar holds one leader's weekly windows. No two windows on
// the same weekday overlap.
type AvailabilityCalendar struct {
	LeaderID string
	Windows  []TimeWindow
	// AutoConfirm makes new bookings start Confirmed instead of Pending.
	AutoConfirm bool
	UpdatedAt   time.Time
}

// NewAvailabilityCalendar returns the empty calendar of a freshly onboarded leader.
func NewAvailabilityCalendar(leaderID string) *AvailabilityCalendar {
	return &AvailabilityCalendar{LeaderID: leaderID}
}

// WindowOccurrence is one dated instance of a recurring window.
type WindowOccurrence struct {
	WindowID string
	Interval
}

// AddWindow validates w against the existing windows and inserts it, assigning
// an ID when w has none.
func (c *AvailabilityCalendar) AddWindow(w TimeWindow) (TimeWindow, error) {
	checked, err := NewTimeWindow(w.Day, w.Start, w.End)
	if err != nil {
		return TimeWindow{}, err
	}
	checked.ID = w.ID
	for _, existing := range c.Windows {
		if existing.Overlaps(checked) {
			return TimeWindow{}, fmt.Errorf("%w: %s %s-%s intersects %s-%s", domain.ErrOverlap,
				checked.Day, checked.Start, checked.End, existing.Start, existing.End)
		}
	}
	if checked.ID == "" {
		checked.ID = uuid.NewString()
	}
	c.Windows = append(c.Windows, checked)
	c.sortWindows()
	return checked, nil
}

// RemoveWindow drops the window with the given ID. Meetings already booked
// inside it are left untouched.
func (c *AvailabilityCalendar) RemoveWindow(windowID string) (TimeWindow, error) {
	for i, w := range c.Windows {
		if w.ID == windowID {
			c.Windows = append(c.Windows[:i:i], c.Windows[i+1:]...)
			return w, nil
		}
	}
	return TimeWindow{}, domain.ErrWindowNotFound
}

func (c *AvailabilityCalendar) Window(windowID string) (TimeWindow, bool) {
	for _, w := range c.Windows {
		if w.ID == windowID {
			return w, true
		}
	}
	return TimeWindow{}, false
}

// IsBookable reports whether [start, end) falls inside a single window. The
// weekday and wall-clock times are taken from start's location, so callers
// convert to the canonical location first.
func (c *AvailabilityCalendar) IsBookable(start, end time.Time) bool {
	if !start.Before(end) {
		return false
	}
	midnight := time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, start.Location())
	from := start.Sub(midnight)
	to := end.Sub(midnight)
	if to > EndOfDay.Duration() {
		return false
	}
	for _, w := range c.Windows {
		if w.Covers(start.Weekday(), from, to) {
			return true
		}
	}
	return false
}

// Occurrences expands the weekly pattern into dated intervals intersecting
// [from, to), ordered by start.
func (c *AvailabilityCalendar) Occurrences(from, to time.Time) []WindowOccurrence {
	if !from.Before(to) || len(c.Windows) == 0 {
		return nil
	}
	span := Interval{Start: from, End: to}
	var out []WindowOccurrence
	day := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, from.Location())
	for ; day.Before(to); day = day.AddDate(0, 0, 1) {
		for _, w := range c.Windows {
			if w.Day != day.Weekday() {
				continue
			}
			occ := w.On(day)
			if occ.Overlaps(span) {
				out = append(out, WindowOccurrence{WindowID: w.ID, Interval: occ})
			}
		}
	}
	return out
}

func (c *AvailabilityCalendar) sortWindows() {
	sort.Slice(c.Windows, func(i, j int) bool {
		a, b := c.Windows[i], c.Windows[j]
		if a.Day != b.Day {
			return a.Day < b.Day
		}
		return a.Start < b.Start
	})
}
