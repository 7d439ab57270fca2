package entities

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"mentorbook/internal/domain"
)

// TimeOfDay is a wall-clock offset in minutes since midnight. EndOfDay (24:00)
// is only meaningful as the end of a window.
type TimeOfDay int

const EndOfDay TimeOfDay = 24 * 60

// ParseTimeOfDay parses "HH:MM" (24h). "24:00" is accepted as EndOfDay.
func ParseTimeOfDay(raw string) (TimeOfDay, error) {
	raw = strings.TrimSpace(raw)
	hh, mm, ok := strings.Cut(raw, ":")
	if !ok {
		return 0, fmt.Errorf("time of day %q: expected HH:MM", raw)
	}
	h, err := strconv.Atoi(hh)
	if err != nil {
		return 0, fmt.Errorf("time of day %q: bad hour", raw)
	}
	m, err := strconv.Atoi(mm)
	if err != nil || len(mm) != 2 {
		return 0, fmt.Errorf("time of day %q: bad minute", raw)
	}
	if h < 0 || h > 24 || m < 0 || m > 59 || (h == 24 && m != 0) {
		return 0, fmt.Errorf("time of day %q: out of range", raw)
	}
	return TimeOfDay(h*60 + m), nil
}

// TimeOfDayOf returns the wall-clock time of t in its own location, truncated to the minute.
func TimeOfDayOf(t time.Time) TimeOfDay {
	return TimeOfDay(t.Hour()*60 + t.Minute())
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", int(t)/60, int(t)%60)
}

// Duration converts the offset to a time.Duration since midnight.
func (t TimeOfDay) Duration() time.Duration {
	return time.Duration(t) * time.Minute
}

// ParseWeekday accepts english day names ("monday", "Mon") or 0..6 with 0 = Sunday.
func ParseWeekday(raw string) (time.Weekday, error) {
	raw = strings.ToLower(strings.TrimSpace(raw))
	if n, err := strconv.Atoi(raw); err == nil {
		if n < 0 || n > 6 {
			return 0, fmt.Errorf("weekday %d out of range", n)
		}
		return time.Weekday(n), nil
	}
	for d := time.Sunday; d <= time.Saturday; d++ {
		name := strings.ToLower(d.String())
		if raw == name || (len(raw) >= 3 && strings.HasPrefix(name, raw)) {
			return d, nil
		}
	}
	return 0, fmt.Errorf("unknown weekday %q", raw)
}

// TimeWindow is a recurring weekly open interval [Start, End) on Day.
type TimeWindow struct {
	ID    string
	Day   time.Weekday
	Start TimeOfDay
	End   TimeOfDay
}

// NewTimeWindow validates the window bounds. The ID is assigned on insert.
func NewTimeWindow(day time.Weekday, start, end TimeOfDay) (TimeWindow, error) {
	if day < time.Sunday || day > time.Saturday {
		return TimeWindow{}, fmt.Errorf("%w: weekday %d out of range", domain.ErrInvalidWindow, day)
	}
	if start < 0 || end > EndOfDay {
		return TimeWindow{}, fmt.Errorf("%w: %s-%s out of range", domain.ErrInvalidWindow, start, end)
	}
	if start >= end {
		return TimeWindow{}, fmt.Errorf("%w: start %s must be before end %s", domain.ErrInvalidWindow, start, end)
	}
	return TimeWindow{Day: day, Start: start, End: end}, nil
}

// Overlaps reports whether both windows share the weekday and intersect.
// Touching endpoints do not overlap.
func (w TimeWindow) Overlaps(o TimeWindow) bool {
	return w.Day == o.Day && w.Start < o.End && o.Start < w.End
}

// Covers reports whether [start, end) on day lies inside the window.
func (w TimeWindow) Covers(day time.Weekday, start, end time.Duration) bool {
	return w.Day == day && w.Start.Duration() <= start && end <= w.End.Duration()
}

// On returns the concrete occurrence of the window on the calendar date of
// date, in date's location.
func (w TimeWindow) On(date time.Time) Interval {
	midnight := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, date.Location())
	return Interval{
		Start: midnight.Add(w.Start.Duration()),
		End:   midnight.Add(w.End.Duration()),
	}
}
