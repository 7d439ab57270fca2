package discord

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"mentorbook/internal/domain/entities"
)

// Adapter-level errors carry their own i18n keys; see ErrorKey.
var (
	ErrBadDate   = errors.New("invalid date, expected DD/MM/YYYY")
	ErrBadTime   = errors.New("invalid time, expected HH:MM")
	ErrForbidden = errors.New("caller does not take part in the meeting")
)

const (
	dateLayout = "02/01/2006"
	timeLayout = "15:04"
)

// ParseSlot parses a date (DD/MM/YYYY) and start/end times (HH:MM, end may
// be 24:00) into an interval in loc. Whether the slot is in the past or
// bookable at all is left to the booking engine.
func ParseSlot(dateStr, startStr, endStr string, loc *time.Location) (time.Time, time.Time, error) {
	day, err := time.ParseInLocation(dateLayout, strings.TrimSpace(dateStr), loc)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrBadDate, dateStr)
	}
	start, err := entities.ParseTimeOfDay(startStr)
	if err != nil || start == entities.EndOfDay {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrBadTime, startStr)
	}
	end, err := entities.ParseTimeOfDay(endStr)
	if err != nil {
		return time.Time{}, time.Time{}, fmt.Errorf("%w: %q", ErrBadTime, endStr)
	}
	return at(day, start), at(day, end), nil
}

// at places a wall-clock offset on the date of midnight, honouring DST.
func at(midnight time.Time, t entities.TimeOfDay) time.Time {
	if t == entities.EndOfDay {
		return midnight.AddDate(0, 0, 1)
	}
	return time.Date(midnight.Year(), midnight.Month(), midnight.Day(),
		int(t)/60, int(t)%60, 0, 0, midnight.Location())
}

// FormatDate renders t as DD/MM/YYYY in loc.
func FormatDate(t time.Time, loc *time.Location) string {
	if t.IsZero() {
		return ""
	}
	return t.In(loc).Format(dateLayout)
}
