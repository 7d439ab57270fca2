package entities

import (
	"time"

	"mentorbook/internal/domain"
)

// MeetingSummary is the read model behind the dashboard meeting list.
type MeetingSummary struct {
	ID           string
	DiscipleID   string
	DiscipleName string
	Day          time.Weekday
	Date         time.Time
	Start        TimeOfDay
	End          TimeOfDay
	State        domain.MeetingState
}

// StateCounts backs the Pending/Confirmed/Available tabs.
type StateCounts struct {
	Confirmed int
	Pending   int
	Available int
}
