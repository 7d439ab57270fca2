package entities

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"mentorbook/internal/domain"
)

// Meeting is a dated booking between a leader and a disciple. Meetings are
// never deleted; they end in Cancelled or Completed.
type Meeting struct {
	ID             string
	LeaderID       string
	DiscipleID     string
	ScheduledStart time.Time
	ScheduledEnd   time.Time
	State          domain.MeetingState
	CancelReason   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// NewMeeting builds a Pending meeting, or a Confirmed one when the leader
// pre-authorized direct confirmation.
func NewMeeting(leaderID, discipleID string, start, end time.Time, autoConfirm bool, now time.Time) (*Meeting, error) {
	if strings.TrimSpace(leaderID) == "" || strings.TrimSpace(discipleID) == "" {
		return nil, fmt.Errorf("%w: leader and disciple are required", domain.ErrInvalidInterval)
	}
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: start must be before end", domain.ErrInvalidInterval)
	}
	state := domain.StatePending
	if autoConfirm {
		state = domain.StateConfirmed
	}
	return &Meeting{
		ID:             uuid.NewString(),
		LeaderID:       leaderID,
		DiscipleID:     discipleID,
		ScheduledStart: start,
		ScheduledEnd:   end,
		State:          state,
		CreatedAt:      now,
		UpdatedAt:      now,
	}, nil
}

func (m *Meeting) Interval() Interval {
	return Interval{Start: m.ScheduledStart, End: m.ScheduledEnd}
}

// Confirm moves a Pending meeting to Confirmed.
func (m *Meeting) Confirm(now time.Time) error {
	return m.transition(domain.StateConfirmed, now)
}

// Cancel is allowed from Pending or Confirmed, even after the scheduled end
// when the completion sweep has not run yet.
func (m *Meeting) Cancel(reason string, now time.Time) error {
	if err := m.transition(domain.StateCancelled, now); err != nil {
		return err
	}
	m.CancelReason = strings.TrimSpace(reason)
	return nil
}

// Complete applies the time-driven Confirmed→Completed transition.
func (m *Meeting) Complete(now time.Time) error {
	if !m.IsDue(now) {
		return fmt.Errorf("%w: meeting %s is %s and ends %s", domain.ErrInvalidState, m.ID, m.State, m.ScheduledEnd.Format(time.RFC3339))
	}
	return m.transition(domain.StateCompleted, now)
}

// IsDue reports whether the meeting should be promoted to Completed.
func (m *Meeting) IsDue(now time.Time) bool {
	return m.State == domain.StateConfirmed && !now.Before(m.ScheduledEnd)
}

func (m *Meeting) transition(to domain.MeetingState, now time.Time) error {
	if !domain.CanTransition(m.State, to) {
		return fmt.Errorf("%w: %s -> %s", domain.ErrInvalidState, m.State, to)
	}
	m.State = to
	m.UpdatedAt = now
	return nil
}
