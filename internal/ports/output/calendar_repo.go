package output

import (
	"context"

	"mentorbook/internal/domain/entities"
)

type CalendarRepository interface {
	// FindByLeaderID returns the leader's calendar, or an empty one when the
	// leader has never published availability.
	FindByLeaderID(ctx context.Context, leaderID string) (*entities.AvailabilityCalendar, error)
	InsertWindow(ctx context.Context, leaderID string, window entities.TimeWindow) error
	// DeleteWindow returns domain.ErrWindowNotFound when the leader has no such window.
	DeleteWindow(ctx context.Context, leaderID, windowID string) error
	SetAutoConfirm(ctx context.Context, leaderID string, enabled bool) error
}
