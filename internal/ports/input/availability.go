package input

import (
	"context"
	"time"

	"mentorbook/internal/domain/entities"
)

type AvailabilityUseCase interface {
	AddAvailability(ctx context.Context, leaderID string, day time.Weekday, start, end entities.TimeOfDay) (entities.TimeWindow, error)
	RemoveAvailability(ctx context.Context, leaderID, windowID string) error
	ListAvailability(ctx context.Context, leaderID string) (*entities.AvailabilityCalendar, error)
	SetAutoConfirm(ctx context.Context, leaderID string, enabled bool) error
}
