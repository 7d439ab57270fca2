package input

import (
	"context"

	"mentorbook/internal/domain"
	"mentorbook/internal/domain/entities"
)

type RosterUseCase interface {
	// ListMeetings filters by state when state is non-nil.
	ListMeetings(ctx context.Context, leaderID string, state *domain.MeetingState) ([]entities.MeetingSummary, error)
	CountByState(ctx context.Context, leaderID string) (entities.StateCounts, error)
	Disciples(ctx context.Context, leaderID string) ([]entities.Person, error)
}

// CompletionSweep promotes every Confirmed meeting whose end has passed.
type CompletionSweep interface {
	Sweep(ctx context.Context) (int, error)
}
