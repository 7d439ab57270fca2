package output

import (
	"context"
	"time"

	"mentorbook/internal/domain"
	"mentorbook/internal/domain/entities"
)

type MeetingRepository interface {
	Create(ctx context.Context, meeting *entities.Meeting) error
	// FindByID returns domain.ErrMeetingNotFound when absent.
	FindByID(ctx context.Context, id string) (*entities.Meeting, error)
	// FindByLeaderID returns every meeting of the leader ordered by
	// scheduled start, then ID.
	FindByLeaderID(ctx context.Context, leaderID string) ([]entities.Meeting, error)
	// FindBlockingInRange returns non-cancelled meetings of the leader that
	// intersect [from, to).
	FindBlockingInRange(ctx context.Context, leaderID string, from, to time.Time) ([]entities.Meeting, error)
	// FindDueForCompletion returns Confirmed meetings whose end is not after now.
	FindDueForCompletion(ctx context.Context, now time.Time) ([]entities.Meeting, error)
	// TransitionState writes the new state only if the stored state still
	// equals from. It returns domain.ErrMeetingNotFound when the meeting does
	// not exist and domain.ErrInvalidState when another writer got there first.
	TransitionState(ctx context.Context, id string, from, to domain.MeetingState, reason string, at time.Time) error
}
