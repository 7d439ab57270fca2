package output

import "context"

// Repositories are bound to one atomic scope when handed out by a UnitOfWork.
type Repositories struct {
	Calendars CalendarRepository
	Meetings  MeetingRepository
}

// UnitOfWork serializes all work on one leader's schedule. fn runs inside an
// exclusive per-leader critical section; its writes commit together when it
// returns nil and are discarded (where the store supports it) otherwise.
// Different leaders never wait on each other.
type UnitOfWork interface {
	WithinLeader(ctx context.Context, leaderID string, fn func(ctx context.Context, repos Repositories) error) error
}
