// Package memory is a process-local store used for development and tests.
// Writes are applied immediately, so a unit of work that fails half-way keeps
// the writes it already made; the application services only write as the
// last step of a unit of work.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"mentorbook/internal/domain"
	"mentorbook/internal/domain/entities"
	"mentorbook/internal/ports/output"
	"mentorbook/pkg/keylock"
)

var (
	_ output.UnitOfWork         = (*Store)(nil)
	_ output.CalendarRepository = (*CalendarRepository)(nil)
	_ output.MeetingRepository  = (*MeetingRepository)(nil)
	_ output.PersonDirectory    = (*PersonRepository)(nil)
)

type Store struct {
	mu        sync.RWMutex
	calendars map[string]*entities.AvailabilityCalendar
	meetings  map[string]entities.Meeting
	people    map[string]entities.Person
	locks     keylock.Locker
}

func NewStore() *Store {
	return &Store{
		calendars: make(map[string]*entities.AvailabilityCalendar),
		meetings:  make(map[string]entities.Meeting),
		people:    make(map[string]entities.Person),
	}
}

func (s *Store) Calendars() *CalendarRepository { return &CalendarRepository{s: s} }

func (s *Store) Meetings() *MeetingRepository { return &MeetingRepository{s: s} }

func (s *Store) People() *PersonRepository { return &PersonRepository{s: s} }

func (s *Store) WithinLeader(ctx context.Context, leaderID string, fn func(ctx context.Context, repos output.Repositories) error) error {
	unlock, err := s.locks.Lock(ctx, leaderID)
	if err != nil {
		return err
	}
	defer unlock()
	return fn(ctx, output.Repositories{Calendars: s.Calendars(), Meetings: s.Meetings()})
}

// CalendarRepository implements output.CalendarRepository.
type CalendarRepository struct {
	s *Store
}

func (r *CalendarRepository) FindByLeaderID(ctx context.Context, leaderID string) (*entities.AvailabilityCalendar, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	stored, ok := r.s.calendars[leaderID]
	if !ok {
		return entities.NewAvailabilityCalendar(leaderID), nil
	}
	return cloneCalendar(stored), nil
}

func (r *CalendarRepository) InsertWindow(ctx context.Context, leaderID string, window entities.TimeWindow) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := r.s.calendarLocked(leaderID)
	c.Windows = append(c.Windows, window)
	sort.Slice(c.Windows, func(i, j int) bool {
		if c.Windows[i].Day != c.Windows[j].Day {
			return c.Windows[i].Day < c.Windows[j].Day
		}
		return c.Windows[i].Start < c.Windows[j].Start
	})
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (r *CalendarRepository) DeleteWindow(ctx context.Context, leaderID, windowID string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c, ok := r.s.calendars[leaderID]
	if !ok {
		return domain.ErrWindowNotFound
	}
	for i, w := range c.Windows {
		if w.ID == windowID {
			c.Windows = append(c.Windows[:i:i], c.Windows[i+1:]...)
			c.UpdatedAt = time.Now().UTC()
			return nil
		}
	}
	return domain.ErrWindowNotFound
}

func (r *CalendarRepository) SetAutoConfirm(ctx context.Context, leaderID string, enabled bool) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	c := r.s.calendarLocked(leaderID)
	c.AutoConfirm = enabled
	c.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *Store) calendarLocked(leaderID string) *entities.AvailabilityCalendar {
	c, ok := s.calendars[leaderID]
	if !ok {
		c = entities.NewAvailabilityCalendar(leaderID)
		s.calendars[leaderID] = c
	}
	return c
}

func cloneCalendar(c *entities.AvailabilityCalendar) *entities.AvailabilityCalendar {
	out := *c
	out.Windows = append([]entities.TimeWindow(nil), c.Windows...)
	return &out
}

// MeetingRepository implements output.MeetingRepository.
type MeetingRepository struct {
	s *Store
}

func (r *MeetingRepository) Create(ctx context.Context, meeting *entities.Meeting) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	r.s.meetings[meeting.ID] = *meeting
	return nil
}

func (r *MeetingRepository) FindByID(ctx context.Context, id string) (*entities.Meeting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	m, ok := r.s.meetings[id]
	if !ok {
		return nil, domain.ErrMeetingNotFound
	}
	return &m, nil
}

func (r *MeetingRepository) FindByLeaderID(ctx context.Context, leaderID string) ([]entities.Meeting, error) {
	return r.filter(ctx, func(m entities.Meeting) bool { return m.LeaderID == leaderID })
}

func (r *MeetingRepository) FindBlockingInRange(ctx context.Context, leaderID string, from, to time.Time) ([]entities.Meeting, error) {
	span := entities.Interval{Start: from, End: to}
	return r.filter(ctx, func(m entities.Meeting) bool {
		return m.LeaderID == leaderID && m.State.Blocks() && m.Interval().Overlaps(span)
	})
}

func (r *MeetingRepository) FindDueForCompletion(ctx context.Context, now time.Time) ([]entities.Meeting, error) {
	return r.filter(ctx, func(m entities.Meeting) bool { return m.IsDue(now) })
}

func (r *MeetingRepository) TransitionState(ctx context.Context, id string, from, to domain.MeetingState, reason string, at time.Time) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	m, ok := r.s.meetings[id]
	if !ok {
		return domain.ErrMeetingNotFound
	}
	if m.State != from {
		return domain.ErrInvalidState
	}
	m.State = to
	m.UpdatedAt = at
	if to == domain.StateCancelled {
		m.CancelReason = reason
	}
	r.s.meetings[id] = m
	return nil
}

func (r *MeetingRepository) filter(ctx context.Context, keep func(entities.Meeting) bool) ([]entities.Meeting, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	out := make([]entities.Meeting, 0)
	for _, m := range r.s.meetings {
		if keep(m) {
			out = append(out, m)
		}
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if !out[i].ScheduledStart.Equal(out[j].ScheduledStart) {
			return out[i].ScheduledStart.Before(out[j].ScheduledStart)
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// PersonRepository implements output.PersonDirectory.
type PersonRepository struct {
	s *Store
}

func (r *PersonRepository) Resolve(ctx context.Context, id string) (*entities.Person, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	p, ok := r.s.people[id]
	if !ok {
		return nil, domain.ErrPersonNotFound
	}
	return &p, nil
}

func (r *PersonRepository) Upsert(ctx context.Context, person *entities.Person) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	now := time.Now().UTC()
	if existing, ok := r.s.people[person.ID]; ok {
		mergePerson(person, existing)
		person.CreatedAt = existing.CreatedAt
	} else {
		person.CreatedAt = now
	}
	person.UpdatedAt = now
	r.s.people[person.ID] = *person
	return nil
}

func (r *PersonRepository) FindByLeaderID(ctx context.Context, leaderID string) ([]entities.Person, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	r.s.mu.RLock()
	out := make([]entities.Person, 0)
	for _, p := range r.s.people {
		if p.LeaderID == leaderID {
			out = append(out, p)
		}
	}
	r.s.mu.RUnlock()
	sort.Slice(out, func(i, j int) bool {
		if out[i].DisplayName != out[j].DisplayName {
			return out[i].DisplayName < out[j].DisplayName
		}
		return out[i].ID < out[j].ID
	})
	return out, nil
}

// mergePerson keeps stored values for fields the update leaves empty.
func mergePerson(p *entities.Person, existing entities.Person) {
	if p.DisplayName == "" {
		p.DisplayName = existing.DisplayName
	}
	if p.Email == "" {
		p.Email = existing.Email
	}
	if p.LeaderID == "" {
		p.LeaderID = existing.LeaderID
		p.AssignedAt = existing.AssignedAt
	}
}
