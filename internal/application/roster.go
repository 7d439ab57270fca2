package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"mentorbook/internal/domain"
	"mentorbook/internal/domain/entities"
	"mentorbook/internal/ports/input"
	"mentorbook/internal/ports/output"
)

var _ input.RosterUseCase = (*RosterView)(nil)

// RosterView answers the dashboard queries. Everything is recomputed from the
// calendar and the meeting set on each call.
type RosterView struct {
	calendarRepo output.CalendarRepository
	meetingRepo  output.MeetingRepository
	people       output.PersonDirectory
	opts         options
}

func NewRosterView(
	calendarRepo output.CalendarRepository,
	meetingRepo output.MeetingRepository,
	people output.PersonDirectory,
	opts ...Option,
) *RosterView {
	return &RosterView{
		calendarRepo: calendarRepo,
		meetingRepo:  meetingRepo,
		people:       people,
		opts:         newOptions(opts),
	}
}

func (v *RosterView) ListMeetings(ctx context.Context, leaderID string, state *domain.MeetingState) ([]entities.MeetingSummary, error) {
	if err := requireID("leader id", leaderID); err != nil {
		return nil, err
	}
	if state != nil && !state.Valid() {
		return nil, fmt.Errorf("%w: unknown state %q", domain.ErrInvalidArgument, *state)
	}
	meetings, err := v.currentMeetings(ctx, leaderID)
	if err != nil {
		return nil, err
	}
	names := make(map[string]string)
	out := make([]entities.MeetingSummary, 0, len(meetings))
	for _, m := range meetings {
		if state != nil && m.State != *state {
			continue
		}
		out = append(out, v.summarize(ctx, m, names))
	}
	return out, nil
}

// CountByState reports Confirmed and Pending meetings and the number of free
// pieces left in window occurrences starting within the next
// AvailabilityHorizon once blocking meetings are cut out. A window with a
// booking in its middle counts twice; a fully booked one not at all.
func (v *RosterView) CountByState(ctx context.Context, leaderID string) (entities.StateCounts, error) {
	if err := requireID("leader id", leaderID); err != nil {
		return entities.StateCounts{}, err
	}
	meetings, err := v.currentMeetings(ctx, leaderID)
	if err != nil {
		return entities.StateCounts{}, err
	}
	calendar, err := v.calendarRepo.FindByLeaderID(ctx, leaderID)
	if err != nil {
		return entities.StateCounts{}, fmt.Errorf("load calendar: %w", err)
	}

	var counts entities.StateCounts
	for _, m := range meetings {
		switch m.State {
		case domain.StateConfirmed:
			counts.Confirmed++
		case domain.StatePending:
			counts.Pending++
		}
	}

	taken := blockingIntervals(meetings)
	now := v.opts.clock()
	for _, occ := range calendar.Occurrences(now, now.Add(AvailabilityHorizon)) {
		if occ.Start.Before(now) {
			continue
		}
		counts.Available += len(occ.Interval.Subtract(taken))
	}
	return counts, nil
}

func (v *RosterView) Disciples(ctx context.Context, leaderID string) ([]entities.Person, error) {
	if err := requireID("leader id", leaderID); err != nil {
		return nil, err
	}
	people, err := v.people.FindByLeaderID(ctx, leaderID)
	if err != nil {
		return nil, fmt.Errorf("list disciples: %w", err)
	}
	return people, nil
}

// currentMeetings loads the leader's meetings with derived completion applied.
func (v *RosterView) currentMeetings(ctx context.Context, leaderID string) ([]entities.Meeting, error) {
	meetings, err := v.meetingRepo.FindByLeaderID(ctx, leaderID)
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	now := v.opts.clock()
	for i := range meetings {
		if err := completeIfDue(ctx, v.meetingRepo, &meetings[i], now); err != nil {
			return nil, err
		}
	}
	return meetings, nil
}

func (v *RosterView) summarize(ctx context.Context, m entities.Meeting, names map[string]string) entities.MeetingSummary {
	start := m.ScheduledStart.In(v.opts.location)
	end := m.ScheduledEnd.In(v.opts.location)
	endOfDay := entities.TimeOfDayOf(end)
	if endOfDay == 0 && end.After(start) {
		endOfDay = entities.EndOfDay
	}
	return entities.MeetingSummary{
		ID:           m.ID,
		DiscipleID:   m.DiscipleID,
		DiscipleName: v.displayName(ctx, m.DiscipleID, names),
		Day:          start.Weekday(),
		Date:         time.Date(start.Year(), start.Month(), start.Day(), 0, 0, 0, 0, v.opts.location),
		Start:        entities.TimeOfDayOf(start),
		End:          endOfDay,
		State:        m.State,
	}
}

func (v *RosterView) displayName(ctx context.Context, id string, cache map[string]string) string {
	if name, ok := cache[id]; ok {
		return name
	}
	name := id
	person, err := v.people.Resolve(ctx, id)
	switch {
	case err == nil:
		name = person.Name()
	case !errors.Is(err, domain.ErrPersonNotFound):
		v.opts.logger.Warn("resolve display name", zap.String("person_id", id), zap.Error(err))
	}
	cache[id] = name
	return name
}

func blockingIntervals(meetings []entities.Meeting) []entities.Interval {
	out := make([]entities.Interval, 0, len(meetings))
	for _, m := range meetings {
		if m.State.Blocks() {
			out = append(out, m.Interval())
		}
	}
	return out
}
