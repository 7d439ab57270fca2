// Package storetest holds the behaviour every store adapter must share.
package storetest

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"mentorbook/internal/domain"
	"mentorbook/internal/domain/entities"
	"mentorbook/internal/ports/output"
)

// Harness exposes one freshly created, empty store.
type Harness struct {
	UnitOfWork output.UnitOfWork
	Calendars  output.CalendarRepository
	Meetings   output.MeetingRepository
	People     output.PersonDirectory
}

// Run executes the contract against stores produced by open.
func Run(t *testing.T, open func(t *testing.T) Harness) {
	t.Helper()
	tests := []struct {
		name string
		fn   func(t *testing.T, h Harness)
	}{
		{"EmptyCalendarForUnknownLeader", testEmptyCalendar},
		{"WindowsPersistOrdered", testWindowsPersistOrdered},
		{"DeleteWindow", testDeleteWindow},
		{"AutoConfirmPersists", testAutoConfirm},
		{"MeetingRoundTrip", testMeetingRoundTrip},
		{"MeetingsOrderedByStart", testMeetingsOrdered},
		{"BlockingInRange", testBlockingInRange},
		{"DueForCompletion", testDueForCompletion},
		{"TransitionStateCompareAndSet", testTransitionState},
		{"WithinLeaderSerializes", testWithinLeaderSerializes},
		{"WithinLeaderPropagatesError", testWithinLeaderError},
		{"PeopleDirectory", testPeople},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			tc.fn(t, open(t))
		})
	}
}

var base = time.Date(2026, 10, 19, 0, 0, 0, 0, time.UTC) // a Monday

func mustWindow(t *testing.T, id string, day time.Weekday, start, end string) entities.TimeWindow {
	t.Helper()
	s, err := entities.ParseTimeOfDay(start)
	if err != nil {
		t.Fatalf("parse %s: %v", start, err)
	}
	e, err := entities.ParseTimeOfDay(end)
	if err != nil {
		t.Fatalf("parse %s: %v", end, err)
	}
	w, err := entities.NewTimeWindow(day, s, e)
	if err != nil {
		t.Fatalf("window: %v", err)
	}
	w.ID = id
	return w
}

func meeting(id, leader string, startHour, endHour int, state domain.MeetingState) *entities.Meeting {
	return &entities.Meeting{
		ID:             id,
		LeaderID:       leader,
		DiscipleID:     "disciple-" + id,
		ScheduledStart: base.Add(time.Duration(startHour) * time.Hour),
		ScheduledEnd:   base.Add(time.Duration(endHour) * time.Hour),
		State:          state,
		CreatedAt:      base,
		UpdatedAt:      base,
	}
}

func create(t *testing.T, h Harness, ms ...*entities.Meeting) {
	t.Helper()
	for _, m := range ms {
		if err := h.Meetings.Create(context.Background(), m); err != nil {
			t.Fatalf("create meeting %s: %v", m.ID, err)
		}
	}
}

func ids(ms []entities.Meeting) []string {
	out := make([]string, len(ms))
	for i, m := range ms {
		out[i] = m.ID
	}
	return out
}

func equalIDs(got []string, want ...string) bool {
	if len(got) != len(want) {
		return false
	}
	for i := range got {
		if got[i] != want[i] {
			return false
		}
	}
	return true
}

func testEmptyCalendar(t *testing.T, h Harness) {
	cal, err := h.Calendars.FindByLeaderID(context.Background(), "nobody")
	if err != nil {
		t.Fatalf("find calendar: %v", err)
	}
	if cal.LeaderID != "nobody" || len(cal.Windows) != 0 || cal.AutoConfirm {
		t.Fatalf("expected empty calendar, got %+v", cal)
	}
}

func testWindowsPersistOrdered(t *testing.T, h Harness) {
	ctx := context.Background()
	for _, w := range []entities.TimeWindow{
		mustWindow(t, "w3", time.Wednesday, "09:00", "10:00"),
		mustWindow(t, "w2", time.Monday, "20:00", "21:00"),
		mustWindow(t, "w1", time.Monday, "08:00", "09:30"),
	} {
		if err := h.Calendars.InsertWindow(ctx, "leader-1", w); err != nil {
			t.Fatalf("insert %s: %v", w.ID, err)
		}
	}
	if err := h.Calendars.InsertWindow(ctx, "leader-2", mustWindow(t, "other", time.Monday, "08:00", "09:00")); err != nil {
		t.Fatalf("insert other: %v", err)
	}

	cal, err := h.Calendars.FindByLeaderID(ctx, "leader-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(cal.Windows) != 3 {
		t.Fatalf("expected 3 windows, got %d", len(cal.Windows))
	}
	want := []string{"w1", "w2", "w3"}
	for i, w := range cal.Windows {
		if w.ID != want[i] {
			t.Fatalf("window %d: expected %s, got %s", i, want[i], w.ID)
		}
	}
	if got := cal.Windows[1]; got.Day != time.Monday || got.Start.String() != "20:00" || got.End.String() != "21:00" {
		t.Fatalf("unexpected window payload %+v", got)
	}
}

func testDeleteWindow(t *testing.T, h Harness) {
	ctx := context.Background()
	if err := h.Calendars.DeleteWindow(ctx, "leader-1", "missing"); !errors.Is(err, domain.ErrWindowNotFound) {
		t.Fatalf("expected ErrWindowNotFound, got %v", err)
	}
	if err := h.Calendars.InsertWindow(ctx, "leader-1", mustWindow(t, "w1", time.Monday, "08:00", "09:00")); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := h.Calendars.DeleteWindow(ctx, "leader-2", "w1"); !errors.Is(err, domain.ErrWindowNotFound) {
		t.Fatalf("expected ErrWindowNotFound for another leader's window, got %v", err)
	}
	if err := h.Calendars.DeleteWindow(ctx, "leader-1", "w1"); err != nil {
		t.Fatalf("delete: %v", err)
	}
	cal, err := h.Calendars.FindByLeaderID(ctx, "leader-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if len(cal.Windows) != 0 {
		t.Fatalf("expected no windows, got %d", len(cal.Windows))
	}
}

func testAutoConfirm(t *testing.T, h Harness) {
	ctx := context.Background()
	if err := h.Calendars.InsertWindow(ctx, "leader-1", mustWindow(t, "w1", time.Friday, "10:00", "11:00")); err != nil {
		t.Fatalf("insert: %v", err)
	}
	if err := h.Calendars.SetAutoConfirm(ctx, "leader-1", true); err != nil {
		t.Fatalf("set auto confirm: %v", err)
	}
	cal, err := h.Calendars.FindByLeaderID(ctx, "leader-1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if !cal.AutoConfirm || len(cal.Windows) != 1 {
		t.Fatalf("expected auto confirm with one window, got %+v", cal)
	}
	if err := h.Calendars.SetAutoConfirm(ctx, "fresh-leader", true); err != nil {
		t.Fatalf("set auto confirm on fresh leader: %v", err)
	}
}

func testMeetingRoundTrip(t *testing.T, h Harness) {
	ctx := context.Background()
	m := meeting("m1", "leader-1", 20, 21, domain.StatePending)
	create(t, h, m)

	got, err := h.Meetings.FindByID(ctx, "m1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.LeaderID != "leader-1" || got.DiscipleID != "disciple-m1" || got.State != domain.StatePending {
		t.Fatalf("unexpected meeting %+v", got)
	}
	if !got.ScheduledStart.Equal(m.ScheduledStart) || !got.ScheduledEnd.Equal(m.ScheduledEnd) {
		t.Fatalf("times differ: got %s-%s", got.ScheduledStart, got.ScheduledEnd)
	}
	if _, err := h.Meetings.FindByID(ctx, "missing"); !errors.Is(err, domain.ErrMeetingNotFound) {
		t.Fatalf("expected ErrMeetingNotFound, got %v", err)
	}
}

func testMeetingsOrdered(t *testing.T, h Harness) {
	create(t, h,
		meeting("c", "leader-1", 30, 31, domain.StatePending),
		meeting("a", "leader-1", 10, 11, domain.StateCancelled),
		meeting("b", "leader-1", 10, 11, domain.StateConfirmed),
		meeting("x", "leader-2", 1, 2, domain.StatePending),
	)
	got, err := h.Meetings.FindByLeaderID(context.Background(), "leader-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if !equalIDs(ids(got), "a", "b", "c") {
		t.Fatalf("unexpected order %v", ids(got))
	}
}

func testBlockingInRange(t *testing.T, h Harness) {
	create(t, h,
		meeting("before", "leader-1", 8, 10, domain.StateConfirmed),
		meeting("inside", "leader-1", 11, 12, domain.StatePending),
		meeting("cancelled", "leader-1", 10, 12, domain.StateCancelled),
		meeting("after", "leader-1", 12, 13, domain.StatePending),
		meeting("other", "leader-2", 10, 12, domain.StatePending),
	)
	got, err := h.Meetings.FindBlockingInRange(context.Background(), "leader-1",
		base.Add(10*time.Hour), base.Add(12*time.Hour))
	if err != nil {
		t.Fatalf("blocking: %v", err)
	}
	if !equalIDs(ids(got), "inside") {
		t.Fatalf("expected only the inside meeting, got %v", ids(got))
	}
}

func testDueForCompletion(t *testing.T, h Harness) {
	create(t, h,
		meeting("ended", "leader-1", 1, 2, domain.StateConfirmed),
		meeting("ends-now", "leader-2", 2, 3, domain.StateConfirmed),
		meeting("pending", "leader-1", 1, 2, domain.StatePending),
		meeting("future", "leader-1", 5, 6, domain.StateConfirmed),
	)
	got, err := h.Meetings.FindDueForCompletion(context.Background(), base.Add(3*time.Hour))
	if err != nil {
		t.Fatalf("due: %v", err)
	}
	if !equalIDs(ids(got), "ended", "ends-now") {
		t.Fatalf("unexpected due meetings %v", ids(got))
	}
}

func testTransitionState(t *testing.T, h Harness) {
	ctx := context.Background()
	create(t, h, meeting("m1", "leader-1", 1, 2, domain.StateConfirmed))
	at := base.Add(90 * time.Minute)

	if err := h.Meetings.TransitionState(ctx, "missing", domain.StatePending, domain.StateConfirmed, "", at); !errors.Is(err, domain.ErrMeetingNotFound) {
		t.Fatalf("expected ErrMeetingNotFound, got %v", err)
	}
	if err := h.Meetings.TransitionState(ctx, "m1", domain.StatePending, domain.StateCancelled, "late", at); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected ErrInvalidState on stale from, got %v", err)
	}
	if err := h.Meetings.TransitionState(ctx, "m1", domain.StateConfirmed, domain.StateCancelled, "sick", at); err != nil {
		t.Fatalf("cancel: %v", err)
	}
	if err := h.Meetings.TransitionState(ctx, "m1", domain.StateConfirmed, domain.StateCompleted, "", at); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("expected the sweep to lose against the cancel, got %v", err)
	}
	got, err := h.Meetings.FindByID(ctx, "m1")
	if err != nil {
		t.Fatalf("find: %v", err)
	}
	if got.State != domain.StateCancelled || got.CancelReason != "sick" || !got.UpdatedAt.Equal(at) {
		t.Fatalf("unexpected meeting after cancel %+v", got)
	}
}

// testWithinLeaderSerializes races check-then-create sequences for one slot:
// exactly one must win.
func testWithinLeaderSerializes(t *testing.T, h Harness) {
	const workers = 8
	from, to := base.Add(20*time.Hour), base.Add(21*time.Hour)
	var wg sync.WaitGroup
	errs := make(chan error, workers)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			errs <- h.UnitOfWork.WithinLeader(context.Background(), "leader-1", func(ctx context.Context, repos output.Repositories) error {
				blocking, err := repos.Meetings.FindBlockingInRange(ctx, "leader-1", from, to)
				if err != nil {
					return err
				}
				if len(blocking) > 0 {
					return domain.ErrConflict
				}
				m := meeting("race-"+string(rune('a'+i)), "leader-1", 20, 21, domain.StatePending)
				return repos.Meetings.Create(ctx, m)
			})
		}(i)
	}
	wg.Wait()
	close(errs)

	wins, conflicts := 0, 0
	for err := range errs {
		switch {
		case err == nil:
			wins++
		case errors.Is(err, domain.ErrConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	if wins != 1 || conflicts != workers-1 {
		t.Fatalf("expected 1 win and %d conflicts, got %d and %d", workers-1, wins, conflicts)
	}
}

func testWithinLeaderError(t *testing.T, h Harness) {
	sentinel := errors.New("boom")
	err := h.UnitOfWork.WithinLeader(context.Background(), "leader-1", func(ctx context.Context, repos output.Repositories) error {
		return sentinel
	})
	if !errors.Is(err, sentinel) {
		t.Fatalf("expected sentinel error, got %v", err)
	}
	// The lock must have been released.
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
	defer cancel()
	if err := h.UnitOfWork.WithinLeader(ctx, "leader-1", func(context.Context, output.Repositories) error { return nil }); err != nil {
		t.Fatalf("second unit of work: %v", err)
	}
}

func testPeople(t *testing.T, h Harness) {
	ctx := context.Background()
	if _, err := h.People.Resolve(ctx, "ghost"); !errors.Is(err, domain.ErrPersonNotFound) {
		t.Fatalf("expected ErrPersonNotFound, got %v", err)
	}
	assigned := base.Add(-48 * time.Hour)
	for _, p := range []*entities.Person{
		{ID: "d2", DisplayName: "Sofia", LeaderID: "leader-1", AssignedAt: assigned},
		{ID: "d1", DisplayName: "Felix", Email: "felix@example.com", LeaderID: "leader-1", AssignedAt: assigned},
		{ID: "d3", DisplayName: "Ana", LeaderID: "leader-2", AssignedAt: assigned},
	} {
		if err := h.People.Upsert(ctx, p); err != nil {
			t.Fatalf("upsert %s: %v", p.ID, err)
		}
	}
	// A name-only update must keep the assignment and email.
	if err := h.People.Upsert(ctx, &entities.Person{ID: "d1", DisplayName: "Félix"}); err != nil {
		t.Fatalf("rename: %v", err)
	}
	got, err := h.People.Resolve(ctx, "d1")
	if err != nil {
		t.Fatalf("resolve: %v", err)
	}
	if got.DisplayName != "Félix" || got.Email != "felix@example.com" || got.LeaderID != "leader-1" || !got.AssignedAt.Equal(assigned) {
		t.Fatalf("unexpected person after merge %+v", got)
	}
	roster, err := h.People.FindByLeaderID(ctx, "leader-1")
	if err != nil {
		t.Fatalf("roster: %v", err)
	}
	if len(roster) != 2 || roster[0].ID != "d1" || roster[1].ID != "d2" {
		t.Fatalf("unexpected roster %+v", roster)
	}
}
