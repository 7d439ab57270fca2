package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"mentorbook/internal/domain"
	"mentorbook/internal/domain/entities"
)

func TestListMeetingsFiltersAndResolvesNames(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addWindow(t, "leader-1", time.Monday, "20:00", "21:00")
	f.addWindow(t, "leader-1", time.Tuesday, "23:00", "24:00")
	if err := f.store.People().Upsert(ctx, &entities.Person{ID: "disciple-1", DisplayName: "Felix", LeaderID: "leader-1"}); err != nil {
		t.Fatal(err)
	}

	first := f.request(t, "disciple-1", at(19, 20, 0), at(19, 21, 0))
	f.request(t, "disciple-2", at(20, 23, 0), at(21, 0, 0))
	if _, err := f.booking.ConfirmMeeting(ctx, first.ID); err != nil {
		t.Fatalf("confirm: %v", err)
	}

	all, err := f.roster.ListMeetings(ctx, "leader-1", nil)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(all) != 2 {
		t.Fatalf("expected 2 meetings, got %d", len(all))
	}
	if all[0].DiscipleName != "Felix" || all[0].Day != time.Monday || all[0].Start.String() != "20:00" {
		t.Fatalf("unexpected first summary %+v", all[0])
	}
	if all[1].DiscipleName != "disciple-2" || all[1].End != entities.EndOfDay {
		t.Fatalf("unexpected second summary %+v", all[1])
	}

	pending := domain.StatePending
	only, err := f.roster.ListMeetings(ctx, "leader-1", &pending)
	if err != nil {
		t.Fatalf("list pending: %v", err)
	}
	if len(only) != 1 || only[0].DiscipleID != "disciple-2" {
		t.Fatalf("unexpected pending list %+v", only)
	}

	bogus := domain.MeetingState("archived")
	if _, err := f.roster.ListMeetings(ctx, "leader-1", &bogus); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}

func TestListMeetingsAppliesCompletion(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addWindow(t, "leader-1", time.Monday, "20:00", "21:00")
	m := f.request(t, "disciple-1", at(19, 20, 0), at(19, 21, 0))
	if _, err := f.booking.ConfirmMeeting(ctx, m.ID); err != nil {
		t.Fatal(err)
	}
	f.clock.Set(at(19, 21, 15))

	completed := domain.StateCompleted
	list, err := f.roster.ListMeetings(ctx, "leader-1", &completed)
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(list) != 1 || list[0].ID != m.ID {
		t.Fatalf("expected the meeting to show as completed, got %+v", list)
	}
	if counts := f.counts(t); counts.Confirmed != 0 {
		t.Fatalf("completed meetings are not confirmed: %+v", counts)
	}
}

func TestCountByStateHorizon(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addWindow(t, "leader-1", time.Monday, "20:00", "21:00")
	f.addWindow(t, "leader-1", time.Wednesday, "09:00", "10:00")

	if got := f.counts(t); got.Available != 2 {
		t.Fatalf("expected 2 open occurrences, got %+v", got)
	}
	m := f.request(t, "disciple-1", at(19, 20, 0), at(19, 21, 0))
	if _, err := f.booking.ConfirmMeeting(ctx, m.ID); err != nil {
		t.Fatal(err)
	}
	if got := f.counts(t); got != (entities.StateCounts{Confirmed: 1, Available: 1}) {
		t.Fatalf("unexpected counts %+v", got)
	}
	// Once this Monday's slot has started, next Monday's enters the horizon.
	f.clock.Set(at(19, 20, 30))
	if got := f.counts(t); got != (entities.StateCounts{Confirmed: 1, Available: 2}) {
		t.Fatalf("unexpected counts during the meeting %+v", got)
	}
}

func TestDisciples(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for _, p := range []*entities.Person{
		{ID: "d2", DisplayName: "Sofia", LeaderID: "leader-1"},
		{ID: "d1", DisplayName: "Ana", LeaderID: "leader-1"},
		{ID: "d3", DisplayName: "Zoe", LeaderID: "leader-2"},
	} {
		if err := f.store.People().Upsert(ctx, p); err != nil {
			t.Fatal(err)
		}
	}
	got, err := f.roster.Disciples(ctx, "leader-1")
	if err != nil {
		t.Fatalf("disciples: %v", err)
	}
	if len(got) != 2 || got[0].DisplayName != "Ana" || got[1].DisplayName != "Sofia" {
		t.Fatalf("unexpected disciples %+v", got)
	}
}

func TestCountByStatePartlyBookedWindow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	f.addWindow(t, "leader-1", time.Monday, "20:00", "21:00")

	f.request(t, "disciple-1", at(19, 20, 0), at(19, 20, 30))
	if got := f.counts(t); got != (entities.StateCounts{Pending: 1, Available: 1}) {
		t.Fatalf("unexpected counts with the second half free %+v", got)
	}

	// The free half really is bookable.
	f.request(t, "disciple-2", at(19, 20, 30), at(19, 21, 0))
	if got := f.counts(t); got != (entities.StateCounts{Pending: 2}) {
		t.Fatalf("unexpected counts once full %+v", got)
	}

	// A booking in the middle leaves two free pieces.
	f.addWindow(t, "leader-1", time.Wednesday, "09:00", "12:00")
	f.request(t, "disciple-3", at(21, 10, 0), at(21, 11, 0))
	if got := f.counts(t); got != (entities.StateCounts{Pending: 3, Available: 2}) {
		t.Fatalf("unexpected counts with a split window %+v", got)
	}

	// Cancelled meetings give their time back.
	summaries, err := f.roster.ListMeetings(ctx, "leader-1", nil)
	if err != nil {
		t.Fatal(err)
	}
	if _, err := f.booking.CancelMeeting(ctx, summaries[0].ID, ""); err != nil {
		t.Fatal(err)
	}
	if got := f.counts(t); got != (entities.StateCounts{Pending: 2, Available: 3}) {
		t.Fatalf("unexpected counts after cancel %+v", got)
	}
}
