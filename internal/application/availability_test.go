package application

import (
	"context"
	"errors"
	"testing"
	"time"

	"mentorbook/internal/domain"
)

func TestAddAvailabilityRejectsOverlap(t *testing.T) {
	f := newFixture(t)
	f.addWindow(t, "leader-1", time.Monday, "09:00", "10:00")

	_, err := f.availability.AddAvailability(context.Background(), "leader-1", time.Monday, 9*60+30, 11*60)
	if !errors.Is(err, domain.ErrOverlap) {
		t.Fatalf("expected ErrOverlap, got %v", err)
	}
	_, err = f.availability.AddAvailability(context.Background(), "leader-1", time.Monday, 11*60, 10*60)
	if !errors.Is(err, domain.ErrInvalidWindow) {
		t.Fatalf("expected ErrInvalidWindow, got %v", err)
	}
	// Touching windows are fine.
	f.addWindow(t, "leader-1", time.Monday, "10:00", "11:00")
	// Other leaders are independent.
	f.addWindow(t, "leader-2", time.Monday, "09:00", "10:00")

	cal, err := f.availability.ListAvailability(context.Background(), "leader-1")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(cal.Windows) != 2 {
		t.Fatalf("expected 2 windows, got %d", len(cal.Windows))
	}
}

func TestRemoveAvailabilityKeepsBookedMeetings(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	w := f.addWindow(t, "leader-1", time.Monday, "20:00", "21:00")
	m := f.request(t, "disciple-1", at(19, 20, 0), at(19, 20, 30))

	if err := f.availability.RemoveAvailability(ctx, "leader-1", "missing"); !errors.Is(err, domain.ErrWindowNotFound) {
		t.Fatalf("expected ErrWindowNotFound, got %v", err)
	}
	if err := f.availability.RemoveAvailability(ctx, "leader-1", w.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if _, err := f.booking.RequestMeeting(ctx, "leader-1", "disciple-2", at(19, 20, 30), at(19, 21, 0)); !errors.Is(err, domain.ErrUnavailable) {
		t.Fatalf("expected ErrUnavailable after removal, got %v", err)
	}
	got, err := f.booking.ConfirmMeeting(ctx, m.ID)
	if err != nil {
		t.Fatalf("existing meeting must stay confirmable: %v", err)
	}
	if got.State != domain.StateConfirmed {
		t.Fatalf("expected confirmed, got %s", got.State)
	}
	if counts := f.counts(t); counts.Confirmed != 1 || counts.Available != 0 {
		t.Fatalf("unexpected counts %+v", counts)
	}
}

func TestAvailabilityRequiresLeader(t *testing.T) {
	f := newFixture(t)
	if _, err := f.availability.ListAvailability(context.Background(), " "); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if err := f.availability.SetAutoConfirm(context.Background(), "", true); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
}
