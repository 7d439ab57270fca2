package entities

import (
	"errors"
	"testing"

	"mentorbook/internal/domain"
)

func newTestMeeting(t *testing.T, autoConfirm bool) *Meeting {
	t.Helper()
	m, err := NewMeeting("leader-1", "disciple-1", monday(20, 0), monday(21, 0), autoConfirm, monday(8, 0))
	if err != nil {
		t.Fatalf("new meeting: %v", err)
	}
	return m
}

func TestNewMeeting(t *testing.T) {
	m := newTestMeeting(t, false)
	if m.ID == "" || m.State != domain.StatePending {
		t.Fatalf("unexpected meeting %+v", m)
	}
	if auto := newTestMeeting(t, true); auto.State != domain.StateConfirmed {
		t.Fatalf("auto-confirmed meeting state = %s", auto.State)
	}
	if _, err := NewMeeting("leader-1", "disciple-1", monday(21, 0), monday(20, 0), false, monday(8, 0)); !errors.Is(err, domain.ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval, got %v", err)
	}
	if _, err := NewMeeting("", "disciple-1", monday(20, 0), monday(21, 0), false, monday(8, 0)); !errors.Is(err, domain.ErrInvalidInterval) {
		t.Fatalf("expected ErrInvalidInterval for missing leader, got %v", err)
	}
}

func TestMeetingLifecycle(t *testing.T) {
	m := newTestMeeting(t, false)
	if err := m.Complete(monday(22, 0)); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("pending meeting must not complete, got %v", err)
	}
	if err := m.Confirm(monday(9, 0)); err != nil {
		t.Fatalf("confirm: %v", err)
	}
	if err := m.Confirm(monday(9, 1)); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("double confirm: expected ErrInvalidState, got %v", err)
	}
	if err := m.Complete(monday(20, 59)); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("completion before end: expected ErrInvalidState, got %v", err)
	}
	if err := m.Complete(monday(21, 0)); err != nil {
		t.Fatalf("complete at end: %v", err)
	}
	if err := m.Cancel("late", monday(21, 5)); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("cancel after completion: expected ErrInvalidState, got %v", err)
	}
}

func TestMeetingCancel(t *testing.T) {
	m := newTestMeeting(t, true)
	if err := m.Cancel("  travelling  ", monday(21, 30)); err != nil {
		t.Fatalf("cancel after end before sweep: %v", err)
	}
	if m.State != domain.StateCancelled || m.CancelReason != "travelling" {
		t.Fatalf("unexpected meeting %+v", m)
	}
	if err := m.Cancel("again", monday(21, 31)); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("double cancel: expected ErrInvalidState, got %v", err)
	}
	if err := m.Confirm(monday(21, 32)); !errors.Is(err, domain.ErrInvalidState) {
		t.Fatalf("confirm cancelled: expected ErrInvalidState, got %v", err)
	}
}

func TestPersonName(t *testing.T) {
	var nilPerson *Person
	if nilPerson.Name() != "" {
		t.Fatal("nil person should have no name")
	}
	if (&Person{ID: "42"}).Name() != "42" {
		t.Fatal("expected id fallback")
	}
	if (&Person{ID: "42", DisplayName: "Ana"}).Name() != "Ana" {
		t.Fatal("expected display name")
	}
}
