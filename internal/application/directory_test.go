package application

import (
	"context"
	"errors"
	"testing"

	"mentorbook/internal/domain"
	"mentorbook/internal/domain/entities"
)

func TestDirectoryUpsertMergesAndAssigns(t *testing.T) {
	f := newFixture(t)
	dir := NewDirectoryService(f.store.People(), WithClock(f.clock.Now))
	ctx := context.Background()

	p, err := dir.UpsertPerson(ctx, entities.Person{ID: "d1", DisplayName: " Felix ", LeaderID: "leader-1"})
	if err != nil {
		t.Fatalf("upsert: %v", err)
	}
	if p.DisplayName != "Felix" || p.LeaderID != "leader-1" || !p.AssignedAt.Equal(f.clock.Now()) {
		t.Fatalf("unexpected person %+v", p)
	}

	// A chat interaction only knows the display name.
	p, err = dir.UpsertPerson(ctx, entities.Person{ID: "d1", DisplayName: "Félix"})
	if err != nil {
		t.Fatalf("rename: %v", err)
	}
	if p.DisplayName != "Félix" || p.LeaderID != "leader-1" {
		t.Fatalf("assignment lost on rename: %+v", p)
	}

	if _, err := dir.UpsertPerson(ctx, entities.Person{ID: "x", LeaderID: "x"}); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if _, err := dir.UpsertPerson(ctx, entities.Person{ID: " "}); !errors.Is(err, domain.ErrInvalidArgument) {
		t.Fatalf("expected ErrInvalidArgument, got %v", err)
	}
	if _, err := dir.GetPerson(ctx, "ghost"); !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("expected not found, got %v", err)
	}
}
