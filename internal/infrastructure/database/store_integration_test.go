//go:build integration

package database

import (
	"context"
	"os"
	"testing"

	"go.uber.org/zap/zaptest"

	"mentorbook/internal/infrastructure/storetest"
)

// Run with: DATABASE_URL=postgres://... go test -tags integration ./internal/infrastructure/database/
func TestStoreContract(t *testing.T) {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		t.Skip("DATABASE_URL not set")
	}
	logger := zaptest.NewLogger(t)
	if err := RunMigrations(dsn, logger); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	pool, err := NewPool(context.Background(), dsn, logger)
	if err != nil {
		t.Fatalf("pool: %v", err)
	}
	t.Cleanup(pool.Close)

	storetest.Run(t, func(t *testing.T) storetest.Harness {
		if _, err := pool.Exec(context.Background(),
			`TRUNCATE people, meetings, availability_windows, leader_calendars`); err != nil {
			t.Fatalf("truncate: %v", err)
		}
		s := NewStore(pool, logger)
		return storetest.Harness{
			UnitOfWork: s,
			Calendars:  s.Calendars(),
			Meetings:   s.Meetings(),
			People:     s.People(),
		}
	})
}
