package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"

	"mentorbook/internal/ports/output"
)

var _ output.UnitOfWork = (*Store)(nil)

// Store groups the PostgreSQL repositories around one pool.
type Store struct {
	pool   *pgxpool.Pool
	logger *zap.Logger
}

func NewStore(pool *pgxpool.Pool, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{pool: pool, logger: logger}
}

func (s *Store) Calendars() *CalendarRepository { return NewCalendarRepository(s.pool) }

func (s *Store) Meetings() *MeetingRepository { return NewMeetingRepository(s.pool) }

func (s *Store) People() *PersonRepository { return NewPersonRepository(s.pool) }

// WithinLeader runs fn in a transaction holding a transaction-scoped advisory
// lock keyed by the leader, which serializes leaders across processes.
func (s *Store) WithinLeader(ctx context.Context, leaderID string, fn func(ctx context.Context, repos output.Repositories) error) error {
	tx, err := s.pool.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer func() {
		if rbErr := tx.Rollback(ctx); rbErr != nil && !errors.Is(rbErr, pgx.ErrTxClosed) {
			s.logger.Warn("rollback failed", zap.String("leader_id", leaderID), zap.Error(rbErr))
		}
	}()

	if _, err := tx.Exec(ctx, `SELECT pg_advisory_xact_lock(hashtextextended($1, 0))`, leaderID); err != nil {
		return fmt.Errorf("lock leader: %w", err)
	}
	repos := output.Repositories{
		Calendars: NewCalendarRepository(tx),
		Meetings:  NewMeetingRepository(tx),
	}
	if err := fn(ctx, repos); err != nil {
		return err
	}
	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit tx: %w", err)
	}
	return nil
}
