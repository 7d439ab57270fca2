package database

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"mentorbook/internal/domain"
	"mentorbook/internal/domain/entities"
	"mentorbook/internal/ports/output"
)

var _ output.MeetingRepository = (*MeetingRepository)(nil)

const meetingColumns = `id, leader_id, disciple_id, scheduled_start, scheduled_end, state, cancel_reason, created_at, updated_at`

type MeetingRepository struct {
	db DBTX
}

func NewMeetingRepository(db DBTX) *MeetingRepository {
	return &MeetingRepository{db: db}
}

func (r *MeetingRepository) Create(ctx context.Context, m *entities.Meeting) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO meetings (`+meetingColumns+`)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`,
		m.ID, m.LeaderID, m.DiscipleID, m.ScheduledStart, m.ScheduledEnd,
		string(m.State), m.CancelReason, m.CreatedAt, m.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert meeting: %w", err)
	}
	return nil
}

func (r *MeetingRepository) FindByID(ctx context.Context, id string) (*entities.Meeting, error) {
	rows, err := r.db.Query(ctx, `SELECT `+meetingColumns+` FROM meetings WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get meeting: %w", err)
	}
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[meetingRow])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrMeetingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get meeting: %w", err)
	}
	m := row.toDomain()
	return &m, nil
}

func (r *MeetingRepository) FindByLeaderID(ctx context.Context, leaderID string) ([]entities.Meeting, error) {
	return r.list(ctx, `
		SELECT `+meetingColumns+` FROM meetings
		WHERE leader_id = $1
		ORDER BY scheduled_start, id`, leaderID)
}

func (r *MeetingRepository) FindBlockingInRange(ctx context.Context, leaderID string, from, to time.Time) ([]entities.Meeting, error) {
	return r.list(ctx, `
		SELECT `+meetingColumns+` FROM meetings
		WHERE leader_id = $1 AND state <> 'cancelled'
		  AND scheduled_start < $2 AND scheduled_end > $3
		ORDER BY scheduled_start, id`, leaderID, to, from)
}

func (r *MeetingRepository) FindDueForCompletion(ctx context.Context, now time.Time) ([]entities.Meeting, error) {
	return r.list(ctx, `
		SELECT `+meetingColumns+` FROM meetings
		WHERE state = 'confirmed' AND scheduled_end <= $1
		ORDER BY scheduled_start, id`, now)
}

func (r *MeetingRepository) TransitionState(ctx context.Context, id string, from, to domain.MeetingState, reason string, at time.Time) error {
	tag, err := r.db.Exec(ctx, `
		UPDATE meetings
		SET state = $1, updated_at = $2,
		    cancel_reason = CASE WHEN $1 = 'cancelled' THEN $3 ELSE cancel_reason END
		WHERE id = $4 AND state = $5`,
		string(to), at, reason, id, string(from))
	if err != nil {
		return fmt.Errorf("update meeting state: %w", err)
	}
	if tag.RowsAffected() == 1 {
		return nil
	}
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM meetings WHERE id = $1)`, id).Scan(&exists); err != nil {
		return fmt.Errorf("check meeting: %w", err)
	}
	if !exists {
		return domain.ErrMeetingNotFound
	}
	return fmt.Errorf("%w: meeting %s is no longer %s", domain.ErrInvalidState, id, from)
}

func (r *MeetingRepository) list(ctx context.Context, query string, args ...any) ([]entities.Meeting, error) {
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	found, err := pgx.CollectRows(rows, pgx.RowToStructByPos[meetingRow])
	if err != nil {
		return nil, fmt.Errorf("scan meetings: %w", err)
	}
	out := make([]entities.Meeting, 0, len(found))
	for _, row := range found {
		out = append(out, row.toDomain())
	}
	return out, nil
}
