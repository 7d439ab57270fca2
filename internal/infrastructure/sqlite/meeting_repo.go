package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"mentorbook/internal/domain"
	"mentorbook/internal/domain/entities"
	"mentorbook/internal/ports/output"
)

var _ output.MeetingRepository = (*MeetingRepository)(nil)

const meetingColumns = `id, leader_id, disciple_id, scheduled_start, scheduled_end, state, cancel_reason, created_at, updated_at`

type MeetingRepository struct {
	q queryer
}

func (r *MeetingRepository) Create(ctx context.Context, m *entities.Meeting) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO meetings (`+meetingColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.LeaderID, m.DiscipleID,
		toMillis(m.ScheduledStart), toMillis(m.ScheduledEnd),
		string(m.State), m.CancelReason,
		toMillis(m.CreatedAt), toMillis(m.UpdatedAt))
	if err != nil {
		return fmt.Errorf("insert meeting: %w", err)
	}
	return nil
}

func (r *MeetingRepository) FindByID(ctx context.Context, id string) (*entities.Meeting, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+meetingColumns+` FROM meetings WHERE id = ?`, id)
	m, err := scanMeeting(row)
	if isNoRows(err) {
		return nil, domain.ErrMeetingNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get meeting: %w", err)
	}
	return &m, nil
}

func (r *MeetingRepository) FindByLeaderID(ctx context.Context, leaderID string) ([]entities.Meeting, error) {
	return r.list(ctx, `
		SELECT `+meetingColumns+` FROM meetings
		WHERE leader_id = ?
		ORDER BY scheduled_start, id`, leaderID)
}

func (r *MeetingRepository) FindBlockingInRange(ctx context.Context, leaderID string, from, to time.Time) ([]entities.Meeting, error) {
	return r.list(ctx, `
		SELECT `+meetingColumns+` FROM meetings
		WHERE leader_id = ? AND state <> 'cancelled'
		  AND scheduled_start < ? AND scheduled_end > ?
		ORDER BY scheduled_start, id`, leaderID, toMillis(to), toMillis(from))
}

func (r *MeetingRepository) FindDueForCompletion(ctx context.Context, now time.Time) ([]entities.Meeting, error) {
	return r.list(ctx, `
		SELECT `+meetingColumns+` FROM meetings
		WHERE state = 'confirmed' AND scheduled_end <= ?
		ORDER BY scheduled_start, id`, toMillis(now))
}

func (r *MeetingRepository) TransitionState(ctx context.Context, id string, from, to domain.MeetingState, reason string, at time.Time) error {
	res, err := r.q.ExecContext(ctx, `
		UPDATE meetings
		SET state = ?, updated_at = ?,
		    cancel_reason = CASE WHEN ? = 'cancelled' THEN ? ELSE cancel_reason END
		WHERE id = ? AND state = ?`,
		string(to), toMillis(at), string(to), reason, id, string(from))
	if err != nil {
		return fmt.Errorf("update meeting state: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update meeting state: %w", err)
	}
	if n == 1 {
		return nil
	}
	var exists int
	err = r.q.QueryRowContext(ctx, `SELECT 1 FROM meetings WHERE id = ?`, id).Scan(&exists)
	if isNoRows(err) {
		return domain.ErrMeetingNotFound
	}
	if err != nil {
		return fmt.Errorf("check meeting: %w", err)
	}
	return fmt.Errorf("%w: meeting %s is no longer %s", domain.ErrInvalidState, id, from)
}

func (r *MeetingRepository) list(ctx context.Context, query string, args ...any) ([]entities.Meeting, error) {
	rows, err := r.q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	defer rows.Close()
	out := make([]entities.Meeting, 0)
	for rows.Next() {
		m, err := scanMeeting(rows)
		if err != nil {
			return nil, fmt.Errorf("scan meeting: %w", err)
		}
		out = append(out, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list meetings: %w", err)
	}
	return out, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanMeeting(s scanner) (entities.Meeting, error) {
	var (
		m                    entities.Meeting
		state                string
		start, end           int64
		createdAt, updatedAt int64
	)
	if err := s.Scan(&m.ID, &m.LeaderID, &m.DiscipleID, &start, &end, &state, &m.CancelReason, &createdAt, &updatedAt); err != nil {
		return entities.Meeting{}, err
	}
	m.ScheduledStart = fromMillis(start)
	m.ScheduledEnd = fromMillis(end)
	m.State = domain.MeetingState(state)
	m.CreatedAt = fromMillis(createdAt)
	m.UpdatedAt = fromMillis(updatedAt)
	return m, nil
}

func isNoRows(err error) bool {
	return errors.Is(err, sql.ErrNoRows)
}
