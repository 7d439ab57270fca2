package sqlite

import (
	"context"
	"fmt"
	"time"

	"mentorbook/internal/domain"
	"mentorbook/internal/domain/entities"
	"mentorbook/internal/ports/output"
)

var _ output.CalendarRepository = (*CalendarRepository)(nil)

type CalendarRepository struct {
	q queryer
}

func (r *CalendarRepository) FindByLeaderID(ctx context.Context, leaderID string) (*entities.AvailabilityCalendar, error) {
	calendar := entities.NewAvailabilityCalendar(leaderID)

	var (
		autoConfirm bool
		updatedAt   int64
	)
	err := r.q.QueryRowContext(ctx,
		`SELECT auto_confirm, updated_at FROM leader_calendars WHERE leader_id = ?`, leaderID,
	).Scan(&autoConfirm, &updatedAt)
	switch {
	case err == nil:
		calendar.AutoConfirm = autoConfirm
		calendar.UpdatedAt = fromMillis(updatedAt)
	case isNoRows(err):
		return calendar, nil
	default:
		return nil, fmt.Errorf("get calendar: %w", err)
	}

	rows, err := r.q.QueryContext(ctx, `
		SELECT id, day_of_week, start_minute, end_minute
		FROM availability_windows
		WHERE leader_id = ?
		ORDER BY day_of_week, start_minute`, leaderID)
	if err != nil {
		return nil, fmt.Errorf("list windows: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			w          entities.TimeWindow
			day        int
			start, end int
		)
		if err := rows.Scan(&w.ID, &day, &start, &end); err != nil {
			return nil, fmt.Errorf("scan window: %w", err)
		}
		w.Day = time.Weekday(day)
		w.Start = entities.TimeOfDay(start)
		w.End = entities.TimeOfDay(end)
		calendar.Windows = append(calendar.Windows, w)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list windows: %w", err)
	}
	return calendar, nil
}

func (r *CalendarRepository) InsertWindow(ctx context.Context, leaderID string, window entities.TimeWindow) error {
	now := toMillis(time.Now())
	if err := r.touch(ctx, leaderID, now); err != nil {
		return err
	}
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO availability_windows (id, leader_id, day_of_week, start_minute, end_minute, created_at)
		VALUES (?, ?, ?, ?, ?, ?)`,
		window.ID, leaderID, int(window.Day), int(window.Start), int(window.End), now)
	if err != nil {
		return fmt.Errorf("insert window: %w", err)
	}
	return nil
}

func (r *CalendarRepository) DeleteWindow(ctx context.Context, leaderID, windowID string) error {
	res, err := r.q.ExecContext(ctx,
		`DELETE FROM availability_windows WHERE id = ? AND leader_id = ?`, windowID, leaderID)
	if err != nil {
		return fmt.Errorf("delete window: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete window: %w", err)
	}
	if n == 0 {
		return domain.ErrWindowNotFound
	}
	return r.touch(ctx, leaderID, toMillis(time.Now()))
}

func (r *CalendarRepository) SetAutoConfirm(ctx context.Context, leaderID string, enabled bool) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO leader_calendars (leader_id, auto_confirm, updated_at) VALUES (?, ?, ?)
		ON CONFLICT (leader_id) DO UPDATE SET auto_confirm = excluded.auto_confirm, updated_at = excluded.updated_at`,
		leaderID, enabled, toMillis(time.Now()))
	if err != nil {
		return fmt.Errorf("set auto confirm: %w", err)
	}
	return nil
}

// touch creates the calendar row on first use and bumps updated_at.
func (r *CalendarRepository) touch(ctx context.Context, leaderID string, now int64) error {
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO leader_calendars (leader_id, auto_confirm, updated_at) VALUES (?, 0, ?)
		ON CONFLICT (leader_id) DO UPDATE SET updated_at = excluded.updated_at`,
		leaderID, now)
	if err != nil {
		return fmt.Errorf("touch calendar: %w", err)
	}
	return nil
}
