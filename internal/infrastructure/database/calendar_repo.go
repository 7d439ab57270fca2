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

var _ output.CalendarRepository = (*CalendarRepository)(nil)

type CalendarRepository struct {
	db DBTX
}

func NewCalendarRepository(db DBTX) *CalendarRepository {
	return &CalendarRepository{db: db}
}

func (r *CalendarRepository) FindByLeaderID(ctx context.Context, leaderID string) (*entities.AvailabilityCalendar, error) {
	calendar := entities.NewAvailabilityCalendar(leaderID)
	err := r.db.QueryRow(ctx,
		`SELECT auto_confirm, updated_at FROM leader_calendars WHERE leader_id = $1`, leaderID,
	).Scan(&calendar.AutoConfirm, &calendar.UpdatedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return calendar, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get calendar: %w", err)
	}

	rows, err := r.db.Query(ctx, `
		SELECT id, day_of_week, start_minute, end_minute
		FROM availability_windows
		WHERE leader_id = $1
		ORDER BY day_of_week, start_minute`, leaderID)
	if err != nil {
		return nil, fmt.Errorf("list windows: %w", err)
	}
	windows, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (entities.TimeWindow, error) {
		var (
			w                 entities.TimeWindow
			day, start, end int16
		)
		if err := row.Scan(&w.ID, &day, &start, &end); err != nil {
			return entities.TimeWindow{}, err
		}
		w.Day = time.Weekday(day)
		w.Start = entities.TimeOfDay(start)
		w.End = entities.TimeOfDay(end)
		return w, nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan windows: %w", err)
	}
	calendar.Windows = windows
	return calendar, nil
}

func (r *CalendarRepository) InsertWindow(ctx context.Context, leaderID string, window entities.TimeWindow) error {
	if err := r.touch(ctx, leaderID); err != nil {
		return err
	}
	_, err := r.db.Exec(ctx, `
		INSERT INTO availability_windows (id, leader_id, day_of_week, start_minute, end_minute)
		VALUES ($1, $2, $3, $4, $5)`,
		window.ID, leaderID, int16(window.Day), int16(window.Start), int16(window.End))
	if err != nil {
		return fmt.Errorf("insert window: %w", err)
	}
	return nil
}

func (r *CalendarRepository) DeleteWindow(ctx context.Context, leaderID, windowID string) error {
	tag, err := r.db.Exec(ctx,
		`DELETE FROM availability_windows WHERE id = $1 AND leader_id = $2`, windowID, leaderID)
	if err != nil {
		return fmt.Errorf("delete window: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrWindowNotFound
	}
	return r.touch(ctx, leaderID)
}

func (r *CalendarRepository) SetAutoConfirm(ctx context.Context, leaderID string, enabled bool) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO leader_calendars (leader_id, auto_confirm, updated_at) VALUES ($1, $2, now())
		ON CONFLICT (leader_id) DO UPDATE SET auto_confirm = EXCLUDED.auto_confirm, updated_at = now()`,
		leaderID, enabled)
	if err != nil {
		return fmt.Errorf("set auto confirm: %w", err)
	}
	return nil
}

func (r *CalendarRepository) touch(ctx context.Context, leaderID string) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO leader_calendars (leader_id) VALUES ($1)
		ON CONFLICT (leader_id) DO UPDATE SET updated_at = now()`, leaderID)
	if err != nil {
		return fmt.Errorf("touch calendar: %w", err)
	}
	return nil
}
