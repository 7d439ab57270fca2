package database

import (
	"time"

	"github.com/jackc/pgx/v5/pgtype"

	"mentorbook/internal/domain"
	"mentorbook/internal/domain/entities"
)

// timestamptzToTime returns t.Time when Valid, else zero time.
func timestamptzToTime(t pgtype.Timestamptz) time.Time {
	if !t.Valid {
		return time.Time{}
	}
	return t.Time.UTC()
}

func timeToTimestamptz(t time.Time) pgtype.Timestamptz {
	if t.IsZero() {
		return pgtype.Timestamptz{}
	}
	return pgtype.Timestamptz{Time: t, Valid: true}
}

type meetingRow struct {
	ID             string
	LeaderID       string
	DiscipleID     string
	ScheduledStart time.Time
	ScheduledEnd   time.Time
	State          string
	CancelReason   string
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

func (r meetingRow) toDomain() entities.Meeting {
	return entities.Meeting{
		ID:             r.ID,
		LeaderID:       r.LeaderID,
		DiscipleID:     r.DiscipleID,
		ScheduledStart: r.ScheduledStart.UTC(),
		ScheduledEnd:   r.ScheduledEnd.UTC(),
		State:          domain.MeetingState(r.State),
		CancelReason:   r.CancelReason,
		CreatedAt:      r.CreatedAt.UTC(),
		UpdatedAt:      r.UpdatedAt.UTC(),
	}
}

type personRow struct {
	ID          string
	DisplayName string
	Email       string
	LeaderID    string
	AssignedAt  pgtype.Timestamptz
	CreatedAt   pgtype.Timestamptz
	UpdatedAt   pgtype.Timestamptz
}

func (r personRow) toDomain() entities.Person {
	return entities.Person{
		ID:          r.ID,
		DisplayName: r.DisplayName,
		Email:       r.Email,
		LeaderID:    r.LeaderID,
		AssignedAt:  timestamptzToTime(r.AssignedAt),
		CreatedAt:   timestamptzToTime(r.CreatedAt),
		UpdatedAt:   timestamptzToTime(r.UpdatedAt),
	}
}
