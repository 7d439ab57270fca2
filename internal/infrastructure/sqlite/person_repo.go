package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"mentorbook/internal/domain"
	"mentorbook/internal/domain/entities"
	"mentorbook/internal/ports/output"
)

var _ output.PersonDirectory = (*PersonRepository)(nil)

const personColumns = `id, display_name, email, leader_id, assigned_at, created_at, updated_at`

type PersonRepository struct {
	q queryer
}

func (r *PersonRepository) Resolve(ctx context.Context, id string) (*entities.Person, error) {
	row := r.q.QueryRowContext(ctx, `SELECT `+personColumns+` FROM people WHERE id = ?`, id)
	p, err := scanPerson(row)
	if isNoRows(err) {
		return nil, domain.ErrPersonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get person: %w", err)
	}
	return &p, nil
}

// Upsert keeps stored values for fields left empty; the assignment only
// changes together with a non-empty leader id.
func (r *PersonRepository) Upsert(ctx context.Context, p *entities.Person) error {
	now := toMillis(time.Now())
	_, err := r.q.ExecContext(ctx, `
		INSERT INTO people (`+personColumns+`)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			display_name = CASE WHEN excluded.display_name <> '' THEN excluded.display_name ELSE people.display_name END,
			email        = CASE WHEN excluded.email <> '' THEN excluded.email ELSE people.email END,
			assigned_at  = CASE WHEN excluded.leader_id <> '' THEN excluded.assigned_at ELSE people.assigned_at END,
			leader_id    = CASE WHEN excluded.leader_id <> '' THEN excluded.leader_id ELSE people.leader_id END,
			updated_at   = excluded.updated_at`,
		p.ID, p.DisplayName, p.Email, p.LeaderID, nullMillis(p.AssignedAt), now, now)
	if err != nil {
		return fmt.Errorf("upsert person: %w", err)
	}
	return nil
}

func (r *PersonRepository) FindByLeaderID(ctx context.Context, leaderID string) ([]entities.Person, error) {
	rows, err := r.q.QueryContext(ctx, `
		SELECT `+personColumns+` FROM people
		WHERE leader_id = ?
		ORDER BY display_name, id`, leaderID)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	defer rows.Close()
	out := make([]entities.Person, 0)
	for rows.Next() {
		p, err := scanPerson(rows)
		if err != nil {
			return nil, fmt.Errorf("scan person: %w", err)
		}
		out = append(out, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	return out, nil
}

func scanPerson(s scanner) (entities.Person, error) {
	var (
		p                    entities.Person
		assignedAt           sql.NullInt64
		createdAt, updatedAt int64
	)
	if err := s.Scan(&p.ID, &p.DisplayName, &p.Email, &p.LeaderID, &assignedAt, &createdAt, &updatedAt); err != nil {
		return entities.Person{}, err
	}
	p.AssignedAt = fromNullMillis(assignedAt)
	p.CreatedAt = fromMillis(createdAt)
	p.UpdatedAt = fromMillis(updatedAt)
	return p, nil
}
