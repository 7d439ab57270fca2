package database

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"mentorbook/internal/domain"
	"mentorbook/internal/domain/entities"
	"mentorbook/internal/ports/output"
)

var _ output.PersonDirectory = (*PersonRepository)(nil)

const personColumns = `id, display_name, email, leader_id, assigned_at, created_at, updated_at`

type PersonRepository struct {
	db DBTX
}

func NewPersonRepository(db DBTX) *PersonRepository {
	return &PersonRepository{db: db}
}

func (r *PersonRepository) Resolve(ctx context.Context, id string) (*entities.Person, error) {
	rows, err := r.db.Query(ctx, `SELECT `+personColumns+` FROM people WHERE id = $1`, id)
	if err != nil {
		return nil, fmt.Errorf("get person: %w", err)
	}
	row, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByPos[personRow])
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, domain.ErrPersonNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get person: %w", err)
	}
	p := row.toDomain()
	return &p, nil
}

// Upsert keeps stored values for fields left empty; the assignment only
// changes together with a non-empty leader id.
func (r *PersonRepository) Upsert(ctx context.Context, p *entities.Person) error {
	_, err := r.db.Exec(ctx, `
		INSERT INTO people (id, display_name, email, leader_id, assigned_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (id) DO UPDATE SET
			display_name = COALESCE(NULLIF(EXCLUDED.display_name, ''), people.display_name),
			email        = COALESCE(NULLIF(EXCLUDED.email, ''), people.email),
			assigned_at  = CASE WHEN EXCLUDED.leader_id <> '' THEN EXCLUDED.assigned_at ELSE people.assigned_at END,
			leader_id    = COALESCE(NULLIF(EXCLUDED.leader_id, ''), people.leader_id),
			updated_at   = now()`,
		p.ID, p.DisplayName, p.Email, p.LeaderID, timeToTimestamptz(p.AssignedAt))
	if err != nil {
		return fmt.Errorf("upsert person: %w", err)
	}
	return nil
}

func (r *PersonRepository) FindByLeaderID(ctx context.Context, leaderID string) ([]entities.Person, error) {
	rows, err := r.db.Query(ctx, `
		SELECT `+personColumns+` FROM people
		WHERE leader_id = $1
		ORDER BY display_name COLLATE "C", id`, leaderID)
	if err != nil {
		return nil, fmt.Errorf("list people: %w", err)
	}
	found, err := pgx.CollectRows(rows, pgx.RowToStructByPos[personRow])
	if err != nil {
		return nil, fmt.Errorf("scan people: %w", err)
	}
	out := make([]entities.Person, 0, len(found))
	for _, row := range found {
		out = append(out, row.toDomain())
	}
	return out, nil
}
