package output

import (
	"context"

	"mentorbook/internal/domain/entities"
)

// IdentityResolver maps a leader or disciple ID to display data. It is never
// consulted for business rules.
type IdentityResolver interface {
	// Resolve returns domain.ErrPersonNotFound for unknown IDs.
	Resolve(ctx context.Context, id string) (*entities.Person, error)
}

// PersonDirectory is the writable side of the identity directory.
type PersonDirectory interface {
	IdentityResolver
	// Upsert inserts or updates a person; empty fields keep their stored value.
	Upsert(ctx context.Context, person *entities.Person) error
	// FindByLeaderID lists the people assigned to a leader ordered by display name.
	FindByLeaderID(ctx context.Context, leaderID string) ([]entities.Person, error)
}
