package input

import (
	"context"

	"mentorbook/internal/domain/entities"
)

// DirectoryUseCase maintains the display-only person directory.
type DirectoryUseCase interface {
	// UpsertPerson merges person into the directory and returns the stored
	// record. Empty fields keep their stored value.
	UpsertPerson(ctx context.Context, person entities.Person) (*entities.Person, error)
	GetPerson(ctx context.Context, id string) (*entities.Person, error)
}
