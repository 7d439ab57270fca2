package application

import (
	"context"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"mentorbook/internal/domain"
	"mentorbook/internal/domain/entities"
	"mentorbook/internal/ports/input"
	"mentorbook/internal/ports/output"
)

var _ input.DirectoryUseCase = (*DirectoryService)(nil)

// DirectoryService feeds display names and leader assignments into the
// person directory. Nothing in the booking rules depends on it.
type DirectoryService struct {
	people output.PersonDirectory
	opts   options
}

func NewDirectoryService(people output.PersonDirectory, opts ...Option) *DirectoryService {
	return &DirectoryService{people: people, opts: newOptions(opts)}
}

func (s *DirectoryService) UpsertPerson(ctx context.Context, person entities.Person) (*entities.Person, error) {
	person.ID = strings.TrimSpace(person.ID)
	if err := requireID("person id", person.ID); err != nil {
		return nil, err
	}
	person.DisplayName = strings.TrimSpace(person.DisplayName)
	person.Email = strings.TrimSpace(person.Email)
	person.LeaderID = strings.TrimSpace(person.LeaderID)
	if person.LeaderID == person.ID {
		return nil, fmt.Errorf("%w: a person cannot lead themselves", domain.ErrInvalidArgument)
	}
	if person.LeaderID != "" && person.AssignedAt.IsZero() {
		person.AssignedAt = s.opts.clock()
	}
	if err := s.people.Upsert(ctx, &person); err != nil {
		return nil, fmt.Errorf("upsert person: %w", err)
	}
	stored, err := s.people.Resolve(ctx, person.ID)
	if err != nil {
		return nil, fmt.Errorf("reload person: %w", err)
	}
	if person.LeaderID != "" {
		s.opts.logger.Info("disciple assigned",
			zap.String("person_id", stored.ID),
			zap.String("leader_id", stored.LeaderID),
		)
	}
	return stored, nil
}

func (s *DirectoryService) GetPerson(ctx context.Context, id string) (*entities.Person, error) {
	if err := requireID("person id", id); err != nil {
		return nil, err
	}
	return s.people.Resolve(ctx, id)
}
