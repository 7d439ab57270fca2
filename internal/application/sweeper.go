package application

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"

	"mentorbook/internal/domain"
	"mentorbook/internal/domain/entities"
	"mentorbook/internal/ports/input"
	"mentorbook/internal/ports/output"
)

var _ input.CompletionSweep = (*CompletionSweeper)(nil)

// CompletionSweeper promotes Confirmed meetings whose end has passed to
// Completed. It never takes the leader lock: the compare-and-set in
// TransitionState is what keeps it from overwriting a concurrent cancel.
type CompletionSweeper struct {
	meetingRepo output.MeetingRepository
	opts        options
}

func NewCompletionSweeper(meetingRepo output.MeetingRepository, opts ...Option) *CompletionSweeper {
	return &CompletionSweeper{meetingRepo: meetingRepo, opts: newOptions(opts)}
}

// Sweep returns how many meetings it completed. Running it twice in a row
// completes nothing the second time.
func (s *CompletionSweeper) Sweep(ctx context.Context) (int, error) {
	now := s.opts.clock()
	due, err := s.meetingRepo.FindDueForCompletion(ctx, now)
	if err != nil {
		return 0, fmt.Errorf("find due meetings: %w", err)
	}
	completed := 0
	var errs []error
	for i := range due {
		if err := ctx.Err(); err != nil {
			errs = append(errs, err)
			break
		}
		done, err := promote(ctx, s.meetingRepo, &due[i], now)
		if err != nil {
			errs = append(errs, fmt.Errorf("complete meeting %s: %w", due[i].ID, err))
			continue
		}
		if done {
			completed++
		}
	}
	if completed > 0 {
		s.opts.logger.Info("meetings completed", zap.Int("count", completed))
	}
	return completed, errors.Join(errs...)
}

// completeIfDue is the on-read half of the derived completion; m is updated
// in place to reflect whatever state won.
func completeIfDue(ctx context.Context, repo output.MeetingRepository, m *entities.Meeting, now time.Time) error {
	if !m.IsDue(now) {
		return nil
	}
	done, err := promote(ctx, repo, m, now)
	if err != nil {
		return fmt.Errorf("complete meeting %s: %w", m.ID, err)
	}
	if done {
		return nil
	}
	fresh, err := repo.FindByID(ctx, m.ID)
	if err != nil {
		return err
	}
	*m = *fresh
	return nil
}

// promote reports false without error when another writer changed the state first.
func promote(ctx context.Context, repo output.MeetingRepository, m *entities.Meeting, now time.Time) (bool, error) {
	if err := m.Complete(now); err != nil {
		return false, nil
	}
	err := repo.TransitionState(ctx, m.ID, domain.StateConfirmed, domain.StateCompleted, "", now)
	if errors.Is(err, domain.ErrInvalidState) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
