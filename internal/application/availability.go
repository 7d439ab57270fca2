package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"mentorbook/internal/domain/entities"
	"mentorbook/internal/ports/input"
	"mentorbook/internal/ports/output"
)

var _ input.AvailabilityUseCase = (*AvailabilityService)(nil)

// AvailabilityService manages the weekly windows of each leader.
type AvailabilityService struct {
	uow          output.UnitOfWork
	calendarRepo output.CalendarRepository
	opts         options
}

func NewAvailabilityService(uow output.UnitOfWork, calendarRepo output.CalendarRepository, opts ...Option) *AvailabilityService {
	return &AvailabilityService{
		uow:          uow,
		calendarRepo: calendarRepo,
		opts:         newOptions(opts),
	}
}

func (s *AvailabilityService) AddAvailability(ctx context.Context, leaderID string, day time.Weekday, start, end entities.TimeOfDay) (entities.TimeWindow, error) {
	if err := requireID("leader id", leaderID); err != nil {
		return entities.TimeWindow{}, err
	}
	window, err := entities.NewTimeWindow(day, start, end)
	if err != nil {
		return entities.TimeWindow{}, err
	}
	var added entities.TimeWindow
	err = s.uow.WithinLeader(ctx, leaderID, func(ctx context.Context, repos output.Repositories) error {
		calendar, err := repos.Calendars.FindByLeaderID(ctx, leaderID)
		if err != nil {
			return fmt.Errorf("load calendar: %w", err)
		}
		added, err = calendar.AddWindow(window)
		if err != nil {
			return err
		}
		if err := repos.Calendars.InsertWindow(ctx, leaderID, added); err != nil {
			return fmt.Errorf("insert window: %w", err)
		}
		return nil
	})
	if err != nil {
		return entities.TimeWindow{}, err
	}
	s.opts.logger.Info("availability window added",
		zap.String("leader_id", leaderID),
		zap.String("window_id", added.ID),
		zap.Stringer("day", added.Day),
		zap.Stringer("start", added.Start),
		zap.Stringer("end", added.End),
	)
	return added, nil
}

// RemoveAvailability only stops future bookings in the window; meetings
// already booked there are kept.
func (s *AvailabilityService) RemoveAvailability(ctx context.Context, leaderID, windowID string) error {
	if err := requireID("leader id", leaderID); err != nil {
		return err
	}
	err := s.uow.WithinLeader(ctx, leaderID, func(ctx context.Context, repos output.Repositories) error {
		calendar, err := repos.Calendars.FindByLeaderID(ctx, leaderID)
		if err != nil {
			return fmt.Errorf("load calendar: %w", err)
		}
		if _, err := calendar.RemoveWindow(windowID); err != nil {
			return err
		}
		return repos.Calendars.DeleteWindow(ctx, leaderID, windowID)
	})
	if err != nil {
		return err
	}
	s.opts.logger.Info("availability window removed",
		zap.String("leader_id", leaderID),
		zap.String("window_id", windowID),
	)
	return nil
}

func (s *AvailabilityService) ListAvailability(ctx context.Context, leaderID string) (*entities.AvailabilityCalendar, error) {
	if err := requireID("leader id", leaderID); err != nil {
		return nil, err
	}
	calendar, err := s.calendarRepo.FindByLeaderID(ctx, leaderID)
	if err != nil {
		return nil, fmt.Errorf("load calendar: %w", err)
	}
	return calendar, nil
}

// SetAutoConfirm toggles direct confirmation of new bookings for the leader.
func (s *AvailabilityService) SetAutoConfirm(ctx context.Context, leaderID string, enabled bool) error {
	if err := requireID("leader id", leaderID); err != nil {
		return err
	}
	err := s.uow.WithinLeader(ctx, leaderID, func(ctx context.Context, repos output.Repositories) error {
		return repos.Calendars.SetAutoConfirm(ctx, leaderID, enabled)
	})
	if err != nil {
		return fmt.Errorf("set auto confirm: %w", err)
	}
	s.opts.logger.Info("auto confirm updated", zap.String("leader_id", leaderID), zap.Bool("enabled", enabled))
	return nil
}
