package application

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"mentorbook/internal/domain"
	"mentorbook/internal/domain/entities"
	"mentorbook/internal/ports/input"
	"mentorbook/internal/ports/output"
)

var _ input.BookingUseCase = (*BookingEngine)(nil)

// BookingEngine creates meetings and drives their lifecycle. Every
// read-check-write sequence runs inside the leader's critical section, so at
// most one request wins a contested interval.
type BookingEngine struct {
	uow         output.UnitOfWork
	meetingRepo output.MeetingRepository
	opts        options
}

func NewBookingEngine(uow output.UnitOfWork, meetingRepo output.MeetingRepository, opts ...Option) *BookingEngine {
	return &BookingEngine{
		uow:         uow,
		meetingRepo: meetingRepo,
		opts:        newOptions(opts),
	}
}

func (e *BookingEngine) RequestMeeting(ctx context.Context, leaderID, discipleID string, start, end time.Time) (*entities.Meeting, error) {
	if err := requireID("leader id", leaderID); err != nil {
		return nil, err
	}
	if err := requireID("disciple id", discipleID); err != nil {
		return nil, err
	}
	if leaderID == discipleID {
		return nil, fmt.Errorf("%w: a leader cannot book a meeting with themselves", domain.ErrInvalidArgument)
	}
	start, end = start.In(e.opts.location), end.In(e.opts.location)
	if !start.Before(end) {
		return nil, fmt.Errorf("%w: start %s must be before end %s", domain.ErrInvalidInterval,
			start.Format(time.RFC3339), end.Format(time.RFC3339))
	}
	now := e.opts.clock()
	if start.Before(now) {
		return nil, fmt.Errorf("%w: %s is in the past", domain.ErrUnavailable, start.Format(time.RFC3339))
	}

	var created *entities.Meeting
	err := e.uow.WithinLeader(ctx, leaderID, func(ctx context.Context, repos output.Repositories) error {
		calendar, err := repos.Calendars.FindByLeaderID(ctx, leaderID)
		if err != nil {
			return fmt.Errorf("load calendar: %w", err)
		}
		if !calendar.IsBookable(start, end) {
			return fmt.Errorf("%w: %s %s-%s", domain.ErrUnavailable,
				start.Weekday(), entities.TimeOfDayOf(start), entities.TimeOfDayOf(end))
		}
		blocking, err := repos.Meetings.FindBlockingInRange(ctx, leaderID, start, end)
		if err != nil {
			return fmt.Errorf("find blocking meetings: %w", err)
		}
		if len(blocking) > 0 {
			return fmt.Errorf("%w: overlaps meeting %s", domain.ErrConflict, blocking[0].ID)
		}
		meeting, err := entities.NewMeeting(leaderID, discipleID, start, end, calendar.AutoConfirm, now)
		if err != nil {
			return err
		}
		if err := repos.Meetings.Create(ctx, meeting); err != nil {
			return fmt.Errorf("create meeting: %w", err)
		}
		created = meeting
		return nil
	})
	if err != nil {
		e.opts.logger.Debug("meeting request rejected",
			zap.String("leader_id", leaderID),
			zap.String("disciple_id", discipleID),
			zap.Time("start", start),
			zap.Error(err),
		)
		return nil, err
	}
	e.opts.logger.Info("meeting requested",
		zap.String("meeting_id", created.ID),
		zap.String("leader_id", leaderID),
		zap.String("disciple_id", discipleID),
		zap.Time("start", start),
		zap.Time("end", end),
		zap.String("state", string(created.State)),
	)
	return created, nil
}

func (e *BookingEngine) ConfirmMeeting(ctx context.Context, meetingID string) (*entities.Meeting, error) {
	return e.transition(ctx, meetingID, "meeting confirmed", func(m *entities.Meeting, now time.Time) error {
		return m.Confirm(now)
	})
}

// CancelMeeting cancels a Pending or Confirmed meeting. Cancelling twice
// fails with domain.ErrInvalidState so callers can detect it.
func (e *BookingEngine) CancelMeeting(ctx context.Context, meetingID, reason string) (*entities.Meeting, error) {
	return e.transition(ctx, meetingID, "meeting cancelled", func(m *entities.Meeting, now time.Time) error {
		return m.Cancel(reason, now)
	})
}

// GetMeeting applies the derived completion before returning.
func (e *BookingEngine) GetMeeting(ctx context.Context, meetingID string) (*entities.Meeting, error) {
	if err := requireID("meeting id", meetingID); err != nil {
		return nil, err
	}
	meeting, err := e.meetingRepo.FindByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	if err := completeIfDue(ctx, e.meetingRepo, meeting, e.opts.clock()); err != nil {
		return nil, err
	}
	return meeting, nil
}

func (e *BookingEngine) transition(ctx context.Context, meetingID, logMsg string, apply func(*entities.Meeting, time.Time) error) (*entities.Meeting, error) {
	if err := requireID("meeting id", meetingID); err != nil {
		return nil, err
	}
	// The leader is needed to pick the lock; the state is re-read under it.
	found, err := e.meetingRepo.FindByID(ctx, meetingID)
	if err != nil {
		return nil, err
	}
	var updated *entities.Meeting
	err = e.uow.WithinLeader(ctx, found.LeaderID, func(ctx context.Context, repos output.Repositories) error {
		meeting, err := repos.Meetings.FindByID(ctx, meetingID)
		if err != nil {
			return err
		}
		from := meeting.State
		now := e.opts.clock()
		if err := apply(meeting, now); err != nil {
			return err
		}
		if err := repos.Meetings.TransitionState(ctx, meeting.ID, from, meeting.State, meeting.CancelReason, now); err != nil {
			return err
		}
		updated = meeting
		return nil
	})
	if err != nil {
		return nil, err
	}
	e.opts.logger.Info(logMsg,
		zap.String("meeting_id", updated.ID),
		zap.String("leader_id", updated.LeaderID),
		zap.String("state", string(updated.State)),
	)
	return updated, nil
}
