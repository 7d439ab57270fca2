package input

import (
	"context"
	"time"

	"mentorbook/internal/domain/entities"
)

type BookingUseCase interface {
	RequestMeeting(ctx context.Context, leaderID, discipleID string, start, end time.Time) (*entities.Meeting, error)
	ConfirmMeeting(ctx context.Context, meetingID string) (*entities.Meeting, error)
	CancelMeeting(ctx context.Context, meetingID, reason string) (*entities.Meeting, error)
	GetMeeting(ctx context.Context, meetingID string) (*entities.Meeting, error)
}
