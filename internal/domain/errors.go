package domain

import "errors"

// ErrNotFound is matched by every "does not exist" error below.
var ErrNotFound = errors.New("not found")

// Domain errors.
var (
	ErrOverlap         = errors.New("availability window overlaps an existing window")
	ErrWindowNotFound  = notFound("availability window not found")
	ErrMeetingNotFound = notFound("meeting not found")
	ErrPersonNotFound  = notFound("person not found")
	ErrInvalidState    = errors.New("transition not permitted from current state")
	ErrUnavailable     = errors.New("requested time is outside the leader's availability")
	ErrConflict        = errors.New("requested time collides with an existing meeting")
	ErrInvalidWindow   = errors.New("invalid availability window")
	ErrInvalidInterval = errors.New("invalid meeting interval")
	ErrInvalidArgument = errors.New("invalid argument")
)

type notFoundError struct{ msg string }

func notFound(msg string) error { return &notFoundError{msg: msg} }

func (e *notFoundError) Error() string { return e.msg }

func (e *notFoundError) Is(target error) bool { return target == ErrNotFound }

var codes = []struct {
	err  error
	code string
}{
	{ErrOverlap, "overlap"},
	{ErrWindowNotFound, "window_not_found"},
	{ErrMeetingNotFound, "meeting_not_found"},
	{ErrPersonNotFound, "person_not_found"},
	{ErrInvalidState, "invalid_state"},
	{ErrUnavailable, "unavailable"},
	{ErrConflict, "conflict"},
	{ErrInvalidWindow, "invalid_window"},
	{ErrInvalidInterval, "invalid_interval"},
	{ErrInvalidArgument, "invalid_argument"},
	{ErrNotFound, "not_found"},
}

// Code returns the stable snake_case code of the first domain error found in
// err's chain, or "" when err carries none. Adapters use it as an i18n key
// suffix and as the JSON error code.
func Code(err error) string {
	if err == nil {
		return ""
	}
	for _, c := range codes {
		if errors.Is(err, c.err) {
			return c.code
		}
	}
	return ""
}
