package discord

import (
	"errors"

	"mentorbook/internal/domain"
	"mentorbook/internal/ports/output"
)

// ErrorKey maps err to a translation key. Unknown errors map to
// "errors.internal" so infrastructure details never reach users.
func ErrorKey(err error) string {
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrBadDate):
		return "input.bad_date"
	case errors.Is(err, ErrBadTime):
		return "input.bad_time"
	case errors.Is(err, ErrForbidden):
		return "errors.forbidden"
	}
	if code := domain.Code(err); code != "" {
		return "errors." + code
	}
	return "errors.internal"
}

// ErrorMessage resolves err to a user-facing message in locale.
func ErrorMessage(tr output.T, locale string, err error) string {
	if err == nil {
		return ""
	}
	return tr.T(locale, ErrorKey(err), nil)
}
