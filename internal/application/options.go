package application

import (
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"mentorbook/internal/domain"
)

// AvailabilityHorizon is the rolling period over which open windows are counted.
const AvailabilityHorizon = 7 * 24 * time.Hour

type options struct {
	now      func() time.Time
	location *time.Location
	logger   *zap.Logger
}

// Option tunes a service. All services share the same option set.
type Option func(*options)

// WithClock replaces time.Now, mainly for tests.
func WithClock(now func() time.Time) Option {
	return func(o *options) { o.now = now }
}

// WithLocation sets the canonical location in which weekdays and wall-clock
// times are evaluated. Defaults to UTC.
func WithLocation(loc *time.Location) Option {
	return func(o *options) { o.location = loc }
}

func WithLogger(logger *zap.Logger) Option {
	return func(o *options) { o.logger = logger }
}

func newOptions(opts []Option) options {
	o := options{now: time.Now, location: time.UTC, logger: zap.NewNop()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.location == nil {
		o.location = time.UTC
	}
	if o.logger == nil {
		o.logger = zap.NewNop()
	}
	return o
}

func (o options) clock() time.Time {
	return o.now().In(o.location)
}

func requireID(field, value string) error {
	if strings.TrimSpace(value) == "" {
		return fmt.Errorf("%w: %s is required", domain.ErrInvalidArgument, field)
	}
	return nil
}
