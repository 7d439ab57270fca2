// Package scheduler runs the periodic completion sweep.
package scheduler

import (
	"context"
	"fmt"
	"time"

	"github.com/robfig/cron/v3"
	"go.uber.org/zap"

	"mentorbook/internal/ports/input"
)

// sweepTimeout bounds a single sweep so a stuck store cannot pile up runs.
const sweepTimeout = 30 * time.Second

// Sweeper triggers input.CompletionSweep on a cron schedule.
type Sweeper struct {
	cron   *cron.Cron
	sweep  input.CompletionSweep
	logger *zap.Logger
	ctx    context.Context
}

// NewSweeper parses the schedule with the standard five-field parser, which also
// accepts descriptors such as "@every 1m".
func NewSweeper(schedule string, sweep input.CompletionSweep, logger *zap.Logger) (*Sweeper, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &Sweeper{sweep: sweep, logger: logger, ctx: context.Background()}
	s.cron = cron.New(cron.WithChain(
		cron.Recover(cronLogger{logger.Sugar()}),
		cron.SkipIfStillRunning(cronLogger{logger.Sugar()}),
	))
	if _, err := s.cron.AddFunc(schedule, s.RunOnce); err != nil {
		return nil, fmt.Errorf("sweep schedule %q: %w", schedule, err)
	}
	return s, nil
}

// RunOnce performs one sweep and logs its outcome.
func (s *Sweeper) RunOnce() {
	ctx, cancel := context.WithTimeout(s.ctx, sweepTimeout)
	defer cancel()
	n, err := s.sweep.Sweep(ctx)
	if err != nil {
		s.logger.Error("completion sweep failed", zap.Int("completed", n), zap.Error(err))
		return
	}
	s.logger.Debug("completion sweep done", zap.Int("completed", n))
}

// Run sweeps once immediately, then on schedule until ctx is done. It waits
// for a running sweep to finish before returning.
func (s *Sweeper) Run(ctx context.Context) error {
	s.ctx = ctx
	s.RunOnce()
	s.cron.Start()
	s.logger.Info("completion sweeper started")
	<-ctx.Done()
	<-s.cron.Stop().Done()
	s.logger.Info("completion sweeper stopped")
	return nil
}

// cronLogger adapts zap to cron.Logger.
type cronLogger struct {
	l *zap.SugaredLogger
}

func (c cronLogger) Info(msg string, keysAndValues ...interface{}) {
	c.l.Debugw(msg, keysAndValues...)
}

func (c cronLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	c.l.Errorw(msg, append(keysAndValues, "error", err)...)
}
