package scheduler

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/zap"
)

type countingSweep struct {
	calls atomic.Int32
	err   error
}

func (c *countingSweep) Sweep(ctx context.Context) (int, error) {
	c.calls.Add(1)
	return 0, c.err
}

func TestNewSweeperRejectsBadSchedule(t *testing.T) {
	if _, err := NewSweeper("every minute", &countingSweep{}, nil); err == nil {
		t.Fatal("expected an error for a malformed schedule")
	}
}

func TestRunSweepsImmediatelyAndStops(t *testing.T) {
	sweep := &countingSweep{}
	s, err := NewSweeper("@every 1h", sweep, zap.NewNop())
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- s.Run(ctx) }()

	deadline := time.Now().Add(2 * time.Second)
	for sweep.calls.Load() == 0 {
		if time.Now().After(deadline) {
			t.Fatal("sweep never ran")
		}
		time.Sleep(5 * time.Millisecond)
	}
	cancel()

	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("run did not return after cancel")
	}
}

func TestRunOnceSurvivesSweepError(t *testing.T) {
	sweep := &countingSweep{err: errors.New("store down")}
	s, err := NewSweeper("@every 1m", sweep, nil)
	if err != nil {
		t.Fatal(err)
	}
	s.RunOnce()
	s.RunOnce()
	if got := sweep.calls.Load(); got != 2 {
		t.Fatalf("calls = %d", got)
	}
}
