package reminder

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
)

// Scheduler owns the single timer that drives reminder cycles. It can be
// re-armed with a new trigger expression at any time without restarting the
// process; the previous timer is always cancelled first so a reconfigure can
// never leave two schedules firing.
type Scheduler struct {
	run         func(context.Context)
	defaultExpr string
	parser      cron.Parser

	mu     sync.Mutex
	cancel context.CancelFunc
}

// NewScheduler creates a scheduler that invokes run on each firing. The
// default expression is used whenever Configure is given a blank one.
// Accepts standard five-field cron expressions plus an optional leading
// seconds field.
func NewScheduler(run func(context.Context), defaultExpr string) *Scheduler {
	return &Scheduler{
		run:         run,
		defaultExpr: defaultExpr,
		parser: cron.NewParser(cron.SecondOptional | cron.Minute | cron.Hour |
			cron.Dom | cron.Month | cron.Dow | cron.Descriptor),
	}
}

// Configure replaces the active schedule with one derived from expr (or the
// default expression when expr is blank). The current timer is cancelled
// before parsing, so a malformed expression leaves nothing armed; the error
// is returned for the caller to surface but the process keeps running.
func (s *Scheduler) Configure(expr string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cancelLocked()

	if expr == "" {
		expr = s.defaultExpr
	}

	schedule, err := s.parser.Parse(expr)
	if err != nil {
		slog.Error("invalid reminder trigger expression, no schedule armed", "expr", expr, "error", err)
		return fmt.Errorf("parsing trigger expression %q: %w", expr, err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	s.cancel = cancel
	go s.loop(ctx, schedule)

	slog.Info("reminder schedule armed", "expr", expr)
	return nil
}

// Validate reports whether expr parses as a trigger expression, without
// touching the active schedule.
func (s *Scheduler) Validate(expr string) error {
	_, err := s.parser.Parse(expr)
	if err != nil {
		return fmt.Errorf("parsing trigger expression %q: %w", expr, err)
	}
	return nil
}

// Stop cancels the active schedule, if any. Idempotent. A cycle that is
// already executing completes normally.
func (s *Scheduler) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cancelLocked()
}

func (s *Scheduler) cancelLocked() {
	if s.cancel != nil {
		s.cancel()
		s.cancel = nil
	}
}

func (s *Scheduler) loop(ctx context.Context, schedule cron.Schedule) {
	for {
		next := schedule.Next(time.Now())
		timer := time.NewTimer(time.Until(next))

		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case <-timer.C:
			// The cycle runs with its own context: cancelling the schedule
			// only stops future firings, never a cycle in flight.
			s.run(context.Background())
		}
	}
}
