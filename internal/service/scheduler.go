// Path: internal/service/scheduler.go
package service

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"price-hunter/internal/config"
	"price-hunter/internal/domain"
)

// Clock abstracts time for the scheduler so tests can drive it.
type Clock interface {
	Now() time.Time
	After(d time.Duration) <-chan time.Time
}

// SystemClock is the production clock.
type SystemClock struct{}

func (SystemClock) Now() time.Time                         { return time.Now() }
func (SystemClock) After(d time.Duration) <-chan time.Time { return time.After(d) }

// SchedulerState is the observable phase of the refresh loop.
type SchedulerState string

const (
	SchedulerIdle    SchedulerState = "idle"
	SchedulerRunning SchedulerState = "running"
	SchedulerBackoff SchedulerState = "backoff"
)

// Scheduler keeps tracked queries fresh: it periodically lists the registry,
// refreshes every query whose last update is missing or older than the stale
// threshold, and throttles between queries. A failure inside one iteration is
// logged and absorbed; the loop itself never terminates on its own.
type Scheduler struct {
	svc    *Service
	cfg    config.SchedulerConfig
	clock  Clock
	logger *slog.Logger

	mu      sync.Mutex
	state   SchedulerState
	lastRun time.Time
}

// NewScheduler creates the background refresh loop.
func NewScheduler(svc *Service, cfg config.SchedulerConfig, clock Clock, logger *slog.Logger) *Scheduler {
	return &Scheduler{
		svc:    svc,
		cfg:    cfg,
		clock:  clock,
		logger: logger,
		state:  SchedulerIdle,
	}
}

// State returns the loop's current phase.
func (s *Scheduler) State() SchedulerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// LastRun returns when the last full round finished (zero before the first).
func (s *Scheduler) LastRun() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastRun
}

func (s *Scheduler) setState(state SchedulerState) {
	s.mu.Lock()
	s.state = state
	s.mu.Unlock()
}

// Run blocks until ctx is cancelled. Each round lists tracked queries,
// refreshes the stale ones and then sleeps the round interval; an empty
// registry or a round failure sleeps the shorter backoff instead.
func (s *Scheduler) Run(ctx context.Context) {
	s.logger.Info("scheduler starting",
		slog.Int("stale_after_hours", s.cfg.StaleAfterHours),
		slog.Int("round_interval_seconds", s.cfg.RoundIntervalSecs))

	for {
		wait := s.runRound(ctx)

		s.mu.Lock()
		s.lastRun = s.clock.Now()
		s.mu.Unlock()

		if !s.sleep(ctx, wait) {
			s.setState(SchedulerIdle)
			s.logger.Info("scheduler stopped")
			return
		}
	}
}

// runRound performs one pass and returns how long to sleep before the next.
func (s *Scheduler) runRound(ctx context.Context) (wait time.Duration) {
	backoff := time.Duration(s.cfg.EmptyBackoffSecs) * time.Second

	defer func() {
		// One bad round must never kill the loop.
		if r := recover(); r != nil {
			s.logger.Error("scheduler round panicked", slog.Any("panic", r))
			s.setState(SchedulerBackoff)
			wait = backoff
		}
	}()

	s.setState(SchedulerRunning)

	tracked := s.svc.TrackedQueries(ctx)
	if len(tracked) == 0 {
		s.logger.Info("no tracked queries, backing off")
		s.setState(SchedulerBackoff)
		return backoff
	}

	s.logger.Info("processing tracked queries", slog.Int("count", len(tracked)))
	staleBefore := s.clock.Now().Add(-time.Duration(s.cfg.StaleAfterHours) * time.Hour)

	for _, tq := range tracked {
		if ctx.Err() != nil {
			return 0
		}
		if !s.needsRefresh(tq, staleBefore) {
			continue
		}

		if _, err := s.svc.RefreshQuery(ctx, tq.QueryTerm); err != nil {
			s.logger.Error("refresh failed",
				slog.String("query", tq.QueryTerm),
				slog.String("error", err.Error()))
		}

		// Throttle between queries to keep load on the stores down.
		if !s.sleep(ctx, time.Duration(s.cfg.QueryDelaySecs)*time.Second) {
			return 0
		}
	}

	s.logger.Info("round complete")
	s.setState(SchedulerIdle)
	return time.Duration(s.cfg.RoundIntervalSecs) * time.Second
}

// needsRefresh reports whether a tracked query is stale. A missing timestamp
// means it has never been refreshed.
func (s *Scheduler) needsRefresh(tq domain.TrackedQuery, staleBefore time.Time) bool {
	return tq.LastUpdated == nil || tq.LastUpdated.Before(staleBefore)
}

// sleep waits d on the injected clock; false means ctx was cancelled.
func (s *Scheduler) sleep(ctx context.Context, d time.Duration) bool {
	if d <= 0 {
		return ctx.Err() == nil
	}
	select {
	case <-ctx.Done():
		return false
	case <-s.clock.After(d):
		return true
	}
}
