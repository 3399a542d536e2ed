// Path: internal/service/scheduler_test.go
package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"price-hunter/internal/config"
	"price-hunter/internal/domain"
	"price-hunter/internal/events"
)

// fakeClock pins Now and hands out a controllable After channel.
type fakeClock struct {
	now   time.Time
	after chan time.Time
}

func newFakeClock() *fakeClock {
	return &fakeClock{
		now:   time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		after: make(chan time.Time),
	}
}

func (c *fakeClock) Now() time.Time                         { return c.now }
func (c *fakeClock) After(d time.Duration) <-chan time.Time { return c.after }

func testSchedulerConfig() config.SchedulerConfig {
	return config.SchedulerConfig{
		StaleAfterHours:   24,
		EmptyBackoffSecs:  60,
		QueryDelaySecs:    0,
		RoundIntervalSecs: 3600,
	}
}

func TestSchedulerEmptyRegistryBacksOff(t *testing.T) {
	svc := newTestService(&stubDriver{}, newFakeCache(), &fakeTracked{}, events.NewBroker())
	sched := NewScheduler(svc, testSchedulerConfig(), newFakeClock(), testLogger())

	wait := sched.runRound(context.Background())

	assert.Equal(t, 60*time.Second, wait)
	assert.Equal(t, SchedulerBackoff, sched.State())
}

func TestSchedulerRefreshesOnlyStaleQueries(t *testing.T) {
	clock := newFakeClock()
	fresh := clock.now.Add(-time.Hour)
	stale := clock.now.Add(-25 * time.Hour)
	tracked := &fakeTracked{list: []domain.TrackedQuery{
		{QueryTerm: "fresh one", LastUpdated: &fresh},
		{QueryTerm: "stale one", LastUpdated: &stale},
		{QueryTerm: "never refreshed", LastUpdated: nil},
	}}
	driver := winningDriver()
	svc := newTestService(driver, newFakeCache(), tracked, events.NewBroker())
	sched := NewScheduler(svc, testSchedulerConfig(), clock, testLogger())

	wait := sched.runRound(context.Background())

	assert.Equal(t, time.Hour, wait, "a full round sleeps the round interval")
	assert.Equal(t, SchedulerIdle, sched.State())
	assert.Equal(t, 2, driver.sessionCount(), "one session per stale query, fresh ones skipped")
}

func TestSchedulerThrottlesBetweenQueries(t *testing.T) {
	clock := newFakeClock()
	tracked := &fakeTracked{list: []domain.TrackedQuery{
		{QueryTerm: "first"},
		{QueryTerm: "second"},
	}}
	driver := winningDriver()
	svc := newTestService(driver, newFakeCache(), tracked, events.NewBroker())
	cfg := testSchedulerConfig()
	cfg.QueryDelaySecs = 10
	sched := NewScheduler(svc, cfg, clock, testLogger())

	done := make(chan time.Duration, 1)
	go func() { done <- sched.runRound(context.Background()) }()

	// Each query is followed by one throttle sleep on the fake clock.
	clock.after <- clock.now
	clock.after <- clock.now

	select {
	case wait := <-done:
		assert.Equal(t, time.Hour, wait)
	case <-time.After(5 * time.Second):
		t.Fatal("round did not complete")
	}
	assert.Equal(t, 2, driver.sessionCount())
}

func TestSchedulerStopsOnCancel(t *testing.T) {
	svc := newTestService(&stubDriver{}, newFakeCache(), &fakeTracked{}, events.NewBroker())
	sched := NewScheduler(svc, testSchedulerConfig(), newFakeClock(), testLogger())

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		sched.Run(ctx)
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("scheduler did not stop on cancel")
	}
	assert.Equal(t, SchedulerIdle, sched.State())
	require.False(t, sched.LastRun().IsZero(), "the aborted round still stamps the last run")
}
