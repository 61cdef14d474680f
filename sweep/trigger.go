// Package sweep provides cron-based scheduling for periodic registry
// maintenance.
//
// Mutating operations enforce the retention budget inline, but a registry
// whose budget was tightened at runtime, or whose record costs were
// updated out-of-band, only converges on its next mutation. The Trigger
// type wraps a Runnable and executes it according to a cron schedule so
// an otherwise quiet registry still converges.
//
// Example usage:
//
//	trigger, err := sweep.NewTrigger("*/5 * * * *", sweeper, logger)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	trigger.Start(ctx)  // Returns immediately, runs in background
//	<-ctx.Done()        // Wait for shutdown signal
package sweep

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/robfig/cron/v3"
)

// ErrInvalidSchedule is returned when the cron specification cannot be parsed.
var ErrInvalidSchedule = errors.New("invalid sweep schedule")

// Runnable is implemented by anything that can be triggered on a schedule.
type Runnable interface {
	Run() error
}

// Trigger executes a Runnable according to a cron schedule.
type Trigger struct {
	spec     string
	schedule cron.Schedule
	runnable Runnable
	logger   *slog.Logger
}

// NewTrigger creates a new Trigger with the given cron specification.
// The spec follows standard cron format (5 fields: minute, hour, day, month, weekday).
// Returns ErrInvalidSchedule if the specification cannot be parsed.
func NewTrigger(spec string, runnable Runnable, logger *slog.Logger) (*Trigger, error) {
	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	schedule, err := parser.Parse(spec)
	if err != nil {
		return nil, errors.Join(ErrInvalidSchedule, err)
	}

	return &Trigger{
		spec:     spec,
		schedule: schedule,
		runnable: runnable,
		logger:   logger,
	}, nil
}

// Start launches a goroutine that triggers runs according to the cron schedule.
// Returns immediately. The goroutine exits when ctx is cancelled.
func (t *Trigger) Start(ctx context.Context) {
	go t.loop(ctx)
}

// NextRun returns the next scheduled run time from now.
func (t *Trigger) NextRun() time.Time {
	return t.schedule.Next(time.Now())
}

// loop is the main scheduling loop that runs in a goroutine.
func (t *Trigger) loop(ctx context.Context) {
	for {
		nextRun := t.schedule.Next(time.Now())
		waitDuration := time.Until(nextRun)

		t.logger.Debug("waiting for next sweep",
			"next_run", nextRun,
			"wait_duration", waitDuration,
		)

		select {
		case <-ctx.Done():
			t.logger.Info("sweep trigger shutting down")
			return
		case <-time.After(waitDuration):
			t.executeRun()
		}
	}
}

// executeRun executes the runnable and logs the result.
func (t *Trigger) executeRun() {
	t.logger.Debug("starting maintenance sweep")

	if err := t.runnable.Run(); err != nil {
		t.logger.Warn("sweep completed with error", "error", err)
	} else {
		t.logger.Debug("sweep completed")
	}
}
