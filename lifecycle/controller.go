package lifecycle

import (
	"errors"
	"fmt"
	"log/slog"

	"github.com/nomis52/keep/activity"
)

// ErrSetupFailed wraps a recovered panic from an owner-supplied effect setup.
var ErrSetupFailed = errors.New("effect setup failed")

// ErrorHandler receives setup and cleanup failures for a record key.
// Failures never propagate through the transition itself.
type ErrorHandler func(key string, err error)

// Controller drives effect setup and teardown across mode transitions.
type Controller struct {
	logger  *slog.Logger
	onError ErrorHandler
}

// Option configures a Controller.
type Option func(*Controller)

// WithLogger sets a custom logger for the controller.
func WithLogger(logger *slog.Logger) Option {
	return func(c *Controller) {
		c.logger = logger.With("component", "lifecycle")
	}
}

// WithErrorHandler sets the hook that receives effect callback failures.
func WithErrorHandler(h ErrorHandler) Option {
	return func(c *Controller) {
		c.onError = h
	}
}

// NewController creates a Controller with optional configuration.
func NewController(opts ...Option) *Controller {
	c := &Controller{
		logger: slog.Default().With("component", "lifecycle"),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Transition applies the effect contract for a mode change. The record's
// mode flips unconditionally; effect failures are reported, never returned.
// Redundant transitions (same mode) run no setups or cleanups.
func (c *Controller) Transition(rec *activity.Record, mode activity.Mode) {
	if rec.Mode == mode {
		return
	}

	prev := rec.Mode
	rec.Mode = mode

	switch {
	case prev == activity.ModeHidden && mode == activity.ModeVisible:
		c.setup(rec)
	case prev == activity.ModeVisible && mode == activity.ModeHidden:
		c.teardown(rec, false)
	}
}

// Teardown runs every outstanding cleanup, including mode-independent
// ones. Used on the removal and eviction paths.
func (c *Controller) Teardown(rec *activity.Record) {
	c.teardown(rec, true)
}

// setup runs all registered effect setups and tracks returned cleanups.
// A setup that panics contributes no cleanup; the remaining setups still run.
func (c *Controller) setup(rec *activity.Record) {
	for _, effect := range rec.Effects() {
		if effect.Setup == nil {
			continue
		}
		cleanup, err := c.runSetup(effect)
		if err != nil {
			c.logger.Warn("effect setup failed", "key", rec.Key, "error", err)
			if c.onError != nil {
				c.onError(rec.Key, err)
			}
			continue
		}
		if cleanup != nil {
			rec.AddCleanup(cleanup, effect.ModeIndependent)
		}
	}
}

// teardown runs outstanding cleanups in reverse registration order.
func (c *Controller) teardown(rec *activity.Record, all bool) {
	for _, cleanup := range rec.TakeCleanups(all) {
		c.runCleanup(rec.Key, cleanup)
	}
}

// runSetup invokes a setup callback, converting a panic to an error.
func (c *Controller) runSetup(effect activity.Effect) (cleanup activity.Cleanup, err error) {
	defer func() {
		if r := recover(); r != nil {
			cleanup = nil
			err = fmt.Errorf("%w: %v", ErrSetupFailed, r)
		}
	}()
	return effect.Setup(), nil
}

// runCleanup invokes a cleanup callback, recovering and reporting a panic
// so the remaining cleanups still run.
func (c *Controller) runCleanup(key string, cleanup activity.Cleanup) {
	defer func() {
		if r := recover(); r != nil {
			err := fmt.Errorf("effect cleanup failed: %v", r)
			c.logger.Warn("effect cleanup failed", "key", key, "error", err)
			if c.onError != nil {
				c.onError(key, err)
			}
		}
	}()
	cleanup()
}
