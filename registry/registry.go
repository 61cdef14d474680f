package registry

import (
	"context"
	"errors"
	"log/slog"
	"sync"

	"github.com/nomis52/keep/activity"
	"github.com/nomis52/keep/lifecycle"
	"github.com/nomis52/keep/logging"
	"github.com/nomis52/keep/metrics"
	"github.com/nomis52/keep/retention"
	"github.com/nomis52/keep/scheduler"
)

// Sentinel errors returned by registry operations.
var (
	ErrNotFound      = errors.New("activity not found")
	ErrInvalidBudget = errors.New("invalid budget")
	ErrClosed        = errors.New("registry closed")
)

// RecomputeFunc refreshes a record's payload. It runs on the scheduler's
// worker goroutine, at a priority derived from the record's mode at the
// time the work was queued.
type RecomputeFunc func(key string, payload any)

// ErrorHandler receives effect setup/cleanup failures and recompute
// panics. Failures never propagate through SetMode's error return.
type ErrorHandler func(key string, err error)

// Spec supplies owner-provided pieces when a record is first created.
// On subsequent SetMode calls a non-nil Effects replaces the record's
// registered effects; the other fields are ignored for existing records.
type Spec struct {
	// PayloadFactory produces the record's initial payload.
	PayloadFactory func() any

	// Cost is the budget weight. Zero means activity.DefaultCost.
	Cost float64

	// Effects are the owner's effect callbacks, run per the mode
	// transition contract.
	Effects []activity.Effect
}

// Status is a point-in-time summary of the registry, exposed by the ops
// server.
type Status struct {
	Records   int             `json:"records"`
	Visible   int             `json:"visible"`
	Hidden    int             `json:"hidden"`
	Clock     uint64          `json:"clock"`
	Retention retention.Stats `json:"retention"`
	Scheduler scheduler.Stats `json:"scheduler"`
}

// Registry manages a set of named activity records. All methods are safe
// for concurrent use via an internal mutex.
type Registry struct {
	logger    *slog.Logger
	metrics   *metrics.Set
	status    *activity.StatusHandler
	ctrl      *lifecycle.Controller
	sched     *scheduler.Scheduler
	policy    *retention.Policy
	recompute RecomputeFunc
	onError   ErrorHandler
	yield     scheduler.YieldFunc
	hook      logging.LoggerHook
	cancel    context.CancelFunc

	mu           sync.Mutex
	records      map[string]*activity.Record
	pending      map[string]*scheduler.Token
	deferredOnce map[string]bool
	clock        uint64
	seq          uint64
	closed       bool
}

// Option configures a Registry.
type Option func(*Registry)

// WithLogger sets a custom logger for the registry and its components.
func WithLogger(logger *slog.Logger) Option {
	return func(r *Registry) {
		r.logger = logger.With("component", "registry")
	}
}

// WithRecompute sets the callback that refreshes a record's payload.
// Without it, scheduled recomputations are bookkeeping-only.
func WithRecompute(fn RecomputeFunc) Option {
	return func(r *Registry) {
		r.recompute = fn
	}
}

// WithErrorHandler sets the hook that receives owner-callback failures.
func WithErrorHandler(h ErrorHandler) Option {
	return func(r *Registry) {
		r.onError = h
	}
}

// WithMetrics instruments the registry with the given metric set.
func WithMetrics(set *metrics.Set) Option {
	return func(r *Registry) {
		r.metrics = set
	}
}

// WithStatusHandler collects per-record status lines for the ops server.
func WithStatusHandler(sh *activity.StatusHandler) Option {
	return func(r *Registry) {
		r.status = sh
	}
}

// WithYield sets the scheduler's host yield point, invoked before each
// background or idle recomputation slice.
func WithYield(yield scheduler.YieldFunc) Option {
	return func(r *Registry) {
		r.yield = yield
	}
}

// WithLoggerHook wraps per-record logging so the ops server can serve
// captured log entries for each key.
func WithLoggerHook(hook logging.LoggerHook) Option {
	return func(r *Registry) {
		r.hook = hook
	}
}

// New creates a Registry and starts its scheduler worker. Call Close to
// release it.
func New(opts ...Option) *Registry {
	r := &Registry{
		logger:       slog.Default().With("component", "registry"),
		records:      make(map[string]*activity.Record),
		pending:      make(map[string]*scheduler.Token),
		deferredOnce: make(map[string]bool),
	}
	for _, opt := range opts {
		opt(r)
	}

	r.ctrl = lifecycle.NewController(
		lifecycle.WithLogger(r.logger),
		lifecycle.WithErrorHandler(r.handleCallbackError),
	)
	r.policy = retention.NewPolicy(retention.WithLogger(r.logger))

	schedOpts := []scheduler.Option{scheduler.WithLogger(r.logger)}
	if r.yield != nil {
		schedOpts = append(schedOpts, scheduler.WithYield(r.yield))
	}
	r.sched = scheduler.New(schedOpts...)

	ctx, cancel := context.WithCancel(context.Background())
	r.cancel = cancel
	r.sched.Start(ctx)

	return r
}

// Close destroys every record (running all outstanding cleanups), cancels
// pending work and stops the scheduler. The registry rejects further
// operations with ErrClosed.
func (r *Registry) Close() {
	r.mu.Lock()
	if r.closed {
		r.mu.Unlock()
		return
	}
	r.closed = true
	for _, rec := range r.records {
		r.destroyLocked(rec, "shutdown")
	}
	r.mu.Unlock()

	r.cancel()
	r.logger.Info("registry closed")
}

// Drain blocks until no recomputation is pending or running. Useful in
// tests and before orderly shutdown.
func (r *Registry) Drain() {
	r.sched.Drain()
}

// Len returns the number of records currently retained.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.records)
}

// Status returns a point-in-time summary of the registry.
func (r *Registry) Status() Status {
	r.mu.Lock()
	defer r.mu.Unlock()

	visible := 0
	for _, rec := range r.records {
		if rec.Mode == activity.ModeVisible {
			visible++
		}
	}
	return Status{
		Records:   len(r.records),
		Visible:   visible,
		Hidden:    len(r.records) - visible,
		Clock:     r.clock,
		Retention: r.policy.Stats(),
		Scheduler: r.sched.Stats(),
	}
}

// loggerFor returns the record-scoped logger for key, routed through the
// configured hook so entries are captured per record.
func (r *Registry) loggerFor(key string) *slog.Logger {
	if r.hook == nil {
		return r.logger
	}
	return r.hook.LoggerForRecord(r.logger, key)
}

// StatusLine returns a status line bound to key. Effect and recompute
// callbacks use it to report free-text progress; updates are logged
// through the record's captured logger and surfaced by the ops server.
func (r *Registry) StatusLine(key string) *activity.StatusLine {
	return activity.NewStatusLine(key, r.loggerFor(key), r.status)
}

// handleCallbackError forwards owner-callback failures to the configured
// hook and counts them.
func (r *Registry) handleCallbackError(key string, err error) {
	if r.metrics != nil {
		r.metrics.IncSetupFailures()
	}
	if r.onError != nil {
		r.onError(key, err)
	}
}

// updateGaugesLocked refreshes the record and cost gauges.
func (r *Registry) updateGaugesLocked() {
	if r.metrics == nil {
		return
	}
	visible := 0
	for _, rec := range r.records {
		if rec.Mode == activity.ModeVisible {
			visible++
		}
	}
	r.metrics.SetRecords(visible, len(r.records)-visible)
	r.metrics.SetHiddenCost(r.policy.TotalCost())
	st := r.sched.Stats()
	r.metrics.SetQueueDepth(st.Immediate, st.Background, st.Idle)
}
