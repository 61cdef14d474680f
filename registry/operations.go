package registry

import (
	"fmt"

	"github.com/nomis52/keep/activity"
	"github.com/nomis52/keep/scheduler"
)

// SetMode creates the record for key if absent (using spec's payload
// factory), else transitions the existing record to mode. Bookkeeping and
// effect callbacks run synchronously; the record's recomputation is queued
// on the scheduler at a priority derived from the new mode. A transition
// may evict a different, hidden record if the budget is now exceeded.
//
// Setting the same mode twice is a no-op beyond refreshing the logical
// access time on a visible record. Owner-callback failures surface through
// the error handler, never through the returned error.
func (r *Registry) SetMode(key string, mode activity.Mode, spec *Spec) (activity.Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return activity.Handle{}, ErrClosed
	}

	rec, exists := r.records[key]
	if !exists {
		rec = r.createLocked(key, mode, spec)
	} else {
		if spec != nil && spec.Effects != nil {
			rec.SetEffects(spec.Effects)
		}
		r.transitionLocked(rec, mode)
	}

	r.scheduleLocked(rec)
	r.enforceBudgetLocked()
	r.updateGaugesLocked()
	return rec.Snapshot(), nil
}

// Get returns a read-only handle for key. Lookups do not refresh the LRU
// ordering; only visible transitions and Touch do.
func (r *Registry) Get(key string) (activity.Handle, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[key]
	if !ok {
		return activity.Handle{}, fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	return rec.Snapshot(), nil
}

// Touch refreshes a record's logical access time, moving a hidden record
// to the most-recently-used end of the retention ledger.
func (r *Registry) Touch(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	r.clock++
	rec.LastAccessedAt = r.clock
	if rec.Mode == activity.ModeHidden {
		r.policy.Touch(key, r.clock)
	}
	return nil
}

// Remove explicitly destroys a record, running the same teardown path as
// eviction: pending work is cancelled, every outstanding cleanup runs in
// reverse registration order, and the payload reference is dropped.
func (r *Registry) Remove(key string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	r.destroyLocked(rec, "removed")
	r.updateGaugesLocked()
	return nil
}

// SetCost updates a record's budget weight and re-checks the budget.
func (r *Registry) SetCost(key string, cost float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[key]
	if !ok {
		return fmt.Errorf("%w: %s", ErrNotFound, key)
	}
	if cost <= 0 {
		cost = activity.DefaultCost
	}
	rec.Cost = cost
	if rec.Mode == activity.ModeHidden {
		// In place: a cost change is not an access and must not refresh
		// the record's position in the retention ledger.
		r.policy.UpdateCost(key, cost)
	}
	r.enforceBudgetLocked()
	r.updateGaugesLocked()
	return nil
}

// createLocked builds a fresh record in the requested mode. Records may
// start hidden (a prefetch) or visible; a visible start runs effect setups.
func (r *Registry) createLocked(key string, mode activity.Mode, spec *Spec) *activity.Record {
	r.clock++
	r.seq++

	rec := &activity.Record{
		Key:            key,
		Mode:           activity.ModeHidden,
		Cost:           activity.DefaultCost,
		LastAccessedAt: r.clock,
		CreatedSeq:     r.seq,
	}
	if spec != nil {
		if spec.PayloadFactory != nil {
			rec.Payload = spec.PayloadFactory()
		}
		if spec.Cost > 0 {
			rec.Cost = spec.Cost
		}
		rec.SetEffects(spec.Effects)
	}
	r.records[key] = rec

	if mode == activity.ModeVisible {
		r.ctrl.Transition(rec, activity.ModeVisible)
	} else {
		r.policy.Insert(key, rec.Cost, rec.LastAccessedAt, rec.CreatedSeq)
	}
	r.loggerFor(key).Info("record created", "key", key, "mode", rec.Mode.String(), "cost", rec.Cost)
	return rec
}

// transitionLocked applies a mode change to an existing record, keeping
// the retention ledger in step.
func (r *Registry) transitionLocked(rec *activity.Record, mode activity.Mode) {
	if rec.Mode == mode {
		// Redundant visible calls still refresh the access time.
		if mode == activity.ModeVisible {
			r.clock++
			rec.LastAccessedAt = r.clock
		}
		return
	}

	switch mode {
	case activity.ModeVisible:
		r.clock++
		rec.LastAccessedAt = r.clock
		r.policy.Remove(rec.Key)
		delete(r.deferredOnce, rec.Key)
		r.ctrl.Transition(rec, activity.ModeVisible)
	case activity.ModeHidden:
		r.ctrl.Transition(rec, activity.ModeHidden)
		r.clock++
		rec.LastAccessedAt = r.clock
		r.policy.Insert(rec.Key, rec.Cost, rec.LastAccessedAt, rec.CreatedSeq)
	}
	r.loggerFor(rec.Key).Debug("record transitioned", "key", rec.Key, "mode", mode.String())
}

// scheduleLocked queues the record's recomputation. A pending token is
// reused: promoted to immediate when the record is visible, left in place
// otherwise, so no duplicate work is ever enqueued for a key.
func (r *Registry) scheduleLocked(rec *activity.Record) {
	if tok, ok := r.pending[rec.Key]; ok && tok.State() == scheduler.TokenPending {
		if rec.Mode == activity.ModeVisible {
			r.sched.Promote(tok)
		}
		return
	}

	class := scheduler.ClassImmediate
	if rec.Mode == activity.ModeHidden {
		if r.deferredOnce[rec.Key] {
			class = scheduler.ClassIdle
		} else {
			class = scheduler.ClassBackground
		}
	}

	key := rec.Key
	r.pending[key] = r.sched.Schedule(key, class, func(tok *scheduler.Token) {
		r.runRecompute(key, tok)
	})
}

// runRecompute executes one recomputation on the scheduler goroutine.
func (r *Registry) runRecompute(key string, tok *scheduler.Token) {
	r.mu.Lock()
	rec, ok := r.records[key]
	if !ok || r.pending[key] != tok {
		r.mu.Unlock()
		return
	}
	payload := rec.Payload
	r.mu.Unlock()

	if r.recompute != nil {
		r.safeRecompute(key, payload)
	}

	r.mu.Lock()
	if r.pending[key] == tok {
		delete(r.pending, key)
		if tok.Deferred() {
			r.deferredOnce[key] = true
		}
	}
	if r.metrics != nil {
		r.metrics.ObserveRecompute(tok.Class().String())
	}
	r.updateGaugesLocked()
	r.mu.Unlock()
}

// safeRecompute invokes the recompute callback, reporting a panic instead
// of crashing the worker.
func (r *Registry) safeRecompute(key string, payload any) {
	defer func() {
		if p := recover(); p != nil {
			err := fmt.Errorf("recompute failed: %v", p)
			r.loggerFor(key).Warn("recompute failed", "key", key, "error", err)
			r.handleCallbackError(key, err)
		}
	}()
	r.recompute(key, payload)
}

// destroyLocked is the single teardown path shared by Remove, eviction and
// Close. Pending work is aborted (in-flight work is not interrupted), all
// outstanding cleanups run in reverse registration order, and the payload
// reference is released.
func (r *Registry) destroyLocked(rec *activity.Record, reason string) {
	if tok, ok := r.pending[rec.Key]; ok {
		r.sched.Cancel(tok)
		delete(r.pending, rec.Key)
	}
	r.policy.Remove(rec.Key)
	delete(r.records, rec.Key)
	delete(r.deferredOnce, rec.Key)

	r.ctrl.Teardown(rec)
	rec.Payload = nil

	if r.status != nil {
		r.status.Drop(rec.Key)
	}
	r.loggerFor(rec.Key).Info("record destroyed", "key", rec.Key, "reason", reason)
}
