package registry

import (
	"fmt"

	"github.com/nomis52/keep/activity"
)

// budgetConfig accumulates budget options. An omitted axis stays
// unbounded.
type budgetConfig struct {
	maxCount int
	maxCost  float64
}

// BudgetOption configures one axis of the retention budget.
type BudgetOption func(*budgetConfig) error

// MaxCount bounds the number of simultaneously retained hidden records.
// Values below one are rejected.
func MaxCount(n int) BudgetOption {
	return func(b *budgetConfig) error {
		if n <= 0 {
			return fmt.Errorf("%w: max count must be positive, got %d", ErrInvalidBudget, n)
		}
		b.maxCount = n
		return nil
	}
}

// MaxCost bounds the total estimated cost of retained hidden records.
// Values at or below zero are rejected.
func MaxCost(c float64) BudgetOption {
	return func(b *budgetConfig) error {
		if c <= 0 {
			return fmt.Errorf("%w: max cost must be positive, got %v", ErrInvalidBudget, c)
		}
		b.maxCost = c
		return nil
	}
}

// ConfigureBudget replaces the retention budget. Axes not named by an
// option become unbounded; with no options at all the policy performs no
// eviction. A validation failure leaves the previous budget in effect.
// On success an eviction pass runs immediately if the registry is now over
// budget.
func (r *Registry) ConfigureBudget(opts ...BudgetOption) error {
	var cfg budgetConfig
	for _, opt := range opts {
		if err := opt(&cfg); err != nil {
			return err
		}
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return ErrClosed
	}
	r.policy.SetBudget(cfg.maxCount, cfg.maxCost)
	r.enforceBudgetLocked()
	r.updateGaugesLocked()
	return nil
}

// EnforceBudget runs an eviction pass and returns the number of records
// evicted. Mutating operations enforce the budget themselves; this is for
// the periodic sweeper and for callers that changed costs out-of-band.
func (r *Registry) EnforceBudget() int {
	r.mu.Lock()
	defer r.mu.Unlock()

	evicted := r.enforceBudgetLocked()
	r.updateGaugesLocked()
	return evicted
}

// enforceBudgetLocked evicts least-recently-used hidden records until the
// budget is satisfied or only visible records remain. Visible records are
// never candidates: they are not in the retention ledger at all.
func (r *Registry) enforceBudgetLocked() int {
	evicted := 0
	for r.policy.OverBudget() {
		key, ok := r.policy.NextEviction()
		if !ok {
			break
		}
		rec := r.records[key]
		if rec == nil || rec.Mode == activity.ModeVisible {
			// The ledger only holds hidden records; reaching here means
			// the ledger and record map disagree.
			r.logger.Error("retention ledger out of sync", "key", key)
			r.policy.Remove(key)
			continue
		}
		r.destroyLocked(rec, "evicted")
		if r.metrics != nil {
			r.metrics.IncEvictions()
		}
		evicted++
	}
	if evicted > 0 {
		r.logger.Info("eviction pass complete", "evicted", evicted,
			"hidden_count", r.policy.Len(), "hidden_cost", r.policy.TotalCost())
	}
	return evicted
}
