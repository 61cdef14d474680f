package activity

// Cleanup releases whatever its effect's setup acquired. Cleanups run in
// reverse registration order.
type Cleanup func()

// Effect is an owner-supplied side effect attached to a record. Setup runs
// when the record becomes visible and may return a Cleanup. Setup must be
// idempotent with respect to duplicate subscriptions: it can run once per
// visible period across the record's life.
type Effect struct {
	// Setup starts the effect. A nil return means there is nothing to
	// clean up.
	Setup func() Cleanup

	// ModeIndependent exempts the effect from teardown on visible->hidden
	// transitions. Its cleanup runs only on removal or eviction.
	ModeIndependent bool
}

// cleanupEntry tracks one outstanding cleanup and whether it belongs to a
// mode-independent effect.
type cleanupEntry struct {
	fn              Cleanup
	modeIndependent bool
}

// Record is one retained activity instance. All fields are bookkeeping
// owned by the registry; the Payload is opaque and never inspected.
type Record struct {
	// Key is the stable caller-assigned identity, unique in the registry.
	Key string

	// Mode is the current lifecycle mode.
	Mode Mode

	// Payload is the owner-supplied state root. Ownership is shared
	// between the registry and the caller for the record's lifetime.
	Payload any

	// Cost is the weight used for budget accounting. Defaults to 1.
	Cost float64

	// LastAccessedAt is a logical clock value, refreshed on creation and
	// on every transition to visible.
	LastAccessedAt uint64

	// CreatedSeq orders records by creation, breaking LastAccessedAt ties
	// during eviction.
	CreatedSeq uint64

	effects  []Effect
	cleanups []cleanupEntry
}

// DefaultCost is the budget weight assigned when the owner supplies none.
const DefaultCost = 1

// SetEffects replaces the record's registered effects.
func (r *Record) SetEffects(effects []Effect) {
	r.effects = effects
}

// Effects returns the registered effects in registration order.
func (r *Record) Effects() []Effect {
	return r.effects
}

// AddCleanup appends an outstanding cleanup to the record.
func (r *Record) AddCleanup(fn Cleanup, modeIndependent bool) {
	r.cleanups = append(r.cleanups, cleanupEntry{fn: fn, modeIndependent: modeIndependent})
}

// TakeCleanups removes and returns outstanding cleanups in reverse
// registration order. When all is false, mode-independent cleanups are
// left registered; they come out only on the final teardown.
func (r *Record) TakeCleanups(all bool) []Cleanup {
	var taken []Cleanup
	var kept []cleanupEntry
	for i := len(r.cleanups) - 1; i >= 0; i-- {
		entry := r.cleanups[i]
		if !all && entry.modeIndependent {
			kept = append([]cleanupEntry{entry}, kept...)
			continue
		}
		taken = append(taken, entry.fn)
	}
	r.cleanups = kept
	return taken
}

// CleanupCount returns the number of outstanding cleanups.
func (r *Record) CleanupCount() int {
	return len(r.cleanups)
}

// Handle is the read-only view of a record handed to callers and to the
// host renderer during iteration.
type Handle struct {
	Key     string  `json:"key"`
	Mode    Mode    `json:"mode"`
	Payload any     `json:"-"`
	Cost    float64 `json:"cost"`
}

// Snapshot returns a Handle describing the record's current state.
func (r *Record) Snapshot() Handle {
	return Handle{
		Key:     r.Key,
		Mode:    r.Mode,
		Payload: r.Payload,
		Cost:    r.Cost,
	}
}
