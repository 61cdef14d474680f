package retention

import (
	"container/list"
	"log/slog"
)

// Unbounded disables a budget axis.
const Unbounded = 0

// entry is one hidden record in the LRU ledger.
type entry struct {
	key            string
	cost           float64
	lastAccessedAt uint64
	createdSeq     uint64
}

// Stats describes the ledger's current occupancy and budget.
type Stats struct {
	HiddenCount int     `json:"hidden_count"`
	TotalCost   float64 `json:"total_cost"`
	MaxCount    int     `json:"max_count"`
	MaxCost     float64 `json:"max_cost"`
}

// Policy is an LRU ledger over hidden records with a count/cost budget.
// It is not internally synchronized; the owning registry serializes access.
type Policy struct {
	logger *slog.Logger

	maxCount int
	maxCost  float64

	ll        *list.List // front = most recently used
	index     map[string]*list.Element
	totalCost float64
}

// Option configures a Policy.
type Option func(*Policy)

// WithLogger sets a custom logger for the policy.
func WithLogger(logger *slog.Logger) Option {
	return func(p *Policy) {
		p.logger = logger.With("component", "retention")
	}
}

// NewPolicy creates a Policy with both budget axes unbounded.
func NewPolicy(opts ...Option) *Policy {
	p := &Policy{
		logger: slog.Default().With("component", "retention"),
		ll:     list.New(),
		index:  make(map[string]*list.Element),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// SetBudget replaces the budget. Unbounded (zero) disables an axis.
func (p *Policy) SetBudget(maxCount int, maxCost float64) {
	p.maxCount = maxCount
	p.maxCost = maxCost
	p.logger.Info("budget configured", "max_count", maxCount, "max_cost", maxCost)
}

// Budget returns the current budget limits.
func (p *Policy) Budget() (maxCount int, maxCost float64) {
	return p.maxCount, p.maxCost
}

// Insert adds a hidden record at the most-recently-used end. Inserting a
// key already present refreshes its position and bookkeeping.
func (p *Policy) Insert(key string, cost float64, lastAccessedAt, createdSeq uint64) {
	if elem, ok := p.index[key]; ok {
		p.totalCost -= elem.Value.(*entry).cost
		p.ll.Remove(elem)
	}
	p.index[key] = p.ll.PushFront(&entry{
		key:            key,
		cost:           cost,
		lastAccessedAt: lastAccessedAt,
		createdSeq:     createdSeq,
	})
	p.totalCost += cost
}

// UpdateCost adjusts a key's cost in place. The ledger position is
// untouched: a cost change is not an access, so it must not make a stale
// record look fresh. Unknown keys are ignored.
func (p *Policy) UpdateCost(key string, cost float64) {
	elem, ok := p.index[key]
	if !ok {
		return
	}
	e := elem.Value.(*entry)
	p.totalCost += cost - e.cost
	e.cost = cost
}

// Remove drops a key from the ledger. Called when a record becomes visible
// or is destroyed. Unknown keys are ignored.
func (p *Policy) Remove(key string) {
	elem, ok := p.index[key]
	if !ok {
		return
	}
	p.totalCost -= elem.Value.(*entry).cost
	p.ll.Remove(elem)
	delete(p.index, key)
}

// Touch moves a key to the most-recently-used end and refreshes its
// logical access time.
func (p *Policy) Touch(key string, lastAccessedAt uint64) {
	elem, ok := p.index[key]
	if !ok {
		return
	}
	elem.Value.(*entry).lastAccessedAt = lastAccessedAt
	p.ll.MoveToFront(elem)
}

// Contains reports whether a key is tracked as hidden.
func (p *Policy) Contains(key string) bool {
	_, ok := p.index[key]
	return ok
}

// Len returns the number of hidden records tracked.
func (p *Policy) Len() int {
	return p.ll.Len()
}

// TotalCost returns the summed cost of tracked hidden records.
func (p *Policy) TotalCost() float64 {
	return p.totalCost
}

// OverBudget reports whether either budget axis is exceeded.
func (p *Policy) OverBudget() bool {
	if p.maxCount != Unbounded && p.ll.Len() > p.maxCount {
		return true
	}
	if p.maxCost != Unbounded && p.totalCost > p.maxCost {
		return true
	}
	return false
}

// NextEviction returns the least-recently-used hidden record, if any.
// Records hidden in the same logical instant sit in the ledger in creation
// order, so ties evict oldest-created first.
func (p *Policy) NextEviction() (key string, ok bool) {
	back := p.ll.Back()
	if back == nil {
		return "", false
	}
	return back.Value.(*entry).key, true
}

// Keys returns tracked keys from most to least recently used.
func (p *Policy) Keys() []string {
	keys := make([]string, 0, p.ll.Len())
	for elem := p.ll.Front(); elem != nil; elem = elem.Next() {
		keys = append(keys, elem.Value.(*entry).key)
	}
	return keys
}

// Stats returns the current occupancy and budget.
func (p *Policy) Stats() Stats {
	return Stats{
		HiddenCount: p.ll.Len(),
		TotalCost:   p.totalCost,
		MaxCount:    p.maxCount,
		MaxCost:     p.maxCost,
	}
}
