package registry

import (
	"iter"
	"sort"

	"github.com/nomis52/keep/activity"
)

// All returns a lazy, restartable sequence over a snapshot of the current
// records, ordered by key for stable output. The snapshot is taken when
// All is called: mutation or eviction during iteration does not change
// what the sequence yields, and the host must not retain the handles
// across the registry's next mutation.
func (r *Registry) All() iter.Seq[activity.Handle] {
	return r.Iterate(nil)
}

// Iterate is All restricted to handles matching pred. A nil pred matches
// everything.
func (r *Registry) Iterate(pred func(activity.Handle) bool) iter.Seq[activity.Handle] {
	r.mu.Lock()
	snapshot := make([]activity.Handle, 0, len(r.records))
	for _, rec := range r.records {
		snapshot = append(snapshot, rec.Snapshot())
	}
	r.mu.Unlock()

	sort.Slice(snapshot, func(i, j int) bool {
		return snapshot[i].Key < snapshot[j].Key
	})

	return func(yield func(activity.Handle) bool) {
		for _, h := range snapshot {
			if pred != nil && !pred(h) {
				continue
			}
			if !yield(h) {
				return
			}
		}
	}
}

// Handles returns the snapshot as a slice, for callers that want simple
// indexing (the ops server's activity listing).
func (r *Registry) Handles() []activity.Handle {
	handles := make([]activity.Handle, 0)
	for h := range r.All() {
		handles = append(handles, h)
	}
	return handles
}
