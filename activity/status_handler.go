package activity

import "sync"

// StatusHandler stores status messages by record key.
// This is the shared storage that all status lines write to.
// Similar to slog.Handler, it receives and stores status updates.
type StatusHandler struct {
	statuses map[string]string
	mu       sync.RWMutex
}

// NewStatusHandler creates a new status handler.
func NewStatusHandler() *StatusHandler {
	return &StatusHandler{
		statuses: make(map[string]string),
	}
}

// Set updates the status for a specific record key.
// This is called by StatusLine instances.
func (sh *StatusHandler) Set(key, status string) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	sh.statuses[key] = status
}

// Get returns the status for a specific record key.
func (sh *StatusHandler) Get(key string) string {
	sh.mu.RLock()
	defer sh.mu.RUnlock()
	return sh.statuses[key]
}

// Drop removes the stored status for a record key. Called when the record
// is removed or evicted so the ops server does not report stale entries.
func (sh *StatusHandler) Drop(key string) {
	sh.mu.Lock()
	defer sh.mu.Unlock()
	delete(sh.statuses, key)
}

// All returns a copy of all record statuses.
// Used by the ops server to display current status.
func (sh *StatusHandler) All() map[string]string {
	sh.mu.RLock()
	defer sh.mu.RUnlock()

	// Return a copy to avoid concurrent map access
	copy := make(map[string]string, len(sh.statuses))
	for k, v := range sh.statuses {
		copy[k] = v
	}
	return copy
}
