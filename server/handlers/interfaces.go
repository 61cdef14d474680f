// Package handlers provides HTTP handlers for the keep ops server.
//
// Each handler is in its own file and implements http.Handler.
// Handlers use interfaces to access server dependencies, avoiding
// circular imports.
package handlers

import (
	"time"

	"github.com/nomis52/keep/activity"
	"github.com/nomis52/keep/logging"
	"github.com/nomis52/keep/registry"
)

// StatusProvider provides the registry's point-in-time summary.
type StatusProvider interface {
	Status() registry.Status
	NextSweep() *time.Time
}

// SnapshotProvider provides a stable snapshot of current records.
type SnapshotProvider interface {
	Handles() []activity.Handle
	Get(key string) (activity.Handle, error)
}

// ModeSetter drives mode transitions remotely.
type ModeSetter interface {
	SetMode(key string, mode activity.Mode, spec *registry.Spec) (activity.Handle, error)
	Remove(key string) error
}

// LogsProvider provides captured per-record logs.
type LogsProvider interface {
	GetLogs(key string) []logging.LogEntry
}

// StatusLineProvider provides current per-record status lines.
type StatusLineProvider interface {
	All() map[string]string
}
