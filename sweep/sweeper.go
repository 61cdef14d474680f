package sweep

import (
	"log/slog"

	"github.com/nomis52/keep/registry"
)

// Target is the slice of the registry the sweeper needs.
type Target interface {
	EnforceBudget() int
	Status() registry.Status
}

// Sweeper runs one maintenance pass per trigger: it re-enforces the
// retention budget and logs the registry's occupancy.
type Sweeper struct {
	target Target
	logger *slog.Logger
}

// NewSweeper creates a Sweeper over the given registry.
func NewSweeper(target Target, logger *slog.Logger) *Sweeper {
	return &Sweeper{
		target: target,
		logger: logger.With("component", "sweep"),
	}
}

// Run performs one maintenance pass. Implements Runnable.
func (s *Sweeper) Run() error {
	evicted := s.target.EnforceBudget()
	st := s.target.Status()
	s.logger.Info("maintenance sweep",
		"evicted", evicted,
		"records", st.Records,
		"visible", st.Visible,
		"hidden", st.Hidden,
		"hidden_cost", st.Retention.TotalCost,
	)
	return nil
}
