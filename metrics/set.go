package metrics

import (
	"fmt"

	"github.com/prometheus/client_golang/prometheus"
)

// Set bundles the instruments the retention manager maintains. It works
// against either registry mode.
type Set struct {
	records        GaugeVec
	hiddenCost     Gauge
	queueDepth     GaugeVec
	evictions      Counter
	setupFailures  Counter
	recomputations CounterVec
}

// NewSet creates and registers the retention manager's metric set.
func NewSet(reg Registry) (*Set, error) {
	records, err := reg.NewGaugeVec(prometheus.GaugeOpts{
		Name: "activity_records",
		Help: "Number of retained activity records by mode.",
	}, []string{"mode"})
	if err != nil {
		return nil, fmt.Errorf("creating records gauge: %w", err)
	}

	hiddenCost, err := reg.NewGauge(prometheus.GaugeOpts{
		Name: "activity_hidden_cost",
		Help: "Total estimated cost of retained hidden records.",
	})
	if err != nil {
		return nil, fmt.Errorf("creating hidden cost gauge: %w", err)
	}

	queueDepth, err := reg.NewGaugeVec(prometheus.GaugeOpts{
		Name: "activity_queue_depth",
		Help: "Pending recomputations by priority class.",
	}, []string{"class"})
	if err != nil {
		return nil, fmt.Errorf("creating queue depth gauge: %w", err)
	}

	evictions, err := reg.NewCounter(prometheus.CounterOpts{
		Name: "activity_evictions_total",
		Help: "Hidden records evicted to satisfy the retention budget.",
	})
	if err != nil {
		return nil, fmt.Errorf("creating evictions counter: %w", err)
	}

	setupFailures, err := reg.NewCounter(prometheus.CounterOpts{
		Name: "activity_setup_failures_total",
		Help: "Owner effect callbacks that failed during a transition.",
	})
	if err != nil {
		return nil, fmt.Errorf("creating setup failures counter: %w", err)
	}

	recomputations, err := reg.NewCounterVec(prometheus.CounterOpts{
		Name: "activity_recomputations_total",
		Help: "Completed recomputations by priority class.",
	}, []string{"class"})
	if err != nil {
		return nil, fmt.Errorf("creating recomputations counter: %w", err)
	}

	return &Set{
		records:        records,
		hiddenCost:     hiddenCost,
		queueDepth:     queueDepth,
		evictions:      evictions,
		setupFailures:  setupFailures,
		recomputations: recomputations,
	}, nil
}

// SetRecords updates the per-mode record gauges.
func (s *Set) SetRecords(visible, hidden int) {
	s.records.With(prometheus.Labels{"mode": "visible"}).Set(float64(visible))
	s.records.With(prometheus.Labels{"mode": "hidden"}).Set(float64(hidden))
}

// SetHiddenCost updates the retained hidden cost gauge.
func (s *Set) SetHiddenCost(cost float64) {
	s.hiddenCost.Set(cost)
}

// SetQueueDepth updates the per-class pending work gauges.
func (s *Set) SetQueueDepth(immediate, background, idle int) {
	s.queueDepth.With(prometheus.Labels{"class": "immediate"}).Set(float64(immediate))
	s.queueDepth.With(prometheus.Labels{"class": "background"}).Set(float64(background))
	s.queueDepth.With(prometheus.Labels{"class": "idle"}).Set(float64(idle))
}

// IncEvictions counts one budget eviction.
func (s *Set) IncEvictions() {
	s.evictions.Inc()
}

// IncSetupFailures counts one failed owner callback.
func (s *Set) IncSetupFailures() {
	s.setupFailures.Inc()
}

// ObserveRecompute counts one completed recomputation for a class.
func (s *Set) ObserveRecompute(class string) {
	s.recomputations.With(prometheus.Labels{"class": class}).Inc()
}
