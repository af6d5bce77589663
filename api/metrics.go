/*
metrics.go - Prometheus instrumentation

PURPOSE:
  Counts the operations that matter for a running deployment: events
  written, redemptions, resets, evaluations served, and milestones the
  sweep observed being crossed. Exposed at /metrics.

DESIGN:
  Metrics hang off a per-server registry rather than the global default
  registry so tests can spin up isolated servers without duplicate
  registration panics.
*/
package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the server's Prometheus collectors.
type Metrics struct {
	registry *prometheus.Registry

	EventsAppended     prometheus.Counter
	Redemptions        prometheus.Counter
	SoftResets         prometheus.Counter
	EvaluationsServed  prometheus.Counter
	MilestonesCrossed  prometheus.Counter
	SnapshotSweepRuns  prometheus.Counter
}

// NewMetrics creates an isolated metrics set.
func NewMetrics() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		EventsAppended: factory.NewCounter(prometheus.CounterOpts{
			Name: "goal_engine_events_appended_total",
			Help: "Point events written to the ledger.",
		}),
		Redemptions: factory.NewCounter(prometheus.CounterOpts{
			Name: "goal_engine_redemptions_total",
			Help: "Goals redeemed.",
		}),
		SoftResets: factory.NewCounter(prometheus.CounterOpts{
			Name: "goal_engine_soft_resets_total",
			Help: "Goals soft-reset.",
		}),
		EvaluationsServed: factory.NewCounter(prometheus.CounterOpts{
			Name: "goal_engine_evaluations_served_total",
			Help: "Goal evaluations served over the API.",
		}),
		MilestonesCrossed: factory.NewCounter(prometheus.CounterOpts{
			Name: "goal_engine_milestones_crossed_total",
			Help: "Milestone crossings observed by the progress sweep.",
		}),
		SnapshotSweepRuns: factory.NewCounter(prometheus.CounterOpts{
			Name: "goal_engine_snapshot_sweep_runs_total",
			Help: "Completed progress snapshot sweeps.",
		}),
	}
}

// HTTPHandler serves the /metrics endpoint for this registry.
func (m *Metrics) HTTPHandler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
