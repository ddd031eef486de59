package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
)

// Registry is the service-wide prometheus registry, exposed on /metrics.
var Registry = prometheus.NewRegistry()

var (
	// FetchTotal counts telemetry fetch attempts by the update loop.
	FetchTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tripcast_fetch_total",
			Help: "Total number of trip telemetry fetch attempts.",
		},
	)

	// FetchFailuresTotal counts failed telemetry fetches, by reason.
	FetchFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripcast_fetch_failures_total",
			Help: "Total number of failed trip telemetry fetches.",
		},
		[]string{"reason"}, // reason: timeout/unavailable/invalid
	)

	// RenderCyclesTotal counts completed fetch->render cycles.
	RenderCyclesTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "tripcast_render_cycles_total",
			Help: "Total number of completed overlay render cycles.",
		},
	)

	// OverlayFillPercent tracks the currently displayed progress bar fill.
	OverlayFillPercent = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Name: "tripcast_overlay_fill_percent",
			Help: "Currently displayed progress bar fill percentage.",
		},
	)

	// CommandResultsTotal counts operator command outcomes.
	CommandResultsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "tripcast_command_results_total",
			Help: "Total number of operator command results.",
		},
		[]string{"command", "kind"}, // kind: success/warning/error
	)

	// ActionLatency tracks the action collaborator's execution time.
	ActionLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "tripcast_action_latency_seconds",
			Help:    "Latency of operator command execution.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"command"},
	)
)

func init() {
	Registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		FetchTotal,
		FetchFailuresTotal,
		RenderCyclesTotal,
		OverlayFillPercent,
		CommandResultsTotal,
		ActionLatency,
	)
}
