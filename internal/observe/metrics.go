package observe

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is an Emitter that keeps Prometheus metrics about search runs.
//
// Exposed under the "astar" namespace:
//
//	runs_started_total            counter
//	runs_completed_total{outcome} counter, outcome is found or exhausted
//	expansions_total              counter
//	open_set_size                 gauge, frontier size after the last step
//	closed_set_size               gauge, expanded cells after the last step
//	path_length_cells             histogram, cells on found paths incl. endpoints
//	expansions_per_run            histogram
type Metrics struct {
	runsStarted   prometheus.Counter
	runsCompleted *prometheus.CounterVec
	expansions    prometheus.Counter
	openSize      prometheus.Gauge
	closedSize    prometheus.Gauge
	pathLength    prometheus.Histogram
	runExpansions prometheus.Histogram
}

// NewMetrics creates and registers the metrics with registry.
// A nil registry means prometheus.DefaultRegisterer.
func NewMetrics(registry prometheus.Registerer) *Metrics {
	if registry == nil {
		registry = prometheus.DefaultRegisterer
	}
	factory := promauto.With(registry)

	return &Metrics{
		runsStarted: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "astar",
			Name:      "runs_started_total",
			Help:      "Search runs initialized",
		}),
		runsCompleted: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "astar",
			Name:      "runs_completed_total",
			Help:      "Search runs that reached a terminal state",
		}, []string{"outcome"}),
		expansions: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "astar",
			Name:      "expansions_total",
			Help:      "Cells expanded across all runs",
		}),
		openSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "astar",
			Name:      "open_set_size",
			Help:      "Frontier size after the most recent step",
		}),
		closedSize: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: "astar",
			Name:      "closed_set_size",
			Help:      "Expanded cells after the most recent step",
		}),
		pathLength: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "astar",
			Name:      "path_length_cells",
			Help:      "Cells on found paths, start and goal included",
			Buckets:   prometheus.ExponentialBuckets(2, 2, 10),
		}),
		runExpansions: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: "astar",
			Name:      "expansions_per_run",
			Help:      "Expansions performed by each completed run",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}),
	}
}

// Emit implements Emitter.
func (m *Metrics) Emit(event Event) {
	switch event.Msg {
	case EventInitialized:
		m.runsStarted.Inc()
		m.openSize.Set(0)
		m.closedSize.Set(float64(event.Int(MetaClosed, 1)))

	case EventExpanded:
		m.expansions.Inc()
		m.openSize.Set(float64(event.Int(MetaOpen, 0)))
		m.closedSize.Set(float64(event.Int(MetaClosed, 0)))

	case EventFound:
		m.runsCompleted.WithLabelValues("found").Inc()
		m.pathLength.Observe(float64(event.Int(MetaPathLength, 0)))
		m.runExpansions.Observe(float64(event.Step))

	case EventExhausted:
		m.runsCompleted.WithLabelValues("exhausted").Inc()
		m.runExpansions.Observe(float64(event.Step))

	case EventRestarted:
		m.openSize.Set(0)
		m.closedSize.Set(0)
	}
}
