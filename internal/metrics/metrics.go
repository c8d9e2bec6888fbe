// Package metrics exports sweep statistics in the Prometheus textfile format,
// for pickup by a node_exporter textfile collector on benchmark hosts.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/nvandessel/casweep/internal/constants"
)

// Collector accumulates statistics for one sweep.
type Collector struct {
	registry     *prometheus.Registry
	runs         *prometheus.CounterVec
	duration     prometheus.Histogram
	combinations prometheus.Gauge
	completed    prometheus.Gauge
}

// New creates a Collector with its own registry.
func New() *Collector {
	c := &Collector{
		registry: prometheus.NewRegistry(),
		runs: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "casweep",
			Name:      "runs_total",
			Help:      "Engine runs performed in the last sweep, by status.",
		}, []string{"status"}),
		duration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "casweep",
			Name:      "run_duration_seconds",
			Help:      "Wall-clock duration of engine runs in the last sweep.",
			Buckets:   prometheus.ExponentialBuckets(0.5, 2, 12),
		}),
		combinations: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "casweep",
			Name:      "sweep_combinations",
			Help:      "Number of parameter combinations in the last sweep.",
		}),
		completed: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "casweep",
			Name:      "sweep_completed_timestamp_seconds",
			Help:      "Unix time the last sweep completed.",
		}),
	}

	c.registry.MustRegister(c.runs, c.duration, c.combinations, c.completed)

	// Export both statuses even when one never occurs.
	c.runs.WithLabelValues(string(constants.RunStatusOK))
	c.runs.WithLabelValues(string(constants.RunStatusFailed))

	return c
}

// SetCombinations records the size of the parameter space.
func (c *Collector) SetCombinations(n int) {
	c.combinations.Set(float64(n))
}

// ObserveRun records one finished engine run.
func (c *Collector) ObserveRun(status constants.RunStatus, d time.Duration) {
	c.runs.WithLabelValues(string(status)).Inc()
	c.duration.Observe(d.Seconds())
}

// MarkCompleted records the sweep completion time.
func (c *Collector) MarkCompleted(t time.Time) {
	c.completed.Set(float64(t.Unix()))
}

// Gatherer exposes the underlying registry.
func (c *Collector) Gatherer() prometheus.Gatherer {
	return c.registry
}

// WriteTextfile atomically writes all metrics to path.
func (c *Collector) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, c.registry); err != nil {
		return fmt.Errorf("writing metrics textfile: %w", err)
	}
	return nil
}
