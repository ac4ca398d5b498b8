// Package metrics records per-run Prometheus metrics for a migration.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"gitlab.com/tozd/go/errors"
)

const namespace = "tabmigrate"

// Recorder holds the metrics of one run on a private registry, so several
// runs in one process (tests) never collide.
type Recorder struct {
	registry *prometheus.Registry

	// MigrationsTotal counts finished transfers by mode and status
	MigrationsTotal *prometheus.CounterVec
	// TransferDuration tracks how long one transfer took
	TransferDuration prometheus.Summary
	// TransferBytes counts bytes downloaded from the source
	TransferBytes prometheus.Counter
	// DataSourcesListed counts records returned by listings
	DataSourcesListed prometheus.Counter
}

func New() *Recorder {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Recorder{
		registry: reg,
		MigrationsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "migrations_total",
				Help:      "Total number of data source transfers by mode and status",
			},
			[]string{"mode", "status"},
		),
		TransferDuration: factory.NewSummary(
			prometheus.SummaryOpts{
				Namespace:  namespace,
				Name:       "transfer_duration_seconds",
				Help:       "Duration of data source transfers in seconds",
				Objectives: map[float64]float64{0.5: 0.05, 0.9: 0.01, 0.99: 0.001},
			},
		),
		TransferBytes: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "transfer_bytes_total",
				Help:      "Total bytes downloaded from the source server",
			},
		),
		DataSourcesListed: factory.NewCounter(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "datasources_listed_total",
				Help:      "Total number of data sources returned by source listings",
			},
		),
	}
}

// Registry exposes the private registry.
func (r *Recorder) Registry() *prometheus.Registry {
	return r.registry
}

// RecordTransfer records one finished transfer. A nil recorder is a no-op.
func (r *Recorder) RecordTransfer(mode, status string, took time.Duration, bytes int64) {
	if r == nil {
		return
	}
	r.MigrationsTotal.WithLabelValues(mode, status).Inc()
	r.TransferDuration.Observe(took.Seconds())
	if bytes > 0 {
		r.TransferBytes.Add(float64(bytes))
	}
}

// RecordListed records the size of a listing. A nil recorder is a no-op.
func (r *Recorder) RecordListed(n int) {
	if r == nil {
		return
	}
	r.DataSourcesListed.Add(float64(n))
}

// WriteTextfile writes the registry in the text format read by the node
// exporter textfile collector.
func (r *Recorder) WriteTextfile(path string) error {
	if err := prometheus.WriteToTextfile(path, r.registry); err != nil {
		return errors.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
