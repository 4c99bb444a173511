// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package metrics collects Prometheus metrics for a run and writes them
// to a node-exporter textfile at the end.
package metrics

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds the counters for one run. A nil *Metrics is valid and
// records nothing.
type Metrics struct {
	registry      *prometheus.Registry
	RowsImported  *prometheus.CounterVec
	RowsSkipped   *prometheus.CounterVec
	URLsProcessed *prometheus.CounterVec
	RowsUpdated   *prometheus.CounterVec
	FetchDuration prometheus.Histogram
	LastRun       prometheus.Gauge
}

// New creates the run metrics on a private registry.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,
		RowsImported: f.NewCounterVec(prometheus.CounterOpts{
			Name: "statement_scraper_rows_imported_total",
			Help: "Rows imported from CSV files.",
		}, []string{"table"}),
		RowsSkipped: f.NewCounterVec(prometheus.CounterOpts{
			Name: "statement_scraper_rows_skipped_total",
			Help: "CSV rows skipped for a missing product name.",
		}, []string{"table"}),
		URLsProcessed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "statement_scraper_urls_processed_total",
			Help: "Unique statement URLs processed, by outcome.",
		}, []string{"table", "status"}),
		RowsUpdated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "statement_scraper_rows_updated_total",
			Help: "Rows updated with a scrape result.",
		}, []string{"table"}),
		FetchDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "statement_scraper_fetch_duration_seconds",
			Help:    "Duration of page fetches.",
			Buckets: []float64{0.5, 1, 5, 10, 15, 30, 60, 120},
		}),
		LastRun: f.NewGauge(prometheus.GaugeOpts{
			Name: "statement_scraper_last_run_timestamp_seconds",
			Help: "Unix time of the last completed run.",
		}),
	}
}

// Imported records n imported and skipped rows for table.
func (m *Metrics) Imported(table string, n, skipped int) {
	if m == nil {
		return
	}
	m.RowsImported.WithLabelValues(table).Add(float64(n))
	m.RowsSkipped.WithLabelValues(table).Add(float64(skipped))
}

// URLDone records the outcome of one unique URL and the rows it updated.
func (m *Metrics) URLDone(table, status string, rows int64, took time.Duration) {
	if m == nil {
		return
	}
	m.URLsProcessed.WithLabelValues(table, status).Inc()
	m.RowsUpdated.WithLabelValues(table).Add(float64(rows))
	m.FetchDuration.Observe(took.Seconds())
}

// Finish stamps the completion time of the run.
func (m *Metrics) Finish(t time.Time) {
	if m == nil {
		return
	}
	m.LastRun.Set(float64(t.Unix()))
}

// Registry exposes the underlying registry for gathering. It is nil for
// a nil *Metrics.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// WriteTextfile writes all metrics in the text exposition format to path.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || path == "" {
		return nil
	}
	if err := prometheus.WriteToTextfile(path, m.registry); err != nil {
		return fmt.Errorf("writing metrics to %s: %w", path, err)
	}
	return nil
}
