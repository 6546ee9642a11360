// Package metrics exports Prometheus collectors for the serve path.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// RequestsTotal counts API requests by endpoint, method and status
	RequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "curbscope_requests_total",
			Help: "Total number of API requests processed",
		},
		[]string{"endpoint", "method", "status"},
	)

	// RequestDuration observes API request latency
	RequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "curbscope_request_duration_seconds",
			Help:    "Request duration in seconds",
			Buckets: []float64{.001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"endpoint", "method"},
	)

	// PipelineRuns counts series pipeline executions
	PipelineRuns = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "curbscope_pipeline_runs_total",
			Help: "Total number of series pipeline runs",
		},
	)

	// PipelineDuration observes how long one pipeline run takes
	PipelineDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "curbscope_pipeline_duration_seconds",
			Help:    "Series pipeline run duration in seconds",
			Buckets: []float64{.0005, .001, .005, .01, .05, .1, .5, 1},
		},
	)

	// SeriesProduced counts series emitted across all runs
	SeriesProduced = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "curbscope_series_produced_total",
			Help: "Total number of chart series produced",
		},
	)

	// ReadingsLoaded reports the size of the in-memory reading set
	ReadingsLoaded = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "curbscope_readings_loaded",
			Help: "Number of readings currently loaded in memory",
		},
	)
)
