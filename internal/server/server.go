// Package server exposes the aggregation engine over HTTP. The dataset is
// loaded once at startup and treated as immutable; every chart or map
// request runs the full pipeline against it.
package server

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"os"
	"sort"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/curbscope/curbscope/internal/config"
	"github.com/curbscope/curbscope/internal/loader"
	"github.com/curbscope/curbscope/internal/metrics"
	"github.com/curbscope/curbscope/internal/series"
	"github.com/curbscope/curbscope/internal/stats"
	"github.com/curbscope/curbscope/internal/temporal"
	"github.com/curbscope/curbscope/pkg/models"
)

// Server holds the immutable dataset snapshot and request defaults.
type Server struct {
	readings  []models.Reading
	entities  map[string]models.Entity
	defaults  config.DefaultsConfig
	startTime time.Time
}

// New creates a server over a loaded dataset.
func New(ds *loader.Dataset, defaults config.DefaultsConfig) *Server {
	metrics.ReadingsLoaded.Set(float64(len(ds.Readings)))
	return &Server{
		readings:  ds.Readings,
		entities:  ds.EntityIndex(),
		defaults:  defaults,
		startTime: time.Now(),
	}
}

// Router builds the HTTP routes with logging middleware.
func (s *Server) Router() http.Handler {
	r := mux.NewRouter()

	r.HandleFunc("/api/chart", s.ChartHandler).Methods("POST")
	r.HandleFunc("/api/map", s.MapHandler).Methods("POST")
	r.HandleFunc("/api/entities", s.EntitiesHandler).Methods("GET")
	r.HandleFunc("/health", s.HealthHandler).Methods("GET")
	r.Handle("/metrics", promhttp.Handler())

	return handlers.CombinedLoggingHandler(os.Stdout, r)
}

// ChartHandler runs the series pipeline for the posted configuration
// snapshot and returns the resulting series with their axis kind.
func (s *Server) ChartHandler(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(metrics.RequestDuration.WithLabelValues("/api/chart", r.Method))
	defer timer.ObserveDuration()

	snap, err := s.decodeSnapshot(r)
	if err != nil {
		s.respondError(w, "invalid snapshot: "+err.Error(), http.StatusBadRequest)
		metrics.RequestsTotal.WithLabelValues("/api/chart", r.Method, "400").Inc()
		return
	}

	start := time.Now()
	result := series.Build(s.readings, s.entities, snap)
	metrics.PipelineRuns.Inc()
	metrics.PipelineDuration.Observe(time.Since(start).Seconds())
	metrics.SeriesProduced.Add(float64(len(result.Series)))

	slog.Info("pipeline run",
		"runId", result.RunID,
		"dimension", string(snap.Dimension.Type),
		"statistic", string(snap.Statistic),
		"series", len(result.Series))

	metrics.RequestsTotal.WithLabelValues("/api/chart", r.Method, "200").Inc()
	s.respondJSON(w, result, http.StatusOK)
}

// MapHandler returns the map-coloring value for every entity under the
// posted snapshot; values are computed by the same path as chart reference
// values.
func (s *Server) MapHandler(w http.ResponseWriter, r *http.Request) {
	timer := prometheus.NewTimer(metrics.RequestDuration.WithLabelValues("/api/map", r.Method))
	defer timer.ObserveDuration()

	snap, err := s.decodeSnapshot(r)
	if err != nil {
		s.respondError(w, "invalid snapshot: "+err.Error(), http.StatusBadRequest)
		metrics.RequestsTotal.WithLabelValues("/api/map", r.Method, "400").Inc()
		return
	}

	start := time.Now()
	values := series.MapValues(s.readings, s.entities, snap)
	metrics.PipelineRuns.Inc()
	metrics.PipelineDuration.Observe(time.Since(start).Seconds())

	metrics.RequestsTotal.WithLabelValues("/api/map", r.Method, "200").Inc()
	s.respondJSON(w, map[string]interface{}{"values": values}, http.StatusOK)
}

// EntitiesHandler returns entity metadata sorted by ID.
func (s *Server) EntitiesHandler(w http.ResponseWriter, r *http.Request) {
	out := make([]models.Entity, 0, len(s.entities))
	for _, e := range s.entities {
		out = append(out, e)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })

	metrics.RequestsTotal.WithLabelValues("/api/entities", r.Method, "200").Inc()
	s.respondJSON(w, out, http.StatusOK)
}

// HealthHandler reports liveness and dataset size.
func (s *Server) HealthHandler(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, map[string]interface{}{
		"status":   "healthy",
		"readings": len(s.readings),
		"entities": len(s.entities),
		"uptime":   time.Since(s.startTime).String(),
	}, http.StatusOK)
}

// decodeSnapshot parses the request body and fills unset fields from the
// configured defaults.
func (s *Server) decodeSnapshot(r *http.Request) (series.Snapshot, error) {
	var snap series.Snapshot
	if err := json.NewDecoder(r.Body).Decode(&snap); err != nil {
		return snap, err
	}
	if snap.Granularity == "" {
		snap.Granularity = temporal.Granularity(s.defaults.Granularity)
		if snap.Granularity == "" {
			snap.Granularity = temporal.GranDaily
		}
	}
	if snap.Statistic == "" {
		snap.Statistic = stats.Kind(s.defaults.Statistic)
		if snap.Statistic == "" {
			snap.Statistic = stats.KindAverage
		}
	}
	if snap.Metric == "" {
		snap.Metric = series.Metric(s.defaults.Metric)
		if snap.Metric == "" {
			snap.Metric = series.MetricOccupancy
		}
	}
	if snap.Dimension.Type == "" {
		snap.Dimension.Type = series.DimensionAOI
	}
	return snap, nil
}

// respondJSON sends a JSON response
func (s *Server) respondJSON(w http.ResponseWriter, data interface{}, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// respondError sends an error in JSON format
func (s *Server) respondError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(map[string]string{"error": message})
}
