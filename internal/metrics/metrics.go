// MovieMate - Movie Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/moviemate

// Package metrics defines the Prometheus collectors MovieMate exports on /metrics.
//
// Collectors register with the default registry through promauto. Callers use
// the Record helpers rather than touching label sets directly so label names
// stay consistent:
//
//	metrics.RecordAPIRequest("GET", "/api/v1/recommend/{userID}", "200", elapsed)
//	metrics.RecordTraining(duration, version, explained, err)
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// API metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviemate_api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "moviemate_api_request_duration_seconds",
			Help:    "Duration of API requests in seconds",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moviemate_api_active_requests",
			Help: "Number of API requests currently being served",
		},
	)

	APIRateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviemate_api_rate_limit_hits_total",
			Help: "Requests rejected by a rate limiter",
		},
		[]string{"limiter"},
	)

	// Model metrics
	ModelTrainingTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviemate_model_training_total",
			Help: "Training runs by outcome",
		},
		[]string{"status"},
	)

	ModelTrainingDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "moviemate_model_training_duration_seconds",
			Help:    "Wall time of training runs",
			Buckets: []float64{0.1, 0.5, 1, 2.5, 5, 10, 30, 60, 120, 300},
		},
	)

	ModelVersion = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moviemate_model_version",
			Help: "Version of the model currently serving",
		},
	)

	ModelExplainedVariance = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moviemate_model_explained_variance",
			Help: "Explained variance ratio of the serving model",
		},
	)

	ModelLastTrained = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moviemate_model_last_trained_timestamp_seconds",
			Help: "Unix time of the last successful training run",
		},
	)

	// Feedback metrics
	FeedbackTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviemate_feedback_total",
			Help: "Recommendation feedback by strategy and outcome",
		},
		[]string{"strategy", "liked"},
	)

	// Cache metrics
	CacheLookups = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviemate_cache_lookups_total",
			Help: "Recommendation cache lookups by result (hit, miss)",
		},
		[]string{"cache", "result"},
	)

	// Circuit breaker metrics
	CircuitBreakerState = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "moviemate_circuit_breaker_state",
			Help: "Circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
		[]string{"name"},
	)

	CircuitBreakerTransitions = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviemate_circuit_breaker_transitions_total",
			Help: "Circuit breaker state transitions",
		},
		[]string{"name", "from", "to"},
	)

	CircuitBreakerRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviemate_circuit_breaker_requests_total",
			Help: "Requests passed through a circuit breaker by result",
		},
		[]string{"name", "result"},
	)

	// Event metrics
	EventsPublished = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviemate_events_published_total",
			Help: "Events published by topic",
		},
		[]string{"topic"},
	)

	EventsProcessed = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "moviemate_events_processed_total",
			Help: "Events handled by the router",
		},
		[]string{"topic", "result"},
	)

	// WebSocket metrics
	WSConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "moviemate_websocket_clients",
			Help: "Connected WebSocket clients",
		},
	)

	WSMessagesSent = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "moviemate_websocket_messages_sent_total",
			Help: "Messages broadcast to WebSocket clients",
		},
	)

	// Application info
	AppInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "moviemate_app_info",
			Help: "Build information",
		},
		[]string{"version", "go_version"},
	)
)

// RecordAPIRequest records a served request.
func RecordAPIRequest(method, endpoint, statusCode string, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, statusCode).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
		return
	}
	APIActiveRequests.Dec()
}

// RecordTraining records the outcome of one training run. Gauges describing
// the serving model only move on success.
func RecordTraining(duration time.Duration, version int, explainedVariance float64, err error) {
	ModelTrainingDuration.Observe(duration.Seconds())
	if err != nil {
		ModelTrainingTotal.WithLabelValues("failure").Inc()
		return
	}
	ModelTrainingTotal.WithLabelValues("success").Inc()
	SetServingModel(version, explainedVariance)
	ModelLastTrained.Set(float64(time.Now().Unix()))
}

// SetServingModel updates the serving model gauges, e.g. after a restore.
func SetServingModel(version int, explainedVariance float64) {
	ModelVersion.Set(float64(version))
	ModelExplainedVariance.Set(explainedVariance)
}

// RecordFeedback counts one feedback event.
func RecordFeedback(strategy string, liked bool) {
	FeedbackTotal.WithLabelValues(strategy, strconv.FormatBool(liked)).Inc()
}

// RecordCacheLookup counts a cache hit or miss.
func RecordCacheLookup(cache string, hit bool) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheLookups.WithLabelValues(cache, result).Inc()
}

// RecordBreakerTransition updates breaker state gauges and counters.
func RecordBreakerTransition(name, from, to string, state float64) {
	CircuitBreakerState.WithLabelValues(name).Set(state)
	CircuitBreakerTransitions.WithLabelValues(name, from, to).Inc()
}

// RecordBreakerRequest counts a request by result: success, failure or rejected.
func RecordBreakerRequest(name, result string) {
	CircuitBreakerRequests.WithLabelValues(name, result).Inc()
}

// RecordEventPublished counts a published event.
func RecordEventPublished(topic string) {
	EventsPublished.WithLabelValues(topic).Inc()
}

// RecordEventProcessed counts a handled event.
func RecordEventProcessed(topic string, err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	EventsProcessed.WithLabelValues(topic, result).Inc()
}

// SetAppInfo publishes build information.
func SetAppInfo(version, goVersion string) {
	AppInfo.WithLabelValues(version, goVersion).Set(1)
}
