// Package metrics provides Prometheus metrics for the rooms-api service.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// ActiveRooms tracks the number of known rooms that are not disabled.
	ActiveRooms = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "rooms_active",
			Help: "Number of known rooms that are not disabled",
		},
	)

	// RoomsCreated tracks room creations, split by whether an existing room was reused.
	RoomsCreated = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rooms_created_total",
			Help: "Total number of create-room requests that produced a room",
		},
		[]string{"outcome"},
	)

	// RoomsDisabled tracks room disables by reason (owner, idle).
	RoomsDisabled = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rooms_disabled_total",
			Help: "Total number of rooms disabled",
		},
		[]string{"reason"},
	)

	// RoomCodesIssued tracks access codes minted per role.
	RoomCodesIssued = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rooms_codes_issued_total",
			Help: "Total number of room access codes issued",
		},
		[]string{"role"},
	)

	// SweepDuration tracks the duration of idle sweeps.
	SweepDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "rooms_sweep_duration_seconds",
			Help:    "Duration of idle room sweeps",
			Buckets: prometheus.DefBuckets,
		},
	)

	// SweepFailures tracks upstream disable failures during sweeps.
	SweepFailures = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rooms_sweep_failures_total",
			Help: "Total number of upstream disable failures during idle sweeps",
		},
	)

	// UpstreamRequestDuration tracks calls to the 100ms API.
	UpstreamRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rooms_upstream_request_duration_seconds",
			Help:    "Duration of upstream platform API calls",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"operation", "status"},
	)

	// CredentialRefreshes tracks management token refresh outcomes.
	CredentialRefreshes = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "rooms_credential_refresh_total",
			Help: "Total number of management token refresh attempts by result",
		},
		[]string{"result"},
	)

	// RateLimitRejections tracks requests rejected by the rate limiter.
	RateLimitRejections = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "rooms_rate_limit_rejections_total",
			Help: "Total number of requests rejected by the rate limiter",
		},
	)

	// HTTPRequestDuration tracks inbound HTTP request latency.
	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "rooms_http_request_duration_seconds",
			Help:    "Duration of inbound HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)
)

// RecordUpstreamCall observes one upstream call. status is the HTTP status,
// or 0 when the request never got a response.
func RecordUpstreamCall(operation string, status int, started time.Time) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	UpstreamRequestDuration.WithLabelValues(operation, label).Observe(time.Since(started).Seconds())
}

// RecordRoomDisabled increments disable metrics.
func RecordRoomDisabled(reason string) {
	RoomsDisabled.WithLabelValues(reason).Inc()
}
