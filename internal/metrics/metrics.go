// Package metrics exposes Prometheus collectors for HTTP traffic and family activity.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "familyhub"

var (
	// Registry holds the application collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	familyEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "families",
			Name:      "events_total",
			Help:      "Family lifecycle events.",
		},
		[]string{"event"},
	)

	postEvents = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "posts",
			Name:      "events_total",
			Help:      "Post, like and comment activity.",
		},
		[]string{"event"},
	)

	gameSessions = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "game",
			Name:      "sessions_submitted_total",
			Help:      "Memory game sessions submitted.",
		},
		[]string{"improved"},
	)

	rolloverRuns = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "rollover",
			Name:      "families_total",
			Help:      "Families processed by the daily rollover job.",
		},
		[]string{"success"},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		familyEvents,
		postEvents,
		gameSessions,
		rolloverRuns,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one finished HTTP request. route is the mux pattern.
func ObserveRequest(method, route string, status int, duration time.Duration) {
	if route == "" {
		route = "unmatched"
	}
	httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	httpDuration.WithLabelValues(method, route).Observe(duration.Seconds())
}

// TrackInFlight increments the in-flight gauge and returns its decrement.
func TrackInFlight() func() {
	httpInFlight.Inc()
	return httpInFlight.Dec
}

func FamilyCreated() { familyEvents.WithLabelValues("created").Inc() }
func FamilyJoined()  { familyEvents.WithLabelValues("joined").Inc() }
func FamilyLeft()    { familyEvents.WithLabelValues("left").Inc() }

func PostCreated()    { postEvents.WithLabelValues("post_created").Inc() }
func PostDeleted()    { postEvents.WithLabelValues("post_deleted").Inc() }
func LikeToggled()    { postEvents.WithLabelValues("like_toggled").Inc() }
func CommentCreated() { postEvents.WithLabelValues("comment_created").Inc() }

// GameSessionSubmitted counts a submission, labelled by whether it beat the stored best.
func GameSessionSubmitted(improved bool) {
	gameSessions.WithLabelValues(strconv.FormatBool(improved)).Inc()
}

// RolloverFamily counts one family handled by the daily rollover job.
func RolloverFamily(success bool) {
	rolloverRuns.WithLabelValues(strconv.FormatBool(success)).Inc()
}
