package metrics

import (
	"regexp"
	"strconv"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// RequestDuration tracks HTTP request duration in seconds by method, path, status.
	RequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path", "status"},
	)

	// RequestTotal counts HTTP requests by method, path, status.
	RequestTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "path", "status"},
	)

	// LedgerOperations counts ledger calls by operation (create, update, delete) and outcome.
	LedgerOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expense_ledger_operations_total",
			Help: "Total number of expense ledger mutations by operation and outcome",
		},
		[]string{"operation", "outcome"},
	)

	// AuthAttempts counts register and login attempts by outcome.
	AuthAttempts = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "auth_attempts_total",
			Help: "Total number of register and login attempts by outcome",
		},
		[]string{"action", "outcome"},
	)

	// SideEffectFailures counts best-effort audit and event writes that failed.
	SideEffectFailures = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "expense_side_effect_failures_total",
			Help: "Audit log and event publish failures that did not fail the request",
		},
		[]string{"kind"},
	)
)

var (
	numericPathSegment = regexp.MustCompile(`/[0-9]+(/|$)`)
	initOnce           sync.Once
)

func init() {
	initOnce.Do(func() {
		prometheus.MustRegister(RequestDuration, RequestTotal, LedgerOperations, AuthAttempts, SideEffectFailures)
	})
}

// NormalizePath reduces cardinality by replacing numeric path segments with {id}.
// E.g. /api/expenses/123 -> /api/expenses/{id}.
func NormalizePath(path string) string {
	return numericPathSegment.ReplaceAllString(path, "/{id}$1")
}

// RecordRequest records duration and count for an HTTP request. Call from middleware with method, path, statusCode, duration.
func RecordRequest(method, path string, statusCode int, durationSeconds float64) {
	path = NormalizePath(path)
	status := strconv.Itoa(statusCode)
	RequestDuration.WithLabelValues(method, path, status).Observe(durationSeconds)
	RequestTotal.WithLabelValues(method, path, status).Inc()
}

// Outcome maps an error to a low-cardinality label.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "success"
}

func RecordLedgerOp(op string, err error) {
	LedgerOperations.WithLabelValues(op, Outcome(err)).Inc()
}

func RecordAuth(action string, err error) {
	AuthAttempts.WithLabelValues(action, Outcome(err)).Inc()
}

func IncSideEffectFailure(kind string) {
	SideEffectFailures.WithLabelValues(kind).Inc()
}
