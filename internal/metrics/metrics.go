package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	registerAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookworm_register_attempts_total",
		Help: "Number of registration attempts grouped by status.",
	}, []string{"status"})

	loginAttempts = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookworm_login_attempts_total",
		Help: "Number of login attempts grouped by status.",
	}, []string{"status"})

	bookOps = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookworm_book_operations_total",
		Help: "Number of book operations grouped by operation and status.",
	}, []string{"op", "status"})

	mediaErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookworm_media_errors_total",
		Help: "Media host call failures grouped by operation.",
	}, []string{"op"})

	rateLimitHits = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "bookworm_rate_limit_hits_total",
		Help: "Rate limiter activations grouped by limiter name.",
	}, []string{"limiter"})
)

// IncRegister increments the registration counter.
func IncRegister(status string) {
	registerAttempts.WithLabelValues(status).Inc()
}

// IncLogin increments the login counter.
func IncLogin(status string) {
	loginAttempts.WithLabelValues(status).Inc()
}

// IncBookOp increments the book operation counter.
func IncBookOp(op, status string) {
	bookOps.WithLabelValues(op, status).Inc()
}

// IncMediaError increments the media failure counter.
func IncMediaError(op string) {
	mediaErrors.WithLabelValues(op).Inc()
}

// IncRateLimit increments the rate-limit hit counter.
func IncRateLimit(name string) {
	rateLimitHits.WithLabelValues(name).Inc()
}
