package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce sync.Once

	httpRequestsTotal   *prometheus.CounterVec
	httpLatencySeconds  *prometheus.HistogramVec
	contentRequests     *prometheus.CounterVec
	enrollmentSubmits   *prometheus.CounterVec
	quizSubmissionsTot  prometheus.Counter
	sessionOpensTotal   prometheus.Counter
	uploadLatencySecond prometheus.Histogram
)

// RegisterMetrics initialises the Prometheus collectors.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		contentRequests = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "course_content_requests_total",
			Help: "Course content requests by outcome (hit, miss, denied, error).",
		}, []string{"result"})

		enrollmentSubmits = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "enrollment_events_total",
			Help: "Enrollment lifecycle events (submitted, approved, rejected).",
		}, []string{"status"})

		quizSubmissionsTot = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quiz_submissions_total",
			Help: "Total number of scored quiz submissions.",
		})

		sessionOpensTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "content_sessions_opened_total",
			Help: "Total number of content sessions opened.",
		})

		uploadLatencySecond = prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "proof_upload_latency_seconds",
			Help:    "Latency distribution for payment proof uploads.",
			Buckets: []float64{0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		})

		prometheus.MustRegister(
			httpRequestsTotal,
			httpLatencySeconds,
			contentRequests,
			enrollmentSubmits,
			quizSubmissionsTot,
			sessionOpensTotal,
			uploadLatencySecond,
		)
	})
}

// HTTPRequests exposes the request counter.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the request latency histogram.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// ContentRequests exposes the course content request counter.
func ContentRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return contentRequests
}

// EnrollmentSubmissions exposes the enrollment lifecycle counter.
func EnrollmentSubmissions() *prometheus.CounterVec {
	RegisterMetrics()
	return enrollmentSubmits
}

// QuizSubmissions exposes the quiz submission counter.
func QuizSubmissions() prometheus.Counter {
	RegisterMetrics()
	return quizSubmissionsTot
}

// SessionOpens exposes the session open counter.
func SessionOpens() prometheus.Counter {
	RegisterMetrics()
	return sessionOpensTotal
}

// UploadLatency exposes the proof upload latency histogram.
func UploadLatency() prometheus.Histogram {
	RegisterMetrics()
	return uploadLatencySecond
}
