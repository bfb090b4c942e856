package services

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

type PrometheusMetrics struct {
	jobFailures         *prometheus.CounterVec
	jobCompletions      *prometheus.CounterVec
	jobsProcessed       *prometheus.CounterVec
	jobDuration         prometheus.Histogram
	jobsEnqueued        *prometheus.CounterVec
	deadLetterRecords   *prometheus.CounterVec
	alertsTotal         *prometheus.CounterVec
	circuitBreakerState *prometheus.GaugeVec
	queueDepth          *prometheus.GaugeVec
	batchItems          *prometheus.CounterVec
	batchDuration       prometheus.Histogram
	genericCounter      *prometheus.CounterVec
	genericGauge        *prometheus.GaugeVec
	genericTiming       *prometheus.HistogramVec
}

// NewPrometheusMetrics registers the collectors on the default registry.
func NewPrometheusMetrics() MetricsRecorderInterface {
	return NewPrometheusMetricsWithRegistry(prometheus.DefaultRegisterer)
}

func NewPrometheusMetricsWithRegistry(reg prometheus.Registerer) *PrometheusMetrics {
	factory := promauto.With(reg)

	return &PrometheusMetrics{
		jobFailures: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "job_failures_total",
				Help: "Total number of terminal job failures observed by the dead-letter service",
			},
			[]string{"queue", "job_name"},
		),
		jobCompletions: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "job_completions_total",
				Help: "Total number of job completions observed by the dead-letter service",
			},
			[]string{"queue"},
		),
		jobsProcessed: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "queue_jobs_processed_total",
				Help: "Total number of job attempts finished by workers",
			},
			[]string{"queue", "status"},
		),
		jobDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "queue_job_duration_milliseconds",
				Help:    "Job attempt duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(1, 2, 16),
			},
		),
		jobsEnqueued: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "queue_jobs_enqueued_total",
				Help: "Total number of jobs submitted by producers",
			},
			[]string{"queue", "job_name", "status"},
		),
		deadLetterRecords: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dead_letter_records_total",
				Help: "Total number of dead-letter records written",
			},
			[]string{"status"},
		),
		alertsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "alerts_total",
				Help: "Total number of operational alerts raised",
			},
			[]string{"severity"},
		),
		circuitBreakerState: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "circuit_breaker_state",
				Help: "Circuit breaker state (0=closed, 1=open, 2=half-open)",
			},
			[]string{"service"},
		),
		queueDepth: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "queue_depth",
				Help: "Current number of jobs per queue and state",
			},
			[]string{"queue", "state"},
		),
		batchItems: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "batch_items_total",
				Help: "Total number of batch items processed",
			},
			[]string{"status"},
		),
		batchDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "batch_duration_milliseconds",
				Help:    "Batch processing duration in milliseconds",
				Buckets: prometheus.ExponentialBuckets(10, 2, 16),
			},
		),
		genericCounter: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "analyzer_events_total",
				Help: "Counters emitted through the alerting service without a dedicated collector",
			},
			[]string{"name"},
		),
		genericGauge: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "analyzer_gauge",
				Help: "Gauges emitted through the alerting service without a dedicated collector",
			},
			[]string{"name"},
		),
		genericTiming: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "analyzer_timing_milliseconds",
				Help:    "Timings emitted through the alerting service without a dedicated collector",
				Buckets: prometheus.ExponentialBuckets(1, 2, 16),
			},
			[]string{"name"},
		),
	}
}

func (m *PrometheusMetrics) IncrementCounter(name string, tags map[string]string) {
	queue := tags["queue"]
	status := tags["status"]

	switch name {
	case "job_failures_total":
		m.jobFailures.WithLabelValues(queue, tags["job_name"]).Inc()
	case "job_completions_total":
		m.jobCompletions.WithLabelValues(queue).Inc()
	case "job.completed":
		m.jobsProcessed.WithLabelValues(queue, "completed").Inc()
	case "job.failed":
		m.jobsProcessed.WithLabelValues(queue, "failed").Inc()
	case "job.retried":
		m.jobsProcessed.WithLabelValues(queue, "retried").Inc()
	case "job.enqueued":
		m.jobsEnqueued.WithLabelValues(queue, tags["job_name"], status).Inc()
	case "dead_letter.recorded":
		m.deadLetterRecords.WithLabelValues(status).Inc()
	case "alert.sent":
		m.alertsTotal.WithLabelValues(tags["severity"]).Inc()
	case "circuit_breaker.open":
		m.circuitBreakerState.WithLabelValues(tags["service"]).Set(1)
	case "batch.item":
		if status != "" {
			m.batchItems.WithLabelValues(status).Inc()
		}
	default:
		m.genericCounter.WithLabelValues(name).Inc()
	}
}

func (m *PrometheusMetrics) RecordProcessingTime(name string, duration time.Duration) {
	switch name {
	case "job.processing":
		m.jobDuration.Observe(float64(duration.Milliseconds()))
	case "batch.processing":
		m.batchDuration.Observe(float64(duration.Milliseconds()))
	default:
		m.genericTiming.WithLabelValues(name).Observe(float64(duration.Milliseconds()))
	}
}

func (m *PrometheusMetrics) RecordGauge(name string, value float64, tags map[string]string) {
	switch name {
	case "queue.depth":
		m.queueDepth.WithLabelValues(tags["queue"], tags["state"]).Set(value)
	case "circuit_breaker.state":
		m.circuitBreakerState.WithLabelValues(tags["service"]).Set(value)
	default:
		m.genericGauge.WithLabelValues(name).Set(value)
	}
}
