// Package metrics holds the Prometheus collectors of the service. Collectors
// are registered on an injected registry so tests can use a private one.
package metrics

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/errorfreetext/errorfree/internal/events"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "errorfree"

// Speller request outcomes.
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics groups every collector exported by the service.
type Metrics struct {
	registry *prometheus.Registry

	TaskTransitions  *prometheus.CounterVec
	TaskAgeSeconds   *prometheus.HistogramVec
	SpellerRequests  *prometheus.CounterVec
	SpellerDuration  prometheus.Histogram
	SpellerRetries   prometheus.Counter
	SchedulerRuns    *prometheus.CounterVec
	SchedulerTasks   *prometheus.CounterVec
	HTTPRequests     *prometheus.CounterVec
	HTTPDurationSecs *prometheus.HistogramVec
}

// New creates the collectors on a fresh registry that also carries the Go
// runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return NewWithRegistry(reg)
}

// NewWithRegistry creates the collectors on reg.
func NewWithRegistry(reg *prometheus.Registry) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		registry: reg,

		TaskTransitions: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "tasks",
			Name:      "transitions_total",
			Help:      "Task state transitions, labelled by the status entered.",
		}, []string{"status"}),

		TaskAgeSeconds: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "tasks",
			Name:      "age_at_terminal_seconds",
			Help:      "Time from task creation to its terminal state.",
			Buckets:   []float64{0.5, 1, 5, 15, 30, 60, 120, 300, 900, 1800, 3600},
		}, []string{"status"}),

		SpellerRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "speller",
			Name:      "requests_total",
			Help:      "HTTP attempts against the spelling service, labelled by outcome.",
		}, []string{"outcome"}),

		SpellerDuration: f.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "speller",
			Name:      "request_duration_seconds",
			Help:      "Duration of single spelling service attempts.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10},
		}),

		SpellerRetries: f.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "speller",
			Name:      "retries_total",
			Help:      "Retries issued after a failed spelling service attempt.",
		}),

		SchedulerRuns: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "runs_total",
			Help:      "Scheduler loop invocations, labelled by loop and outcome.",
		}, []string{"loop", "outcome"}),

		SchedulerTasks: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "scheduler",
			Name:      "tasks_total",
			Help:      "Tasks handled by a scheduler loop, labelled by loop and result.",
		}, []string{"loop", "result"}),

		HTTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "HTTP requests served, labelled by route pattern, method and status code.",
		}, []string{"route", "method", "code"}),

		HTTPDurationSecs: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// HandleEvent records a task lifecycle event. It implements events.EventHandler.
func (m *Metrics) HandleEvent(_ context.Context, event *events.TaskEvent) error {
	status := string(event.Status)
	m.TaskTransitions.WithLabelValues(status).Inc()
	if event.Status.Terminal() {
		m.TaskAgeSeconds.WithLabelValues(status).Observe(event.Age.Seconds())
	}
	return nil
}

// ObserveSpellerAttempt records one HTTP attempt against the spelling service.
func (m *Metrics) ObserveSpellerAttempt(outcome string, d time.Duration) {
	m.SpellerRequests.WithLabelValues(outcome).Inc()
	m.SpellerDuration.Observe(d.Seconds())
}

// IncSpellerRetry counts one retry of a spelling request.
func (m *Metrics) IncSpellerRetry() {
	m.SpellerRetries.Inc()
}

// ObserveSchedulerRun counts one loop invocation.
func (m *Metrics) ObserveSchedulerRun(loop string, err error) {
	outcome := OutcomeSuccess
	if err != nil {
		outcome = OutcomeError
	}
	m.SchedulerRuns.WithLabelValues(loop, outcome).Inc()
}

// AddSchedulerTasks counts tasks handled by a loop with the given result.
func (m *Metrics) AddSchedulerTasks(loop, result string, n int) {
	if n <= 0 {
		return
	}
	m.SchedulerTasks.WithLabelValues(loop, result).Add(float64(n))
}

// ObserveHTTPRequest records one served HTTP request.
func (m *Metrics) ObserveHTTPRequest(route, method string, code int, d time.Duration) {
	m.HTTPRequests.WithLabelValues(route, method, strconv.Itoa(code)).Inc()
	m.HTTPDurationSecs.WithLabelValues(route, method).Observe(d.Seconds())
}

var _ events.EventHandler = (*Metrics)(nil)
