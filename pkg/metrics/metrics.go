package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"rental-app-go/internal/domain/lifecycle"
)

const (
	OutcomeOK       = "ok"
	OutcomeRejected = "rejected"
	OutcomeConflict = "conflict"
	OutcomeError    = "error"
)

type Metrics struct {
	registry       *prometheus.Registry
	httpReqCnt     *prometheus.CounterVec
	httpDur        *prometheus.HistogramVec
	httpInfl       prometheus.Gauge
	transitions    *prometheus.CounterVec
	dispatched     *prometheus.CounterVec
	dispatchFailed *prometheus.CounterVec
	reminders      prometheus.Counter
}

func New(namespace string) *Metrics {
	r := prometheus.NewRegistry()
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	m := &Metrics{
		registry: r,
		httpReqCnt: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "http_requests_total",
		}, []string{"method", "route", "status"}),
		httpDur: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace, Name: "http_request_duration_seconds", Buckets: prometheus.DefBuckets,
		}, []string{"method", "route", "status"}),
		httpInfl: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace, Name: "http_requests_inflight",
		}),
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "lifecycle_transitions_total",
			Help: "Workflow state transitions by entity, action and outcome.",
		}, []string{"entity", "action", "outcome"}),
		dispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "outbox_dispatched_total",
		}, []string{"event"}),
		dispatchFailed: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace, Name: "outbox_dispatch_failures_total",
		}, []string{"event", "final"}),
		reminders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace, Name: "payment_reminders_total",
		}),
	}
	r.MustRegister(m.httpReqCnt, m.httpDur, m.httpInfl, m.transitions, m.dispatched, m.dispatchFailed, m.reminders)
	return m
}

// Transition implements lifecycle.Observer.
func (m *Metrics) Transition(entity, action string, err error) {
	m.transitions.WithLabelValues(entity, action, Outcome(err)).Inc()
}

// Dispatched and DispatchFailed implement notification.DispatchObserver.
func (m *Metrics) Dispatched(eventKey string) {
	m.dispatched.WithLabelValues(eventKey).Inc()
}

func (m *Metrics) DispatchFailed(eventKey string, final bool) {
	m.dispatchFailed.WithLabelValues(eventKey, strconv.FormatBool(final)).Inc()
}

func (m *Metrics) RemindersSent(count int) {
	m.reminders.Add(float64(count))
}

func Outcome(err error) string {
	switch {
	case err == nil:
		return OutcomeOK
	case errors.Is(err, lifecycle.ErrConflict):
		return OutcomeConflict
	case errors.Is(err, lifecycle.ErrInvalidTransition),
		errors.Is(err, lifecycle.ErrForbidden),
		errors.Is(err, lifecycle.ErrValidation):
		return OutcomeRejected
	default:
		return OutcomeError
	}
}

// Middleware records request counts and latency labelled by the chi route
// pattern, which keeps ids out of the label set.
func (m *Metrics) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.httpInfl.Inc()
		defer m.httpInfl.Dec()

		start := time.Now()
		ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil {
			if pattern := rctx.RoutePattern(); pattern != "" {
				route = pattern
			}
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		labels := []string{r.Method, route, strconv.Itoa(status)}
		m.httpReqCnt.WithLabelValues(labels...).Inc()
		m.httpDur.WithLabelValues(labels...).Observe(time.Since(start).Seconds())
	})
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
