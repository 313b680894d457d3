package metrics

import (
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rental-app-go/internal/domain/lifecycle"
)

func TestOutcome(t *testing.T) {
	assert.Equal(t, OutcomeOK, Outcome(nil))
	assert.Equal(t, OutcomeConflict, Outcome(lifecycle.ErrConflict))
	assert.Equal(t, OutcomeRejected, Outcome(&lifecycle.TransitionError{Entity: "payment", Action: "confirm", From: "pending"}))
	assert.Equal(t, OutcomeRejected, Outcome(lifecycle.Invalid("reason", "is required")))
	assert.Equal(t, OutcomeError, Outcome(errors.New("connection reset")))
}

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	return rec.Body.String()
}

func TestTransitionCounter(t *testing.T) {
	m := New("test")

	m.Transition("contract", "activate", nil)
	m.Transition("contract", "activate", nil)
	m.Transition("contract", "activate", lifecycle.ErrConflict)
	m.DispatchFailed("paymentReceived", true)

	body := scrape(t, m)
	assert.Contains(t, body, `test_lifecycle_transitions_total{action="activate",entity="contract",outcome="ok"} 2`)
	assert.Contains(t, body, `test_lifecycle_transitions_total{action="activate",entity="contract",outcome="conflict"} 1`)
	assert.Contains(t, body, `test_outbox_dispatch_failures_total{event="paymentReceived",final="true"} 1`)
}

func TestMiddlewareUsesRoutePattern(t *testing.T) {
	m := New("test")
	router := chi.NewRouter()
	router.Use(m.Middleware)
	router.Get("/api/contracts/{id}", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	})
	router.Handle("/metrics", m.Handler())

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/contracts/abc", nil))
	require.Equal(t, http.StatusNotFound, rec.Code)

	body := scrape(t, m)
	assert.Contains(t, body, `test_http_requests_total{method="GET",route="/api/contracts/{id}",status="404"} 1`)
}
