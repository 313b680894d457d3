package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func corsRequest(handler http.Handler, method, origin string, preflight bool) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, "/api/contracts", nil)
	if origin != "" {
		req.Header.Set("Origin", origin)
	}
	if preflight {
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
	}
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)
	return rec
}

func TestCORSPreflightForListedOrigin(t *testing.T) {
	handler := NewCORS([]string{"https://app.example"}, 10*time.Minute)(http.NotFoundHandler())

	rec := corsRequest(handler, http.MethodOptions, "https://app.example", true)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "https://app.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "600", rec.Header().Get("Access-Control-Max-Age"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
	assert.Equal(t, "Origin", rec.Header().Get("Vary"))
}

func TestCORSRefusesPreflightFromOtherOrigin(t *testing.T) {
	handler := NewCORS([]string{"https://app.example"}, 0)(http.NotFoundHandler())

	rec := corsRequest(handler, http.MethodOptions, "https://other.example", true)
	assert.Equal(t, http.StatusForbidden, rec.Code)
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))

	rec = corsRequest(handler, http.MethodGet, "https://other.example", false)
	assert.Equal(t, http.StatusNotFound, rec.Code, "simple requests still reach the handler")
	assert.Empty(t, rec.Header().Get("Access-Control-Allow-Origin"))
}

func TestCORSSimpleRequestExposesRequestID(t *testing.T) {
	handler := NewCORS([]string{"*"}, 0)(http.NotFoundHandler())

	rec := corsRequest(handler, http.MethodGet, "https://any.example", false)
	assert.Equal(t, "https://any.example", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Equal(t, "X-Request-Id", rec.Header().Get("Access-Control-Expose-Headers"))
	assert.Empty(t, rec.Header().Get("Access-Control-Max-Age"))
}

func TestCORSPassesThroughWithoutOrigin(t *testing.T) {
	handler := NewCORS([]string{"*"}, time.Hour)(http.NotFoundHandler())

	rec := corsRequest(handler, http.MethodOptions, "", false)
	assert.Equal(t, http.StatusNotFound, rec.Code)
	assert.Empty(t, rec.Header().Get("Vary"))
}
