package app

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"rental-app-go/internal/config"
	"rental-app-go/pkg/logger"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "test-secret"

func testConfig() config.Config {
	return config.Config{
		Env:  "test",
		HTTP: config.HTTPConfig{Port: "0", AllowedOrigins: []string{"*"}},
		DB:   config.DBConfig{Driver: "sqlite", SQLitePath: ":memory:"},
		Auth: config.AuthConfig{JWTSecret: testSecret},
		Outbox: config.OutboxConfig{
			BatchSize:   100,
			MaxAttempts: 5,
			BaseBackoff: time.Second,
			MaxBackoff:  time.Minute,
		},
		Billing:       config.BillingConfig{ReminderDaysAhead: 3},
		Notifications: config.NotificationsConfig{DefaultLocale: "zh", UnreadCacheTTL: -1},
		Metrics:       config.MetricsConfig{Enabled: true, Namespace: "rental_test"},
	}
}

func newTestApp(t *testing.T) *App {
	t.Helper()
	application, err := New(context.Background(), testConfig(), logger.NewNop())
	require.NoError(t, err)
	t.Cleanup(func() { _ = application.Close() })
	return application
}

type client struct {
	t      *testing.T
	router http.Handler
	token  string
}

func newClient(t *testing.T, application *App, userID, name, role string) *client {
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"sub":           userID,
		"email":         name + "@example.com",
		"exp":           time.Now().Add(time.Hour).Unix(),
		"user_metadata": map[string]any{"name": name, "role": role},
	}).SignedString([]byte(testSecret))
	require.NoError(t, err)
	return &client{t: t, router: application.Router(), token: token}
}

func (c *client) do(method, path string, body any) (int, map[string]any) {
	c.t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(c.t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	if c.token != "" {
		req.Header.Set("Authorization", "Bearer "+c.token)
	}
	rec := httptest.NewRecorder()
	c.router.ServeHTTP(rec, req)

	var decoded map[string]any
	if rec.Body.Len() > 0 && rec.Header().Get("Content-Type") != "" {
		_ = json.Unmarshal(rec.Body.Bytes(), &decoded)
	}
	return rec.Code, decoded
}

func TestHealthIsPublic(t *testing.T) {
	application := newTestApp(t)
	anonymous := &client{t: t, router: application.Router()}

	status, body := anonymous.do(http.MethodGet, "/api/health", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", body["status"])

	status, _ = anonymous.do(http.MethodGet, "/api/contracts", nil)
	assert.Equal(t, http.StatusUnauthorized, status)
}

func TestContractLifecycleOverHTTP(t *testing.T) {
	application := newTestApp(t)
	landlordID, tenantID := uuid.NewString(), uuid.NewString()
	landlord := newClient(t, application, landlordID, "Lily", "landlord")
	tenant := newClient(t, application, tenantID, "Tom", "tenant")

	status, me := tenant.do(http.MethodGet, "/api/auth/me", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "tenant", me["role"])

	status, property := landlord.do(http.MethodPost, "/api/properties", map[string]any{
		"title":       "Sunny flat",
		"address":     "1 Main St",
		"rent_amount": 3000,
	})
	require.Equal(t, http.StatusCreated, status)
	propertyID := property["id"].(string)

	now := time.Now().UTC()
	start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, 0)
	end := start.AddDate(0, 3, -1)

	status, contract := landlord.do(http.MethodPost, "/api/contracts", map[string]any{
		"property_id":  propertyID,
		"tenant_id":    tenantID,
		"rent_amount":  3000,
		"payment_day":  5,
		"start_date":   start.Format("2006-01-02"),
		"end_date":     end.Format("2006-01-02"),
		"initiated_by": "landlord",
	})
	require.Equal(t, http.StatusCreated, status)
	assert.Equal(t, "pending_tenant", contract["status"])
	contractID := contract["id"].(string)

	status, contract = tenant.do(http.MethodPost, "/api/contracts/"+contractID+"/tenant-sign", map[string]any{"signature": "tom"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "pending_landlord", contract["status"])

	status, _ = tenant.do(http.MethodPost, "/api/contracts/"+contractID+"/activate", nil)
	assert.Equal(t, http.StatusForbidden, status)

	status, body := landlord.do(http.MethodPost, "/api/contracts/"+contractID+"/activate", nil)
	require.Equal(t, http.StatusConflict, status)
	errBody := body["error"].(map[string]any)
	assert.Equal(t, "invalid_transition", errBody["code"])
	assert.Equal(t, "pending_landlord", errBody["details"].(map[string]any)["status"])

	status, contract = landlord.do(http.MethodPost, "/api/contracts/"+contractID+"/landlord-sign", map[string]any{"signature": "lily"})
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "signed", contract["status"])

	status, contract = landlord.do(http.MethodPost, "/api/contracts/"+contractID+"/activate", nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "active", contract["status"])

	status, property = landlord.do(http.MethodGet, "/api/properties/"+propertyID, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Equal(t, "rented", property["status"])

	status, payments := tenant.do(http.MethodGet, "/api/payments?as=tenant", nil)
	require.Equal(t, http.StatusOK, status)
	items := payments["items"].([]any)
	require.Len(t, items, 3)
	for _, item := range items {
		assert.Equal(t, "pending", item.(map[string]any)["status"])
	}

	status, _ = tenant.do(http.MethodGet, "/api/payments?as=landlord&landlord_id="+landlordID, nil)
	assert.Equal(t, http.StatusForbidden, status)

	window := "?from=" + start.Format("2006-01-02") + "&to=" + end.Format("2006-01-02")
	status, income := landlord.do(http.MethodGet, "/api/analytics/income/summary"+window, nil)
	require.Equal(t, http.StatusOK, status)
	summary := income["summary"].(map[string]any)
	assert.EqualValues(t, 9000, summary["outstanding"])
	assert.EqualValues(t, 3, summary["outstanding_count"])
	assert.EqualValues(t, 0, summary["collected"])

	status, monthly := landlord.do(http.MethodGet, "/api/analytics/income/monthly"+window, nil)
	require.Equal(t, http.StatusOK, status)
	assert.Len(t, monthly["items"].([]any), 3)

	status, _ = tenant.do(http.MethodGet, "/api/analytics/income/summary"+window+"&landlord_id="+landlordID, nil)
	assert.Equal(t, http.StatusForbidden, status)

	report, err := application.DispatchOnce(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 3, report.Dispatched)

	status, notifications := tenant.do(http.MethodGet, "/api/notifications", nil)
	require.Equal(t, http.StatusOK, status)
	require.Len(t, notifications["items"].([]any), 2)

	var invite map[string]any
	for _, item := range notifications["items"].([]any) {
		if n := item.(map[string]any); n["type"] == "contractInvited" {
			invite = n
		}
	}
	require.NotNil(t, invite)
	assert.Equal(t, "Lily邀请您签约《Sunny flat》", invite["content"])

	status, count := tenant.do(http.MethodGet, "/api/notifications/unread-count", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, count["count"])

	status, updated := tenant.do(http.MethodPost, "/api/notifications/read-all", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 2, updated["updated"])

	status, count = tenant.do(http.MethodGet, "/api/notifications/unread-count", nil)
	require.Equal(t, http.StatusOK, status)
	assert.EqualValues(t, 0, count["count"])

	req := httptest.NewRequest(http.MethodGet, "/metrics", nil)
	rec := httptest.NewRecorder()
	application.Router().ServeHTTP(rec, req)
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Contains(t, rec.Body.String(), `rental_test_lifecycle_transitions_total{action="activate",entity="contract",outcome="ok"} 1`)
}

func TestRemindOnceWithNoBills(t *testing.T) {
	application := newTestApp(t)

	sent, err := application.RemindOnce(context.Background())
	require.NoError(t, err)
	assert.Zero(t, sent)
}
