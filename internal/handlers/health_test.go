package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"GO2GETHER_BUDGET/internal/dto"
)

type pingFunc func(context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestReadinessCheck(t *testing.T) {
	ok := pingFunc(func(context.Context) error { return nil })
	down := pingFunc(func(context.Context) error { return errors.New("connection refused") })

	tests := []struct {
		name   string
		checks map[string]Pinger
		status int
		body   dto.HealthResponse
	}{
		{
			name:   "all up",
			checks: map[string]Pinger{"store": ok, "feed": ok},
			status: http.StatusOK,
			body:   dto.HealthResponse{Status: "ready", Checks: map[string]string{"store": "ok", "feed": "ok"}},
		},
		{
			name:   "feed down",
			checks: map[string]Pinger{"store": ok, "feed": down},
			status: http.StatusServiceUnavailable,
			body:   dto.HealthResponse{Status: "degraded", Checks: map[string]string{"store": "ok", "feed": "connection refused"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			NewHealthHandler(tt.checks).ReadinessCheck(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))

			assert.Equal(t, tt.status, rec.Code)
			var body dto.HealthResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&body))
			assert.Equal(t, tt.body, body)
		})
	}
}

func TestHealthCheck_NoDependencies(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthHandler(nil).HealthCheck(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rec.Body.String())
}
