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

	"github.com/iudanet/tradetrack/pkg/api"
)

type pingFunc func(ctx context.Context) error

func (f pingFunc) Ping(ctx context.Context) error { return f(ctx) }

func TestHealthHandler_Health(t *testing.T) {
	tests := []struct {
		name       string
		db         Pinger
		wantStatus int
		wantState  string
	}{
		{name: "no database", db: nil, wantStatus: http.StatusOK, wantState: "ok"},
		{
			name:       "database ok",
			db:         pingFunc(func(context.Context) error { return nil }),
			wantStatus: http.StatusOK,
			wantState:  "ok",
		},
		{
			name:       "database down",
			db:         pingFunc(func(context.Context) error { return errors.New("disk I/O error") }),
			wantStatus: http.StatusServiceUnavailable,
			wantState:  "degraded",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			handler := NewHealthHandler(setupTestLogger(), tt.db, "v1.2.3")

			req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
			w := httptest.NewRecorder()
			handler.Health(w, req)

			resp := w.Result()
			defer func() {
				err := resp.Body.Close()
				assert.NoError(t, err)
			}()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

			var healthResp api.HealthResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&healthResp))
			assert.Equal(t, tt.wantState, healthResp.Status)
			assert.Equal(t, "v1.2.3", healthResp.Version)
		})
	}
}

func TestHealthHandler_PingHasDeadline(t *testing.T) {
	var hasDeadline bool
	handler := NewHealthHandler(setupTestLogger(), pingFunc(func(ctx context.Context) error {
		_, hasDeadline = ctx.Deadline()
		return nil
	}), "dev")

	handler.Health(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/v1/health", nil))
	assert.True(t, hasDeadline)
}
