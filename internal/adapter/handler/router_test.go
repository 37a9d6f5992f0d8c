package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/johnquangdev/meeting-archive/internal/adapter/dto/common"
)

func newTestEcho(t *testing.T, checks map[string]HealthCheck) *echo.Echo {
	t.Helper()
	srv, err := NewServer("1.2.3", &fakeArchive{}, &fakeRetrieval{}, &fakeDirectory{}, nil)
	require.NoError(t, err)

	e := echo.New()
	NewRouter(srv, "1.2.3", checks).Setup(e)
	return e
}

func TestRouter_Health(t *testing.T) {
	tests := []struct {
		name       string
		checks     map[string]HealthCheck
		wantCode   int
		wantStatus string
		wantComps  map[string]string
	}{
		{
			name:       "no checks",
			wantCode:   http.StatusOK,
			wantStatus: "ok",
		},
		{
			name: "all healthy",
			checks: map[string]HealthCheck{
				"database": func(context.Context) error { return nil },
			},
			wantCode:   http.StatusOK,
			wantStatus: "ok",
			wantComps:  map[string]string{"database": "ok"},
		},
		{
			name: "one failing",
			checks: map[string]HealthCheck{
				"database": func(context.Context) error { return nil },
				"cache":    func(context.Context) error { return errors.New("connection refused") },
			},
			wantCode:   http.StatusServiceUnavailable,
			wantStatus: "degraded",
			wantComps:  map[string]string{"database": "ok", "cache": "connection refused"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newTestEcho(t, tt.checks)

			rec := httptest.NewRecorder()
			e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

			assert.Equal(t, tt.wantCode, rec.Code)
			var body common.HealthResponse
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tt.wantStatus, body.Status)
			assert.Equal(t, "1.2.3", body.Version)
			assert.Equal(t, tt.wantComps, body.Components)
		})
	}
}

func TestRouter_MCPRouteRegistered(t *testing.T) {
	e := newTestEcho(t, nil)

	found := false
	for _, r := range e.Routes() {
		if r.Path == "/mcp" {
			found = true
		}
	}
	assert.True(t, found)
}
