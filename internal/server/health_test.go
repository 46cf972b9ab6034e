package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/teemow/timewise/internal/calendar"
)

func TestHealthChecker_ReadinessOpensCalendar(t *testing.T) {
	tests := []struct {
		name         string
		opts         []Option
		wantStatus   int
		wantCalendar string
	}{
		{
			name: "calendar opens",
			opts: []Option{WithSourceFactory("fake", func(context.Context, string) (calendar.EventSource, error) {
				return staticSource{}, nil
			})},
			wantStatus:   http.StatusOK,
			wantCalendar: healthStatusOK,
		},
		{
			name:         "missing google token",
			wantStatus:   http.StatusServiceUnavailable,
			wantCalendar: "no Google token",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := testConfig()
			cfg.Calendar.TokenDir = t.TempDir()
			sc, err := NewServerContext(context.Background(), cfg, tt.opts...)
			require.NoError(t, err)
			defer func() { _ = sc.Shutdown() }()

			rec := httptest.NewRecorder()
			NewHealthChecker(sc).ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
			assert.Equal(t, tt.wantStatus, rec.Code)

			var resp HealthResponse
			require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
			assert.Contains(t, resp.Checks["calendar"], tt.wantCalendar)
		})
	}
}

func TestHealthChecker_ReadinessWithoutServerContext(t *testing.T) {
	rec := httptest.NewRecorder()
	NewHealthChecker(nil).ReadinessHandler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/readyz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)

	var resp HealthResponse
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&resp))
	assert.NotContains(t, resp.Checks, "calendar")
}
