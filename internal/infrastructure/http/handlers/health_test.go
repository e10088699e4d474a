package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/alicebob/miniredis/v2"
	"github.com/labstack/echo/v4"
	"github.com/redis/go-redis/v9"
)

func TestLiveness(t *testing.T) {
	e := echo.New()
	rec := httptest.NewRecorder()
	c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health", nil), rec)

	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadiness(t *testing.T) {
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = rdb.Close() })

	tests := []struct {
		name     string
		checks   map[string]Check
		wantCode int
		wantDeps map[string]string
	}{
		{
			name:     "no dependencies",
			checks:   nil,
			wantCode: http.StatusOK,
			wantDeps: map[string]string{},
		},
		{
			name:     "redis up",
			checks:   map[string]Check{"redis": RedisCheck(rdb)},
			wantCode: http.StatusOK,
			wantDeps: map[string]string{"redis": "ok"},
		},
		{
			name: "postgres down",
			checks: map[string]Check{
				"redis":    RedisCheck(rdb),
				"postgres": func(context.Context) error { return errors.New("connection refused") },
			},
			wantCode: http.StatusServiceUnavailable,
			wantDeps: map[string]string{"redis": "ok", "postgres": "unhealthy"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			e := echo.New()
			rec := httptest.NewRecorder()
			c := e.NewContext(httptest.NewRequest(http.MethodGet, "/health/ready", nil), rec)

			if err := NewHealthDependenciesHandler(tc.checks).Readiness(c); err != nil {
				t.Fatalf("handler error: %v", err)
			}
			if rec.Code != tc.wantCode {
				t.Fatalf("expected %d, got %d", tc.wantCode, rec.Code)
			}

			var resp readinessResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
				t.Fatalf("invalid json: %v", err)
			}
			if len(resp.Dependencies) != len(tc.wantDeps) {
				t.Fatalf("unexpected dependencies: %+v", resp.Dependencies)
			}
			for name, want := range tc.wantDeps {
				if resp.Dependencies[name].Status != want {
					t.Fatalf("%s: expected %s, got %+v", name, want, resp.Dependencies[name])
				}
			}
		})
	}
}
