package server

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"vera/internal/auth"
	"vera/internal/domain/registro"
	"vera/internal/platform/config"
	"vera/internal/platform/metrics"
)

func testConfig() config.Config {
	return config.Config{
		Addr:                    ":0",
		Environment:             "test",
		SeedMockData:            true,
		CORSOrigins:             []string{"http://localhost:5173"},
		MaxBodyBytes:            1 << 20,
		RateLimitPerMinute:      1000,
		MetricsEnabled:          true,
		SalaryMin:               registro.DefaultSalaryMinimum,
		SalaryMax:               registro.DefaultSalaryMaximum,
		CalculatedSalaryPercent: registro.DefaultCalculatedPercent,
	}
}

func newTestApp(t *testing.T, cfg config.Config) *App {
	t.Helper()
	app, err := New(context.Background(), cfg)
	if err != nil {
		t.Fatalf("new app: %v", err)
	}
	t.Cleanup(app.Close)
	return app
}

func get(h http.Handler, target, token string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, target, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestNewSeedsMemoryStore(t *testing.T) {
	app := newTestApp(t, testConfig())

	rec := get(app.Router, "/registros?limit=100", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	var resp registro.ListResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if resp.Pagination.Total != len(registro.DemoRecords()) {
		t.Fatalf("expected seeded records, got %d", resp.Pagination.Total)
	}
	for _, rec := range resp.Data {
		if rec.Employee == "Maria Fernanda Costa" && rec.CalculatedSalary != 8370 {
			t.Fatalf("expected 35%% uplift on 6200, got %v", rec.CalculatedSalary)
		}
	}
}

func TestSeedSkipsNonEmptyStore(t *testing.T) {
	app := newTestApp(t, testConfig())
	if err := app.seed(context.Background()); err != nil {
		t.Fatalf("reseed error: %v", err)
	}
	resp, err := app.Service.List(context.Background(), registro.Params{})
	if err != nil {
		t.Fatalf("list error: %v", err)
	}
	if resp.Pagination.Total != len(registro.DemoRecords()) {
		t.Fatalf("expected no duplicate seed, got %d", resp.Pagination.Total)
	}
}

func TestHealthAndMetrics(t *testing.T) {
	app := newTestApp(t, testConfig())

	if rec := get(app.Router, "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected healthz 200, got %d", rec.Code)
	}
	if rec := get(app.Router, "/readyz", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected readyz 200, got %d", rec.Code)
	}
	rec := get(app.Router, "/metrics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("expected metrics 200, got %d", rec.Code)
	}
	var snap metrics.Snapshot
	if err := json.NewDecoder(rec.Body).Decode(&snap); err != nil {
		t.Fatalf("decode error: %v", err)
	}
	if snap.RequestsTotal < 2 {
		t.Fatalf("expected earlier requests counted, got %d", snap.RequestsTotal)
	}
}

func TestMetricsDisabled(t *testing.T) {
	cfg := testConfig()
	cfg.MetricsEnabled = false
	app := newTestApp(t, cfg)
	if rec := get(app.Router, "/metrics", ""); rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404 with metrics disabled, got %d", rec.Code)
	}
}

func TestAuthRequiredWhenSecretSet(t *testing.T) {
	cfg := testConfig()
	cfg.JWTSecret = "test-secret"
	app := newTestApp(t, cfg)

	if rec := get(app.Router, "/registros", ""); rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", rec.Code)
	}
	if rec := get(app.Router, "/healthz", ""); rec.Code != http.StatusOK {
		t.Fatalf("expected health to stay public, got %d", rec.Code)
	}

	token, err := auth.GenerateToken(cfg.JWTSecret, "op-1", "Operadora", time.Hour)
	if err != nil {
		t.Fatalf("token error: %v", err)
	}
	if rec := get(app.Router, "/registros", token); rec.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d", rec.Code)
	}
}

func TestConfiguredSalaryBounds(t *testing.T) {
	cfg := testConfig()
	cfg.SalaryMin = 1412
	app := newTestApp(t, cfg)

	req := httptest.NewRequest(http.MethodPost, "/registros", strings.NewReader(`{"employee":"Ana","salary":1000,"admissionDate":"2020-01-01"}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	app.Router.ServeHTTP(rec, req)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 below configured minimum, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), registro.CodeSalaryMinimum) {
		t.Fatalf("expected %s, got %s", registro.CodeSalaryMinimum, rec.Body.String())
	}
}

func TestNewRejectsInvalidConfig(t *testing.T) {
	cfg := testConfig()
	cfg.RateLimitPerMinute = 0
	if _, err := New(context.Background(), cfg); err == nil {
		t.Fatal("expected config validation error")
	}
}
