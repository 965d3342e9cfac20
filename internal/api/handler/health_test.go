package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/labstack/echo/v4"
)

func okProbe(name string) Probe {
	return Probe{Name: name, Check: func(context.Context) error { return nil }}
}

func failingProbe(name string) Probe {
	return Probe{Name: name, Check: func(context.Context) error { return errors.New("connection refused") }}
}

func TestHealthHandler_Liveness(t *testing.T) {
	e := echo.New()
	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := NewHealthHandler().Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestHealthHandler_Readiness_AllHealthy(t *testing.T) {
	e := echo.New()
	handler := NewHealthHandler(okProbe("mongodb"), okProbe("redis"))

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["status"] != "ok" {
		t.Fatalf("expected status ok, got %v", resp["status"])
	}
}

func TestHealthHandler_Readiness_Degraded(t *testing.T) {
	e := echo.New()
	handler := NewHealthHandler(okProbe("mongodb"), failingProbe("redis"))

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := handler.Readiness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["status"] != "degraded" {
		t.Fatalf("expected status degraded, got %v", resp["status"])
	}
	deps, ok := resp["dependencies"].(map[string]any)
	if !ok {
		t.Fatalf("expected dependencies map, got %v", resp["dependencies"])
	}
	redisDep := deps["redis"].(map[string]any)
	if redisDep["status"] != "unhealthy" {
		t.Fatalf("expected redis unhealthy, got %v", redisDep)
	}
	mongoDep := deps["mongodb"].(map[string]any)
	if mongoDep["status"] != "ok" {
		t.Fatalf("expected mongodb ok, got %v", mongoDep)
	}
}
