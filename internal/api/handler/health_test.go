package handler

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestHealthHandler_Liveness(t *testing.T) {
	e := newTestEcho()
	h := NewHealthHandler()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Liveness(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
}

func TestReadinessHandler_AllHealthy(t *testing.T) {
	e := newTestEcho()
	dir := t.TempDir()
	usersFile := filepath.Join(dir, "user_data.json")
	if err := os.WriteFile(usersFile, []byte(`{"employees":{}}`), 0o600); err != nil {
		t.Fatalf("write users file: %v", err)
	}

	h := NewReadinessHandler(dir, usersFile, true)

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Readiness(c); err != nil {
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
		t.Fatalf("unexpected status: %v", resp["status"])
	}
}

func TestReadinessHandler_Degraded(t *testing.T) {
	e := newTestEcho()
	dir := t.TempDir()

	h := NewReadinessHandler(filepath.Join(dir, "absent"), filepath.Join(dir, "absent.json"), false)

	req := httptest.NewRequest(http.MethodGet, "/health/ready", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Readiness(c); err != nil {
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
		t.Fatalf("unexpected status: %v", resp["status"])
	}
	deps, ok := resp["dependencies"].(map[string]any)
	if !ok || len(deps) != 3 {
		t.Fatalf("expected 3 dependency entries, got %v", resp["dependencies"])
	}
}
