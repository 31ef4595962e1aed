package handler

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/supportdesk/knowledge-helper/internal/core/domain"
)

type stubRecorder struct {
	report *domain.UsageReport
}

func (r *stubRecorder) Record(_ context.Context, _ domain.InteractionRecord) error {
	return nil
}

func (r *stubRecorder) Aggregate(_ context.Context) (*domain.UsageReport, error) {
	return r.report, nil
}

type stubCredentialStore struct {
	reloads   int
	reloadErr error
}

func (s *stubCredentialStore) Authenticate(_ context.Context, _, _ string) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubCredentialStore) Lookup(_ context.Context, _ string) (*domain.User, error) {
	return nil, errors.New("not implemented")
}

func (s *stubCredentialStore) Reload(_ context.Context) error {
	s.reloads++
	return s.reloadErr
}

func TestAnalyticsHandler_Report(t *testing.T) {
	e := newTestEcho()
	recorder := &stubRecorder{
		report: &domain.UsageReport{
			TotalInteractions:    5,
			UniqueUsers:          2,
			MostActiveDepartment: "Engineering",
		},
	}
	h := NewAnalyticsHandler(recorder, &stubCredentialStore{})

	req := httptest.NewRequest(http.MethodGet, "/api/analytics", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.Report(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["total_interactions"] != 5.0 {
		t.Fatalf("unexpected total: %v", resp["total_interactions"])
	}
	if resp["most_active_department"] != "Engineering" {
		t.Fatalf("unexpected department: %v", resp["most_active_department"])
	}
}

func TestAnalyticsHandler_ReloadUsers(t *testing.T) {
	e := newTestEcho()
	creds := &stubCredentialStore{}
	h := NewAnalyticsHandler(&stubRecorder{}, creds)

	req := httptest.NewRequest(http.MethodPost, "/api/users/reload", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ReloadUsers(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if creds.reloads != 1 {
		t.Fatalf("expected 1 reload, got %d", creds.reloads)
	}
}

func TestAnalyticsHandler_ReloadUsersFailure(t *testing.T) {
	e := newTestEcho()
	creds := &stubCredentialStore{reloadErr: errors.New("read user registry: permission denied")}
	h := NewAnalyticsHandler(&stubRecorder{}, creds)

	req := httptest.NewRequest(http.MethodPost, "/api/users/reload", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	if err := h.ReloadUsers(c); err == nil {
		t.Fatalf("expected error to propagate")
	}
}
