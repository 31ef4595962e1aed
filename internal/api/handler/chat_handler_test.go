package handler

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/labstack/echo/v4"

	"github.com/supportdesk/knowledge-helper/internal/core/domain"
	"github.com/supportdesk/knowledge-helper/internal/core/ports"
)

type stubChatService struct {
	askFn func(ctx context.Context, input ports.ChatInput) (*ports.ChatResult, error)
}

func (s *stubChatService) Ask(ctx context.Context, input ports.ChatInput) (*ports.ChatResult, error) {
	return s.askFn(ctx, input)
}

func chatContext(e *echo.Echo, body string) (echo.Context, *httptest.ResponseRecorder) {
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(body))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	authContext(c, &domain.Session{ID: "sess-1", Username: "jane.smith"}, &domain.User{Username: "jane.smith"})
	return c, rec
}

func TestChatHandler_Ask_Success(t *testing.T) {
	e := newTestEcho()
	stub := &stubChatService{
		askFn: func(ctx context.Context, input ports.ChatInput) (*ports.ChatResult, error) {
			if input.SessionID != "sess-1" {
				t.Fatalf("unexpected session: %s", input.SessionID)
			}
			return &ports.ChatResult{
				Response: "You accrue 20 days per year.",
				Sources: []ports.SourceRef{
					{Document: "employee_handbook", DisplayName: "Employee Handbook", MatchedTerms: []string{"pto"}},
				},
				ProcessingSeconds: 1.2,
				Query:             input.Query,
			}, nil
		},
	}
	h := NewChatHandler(stub, &stubSessionStore{})

	c, rec := chatContext(e, `{"query":"How many PTO days do I get?"}`)
	if err := h.Ask(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["response"] != "You accrue 20 days per year." {
		t.Fatalf("unexpected response: %v", resp["response"])
	}
	if resp["query"] != "How many PTO days do I get?" {
		t.Fatalf("query not echoed: %v", resp["query"])
	}
	if resp["processing_time"] != 1.2 {
		t.Fatalf("unexpected processing time: %v", resp["processing_time"])
	}
	sources, ok := resp["sources"].([]any)
	if !ok || len(sources) != 1 {
		t.Fatalf("unexpected sources: %v", resp["sources"])
	}
}

func TestChatHandler_Ask_GatewayFailureEchoesQuery(t *testing.T) {
	e := newTestEcho()
	stub := &stubChatService{
		askFn: func(ctx context.Context, input ports.ChatInput) (*ports.ChatResult, error) {
			return nil, fmt.Errorf("%w: upstream 429", ports.ErrRateLimited)
		},
	}
	h := NewChatHandler(stub, &stubSessionStore{})

	c, rec := chatContext(e, `{"query":"vacation rules"}`)
	if err := h.Ask(c); err != nil {
		t.Fatalf("gateway failure should be rendered, got error: %v", err)
	}
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d", rec.Code)
	}

	var resp map[string]any
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid json: %v", err)
	}
	if resp["query"] != "vacation rules" {
		t.Fatalf("query not preserved on failure: %v", resp["query"])
	}
	msg, _ := resp["error"].(string)
	if msg == "" || strings.Contains(msg, "429") {
		t.Fatalf("expected generic retryable message, got %q", msg)
	}
}

func TestChatHandler_Ask_NonGatewayErrorPropagates(t *testing.T) {
	e := newTestEcho()
	stub := &stubChatService{
		askFn: func(ctx context.Context, input ports.ChatInput) (*ports.ChatResult, error) {
			return nil, domain.ErrInvalidSession
		},
	}
	h := NewChatHandler(stub, &stubSessionStore{})

	c, _ := chatContext(e, `{"query":"hello"}`)
	if err := h.Ask(c); !errors.Is(err, domain.ErrInvalidSession) {
		t.Fatalf("expected ErrInvalidSession, got %v", err)
	}
}

func TestChatHandler_Ask_EmptyQuery(t *testing.T) {
	e := newTestEcho()
	stub := &stubChatService{
		askFn: func(ctx context.Context, input ports.ChatInput) (*ports.ChatResult, error) {
			t.Fatalf("should not be called")
			return nil, nil
		},
	}
	h := NewChatHandler(stub, &stubSessionStore{})

	c, _ := chatContext(e, `{"query":""}`)
	err := h.Ask(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %v", err)
	}
}

func TestChatHandler_Ask_Unauthenticated(t *testing.T) {
	e := newTestEcho()
	h := NewChatHandler(&stubChatService{}, &stubSessionStore{})

	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"query":"hello"}`))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationJSON)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)

	err := h.Ask(c)
	var he *echo.HTTPError
	if !errors.As(err, &he) || he.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %v", err)
	}
}

func TestChatHandler_Reset(t *testing.T) {
	e := newTestEcho()
	sessions := &stubSessionStore{}
	h := NewChatHandler(&stubChatService{}, sessions)

	req := httptest.NewRequest(http.MethodPost, "/api/chat/reset", nil)
	rec := httptest.NewRecorder()
	c := e.NewContext(req, rec)
	authContext(c, &domain.Session{ID: "sess-1"}, &domain.User{Username: "jane.smith"})

	if err := h.Reset(c); err != nil {
		t.Fatalf("handler error: %v", err)
	}
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if len(sessions.resetIDs) != 1 || sessions.resetIDs[0] != "sess-1" {
		t.Fatalf("reset not forwarded: %v", sessions.resetIDs)
	}
}
