package handler

import (
	"errors"
	"net/http"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/supportdesk/knowledge-helper/internal/api/metrics"
	"github.com/supportdesk/knowledge-helper/internal/core/ports"
	"github.com/supportdesk/knowledge-helper/internal/core/service"
)

// ChatHandler handles query submission and transcript reset.
type ChatHandler struct {
	chat     ports.ChatService
	sessions ports.SessionStore
}

func NewChatHandler(chat ports.ChatService, sessions ports.SessionStore) *ChatHandler {
	return &ChatHandler{chat: chat, sessions: sessions}
}

type chatRequest struct {
	Query string `json:"query" validate:"required,max=4000"`
}

// chatErrorResponse carries the original query back on gateway failure so
// the client can re-display it without the user retyping.
type chatErrorResponse struct {
	Error string `json:"error"`
	Query string `json:"query"`
}

// Ask submits a query to the assistant.
//
// @Summary      Ask the assistant
// @Tags         chat
// @Accept       json
// @Produce      json
// @Param        body  body      chatRequest  true  "Query"
// @Success      200   {object}  ports.ChatResult
// @Failure      400   {object}  map[string]string
// @Failure      401   {object}  map[string]string
// @Failure      502   {object}  chatErrorResponse
// @Router       /api/chat [post]
func (h *ChatHandler) Ask(c echo.Context) error {
	session, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	var req chatRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	start := time.Now()
	result, err := h.chat.Ask(c.Request().Context(), ports.ChatInput{
		SessionID: session.ID,
		Query:     req.Query,
	})

	queryType := service.ClassifyQuery(req.Query)
	if err != nil {
		if ports.IsGatewayError(err) {
			metrics.QueriesTotal.WithLabelValues(queryType, "error").Inc()
			metrics.GatewayDuration.WithLabelValues(gatewayOutcome(err)).Observe(time.Since(start).Seconds())
			return c.JSON(http.StatusBadGateway, chatErrorResponse{
				Error: "the assistant is temporarily unavailable, please try again",
				Query: req.Query,
			})
		}
		return err
	}

	metrics.QueriesTotal.WithLabelValues(queryType, "ok").Inc()
	metrics.GatewayDuration.WithLabelValues("ok").Observe(result.ProcessingSeconds)
	metrics.DocumentsMatched.Observe(float64(len(result.Sources)))

	return c.JSON(http.StatusOK, result)
}

// Reset clears the conversation transcript, keeping the session identity.
//
// @Summary      Reset conversation
// @Tags         chat
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Router       /api/chat/reset [post]
func (h *ChatHandler) Reset(c echo.Context) error {
	session, _, err := ctxIdentity(c)
	if err != nil {
		return err
	}

	if err := h.sessions.Reset(c.Request().Context(), session.ID); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "conversation reset"})
}

func gatewayOutcome(err error) string {
	switch {
	case errors.Is(err, ports.ErrRateLimited):
		return "rate_limited"
	case errors.Is(err, ports.ErrGatewayTimeout):
		return "timeout"
	default:
		return "api_error"
	}
}
