package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/supportdesk/knowledge-helper/internal/core/ports"
)

// AnalyticsHandler exposes the usage report and the explicit registry
// reload trigger. Both routes sit behind admin RBAC.
type AnalyticsHandler struct {
	recorder    ports.AnalyticsRecorder
	credentials ports.CredentialStore
}

func NewAnalyticsHandler(recorder ports.AnalyticsRecorder, credentials ports.CredentialStore) *AnalyticsHandler {
	return &AnalyticsHandler{recorder: recorder, credentials: credentials}
}

// Report aggregates the full record set on demand.
//
// @Summary      Usage analytics
// @Tags         analytics
// @Produce      json
// @Success      200  {object}  domain.UsageReport
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/analytics [get]
func (h *AnalyticsHandler) Report(c echo.Context) error {
	report, err := h.recorder.Aggregate(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, report)
}

// ReloadUsers re-reads the credential registry file. This is the only way
// the registry changes at runtime — there is no live reload.
//
// @Summary      Reload the user registry
// @Tags         analytics
// @Produce      json
// @Success      200  {object}  map[string]string
// @Failure      401  {object}  map[string]string
// @Failure      403  {object}  map[string]string
// @Router       /api/users/reload [post]
func (h *AnalyticsHandler) ReloadUsers(c echo.Context) error {
	if err := h.credentials.Reload(c.Request().Context()); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, map[string]string{"status": "registry reloaded"})
}
