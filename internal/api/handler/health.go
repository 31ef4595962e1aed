package handler

import (
	"net/http"
	"os"

	"github.com/labstack/echo/v4"
)

// HealthHandler handles GET /health — liveness probe.
// Returns 200 immediately; confirms the process is alive.
type HealthHandler struct{}

func NewHealthHandler() *HealthHandler {
	return &HealthHandler{}
}

func (h *HealthHandler) Liveness(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{
		"status": "ok",
	})
}

// ReadinessHandler handles GET /health/ready — readiness probe. The service
// has no database; readiness means the documents directory and the user
// registry are reachable and the gateway is configured.
type ReadinessHandler struct {
	documentsDir string
	usersFile    string
	llmKeySet    bool
}

func NewReadinessHandler(documentsDir, usersFile string, llmKeySet bool) *ReadinessHandler {
	return &ReadinessHandler{
		documentsDir: documentsDir,
		usersFile:    usersFile,
		llmKeySet:    llmKeySet,
	}
}

type dependencyStatus struct {
	Status string `json:"status"`
	Error  string `json:"error,omitempty"`
}

type readinessResponse struct {
	Status       string                      `json:"status"`
	Dependencies map[string]dependencyStatus `json:"dependencies"`
}

func (h *ReadinessHandler) Readiness(c echo.Context) error {
	deps := make(map[string]dependencyStatus)
	healthy := true

	if st, err := os.Stat(h.documentsDir); err != nil || !st.IsDir() {
		deps["documents_dir"] = dependencyStatus{Status: "unhealthy", Error: "documents directory not readable"}
		healthy = false
	} else {
		deps["documents_dir"] = dependencyStatus{Status: "ok"}
	}

	if _, err := os.Stat(h.usersFile); err != nil {
		deps["user_registry"] = dependencyStatus{Status: "unhealthy", Error: "user registry file not readable"}
		healthy = false
	} else {
		deps["user_registry"] = dependencyStatus{Status: "ok"}
	}

	if !h.llmKeySet {
		deps["llm_gateway"] = dependencyStatus{Status: "unhealthy", Error: "api key not configured"}
		healthy = false
	} else {
		deps["llm_gateway"] = dependencyStatus{Status: "ok"}
	}

	status := "ok"
	httpStatus := http.StatusOK
	if !healthy {
		status = "degraded"
		httpStatus = http.StatusServiceUnavailable
	}

	return c.JSON(httpStatus, readinessResponse{
		Status:       status,
		Dependencies: deps,
	})
}
