package handler

import (
	"net/http"
	"strings"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/supportdesk/knowledge-helper/internal/core/domain"
	"github.com/supportdesk/knowledge-helper/internal/core/ports"
)

// DocumentHandler serves the knowledge base listing and individual documents.
type DocumentHandler struct {
	store ports.DocumentStore
}

func NewDocumentHandler(store ports.DocumentStore) *DocumentHandler {
	return &DocumentHandler{store: store}
}

type documentResponse struct {
	Name        string    `json:"name"`
	DisplayName string    `json:"display_name"`
	SizeKB      float64   `json:"size_kb"`
	ModifiedAt  time.Time `json:"modified_at"`
	Content     string    `json:"content"`
	Highlights  []string  `json:"highlights,omitempty"`
}

// List enumerates the documents directory. Fresh scan per request.
//
// @Summary      List documents
// @Tags         documents
// @Produce      json
// @Success      200  {array}   domain.DocumentInfo
// @Failure      401  {object}  map[string]string
// @Router       /api/documents [get]
func (h *DocumentHandler) List(c echo.Context) error {
	infos, err := h.store.List(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, infos)
}

// Get returns one document's full text, optionally with the lines matching
// the highlight term.
//
// @Summary      Fetch a document
// @Tags         documents
// @Produce      json
// @Param        name       path      string  true   "Document key (e.g. pto_policy)"
// @Param        highlight  query     string  false  "Term to highlight"
// @Success      200        {object}  documentResponse
// @Failure      401        {object}  map[string]string
// @Failure      404        {object}  map[string]string
// @Router       /api/documents/{name} [get]
func (h *DocumentHandler) Get(c echo.Context) error {
	doc, err := h.store.Load(c.Request().Context(), c.Param("name"))
	if err != nil {
		return err
	}

	resp := documentResponse{
		Name:        doc.Name,
		DisplayName: domain.DisplayName(doc.Name),
		SizeKB:      float64(doc.ByteSize) / 1024,
		ModifiedAt:  doc.ModifiedAt,
		Content:     doc.RawText,
	}

	if term := strings.TrimSpace(c.QueryParam("highlight")); term != "" {
		resp.Highlights = matchingLines(doc.RawText, term)
	}

	return c.JSON(http.StatusOK, resp)
}

// matchingLines returns the trimmed lines containing term, case-insensitive.
func matchingLines(text, term string) []string {
	needle := strings.ToLower(term)
	var lines []string
	for _, l := range strings.Split(text, "\n") {
		if strings.Contains(strings.ToLower(l), needle) {
			lines = append(lines, strings.TrimSpace(l))
		}
	}
	return lines
}
