package ports

import (
	"context"

	"github.com/supportdesk/knowledge-helper/internal/core/domain"
)

// SourceRef is a cited document in a chat answer. Scores stay internal.
type SourceRef struct {
	Document     string   `json:"document"`
	DisplayName  string   `json:"display_name"`
	MatchedTerms []string `json:"matched_terms,omitempty"`
	Highlight    string   `json:"highlight,omitempty"`
}

// ChatInput is one query against an authenticated session.
type ChatInput struct {
	SessionID string
	Query     string
}

// ChatResult is the answer returned to the client. On gateway failure the
// handler surfaces a generic message and echoes Query so nothing is retyped.
type ChatResult struct {
	Response          string      `json:"response"`
	Sources           []SourceRef `json:"sources"`
	ProcessingSeconds float64     `json:"processing_time"`
	Query             string      `json:"query"`
}

type ChatService interface {
	Ask(ctx context.Context, input ChatInput) (*ChatResult, error)
}

// RelevanceSelector scores documents against a query and returns the top
// matches above threshold, most relevant first.
type RelevanceSelector interface {
	Select(query string, documents []domain.Document) []domain.RelevanceMatch
}

// PromptAssembler builds the model payload from the selected documents, the
// recent transcript and the current query, truncating to the size ceiling.
type PromptAssembler interface {
	Build(query string, matches []domain.RelevanceMatch, transcript []domain.Turn, user *domain.User) Payload
}
