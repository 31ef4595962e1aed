package service

import (
	"context"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/supportdesk/knowledge-helper/internal/core/domain"
	"github.com/supportdesk/knowledge-helper/internal/core/ports"
)

const highlightMaxLen = 200

// ChatService orchestrates one query/response cycle: resolve session, load
// documents fresh, select relevant ones, assemble the prompt, call the
// model, append the exchange to the transcript and record analytics.
type ChatService struct {
	sessions    ports.SessionStore
	credentials ports.CredentialStore
	documents   ports.DocumentStore
	selector    ports.RelevanceSelector
	assembler   ports.PromptAssembler
	gateway     ports.LLMGateway
	recorder    ports.AnalyticsRecorder
	logger      zerolog.Logger
}

func NewChatService(
	sessions ports.SessionStore,
	credentials ports.CredentialStore,
	documents ports.DocumentStore,
	selector ports.RelevanceSelector,
	assembler ports.PromptAssembler,
	gateway ports.LLMGateway,
	recorder ports.AnalyticsRecorder,
	logger zerolog.Logger,
) *ChatService {
	return &ChatService{
		sessions:    sessions,
		credentials: credentials,
		documents:   documents,
		selector:    selector,
		assembler:   assembler,
		gateway:     gateway,
		recorder:    recorder,
		logger:      logger,
	}
}

var _ ports.ChatService = (*ChatService)(nil)

// Ask processes a single query. A gateway failure is recorded with the
// error flag set and propagated so the handler can return a retryable
// message; the transcript is left untouched in that case.
func (s *ChatService) Ask(ctx context.Context, input ports.ChatInput) (*ports.ChatResult, error) {
	start := time.Now()

	session, err := s.sessions.Resolve(ctx, input.SessionID)
	if err != nil {
		return nil, err
	}
	user, err := s.credentials.Lookup(ctx, session.Username)
	if err != nil {
		return nil, domain.ErrInvalidSession
	}

	// Read fresh on every request; a failed directory scan degrades to an
	// uncited answer instead of failing the query.
	docs, err := s.documents.LoadAll(ctx)
	if err != nil {
		s.logger.Warn().Err(err).Msg("document scan failed, answering without sources")
		docs = nil
	}

	matches := s.selector.Select(input.Query, docs)
	payload := s.assembler.Build(input.Query, matches, session.Transcript, user)

	answer, err := s.gateway.Ask(ctx, payload)
	elapsed := time.Since(start)

	if err != nil {
		s.logger.Error().Err(err).Str("username", user.Username).Msg("gateway call failed")
		s.record(ctx, user, input.Query, 0, nil, elapsed, true)
		return nil, err
	}

	now := time.Now().UTC()
	if err := s.sessions.AppendTurn(ctx, session.ID, domain.Turn{
		Speaker: domain.SpeakerUser, Text: input.Query, Timestamp: now,
	}); err != nil {
		return nil, err
	}
	if err := s.sessions.AppendTurn(ctx, session.ID, domain.Turn{
		Speaker: domain.SpeakerAssistant, Text: answer.Text, Timestamp: now,
	}); err != nil {
		return nil, err
	}

	sources := buildSources(matches, input.Query)
	docNames := make([]string, len(matches))
	for i, m := range matches {
		docNames[i] = m.Document.Name
	}
	s.record(ctx, user, input.Query, len(answer.Text), docNames, elapsed, false)

	s.logger.Info().
		Str("username", user.Username).
		Int("documents_matched", len(matches)).
		Dur("latency", answer.Latency).
		Msg("query answered")

	return &ports.ChatResult{
		Response:          answer.Text,
		Sources:           sources,
		ProcessingSeconds: elapsed.Seconds(),
		Query:             input.Query,
	}, nil
}

func (s *ChatService) record(ctx context.Context, user *domain.User, query string, responseLen int, docs []string, elapsed time.Duration, failed bool) {
	rec := domain.InteractionRecord{
		ID:             uuid.NewString(),
		Timestamp:      time.Now().UTC(),
		UserID:         user.EmployeeID,
		Department:     user.Department,
		Query:          query,
		QueryType:      ClassifyQuery(query),
		ResponseLength: responseLen,
		DocumentsUsed:  docs,
		ProcessingTime: elapsed,
		Error:          failed,
	}
	if err := s.recorder.Record(ctx, rec); err != nil {
		s.logger.Warn().Err(err).Msg("failed to record interaction")
	}
}

// buildSources converts matches into citations with a short highlight: the
// first lines containing a matched term, capped at highlightMaxLen.
func buildSources(matches []domain.RelevanceMatch, query string) []ports.SourceRef {
	if len(matches) == 0 {
		return nil
	}
	terms := Tokenize(query)
	sources := make([]ports.SourceRef, 0, len(matches))
	for _, m := range matches {
		sources = append(sources, ports.SourceRef{
			Document:     m.Document.Name,
			DisplayName:  domain.DisplayName(m.Document.Name),
			MatchedTerms: m.MatchedTerms,
			Highlight:    highlightSnippet(m.Document.RawText, terms),
		})
	}
	return sources
}

func highlightSnippet(text string, terms []string) string {
	var picked []string
	for _, line := range strings.Split(text, "\n") {
		lower := strings.ToLower(line)
		for _, t := range terms {
			if strings.Contains(lower, t) {
				picked = append(picked, strings.TrimSpace(line))
				break
			}
		}
		if len(picked) == 2 {
			break
		}
	}
	snippet := strings.Join(picked, "\n")
	if snippet == "" && len(text) > 0 {
		snippet = text
	}
	if len(snippet) > highlightMaxLen {
		cut := highlightMaxLen
		for cut > 0 && !utf8.RuneStart(snippet[cut]) {
			cut--
		}
		snippet = snippet[:cut] + "..."
	}
	return snippet
}

// queryCategories maps analytics categories to their trigger words, checked
// in order so the more specific buckets win.
var queryCategories = []struct {
	label string
	words []string
}{
	{"PTO & Leave", []string{"pto", "vacation", "time off", "leave", "holiday"}},
	{"Health Benefits", []string{"health", "medical", "benefits", "insurance", "dental"}},
	{"IT Security", []string{"security", "password", "it policy", "vpn", "network"}},
	{"Employee Handbook", []string{"handbook", "policy", "employee", "work hours", "dress code"}},
	{"Organization", []string{"organization", "structure", "contact", "email", "phone"}},
	{"AI Usage", []string{"claude", "ai ", "usage policy"}},
}

// ClassifyQuery buckets a query into a fixed category set for analytics.
func ClassifyQuery(query string) string {
	q := strings.ToLower(query)
	for _, cat := range queryCategories {
		for _, w := range cat.words {
			if strings.Contains(q, w) {
				return cat.label
			}
		}
	}
	return "General"
}
