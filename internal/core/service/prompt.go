package service

import (
	"fmt"
	"strings"

	"github.com/supportdesk/knowledge-helper/internal/core/domain"
	"github.com/supportdesk/knowledge-helper/internal/core/ports"
)

const (
	defaultMaxPayloadBytes = 48 * 1024
	defaultHistoryTurns    = 10
)

const systemInstruction = `You are an internal company assistant helping employees find information quickly and accurately. You have access to the complete text of relevant company documents and can answer detailed questions about policies, procedures, and benefits.

Instructions:
- Answer from the provided document content; quote directly when citing specific details.
- Reference specific sections, policies, or procedures when applicable.
- Maintain conversational context and reference previous discussion when relevant.
- If the information is not in the provided documents, say so clearly and suggest an appropriate contact.`

const noSourceNote = `No company document matched this question. Say that no specific source was found and answer only from general knowledge of typical workplace processes, recommending the employee confirm with HR or IT.`

// PromptAssembler concatenates system instructions, full document bodies
// (completeness over token economy) and recent transcript turns into a
// single request payload, truncating to fit the external API's ceiling.
type PromptAssembler struct {
	maxBytes     int
	historyTurns int
}

func NewPromptAssembler(maxBytes, historyTurns int) *PromptAssembler {
	if maxBytes <= 0 {
		maxBytes = defaultMaxPayloadBytes
	}
	if historyTurns <= 0 {
		historyTurns = defaultHistoryTurns
	}
	return &PromptAssembler{maxBytes: maxBytes, historyTurns: historyTurns}
}

var _ ports.PromptAssembler = (*PromptAssembler)(nil)

// Build assembles the payload. Over the ceiling it drops the oldest
// transcript turn first, then the lowest-scoring document, and reassembles;
// each step strictly shrinks the payload and the query is never dropped.
func (a *PromptAssembler) Build(query string, matches []domain.RelevanceMatch, transcript []domain.Turn, user *domain.User) ports.Payload {
	turns := recentTurns(transcript, a.historyTurns)
	docs := append([]domain.RelevanceMatch(nil), matches...)

	payload := a.assemble(query, docs, turns, user)
	for payload.Size() > a.maxBytes {
		switch {
		case len(turns) > 0:
			turns = turns[1:]
		case len(docs) > 0:
			// matches arrive ordered best-first; the weakest is last
			docs = docs[:len(docs)-1]
		default:
			return payload
		}
		payload = a.assemble(query, docs, turns, user)
	}
	return payload
}

func (a *PromptAssembler) assemble(query string, docs []domain.RelevanceMatch, turns []domain.Turn, user *domain.User) ports.Payload {
	system := systemInstruction
	if len(docs) == 0 {
		system += "\n\n" + noSourceNote
	}

	var b strings.Builder
	if user != nil {
		fmt.Fprintf(&b, "Employee: %s (%s department)\n", user.DisplayName, user.Department)
	}

	for i, m := range docs {
		fmt.Fprintf(&b, "\nDocument_%d - %s:\n%s\n", i+1, m.Document.Name, cleanBody(m.Document.RawText))
	}

	if len(turns) > 0 {
		b.WriteString("\nPrevious conversation:\n")
		for _, t := range turns {
			label := "Employee"
			if t.Speaker == domain.SpeakerAssistant {
				label = "Assistant"
			}
			fmt.Fprintf(&b, "%s: %s\n", label, t.Text)
		}
	}

	fmt.Fprintf(&b, "\nCurrent employee question: %s\n", query)

	return ports.Payload{System: system, Prompt: b.String()}
}

// recentTurns keeps the last n turns, oldest first.
func recentTurns(transcript []domain.Turn, n int) []domain.Turn {
	if len(transcript) <= n {
		return append([]domain.Turn(nil), transcript...)
	}
	return append([]domain.Turn(nil), transcript[len(transcript)-n:]...)
}

// cleanBody drops blank lines and trims whitespace, keeping structure.
func cleanBody(text string) string {
	lines := strings.Split(text, "\n")
	kept := lines[:0]
	for _, l := range lines {
		if t := strings.TrimSpace(l); t != "" {
			kept = append(kept, t)
		}
	}
	return strings.Join(kept, "\n")
}
