package ports

import (
	"context"
	"errors"
	"time"
)

var ErrRateLimited = errors.New("llm rate limited")
var ErrGatewayTimeout = errors.New("llm request timed out")
var ErrAPIFailure = errors.New("llm api failure")

// IsGatewayError reports whether err belongs to the gateway failure taxonomy.
func IsGatewayError(err error) bool {
	return errors.Is(err, ErrRateLimited) ||
		errors.Is(err, ErrGatewayTimeout) ||
		errors.Is(err, ErrAPIFailure)
}

// Payload is an assembled model request: system instructions plus a single
// user message carrying document context, recent history and the query.
type Payload struct {
	System string
	Prompt string
}

// Size is the byte size of the payload as sent, used against the ceiling.
func (p Payload) Size() int {
	return len(p.System) + len(p.Prompt)
}

// Answer is the model reply with the observed round-trip latency.
type Answer struct {
	Text    string
	Latency time.Duration
}

// LLMGateway performs the single external network call per query. One
// attempt only; failures propagate as one of the errors above.
type LLMGateway interface {
	Ask(ctx context.Context, payload Payload) (*Answer, error)
}
