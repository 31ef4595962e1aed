// Package llm is the gateway to the hosted chat-completions API. One network
// call per query, no retry loop — failures surface as the gateway error
// taxonomy and the caller decides what the user sees.
package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/sashabaranov/go-openai"

	"github.com/supportdesk/knowledge-helper/internal/core/ports"
)

// Config captures the settings for the external model API.
type Config struct {
	APIKey    string
	BaseURL   string
	Model     string
	MaxTokens int
	Timeout   time.Duration
}

type Gateway struct {
	client    *openai.Client
	model     string
	maxTokens int
	timeout   time.Duration
}

func NewGateway(cfg Config) *Gateway {
	clientCfg := openai.DefaultConfig(cfg.APIKey)
	if cfg.BaseURL != "" {
		clientCfg.BaseURL = cfg.BaseURL
	}

	maxTokens := cfg.MaxTokens
	if maxTokens <= 0 {
		maxTokens = 1024
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 60 * time.Second
	}

	return &Gateway{
		client:    openai.NewClientWithConfig(clientCfg),
		model:     cfg.Model,
		maxTokens: maxTokens,
		timeout:   timeout,
	}
}

var _ ports.LLMGateway = (*Gateway)(nil)

// Ask sends the assembled payload and returns the textual reply with the
// observed latency.
func (g *Gateway) Ask(ctx context.Context, payload ports.Payload) (*ports.Answer, error) {
	ctx, cancel := context.WithTimeout(ctx, g.timeout)
	defer cancel()

	req := openai.ChatCompletionRequest{
		Model:     g.model,
		MaxTokens: g.maxTokens,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleSystem, Content: payload.System},
			{Role: openai.ChatMessageRoleUser, Content: payload.Prompt},
		},
	}

	start := time.Now()
	resp, err := g.client.CreateChatCompletion(ctx, req)
	latency := time.Since(start)
	if err != nil {
		return nil, classify(err)
	}

	if len(resp.Choices) == 0 {
		return nil, fmt.Errorf("%w: empty completion", ports.ErrAPIFailure)
	}

	return &ports.Answer{
		Text:    resp.Choices[0].Message.Content,
		Latency: latency,
	}, nil
}

// classify maps transport and API errors onto the gateway taxonomy.
func classify(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ports.ErrGatewayTimeout, err)
	}

	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		switch apiErr.HTTPStatusCode {
		case http.StatusTooManyRequests:
			return fmt.Errorf("%w: %v", ports.ErrRateLimited, err)
		case http.StatusGatewayTimeout, http.StatusRequestTimeout:
			return fmt.Errorf("%w: %v", ports.ErrGatewayTimeout, err)
		}
	}

	return fmt.Errorf("%w: %v", ports.ErrAPIFailure, err)
}
