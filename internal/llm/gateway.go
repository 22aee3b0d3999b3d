package llm

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/edustack/edustack/internal/config"
)

type gateway struct {
	openai     Provider
	anthropic  Provider
	maxRetries int
}

// NewGateway builds a gateway over the configured providers. Models named
// claude-* are routed to Anthropic when a key is configured; everything else
// goes to the OpenAI-compatible inference API.
func NewGateway(cfg config.InferenceConfig) Gateway {
	g := &gateway{maxRetries: cfg.MaxRetries}
	g.openai = NewOpenAIProvider(cfg.APIKey, cfg.BaseURL)
	if cfg.AnthropicKey != "" {
		g.anthropic = NewAnthropicProvider(cfg.AnthropicKey)
	}
	return g
}

func (g *gateway) providerFor(model string) Provider {
	if g.anthropic != nil && strings.HasPrefix(strings.ToLower(model), "claude") {
		return g.anthropic
	}
	return g.openai
}

func (g *gateway) Chat(ctx context.Context, req ChatRequest) (*ChatResponse, error) {
	p := g.providerFor(req.Model)

	var lastErr error
	for attempt := 0; attempt <= g.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(attempt*attempt) * 500 * time.Millisecond
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
			slog.Debug("retrying chat call", "provider", p.Name(), "attempt", attempt)
		}

		resp, err := p.ChatCompletion(ctx, req)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}
	return nil, fmt.Errorf("all retries exhausted for %s: %w", p.Name(), lastErr)
}

func (g *gateway) Embed(ctx context.Context, req EmbeddingRequest) (*EmbeddingResponse, error) {
	return g.openai.GenerateEmbedding(ctx, req)
}
