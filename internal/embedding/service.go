package embedding

import (
	"context"
	"fmt"

	"github.com/edustack/edustack/internal/llm"
)

// MaxInputChars bounds the text sent per embedding request; document content
// beyond this is ignored for similarity purposes.
const MaxInputChars = 1500

type Service struct {
	gateway llm.Gateway
	model   string
}

func NewService(gw llm.Gateway, model string) *Service {
	if model == "" {
		model = "BAAI/bge-m3"
	}
	return &Service{gateway: gw, model: model}
}

func (s *Service) Embed(ctx context.Context, texts []string) ([][]float32, error) {
	if len(texts) == 0 {
		return nil, nil
	}

	input := make([]string, len(texts))
	for i, t := range texts {
		input[i] = Truncate(t)
	}

	resp, err := s.gateway.Embed(ctx, llm.EmbeddingRequest{
		Model: s.model,
		Input: input,
	})
	if err != nil {
		return nil, fmt.Errorf("embed: %w", err)
	}
	return resp.Embeddings, nil
}

func (s *Service) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	embeddings, err := s.Embed(ctx, []string{text})
	if err != nil {
		return nil, err
	}
	if len(embeddings) == 0 {
		return nil, fmt.Errorf("no embedding returned")
	}
	return embeddings[0], nil
}

// Truncate caps text at MaxInputChars.
func Truncate(text string) string {
	if len(text) <= MaxInputChars {
		return text
	}
	return text[:MaxInputChars]
}
