package rag

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"

	"github.com/edustack/edustack/internal/knowledge"
	"github.com/edustack/edustack/internal/llm"
)

const (
	searchLimit      = 10
	topSources       = 5
	fallbackDocCount = 5
	contextChars     = 1000
	contextDelimiter = "\n\n---\n\n"

	// Score assigned when similarity cannot be computed.
	fallbackScore = 0.5

	// NoInformationAnswer is returned when the corpus itself is empty.
	NoInformationAnswer = "I could not find any information in the knowledge base for this question."

	// ApologyAnswer is returned when answer generation itself fails.
	ApologyAnswer = "Sorry, something went wrong while answering your question. Please try again later."
)

// Searcher is the document-store boundary: the four cascade stages the
// engine falls through, ordered from strictest to loosest.
type Searcher interface {
	SearchWebQuery(ctx context.Context, query string, limit int) ([]knowledge.Document, error)
	SearchPlain(ctx context.Context, query string, limit int) ([]knowledge.Document, error)
	SearchSubstring(ctx context.Context, query string, limit int) ([]knowledge.Document, error)
	ListActive(ctx context.Context, limit int) ([]knowledge.Document, error)
}

// Embedder produces one embedding for a piece of text.
type Embedder interface {
	EmbedSingle(ctx context.Context, text string) ([]float32, error)
}

// EmbeddingCache is an optional read-through cache for query embeddings.
type EmbeddingCache interface {
	Get(ctx context.Context, text string) ([]float32, bool)
	Put(ctx context.Context, text string, vec []float32)
}

// Source is a cited document in a query response.
type Source struct {
	ID             uuid.UUID `json:"id"`
	Title          string    `json:"title"`
	Summary        string    `json:"summary"`
	RelevanceScore float64   `json:"relevanceScore"`
}

type QueryResponse struct {
	Answer  string     `json:"answer"`
	Sources []Source   `json:"sources"`
	Debug   *DebugInfo `json:"debug,omitempty"`
}

// DebugInfo reports which cascade stage produced the candidates and whether
// embedding ranking was applied.
type DebugInfo struct {
	SearchStage string `json:"searchStage"`
	Candidates  int    `json:"candidates"`
	Ranked      bool   `json:"ranked"`
}

// Engine answers free-text questions over the knowledge corpus: cascading
// search, optional embedding rerank, bounded context assembly, one chat call.
type Engine struct {
	searcher    Searcher
	embedder    Embedder
	gateway     llm.Gateway
	cache       EmbeddingCache
	answerModel string
}

func NewEngine(searcher Searcher, embedder Embedder, gw llm.Gateway, cache EmbeddingCache, answerModel string) *Engine {
	if answerModel == "" {
		answerModel = "deepseek-ai/DeepSeek-V3"
	}
	return &Engine{
		searcher:    searcher,
		embedder:    embedder,
		gateway:     gw,
		cache:       cache,
		answerModel: answerModel,
	}
}

// Query runs the full pipeline. The returned error covers only answer
// generation failure; every retrieval or ranking problem degrades silently.
func (e *Engine) Query(ctx context.Context, query string) (*QueryResponse, error) {
	docs, stage := e.searchCascade(ctx, query)
	if len(docs) == 0 {
		return &QueryResponse{
			Answer:  NoInformationAnswer,
			Sources: []Source{},
			Debug:   &DebugInfo{SearchStage: stage},
		}, nil
	}

	ranked, usedEmbeddings := e.rank(ctx, query, docs)
	if len(ranked) > topSources {
		ranked = ranked[:topSources]
	}

	answer, err := e.generateAnswer(ctx, query, ranked)
	if err != nil {
		return nil, fmt.Errorf("generate answer: %w", err)
	}

	sources := make([]Source, len(ranked))
	for i, rd := range ranked {
		sources[i] = Source{
			ID:             rd.Doc.ID,
			Title:          rd.Doc.Title,
			Summary:        rd.Doc.Summary,
			RelevanceScore: rd.Score,
		}
	}

	return &QueryResponse{
		Answer:  answer,
		Sources: sources,
		Debug: &DebugInfo{
			SearchStage: stage,
			Candidates:  len(docs),
			Ranked:      usedEmbeddings,
		},
	}, nil
}

// searchCascade tries each stage only when the previous produced nothing.
// Stage errors are treated as empty results so a degraded index never takes
// the whole query down.
func (e *Engine) searchCascade(ctx context.Context, query string) ([]knowledge.Document, string) {
	stages := []struct {
		name string
		run  func() ([]knowledge.Document, error)
	}{
		{"fulltext", func() ([]knowledge.Document, error) { return e.searcher.SearchWebQuery(ctx, query, searchLimit) }},
		{"plain", func() ([]knowledge.Document, error) { return e.searcher.SearchPlain(ctx, query, searchLimit) }},
		{"substring", func() ([]knowledge.Document, error) { return e.searcher.SearchSubstring(ctx, query, searchLimit) }},
		{"fallback-all", func() ([]knowledge.Document, error) { return e.searcher.ListActive(ctx, fallbackDocCount) }},
	}

	for _, stage := range stages {
		docs, err := stage.run()
		if err != nil {
			slog.Warn("search stage failed", "stage", stage.name, "error", err)
			continue
		}
		if len(docs) > 0 {
			return docs, stage.name
		}
	}
	return nil, "empty"
}

func (e *Engine) queryEmbedding(ctx context.Context, query string) ([]float32, error) {
	if e.cache != nil {
		if vec, ok := e.cache.Get(ctx, query); ok {
			return vec, nil
		}
	}
	vec, err := e.embedder.EmbedSingle(ctx, query)
	if err != nil {
		return nil, err
	}
	if e.cache != nil {
		e.cache.Put(ctx, query, vec)
	}
	return vec, nil
}

func (e *Engine) generateAnswer(ctx context.Context, query string, ranked []RankedDocument) (string, error) {
	contextStr := buildContext(ranked)

	system := fmt.Sprintf(`You are a knowledge-base assistant for an educational platform.
Answer the user's question using ONLY the reference material below. If the material does not contain the answer, say explicitly that the knowledge base has no information on this. Respond in the same language as the question.

Reference material:
%s`, contextStr)

	resp, err := e.gateway.Chat(ctx, llm.ChatRequest{
		Model: e.answerModel,
		Messages: []llm.Message{
			{Role: "system", Content: system},
			{Role: "user", Content: query},
		},
		Temperature: 0.3,
		MaxTokens:   1500,
	})
	if err != nil {
		return "", err
	}
	return resp.Content, nil
}

// buildContext concatenates title/content blocks, each content bounded, so
// total prompt size stays bounded too.
func buildContext(ranked []RankedDocument) string {
	blocks := make([]string, len(ranked))
	for i, rd := range ranked {
		blocks[i] = fmt.Sprintf("title: %s\ncontent: %s", rd.Doc.Title, truncate(rd.Doc.Content, contextChars))
	}
	return strings.Join(blocks, contextDelimiter)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen]
}
