package rag

import (
	"context"
	"log/slog"
	"math"
	"sort"
	"sync"

	"github.com/edustack/edustack/internal/embedding"
	"github.com/edustack/edustack/internal/knowledge"
)

// RankedDocument pairs a candidate with its relevance score in [0,1].
type RankedDocument struct {
	Doc   knowledge.Document
	Score float64
}

// rank orders candidates by cosine similarity to the query embedding. If the
// query embedding cannot be obtained, every candidate keeps its search-stage
// position with a fixed score; a single document's embedding failure likewise
// only costs that document its score, never its place in the result set.
func (e *Engine) rank(ctx context.Context, query string, docs []knowledge.Document) ([]RankedDocument, bool) {
	ranked := make([]RankedDocument, len(docs))
	for i, d := range docs {
		ranked[i] = RankedDocument{Doc: d, Score: fallbackScore}
	}

	queryVec, err := e.queryEmbedding(ctx, query)
	if err != nil {
		slog.Warn("query embedding unavailable, skipping rerank", "error", err)
		return ranked, false
	}

	// Document embeddings are independent; compute them concurrently and
	// join before sorting. Completion order is irrelevant.
	var wg sync.WaitGroup
	for i := range ranked {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			docVec := ranked[i].Doc.Embedding
			if len(docVec) == 0 {
				var err error
				docVec, err = e.embedder.EmbedSingle(ctx, embedding.Truncate(ranked[i].Doc.Content))
				if err != nil {
					slog.Warn("document embedding failed", "document_id", ranked[i].Doc.ID, "error", err)
					return
				}
			}
			ranked[i].Score = clamp01(CosineSimilarity(queryVec, docVec))
		}(i)
	}
	wg.Wait()

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].Score > ranked[j].Score
	})
	return ranked, true
}

// CosineSimilarity computes the cosine of the angle between two vectors.
// Mismatched or zero-magnitude vectors score 0.
func CosineSimilarity(a, b []float32) float64 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}

	var dot, magA, magB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		magA += float64(a[i]) * float64(a[i])
		magB += float64(b[i]) * float64(b[i])
	}
	if magA == 0 || magB == 0 {
		return 0
	}
	return dot / (math.Sqrt(magA) * math.Sqrt(magB))
}

func clamp01(v float64) float64 {
	switch {
	case v < 0:
		return 0
	case v > 1:
		return 1
	default:
		return v
	}
}
