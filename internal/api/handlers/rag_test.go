package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edustack/edustack/internal/knowledge"
	"github.com/edustack/edustack/internal/llm"
	"github.com/edustack/edustack/internal/rag"
)

type stubSearcher struct {
	docs []knowledge.Document
}

func (s *stubSearcher) SearchWebQuery(ctx context.Context, q string, limit int) ([]knowledge.Document, error) {
	return s.docs, nil
}
func (s *stubSearcher) SearchPlain(ctx context.Context, q string, limit int) ([]knowledge.Document, error) {
	return nil, nil
}
func (s *stubSearcher) SearchSubstring(ctx context.Context, q string, limit int) ([]knowledge.Document, error) {
	return nil, nil
}
func (s *stubSearcher) ListActive(ctx context.Context, limit int) ([]knowledge.Document, error) {
	return nil, nil
}

type stubEmbedder struct{}

func (stubEmbedder) EmbedSingle(ctx context.Context, text string) ([]float32, error) {
	return nil, errors.New("embeddings disabled")
}

type stubGateway struct {
	content string
	err     error
}

func (g *stubGateway) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	if g.err != nil {
		return nil, g.err
	}
	return &llm.ChatResponse{Content: g.content}, nil
}

func (g *stubGateway) Embed(ctx context.Context, req llm.EmbeddingRequest) (*llm.EmbeddingResponse, error) {
	return nil, errors.New("not used")
}

func postQuery(t *testing.T, h *RAGHandler, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest("POST", "/api/v1/rag/query", strings.NewReader(body))
	rec := httptest.NewRecorder()
	h.Query(rec, req)
	return rec
}

func TestRAGQueryHandler(t *testing.T) {
	searcher := &stubSearcher{docs: []knowledge.Document{
		{ID: uuid.New(), Title: "fractions", Content: "halves and quarters"},
	}}
	engine := rag.NewEngine(searcher, stubEmbedder{}, &stubGateway{content: "the answer"}, nil, "")
	h := NewRAGHandler(engine)

	rec := postQuery(t, h, `{"query":"what are fractions"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp rag.QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "the answer", resp.Answer)
	require.Len(t, resp.Sources, 1)
	assert.Equal(t, "fractions", resp.Sources[0].Title)
}

func TestRAGQueryHandlerMissingQuery(t *testing.T) {
	h := NewRAGHandler(rag.NewEngine(&stubSearcher{}, stubEmbedder{}, &stubGateway{}, nil, ""))

	rec := postQuery(t, h, `{}`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	rec = postQuery(t, h, `not json`)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRAGQueryHandlerAnswerFailureReturnsApology(t *testing.T) {
	searcher := &stubSearcher{docs: []knowledge.Document{{ID: uuid.New(), Title: "t", Content: "c"}}}
	engine := rag.NewEngine(searcher, stubEmbedder{}, &stubGateway{err: errors.New("overloaded")}, nil, "")
	h := NewRAGHandler(engine)

	rec := postQuery(t, h, `{"query":"q"}`)
	require.Equal(t, http.StatusInternalServerError, rec.Code)

	var resp rag.QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, rag.ApologyAnswer, resp.Answer)
	assert.Empty(t, resp.Sources)
}

func TestRAGQueryHandlerNoInformation(t *testing.T) {
	engine := rag.NewEngine(&stubSearcher{}, stubEmbedder{}, &stubGateway{}, nil, "")
	h := NewRAGHandler(engine)

	rec := postQuery(t, h, `{"query":"nothing matches"}`)
	require.Equal(t, http.StatusOK, rec.Code)

	var resp rag.QueryResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, rag.NoInformationAnswer, resp.Answer)
}
