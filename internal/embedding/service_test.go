package embedding

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edustack/edustack/internal/llm"
)

type fakeGateway struct {
	lastReq llm.EmbeddingRequest
	resp    *llm.EmbeddingResponse
	err     error
}

func (g *fakeGateway) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	return nil, nil
}

func (g *fakeGateway) Embed(ctx context.Context, req llm.EmbeddingRequest) (*llm.EmbeddingResponse, error) {
	g.lastReq = req
	return g.resp, g.err
}

func TestEmbedTruncatesInputs(t *testing.T) {
	gw := &fakeGateway{resp: &llm.EmbeddingResponse{Embeddings: [][]float32{{1}, {2}}}}
	s := NewService(gw, "")

	long := strings.Repeat("x", MaxInputChars+500)
	out, err := s.Embed(context.Background(), []string{"short", long})
	require.NoError(t, err)
	assert.Len(t, out, 2)

	assert.Equal(t, "BAAI/bge-m3", gw.lastReq.Model)
	assert.Equal(t, "short", gw.lastReq.Input[0])
	assert.Len(t, gw.lastReq.Input[1], MaxInputChars)
}

func TestEmbedEmptyInput(t *testing.T) {
	s := NewService(&fakeGateway{}, "")
	out, err := s.Embed(context.Background(), nil)
	require.NoError(t, err)
	assert.Nil(t, out)
}

func TestEmbedSingleNoEmbeddingReturned(t *testing.T) {
	gw := &fakeGateway{resp: &llm.EmbeddingResponse{}}
	s := NewService(gw, "custom/model")

	_, err := s.EmbedSingle(context.Background(), "text")
	require.Error(t, err)
	assert.Equal(t, "custom/model", gw.lastReq.Model)
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "abc", Truncate("abc"))
	long := strings.Repeat("y", MaxInputChars+1)
	assert.Len(t, Truncate(long), MaxInputChars)
}
