package generate

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edustack/edustack/internal/fetch"
	"github.com/edustack/edustack/internal/llm"
)

type fakeGateway struct {
	lastChat  llm.ChatRequest
	chatResp  *llm.ChatResponse
	chatErr   error
	embedResp *llm.EmbeddingResponse
	embedErr  error
}

func (g *fakeGateway) Chat(ctx context.Context, req llm.ChatRequest) (*llm.ChatResponse, error) {
	g.lastChat = req
	if g.chatErr != nil {
		return nil, g.chatErr
	}
	if g.chatResp != nil {
		return g.chatResp, nil
	}
	return &llm.ChatResponse{Model: req.Model, Content: "generated"}, nil
}

func (g *fakeGateway) Embed(ctx context.Context, req llm.EmbeddingRequest) (*llm.EmbeddingResponse, error) {
	if g.embedErr != nil {
		return nil, g.embedErr
	}
	return g.embedResp, nil
}

type fakeFetcher struct {
	file    *fetch.File
	err     error
	lastURL string
}

func (f *fakeFetcher) Fetch(ctx context.Context, url string) (*fetch.File, error) {
	f.lastURL = url
	if f.err != nil {
		return nil, f.err
	}
	return f.file, nil
}

func textOnlyDispatcher(gw llm.Gateway, fetcher fetch.Fetcher) *Dispatcher {
	return &Dispatcher{text: NewTextStrategy(gw, fetcher)}
}

func TestDispatchRequiresPrompt(t *testing.T) {
	d := textOnlyDispatcher(&fakeGateway{}, nil)

	for _, typ := range []Type{TypeCourseware, TypeDocument, TypeImage, TypeAudio, TypeVideo} {
		res := d.Dispatch(context.Background(), Request{Type: typ, Prompt: "   "})
		assert.False(t, res.Success, "type %s", typ)
		assert.Equal(t, "prompt is required", res.Error)
		assert.Equal(t, string(typ), res.GenerationType)
	}
}

func TestDispatchSpeechToTextRequiresFile(t *testing.T) {
	d := textOnlyDispatcher(&fakeGateway{}, nil)

	res := d.Dispatch(context.Background(), Request{Type: TypeSpeechToText})
	assert.False(t, res.Success)
	assert.Contains(t, res.Error, "audio file is required")
}

func TestDispatchUnknownTypeUsesTextStrategy(t *testing.T) {
	gw := &fakeGateway{}
	d := textOnlyDispatcher(gw, nil)

	res := d.Dispatch(context.Background(), Request{Type: "mystery", Prompt: "explain recursion"})
	require.True(t, res.Success)
	assert.Equal(t, "generated", res.Content)
	assert.Equal(t, "mystery", res.GenerationType)

	require.Len(t, gw.lastChat.Messages, 2)
	assert.Equal(t, genericSystemPrompt, gw.lastChat.Messages[0].Content)
}

func TestDispatchCoursewareSystemPrompt(t *testing.T) {
	gw := &fakeGateway{}
	d := textOnlyDispatcher(gw, nil)

	res := d.Dispatch(context.Background(), Request{Type: TypeCourseware, Prompt: "intro to fractions"})
	require.True(t, res.Success)
	assert.Equal(t, systemPrompts[TypeCourseware], gw.lastChat.Messages[0].Content)
}

func TestDispatchConvertsStrategyError(t *testing.T) {
	gw := &fakeGateway{chatErr: errors.New("upstream exploded")}
	d := textOnlyDispatcher(gw, nil)

	res := d.Dispatch(context.Background(), Request{Type: TypeDocument, Prompt: "write a syllabus", Model: "deepseek-ai/DeepSeek-V3"})
	assert.False(t, res.Success)
	assert.Equal(t, "upstream exploded", res.Error)
	assert.Equal(t, "deepseek-ai/DeepSeek-V3", res.Model)
	assert.Empty(t, res.Content)
}

func TestResolveModel(t *testing.T) {
	supported := map[string]bool{"a": true, "b": true}

	assert.Equal(t, "a", resolveModel("a", supported, "def"))
	assert.Equal(t, "def", resolveModel("unknown", supported, "def"))
	assert.Equal(t, "def", resolveModel("", supported, "def"))
}
