package generate

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edustack/edustack/internal/config"
	"github.com/edustack/edustack/internal/fetch"
	"github.com/edustack/edustack/internal/inference"
)

func imageClient(t *testing.T, response map[string]any) *inference.Client {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/images/generations", r.URL.Path)
		json.NewEncoder(w).Encode(response)
	}))
	t.Cleanup(srv.Close)

	c := inference.NewClient(config.InferenceConfig{APIKey: "k"})
	c.SetBaseURL(srv.URL)
	return c
}

func TestImageGenerateInlineBase64(t *testing.T) {
	client := imageClient(t, map[string]any{
		"data": []map[string]string{{"b64_json": "aW1hZ2U="}},
	})
	s := NewImageStrategy(client, &fakeFetcher{})

	res, err := s.Generate(context.Background(), Request{Type: TypeImage, Prompt: "a fox"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, "aW1hZ2U=", res.ImageBase64)
	assert.Empty(t, res.ImageURL)
	assert.Equal(t, defaultImageModel, res.Model)
}

func TestImageGenerateKolorsReencodesHostedURL(t *testing.T) {
	client := imageClient(t, map[string]any{
		"images": []map[string]string{{"url": "https://cdn.example.com/out.png"}},
	})
	fetcher := &fakeFetcher{file: &fetch.File{Data: []byte("png-bytes"), ContentType: "image/png", Size: 9}}
	s := NewImageStrategy(client, fetcher)

	res, err := s.Generate(context.Background(), Request{Type: TypeImage, Prompt: "a fox", Model: "Kwai-Kolors/Kolors"})
	require.NoError(t, err)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("png-bytes")), res.ImageBase64)
	assert.Empty(t, res.ImageURL)
	assert.Equal(t, "https://cdn.example.com/out.png", fetcher.lastURL)
}

func TestImageGenerateKolorsDegradesToURLOnFetchFailure(t *testing.T) {
	client := imageClient(t, map[string]any{
		"images": []map[string]string{{"url": "https://cdn.example.com/out.png"}},
	})
	fetcher := &fakeFetcher{err: errors.New("cdn unreachable")}
	s := NewImageStrategy(client, fetcher)

	res, err := s.Generate(context.Background(), Request{Type: TypeImage, Prompt: "a fox", Model: "Kwai-Kolors/Kolors"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Empty(t, res.ImageBase64)
	assert.Equal(t, "https://cdn.example.com/out.png", res.ImageURL)
}

func TestImageGenerateFluxPassesURLThrough(t *testing.T) {
	client := imageClient(t, map[string]any{
		"data": []map[string]string{{"url": "https://cdn.example.com/flux.png"}},
	})
	fetcher := &fakeFetcher{}
	s := NewImageStrategy(client, fetcher)

	res, err := s.Generate(context.Background(), Request{Type: TypeImage, Prompt: "a fox", Model: "black-forest-labs/FLUX.1-schnell"})
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/flux.png", res.ImageURL)
	assert.Empty(t, res.ImageBase64)
	assert.Empty(t, fetcher.lastURL)
}

func TestImageGenerateUnknownModelUsesDefault(t *testing.T) {
	client := imageClient(t, map[string]any{
		"data": []map[string]string{{"b64_json": "eA=="}},
	})
	s := NewImageStrategy(client, &fakeFetcher{})

	res, err := s.Generate(context.Background(), Request{Type: TypeImage, Prompt: "a fox", Model: "nonexistent/model"})
	require.NoError(t, err)
	assert.Equal(t, defaultImageModel, res.Model)
}
