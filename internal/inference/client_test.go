package inference

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edustack/edustack/internal/config"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	c := NewClient(config.InferenceConfig{APIKey: "test-key"})
	c.SetBaseURL(srv.URL)
	return c
}

func TestSubmitVideo(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/video/submit", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))

		var req VideoSubmitRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "a cat on the moon", req.Prompt)

		json.NewEncoder(w).Encode(map[string]string{"requestId": "req-42"})
	})

	id, err := c.SubmitVideo(context.Background(), VideoSubmitRequest{
		Model:  "Wan-AI/Wan2.1-T2V-14B",
		Prompt: "a cat on the moon",
	})
	require.NoError(t, err)
	assert.Equal(t, "req-42", id)
}

func TestSubmitVideoMissingRequestID(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		json.NewEncoder(w).Encode(map[string]string{})
	})

	_, err := c.SubmitVideo(context.Background(), VideoSubmitRequest{Prompt: "x"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no requestId")
}

func TestVideoStatusURL(t *testing.T) {
	var s VideoStatus
	s.VideoURL = "https://cdn.example.com/flat.mp4"
	assert.Equal(t, "https://cdn.example.com/flat.mp4", s.URL())

	s.Results.Videos = []struct {
		URL string `json:"url"`
	}{{URL: "https://cdn.example.com/nested.mp4"}}
	assert.Equal(t, "https://cdn.example.com/nested.mp4", s.URL())
}

func TestTranscribe(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/transcriptions", r.URL.Path)
		require.NoError(t, r.ParseMultipartForm(1<<20))
		assert.Equal(t, "FunAudioLLM/SenseVoiceSmall", r.FormValue("model"))

		f, header, err := r.FormFile("file")
		require.NoError(t, err)
		f.Close()
		assert.Equal(t, "lecture.mp3", header.Filename)

		json.NewEncoder(w).Encode(map[string]string{"text": "hello class"})
	})

	text, err := c.Transcribe(context.Background(), "lecture.mp3", []byte("audio-bytes"), "FunAudioLLM/SenseVoiceSmall")
	require.NoError(t, err)
	assert.Equal(t, "hello class", text)
}

func TestTranscribeUpstreamError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, `{"error":"bad audio"}`, http.StatusUnprocessableEntity)
	})

	_, err := c.Transcribe(context.Background(), "a.mp3", []byte("x"), "m")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "status 422")
}
