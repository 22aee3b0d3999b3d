package generate

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/edustack/edustack/internal/config"
	"github.com/edustack/edustack/internal/inference"
)

func TestAudioGenerateQualifiesVoice(t *testing.T) {
	var captured inference.SpeechRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/audio/speech", r.URL.Path)
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte("mp3-bytes"))
	}))
	t.Cleanup(srv.Close)

	client := inference.NewClient(config.InferenceConfig{APIKey: "k"})
	client.SetBaseURL(srv.URL)
	s := NewAudioStrategy(client)

	res, err := s.Generate(context.Background(), Request{Type: TypeAudio, Prompt: "welcome to class"})
	require.NoError(t, err)
	assert.True(t, res.Success)
	assert.Equal(t, base64.StdEncoding.EncodeToString([]byte("mp3-bytes")), res.AudioBase64)

	assert.Equal(t, audioModel, captured.Model)
	assert.Equal(t, audioModel+":alex", captured.Voice)
	assert.Equal(t, "welcome to class", captured.Input)
	assert.Equal(t, "mp3", captured.ResponseFormat)
	assert.Equal(t, 32000, captured.SampleRate)
}

func TestAudioGenerateKeepsQualifiedVoice(t *testing.T) {
	var captured inference.SpeechRequest
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&captured))
		w.Write([]byte("x"))
	}))
	t.Cleanup(srv.Close)

	client := inference.NewClient(config.InferenceConfig{APIKey: "k"})
	client.SetBaseURL(srv.URL)
	s := NewAudioStrategy(client)

	_, err := s.Generate(context.Background(), Request{
		Type:   TypeAudio,
		Prompt: "hello",
		Voice:  "speech:custom-voice-id",
	})
	require.NoError(t, err)
	assert.Equal(t, "speech:custom-voice-id", captured.Voice)
}
