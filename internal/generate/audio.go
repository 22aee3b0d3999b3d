package generate

import (
	"context"
	"encoding/base64"
	"strings"

	"github.com/edustack/edustack/internal/inference"
)

const (
	audioModel   = "FunAudioLLM/CosyVoice2-0.5B"
	defaultVoice = "alex"
)

// AudioStrategy synthesizes speech for the prompt text. The whole clip is
// buffered in memory and returned base64-encoded.
type AudioStrategy struct {
	client *inference.Client
}

func NewAudioStrategy(client *inference.Client) *AudioStrategy {
	return &AudioStrategy{client: client}
}

func (s *AudioStrategy) Generate(ctx context.Context, req Request) (*Result, error) {
	voice := req.Voice
	if voice == "" {
		voice = defaultVoice
	}
	// Short voice names are qualified with the model id the endpoint expects.
	if !strings.Contains(voice, ":") {
		voice = audioModel + ":" + voice
	}

	audio, err := s.client.Speech(ctx, inference.SpeechRequest{
		Model:          audioModel,
		Input:          req.Prompt,
		Voice:          voice,
		ResponseFormat: "mp3",
		SampleRate:     32000,
		Speed:          1,
		Gain:           0,
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Success:        true,
		Model:          audioModel,
		GenerationType: string(req.Type),
		AudioBase64:    base64.StdEncoding.EncodeToString(audio),
	}, nil
}
