package generate

import (
	"context"
	"fmt"
	"net/url"
	"path"

	"github.com/edustack/edustack/internal/fetch"
	"github.com/edustack/edustack/internal/inference"
)

const TranscriptionModel = "FunAudioLLM/SenseVoiceSmall"

// SpeechStrategy downloads the referenced audio and forwards it to the
// transcription endpoint as a fresh multipart upload.
type SpeechStrategy struct {
	client  *inference.Client
	fetcher fetch.Fetcher
}

func NewSpeechStrategy(client *inference.Client, fetcher fetch.Fetcher) *SpeechStrategy {
	return &SpeechStrategy{client: client, fetcher: fetcher}
}

func (s *SpeechStrategy) Generate(ctx context.Context, req Request) (*Result, error) {
	file, err := s.fetcher.Fetch(ctx, req.FileURL)
	if err != nil {
		return nil, fmt.Errorf("fetch audio file: %w", err)
	}

	text, err := s.client.Transcribe(ctx, audioFilename(req.FileURL), file.Data, TranscriptionModel)
	if err != nil {
		return nil, err
	}

	return &Result{
		Success:        true,
		Model:          TranscriptionModel,
		GenerationType: string(req.Type),
		Content:        text,
		FileProcessed:  true,
	}, nil
}

func audioFilename(fileURL string) string {
	u, err := url.Parse(fileURL)
	if err != nil || path.Base(u.Path) == "." || path.Base(u.Path) == "/" {
		return "audio.mp3"
	}
	return path.Base(u.Path)
}
