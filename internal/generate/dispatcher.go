package generate

import (
	"context"
	"log/slog"
	"strings"

	"github.com/edustack/edustack/internal/config"
	"github.com/edustack/edustack/internal/fetch"
	"github.com/edustack/edustack/internal/inference"
	"github.com/edustack/edustack/internal/llm"
)

// Type selects the generation strategy.
type Type string

const (
	TypeCourseware   Type = "courseware"
	TypeDocument     Type = "document"
	TypeImage        Type = "image"
	TypeVideo        Type = "video-generation"
	TypeAudio        Type = "audio"
	TypeSpeechToText Type = "speech-to-text"
)

// Request is one content-generation request from the dashboard.
type Request struct {
	Prompt  string `json:"prompt"`
	Type    Type   `json:"generationType"`
	Model   string `json:"model"`
	FileURL string `json:"fileUrl,omitempty"`
	Voice   string `json:"voice,omitempty"`
}

// Result is the normalized response contract shared by all strategies.
// On success exactly one of Content, ImageBase64/ImageURL, AudioBase64 and
// VideoURL is populated; on failure none are.
type Result struct {
	Success        bool   `json:"success"`
	Model          string `json:"model"`
	GenerationType string `json:"generationType"`
	Content        string `json:"content,omitempty"`
	ImageBase64    string `json:"imageBase64,omitempty"`
	ImageURL       string `json:"imageUrl,omitempty"`
	AudioBase64    string `json:"audioBase64,omitempty"`
	VideoURL       string `json:"videoUrl,omitempty"`
	FileProcessed  bool   `json:"fileProcessed"`
	MultimodalUsed bool   `json:"multimodalUsed"`
	Error          string `json:"error,omitempty"`
}

// Dispatcher routes a Request to exactly one strategy and guarantees that no
// strategy error escapes as anything but a Success:false Result.
type Dispatcher struct {
	text   *TextStrategy
	image  *ImageStrategy
	audio  *AudioStrategy
	video  *VideoStrategy
	speech *SpeechStrategy
}

func NewDispatcher(gw llm.Gateway, client *inference.Client, fetcher fetch.Fetcher, cfg config.InferenceConfig) *Dispatcher {
	return &Dispatcher{
		text:   NewTextStrategy(gw, fetcher),
		image:  NewImageStrategy(client, fetcher),
		audio:  NewAudioStrategy(client),
		video:  NewVideoStrategy(client, cfg.VideoPollInterval, cfg.VideoPollAttempts),
		speech: NewSpeechStrategy(client, fetcher),
	}
}

// Dispatch validates the request, runs the strategy selected by Type and
// converts any failure into a structured Result.
func (d *Dispatcher) Dispatch(ctx context.Context, req Request) *Result {
	if req.Type != TypeSpeechToText && strings.TrimSpace(req.Prompt) == "" {
		return failure(req, "prompt is required")
	}
	if req.Type == TypeSpeechToText && req.FileURL == "" {
		return failure(req, "an uploaded audio file is required for speech-to-text")
	}

	var (
		res *Result
		err error
	)

	switch req.Type {
	case TypeImage:
		res, err = d.image.Generate(ctx, req)
	case TypeAudio:
		res, err = d.audio.Generate(ctx, req)
	case TypeVideo:
		res, err = d.video.Generate(ctx, req)
	case TypeSpeechToText:
		res, err = d.speech.Generate(ctx, req)
	default:
		// courseware, document and any unrecognized type all go through the
		// text strategy; unknown types get the generic system prompt.
		res, err = d.text.Generate(ctx, req)
	}

	if err != nil {
		slog.Warn("generation failed", "type", req.Type, "model", req.Model, "error", err)
		return failure(req, err.Error())
	}
	return res
}

func failure(req Request, msg string) *Result {
	return &Result{
		Success:        false,
		Model:          req.Model,
		GenerationType: string(req.Type),
		Error:          msg,
	}
}

// resolveModel substitutes the strategy default when the declared model is
// not in the supported set. Lenient by design: no error reaches the caller.
func resolveModel(requested string, supported map[string]bool, def string) string {
	if supported[requested] {
		return requested
	}
	return def
}
