package generate

import (
	"context"
	"encoding/base64"
	"log/slog"

	"github.com/edustack/edustack/internal/fetch"
	"github.com/edustack/edustack/internal/inference"
)

// ImageFamily groups image models whose endpoints share a response dialect.
type ImageFamily string

const (
	FamilyKolors ImageFamily = "kolors"
	FamilyFlux   ImageFamily = "flux"
	FamilySD     ImageFamily = "sd"
)

const defaultImageModel = "Kwai-Kolors/Kolors"

var imageFamilies = map[string]ImageFamily{
	"Kwai-Kolors/Kolors":                     FamilyKolors,
	"black-forest-labs/FLUX.1-schnell":       FamilyFlux,
	"black-forest-labs/FLUX.1-dev":           FamilyFlux,
	"stabilityai/stable-diffusion-3-5-large": FamilySD,
}

// reencodeToBase64 is the per-family delivery policy for hosted URLs: Kolors
// results are fetched and re-encoded so the caller always gets inline data,
// the other families pass the URL through unchanged.
var reencodeToBase64 = map[ImageFamily]bool{
	FamilyKolors: true,
}

// ImageStrategy generates a single image with fixed size and step settings.
type ImageStrategy struct {
	client  *inference.Client
	fetcher fetch.Fetcher
}

func NewImageStrategy(client *inference.Client, fetcher fetch.Fetcher) *ImageStrategy {
	return &ImageStrategy{client: client, fetcher: fetcher}
}

func (s *ImageStrategy) Generate(ctx context.Context, req Request) (*Result, error) {
	model := req.Model
	family, ok := imageFamilies[model]
	if !ok {
		model = defaultImageModel
		family = imageFamilies[model]
	}

	payload, err := s.client.GenerateImage(ctx, inference.ImageRequest{
		Model:             model,
		Prompt:            req.Prompt,
		ImageSize:         "1024x1024",
		BatchSize:         1,
		NumInferenceSteps: 20,
	})
	if err != nil {
		return nil, err
	}

	res := &Result{
		Success:        true,
		Model:          model,
		GenerationType: string(req.Type),
	}

	switch payload.Kind {
	case inference.ImageInlineBase64:
		res.ImageBase64 = payload.Base64
	case inference.ImageHostedURL:
		if reencodeToBase64[family] {
			file, err := s.fetcher.Fetch(ctx, payload.URL)
			if err != nil {
				// Degrade to URL passthrough rather than failing a finished image.
				slog.Warn("re-encoding generated image failed, returning URL", "model", model, "error", err)
				res.ImageURL = payload.URL
				break
			}
			res.ImageBase64 = base64.StdEncoding.EncodeToString(file.Data)
			break
		}
		res.ImageURL = payload.URL
	}

	return res, nil
}
