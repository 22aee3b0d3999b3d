package inference

import (
	"encoding/json"
	"fmt"
)

// ImagePayloadKind tags how the generated image was delivered by the model.
type ImagePayloadKind string

const (
	ImageInlineBase64 ImagePayloadKind = "base64"
	ImageHostedURL    ImagePayloadKind = "url"
)

// ImagePayload is the normalized form of an image-generation response.
// Exactly one of Base64 or URL is set, matching Kind.
type ImagePayload struct {
	Kind   ImagePayloadKind
	Base64 string
	URL    string
}

// ExtractImagePayload probes the known upstream response shapes in a fixed
// priority order:
//
//	data[0].b64_json -> data[0].url -> images[0].url
//
// Model families disagree on which of these they populate. Anything else is
// an unrecognized shape and fails with the raw payload for diagnosis.
func ExtractImagePayload(raw []byte) (*ImagePayload, error) {
	var resp struct {
		Data []struct {
			B64JSON string `json:"b64_json"`
			URL     string `json:"url"`
		} `json:"data"`
		Images []struct {
			URL string `json:"url"`
		} `json:"images"`
	}
	if err := json.Unmarshal(raw, &resp); err != nil {
		return nil, fmt.Errorf("parse image response: %w", err)
	}

	if len(resp.Data) > 0 {
		if resp.Data[0].B64JSON != "" {
			return &ImagePayload{Kind: ImageInlineBase64, Base64: resp.Data[0].B64JSON}, nil
		}
		if resp.Data[0].URL != "" {
			return &ImagePayload{Kind: ImageHostedURL, URL: resp.Data[0].URL}, nil
		}
	}
	if len(resp.Images) > 0 && resp.Images[0].URL != "" {
		return &ImagePayload{Kind: ImageHostedURL, URL: resp.Images[0].URL}, nil
	}

	return nil, fmt.Errorf("unrecognized image response shape: %s", string(raw))
}
