package inference

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"github.com/edustack/edustack/internal/config"
)

// Client calls the inference API endpoints that the OpenAI-compatible SDK
// does not model: image generation, speech synthesis, transcription and the
// asynchronous video job endpoints. JSON bodies, bearer-token auth.
type Client struct {
	apiKey     string
	baseURL    string
	httpClient *http.Client
}

func NewClient(cfg config.InferenceConfig) *Client {
	return &Client{
		apiKey:  cfg.APIKey,
		baseURL: cfg.BaseURL,
		httpClient: &http.Client{
			Timeout: 120 * time.Second,
		},
	}
}

// BaseURL reports the configured endpoint root. Tests point it at a stub.
func (c *Client) BaseURL() string { return c.baseURL }

// SetBaseURL overrides the endpoint root.
func (c *Client) SetBaseURL(u string) { c.baseURL = u }

func (c *Client) postJSON(ctx context.Context, path string, body any) ([]byte, error) {
	data, err := json.Marshal(body)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+path, bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("post %s: %w", path, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%s failed (status %d): %s", path, resp.StatusCode, string(respBody))
	}

	return respBody, nil
}

// ImageRequest holds the parameters for image generation.
type ImageRequest struct {
	Model             string `json:"model"`
	Prompt            string `json:"prompt"`
	ImageSize         string `json:"image_size"`
	BatchSize         int    `json:"batch_size"`
	NumInferenceSteps int    `json:"num_inference_steps"`
}

// GenerateImage creates one image and normalizes the model-family-specific
// response shape into an ImagePayload.
func (c *Client) GenerateImage(ctx context.Context, req ImageRequest) (*ImagePayload, error) {
	if req.ImageSize == "" {
		req.ImageSize = "1024x1024"
	}
	if req.BatchSize <= 0 {
		req.BatchSize = 1
	}
	if req.NumInferenceSteps <= 0 {
		req.NumInferenceSteps = 20
	}

	raw, err := c.postJSON(ctx, "/images/generations", req)
	if err != nil {
		return nil, err
	}
	return ExtractImagePayload(raw)
}

// SpeechRequest holds the parameters for text-to-speech synthesis.
type SpeechRequest struct {
	Model          string  `json:"model"`
	Input          string  `json:"input"`
	Voice          string  `json:"voice"`
	ResponseFormat string  `json:"response_format"`
	SampleRate     int     `json:"sample_rate"`
	Speed          float64 `json:"speed"`
	Gain           float64 `json:"gain"`
}

// Speech synthesizes audio and returns the raw bytes. The whole clip is
// buffered; there is no streaming.
func (c *Client) Speech(ctx context.Context, req SpeechRequest) ([]byte, error) {
	if req.ResponseFormat == "" {
		req.ResponseFormat = "mp3"
	}
	if req.SampleRate == 0 {
		req.SampleRate = 32000
	}
	if req.Speed == 0 {
		req.Speed = 1
	}

	data, err := json.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/audio/speech", bytes.NewReader(data))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("speech request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		respBody, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("speech failed (status %d): %s", resp.StatusCode, string(respBody))
	}

	audio, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read audio: %w", err)
	}
	return audio, nil
}

// Transcribe re-wraps already-fetched audio bytes into a multipart upload for
// the transcription endpoint and returns the transcript text.
func (c *Client) Transcribe(ctx context.Context, filename string, audio []byte, model string) (string, error) {
	var body bytes.Buffer
	mw := multipart.NewWriter(&body)

	fw, err := mw.CreateFormFile("file", filename)
	if err != nil {
		return "", fmt.Errorf("create form file: %w", err)
	}
	if _, err = fw.Write(audio); err != nil {
		return "", fmt.Errorf("write audio data: %w", err)
	}
	_ = mw.WriteField("model", model)

	if err = mw.Close(); err != nil {
		return "", fmt.Errorf("close multipart writer: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, "POST", c.baseURL+"/audio/transcriptions", &body)
	if err != nil {
		return "", err
	}
	req.Header.Set("Content-Type", mw.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+c.apiKey)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", fmt.Errorf("transcription request: %w", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("transcription failed (status %d): %s", resp.StatusCode, string(respBody))
	}

	var apiResp struct {
		Text string `json:"text"`
	}
	if err := json.Unmarshal(respBody, &apiResp); err != nil {
		return "", fmt.Errorf("parse response: %w", err)
	}
	return apiResp.Text, nil
}

// VideoSubmitRequest holds the parameters for video job submission.
type VideoSubmitRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Image  string `json:"image,omitempty"` // optional reference image URL
}

// SubmitVideo starts an asynchronous video generation job and returns the
// provider's request ID. A missing ID is a terminal failure.
func (c *Client) SubmitVideo(ctx context.Context, req VideoSubmitRequest) (string, error) {
	raw, err := c.postJSON(ctx, "/video/submit", req)
	if err != nil {
		return "", err
	}

	var apiResp struct {
		RequestID string `json:"requestId"`
	}
	if err := json.Unmarshal(raw, &apiResp); err != nil {
		return "", fmt.Errorf("parse submit response: %w", err)
	}
	if apiResp.RequestID == "" {
		return "", fmt.Errorf("video submit returned no requestId: %s", string(raw))
	}
	return apiResp.RequestID, nil
}

// VideoStatus is the polled state of a video job.
type VideoStatus struct {
	Status  string `json:"status"`
	Reason  string `json:"reason"`
	Results struct {
		Videos []struct {
			URL string `json:"url"`
		} `json:"videos"`
	} `json:"results"`
	VideoURL string `json:"videoUrl"`
}

// URL returns the video URL from whichever field the provider populated.
func (s *VideoStatus) URL() string {
	if len(s.Results.Videos) > 0 && s.Results.Videos[0].URL != "" {
		return s.Results.Videos[0].URL
	}
	return s.VideoURL
}

// PollVideo fetches the current status of a submitted job.
func (c *Client) PollVideo(ctx context.Context, requestID string) (*VideoStatus, error) {
	raw, err := c.postJSON(ctx, "/video/status", map[string]string{"requestId": requestID})
	if err != nil {
		return nil, err
	}

	var status VideoStatus
	if err := json.Unmarshal(raw, &status); err != nil {
		return nil, fmt.Errorf("parse status response: %w", err)
	}
	return &status, nil
}
