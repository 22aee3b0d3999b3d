package generate

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/edustack/edustack/internal/inference"
)

const defaultVideoModel = "Wan-AI/Wan2.1-T2V-14B"

var videoModels = map[string]bool{
	"Wan-AI/Wan2.1-T2V-14B":      true,
	"Wan-AI/Wan2.1-I2V-14B-720P": true,
}

// VideoStrategy drives the asynchronous video job through its states:
// submitted -> polling -> success | failed | timeout. Polling is a bounded
// fixed-interval loop; a transient poll error counts as still pending.
type VideoStrategy struct {
	client      *inference.Client
	interval    time.Duration
	maxAttempts int
	sleep       func(ctx context.Context, d time.Duration) error
}

func NewVideoStrategy(client *inference.Client, interval time.Duration, maxAttempts int) *VideoStrategy {
	if interval <= 0 {
		interval = 5 * time.Second
	}
	if maxAttempts <= 0 {
		maxAttempts = 12
	}
	return &VideoStrategy{
		client:      client,
		interval:    interval,
		maxAttempts: maxAttempts,
		sleep:       sleepCtx,
	}
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-time.After(d):
		return nil
	}
}

func (s *VideoStrategy) Generate(ctx context.Context, req Request) (*Result, error) {
	model := resolveModel(req.Model, videoModels, defaultVideoModel)

	requestID, err := s.client.SubmitVideo(ctx, inference.VideoSubmitRequest{
		Model:  model,
		Prompt: req.Prompt,
		Image:  req.FileURL,
	})
	if err != nil {
		return nil, fmt.Errorf("submit video job: %w", err)
	}

	var lastStatus string
	for attempt := 1; attempt <= s.maxAttempts; attempt++ {
		status, err := s.client.PollVideo(ctx, requestID)
		if err != nil {
			// Keep polling; the job may still be running on the provider side.
			slog.Warn("video status poll failed", "request_id", requestID, "attempt", attempt, "error", err)
		} else {
			lastStatus = status.Status
			switch normalizeVideoStatus(status.Status) {
			case "success":
				if url := status.URL(); url != "" {
					return &Result{
						Success:        true,
						Model:          model,
						GenerationType: string(req.Type),
						VideoURL:       url,
						FileProcessed:  req.FileURL != "",
					}, nil
				}
				// Succeeded without a URL yet; treat as pending.
			case "failed":
				reason := status.Reason
				if reason == "" {
					reason = "provider reported failure"
				}
				return nil, fmt.Errorf("video generation failed: %s", reason)
			}
		}

		if attempt < s.maxAttempts {
			if err := s.sleep(ctx, s.interval); err != nil {
				return nil, err
			}
		}
	}

	return nil, fmt.Errorf("video generation timed out after %d polls (last status %q)", s.maxAttempts, lastStatus)
}

func normalizeVideoStatus(status string) string {
	switch strings.ToLower(status) {
	case "succeed", "succeeded", "success":
		return "success"
	case "failed", "failure":
		return "failed"
	default:
		return "pending"
	}
}
