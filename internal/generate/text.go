package generate

import (
	"context"
	"encoding/base64"
	"fmt"
	"path"
	"strings"

	"github.com/edustack/edustack/internal/fetch"
	"github.com/edustack/edustack/internal/llm"
)

const defaultTextModel = "deepseek-ai/DeepSeek-V3"

var textModels = map[string]bool{
	"deepseek-ai/DeepSeek-V3":      true,
	"deepseek-ai/DeepSeek-R1":      true,
	"Qwen/Qwen2.5-72B-Instruct":    true,
	"Qwen/Qwen2.5-VL-72B-Instruct": true,
	"THUDM/GLM-4-32B-0414":         true,
	"claude-sonnet-4-20250514":     true,
	"claude-3-5-haiku-20241022":    true,
}

// multimodalModels can accept an inline image part in the user message.
var multimodalModels = map[string]bool{
	"Qwen/Qwen2.5-VL-72B-Instruct": true,
	"Qwen/QVQ-72B-Preview":         true,
	"deepseek-ai/deepseek-vl2":     true,
}

const genericSystemPrompt = "You are a helpful teaching assistant. Produce clear, well-structured educational content for the user's request."

var systemPrompts = map[Type]string{
	TypeCourseware: "You are an experienced curriculum designer. Create complete courseware for the requested topic: learning objectives, a lesson outline with timing, key explanations, worked examples, and exercises with answers. Use headings and lists.",
	TypeDocument:   "You are a professional writer of educational documents. Produce a polished, well-organized document on the requested topic with an introduction, structured sections, and a summary.",
}

// TextStrategy answers text-like generation types (courseware, document and
// the fallthrough for unknown types) via chat completion, optionally
// incorporating an uploaded file.
type TextStrategy struct {
	gateway llm.Gateway
	fetcher fetch.Fetcher
}

func NewTextStrategy(gw llm.Gateway, fetcher fetch.Fetcher) *TextStrategy {
	return &TextStrategy{gateway: gw, fetcher: fetcher}
}

func (s *TextStrategy) Generate(ctx context.Context, req Request) (*Result, error) {
	model := resolveModel(req.Model, textModels, defaultTextModel)

	system := systemPrompts[req.Type]
	if system == "" {
		system = genericSystemPrompt
	}

	user := llm.Message{Role: "user", Content: req.Prompt}
	fileProcessed := false
	multimodalUsed := false

	if req.FileURL != "" {
		file, err := s.fetcher.Fetch(ctx, req.FileURL)
		if err != nil {
			return nil, fmt.Errorf("fetch attached file: %w", err)
		}
		fileProcessed = true

		switch {
		case multimodalModels[model] && isImageFile(req.FileURL, file.ContentType):
			user.ImageURL = imageDataURL(file)
			multimodalUsed = true
		case isTextFile(req.FileURL, file.ContentType):
			user.Content = fmt.Sprintf("%s\n\nAttached file content:\n%s", req.Prompt, string(file.Data))
		default:
			user.Content = fmt.Sprintf("%s\n\n%s", req.Prompt, binaryFilePlaceholder(req.FileURL, file))
		}
	}

	resp, err := s.gateway.Chat(ctx, llm.ChatRequest{
		Model:       model,
		Messages:    []llm.Message{{Role: "system", Content: system}, user},
		Temperature: 0.7,
		MaxTokens:   2000,
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Success:        true,
		Model:          model,
		GenerationType: string(req.Type),
		Content:        resp.Content,
		FileProcessed:  fileProcessed,
		MultimodalUsed: multimodalUsed,
	}, nil
}

func isImageFile(url, contentType string) bool {
	if strings.HasPrefix(contentType, "image/") {
		return true
	}
	switch fileExt(url) {
	case ".png", ".jpg", ".jpeg", ".gif", ".webp", ".bmp":
		return true
	}
	return false
}

func isTextFile(url, contentType string) bool {
	if strings.HasPrefix(contentType, "text/") || strings.Contains(contentType, "json") {
		return true
	}
	switch fileExt(url) {
	case ".txt", ".md", ".csv", ".json":
		return true
	}
	return false
}

func fileExt(url string) string {
	clean := url
	if i := strings.IndexAny(clean, "?#"); i >= 0 {
		clean = clean[:i]
	}
	return strings.ToLower(path.Ext(clean))
}

func imageDataURL(file *fetch.File) string {
	mime := file.ContentType
	if mime == "" || !strings.HasPrefix(mime, "image/") {
		mime = "image/png"
	}
	return fmt.Sprintf("data:%s;base64,%s", mime, base64.StdEncoding.EncodeToString(file.Data))
}

// binaryFilePlaceholder describes a binary attachment instead of inlining
// bytes. PDF, Word and other binary formats are not parsed here.
func binaryFilePlaceholder(url string, file *fetch.File) string {
	return fmt.Sprintf(
		"[Attached file: %s document, %s. Binary document content cannot be read directly; convert the file to plain text (.txt) and upload it again to include its contents.]",
		binaryKindLabel(url, file.ContentType), humanSize(file.Size),
	)
}

func binaryKindLabel(url, contentType string) string {
	ext := fileExt(url)
	switch {
	case ext == ".pdf" || strings.Contains(contentType, "pdf"):
		return "PDF"
	case ext == ".doc" || ext == ".docx" || strings.Contains(contentType, "msword") || strings.Contains(contentType, "wordprocessingml"):
		return "Word"
	default:
		return "binary"
	}
}

func humanSize(n int64) string {
	switch {
	case n >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(n)/float64(1<<20))
	case n >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(n)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", n)
	}
}
