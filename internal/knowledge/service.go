package knowledge

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/edustack/edustack/pkg/textextract"
)

// Enqueuer schedules background embedding precompute for a document.
type Enqueuer interface {
	EnqueueKnowledgeEmbed(documentID string) error
}

// Service handles document ingestion: plain JSON creation and file uploads
// that need text extraction first. Every created document gets an embedding
// precompute task; failures there never fail the ingest.
type Service struct {
	repo  *Repo
	queue Enqueuer
}

func NewService(repo *Repo, queue Enqueuer) *Service {
	return &Service{repo: repo, queue: queue}
}

func (s *Service) Create(ctx context.Context, doc *Document) error {
	if strings.TrimSpace(doc.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if strings.TrimSpace(doc.Content) == "" {
		return fmt.Errorf("content is required")
	}

	if err := s.repo.Create(ctx, doc); err != nil {
		return err
	}
	s.scheduleEmbedding(doc)
	return nil
}

// CreateFromUpload extracts text from an uploaded PDF/DOCX/TXT file and
// stores it as a document.
func (s *Service) CreateFromUpload(ctx context.Context, title, category, fileType string, data []byte) (*Document, error) {
	content, err := textextract.Extract(data, fileType)
	if err != nil {
		return nil, fmt.Errorf("extract text: %w", err)
	}
	if strings.TrimSpace(content) == "" {
		return nil, fmt.Errorf("no text content found in uploaded file")
	}

	doc := &Document{
		Title:    title,
		Content:  content,
		Summary:  summarize(content),
		Category: category,
	}
	if err := s.repo.Create(ctx, doc); err != nil {
		return nil, err
	}
	s.scheduleEmbedding(doc)
	return doc, nil
}

func (s *Service) scheduleEmbedding(doc *Document) {
	if s.queue == nil {
		return
	}
	if err := s.queue.EnqueueKnowledgeEmbed(doc.ID.String()); err != nil {
		slog.Warn("enqueue embedding precompute failed", "document_id", doc.ID, "error", err)
	}
}

// summarize produces a cheap lead-in summary; a proper abstract can be
// written by an editor later.
func summarize(content string) string {
	const maxLen = 200
	content = strings.TrimSpace(content)
	if len(content) <= maxLen {
		return content
	}
	cut := content[:maxLen]
	if i := strings.LastIndexAny(cut, " \n\t"); i > maxLen/2 {
		cut = cut[:i]
	}
	return cut + "..."
}
