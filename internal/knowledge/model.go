package knowledge

import (
	"time"

	"github.com/google/uuid"
)

const (
	StatusActive   = "active"
	StatusDraft    = "draft"
	StatusArchived = "archived"
)

// Document is one entry of the knowledge corpus. Embedding is a precomputed
// content embedding (may be absent until the worker has processed the doc).
type Document struct {
	ID        uuid.UUID `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Summary   string    `json:"summary"`
	Category  string    `json:"category"`
	Status    string    `json:"status"`
	Embedding []float32 `json:"-"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
