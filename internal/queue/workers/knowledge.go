package workers

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"

	"github.com/edustack/edustack/internal/embedding"
	"github.com/edustack/edustack/internal/knowledge"
	"github.com/edustack/edustack/internal/queue"
)

// KnowledgeEmbedWorker precomputes a content embedding for a knowledge
// document and stores it in the pgvector column, so the query-time reranker
// only hits the embedding API for documents the worker has not reached yet.
type KnowledgeEmbedWorker struct {
	repo     *knowledge.Repo
	embedSvc *embedding.Service
}

func NewKnowledgeEmbedWorker(repo *knowledge.Repo, embedSvc *embedding.Service) *KnowledgeEmbedWorker {
	return &KnowledgeEmbedWorker{repo: repo, embedSvc: embedSvc}
}

func (w *KnowledgeEmbedWorker) ProcessTask(ctx context.Context, t *asynq.Task) error {
	var payload queue.KnowledgeEmbedPayload
	if err := json.Unmarshal(t.Payload(), &payload); err != nil {
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	docID, err := uuid.Parse(payload.DocumentID)
	if err != nil {
		return fmt.Errorf("parse document ID: %w", err)
	}

	doc, err := w.repo.Get(ctx, docID)
	if err != nil {
		return fmt.Errorf("load document: %w", err)
	}

	vec, err := w.embedSvc.EmbedSingle(ctx, embedding.Truncate(doc.Content))
	if err != nil {
		return fmt.Errorf("embed document: %w", err)
	}

	if err := w.repo.SetEmbedding(ctx, docID, vec); err != nil {
		return fmt.Errorf("store embedding: %w", err)
	}

	slog.Info("document embedding stored", "document_id", docID, "dims", len(vec))
	return nil
}
