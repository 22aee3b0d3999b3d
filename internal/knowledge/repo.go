package knowledge

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/pgvector/pgvector-go"
)

// Repo persists knowledge documents and provides the search modes the RAG
// cascade relies on: websearch full-text, plain full-text, substring match
// and an unconditional active-document listing.
type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

const docColumns = "id, title, content, summary, category, status, embedding, created_at, updated_at"

func (r *Repo) Create(ctx context.Context, doc *Document) error {
	if doc.ID == uuid.Nil {
		doc.ID = uuid.New()
	}
	if doc.Status == "" {
		doc.Status = StatusActive
	}
	if doc.Category == "" {
		doc.Category = "general"
	}

	err := r.db.QueryRow(ctx,
		`INSERT INTO knowledge_documents (id, title, content, summary, category, status)
		 VALUES ($1, $2, $3, $4, $5, $6)
		 RETURNING created_at, updated_at`,
		doc.ID, doc.Title, doc.Content, doc.Summary, doc.Category, doc.Status,
	).Scan(&doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return fmt.Errorf("insert document: %w", err)
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id uuid.UUID) (*Document, error) {
	row := r.db.QueryRow(ctx,
		"SELECT "+docColumns+" FROM knowledge_documents WHERE id = $1", id)
	doc, err := scanDocument(row)
	if err != nil {
		return nil, fmt.Errorf("get document %s: %w", id, err)
	}
	return doc, nil
}

func (r *Repo) List(ctx context.Context, limit, offset int) ([]Document, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := r.db.Query(ctx,
		"SELECT "+docColumns+" FROM knowledge_documents ORDER BY created_at DESC LIMIT $1 OFFSET $2",
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list documents: %w", err)
	}
	return collectDocuments(rows)
}

func (r *Repo) SetStatus(ctx context.Context, id uuid.UUID, status string) error {
	tag, err := r.db.Exec(ctx,
		"UPDATE knowledge_documents SET status = $2, updated_at = now() WHERE id = $1",
		id, status)
	if err != nil {
		return fmt.Errorf("set status: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("document %s not found", id)
	}
	return nil
}

// SetEmbedding stores the precomputed content embedding for a document.
func (r *Repo) SetEmbedding(ctx context.Context, id uuid.UUID, embedding []float32) error {
	_, err := r.db.Exec(ctx,
		"UPDATE knowledge_documents SET embedding = $2, updated_at = now() WHERE id = $1",
		id, pgvector.NewVector(embedding))
	if err != nil {
		return fmt.Errorf("set embedding: %w", err)
	}
	return nil
}

func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.Exec(ctx, "DELETE FROM knowledge_documents WHERE id = $1", id)
	return err
}

// SearchWebQuery runs websearch-syntax full-text search over active docs.
func (r *Repo) SearchWebQuery(ctx context.Context, query string, limit int) ([]Document, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+docColumns+`
		 FROM knowledge_documents
		 WHERE status = $1 AND tsv @@ websearch_to_tsquery('simple', $2)
		 ORDER BY ts_rank(tsv, websearch_to_tsquery('simple', $2)) DESC
		 LIMIT $3`,
		StatusActive, query, limit)
	if err != nil {
		return nil, fmt.Errorf("websearch query: %w", err)
	}
	return collectDocuments(rows)
}

// SearchPlain runs simplified full-text search (every word AND-ed).
func (r *Repo) SearchPlain(ctx context.Context, query string, limit int) ([]Document, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+docColumns+`
		 FROM knowledge_documents
		 WHERE status = $1 AND tsv @@ plainto_tsquery('simple', $2)
		 ORDER BY ts_rank(tsv, plainto_tsquery('simple', $2)) DESC
		 LIMIT $3`,
		StatusActive, query, limit)
	if err != nil {
		return nil, fmt.Errorf("plain query: %w", err)
	}
	return collectDocuments(rows)
}

// SearchSubstring matches the query case-insensitively against title or
// content.
func (r *Repo) SearchSubstring(ctx context.Context, query string, limit int) ([]Document, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+docColumns+`
		 FROM knowledge_documents
		 WHERE status = $1 AND (title ILIKE '%' || $2 || '%' OR content ILIKE '%' || $2 || '%')
		 ORDER BY created_at DESC
		 LIMIT $3`,
		StatusActive, query, limit)
	if err != nil {
		return nil, fmt.Errorf("substring query: %w", err)
	}
	return collectDocuments(rows)
}

// ListActive returns the first N active documents regardless of relevance.
func (r *Repo) ListActive(ctx context.Context, limit int) ([]Document, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+docColumns+`
		 FROM knowledge_documents
		 WHERE status = $1
		 ORDER BY created_at ASC
		 LIMIT $2`,
		StatusActive, limit)
	if err != nil {
		return nil, fmt.Errorf("list active: %w", err)
	}
	return collectDocuments(rows)
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanDocument(row rowScanner) (*Document, error) {
	var doc Document
	var emb *pgvector.Vector
	err := row.Scan(&doc.ID, &doc.Title, &doc.Content, &doc.Summary, &doc.Category,
		&doc.Status, &emb, &doc.CreatedAt, &doc.UpdatedAt)
	if err != nil {
		return nil, err
	}
	if emb != nil {
		doc.Embedding = emb.Slice()
	}
	return &doc, nil
}

func collectDocuments(rows pgx.Rows) ([]Document, error) {
	defer rows.Close()

	var docs []Document
	for rows.Next() {
		doc, err := scanDocument(rows)
		if err != nil {
			return nil, fmt.Errorf("scan document: %w", err)
		}
		docs = append(docs, *doc)
	}
	return docs, rows.Err()
}
