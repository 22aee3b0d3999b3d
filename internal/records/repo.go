package records

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
)

// Record is a persisted generation outcome. Inline payloads (image/audio
// base64) are not stored; hosted URLs and text content are.
type Record struct {
	ID             uuid.UUID `json:"id"`
	Prompt         string    `json:"prompt"`
	GenerationType string    `json:"generationType"`
	Model          string    `json:"model"`
	Content        string    `json:"content,omitempty"`
	ImageURL       string    `json:"imageUrl,omitempty"`
	VideoURL       string    `json:"videoUrl,omitempty"`
	Success        bool      `json:"success"`
	ErrorMessage   string    `json:"error,omitempty"`
	CreatedAt      time.Time `json:"created_at"`
}

type Repo struct {
	db *pgxpool.Pool
}

func NewRepo(db *pgxpool.Pool) *Repo {
	return &Repo{db: db}
}

func (r *Repo) Create(ctx context.Context, rec *Record) error {
	if rec.ID == uuid.Nil {
		rec.ID = uuid.New()
	}

	err := r.db.QueryRow(ctx,
		`INSERT INTO generation_records (id, prompt, generation_type, model, content, image_url, video_url, success, error_message)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		 RETURNING created_at`,
		rec.ID, rec.Prompt, rec.GenerationType, rec.Model, rec.Content,
		rec.ImageURL, rec.VideoURL, rec.Success, rec.ErrorMessage,
	).Scan(&rec.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert record: %w", err)
	}
	return nil
}

func (r *Repo) Get(ctx context.Context, id uuid.UUID) (*Record, error) {
	var rec Record
	err := r.db.QueryRow(ctx,
		`SELECT id, prompt, generation_type, model, content, image_url, video_url, success, error_message, created_at
		 FROM generation_records WHERE id = $1`, id,
	).Scan(&rec.ID, &rec.Prompt, &rec.GenerationType, &rec.Model, &rec.Content,
		&rec.ImageURL, &rec.VideoURL, &rec.Success, &rec.ErrorMessage, &rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("get record %s: %w", id, err)
	}
	return &rec, nil
}

func (r *Repo) List(ctx context.Context, limit, offset int) ([]Record, error) {
	if limit <= 0 {
		limit = 50
	}

	rows, err := r.db.Query(ctx,
		`SELECT id, prompt, generation_type, model, content, image_url, video_url, success, error_message, created_at
		 FROM generation_records ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list records: %w", err)
	}
	defer rows.Close()

	var recs []Record
	for rows.Next() {
		var rec Record
		if err := rows.Scan(&rec.ID, &rec.Prompt, &rec.GenerationType, &rec.Model, &rec.Content,
			&rec.ImageURL, &rec.VideoURL, &rec.Success, &rec.ErrorMessage, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan record: %w", err)
		}
		recs = append(recs, rec)
	}
	return recs, rows.Err()
}

func (r *Repo) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.db.Exec(ctx, "DELETE FROM generation_records WHERE id = $1", id)
	if err != nil {
		return fmt.Errorf("delete record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("record %s not found", id)
	}
	return nil
}
