package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/crm-service/internal/domain"
)

// NoteRepository defines persistence access for client notes.
type NoteRepository interface {
	ListByClient(ctx context.Context, clientID string) ([]domain.Note, error)
	Create(ctx context.Context, note *domain.Note) error
	Delete(ctx context.Context, id string) (*domain.Note, error)
}

type noteRepository struct {
	pool *pgxpool.Pool
}

// NewNoteRepository returns a Postgres-backed implementation.
func NewNoteRepository(pool *pgxpool.Pool) NoteRepository {
	return &noteRepository{pool: pool}
}

func (r *noteRepository) ListByClient(ctx context.Context, clientID string) ([]domain.Note, error) {
	const query = `
        SELECT id, client_id, content, created_at
        FROM notes WHERE client_id = $1 ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query, clientID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	notes := make([]domain.Note, 0)
	for rows.Next() {
		var n domain.Note
		if err := rows.Scan(&n.ID, &n.ClientID, &n.Content, &n.CreatedAt); err != nil {
			return nil, err
		}
		notes = append(notes, n)
	}
	return notes, rows.Err()
}

func (r *noteRepository) Create(ctx context.Context, note *domain.Note) error {
	const query = `
        INSERT INTO notes (content, client_id)
        VALUES ($1, $2)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query, note.Content, note.ClientID).Scan(&note.ID, &note.CreatedAt)
}

func (r *noteRepository) Delete(ctx context.Context, id string) (*domain.Note, error) {
	const query = `
        DELETE FROM notes WHERE id = $1
        RETURNING id, client_id, content, created_at`

	var n domain.Note
	err := r.pool.QueryRow(ctx, query, id).Scan(&n.ID, &n.ClientID, &n.Content, &n.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &n, nil
}
