package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/crm-service/internal/domain"
)

// ClientRepository defines persistence access for CRM clients.
type ClientRepository interface {
	List(ctx context.Context) ([]domain.Client, error)
	Create(ctx context.Context, client *domain.Client) error
	Delete(ctx context.Context, id string) (*domain.Client, error)
	Exists(ctx context.Context, id string) (bool, error)
	Stats(ctx context.Context) (*domain.ClientStats, error)
	NoteCounts(ctx context.Context) ([]domain.ClientNoteCount, error)
}

type clientRepository struct {
	pool *pgxpool.Pool
}

// NewClientRepository returns a Postgres-backed implementation.
func NewClientRepository(pool *pgxpool.Pool) ClientRepository {
	return &clientRepository{pool: pool}
}

func (r *clientRepository) List(ctx context.Context) ([]domain.Client, error) {
	const query = `
        SELECT id, name, email, company, owner_id, created_at
        FROM clients ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	clients := make([]domain.Client, 0)
	for rows.Next() {
		var c domain.Client
		if err := rows.Scan(&c.ID, &c.Name, &c.Email, &c.Company, &c.OwnerID, &c.CreatedAt); err != nil {
			return nil, err
		}
		clients = append(clients, c)
	}
	return clients, rows.Err()
}

func (r *clientRepository) Create(ctx context.Context, client *domain.Client) error {
	const query = `
        INSERT INTO clients (name, email, company, owner_id)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at`

	return r.pool.QueryRow(ctx, query,
		client.Name,
		client.Email,
		client.Company,
		client.OwnerID,
	).Scan(&client.ID, &client.CreatedAt)
}

func (r *clientRepository) Delete(ctx context.Context, id string) (*domain.Client, error) {
	const query = `
        DELETE FROM clients WHERE id = $1
        RETURNING id, name, email, company, owner_id, created_at`

	var c domain.Client
	err := r.pool.QueryRow(ctx, query, id).Scan(&c.ID, &c.Name, &c.Email, &c.Company, &c.OwnerID, &c.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *clientRepository) Exists(ctx context.Context, id string) (bool, error) {
	const query = `SELECT EXISTS(SELECT 1 FROM clients WHERE id = $1)`
	var exists bool
	if err := r.pool.QueryRow(ctx, query, id).Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *clientRepository) Stats(ctx context.Context) (*domain.ClientStats, error) {
	stats := &domain.ClientStats{}

	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM clients`).Scan(&stats.Clients); err != nil {
		return nil, err
	}
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM notes`).Scan(&stats.TotalNotes); err != nil {
		return nil, err
	}

	err := r.pool.QueryRow(ctx, `SELECT content FROM notes ORDER BY created_at DESC LIMIT 1`).Scan(&stats.LastNote)
	if err == pgx.ErrNoRows {
		stats.LastNote = ""
	} else if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *clientRepository) NoteCounts(ctx context.Context) ([]domain.ClientNoteCount, error) {
	const query = `
        SELECT c.id, c.name, COUNT(n.id)
        FROM clients c
        LEFT JOIN notes n ON c.id = n.client_id
        GROUP BY c.id, c.name
        ORDER BY c.name`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	counts := make([]domain.ClientNoteCount, 0)
	for rows.Next() {
		var c domain.ClientNoteCount
		if err := rows.Scan(&c.ClientID, &c.ClientName, &c.NotesCount); err != nil {
			return nil, err
		}
		counts = append(counts, c)
	}
	return counts, rows.Err()
}
