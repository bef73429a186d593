package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// PostgresBackend keeps the document in one row of the documents table.
// Schema: postgres.EnsureSchema.
type PostgresBackend struct {
	DB  *pgxpool.Pool
	Key string
}

func (p *PostgresBackend) Read(ctx context.Context) ([]byte, error) {
	var body string
	err := p.DB.QueryRow(ctx, `SELECT body::text FROM documents WHERE key=$1`, p.Key).Scan(&body)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("select document %s: %w", p.Key, err)
	}
	return []byte(body), nil
}

func (p *PostgresBackend) Write(ctx context.Context, body []byte) error {
	_, err := p.DB.Exec(ctx, `
		INSERT INTO documents(key, body, updated_at)
		VALUES ($1, $2::jsonb, now())
		ON CONFLICT (key) DO UPDATE SET body = EXCLUDED.body, updated_at = now()
	`, p.Key, string(body))
	if err != nil {
		return fmt.Errorf("upsert document %s: %w", p.Key, err)
	}
	return nil
}

func (p *PostgresBackend) Preserve(ctx context.Context, body []byte) (string, error) {
	var id int64
	err := p.DB.QueryRow(ctx, `
		INSERT INTO documents_corrupt(key, body) VALUES ($1, $2) RETURNING id
	`, p.Key, string(body)).Scan(&id)
	if err != nil {
		return "", fmt.Errorf("preserve document %s: %w", p.Key, err)
	}
	return fmt.Sprintf("documents_corrupt#%d", id), nil
}
