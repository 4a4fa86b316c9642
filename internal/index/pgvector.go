package index

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	pgvector "github.com/pgvector/pgvector-go"
	"github.com/verdict-ai/verdict/internal/domain"
)

// Pgvector backs the retrieval capability with a Postgres pgvector table.
// Distances use the cosine operator, bounded in [0,2].
type Pgvector struct {
	db       *pgxpool.Pool
	embedder domain.EmbeddingClient
}

func NewPgvector(db *pgxpool.Pool, embedder domain.EmbeddingClient) *Pgvector {
	return &Pgvector{db: db, embedder: embedder}
}

// Bootstrap creates the index table if it does not exist. Dimensions follow
// the OpenAI text-embedding-3-small default.
func (p *Pgvector) Bootstrap(ctx context.Context) error {
	_, err := p.db.Exec(ctx, `CREATE EXTENSION IF NOT EXISTS vector`)
	if err != nil {
		return fmt.Errorf("create vector extension: %w", err)
	}
	_, err = p.db.Exec(ctx,
		`CREATE TABLE IF NOT EXISTS fact_index (
			id        TEXT PRIMARY KEY,
			content   TEXT NOT NULL,
			metadata  JSONB,
			embedding vector(1536) NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("create fact_index table: %w", err)
	}
	return nil
}

func (p *Pgvector) Upsert(ctx context.Context, id, text string, metadata map[string]string) error {
	vec, err := p.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("embed %s: %w", id, err)
	}

	meta, err := json.Marshal(metadata)
	if err != nil {
		return fmt.Errorf("marshal metadata: %w", err)
	}

	_, err = p.db.Exec(ctx,
		`INSERT INTO fact_index (id, content, metadata, embedding)
		 VALUES ($1, $2, $3, $4)
		 ON CONFLICT (id) DO UPDATE SET content = $2, metadata = $3, embedding = $4`,
		id, text, meta, pgvector.NewVector(vec),
	)
	if err != nil {
		return fmt.Errorf("upsert fact_index row: %w", err)
	}
	return nil
}

func (p *Pgvector) Query(ctx context.Context, text string, topK int) ([]domain.IndexHit, error) {
	vec, err := p.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	rows, err := p.db.Query(ctx,
		`SELECT id, embedding <=> $1 AS distance
		 FROM fact_index
		 ORDER BY embedding <=> $1
		 LIMIT $2`,
		pgvector.NewVector(vec), topK,
	)
	if err != nil {
		return nil, fmt.Errorf("query fact_index: %w", err)
	}
	defer rows.Close()

	var hits []domain.IndexHit
	for rows.Next() {
		var h domain.IndexHit
		if err := rows.Scan(&h.ID, &h.Distance); err != nil {
			return nil, fmt.Errorf("scan fact_index row: %w", err)
		}
		hits = append(hits, h)
	}
	return hits, rows.Err()
}

func (p *Pgvector) Delete(ctx context.Context, id string) error {
	_, err := p.db.Exec(ctx, `DELETE FROM fact_index WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete fact_index row: %w", err)
	}
	return nil
}

func (p *Pgvector) Count(ctx context.Context) (int, error) {
	var n int
	err := p.db.QueryRow(ctx, `SELECT COUNT(*) FROM fact_index`).Scan(&n)
	return n, err
}
