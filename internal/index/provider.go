package index

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/verdict-ai/verdict/internal/domain"
)

// Provider constants
const (
	ProviderPgvector = "pgvector"
	ProviderMemory   = "memory"
)

// NewIndex creates the retrieval index for the given provider. The pgvector
// provider requires a database pool and bootstraps its schema.
func NewIndex(ctx context.Context, provider string, db *pgxpool.Pool, embedder domain.EmbeddingClient) (domain.Index, error) {
	switch provider {
	case ProviderPgvector:
		if db == nil {
			return nil, fmt.Errorf("DATABASE_URL is required for pgvector index provider")
		}
		idx := NewPgvector(db, embedder)
		if err := idx.Bootstrap(ctx); err != nil {
			return nil, err
		}
		return idx, nil

	case ProviderMemory:
		return NewMemory(embedder), nil

	default:
		return nil, fmt.Errorf("unknown index provider: %s (valid options: pgvector, memory)", provider)
	}
}
