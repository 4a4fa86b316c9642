package index

import (
	"context"
	"fmt"
	"math"
	"sort"
	"sync"

	"github.com/verdict-ai/verdict/internal/domain"
)

type memoryEntry struct {
	text      string
	embedding []float32
}

// Memory is an in-process cosine index for development and tests. It embeds
// through the same client as the pgvector adapter so retrieval behavior is
// comparable.
type Memory struct {
	embedder domain.EmbeddingClient

	mu      sync.RWMutex
	entries map[string]memoryEntry
}

func NewMemory(embedder domain.EmbeddingClient) *Memory {
	return &Memory{
		embedder: embedder,
		entries:  make(map[string]memoryEntry),
	}
}

func (m *Memory) Upsert(ctx context.Context, id, text string, metadata map[string]string) error {
	vec, err := m.embedder.Embed(ctx, text)
	if err != nil {
		return fmt.Errorf("embed %s: %w", id, err)
	}

	m.mu.Lock()
	m.entries[id] = memoryEntry{text: text, embedding: vec}
	m.mu.Unlock()
	return nil
}

func (m *Memory) Query(ctx context.Context, text string, topK int) ([]domain.IndexHit, error) {
	vec, err := m.embedder.Embed(ctx, text)
	if err != nil {
		return nil, fmt.Errorf("embed query: %w", err)
	}

	m.mu.RLock()
	hits := make([]domain.IndexHit, 0, len(m.entries))
	for id, e := range m.entries {
		// Cosine distance, bounded in [0,2].
		hits = append(hits, domain.IndexHit{ID: id, Distance: 1 - cosine(vec, e.embedding)})
	}
	m.mu.RUnlock()

	sort.Slice(hits, func(i, j int) bool {
		if hits[i].Distance != hits[j].Distance {
			return hits[i].Distance < hits[j].Distance
		}
		return hits[i].ID < hits[j].ID
	})
	if topK > 0 && len(hits) > topK {
		hits = hits[:topK]
	}
	return hits, nil
}

func (m *Memory) Delete(ctx context.Context, id string) error {
	m.mu.Lock()
	delete(m.entries, id)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Count(ctx context.Context) (int, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.entries), nil
}

func cosine(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	var dot, na, nb float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		na += float64(a[i]) * float64(a[i])
		nb += float64(b[i]) * float64(b[i])
	}
	if na == 0 || nb == 0 {
		return 0
	}
	return dot / (math.Sqrt(na) * math.Sqrt(nb))
}
