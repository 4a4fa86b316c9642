package domain

import "context"

// Verdict is the oracle's tri-state answer to a fact question.
type Verdict string

const (
	VerdictMatch     Verdict = "match"
	VerdictNoMatch   Verdict = "no_match"
	VerdictUncertain Verdict = "uncertain"
)

// Judgement is one oracle answer. Confidence is meaningful only for
// VerdictMatch; zero means "use the caller's default match confidence".
type Judgement struct {
	Verdict    Verdict `json:"verdict"`
	Confidence float64 `json:"confidence,omitempty"`
}

// Oracle judges whether a fact's condition holds for a goal. Implementations
// are pluggable inference backends; the core depends only on this contract.
type Oracle interface {
	Judge(ctx context.Context, question, goal string) (Judgement, error)
}

// EmbeddingClient turns text into a vector.
type EmbeddingClient interface {
	Embed(ctx context.Context, text string) ([]float32, error)
}

// IndexHit is one ranked retrieval result. Distance is the index's native
// metric, assumed bounded in [0,2] (cosine distance).
type IndexHit struct {
	ID       string
	Distance float64
}

// Index is the external retrieval capability over fact text.
type Index interface {
	Upsert(ctx context.Context, id, text string, metadata map[string]string) error
	Query(ctx context.Context, text string, topK int) ([]IndexHit, error)
	Delete(ctx context.Context, id string) error
	Count(ctx context.Context) (int, error)
}
