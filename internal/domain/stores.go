package domain

import "context"

// CandidateOpts controls how the store selects candidates for evaluation.
type CandidateOpts struct {
	// Exhaustive skips semantic retrieval and returns the full fact set.
	Exhaustive bool
	// TopK bounds semantic retrieval (default applied by the store).
	TopK int
	// MinSimilarity excludes weakly related facts from retrieval.
	MinSimilarity float64
}

type FactStore interface {
	Add(ctx context.Context, f *Fact) error
	Remove(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*Fact, error)
	// All returns every fact sorted by descending base confidence.
	All(ctx context.Context) []Fact
	// FindRelevant returns the facts semantically closest to the goal,
	// with similarity in [0,1], ranked best first.
	FindRelevant(ctx context.Context, goal string, topK int, minSimilarity float64) ([]RelevantFact, error)
	// Candidates returns evaluation candidates sorted by descending base
	// confidence, degrading to All when retrieval is unavailable.
	Candidates(ctx context.Context, goal string, opts CandidateOpts) ([]Fact, error)
	Len() int
}

type SuggestionStore interface {
	// Create allocates the next sequential id and persists the suggestion.
	Create(ctx context.Context, s *Suggestion) error
	GetByID(ctx context.Context, id string) (*Suggestion, error)
	List(ctx context.Context) ([]Suggestion, error)
	// MarkValidated records the terminal validated status together with the
	// intended fact id, ahead of the fact-file append.
	MarkValidated(ctx context.Context, id, factID string) error
	MarkRejected(ctx context.Context, id, reason string) error
	// MarkPromoted records that the promoted fact reached the fact file,
	// closing the write-ahead window opened by MarkValidated.
	MarkPromoted(ctx context.Context, id string) error
	// Validated returns every validated suggestion, for promotion replay.
	Validated(ctx context.Context) ([]Suggestion, error)
}
