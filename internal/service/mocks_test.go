package service

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/verdict-ai/verdict/internal/domain"
	"github.com/verdict-ai/verdict/internal/store"
)

type mockFactStore struct {
	mu    sync.Mutex
	facts map[string]domain.Fact

	// candidates, when set, is returned verbatim from Candidates.
	candidates []domain.Fact
}

func newMockFactStore(facts ...domain.Fact) *mockFactStore {
	m := &mockFactStore{facts: make(map[string]domain.Fact)}
	for _, f := range facts {
		m.facts[f.ID] = f
	}
	return m
}

func (m *mockFactStore) Add(ctx context.Context, f *domain.Fact) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.facts[f.ID]; exists {
		return store.ErrDuplicateFact
	}
	m.facts[f.ID] = *f
	return nil
}

func (m *mockFactStore) Remove(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.facts[id]; !exists {
		return store.ErrNotFound
	}
	delete(m.facts, id)
	return nil
}

func (m *mockFactStore) GetByID(ctx context.Context, id string) (*domain.Fact, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	f, ok := m.facts[id]
	if !ok {
		return nil, store.ErrNotFound
	}
	return &f, nil
}

func (m *mockFactStore) All(ctx context.Context) []domain.Fact {
	m.mu.Lock()
	facts := make([]domain.Fact, 0, len(m.facts))
	for _, f := range m.facts {
		facts = append(facts, f)
	}
	m.mu.Unlock()

	sort.Slice(facts, func(i, j int) bool {
		if facts[i].Confidence != facts[j].Confidence {
			return facts[i].Confidence > facts[j].Confidence
		}
		return facts[i].ID < facts[j].ID
	})
	return facts
}

func (m *mockFactStore) FindRelevant(ctx context.Context, goal string, topK int, minSimilarity float64) ([]domain.RelevantFact, error) {
	return nil, nil
}

func (m *mockFactStore) Candidates(ctx context.Context, goal string, opts domain.CandidateOpts) ([]domain.Fact, error) {
	m.mu.Lock()
	preset := m.candidates
	m.mu.Unlock()
	if preset != nil {
		return preset, nil
	}
	return m.All(ctx), nil
}

func (m *mockFactStore) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.facts)
}

type mockSuggestionStore struct {
	mu          sync.Mutex
	suggestions []domain.Suggestion
	nextSeq     int
}

func newMockSuggestionStore() *mockSuggestionStore {
	return &mockSuggestionStore{nextSeq: 1}
}

func (m *mockSuggestionStore) Create(ctx context.Context, s *domain.Suggestion) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	s.ID = fmt.Sprintf("learned_%03d", m.nextSeq)
	s.ValidationStatus = domain.StatusSuggested
	m.nextSeq++
	m.suggestions = append(m.suggestions, *s)
	return nil
}

func (m *mockSuggestionStore) find(id string) int {
	for i := range m.suggestions {
		if m.suggestions[i].ID == id {
			return i
		}
	}
	return -1
}

func (m *mockSuggestionStore) GetByID(ctx context.Context, id string) (*domain.Suggestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.find(id)
	if i < 0 {
		return nil, store.ErrNotFound
	}
	s := m.suggestions[i]
	return &s, nil
}

func (m *mockSuggestionStore) List(ctx context.Context) ([]domain.Suggestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]domain.Suggestion(nil), m.suggestions...), nil
}

func (m *mockSuggestionStore) MarkValidated(ctx context.Context, id, factID string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.find(id)
	if i < 0 {
		return store.ErrNotFound
	}
	if m.suggestions[i].Terminal() {
		return store.ErrSuggestionFinal
	}
	m.suggestions[i].ValidationStatus = domain.StatusValidated
	m.suggestions[i].PromotedFactID = factID
	return nil
}

func (m *mockSuggestionStore) MarkPromoted(ctx context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.find(id)
	if i < 0 {
		return store.ErrNotFound
	}
	if m.suggestions[i].ValidationStatus != domain.StatusValidated {
		return fmt.Errorf("suggestion %s is not validated", id)
	}
	m.suggestions[i].Promoted = true
	return nil
}

func (m *mockSuggestionStore) MarkRejected(ctx context.Context, id, reason string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := m.find(id)
	if i < 0 {
		return store.ErrNotFound
	}
	if m.suggestions[i].Terminal() {
		return store.ErrSuggestionFinal
	}
	m.suggestions[i].ValidationStatus = domain.StatusRejected
	m.suggestions[i].Reason = reason
	return nil
}

func (m *mockSuggestionStore) Validated(ctx context.Context) ([]domain.Suggestion, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []domain.Suggestion
	for _, s := range m.suggestions {
		if s.ValidationStatus == domain.StatusValidated {
			out = append(out, s)
		}
	}
	return out, nil
}
