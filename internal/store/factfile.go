package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"

	"github.com/verdict-ai/verdict/internal/domain"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

const (
	factDocumentVersion  = 1
	defaultTopK          = 10
	defaultMinSimilarity = 0.3
	rebuildConcurrency   = 8
)

type factDocument struct {
	Version int           `json:"version"`
	Facts   []domain.Fact `json:"facts"`
}

// FactFile is the durable, indexed fact store. The in-memory set and the
// semantic index are mutated together under the write lock; the JSON file
// lags behind and is the recovery source of truth on restart.
type FactFile struct {
	path   string
	index  domain.Index
	logger *zap.Logger

	mu    sync.RWMutex
	facts map[string]domain.Fact
}

// OpenFactFile loads the durable fact file, skipping malformed records, and
// rebuilds the semantic index from it when the index is empty.
func OpenFactFile(ctx context.Context, path string, index domain.Index, logger *zap.Logger) (*FactFile, error) {
	s := &FactFile{
		path:   path,
		index:  index,
		logger: logger,
		facts:  make(map[string]domain.Fact),
	}

	doc, err := readFactDocument(path)
	if err != nil {
		return nil, err
	}

	for i := range doc.Facts {
		f := doc.Facts[i]
		if err := f.Validate(); err != nil {
			logger.Warn("skipping malformed fact record", zap.Error(err))
			continue
		}
		if _, dup := s.facts[f.ID]; dup {
			logger.Warn("skipping duplicate fact record", zap.String("fact_id", f.ID))
			continue
		}
		s.facts[f.ID] = f
	}

	if err := s.ensureIndexed(ctx); err != nil {
		// Retrieval degrades to full enumeration; startup continues.
		logger.Warn("semantic index rebuild failed", zap.Error(err))
	}

	logger.Info("fact store loaded",
		zap.String("path", path),
		zap.Int("facts", len(s.facts)))

	return s, nil
}

func readFactDocument(path string) (*factDocument, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return &factDocument{Version: factDocumentVersion}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read fact file: %w", err)
	}

	var doc factDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse fact file %s: %w", path, err)
	}
	return &doc, nil
}

func (s *FactFile) ensureIndexed(ctx context.Context) error {
	n, err := s.index.Count(ctx)
	if err != nil {
		return fmt.Errorf("index count: %w", err)
	}
	if n > 0 {
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(rebuildConcurrency)
	for id := range s.facts {
		f := s.facts[id]
		g.Go(func() error {
			return s.index.Upsert(gctx, f.ID, f.IndexText(), indexMetadata(&f))
		})
	}
	return g.Wait()
}

func indexMetadata(f *domain.Fact) map[string]string {
	return map[string]string{
		"intent":   f.Intent,
		"category": f.Category,
	}
}

func (s *FactFile) Add(ctx context.Context, f *domain.Fact) error {
	if err := f.Validate(); err != nil {
		return err
	}

	s.mu.Lock()
	if _, exists := s.facts[f.ID]; exists {
		s.mu.Unlock()
		return ErrDuplicateFact
	}
	if err := s.index.Upsert(ctx, f.ID, f.IndexText(), indexMetadata(f)); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("index fact %s: %w", f.ID, err)
	}
	s.facts[f.ID] = *f
	s.mu.Unlock()

	return s.persist()
}

func (s *FactFile) Remove(ctx context.Context, id string) error {
	s.mu.Lock()
	if _, exists := s.facts[id]; !exists {
		s.mu.Unlock()
		return ErrNotFound
	}
	if err := s.index.Delete(ctx, id); err != nil {
		s.mu.Unlock()
		return fmt.Errorf("unindex fact %s: %w", id, err)
	}
	delete(s.facts, id)
	s.mu.Unlock()

	return s.persist()
}

func (s *FactFile) GetByID(ctx context.Context, id string) (*domain.Fact, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	f, ok := s.facts[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &f, nil
}

func (s *FactFile) All(ctx context.Context) []domain.Fact {
	s.mu.RLock()
	facts := make([]domain.Fact, 0, len(s.facts))
	for _, f := range s.facts {
		facts = append(facts, f)
	}
	s.mu.RUnlock()

	sortByConfidence(facts)
	return facts
}

func sortByConfidence(facts []domain.Fact) {
	sort.Slice(facts, func(i, j int) bool {
		if facts[i].Confidence != facts[j].Confidence {
			return facts[i].Confidence > facts[j].Confidence
		}
		return facts[i].ID < facts[j].ID
	})
}

func (s *FactFile) FindRelevant(ctx context.Context, goal string, topK int, minSimilarity float64) ([]domain.RelevantFact, error) {
	if topK <= 0 {
		topK = defaultTopK
	}

	hits, err := s.index.Query(ctx, goal, topK)
	if err != nil {
		return nil, fmt.Errorf("index query: %w", err)
	}

	s.mu.RLock()
	defer s.mu.RUnlock()

	results := make([]domain.RelevantFact, 0, len(hits))
	for _, hit := range hits {
		f, ok := s.facts[hit.ID]
		if !ok {
			// Index entry for a concurrently removed fact.
			continue
		}
		sim := 1 - hit.Distance/2
		if sim < 0 {
			sim = 0
		}
		if sim < minSimilarity {
			continue
		}
		results = append(results, domain.RelevantFact{Fact: f, Similarity: sim})
	}
	return results, nil
}

func (s *FactFile) Candidates(ctx context.Context, goal string, opts domain.CandidateOpts) ([]domain.Fact, error) {
	if opts.Exhaustive {
		return s.All(ctx), nil
	}

	topK := opts.TopK
	if topK <= 0 {
		topK = defaultTopK
	}
	minSim := opts.MinSimilarity
	if minSim <= 0 {
		minSim = defaultMinSimilarity
	}

	relevant, err := s.FindRelevant(ctx, goal, topK, minSim)
	if err != nil {
		s.logger.Warn("semantic retrieval unavailable, falling back to full scan",
			zap.Error(err))
		return s.All(ctx), nil
	}

	facts := make([]domain.Fact, 0, len(relevant))
	for _, r := range relevant {
		facts = append(facts, r.Fact)
	}
	sortByConfidence(facts)
	return facts, nil
}

func (s *FactFile) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.facts)
}

// persist writes the full document with a temp-file rename so the durable
// copy is never observed half-written. A write failure is surfaced to the
// caller but leaves the in-memory state as mutated.
func (s *FactFile) persist() error {
	s.mu.RLock()
	doc := factDocument{Version: factDocumentVersion, Facts: make([]domain.Fact, 0, len(s.facts))}
	for _, f := range s.facts {
		doc.Facts = append(doc.Facts, f)
	}
	s.mu.RUnlock()

	sortByConfidence(doc.Facts)
	return writeDocument(s.path, doc)
}

func writeDocument(path string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal document: %w", err)
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create data dir: %w", err)
		}
	}

	tmp := path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	return nil
}
