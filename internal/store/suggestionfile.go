package store

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"

	"github.com/verdict-ai/verdict/internal/domain"
	"go.uber.org/zap"
)

const suggestionIDPrefix = "learned_"

type suggestionDocument struct {
	Suggestions []domain.Suggestion `json:"suggestions"`
}

// SuggestionFile is the durable suggestion log. It is append-mostly: the
// only in-place mutation is the single suggested -> validated/rejected
// transition, which is persisted before the promoted fact is written.
type SuggestionFile struct {
	path   string
	logger *zap.Logger

	mu          sync.Mutex
	suggestions []domain.Suggestion
	byID        map[string]int
	nextSeq     int
}

func OpenSuggestionFile(path string, logger *zap.Logger) (*SuggestionFile, error) {
	s := &SuggestionFile{
		path:    path,
		logger:  logger,
		byID:    make(map[string]int),
		nextSeq: 1,
	}

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return s, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read suggestion file: %w", err)
	}

	var doc suggestionDocument
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("parse suggestion file %s: %w", path, err)
	}

	for _, sg := range doc.Suggestions {
		if sg.ID == "" || !domain.ValidStatus(string(sg.ValidationStatus)) {
			logger.Warn("skipping malformed suggestion record", zap.String("id", sg.ID))
			continue
		}
		s.byID[sg.ID] = len(s.suggestions)
		s.suggestions = append(s.suggestions, sg)
		if seq, ok := parseSuggestionSeq(sg.ID); ok && seq >= s.nextSeq {
			s.nextSeq = seq + 1
		}
	}

	return s, nil
}

func parseSuggestionSeq(id string) (int, bool) {
	if !strings.HasPrefix(id, suggestionIDPrefix) {
		return 0, false
	}
	n, err := strconv.Atoi(strings.TrimPrefix(id, suggestionIDPrefix))
	if err != nil {
		return 0, false
	}
	return n, true
}

// Create assigns the next sequential learned_NNN id, stamps the suggested
// status, and persists the log.
func (s *SuggestionFile) Create(ctx context.Context, sg *domain.Suggestion) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sg.ID = fmt.Sprintf("%s%03d", suggestionIDPrefix, s.nextSeq)
	sg.ValidationStatus = domain.StatusSuggested
	s.nextSeq++

	s.byID[sg.ID] = len(s.suggestions)
	s.suggestions = append(s.suggestions, *sg)

	return s.persistLocked()
}

func (s *SuggestionFile) GetByID(ctx context.Context, id string) (*domain.Suggestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	sg := s.suggestions[i]
	return &sg, nil
}

func (s *SuggestionFile) List(ctx context.Context) ([]domain.Suggestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]domain.Suggestion(nil), s.suggestions...), nil
}

func (s *SuggestionFile) MarkValidated(ctx context.Context, id, factID string) error {
	return s.transition(id, func(sg *domain.Suggestion) {
		sg.ValidationStatus = domain.StatusValidated
		sg.PromotedFactID = factID
	})
}

func (s *SuggestionFile) MarkRejected(ctx context.Context, id, reason string) error {
	return s.transition(id, func(sg *domain.Suggestion) {
		sg.ValidationStatus = domain.StatusRejected
		sg.Reason = reason
	})
}

// MarkPromoted closes a promotion: the fact is durably in the fact file.
// Idempotent; valid only on a validated suggestion.
func (s *SuggestionFile) MarkPromoted(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	if s.suggestions[i].ValidationStatus != domain.StatusValidated {
		return fmt.Errorf("suggestion %s: cannot mark promoted in status %s",
			id, s.suggestions[i].ValidationStatus)
	}
	if s.suggestions[i].Promoted {
		return nil
	}

	s.suggestions[i].Promoted = true
	return s.persistLocked()
}

func (s *SuggestionFile) transition(id string, apply func(*domain.Suggestion)) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	i, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	if s.suggestions[i].Terminal() {
		return ErrSuggestionFinal
	}

	apply(&s.suggestions[i])
	return s.persistLocked()
}

func (s *SuggestionFile) Validated(ctx context.Context) ([]domain.Suggestion, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var out []domain.Suggestion
	for _, sg := range s.suggestions {
		if sg.ValidationStatus == domain.StatusValidated {
			out = append(out, sg)
		}
	}
	return out, nil
}

func (s *SuggestionFile) persistLocked() error {
	doc := suggestionDocument{Suggestions: make([]domain.Suggestion, len(s.suggestions))}
	copy(doc.Suggestions, s.suggestions)
	return writeDocument(s.path, doc)
}
