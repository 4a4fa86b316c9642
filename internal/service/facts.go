package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/verdict-ai/verdict/internal/domain"
	"go.uber.org/zap"
)

var (
	ErrFactDescriptionEmpty = errors.New("description is required")
	ErrFactIntentEmpty      = errors.New("intent is required")
	ErrFactConfidenceRange  = errors.New("confidence must be in [0,1]")
	ErrRelevantGoalEmpty    = errors.New("goal is required")
)

// FactService validates fact mutations before they reach the store.
type FactService struct {
	store  domain.FactStore
	logger *zap.Logger
}

func NewFactService(store domain.FactStore, logger *zap.Logger) *FactService {
	return &FactService{store: store, logger: logger}
}

// Create adds a fact, allocating an id when the caller did not supply one.
func (s *FactService) Create(ctx context.Context, f *domain.Fact) error {
	if strings.TrimSpace(f.Description) == "" {
		return ErrFactDescriptionEmpty
	}
	if f.Intent == "" {
		return ErrFactIntentEmpty
	}
	if f.Confidence < 0 || f.Confidence > 1 {
		return ErrFactConfidenceRange
	}
	if f.ID == "" {
		f.ID = fmt.Sprintf("fact_%s", uuid.NewString()[:8])
	}

	if err := s.store.Add(ctx, f); err != nil {
		return err
	}

	s.logger.Info("fact added",
		zap.String("fact_id", f.ID),
		zap.String("intent", f.Intent))
	return nil
}

func (s *FactService) GetByID(ctx context.Context, id string) (*domain.Fact, error) {
	return s.store.GetByID(ctx, id)
}

func (s *FactService) Delete(ctx context.Context, id string) error {
	if err := s.store.Remove(ctx, id); err != nil {
		return err
	}
	s.logger.Info("fact removed", zap.String("fact_id", id))
	return nil
}

func (s *FactService) List(ctx context.Context) []domain.Fact {
	return s.store.All(ctx)
}

func (s *FactService) FindRelevant(ctx context.Context, goal string, topK int, minSimilarity float64) ([]domain.RelevantFact, error) {
	if strings.TrimSpace(goal) == "" {
		return nil, ErrRelevantGoalEmpty
	}
	return s.store.FindRelevant(ctx, goal, topK, minSimilarity)
}
