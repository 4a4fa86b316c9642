package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/verdict-ai/verdict/internal/domain"
	"github.com/verdict-ai/verdict/internal/store"
	"go.uber.org/zap"
)

var (
	ErrFailureGoalEmpty     = errors.New("goal is required")
	ErrFailureIntentMissing = errors.New("expected_intent is required")
)

// goalTagCount is how many leading goal tokens become suggestion tags.
const goalTagCount = 3

// LearningService turns observed misclassifications into suggested facts
// and promotes them into the fact store once a human validates them.
type LearningService struct {
	suggestions domain.SuggestionStore
	facts       domain.FactStore
	logger      *zap.Logger
}

func NewLearningService(suggestions domain.SuggestionStore, facts domain.FactStore, logger *zap.Logger) *LearningService {
	return &LearningService{
		suggestions: suggestions,
		facts:       facts,
		logger:      logger,
	}
}

// SuggestFromFailure records a candidate fact derived from a goal the
// classifier got wrong. The suggestion waits in the log until a human
// validates or rejects it.
func (s *LearningService) SuggestFromFailure(ctx context.Context, goal, expectedIntent, actualIntent, source string) (*domain.Suggestion, error) {
	if strings.TrimSpace(goal) == "" {
		return nil, ErrFailureGoalEmpty
	}
	if expectedIntent == "" {
		return nil, ErrFailureIntentMissing
	}

	if source == "" {
		source = fmt.Sprintf("classified as %q, expected %q", actualIntent, expectedIntent)
	}

	sg := &domain.Suggestion{
		Description:   fmt.Sprintf("requests similar to %q", goal),
		Intent:        expectedIntent,
		Confidence:    domain.SuggestedConfidence,
		Category:      "learned",
		Examples:      []string{goal},
		Tags:          suggestionTags(goal),
		SourceFailure: source,
	}

	if err := s.suggestions.Create(ctx, sg); err != nil {
		return nil, fmt.Errorf("record suggestion: %w", err)
	}

	s.logger.Info("suggested fact from failure",
		zap.String("suggestion_id", sg.ID),
		zap.String("expected_intent", expectedIntent),
		zap.String("actual_intent", actualIntent))

	return sg, nil
}

func suggestionTags(goal string) []string {
	tags := []string{"learned", "auto-suggested"}
	for i, tok := range strings.Fields(strings.ToLower(goal)) {
		if i >= goalTagCount {
			break
		}
		tags = append(tags, tok)
	}
	return tags
}

// Validate applies the human decision. Acceptance is a two-phase commit
// keyed by the suggestion id: the validated status and intended fact id are
// persisted to the suggestion log first, then the fact is appended to the
// store; Recover replays the second step after a crash. An unknown id is a
// warned no-op, per the store's contract with its collaborators.
func (s *LearningService) Validate(ctx context.Context, id string, accept bool, reason string) (*domain.Suggestion, error) {
	sg, err := s.suggestions.GetByID(ctx, id)
	if errors.Is(err, store.ErrNotFound) {
		s.logger.Warn("validation for unknown suggestion ignored", zap.String("suggestion_id", id))
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	if !accept {
		if err := s.suggestions.MarkRejected(ctx, id, reason); err != nil {
			return nil, err
		}
		s.logger.Info("suggestion rejected",
			zap.String("suggestion_id", id),
			zap.String("reason", reason))
		return s.suggestions.GetByID(ctx, id)
	}

	// Promoted facts reuse the suggestion id, which makes the append
	// idempotent across replays.
	if err := s.suggestions.MarkValidated(ctx, id, sg.ID); err != nil {
		return nil, err
	}

	if err := s.promote(ctx, sg); err != nil {
		// The write-ahead status is durable; Recover retries the append.
		return nil, fmt.Errorf("promote suggestion %s: %w", id, err)
	}

	// Close the write-ahead window so replay stops considering this
	// suggestion. Past this point the fact can be removed for good.
	if err := s.suggestions.MarkPromoted(ctx, id); err != nil {
		return nil, fmt.Errorf("record promotion %s: %w", id, err)
	}

	s.logger.Info("suggestion promoted to fact", zap.String("fact_id", sg.ID))
	return s.suggestions.GetByID(ctx, id)
}

func (s *LearningService) promote(ctx context.Context, sg *domain.Suggestion) error {
	err := s.facts.Add(ctx, sg.Fact())
	if errors.Is(err, store.ErrDuplicateFact) {
		// Already applied by an earlier attempt.
		return nil
	}
	return err
}

// List returns the full suggestion log, newest last.
func (s *LearningService) List(ctx context.Context) ([]domain.Suggestion, error) {
	return s.suggestions.List(ctx)
}

// Recover completes promotions interrupted between the suggestion-log
// write and the fact-file append. Only suggestions still inside the
// write-ahead window are replayed; once a promotion is recorded complete,
// removing the fact is permanent. Safe to run at every startup.
func (s *LearningService) Recover(ctx context.Context) error {
	validated, err := s.suggestions.Validated(ctx)
	if err != nil {
		return err
	}

	replayed := 0
	for i := range validated {
		sg := validated[i]
		if sg.Promoted {
			continue
		}
		// A duplicate-id append means the crash hit after the fact
		// landed; either way the promotion is complete now.
		if err := s.promote(ctx, &sg); err != nil {
			return fmt.Errorf("replay promotion %s: %w", sg.ID, err)
		}
		if err := s.suggestions.MarkPromoted(ctx, sg.ID); err != nil {
			return fmt.Errorf("record promotion %s: %w", sg.ID, err)
		}
		replayed++
	}

	if replayed > 0 {
		s.logger.Info("replayed interrupted promotions", zap.Int("count", replayed))
	}
	return nil
}
