package service

import (
	"context"
	"errors"
	"strings"
	"sync"

	"github.com/verdict-ai/verdict/internal/domain"
	"go.uber.org/zap"
)

var ErrGoalEmpty = errors.New("goal is required")

const (
	// DefaultWorkers bounds the number of oracle calls in flight.
	DefaultWorkers = 10
	// DefaultThreshold is the aggregate confidence that triggers early exit.
	DefaultThreshold = 0.9
	// DefaultMatchConfidence is assigned to an affirmative judgement that
	// carries no confidence of its own.
	DefaultMatchConfidence = 0.9
	// UncertainMatchConfidence turns an uncertain judgement into a weak
	// vote instead of dropping it. Biases toward inclusion over silent
	// loss; change with care.
	UncertainMatchConfidence = 0.3
)

type ClassifierConfig struct {
	Workers             int
	Threshold           float64
	TopK                int
	MinSimilarity       float64
	Exhaustive          bool
	MatchConfidence     float64
	UncertainConfidence float64
}

func DefaultClassifierConfig() ClassifierConfig {
	return ClassifierConfig{
		Workers:             DefaultWorkers,
		Threshold:           DefaultThreshold,
		MatchConfidence:     DefaultMatchConfidence,
		UncertainConfidence: UncertainMatchConfidence,
	}
}

// ClassifyOptions override the classifier defaults for one call.
type ClassifyOptions struct {
	Threshold     float64
	TopK          int
	MinSimilarity float64
	Exhaustive    bool
}

// Classifier evaluates candidate facts against a goal through the oracle
// and aggregates their votes. Classification is read-only with respect to
// the store.
type Classifier struct {
	store  domain.FactStore
	oracle domain.Oracle
	logger *zap.Logger
	cfg    ClassifierConfig
}

func NewClassifier(store domain.FactStore, oracle domain.Oracle, logger *zap.Logger) *Classifier {
	return NewClassifierWithConfig(store, oracle, logger, DefaultClassifierConfig())
}

func NewClassifierWithConfig(store domain.FactStore, oracle domain.Oracle, logger *zap.Logger, cfg ClassifierConfig) *Classifier {
	if cfg.Workers <= 0 {
		cfg.Workers = DefaultWorkers
	}
	if cfg.Threshold <= 0 {
		cfg.Threshold = DefaultThreshold
	}
	if cfg.MatchConfidence <= 0 {
		cfg.MatchConfidence = DefaultMatchConfidence
	}
	if cfg.UncertainConfidence <= 0 {
		cfg.UncertainConfidence = UncertainMatchConfidence
	}
	return &Classifier{store: store, oracle: oracle, logger: logger, cfg: cfg}
}

// judgementOutcome is one completed evaluation. A nil record means the fact
// contributed no vote (negative answer or absorbed oracle failure).
type judgementOutcome struct {
	rec  *domain.MatchRecord
	desc string
}

// Classify checks the goal against candidate facts, at most cfg.Workers
// oracle calls at a time, accumulating matches in completion order. Once a
// strong match pushes the leading intent's aggregate share past the
// threshold, remaining evaluations are cancelled best-effort and the call
// returns early.
func (c *Classifier) Classify(ctx context.Context, goal string, opts ClassifyOptions) (*domain.ClassifyResult, error) {
	if strings.TrimSpace(goal) == "" {
		return nil, ErrGoalEmpty
	}

	threshold := opts.Threshold
	if threshold <= 0 {
		threshold = c.cfg.Threshold
	}
	if threshold > 1 {
		threshold = 1
	}

	candidates, err := c.store.Candidates(ctx, goal, domain.CandidateOpts{
		Exhaustive:    opts.Exhaustive || c.cfg.Exhaustive,
		TopK:          firstPositiveInt(opts.TopK, c.cfg.TopK),
		MinSimilarity: firstPositive(opts.MinSimilarity, c.cfg.MinSimilarity),
	})
	if err != nil {
		return nil, err
	}

	result := &domain.ClassifyResult{
		Intent:       domain.IntentUnknown,
		MatchedFacts: []string{},
		AllMatches:   []domain.MatchRecord{},
	}
	if len(candidates) == 0 {
		return result, nil
	}

	cctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan judgementOutcome)
	sem := make(chan struct{}, c.cfg.Workers)
	var wg sync.WaitGroup

	for _, f := range candidates {
		wg.Add(1)
		go func(f domain.Fact) {
			defer wg.Done()

			select {
			case sem <- struct{}{}:
			case <-cctx.Done():
				return
			}
			defer func() { <-sem }()

			out := judgementOutcome{desc: f.Description}
			j, err := c.oracle.Judge(cctx, f.Question(), goal)
			switch {
			case err != nil:
				// Counts toward facts checked, contributes no vote.
				if cctx.Err() == nil {
					c.logger.Warn("oracle judgement failed",
						zap.String("fact_id", f.ID),
						zap.Error(err))
				}
			case j.Verdict == domain.VerdictMatch:
				out.rec = c.record(f, j.Confidence)
			case j.Verdict == domain.VerdictUncertain:
				// Weak vote rather than exclusion.
				out.rec = c.record(f, c.cfg.UncertainConfidence)
			}

			select {
			case results <- out:
			case <-cctx.Done():
			}
		}(f)
	}

	go func() {
		wg.Wait()
		close(results)
	}()

	// Single-writer accumulation in completion order.
	for out := range results {
		result.FactsChecked++
		if out.rec == nil {
			continue
		}

		result.AllMatches = append(result.AllMatches, *out.rec)
		result.MatchedFacts = append(result.MatchedFacts, out.desc)

		if out.rec.MatchConfidence >= threshold {
			if _, conf := Aggregate(result.AllMatches); conf >= threshold {
				result.EarlyExit = true
				cancel()
				break
			}
		}
	}

	result.Intent, result.Confidence = Aggregate(result.AllMatches)

	c.logger.Debug("classification complete",
		zap.String("goal", goal),
		zap.String("intent", result.Intent),
		zap.Float64("confidence", result.Confidence),
		zap.Int("facts_checked", result.FactsChecked),
		zap.Int("candidates", len(candidates)),
		zap.Bool("early_exit", result.EarlyExit))

	return result, nil
}

func (c *Classifier) record(f domain.Fact, matchConfidence float64) *domain.MatchRecord {
	if matchConfidence <= 0 || matchConfidence > 1 {
		matchConfidence = c.cfg.MatchConfidence
	}
	return &domain.MatchRecord{
		FactID:          f.ID,
		Intent:          f.Intent,
		BaseConfidence:  f.Confidence,
		MatchConfidence: matchConfidence,
		TotalConfidence: f.Confidence * matchConfidence,
	}
}

func firstPositive(vals ...float64) float64 {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}

func firstPositiveInt(vals ...int) int {
	for _, v := range vals {
		if v > 0 {
			return v
		}
	}
	return 0
}
