package service

import (
	"context"
	"errors"
	"path/filepath"
	"testing"

	"go.uber.org/zap"

	"github.com/verdict-ai/verdict/internal/domain"
	"github.com/verdict-ai/verdict/internal/embedding"
	"github.com/verdict-ai/verdict/internal/index"
	"github.com/verdict-ai/verdict/internal/store"
)

func newLearning(t *testing.T) (*LearningService, *mockSuggestionStore, *mockFactStore) {
	t.Helper()
	suggestions := newMockSuggestionStore()
	facts := newMockFactStore()
	return NewLearningService(suggestions, facts, zap.NewNop()), suggestions, facts
}

func TestSuggestFromFailure(t *testing.T) {
	svc, _, _ := newLearning(t)

	sg, err := svc.SuggestFromFailure(context.Background(),
		"schedule a meeting tomorrow at noon", "calendar_write", "unknown", "")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if sg.ID != "learned_001" {
		t.Errorf("expected learned_001, got %s", sg.ID)
	}
	if sg.ValidationStatus != domain.StatusSuggested {
		t.Errorf("new suggestion should be suggested, got %s", sg.ValidationStatus)
	}
	if sg.Intent != "calendar_write" {
		t.Errorf("unexpected intent %s", sg.Intent)
	}
	if sg.Confidence != domain.SuggestedConfidence {
		t.Errorf("expected fixed confidence %f, got %f", domain.SuggestedConfidence, sg.Confidence)
	}
	if sg.SourceFailure != `classified as "unknown", expected "calendar_write"` {
		t.Errorf("unexpected source failure: %s", sg.SourceFailure)
	}
	if len(sg.Examples) != 1 || sg.Examples[0] != "schedule a meeting tomorrow at noon" {
		t.Errorf("goal should be recorded as an example: %v", sg.Examples)
	}

	wantTags := []string{"learned", "auto-suggested", "schedule", "a", "meeting"}
	if len(sg.Tags) != len(wantTags) {
		t.Fatalf("expected tags %v, got %v", wantTags, sg.Tags)
	}
	for i, tag := range wantTags {
		if sg.Tags[i] != tag {
			t.Errorf("tag %d: expected %s, got %s", i, tag, sg.Tags[i])
		}
	}
}

func TestSuggestFromFailureValidation(t *testing.T) {
	svc, _, _ := newLearning(t)

	if _, err := svc.SuggestFromFailure(context.Background(), "", "x", "y", ""); !errors.Is(err, ErrFailureGoalEmpty) {
		t.Errorf("expected ErrFailureGoalEmpty, got %v", err)
	}
	if _, err := svc.SuggestFromFailure(context.Background(), "goal", "", "y", ""); !errors.Is(err, ErrFailureIntentMissing) {
		t.Errorf("expected ErrFailureIntentMissing, got %v", err)
	}
}

func TestValidateAcceptPromotes(t *testing.T) {
	svc, _, facts := newLearning(t)

	sg, err := svc.SuggestFromFailure(context.Background(), "what song is playing", "music_query", "unknown", "")
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}

	out, err := svc.Validate(context.Background(), sg.ID, true, "")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if out.ValidationStatus != domain.StatusValidated {
		t.Errorf("expected validated, got %s", out.ValidationStatus)
	}
	if out.PromotedFactID != sg.ID {
		t.Errorf("promoted fact id should equal the suggestion id, got %s", out.PromotedFactID)
	}
	if !out.Promoted {
		t.Error("completed promotion should be recorded on the suggestion")
	}

	f, err := facts.GetByID(context.Background(), sg.ID)
	if err != nil {
		t.Fatalf("promoted fact missing from store: %v", err)
	}
	if f.Intent != "music_query" || f.Confidence != domain.SuggestedConfidence {
		t.Errorf("promoted fact carries wrong payload: %+v", f)
	}
}

func TestValidateRejectNeverPromotes(t *testing.T) {
	svc, _, facts := newLearning(t)

	sg, err := svc.SuggestFromFailure(context.Background(), "what song is playing", "music_query", "unknown", "")
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}

	out, err := svc.Validate(context.Background(), sg.ID, false, "too vague")
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	if out.ValidationStatus != domain.StatusRejected {
		t.Errorf("expected rejected, got %s", out.ValidationStatus)
	}
	if out.Reason != "too vague" {
		t.Errorf("expected reason recorded, got %q", out.Reason)
	}
	if facts.Len() != 0 {
		t.Error("rejection must not add a fact")
	}
}

func TestValidateTerminalIsFinal(t *testing.T) {
	svc, _, _ := newLearning(t)

	sg, err := svc.SuggestFromFailure(context.Background(), "what song is playing", "music_query", "unknown", "")
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if _, err := svc.Validate(context.Background(), sg.ID, true, ""); err != nil {
		t.Fatalf("first validate: %v", err)
	}

	if _, err := svc.Validate(context.Background(), sg.ID, false, "changed my mind"); !errors.Is(err, store.ErrSuggestionFinal) {
		t.Fatalf("expected ErrSuggestionFinal on re-validation, got %v", err)
	}
}

func TestValidateUnknownIDIsNoOp(t *testing.T) {
	svc, _, facts := newLearning(t)

	out, err := svc.Validate(context.Background(), "learned_999", true, "")
	if err != nil {
		t.Fatalf("unknown id should be absorbed, got %v", err)
	}
	if out != nil {
		t.Errorf("expected nil suggestion, got %+v", out)
	}
	if facts.Len() != 0 {
		t.Error("no fact should be created for an unknown id")
	}
}

func TestRecoverReplaysInterruptedPromotion(t *testing.T) {
	suggestions := newMockSuggestionStore()
	facts := newMockFactStore()
	svc := NewLearningService(suggestions, facts, zap.NewNop())

	sg, err := svc.SuggestFromFailure(context.Background(), "turn off the lights", "device_control", "unknown", "")
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}

	// Simulate a crash between the suggestion-log write and the fact
	// append: the status is durable, the fact never landed.
	if err := suggestions.MarkValidated(context.Background(), sg.ID, sg.ID); err != nil {
		t.Fatalf("mark validated: %v", err)
	}
	if facts.Len() != 0 {
		t.Fatal("precondition: fact store must be empty")
	}

	if err := svc.Recover(context.Background()); err != nil {
		t.Fatalf("recover: %v", err)
	}
	if _, err := facts.GetByID(context.Background(), sg.ID); err != nil {
		t.Fatalf("promotion not replayed: %v", err)
	}

	got, err := suggestions.GetByID(context.Background(), sg.ID)
	if err != nil {
		t.Fatalf("get suggestion: %v", err)
	}
	if !got.Promoted {
		t.Error("replay should record the completed promotion")
	}

	// A second pass finds nothing to do.
	if err := svc.Recover(context.Background()); err != nil {
		t.Fatalf("recover again: %v", err)
	}
	if facts.Len() != 1 {
		t.Errorf("replay must be idempotent, got %d facts", facts.Len())
	}
}

func TestRecoverClosesWindowAfterFactLanded(t *testing.T) {
	suggestions := newMockSuggestionStore()
	facts := newMockFactStore()
	svc := NewLearningService(suggestions, facts, zap.NewNop())

	sg, err := svc.SuggestFromFailure(context.Background(), "turn off the lights", "device_control", "unknown", "")
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}

	// Crash after the fact append but before the promotion was recorded:
	// the fact exists, the suggestion is still inside the window.
	if err := suggestions.MarkValidated(context.Background(), sg.ID, sg.ID); err != nil {
		t.Fatalf("mark validated: %v", err)
	}
	if err := facts.Add(context.Background(), sg.Fact()); err != nil {
		t.Fatalf("add fact: %v", err)
	}

	if err := svc.Recover(context.Background()); err != nil {
		t.Fatalf("recover: %v", err)
	}
	got, err := suggestions.GetByID(context.Background(), sg.ID)
	if err != nil {
		t.Fatalf("get suggestion: %v", err)
	}
	if !got.Promoted {
		t.Error("recover should record the promotion as complete")
	}
	if facts.Len() != 1 {
		t.Errorf("fact must not be duplicated, got %d", facts.Len())
	}
}

func TestRecoverLeavesRemovedFactRemoved(t *testing.T) {
	suggestions := newMockSuggestionStore()
	facts := newMockFactStore()
	svc := NewLearningService(suggestions, facts, zap.NewNop())

	sg, err := svc.SuggestFromFailure(context.Background(), "turn off the lights", "device_control", "unknown", "")
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if _, err := svc.Validate(context.Background(), sg.ID, true, ""); err != nil {
		t.Fatalf("validate: %v", err)
	}

	// An operator removes the learned fact for good.
	if err := facts.Remove(context.Background(), sg.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}

	if err := svc.Recover(context.Background()); err != nil {
		t.Fatalf("recover: %v", err)
	}
	if _, err := facts.GetByID(context.Background(), sg.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("removed fact must stay removed across restarts, got %v", err)
	}
	if facts.Len() != 0 {
		t.Errorf("expected empty fact store, got %d", facts.Len())
	}
}

// End-to-end against the durable stores: a validated suggestion survives as
// a fact in the fact file across a reload.
func TestValidatePersistsThroughFiles(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()
	logger := zap.NewNop()

	factPath := filepath.Join(dir, "facts.json")
	suggPath := filepath.Join(dir, "suggestions.json")

	idx := index.NewMemory(embedding.NewMockClient())
	factStore, err := store.OpenFactFile(ctx, factPath, idx, logger)
	if err != nil {
		t.Fatalf("open fact file: %v", err)
	}
	suggStore, err := store.OpenSuggestionFile(suggPath, logger)
	if err != nil {
		t.Fatalf("open suggestion file: %v", err)
	}

	svc := NewLearningService(suggStore, factStore, logger)
	sg, err := svc.SuggestFromFailure(ctx, "play some jazz", "music_play", "unknown", "")
	if err != nil {
		t.Fatalf("suggest: %v", err)
	}
	if _, err := svc.Validate(ctx, sg.ID, true, ""); err != nil {
		t.Fatalf("validate: %v", err)
	}

	// Reopen both files fresh, as a restart would.
	factStore2, err := store.OpenFactFile(ctx, factPath, index.NewMemory(embedding.NewMockClient()), logger)
	if err != nil {
		t.Fatalf("reopen fact file: %v", err)
	}
	f, err := factStore2.GetByID(ctx, sg.ID)
	if err != nil {
		t.Fatalf("promoted fact lost on reload: %v", err)
	}
	if f.Intent != "music_play" {
		t.Errorf("unexpected intent %s", f.Intent)
	}

	suggStore2, err := store.OpenSuggestionFile(suggPath, logger)
	if err != nil {
		t.Fatalf("reopen suggestion file: %v", err)
	}
	reloaded, err := suggStore2.GetByID(ctx, sg.ID)
	if err != nil {
		t.Fatalf("suggestion lost on reload: %v", err)
	}
	if reloaded.ValidationStatus != domain.StatusValidated || reloaded.PromotedFactID != sg.ID {
		t.Errorf("validated state lost on reload: %+v", reloaded)
	}
	if !reloaded.Promoted {
		t.Error("completed promotion lost on reload")
	}

	// Removing the promoted fact sticks across another restart.
	if err := factStore2.Remove(ctx, sg.ID); err != nil {
		t.Fatalf("remove: %v", err)
	}
	svc2 := NewLearningService(suggStore2, factStore2, logger)
	if err := svc2.Recover(ctx); err != nil {
		t.Fatalf("recover: %v", err)
	}
	if _, err := factStore2.GetByID(ctx, sg.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("removed fact must stay removed, got %v", err)
	}
}
