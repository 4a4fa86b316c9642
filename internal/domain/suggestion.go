package domain

// ValidationStatus is the lifecycle state of a suggestion. Transitions are
// suggested -> validated or suggested -> rejected, exactly once.
type ValidationStatus string

const (
	StatusSuggested ValidationStatus = "suggested"
	StatusValidated ValidationStatus = "validated"
	StatusRejected  ValidationStatus = "rejected"
)

func ValidStatus(s string) bool {
	switch ValidationStatus(s) {
	case StatusSuggested, StatusValidated, StatusRejected:
		return true
	}
	return false
}

// SuggestedConfidence is the fixed base confidence assigned to facts
// proposed from observed misclassifications, pending human review.
const SuggestedConfidence = 0.80

// Suggestion is a candidate fact proposed from a misclassified goal.
// The feedback loop owns the suggestion log; once a suggestion is
// validated, the promoted fact belongs to the fact store.
type Suggestion struct {
	ID               string           `json:"id"`
	Description      string           `json:"description"`
	Intent           string           `json:"intent"`
	Confidence       float64          `json:"confidence"`
	Category         string           `json:"category,omitempty"`
	Examples         []string         `json:"examples,omitempty"`
	Tags             []string         `json:"tags,omitempty"`
	SourceFailure    string           `json:"source_failure"`
	ValidationStatus ValidationStatus `json:"validation_status"`

	// Reason is the optional free-text rationale recorded on rejection.
	Reason string `json:"reason,omitempty"`

	// PromotedFactID is written before the fact-file append so a crash
	// between the two writes can be replayed on startup.
	PromotedFactID string `json:"promoted_fact_id,omitempty"`

	// Promoted is written after the fact-file append completes. A
	// validated suggestion without it is an interrupted promotion; with
	// it, the fact's later lifecycle (including removal) is its own.
	Promoted bool `json:"promoted,omitempty"`
}

// Terminal reports whether the suggestion has left the suggested state.
func (s *Suggestion) Terminal() bool {
	return s.ValidationStatus == StatusValidated || s.ValidationStatus == StatusRejected
}

// Fact converts a validated suggestion into the fact it promotes.
func (s *Suggestion) Fact() *Fact {
	return &Fact{
		ID:          s.ID,
		Description: s.Description,
		Intent:      s.Intent,
		Confidence:  s.Confidence,
		Category:    s.Category,
		Examples:    append([]string(nil), s.Examples...),
		Tags:        append([]string(nil), s.Tags...),
	}
}
