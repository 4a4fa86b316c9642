package domain

// IntentUnknown is returned when no fact voted for the goal.
const IntentUnknown = "unknown"

// MatchRecord is one fact's vote for its intent during a single
// classification call. TotalConfidence = BaseConfidence * MatchConfidence.
type MatchRecord struct {
	FactID          string  `json:"fact_id"`
	Intent          string  `json:"intent"`
	BaseConfidence  float64 `json:"base_confidence"`
	MatchConfidence float64 `json:"match_confidence"`
	TotalConfidence float64 `json:"total_confidence"`
}

// ClassifyResult is the outcome of one classification call. Confidence is
// the winning intent's share of all observed votes, not a calibrated
// probability.
type ClassifyResult struct {
	Intent       string        `json:"intent"`
	Confidence   float64       `json:"confidence"`
	MatchedFacts []string      `json:"matched_facts"`
	AllMatches   []MatchRecord `json:"all_matches"`
	FactsChecked int           `json:"facts_checked"`
	EarlyExit    bool          `json:"early_exit"`
}
