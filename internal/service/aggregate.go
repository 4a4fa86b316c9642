package service

import "github.com/verdict-ai/verdict/internal/domain"

// Aggregate reduces an ordered list of match records to a winning intent and
// a normalized confidence. Votes are each fact's total confidence summed per
// intent; the winner's confidence is its share of all observed votes. Ties
// go to the intent that accumulated its first record earliest. The score is
// relative to the matched set, not a calibrated probability.
func Aggregate(records []domain.MatchRecord) (string, float64) {
	if len(records) == 0 {
		return domain.IntentUnknown, 0
	}

	sums := make(map[string]float64, len(records))
	firstSeen := make(map[string]int, len(records))
	for i, rec := range records {
		if _, seen := firstSeen[rec.Intent]; !seen {
			firstSeen[rec.Intent] = i
		}
		sums[rec.Intent] += rec.TotalConfidence
	}

	var (
		winner string
		best   float64
		total  float64
	)
	for intent, sum := range sums {
		total += sum
		switch {
		case winner == "" || sum > best:
			winner, best = intent, sum
		case sum == best && firstSeen[intent] < firstSeen[winner]:
			winner = intent
		}
	}

	if total == 0 {
		return domain.IntentUnknown, 0
	}
	return winner, best / total
}
