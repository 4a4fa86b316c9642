package oracle

import (
	"strings"

	"github.com/verdict-ai/verdict/internal/domain"
)

// matchConfidence is the confidence attached to an affirmative answer from
// the LLM-backed judges. The evaluator's policy may override it.
const matchConfidence = 0.9

// parseJudgement maps a raw completion to the tri-state judgement.
// Anything that is neither a clear yes nor a clear no is treated as
// uncertain rather than discarded.
func parseJudgement(raw string) domain.Judgement {
	answer := strings.ToUpper(strings.TrimSpace(raw))
	if i := strings.IndexFunc(answer, func(r rune) bool { return r == ' ' || r == '\n' }); i > 0 {
		answer = answer[:i]
	}
	answer = strings.Trim(answer, ".,!\"'")

	switch answer {
	case "YES":
		return domain.Judgement{Verdict: domain.VerdictMatch, Confidence: matchConfidence}
	case "NO":
		return domain.Judgement{Verdict: domain.VerdictNoMatch}
	default:
		return domain.Judgement{Verdict: domain.VerdictUncertain}
	}
}
