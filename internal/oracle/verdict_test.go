package oracle

import (
	"testing"

	"github.com/verdict-ai/verdict/internal/domain"
)

func TestParseJudgement(t *testing.T) {
	cases := []struct {
		raw  string
		want domain.Verdict
	}{
		{"YES", domain.VerdictMatch},
		{"yes", domain.VerdictMatch},
		{"Yes.", domain.VerdictMatch},
		{"  YES\n", domain.VerdictMatch},
		{"YES, the request involves that.", domain.VerdictMatch},
		{"NO", domain.VerdictNoMatch},
		{"no!", domain.VerdictNoMatch},
		{"No, it does not.", domain.VerdictNoMatch},
		{"UNSURE", domain.VerdictUncertain},
		{"maybe", domain.VerdictUncertain},
		{"I cannot tell from the request.", domain.VerdictUncertain},
		{"", domain.VerdictUncertain},
	}

	for _, tc := range cases {
		j := parseJudgement(tc.raw)
		if j.Verdict != tc.want {
			t.Errorf("parseJudgement(%q) = %s, want %s", tc.raw, j.Verdict, tc.want)
		}
		if tc.want == domain.VerdictMatch && j.Confidence != matchConfidence {
			t.Errorf("parseJudgement(%q) confidence = %f, want %f", tc.raw, j.Confidence, matchConfidence)
		}
		if tc.want != domain.VerdictMatch && j.Confidence != 0 {
			t.Errorf("parseJudgement(%q) should carry no confidence, got %f", tc.raw, j.Confidence)
		}
	}
}
