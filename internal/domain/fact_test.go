package domain

import "testing"

func TestFactValidate(t *testing.T) {
	valid := Fact{ID: "f1", Description: "retrieve personal info", Intent: "memory_read", Confidence: 0.9}
	if err := valid.Validate(); err != nil {
		t.Fatalf("valid fact rejected: %v", err)
	}

	cases := map[string]Fact{
		"missing id":          {Description: "d", Intent: "x", Confidence: 0.5},
		"missing description": {ID: "f1", Intent: "x", Confidence: 0.5},
		"missing intent":      {ID: "f1", Description: "d", Confidence: 0.5},
		"confidence too high": {ID: "f1", Description: "d", Intent: "x", Confidence: 1.1},
		"confidence negative": {ID: "f1", Description: "d", Intent: "x", Confidence: -0.1},
	}
	for name, f := range cases {
		if err := f.Validate(); err == nil {
			t.Errorf("%s: expected error", name)
		}
	}
}

func TestFactIndexText(t *testing.T) {
	f := Fact{ID: "f1", Description: "retrieve personal info", Intent: "memory_read", Confidence: 0.9}
	if got := f.IndexText(); got != "retrieve personal info" {
		t.Errorf("unexpected index text: %q", got)
	}

	f.Examples = []string{"what is my name", "where do I live"}
	want := "retrieve personal info what is my name where do I live"
	if got := f.IndexText(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestFactQuestion(t *testing.T) {
	f := Fact{Description: "storing personal information"}
	want := "Does the request involve storing personal information?"
	if got := f.Question(); got != want {
		t.Errorf("expected %q, got %q", want, got)
	}
}

func TestSuggestionTerminal(t *testing.T) {
	sg := Suggestion{ValidationStatus: StatusSuggested}
	if sg.Terminal() {
		t.Error("suggested is not terminal")
	}
	sg.ValidationStatus = StatusValidated
	if !sg.Terminal() {
		t.Error("validated is terminal")
	}
	sg.ValidationStatus = StatusRejected
	if !sg.Terminal() {
		t.Error("rejected is terminal")
	}
}

func TestSuggestionFact(t *testing.T) {
	sg := Suggestion{
		ID:          "learned_004",
		Description: `requests similar to "turn off the lights"`,
		Intent:      "device_control",
		Confidence:  SuggestedConfidence,
		Category:    "learned",
		Examples:    []string{"turn off the lights"},
		Tags:        []string{"learned", "auto-suggested", "turn", "off", "the"},
	}

	f := sg.Fact()
	if f.ID != sg.ID {
		t.Errorf("fact id must equal the suggestion id, got %s", f.ID)
	}
	if err := f.Validate(); err != nil {
		t.Errorf("promoted fact should be valid: %v", err)
	}
	if f.Intent != sg.Intent || f.Confidence != sg.Confidence {
		t.Errorf("payload not carried over: %+v", f)
	}

	// The conversion copies slices; mutating the fact must not touch the
	// suggestion.
	f.Tags[0] = "mutated"
	if sg.Tags[0] != "learned" {
		t.Error("tags are shared between suggestion and promoted fact")
	}
}
