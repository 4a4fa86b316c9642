package domain

import (
	"fmt"
	"strings"
)

// Fact asserts that goals matching its description belong to an intent.
// Confidence is the base weight of that assertion, in [0,1]. Facts are
// immutable once stored; edits happen by replacement.
type Fact struct {
	ID          string   `json:"id"`
	Description string   `json:"description"`
	Intent      string   `json:"intent"`
	Confidence  float64  `json:"confidence"`
	Category    string   `json:"category,omitempty"`
	Examples    []string `json:"examples,omitempty"`
	Tags        []string `json:"tags,omitempty"`
}

func (f *Fact) Validate() error {
	if f.ID == "" {
		return fmt.Errorf("fact id is required")
	}
	if f.Description == "" {
		return fmt.Errorf("fact %s: description is required", f.ID)
	}
	if f.Intent == "" {
		return fmt.Errorf("fact %s: intent is required", f.ID)
	}
	if f.Confidence < 0 || f.Confidence > 1 {
		return fmt.Errorf("fact %s: confidence %v out of range [0,1]", f.ID, f.Confidence)
	}
	return nil
}

// IndexText is the text indexed for semantic retrieval: the description
// plus all examples.
func (f *Fact) IndexText() string {
	if len(f.Examples) == 0 {
		return f.Description
	}
	return f.Description + " " + strings.Join(f.Examples, " ")
}

// Question phrases the fact's condition as a yes/no question for the oracle.
func (f *Fact) Question() string {
	return fmt.Sprintf("Does the request involve %s?", f.Description)
}

// RelevantFact pairs a fact with its retrieval similarity in [0,1].
type RelevantFact struct {
	Fact
	Similarity float64 `json:"similarity"`
}
