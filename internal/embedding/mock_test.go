package embedding

import (
	"context"
	"errors"
	"testing"
)

func TestMockEmbedDeterministic(t *testing.T) {
	ctx := context.Background()
	c := NewMockClient()

	a, err := c.Embed(ctx, "What is my name?")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}
	b, err := c.Embed(ctx, "what is my name")
	if err != nil {
		t.Fatalf("embed: %v", err)
	}

	// Case and punctuation do not change the token bag.
	if len(a) != len(b) {
		t.Fatalf("dimension mismatch: %d vs %d", len(a), len(b))
	}
	for i := range a {
		if a[i] != b[i] {
			t.Fatalf("vectors differ at %d: %f vs %f", i, a[i], b[i])
		}
	}

	if len(c.Calls) != 2 {
		t.Errorf("expected 2 recorded calls, got %d", len(c.Calls))
	}
}

func TestMockEmbedError(t *testing.T) {
	c := NewMockClient()
	c.Err = errors.New("embedding backend down")

	if _, err := c.Embed(context.Background(), "anything"); err == nil {
		t.Fatal("expected configured error")
	}
}
