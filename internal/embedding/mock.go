package embedding

import (
	"context"
	"hash/fnv"
	"strings"
	"sync"
	"unicode"
)

const mockDimensions = 256

// MockClient is a deterministic embedding client for testing and offline
// development. It hashes tokens into a fixed-size bag-of-words vector, so
// texts sharing vocabulary get high cosine similarity.
type MockClient struct {
	Err error

	mu    sync.Mutex
	Calls []string
}

func NewMockClient() *MockClient {
	return &MockClient{}
}

func (c *MockClient) Embed(ctx context.Context, text string) ([]float32, error) {
	c.mu.Lock()
	c.Calls = append(c.Calls, text)
	c.mu.Unlock()

	if c.Err != nil {
		return nil, c.Err
	}

	vec := make([]float32, mockDimensions)
	for _, tok := range tokenize(text) {
		h := fnv.New32a()
		_, _ = h.Write([]byte(tok))
		vec[h.Sum32()%mockDimensions]++
	}
	return vec, nil
}

func tokenize(text string) []string {
	return strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
}
