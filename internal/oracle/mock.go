package oracle

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/verdict-ai/verdict/internal/domain"
)

// MockCall records one Judge invocation for assertions.
type MockCall struct {
	Question string
	Goal     string
}

// MockClient is a configurable, deterministic oracle for testing. Answers
// are looked up by substring of the question; anything unmatched gets the
// Default judgement. Set JudgeFn to take full control.
type MockClient struct {
	// Answers maps a question substring to the judgement returned for it.
	Answers map[string]domain.Judgement
	// Errors maps a question substring to an error returned for it.
	Errors map[string]error
	// Default is returned when no substring matches. Zero value means
	// VerdictNoMatch.
	Default domain.Judgement
	// Delay is applied before answering, for concurrency tests.
	Delay time.Duration
	// JudgeFn, when set, overrides all of the above.
	JudgeFn func(ctx context.Context, question, goal string) (domain.Judgement, error)

	mu    sync.Mutex
	Calls []MockCall
}

func NewMockClient() *MockClient {
	return &MockClient{
		Answers: make(map[string]domain.Judgement),
		Errors:  make(map[string]error),
		Default: domain.Judgement{Verdict: domain.VerdictNoMatch},
	}
}

func (c *MockClient) Judge(ctx context.Context, question, goal string) (domain.Judgement, error) {
	c.mu.Lock()
	c.Calls = append(c.Calls, MockCall{Question: question, Goal: goal})
	c.mu.Unlock()

	if c.JudgeFn != nil {
		return c.JudgeFn(ctx, question, goal)
	}

	if c.Delay > 0 {
		select {
		case <-time.After(c.Delay):
		case <-ctx.Done():
			return domain.Judgement{}, ctx.Err()
		}
	}

	for substr, err := range c.Errors {
		if substr != "" && strings.Contains(question, substr) {
			return domain.Judgement{}, err
		}
	}
	for substr, j := range c.Answers {
		if substr != "" && strings.Contains(question, substr) {
			return j, nil
		}
	}
	return c.Default, nil
}

// CallCount returns how many judgements were requested.
func (c *MockClient) CallCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Calls)
}
