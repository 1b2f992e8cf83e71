// Package llmtest provides a scripted llm.Completer for tests.
package llmtest

import (
	"context"
	"fmt"
	"sync"

	"sharkin/internal/llm"
)

// Reply is one scripted answer: Text, or Err when set.
type Reply struct {
	Text string
	Err  error
}

// Completer replays Replies in order and records every request. Once the
// script is exhausted it fails with a provider error.
type Completer struct {
	mu       sync.Mutex
	Replies  []Reply
	Requests []llm.Request
}

func New(replies ...Reply) *Completer {
	return &Completer{Replies: replies}
}

func Text(s string) Reply { return Reply{Text: s} }

func Fail(err error) Reply { return Reply{Err: err} }

func (c *Completer) Name() string { return "fake" }

func (c *Completer) Complete(ctx context.Context, req llm.Request) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.Requests = append(c.Requests, req)
	if err := ctx.Err(); err != nil {
		return "", &llm.ProviderError{Provider: "fake", Err: err}
	}
	i := len(c.Requests) - 1
	if i >= len(c.Replies) {
		return "", &llm.ProviderError{Provider: "fake", Err: fmt.Errorf("no scripted reply for call %d", i+1)}
	}
	r := c.Replies[i]
	if r.Err != nil {
		return "", r.Err
	}
	return r.Text, nil
}

// Calls returns how many completions were requested.
func (c *Completer) Calls() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.Requests)
}

// Prompt returns the prompt of the i-th call.
func (c *Completer) Prompt(i int) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.Requests[i].Prompt
}
