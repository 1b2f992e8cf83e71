package llm

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newAnthropicTestServer(t *testing.T, status int, body string, seen *anthropicRequest) *AnthropicClient {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("x-api-key"))
		assert.Equal(t, anthropicVersion, r.Header.Get("anthropic-version"))
		if seen != nil {
			require.NoError(t, json.NewDecoder(r.Body).Decode(seen))
		}
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return NewAnthropicClient(AnthropicConfig{APIKey: "test-key", BaseURL: srv.URL + "/", Model: "claude-test"})
}

func TestAnthropicCompleteJoinsTextBlocks(t *testing.T) {
	var seen anthropicRequest
	c := newAnthropicTestServer(t, http.StatusOK,
		`{"content":[{"type":"text","text":"Here: "},{"type":"tool_use"},{"type":"text","text":"{\"a\":1}"}]}`, &seen)

	got, err := c.Complete(context.Background(), Request{Prompt: "hi", MaxTokens: 2000, Temperature: 0.3})
	require.NoError(t, err)

	assert.Equal(t, `Here: {"a":1}`, got)
	assert.Equal(t, "claude-test", seen.Model)
	assert.Equal(t, 2000, seen.MaxTokens)
	assert.Equal(t, 0.3, seen.Temperature)
	require.Len(t, seen.Messages, 1)
	assert.Equal(t, "user", seen.Messages[0].Role)
	assert.Equal(t, "hi", seen.Messages[0].Content)
	assert.Equal(t, "anthropic/claude-test", c.Name())
}

func TestAnthropicCompleteFailures(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode int
		empty    bool
	}{
		{name: "rate limited", status: http.StatusTooManyRequests, body: `{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`, wantCode: http.StatusTooManyRequests},
		{name: "server error with text body", status: http.StatusBadGateway, body: `upstream down`, wantCode: http.StatusBadGateway},
		{name: "empty completion", status: http.StatusOK, body: `{"content":[]}`, empty: true},
		{name: "garbage body", status: http.StatusOK, body: `not json`, wantCode: http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newAnthropicTestServer(t, tt.status, tt.body, nil)
			_, err := c.Complete(context.Background(), Request{Prompt: "hi", MaxTokens: 10})
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrProvider)
			assert.NotErrorIs(t, err, ErrParse)

			var pe *ProviderError
			require.True(t, errors.As(err, &pe))
			assert.Equal(t, tt.wantCode, pe.StatusCode)
			if tt.empty {
				assert.ErrorIs(t, err, ErrEmptyCompletion)
			}
		})
	}
}

func TestAnthropicCompleteTransportError(t *testing.T) {
	srv := httptest.NewServer(http.NotFoundHandler())
	url := srv.URL
	srv.Close()

	c := NewAnthropicClient(AnthropicConfig{APIKey: "k", BaseURL: url})
	_, err := c.Complete(context.Background(), Request{Prompt: "hi"})
	assert.ErrorIs(t, err, ErrProvider)
}

func TestAnthropicCompleteHonoursCancellation(t *testing.T) {
	c := newAnthropicTestServer(t, http.StatusOK, `{"content":[{"type":"text","text":"late"}]}`, nil)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := c.Complete(ctx, Request{Prompt: "hi"})
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
