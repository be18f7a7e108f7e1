package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnthropicCallerJoinsTextBlocks(t *testing.T) {
	var body map[string]any
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/messages", r.URL.Path)
		assert.Equal(t, "key", r.Header.Get("X-Api-Key"))
		assert.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprint(w, `{"id":"msg_1","type":"message","role":"assistant","model":"claude-sonnet-4-5","content":[{"type":"text","text":"Looks right.\n"},{"type":"text","text":"Category: CORRECT."}],"stop_reason":"end_turn","usage":{"input_tokens":3,"output_tokens":4}}`)
	}))
	t.Cleanup(server.Close)

	caller, err := NewAnthropicCaller("key", server.URL, server.Client())
	require.NoError(t, err)

	text, err := caller.Call(context.Background(), Request{
		Role:      RoleJudge,
		Model:     "claude-sonnet-4-5",
		Prompt:    "judge this",
		System:    "You are a judge.",
		MaxTokens: 2048,
	})
	require.NoError(t, err)
	assert.Equal(t, "Looks right.\nCategory: CORRECT.", text)
	assert.Equal(t, "claude-sonnet-4-5", body["model"])
	assert.EqualValues(t, 2048, body["max_tokens"])
	_, hasTemperature := body["temperature"]
	assert.False(t, hasTemperature, "judge requests carry no temperature")
}

func TestAnthropicCallerDoesNotRetry(t *testing.T) {
	var calls atomic.Int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"type":"error","error":{"type":"rate_limit_error","message":"slow down"}}`)
	}))
	t.Cleanup(server.Close)

	caller, err := NewAnthropicCaller("key", server.URL, server.Client())
	require.NoError(t, err)

	_, err = caller.Call(context.Background(), Request{Model: "m", Prompt: "p"})
	require.Error(t, err)
	assert.Equal(t, int32(1), calls.Load())
	assert.Equal(t, KindRateLimited, ErrorKind(err))
}
