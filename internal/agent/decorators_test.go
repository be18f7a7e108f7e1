package agent

import (
	"bytes"
	"context"
	"errors"
	"log/slog"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/time/rate"

	"abstain/internal/spec"
)

type recordedCall struct {
	role, model, kind string
}

type fakeRecorder struct {
	mu    sync.Mutex
	calls []recordedCall
}

func (r *fakeRecorder) ObserveCall(role, model, kind string, _ time.Duration) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, recordedCall{role: role, model: model, kind: kind})
}

func TestLoggedRecordsSuccessAndFailure(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))
	recorder := &fakeRecorder{}
	failing := errors.New("boom")
	next := CallerFunc(func(_ context.Context, req Request) (string, error) {
		if req.Model == "bad" {
			return "", failing
		}
		return "ok", nil
	})
	caller := Logged(next, logger, recorder)

	text, err := caller.Call(context.Background(), Request{Role: RoleAnswer, Model: "good"})
	require.NoError(t, err)
	assert.Equal(t, "ok", text)

	_, err = caller.Call(context.Background(), Request{Role: RoleJudge, Model: "bad"})
	require.ErrorIs(t, err, failing)

	assert.Equal(t, []recordedCall{
		{role: "answer", model: "good", kind: KindOK},
		{role: "judge", model: "bad", kind: KindTransport},
	}, recorder.calls)
	assert.True(t, strings.Contains(logs.String(), "remote call failed"))
	assert.True(t, strings.Contains(logs.String(), "model=bad"))
}

func TestThrottledHonoursCancellation(t *testing.T) {
	limiter := rate.NewLimiter(rate.Every(time.Hour), 1)
	var calls int
	caller := Throttled(CallerFunc(func(context.Context, Request) (string, error) {
		calls++
		return "ok", nil
	}), limiter)

	_, err := caller.Call(context.Background(), Request{Model: "m"})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = caller.Call(ctx, Request{Model: "m"})
	require.Error(t, err)
	assert.Equal(t, 1, calls)
}

func TestThrottledNilLimiterPassesThrough(t *testing.T) {
	next := CallerFunc(func(context.Context, Request) (string, error) { return "x", nil })
	caller := Throttled(next, nil)
	text, err := caller.Call(context.Background(), Request{})
	require.NoError(t, err)
	assert.Equal(t, "x", text)
}

func TestFromConfig(t *testing.T) {
	env := map[string]string{"TOGETHER_API_KEY": "secret"}
	lookup := func(key string) (string, bool) {
		value, ok := env[key]
		return value, ok
	}

	caller, err := FromConfig(spec.ProviderConfig{Type: "openai", APIKeyEnv: "TOGETHER_API_KEY", TimeoutSeconds: 5}, lookup, nil)
	require.NoError(t, err)
	assert.IsType(t, &OpenAICaller{}, caller)

	caller, err = FromConfig(spec.ProviderConfig{Type: "anthropic", APIKeyEnv: "TOGETHER_API_KEY"}, lookup, nil)
	require.NoError(t, err)
	assert.IsType(t, &AnthropicCaller{}, caller)

	_, err = FromConfig(spec.ProviderConfig{Type: "openai", APIKeyEnv: "MISSING"}, lookup, nil)
	require.ErrorContains(t, err, "MISSING is required")

	_, err = FromConfig(spec.ProviderConfig{Type: "bedrock", APIKeyEnv: "TOGETHER_API_KEY"}, lookup, nil)
	require.ErrorContains(t, err, "unsupported provider")
}
