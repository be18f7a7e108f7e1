package agent

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// CallRecorder receives one observation per remote call.
type CallRecorder interface {
	ObserveCall(role, model, kind string, duration time.Duration)
}

type loggedCaller struct {
	next     Caller
	logger   *slog.Logger
	recorder CallRecorder
}

// Logged wraps next so every call is logged at debug level (warn on failure)
// and reported to recorder. Either logger or recorder may be nil.
func Logged(next Caller, logger *slog.Logger, recorder CallRecorder) Caller {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &loggedCaller{next: next, logger: logger, recorder: recorder}
}

func (c *loggedCaller) Call(ctx context.Context, req Request) (string, error) {
	callID := uuid.NewString()
	start := time.Now()
	text, err := c.next.Call(ctx, req)
	duration := time.Since(start)
	kind := ErrorKind(err)
	if c.recorder != nil {
		c.recorder.ObserveCall(string(req.Role), req.Model, kind, duration)
	}
	attrs := []any{
		"call_id", callID,
		"role", req.Role,
		"model", req.Model,
		"duration_ms", duration.Milliseconds(),
	}
	if err != nil {
		c.logger.WarnContext(ctx, "remote call failed", append(attrs, "kind", kind, "error", err)...)
		return "", err
	}
	c.logger.DebugContext(ctx, "remote call", append(attrs, "response_bytes", len(text))...)
	return text, nil
}
