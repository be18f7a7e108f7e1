package agent

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"
)

type throttledCaller struct {
	next    Caller
	limiter *rate.Limiter
}

// Throttled waits on limiter before every call. A nil limiter returns next.
func Throttled(next Caller, limiter *rate.Limiter) Caller {
	if limiter == nil {
		return next
	}
	return &throttledCaller{next: next, limiter: limiter}
}

func (c *throttledCaller) Call(ctx context.Context, req Request) (string, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return "", fmt.Errorf("throttle %s: %w", req.Model, err)
	}
	return c.next.Call(ctx, req)
}
