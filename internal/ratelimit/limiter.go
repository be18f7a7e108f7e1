package ratelimit

import (
	"math"

	"golang.org/x/time/rate"

	"abstain/internal/spec"
)

// BuildLimiter returns a client-side request limiter, or nil when
// requests_per_second is zero.
func BuildLimiter(cfg spec.ProviderConfig) *rate.Limiter {
	if cfg.RequestsPerSecond <= 0 {
		return nil
	}
	burst := cfg.Burst
	if burst <= 0 {
		burst = int(math.Max(1, math.Ceil(cfg.RequestsPerSecond)))
	}
	return rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
}

// ResolveConcurrency returns the worker count for a run. A positive override
// wins over the config value; the result is at least one.
func ResolveConcurrency(cfg spec.RunConfig, override int) int {
	if override > 0 {
		return override
	}
	if cfg.Concurrency > 0 {
		return cfg.Concurrency
	}
	return 1
}

// ResolveBatchSize returns the flush interval for a run, at least one.
func ResolveBatchSize(cfg spec.RunConfig, override int) int {
	if override > 0 {
		return override
	}
	if cfg.BatchSize > 0 {
		return cfg.BatchSize
	}
	return 1
}
