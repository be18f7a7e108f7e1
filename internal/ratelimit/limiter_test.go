package ratelimit

import (
	"testing"

	"golang.org/x/time/rate"

	"abstain/internal/spec"
)

func TestBuildLimiterDisabled(t *testing.T) {
	if limiter := BuildLimiter(spec.ProviderConfig{}); limiter != nil {
		t.Fatalf("expected nil limiter when rps is zero")
	}
}

func TestBuildLimiterDefaultsBurst(t *testing.T) {
	limiter := BuildLimiter(spec.ProviderConfig{RequestsPerSecond: 2.5})
	if limiter == nil {
		t.Fatalf("expected limiter")
	}
	if limiter.Limit() != rate.Limit(2.5) {
		t.Fatalf("unexpected limit %v", limiter.Limit())
	}
	if limiter.Burst() != 3 {
		t.Fatalf("expected burst 3, got %d", limiter.Burst())
	}

	limiter = BuildLimiter(spec.ProviderConfig{RequestsPerSecond: 0.2})
	if limiter.Burst() != 1 {
		t.Fatalf("expected burst 1, got %d", limiter.Burst())
	}

	limiter = BuildLimiter(spec.ProviderConfig{RequestsPerSecond: 4, Burst: 10})
	if limiter.Burst() != 10 {
		t.Fatalf("expected configured burst, got %d", limiter.Burst())
	}
}

func TestResolveConcurrency(t *testing.T) {
	cfg := spec.RunConfig{Concurrency: 8, BatchSize: 50}
	if got := ResolveConcurrency(cfg, 0); got != 8 {
		t.Fatalf("expected config concurrency, got %d", got)
	}
	if got := ResolveConcurrency(cfg, 3); got != 3 {
		t.Fatalf("expected override, got %d", got)
	}
	if got := ResolveConcurrency(spec.RunConfig{}, 0); got != 1 {
		t.Fatalf("expected fallback of 1, got %d", got)
	}
	if got := ResolveBatchSize(cfg, 0); got != 50 {
		t.Fatalf("expected config batch size, got %d", got)
	}
	if got := ResolveBatchSize(cfg, 5); got != 5 {
		t.Fatalf("expected override, got %d", got)
	}
}
