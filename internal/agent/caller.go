package agent

import (
	"context"
	"errors"
)

// Role distinguishes the two calls a task makes.
type Role string

const (
	RoleAnswer Role = "answer"
	RoleJudge  Role = "judge"
)

// ErrEmptyResponse indicates a response without any text content.
var ErrEmptyResponse = errors.New("empty response")

// Request is a single text-in/text-out exchange. A nil Temperature leaves the
// provider default in place; MaxTokens of zero means no explicit bound.
type Request struct {
	Role        Role
	Model       string
	Prompt      string
	System      string
	Temperature *float64
	MaxTokens   int
}

// Caller performs one request/response exchange with a remote model.
type Caller interface {
	Call(ctx context.Context, req Request) (string, error)
}

// CallerFunc adapts a function to Caller.
type CallerFunc func(ctx context.Context, req Request) (string, error)

// Call invokes fn.
func (fn CallerFunc) Call(ctx context.Context, req Request) (string, error) {
	return fn(ctx, req)
}

// Float returns a pointer to v, for Request.Temperature.
func Float(v float64) *float64 {
	return &v
}
