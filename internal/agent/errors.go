package agent

import (
	"context"
	"errors"
	"net"
	"net/http"
)

// Error kinds used as log attributes and metric labels.
const (
	KindOK          = "ok"
	KindRateLimited = "rate_limited"
	KindTimeout     = "timeout"
	KindCanceled    = "canceled"
	KindEmpty       = "empty"
	KindServer      = "server"
	KindClient      = "client"
	KindTransport   = "transport"
)

// ErrorKind classifies a caller error into a small label set.
func ErrorKind(err error) string {
	if err == nil {
		return KindOK
	}
	if errors.Is(err, context.Canceled) {
		return KindCanceled
	}
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return KindTimeout
	}
	if errors.Is(err, ErrEmptyResponse) {
		return KindEmpty
	}
	status := StatusCode(err)
	switch {
	case status == http.StatusTooManyRequests:
		return KindRateLimited
	case status >= 500:
		return KindServer
	case status >= 400:
		return KindClient
	}
	return KindTransport
}

// StatusCode extracts the HTTP status from an SDK error, or 0.
func StatusCode(err error) int {
	if status := openAIStatus(err); status != 0 {
		return status
	}
	return anthropicStatus(err)
}
