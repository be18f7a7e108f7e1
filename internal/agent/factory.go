package agent

import (
	"fmt"
	"net/http"
	"strings"
	"time"

	"abstain/internal/spec"
)

// LookupEnv matches os.LookupEnv.
type LookupEnv func(key string) (string, bool)

// FromConfig builds the provider caller described by cfg. A nil client gets an
// http.Client with the configured timeout.
func FromConfig(cfg spec.ProviderConfig, lookupEnv LookupEnv, client *http.Client) (Caller, error) {
	if lookupEnv == nil {
		return nil, fmt.Errorf("lookup env is required")
	}
	apiKey, ok := lookupEnv(cfg.APIKeyEnv)
	apiKey = strings.TrimSpace(apiKey)
	if !ok || apiKey == "" {
		return nil, fmt.Errorf("%s is required", cfg.APIKeyEnv)
	}
	if client == nil {
		client = &http.Client{Timeout: time.Duration(cfg.TimeoutSeconds) * time.Second}
	}
	switch cfg.Type {
	case "openai":
		return NewOpenAICaller(apiKey, cfg.BaseURL, client)
	case "anthropic":
		return NewAnthropicCaller(apiKey, cfg.BaseURL, client)
	default:
		return nil, fmt.Errorf("unsupported provider %q", cfg.Type)
	}
}
