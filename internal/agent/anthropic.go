package agent

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// defaultAnthropicMaxTokens applies when a request carries no bound; the
// Messages API requires one.
const defaultAnthropicMaxTokens = 4096

// AnthropicCaller talks to the Anthropic Messages API.
type AnthropicCaller struct {
	client anthropic.Client
}

// NewAnthropicCaller constructs a caller with SDK retries disabled.
func NewAnthropicCaller(apiKey, baseURL string, client *http.Client) (*AnthropicCaller, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("api key is required")
	}
	options := []option.RequestOption{
		option.WithAPIKey(apiKey),
		option.WithMaxRetries(0),
	}
	if strings.TrimSpace(baseURL) != "" {
		options = append(options, option.WithBaseURL(baseURL))
	}
	if client != nil {
		options = append(options, option.WithHTTPClient(client))
	}
	return &AnthropicCaller{client: anthropic.NewClient(options...)}, nil
}

// Call sends a single message and concatenates the text blocks of the reply.
func (c *AnthropicCaller) Call(ctx context.Context, req Request) (string, error) {
	maxTokens := req.MaxTokens
	if maxTokens <= 0 {
		maxTokens = defaultAnthropicMaxTokens
	}
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(req.Model),
		Messages:  []anthropic.MessageParam{anthropic.NewUserMessage(anthropic.NewTextBlock(req.Prompt))},
		MaxTokens: int64(maxTokens),
	}
	if req.System != "" {
		params.System = []anthropic.TextBlockParam{{Text: req.System}}
	}
	if req.Temperature != nil {
		params.Temperature = anthropic.Float(*req.Temperature)
	}

	msg, err := c.client.Messages.New(ctx, params)
	if err != nil {
		return "", fmt.Errorf("messages %s: %w", req.Model, err)
	}
	var builder strings.Builder
	for _, block := range msg.Content {
		if block.Type == "text" {
			builder.WriteString(block.Text)
		}
	}
	if builder.Len() == 0 {
		return "", fmt.Errorf("messages %s: %w", req.Model, ErrEmptyResponse)
	}
	return builder.String(), nil
}

func anthropicStatus(err error) int {
	var apiErr *anthropic.Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode
	}
	return 0
}

var _ Caller = (*AnthropicCaller)(nil)
