package agent

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"strings"

	openai "github.com/sashabaranov/go-openai"
)

// OpenAICaller talks to any OpenAI-compatible chat completions endpoint
// (Together, OpenRouter, OpenAI, vLLM).
type OpenAICaller struct {
	client *openai.Client
}

// NewOpenAICaller constructs a caller with explicit settings.
func NewOpenAICaller(apiKey, baseURL string, client *http.Client) (*OpenAICaller, error) {
	if strings.TrimSpace(apiKey) == "" {
		return nil, fmt.Errorf("api key is required")
	}
	clientConfig := openai.DefaultConfig(apiKey)
	if strings.TrimSpace(baseURL) != "" {
		clientConfig.BaseURL = strings.TrimRight(baseURL, "/")
	}
	if client != nil {
		clientConfig.HTTPClient = client
	}
	return &OpenAICaller{client: openai.NewClientWithConfig(clientConfig)}, nil
}

// Call sends a non-streaming chat completion and returns the first choice.
func (c *OpenAICaller) Call(ctx context.Context, req Request) (string, error) {
	messages := make([]openai.ChatCompletionMessage, 0, 2)
	if req.System != "" {
		messages = append(messages, openai.ChatCompletionMessage{
			Role:    openai.ChatMessageRoleSystem,
			Content: req.System,
		})
	}
	messages = append(messages, openai.ChatCompletionMessage{
		Role:    openai.ChatMessageRoleUser,
		Content: req.Prompt,
	})
	chatReq := openai.ChatCompletionRequest{
		Model:    req.Model,
		Messages: messages,
	}
	if req.Temperature != nil {
		chatReq.Temperature = wireTemperature(*req.Temperature)
	}
	if req.MaxTokens > 0 {
		chatReq.MaxTokens = req.MaxTokens
	}

	resp, err := c.client.CreateChatCompletion(ctx, chatReq)
	if err != nil {
		return "", fmt.Errorf("chat completion %s: %w", req.Model, err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("chat completion %s: no choices: %w", req.Model, ErrEmptyResponse)
	}
	content := resp.Choices[0].Message.Content
	if content == "" {
		return "", fmt.Errorf("chat completion %s: %w", req.Model, ErrEmptyResponse)
	}
	return content, nil
}

// wireTemperature maps t onto the request field. The field is omitted when
// zero, so an explicit zero is sent as the smallest positive float32.
func wireTemperature(t float64) float32 {
	if t == 0 {
		return math.SmallestNonzeroFloat32
	}
	return float32(t)
}

func openAIStatus(err error) int {
	var apiErr *openai.APIError
	if errors.As(err, &apiErr) {
		return apiErr.HTTPStatusCode
	}
	var reqErr *openai.RequestError
	if errors.As(err, &reqErr) {
		return reqErr.HTTPStatusCode
	}
	return 0
}

var _ Caller = (*OpenAICaller)(nil)
