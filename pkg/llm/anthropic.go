package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"

	"github.com/umputun/bookmarker/pkg/domain"
)

// anthropicProvider uses the Messages API
type anthropicProvider struct {
	client    anthropic.Client
	model     string
	maxTokens int64
}

type anthropicParams struct {
	baseURL    string
	apiKey     string
	model      string
	maxTokens  int
	httpClient *http.Client
}

func newAnthropicProvider(p anthropicParams) *anthropicProvider {
	// retries are done by Client, sdk must not retry on its own
	opts := []option.RequestOption{option.WithAPIKey(p.apiKey), option.WithMaxRetries(0)}
	if p.baseURL != "" {
		opts = append(opts, option.WithBaseURL(p.baseURL))
	}
	if p.httpClient != nil {
		opts = append(opts, option.WithHTTPClient(p.httpClient))
	}
	maxTokens := int64(p.maxTokens)
	if maxTokens <= 0 {
		maxTokens = 256
	}
	return &anthropicProvider{client: anthropic.NewClient(opts...), model: p.model, maxTokens: maxTokens}
}

// Complete returns the first text block of the reply
func (a *anthropicProvider) Complete(ctx context.Context, prompt string) (string, error) {
	message, err := a.client.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     anthropic.Model(a.model),
		MaxTokens: a.maxTokens,
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		var apiErr *anthropic.Error
		if errors.As(err, &apiErr) {
			return "", &ProviderError{Kind: KindHTTP, Provider: domain.ProviderAnthropic, StatusCode: apiErr.StatusCode, Err: err}
		}
		return "", fmt.Errorf("anthropic request failed: %w", err)
	}

	for _, block := range message.Content {
		if block.Type == "text" {
			return strings.TrimSpace(block.Text), nil
		}
	}
	return "", malformedError(domain.ProviderAnthropic, "no text content in response")
}
