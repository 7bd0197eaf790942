package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/sashabaranov/go-openai"

	"github.com/umputun/bookmarker/pkg/domain"
)

// openAICompatible talks to any chat-completions endpoint (default proxy, deepseek, chatgpt, doubao)
type openAICompatible struct {
	id          domain.ProviderID
	client      *openai.Client
	model       string
	temperature float32
}

type openAIParams struct {
	endpoint    string // full completion URL
	apiKey      string
	model       string
	temperature float32
	httpClient  *http.Client
}

func newOpenAICompatible(id domain.ProviderID, p openAIParams) *openAICompatible {
	clientConfig := openai.DefaultConfig(p.apiKey)
	// go-openai appends /chat/completions to BaseURL itself
	clientConfig.BaseURL = strings.TrimSuffix(p.endpoint, chatCompletionsPath)
	if p.httpClient != nil {
		clientConfig.HTTPClient = p.httpClient
	}
	return &openAICompatible{
		id:          id,
		client:      openai.NewClientWithConfig(clientConfig),
		model:       p.model,
		temperature: p.temperature,
	}
}

// Complete sends prompt as a single user message
func (o *openAICompatible) Complete(ctx context.Context, prompt string) (string, error) {
	req := openai.ChatCompletionRequest{
		Model:       o.model,
		Temperature: o.temperature,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	}

	resp, err := o.client.CreateChatCompletion(ctx, req)
	if err != nil {
		var apiErr *openai.APIError
		if errors.As(err, &apiErr) {
			return "", &ProviderError{Kind: KindHTTP, Provider: o.id, StatusCode: apiErr.HTTPStatusCode, Message: apiErr.Message, Err: err}
		}
		var reqErr *openai.RequestError
		if errors.As(err, &reqErr) {
			return "", &ProviderError{Kind: KindHTTP, Provider: o.id, StatusCode: reqErr.HTTPStatusCode, Message: reqErr.Error(), Err: err}
		}
		return "", fmt.Errorf("%s request failed: %w", o.id, err)
	}

	if len(resp.Choices) == 0 {
		return "", malformedError(o.id, "no choices in response")
	}
	return strings.TrimSpace(resp.Choices[0].Message.Content), nil
}
