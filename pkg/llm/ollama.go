package llm

import (
	"context"
	"net/http"
	"strings"

	"github.com/umputun/bookmarker/pkg/domain"
)

// ollamaProvider uses the non-streaming generate API of a local ollama
type ollamaProvider struct {
	endpoint   string
	model      string
	httpClient *http.Client
}

type ollamaRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type ollamaResponse struct {
	Response *string `json:"response"`
}

// Complete posts prompt and returns the response field
func (o *ollamaProvider) Complete(ctx context.Context, prompt string) (string, error) {
	var resp ollamaResponse
	req := ollamaRequest{Model: o.model, Prompt: prompt, Stream: false}
	if err := postJSON(ctx, o.httpClient, domain.ProviderOllama, o.endpoint, nil, req, &resp); err != nil {
		return "", err
	}
	if resp.Response == nil {
		return "", malformedError(domain.ProviderOllama, "no response field")
	}
	return strings.TrimSpace(*resp.Response), nil
}
