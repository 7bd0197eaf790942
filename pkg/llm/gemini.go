package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"google.golang.org/genai"

	"github.com/umputun/bookmarker/pkg/domain"
)

// geminiProvider calls generateContent through the genai sdk, the key travels in the x-goog-api-key header
type geminiProvider struct {
	baseURL     string
	apiKey      string
	model       string
	temperature float32
	maxTokens   int32
	httpClient  *http.Client
}

func (g *geminiProvider) client(ctx context.Context) (*genai.Client, error) {
	cfg := &genai.ClientConfig{
		APIKey:      g.apiKey,
		Backend:     genai.BackendGeminiAPI,
		HTTPClient:  g.httpClient,
		HTTPOptions: genai.HTTPOptions{BaseURL: g.baseURL},
	}
	client, err := genai.NewClient(ctx, cfg)
	if err != nil {
		return nil, configError(domain.ProviderGemini, "can't create client: %v", err)
	}
	return client, nil
}

// Complete sends prompt as a single user turn and returns candidates[0].content.parts[0].text
func (g *geminiProvider) Complete(ctx context.Context, prompt string) (string, error) {
	client, err := g.client(ctx)
	if err != nil {
		return "", err
	}

	config := &genai.GenerateContentConfig{}
	if g.temperature > 0 {
		config.Temperature = genai.Ptr(g.temperature)
	}
	if g.maxTokens > 0 {
		config.MaxOutputTokens = g.maxTokens
	}
	contents := []*genai.Content{{Role: "user", Parts: []*genai.Part{genai.NewPartFromText(prompt)}}}

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, config)
	if err != nil {
		return "", g.wrapError(err)
	}

	if resp == nil || len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil ||
		len(resp.Candidates[0].Content.Parts) == 0 || resp.Candidates[0].Content.Parts[0] == nil ||
		resp.Candidates[0].Content.Parts[0].Text == "" {
		return "", malformedError(domain.ProviderGemini, "unexpected response format")
	}
	return strings.TrimSpace(resp.Candidates[0].Content.Parts[0].Text), nil
}

func (g *geminiProvider) wrapError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return err
	}
	var apiErr genai.APIError
	if errors.As(err, &apiErr) {
		return &ProviderError{Kind: KindHTTP, Provider: domain.ProviderGemini, StatusCode: apiErr.Code, Message: apiErr.Message}
	}
	var apiErrPtr *genai.APIError
	if errors.As(err, &apiErrPtr) {
		return &ProviderError{Kind: KindHTTP, Provider: domain.ProviderGemini, StatusCode: apiErrPtr.Code, Message: apiErrPtr.Message}
	}
	var syntaxErr *json.SyntaxError
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &syntaxErr) || errors.As(err, &typeErr) {
		return &ProviderError{Kind: KindMalformed, Provider: domain.ProviderGemini, Message: "can't decode response", Err: err}
	}
	return fmt.Errorf("gemini request failed: %w", err)
}
