package llm

import (
	"context"
	"net/http"
	"strings"

	"github.com/umputun/bookmarker/pkg/config"
	"github.com/umputun/bookmarker/pkg/domain"
)

//go:generate moq -out mocks/provider.go -pkg mocks -skip-ensure -fmt goimports . Provider

// Provider is a single remote text-completion backend
type Provider interface {
	// Complete sends a single-message prompt and returns the textual completion
	Complete(ctx context.Context, prompt string) (string, error)
}

// completion path suffixes
const (
	chatCompletionsPath = "/chat/completions"
	ollamaGeneratePath  = "/api/generate"
)

// built-in endpoints, used when neither config nor user settings provide one
const (
	defaultDeepSeekEndpoint = "https://api.deepseek.com/chat/completions"
	defaultOpenAIEndpoint   = "https://api.openai.com/v1/chat/completions"
	defaultDoubaoEndpoint   = "https://ark.cn-beijing.volces.com/api/v3/chat/completions"
	defaultGeminiBase       = "https://generativelanguage.googleapis.com"
	defaultOllamaHost       = "http://localhost:11434"
)

// default models per provider
const (
	defaultDeepSeekModel  = "deepseek-chat"
	defaultOpenAIModel    = "gpt-4o-mini"
	defaultGeminiModel    = "gemini-1.5-flash"
	defaultOllamaModel    = "llama3"
	defaultAnthropicModel = "claude-3-5-haiku-latest"
)

// ResolveEndpoint appends the completion suffix to base if missing and normalizes trailing slashes.
// Both "https://host" and "https://host/v1/chat/completions/" are accepted.
func ResolveEndpoint(base, suffix string) string {
	base = strings.TrimSpace(base)
	base = strings.TrimRight(base, "/")
	suffix = "/" + strings.Trim(suffix, "/")
	if strings.HasSuffix(base, suffix) {
		return base
	}
	return base + suffix
}

// providerParams holds everything needed to construct an adapter
type providerParams struct {
	cfg         domain.ProviderConfig
	endpoints   config.Endpoints
	httpClient  *http.Client
	temperature float32
	maxTokens   int
	proxyModel  string
}

// newProvider selects an adapter for cfg.ID. Empty id means the shared default proxy.
func newProvider(p providerParams) (Provider, error) {
	id := p.cfg.ID
	if id == "" {
		id = domain.ProviderDefault
	}

	switch id {
	case domain.ProviderDefault:
		if p.endpoints.Proxy == "" {
			return nil, configError(id, "no default proxy endpoint configured")
		}
		// shared routing proxy holds the credential, never send user's key there
		return newOpenAICompatible(id, openAIParams{
			endpoint:    ResolveEndpoint(p.endpoints.Proxy, chatCompletionsPath),
			model:       firstNonEmpty(p.cfg.Model, p.proxyModel, defaultDeepSeekModel),
			temperature: p.temperature,
			httpClient:  p.httpClient,
		}), nil

	case domain.ProviderDeepSeek:
		// user endpoint override is ignored, official endpoint only
		return newOpenAICompatible(id, openAIParams{
			endpoint:    ResolveEndpoint(firstNonEmpty(p.endpoints.DeepSeek, defaultDeepSeekEndpoint), chatCompletionsPath),
			apiKey:      p.cfg.APIKey,
			model:       firstNonEmpty(p.cfg.Model, defaultDeepSeekModel),
			temperature: p.temperature,
			httpClient:  p.httpClient,
		}), nil

	case domain.ProviderChatGPT:
		return newOpenAICompatible(id, openAIParams{
			endpoint:    ResolveEndpoint(firstNonEmpty(p.cfg.Endpoint, p.endpoints.OpenAI, defaultOpenAIEndpoint), chatCompletionsPath),
			apiKey:      p.cfg.APIKey,
			model:       firstNonEmpty(p.cfg.Model, defaultOpenAIModel),
			temperature: p.temperature,
			httpClient:  p.httpClient,
		}), nil

	case domain.ProviderDoubao:
		// doubao model is an endpoint id of the user's deployment, there is no sensible default
		if strings.TrimSpace(p.cfg.Model) == "" {
			return nil, configError(id, "model (endpoint id) is required for doubao")
		}
		return newOpenAICompatible(id, openAIParams{
			endpoint:    ResolveEndpoint(firstNonEmpty(p.endpoints.Doubao, defaultDoubaoEndpoint), chatCompletionsPath),
			apiKey:      p.cfg.APIKey,
			model:       p.cfg.Model,
			temperature: p.temperature,
			httpClient:  p.httpClient,
		}), nil

	case domain.ProviderGemini:
		if p.cfg.APIKey == "" {
			return nil, configError(id, "api key is required for gemini")
		}
		return &geminiProvider{
			baseURL:     strings.TrimRight(firstNonEmpty(p.endpoints.Gemini, defaultGeminiBase), "/") + "/",
			apiKey:      p.cfg.APIKey,
			model:       firstNonEmpty(p.cfg.Model, defaultGeminiModel),
			temperature: p.temperature,
			maxTokens:   int32(p.maxTokens), //nolint:gosec // small configured value
			httpClient:  p.httpClient,
		}, nil

	case domain.ProviderOllama:
		return &ollamaProvider{
			endpoint:   ResolveEndpoint(firstNonEmpty(p.cfg.Endpoint, p.endpoints.Ollama, defaultOllamaHost), ollamaGeneratePath),
			model:      firstNonEmpty(p.cfg.Model, defaultOllamaModel),
			httpClient: p.httpClient,
		}, nil

	case domain.ProviderAnthropic:
		if p.cfg.APIKey == "" {
			return nil, configError(id, "api key is required for anthropic")
		}
		return newAnthropicProvider(anthropicParams{
			baseURL:    p.endpoints.Anthropic,
			apiKey:     p.cfg.APIKey,
			model:      firstNonEmpty(p.cfg.Model, defaultAnthropicModel),
			maxTokens:  p.maxTokens,
			httpClient: p.httpClient,
		}), nil
	}

	return nil, configError(id, "unknown provider %q", string(id))
}

func firstNonEmpty(vals ...string) string {
	for _, v := range vals {
		if strings.TrimSpace(v) != "" {
			return strings.TrimSpace(v)
		}
	}
	return ""
}
