package llm

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/repeater/v2"

	"github.com/umputun/bookmarker/pkg/config"
	"github.com/umputun/bookmarker/pkg/domain"
)

// Classifier sends classification prompts to the configured provider with per-attempt timeout
// and linear backoff retries
type Classifier struct {
	endpoints   config.Endpoints
	timeout     time.Duration
	retries     int
	retryDelay  time.Duration
	temperature float32
	maxTokens   int
	proxyModel  string
	httpClient  *http.Client

	makeProvider func(providerParams) (Provider, error)
}

// NewClassifier creates a new classifier client
func NewClassifier(cfg config.LLMConfig) *Classifier {
	res := &Classifier{
		endpoints:   cfg.Endpoints,
		timeout:     cfg.Timeout,
		retries:     cfg.Retries,
		retryDelay:  cfg.RetryDelay,
		temperature: float32(cfg.Temperature),
		maxTokens:   cfg.MaxTokens,
		proxyModel:  cfg.DefaultModel,
		httpClient:  &http.Client{},

		makeProvider: newProvider,
	}
	if res.timeout <= 0 {
		res.timeout = 30 * time.Second
	}
	if res.retries < 1 {
		res.retries = 3
	}
	if res.retryDelay <= 0 {
		res.retryDelay = time.Second
	}
	return res
}

// Classify sends prompt to the provider selected by pc and returns raw completion text.
// Errors are *ProviderError. Configuration errors are not retried, a timeout of the last attempt
// is reported as timeout.
func (c *Classifier) Classify(ctx context.Context, prompt string, pc domain.ProviderConfig) (string, error) {
	provider, err := c.makeProvider(providerParams{
		cfg:         pc,
		endpoints:   c.endpoints,
		httpClient:  c.httpClient,
		temperature: c.temperature,
		maxTokens:   c.maxTokens,
		proxyModel:  c.proxyModel,
	})
	if err != nil {
		return "", err
	}

	id := pc.ID
	if id == "" {
		id = domain.ProviderDefault
	}

	var result string
	var lastErr error
	attempt := 0
	rpt := repeater.NewBackoff(c.retries, c.retryDelay,
		repeater.WithBackoffType(repeater.BackoffLinear), repeater.WithJitter(0))
	err = rpt.Do(ctx, func() error {
		attempt++
		text, e := c.attempt(ctx, id, provider, prompt)
		if e != nil {
			lastErr = e
			lgr.Printf("[WARN] %s attempt %d/%d failed: %v", id, attempt, c.retries, e)
			return e
		}
		result = text
		return nil
	}, ErrConfiguration)

	if err != nil {
		if lastErr != nil {
			return "", lastErr
		}
		return "", &ProviderError{Kind: KindHTTP, Provider: id, Err: err}
	}
	lgr.Printf("[DEBUG] %s response after %d attempt(s): %q", id, attempt, result)
	return result, nil
}

// attempt makes a single call bounded by the per-attempt timeout
func (c *Classifier) attempt(ctx context.Context, id domain.ProviderID, p Provider, prompt string) (string, error) {
	actx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	text, err := p.Complete(actx, prompt)
	if err == nil {
		return text, nil
	}

	// deadline of this attempt, not cancellation of the caller
	if errors.Is(actx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
		return "", &ProviderError{Kind: KindTimeout, Provider: id,
			Message: fmt.Sprintf("no response within %v", c.timeout), Err: err}
	}

	var perr *ProviderError
	if errors.As(err, &perr) {
		return "", perr
	}
	return "", &ProviderError{Kind: KindHTTP, Provider: id, Err: err}
}
