package content

import (
	"context"
	"net/url"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/go-pkgz/lgr"

	"github.com/umputun/bookmarker/pkg/config"
	"github.com/umputun/bookmarker/pkg/domain"
)

//go:generate moq -out mocks/prober.go -pkg mocks -skip-ensure -fmt goimports . Prober

// Prober loads a page
type Prober interface {
	Probe(ctx context.Context, pageRef string) (Page, error)
}

// Extractor makes bounded content digests, it never fails
type Extractor struct {
	prober       Prober
	timeout      time.Duration
	maxBodyChars int
}

// NewExtractor creates an extractor with deadline and body size limit from cfg
func NewExtractor(prober Prober, cfg config.ExtractionConfig) *Extractor {
	res := &Extractor{prober: prober, timeout: cfg.Timeout, maxBodyChars: cfg.MaxBodyChars}
	if res.timeout <= 0 {
		res.timeout = 5 * time.Second
	}
	if res.maxBodyChars <= 0 {
		res.maxBodyChars = 500
	}
	return res
}

// Extract returns the digest of pageRef or an empty digest if the page can't be probed in time.
// Only http and https refs are probed.
func (e *Extractor) Extract(ctx context.Context, pageRef string) domain.ContentDigest {
	if !probeable(pageRef) {
		return domain.ContentDigest{}
	}

	ctx, cancel := context.WithTimeout(ctx, e.timeout)
	defer cancel()

	type probeResult struct {
		page Page
		err  error
	}
	ch := make(chan probeResult, 1) // buffered, a late probe must not block
	go func() {
		page, err := e.prober.Probe(ctx, pageRef)
		ch <- probeResult{page: page, err: err}
	}()

	select {
	case <-ctx.Done():
		lgr.Printf("[WARN] content extraction for %s aborted: %v", pageRef, ctx.Err())
		return domain.ContentDigest{}
	case res := <-ch:
		if res.err != nil {
			lgr.Printf("[WARN] content extraction for %s failed: %v", pageRef, res.err)
			return domain.ContentDigest{}
		}
		return domain.ContentDigest{
			Description: collapseSpaces(res.page.Description),
			Keywords:    collapseSpaces(res.page.Keywords),
			BodyExcerpt: truncate(collapseSpaces(res.page.Body), e.maxBodyChars),
		}
	}
}

func probeable(pageRef string) bool {
	u, err := url.Parse(strings.TrimSpace(pageRef))
	if err != nil || u.Host == "" {
		return false
	}
	return u.Scheme == "http" || u.Scheme == "https"
}

// collapseSpaces replaces runs of whitespace with a single space
func collapseSpaces(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate cuts s to limit runes
func truncate(s string, limit int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return strings.TrimSpace(string([]rune(s)[:limit]))
}
