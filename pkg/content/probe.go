package content

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/go-pkgz/lgr"
	"github.com/markusmobius/go-trafilatura"
	"github.com/microcosm-cc/bluemonday"
	"golang.org/x/net/html"
)

// Page is the raw material of a content digest, as found on the page
type Page struct {
	Description string
	Keywords    string
	Body        string
}

// HTTPProbe fetches a page and pulls meta description, keywords and main text out of it
type HTTPProbe struct {
	client    *http.Client
	userAgent string
	maxSize   int64
	sanitizer *bluemonday.Policy
}

// NewHTTPProbe makes a probe reading at most maxSize bytes of a page
func NewHTTPProbe(userAgent string, maxSize int64) *HTTPProbe {
	return &HTTPProbe{
		client:    &http.Client{},
		userAgent: userAgent,
		maxSize:   maxSize,
		sanitizer: bluemonday.StrictPolicy(),
	}
}

// Probe loads pageRef, the deadline comes from ctx
func (p *HTTPProbe) Probe(ctx context.Context, pageRef string) (Page, error) {
	parsedURL, err := url.Parse(pageRef)
	if err != nil {
		return Page{}, fmt.Errorf("parse URL: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, pageRef, http.NoBody)
	if err != nil {
		return Page{}, fmt.Errorf("create request: %w", err)
	}
	addBrowserHeaders(req, p.userAgent)

	resp, err := p.client.Do(req)
	if err != nil {
		return Page{}, fmt.Errorf("fetch URL %s: %w", pageRef, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Page{}, fmt.Errorf("unexpected status code %d for URL %s", resp.StatusCode, pageRef)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "" && !strings.Contains(ct, "html") {
		return Page{}, fmt.Errorf("not a html page %s: %s", pageRef, ct)
	}

	body := io.Reader(resp.Body)
	if p.maxSize > 0 {
		body = io.LimitReader(resp.Body, p.maxSize)
	}
	doc, err := html.Parse(body)
	if err != nil {
		return Page{}, fmt.Errorf("parse html of %s: %w", pageRef, err)
	}

	// meta goes first, trafilatura prunes the document
	page := p.extractMeta(doc)
	page.Body = extractText(doc)

	opts := trafilatura.Options{
		EnableFallback:  true,
		ExcludeComments: true,
		IncludeImages:   false,
		IncludeLinks:    false,
		Deduplicate:     true,
		OriginalURL:     parsedURL,
	}
	result, err := trafilatura.ExtractDocument(doc, opts)
	switch {
	case err != nil:
		lgr.Printf("[DEBUG] trafilatura failed for %s, using plain text: %v", pageRef, err)
	case result != nil && strings.TrimSpace(result.ContentText) != "":
		page.Body = result.ContentText
	}
	return page, nil
}

// extractMeta finds description (or og:description) and keywords meta tags
func (p *HTTPProbe) extractMeta(doc *html.Node) Page {
	var page Page
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.ElementNode && n.Data == "body" {
			return
		}
		if n.Type == html.ElementNode && n.Data == "meta" {
			var name, property, content string
			for _, attr := range n.Attr {
				switch attr.Key {
				case "name":
					name = strings.ToLower(attr.Val)
				case "property":
					property = strings.ToLower(attr.Val)
				case "content":
					content = attr.Val
				}
			}
			switch {
			case content == "":
			case (name == "description" || property == "og:description") && page.Description == "":
				page.Description = p.clean(content)
			case name == "keywords" && page.Keywords == "":
				page.Keywords = p.clean(content)
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(doc)
	return page
}

// clean drops any markup from meta values
func (p *HTTPProbe) clean(s string) string {
	return strings.TrimSpace(html.UnescapeString(p.sanitizer.Sanitize(s)))
}

// extractText is a plain walk over text nodes, used when trafilatura finds nothing
func extractText(n *html.Node) string {
	var buf strings.Builder
	var f func(*html.Node)
	f = func(n *html.Node) {
		if n.Type == html.ElementNode {
			switch n.Data {
			case "script", "style", "noscript", "head", "template":
				return
			}
		}
		if n.Type == html.TextNode {
			if text := strings.TrimSpace(n.Data); text != "" {
				buf.WriteString(text)
				buf.WriteString(" ")
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			f(c)
		}
	}
	f(n)
	return strings.TrimSpace(buf.String())
}
