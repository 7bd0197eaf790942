package content

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/net/html"
)

const testPage = `<!DOCTYPE html>
<html>
<head>
	<title>Test Article</title>
	<meta name="Description" content="A &amp; B <b>guide</b>">
	<meta property="og:description" content="ignored, description already found">
	<meta name="keywords" content="go, testing">
	<style>body { color: red; }</style>
	<script>var x = 1;</script>
</head>
<body>
	<article>
		<h1>Test Article Title</h1>
		<p>This is the main content of the article, it talks about testing in Go.</p>
		<p>It has multiple paragraphs to look like a real article.</p>
	</article>
</body>
</html>`

func TestHTTPProbe_Probe(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "test-agent", r.Header.Get("User-Agent"))
		assert.NotEmpty(t, r.Header.Get("Accept-Language"))
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		_, _ = w.Write([]byte(testPage))
	}))
	defer ts.Close()

	p := NewHTTPProbe("test-agent", 1024*1024)
	page, err := p.Probe(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, "A & B guide", page.Description)
	assert.Equal(t, "go, testing", page.Keywords)
	assert.Contains(t, page.Body, "main content of the article")
	assert.NotContains(t, page.Body, "var x")
	assert.NotContains(t, page.Body, "color: red")
}

func TestHTTPProbe_OGDescription(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><meta property="og:description" content="from og"></head><body><p>Short content</p></body></html>`))
	}))
	defer ts.Close()

	page, err := NewHTTPProbe("ua", 0).Probe(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, "from og", page.Description)
	assert.Empty(t, page.Keywords)
	assert.Contains(t, page.Body, "Short content")
}

func TestHTTPProbe_Errors(t *testing.T) {
	tbl := []struct {
		name    string
		status  int
		ctype   string
		wantErr string
	}{
		{name: "server error", status: http.StatusInternalServerError, ctype: "text/html", wantErr: "unexpected status code 500"},
		{name: "not found", status: http.StatusNotFound, ctype: "text/html", wantErr: "unexpected status code 404"},
		{name: "pdf", status: http.StatusOK, ctype: "application/pdf", wantErr: "not a html page"},
	}
	for _, tt := range tbl {
		t.Run(tt.name, func(t *testing.T) {
			ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", tt.ctype)
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte("body"))
			}))
			defer ts.Close()

			_, err := NewHTTPProbe("ua", 1024).Probe(context.Background(), ts.URL)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestHTTPProbe_ContextTimeout(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()
	_, err := NewHTTPProbe("ua", 1024).Probe(ctx, ts.URL)
	require.Error(t, err)
}

func TestHTTPProbe_MaxSize(t *testing.T) {
	ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`<html><head><meta name="keywords" content="early"></head><body><p>visible</p>` +
			strings.Repeat("x", 10000) + `<p>HIDDEN TAIL</p></body></html>`))
	}))
	defer ts.Close()

	page, err := NewHTTPProbe("ua", 200).Probe(context.Background(), ts.URL)
	require.NoError(t, err)
	assert.Equal(t, "early", page.Keywords)
	assert.NotContains(t, page.Body, "HIDDEN TAIL")
}

func TestExtractText(t *testing.T) {
	doc, err := html.Parse(strings.NewReader(`<html><head><title>T</title></head><body>
		<div>one</div><script>skip()</script><p>two <b>three</b></p><noscript>no</noscript></body></html>`))
	require.NoError(t, err)
	assert.Equal(t, "one two three", extractText(doc))
}
