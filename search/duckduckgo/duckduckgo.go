// Package duckduckgo implements core.Searcher on top of DuckDuckGo's HTML
// results page. No API key is required.
package duckduckgo

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/hupe1980/agentcrew/core"
	"github.com/hupe1980/agentcrew/logging"
	"golang.org/x/net/html"
)

// DefaultEndpoint is the HTML-only results page.
const DefaultEndpoint = "https://html.duckduckgo.com/html/"

// Options configure the searcher.
type Options struct {
	Endpoint   string
	UserAgent  string
	Timeout    time.Duration
	HTTPClient *http.Client
	Logger     logging.Logger
}

// Searcher queries DuckDuckGo and parses the result list.
type Searcher struct {
	opts Options
}

// New creates a Searcher with a 30 second request timeout.
func New(optFns ...func(o *Options)) *Searcher {
	opts := Options{
		Endpoint:  DefaultEndpoint,
		UserAgent: "Mozilla/5.0 (compatible; agentcrew)",
		Timeout:   30 * time.Second,
		Logger:    logging.NoOpLogger{},
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	if opts.HTTPClient == nil {
		opts.HTTPClient = &http.Client{Timeout: opts.Timeout}
	}
	opts.Logger = logging.OrNoOp(opts.Logger)
	return &Searcher{opts: opts}
}

// Search returns at most limit results for query in page order.
func (s *Searcher) Search(ctx context.Context, query string, limit int) ([]core.SearchResult, error) {
	form := url.Values{"q": {query}}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.opts.Endpoint, strings.NewReader(form.Encode()))
	if err != nil {
		return nil, fmt.Errorf("duckduckgo: build request: %w", err)
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("User-Agent", s.opts.UserAgent)

	start := time.Now()
	resp, err := s.opts.HTTPClient.Do(req)
	if err != nil {
		s.opts.Logger.Warn("search request failed", "query", query, "error", err)
		return nil, classify(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<16))
		return nil, core.NewTransportError("duckduckgo search", fmt.Errorf("unexpected status %d", resp.StatusCode))
	}

	results, err := Parse(resp.Body, limit)
	if err != nil {
		return nil, core.NewTransportError("duckduckgo search", err)
	}
	s.opts.Logger.Debug("search completed", "query", query, "results", len(results), "duration", time.Since(start))
	return results, nil
}

func classify(err error) error {
	var nerr interface{ Timeout() bool }
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &nerr) && nerr.Timeout()) {
		return core.NewTimeoutError("duckduckgo search", err)
	}
	return core.NewTransportError("duckduckgo search", err)
}

// Parse extracts results from a DuckDuckGo HTML page. A non-positive limit
// returns every result.
func Parse(r io.Reader, limit int) ([]core.SearchResult, error) {
	doc, err := html.Parse(r)
	if err != nil {
		return nil, fmt.Errorf("parse html: %w", err)
	}

	var results []core.SearchResult
	var walk func(n *html.Node) bool
	walk = func(n *html.Node) bool {
		if n.Type == html.ElementNode {
			switch {
			case hasClass(n, "result__a"):
				if limit > 0 && len(results) == limit {
					return false
				}
				results = append(results, core.SearchResult{
					Title: strings.TrimSpace(textOf(n)),
					URL:   resolveURL(attr(n, "href")),
				})
				return true
			case hasClass(n, "result__snippet"):
				if len(results) > 0 && results[len(results)-1].Snippet == "" {
					results[len(results)-1].Snippet = strings.TrimSpace(textOf(n))
				}
				return true
			}
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			if !walk(c) {
				return false
			}
		}
		return true
	}
	walk(doc)

	return results, nil
}

// resolveURL unwraps DuckDuckGo's "/l/?uddg=<target>" redirect links.
func resolveURL(href string) string {
	if strings.HasPrefix(href, "//") {
		href = "https:" + href
	}
	u, err := url.Parse(href)
	if err != nil {
		return href
	}
	if target := u.Query().Get("uddg"); target != "" {
		return target
	}
	return href
}

func attr(n *html.Node, key string) string {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val
		}
	}
	return ""
}

func hasClass(n *html.Node, class string) bool {
	for _, c := range strings.Fields(attr(n, "class")) {
		if c == class {
			return true
		}
	}
	return false
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var collect func(*html.Node)
	collect = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			collect(c)
		}
	}
	collect(n)
	return strings.Join(strings.Fields(b.String()), " ")
}

var _ core.Searcher = (*Searcher)(nil)
