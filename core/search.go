package core

import "context"

// SearchResult represents a ranked web search hit.
type SearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// Searcher is the contract of the web-search backend.
type Searcher interface {
	Search(ctx context.Context, query string, limit int) ([]SearchResult, error)
}
