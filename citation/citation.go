package citation

import (
	"context"
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/hupe1980/agentcrew/core"
)

// DefaultResults is the number of search results rendered per TODO marker.
const DefaultResults = 5

var (
	todoRe     = regexp.MustCompile(`TODO:[ \t]*(.+)`)
	footnoteRe = regexp.MustCompile(`\[\^(\d+)]`)
	linkRe     = regexp.MustCompile(`\[([^\]]+)]\((http[^)]+)\)`)
)

// Reference is a (title, url) pair extracted from rendered results.
type Reference struct {
	Title string
	URL   string
}

// Renumber rewrites every "[^n]" marker to a compact sequence in first-seen
// order. Repeated markers share their number.
func Renumber(md string) string {
	mapping := make(map[string]string)
	next := 1
	return footnoteRe.ReplaceAllStringFunc(md, func(m string) string {
		old := footnoteRe.FindStringSubmatch(m)[1]
		n, ok := mapping[old]
		if !ok {
			n = strconv.Itoa(next)
			mapping[old] = n
			next++
		}
		return "[^" + n + "]"
	})
}

// RenderResults renders search results as a Markdown bullet list.
func RenderResults(results []core.SearchResult) string {
	lines := make([]string, len(results))
	for i, r := range results {
		lines[i] = fmt.Sprintf("- [%s](%s)\n  %s", r.Title, r.URL, r.Snippet)
	}
	return strings.Join(lines, "\n")
}

// ExtractReferences returns every Markdown link whose target starts with http.
func ExtractReferences(md string) []Reference {
	matches := linkRe.FindAllStringSubmatch(md, -1)
	refs := make([]Reference, 0, len(matches))
	for _, m := range matches {
		refs = append(refs, Reference{Title: m[1], URL: m[2]})
	}
	return refs
}

// AddReferences merges refs into the store. Later titles for the same url
// overwrite earlier ones.
func AddReferences(store core.ReferenceStore, refs []Reference) error {
	if len(refs) == 0 {
		return nil
	}
	db, err := store.Load()
	if err != nil {
		return fmt.Errorf("load references: %w", err)
	}
	if db == nil {
		db = make(map[string]string)
	}
	for _, r := range refs {
		db[r.URL] = r.Title
	}
	if err := store.Save(db); err != nil {
		return fmt.Errorf("save references: %w", err)
	}
	return nil
}

// FillTodos replaces every "TODO: <query>" marker in md with rendered search
// results, registers the linked references and renumbers footnotes. Documents
// without markers are returned unchanged.
func FillTodos(ctx context.Context, md string, searcher core.Searcher, store core.ReferenceStore, results int) (string, error) {
	if !strings.Contains(md, "TODO:") {
		return md, nil
	}
	if results <= 0 {
		results = DefaultResults
	}

	for _, m := range todoRe.FindAllStringSubmatch(md, -1) {
		marker, query := m[0], strings.TrimSpace(m[1])

		hits, err := searcher.Search(ctx, query, results)
		if err != nil {
			return "", fmt.Errorf("search %q: %w", query, err)
		}
		bullets := RenderResults(hits)
		md = strings.Replace(md, marker, bullets, 1)

		if store != nil {
			if err := AddReferences(store, ExtractReferences(bullets)); err != nil {
				return "", err
			}
		}
	}

	return Renumber(md), nil
}
