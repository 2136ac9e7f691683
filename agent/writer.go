package agent

import (
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/hupe1980/agentcrew/citation"
	"github.com/hupe1980/agentcrew/core"
	"github.com/hupe1980/agentcrew/logging"
	"github.com/hupe1980/agentcrew/memory"
)

const writerInstruction = "Write a thorough Markdown document:\n"

var nonWord = regexp.MustCompile(`[^\p{L}\p{N}_]+`)

// WriterOptions configure a Writer.
type WriterOptions struct {
	Name string
	// Results is the number of search results per TODO marker.
	Results int
	// References receives the links found while filling TODO markers.
	References core.ReferenceStore
	// VCS commits each persisted document. Nil skips committing.
	VCS    core.VersionControl
	Logger logging.Logger
}

// Writer drafts Markdown documents, fills research markers, persists and
// commits them.
type Writer struct {
	BaseAgent
	searcher core.Searcher
	docs     core.DocumentStore
	opts     WriterOptions
}

// NewWriter creates a Writer that stores documents in docs.
func NewWriter(caller Caller, modelName string, searcher core.Searcher, docs core.DocumentStore, optFns ...func(o *WriterOptions)) *Writer {
	opts := WriterOptions{
		Name:    WriterName,
		Results: citation.DefaultResults,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	return &Writer{
		BaseAgent: NewBaseAgent(opts.Name, StaticRole(""), modelName, caller, opts.Logger),
		searcher:  searcher,
		docs:      docs,
		opts:      opts,
	}
}

// Kind implements Agent.
func (w *Writer) Kind() Kind { return KindWriter }

// Act generates a document for task. Memory is not consulted.
func (w *Writer) Act(ctx context.Context, _ *memory.Memory, task string) (string, error) {
	return w.GenerateDocument(ctx, task)
}

// GenerateDocument drafts a document for instruction, replaces TODO markers
// with search results, saves it as "<slug>.md" and commits it with
// "docs: <instruction[:60]>". It returns the final document text.
func (w *Writer) GenerateDocument(ctx context.Context, instruction string) (string, error) {
	md, err := w.call(ctx, writerInstruction+instruction)
	if err != nil {
		return "", err
	}

	if w.searcher != nil {
		md, err = citation.FillTodos(ctx, md, w.searcher, w.opts.References, w.opts.Results)
		if err != nil {
			return "", fmt.Errorf("%s: fill todos: %w", w.name, err)
		}
	}

	name := Slug(md) + ".md"
	if err := w.docs.Save(name, []byte(md)); err != nil {
		return "", fmt.Errorf("%s: save %s: %w", w.name, name, err)
	}
	w.logger.Info("document saved", "name", name, "bytes", len(md))

	if w.opts.VCS != nil {
		if err := w.opts.VCS.CommitAll(ctx, "docs: "+truncate(instruction, 60)); err != nil {
			return "", fmt.Errorf("%s: commit %s: %w", w.name, name, err)
		}
	}
	return md, nil
}

// Slug derives a file name stem from the first "# " heading: runs of
// characters other than letters, digits and "_" become "_" and the result
// is lower-cased. Documents without a usable heading map to "index".
func Slug(md string) string {
	for _, line := range strings.Split(md, "\n") {
		if !strings.HasPrefix(line, "# ") {
			continue
		}
		heading := strings.TrimSpace(line[2:])
		slug := strings.ToLower(nonWord.ReplaceAllString(heading, "_"))
		if slug == "" {
			return "index"
		}
		return slug
	}
	return "index"
}

var _ Agent = (*Writer)(nil)
