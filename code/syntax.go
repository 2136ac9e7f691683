package code

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	tree_sitter "github.com/tree-sitter/go-tree-sitter"
	tree_sitter_go "github.com/tree-sitter/tree-sitter-go/bindings/go"
	tree_sitter_python "github.com/tree-sitter/tree-sitter-python/bindings/go"
	tree_sitter_rust "github.com/tree-sitter/tree-sitter-rust/bindings/go"
	tree_sitter_typescript "github.com/tree-sitter/tree-sitter-typescript/bindings/go"
)

// SyntaxError reports the first file that failed to parse.
type SyntaxError struct {
	Path string
	Line uint
	Col  uint
}

func (e *SyntaxError) Error() string {
	if e.Line == 0 {
		return fmt.Sprintf("syntax error in %s", e.Path)
	}
	return fmt.Sprintf("syntax error in %s:%d:%d", e.Path, e.Line, e.Col)
}

// SyntaxChecker parses source files standalone with tree-sitter grammars
// selected by file extension. A new parser is created per file.
type SyntaxChecker struct {
	languages map[string]*tree_sitter.Language
}

// NewSyntaxChecker creates a checker for .go, .py, .rs and .ts files.
func NewSyntaxChecker() *SyntaxChecker {
	return &SyntaxChecker{
		languages: map[string]*tree_sitter.Language{
			".go": tree_sitter.NewLanguage(tree_sitter_go.Language()),
			".py": tree_sitter.NewLanguage(tree_sitter_python.Language()),
			".rs": tree_sitter.NewLanguage(tree_sitter_rust.Language()),
			".ts": tree_sitter.NewLanguage(tree_sitter_typescript.LanguageTypescript()),
		},
	}
}

// Supports reports whether files with ext (including the dot) can be checked.
func (c *SyntaxChecker) Supports(ext string) bool {
	_, ok := c.languages[strings.ToLower(ext)]
	return ok
}

// CheckSource parses source as the language registered for path's extension.
// It returns a *SyntaxError when the tree contains error or missing nodes.
func (c *SyntaxChecker) CheckSource(path string, source []byte) error {
	lang, ok := c.languages[strings.ToLower(filepath.Ext(path))]
	if !ok {
		return fmt.Errorf("unsupported file type: %s", path)
	}

	parser := tree_sitter.NewParser()
	defer parser.Close()

	if err := parser.SetLanguage(lang); err != nil {
		return fmt.Errorf("set language for %s: %w", path, err)
	}

	tree := parser.Parse(source, nil)
	if tree == nil {
		return fmt.Errorf("tree-sitter returned nil tree for %s", path)
	}
	defer tree.Close()

	root := tree.RootNode()
	if !root.HasError() {
		return nil
	}

	serr := &SyntaxError{Path: path}
	if n := firstError(root); n != nil {
		pos := n.StartPosition()
		serr.Line, serr.Col = pos.Row+1, pos.Column+1
	}
	return serr
}

// CheckFiles checks every file under root in order and stops at the first
// failure. Files with unsupported extensions are skipped.
func (c *SyntaxChecker) CheckFiles(ctx context.Context, root string, files []string) error {
	for _, f := range files {
		if err := ctx.Err(); err != nil {
			return err
		}
		if !c.Supports(filepath.Ext(f)) {
			continue
		}
		path := f
		if !filepath.IsAbs(path) {
			path = filepath.Join(root, f)
		}
		src, err := os.ReadFile(path) //nolint:gosec // paths come from the working tree
		if err != nil {
			return fmt.Errorf("read %s: %w", f, err)
		}
		if err := c.CheckSource(f, src); err != nil {
			return err
		}
	}
	return nil
}

func firstError(n *tree_sitter.Node) *tree_sitter.Node {
	if n.IsError() || n.IsMissing() {
		return n
	}
	for i := uint(0); i < n.ChildCount(); i++ {
		child := n.Child(i)
		if child == nil || !child.HasError() && !child.IsMissing() {
			continue
		}
		if found := firstError(child); found != nil {
			return found
		}
	}
	return nil
}
