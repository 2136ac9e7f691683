package code

import (
	"context"
	"strings"
)

// Executor defines the interface for executing code snippets.
type Executor interface {
	// Execute runs the given code snippet and returns what it printed.
	// Failures of the snippet itself are part of the returned text; the error
	// is reserved for problems the caller must handle (e.g. a cancelled ctx).
	Execute(ctx context.Context, code string) (string, error)
}

const fence = "```"

// ExtractCodeBlock returns the body of the first fenced block in text, or ""
// when text contains no fence. A leading language tag line ("python",
// "go", ...) is dropped.
func ExtractCodeBlock(text string) string {
	_, rest, ok := strings.Cut(text, fence)
	if !ok {
		return ""
	}
	body, _, _ := strings.Cut(rest, fence)

	first, remainder, hasNewline := strings.Cut(body, "\n")
	if hasNewline && isLanguageTag(first) {
		return remainder
	}
	return body
}

func isLanguageTag(line string) bool {
	line = strings.TrimSpace(line)
	if line == "" {
		return false
	}
	for _, r := range line {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		case r == '+', r == '-', r == '#', r == '.', r == '_':
		default:
			return false
		}
	}
	return true
}
