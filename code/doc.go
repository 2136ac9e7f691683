// Package code runs and checks model generated source code.
//
// ExtractCodeBlock pulls the first fenced block out of model output.
// SubprocessExecutor writes a snippet to a temporary file, runs it with an
// interpreter under a timeout and reports what it printed. Execution
// failures are rendered as text instead of being returned so the calling
// agent turn can continue; the temporary file is removed before Execute
// returns on every path.
//
// SyntaxChecker parses files with tree-sitter grammars (Go, Python, Rust,
// TypeScript) and is used as a syntax-only fallback when no test runner is
// installed.
//
// The executor does not sandbox anything: generated code runs with the
// privileges of the current process.
package code
