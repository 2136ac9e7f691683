package model

import (
	"context"
	"fmt"
	"strings"
	"sync"
)

// Request captures a single text-completion exchange.
type Request struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

// Info contains metadata about a model backend implementation.
type Info struct {
	Name     string `json:"name"`
	Provider string `json:"provider"` // "ollama", "openai", "anthropic", "scripted"
}

// Model is the minimal interface a generative backend implements.
//
// Implementations send exactly one request per Generate call. A call that
// exceeds the context deadline must be reported with core.NewTimeoutError;
// every other failure with core.NewTransportError.
type Model interface {
	Generate(ctx context.Context, req Request) (string, error)

	// Info returns information about the backend implementation.
	Info() Info
}

// Reply is a scripted ScriptedModel outcome.
type Reply struct {
	Text string
	Err  error
}

type containsRule struct {
	substr, response string
}

// ScriptedModel is a lightweight in-memory Model useful for tests & examples.
// Queued replies are consumed first, in order; then canned responses matched
// by exact prompt, then by substring; otherwise a "Mock response to: ..." echo.
type ScriptedModel struct {
	mu        sync.Mutex
	info      Info
	queue     []Reply
	responses map[string]string
	contains  []containsRule
	calls     []Request
}

// NewScriptedModel constructs an empty ScriptedModel.
func NewScriptedModel(name string) *ScriptedModel {
	return &ScriptedModel{
		info:      Info{Name: name, Provider: "scripted"},
		responses: make(map[string]string),
	}
}

// Enqueue appends scripted replies consumed one per Generate call.
func (m *ScriptedModel) Enqueue(replies ...Reply) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.queue = append(m.queue, replies...)
}

// AddResponse registers a deterministic canned completion for an exact prompt.
func (m *ScriptedModel) AddResponse(prompt, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.responses[prompt] = response
}

// When registers a canned completion for any prompt containing substr.
// Rules are evaluated in registration order.
func (m *ScriptedModel) When(substr, response string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.contains = append(m.contains, containsRule{substr: substr, response: response})
}

// Generate implements Model.
func (m *ScriptedModel) Generate(ctx context.Context, req Request) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.calls = append(m.calls, req)

	if err := ctx.Err(); err != nil {
		return "", err
	}
	if len(m.queue) > 0 {
		r := m.queue[0]
		m.queue = m.queue[1:]
		return r.Text, r.Err
	}
	if resp, ok := m.responses[req.Prompt]; ok {
		return resp, nil
	}
	for _, rule := range m.contains {
		if strings.Contains(req.Prompt, rule.substr) {
			return rule.response, nil
		}
	}
	return fmt.Sprintf("Mock response to: %s", req.Prompt), nil
}

// Calls returns a snapshot of every request received.
func (m *ScriptedModel) Calls() []Request {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]Request, len(m.calls))
	copy(out, m.calls)
	return out
}

// CallCount returns the number of Generate invocations.
func (m *ScriptedModel) CallCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.calls)
}

// Info implements Model.
func (m *ScriptedModel) Info() Info { return m.info }

var _ Model = (*ScriptedModel)(nil)
