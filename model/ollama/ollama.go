// Package ollama provides an implementation of model.Model speaking the
// native Ollama generate API (POST /api/generate with stream disabled).
package ollama

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"strings"

	"github.com/hupe1980/agentcrew/core"
	"github.com/hupe1980/agentcrew/model"
)

const (
	// DefaultBaseURL is the local Ollama daemon.
	DefaultBaseURL = "http://localhost:11434"
	// DefaultGeneratePath is the generate endpoint path below the base URL.
	DefaultGeneratePath = "/api/generate"

	maxErrorBody = 512
)

// Options configure the Ollama adapter.
type Options struct {
	BaseURL      string
	GeneratePath string
	// Endpoint, when set, is used verbatim instead of BaseURL + GeneratePath.
	Endpoint   string
	HTTPClient *http.Client
}

// Model posts prompts to an Ollama compatible generate endpoint.
type Model struct {
	client   *http.Client
	endpoint string
}

// NewModel creates a new Ollama model adapter.
func NewModel(optFns ...func(o *Options)) *Model {
	opts := Options{
		BaseURL:      DefaultBaseURL,
		GeneratePath: DefaultGeneratePath,
	}
	for _, fn := range optFns {
		fn(&opts)
	}
	client := opts.HTTPClient
	if client == nil {
		// Deadlines come from the caller's context.
		client = &http.Client{}
	}
	endpoint := opts.Endpoint
	if endpoint == "" {
		endpoint = strings.TrimRight(opts.BaseURL, "/") + "/" + strings.TrimLeft(opts.GeneratePath, "/")
	}
	return &Model{client: client, endpoint: endpoint}
}

// Endpoint returns the resolved generate URL.
func (m *Model) Endpoint() string { return m.endpoint }

type generateRequest struct {
	Model  string `json:"model"`
	Prompt string `json:"prompt"`
	Stream bool   `json:"stream"`
}

type generateResponse struct {
	Response string `json:"response"`
	Output   string `json:"output"`
}

// Generate implements model.Model.
func (m *Model) Generate(ctx context.Context, req model.Request) (string, error) {
	body, err := json.Marshal(generateRequest{Model: req.Model, Prompt: req.Prompt, Stream: req.Stream})
	if err != nil {
		return "", fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, m.endpoint, bytes.NewReader(body))
	if err != nil {
		return "", core.NewTransportError("ollama generate", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := m.client.Do(httpReq)
	if err != nil {
		return "", classify(err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", classify(err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		snippet := string(data)
		if len(snippet) > maxErrorBody {
			snippet = snippet[:maxErrorBody]
		}
		return "", core.NewTransportError("ollama generate", fmt.Errorf("unexpected status %d: %s", resp.StatusCode, strings.TrimSpace(snippet)))
	}

	if !strings.HasPrefix(resp.Header.Get("Content-Type"), "application/json") {
		return string(data), nil
	}

	var out generateResponse
	if err := json.Unmarshal(data, &out); err != nil {
		return "", core.NewTransportError("ollama generate", fmt.Errorf("decode response: %w", err))
	}
	if out.Output != "" {
		return out.Output, nil
	}
	return out.Response, nil
}

// Info implements model.Model.
func (m *Model) Info() model.Info {
	return model.Info{Name: m.endpoint, Provider: "ollama"}
}

func classify(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return core.NewTimeoutError("ollama generate", err)
	}
	return core.NewTransportError("ollama generate", err)
}

var _ model.Model = (*Model)(nil)
