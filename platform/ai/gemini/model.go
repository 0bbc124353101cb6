// Package gemini adapts the hosted Gemini API to the ADK model.LLM interface.
package gemini

import (
	"context"
	"errors"
	"fmt"
	"iter"
	"net/http"
	"time"

	"google.golang.org/adk/model"
	"google.golang.org/genai"
)

// DefaultModel is used when Config.Model is empty.
const DefaultModel = "gemini-2.0-flash"

// ErrMissingAPIKey is returned by every call when the client was built without a key.
var ErrMissingAPIKey = errors.New("gemini: GOOGLE_API_KEY is not set")

// Config for Gemini
type Config struct {
	APIKey  string
	Model   string
	BaseURL string        // Overrides the API endpoint (tests, proxies)
	Timeout time.Duration // Per-request HTTP timeout; zero means none
}

// Model is an immutable handle on one Gemini model.
// A handle built without a usable key still exists; its calls fail.
type Model struct {
	config  Config
	client  *genai.Client
	initErr error
}

// NewModel builds the client once. It never fails: a configuration problem is
// kept and reported by each GenerateContent call.
func NewModel(ctx context.Context, cfg Config) *Model {
	if cfg.Model == "" {
		cfg.Model = DefaultModel
	}

	m := &Model{config: cfg}
	if cfg.APIKey == "" {
		m.initErr = ErrMissingAPIKey
		return m
	}

	cc := &genai.ClientConfig{
		APIKey:     cfg.APIKey,
		Backend:    genai.BackendGeminiAPI,
		HTTPClient: &http.Client{Timeout: cfg.Timeout},
	}
	if cfg.BaseURL != "" {
		cc.HTTPOptions.BaseURL = cfg.BaseURL
	}

	client, err := genai.NewClient(ctx, cc)
	if err != nil {
		m.initErr = fmt.Errorf("gemini: create client: %w", err)
		return m
	}
	m.client = client
	return m
}

func (m *Model) Name() string {
	return m.config.Model
}

// Err reports the initialization error, if any.
func (m *Model) Err() error {
	return m.initErr
}

// GenerateContent sends the request contents as a single non-streaming call.
func (m *Model) GenerateContent(ctx context.Context, req *model.LLMRequest, stream bool) iter.Seq2[*model.LLMResponse, error] {
	return func(yield func(*model.LLMResponse, error) bool) {
		resp, err := m.generate(ctx, req)
		yield(resp, err)
	}
}

func (m *Model) generate(ctx context.Context, req *model.LLMRequest) (*model.LLMResponse, error) {
	if m.initErr != nil {
		return nil, m.initErr
	}
	if req == nil || len(req.Contents) == 0 {
		return nil, errors.New("gemini: request has no contents")
	}

	resp, err := m.client.Models.GenerateContent(ctx, m.config.Model, req.Contents, req.Config)
	if err != nil {
		return nil, fmt.Errorf("gemini: generate content: %w", err)
	}
	if len(resp.Candidates) == 0 || resp.Candidates[0].Content == nil {
		return nil, errors.New("gemini: response has no candidates")
	}

	content := resp.Candidates[0].Content
	if content.Role == "" {
		content.Role = genai.RoleModel
	}

	return &model.LLMResponse{Content: content}, nil
}

var _ model.LLM = (*Model)(nil)
