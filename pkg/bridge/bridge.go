package bridge

import (
	"context"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/harun/oakplugin/internal/observability"
	"github.com/harun/oakplugin/internal/tracing"
	"go.opentelemetry.io/otel/attribute"
)

// Supported providers
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

// Defaults applied by Config.WithDefaults
const (
	DefaultServerURL   = "https://oak.localhost"
	DefaultTokenHeader = "oaktoken"
	DefaultModel       = "gpt-4o-mini"
	DefaultMaxTokens   = 1024
)

// Config describes how a bridge reaches the host
type Config struct {
	ServerURL   string
	TokenHeader string
	Provider    string
	Model       string
	MaxTokens   int
	Temperature float64

	// Factory builds the generator for each call. DefaultFactory when nil.
	Factory GeneratorFactory
}

// WithDefaults fills every unset field
func (c Config) WithDefaults() Config {
	if c.ServerURL == "" {
		c.ServerURL = DefaultServerURL
	}
	if c.TokenHeader == "" {
		c.TokenHeader = DefaultTokenHeader
	}
	if c.Provider == "" {
		c.Provider = ProviderOpenAI
	}
	if c.Model == "" {
		c.Model = DefaultModel
	}
	if c.MaxTokens <= 0 {
		c.MaxTokens = DefaultMaxTokens
	}
	if c.Factory == nil {
		c.Factory = DefaultFactory{}
	}
	return c
}

// Options tune a single generation
type Options struct {
	Model       string
	Temperature *float64 // sent as is when set, including 0; nil falls back to Config
	MaxTokens   int
}

// Float returns a pointer to v, for Options.Temperature
func Float(v float64) *float64 {
	return &v
}

// GenerateRequest is a prompt sent to the host's LLM service
type GenerateRequest struct {
	Prompt       string
	SystemPrompt string
	AgentID      string
	Options      Options
}

// Bridge carries one caller's capability token. It lives for a single request.
type Bridge struct {
	token string
	cfg   Config
}

// New creates a bridge for token
func New(token string, cfg Config) (*Bridge, error) {
	token = strings.TrimSpace(token)
	if token == "" {
		return nil, ErrMissingToken
	}

	return &Bridge{
		token: token,
		cfg:   cfg.WithDefaults(),
	}, nil
}

// FromHeaders creates a bridge from the token header of an inbound request
func FromHeaders(h http.Header, cfg Config) (*Bridge, error) {
	cfg = cfg.WithDefaults()
	return New(h.Get(cfg.TokenHeader), cfg)
}

// Provider returns the provider this bridge calls
func (b *Bridge) Provider() string {
	return b.cfg.Provider
}

// String keeps the token out of logs and fmt output
func (b *Bridge) String() string {
	return fmt.Sprintf("bridge(provider=%s, token=[REDACTED])", b.cfg.Provider)
}

// GenerateText forwards a prompt to the host and returns the generated text.
// Failures after the request is accepted are returned as *UpstreamError.
func (b *Bridge) GenerateText(ctx context.Context, request GenerateRequest) (string, error) {
	if strings.TrimSpace(request.Prompt) == "" {
		return "", fmt.Errorf("%w: prompt is empty", ErrInvalidRequest)
	}

	if request.Options.Model == "" {
		request.Options.Model = b.cfg.Model
	}
	if request.Options.MaxTokens <= 0 {
		request.Options.MaxTokens = b.cfg.MaxTokens
	}
	// A zero Config.Temperature leaves the provider default in place
	if request.Options.Temperature == nil && b.cfg.Temperature > 0 {
		request.Options.Temperature = Float(b.cfg.Temperature)
	}
	if request.AgentID == "" {
		request.AgentID = tracing.GetAgentID(ctx)
	}

	provider := b.cfg.Provider
	ctx, span := tracing.StartSpan(ctx, tracing.TracerBridge, "bridge.generate_text",
		attribute.String("llm.provider", provider),
		attribute.String("llm.model", request.Options.Model),
	)

	generator, err := b.cfg.Factory.NewGenerator(Endpoint{
		ServerURL:   b.cfg.ServerURL,
		Provider:    provider,
		Token:       b.token,
		TokenHeader: b.cfg.TokenHeader,
	})
	if err != nil {
		err = &UpstreamError{Provider: provider, Err: err}
		tracing.EndSpan(span, err)
		return "", err
	}

	start := time.Now()
	text, err := generator.Generate(ctx, request)
	observability.RecordUpstreamRequest(provider, time.Since(start), err == nil)

	if err != nil {
		err = &UpstreamError{Provider: provider, Err: err}
		tracing.EndSpan(span, err)
		return "", err
	}

	tracing.EndSpan(span, nil)
	return text, nil
}
