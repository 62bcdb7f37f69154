package bridge

import (
	"context"
	"fmt"
	"strings"
)

// AgentIDHeader carries the host agent on upstream requests
const AgentIDHeader = "X-OAK-Agent-Id"

// Generator produces text from a prompt through one provider
type Generator interface {
	// Generate sends the request and returns the completion text
	Generate(ctx context.Context, request GenerateRequest) (string, error)

	// Provider returns the provider name
	Provider() string
}

// Endpoint is what a generator needs to reach the host
type Endpoint struct {
	ServerURL   string
	Provider    string
	Token       string
	TokenHeader string
}

// GeneratorFactory creates generators for a bridge
type GeneratorFactory interface {
	NewGenerator(endpoint Endpoint) (Generator, error)
}

// GeneratorFactoryFunc adapts a function to GeneratorFactory
type GeneratorFactoryFunc func(endpoint Endpoint) (Generator, error)

func (f GeneratorFactoryFunc) NewGenerator(endpoint Endpoint) (Generator, error) {
	return f(endpoint)
}

// DefaultFactory builds SDK-backed generators pointed at the host
type DefaultFactory struct{}

// NewGenerator creates a generator for endpoint.Provider
func (DefaultFactory) NewGenerator(endpoint Endpoint) (Generator, error) {
	switch endpoint.Provider {
	case ProviderOpenAI:
		return NewOpenAIGenerator(endpoint), nil
	case ProviderAnthropic:
		return NewAnthropicGenerator(endpoint), nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrUnsupportedProvider, endpoint.Provider)
	}
}

// endpointURL joins the host URL and an API path, with a trailing slash for the SDKs
func endpointURL(serverURL, path string) string {
	return strings.TrimRight(serverURL, "/") + path + "/"
}
