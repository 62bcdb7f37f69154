package bridge

import (
	"context"
	"fmt"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/option"
)

// AnthropicGenerator talks to the host's Anthropic-compatible endpoint
type AnthropicGenerator struct {
	client anthropic.Client
}

// NewAnthropicGenerator creates a generator for <server>/api/llm/anthropic
func NewAnthropicGenerator(endpoint Endpoint) *AnthropicGenerator {
	opts := []option.RequestOption{
		option.WithBaseURL(endpointURL(endpoint.ServerURL, "/api/llm/anthropic")),
		option.WithAPIKey(endpoint.Token),
		option.WithMaxRetries(0),
	}
	if endpoint.TokenHeader != "" {
		opts = append(opts, option.WithHeader(endpoint.TokenHeader, endpoint.Token))
	}

	return &AnthropicGenerator{
		client: anthropic.NewClient(opts...),
	}
}

// Provider returns the provider name
func (g *AnthropicGenerator) Provider() string {
	return ProviderAnthropic
}

// Generate makes a single messages call and joins the text blocks
func (g *AnthropicGenerator) Generate(ctx context.Context, request GenerateRequest) (string, error) {
	params := anthropic.MessageNewParams{
		Model:     anthropic.Model(request.Options.Model),
		MaxTokens: int64(request.Options.MaxTokens),
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(request.Prompt)),
		},
	}

	if request.SystemPrompt != "" {
		params.System = []anthropic.TextBlockParam{
			{Text: request.SystemPrompt},
		}
	}

	if request.Options.Temperature != nil {
		params.Temperature = anthropic.Float(*request.Options.Temperature)
	}

	var reqOpts []option.RequestOption
	if request.AgentID != "" {
		reqOpts = append(reqOpts, option.WithHeader(AgentIDHeader, request.AgentID))
	}

	response, err := g.client.Messages.New(ctx, params, reqOpts...)
	if err != nil {
		return "", err
	}

	content := ""
	for _, block := range response.Content {
		if b, ok := block.AsAny().(anthropic.TextBlock); ok {
			content += b.Text
		}
	}

	if content == "" {
		return "", fmt.Errorf("no text content returned")
	}

	return content, nil
}
