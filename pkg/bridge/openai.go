package bridge

import (
	"context"
	"fmt"

	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// OpenAIGenerator talks to the host's OpenAI-compatible endpoint
type OpenAIGenerator struct {
	client openai.Client
}

// NewOpenAIGenerator creates a generator for <server>/api/llm/openai/v1
func NewOpenAIGenerator(endpoint Endpoint) *OpenAIGenerator {
	opts := []option.RequestOption{
		option.WithBaseURL(endpointURL(endpoint.ServerURL, "/api/llm/openai/v1")),
		option.WithAPIKey(endpoint.Token),
		option.WithMaxRetries(0),
	}
	if endpoint.TokenHeader != "" {
		opts = append(opts, option.WithHeader(endpoint.TokenHeader, endpoint.Token))
	}

	return &OpenAIGenerator{
		client: openai.NewClient(opts...),
	}
}

// Provider returns the provider name
func (g *OpenAIGenerator) Provider() string {
	return ProviderOpenAI
}

// Generate makes a single chat completion call
func (g *OpenAIGenerator) Generate(ctx context.Context, request GenerateRequest) (string, error) {
	messages := []openai.ChatCompletionMessageParamUnion{}
	if request.SystemPrompt != "" {
		messages = append(messages, openai.SystemMessage(request.SystemPrompt))
	}
	messages = append(messages, openai.UserMessage(request.Prompt))

	params := openai.ChatCompletionNewParams{
		Model:    openai.ChatModel(request.Options.Model),
		Messages: messages,
	}

	if request.Options.MaxTokens > 0 {
		params.MaxTokens = openai.Int(int64(request.Options.MaxTokens))
	}

	if request.Options.Temperature != nil {
		params.Temperature = openai.Float(*request.Options.Temperature)
	}

	var reqOpts []option.RequestOption
	if request.AgentID != "" {
		reqOpts = append(reqOpts, option.WithHeader(AgentIDHeader, request.AgentID))
	}

	response, err := g.client.Chat.Completions.New(ctx, params, reqOpts...)
	if err != nil {
		return "", err
	}

	if len(response.Choices) == 0 {
		return "", fmt.Errorf("no response choices returned")
	}

	return response.Choices[0].Message.Content, nil
}
