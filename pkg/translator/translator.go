package translator

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/harun/oakplugin/internal/tracing"
	"github.com/harun/oakplugin/pkg/bridge"
	"github.com/harun/oakplugin/pkg/schema"
	"github.com/harun/oakplugin/pkg/toolregistry"
	"github.com/rs/zerolog"
)

const (
	// Identifier is the tool identifier the host executes
	Identifier = "translate"

	// ComponentName is the remote export that renders the tool
	ComponentName = "./translatorTool"

	DefaultSystemPrompt = "You are a professional translator. Reply with the translation only, without quotes or commentary."
)

// Modes
const (
	ModeLLM  = "llm"
	ModeStub = "stub"
)

// ErrEmptyTranslation is returned when the host answers with no text
var ErrEmptyTranslation = errors.New("empty translation")

// Config configures the translate tool
type Config struct {
	Mode         string
	SystemPrompt string
	Model        string
	Temperature  *float64 // nil uses the bridge default
	MaxTokens    int
}

// Params are the validated tool parameters
type Params struct {
	Text           string `json:"text"`
	TargetLanguage string `json:"targetLanguage"`
}

// ParamsSchema declares the accepted parameters
var ParamsSchema = schema.Schema{
	{Name: "text", Type: schema.TypeString, Description: "Text to translate", Required: true},
	{Name: "targetLanguage", Type: schema.TypeString, Description: "Language to translate into", Required: true},
}

// Tool holds the translate handler's configuration
type Tool struct {
	cfg    Config
	logger zerolog.Logger
}

// New creates the translate tool
func New(cfg Config, logger zerolog.Logger) *Tool {
	if cfg.Mode == "" {
		cfg.Mode = ModeLLM
	}
	if cfg.SystemPrompt == "" {
		cfg.SystemPrompt = DefaultSystemPrompt
	}

	return &Tool{
		cfg:    cfg,
		logger: logger.With().Str("component", "translator").Logger(),
	}
}

// Descriptor returns the registry entry for the tool
func (t *Tool) Descriptor() toolregistry.Descriptor {
	return toolregistry.Descriptor{
		Identifier:  Identifier,
		Name:        "Translate",
		Description: "Translate the given text to the target language",
		Params:      ParamsSchema,
		Execute:     t.Execute,
		UIComponent: ComponentName,
	}
}

// Register adds the tool to a registry builder
func Register(b *toolregistry.Builder, cfg Config, logger zerolog.Logger) error {
	return b.Register(New(cfg, logger).Descriptor())
}

// Execute translates params.text into params.targetLanguage
func (t *Tool) Execute(ctx context.Context, params schema.Params, call *bridge.Bridge) (interface{}, error) {
	var p Params
	if err := params.Decode(&p); err != nil {
		return nil, err
	}

	if t.cfg.Mode == ModeStub {
		return StubTranslation(p), nil
	}

	logger := tracing.LoggerFromContext(ctx, t.logger)
	logger.Debug().
		Str("target_language", p.TargetLanguage).
		Int("text_length", len(p.Text)).
		Msg("Requesting translation")

	text, err := call.GenerateText(ctx, bridge.GenerateRequest{
		Prompt:       Prompt(p),
		SystemPrompt: t.cfg.SystemPrompt,
		AgentID:      tracing.GetAgentID(ctx),
		Options: bridge.Options{
			Model:       t.cfg.Model,
			Temperature: t.cfg.Temperature,
			MaxTokens:   t.cfg.MaxTokens,
		},
	})
	if err != nil {
		return nil, fmt.Errorf("translate to %s: %w", p.TargetLanguage, err)
	}

	text = strings.TrimSpace(text)
	if text == "" {
		return nil, ErrEmptyTranslation
	}

	return text, nil
}

// Prompt builds the user prompt sent to the host
func Prompt(p Params) string {
	return fmt.Sprintf("Translate the following text to %s.\n\n%s", p.TargetLanguage, p.Text)
}

// StubTranslation is the offline placeholder result
func StubTranslation(p Params) string {
	return fmt.Sprintf("Translated text: %s to %s", p.Text, p.TargetLanguage)
}
