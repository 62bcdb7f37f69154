package config

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// Validator validates configuration values
type Validator struct{}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{}
}

// ValidatePort validates a TCP port
func (v *Validator) ValidatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("server port must be between 1 and 65535, got %d", port)
	}
	return nil
}

// ValidateServerURL validates the host base URL
func (v *Validator) ValidateServerURL(raw string) error {
	if raw == "" {
		return fmt.Errorf("bridge server_url cannot be empty")
	}

	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid bridge server_url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("bridge server_url must use http or https, got %q", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("bridge server_url must include a host")
	}
	return nil
}

// ValidateProvider validates the LLM provider name
func (v *Validator) ValidateProvider(provider string) error {
	return oneOf("bridge provider", provider, []string{"openai", "anthropic"})
}

// ValidateTemperature validates temperature value
func (v *Validator) ValidateTemperature(temp float64) error {
	if temp < 0 || temp > 2 {
		return fmt.Errorf("temperature must be between 0 and 2, got %f", temp)
	}
	return nil
}

// ValidateMaxTokens validates max tokens value
func (v *Validator) ValidateMaxTokens(tokens int) error {
	if tokens <= 0 {
		return fmt.Errorf("max tokens must be positive, got %d", tokens)
	}
	if tokens > 200000 {
		return fmt.Errorf("max tokens too large (max 200000), got %d", tokens)
	}
	return nil
}

// ValidateVersion validates a semantic version
func (v *Validator) ValidateVersion(version string) error {
	if _, err := semver.StrictNewVersion(version); err != nil {
		return fmt.Errorf("invalid plugin version %q (must be semver: X.Y.Z): %w", version, err)
	}
	return nil
}

// ValidateTranslateMode validates the translate tool mode
func (v *Validator) ValidateTranslateMode(mode string) error {
	return oneOf("translate mode", mode, []string{"llm", "stub"})
}

// ValidateLogLevel validates log level
func (v *Validator) ValidateLogLevel(level string) error {
	return oneOf("log level", level, []string{"debug", "info", "warn", "error"})
}

// ValidateConfig performs comprehensive validation and returns every problem found
func (v *Validator) ValidateConfig(cfg *Config) []error {
	var errors []error

	if err := v.ValidatePort(cfg.Server.Port); err != nil {
		errors = append(errors, err)
	}
	if cfg.Server.MaxBodyBytes <= 0 {
		errors = append(errors, fmt.Errorf("server max_body_bytes must be positive"))
	}

	// Bridge
	if err := v.ValidateServerURL(cfg.Bridge.ServerURL); err != nil {
		errors = append(errors, err)
	}
	if strings.TrimSpace(cfg.Bridge.TokenHeader) == "" {
		errors = append(errors, fmt.Errorf("bridge token_header cannot be empty"))
	}
	if err := v.ValidateProvider(cfg.Bridge.Provider); err != nil {
		errors = append(errors, err)
	}
	if cfg.Bridge.Model == "" {
		errors = append(errors, fmt.Errorf("bridge model cannot be empty"))
	}
	if err := v.ValidateMaxTokens(cfg.Bridge.MaxTokens); err != nil {
		errors = append(errors, fmt.Errorf("bridge: %w", err))
	}
	if err := v.ValidateTemperature(cfg.Bridge.Temperature); err != nil {
		errors = append(errors, fmt.Errorf("bridge: %w", err))
	}

	// Plugin metadata
	if strings.TrimSpace(cfg.Plugin.Name) == "" {
		errors = append(errors, fmt.Errorf("plugin name cannot be empty"))
	}
	if err := v.ValidateVersion(cfg.Plugin.Version); err != nil {
		errors = append(errors, err)
	}

	// Remote bundle
	if cfg.Remote.BundleDir != "" && cfg.Remote.ManifestFile == "" {
		errors = append(errors, fmt.Errorf("remote manifest_file is required when bundle_dir is set"))
	}

	if err := v.ValidateTranslateMode(cfg.Translate.Mode); err != nil {
		errors = append(errors, err)
	}

	if err := v.ValidateLogLevel(cfg.Logging.Level); err != nil {
		errors = append(errors, err)
	}

	return errors
}

func oneOf(what, value string, valid []string) error {
	for _, candidate := range valid {
		if value == candidate {
			return nil
		}
	}
	return fmt.Errorf("invalid %s: %s (must be one of: %s)", what, value, strings.Join(valid, ", "))
}
