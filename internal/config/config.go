package config

import (
	"encoding/json"
)

// Config represents the oakplugin configuration
type Config struct {
	// HTTP listener
	Server ServerConfig `json:"server" mapstructure:"server" yaml:"server"`

	// Host LLM access
	Bridge BridgeConfig `json:"bridge" mapstructure:"bridge" yaml:"bridge"`

	// Metadata reported to the host
	Plugin PluginConfig `json:"plugin" mapstructure:"plugin" yaml:"plugin"`

	// Federated UI bundle
	Remote RemoteConfig `json:"remote" mapstructure:"remote" yaml:"remote"`

	// Translate tool
	Translate TranslateConfig `json:"translate" mapstructure:"translate" yaml:"translate"`

	// Logging
	Logging LoggingConfig `json:"logging" mapstructure:"logging" yaml:"logging"`

	// Tracing
	Telemetry TelemetryConfig `json:"telemetry" mapstructure:"telemetry" yaml:"telemetry"`
}

// ServerConfig holds the HTTP listener settings
type ServerConfig struct {
	Host               string `json:"host" mapstructure:"host" yaml:"host"`
	Port               int    `json:"port" mapstructure:"port" yaml:"port"`
	ReadTimeoutSec     int    `json:"read_timeout_sec" mapstructure:"read_timeout_sec" yaml:"read_timeout_sec"`
	ShutdownTimeoutSec int    `json:"shutdown_timeout_sec" mapstructure:"shutdown_timeout_sec" yaml:"shutdown_timeout_sec"`
	MaxBodyBytes       int64  `json:"max_body_bytes" mapstructure:"max_body_bytes" yaml:"max_body_bytes"`
}

// BridgeConfig holds the settings for calls back into the host
type BridgeConfig struct {
	ServerURL   string  `json:"server_url" mapstructure:"server_url" yaml:"server_url"`
	TokenHeader string  `json:"token_header" mapstructure:"token_header" yaml:"token_header"`
	Provider    string  `json:"provider" mapstructure:"provider" yaml:"provider"` // openai, anthropic
	Model       string  `json:"model" mapstructure:"model" yaml:"model"`
	MaxTokens   int     `json:"max_tokens" mapstructure:"max_tokens" yaml:"max_tokens"`
	Temperature float64 `json:"temperature" mapstructure:"temperature" yaml:"temperature"`
}

// PluginConfig is served from /meta
type PluginConfig struct {
	Name                 string `json:"name" mapstructure:"name" yaml:"name"`
	Version              string `json:"version" mapstructure:"version" yaml:"version"`
	Description          string `json:"description" mapstructure:"description" yaml:"description"`
	Author               string `json:"author" mapstructure:"author" yaml:"author"`
	Website              string `json:"website" mapstructure:"website" yaml:"website"`
	HasAdminChatPage     bool   `json:"has_admin_chat_page" mapstructure:"has_admin_chat_page" yaml:"has_admin_chat_page"`
	HasUserChatPage      bool   `json:"has_user_chat_page" mapstructure:"has_user_chat_page" yaml:"has_user_chat_page"`
	HasKnowledgeProvider bool   `json:"has_knowledge_provider" mapstructure:"has_knowledge_provider" yaml:"has_knowledge_provider"`
}

// RemoteConfig locates the federated bundle
type RemoteConfig struct {
	BundleDir    string `json:"bundle_dir" mapstructure:"bundle_dir" yaml:"bundle_dir"`
	ManifestFile string `json:"manifest_file" mapstructure:"manifest_file" yaml:"manifest_file"`
	Watch        bool   `json:"watch" mapstructure:"watch" yaml:"watch"`
}

// TranslateConfig configures the translate tool
type TranslateConfig struct {
	Mode         string `json:"mode" mapstructure:"mode" yaml:"mode"` // llm, stub
	SystemPrompt string `json:"system_prompt" mapstructure:"system_prompt" yaml:"system_prompt"`
	GenericError string `json:"generic_error" mapstructure:"generic_error" yaml:"generic_error"`
}

// LoggingConfig holds logging configuration
type LoggingConfig struct {
	Level     string `json:"level" mapstructure:"level" yaml:"level"`
	File      string `json:"file" mapstructure:"file" yaml:"file"`
	AuditFile string `json:"audit_file" mapstructure:"audit_file" yaml:"audit_file"`
	Pretty    bool   `json:"pretty" mapstructure:"pretty" yaml:"pretty"`
	Redaction bool   `json:"redaction" mapstructure:"redaction" yaml:"redaction"`
	MaxSizeMB int    `json:"max_size_mb" mapstructure:"max_size_mb" yaml:"max_size_mb"`
	MaxAge    int    `json:"max_age_days" mapstructure:"max_age_days" yaml:"max_age_days"`
}

// TelemetryConfig holds tracing configuration
type TelemetryConfig struct {
	Enabled     bool   `json:"enabled" mapstructure:"enabled" yaml:"enabled"`
	ServiceName string `json:"service_name" mapstructure:"service_name" yaml:"service_name"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Server: ServerConfig{
			Host:               "0.0.0.0",
			Port:               3000,
			ReadTimeoutSec:     30,
			ShutdownTimeoutSec: 10,
			MaxBodyBytes:       1 << 20,
		},
		Bridge: BridgeConfig{
			ServerURL:   "https://oak.localhost",
			TokenHeader: "oaktoken",
			Provider:    "openai",
			Model:       "gpt-4o-mini",
			MaxTokens:   1024,
			Temperature: 0.2,
		},
		Plugin: PluginConfig{
			Name:                 "My OAK Plugin",
			Version:              "1.0.0",
			Description:          "Awesome Plugin for OAK",
			Author:               "Open Agent Kit",
			Website:              "https://open-agent-kit.com",
			HasAdminChatPage:     true,
			HasUserChatPage:      true,
			HasKnowledgeProvider: true,
		},
		Remote: RemoteConfig{
			BundleDir:    "web/remote",
			ManifestFile: "remote-manifest.json",
			Watch:        true,
		},
		Translate: TranslateConfig{
			Mode:         "llm",
			GenericError: "Translation failed. Please try again.",
		},
		Logging: LoggingConfig{
			Level:     "info",
			Redaction: true,
			MaxSizeMB: 50,
			MaxAge:    7,
		},
		Telemetry: TelemetryConfig{
			Enabled:     false,
			ServiceName: "oakplugin",
		},
	}
}

// String returns a JSON representation of the config
func (c *Config) String() string {
	data, _ := json.MarshalIndent(c, "", "  ")
	return string(data)
}
