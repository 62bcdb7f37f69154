package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override, e.g. OAKPLUGIN_SERVER_PORT
const EnvPrefix = "OAKPLUGIN"

// Loader handles configuration loading
type Loader struct {
	configPath string
	envDir     string
}

// NewLoader creates a new config loader
func NewLoader(configPath string) *Loader {
	return &Loader{
		configPath: configPath,
		envDir:     ".",
	}
}

// WithEnvDir sets where .env files are looked up
func (l *Loader) WithEnvDir(dir string) *Loader {
	l.envDir = dir
	return l
}

// Load reads .env files, the config file (when present) and OAKPLUGIN_* overrides,
// in increasing order of precedence over the defaults.
func (l *Loader) Load() (*Config, error) {
	if err := l.loadDotEnv(); err != nil {
		return nil, err
	}

	v := viper.New()
	if err := setDefaults(v, DefaultConfig()); err != nil {
		return nil, fmt.Errorf("failed to set defaults: %w", err)
	}

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// The host's own variable is honoured as well
	if err := v.BindEnv("bridge.server_url", EnvPrefix+"_BRIDGE_SERVER_URL", "OAK_SERVER_URL"); err != nil {
		return nil, fmt.Errorf("failed to bind env: %w", err)
	}

	configPath := l.GetConfigPath()
	if _, err := os.Stat(configPath); err == nil {
		v.SetConfigFile(configPath)
		v.SetConfigType(configType(configPath))

		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	} else if !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to stat config file: %w", err)
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	return cfg, nil
}

// loadDotEnv loads .env, then .env.<APP_ENV> over it. Missing files are fine.
func (l *Loader) loadDotEnv() error {
	base := filepath.Join(l.envDir, ".env")
	if fileExists(base) {
		if err := godotenv.Load(base); err != nil {
			return fmt.Errorf("failed to load %s: %w", base, err)
		}
	}

	appEnv := os.Getenv("APP_ENV")
	if appEnv == "" {
		return nil
	}

	overlay := filepath.Join(l.envDir, ".env."+appEnv)
	if fileExists(overlay) {
		if err := godotenv.Overload(overlay); err != nil {
			return fmt.Errorf("failed to load %s: %w", overlay, err)
		}
	}

	return nil
}

// GetConfigPath returns the config file path
func (l *Loader) GetConfigPath() string {
	if l.configPath != "" {
		return l.configPath
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return ""
	}
	return filepath.Join(home, ".oakplugin", "oakplugin.json")
}

// Load is a convenience function that creates a loader and loads the config
func Load(configPath string) (*Config, error) {
	return NewLoader(configPath).Load()
}

func configType(path string) string {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return "yaml"
	default:
		return "json"
	}
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && !info.IsDir()
}

// setDefaults registers every default key so AutomaticEnv can override nested fields
func setDefaults(v *viper.Viper, cfg *Config) error {
	data, err := json.Marshal(cfg)
	if err != nil {
		return err
	}

	var tree map[string]interface{}
	if err := json.Unmarshal(data, &tree); err != nil {
		return err
	}

	flatten(v, "", tree)
	return nil
}

func flatten(v *viper.Viper, prefix string, tree map[string]interface{}) {
	for key, value := range tree {
		full := key
		if prefix != "" {
			full = prefix + "." + key
		}
		if nested, ok := value.(map[string]interface{}); ok {
			flatten(v, full, nested)
			continue
		}
		v.SetDefault(full, value)
	}
}
