package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// unsetEnv clears key for the test and restores it afterwards
func unsetEnv(t *testing.T, key string) {
	t.Helper()
	t.Setenv(key, "")
	require.NoError(t, os.Unsetenv(key))
}

func TestNewLoader(t *testing.T) {
	loader := NewLoader("/path/to/config.json")
	assert.NotNil(t, loader)
	assert.Equal(t, "/path/to/config.json", loader.configPath)
	assert.Equal(t, "/path/to/config.json", loader.GetConfigPath())
}

func TestLoaderLoad(t *testing.T) {
	t.Run("load default config when file doesn't exist", func(t *testing.T) {
		tmpDir := t.TempDir()

		cfg, err := NewLoader(filepath.Join(tmpDir, "nonexistent.json")).WithEnvDir(tmpDir).Load()

		require.NoError(t, err)
		assert.Equal(t, DefaultConfig().Server.Port, cfg.Server.Port)
		assert.Equal(t, "oaktoken", cfg.Bridge.TokenHeader)
	})

	t.Run("load config from JSON file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.json")

		testConfig := `{
			"server": {"port": 4100},
			"bridge": {"provider": "anthropic", "model": "claude-test"},
			"translate": {"mode": "stub"}
		}`
		require.NoError(t, os.WriteFile(configPath, []byte(testConfig), 0644))

		cfg, err := NewLoader(configPath).WithEnvDir(tmpDir).Load()

		require.NoError(t, err)
		assert.Equal(t, 4100, cfg.Server.Port)
		assert.Equal(t, "anthropic", cfg.Bridge.Provider)
		assert.Equal(t, "claude-test", cfg.Bridge.Model)
		assert.Equal(t, "stub", cfg.Translate.Mode)
		// Untouched sections keep their defaults
		assert.Equal(t, "oaktoken", cfg.Bridge.TokenHeader)
		assert.Equal(t, "My OAK Plugin", cfg.Plugin.Name)
	})

	t.Run("load config from YAML file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.yaml")

		testConfig := "plugin:\n  name: Translator\n  version: 2.1.0\nlogging:\n  level: debug\n"
		require.NoError(t, os.WriteFile(configPath, []byte(testConfig), 0644))

		cfg, err := NewLoader(configPath).WithEnvDir(tmpDir).Load()

		require.NoError(t, err)
		assert.Equal(t, "Translator", cfg.Plugin.Name)
		assert.Equal(t, "2.1.0", cfg.Plugin.Version)
		assert.Equal(t, "debug", cfg.Logging.Level)
	})

	t.Run("environment overrides file", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "config.json")
		require.NoError(t, os.WriteFile(configPath, []byte(`{"server": {"port": 4100}}`), 0644))

		t.Setenv("OAKPLUGIN_SERVER_PORT", "5200")
		t.Setenv("OAKPLUGIN_TRANSLATE_MODE", "stub")

		cfg, err := NewLoader(configPath).WithEnvDir(tmpDir).Load()

		require.NoError(t, err)
		assert.Equal(t, 5200, cfg.Server.Port)
		assert.Equal(t, "stub", cfg.Translate.Mode)
	})

	t.Run("honours OAK_SERVER_URL", func(t *testing.T) {
		tmpDir := t.TempDir()
		unsetEnv(t, "OAKPLUGIN_BRIDGE_SERVER_URL")
		t.Setenv("OAK_SERVER_URL", "https://oak.example.com")

		cfg, err := NewLoader(filepath.Join(tmpDir, "none.json")).WithEnvDir(tmpDir).Load()

		require.NoError(t, err)
		assert.Equal(t, "https://oak.example.com", cfg.Bridge.ServerURL)
	})

	t.Run("loads .env and the APP_ENV overlay", func(t *testing.T) {
		tmpDir := t.TempDir()
		unsetEnv(t, "OAKPLUGIN_PLUGIN_AUTHOR")
		unsetEnv(t, "OAKPLUGIN_BRIDGE_MODEL")
		t.Setenv("APP_ENV", "staging")

		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".env"),
			[]byte("OAKPLUGIN_PLUGIN_AUTHOR=Dotenv Author\nOAKPLUGIN_BRIDGE_MODEL=base-model\n"), 0644))
		require.NoError(t, os.WriteFile(filepath.Join(tmpDir, ".env.staging"),
			[]byte("OAKPLUGIN_BRIDGE_MODEL=staging-model\n"), 0644))

		cfg, err := NewLoader(filepath.Join(tmpDir, "none.json")).WithEnvDir(tmpDir).Load()

		require.NoError(t, err)
		assert.Equal(t, "Dotenv Author", cfg.Plugin.Author)
		assert.Equal(t, "staging-model", cfg.Bridge.Model)
	})

	t.Run("invalid JSON", func(t *testing.T) {
		tmpDir := t.TempDir()
		configPath := filepath.Join(tmpDir, "invalid.json")
		require.NoError(t, os.WriteFile(configPath, []byte("invalid json"), 0644))

		_, err := NewLoader(configPath).WithEnvDir(tmpDir).Load()
		assert.Error(t, err)
	})
}

func TestGetConfigPathDefault(t *testing.T) {
	path := NewLoader("").GetConfigPath()
	if path == "" {
		t.Skip("no home directory")
	}
	assert.Equal(t, filepath.Join(".oakplugin", "oakplugin.json"), filepath.Join(filepath.Base(filepath.Dir(path)), filepath.Base(path)))
}
