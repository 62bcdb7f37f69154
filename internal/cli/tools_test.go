package cli

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestToolsCommand(t *testing.T) {
	configPath := writeConfig(t, "")

	t.Run("json", func(t *testing.T) {
		out, err := run(t, "tools", "--config", configPath, "--log-level", "", "--output", "json")
		require.NoError(t, err)

		var catalog []map[string]interface{}
		require.NoError(t, json.Unmarshal([]byte(out), &catalog))
		require.Len(t, catalog, 1)
		assert.Equal(t, "translate", catalog[0]["identifier"])
		assert.Equal(t, "./translatorTool", catalog[0]["uiComponent"])
		assert.NotContains(t, catalog[0], "execute")
	})

	t.Run("yaml", func(t *testing.T) {
		out, err := run(t, "tools", "--config", configPath, "--log-level", "", "--output", "yaml")
		require.NoError(t, err)

		var catalog []map[string]interface{}
		require.NoError(t, yaml.Unmarshal([]byte(out), &catalog))
		require.Len(t, catalog, 1)
		assert.Equal(t, "translate", catalog[0]["identifier"])
	})

	t.Run("unknown format", func(t *testing.T) {
		_, err := run(t, "tools", "--config", configPath, "--log-level", "", "--output", "xml")
		assert.Error(t, err)
	})
}
