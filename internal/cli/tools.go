package cli

import (
	"encoding/json"
	"fmt"

	"github.com/harun/oakplugin/internal/daemon"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var toolsOutput string

var toolsCmd = &cobra.Command{
	Use:   "tools",
	Short: "Print the tool catalog",
	Long:  `Print the catalog the host receives from GET /tools.`,
	RunE:  runTools,
}

func init() {
	toolsCmd.Flags().StringVarP(&toolsOutput, "output", "o", "json", "output format (json, yaml)")
	rootCmd.AddCommand(toolsCmd)
}

func runTools(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	registry, err := daemon.BuildRegistry(cfg, zerolog.Nop())
	if err != nil {
		return err
	}
	catalog := registry.List()

	out := cmd.OutOrStdout()
	switch toolsOutput {
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(catalog)
	case "yaml":
		enc := yaml.NewEncoder(out)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(catalog)
	default:
		return fmt.Errorf("unknown output format %q (json, yaml)", toolsOutput)
	}
}
