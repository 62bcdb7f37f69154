package cli

import (
	"errors"
	"fmt"

	"github.com/harun/oakplugin/internal/config"
	"github.com/harun/oakplugin/internal/logger"
	"github.com/spf13/cobra"
)

const version = "0.1.0"

var (
	cfgFile  string
	logLevel string
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "oakplugin",
	Short: "oakplugin - OAK tool plugin server",
	Long: `oakplugin serves a tool plugin for an OAK host.
It lists and executes tools over HTTP, forwards LLM calls back through the
host with the caller's capability token, and serves the federated UI bundle
that renders each tool.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is $HOME/.oakplugin/oakplugin.json)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "log level (debug, info, warn, error), overrides the config file")

	rootCmd.SetVersionTemplate(`{{with .Name}}{{printf "%s " .}}{{end}}{{printf "version %s" .Version}}
`)
}

// GetRootCmd returns the root command for testing
func GetRootCmd() *cobra.Command {
	return rootCmd
}

// GetVersion returns the current version
func GetVersion() string {
	return version
}

// loadConfig reads and validates the configuration named by --config
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	if logLevel != "" {
		cfg.Logging.Level = logLevel
	}

	if errs := config.NewValidator().ValidateConfig(cfg); len(errs) > 0 {
		return nil, fmt.Errorf("invalid config: %w", errors.Join(errs...))
	}

	return cfg, nil
}

func newLogger(cfg *config.Config) (*logger.Logger, error) {
	return logger.New(logger.Config{
		Level:         cfg.Logging.Level,
		File:          cfg.Logging.File,
		Console:       true,
		Pretty:        cfg.Logging.Pretty,
		Redaction:     cfg.Logging.Redaction,
		RedactHeaders: []string{cfg.Bridge.TokenHeader},
		MaxSizeMB:     cfg.Logging.MaxSizeMB,
		MaxAge:        cfg.Logging.MaxAge,
	})
}
