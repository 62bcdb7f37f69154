package cli

import (
	"fmt"
	"strings"

	"github.com/harun/oakplugin/internal/daemon"
	"github.com/harun/oakplugin/pkg/remote"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

var verifyManifest string

var verifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Check that every tool's UI component is exported by the remote bundle",
	RunE:  runVerify,
}

func init() {
	verifyCmd.Flags().StringVar(&verifyManifest, "manifest", "", "manifest file (default is <bundle_dir>/<manifest_file> from the config)")
	rootCmd.AddCommand(verifyCmd)
}

func runVerify(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	registry, err := daemon.BuildRegistry(cfg, zerolog.Nop())
	if err != nil {
		return err
	}

	var resolver remote.Resolver
	if verifyManifest != "" {
		manifest, err := remote.LoadManifest(verifyManifest)
		if err != nil {
			return err
		}
		resolver = manifest
	} else {
		resolver, _, err = daemon.NewResolver(cfg, zerolog.Nop())
		if err != nil {
			return err
		}
	}

	missing := remote.VerifyExports(resolver, registry.List())
	if len(missing) > 0 {
		return fmt.Errorf("remote bundle does not export: %s", strings.Join(missing, ", "))
	}

	fmt.Fprintf(cmd.OutOrStdout(), "OK: %d tool(s), every UI component resolves\n", registry.Len())
	return nil
}
