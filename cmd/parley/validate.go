package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"parley-hq/parley/pkg/cli"
	"parley-hq/parley/pkg/config"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Validate the configuration file",
	Long: `Load the configuration file, apply defaults and environment
overrides, and report any validation errors without starting the server.

Examples:
  # Validate the default config
  parley validate

  # Validate a specific config
  parley validate --config /etc/parley/config.yaml`,
	RunE: validateConfig,
}

func init() {
	rootCmd.AddCommand(validateCmd)
}

func validateConfig(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", err.Error())
	}

	fmt.Printf("Configuration valid: %s\n", cfgFile)
	fmt.Printf("  listen address: %s\n", cfg.Server.ListenAddress)
	fmt.Printf("  provider: %s (%s)\n", cfg.Provider.Type, cfg.Provider.Model)
	if cfg.Session.Eviction.Schedule != "" {
		fmt.Printf("  eviction: %q, max idle %s\n", cfg.Session.Eviction.Schedule, cfg.Session.Eviction.MaxIdle)
	} else {
		fmt.Println("  eviction: disabled")
	}
	return nil
}
