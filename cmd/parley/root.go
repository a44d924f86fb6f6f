package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "parley",
	Short: "Parley - conversational session manager for LLM providers",
	Long: `Parley is a conversational session manager that sits in front of an
LLM completion provider. Clients send one prompt at a time; Parley keeps
the conversation history and persona server-side, assembles the full
context for each turn, and returns the generated reply together with a
conversation identifier.

It provides:
  - Server-side conversation history and persona management
  - Deterministic context assembly for every turn
  - Request validation with typed, field-level errors
  - Idle conversation eviction on a cron schedule
  - Prometheus metrics and structured logging`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	// Global persistent flags (available to all subcommands)
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
