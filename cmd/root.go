// Package cmd provides the CLI commands for parley.
package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/guilhermegouw/parley/internal/config"
	"github.com/guilhermegouw/parley/internal/debug"
	"github.com/guilhermegouw/parley/internal/gateway"
	"github.com/guilhermegouw/parley/internal/tui"
)

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "parley [session-id]",
		Short: "Chat with an AI assistant from your terminal",
		Long: `Parley is a terminal client for an AI chat service.

Sessions are kept by the service: start a new one, pick up a session from
today's list, end it with a generated summary, or search past sessions.

Run "parley serve" to start a local development service.`,
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE:         runTUI,
	}

	cmd.PersistentFlags().String("gateway", "", "Base URL of the chat service (overrides config)")
	cmd.Flags().Bool("debug", false, "Enable debug logging to the data directory")

	cmd.AddCommand(
		newVersionCmd(),
		newStatusCmd(),
		newRecentCmd(),
		newHistoryCmd(),
		newSearchCmd(),
		newConfigCmd(),
		newProvidersCmd(),
		newServeCmd(),
	)

	return cmd
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	debugMode, err := cmd.Flags().GetBool("debug")
	if err != nil {
		return fmt.Errorf("getting debug flag: %w", err)
	}
	if debugMode || cfg.Options.Debug {
		logPath := cfg.DebugLogPath()
		if debugErr := debug.Enable(logPath); debugErr != nil {
			fmt.Fprintf(os.Stderr, "Warning: Failed to enable debug logging: %v\n", debugErr)
		} else {
			defer debug.Disable()
			fmt.Fprintf(os.Stderr, "Debug: %s\n", logPath)
		}
	}

	var sessionID string
	if len(args) == 1 {
		sessionID = args[0]
	}
	return tui.Run(cfg, newClient(cfg), sessionID)
}

// loadConfig loads the configuration and applies the --gateway flag.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if url, _ := cmd.Flags().GetString("gateway"); url != "" {
		cfg.Gateway.BaseURL = url
	}
	return cfg, nil
}

func newClient(cfg *config.Config) *gateway.Client {
	return gateway.NewClient(cfg.Gateway.BaseURL, gateway.WithTimeout(cfg.Gateway.Timeout()))
}

// Execute runs the root command.
func Execute() error {
	return newRootCmd().Execute()
}
