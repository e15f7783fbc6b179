package cmd

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/guilhermegouw/parley/internal/config"
)

const statusTimeout = 5 * time.Second

func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show configuration and whether the chat service is reachable",
		Long: `Display the current parley status including:
  - Config file locations
  - Chat service URL and reachability
  - Backend provider used by "parley serve"`,
		Args: cobra.NoArgs,
		RunE: runStatus,
	}
}

func runStatus(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Parley Status")
	fmt.Fprintln(out, strings.Repeat("─", 40))
	fmt.Fprintln(out)

	fmt.Fprintf(out, "Config File:    %s\n", config.GlobalConfigPath())
	fmt.Fprintf(out, "Data Directory: %s\n", cfg.DataDir())
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Chat Service:")
	fmt.Fprintf(out, "  URL:     %s\n", cfg.Gateway.BaseURL)
	fmt.Fprintf(out, "  Timeout: %s\n", cfg.Gateway.Timeout())

	ctx, cancel := context.WithTimeout(cmd.Context(), statusTimeout)
	defer cancel()
	start := time.Now()
	sessions, err := newClient(cfg).RecentSessions(ctx)
	if err != nil {
		fmt.Fprintf(out, "  Status:  unreachable (%v)\n", err)
	} else {
		fmt.Fprintf(out, "  Status:  ok in %s, %d session(s) today\n", time.Since(start).Round(time.Millisecond), len(sessions))
	}
	fmt.Fprintln(out)

	fmt.Fprintln(out, "Development Backend:")
	fmt.Fprintf(out, "  Listen:   %s\n", cfg.Server.Listen)
	fmt.Fprintf(out, "  Database: %s\n", cfg.Server.DatabasePath)
	if p := cfg.Server.Provider; p != nil {
		fmt.Fprintf(out, "  Provider: %s (%s)\n", p.Model, p.Type)
	} else {
		fmt.Fprintln(out, "  Provider: none, replies are echoed")
	}
	return nil
}
