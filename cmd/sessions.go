package cmd

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/glamour"
	"github.com/spf13/cobra"

	"github.com/guilhermegouw/parley/internal/gateway"
)

func newRecentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "recent",
		Short: "List today's sessions",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			sessions, err := newClient(cfg).RecentSessions(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetching recent sessions: %w", err)
			}
			printRecent(cmd.OutOrStdout(), sessions)
			return nil
		},
	}
}

func printRecent(w io.Writer, sessions []gateway.RecentSession) {
	if len(sessions) == 0 {
		fmt.Fprintln(w, "No sessions today.")
		return
	}
	for _, s := range sessions {
		title := s.Title
		if title == "" {
			title = "Untitled"
		}
		fmt.Fprintf(w, "%s  %-6s  %s  %s\n", s.ID, s.Status, s.Created.Local().Format(time.Kitchen), title)
	}
}

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history <session-id>",
		Short: "Print the messages of a session",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			history, err := newClient(cfg).History(cmd.Context(), args[0])
			if err != nil {
				return fmt.Errorf("fetching history: %w", err)
			}
			raw, _ := cmd.Flags().GetBool("raw")
			return printHistory(cmd.OutOrStdout(), history, raw)
		},
	}
	cmd.Flags().Bool("raw", false, "Print assistant messages without markdown rendering")
	return cmd
}

func printHistory(w io.Writer, h gateway.History, raw bool) error {
	var renderer *glamour.TermRenderer
	if !raw {
		r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(80))
		if err != nil {
			return fmt.Errorf("creating markdown renderer: %w", err)
		}
		renderer = r
	}

	fmt.Fprintf(w, "Status: %s\n\n", h.Status)
	for _, m := range h.Messages {
		label := "You"
		if m.Role == gateway.RoleAssistant {
			label = "Assistant"
		}
		body := m.Content
		if renderer != nil && m.Role == gateway.RoleAssistant {
			if rendered, err := renderer.Render(m.Content); err == nil {
				body = strings.TrimRight(rendered, "\n")
			}
		}
		fmt.Fprintf(w, "%s:\n%s\n\n", label, body)
	}
	return nil
}

func newSearchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "search <query...>",
		Short: "Search past sessions",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			limit, _ := cmd.Flags().GetInt("limit")
			if limit <= 0 {
				limit = cfg.Search.Limit
			}
			results, err := newClient(cfg).Search(cmd.Context(), strings.Join(args, " "), limit)
			if err != nil {
				return fmt.Errorf("searching: %w", err)
			}
			printResults(cmd.OutOrStdout(), results)
			return nil
		},
	}
	cmd.Flags().Int("limit", 0, "Maximum number of results (defaults to search.limit)")
	return cmd
}

func printResults(w io.Writer, results []gateway.SearchResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "No matching sessions.")
		return
	}
	for _, r := range results {
		title := r.Title
		if title == "" {
			title = "Untitled"
		}
		fmt.Fprintf(w, "%3.0f%%  %s  %s\n", r.Score*100, r.ChatID, title)
		if r.Snippet != "" {
			fmt.Fprintf(w, "      %s\n", r.Snippet)
		}
	}
}
