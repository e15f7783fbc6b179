package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/guilhermegouw/parley/internal/config"
)

// newProvidersCmd creates the providers command group.
func newProvidersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "providers",
		Short: "Configure the model provider of the development backend",
		Long: `Configure which model "parley serve" talks to.

Examples:
  parley providers templates           List available templates
  parley providers use lmstudio        Use a local LM Studio server
  parley providers use openai --model gpt-4o
  parley providers show                Show the configured provider`,
	}

	cmd.AddCommand(newProvidersTemplatesCmd(), newProvidersUseCmd(), newProvidersShowCmd())
	return cmd
}

func newProvidersTemplatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "templates",
		Short: "List available provider templates",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Available Provider Templates:")
			fmt.Fprintln(out)
			for _, name := range config.TemplateNames() {
				t, _ := config.GetTemplate(name)
				fmt.Fprintf(out, "  %s\n", name)
				fmt.Fprintf(out, "    %s\n", t.Description)
				fmt.Fprintf(out, "    Type: %s, default model: %s\n", t.Provider.Type, t.Provider.Model)
				fmt.Fprintln(out)
			}
		},
	}
}

func newProvidersUseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use <template-name>",
		Short: "Write a provider template to the global config",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			model, _ := cmd.Flags().GetString("model")
			p, err := config.UseTemplate(config.GlobalConfigPath(), args[0], model)
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "Using %s with model %s\n", p.ID, p.Model)
			if p.APIKey != "" && p.APIKey[0] == '$' {
				fmt.Fprintf(out, "\nSet %s before running parley serve.\n", p.APIKey[1:])
			}
			return nil
		},
	}
	cmd.Flags().String("model", "", "Model to use instead of the template default")
	return cmd
}

func newProvidersShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the configured provider",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("loading config: %w", err)
			}
			out := cmd.OutOrStdout()
			p := cfg.Server.Provider
			if p == nil {
				fmt.Fprintln(out, "No provider configured; parley serve echoes prompts.")
				return nil
			}
			fmt.Fprintf(out, "ID:       %s\n", p.ID)
			fmt.Fprintf(out, "Type:     %s\n", p.Type)
			fmt.Fprintf(out, "Model:    %s\n", p.Model)
			if p.BaseURL != "" {
				fmt.Fprintf(out, "Base URL: %s\n", p.BaseURL)
			}
			key := "not set"
			if p.APIKey != "" {
				key = "set"
			}
			fmt.Fprintf(out, "API Key:  %s\n", key)
			return nil
		},
	}
}
