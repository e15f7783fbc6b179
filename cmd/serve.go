package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/guilhermegouw/parley/internal/assistant"
	"github.com/guilhermegouw/parley/internal/config"
	"github.com/guilhermegouw/parley/internal/db"
	"github.com/guilhermegouw/parley/internal/logger"
	"github.com/guilhermegouw/parley/internal/message"
	"github.com/guilhermegouw/parley/internal/provider"
	"github.com/guilhermegouw/parley/internal/pubsub"
	"github.com/guilhermegouw/parley/internal/server"
	"github.com/guilhermegouw/parley/internal/session"
)

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the development chat service",
		Long: `Run a local chat service backed by SQLite.

Replies come from the model in server.provider (see "parley providers").
Without a provider the service echoes prompts, which is enough to try the
client offline.`,
		Args: cobra.NoArgs,
		RunE: runServe,
	}
	cmd.Flags().String("listen", "", "Address to listen on (overrides server.listen)")
	cmd.Flags().String("db", "", "SQLite database path (overrides server.database_path)")
	cmd.Flags().Bool("debug", false, "Log at debug level")
	cmd.Flags().Bool("json", false, "Log JSON lines instead of console output")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}
	if listen, _ := cmd.Flags().GetString("listen"); listen != "" {
		cfg.Server.Listen = listen
	}
	if path, _ := cmd.Flags().GetString("db"); path != "" {
		cfg.Server.DatabasePath = path
	}
	debugMode, _ := cmd.Flags().GetBool("debug")
	jsonLogs, _ := cmd.Flags().GetBool("json")

	log := logger.New(os.Stderr, logger.LevelFromEnv(debugMode), !jsonLogs)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := db.Open(ctx, cfg.Server.DatabasePath)
	if err != nil {
		return err
	}
	defer func() {
		if err := store.Close(); err != nil {
			log.Error().Err(err).Msg("closing database")
		}
	}()
	log.Info().Str("path", store.Path()).Msg("database ready")

	completer, err := buildCompleter(ctx, cfg, log)
	if err != nil {
		return err
	}

	hub := pubsub.NewHub()
	defer hub.Shutdown()

	srv, err := server.New(server.Deps{
		Sessions: session.NewService(session.NewSQLiteStore(store.Conn()), hub.Session),
		Messages: message.NewService(message.NewSQLiteStore(store.Conn()), hub.Message),
		Assistant: assistant.New(completer, assistant.Options{
			SystemPrompt: cfg.Server.SystemPrompt,
			MaxTokens:    cfg.Server.MaxTokens,
			Temperature:  cfg.Server.Temperature,
		}),
		Hub: hub,
		Log: log,
	})
	if err != nil {
		return err
	}
	return srv.Run(ctx, cfg.Server.Listen)
}

// buildCompleter returns the model client, or the echo completer when no
// provider is configured.
func buildCompleter(ctx context.Context, cfg *config.Config, log zerolog.Logger) (assistant.Completer, error) {
	if cfg.Server.Provider == nil {
		log.Warn().Msg("no provider configured, replies are echoed")
		return assistant.EchoCompleter{}, nil
	}
	p, err := cfg.Server.Provider.Resolved()
	if err != nil {
		return nil, fmt.Errorf("resolving provider: %w", err)
	}
	model, err := provider.Build(ctx, p)
	if err != nil {
		return nil, fmt.Errorf("building model: %w", err)
	}
	log.Info().Str("provider", string(p.Type)).Str("model", p.Model).Msg("model ready")
	return assistant.NewFantasyCompleter(model.Model), nil
}
