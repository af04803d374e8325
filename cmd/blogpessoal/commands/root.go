package commands

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/strrl/blogpessoal/internal/api"
	"github.com/strrl/blogpessoal/internal/auth"
	"github.com/strrl/blogpessoal/internal/config"
	"github.com/strrl/blogpessoal/internal/db"
	"github.com/strrl/blogpessoal/internal/journal"
	"github.com/strrl/blogpessoal/internal/logging"
	"github.com/strrl/blogpessoal/internal/tui"
)

// NewRootCommand creates the root command
func NewRootCommand() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "blogpessoal",
		Short: "Terminal client for the Blog Pessoal API",
		Long: `blogpessoal is a TUI client for the Blog Pessoal REST API: log in, register,
and manage themes (temas) and posts (postagens).

The API address and the other settings come from BP_* environment variables
or a .env file in the working directory.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runTUI,
	}

	rootCmd.AddCommand(NewShowCommand())
	rootCmd.AddCommand(NewHistoryCommand())
	rootCmd.AddCommand(NewMockServerCommand())

	return rootCmd
}

// Execute runs the root command
func Execute() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rootCmd := NewRootCommand()
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		stop()
		os.Exit(1)
	}
}

// setup loads the configuration and sends the logs to the log file
func setup() (*config.Config, func(), error) {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}
	closer, err := logging.Setup(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logging: %w", err)
	}
	return cfg, func() { closer.Close() }, nil
}

func runTUI(cmd *cobra.Command, args []string) error {
	cfg, cleanup, err := setup()
	if err != nil {
		return err
	}
	defer cleanup()

	client := api.New(cfg.APIBaseURL, cfg.RequestTimeout)
	deps := tui.Deps{
		Session:   auth.NewStore(client),
		Accounts:  client,
		Temas:     api.Temas(client),
		Postagens: api.Postagens(client),
	}

	conn, err := db.Open(cfg.JournalPath)
	if err != nil {
		log.Warn().Err(err).Str("path", cfg.JournalPath).Msg("journal disabled")
	} else {
		defer conn.Close()
		j := journal.New(conn)
		defer j.Close()
		deps.Recorder = j
	}

	log.Info().Str("api", client.BaseURL()).Msg("starting TUI")
	return tui.Run(cmd.Context(), deps)
}
