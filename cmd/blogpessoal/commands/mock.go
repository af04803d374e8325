package commands

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/strrl/blogpessoal/internal/config"
	"github.com/strrl/blogpessoal/internal/logging"
	"github.com/strrl/blogpessoal/internal/mockapi"
	"golang.org/x/sync/errgroup"
)

// NewMockServerCommand creates the mock-server command
func NewMockServerCommand() *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "mock-server",
		Short: "Run an in-memory Blog Pessoal backend for local use and demos",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMockServer(cmd.Context(), listen)
		},
	}
	cmd.Flags().StringVar(&listen, "listen", "", "listen address (defaults to BP_MOCK_LISTEN_ADDRESS)")
	return cmd
}

func runMockServer(ctx context.Context, listen string) error {
	cfg, err := config.LoadFromEnv()
	if err != nil {
		return fmt.Errorf("failed to load configuration: %w", err)
	}
	if err := logging.SetupConsole(cfg.LogLevel); err != nil {
		return err
	}
	if listen == "" {
		listen = cfg.MockListenAddress
	}

	backend, err := mockapi.New(cfg.MockTokenTTL)
	if err != nil {
		return err
	}
	srv := &http.Server{
		Addr:              listen,
		Handler:           backend.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info().Str("address", listen).Dur("token_ttl", cfg.MockTokenTTL).Msg("mock backend listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("mock backend stopped: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		log.Info().Msg("shutting down mock backend")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
