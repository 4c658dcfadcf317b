package cli

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do/v2"
	"github.com/spf13/cobra"

	adapthttp "github.com/jsamuelsen11/readycheck/internal/adapters/http"
)

const serverShutdownTimeout = 15 * time.Second

// newServeCommand exposes readiness over HTTP instead of exiting: every
// GET /health/ready triggers a fresh evaluation, so orchestrators can poll
// the same checks the one-shot run performs.
func newServeCommand() *cobra.Command {
	var configPath string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve readiness over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context(), configPath)
		},
	}
	cmd.Flags().StringVarP(&configPath, "config", "c", defaultConfigPath, "path to the YAML config file")
	return cmd
}

func runServe(ctx context.Context, configPath string) error {
	rt, err := bootstrap(ctx, configPath, nil)
	if err != nil {
		return err
	}
	defer rt.Close()

	server, err := do.Invoke[*adapthttp.Server](rt.injector)
	if err != nil {
		return fmt.Errorf("resolving server: %w", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		serverErr <- server.Start()
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-quit:
		rt.logger.Info("received shutdown signal", slog.String("signal", sig.String()))
	case <-ctx.Done():
		rt.logger.Info("context canceled")
	case err := <-serverErr:
		return fmt.Errorf("server failed: %w", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), serverShutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		rt.logger.Error("server shutdown error", slog.Any("error", err))
	}

	// Wait for Start() goroutine to return.
	<-serverErr

	rt.logger.Info("shutdown complete")
	return nil
}
