package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/imkarma/pland/internal/logging"
	"github.com/imkarma/pland/internal/server"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the plan HTTP service",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	st, cfg, err := mustStore()
	if err != nil {
		return err
	}
	defer st.Close()

	logger := logging.New(os.Stderr, logging.ParseLevel(cfg.LogLevel))
	srv := server.New(cfg, st, server.WithLogger(logger))

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := srv.Start(ctx); err != nil {
		return err
	}

	<-ctx.Done()
	logger.Info("shutting down")
	return srv.Shutdown(nil)
}
