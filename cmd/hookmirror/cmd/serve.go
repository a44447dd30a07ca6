package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/the-maldridge/hookmirror/pkg/http"
	"github.com/the-maldridge/hookmirror/pkg/webhook"
)

var shutdownGrace time.Duration

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Accept webhooks and keep mirrors in sync",
	Long: `Serves the webhook endpoint at /api/hook and sync status at /api/status
until interrupted.  In-flight syncs are given a grace period to finish on
shutdown.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		appLogger := newLogger()
		appLogger.Info("hookmirror is initializing")

		cfg, err := loadConfig()
		if err != nil {
			appLogger.Error("Invalid configuration", "error", err)
			return err
		}

		store, err := openStorage(appLogger, cfg)
		if err != nil {
			appLogger.Error("Couldn't initialize storage", "error", err)
			return err
		}
		defer store.Close()

		rep, err := newReporter(appLogger, store)
		if err != nil {
			appLogger.Error("Couldn't restore outcomes", "error", err)
			return err
		}

		eng, err := newEngine(appLogger, cfg, rep)
		if err != nil {
			appLogger.Error("Couldn't initialize sync engine", "error", err)
			return err
		}

		srv := http.New(appLogger)
		srv.Mount("/api", webhook.New(appLogger, eng, rep, cfg.WebhookSecret).HTTPEntry())

		errs := make(chan error, 1)
		go func() { errs <- srv.Serve(cfg.Bind) }()

		stop := make(chan os.Signal, 2)
		signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
		defer signal.Stop(stop)

		select {
		case err := <-errs:
			if err != nil {
				appLogger.Error("HTTP server failed", "error", err)
			}
			return err
		case <-stop:
		}

		appLogger.Info("Shutting down")
		ctx, cancel := context.WithTimeout(context.Background(), shutdownGrace)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			appLogger.Warn("Syncs still running at shutdown", "error", err)
		}
		appLogger.Info("Goodbye!")
		return nil
	},
}

func init() {
	serveCmd.Flags().DurationVar(&shutdownGrace, "shutdown-grace", 30*time.Second, "time to let running syncs finish on shutdown")
	rootCmd.AddCommand(serveCmd)
}
