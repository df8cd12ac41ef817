package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/cli/config"
	httpctrl "github.com/dusolai/FILE-SEARCH-GOOLE/pkg/controller/http"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/service/worker"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/usecase"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var maxUploadBytes int64
	var syncInterval time.Duration
	var appCfg appConfig
	var slackCfg config.Slack

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("FILESEARCH_ADDR"),
			Destination: &addr,
		},
		&cli.Int64Flag{
			Name:        "max-upload-bytes",
			Usage:       "Maximum size of an uploaded document",
			Value:       httpctrl.DefaultMaxUploadBytes,
			Sources:     cli.EnvVars("FILESEARCH_MAX_UPLOAD_BYTES"),
			Destination: &maxUploadBytes,
		},
		&cli.DurationFlag{
			Name:        "catalog-sync-interval",
			Usage:       "Interval of reconciling the catalog with remote stores (0 disables)",
			Value:       10 * time.Minute,
			Sources:     cli.EnvVars("FILESEARCH_CATALOG_SYNC_INTERVAL"),
			Destination: &syncInterval,
		},
	}

	// Add shared config flags
	flags = append(flags, appCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)

	return &cli.Command{
		Name:  "serve",
		Usage: "Start HTTP server",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			slackSvc, err := slackCfg.Configure()
			if err != nil {
				return err
			}

			var ucOpts []usecase.Option
			if slackSvc != nil {
				ucOpts = append(ucOpts, usecase.WithSlackService(slackSvc))
				logging.Default().Info("Slack service enabled")
			}

			a, err := appCfg.build(ctx, ucOpts...)
			if err != nil {
				return err
			}
			defer a.Close()

			// Catalog sync only applies to remote stores
			var syncWorker *worker.CatalogSyncWorker
			if a.provider != nil && syncInterval > 0 {
				syncWorker = worker.NewCatalogSyncWorker(a.repo, a.provider, syncInterval,
					worker.WithLocker(a.uc.Locks()))
				if err := syncWorker.Start(ctx); err != nil {
					return goerr.Wrap(err, "failed to start catalog sync worker")
				}
			}

			httpOpts := []httpctrl.Options{
				httpctrl.WithMaxUploadBytes(maxUploadBytes),
			}
			if a.uc.Slack != nil {
				httpOpts = append(httpOpts, httpctrl.WithSlackWebhook(httpctrl.NewSlackWebhookHandler(a.uc.Slack), slackCfg.SigningSecret()))
				logging.Default().Info("Slack webhook handler enabled")
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(a.uc, httpOpts...),
				ReadHeaderTimeout: 30 * time.Second,
			}

			// Setup signal handling for graceful shutdown
			sigCh := make(chan os.Signal, 1)
			signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)

			errCh := make(chan error, 1)
			go func() {
				logging.Default().Info("Starting HTTP server", "addr", addr)
				if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					errCh <- goerr.Wrap(err, "failed to start server")
				}
			}()

			select {
			case err := <-errCh:
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig)

				if syncWorker != nil {
					syncWorker.Stop()
				}

				shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
				defer cancel()

				if err := server.Shutdown(shutdownCtx); err != nil {
					return goerr.Wrap(err, "failed to shutdown server gracefully")
				}

				logging.Default().Info("Server shutdown completed")
				return nil
			}
		},
	}
}
