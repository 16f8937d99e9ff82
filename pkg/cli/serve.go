package cli

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/fieldline-hq/fieldline/pkg/cli/config"
	httpctrl "github.com/fieldline-hq/fieldline/pkg/controller/http"
	"github.com/fieldline-hq/fieldline/pkg/service/entity"
	"github.com/fieldline-hq/fieldline/pkg/service/options"
	"github.com/fieldline-hq/fieldline/pkg/service/worker"
	"github.com/fieldline-hq/fieldline/pkg/usecase"
	"github.com/fieldline-hq/fieldline/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
)

func cmdServe() *cli.Command {
	var addr string
	var repoCfg config.Repository
	var slackCfg config.Slack
	var notionCfg config.Notion
	var storageCfg config.Storage
	var linksCfg config.Links
	var formsCfg config.Forms

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "addr",
			Usage:       "HTTP server address",
			Value:       ":8080",
			Sources:     cli.EnvVars("FIELDLINE_ADDR"),
			Destination: &addr,
		},
	}
	flags = append(flags, repoCfg.Flags()...)
	flags = append(flags, slackCfg.Flags()...)
	flags = append(flags, notionCfg.Flags()...)
	flags = append(flags, storageCfg.Flags()...)
	flags = append(flags, linksCfg.Flags()...)
	flags = append(flags, formsCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			repo, err := repoCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to initialize repository")
			}
			defer func() {
				if err := repo.Close(); err != nil {
					logging.Default().Error("failed to close repository", "error", err.Error())
				}
			}()

			// Dynamic option sources: entity repository resolves everything
			// not claimed by a registered source
			sourceMux := options.NewSourceMux(entity.New(repo.Entity()))
			notionSrc, err := notionCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure Notion option source")
			}
			if notionSrc != nil {
				sourceMux.Register(notionSrc.Handles, notionSrc)
			}

			ucOpts := []usecase.Option{
				usecase.WithOptionSource(sourceMux),
			}

			notifier, err := slackCfg.Configure()
			if err != nil {
				return goerr.Wrap(err, "failed to configure Slack notifier")
			}
			if notifier != nil {
				ucOpts = append(ucOpts, usecase.WithNotifier(notifier))
			}

			sigStore, err := storageCfg.Configure(ctx)
			if err != nil {
				return goerr.Wrap(err, "failed to configure signature storage")
			}
			if sigStore != nil {
				ucOpts = append(ucOpts, usecase.WithSignatureStore(sigStore))
			}

			if secret := linksCfg.Secret(); secret != nil {
				ucOpts = append(ucOpts, usecase.WithLinkSigning(secret, linksCfg.TTL()))
				logging.Default().Info("Public link signing enabled", "ttl", linksCfg.TTL().String())
			}

			uc := usecase.New(repo, ucOpts...)

			// Seed form definitions from files (development/demo setups)
			seedForms, err := formsCfg.Load()
			if err != nil {
				return goerr.Wrap(err, "failed to load form definition files")
			}
			for _, form := range seedForms {
				if _, err := uc.Form.CreateForm(ctx, form); err != nil {
					return goerr.Wrap(err, "failed to seed form definition", goerr.V("form_id", form.ID))
				}
			}
			if len(seedForms) > 0 {
				logging.Default().Info("Seeded form definitions", "count", len(seedForms))
			}

			sweeper := worker.NewSessionSweeper(uc.Options, 5*time.Minute)
			if err := sweeper.Start(ctx); err != nil {
				return goerr.Wrap(err, "failed to start session sweeper")
			}

			server := &http.Server{
				Addr:              addr,
				Handler:           httpctrl.New(uc),
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
				sweeper.Stop()
				return err
			case sig := <-sigCh:
				logging.Default().Info("Received shutdown signal", "signal", sig.String())
			}

			sweeper.Stop()

			shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
			defer cancel()
			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server")
			}

			logging.Default().Info("Server stopped")
			return nil
		},
	}
}
