package cli

import (
	"context"
	"errors"
	"io/fs"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/cli/config"
	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/utils/logging"
	"github.com/joho/godotenv"
	"github.com/urfave/cli/v3"
)

func Run(ctx context.Context, args []string, version string) error {
	// Values from .env never override the real environment
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		logging.Default().Warn("failed to load .env", "error", err)
	}

	var loggerCfg config.Logger
	var sentryCfg config.Sentry
	var closers []func()

	flags := loggerCfg.Flags()
	flags = append(flags, sentryCfg.Flags()...)

	app := &cli.Command{
		Name:    "filesearch",
		Usage:   "Build and query document knowledge stores",
		Version: version,
		Flags:   flags,

		// Errors are returned to main instead of exiting inside the command
		ExitErrHandler: func(ctx context.Context, c *cli.Command, err error) {},

		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			f, err := loggerCfg.Configure()
			if err != nil {
				return ctx, err
			}
			closers = append(closers, f)

			flush, err := sentryCfg.Configure(version)
			if err != nil {
				return ctx, err
			}
			closers = append(closers, flush)

			logging.Default().Debug("Starting filesearch", "logger", loggerCfg, "sentry", sentryCfg)
			return logging.With(ctx, logging.Default()), nil
		},
		After: func(ctx context.Context, c *cli.Command) error {
			for i := len(closers) - 1; i >= 0; i-- {
				closers[i]()
			}
			return nil
		},
		Commands: []*cli.Command{
			cmdServe(),
			cmdCreateStore(),
			cmdStores(),
			cmdIngest(),
			cmdAsk(),
			cmdSuggest(),
			cmdFiles(),
			cmdLogin(),
			cmdMigrate(),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		logging.Default().Error("failed to run app", "error", err)
		return err
	}

	return nil
}
