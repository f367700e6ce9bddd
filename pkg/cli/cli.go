package cli

import (
	"context"
	"log/slog"

	"github.com/m-mizutani/ctxlog"
	"github.com/urfave/cli/v3"
	"github.com/ytclip/ytclip/pkg/cli/config"
	"github.com/ytclip/ytclip/pkg/domain/types"
)

// Run runs the CLI application
func Run(ctx context.Context, args []string) error {
	var (
		loggerCfg  config.Logger
		configPath string
		logger     *slog.Logger
	)
	file := &config.File{}

	flags := append(loggerCfg.Flags(), config.ConfigFileFlag(&configPath))

	app := &cli.Command{
		Name:    "ytclip",
		Usage:   "Download, trim and publish video clips",
		Version: types.Version,
		Flags:   flags,
		Before: func(ctx context.Context, c *cli.Command) (context.Context, error) {
			loaded, err := config.LoadFile(configPath)
			if err != nil {
				return nil, err
			}
			*file = *loaded
			file.ApplyLogger(c, &loggerCfg)

			logger, err = loggerCfg.Configure()
			if err != nil {
				return nil, err
			}

			slog.SetDefault(logger)
			ctx = ctxlog.With(ctx, logger)
			return ctx, nil
		},
		Commands: []*cli.Command{
			cmdServe(file),
			cmdClip(file),
		},
	}

	if err := app.Run(ctx, args); err != nil {
		if logger == nil {
			logger = slog.Default()
		}
		logger.Error("CLI execution failed", slog.Any("error", err))
		return err
	}

	return nil
}
