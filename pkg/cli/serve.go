package cli

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/m-mizutani/ctxlog"
	"github.com/m-mizutani/goerr/v2"
	"github.com/urfave/cli/v3"
	"github.com/ytclip/ytclip/pkg/cli/config"
	controller "github.com/ytclip/ytclip/pkg/controller/http"
	"github.com/ytclip/ytclip/pkg/domain/model"
	"github.com/ytclip/ytclip/pkg/usecase"
	"github.com/ytclip/ytclip/pkg/utils/async"
)

func cmdServe(file *config.File) *cli.Command {
	var (
		serverCfg   config.Server
		pipelineCfg config.Pipeline
		storageCfg  config.Storage
		sentryCfg   config.Sentry
	)

	flags := append(serverCfg.Flags(), pipelineCfg.Flags()...)
	flags = append(flags, storageCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:    "serve",
		Aliases: []string{"s"},
		Usage:   "Start HTTP server",
		Flags:   flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			file.ApplyServer(c, &serverCfg)
			file.ApplyPipeline(c, &pipelineCfg)
			file.ApplyStorage(c, &storageCfg)
			file.ApplySentry(c, &sentryCfg)

			logger := ctxlog.From(ctx)

			logger.Info("Starting ytclip server",
				slog.String("addr", serverCfg.Addr),
				slog.String("bucket", pipelineCfg.Bucket),
				slog.String("scratch_dir", pipelineCfg.ScratchDir),
			)

			flush, err := sentryCfg.Configure()
			if err != nil {
				return err
			}
			defer flush()

			fetcher, extractor, trimmer, err := pipelineCfg.Components(ctx)
			if err != nil {
				return err
			}
			if err := trimmer.VerifyInstalled(ctx); err != nil {
				logger.Warn("ffmpeg is not available, clip requests with a time range will fail", slog.Any("error", err))
			}

			storage, err := storageCfg.Configure(ctx)
			if err != nil {
				return err
			}

			clipUC := usecase.NewClip(pipelineCfg.Config(), fetcher, extractor, trimmer, storage)

			async.Dispatch(ctx, "scratch-sweep", func(ctx context.Context) error {
				return usecase.SweepScratch(ctx, pipelineCfg.ScratchDir, model.ScratchMaxAge)
			})

			server, err := controller.NewServer(
				ctx,
				clipUC,
				controller.WithAddr(serverCfg.Addr),
				controller.WithHealthCheck("ffmpeg", trimmer.VerifyInstalled),
				controller.WithHealthCheck("scratch_dir", func(ctx context.Context) error {
					return usecase.CheckScratch(pipelineCfg.ScratchDir)
				}),
			)
			if err != nil {
				return goerr.Wrap(err, "failed to create HTTP server")
			}

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			defer signal.Stop(sigChan)

			select {
			case err := <-serveAsync(ctx, server.Server):
				return goerr.Wrap(err, "HTTP server stopped", goerr.V("addr", serverCfg.Addr))
			case <-ctx.Done():
				logger.Info("Context cancelled, shutting down...")
			case sig := <-sigChan:
				logger.Info("Signal received, shutting down...", slog.Any("signal", sig))
			}

			// in-flight clips can take a while; give them time to finish and clean up
			shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 60*time.Second)
			defer cancel()

			if err := server.Shutdown(shutdownCtx); err != nil {
				return goerr.Wrap(err, "failed to shutdown server gracefully")
			}

			logger.Info("Server shutdown complete")
			return nil
		},
	}
}

// serveAsync starts srv and reports a listen or serve failure on the returned
// channel. A regular shutdown sends nothing.
func serveAsync(ctx context.Context, srv *http.Server) <-chan error {
	errCh := make(chan error, 1)
	go func() {
		ctxlog.From(ctx).Info("HTTP server starting", slog.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()
	return errCh
}
