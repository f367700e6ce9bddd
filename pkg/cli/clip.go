package cli

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/urfave/cli/v3"
	"github.com/ytclip/ytclip/pkg/cli/config"
	"github.com/ytclip/ytclip/pkg/domain/model"
	"github.com/ytclip/ytclip/pkg/usecase"
	"github.com/ytclip/ytclip/pkg/utils/errutil"
)

func cmdClip(file *config.File) *cli.Command {
	var (
		pipelineCfg config.Pipeline
		storageCfg  config.Storage
		sentryCfg   config.Sentry
		req         model.DownloadRequest
	)

	flags := []cli.Flag{
		&cli.StringFlag{
			Name:        "video-url",
			Aliases:     []string{"u"},
			Usage:       "Video URL",
			Required:    true,
			Destination: &req.VideoURL,
		},
		&cli.StringFlag{
			Name:        "cookie-file",
			Usage:       "URL of the cookie file presented to the video host",
			Required:    true,
			Destination: &req.CookieFileURL,
			Sources:     cli.EnvVars("YTCLIP_COOKIE_FILE"),
		},
		&cli.StringFlag{
			Name:        "start-time",
			Usage:       "Clip start (mm:ss or seconds)",
			Value:       model.DefaultStartTime,
			Destination: &req.StartTime,
		},
		&cli.StringFlag{
			Name:        "end-time",
			Usage:       "Clip end (mm:ss or seconds); omit to keep the rest of the video",
			Destination: &req.EndTime,
		},
	}
	flags = append(flags, pipelineCfg.Flags()...)
	flags = append(flags, storageCfg.Flags()...)
	flags = append(flags, sentryCfg.Flags()...)

	return &cli.Command{
		Name:  "clip",
		Usage: "Process a single clip and print where it was uploaded",
		Flags: flags,
		Action: func(ctx context.Context, c *cli.Command) error {
			file.ApplyPipeline(c, &pipelineCfg)
			file.ApplyStorage(c, &storageCfg)
			file.ApplySentry(c, &sentryCfg)

			flush, err := sentryCfg.Configure()
			if err != nil {
				return err
			}
			defer flush()

			fetcher, extractor, trimmer, err := pipelineCfg.Components(ctx)
			if err != nil {
				return err
			}
			storage, err := storageCfg.Configure(ctx)
			if err != nil {
				return err
			}

			uc := usecase.NewClip(pipelineCfg.Config(), fetcher, extractor, trimmer, storage)
			result, err := uc.ProcessClip(ctx, &req)
			if err != nil {
				errutil.Handle(ctx, "Failed to process clip", err)
				return err
			}

			printResult(os.Stdout, result)
			return nil
		},
	}
}

func printResult(w io.Writer, result *model.UploadResult) {
	label := color.New(color.FgCyan, color.Bold)
	_, _ = label.Fprint(w, "file_name:  ")
	_, _ = fmt.Fprintln(w, result.FileName)
	_, _ = label.Fprint(w, "public_url: ")
	_, _ = color.New(color.FgGreen).Fprintln(w, result.PublicURL)
}
