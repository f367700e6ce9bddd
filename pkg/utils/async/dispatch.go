package async

import (
	"context"
	"log/slog"
	"runtime/debug"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
)

// Dispatch runs a background task named task in its own goroutine. The task
// gets a context detached from ctx cancellation that keeps the logger and the
// Sentry hub. Panics and returned errors are logged, never propagated.
func Dispatch(ctx context.Context, task string, handler func(ctx context.Context) error) {
	newCtx := detach(ctx, task)

	go func() {
		logger := ctxlog.From(newCtx)
		defer func() {
			if r := recover(); r != nil {
				logger.Error("panic in background task",
					slog.Any("recover", r),
					slog.String("stack", string(debug.Stack())))
				if hub := sentry.GetHubFromContext(newCtx); hub != nil {
					hub.Recover(r)
				}
			}
		}()

		logger.Debug("background task started")
		if err := handler(newCtx); err != nil {
			logger.Error("background task failed", slog.Any("error", err))
			return
		}
		logger.Debug("background task finished")
	}()
}

func detach(ctx context.Context, task string) context.Context {
	newCtx := ctxlog.With(context.Background(), ctxlog.From(ctx).With(slog.String("task", task)))
	if hub := sentry.GetHubFromContext(ctx); hub != nil {
		newCtx = sentry.SetHubOnContext(newCtx, hub.Clone())
	}
	return newCtx
}
