package errutil

import (
	"context"
	"log/slog"

	"github.com/getsentry/sentry-go"
	"github.com/m-mizutani/ctxlog"
	"github.com/ytclip/ytclip/pkg/domain/types"
)

// Handle is the single sink for errors that end a request. It logs err with its
// kind and goerr details, and reports it to Sentry when a client is configured.
func Handle(ctx context.Context, msg string, err error) {
	if err == nil {
		return
	}

	kind := types.KindOf(err)
	ctxlog.From(ctx).Error(msg,
		slog.String("kind", kind),
		slog.Any("error", err),
	)

	hub := sentry.GetHubFromContext(ctx)
	if hub == nil {
		hub = sentry.CurrentHub()
	}
	if hub.Client() == nil {
		return
	}

	hub.WithScope(func(scope *sentry.Scope) {
		scope.SetTag("kind", kind)
		scope.SetContext("clip", sentry.Context{"message": msg})
		hub.CaptureException(err)
	})
}
