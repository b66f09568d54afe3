package observability

import (
	"context"
	"io"
	"log/slog"
	"strings"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"

	"github.com/couchcryptid/launch-data-etl/internal/config"
)

// NewLogger builds the process logger from LOG_LEVEL and LOG_FORMAT using the
// shared constructor, then points it at w. The shared handler writes to stdout,
// which the CLI keeps for rendered tables.
func NewLogger(cfg *config.Config, w io.Writer) *slog.Logger {
	shared := sharedobs.NewLogger(cfg.LogLevel, cfg.LogFormat)
	logger := slog.New(retarget(shared, w, cfg.LogFormat))
	slog.SetDefault(logger)
	return logger
}

// retarget rebuilds the handler of l on w, keeping the level l was built with.
func retarget(l *slog.Logger, w io.Writer, format string) slog.Handler {
	opts := &slog.HandlerOptions{Level: minLevel(l)}
	if strings.EqualFold(format, "text") {
		return slog.NewTextHandler(w, opts)
	}
	return slog.NewJSONHandler(w, opts)
}

func minLevel(l *slog.Logger) slog.Level {
	ctx := context.Background()
	for _, lvl := range []slog.Level{slog.LevelDebug, slog.LevelInfo, slog.LevelWarn} {
		if l.Enabled(ctx, lvl) {
			return lvl
		}
	}
	return slog.LevelError
}
