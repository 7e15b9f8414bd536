package safe

import (
	"context"
	"io"
	"log/slog"

	"github.com/secmon-lab/cisboard/pkg/utils/logging"
)

// Close closes c and logs a failure. A nil closer is ignored.
func Close(ctx context.Context, c io.Closer) {
	if c == nil {
		return
	}
	if err := c.Close(); err != nil {
		logging.From(ctx).Warn("close failed", slog.Any("error", err))
	}
}

// Write writes a fully rendered body to w. Headers are already sent at this
// point, so a failed write (usually a client disconnect) can only be logged.
func Write(ctx context.Context, w io.Writer, body []byte) {
	if w == nil {
		return
	}
	n, err := w.Write(body)
	if err != nil {
		logging.From(ctx).Warn("response write failed",
			slog.Int("written", n),
			slog.Int("size", len(body)),
			slog.Any("error", err),
		)
	}
}
