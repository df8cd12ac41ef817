package safe

import (
	"context"
	"io"
	"log/slog"

	"github.com/dusolai/FILE-SEARCH-GOOLE/pkg/utils/logging"
	"github.com/m-mizutani/goerr/v2"
)

// ErrTooLarge is returned by ReadAll when the reader exceeds the given limit
var ErrTooLarge = goerr.New("content exceeds size limit")

// Close closes closer and logs the error. nil closers are ignored.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Error("Failed to close", slog.Any("error", err))
	}
}

// Write writes data to w and logs the error
func Write(ctx context.Context, w io.Writer, data []byte) {
	if w == nil {
		return
	}
	if _, err := w.Write(data); err != nil {
		logging.From(ctx).Error("Failed to write", slog.Any("error", err))
	}
}

// ReadAll reads r up to limit bytes. A reader longer than limit yields ErrTooLarge.
func ReadAll(r io.Reader, limit int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, limit+1))
	if err != nil {
		return nil, goerr.Wrap(err, "failed to read content")
	}
	if int64(len(data)) > limit {
		return nil, goerr.Wrap(ErrTooLarge, "content too large", goerr.V("limit", limit))
	}
	return data, nil
}
