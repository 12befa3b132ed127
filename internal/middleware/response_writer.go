package middleware

import (
	"context"
	"log/slog"
	"net/http"
	"sync"
	"sync/atomic"
)

// SafeResponseWriter remembers the status and body size of a response for LogRequest. Once
// the request context is done it discards the response instead of writing to a client that
// has gone away.
//
//nolint:containedctx // the writer must observe the request context on every write
type SafeResponseWriter struct {
	http.ResponseWriter
	ctx context.Context

	once   sync.Once
	status atomic.Int32
	bytes  atomic.Int64
}

func NewSafeResponseWriter(ctx context.Context, w http.ResponseWriter) *SafeResponseWriter {
	return &SafeResponseWriter{ResponseWriter: w, ctx: ctx}
}

func (w *SafeResponseWriter) WriteHeader(statusCode int) {
	if w.aborted() {
		return
	}

	w.once.Do(func() {
		w.status.Store(int32(statusCode))
		w.ResponseWriter.WriteHeader(statusCode)
	})
}

func (w *SafeResponseWriter) Write(b []byte) (int, error) {
	if w.aborted() {
		return 0, nil
	}

	w.WriteHeader(http.StatusOK)
	n, err := w.ResponseWriter.Write(b)
	w.bytes.Add(int64(n))
	return n, err
}

// Status is the status sent to the client, or 200 when nothing was sent yet.
func (w *SafeResponseWriter) Status() int {
	if s := w.status.Load(); s != 0 {
		return int(s)
	}
	return http.StatusOK
}

func (w *SafeResponseWriter) BytesWritten() int {
	return int(w.bytes.Load())
}

func (w *SafeResponseWriter) aborted() bool {
	if err := w.ctx.Err(); err != nil {
		slog.Warn("Response dropped.", "reason", err)
		return true
	}
	return false
}
