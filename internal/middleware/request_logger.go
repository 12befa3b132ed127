package middleware

import (
	"log/slog"
	"net"
	"net/http"
	"strings"
	"time"
)

// LogRequest logs every request once it has been served: 5xx at error level, 4xx at warn
// level and the rest at info level. Without an upstream InjectWriter it wraps the writer
// itself.
func LogRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writer, ok := w.(*SafeResponseWriter)
		if !ok {
			writer = NewSafeResponseWriter(r.Context(), w)
		}

		start := time.Now()
		next.ServeHTTP(writer, r)

		status := writer.Status()
		slog.Log(r.Context(), levelFor(status), "Request served.",
			"method", r.Method,
			"path", r.URL.Path,
			"ip", clientIP(r),
			"user_agent", r.UserAgent(),
			slog.Int("status", status),
			slog.Int("bytes", writer.BytesWritten()),
			"duration", time.Since(start),
		)
	})
}

func levelFor(status int) slog.Level {
	switch {
	case status >= http.StatusInternalServerError:
		return slog.LevelError
	case status >= http.StatusBadRequest:
		return slog.LevelWarn
	default:
		return slog.LevelInfo
	}
}

func clientIP(r *http.Request) string {
	if ip := r.Header.Get("X-Real-IP"); ip != "" {
		return ip
	}

	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		first, _, _ := strings.Cut(forwarded, ",")
		return strings.TrimSpace(first)
	}

	host, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return r.RemoteAddr
	}
	return host
}
