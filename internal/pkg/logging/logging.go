package logging

import (
	"io"
	"log/slog"
	"strings"
)

// SetupLogger installs the default logger: JSON in production, text elsewhere. At debug level
// records carry their source location.
func SetupLogger(appEnv, logLevel string, out io.Writer) {
	level := ParseLevel(logLevel)
	opts := &slog.HandlerOptions{
		Level:     level,
		AddSource: level <= slog.LevelDebug,
	}

	var handler slog.Handler
	if appEnv == "production" {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}

	slog.SetDefault(slog.New(handler))
}

// ParseLevel accepts the slog level names in any case, plus "warning". Anything else is info.
func ParseLevel(s string) slog.Level {
	if strings.EqualFold(s, "warning") {
		return slog.LevelWarn
	}

	var level slog.Level
	if err := level.UnmarshalText([]byte(s)); err != nil {
		return slog.LevelInfo
	}
	return level
}
