// Package log builds the configured slog.Logger for the wrapper.
//
// Without a log file, records below error level go to stdout and error
// records to stderr, so a session's error stream can be redirected on its
// own while normal logs stay visible.
package log

import (
	"context"
	"io"
	"log/slog"
	"os"
)

// LevelTrace sits below Debug; at this level the raw injection event
// stream is mirrored to stdout as well.
const LevelTrace slog.Level = -8

// ParseLevel maps the CLI level names onto slog levels. Unknown names
// fall back to info.
func ParseLevel(s string) slog.Level {
	switch s {
	case "trace":
		return LevelTrace
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// fanout forwards every record to all of its handlers.
type fanout []slog.Handler

func (f fanout) Enabled(ctx context.Context, level slog.Level) bool {
	for _, h := range f {
		if h.Enabled(ctx, level) {
			return true
		}
	}
	return false
}

func (f fanout) Handle(ctx context.Context, r slog.Record) error {
	for _, h := range f {
		_ = h.Handle(ctx, r)
	}
	return nil
}

func (f fanout) WithAttrs(attrs []slog.Attr) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithAttrs(attrs)
	}
	return out
}

func (f fanout) WithGroup(name string) slog.Handler {
	out := make(fanout, len(f))
	for i, h := range f {
		out[i] = h.WithGroup(name)
	}
	return out
}

// banded passes only records inside [min, max) to its handler.
type banded struct {
	min, max slog.Level
	h        slog.Handler
}

func (b banded) inBand(level slog.Level) bool {
	return level >= b.min && level < b.max
}

func (b banded) Enabled(ctx context.Context, level slog.Level) bool {
	return b.inBand(level) && b.h.Enabled(ctx, level)
}

func (b banded) Handle(ctx context.Context, r slog.Record) error {
	if !b.inBand(r.Level) {
		return nil
	}
	return b.h.Handle(ctx, r)
}

func (b banded) WithAttrs(attrs []slog.Attr) slog.Handler {
	return banded{min: b.min, max: b.max, h: b.h.WithAttrs(attrs)}
}

func (b banded) WithGroup(name string) slog.Handler {
	return banded{min: b.min, max: b.max, h: b.h.WithGroup(name)}
}

const levelCeiling = slog.Level(1 << 15)

// SetupLogger builds the logger from the CLI flags. The returned closers
// are the log files that must be closed at exit.
func SetupLogger(logLevel, logFile string) (*slog.Logger, []io.Closer, error) {
	level := ParseLevel(logLevel)

	var handlers fanout
	var closeFiles []io.Closer

	if logFile == "" {
		handlers = append(handlers,
			banded{
				min: level, max: slog.LevelError,
				h: slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: level}),
			},
			banded{
				min: slog.LevelError, max: levelCeiling,
				h: slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}),
			},
		)
	} else {
		handlers = append(handlers,
			slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))

		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
		if err != nil {
			return nil, nil, err
		}
		closeFiles = append(closeFiles, f)
		handlers = append(handlers,
			slog.NewTextHandler(f, &slog.HandlerOptions{Level: level}))
	}

	return slog.New(handlers), closeFiles, nil
}
