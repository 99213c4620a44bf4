//go:build linux

package source

import (
	"log/slog"

	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/pad"
)

func newPlatformSource(cfg Config, logger *slog.Logger) (pad.Source, error) {
	switch cfg.Backend {
	case "evdev":
		return newEvdevSource(cfg, logger)
	case "js":
		return newJsSource(cfg, logger)
	case "auto":
		src, err := newEvdevSource(cfg, logger)
		if err == nil {
			return src, nil
		}
		logger.Warn("evdev backend unavailable, falling back to js", "error", err)
		return newJsSource(cfg, logger)
	default:
		return nil, unsupportedBackend(cfg.Backend, "linux")
	}
}
