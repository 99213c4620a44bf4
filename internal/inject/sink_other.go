//go:build !windows && !linux

package inject

import (
	"log/slog"
	"runtime"

	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/pad"
)

func newPlatformSink(cfg Config, _ *slog.Logger) (pad.Sink, error) {
	return nil, unsupportedBackend(cfg.Backend, runtime.GOOS)
}
