//go:build !windows && !linux

package source

import (
	"log/slog"
	"runtime"

	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/pad"
)

func newPlatformSource(cfg Config, _ *slog.Logger) (pad.Source, error) {
	return nil, unsupportedBackend(cfg.Backend, runtime.GOOS)
}
