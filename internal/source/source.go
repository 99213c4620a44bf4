// Package source provides the controller transports. Platform backends
// live in build-tagged files; the driver talks to them through pad.Source.
package source

import (
	"fmt"
	"log/slog"

	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/pad"
)

// Config selects and parameterizes the controller backend.
type Config struct {
	Backend string `help:"Controller backend" enum:"auto,xinput,evdev,js,stub" default:"auto" env:"SENTAKKI_BACKEND"`
	Pad     int    `help:"Controller index for backends that enumerate" default:"0" env:"SENTAKKI_PAD"`
	Device  string `help:"Explicit event device path (evdev backend)" env:"SENTAKKI_DEVICE"`

	// TriggerThreshold is the analog trigger level (0-255) above which the
	// lock trigger reads as held.
	TriggerThreshold int `help:"Analog trigger threshold for the lock buttons" default:"128"`
}

// New builds the source for the configured backend. "auto" picks the
// native backend for the current platform; "stub" reads as a centered,
// released controller forever.
func New(cfg Config, logger *slog.Logger) (pad.Source, error) {
	if cfg.TriggerThreshold < 0 || cfg.TriggerThreshold > 255 {
		return nil, fmt.Errorf("trigger threshold %d out of range 0-255", cfg.TriggerThreshold)
	}
	if cfg.Backend == "stub" {
		return stubSource{}, nil
	}
	return newPlatformSource(cfg, logger)
}

type stubSource struct{}

func (stubSource) Poll() (pad.State, error) { return pad.State{}, nil }
func (stubSource) Reacquire() error         { return nil }
func (stubSource) Close() error             { return nil }

func unsupportedBackend(backend, goos string) error {
	return fmt.Errorf("controller backend %q is not available on %s", backend, goos)
}
