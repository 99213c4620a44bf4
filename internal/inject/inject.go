// Package inject provides the OS-facing input sinks: synthetic touch,
// mouse and keyboard injection. Platform backends live in build-tagged
// files; everything else talks to them through pad.Sink.
package inject

import (
	"fmt"
	"log/slog"

	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/pad"
	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/stick"
)

// Config selects and parameterizes the injection backend.
type Config struct {
	Backend string `help:"Injection backend" enum:"auto,windows,uinput,stub" default:"auto" env:"SENTAKKI_INJECT_BACKEND"`
	CenterX int    `help:"Output circle center X in pixels" default:"960" env:"SENTAKKI_INJECT_CENTER_X"`
	CenterY int    `help:"Output circle center Y in pixels" default:"540" env:"SENTAKKI_INJECT_CENTER_Y"`
	Radius  int    `help:"Output circle radius in pixels" default:"480" env:"SENTAKKI_INJECT_RADIUS"`

	// ErrorLogLimit caps how many injection failures are logged before
	// further ones are counted silently.
	ErrorLogLimit int `help:"Injection failures logged before suppression" default:"3"`
}

// New builds the sink for the configured backend. "auto" picks the native
// backend for the current platform; "stub" is a no-op sink useful for dry
// runs and telemetry-only sessions.
func New(cfg Config, logger *slog.Logger) (pad.Sink, error) {
	if cfg.Backend == "stub" {
		return stubSink{}, nil
	}
	return newPlatformSink(cfg, logger)
}

// point maps a normalized stick-space position onto the configured output
// circle. Stick Y grows upward, pixel Y grows downward.
func (c Config) point(pos stick.Vector) (x, y int) {
	return c.CenterX + int(pos.X*float64(c.Radius)),
		c.CenterY - int(pos.Y*float64(c.Radius))
}

// stubSink discards everything.
type stubSink struct{}

func (stubSink) TouchDown(int, stick.Vector) error    { return nil }
func (stubSink) TouchMove(int, stick.Vector) error    { return nil }
func (stubSink) TouchUp(int) error                    { return nil }
func (stubSink) TouchMoveMany([]pad.TouchPoint) error { return nil }
func (stubSink) MouseMove(stick.Vector) error         { return nil }
func (stubSink) MouseButton(bool) error               { return nil }
func (stubSink) KeyEvent(int, bool) error             { return nil }
func (stubSink) Close() error                         { return nil }

func unsupportedBackend(backend, goos string) error {
	return fmt.Errorf("injection backend %q is not available on %s", backend, goos)
}
