package pad

import (
	"fmt"
	"log/slog"
	"sort"
	"sync"
)

// Mode is one of the input state machines (touch, mouse, keyboard).
// Exactly one mode is active at a time; switching modes is a full
// reconstruction through the registry, never a mutation.
type Mode interface {
	// Update consumes one tick's frame and drives the sink. Injection
	// failures are handled inside the sink layer; Update itself never
	// aborts the loop.
	Update(f Frame)

	// ReleaseAll force-releases every synthetic input the mode currently
	// holds: active touches, held keys, a pressed mouse button. The driver
	// calls it on shutdown, restart and terminal device loss. It must be
	// safe to call when nothing is held.
	ReleaseAll()

	// Telemetry fills the mode-owned parts of the per-tick snapshot.
	Telemetry(snap *Snapshot)
}

// Factory constructs a fresh mode instance bound to a sink.
type Factory func(sink Sink, logger *slog.Logger) Mode

var (
	registryMu sync.RWMutex
	registry   = map[string]Factory{}
)

// RegisterMode registers a mode factory under a name. Mode packages call
// this from init; registering the same name twice is a programming error.
func RegisterMode(name string, f Factory) {
	registryMu.Lock()
	defer registryMu.Unlock()
	if _, dup := registry[name]; dup {
		panic("pad: duplicate mode registration: " + name)
	}
	registry[name] = f
}

// NewMode builds a fresh instance of the named mode.
func NewMode(name string, sink Sink, logger *slog.Logger) (Mode, error) {
	registryMu.RLock()
	f, ok := registry[name]
	registryMu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("unknown input mode %q (have %v)", name, ModeNames())
	}
	return f(sink, logger.With("mode", name)), nil
}

// ModeNames lists the registered mode names, sorted.
func ModeNames() []string {
	registryMu.RLock()
	defer registryMu.RUnlock()
	names := make([]string, 0, len(registry))
	for n := range registry {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}
