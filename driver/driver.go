// Package driver runs the fixed-rate polling loop: it samples the
// controller once per tick, derives geometry and button edges, feeds the
// active mode, and keeps the telemetry snapshot fresh. It also owns the
// two failure paths that matter: bounded reacquire on device loss and the
// release-everything pass on shutdown.
package driver

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/pad"
)

// DefaultInterval matches a 60 Hz display.
const DefaultInterval = 16 * time.Millisecond

// Config tunes the polling loop.
type Config struct {
	// Interval between ticks. Zero means DefaultInterval.
	Interval time.Duration
	// ReacquireEvery throttles reacquire attempts to one every N lost
	// ticks. Zero means every 8th tick (~128 ms at 60 Hz).
	ReacquireEvery int
}

// Driver is the per-mode polling loop. It is single-threaded: everything
// happens on the Run goroutine, one tick at a time, and the only blocking
// is the sleep between ticks.
type Driver struct {
	cfg    Config
	source pad.Source
	mode   pad.Mode
	name   string
	logger *slog.Logger

	// Publish, when set, receives every snapshot right after it is stored.
	Publish func(pad.Snapshot)

	prev     pad.State
	tick     uint64
	lost     int
	lostTold bool

	snapMu sync.RWMutex
	snap   pad.Snapshot
}

// New builds a driver for one mode instance.
func New(cfg Config, source pad.Source, modeName string, mode pad.Mode, logger *slog.Logger) *Driver {
	if cfg.Interval <= 0 {
		cfg.Interval = DefaultInterval
	}
	if cfg.ReacquireEvery <= 0 {
		cfg.ReacquireEvery = 8
	}
	return &Driver{
		cfg:    cfg,
		source: source,
		mode:   mode,
		name:   modeName,
		logger: logger,
	}
}

// Run polls until the context is cancelled, then releases every synthetic
// input the mode still holds. The release pass always runs, even when the
// controller is gone; it is the one teardown ordering that must not be
// skipped, or the OS keeps believing input is pressed forever.
func (d *Driver) Run(ctx context.Context) error {
	defer d.mode.ReleaseAll()

	ticker := time.NewTicker(d.cfg.Interval)
	defer ticker.Stop()

	d.logger.Info("polling started", "mode", d.name, "interval", d.cfg.Interval)
	for {
		select {
		case <-ctx.Done():
			d.logger.Info("polling stopped", "mode", d.name)
			return nil
		case <-ticker.C:
			d.Tick()
		}
	}
}

// Tick runs one poll/derive/dispatch cycle. Exposed so tests can step the
// loop without real time.
func (d *Driver) Tick() {
	st, err := d.source.Poll()
	if err != nil {
		// Transport loss never reaches the state machines as an error; the
		// tick reads as "no input" so active slots drain to a clean release
		// instead of dangling.
		st = pad.State{}
		d.lost++
		if !d.lostTold {
			d.logger.Warn("controller unreachable, treating input as released", "error", err)
			d.lostTold = true
		}
		if d.lost%d.cfg.ReacquireEvery == 1 {
			if rerr := d.source.Reacquire(); rerr != nil {
				d.logger.Debug("reacquire failed", "error", rerr)
			}
		}
	} else if d.lost > 0 {
		d.logger.Info("controller reacquired", "lostTicks", d.lost)
		d.lost = 0
		d.lostTold = false
	}

	f := pad.FrameBetween(st, d.prev)
	d.mode.Update(f)
	d.prev = f.State

	d.tick++
	snap := pad.Snapshot{Mode: d.name, Tick: d.tick}
	snap.ObserveFrame(f)
	d.mode.Telemetry(&snap)

	d.snapMu.Lock()
	d.snap = snap
	d.snapMu.Unlock()

	if d.Publish != nil {
		d.Publish(snap)
	}
}

// Snapshot returns the most recent telemetry snapshot. Safe to call from
// other goroutines (the overlay consumer polls it).
func (d *Driver) Snapshot() pad.Snapshot {
	d.snapMu.RLock()
	defer d.snapMu.RUnlock()
	return d.snap
}
