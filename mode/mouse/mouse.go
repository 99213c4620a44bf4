// Package mouse implements the cursor-follow mode: either primary button
// makes the cursor track its stick with the left mouse button held; with
// both primaries down the cursor alternates between the two sticks once
// per tick instead of blending them.
package mouse

import (
	"log/slog"

	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/pad"
	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/stick"
)

func init() {
	pad.RegisterMode("mouse", New)
}

// Machine is the mouse state machine.
type Machine struct {
	sink   pad.Sink
	logger *slog.Logger

	buttonDown bool
	leftHeld   bool
	rightHeld  bool
	// alternate flips every tick while both primaries are held, picking
	// which stick drives the cursor that tick.
	alternate bool
}

// New constructs a fresh mouse mode bound to a sink.
func New(sink pad.Sink, logger *slog.Logger) pad.Mode {
	return &Machine{sink: sink, logger: logger}
}

// Update advances the machine one tick.
func (m *Machine) Update(f pad.Frame) {
	m.leftHeld = f.State.PrimaryLeft
	m.rightHeld = f.State.PrimaryRight

	any := f.State.PrimaryLeft || f.State.PrimaryRight
	prevAny := f.Prev.PrimaryLeft || f.Prev.PrimaryRight

	// One shared left button: down on the first primary pressed, up only
	// when all primaries are released.
	if any && !prevAny {
		_ = m.sink.MouseButton(true)
		m.buttonDown = true
		m.logger.Debug("mouse button down")
	}
	if !any && prevAny {
		_ = m.sink.MouseButton(false)
		m.buttonDown = false
		_ = m.sink.MouseMove(stick.Vector{})
		m.logger.Debug("mouse button up, cursor recentered")
	}

	switch {
	case f.State.PrimaryLeft && f.State.PrimaryRight:
		m.alternate = !m.alternate
		if m.alternate {
			_ = m.sink.MouseMove(f.State.Left)
		} else {
			_ = m.sink.MouseMove(f.State.Right)
		}
	case f.State.PrimaryLeft:
		_ = m.sink.MouseMove(f.State.Left)
	case f.State.PrimaryRight:
		_ = m.sink.MouseMove(f.State.Right)
	}
}

// ReleaseAll lifts the mouse button if it is held.
func (m *Machine) ReleaseAll() {
	m.leftHeld = false
	m.rightHeld = false
	if !m.buttonDown {
		return
	}
	_ = m.sink.MouseButton(false)
	m.buttonDown = false
}

// Telemetry marks each stick active while its own primary is held.
func (m *Machine) Telemetry(snap *pad.Snapshot) {
	snap.Left.Active = m.leftHeld
	snap.Right.Active = m.rightHeld
}
