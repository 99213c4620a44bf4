// Package keyboard implements the digit-key mode: while a stick's primary
// button is held and the stick points into a sector, the digit key
// sector+1 (1-8) is held down. The two sticks contend for keys with a
// first-writer-wins rule: a stick whose desired digit is already held by
// the other stick emits nothing and drops its own key until the conflict
// resolves.
package keyboard

import (
	"log/slog"

	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/pad"
	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/stick"
)

func init() {
	pad.RegisterMode("keyboard", New)
}

// noKey marks a stick that currently holds no digit.
const noKey = 0

// Machine is the keyboard state machine.
type Machine struct {
	sink   pad.Sink
	logger *slog.Logger

	leftKey  int
	rightKey int
}

// New constructs a fresh keyboard mode bound to a sink.
func New(sink pad.Sink, logger *slog.Logger) pad.Mode {
	return &Machine{sink: sink, logger: logger}
}

// Update advances the machine one tick. The left stick is always
// evaluated first, which is what makes the conflict rule asymmetric: on a
// same-tick collision the left stick claims the digit.
func (m *Machine) Update(f pad.Frame) {
	m.leftKey = m.updateStick(m.leftKey, m.rightKey,
		f.State.PrimaryLeft, f.LeftSector)
	m.rightKey = m.updateStick(m.rightKey, m.leftKey,
		f.State.PrimaryRight, f.RightSector)
}

// updateStick resolves one stick's desired key against the other stick's
// held key and returns the key this stick holds afterwards.
func (m *Machine) updateStick(held, otherHeld int, primary bool, sector stick.Sector) int {
	if !primary || !sector.Valid() {
		// Button released or stick centered: let go of whatever we hold.
		return m.releaseKey(held)
	}

	desired := int(sector) + 1

	if desired == otherHeld && otherHeld != noKey {
		// The other stick owns this digit; we are locked out of it until
		// either side moves away or releases.
		return m.releaseKey(held)
	}

	if held != desired {
		held = m.releaseKey(held)
		_ = m.sink.KeyEvent(desired, true)
		m.logger.Debug("key down", "key", desired)
		held = desired
	}
	return held
}

// releaseKey emits a key-up for a held digit and returns noKey.
func (m *Machine) releaseKey(held int) int {
	if held != noKey {
		_ = m.sink.KeyEvent(held, false)
		m.logger.Debug("key up", "key", held)
	}
	return noKey
}

// ReleaseAll drops both sticks' held keys.
func (m *Machine) ReleaseAll() {
	m.leftKey = m.releaseKey(m.leftKey)
	m.rightKey = m.releaseKey(m.rightKey)
}

// Telemetry marks sticks holding a key as active.
func (m *Machine) Telemetry(snap *pad.Snapshot) {
	snap.Left.Active = m.leftKey != noKey
	snap.Right.Active = m.rightKey != noKey
}
