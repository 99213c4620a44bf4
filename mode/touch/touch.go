// Package touch implements the dual-point touch mode: each stick drives
// one synthetic touch contact, with an optional rail lock that constrains
// the contact to the path between two direction arc-centers, and a
// 5-point X-pattern extension on the stick-click buttons.
package touch

import (
	"log/slog"

	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/pad"
	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/stick"
)

// Touch ids are fixed: stick 0 is always touch 0, stick 1 is always touch
// 1. The X-pattern contacts use the id blocks above them.
const (
	leftTouchID  = 0
	rightTouchID = 1

	leftPatternBaseID  = 2
	rightPatternBaseID = 7
)

func init() {
	pad.RegisterMode("touch", New)
}

// Machine is the touch-pair state machine. One instance owns both sticks'
// touch slots so it can coalesce their moves into a single combined
// injection when both are active.
type Machine struct {
	sink   pad.Sink
	logger *slog.Logger

	left  slot
	right slot

	leftPattern  xPattern
	rightPattern xPattern
}

// New constructs a fresh touch mode bound to a sink.
func New(sink pad.Sink, logger *slog.Logger) pad.Mode {
	return &Machine{
		sink:         sink,
		logger:       logger,
		left:         newSlot(leftTouchID),
		right:        newSlot(rightTouchID),
		leftPattern:  xPattern{baseID: leftPatternBaseID, radius: DefaultPatternRadius},
		rightPattern: xPattern{baseID: rightPatternBaseID, radius: DefaultPatternRadius},
	}
}

// Update advances both touch slots one tick and emits the resulting
// events. Down and up transitions go out individually at the moment they
// occur; when both slots produce a move in the same tick the two positions
// are sent in one combined update so the game observes them as
// simultaneous.
func (m *Machine) Update(f pad.Frame) {
	leftMoved := m.left.update(m.sink, m.logger, slotInput{
		level:    f.State.PrimaryLeft,
		primary:  f.Edges.PrimaryLeft,
		lockHeld: f.State.LockLeft,
		raw:      f.State.Left,
		angle:    f.LeftAngle,
		sector:   f.LeftSector,
	})
	rightMoved := m.right.update(m.sink, m.logger, slotInput{
		level:    f.State.PrimaryRight,
		primary:  f.Edges.PrimaryRight,
		lockHeld: f.State.LockRight,
		raw:      f.State.Right,
		angle:    f.RightAngle,
		sector:   f.RightSector,
	})

	switch {
	case leftMoved && rightMoved:
		_ = m.sink.TouchMoveMany([]pad.TouchPoint{
			{ID: m.left.id, Pos: m.left.out},
			{ID: m.right.id, Pos: m.right.out},
		})
	case leftMoved:
		_ = m.sink.TouchMove(m.left.id, m.left.out)
	case rightMoved:
		_ = m.sink.TouchMove(m.right.id, m.right.out)
	}

	m.leftPattern.update(m.sink, f.State.ClickLeft, f.Edges.ClickLeft, f.State.Left)
	m.rightPattern.update(m.sink, f.State.ClickRight, f.Edges.ClickRight, f.State.Right)
}

// ReleaseAll sends a terminal up for every contact currently on screen and
// clears all slot state.
func (m *Machine) ReleaseAll() {
	m.left.release(m.sink, m.logger)
	m.right.release(m.sink, m.logger)
	m.leftPattern.release(m.sink)
	m.rightPattern.release(m.sink)
}

// Telemetry fills the touch-owned snapshot fields.
func (m *Machine) Telemetry(snap *pad.Snapshot) {
	m.left.observe(&snap.Left)
	m.right.observe(&snap.Right)
	m.leftPattern.observe(&snap.Left)
	m.rightPattern.observe(&snap.Right)
}

// slotInput is the per-stick slice of one tick's frame.
type slotInput struct {
	level    bool     // primary button level
	primary  pad.Edge // primary button edges
	lockHeld bool     // lock trigger level
	raw      stick.Vector
	angle    stick.Angle
	sector   stick.Sector
}

// slot tracks one stick's in-progress synthetic touch.
type slot struct {
	id     int
	active bool
	held   stick.Sector

	locked    bool
	lockedDir stick.Sector

	raw stick.Vector
	out stick.Vector // position computed this tick, valid when update returned true
}

func newSlot(id int) slot {
	return slot{id: id, held: stick.NoSector, lockedDir: stick.NoSector}
}

// update advances the slot one tick. It emits down/up events itself and
// reports whether a move is pending, leaving the position in s.out so the
// machine can coalesce it with the other stick's move.
func (s *slot) update(sink pad.Sink, logger *slog.Logger, in slotInput) bool {
	s.raw = in.raw

	if in.primary.Pressed && !s.active {
		// Capture the held direction at the press instant; it persists for
		// the whole gesture even as the stick moves through other sectors.
		s.active = true
		s.held = in.sector
		_ = sink.TouchDown(s.id, in.raw)
		logger.Debug("touch down", "id", s.id, "held", int(s.held))
		return false
	}

	if in.primary.Released && s.active {
		// The up event and the state clear are one atomic step.
		_ = sink.TouchUp(s.id)
		logger.Debug("touch up", "id", s.id)
		s.clear()
		return false
	}

	if !s.active || !in.level {
		return false
	}

	if in.lockHeld && s.held.Valid() {
		if dir, ok := stick.TryLock(s.held, in.angle); ok {
			// The rail endpoint is re-chosen every tick; it is not sticky.
			s.locked = true
			s.lockedDir = dir
			s.out = stick.ProjectOntoPath(s.held, dir, in.raw)
			return true
		}
	}

	// Lock trigger not held (or the stick is centered): clear the lock
	// unconditionally so the raw-position branch is taken cleanly.
	if s.locked {
		logger.Debug("pointer unlocked", "id", s.id)
	}
	s.locked = false
	s.lockedDir = stick.NoSector
	s.out = in.raw
	return true
}

// release emits a terminal up if the slot is active and clears it.
func (s *slot) release(sink pad.Sink, logger *slog.Logger) {
	if !s.active {
		return
	}
	_ = sink.TouchUp(s.id)
	logger.Debug("touch released on teardown", "id", s.id)
	s.clear()
}

func (s *slot) clear() {
	s.active = false
	s.held = stick.NoSector
	s.locked = false
	s.lockedDir = stick.NoSector
}

func (s *slot) observe(snap *pad.StickSnapshot) {
	snap.Active = s.active
	snap.HeldDirection = int(s.held)
	snap.Locked = s.locked
	snap.LockedSector = int(s.lockedDir)
	if s.locked {
		snap.LockedPos = s.out
	}
}
