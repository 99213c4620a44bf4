// Package pad defines the shared per-tick input frame, the boundary
// interfaces to the controller transport and the OS injector, and the
// registry of input modes.
package pad

import "github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/stick"

// State is one frame of normalized controller input: stick components in
// [-1, 1] and button levels as booleans, regardless of the underlying
// transport. The zero value reads as "everything centered and released",
// which is exactly what the driver substitutes on device loss.
type State struct {
	Left  stick.Vector
	Right stick.Vector

	PrimaryLeft  bool // left bumper, starts/holds the left touch
	PrimaryRight bool // right bumper, starts/holds the right touch
	LockLeft     bool // left trigger, rides the left touch on its rail
	LockRight    bool // right trigger, rides the right touch on its rail
	ClickLeft    bool // left stick click, X-pattern extension
	ClickRight   bool // right stick click, X-pattern extension
}

// Clamped returns the state with both stick vectors defensively clamped.
func (s State) Clamped() State {
	s.Left = s.Left.Clamped()
	s.Right = s.Right.Clamped()
	return s
}

// Edge is a press or release transition derived from this tick's and last
// tick's boolean levels.
type Edge struct {
	Pressed  bool
	Released bool
}

// EdgeOf computes the transition between two levels.
func EdgeOf(cur, prev bool) Edge {
	return Edge{Pressed: cur && !prev, Released: !cur && prev}
}

// Edges holds the per-button transitions for one tick.
type Edges struct {
	PrimaryLeft  Edge
	PrimaryRight Edge
	LockLeft     Edge
	LockRight    Edge
	ClickLeft    Edge
	ClickRight   Edge
}

// EdgesBetween derives all button edges from the current and previous
// frame levels.
func EdgesBetween(cur, prev State) Edges {
	return Edges{
		PrimaryLeft:  EdgeOf(cur.PrimaryLeft, prev.PrimaryLeft),
		PrimaryRight: EdgeOf(cur.PrimaryRight, prev.PrimaryRight),
		LockLeft:     EdgeOf(cur.LockLeft, prev.LockLeft),
		LockRight:    EdgeOf(cur.LockRight, prev.LockRight),
		ClickLeft:    EdgeOf(cur.ClickLeft, prev.ClickLeft),
		ClickRight:   EdgeOf(cur.ClickRight, prev.ClickRight),
	}
}

// Frame is the fully derived per-tick input handed to the active mode.
// Angles and sectors are computed once per tick by the driver so every
// consumer sees the same geometry.
type Frame struct {
	State State
	Prev  State
	Edges Edges

	LeftAngle   stick.Angle
	RightAngle  stick.Angle
	LeftSector  stick.Sector
	RightSector stick.Sector
}

// FrameBetween builds a Frame from two raw states.
func FrameBetween(cur, prev State) Frame {
	cur = cur.Clamped()
	f := Frame{
		State: cur,
		Prev:  prev,
		Edges: EdgesBetween(cur, prev),
	}
	f.LeftAngle = stick.AngleOf(cur.Left)
	f.RightAngle = stick.AngleOf(cur.Right)
	f.LeftSector = stick.SectorOf(f.LeftAngle)
	f.RightSector = stick.SectorOf(f.RightAngle)
	return f
}
