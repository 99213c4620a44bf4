package touch

import (
	"math"

	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/pad"
	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/stick"
)

// DefaultPatternRadius is the center-to-corner distance of the X pattern
// in normalized stick units.
const DefaultPatternRadius = 0.5

// xPattern is the 5-point wide-contact extension: while a stick-click
// button is held, a center contact plus four corner contacts at 45°
// diagonals ride the stick position. It is additive to the two-point rail
// lock and never interacts with it.
type xPattern struct {
	baseID int
	radius float64

	active bool
	center stick.Vector
}

// update advances the pattern one tick.
func (p *xPattern) update(sink pad.Sink, level bool, edge pad.Edge, raw stick.Vector) {
	switch {
	case edge.Pressed && !p.active:
		p.active = true
		p.center = raw
		for _, pt := range p.points() {
			_ = sink.TouchDown(pt.ID, pt.Pos)
		}
	case edge.Released && p.active:
		p.release(sink)
	case p.active && level:
		p.center = raw
		_ = sink.TouchMoveMany(p.points())
	}
}

// release lifts all five contacts.
func (p *xPattern) release(sink pad.Sink) {
	if !p.active {
		return
	}
	for _, pt := range p.points() {
		_ = sink.TouchUp(pt.ID)
	}
	p.active = false
}

// points lays out the five contacts: center first, then the corners at
// 45° diagonals (top-left, top-right, bottom-left, bottom-right).
func (p *xPattern) points() []pad.TouchPoint {
	off := p.radius * math.Sqrt2 / 2
	c := p.center
	return []pad.TouchPoint{
		{ID: p.baseID, Pos: c},
		{ID: p.baseID + 1, Pos: stick.Vector{X: c.X - off, Y: c.Y + off}},
		{ID: p.baseID + 2, Pos: stick.Vector{X: c.X + off, Y: c.Y + off}},
		{ID: p.baseID + 3, Pos: stick.Vector{X: c.X - off, Y: c.Y - off}},
		{ID: p.baseID + 4, Pos: stick.Vector{X: c.X + off, Y: c.Y - off}},
	}
}

func (p *xPattern) observe(snap *pad.StickSnapshot) {
	snap.PatternActive = p.active
	if p.active {
		snap.PatternCenter = p.center
	}
}
