// Package stick provides the directional geometry for analog stick input:
// stick vectors, the clockwise-from-top angle convention, the eight 45°
// direction sectors and the arc-center vectors used by the rail lock.
package stick

import "math"

const (
	// Sectors is the number of 45° direction bins.
	Sectors = 8
	// DegreesPerSector is the angular width of one bin.
	DegreesPerSector = 45.0
)

// Sentinel values for "stick centered, no direction".
const (
	NoAngle  Angle  = -1
	NoSector Sector = -1
)

// Vector is a normalized stick position. Both components are expected in
// [-1, 1]; (0, 0) is the distinguished centered value.
type Vector struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
}

// Angle is a direction in degrees in [0, 360), measured clockwise with 0°
// pointing up. NoAngle means the stick is centered.
type Angle float64

// Sector is one of the eight 45° direction bins, or NoSector.
type Sector int

// Clamped returns v with NaN components zeroed and both components forced
// into [-1, 1]. Raw transports occasionally report garbage mid-reconnect;
// geometry must never see it.
func (v Vector) Clamped() Vector {
	return Vector{X: clampComponent(v.X), Y: clampComponent(v.Y)}
}

func clampComponent(c float64) float64 {
	if math.IsNaN(c) {
		return 0
	}
	if c < -1 {
		return -1
	}
	if c > 1 {
		return 1
	}
	return c
}

// Sub returns v - o.
func (v Vector) Sub(o Vector) Vector { return Vector{X: v.X - o.X, Y: v.Y - o.Y} }

// Dot returns the dot product of v and o.
func (v Vector) Dot(o Vector) float64 { return v.X*o.X + v.Y*o.Y }

// Len returns the euclidean length of v.
func (v Vector) Len() float64 { return math.Hypot(v.X, v.Y) }

// IsCentered reports whether v is exactly (0, 0). Only the exact center
// counts as "no input"; there is no deadzone smoothing here.
func (v Vector) IsCentered() bool { return v.X == 0 && v.Y == 0 }

// AngleOf converts a stick vector to the clockwise-from-top angle
// convention. Returns NoAngle iff v is exactly centered.
func AngleOf(v Vector) Angle {
	if v.IsCentered() {
		return NoAngle
	}

	// atan2 gives 0° = right, counter-clockwise positive.
	deg := math.Atan2(v.Y, v.X) * 180.0 / math.Pi
	if deg < 0 {
		deg += 360
	}

	// Rotate so 0° = up, then flip so increasing angle is clockwise.
	deg -= 90
	if deg < 0 {
		deg += 360
	}
	deg = 360 - deg
	if deg >= 360 {
		deg -= 360
	}
	return Angle(deg)
}

// SectorOf maps an angle to its direction bin. The 360° floating point
// edge folds back to sector 0.
func SectorOf(a Angle) Sector {
	if a == NoAngle {
		return NoSector
	}
	s := Sector(math.Floor(float64(a) / DegreesPerSector))
	if s >= Sectors || s < 0 {
		s = 0
	}
	return s
}

// Valid reports whether s is a real sector rather than the sentinel.
func (s Sector) Valid() bool { return s >= 0 && s < Sectors }

// Opposite returns the sector 180° away.
func (s Sector) Opposite() Sector { return (s + 4) % Sectors }

// Adjacent returns the two neighboring sectors, counter-clockwise first.
func (s Sector) Adjacent() (ccw, cw Sector) {
	return (s - 1 + Sectors) % Sectors, (s + 1) % Sectors
}

// ArcCenterAngle returns the 22.5°-offset center angle of the sector.
// This center is used only for locked-path geometry; sector classification
// keeps its un-offset 45° bins. The two conventions diverge on purpose and
// must not be unified.
func (s Sector) ArcCenterAngle() Angle {
	a := float64(s)*DegreesPerSector + DegreesPerSector/2
	if a >= 360 {
		a -= 360
	}
	return Angle(a)
}

// ArcCenter returns the unit vector at the sector's arc-center angle.
func (s Sector) ArcCenter() Vector {
	if !s.Valid() {
		return Vector{}
	}
	rad := float64(s.ArcCenterAngle()) * math.Pi / 180.0
	// Clockwise-from-top: X = sin, Y = cos.
	return Vector{X: math.Sin(rad), Y: math.Cos(rad)}
}

// CircularDistance returns the shortest angular distance between two
// angles in [0, 180], wrapping through 0/360.
func CircularDistance(a, b Angle) float64 {
	d := math.Abs(float64(a) - float64(b))
	if d > 180 {
		d = 360 - d
	}
	return d
}
