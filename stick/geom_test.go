package stick

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAngleOf(t *testing.T) {
	tests := []struct {
		name string
		v    Vector
		want Angle
	}{
		{"centered", Vector{0, 0}, NoAngle},
		{"up", Vector{0, 1}, 0},
		{"up-right", Vector{1, 1}, 45},
		{"right", Vector{1, 0}, 90},
		{"down-right", Vector{1, -1}, 135},
		{"down", Vector{0, -1}, 180},
		{"down-left", Vector{-1, -1}, 225},
		{"left", Vector{-1, 0}, 270},
		{"up-left", Vector{-1, 1}, 315},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AngleOf(tt.v)
			if tt.want == NoAngle {
				assert.Equal(t, NoAngle, got)
				return
			}
			assert.InDelta(t, float64(tt.want), float64(got), 1e-9)
		})
	}
}

func TestAngleOfRange(t *testing.T) {
	// Sweep the unit circle: every non-centered vector must land in [0, 360).
	for i := 0; i < 720; i++ {
		rad := float64(i) * math.Pi / 360.0
		a := AngleOf(Vector{X: math.Cos(rad), Y: math.Sin(rad)})
		assert.GreaterOrEqual(t, float64(a), 0.0)
		assert.Less(t, float64(a), 360.0)
	}
}

func TestSectorOf(t *testing.T) {
	assert.Equal(t, NoSector, SectorOf(NoAngle))

	// Eight half-open 45° bins starting at 0.
	for s := 0; s < Sectors; s++ {
		low := Angle(float64(s) * DegreesPerSector)
		high := Angle(float64(s+1)*DegreesPerSector - 1e-9)
		assert.Equal(t, Sector(s), SectorOf(low), "bin start %v", low)
		assert.Equal(t, Sector(s), SectorOf(high), "bin end %v", high)
	}

	// The 360° floating point edge folds back to sector 0.
	assert.Equal(t, Sector(0), SectorOf(360))

	// Raw "up" is angle 0, sector 0.
	assert.Equal(t, Sector(0), SectorOf(AngleOf(Vector{0, 1})))
}

func TestOppositeAndAdjacent(t *testing.T) {
	for s := Sector(0); s < Sectors; s++ {
		assert.Equal(t, (s+4)%Sectors, s.Opposite())
		ccw, cw := s.Adjacent()
		assert.Equal(t, (s+Sectors-1)%Sectors, ccw)
		assert.Equal(t, (s+1)%Sectors, cw)
	}
}

func TestArcCenter(t *testing.T) {
	for s := Sector(0); s < Sectors; s++ {
		assert.InDelta(t, float64(s)*DegreesPerSector+22.5, float64(s.ArcCenterAngle()), 1e-9)

		c := s.ArcCenter()
		assert.InDelta(t, 1.0, c.Len(), 1e-9, "arc center must be unit length")
		// The arc center classifies back into its own sector.
		assert.Equal(t, s, SectorOf(AngleOf(c)))
	}

	assert.Equal(t, Vector{}, NoSector.ArcCenter())
}

func TestCircularDistance(t *testing.T) {
	tests := []struct {
		a, b Angle
		want float64
	}{
		{0, 0, 0},
		{0, 45, 45},
		{45, 0, 45},
		{350, 10, 20},
		{10, 350, 20},
		{0, 180, 180},
		{90, 270, 180},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, CircularDistance(tt.a, tt.b), 1e-9, "distance(%v, %v)", tt.a, tt.b)
	}
}

func TestVectorClamped(t *testing.T) {
	tests := []struct {
		name string
		in   Vector
		want Vector
	}{
		{"in range", Vector{0.5, -0.5}, Vector{0.5, -0.5}},
		{"over range", Vector{2, -3}, Vector{1, -1}},
		{"nan", Vector{math.NaN(), math.NaN()}, Vector{0, 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, tt.in.Clamped())
		})
	}
}
