package stick

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTryLockFailures(t *testing.T) {
	_, ok := TryLock(NoSector, 90)
	assert.False(t, ok, "no held direction")

	_, ok = TryLock(0, NoAngle)
	assert.False(t, ok, "centered stick")
}

func TestTryLockOnlyReturnsRailEndpoints(t *testing.T) {
	// For any held sector, the result is always one of the two neighbors of
	// the opposite sector; never the held sector or its direct opposite.
	for held := Sector(0); held < Sectors; held++ {
		for deg := 0; deg < 360; deg += 5 {
			got, ok := TryLock(held, Angle(deg))
			require.True(t, ok)

			ccw := (held + 3) % Sectors
			cw := (held + 5) % Sectors
			assert.Contains(t, []Sector{ccw, cw}, got, "held=%d angle=%d", held, deg)
			assert.NotEqual(t, held, got)
			assert.NotEqual(t, held.Opposite(), got)
		}
	}
}

func TestTryLockFollowsTheStick(t *testing.T) {
	// Held up (sector 0): rail endpoints are sectors 3 and 5. Steering the
	// stick toward either endpoint's arc must pick that endpoint.
	got, ok := TryLock(0, Angle(Sector(3).ArcCenterAngle()))
	require.True(t, ok)
	assert.Equal(t, Sector(3), got)

	got, ok = TryLock(0, Angle(Sector(5).ArcCenterAngle()))
	require.True(t, ok)
	assert.Equal(t, Sector(5), got)

	// Exactly between the two endpoints the strict < comparison sends the
	// tie to the clockwise neighbor.
	got, ok = TryLock(0, 202.5)
	require.True(t, ok)
	assert.Equal(t, Sector(5), got)
}

func TestProjectOntoPathClamps(t *testing.T) {
	held, locked := Sector(0), Sector(3)
	start := held.ArcCenter()
	end := locked.ArcCenter()

	// Far beyond the end of the rail: exactly the locked arc-center.
	far := Vector{X: end.X * 10, Y: end.Y * 10}
	got := ProjectOntoPath(held, locked, far)
	assert.InDelta(t, end.X, got.X, 1e-9)
	assert.InDelta(t, end.Y, got.Y, 1e-9)

	// Far behind the start: exactly the held arc-center.
	behind := Vector{X: start.X * 10, Y: start.Y * 10}
	got = ProjectOntoPath(held, locked, behind)
	assert.InDelta(t, start.X, got.X, 1e-9)
	assert.InDelta(t, start.Y, got.Y, 1e-9)
}

func TestProjectOntoPathIgnoresPerpendicularOffset(t *testing.T) {
	held, locked := Sector(0), Sector(4)
	start := held.ArcCenter()
	end := locked.ArcCenter()

	mid := Vector{X: (start.X + end.X) / 2, Y: (start.Y + end.Y) / 2}
	path := end.Sub(start)
	pathLen := path.Len()
	dir := Vector{X: path.X / pathLen, Y: path.Y / pathLen}
	// Perpendicular to the rail.
	perp := Vector{X: -dir.Y, Y: dir.X}

	onRail := ProjectOntoPath(held, locked, mid)
	offRail := ProjectOntoPath(held, locked, Vector{X: mid.X + perp.X*0.7, Y: mid.Y + perp.Y*0.7})
	assert.InDelta(t, onRail.X, offRail.X, 1e-9)
	assert.InDelta(t, onRail.Y, offRail.Y, 1e-9)
}

func TestProjectOntoPathDegenerate(t *testing.T) {
	// Same sector twice cannot happen for a real lock, but must not divide
	// by zero.
	got := ProjectOntoPath(2, 2, Vector{1, 1})
	center := Sector(2).ArcCenter()
	assert.Equal(t, center, got)
}
