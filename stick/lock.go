package stick

// TryLock decides which rail endpoint a held touch should lock to. The two
// candidate endpoints are the neighbors of the sector opposite the held
// direction; the one angularly closer to the live stick angle wins. The
// comparison is strict, so the equidistant case goes clockwise.
//
// It fails only when there is no held direction or the stick is centered.
// It is re-evaluated every tick while the lock trigger is held, so the
// chosen endpoint can change mid-gesture as the player steers the stick.
func TryLock(held Sector, current Angle) (Sector, bool) {
	if !held.Valid() || current == NoAngle {
		return NoSector, false
	}

	ccw, cw := held.Opposite().Adjacent()

	distCCW := CircularDistance(current, ccw.ArcCenterAngle())
	distCW := CircularDistance(current, cw.ArcCenterAngle())
	if distCCW < distCW {
		return ccw, true
	}
	return cw, true
}

// ProjectOntoPath slides a raw stick position along the rail between the
// held sector's arc-center and the locked sector's arc-center.
//
// The raw position is projected onto the infinite line through the two
// arc-centers and the travel parameter is clamped to the segment. The
// perpendicular offset of the stick from the line is discarded entirely:
// the player can wave the stick broadly while the point stays glued to the
// rail, moving only with the stick's forward progress along it.
func ProjectOntoPath(held, locked Sector, raw Vector) Vector {
	start := held.ArcCenter()
	end := locked.ArcCenter()

	path := end.Sub(start)
	pathLen := path.Len()
	if pathLen == 0 {
		// Distinct valid sectors never coincide, but never divide by zero.
		return start
	}
	dir := Vector{X: path.X / pathLen, Y: path.Y / pathLen}

	t := raw.Sub(start).Dot(dir)
	if t < 0 {
		t = 0
	}
	if t > pathLen {
		t = pathLen
	}

	return Vector{X: start.X + t*dir.X, Y: start.Y + t*dir.Y}
}
