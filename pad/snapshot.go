package pad

import "github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/stick"

// StickSnapshot is the read-only telemetry view of one stick, refreshed
// once per tick for the external overlay renderer.
type StickSnapshot struct {
	Raw    stick.Vector `json:"raw"`
	Angle  float64      `json:"angle"`
	Sector int          `json:"sector"`

	Active        bool         `json:"active"`
	HeldDirection int          `json:"heldDirection"`
	Locked        bool         `json:"locked"`
	LockedSector  int          `json:"lockedSector"`
	LockedPos     stick.Vector `json:"lockedPos"`

	PatternActive bool         `json:"patternActive"`
	PatternCenter stick.Vector `json:"patternCenter"`
}

// Snapshot is the combined per-tick telemetry view. The core never pushes
// it anywhere; the driver stores the latest value and interested consumers
// poll it.
type Snapshot struct {
	Mode  string        `json:"mode"`
	Tick  uint64        `json:"tick"`
	Left  StickSnapshot `json:"left"`
	Right StickSnapshot `json:"right"`
}

// ObserveFrame fills in the raw geometry common to every mode.
func (s *Snapshot) ObserveFrame(f Frame) {
	s.Left.Raw = f.State.Left
	s.Left.Angle = float64(f.LeftAngle)
	s.Left.Sector = int(f.LeftSector)
	s.Left.HeldDirection = int(stick.NoSector)
	s.Left.LockedSector = int(stick.NoSector)
	s.Right.Raw = f.State.Right
	s.Right.Angle = float64(f.RightAngle)
	s.Right.Sector = int(f.RightSector)
	s.Right.HeldDirection = int(stick.NoSector)
	s.Right.LockedSector = int(stick.NoSector)
}
