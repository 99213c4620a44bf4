package pad

import "github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/stick"

// Source is the controller transport boundary. Poll reads one frame of
// raw input; it is called exactly once per tick. Reacquire is invoked by
// the driver after Poll starts failing, to give the transport a chance to
// rebind a briefly-unplugged device.
type Source interface {
	Poll() (State, error)
	Reacquire() error
	Close() error
}

// TouchPoint pairs a touch identifier with a position in normalized stick
// space for batched multi-touch updates.
type TouchPoint struct {
	ID  int
	Pos stick.Vector
}

// Sink is the OS injection boundary. All coordinates are in normalized
// [-1, 1] stick space; translation to physical screen pixels is the
// sink's concern.
//
// TouchMoveMany must present all points to the OS in a single injection
// so downstream consumers observe them as simultaneous.
type Sink interface {
	TouchDown(id int, pos stick.Vector) error
	TouchMove(id int, pos stick.Vector) error
	TouchUp(id int) error
	TouchMoveMany(points []TouchPoint) error

	MouseMove(pos stick.Vector) error
	MouseButton(down bool) error

	// KeyEvent presses or releases one of the digit keys 1-8.
	KeyEvent(key int, down bool) error

	Close() error
}
