// Package padtest provides fake boundary implementations for tests: a
// scripted controller source and a sink that records every injected event.
package padtest

import (
	"io"
	"log/slog"

	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/pad"
	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/stick"
)

// DiscardLogger returns a logger suitable for constructing modes in tests.
func DiscardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// BufferLogger returns a logger writing text records to w, for tests that
// assert on logged output.
func BufferLogger(w io.Writer) *slog.Logger {
	return slog.New(slog.NewTextHandler(w, nil))
}

// Event is one recorded sink call.
type Event struct {
	Kind   string // touchDown, touchMove, touchUp, touchMoveMany, mouseMove, mouseButton, key
	ID     int
	Pos    stick.Vector
	Points []pad.TouchPoint
	Down   bool
	Key    int
}

// RecordingSink captures every event pushed through the injection
// boundary. If Err is set, every call records the event and then returns
// that error, simulating injection failure.
type RecordingSink struct {
	Events []Event
	Err    error
}

var _ pad.Sink = (*RecordingSink)(nil)

func (s *RecordingSink) TouchDown(id int, pos stick.Vector) error {
	s.Events = append(s.Events, Event{Kind: "touchDown", ID: id, Pos: pos})
	return s.Err
}

func (s *RecordingSink) TouchMove(id int, pos stick.Vector) error {
	s.Events = append(s.Events, Event{Kind: "touchMove", ID: id, Pos: pos})
	return s.Err
}

func (s *RecordingSink) TouchUp(id int) error {
	s.Events = append(s.Events, Event{Kind: "touchUp", ID: id})
	return s.Err
}

func (s *RecordingSink) TouchMoveMany(points []pad.TouchPoint) error {
	cp := make([]pad.TouchPoint, len(points))
	copy(cp, points)
	s.Events = append(s.Events, Event{Kind: "touchMoveMany", Points: cp})
	return s.Err
}

func (s *RecordingSink) MouseMove(pos stick.Vector) error {
	s.Events = append(s.Events, Event{Kind: "mouseMove", Pos: pos})
	return s.Err
}

func (s *RecordingSink) MouseButton(down bool) error {
	s.Events = append(s.Events, Event{Kind: "mouseButton", Down: down})
	return s.Err
}

func (s *RecordingSink) KeyEvent(key int, down bool) error {
	s.Events = append(s.Events, Event{Kind: "key", Key: key, Down: down})
	return s.Err
}

func (s *RecordingSink) Close() error { return nil }

// Kinds returns the kinds of all recorded events in order.
func (s *RecordingSink) Kinds() []string {
	kinds := make([]string, len(s.Events))
	for i, e := range s.Events {
		kinds[i] = e.Kind
	}
	return kinds
}

// OfKind returns the recorded events of one kind, in order.
func (s *RecordingSink) OfKind(kind string) []Event {
	var out []Event
	for _, e := range s.Events {
		if e.Kind == kind {
			out = append(out, e)
		}
	}
	return out
}

// Reset drops all recorded events.
func (s *RecordingSink) Reset() { s.Events = s.Events[:0] }

// Step is one scripted poll result.
type Step struct {
	State pad.State
	Err   error
}

// FakeSource replays a scripted sequence of poll results. Once the script
// is exhausted the last step repeats.
type FakeSource struct {
	Steps []Step
	// ReacquireErr, when set, makes every Reacquire attempt fail.
	ReacquireErr error

	next       int
	Reacquires int
	Closed     bool
}

var _ pad.Source = (*FakeSource)(nil)

func (f *FakeSource) Poll() (pad.State, error) {
	if len(f.Steps) == 0 {
		return pad.State{}, nil
	}
	i := f.next
	if i >= len(f.Steps) {
		i = len(f.Steps) - 1
	} else {
		f.next++
	}
	return f.Steps[i].State, f.Steps[i].Err
}

func (f *FakeSource) Reacquire() error {
	f.Reacquires++
	return f.ReacquireErr
}

func (f *FakeSource) Close() error {
	f.Closed = true
	return nil
}
