//go:build linux

package source

import (
	"fmt"
	"log/slog"
	"sync"

	"github.com/splace/joysticks"

	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/pad"
	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/stick"
)

// Button indexes on the legacy js interface, 1-based in connection order.
// Shoulders are 5/6 on the common xpad layout; the js layer folds the
// analog triggers away, so the lock role falls back to buttons 7/8 here.
// The evdev backend is preferred whenever it is available.
const (
	jsBtnPrimaryLeft  = 5
	jsBtnPrimaryRight = 6
	jsBtnLockLeft     = 7
	jsBtnLockRight    = 8
	jsBtnClickLeft    = 10
	jsBtnClickRight   = 11

	jsHatLeft  = 1
	jsHatRight = 2
)

// jsSource reads the legacy joystick interface through splace/joysticks.
// Connect blocks until the device produces its first event, so the whole
// connection lives on a goroutine and Poll reports "not connected" until
// it lands. When the device goes away the event dispatcher stops, the
// connection drops back to disconnected and Poll starts erroring, so the
// driver drains active gestures instead of holding the last state.
type jsSource struct {
	logger *slog.Logger
	index  int

	mu         sync.Mutex
	connected  bool
	connecting bool
	state      pad.State

	// dial starts one connection attempt; swapped out in tests.
	dial func()

	closed chan struct{}
}

func newJsSource(cfg Config, logger *slog.Logger) (pad.Source, error) {
	s := &jsSource{
		logger: logger,
		index:  cfg.Pad + 1,
		closed: make(chan struct{}),
	}
	s.dial = s.connect
	s.mu.Lock()
	s.connecting = true
	s.mu.Unlock()
	go s.dial()
	return s, nil
}

func (s *jsSource) connect() {
	device := joysticks.Connect(s.index)
	if device == nil {
		s.logger.Error("js device not found", "index", s.index)
		s.markLost()
		return
	}

	leftMove := device.OnMove(jsHatLeft)
	rightMove := device.OnMove(jsHatRight)

	plDown, plUp := device.OnClose(jsBtnPrimaryLeft), device.OnOpen(jsBtnPrimaryLeft)
	prDown, prUp := device.OnClose(jsBtnPrimaryRight), device.OnOpen(jsBtnPrimaryRight)
	llDown, llUp := device.OnClose(jsBtnLockLeft), device.OnOpen(jsBtnLockLeft)
	lrDown, lrUp := device.OnClose(jsBtnLockRight), device.OnOpen(jsBtnLockRight)
	clDown, clUp := device.OnClose(jsBtnClickLeft), device.OnOpen(jsBtnClickLeft)
	crDown, crUp := device.OnClose(jsBtnClickRight), device.OnOpen(jsBtnClickRight)

	// ParcelOutEvents returns when the kernel closes the event stream,
	// which is the only unplug signal the js layer gives us.
	lost := make(chan struct{})
	go func() {
		device.ParcelOutEvents()
		close(lost)
	}()

	s.mu.Lock()
	s.connected = true
	s.connecting = false
	s.mu.Unlock()
	s.logger.Info("js device connected", "index", s.index)

	coords := func(ev joysticks.Event) (stick.Vector, bool) {
		c, ok := ev.(joysticks.CoordsEvent)
		if !ok {
			return stick.Vector{}, false
		}
		// js Y grows downward.
		return stick.Vector{X: float64(c.X), Y: -float64(c.Y)}.Clamped(), true
	}

	update := func(apply func(*pad.State)) {
		s.mu.Lock()
		apply(&s.state)
		s.mu.Unlock()
	}

	for {
		select {
		case <-s.closed:
			return
		case <-lost:
			s.logger.Warn("js device lost", "index", s.index)
			s.markLost()
			return
		case ev := <-leftMove:
			if v, ok := coords(ev); ok {
				update(func(st *pad.State) { st.Left = v })
			}
		case ev := <-rightMove:
			if v, ok := coords(ev); ok {
				update(func(st *pad.State) { st.Right = v })
			}
		case <-plDown:
			update(func(st *pad.State) { st.PrimaryLeft = true })
		case <-plUp:
			update(func(st *pad.State) { st.PrimaryLeft = false })
		case <-prDown:
			update(func(st *pad.State) { st.PrimaryRight = true })
		case <-prUp:
			update(func(st *pad.State) { st.PrimaryRight = false })
		case <-llDown:
			update(func(st *pad.State) { st.LockLeft = true })
		case <-llUp:
			update(func(st *pad.State) { st.LockLeft = false })
		case <-lrDown:
			update(func(st *pad.State) { st.LockRight = true })
		case <-lrUp:
			update(func(st *pad.State) { st.LockRight = false })
		case <-clDown:
			update(func(st *pad.State) { st.ClickLeft = true })
		case <-clUp:
			update(func(st *pad.State) { st.ClickLeft = false })
		case <-crDown:
			update(func(st *pad.State) { st.ClickRight = true })
		case <-crUp:
			update(func(st *pad.State) { st.ClickRight = false })
		}
	}
}

// markLost drops the connection state so Poll errors until a reconnect
// lands. The latched input is cleared too; stale held buttons must not
// survive into the next connection.
func (s *jsSource) markLost() {
	s.mu.Lock()
	s.connected = false
	s.connecting = false
	s.state = pad.State{}
	s.mu.Unlock()
}

func (s *jsSource) Poll() (pad.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !s.connected {
		return pad.State{}, fmt.Errorf("js device not connected")
	}
	return s.state, nil
}

// Reacquire starts a fresh connection attempt unless one is already
// running. The attempt is asynchronous because Connect blocks until the
// device produces input; Poll flips back to healthy once it lands.
func (s *jsSource) Reacquire() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.connected || s.connecting {
		return nil
	}
	select {
	case <-s.closed:
		return fmt.Errorf("js source closed")
	default:
	}
	s.connecting = true
	go s.dial()
	return nil
}

func (s *jsSource) Close() error {
	select {
	case <-s.closed:
	default:
		close(s.closed)
	}
	return nil
}
