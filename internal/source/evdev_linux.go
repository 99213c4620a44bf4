//go:build linux

package source

import (
	"fmt"
	"log/slog"
	"sync"
	"unsafe"

	evdev "github.com/gvalkov/golang-evdev"
	"golang.org/x/sys/unix"

	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/pad"
	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/stick"
)

// absInfo mirrors struct input_absinfo.
type absInfo struct {
	Value      int32
	Minimum    int32
	Maximum    int32
	Fuzz       int32
	Flat       int32
	Resolution int32
}

// axisRange normalizes one absolute axis into [-1, 1] (or [0, 1] for
// triggers) using the range the device reports.
type axisRange struct {
	min, max int32
}

func (r axisRange) unit(v int32) float64 {
	if r.max <= r.min {
		return 0
	}
	u := float64(v-r.min) / float64(r.max-r.min)
	if u < 0 {
		u = 0
	} else if u > 1 {
		u = 1
	}
	return u
}

func (r axisRange) signed(v int32) float64 {
	return r.unit(v)*2 - 1
}

// evdevSource reads a gamepad event device. A goroutine drains the
// blocking read into a snapshot; Poll just copies the snapshot, so the
// driver's tick never blocks on the kernel queue.
type evdevSource struct {
	cfg    Config
	logger *slog.Logger

	mu      sync.Mutex
	state   pad.State
	readErr error

	dev    *evdev.InputDevice
	ranges map[uint16]axisRange

	// raw accumulators, owned by the reader goroutine
	lx, ly, rx, ry int32
	lt, rt         int32
	tl2, tr2       bool
}

func newEvdevSource(cfg Config, logger *slog.Logger) (pad.Source, error) {
	s := &evdevSource{cfg: cfg, logger: logger}
	if err := s.open(); err != nil {
		return nil, err
	}
	return s, nil
}

func (s *evdevSource) open() error {
	path := s.cfg.Device
	if path == "" {
		p, err := findGamepad(s.cfg.Pad)
		if err != nil {
			return err
		}
		path = p
	}

	dev, err := evdev.Open(path)
	if err != nil {
		return fmt.Errorf("open %s: %w", path, err)
	}

	ranges := make(map[uint16]axisRange)
	for _, code := range []uint16{evdev.ABS_X, evdev.ABS_Y, evdev.ABS_RX, evdev.ABS_RY, evdev.ABS_Z, evdev.ABS_RZ} {
		var info absInfo
		req := uintptr(0x80184540 + uint32(code)) // EVIOCGABS(code)
		_, _, errno := unix.Syscall(unix.SYS_IOCTL, dev.File.Fd(), req, uintptr(unsafe.Pointer(&info)))
		if errno != 0 {
			continue
		}
		ranges[code] = axisRange{min: info.Minimum, max: info.Maximum}
	}

	s.mu.Lock()
	s.dev = dev
	s.ranges = ranges
	s.readErr = nil
	s.state = pad.State{}
	s.mu.Unlock()
	s.lx, s.ly, s.rx, s.ry, s.lt, s.rt = 0, 0, 0, 0, 0, 0
	s.tl2, s.tr2 = false, false

	s.logger.Info("gamepad opened", "path", path, "name", dev.Name)
	go s.drain(dev)
	return nil
}

// findGamepad returns the index-th event device that looks like a gamepad.
func findGamepad(index int) (string, error) {
	devices, err := evdev.ListInputDevices()
	if err != nil {
		return "", fmt.Errorf("list input devices: %w", err)
	}
	n := 0
	for _, dev := range devices {
		if !isGamepad(dev) {
			continue
		}
		if n == index {
			return dev.Fn, nil
		}
		n++
	}
	return "", fmt.Errorf("gamepad %d not found (%d present)", index, n)
}

func isGamepad(dev *evdev.InputDevice) bool {
	hasAbsX := false
	hasGamepadBtn := false
	for capType, codes := range dev.Capabilities {
		for _, c := range codes {
			switch {
			case capType.Type == evdev.EV_ABS && c.Code == evdev.ABS_X:
				hasAbsX = true
			case capType.Type == evdev.EV_KEY && c.Code == evdev.BTN_GAMEPAD:
				hasGamepadBtn = true
			}
		}
	}
	return hasAbsX && hasGamepadBtn
}

func (s *evdevSource) drain(dev *evdev.InputDevice) {
	for {
		events, err := dev.Read()
		if err != nil {
			s.mu.Lock()
			if s.dev == dev { // ignore errors from a superseded device
				s.readErr = fmt.Errorf("gamepad read: %w", err)
			}
			s.mu.Unlock()
			return
		}
		s.mu.Lock()
		if s.dev != dev {
			s.mu.Unlock()
			return
		}
		for _, ev := range events {
			s.apply(ev)
		}
		s.mu.Unlock()
	}
}

// apply folds one kernel event into the snapshot. Called with the mutex
// held.
func (s *evdevSource) apply(ev evdev.InputEvent) {
	switch ev.Type {
	case evdev.EV_ABS:
		switch ev.Code {
		case evdev.ABS_X:
			s.lx = ev.Value
		case evdev.ABS_Y:
			s.ly = ev.Value
		case evdev.ABS_RX:
			s.rx = ev.Value
		case evdev.ABS_RY:
			s.ry = ev.Value
		case evdev.ABS_Z:
			s.lt = ev.Value
		case evdev.ABS_RZ:
			s.rt = ev.Value
		default:
			return
		}
		s.refreshAxes()
	case evdev.EV_KEY:
		down := ev.Value != 0
		switch ev.Code {
		case evdev.BTN_TL:
			s.state.PrimaryLeft = down
		case evdev.BTN_TR:
			s.state.PrimaryRight = down
		case evdev.BTN_TL2:
			s.tl2 = down
			s.refreshAxes()
		case evdev.BTN_TR2:
			s.tr2 = down
			s.refreshAxes()
		case evdev.BTN_THUMBL:
			s.state.ClickLeft = down
		case evdev.BTN_THUMBR:
			s.state.ClickRight = down
		}
	}
}

func (s *evdevSource) refreshAxes() {
	// Kernel Y grows downward; stick space grows upward.
	s.state.Left = stick.Vector{
		X: s.ranges[evdev.ABS_X].signed(s.lx),
		Y: -s.ranges[evdev.ABS_Y].signed(s.ly),
	}.Clamped()
	s.state.Right = stick.Vector{
		X: s.ranges[evdev.ABS_RX].signed(s.rx),
		Y: -s.ranges[evdev.ABS_RY].signed(s.ry),
	}.Clamped()

	// Pads without BTN_TL2/TR2 report the triggers as ABS_Z/ABS_RZ; above
	// the threshold they read as the lock buttons.
	thresh := float64(s.cfg.TriggerThreshold) / 255
	s.state.LockLeft = s.tl2 || s.ranges[evdev.ABS_Z].unit(s.lt) > thresh
	s.state.LockRight = s.tr2 || s.ranges[evdev.ABS_RZ].unit(s.rt) > thresh
}

func (s *evdevSource) Poll() (pad.State, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.readErr != nil {
		return pad.State{}, s.readErr
	}
	return s.state, nil
}

// Reacquire reopens the device after the reader goroutine died, typically
// because the pad was unplugged.
func (s *evdevSource) Reacquire() error {
	s.mu.Lock()
	broken := s.readErr != nil
	s.mu.Unlock()
	if !broken {
		return nil
	}
	return s.open()
}

func (s *evdevSource) Close() error {
	s.mu.Lock()
	dev := s.dev
	s.dev = nil
	s.mu.Unlock()
	if dev != nil {
		return dev.File.Close()
	}
	return nil
}
