//go:build linux

package inject

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"log/slog"
	"os"
	"time"

	"golang.org/x/sys/unix"

	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/pad"
	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/stick"
)

// uinput ioctls and event codes, from linux/uinput.h and linux/input-event-codes.h.
const (
	uiDevCreate  = 0x5501
	uiDevDestroy = 0x5502
	uiSetEvBit   = 0x40045564
	uiSetKeyBit  = 0x40045565
	uiSetAbsBit  = 0x40045567

	evSyn = 0x00
	evKey = 0x01
	evAbs = 0x03

	synReport = 0

	btnLeft  = 0x110
	btnTouch = 0x14a

	absX            = 0x00
	absY            = 0x01
	absMtSlot       = 0x2f
	absMtPositionX  = 0x35
	absMtPositionY  = 0x36
	absMtTrackingID = 0x39

	// KEY_1..KEY_8 are contiguous starting at 2.
	keyDigitBase = 2

	// Reported axis range of the virtual device.
	absMax = 65535
)

type inputEvent struct {
	Time  unix.Timeval
	Type  uint16
	Code  uint16
	Value int32
}

// uinputUserDev mirrors struct uinput_user_dev (legacy setup interface,
// which works on every kernel that has uinput at all).
type uinputUserDev struct {
	Name       [80]byte
	ID         struct{ Bustype, Vendor, Product, Version uint16 }
	FFEffects  uint32
	AbsMax     [64]int32
	AbsMin     [64]int32
	AbsFuzz    [64]int32
	AbsFlat    [64]int32
}

// uinputSink is a virtual multitouch-plus-keyboard device. Touch contacts
// use type-B multitouch slots; the mouse mode reuses ABS_X/ABS_Y with
// BTN_LEFT.
type uinputSink struct {
	f      *os.File
	logger *slog.Logger
	cfg    Config

	// contact id -> mt slot, and the tracking id counter. Slot indexes are
	// reused, tracking ids never are.
	slots    map[int]int
	tracking int32
	mouseBtn bool
}

func newPlatformSink(cfg Config, logger *slog.Logger) (pad.Sink, error) {
	switch cfg.Backend {
	case "auto", "uinput":
	default:
		return nil, unsupportedBackend(cfg.Backend, "linux")
	}

	f, err := os.OpenFile("/dev/uinput", os.O_WRONLY|unix.O_NONBLOCK, 0)
	if err != nil {
		return nil, fmt.Errorf("open /dev/uinput: %w", err)
	}

	fd := int(f.Fd())
	setup := func(req uint, val int) error {
		return unix.IoctlSetInt(fd, req, val)
	}

	bits := []struct {
		req  uint
		vals []int
	}{
		{uiSetEvBit, []int{evSyn, evKey, evAbs}},
		{uiSetKeyBit, []int{btnTouch, btnLeft, keyDigitBase, keyDigitBase + 1, keyDigitBase + 2, keyDigitBase + 3, keyDigitBase + 4, keyDigitBase + 5, keyDigitBase + 6, keyDigitBase + 7}},
		{uiSetAbsBit, []int{absX, absY, absMtSlot, absMtPositionX, absMtPositionY, absMtTrackingID}},
	}
	for _, b := range bits {
		for _, v := range b.vals {
			if err := setup(b.req, v); err != nil {
				_ = f.Close()
				return nil, fmt.Errorf("uinput ioctl 0x%x(%d): %w", b.req, v, err)
			}
		}
	}

	var dev uinputUserDev
	copy(dev.Name[:], "sentakki-wrapper")
	dev.ID.Bustype = 0x06 // BUS_VIRTUAL
	dev.ID.Vendor = 0x1209
	dev.ID.Product = 0x5a71
	dev.ID.Version = 1
	for _, axis := range []int{absX, absY, absMtPositionX, absMtPositionY} {
		dev.AbsMax[axis] = absMax
	}
	dev.AbsMax[absMtSlot] = 11
	dev.AbsMax[absMtTrackingID] = 0xffff

	var buf bytes.Buffer
	if err := binary.Write(&buf, binary.LittleEndian, &dev); err != nil {
		_ = f.Close()
		return nil, err
	}
	if _, err := f.Write(buf.Bytes()); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("uinput device setup: %w", err)
	}
	if err := unix.IoctlSetInt(fd, uiDevCreate, 0); err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("UI_DEV_CREATE: %w", err)
	}

	// Give the input stack a moment to pick the device up before events
	// start flowing.
	time.Sleep(200 * time.Millisecond)

	logger.Info("uinput device created", "name", "sentakki-wrapper")
	return &uinputSink{f: f, logger: logger, cfg: cfg, slots: make(map[int]int)}, nil
}

func (s *uinputSink) emit(events []inputEvent) error {
	events = append(events, inputEvent{Type: evSyn, Code: synReport})
	var buf bytes.Buffer
	for _, e := range events {
		if err := binary.Write(&buf, binary.LittleEndian, &e); err != nil {
			return err
		}
	}
	if _, err := s.f.Write(buf.Bytes()); err != nil {
		return fmt.Errorf("uinput write: %w", err)
	}
	return nil
}

// coords maps stick space onto the device's absolute axis range.
func (s *uinputSink) coords(pos stick.Vector) (int32, int32) {
	x := int32((pos.X + 1) / 2 * absMax)
	y := int32((1 - pos.Y) / 2 * absMax)
	return x, y
}

func (s *uinputSink) freeSlot() int {
	used := make(map[int]bool, len(s.slots))
	for _, slot := range s.slots {
		used[slot] = true
	}
	for i := 0; ; i++ {
		if !used[i] {
			return i
		}
	}
}

func (s *uinputSink) TouchDown(id int, pos stick.Vector) error {
	slot, ok := s.slots[id]
	if !ok {
		slot = s.freeSlot()
		s.slots[id] = slot
	}
	s.tracking++
	x, y := s.coords(pos)
	events := []inputEvent{
		{Type: evAbs, Code: absMtSlot, Value: int32(slot)},
		{Type: evAbs, Code: absMtTrackingID, Value: s.tracking},
		{Type: evAbs, Code: absMtPositionX, Value: x},
		{Type: evAbs, Code: absMtPositionY, Value: y},
	}
	if len(s.slots) == 1 {
		events = append(events, inputEvent{Type: evKey, Code: btnTouch, Value: 1})
	}
	return s.emit(events)
}

func (s *uinputSink) TouchMove(id int, pos stick.Vector) error {
	slot, ok := s.slots[id]
	if !ok {
		return fmt.Errorf("touch move for contact %d that is not down", id)
	}
	x, y := s.coords(pos)
	return s.emit([]inputEvent{
		{Type: evAbs, Code: absMtSlot, Value: int32(slot)},
		{Type: evAbs, Code: absMtPositionX, Value: x},
		{Type: evAbs, Code: absMtPositionY, Value: y},
	})
}

func (s *uinputSink) TouchUp(id int) error {
	slot, ok := s.slots[id]
	if !ok {
		return nil
	}
	delete(s.slots, id)
	events := []inputEvent{
		{Type: evAbs, Code: absMtSlot, Value: int32(slot)},
		{Type: evAbs, Code: absMtTrackingID, Value: -1},
	}
	if len(s.slots) == 0 {
		events = append(events, inputEvent{Type: evKey, Code: btnTouch, Value: 0})
	}
	return s.emit(events)
}

func (s *uinputSink) TouchMoveMany(points []pad.TouchPoint) error {
	var events []inputEvent
	for _, p := range points {
		slot, ok := s.slots[p.ID]
		if !ok {
			return fmt.Errorf("touch move for contact %d that is not down", p.ID)
		}
		x, y := s.coords(p.Pos)
		events = append(events,
			inputEvent{Type: evAbs, Code: absMtSlot, Value: int32(slot)},
			inputEvent{Type: evAbs, Code: absMtPositionX, Value: x},
			inputEvent{Type: evAbs, Code: absMtPositionY, Value: y},
		)
	}
	// One frame for all points keeps them simultaneous for the consumer.
	return s.emit(events)
}

func (s *uinputSink) MouseMove(pos stick.Vector) error {
	x, y := s.coords(pos)
	return s.emit([]inputEvent{
		{Type: evAbs, Code: absX, Value: x},
		{Type: evAbs, Code: absY, Value: y},
	})
}

func (s *uinputSink) MouseButton(down bool) error {
	v := int32(0)
	if down {
		v = 1
	}
	s.mouseBtn = down
	return s.emit([]inputEvent{{Type: evKey, Code: btnLeft, Value: v}})
}

func (s *uinputSink) KeyEvent(key int, down bool) error {
	if key < 1 || key > 8 {
		return fmt.Errorf("key %d out of digit range", key)
	}
	v := int32(0)
	if down {
		v = 1
	}
	return s.emit([]inputEvent{{Type: evKey, Code: uint16(keyDigitBase + key - 1), Value: v}})
}

func (s *uinputSink) Close() error {
	for id := range s.slots {
		_ = s.TouchUp(id)
	}
	if s.mouseBtn {
		_ = s.MouseButton(false)
	}
	_ = unix.IoctlSetInt(int(s.f.Fd()), uiDevDestroy, 0)
	return s.f.Close()
}
