//go:build windows

package inject

import (
	"fmt"
	"log/slog"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/pad"
	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/stick"
)

var (
	user32 = windows.NewLazySystemDLL("user32.dll")

	procInitializeTouchInjection = user32.NewProc("InitializeTouchInjection")
	procInjectTouchInput         = user32.NewProc("InjectTouchInput")
	procSendInput                = user32.NewProc("SendInput")
	procGetSystemMetrics         = user32.NewProc("GetSystemMetrics")
)

const (
	// The two sticks plus two 5-contact patterns.
	maxContacts = 12

	touchFeedbackNone = 3

	ptTouch = 2

	pointerFlagDown      = 0x00010000
	pointerFlagUpdate    = 0x00020000
	pointerFlagUp        = 0x00040000
	pointerFlagInRange   = 0x00000002
	pointerFlagInContact = 0x00000004

	touchMaskContactArea = 0x00000001
	touchMaskPressure    = 0x00000004

	mouseEventfMove     = 0x0001
	mouseEventfLeftDown = 0x0002
	mouseEventfLeftUp   = 0x0004
	mouseEventfAbsolute = 0x8000

	keyEventfKeyUp = 0x0002

	inputMouse    = 0
	inputKeyboard = 1

	smCxScreen = 0
	smCyScreen = 1
)

type point struct {
	X, Y int32
}

type rect struct {
	Left, Top, Right, Bottom int32
}

type pointerInfo struct {
	PointerType          uint32
	PointerID            uint32
	FrameID              uint32
	PointerFlags         uint32
	SourceDevice         windows.Handle
	HwndTarget           windows.HWND
	PtPixelLocation      point
	PtHimetricLocation   point
	PtPixelLocationRaw   point
	PtHimetricLocationRaw point
	Time                 uint32
	HistoryCount         uint32
	InputData            int32
	KeyStates            uint32
	PerformanceCount     uint64
	ButtonChangeType     int32
}

type pointerTouchInfo struct {
	PointerInfo pointerInfo
	TouchFlags  uint32
	TouchMask   uint32
	Contact     rect
	ContactRaw  rect
	Orientation uint32
	Pressure    uint32
}

type mouseInput struct {
	Dx        int32
	Dy        int32
	MouseData uint32
	Flags     uint32
	Time      uint32
	ExtraInfo uintptr
}

type keybdInput struct {
	Vk        uint16
	Scan      uint16
	Flags     uint32
	Time      uint32
	ExtraInfo uintptr
	_         [8]byte // pad the union up to MOUSEINPUT's size
}

type mouseInputPacket struct {
	Type uint32
	_    uint32
	Mi   mouseInput
}

type keybdInputPacket struct {
	Type uint32
	_    uint32
	Ki   keybdInput
}

// winSink drives Win32 touch injection plus SendInput for the mouse and
// keyboard modes. One sink owns all synthetic contacts of the process;
// InitializeTouchInjection is per-process, not per-device.
type winSink struct {
	cfg    Config
	logger *slog.Logger

	screenW int32
	screenH int32

	// down tracks which contact ids currently exist; InjectTouchInput
	// rejects an UPDATE for a contact the OS never saw go DOWN.
	down map[int]stick.Vector
}

func newPlatformSink(cfg Config, logger *slog.Logger) (pad.Sink, error) {
	switch cfg.Backend {
	case "auto", "windows":
	default:
		return nil, unsupportedBackend(cfg.Backend, "windows")
	}

	ret, _, err := procInitializeTouchInjection.Call(uintptr(maxContacts), uintptr(touchFeedbackNone))
	if ret == 0 {
		return nil, fmt.Errorf("InitializeTouchInjection: %w", err)
	}

	w, _, _ := procGetSystemMetrics.Call(uintptr(smCxScreen))
	h, _, _ := procGetSystemMetrics.Call(uintptr(smCyScreen))
	if w == 0 || h == 0 {
		return nil, fmt.Errorf("GetSystemMetrics returned empty screen")
	}

	logger.Info("touch injection initialized", "maxContacts", maxContacts, "screenW", w, "screenH", h)
	return &winSink{
		cfg:     cfg,
		logger:  logger,
		screenW: int32(w),
		screenH: int32(h),
		down:    make(map[int]stick.Vector),
	}, nil
}

func (s *winSink) contact(id int, pos stick.Vector, flags uint32) pointerTouchInfo {
	x, y := s.cfg.point(pos)
	return pointerTouchInfo{
		PointerInfo: pointerInfo{
			PointerType:     ptTouch,
			PointerID:       uint32(id),
			PointerFlags:    flags,
			PtPixelLocation: point{X: int32(x), Y: int32(y)},
		},
		TouchMask:   touchMaskContactArea | touchMaskPressure,
		Contact:     rect{Left: int32(x) - 2, Top: int32(y) - 2, Right: int32(x) + 2, Bottom: int32(y) + 2},
		Orientation: 0,
		Pressure:    32000,
	}
}

func (s *winSink) injectTouch(contacts []pointerTouchInfo) error {
	ret, _, err := procInjectTouchInput.Call(
		uintptr(len(contacts)),
		uintptr(unsafe.Pointer(&contacts[0])),
	)
	if ret == 0 {
		return fmt.Errorf("InjectTouchInput: %w", err)
	}
	return nil
}

// frame assembles one injection frame: every live contact must be present
// in every frame, so moves and ups carry the untouched contacts as
// UPDATE entries.
func (s *winSink) frame(changed map[int]uint32, positions map[int]stick.Vector) []pointerTouchInfo {
	contacts := make([]pointerTouchInfo, 0, len(s.down)+len(changed))
	seen := make(map[int]bool, len(s.down))
	for id, flags := range changed {
		pos, ok := positions[id]
		if !ok {
			pos = s.down[id]
		}
		contacts = append(contacts, s.contact(id, pos, flags))
		seen[id] = true
	}
	for id, pos := range s.down {
		if !seen[id] {
			contacts = append(contacts, s.contact(id, pos, pointerFlagUpdate|pointerFlagInRange|pointerFlagInContact))
		}
	}
	return contacts
}

func (s *winSink) TouchDown(id int, pos stick.Vector) error {
	frame := s.frame(
		map[int]uint32{id: pointerFlagDown | pointerFlagInRange | pointerFlagInContact},
		map[int]stick.Vector{id: pos},
	)
	if err := s.injectTouch(frame); err != nil {
		return err
	}
	s.down[id] = pos
	return nil
}

func (s *winSink) TouchMove(id int, pos stick.Vector) error {
	if _, ok := s.down[id]; !ok {
		return fmt.Errorf("touch move for contact %d that is not down", id)
	}
	frame := s.frame(
		map[int]uint32{id: pointerFlagUpdate | pointerFlagInRange | pointerFlagInContact},
		map[int]stick.Vector{id: pos},
	)
	if err := s.injectTouch(frame); err != nil {
		return err
	}
	s.down[id] = pos
	return nil
}

func (s *winSink) TouchUp(id int) error {
	if _, ok := s.down[id]; !ok {
		return nil
	}
	frame := s.frame(map[int]uint32{id: pointerFlagUp}, nil)
	if err := s.injectTouch(frame); err != nil {
		return err
	}
	delete(s.down, id)
	return nil
}

func (s *winSink) TouchMoveMany(points []pad.TouchPoint) error {
	changed := make(map[int]uint32, len(points))
	positions := make(map[int]stick.Vector, len(points))
	for _, p := range points {
		if _, ok := s.down[p.ID]; !ok {
			return fmt.Errorf("touch move for contact %d that is not down", p.ID)
		}
		changed[p.ID] = pointerFlagUpdate | pointerFlagInRange | pointerFlagInContact
		positions[p.ID] = p.Pos
	}
	if err := s.injectTouch(s.frame(changed, positions)); err != nil {
		return err
	}
	for _, p := range points {
		s.down[p.ID] = p.Pos
	}
	return nil
}

func (s *winSink) sendInput(ptr unsafe.Pointer, size uintptr) error {
	ret, _, err := procSendInput.Call(1, uintptr(ptr), size)
	if ret != 1 {
		return fmt.Errorf("SendInput: %w", err)
	}
	return nil
}

func (s *winSink) MouseMove(pos stick.Vector) error {
	x, y := s.cfg.point(pos)
	// SendInput absolute coordinates span 0..65535 over the primary screen.
	in := mouseInputPacket{
		Type: inputMouse,
		Mi: mouseInput{
			Dx:    int32(x) * 65535 / s.screenW,
			Dy:    int32(y) * 65535 / s.screenH,
			Flags: mouseEventfMove | mouseEventfAbsolute,
		},
	}
	return s.sendInput(unsafe.Pointer(&in), unsafe.Sizeof(in))
}

func (s *winSink) MouseButton(down bool) error {
	flags := uint32(mouseEventfLeftUp)
	if down {
		flags = mouseEventfLeftDown
	}
	in := mouseInputPacket{Type: inputMouse, Mi: mouseInput{Flags: flags}}
	return s.sendInput(unsafe.Pointer(&in), unsafe.Sizeof(in))
}

func (s *winSink) KeyEvent(key int, down bool) error {
	if key < 1 || key > 8 {
		return fmt.Errorf("key %d out of digit range", key)
	}
	var flags uint32
	if !down {
		flags = keyEventfKeyUp
	}
	in := keybdInputPacket{
		Type: inputKeyboard,
		Ki: keybdInput{
			Vk:    uint16('0' + key),
			Flags: flags,
		},
	}
	return s.sendInput(unsafe.Pointer(&in), unsafe.Sizeof(in))
}

func (s *winSink) Close() error {
	for id := range s.down {
		_ = s.TouchUp(id)
	}
	return nil
}
