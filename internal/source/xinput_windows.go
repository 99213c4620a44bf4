//go:build windows

package source

import (
	"fmt"
	"log/slog"
	"unsafe"

	"golang.org/x/sys/windows"

	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/pad"
	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/stick"
)

const (
	errorDeviceNotConnected = 1167

	xinputGamepadLeftThumb     = 0x0040
	xinputGamepadRightThumb    = 0x0080
	xinputGamepadLeftShoulder  = 0x0100
	xinputGamepadRightShoulder = 0x0200
)

type xinputGamepad struct {
	Buttons      uint16
	LeftTrigger  uint8
	RightTrigger uint8
	ThumbLX      int16
	ThumbLY      int16
	ThumbRX      int16
	ThumbRY      int16
}

type xinputState struct {
	PacketNumber uint32
	Gamepad      xinputGamepad
}

// xinputSource reads one controller slot through XInputGetState. The DLL
// probe order covers Windows 8+ down to the redistributable-only 9.1.0.
type xinputSource struct {
	proc   *windows.LazyProc
	pad    uint32
	thresh uint8
	logger *slog.Logger
}

func newPlatformSource(cfg Config, logger *slog.Logger) (pad.Source, error) {
	switch cfg.Backend {
	case "auto", "xinput":
	default:
		return nil, unsupportedBackend(cfg.Backend, "windows")
	}
	if cfg.Pad < 0 || cfg.Pad > 3 {
		return nil, fmt.Errorf("xinput pad index %d out of range 0-3", cfg.Pad)
	}

	var proc *windows.LazyProc
	for _, name := range []string{"xinput1_4.dll", "xinput1_3.dll", "xinput9_1_0.dll"} {
		dll := windows.NewLazySystemDLL(name)
		p := dll.NewProc("XInputGetState")
		if p.Find() == nil {
			logger.Debug("xinput loaded", "dll", name)
			proc = p
			break
		}
	}
	if proc == nil {
		return nil, fmt.Errorf("no xinput DLL found")
	}

	s := &xinputSource{
		proc:   proc,
		pad:    uint32(cfg.Pad),
		thresh: uint8(cfg.TriggerThreshold),
		logger: logger,
	}
	if _, err := s.Poll(); err != nil {
		return nil, fmt.Errorf("controller %d: %w", cfg.Pad, err)
	}
	return s, nil
}

func axis(v int16) float64 {
	return float64(v) / 32767
}

func (s *xinputSource) Poll() (pad.State, error) {
	var st xinputState
	ret, _, _ := s.proc.Call(uintptr(s.pad), uintptr(unsafe.Pointer(&st)))
	switch ret {
	case 0:
	case errorDeviceNotConnected:
		return pad.State{}, fmt.Errorf("controller %d not connected", s.pad)
	default:
		return pad.State{}, fmt.Errorf("XInputGetState: error %d", ret)
	}

	g := st.Gamepad
	out := pad.State{
		Left:         stick.Vector{X: axis(g.ThumbLX), Y: axis(g.ThumbLY)}.Clamped(),
		Right:        stick.Vector{X: axis(g.ThumbRX), Y: axis(g.ThumbRY)}.Clamped(),
		PrimaryLeft:  g.Buttons&xinputGamepadLeftShoulder != 0,
		PrimaryRight: g.Buttons&xinputGamepadRightShoulder != 0,
		LockLeft:     g.LeftTrigger > s.thresh,
		LockRight:    g.RightTrigger > s.thresh,
		ClickLeft:    g.Buttons&xinputGamepadLeftThumb != 0,
		ClickRight:   g.Buttons&xinputGamepadRightThumb != 0,
	}
	return out, nil
}

// Reacquire is a no-op: XInputGetState rebinds by itself once the
// controller returns, so the next Poll simply succeeds.
func (s *xinputSource) Reacquire() error { return nil }

func (s *xinputSource) Close() error { return nil }
