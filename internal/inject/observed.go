package inject

import (
	"fmt"
	"log/slog"

	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/internal/log"
	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/pad"
	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/stick"
)

// Observed wraps a sink with the two cross-cutting concerns every backend
// shares: the raw per-event trace and failure logging. Injection failures
// are logged up to logLimit times, then counted silently; a flood of
// identical failures at 60 Hz would otherwise drown the log.
func Observed(inner pad.Sink, logger *slog.Logger, raw log.RawLogger, logLimit int) pad.Sink {
	if logLimit <= 0 {
		logLimit = 3
	}
	return &observedSink{inner: inner, logger: logger, raw: raw, logLimit: logLimit}
}

type observedSink struct {
	inner    pad.Sink
	logger   *slog.Logger
	raw      log.RawLogger
	logLimit int
	failures int
}

func (o *observedSink) note(kind, detail string, err error) error {
	o.raw.Event(kind, detail)
	if err == nil {
		return nil
	}
	o.failures++
	if o.failures <= o.logLimit {
		o.logger.Error("injection failed", "event", kind, "error", err)
		if o.failures == o.logLimit {
			o.logger.Error("further injection errors suppressed")
		}
	}
	return err
}

func (o *observedSink) TouchDown(id int, pos stick.Vector) error {
	return o.note("touchDown", fmt.Sprintf("id=%d x=%.3f y=%.3f", id, pos.X, pos.Y), o.inner.TouchDown(id, pos))
}

func (o *observedSink) TouchMove(id int, pos stick.Vector) error {
	return o.note("touchMove", fmt.Sprintf("id=%d x=%.3f y=%.3f", id, pos.X, pos.Y), o.inner.TouchMove(id, pos))
}

func (o *observedSink) TouchUp(id int) error {
	return o.note("touchUp", fmt.Sprintf("id=%d", id), o.inner.TouchUp(id))
}

func (o *observedSink) TouchMoveMany(points []pad.TouchPoint) error {
	detail := ""
	for i, p := range points {
		if i > 0 {
			detail += " "
		}
		detail += fmt.Sprintf("id=%d x=%.3f y=%.3f", p.ID, p.Pos.X, p.Pos.Y)
	}
	return o.note("touchMulti", detail, o.inner.TouchMoveMany(points))
}

func (o *observedSink) MouseMove(pos stick.Vector) error {
	return o.note("mouseMove", fmt.Sprintf("x=%.3f y=%.3f", pos.X, pos.Y), o.inner.MouseMove(pos))
}

func (o *observedSink) MouseButton(down bool) error {
	return o.note("mouseBtn", fmt.Sprintf("down=%t", down), o.inner.MouseButton(down))
}

func (o *observedSink) KeyEvent(key int, down bool) error {
	return o.note("key", fmt.Sprintf("key=%d down=%t", key, down), o.inner.KeyEvent(key, down))
}

func (o *observedSink) Close() error {
	return o.inner.Close()
}
