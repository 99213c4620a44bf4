package log

import (
	"fmt"
	"io"
	"sync"
	"time"
)

// RawLogger handles the raw injection event log with optional file output.
// One line per synthetic input event, timestamped, suitable for replaying a
// session or diffing two runs of the same chart.
type RawLogger interface {
	Event(kind string, detail string)
}

// rawLogger implements RawLogger with thread-safe log.
type rawLogger struct {
	w  io.Writer
	mu sync.Mutex
}

// NewRaw creates a new RawLogger. If writer is nil, returns a no-op logger.
func NewRaw(w io.Writer) RawLogger {
	return &rawLogger{w: w}
}

// Event emits a single-line event log with timestamp, event kind and detail.
func (r *rawLogger) Event(kind string, detail string) {
	if r.w == nil {
		return
	}

	line := fmt.Sprintf("%s %-10s %s\n",
		time.Now().Format("2006/01/02 15:04:05.000"),
		kind,
		detail)

	r.mu.Lock()
	_, _ = r.w.Write([]byte(line))
	r.mu.Unlock()
}
