package inject

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/internal/log"
	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/internal/padtest"
	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/stick"
)

func TestObservedTracesEveryEvent(t *testing.T) {
	inner := &padtest.RecordingSink{}
	var buf bytes.Buffer
	sink := Observed(inner, padtest.DiscardLogger(), log.NewRaw(&buf), 3)

	require.NoError(t, sink.TouchDown(0, stick.Vector{X: 1}))
	require.NoError(t, sink.TouchUp(0))
	require.NoError(t, sink.KeyEvent(5, true))

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, lines[0], "touchDown")
	assert.Contains(t, lines[0], "id=0")
	assert.Contains(t, lines[2], "key=5 down=true")

	// Events still reach the wrapped sink.
	assert.Equal(t, []string{"touchDown", "touchUp", "key"}, inner.Kinds())
}

func TestObservedSuppressesRepeatedFailures(t *testing.T) {
	inner := &padtest.RecordingSink{Err: errors.New("injection rejected")}
	var logBuf bytes.Buffer
	logger := padtest.BufferLogger(&logBuf)
	sink := Observed(inner, logger, log.NewRaw(nil), 3)

	for i := 0; i < 10; i++ {
		_ = sink.TouchMove(0, stick.Vector{})
	}

	out := logBuf.String()
	assert.Equal(t, 3, strings.Count(out, "injection failed"))
	assert.Equal(t, 1, strings.Count(out, "further injection errors suppressed"))
}
