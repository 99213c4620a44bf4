//go:build linux

package source

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/internal/padtest"
	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/pad"
	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/stick"
)

func newTestJsSource() *jsSource {
	return &jsSource{
		logger: padtest.DiscardLogger(),
		index:  1,
		closed: make(chan struct{}),
	}
}

func TestJsPollErrorsBeforeConnect(t *testing.T) {
	s := newTestJsSource()
	s.connecting = true

	_, err := s.Poll()
	assert.Error(t, err)
}

func TestJsDeviceLossStopsLatchedState(t *testing.T) {
	s := newTestJsSource()
	s.connected = true
	s.state = pad.State{Left: stick.Vector{X: 0, Y: 1}, PrimaryLeft: true}

	st, err := s.Poll()
	require.NoError(t, err)
	require.True(t, st.PrimaryLeft)

	// The device goes away mid-gesture: Poll must start erroring instead
	// of replaying the held button forever, so the driver's loss handling
	// can drain the active touch.
	s.markLost()

	_, err = s.Poll()
	assert.Error(t, err)

	// The latched input must not leak into the next connection either.
	s.connected = true
	st, err = s.Poll()
	require.NoError(t, err)
	assert.Equal(t, pad.State{}, st)
}

func TestJsReacquireRedialsAfterLoss(t *testing.T) {
	s := newTestJsSource()
	var mu sync.Mutex
	dials := 0
	done := make(chan struct{}, 4)
	s.dial = func() {
		mu.Lock()
		dials++
		mu.Unlock()
		s.markLost() // attempt fails, stays disconnected
		done <- struct{}{}
	}

	s.connected = true
	require.NoError(t, s.Reacquire(), "healthy source must not redial")
	mu.Lock()
	assert.Equal(t, 0, dials)
	mu.Unlock()

	s.markLost()
	require.NoError(t, s.Reacquire())
	<-done
	mu.Lock()
	assert.Equal(t, 1, dials)
	mu.Unlock()

	// While an attempt is in flight, further calls must not stack dials.
	s.mu.Lock()
	s.connecting = true
	s.mu.Unlock()
	require.NoError(t, s.Reacquire())
	mu.Lock()
	assert.Equal(t, 1, dials)
	mu.Unlock()
}
