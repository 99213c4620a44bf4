package source

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/internal/padtest"
	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/pad"
)

func TestStubSourceReadsCentered(t *testing.T) {
	s, err := New(Config{Backend: "stub", TriggerThreshold: 128}, padtest.DiscardLogger())
	require.NoError(t, err)

	st, err := s.Poll()
	require.NoError(t, err)
	assert.Equal(t, pad.State{}, st)
	assert.NoError(t, s.Reacquire())
	assert.NoError(t, s.Close())
}

func TestTriggerThresholdRange(t *testing.T) {
	for _, v := range []int{0, 128, 255} {
		_, err := New(Config{Backend: "stub", TriggerThreshold: v}, padtest.DiscardLogger())
		assert.NoError(t, err, "threshold %d", v)
	}

	// The threshold narrows to a byte at the backend boundary, so values
	// outside 0-255 must be rejected here rather than silently truncated.
	for _, v := range []int{-1, 256, 1000} {
		_, err := New(Config{Backend: "stub", TriggerThreshold: v}, padtest.DiscardLogger())
		assert.Error(t, err, "threshold %d", v)
	}
}
