package driver

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/internal/padtest"
	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/pad"
	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/stick"

	_ "github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/mode/touch"
)

func newTouchDriver(t *testing.T, src *padtest.FakeSource) (*Driver, *padtest.RecordingSink) {
	t.Helper()
	sink := &padtest.RecordingSink{}
	mode, err := pad.NewMode("touch", sink, padtest.DiscardLogger())
	require.NoError(t, err)
	return New(Config{}, src, "touch", mode, padtest.DiscardLogger()), sink
}

func TestDeviceLossDrainsActiveTouch(t *testing.T) {
	lost := errors.New("device not connected")
	src := &padtest.FakeSource{Steps: []padtest.Step{
		{State: pad.State{Left: stick.Vector{X: 0, Y: 1}, PrimaryLeft: true}},
		{Err: lost},
		{Err: lost},
		{Err: lost},
	}}
	d, sink := newTouchDriver(t, src)

	for i := 0; i < 4; i++ {
		d.Tick()
	}

	// The first lost tick reads as all-released, which is a release edge
	// for the active slot: exactly one up, not a leaked contact.
	ups := sink.OfKind("touchUp")
	require.Len(t, ups, 1)
	assert.Equal(t, 0, ups[0].ID)

	assert.GreaterOrEqual(t, src.Reacquires, 1, "driver must attempt to reacquire")
}

func TestReacquireIsBounded(t *testing.T) {
	lost := errors.New("gone")
	src := &padtest.FakeSource{
		Steps:        []padtest.Step{{Err: lost}},
		ReacquireErr: lost,
	}
	d, _ := newTouchDriver(t, src)

	for i := 0; i < 32; i++ {
		d.Tick()
	}

	// One attempt per ReacquireEvery ticks, not one per tick.
	assert.Equal(t, 4, src.Reacquires)
}

func TestEdgesAreDerivedAcrossTicks(t *testing.T) {
	src := &padtest.FakeSource{Steps: []padtest.Step{
		{State: pad.State{Left: stick.Vector{X: 0, Y: 1}, PrimaryLeft: true}},
		{State: pad.State{Left: stick.Vector{X: 0, Y: 1}, PrimaryLeft: true}},
		{State: pad.State{Left: stick.Vector{X: 0, Y: 1}}},
	}}
	d, sink := newTouchDriver(t, src)

	d.Tick()
	d.Tick()
	d.Tick()

	// Press edge only on the first tick, release edge only on the last.
	assert.Equal(t, []string{"touchDown", "touchMove", "touchUp"}, sink.Kinds())
}

func TestRunReleasesEverythingOnCancel(t *testing.T) {
	src := &padtest.FakeSource{Steps: []padtest.Step{
		{State: pad.State{Left: stick.Vector{X: 0, Y: 1}, PrimaryLeft: true}},
	}}
	d, sink := newTouchDriver(t, src)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- d.Run(ctx) }()

	// Wait until the press has been observed. The snapshot is the only
	// part of the driver meant to be read from another goroutine.
	deadline := time.After(2 * time.Second)
	for !d.Snapshot().Left.Active {
		select {
		case <-deadline:
			t.Fatal("driver never polled")
		case <-time.After(5 * time.Millisecond):
		}
	}
	cancel()
	require.NoError(t, <-done)

	assert.Len(t, sink.OfKind("touchUp"), 1, "shutdown must release the active touch")
}

func TestSnapshotIsPublishedEveryTick(t *testing.T) {
	src := &padtest.FakeSource{Steps: []padtest.Step{
		{State: pad.State{Left: stick.Vector{X: 0, Y: 1}, PrimaryLeft: true}},
	}}
	d, _ := newTouchDriver(t, src)

	var published []pad.Snapshot
	d.Publish = func(s pad.Snapshot) { published = append(published, s) }

	d.Tick()
	d.Tick()

	require.Len(t, published, 2)
	assert.Equal(t, uint64(1), published[0].Tick)
	assert.Equal(t, uint64(2), published[1].Tick)
	assert.Equal(t, "touch", published[0].Mode)
	assert.True(t, published[1].Left.Active)
	assert.Equal(t, 0, published[1].Left.Sector)

	snap := d.Snapshot()
	assert.Equal(t, published[1], snap)
}
