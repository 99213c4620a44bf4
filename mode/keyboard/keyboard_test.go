package keyboard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/internal/padtest"
	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/pad"
	"github.com/Jackbuthesuck/Controller-Wrapper-For-Sentakki-sub000/stick"
)

func newMachine(t *testing.T) (pad.Mode, *padtest.RecordingSink) {
	t.Helper()
	sink := &padtest.RecordingSink{}
	return New(sink, padtest.DiscardLogger()), sink
}

func drive(m pad.Mode, states ...pad.State) {
	prev := pad.State{}
	for _, st := range states {
		m.Update(pad.FrameBetween(st, prev))
		prev = st
	}
}

// sectorVector returns a stick position in the middle of the given sector.
func sectorVector(s stick.Sector) stick.Vector {
	return s.ArcCenter()
}

func TestSectorMapsToDigit(t *testing.T) {
	for s := stick.Sector(0); s < stick.Sectors; s++ {
		m, sink := newMachine(t)
		drive(m, pad.State{Left: sectorVector(s), PrimaryLeft: true})

		keys := sink.OfKind("key")
		require.Len(t, keys, 1)
		assert.Equal(t, int(s)+1, keys[0].Key)
		assert.True(t, keys[0].Down)
	}
}

func TestKeyChangeReleasesOldBeforePressingNew(t *testing.T) {
	m, sink := newMachine(t)

	drive(m,
		pad.State{Left: sectorVector(2), PrimaryLeft: true},
		pad.State{Left: sectorVector(4), PrimaryLeft: true},
	)

	keys := sink.OfKind("key")
	require.Len(t, keys, 3)
	assert.Equal(t, padtest.Event{Kind: "key", Key: 3, Down: true}, keys[0])
	assert.Equal(t, padtest.Event{Kind: "key", Key: 3, Down: false}, keys[1])
	assert.Equal(t, padtest.Event{Kind: "key", Key: 5, Down: true}, keys[2])
}

func TestSameSectorHoldsWithoutRepeat(t *testing.T) {
	m, sink := newMachine(t)

	st := pad.State{Left: sectorVector(1), PrimaryLeft: true}
	drive(m, st, st, st)

	assert.Len(t, sink.OfKind("key"), 1, "no key repeat while the sector is stable")
}

func TestReleaseDropsKey(t *testing.T) {
	m, sink := newMachine(t)

	drive(m,
		pad.State{Left: sectorVector(0), PrimaryLeft: true},
		pad.State{Left: sectorVector(0)},
	)

	keys := sink.OfKind("key")
	require.Len(t, keys, 2)
	assert.False(t, keys[1].Down)
}

func TestCenteredStickDropsKey(t *testing.T) {
	m, sink := newMachine(t)

	drive(m,
		pad.State{Left: sectorVector(0), PrimaryLeft: true},
		pad.State{PrimaryLeft: true}, // still held, but centered
	)

	keys := sink.OfKind("key")
	require.Len(t, keys, 2)
	assert.False(t, keys[1].Down)
}

func TestConflictFirstWriterWins(t *testing.T) {
	m, sink := newMachine(t)

	// Left claims digit 3 (sector 2). Right then steers into the same
	// sector: it must emit nothing and left's key stays held.
	drive(m,
		pad.State{Left: sectorVector(2), PrimaryLeft: true},
		pad.State{Left: sectorVector(2), Right: sectorVector(2), PrimaryLeft: true, PrimaryRight: true},
	)

	keys := sink.OfKind("key")
	require.Len(t, keys, 1, "right stick is locked out of the contested digit")
	assert.Equal(t, 3, keys[0].Key)
	assert.True(t, keys[0].Down)
}

func TestConflictReleasesLosersOwnKey(t *testing.T) {
	m, sink := newMachine(t)

	drive(m,
		// Right holds digit 5 (sector 4); left holds digit 3 (sector 2).
		pad.State{Left: sectorVector(2), Right: sectorVector(4), PrimaryLeft: true, PrimaryRight: true},
		// Right steers onto left's digit: it must release 5 and press nothing.
		pad.State{Left: sectorVector(2), Right: sectorVector(2), PrimaryLeft: true, PrimaryRight: true},
	)

	keys := sink.OfKind("key")
	require.Len(t, keys, 3)
	assert.Equal(t, padtest.Event{Kind: "key", Key: 3, Down: true}, keys[0])
	assert.Equal(t, padtest.Event{Kind: "key", Key: 5, Down: true}, keys[1])
	assert.Equal(t, padtest.Event{Kind: "key", Key: 5, Down: false}, keys[2])
}

func TestConflictResolvesWhenOwnerMovesAway(t *testing.T) {
	m, sink := newMachine(t)

	drive(m,
		pad.State{Left: sectorVector(2), Right: sectorVector(2), PrimaryLeft: true, PrimaryRight: true},
		// Left moves off the contested digit; right may now claim it.
		pad.State{Left: sectorVector(6), Right: sectorVector(2), PrimaryLeft: true, PrimaryRight: true},
	)

	keys := sink.OfKind("key")
	require.Len(t, keys, 4)
	// Tick 1: left claims 3 (right locked out). Tick 2: left swaps 3 for 7,
	// then right claims the freed 3.
	assert.Equal(t, padtest.Event{Kind: "key", Key: 3, Down: true}, keys[0])
	assert.Equal(t, padtest.Event{Kind: "key", Key: 3, Down: false}, keys[1])
	assert.Equal(t, padtest.Event{Kind: "key", Key: 7, Down: true}, keys[2])
	assert.Equal(t, padtest.Event{Kind: "key", Key: 3, Down: true}, keys[3])
}

func TestReleaseAll(t *testing.T) {
	m, sink := newMachine(t)

	drive(m, pad.State{Left: sectorVector(0), Right: sectorVector(4), PrimaryLeft: true, PrimaryRight: true})
	sink.Reset()

	m.ReleaseAll()
	keys := sink.OfKind("key")
	require.Len(t, keys, 2)
	assert.False(t, keys[0].Down)
	assert.False(t, keys[1].Down)
}
