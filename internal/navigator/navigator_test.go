package navigator

import (
	"testing"
	"time"

	"github.com/coder/quartz"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/handtree/internal/classifier"
	"github.com/lox/handtree/internal/tree"
)

func sampleSnapshot() *tree.Snapshot {
	b := tree.NewBuilder()
	btn := b.Street("preflop").Child("BTN/SB")
	btn.AddAction(classifier.BucketSmallRaisePreflop, true)
	bb := btn.Child(string(classifier.BucketSmallRaisePreflop)).Child("BB")
	bb.AddAction(classifier.BucketCall, false)
	b.AddHands(1)
	return b.Publish()
}

func TestResolveRootSentinel(t *testing.T) {
	snap := sampleSnapshot()

	node, ok := Resolve(snap, Path{"root"})
	require.True(t, ok)
	assert.Same(t, snap.Root, node)

	// An empty path also lands on the root.
	node, ok = Resolve(snap, nil)
	require.True(t, ok)
	assert.Same(t, snap.Root, node)
}

func TestResolveWalksPath(t *testing.T) {
	snap := sampleSnapshot()

	node, ok := Resolve(snap, Path{"root", "preflop", "BTN/SB", "small_raise_preflop", "BB"})
	require.True(t, ok)
	assert.Equal(t, "BB", node.Name)
	assert.Equal(t, 1, node.Actions[classifier.BucketCall])
}

func TestResolveCompositeLabel(t *testing.T) {
	snap := sampleSnapshot()

	// Clients send display labels that accumulate ancestor names; only
	// the final hyphen-separated component addresses a node.
	node, ok := Resolve(snap, Path{"root", "preflop", "BTN/SB", "preflop-BTN/SB-small_raise_preflop"})
	require.True(t, ok)
	assert.Equal(t, "small_raise_preflop", node.Name)
}

func TestResolveMissing(t *testing.T) {
	snap := sampleSnapshot()

	node, ok := Resolve(snap, Path{"root", "preflop", "UTG"})
	assert.False(t, ok)
	assert.Nil(t, node)

	node, ok = Resolve(nil, Path{"root"})
	assert.False(t, ok)
	assert.Nil(t, node)
}

func TestKeyAndLabel(t *testing.T) {
	assert.Equal(t, "call", Key("preflop-BTN/SB-small_raise_preflop-BB-call"))
	assert.Equal(t, "flop", Key("flop"))

	p := Path{"root", "preflop", "BTN/SB"}
	assert.Equal(t, "preflop-BTN/SB", p.Label())
}

func TestCacheMemoizesPerSnapshot(t *testing.T) {
	clock := quartz.NewMock(t)
	cache := NewCache(8, clock)

	snapA := sampleSnapshot()
	snapB := sampleSnapshot()
	require.NotEqual(t, snapA.ID, snapB.ID)

	path := Path{"root", "preflop", "BTN/SB"}

	nodeA, ok := cache.Resolve(snapA, path)
	require.True(t, ok)
	nodeB, ok := cache.Resolve(snapB, path)
	require.True(t, ok)
	assert.NotSame(t, nodeA, nodeB, "entries are keyed per snapshot")

	again, ok := cache.Resolve(snapA, path)
	require.True(t, ok)
	assert.Same(t, nodeA, again)
	assert.Equal(t, 2, cache.Len())
}

func TestCacheMemoizesMisses(t *testing.T) {
	cache := NewCache(8, quartz.NewMock(t))
	snap := sampleSnapshot()

	_, ok := cache.Resolve(snap, Path{"root", "nope"})
	assert.False(t, ok)
	assert.Equal(t, 1, cache.Len(), "negative results are cached too")
}

func TestCacheEvictsLeastRecentlyUsed(t *testing.T) {
	clock := quartz.NewMock(t)
	cache := NewCache(2, clock)
	snap := sampleSnapshot()

	pathA := Path{"root", "preflop"}
	pathB := Path{"root", "flop"}
	pathC := Path{"root", "turn"}

	cache.Resolve(snap, pathA)
	clock.Advance(time.Second)
	cache.Resolve(snap, pathB)
	clock.Advance(time.Second)

	// Touch A so B becomes the oldest.
	cache.Resolve(snap, pathA)
	clock.Advance(time.Second)

	cache.Resolve(snap, pathC)
	assert.Equal(t, 2, cache.Len())

	cache.mu.Lock()
	_, hasA := cache.entries[snap.ID+"\x00preflop"]
	_, hasB := cache.entries[snap.ID+"\x00flop"]
	_, hasC := cache.entries[snap.ID+"\x00turn"]
	cache.mu.Unlock()

	assert.True(t, hasA, "recently used entry survives")
	assert.False(t, hasB, "least recently used entry evicted")
	assert.True(t, hasC)
}

func TestCacheClear(t *testing.T) {
	cache := NewCache(8, quartz.NewMock(t))
	snap := sampleSnapshot()

	cache.Resolve(snap, Path{"root", "preflop"})
	require.Equal(t, 1, cache.Len())

	cache.Clear()
	assert.Equal(t, 0, cache.Len())
}
