package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/lox/handtree/internal/classifier"
	"github.com/lox/handtree/internal/hand"
)

type fakeSource struct {
	hands []*hand.Hand
	err   error
}

func (s *fakeSource) Hands(ctx context.Context, filter Filter) ([]*hand.Hand, error) {
	return s.hands, s.err
}

func raiseCallHand(id string) *hand.Hand {
	return &hand.Hand{
		ID:     id,
		Blinds: hand.Blinds{Small: 0.5, Big: 1},
		Players: []hand.Player{
			{Name: "hero", Position: "BTN/SB", InitialStack: 100, IsHero: true},
			{Name: "villain", Position: "BB", InitialStack: 100},
		},
		Actions: []hand.RawAction{
			{Actor: "hero", Position: "BTN/SB", Street: hand.Preflop, Type: hand.Raise, Amount: 2, Order: 1, IsHero: true},
			{Actor: "villain", Position: "BB", Street: hand.Preflop, Type: hand.Call, Amount: 1, Order: 2},
		},
	}
}

func manyHands(n int) []*hand.Hand {
	hands := make([]*hand.Hand, 0, n)
	for i := 0; i < n; i++ {
		hands = append(hands, raiseCallHand("h"))
	}
	return hands
}

func TestImportBuildsSnapshot(t *testing.T) {
	src := &fakeSource{hands: manyHands(20)}
	imp := New(src, nil, 4)

	res, err := imp.Import(context.Background(), Filter{GameType: GameTypeHeadsUp})
	require.NoError(t, err)
	require.NotNil(t, res.Snapshot)

	assert.Equal(t, 20, res.Snapshot.HandCount)
	assert.Zero(t, res.Skipped)

	btn := res.Snapshot.Root.Children["preflop"].Children["BTN/SB"]
	require.NotNil(t, btn)
	assert.Equal(t, 20, btn.Actions[classifier.BucketSmallRaisePreflop])
}

func TestBuildWorkerCountIndependence(t *testing.T) {
	hands := manyHands(50)

	serial, _, err := Build(context.Background(), hands, 1)
	require.NoError(t, err)
	parallel, _, err := Build(context.Background(), hands, 8)
	require.NoError(t, err)

	a, b := serial.Publish(), parallel.Publish()
	assert.Equal(t, a.HandCount, b.HandCount)

	btnA := a.Root.Children["preflop"].Children["BTN/SB"]
	btnB := b.Root.Children["preflop"].Children["BTN/SB"]
	assert.Equal(t, btnA.Actions, btnB.Actions)
	assert.Equal(t, btnA.TotalCount, btnB.TotalCount)
}

func TestImportNoHands(t *testing.T) {
	imp := New(&fakeSource{}, nil, 1)

	_, err := imp.Import(context.Background(), Filter{GameType: GameTypeHeadsUp, MinStack: 20, MaxStack: 50})
	require.Error(t, err)

	var noHands *ErrNoHands
	require.ErrorAs(t, err, &noHands)
	assert.Equal(t, 20.0, noHands.Filter.MinStack)
	assert.Contains(t, err.Error(), "heads_up")
}

func TestImportSourceError(t *testing.T) {
	imp := New(&fakeSource{err: errors.New("connection refused")}, nil, 1)

	_, err := imp.Import(context.Background(), Filter{})
	require.Error(t, err)
	assert.ErrorContains(t, err, "loading hands")

	var noHands *ErrNoHands
	assert.False(t, errors.As(err, &noHands))
}

func TestBuildSkipsMalformedHands(t *testing.T) {
	hands := manyHands(5)
	hands = append(hands, nil)

	builder, skipped, err := Build(context.Background(), hands, 2)
	require.NoError(t, err)
	assert.Equal(t, 1, skipped)
	assert.Equal(t, 5, builder.HandCount())
}

func TestBuildCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, _, err := Build(ctx, manyHands(100), 4)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.Canceled)
}
