package classifier

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/lox/handtree/internal/hand"
)

func ctxWith(big float64) Context {
	return Context{Blinds: hand.Blinds{Small: big / 2, Big: big}}
}

func TestPassThroughBuckets(t *testing.T) {
	tests := []struct {
		actionType hand.ActionType
		want       Bucket
	}{
		{hand.Fold, BucketFold},
		{hand.Check, BucketCheck},
		{hand.Call, BucketCall},
		{hand.Ante, BucketAnte},
		{hand.SmallBlind, BucketSmallBlind},
		{hand.BigBlind, BucketBigBlind},
	}

	for _, tt := range tests {
		bucket, ok := Classify(hand.RawAction{Type: tt.actionType, Street: hand.Preflop}, ctxWith(1))
		assert.True(t, ok)
		assert.Equal(t, tt.want, bucket)
	}
}

func TestUnknownActionCodeDropped(t *testing.T) {
	_, ok := Classify(hand.RawAction{Type: hand.ActionType(42)}, ctxWith(1))
	assert.False(t, ok, "unknown codes are dropped, not classified")
}

func TestPreflopRaiseTiers(t *testing.T) {
	tests := []struct {
		amount float64
		want   Bucket
	}{
		{2.0, BucketSmallRaisePreflop},
		{2.2, BucketSmallRaisePreflop},
		{2.5, BucketMidRaisePreflop}, // 2.5bb falls in (2.2, 2.7]
		{2.7, BucketMidRaisePreflop},
		{3.0, BucketBigRaisePreflop},
		{3.2, BucketBigRaisePreflop},
		{4.0, BucketConsiderAllInPreflop},
	}

	for _, tt := range tests {
		action := hand.RawAction{Type: hand.Raise, Street: hand.Preflop, Amount: tt.amount}
		bucket, ok := Classify(action, ctxWith(1))
		assert.True(t, ok)
		assert.Equal(t, tt.want, bucket, "raise to %.1fbb", tt.amount)
	}
}

func TestPreflopRaiseAllInPromotion(t *testing.T) {
	ctx := ctxWith(1)
	ctx.RemainingStack = 10

	// 9.9 >= 0.98*10, so this is a shove even though the bb ratio is huge
	action := hand.RawAction{Type: hand.Raise, Street: hand.Preflop, Amount: 9.9}
	bucket, _ := Classify(action, ctx)
	assert.Equal(t, BucketAllInPreflop, bucket)

	// Well short of the stack: classified by bb ratio
	action.Amount = 3.0
	bucket, _ = Classify(action, ctx)
	assert.Equal(t, BucketBigRaisePreflop, bucket)
}

func TestPostflopBetTiers(t *testing.T) {
	tests := []struct {
		amount, pot float64
		want        Bucket
	}{
		{3, 10, BucketSmallBetPostflop},   // 0.30
		{3.3, 10, BucketSmallBetPostflop}, // exactly 0.33
		{5, 10, BucketMidBetPostflop},     // 0.50
		{6.6, 10, BucketMidBetPostflop},   // exactly 0.66
		{8, 10, BucketBigBetPostflop},     // 0.80
		{15, 10, BucketBigBetPostflop},    // overbet
	}

	for _, tt := range tests {
		action := hand.RawAction{Type: hand.Bet, Street: hand.Flop, Amount: tt.amount, PotBefore: tt.pot}
		bucket, _ := Classify(action, ctxWith(1))
		assert.Equal(t, tt.want, bucket, "bet %.1f into %.1f", tt.amount, tt.pot)
	}
}

func TestPreflopBetIsUnusual(t *testing.T) {
	action := hand.RawAction{Type: hand.Bet, Street: hand.Preflop, Amount: 3, PotBefore: 1.5}
	bucket, _ := Classify(action, ctxWith(1))
	assert.Equal(t, BucketUnusualBetPreflop, bucket)
}

func TestZeroPotBetFallsInSmallestTier(t *testing.T) {
	action := hand.RawAction{Type: hand.Bet, Street: hand.Flop, Amount: 5, PotBefore: 0}
	bucket, _ := Classify(action, ctxWith(1))
	assert.Equal(t, BucketSmallBetPostflop, bucket)
}

func TestZeroBigBlindRaiseFallsInSmallestTier(t *testing.T) {
	action := hand.RawAction{Type: hand.Raise, Street: hand.Preflop, Amount: 5}
	bucket, _ := Classify(action, ctxWith(0))
	assert.Equal(t, BucketSmallRaisePreflop, bucket)
}

func TestPostflopRaiseUsesEffectiveRaise(t *testing.T) {
	// Opponent bet 10 this street, we have 0 in: call amount is 10.
	// Raising to 25 is an effective raise of 15 into pot 20+10=30, ratio 0.5.
	ctx := ctxWith(1)
	ctx.RoundMax = 10
	action := hand.RawAction{Type: hand.Raise, Street: hand.Turn, Amount: 25, PotBefore: 20}
	bucket, _ := Classify(action, ctx)
	assert.Equal(t, BucketMidRaisePostflop, bucket)

	// Small click-back raise: 12 total, effective 2 into 30, ratio ~0.067
	action.Amount = 12
	bucket, _ = Classify(action, ctx)
	assert.Equal(t, BucketSmallRaisePostflop, bucket)

	// Pot-sized raise and beyond
	action.Amount = 45
	bucket, _ = Classify(action, ctx)
	assert.Equal(t, BucketBigRaisePostflop, bucket)
}

func TestAllInCallMargin(t *testing.T) {
	// Opponent shoved for 100 this street; our all-in for up to 105 is a call.
	ctx := ctxWith(1)
	ctx.RoundMax = 100

	for _, tt := range []struct {
		amount float64
		want   Bucket
	}{
		{100, BucketAllInCall},
		{105, BucketAllInCall}, // within the 1.05 margin
		{106, BucketAllInPostflop},
		{200, BucketAllInPostflop},
	} {
		action := hand.RawAction{Type: hand.AllIn, Street: hand.River, Amount: tt.amount}
		bucket, _ := Classify(action, ctx)
		assert.Equal(t, tt.want, bucket, "all-in for %.0f facing %.0f", tt.amount, ctx.RoundMax)
	}
}

func TestAllInRaiseByStreet(t *testing.T) {
	action := hand.RawAction{Type: hand.AllIn, Street: hand.Preflop, Amount: 50}
	bucket, _ := Classify(action, ctxWith(1))
	assert.Equal(t, BucketAllInPreflop, bucket)

	action.Street = hand.Flop
	bucket, _ = Classify(action, ctxWith(1))
	assert.Equal(t, BucketAllInPostflop, bucket)
}

func TestBucketPredicates(t *testing.T) {
	assert.True(t, BucketFold.IsTerminal())
	assert.False(t, BucketCall.IsTerminal())

	assert.True(t, BucketAllInPreflop.IsAllInRaise())
	assert.True(t, BucketAllInPostflop.IsAllInRaise())
	assert.False(t, BucketAllInCall.IsAllInRaise())

	assert.True(t, BucketCall.ClosesFacingAllIn())
	assert.True(t, BucketAllInCall.ClosesFacingAllIn())
	assert.False(t, BucketCheck.ClosesFacingAllIn())
}
