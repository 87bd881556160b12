// Package classifier maps raw hand-history actions to semantic buckets.
// Classification is a pure function of the action and its betting context,
// so it can run concurrently across hands without coordination.
package classifier

import "github.com/lox/handtree/internal/hand"

// Bucket is the semantic category assigned to an action. Buckets are the
// edge labels of the decision tree.
type Bucket string

const (
	BucketFold       Bucket = "fold"
	BucketCheck      Bucket = "check"
	BucketCall       Bucket = "call"
	BucketAnte       Bucket = "ante"
	BucketSmallBlind Bucket = "small_blind"
	BucketBigBlind   Bucket = "big_blind"

	BucketAllInCall     Bucket = "all_in_call"
	BucketAllInPreflop  Bucket = "all_in_preflop"
	BucketAllInPostflop Bucket = "all_in_postflop"

	BucketSmallBetPostflop  Bucket = "small_bet_postflop"
	BucketMidBetPostflop    Bucket = "mid_bet_postflop"
	BucketBigBetPostflop    Bucket = "big_bet_postflop"
	BucketUnusualBetPreflop Bucket = "unusual_bet_preflop"

	BucketSmallRaisePreflop    Bucket = "small_raise_preflop"
	BucketMidRaisePreflop      Bucket = "mid_raise_preflop"
	BucketBigRaisePreflop      Bucket = "big_raise_preflop"
	BucketConsiderAllInPreflop Bucket = "consider_all_in_preflop"

	BucketSmallRaisePostflop Bucket = "small_raise_postflop"
	BucketMidRaisePostflop   Bucket = "mid_raise_postflop"
	BucketBigRaisePostflop   Bucket = "big_raise_postflop"
)

// AllInCallTolerance is the margin applied when deciding whether an all-in
// matches a pending call amount. Recorded amounts carry rounding noise from
// currency conversion, so an all-in within 5% of the exact call amount is
// treated as a call. Tunable, not a guaranteed-exact threshold.
const AllInCallTolerance = 1.05

// allInStackFraction promotes a preflop raise to an all-in when it commits
// nearly the whole remaining stack.
const allInStackFraction = 0.98

// Bet and postflop-raise pot-ratio tiers.
const (
	smallTierMax = 0.33
	midTierMax   = 0.66
)

// Preflop raise tiers in big blinds.
const (
	smallRaiseMax = 2.2
	midRaiseMax   = 2.7
	bigRaiseMax   = 3.2
)

// Context carries the betting state needed to classify one action.
type Context struct {
	Blinds hand.Blinds

	// RoundContribution is how much the actor has already put in this
	// street; RoundMax is the largest per-player contribution this street.
	RoundContribution float64
	RoundMax          float64

	// RemainingStack is the actor's stack before the action. Only
	// consulted for preflop raises; zero means unknown.
	RemainingStack float64
}

// IsTerminal reports whether a bucket ends its branch outright.
// All-in calls are terminal only when the branch is facing an all-in,
// which the sequencer tracks; fold always is.
func (b Bucket) IsTerminal() bool {
	return b == BucketFold
}

// IsAllInRaise reports whether the bucket represents an all-in that the
// opponent still has to respond to.
func (b Bucket) IsAllInRaise() bool {
	return b == BucketAllInPreflop || b == BucketAllInPostflop
}

// ClosesFacingAllIn reports whether the bucket completes a facing-all-in
// decision point.
func (b Bucket) ClosesFacingAllIn() bool {
	return b == BucketCall || b == BucketAllInCall
}

// Classify maps a raw action to its bucket. The second return is false when
// the action code is outside the known set; such actions are dropped from
// the tree rather than treated as errors.
func Classify(a hand.RawAction, ctx Context) (Bucket, bool) {
	switch a.Type {
	case hand.Fold:
		return BucketFold, true
	case hand.Check:
		return BucketCheck, true
	case hand.Ante:
		return BucketAnte, true
	case hand.SmallBlind:
		return BucketSmallBlind, true
	case hand.BigBlind:
		return BucketBigBlind, true
	case hand.Call:
		return BucketCall, true
	case hand.AllIn:
		return classifyAllIn(a, ctx), true
	case hand.Bet:
		return classifyBet(a), true
	case hand.Raise:
		return classifyRaise(a, ctx), true
	default:
		return "", false
	}
}

func classifyAllIn(a hand.RawAction, ctx Context) Bucket {
	// An all-in at or just above the pending call amount is a call of an
	// opponent's all-in, not a fresh shove.
	if a.Amount <= requiredCall(ctx)*AllInCallTolerance {
		return BucketAllInCall
	}
	if a.Street == hand.Preflop {
		return BucketAllInPreflop
	}
	return BucketAllInPostflop
}

func classifyBet(a hand.RawAction) Bucket {
	// Bets only occur postflop; a preflop bet indicates a malformed log.
	if a.Street == hand.Preflop {
		return BucketUnusualBetPreflop
	}
	ratio := 0.0
	if a.PotBefore > 0 {
		ratio = a.Amount / a.PotBefore
	}
	switch {
	case ratio <= smallTierMax:
		return BucketSmallBetPostflop
	case ratio <= midTierMax:
		return BucketMidBetPostflop
	default:
		return BucketBigBetPostflop
	}
}

func classifyRaise(a hand.RawAction, ctx Context) Bucket {
	if a.Street == hand.Preflop {
		return classifyPreflopRaise(a, ctx)
	}

	callAmount := requiredCall(ctx)
	effectiveRaise := a.Amount - callAmount
	effectivePot := a.PotBefore + callAmount
	ratio := 0.0
	if effectivePot > 0 {
		ratio = effectiveRaise / effectivePot
	}
	switch {
	case ratio <= smallTierMax:
		return BucketSmallRaisePostflop
	case ratio <= midTierMax:
		return BucketMidRaisePostflop
	default:
		return BucketBigRaisePostflop
	}
}

func classifyPreflopRaise(a hand.RawAction, ctx Context) Bucket {
	if ctx.RemainingStack > 0 && a.Amount >= allInStackFraction*ctx.RemainingStack {
		return BucketAllInPreflop
	}

	ratio := 0.0
	if ctx.Blinds.Big != 0 {
		ratio = a.Amount / ctx.Blinds.Big
	}
	switch {
	case ratio <= smallRaiseMax:
		return BucketSmallRaisePreflop
	case ratio <= midRaiseMax:
		return BucketMidRaisePreflop
	case ratio <= bigRaiseMax:
		return BucketBigRaisePreflop
	default:
		return BucketConsiderAllInPreflop
	}
}

// requiredCall is the amount the actor must add to match the street's
// largest contribution.
func requiredCall(ctx Context) float64 {
	call := ctx.RoundMax - ctx.RoundContribution
	if call < 0 {
		return 0
	}
	return call
}
