// Package ingest loads filtered hands from a source and folds them into a
// published tree snapshot using a bounded worker pool. Each worker
// sequences hands into its own partial tree; partials are merged after the
// pool drains, so the result is independent of scheduling order.
package ingest

import (
	"context"
	"fmt"
	"io"
	"runtime"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"golang.org/x/sync/errgroup"

	"github.com/lox/handtree/internal/hand"
	"github.com/lox/handtree/internal/sequencer"
	"github.com/lox/handtree/internal/tree"
)

// Filter narrows which hands a Source yields. Stack bounds are effective
// stacks in big blinds; zero values leave a dimension unconstrained.
type Filter struct {
	GameType string
	MinStack float64
	MaxStack float64
	MaxHands int
}

// GameTypeHeadsUp restricts a source to two-handed games.
const GameTypeHeadsUp = "heads_up"

// Source yields hands matching a filter. Implementations are expected to
// return hands with actions already in chronological order.
type Source interface {
	Hands(ctx context.Context, filter Filter) ([]*hand.Hand, error)
}

// ErrNoHands reports that a source yielded nothing for the given filter.
// It is a distinct failure from an empty tree: the caller asked for data
// that does not exist.
type ErrNoHands struct {
	Filter Filter
}

func (e *ErrNoHands) Error() string {
	return fmt.Sprintf("no hands matched filter (game_type=%q stacks=%g-%gbb)",
		e.Filter.GameType, e.Filter.MinStack, e.Filter.MaxStack)
}

// Result is a completed import.
type Result struct {
	Snapshot *tree.Snapshot
	Skipped  int
}

// Importer drives imports from a source into snapshots.
type Importer struct {
	source  Source
	logger  *log.Logger
	workers int
}

// New creates an importer. Workers defaults to the CPU count when
// non-positive; a nil logger discards output.
func New(source Source, logger *log.Logger, workers int) *Importer {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Importer{source: source, logger: logger, workers: workers}
}

// Import loads hands matching filter and builds a published snapshot.
// Individual malformed hands are skipped and counted rather than failing
// the whole import; an empty source result returns *ErrNoHands.
func (imp *Importer) Import(ctx context.Context, filter Filter) (*Result, error) {
	hands, err := imp.source.Hands(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("loading hands: %w", err)
	}
	if len(hands) == 0 {
		return nil, &ErrNoHands{Filter: filter}
	}
	imp.logger.Info("building tree", "hands", len(hands), "workers", imp.workers)

	builder, skipped, err := Build(ctx, hands, imp.workers)
	if err != nil {
		return nil, err
	}
	if skipped > 0 {
		imp.logger.Warn("skipped malformed hands", "count", skipped)
	}

	snap := builder.Publish()
	imp.logger.Info("published snapshot", "id", snap.ID, "hands", snap.HandCount)
	return &Result{Snapshot: snap, Skipped: skipped}, nil
}

// Build sequences hands across a worker pool and merges the partial trees
// into a single unpublished builder. The merged counts are identical for
// any worker count.
func Build(ctx context.Context, hands []*hand.Hand, workers int) (*tree.Builder, int, error) {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(hands) {
		workers = len(hands)
	}

	g, ctx := errgroup.WithContext(ctx)
	jobs := make(chan *hand.Hand)
	partials := make(chan *tree.Builder, workers)

	var skipped atomic.Int64

	g.Go(func() error {
		defer close(jobs)
		for _, h := range hands {
			select {
			case jobs <- h:
			case <-ctx.Done():
				return ctx.Err()
			}
		}
		return nil
	})

	for w := 0; w < workers; w++ {
		g.Go(func() error {
			partial := tree.NewBuilder()
			for h := range jobs {
				if b := sequenceHand(h, &skipped); b != nil {
					partial.MergeBuilder(b)
				}
				select {
				case <-ctx.Done():
					return ctx.Err()
				default:
				}
			}
			select {
			case partials <- partial:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		})
	}

	go func() {
		defer close(partials)
		g.Wait()
	}()

	merged := tree.NewBuilder()
	for partial := range partials {
		merged.MergeBuilder(partial)
	}

	if err := g.Wait(); err != nil {
		return nil, 0, err
	}
	return merged, int(skipped.Load()), nil
}

// sequenceHand sequences one hand, converting panics from malformed
// records into a skip.
func sequenceHand(h *hand.Hand, skipped *atomic.Int64) (b *tree.Builder) {
	defer func() {
		if recover() != nil {
			skipped.Add(1)
			b = nil
		}
	}()
	if h == nil {
		skipped.Add(1)
		return nil
	}
	return sequencer.Sequence(h)
}
