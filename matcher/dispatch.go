package matcher

import (
	"context"
	"iter"

	"github.com/coregx/tokmatch/attr"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

// callbackTable maps key IDs to callbacks for one snapshot. Keys without
// a callback are not present.
type callbackTable[C any] struct {
	slot map[uint64]int
	keys []string
	fns  []C
}

func newCallbackTable[C any]() callbackTable[C] {
	return callbackTable[C]{slot: make(map[uint64]int)}
}

func (t *callbackTable[C]) add(id uint64, key string, fn C) {
	t.slot[id] = len(t.fns)
	t.keys = append(t.keys, key)
	t.fns = append(t.fns, fn)
}

// dispatch walks matches in order and invokes the callback of every match
// whose key has one. The first failing callback stops the walk.
func dispatch[E any, C ~func(E, attr.Sequence, int, []Match) error](
	engine E, table *callbackTable[C], doc attr.Sequence, matches []Match,
) *CallbackError {
	if len(table.fns) == 0 {
		return nil
	}
	for i := range matches {
		slot, ok := table.slot[matches[i].ID]
		if !ok {
			continue
		}
		if err := table.fns[slot](engine, doc, i, matches); err != nil {
			return &CallbackError{Key: table.keys[slot], Index: i, Err: err}
		}
	}
	return nil
}

// callbackFailed records a failed dispatch.
func callbackFailed(cfg *Config, logger *zap.Logger, stats *counters, engine string, err *CallbackError) {
	stats.callbackErrors.Add(1)
	cfg.Metrics.callbackFailed(engine)
	logger.Warn("callback failed",
		zap.String("engine", engine),
		zap.String("key", err.Key),
		zap.Int("match", err.Index),
		zap.Error(err.Err))
}

// scanMany matches docs in batches of cfg.BatchSize. Within a batch the
// documents are matched in parallel, bounded by cfg.Workers; callbacks are
// then dispatched and results yielded one document at a time in input
// order. Registration changes made by callbacks apply from the next batch.
//
// A callback error is yielded with its document's result and iteration
// continues unless the consumer stops. Context cancellation ends the
// iteration with ctx.Err().
func scanMany[S any](
	ctx context.Context,
	cfg *Config,
	docs iter.Seq[attr.Sequence],
	match func(attr.Sequence) ([]Match, S),
	dispatch func(S, attr.Sequence, []Match) error,
) iter.Seq2[Result, error] {
	return func(yield func(Result, error) bool) {
		batch := make([]attr.Sequence, 0, cfg.BatchSize)
		found := make([][]Match, cfg.BatchSize)
		snaps := make([]S, cfg.BatchSize)
		index := 0

		// flush matches and yields the pending batch; false stops iteration
		flush := func() bool {
			if len(batch) == 0 {
				return true
			}
			if err := ctx.Err(); err != nil {
				yield(Result{Index: index}, err)
				return false
			}

			g, gctx := errgroup.WithContext(ctx)
			g.SetLimit(cfg.Workers)
			for i, doc := range batch {
				g.Go(func() error {
					if err := gctx.Err(); err != nil {
						return err
					}
					found[i], snaps[i] = match(doc)
					return nil
				})
			}
			if err := g.Wait(); err != nil {
				yield(Result{Index: index}, err)
				return false
			}

			for i, doc := range batch {
				r := Result{Index: index, Doc: doc, Matches: found[i]}
				index++
				err := dispatch(snaps[i], doc, found[i])
				found[i] = nil
				if !yield(r, err) {
					return false
				}
			}
			batch = batch[:0]
			return true
		}

		for doc := range docs {
			batch = append(batch, doc)
			if len(batch) == cfg.BatchSize && !flush() {
				return
			}
		}
		flush()
	}
}
