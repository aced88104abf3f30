// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package match

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/transmem/pkg/types"
)

// shardsPerWorker splits the corpus finer than the worker count so a
// cancelled context stops the run after a small slice of work.
const shardsPerWorker = 4

// SearchSharded ranks corpus like Search, scoring independent shards of
// the corpus on up to workers goroutines. Results are merged before the
// sort and truncate step, so the output equals Search for the same
// input. ctx is checked before each shard is scored; cancellation
// returns ctx's error and no partial results.
func SearchSharded(ctx context.Context, query string, corpus []types.TranslationEntry, opts Options, workers int) ([]types.ScoredEntry, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if workers < 2 || len(corpus) < 2 {
		return finish(query, score(query, corpus, opts), opts), nil
	}

	bounds := shardBounds(len(corpus), workers*shardsPerWorker)
	parts := make([][]types.ScoredEntry, len(bounds))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, b := range bounds {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			parts[i] = score(query, corpus[b.start:b.end], opts)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var scored []types.ScoredEntry
	for _, p := range parts {
		scored = append(scored, p...)
	}
	return finish(query, scored, opts), nil
}

// shardBounds cuts n items into at most shards contiguous ranges of
// near-equal size.
func shardBounds(n, shards int) []interval {
	if shards > n {
		shards = n
	}
	if shards < 1 {
		return nil
	}
	size := (n + shards - 1) / shards
	bounds := make([]interval, 0, shards)
	for start := 0; start < n; start += size {
		bounds = append(bounds, interval{start: start, end: min(start+size, n)})
	}
	return bounds
}
