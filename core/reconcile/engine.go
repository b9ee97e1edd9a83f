package reconcile

import (
	"context"
	"sort"
	"time"

	"golang.org/x/sync/errgroup"
)

// ReconcileAll checks every pending entity against storage.
// Individual check failures are recorded on the result; only a failure to
// load the entities or a cancelled context fails the call.
func ReconcileAll(ctx context.Context, spec *Spec) ([]ReconcileResult, error) {
	olderThan := time.Now().Add(-spec.OlderThan)
	items, err := spec.Adapter.LoadPending(ctx, olderThan, spec.Limit)
	if err != nil {
		return nil, err
	}

	results := make([]ReconcileResult, len(items))

	workers := spec.Workers
	if workers <= 0 {
		workers = 1
	}
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)

	for i, item := range items {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = checkItem(gctx, spec.Adapter, item)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	// Sort results by start time then key for deterministic output
	sort.SliceStable(results, func(i, j int) bool {
		if !results[i].Started.Equal(results[j].Started) {
			return results[i].Started.Before(results[j].Started)
		}
		return results[i].Key < results[j].Key
	})

	return results, nil
}

// ReconcileOne checks a single entity.
func ReconcileOne(ctx context.Context, spec *Spec, item Item) ReconcileResult {
	return checkItem(ctx, spec.Adapter, item)
}

func checkItem(ctx context.Context, adapter Adapter, item Item) ReconcileResult {
	result := ReconcileResult{Item: item}
	present, location, err := adapter.CheckStorage(ctx, item)
	result.Location = location
	if err != nil {
		result.Error = err.Error()
		return result
	}
	result.StoragePresent = present
	return result
}
