// Package reconcile finds database entities whose stored object was never
// confirmed and checks storage for them.
//
// A client that uploads straight to object storage may never call back to
// confirm. The entity then stays unverified even though its object exists.
// A reconciliation pass loads such entities, checks each one against storage
// with bounded concurrency, and plans a mark_present action for every object
// it finds. Nothing is written unless the plan is applied with Confirmed set
// and DryRun unset.
//
// # Architecture
//
//  1. Engine: loads pending entities through the adapter and runs existence
//     checks on an errgroup limited to Spec.Workers.
//  2. Adapter: model-specific loading, lookup and (via Mutator) mutation.
//  3. Plan: turns results into a summary and actions; ApplyPlan executes them.
//
// A failed check is recorded on its result and never aborts the pass.
//
// # Usage Example
//
//	spec := &reconcile.Spec{
//	    Adapter:   transfer.NewSweepAdapter(store, registry, local),
//	    OlderThan: time.Hour,
//	    Workers:   8,
//	}
//	plan, executed, err := reconcile.ReconcileAndApply(ctx, spec, reconcile.ReconcileOptions{Confirmed: true})
package reconcile
