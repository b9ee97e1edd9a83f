package reconcile

import (
	"context"
	"fmt"
)

// ReconcileWithPlan performs reconciliation and returns a plan with results and actions.
// It does NOT execute actions; use ApplyPlan for that.
func ReconcileWithPlan(ctx context.Context, spec *Spec) (*ReconcilePlan, error) {
	results, err := ReconcileAll(ctx, spec)
	if err != nil {
		return nil, err
	}

	summary, actions := buildPlanFromResults(results)

	return &ReconcilePlan{
		Results: results,
		Actions: actions,
		Summary: summary,
	}, nil
}

// ApplyPlan executes the actions in a reconcile plan.
// Returns the number of actions executed and any error encountered.
// Requires opts.Confirmed=true and opts.DryRun=false to actually execute.
func ApplyPlan(ctx context.Context, spec *Spec, plan *ReconcilePlan, opts ReconcileOptions) (executed int, err error) {
	// Safety check: do not execute if not confirmed or dry-run
	if !opts.Confirmed || opts.DryRun {
		return 0, nil
	}

	mutator, ok := spec.Adapter.(Mutator)
	if !ok {
		return 0, fmt.Errorf("adapter %s does not implement Mutator interface", spec.Adapter.Name())
	}

	for _, action := range plan.Actions {
		if err := ctx.Err(); err != nil {
			return executed, err
		}
		switch action.Type {
		case ActionMarkPresent:
			if err := mutator.MarkPresent(ctx, action.Key); err != nil {
				return executed, fmt.Errorf("failed to mark %s present: %w", action.Key, err)
			}
			executed++
		default:
			return executed, fmt.Errorf("unknown action type %q", action.Type)
		}
	}

	return executed, nil
}

// ReconcileAndApply is a convenience wrapper that plans and optionally applies actions.
// It returns the plan, number of actions executed, and any error.
func ReconcileAndApply(ctx context.Context, spec *Spec, opts ReconcileOptions) (*ReconcilePlan, int, error) {
	plan, err := ReconcileWithPlan(ctx, spec)
	if err != nil {
		return nil, 0, err
	}

	executed, err := ApplyPlan(ctx, spec, plan, opts)
	return plan, executed, err
}

// buildPlanFromResults generates a summary and action plan from reconciliation results.
func buildPlanFromResults(results []ReconcileResult) (PlanSummary, []Action) {
	summary := PlanSummary{Scanned: len(results)}
	actions := []Action{}

	for _, result := range results {
		switch {
		case result.Error != "":
			summary.Errors++
		case result.StoragePresent:
			summary.Present++
			actions = append(actions, Action{
				Type:   ActionMarkPresent,
				Key:    result.Key,
				Reason: fmt.Sprintf("object found in %s", result.Location),
			})
			summary.MarkActions++
		default:
			summary.Missing++
		}
	}

	return summary, actions
}
