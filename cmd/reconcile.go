package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"time"

	"transfer-relay/core/reconcile"
	"transfer-relay/feature/transfer"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Flags for reconcile transfers command
	applyTransfers  bool
	dryRunTransfers bool
	yesConfirm      bool
	olderThan       time.Duration
	sweepLimit      int
)

// reconcileCmd is the parent command for all reconcile operations.
var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Reconcile transfer records with storage",
	Long: `Reconcile transfer records against object storage to find uploads that
finished but were never confirmed by the client.`,
}

// transfersReconcileCmd finds unconfirmed transfers whose object exists.
var transfersReconcileCmd = &cobra.Command{
	Use:   "transfers",
	Short: "Find unconfirmed transfers whose file exists (report + optionally mark)",
	Long: `Checks every transfer without a verified file that is older than --older-than
against the active object store (or local storage when none is configured).

Reports found and missing files. With --apply, records whose file was found
are marked as having a file. The client's success flag is left untouched.

Examples:
  # Report only
  reconcile transfers

  # Mark found files (with interactive confirmation)
  reconcile transfers --apply

  # Non-interactive, only records older than a day
  reconcile transfers --apply --yes --older-than 24h`,
	RunE: runTransfersReconcile,
}

func init() {
	reconcileCmd.AddCommand(transfersReconcileCmd)

	transfersReconcileCmd.Flags().BoolVar(&applyTransfers, "apply", false, "Mark transfers whose file was found")
	transfersReconcileCmd.Flags().BoolVar(&dryRunTransfers, "dry-run", false, "Force dry-run (no mutations even with --yes)")
	transfersReconcileCmd.Flags().BoolVar(&yesConfirm, "yes", false, "Auto-confirm actions (non-interactive)")
	transfersReconcileCmd.Flags().DurationVar(&olderThan, "older-than", 0, "Minimum record age (defaults to TRANSFER_PENDING_AGE_MINUTES)")
	transfersReconcileCmd.Flags().IntVar(&sweepLimit, "limit", 1000, "Maximum records checked in one pass")

	RootCmd.AddCommand(reconcileCmd)
}

func runTransfersReconcile(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()

	d, err := bootstrap()
	if err != nil {
		return err
	}
	l := d.logger

	age := olderThan
	if age <= 0 {
		age = d.cfg.Transfer.PendingAge()
	}
	spec := &reconcile.Spec{
		Adapter:   transfer.NewSweepAdapter(d.store, d.registry, d.fallback),
		OlderThan: age,
		Limit:     sweepLimit,
		Workers:   d.cfg.Transfer.SweepWorkers,
	}

	// Step 1: Plan (always runs)
	l.Info("Planning reconciliation...", zap.Duration("older_than", age))
	plan, err := reconcile.ReconcileWithPlan(ctx, spec)
	if err != nil {
		return fmt.Errorf("failed to plan reconciliation: %w", err)
	}

	// Step 2: Print report
	printReconcileReport(l, plan)

	// Step 3: Check if actions are requested
	if !applyTransfers {
		l.Info("No actions requested. Use --apply to mark transfers whose file was found.")
		return nil
	}

	// Step 4: Apply (if confirmed)
	if dryRunTransfers {
		l.Info("Dry-run mode: No changes were made.")
		return nil
	}
	if len(plan.Actions) == 0 {
		l.Info("No actions required.")
		return nil
	}
	if !confirmAction() {
		l.Warn("Operation cancelled by user. No changes were made.")
		return nil
	}

	l.Info("Applying actions...")
	executed, err := reconcile.ApplyPlan(ctx, spec, plan, reconcile.ReconcileOptions{Confirmed: true})
	if err != nil {
		return fmt.Errorf("failed to apply plan: %w", err)
	}
	l.Info("Successfully executed actions", zap.Int("count", executed))
	return nil
}

// printReconcileReport prints a formatted reconciliation report using logger.
func printReconcileReport(l *zap.Logger, plan *reconcile.ReconcilePlan) {
	s := plan.Summary

	l.Info("Reconciliation report",
		zap.Int("scanned", s.Scanned),
		zap.Int("present", s.Present),
		zap.Int("missing", s.Missing),
		zap.Int("errors", s.Errors),
	)

	for _, r := range plan.Results {
		if r.Error != "" {
			l.Warn("Check failed", zap.String("transfer_id", r.Key), zap.String("path", r.Path), zap.String("error", r.Error))
		}
	}

	if len(plan.Actions) > 0 {
		// Show sample of actions (max 5 for logger)
		maxShow := min(5, len(plan.Actions))
		for _, action := range plan.Actions[:maxShow] {
			l.Info("Sample action",
				zap.String("type", string(action.Type)),
				zap.String("key", action.Key),
				zap.String("reason", action.Reason),
			)
		}
		if len(plan.Actions) > maxShow {
			l.Info("Additional actions not shown", zap.Int("count", len(plan.Actions)-maxShow))
		}
	}
}

// confirmAction prompts the user for confirmation or uses --yes flag.
func confirmAction() bool {
	if yesConfirm {
		fmt.Println("\n✓ Auto-confirmed via --yes flag")
		return true
	}

	fmt.Print("\nType 'yes' to mark the transfers listed above: ")
	reader := bufio.NewReader(os.Stdin)
	response, err := reader.ReadString('\n')
	if err != nil {
		return false
	}

	return strings.TrimSpace(response) == "yes"
}
