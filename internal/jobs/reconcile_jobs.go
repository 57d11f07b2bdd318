package jobs

import (
	"context"
	"fmt"

	"travel-marketplace-backend/internal/domain"
	"travel-marketplace-backend/internal/logger"
)

// ReconcileSettlements retries settlement for confirmed, guide-attached bookings
// that have no ledger entry yet.
func (jr *JobRunner) ReconcileSettlements() {
	jr.runWithRecovery("ReconcileSettlements", func() {
		settled, failed, err := jr.SettleUnsettledBookings(context.Background())
		if err != nil {
			logger.Error("Failed to reconcile settlements", "error", err)
			return
		}
		logger.Info("Settlement reconciliation finished", "settled", settled, "failed", failed)
	})
}

// SettleUnsettledBookings processes one batch and reports how many bookings settled and failed.
func (jr *JobRunner) SettleUnsettledBookings(ctx context.Context) (settled, failed int, err error) {
	bookings, err := jr.repos.Bookings.ListUnsettled(ctx, jr.config.Reconciliation.BatchSize)
	if err != nil {
		return 0, 0, fmt.Errorf("list unsettled bookings: %w", err)
	}

	for i := range bookings {
		b := &bookings[i]
		if err := jr.services.Settlement.Settle(ctx, b); err != nil {
			logger.Warn("Booking still unsettled", "bookingID", b.ID, "error", err)
			failed++
			continue
		}
		settled++
	}
	return settled, failed, nil
}

// RepairAssignments re-attaches package/guide pairs whose link is missing on either side.
func (jr *JobRunner) RepairAssignments() {
	jr.runWithRecovery("RepairAssignments", func() {
		repaired, failed, err := jr.RepairAssignmentLinks(context.Background())
		if err != nil {
			logger.Error("Failed to repair assignments", "error", err)
			return
		}
		logger.Info("Assignment repair finished", "repaired", repaired, "failed", failed)
	})
}

// RepairAssignmentLinks covers one-sided links and approved package assignments with no link at all.
func (jr *JobRunner) RepairAssignmentLinks(ctx context.Context) (repaired, failed int, err error) {
	limit := jr.config.Reconciliation.BatchSize

	divergent, err := jr.repos.Assignments.ListDivergent(ctx, limit)
	if err != nil {
		return 0, 0, fmt.Errorf("list divergent links: %w", err)
	}
	unlinked, err := jr.repos.GuideRequests.ListApprovedUnlinked(ctx, limit)
	if err != nil {
		return 0, 0, fmt.Errorf("list unlinked approvals: %w", err)
	}

	seen := make(map[domain.AssignmentLink]bool, len(divergent)+len(unlinked))
	for _, link := range append(divergent, unlinked...) {
		if seen[link] {
			continue
		}
		seen[link] = true

		if err := jr.services.Registry.Attach(ctx, link.PackageID, link.GuideID); err != nil {
			logger.Warn("Failed to repair assignment", "packageID", link.PackageID, "guideID", link.GuideID, "error", err)
			failed++
			continue
		}
		repaired++
	}
	return repaired, failed, nil
}
