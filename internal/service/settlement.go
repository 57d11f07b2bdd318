package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"travel-marketplace-backend/internal/domain"
	"travel-marketplace-backend/internal/logger"
	"travel-marketplace-backend/internal/repository"
)

// guideShareRate is the guide's fixed cut of a booking's total price.
var guideShareRate = decimal.RequireFromString("0.70")

// GuideShare returns the guide's earnings for a booking of the given total, rounded to cents.
func GuideShare(totalPrice decimal.Decimal) decimal.Decimal {
	return totalPrice.Mul(guideShareRate).Round(2)
}

type settlementEngine struct {
	tx         repository.TxManager
	guideRepo  repository.GuideRepository
	ledgerRepo repository.LedgerRepository
	registry   AssignmentRegistry
	now        func() time.Time
}

func NewSettlementEngine(
	tx repository.TxManager,
	guideRepo repository.GuideRepository,
	ledgerRepo repository.LedgerRepository,
	registry AssignmentRegistry,
) SettlementEngine {
	return &settlementEngine{
		tx:         tx,
		guideRepo:  guideRepo,
		ledgerRepo: ledgerRepo,
		registry:   registry,
		now:        time.Now,
	}
}

// Settle runs the guide lookup, the ledger write and the assignment sync in one transaction.
// Bookings that are not confirmed or carry no guide are skipped. A booking that was already
// settled is a no-op. Any other failure is returned wrapped in ErrSettlementPartialFailure.
func (e *settlementEngine) Settle(ctx context.Context, booking *domain.Booking) error {
	if booking.Status != domain.BookingStatusConfirmed || !booking.HasGuide() {
		logger.Debug("Settlement skipped", "bookingID", booking.ID, "status", booking.Status, "hasGuide", booking.HasGuide())
		return nil
	}
	guideID := *booking.GuideID
	logger.EnterMethod("settlementEngine.Settle", "bookingID", booking.ID, "guideID", guideID, "totalPrice", booking.TotalPrice.String())

	now := e.now().UTC()
	entry := domain.EarningEntry{
		BookingID:    booking.ID,
		PackageID:    booking.PackageID,
		PackageName:  booking.PackageName,
		CustomerName: booking.CustomerName,
		Amount:       GuideShare(booking.TotalPrice),
		Date:         now,
		Status:       domain.EarningStatusPending,
	}

	err := e.tx.WithinTx(ctx, func(ctx context.Context) error {
		if _, err := e.guideRepo.GetByID(ctx, guideID); err != nil {
			return err
		}
		if err := e.ledgerRepo.RecordEarning(ctx, guideID, entry, int(now.Month()), now.Year()); err != nil {
			return err
		}
		return e.registry.Attach(ctx, booking.PackageID, guideID)
	})

	switch {
	case err == nil:
		logger.ExitMethod("settlementEngine.Settle", "bookingID", booking.ID, "guideShare", entry.Amount.String())
		return nil
	case errors.Is(err, domain.ErrAlreadySettled):
		logger.Info("Booking already settled, skipping", "bookingID", booking.ID, "guideID", guideID)
		return nil
	default:
		logger.Error("Settlement failed, left for reconciliation",
			"bookingID", booking.ID, "guideID", guideID, "missing", domain.EntityOf(err), "error", err)
		return fmt.Errorf("%w: booking %s: %v", domain.ErrSettlementPartialFailure, booking.ID, err)
	}
}
