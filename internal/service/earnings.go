package service

import (
	"context"

	"github.com/shopspring/decimal"

	"travel-marketplace-backend/internal/domain"
	"travel-marketplace-backend/internal/logger"
	"travel-marketplace-backend/internal/repository"
)

type earningsService struct {
	guideRepo  repository.GuideRepository
	ledgerRepo repository.LedgerRepository
	notifier   NotificationService
}

func NewEarningsService(
	guideRepo repository.GuideRepository,
	ledgerRepo repository.LedgerRepository,
	notifier NotificationService,
) EarningsService {
	return &earningsService{
		guideRepo:  guideRepo,
		ledgerRepo: ledgerRepo,
		notifier:   notifier,
	}
}

func (s *earningsService) GetGuide(ctx context.Context, id string) (*domain.Guide, error) {
	return s.guideRepo.GetByID(ctx, id)
}

// MarkPaid records a payout of one settled booking. Payouts are an admin operation.
func (s *earningsService) MarkPaid(ctx context.Context, actor domain.Actor, guideID, bookingID string) (decimal.Decimal, error) {
	if !actor.IsAdmin() {
		return decimal.Zero, domain.ErrForbidden
	}
	logger.EnterMethod("earningsService.MarkPaid", "guideID", guideID, "bookingID", bookingID)

	amount, err := s.ledgerRepo.MarkPaid(ctx, guideID, bookingID)
	if err != nil {
		logger.ExitMethodWithError("earningsService.MarkPaid", err, "guideID", guideID, "bookingID", bookingID)
		return decimal.Zero, err
	}

	s.notifier.Notify(ctx, domain.Actor{ID: guideID, Role: domain.RoleGuide},
		"Earnings Paid",
		"A payout of "+amount.StringFixed(2)+" has been sent",
		map[string]string{"type": "EARNINGS_PAID", "booking_id": bookingID, "amount": amount.StringFixed(2)})

	logger.ExitMethod("earningsService.MarkPaid", "amount", amount.String())
	return amount, nil
}
