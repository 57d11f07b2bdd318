package service

import (
	"context"
	"fmt"

	"travel-marketplace-backend/internal/domain"
	"travel-marketplace-backend/internal/logger"
	"travel-marketplace-backend/internal/repository"
)

type bookingService struct {
	bookingRepo  repository.BookingRepository
	packageRepo  repository.PackageRepository
	customerRepo repository.CustomerRepository
	guideRepo    repository.GuideRepository
	settlement   SettlementEngine
	notifier     NotificationService
}

func NewBookingService(
	bookingRepo repository.BookingRepository,
	packageRepo repository.PackageRepository,
	customerRepo repository.CustomerRepository,
	guideRepo repository.GuideRepository,
	settlement SettlementEngine,
	notifier NotificationService,
) BookingService {
	return &bookingService{
		bookingRepo:  bookingRepo,
		packageRepo:  packageRepo,
		customerRepo: customerRepo,
		guideRepo:    guideRepo,
		settlement:   settlement,
		notifier:     notifier,
	}
}

func (s *bookingService) CreateBooking(ctx context.Context, actor domain.Actor, in *domain.Booking) (*domain.Booking, error) {
	switch {
	case actor.Role == domain.RoleCustomer:
		in.CustomerID = actor.ID
	case actor.IsAdmin():
		if in.CustomerID == "" {
			return nil, fmt.Errorf("%w: customer_id is required", domain.ErrInvalidInput)
		}
	default:
		return nil, domain.ErrForbidden
	}
	if in.TotalPrice.IsNegative() {
		return nil, fmt.Errorf("%w: total_price must not be negative", domain.ErrInvalidInput)
	}

	customer, err := s.customerRepo.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	pkg, err := s.packageRepo.GetByID(ctx, in.PackageID)
	if err != nil {
		return nil, err
	}
	in.CustomerName = customer.Name
	in.PackageName = pkg.Name
	in.GuideName = ""
	if in.HasGuide() {
		guide, err := s.guideRepo.GetByID(ctx, *in.GuideID)
		if err != nil {
			return nil, err
		}
		in.GuideName = guide.Name
	} else {
		in.GuideID = nil
	}
	if in.TotalPrice.IsZero() {
		in.TotalPrice = pkg.Price
	}
	in.Status = domain.BookingStatusPending

	if err := s.bookingRepo.Create(ctx, in); err != nil {
		return nil, err
	}
	logger.Info("Booking created", "bookingID", in.ID, "customerID", in.CustomerID, "packageID", in.PackageID)
	return in, nil
}

func (s *bookingService) canAccess(ctx context.Context, actor domain.Actor, b *domain.Booking) (bool, error) {
	if actor.IsAdmin() || actor.Is(domain.RoleCustomer, b.CustomerID) {
		return true, nil
	}
	if b.HasGuide() && actor.Is(domain.RoleGuide, *b.GuideID) {
		return true, nil
	}
	if actor.Role != domain.RoleAgency {
		return false, nil
	}
	pkg, err := s.packageRepo.GetByID(ctx, b.PackageID)
	if err != nil {
		return false, err
	}
	return pkg.AgencyID == actor.ID, nil
}

func (s *bookingService) GetBooking(ctx context.Context, actor domain.Actor, id string) (*domain.Booking, error) {
	b, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	ok, err := s.canAccess(ctx, actor, b)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, domain.ErrForbidden
	}
	return b, nil
}

func (s *bookingService) ListBookings(ctx context.Context, actor domain.Actor) ([]domain.Booking, error) {
	if actor.Role != domain.RoleCustomer {
		return nil, domain.ErrForbidden
	}
	return s.bookingRepo.ListByCustomer(ctx, actor.ID)
}

// UpdateStatus confirms or cancels a pending booking. Confirmation settles the guide's share.
func (s *bookingService) UpdateStatus(ctx context.Context, actor domain.Actor, id string, status domain.BookingStatus) (*domain.BookingDecision, error) {
	logger.EnterMethod("bookingService.UpdateStatus", "actor", actor.ID, "bookingID", id, "status", status)

	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}
	b, err := s.bookingRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !actor.IsAdmin() {
		if actor.Role != domain.RoleAgency {
			return nil, domain.ErrForbidden
		}
		pkg, err := s.packageRepo.GetByID(ctx, b.PackageID)
		if err != nil {
			return nil, err
		}
		if pkg.AgencyID != actor.ID {
			return nil, domain.ErrForbidden
		}
	}
	if b.Status == status {
		return &domain.BookingDecision{Booking: b}, nil
	}
	if !b.Status.CanTransition(status) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, b.Status, status)
	}

	from := b.Status
	b.Status = status
	won, err := s.bookingRepo.TransitionStatus(ctx, b, from)
	if err != nil {
		logger.ExitMethodWithError("bookingService.UpdateStatus", err, "bookingID", id)
		return nil, err
	}
	if !won {
		current, err := s.bookingRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if current.Status == status {
			logger.ExitMethod("bookingService.UpdateStatus", "bookingID", id, "noop", true)
			return &domain.BookingDecision{Booking: current}, nil
		}
		err = fmt.Errorf("%w: booking %s moved to %s concurrently", domain.ErrInvalidTransition, id, current.Status)
		logger.ExitMethodWithError("bookingService.UpdateStatus", err, "bookingID", id)
		return nil, err
	}

	decision := &domain.BookingDecision{Booking: b}
	if status == domain.BookingStatusConfirmed {
		if err := s.settlement.Settle(ctx, b); err != nil {
			decision.SettlementPending = true
		}
	}

	s.notifier.Notify(ctx, domain.Actor{ID: b.CustomerID, Role: domain.RoleCustomer},
		fmt.Sprintf("Booking %s", status),
		fmt.Sprintf("Your booking for %s is %s", b.PackageName, status),
		map[string]string{"type": "BOOKING_UPDATED", "booking_id": b.ID, "status": string(status)})

	logger.ExitMethod("bookingService.UpdateStatus", "bookingID", id, "settlementPending", decision.SettlementPending)
	return decision, nil
}
