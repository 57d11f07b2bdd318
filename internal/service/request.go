package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"travel-marketplace-backend/internal/domain"
	"travel-marketplace-backend/internal/logger"
	"travel-marketplace-backend/internal/repository"
	"travel-marketplace-backend/internal/utils"
)

type requestService struct {
	requestRepo  repository.RequestRepository
	bookingRepo  repository.BookingRepository
	packageRepo  repository.PackageRepository
	customerRepo repository.CustomerRepository
	guideRepo    repository.GuideRepository
	settlement   SettlementEngine
	notifier     NotificationService
	now          func() time.Time
}

func NewRequestService(
	requestRepo repository.RequestRepository,
	bookingRepo repository.BookingRepository,
	packageRepo repository.PackageRepository,
	customerRepo repository.CustomerRepository,
	guideRepo repository.GuideRepository,
	settlement SettlementEngine,
	notifier NotificationService,
) RequestService {
	return &requestService{
		requestRepo:  requestRepo,
		bookingRepo:  bookingRepo,
		packageRepo:  packageRepo,
		customerRepo: customerRepo,
		guideRepo:    guideRepo,
		settlement:   settlement,
		notifier:     notifier,
		now:          time.Now,
	}
}

func (s *requestService) CreateRequest(ctx context.Context, actor domain.Actor, in *domain.Request) (*domain.Request, error) {
	logger.EnterMethod("requestService.CreateRequest", "actor", actor.ID, "packageID", in.PackageID, "type", in.RequestType)

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
	if !in.RequestType.Valid() {
		return nil, fmt.Errorf("%w: request type %q", domain.ErrInvalidInput, in.RequestType)
	}
	if in.Price.IsNegative() {
		return nil, fmt.Errorf("%w: price must not be negative", domain.ErrInvalidInput)
	}
	dates, err := utils.NormalizeDates(in.AvailableDates)
	if err != nil {
		return nil, fmt.Errorf("%w: available_dates: %v", domain.ErrInvalidInput, err)
	}
	in.AvailableDates = dates

	pkg, err := s.packageRepo.GetByID(ctx, in.PackageID)
	if err != nil {
		return nil, err
	}
	customer, err := s.customerRepo.GetByID(ctx, in.CustomerID)
	if err != nil {
		return nil, err
	}
	if in.GuideID != nil && *in.GuideID != "" {
		if _, err := s.guideRepo.GetByID(ctx, *in.GuideID); err != nil {
			return nil, err
		}
	} else {
		in.GuideID = nil
	}

	in.CustomerName = customer.Name
	in.PackageName = pkg.Name
	in.AgencyID = pkg.AgencyID
	if in.Price.IsZero() {
		in.Price = pkg.Price
	}
	in.Status = domain.RequestStatusPending

	if err := s.requestRepo.Create(ctx, in); err != nil {
		logger.ExitMethodWithError("requestService.CreateRequest", err, "packageID", in.PackageID)
		return nil, err
	}

	s.notifier.Notify(ctx, domain.Actor{ID: in.AgencyID, Role: domain.RoleAgency},
		"New Travel Request",
		fmt.Sprintf("%s sent a %s request for %s", in.CustomerName, in.RequestType, in.PackageName),
		map[string]string{"type": "REQUEST_CREATED", "request_id": in.ID})

	logger.ExitMethod("requestService.CreateRequest", "requestID", in.ID)
	return in, nil
}

func canViewRequest(actor domain.Actor, req *domain.Request) bool {
	return actor.IsAdmin() ||
		actor.Is(domain.RoleCustomer, req.CustomerID) ||
		actor.Is(domain.RoleAgency, req.AgencyID)
}

func (s *requestService) GetRequest(ctx context.Context, actor domain.Actor, id string) (*domain.Request, error) {
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if !canViewRequest(actor, req) {
		return nil, domain.ErrForbidden
	}
	return req, nil
}

func (s *requestService) ListRequests(ctx context.Context, actor domain.Actor) ([]domain.Request, error) {
	switch actor.Role {
	case domain.RoleCustomer:
		return s.requestRepo.ListByCustomer(ctx, actor.ID)
	case domain.RoleAgency:
		return s.requestRepo.ListByAgency(ctx, actor.ID)
	case domain.RoleAdmin:
		return s.requestRepo.ListAll(ctx)
	default:
		return nil, domain.ErrForbidden
	}
}

// Transition is the single status mutator for customer requests. The new status is
// persisted before any booking or settlement work, so a downstream failure never
// reverts the decision; it is reported through RequestDecision.SettlementPending.
func (s *requestService) Transition(ctx context.Context, actor domain.Actor, id string, status domain.RequestStatus) (*domain.RequestDecision, error) {
	logger.EnterMethod("requestService.Transition", "actor", actor.ID, "requestID", id, "status", status)

	if !status.Valid() {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidStatus, status)
	}
	req, err := s.requestRepo.GetByID(ctx, id)
	if err != nil {
		logger.ExitMethodWithError("requestService.Transition", err, "requestID", id)
		return nil, err
	}
	if !actor.IsAdmin() && !actor.Is(domain.RoleAgency, req.AgencyID) {
		return nil, domain.ErrForbidden
	}
	if req.Status == status {
		logger.ExitMethod("requestService.Transition", "requestID", id, "noop", true)
		return &domain.RequestDecision{Request: req}, nil
	}
	if !req.Status.CanTransition(status) {
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, req.Status, status)
	}

	won, err := s.requestRepo.TransitionStatus(ctx, id, req.Status, status)
	if err != nil {
		logger.ExitMethodWithError("requestService.Transition", err, "requestID", id)
		return nil, err
	}
	if !won {
		// Another decision landed between the read and the write.
		current, err := s.requestRepo.GetByID(ctx, id)
		if err != nil {
			return nil, err
		}
		if current.Status == status {
			return &domain.RequestDecision{Request: current}, nil
		}
		return nil, fmt.Errorf("%w: %s -> %s", domain.ErrInvalidTransition, current.Status, status)
	}
	req.Status = status
	req.UpdatedAt = s.now()

	decision := &domain.RequestDecision{Request: req}
	if status == domain.RequestStatusApproved {
		booking, err := s.attachBooking(ctx, req)
		if err != nil {
			logger.Error("Booking attach failed after approval", "requestID", id, "error", err)
			decision.SettlementPending = true
		} else {
			decision.Booking = booking
			if err := s.settlement.Settle(ctx, booking); err != nil {
				decision.SettlementPending = true
			}
		}
	}

	s.notifier.Notify(ctx, domain.Actor{ID: req.CustomerID, Role: domain.RoleCustomer},
		fmt.Sprintf("Request %s", status),
		fmt.Sprintf("Your %s request for %s was %s", req.RequestType, req.PackageName, status),
		map[string]string{"type": "REQUEST_DECIDED", "request_id": req.ID, "status": string(status)})

	logger.ExitMethod("requestService.Transition", "requestID", id, "status", status, "settlementPending", decision.SettlementPending)
	return decision, nil
}

// attachBooking confirms the customer's pending booking for the package at the request
// price, or creates a confirmed one when there is none. Exactly one branch runs.
func (s *requestService) attachBooking(ctx context.Context, req *domain.Request) (*domain.Booking, error) {
	existing, err := s.bookingRepo.FindByCustomerAndPackage(ctx, req.CustomerID, req.PackageID, domain.BookingStatusPending)
	if err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			logger.Warn("Booking search failed, creating a new booking", "requestID", req.ID, "error", err)
		}
		existing = nil
	}

	if existing != nil {
		existing.Status = domain.BookingStatusConfirmed
		existing.TotalPrice = req.Price
		won, err := s.bookingRepo.TransitionStatus(ctx, existing, domain.BookingStatusPending)
		if err != nil {
			return nil, fmt.Errorf("confirm booking %s: %w", existing.ID, err)
		}
		if won {
			logger.Info("Pending booking confirmed", "requestID", req.ID, "bookingID", existing.ID)
			return existing, nil
		}
		// The pending booking left pending after we found it; book fresh instead.
		logger.Warn("Pending booking changed concurrently, creating a new booking",
			"requestID", req.ID, "bookingID", existing.ID)
	}

	booking := &domain.Booking{
		CustomerID:   req.CustomerID,
		CustomerName: req.CustomerName,
		PackageID:    req.PackageID,
		PackageName:  req.PackageName,
		TotalPrice:   req.Price,
		Status:       domain.BookingStatusConfirmed,
		BookingDate:  s.now(),
	}
	if req.GuideID != nil {
		gid := *req.GuideID
		booking.GuideID = &gid
		if g, err := s.guideRepo.GetByID(ctx, gid); err == nil {
			booking.GuideName = g.Name
		}
	}
	if err := s.bookingRepo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}
	logger.Info("Booking created from approved request", "requestID", req.ID, "bookingID", booking.ID)
	return booking, nil
}
