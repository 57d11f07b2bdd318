package service

import (
	"context"

	"github.com/shopspring/decimal"

	"travel-marketplace-backend/internal/domain"
)

// AssignmentRegistry is the only writer of the package/guide link.
type AssignmentRegistry interface {
	// Attach links guideID to packageID on both sides. Safe to call any number of times.
	Attach(ctx context.Context, packageID, guideID string) error
	// Detach removes the link from both sides. Missing entries are not an error.
	Detach(ctx context.Context, packageID, guideID string) error
	AssignGuides(ctx context.Context, actor domain.Actor, packageID string, guideIDs []string) (*domain.Package, error)
	UnassignGuide(ctx context.Context, actor domain.Actor, packageID, guideID string) error
}

// DuplicateGuard rejects a guide request whose pending slot is already taken.
type DuplicateGuard interface {
	Check(ctx context.Context, key domain.PendingKey) error
}

// SettlementEngine records a guide's share for one confirmed, guide-attached booking.
type SettlementEngine interface {
	Settle(ctx context.Context, booking *domain.Booking) error
}

type RequestService interface {
	CreateRequest(ctx context.Context, actor domain.Actor, req *domain.Request) (*domain.Request, error)
	GetRequest(ctx context.Context, actor domain.Actor, id string) (*domain.Request, error)
	ListRequests(ctx context.Context, actor domain.Actor) ([]domain.Request, error)
	Transition(ctx context.Context, actor domain.Actor, id string, status domain.RequestStatus) (*domain.RequestDecision, error)
}

type GuideRequestService interface {
	CreateGuideRequest(ctx context.Context, actor domain.Actor, req *domain.GuideRequest) (*domain.GuideRequest, error)
	ListGuideRequests(ctx context.Context, actor domain.Actor) ([]domain.GuideRequest, error)
	Transition(ctx context.Context, actor domain.Actor, id string, status domain.RequestStatus) (*domain.GuideRequestDecision, error)
	DeleteGuideRequest(ctx context.Context, actor domain.Actor, id string) error
}

type BookingService interface {
	CreateBooking(ctx context.Context, actor domain.Actor, booking *domain.Booking) (*domain.Booking, error)
	GetBooking(ctx context.Context, actor domain.Actor, id string) (*domain.Booking, error)
	ListBookings(ctx context.Context, actor domain.Actor) ([]domain.Booking, error)
	UpdateStatus(ctx context.Context, actor domain.Actor, id string, status domain.BookingStatus) (*domain.BookingDecision, error)
}

type EarningsService interface {
	GetGuide(ctx context.Context, id string) (*domain.Guide, error)
	MarkPaid(ctx context.Context, actor domain.Actor, guideID, bookingID string) (decimal.Decimal, error)
}

type NotificationService interface {
	// Notify is best-effort: failures are logged, never returned.
	Notify(ctx context.Context, recipient domain.Actor, title, message string, attrs map[string]string)
	GetNotifications(ctx context.Context, userID string, page, pageSize int32) ([]domain.Notification, int32, error)
}

type EmailService interface {
	SendDecisionNotification(ctx context.Context, email, name, subject, message string) error
}
