package repository

import (
	"context"

	"github.com/shopspring/decimal"

	"travel-marketplace-backend/internal/domain"
)

// TxManager runs fn inside a single storage transaction when the backend supports one.
// Repositories called with the ctx passed to fn join that transaction.
type TxManager interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}

type CustomerRepository interface {
	Create(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id string) (*domain.Customer, error)
}

type AgencyRepository interface {
	Create(ctx context.Context, agency *domain.Agency) error
	GetByID(ctx context.Context, id string) (*domain.Agency, error)
	// AddGuide links a guide into the agency roster. Reports whether a row was added.
	AddGuide(ctx context.Context, agencyID, guideID string) (bool, error)
}

type PackageRepository interface {
	Create(ctx context.Context, pkg *domain.Package) error
	GetByID(ctx context.Context, id string) (*domain.Package, error)
}

type GuideRepository interface {
	Create(ctx context.Context, guide *domain.Guide) error
	// GetByID returns the guide with its earnings aggregate and assigned packages.
	GetByID(ctx context.Context, id string) (*domain.Guide, error)
}

// AssignmentRepository owns both sides of the package/guide link.
// Each Add/Remove call is idempotent on its own side and reports whether it changed anything.
type AssignmentRepository interface {
	AddPackageGuide(ctx context.Context, packageID, guideID string) (bool, error)
	RemovePackageGuide(ctx context.Context, packageID, guideID string) (bool, error)
	AddAssignedPackage(ctx context.Context, guideID string, assigned domain.AssignedPackage) (bool, error)
	RemoveAssignedPackage(ctx context.Context, guideID, packageID string) (bool, error)
	// ListDivergent returns links present on only one side.
	ListDivergent(ctx context.Context, limit int) ([]domain.AssignmentLink, error)
}

type RequestRepository interface {
	Create(ctx context.Context, req *domain.Request) error
	GetByID(ctx context.Context, id string) (*domain.Request, error)
	// TransitionStatus moves the request from `from` to `to` only if it is still in `from`.
	TransitionStatus(ctx context.Context, id string, from, to domain.RequestStatus) (bool, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Request, error)
	ListByAgency(ctx context.Context, agencyID string) ([]domain.Request, error)
	ListAll(ctx context.Context) ([]domain.Request, error)
}

type GuideRequestRepository interface {
	// Create fails with domain.ErrDuplicateRequest when the pending slot is taken.
	Create(ctx context.Context, req *domain.GuideRequest) error
	GetByID(ctx context.Context, id string) (*domain.GuideRequest, error)
	FindPending(ctx context.Context, key domain.PendingKey) (*domain.GuideRequest, error)
	TransitionStatus(ctx context.Context, id string, from, to domain.RequestStatus) (bool, error)
	// DeletePending removes the request only while it is pending.
	DeletePending(ctx context.Context, id string) (bool, error)
	ListByGuide(ctx context.Context, guideID string) ([]domain.GuideRequest, error)
	ListByAgency(ctx context.Context, agencyID string) ([]domain.GuideRequest, error)
	// ListApprovedUnlinked returns approved package assignments whose package/guide link is missing.
	ListApprovedUnlinked(ctx context.Context, limit int) ([]domain.AssignmentLink, error)
}

type BookingRepository interface {
	Create(ctx context.Context, booking *domain.Booking) error
	GetByID(ctx context.Context, id string) (*domain.Booking, error)
	// TransitionStatus writes the booking's status, price and guide only if the stored booking
	// is still in `from`. Reports false when another writer moved it first.
	TransitionStatus(ctx context.Context, booking *domain.Booking, from domain.BookingStatus) (bool, error)
	// FindByCustomerAndPackage returns the most recent booking in the given status.
	FindByCustomerAndPackage(ctx context.Context, customerID, packageID string, status domain.BookingStatus) (*domain.Booking, error)
	ListByCustomer(ctx context.Context, customerID string) ([]domain.Booking, error)
	// ListUnsettled returns confirmed guide-attached bookings with no ledger entry.
	ListUnsettled(ctx context.Context, limit int) ([]domain.Booking, error)
}

// LedgerRepository mutates the guide earnings aggregate. Every call is a single atomic write.
type LedgerRepository interface {
	// RecordEarning adds entry.Amount to total, pending and the (month, year) bucket and
	// appends entry to history. Returns domain.ErrAlreadySettled if the booking is already recorded.
	RecordEarning(ctx context.Context, guideID string, entry domain.EarningEntry, month, year int) error
	// MarkPaid moves a pending entry's amount from pending to received and returns the amount.
	MarkPaid(ctx context.Context, guideID, bookingID string) (decimal.Decimal, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID string, limit, offset int32) ([]domain.Notification, int32, error)
}
