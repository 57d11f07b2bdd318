package service_test

import (
	"context"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"travel-marketplace-backend/internal/domain"
	"travel-marketplace-backend/internal/repository/memory"
	"travel-marketplace-backend/internal/service"
)

var (
	customerAnn = domain.Actor{ID: "c1", Role: domain.RoleCustomer}
	customerBob = domain.Actor{ID: "c2", Role: domain.RoleCustomer}
	agencyPeak  = domain.Actor{ID: "a1", Role: domain.RoleAgency}
	agencyOther = domain.Actor{ID: "a2", Role: domain.RoleAgency}
	guideGia    = domain.Actor{ID: "g1", Role: domain.RoleGuide}
	guideTheo   = domain.Actor{ID: "g2", Role: domain.RoleGuide}
	admin       = domain.Actor{ID: "root", Role: domain.RoleAdmin}
)

func dec(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

// fixture wires every service over one in-memory store seeded with a small catalog:
// package p1 "Alps Trek" (1000) and p2 "Coast Walk" (500), both owned by agency a1.
type fixture struct {
	ctx           context.Context
	store         *memory.Store
	notifier      service.NotificationService
	registry      service.AssignmentRegistry
	settlement    service.SettlementEngine
	requests      service.RequestService
	guideRequests service.GuideRequestService
	bookings      service.BookingService
	earnings      service.EarningsService
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	ctx := context.Background()
	st := memory.NewStore()

	require.NoError(t, st.CustomerRepository.Create(ctx, &domain.Customer{ID: "c1", Name: "Ann", Email: "ann@example.com"}))
	require.NoError(t, st.CustomerRepository.Create(ctx, &domain.Customer{ID: "c2", Name: "Bob", Email: "bob@example.com"}))
	require.NoError(t, st.AgencyRepository.Create(ctx, &domain.Agency{ID: "a1", Name: "Peak Tours", Email: "peak@example.com"}))
	require.NoError(t, st.AgencyRepository.Create(ctx, &domain.Agency{ID: "a2", Name: "Other Tours"}))
	require.NoError(t, st.GuideRepository.Create(ctx, &domain.Guide{ID: "g1", Name: "Gia", Email: "gia@example.com"}))
	require.NoError(t, st.GuideRepository.Create(ctx, &domain.Guide{ID: "g2", Name: "Theo"}))
	require.NoError(t, st.PackageRepository.Create(ctx, &domain.Package{ID: "p1", Name: "Alps Trek", AgencyID: "a1", Price: dec("1000")}))
	require.NoError(t, st.PackageRepository.Create(ctx, &domain.Package{ID: "p2", Name: "Coast Walk", AgencyID: "a1", Price: dec("500")}))

	return wire(ctx, st, nil)
}

func wire(ctx context.Context, st *memory.Store, guard service.DuplicateGuard) *fixture {
	notifier := service.NewNotificationService(st.NotificationRepository, st.CustomerRepository, st.GuideRepository, st.AgencyRepository, nil)
	registry := service.NewAssignmentRegistry(st.TxManager, st.PackageRepository, st.GuideRepository, st.AssignmentRepository)
	settlement := service.NewSettlementEngine(st.TxManager, st.GuideRepository, st.LedgerRepository, registry)
	if guard == nil {
		guard = service.NewDuplicateGuard(st.GuideRequestRepository)
	}
	return &fixture{
		ctx:        ctx,
		store:      st,
		notifier:   notifier,
		registry:   registry,
		settlement: settlement,
		requests: service.NewRequestService(st.RequestRepository, st.BookingRepository, st.PackageRepository,
			st.CustomerRepository, st.GuideRepository, settlement, notifier),
		guideRequests: service.NewGuideRequestService(st.GuideRequestRepository, st.PackageRepository,
			st.GuideRepository, st.AgencyRepository, guard, registry, notifier),
		bookings: service.NewBookingService(st.BookingRepository, st.PackageRepository, st.CustomerRepository,
			st.GuideRepository, settlement, notifier),
		earnings: service.NewEarningsService(st.GuideRepository, st.LedgerRepository, notifier),
	}
}

func (f *fixture) guide(t *testing.T, id string) *domain.Guide {
	t.Helper()
	g, err := f.store.GuideRepository.GetByID(f.ctx, id)
	require.NoError(t, err)
	return g
}

func (f *fixture) pkg(t *testing.T, id string) *domain.Package {
	t.Helper()
	p, err := f.store.PackageRepository.GetByID(f.ctx, id)
	require.NoError(t, err)
	return p
}

func (f *fixture) createRequest(t *testing.T, customer domain.Actor, packageID, price string, guideID *string) *domain.Request {
	t.Helper()
	req, err := f.requests.CreateRequest(f.ctx, customer, &domain.Request{
		PackageID:   packageID,
		RequestType: domain.RequestTypeCustomize,
		Price:       dec(price),
		GuideID:     guideID,
		Duration:    "5 days",
	})
	require.NoError(t, err)
	return req
}

func (f *fixture) pendingBooking(t *testing.T, customer domain.Actor, packageID, price string, guideID *string) *domain.Booking {
	t.Helper()
	b, err := f.bookings.CreateBooking(f.ctx, customer, &domain.Booking{
		PackageID:  packageID,
		TotalPrice: dec(price),
		GuideID:    guideID,
	})
	require.NoError(t, err)
	return b
}

func strPtr(s string) *string {
	return &s
}
