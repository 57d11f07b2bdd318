package service_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"travel-marketplace-backend/internal/domain"
	"travel-marketplace-backend/internal/repository/memory"
	"travel-marketplace-backend/internal/service"
)

func TestRequestService_CreateRequest(t *testing.T) {
	f := newFixture(t)

	t.Run("Success", func(t *testing.T) {
		req := f.createRequest(t, customerAnn, "p1", "0", nil)
		assert.Equal(t, "Ann", req.CustomerName)
		assert.Equal(t, "Alps Trek", req.PackageName)
		assert.Equal(t, "a1", req.AgencyID)
		assert.True(t, req.Price.Equal(dec("1000")), "zero price falls back to package price")
		assert.Equal(t, domain.RequestStatusPending, req.Status)
	})

	t.Run("Unknown package", func(t *testing.T) {
		_, err := f.requests.CreateRequest(f.ctx, customerAnn, &domain.Request{PackageID: "nope", RequestType: domain.RequestTypeBook})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Equal(t, "package", domain.EntityOf(err))
	})

	t.Run("Bad type", func(t *testing.T) {
		_, err := f.requests.CreateRequest(f.ctx, customerAnn, &domain.Request{PackageID: "p1", RequestType: "rent"})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("Available dates are normalized", func(t *testing.T) {
		req, err := f.requests.CreateRequest(f.ctx, customerAnn, &domain.Request{
			PackageID:      "p1",
			RequestType:    domain.RequestTypeBook,
			AvailableDates: []string{"2024-07-01", "2024-6-1", "2024-07-01"},
		})
		require.NoError(t, err)
		assert.Equal(t, []string{"2024-06-01", "2024-07-01"}, req.AvailableDates)
	})

	t.Run("Bad available date", func(t *testing.T) {
		_, err := f.requests.CreateRequest(f.ctx, customerAnn, &domain.Request{
			PackageID:      "p1",
			RequestType:    domain.RequestTypeBook,
			AvailableDates: []string{"2023-02-30"},
		})
		assert.ErrorIs(t, err, domain.ErrInvalidInput)
	})

	t.Run("Guides cannot create", func(t *testing.T) {
		_, err := f.requests.CreateRequest(f.ctx, guideGia, &domain.Request{PackageID: "p1", RequestType: domain.RequestTypeBook})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestRequestService_Transition_UpdatesPendingBooking(t *testing.T) {
	f := newFixture(t)
	f.pendingBooking(t, customerAnn, "p1", "900", strPtr("g1"))
	req := f.createRequest(t, customerAnn, "p1", "1000", nil)
	require.Equal(t, 1, f.store.CountBookings("c1", "p1"))

	decision, err := f.requests.Transition(f.ctx, agencyPeak, req.ID, domain.RequestStatusApproved)
	require.NoError(t, err)
	assert.False(t, decision.SettlementPending)
	assert.Equal(t, domain.RequestStatusApproved, decision.Request.Status)
	require.NotNil(t, decision.Booking)
	assert.Equal(t, domain.BookingStatusConfirmed, decision.Booking.Status)
	assert.True(t, decision.Booking.TotalPrice.Equal(dec("1000")), "request price overwrites booking price")
	assert.Equal(t, 1, f.store.CountBookings("c1", "p1"))

	g := f.guide(t, "g1")
	assert.True(t, g.Earnings.Total.Equal(dec("700")))
	assert.True(t, g.Earnings.Pending.Equal(dec("700")))
	assert.True(t, g.Earnings.Received.IsZero())
	require.Len(t, g.Earnings.History, 1)
	entry := g.Earnings.History[0]
	assert.True(t, entry.Amount.Equal(dec("700")))
	assert.Equal(t, domain.EarningStatusPending, entry.Status)
	assert.Equal(t, decision.Booking.ID, entry.BookingID)
	assert.Equal(t, "Ann", entry.CustomerName)
	bucket := g.Earnings.Bucket(int(entry.Date.Month()), entry.Date.Year())
	require.NotNil(t, bucket)
	assert.True(t, bucket.Amount.Equal(dec("700")))

	assert.Equal(t, []string{"g1"}, f.pkg(t, "p1").Guides)
	assert.True(t, g.HasPackage("p1"))

	stored, err := f.store.RequestRepository.GetByID(f.ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusApproved, stored.Status)
}

func TestRequestService_Transition_SynthesizesBooking(t *testing.T) {
	f := newFixture(t)
	req := f.createRequest(t, customerAnn, "p1", "1200", strPtr("g1"))
	require.Equal(t, 0, f.store.CountBookings("c1", "p1"))

	decision, err := f.requests.Transition(f.ctx, agencyPeak, req.ID, domain.RequestStatusApproved)
	require.NoError(t, err)
	require.NotNil(t, decision.Booking)
	assert.Equal(t, 1, f.store.CountBookings("c1", "p1"))

	b := decision.Booking
	assert.Equal(t, "p1", b.PackageID)
	assert.Equal(t, "c1", b.CustomerID)
	assert.Equal(t, "Ann", b.CustomerName)
	assert.Equal(t, "Alps Trek", b.PackageName)
	assert.Equal(t, "Gia", b.GuideName)
	assert.True(t, b.TotalPrice.Equal(dec("1200")))
	assert.Equal(t, domain.BookingStatusConfirmed, b.Status)

	assert.True(t, f.guide(t, "g1").Earnings.Total.Equal(dec("840")))
}

func TestRequestService_Transition_NoGuideSkipsSettlement(t *testing.T) {
	f := newFixture(t)
	req := f.createRequest(t, customerAnn, "p1", "1000", nil)

	decision, err := f.requests.Transition(f.ctx, admin, req.ID, domain.RequestStatusApproved)
	require.NoError(t, err)
	require.NotNil(t, decision.Booking)
	assert.False(t, decision.Booking.HasGuide())
	assert.False(t, decision.SettlementPending)

	assert.True(t, f.guide(t, "g1").Earnings.Total.IsZero())
	assert.Empty(t, f.pkg(t, "p1").Guides)
}

func TestRequestService_Transition_NoDoubleSettlement(t *testing.T) {
	f := newFixture(t)
	req := f.createRequest(t, customerAnn, "p1", "1000", strPtr("g1"))

	_, err := f.requests.Transition(f.ctx, agencyPeak, req.ID, domain.RequestStatusApproved)
	require.NoError(t, err)
	require.True(t, f.guide(t, "g1").Earnings.Total.Equal(dec("700")))

	decision, err := f.requests.Transition(f.ctx, agencyPeak, req.ID, domain.RequestStatusApproved)
	require.NoError(t, err, "same-status update is a no-op success")
	assert.Nil(t, decision.Booking)
	assert.Equal(t, domain.RequestStatusApproved, decision.Request.Status)

	g := f.guide(t, "g1")
	assert.True(t, g.Earnings.Total.Equal(dec("700")))
	assert.Len(t, g.Earnings.History, 1)
	assert.Equal(t, 1, f.store.CountBookings("c1", "p1"))
}

func TestRequestService_Transition_Reject(t *testing.T) {
	f := newFixture(t)
	req := f.createRequest(t, customerAnn, "p1", "1000", strPtr("g1"))

	decision, err := f.requests.Transition(f.ctx, agencyPeak, req.ID, domain.RequestStatusRejected)
	require.NoError(t, err)
	assert.Nil(t, decision.Booking)
	assert.Equal(t, 0, f.store.CountBookings("c1", "p1"))
	assert.True(t, f.guide(t, "g1").Earnings.Total.IsZero())

	notes, total, err := f.notifier.GetNotifications(f.ctx, "c1", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, int32(1), total)
	assert.Equal(t, "Request rejected", notes[0].Title)
}

func TestRequestService_Transition_Errors(t *testing.T) {
	f := newFixture(t)
	req := f.createRequest(t, customerAnn, "p1", "1000", nil)

	t.Run("Invalid status", func(t *testing.T) {
		_, err := f.requests.Transition(f.ctx, agencyPeak, req.ID, "done")
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})

	t.Run("Not found", func(t *testing.T) {
		_, err := f.requests.Transition(f.ctx, agencyPeak, "missing", domain.RequestStatusApproved)
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Equal(t, "request", domain.EntityOf(err))
	})

	t.Run("Other agency", func(t *testing.T) {
		_, err := f.requests.Transition(f.ctx, agencyOther, req.ID, domain.RequestStatusApproved)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("Customer cannot decide", func(t *testing.T) {
		_, err := f.requests.Transition(f.ctx, customerAnn, req.ID, domain.RequestStatusApproved)
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})

	t.Run("Terminal states are final", func(t *testing.T) {
		_, err := f.requests.Transition(f.ctx, agencyPeak, req.ID, domain.RequestStatusRejected)
		require.NoError(t, err)

		_, err = f.requests.Transition(f.ctx, agencyPeak, req.ID, domain.RequestStatusApproved)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
		_, err = f.requests.Transition(f.ctx, agencyPeak, req.ID, domain.RequestStatusPending)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})
}

func TestRequestService_Transition_MissingGuideIsNonFatal(t *testing.T) {
	f := newFixture(t)
	req := &domain.Request{
		CustomerID:   "c1",
		CustomerName: "Ann",
		PackageID:    "p1",
		PackageName:  "Alps Trek",
		AgencyID:     "a1",
		GuideID:      strPtr("ghost"),
		RequestType:  domain.RequestTypeBook,
		Price:        dec("1000"),
		Status:       domain.RequestStatusPending,
	}
	require.NoError(t, f.store.RequestRepository.Create(f.ctx, req))

	decision, err := f.requests.Transition(f.ctx, agencyPeak, req.ID, domain.RequestStatusApproved)
	require.NoError(t, err)
	assert.True(t, decision.SettlementPending)
	require.NotNil(t, decision.Booking)
	assert.Equal(t, domain.BookingStatusConfirmed, decision.Booking.Status)

	stored, err := f.store.RequestRepository.GetByID(f.ctx, req.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.RequestStatusApproved, stored.Status)
}

func TestRequestService_Transition_BookingSearchErrorFallsBackToSynthesis(t *testing.T) {
	st := memory.NewStore()
	ctx := context.Background()
	req := &domain.Request{
		CustomerID:   "c1",
		CustomerName: "Ann",
		PackageID:    "p1",
		PackageName:  "Alps Trek",
		AgencyID:     "a1",
		RequestType:  domain.RequestTypeBook,
		Price:        dec("1000"),
		Status:       domain.RequestStatusPending,
	}
	require.NoError(t, st.RequestRepository.Create(ctx, req))

	bookingRepo := new(MockBookingRepo)
	settlement := new(MockSettlementEngine)
	notifier := service.NewNotificationService(st.NotificationRepository, st.CustomerRepository, st.GuideRepository, st.AgencyRepository, nil)
	svc := service.NewRequestService(st.RequestRepository, bookingRepo, st.PackageRepository,
		st.CustomerRepository, st.GuideRepository, settlement, notifier)

	bookingRepo.On("FindByCustomerAndPackage", ctx, "c1", "p1", domain.BookingStatusPending).
		Return(nil, errors.New("connection reset"))
	bookingRepo.On("Create", ctx, mock.MatchedBy(func(b *domain.Booking) bool {
		return b.Status == domain.BookingStatusConfirmed && b.TotalPrice.Equal(dec("1000"))
	})).Return(nil)
	settlement.On("Settle", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)

	decision, err := svc.Transition(ctx, agencyPeak, req.ID, domain.RequestStatusApproved)
	require.NoError(t, err)
	require.NotNil(t, decision.Booking)
	assert.False(t, decision.SettlementPending)

	bookingRepo.AssertNumberOfCalls(t, "Create", 1)
	bookingRepo.AssertNotCalled(t, "TransitionStatus", mock.Anything, mock.Anything, mock.Anything)
	settlement.AssertExpectations(t)
}

func TestRequestService_Transition_ConcurrentSettlementsSameGuide(t *testing.T) {
	f := newFixture(t)
	x := f.createRequest(t, customerAnn, "p1", "1000", strPtr("g1"))
	y := f.createRequest(t, customerBob, "p2", "500", strPtr("g1"))

	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, id := range []string{x.ID, y.ID} {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			_, errs[i] = f.requests.Transition(f.ctx, agencyPeak, id, domain.RequestStatusApproved)
		}(i, id)
	}
	wg.Wait()
	require.NoError(t, errs[0])
	require.NoError(t, errs[1])

	g := f.guide(t, "g1")
	assert.True(t, g.Earnings.Total.Equal(dec("1050")), "got %s", g.Earnings.Total)
	assert.True(t, g.Earnings.Pending.Equal(dec("1050")))
	assert.Len(t, g.Earnings.History, 2)
	require.Len(t, g.Earnings.Monthly, 1)
	assert.True(t, g.Earnings.Monthly[0].Amount.Equal(dec("1050")))
}

func TestRequestService_Transition_ConcurrentApprovalsSettleOnce(t *testing.T) {
	f := newFixture(t)
	req := f.createRequest(t, customerAnn, "p1", "1000", strPtr("g1"))

	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := f.requests.Transition(f.ctx, agencyPeak, req.ID, domain.RequestStatusApproved)
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, f.store.CountBookings("c1", "p1"))
	assert.True(t, f.guide(t, "g1").Earnings.Total.Equal(dec("700")))
}

func TestRequestService_ListRequests(t *testing.T) {
	f := newFixture(t)
	f.createRequest(t, customerAnn, "p1", "1000", nil)
	f.createRequest(t, customerBob, "p2", "500", nil)

	mine, err := f.requests.ListRequests(f.ctx, customerAnn)
	require.NoError(t, err)
	assert.Len(t, mine, 1)

	agencyView, err := f.requests.ListRequests(f.ctx, agencyPeak)
	require.NoError(t, err)
	assert.Len(t, agencyView, 2)

	adminView, err := f.requests.ListRequests(f.ctx, admin)
	require.NoError(t, err)
	require.Len(t, adminView, 2)
	customers := []string{adminView[0].CustomerID, adminView[1].CustomerID}
	assert.ElementsMatch(t, []string{"c1", "c2"}, customers)

	_, err = f.requests.ListRequests(f.ctx, guideGia)
	assert.ErrorIs(t, err, domain.ErrForbidden)
}
