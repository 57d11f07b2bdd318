package service_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"travel-marketplace-backend/internal/domain"
)

func TestBookingService_CreateBooking(t *testing.T) {
	f := newFixture(t)

	t.Run("Defaults to package price", func(t *testing.T) {
		b := f.pendingBooking(t, customerAnn, "p1", "0", strPtr("g1"))
		assert.Equal(t, domain.BookingStatusPending, b.Status)
		assert.True(t, b.TotalPrice.Equal(dec("1000")))
		assert.Equal(t, "Ann", b.CustomerName)
		assert.Equal(t, "Gia", b.GuideName)
	})

	t.Run("Unknown guide", func(t *testing.T) {
		_, err := f.bookings.CreateBooking(f.ctx, customerAnn, &domain.Booking{PackageID: "p1", GuideID: strPtr("ghost")})
		assert.ErrorIs(t, err, domain.ErrNotFound)
		assert.Equal(t, "guide", domain.EntityOf(err))
	})

	t.Run("Agencies cannot book", func(t *testing.T) {
		_, err := f.bookings.CreateBooking(f.ctx, agencyPeak, &domain.Booking{PackageID: "p1"})
		assert.ErrorIs(t, err, domain.ErrForbidden)
	})
}

func TestBookingService_UpdateStatus(t *testing.T) {
	t.Run("Confirm settles", func(t *testing.T) {
		f := newFixture(t)
		b := f.pendingBooking(t, customerAnn, "p1", "1000", strPtr("g1"))

		decision, err := f.bookings.UpdateStatus(f.ctx, agencyPeak, b.ID, domain.BookingStatusConfirmed)
		require.NoError(t, err)
		assert.False(t, decision.SettlementPending)
		assert.Equal(t, domain.BookingStatusConfirmed, decision.Booking.Status)
		assert.True(t, f.guide(t, "g1").Earnings.Total.Equal(dec("700")))

		_, err = f.bookings.UpdateStatus(f.ctx, agencyPeak, b.ID, domain.BookingStatusConfirmed)
		require.NoError(t, err)
		assert.True(t, f.guide(t, "g1").Earnings.Total.Equal(dec("700")))

		_, err = f.bookings.UpdateStatus(f.ctx, agencyPeak, b.ID, domain.BookingStatusCanceled)
		assert.ErrorIs(t, err, domain.ErrInvalidTransition)
	})

	t.Run("Cancel does not settle", func(t *testing.T) {
		f := newFixture(t)
		b := f.pendingBooking(t, customerAnn, "p1", "1000", strPtr("g1"))

		_, err := f.bookings.UpdateStatus(f.ctx, admin, b.ID, domain.BookingStatusCanceled)
		require.NoError(t, err)
		assert.True(t, f.guide(t, "g1").Earnings.Total.IsZero())
	})

	t.Run("Authorization", func(t *testing.T) {
		f := newFixture(t)
		b := f.pendingBooking(t, customerAnn, "p1", "1000", nil)

		_, err := f.bookings.UpdateStatus(f.ctx, customerAnn, b.ID, domain.BookingStatusConfirmed)
		assert.ErrorIs(t, err, domain.ErrForbidden)
		_, err = f.bookings.UpdateStatus(f.ctx, agencyOther, b.ID, domain.BookingStatusConfirmed)
		assert.ErrorIs(t, err, domain.ErrForbidden)
		_, err = f.bookings.UpdateStatus(f.ctx, agencyPeak, b.ID, "shipped")
		assert.ErrorIs(t, err, domain.ErrInvalidStatus)
	})
}

func TestBookingService_GetBooking(t *testing.T) {
	f := newFixture(t)
	b := f.pendingBooking(t, customerAnn, "p1", "1000", strPtr("g1"))

	for _, actor := range []domain.Actor{customerAnn, agencyPeak, guideGia, admin} {
		got, err := f.bookings.GetBooking(f.ctx, actor, b.ID)
		require.NoError(t, err, "actor %s", actor.ID)
		assert.Equal(t, b.ID, got.ID)
	}
	for _, actor := range []domain.Actor{customerBob, agencyOther, guideTheo} {
		_, err := f.bookings.GetBooking(f.ctx, actor, b.ID)
		assert.ErrorIs(t, err, domain.ErrForbidden, "actor %s", actor.ID)
	}

	_, err := f.bookings.GetBooking(f.ctx, admin, "missing")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	list, err := f.bookings.ListBookings(f.ctx, customerAnn)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}
