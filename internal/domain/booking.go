package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingStatusPending   BookingStatus = "pending"
	BookingStatusConfirmed BookingStatus = "confirmed"
	BookingStatusCanceled  BookingStatus = "canceled"
)

func (s BookingStatus) Valid() bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCanceled:
		return true
	}
	return false
}

type Booking struct {
	ID           string          `json:"id"`
	CustomerID   string          `json:"customer_id"`
	CustomerName string          `json:"customer_name"`
	PackageID    string          `json:"package_id"`
	PackageName  string          `json:"package_name"`
	GuideID      *string         `json:"guide_id,omitempty"`
	GuideName    string          `json:"guide_name"`
	TotalPrice   decimal.Decimal `json:"total_price"`
	Status       BookingStatus   `json:"status"`
	BookingDate  time.Time       `json:"booking_date"`
	CreatedAt    time.Time       `json:"created_at"`
	UpdatedAt    time.Time       `json:"updated_at"`
}

// HasGuide reports whether the booking is guide-attached and therefore settles earnings.
func (b *Booking) HasGuide() bool {
	return b.GuideID != nil && *b.GuideID != ""
}

// CanTransition allows pending -> confirmed and pending -> canceled.
func (s BookingStatus) CanTransition(to BookingStatus) bool {
	return s == BookingStatusPending && (to == BookingStatusConfirmed || to == BookingStatusCanceled)
}

type BookingDecision struct {
	Booking           *Booking `json:"booking"`
	SettlementPending bool     `json:"settlement_pending"`
}
