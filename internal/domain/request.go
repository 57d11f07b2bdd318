package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

type RequestType string

const (
	RequestTypeCustomize RequestType = "customize"
	RequestTypeBook      RequestType = "book"
)

func (t RequestType) Valid() bool {
	return t == RequestTypeCustomize || t == RequestTypeBook
}

// RequestStatus is shared by customer requests and guide requests.
type RequestStatus string

const (
	RequestStatusPending  RequestStatus = "pending"
	RequestStatusApproved RequestStatus = "approved"
	RequestStatusRejected RequestStatus = "rejected"
)

func (s RequestStatus) Valid() bool {
	switch s {
	case RequestStatusPending, RequestStatusApproved, RequestStatusRejected:
		return true
	}
	return false
}

func (s RequestStatus) Terminal() bool {
	return s == RequestStatusApproved || s == RequestStatusRejected
}

// CanTransition encodes the two legal edges: pending -> approved and pending -> rejected.
func (s RequestStatus) CanTransition(to RequestStatus) bool {
	return s == RequestStatusPending && to.Terminal()
}

type ItineraryDay struct {
	Day         int    `json:"day"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Request is a customer's customization or booking request for a package.
type Request struct {
	ID             string          `json:"id"`
	CustomerID     string          `json:"customer_id"`
	CustomerName   string          `json:"customer_name"`
	PackageID      string          `json:"package_id"`
	PackageName    string          `json:"package_name"`
	AgencyID       string          `json:"agency_id"`
	GuideID        *string         `json:"guide_id,omitempty"` // preferred guide, carried onto a synthesized booking
	RequestType    RequestType     `json:"request_type"`
	Price          decimal.Decimal `json:"price"`
	Duration       string          `json:"duration"`
	Itinerary      []ItineraryDay  `json:"itinerary"`
	AvailableDates []string        `json:"available_dates"`
	MaxGroupSize   int32           `json:"max_group_size"`
	Message        string          `json:"message"`
	Status         RequestStatus   `json:"status"`
	CreatedAt      time.Time       `json:"created_at"`
	UpdatedAt      time.Time       `json:"updated_at"`
}

// RequestDecision is the outcome of a customer request transition.
type RequestDecision struct {
	Request *Request `json:"request"`
	Booking *Booking `json:"booking,omitempty"`
	// SettlementPending is set when a downstream step failed and was left for reconciliation.
	SettlementPending bool `json:"settlement_pending"`
}
