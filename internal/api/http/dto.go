package http

import (
	"github.com/shopspring/decimal"

	"travel-marketplace-backend/internal/domain"
)

type createRequestBody struct {
	CustomerID     string                `json:"customer_id"`
	PackageID      string                `json:"package_id"`
	GuideID        *string               `json:"guide_id"`
	RequestType    domain.RequestType    `json:"request_type"`
	Price          decimal.Decimal       `json:"price"`
	Duration       string                `json:"duration"`
	Itinerary      []domain.ItineraryDay `json:"itinerary"`
	AvailableDates []string              `json:"available_dates"`
	MaxGroupSize   int32                 `json:"max_group_size"`
	Message        string                `json:"message"`
}

func (b createRequestBody) toDomain() *domain.Request {
	return &domain.Request{
		CustomerID:     b.CustomerID,
		PackageID:      b.PackageID,
		GuideID:        b.GuideID,
		RequestType:    b.RequestType,
		Price:          b.Price,
		Duration:       b.Duration,
		Itinerary:      b.Itinerary,
		AvailableDates: b.AvailableDates,
		MaxGroupSize:   b.MaxGroupSize,
		Message:        b.Message,
	}
}

type createGuideRequestBody struct {
	GuideID   string                  `json:"guide_id"`
	AgencyID  string                  `json:"agency_id"`
	PackageID *string                 `json:"package_id"`
	Type      domain.GuideRequestType `json:"type"`
	Message   string                  `json:"message"`
}

func (b createGuideRequestBody) toDomain() *domain.GuideRequest {
	return &domain.GuideRequest{
		GuideID:   b.GuideID,
		AgencyID:  b.AgencyID,
		PackageID: b.PackageID,
		Type:      b.Type,
		Message:   b.Message,
	}
}

type createBookingBody struct {
	CustomerID string          `json:"customer_id"`
	PackageID  string          `json:"package_id"`
	GuideID    *string         `json:"guide_id"`
	TotalPrice decimal.Decimal `json:"total_price"`
}

func (b createBookingBody) toDomain() *domain.Booking {
	return &domain.Booking{
		CustomerID: b.CustomerID,
		PackageID:  b.PackageID,
		GuideID:    b.GuideID,
		TotalPrice: b.TotalPrice,
	}
}

type statusBody struct {
	Status string `json:"status"`
}

type assignGuidesBody struct {
	GuideIDs []string `json:"guideIds"`
}

type markPaidResponse struct {
	GuideID   string          `json:"guide_id"`
	BookingID string          `json:"booking_id"`
	Amount    decimal.Decimal `json:"amount"`
}

type notificationsResponse struct {
	Notifications []domain.Notification `json:"notifications"`
	Total         int32                 `json:"total"`
	Page          int32                 `json:"page"`
	PageSize      int32                 `json:"page_size"`
}
