package service_test

import (
	"context"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/mock"

	"travel-marketplace-backend/internal/domain"
)

// MockGuideRequestRepo
type MockGuideRequestRepo struct {
	mock.Mock
}

func (m *MockGuideRequestRepo) Create(ctx context.Context, req *domain.GuideRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
func (m *MockGuideRequestRepo) GetByID(ctx context.Context, id string) (*domain.GuideRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GuideRequest), args.Error(1)
}
func (m *MockGuideRequestRepo) FindPending(ctx context.Context, key domain.PendingKey) (*domain.GuideRequest, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.GuideRequest), args.Error(1)
}
func (m *MockGuideRequestRepo) TransitionStatus(ctx context.Context, id string, from, to domain.RequestStatus) (bool, error) {
	args := m.Called(ctx, id, from, to)
	return args.Bool(0), args.Error(1)
}
func (m *MockGuideRequestRepo) DeletePending(ctx context.Context, id string) (bool, error) {
	args := m.Called(ctx, id)
	return args.Bool(0), args.Error(1)
}
func (m *MockGuideRequestRepo) ListByGuide(ctx context.Context, guideID string) ([]domain.GuideRequest, error) {
	args := m.Called(ctx, guideID)
	return args.Get(0).([]domain.GuideRequest), args.Error(1)
}
func (m *MockGuideRequestRepo) ListByAgency(ctx context.Context, agencyID string) ([]domain.GuideRequest, error) {
	args := m.Called(ctx, agencyID)
	return args.Get(0).([]domain.GuideRequest), args.Error(1)
}
func (m *MockGuideRequestRepo) ListApprovedUnlinked(ctx context.Context, limit int) ([]domain.AssignmentLink, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.AssignmentLink), args.Error(1)
}

// MockBookingRepo
type MockBookingRepo struct {
	mock.Mock
}

func (m *MockBookingRepo) Create(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}
func (m *MockBookingRepo) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) TransitionStatus(ctx context.Context, booking *domain.Booking, from domain.BookingStatus) (bool, error) {
	args := m.Called(ctx, booking, from)
	return args.Bool(0), args.Error(1)
}
func (m *MockBookingRepo) FindByCustomerAndPackage(ctx context.Context, customerID, packageID string, status domain.BookingStatus) (*domain.Booking, error) {
	args := m.Called(ctx, customerID, packageID, status)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListByCustomer(ctx context.Context, customerID string) ([]domain.Booking, error) {
	args := m.Called(ctx, customerID)
	return args.Get(0).([]domain.Booking), args.Error(1)
}
func (m *MockBookingRepo) ListUnsettled(ctx context.Context, limit int) ([]domain.Booking, error) {
	args := m.Called(ctx, limit)
	return args.Get(0).([]domain.Booking), args.Error(1)
}

// MockLedgerRepo
type MockLedgerRepo struct {
	mock.Mock
}

func (m *MockLedgerRepo) RecordEarning(ctx context.Context, guideID string, entry domain.EarningEntry, month, year int) error {
	args := m.Called(ctx, guideID, entry, month, year)
	return args.Error(0)
}
func (m *MockLedgerRepo) MarkPaid(ctx context.Context, guideID, bookingID string) (decimal.Decimal, error) {
	args := m.Called(ctx, guideID, bookingID)
	return args.Get(0).(decimal.Decimal), args.Error(1)
}

// MockSettlementEngine
type MockSettlementEngine struct {
	mock.Mock
}

func (m *MockSettlementEngine) Settle(ctx context.Context, booking *domain.Booking) error {
	args := m.Called(ctx, booking)
	return args.Error(0)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendDecisionNotification(ctx context.Context, email, name, subject, message string) error {
	args := m.Called(ctx, email, name, subject, message)
	return args.Error(0)
}
