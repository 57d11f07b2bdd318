// Package memory is an in-process implementation of the repository interfaces.
// It backs the server in "memory" driver mode and the workflow tests. Every
// repository call runs under one store-wide mutex, so each call is atomic;
// WithinTx does not provide rollback.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"travel-marketplace-backend/internal/domain"
	"travel-marketplace-backend/internal/repository"
)

type state struct {
	mu            sync.Mutex
	customers     map[string]domain.Customer
	agencies      map[string]*domain.Agency
	packages      map[string]*domain.Package
	guides        map[string]*domain.Guide
	requests      map[string]*domain.Request
	guideRequests map[string]*domain.GuideRequest
	bookings      map[string]*domain.Booking
	notifications []domain.Notification
}

// Store bundles every repository over a shared in-memory state.
type Store struct {
	st *state
	repository.TxManager
	repository.CustomerRepository
	repository.AgencyRepository
	repository.PackageRepository
	repository.GuideRepository
	repository.AssignmentRepository
	repository.RequestRepository
	repository.GuideRequestRepository
	repository.BookingRepository
	repository.LedgerRepository
	repository.NotificationRepository
}

func NewStore() *Store {
	st := &state{
		customers:     make(map[string]domain.Customer),
		agencies:      make(map[string]*domain.Agency),
		packages:      make(map[string]*domain.Package),
		guides:        make(map[string]*domain.Guide),
		requests:      make(map[string]*domain.Request),
		guideRequests: make(map[string]*domain.GuideRequest),
		bookings:      make(map[string]*domain.Booking),
	}
	return &Store{
		st:                     st,
		TxManager:              txManager{},
		CustomerRepository:     &customerRepository{st},
		AgencyRepository:       &agencyRepository{st},
		PackageRepository:      &packageRepository{st},
		GuideRepository:        &guideRepository{st},
		AssignmentRepository:   &assignmentRepository{st},
		RequestRepository:      &requestRepository{st},
		GuideRequestRepository: &guideRequestRepository{st},
		BookingRepository:      &bookingRepository{st},
		LedgerRepository:       &ledgerRepository{st},
		NotificationRepository: &notificationRepository{st},
	}
}

// CountBookings returns how many bookings exist for a customer/package pair in any status.
func (s *Store) CountBookings(customerID, packageID string) int {
	s.st.mu.Lock()
	defer s.st.mu.Unlock()
	n := 0
	for _, b := range s.st.bookings {
		if b.CustomerID == customerID && b.PackageID == packageID {
			n++
		}
	}
	return n
}

type txManager struct{}

func (txManager) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}

func newID(id string) string {
	if id != "" {
		return id
	}
	return uuid.NewString()
}

func copyStrings(in []string) []string {
	if in == nil {
		return nil
	}
	return append([]string(nil), in...)
}

// --- customers ---

type customerRepository struct{ st *state }

func (r *customerRepository) Create(ctx context.Context, c *domain.Customer) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	c.ID = newID(c.ID)
	r.st.customers[c.ID] = *c
	return nil
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	c, ok := r.st.customers[id]
	if !ok {
		return nil, domain.NewNotFound("customer", id)
	}
	return &c, nil
}

// --- agencies ---

type agencyRepository struct{ st *state }

func (r *agencyRepository) Create(ctx context.Context, a *domain.Agency) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	a.ID = newID(a.ID)
	cp := *a
	cp.Guides = copyStrings(a.Guides)
	r.st.agencies[a.ID] = &cp
	return nil
}

func (r *agencyRepository) GetByID(ctx context.Context, id string) (*domain.Agency, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	a, ok := r.st.agencies[id]
	if !ok {
		return nil, domain.NewNotFound("agency", id)
	}
	cp := *a
	cp.Guides = copyStrings(a.Guides)
	return &cp, nil
}

func (r *agencyRepository) AddGuide(ctx context.Context, agencyID, guideID string) (bool, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	a, ok := r.st.agencies[agencyID]
	if !ok {
		return false, domain.NewNotFound("agency", agencyID)
	}
	for _, id := range a.Guides {
		if id == guideID {
			return false, nil
		}
	}
	a.Guides = append(a.Guides, guideID)
	return true, nil
}

// --- packages ---

type packageRepository struct{ st *state }

func (r *packageRepository) Create(ctx context.Context, p *domain.Package) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	p.ID = newID(p.ID)
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	cp := *p
	cp.Guides = copyStrings(p.Guides)
	r.st.packages[p.ID] = &cp
	return nil
}

func (r *packageRepository) GetByID(ctx context.Context, id string) (*domain.Package, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	p, ok := r.st.packages[id]
	if !ok {
		return nil, domain.NewNotFound("package", id)
	}
	cp := *p
	cp.Guides = copyStrings(p.Guides)
	return &cp, nil
}

// --- guides ---

type guideRepository struct{ st *state }

func copyGuide(g *domain.Guide) *domain.Guide {
	cp := *g
	cp.Earnings.Monthly = append([]domain.MonthlyEarning(nil), g.Earnings.Monthly...)
	cp.Earnings.History = append([]domain.EarningEntry(nil), g.Earnings.History...)
	cp.AssignedPackages = append([]domain.AssignedPackage(nil), g.AssignedPackages...)
	return &cp
}

func (r *guideRepository) Create(ctx context.Context, g *domain.Guide) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	g.ID = newID(g.ID)
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}
	r.st.guides[g.ID] = copyGuide(g)
	return nil
}

func (r *guideRepository) GetByID(ctx context.Context, id string) (*domain.Guide, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	g, ok := r.st.guides[id]
	if !ok {
		return nil, domain.NewNotFound("guide", id)
	}
	return copyGuide(g), nil
}

// --- assignment registry ---

type assignmentRepository struct{ st *state }

func (r *assignmentRepository) AddPackageGuide(ctx context.Context, packageID, guideID string) (bool, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	p, ok := r.st.packages[packageID]
	if !ok {
		return false, domain.NewNotFound("package", packageID)
	}
	if p.HasGuide(guideID) {
		return false, nil
	}
	p.Guides = append(p.Guides, guideID)
	return true, nil
}

func (r *assignmentRepository) RemovePackageGuide(ctx context.Context, packageID, guideID string) (bool, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	p, ok := r.st.packages[packageID]
	if !ok {
		return false, domain.NewNotFound("package", packageID)
	}
	for i, id := range p.Guides {
		if id == guideID {
			p.Guides = append(p.Guides[:i], p.Guides[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *assignmentRepository) AddAssignedPackage(ctx context.Context, guideID string, assigned domain.AssignedPackage) (bool, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	g, ok := r.st.guides[guideID]
	if !ok {
		return false, domain.NewNotFound("guide", guideID)
	}
	if g.HasPackage(assigned.PackageID) {
		return false, nil
	}
	g.AssignedPackages = append(g.AssignedPackages, assigned)
	return true, nil
}

func (r *assignmentRepository) RemoveAssignedPackage(ctx context.Context, guideID, packageID string) (bool, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	g, ok := r.st.guides[guideID]
	if !ok {
		return false, domain.NewNotFound("guide", guideID)
	}
	for i, ap := range g.AssignedPackages {
		if ap.PackageID == packageID {
			g.AssignedPackages = append(g.AssignedPackages[:i], g.AssignedPackages[i+1:]...)
			return true, nil
		}
	}
	return false, nil
}

func (r *assignmentRepository) ListDivergent(ctx context.Context, limit int) ([]domain.AssignmentLink, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var links []domain.AssignmentLink
	for _, p := range r.st.packages {
		for _, gid := range p.Guides {
			g, ok := r.st.guides[gid]
			if ok && !g.HasPackage(p.ID) {
				links = append(links, domain.AssignmentLink{PackageID: p.ID, GuideID: gid})
			}
		}
	}
	for _, g := range r.st.guides {
		for _, ap := range g.AssignedPackages {
			p, ok := r.st.packages[ap.PackageID]
			if ok && !p.HasGuide(g.ID) {
				links = append(links, domain.AssignmentLink{PackageID: p.ID, GuideID: g.ID})
			}
		}
	}
	return truncate(links, limit), nil
}

func truncate[T any](in []T, limit int) []T {
	if limit > 0 && len(in) > limit {
		return in[:limit]
	}
	return in
}

// --- customer requests ---

type requestRepository struct{ st *state }

func copyRequest(r *domain.Request) *domain.Request {
	cp := *r
	cp.Itinerary = append([]domain.ItineraryDay(nil), r.Itinerary...)
	cp.AvailableDates = copyStrings(r.AvailableDates)
	return &cp
}

func (r *requestRepository) Create(ctx context.Context, req *domain.Request) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	req.ID = newID(req.ID)
	now := time.Now()
	req.CreatedAt, req.UpdatedAt = now, now
	r.st.requests[req.ID] = copyRequest(req)
	return nil
}

func (r *requestRepository) GetByID(ctx context.Context, id string) (*domain.Request, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	req, ok := r.st.requests[id]
	if !ok {
		return nil, domain.NewNotFound("request", id)
	}
	return copyRequest(req), nil
}

func (r *requestRepository) TransitionStatus(ctx context.Context, id string, from, to domain.RequestStatus) (bool, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	req, ok := r.st.requests[id]
	if !ok {
		return false, domain.NewNotFound("request", id)
	}
	if req.Status != from {
		return false, nil
	}
	req.Status = to
	req.UpdatedAt = time.Now()
	return true, nil
}

func (r *requestRepository) list(match func(*domain.Request) bool) []domain.Request {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []domain.Request
	for _, req := range r.st.requests {
		if match(req) {
			out = append(out, *copyRequest(req))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *requestRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Request, error) {
	return r.list(func(req *domain.Request) bool { return req.CustomerID == customerID }), nil
}

func (r *requestRepository) ListByAgency(ctx context.Context, agencyID string) ([]domain.Request, error) {
	return r.list(func(req *domain.Request) bool { return req.AgencyID == agencyID }), nil
}

func (r *requestRepository) ListAll(ctx context.Context) ([]domain.Request, error) {
	return r.list(func(*domain.Request) bool { return true }), nil
}

// --- guide requests ---

type guideRequestRepository struct{ st *state }

func copyGuideRequest(r *domain.GuideRequest) *domain.GuideRequest {
	cp := *r
	if r.PackageID != nil {
		pid := *r.PackageID
		cp.PackageID = &pid
	}
	return &cp
}

// findPendingLocked mirrors the two partial unique indexes of the SQL schema.
func (r *guideRequestRepository) findPendingLocked(key domain.PendingKey) *domain.GuideRequest {
	for _, gr := range r.st.guideRequests {
		if gr.Status == domain.RequestStatusPending && gr.PendingKey() == key {
			return gr
		}
	}
	return nil
}

func (r *guideRequestRepository) Create(ctx context.Context, req *domain.GuideRequest) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	if req.Status == domain.RequestStatusPending && r.findPendingLocked(req.PendingKey()) != nil {
		return domain.ErrDuplicateRequest
	}
	req.ID = newID(req.ID)
	now := time.Now()
	req.CreatedAt, req.UpdatedAt = now, now
	r.st.guideRequests[req.ID] = copyGuideRequest(req)
	return nil
}

func (r *guideRequestRepository) GetByID(ctx context.Context, id string) (*domain.GuideRequest, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	gr, ok := r.st.guideRequests[id]
	if !ok {
		return nil, domain.NewNotFound("guide request", id)
	}
	return copyGuideRequest(gr), nil
}

func (r *guideRequestRepository) FindPending(ctx context.Context, key domain.PendingKey) (*domain.GuideRequest, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	gr := r.findPendingLocked(key)
	if gr == nil {
		return nil, domain.NewNotFound("guide request", "")
	}
	return copyGuideRequest(gr), nil
}

func (r *guideRequestRepository) TransitionStatus(ctx context.Context, id string, from, to domain.RequestStatus) (bool, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	gr, ok := r.st.guideRequests[id]
	if !ok {
		return false, domain.NewNotFound("guide request", id)
	}
	if gr.Status != from {
		return false, nil
	}
	gr.Status = to
	gr.UpdatedAt = time.Now()
	return true, nil
}

func (r *guideRequestRepository) DeletePending(ctx context.Context, id string) (bool, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	gr, ok := r.st.guideRequests[id]
	if !ok {
		return false, domain.NewNotFound("guide request", id)
	}
	if gr.Status != domain.RequestStatusPending {
		return false, nil
	}
	delete(r.st.guideRequests, id)
	return true, nil
}

func (r *guideRequestRepository) list(match func(*domain.GuideRequest) bool) []domain.GuideRequest {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []domain.GuideRequest
	for _, gr := range r.st.guideRequests {
		if match(gr) {
			out = append(out, *copyGuideRequest(gr))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out
}

func (r *guideRequestRepository) ListByGuide(ctx context.Context, guideID string) ([]domain.GuideRequest, error) {
	return r.list(func(gr *domain.GuideRequest) bool { return gr.GuideID == guideID }), nil
}

func (r *guideRequestRepository) ListByAgency(ctx context.Context, agencyID string) ([]domain.GuideRequest, error) {
	return r.list(func(gr *domain.GuideRequest) bool { return gr.AgencyID == agencyID }), nil
}

func (r *guideRequestRepository) ListApprovedUnlinked(ctx context.Context, limit int) ([]domain.AssignmentLink, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var links []domain.AssignmentLink
	for _, gr := range r.st.guideRequests {
		if gr.Status != domain.RequestStatusApproved || gr.Type != domain.GuideRequestTypePackageAssignment || gr.PackageID == nil {
			continue
		}
		p, pok := r.st.packages[*gr.PackageID]
		g, gok := r.st.guides[gr.GuideID]
		if !pok || !gok {
			continue
		}
		if !p.HasGuide(g.ID) && !g.HasPackage(p.ID) {
			links = append(links, domain.AssignmentLink{PackageID: p.ID, GuideID: g.ID})
		}
	}
	return truncate(links, limit), nil
}

// --- bookings ---

type bookingRepository struct{ st *state }

func copyBooking(b *domain.Booking) *domain.Booking {
	cp := *b
	if b.GuideID != nil {
		gid := *b.GuideID
		cp.GuideID = &gid
	}
	return &cp
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	b.ID = newID(b.ID)
	now := time.Now()
	if b.BookingDate.IsZero() {
		b.BookingDate = now
	}
	b.CreatedAt, b.UpdatedAt = now, now
	r.st.bookings[b.ID] = copyBooking(b)
	return nil
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	b, ok := r.st.bookings[id]
	if !ok {
		return nil, domain.NewNotFound("booking", id)
	}
	return copyBooking(b), nil
}

func (r *bookingRepository) TransitionStatus(ctx context.Context, b *domain.Booking, from domain.BookingStatus) (bool, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	stored, ok := r.st.bookings[b.ID]
	if !ok {
		return false, domain.NewNotFound("booking", b.ID)
	}
	if stored.Status != from {
		return false, nil
	}
	b.UpdatedAt = time.Now()
	r.st.bookings[b.ID] = copyBooking(b)
	return true, nil
}

func (r *bookingRepository) FindByCustomerAndPackage(ctx context.Context, customerID, packageID string, status domain.BookingStatus) (*domain.Booking, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var found *domain.Booking
	for _, b := range r.st.bookings {
		if b.CustomerID != customerID || b.PackageID != packageID || b.Status != status {
			continue
		}
		if found == nil || b.CreatedAt.After(found.CreatedAt) {
			found = b
		}
	}
	if found == nil {
		return nil, domain.NewNotFound("booking", "")
	}
	return copyBooking(found), nil
}

func (r *bookingRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Booking, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var out []domain.Booking
	for _, b := range r.st.bookings {
		if b.CustomerID == customerID {
			out = append(out, *copyBooking(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].BookingDate.After(out[j].BookingDate) })
	return out, nil
}

func (r *bookingRepository) ListUnsettled(ctx context.Context, limit int) ([]domain.Booking, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	settled := make(map[string]bool)
	for _, g := range r.st.guides {
		for _, e := range g.Earnings.History {
			settled[e.BookingID] = true
		}
	}
	var out []domain.Booking
	for _, b := range r.st.bookings {
		if b.Status == domain.BookingStatusConfirmed && b.HasGuide() && !settled[b.ID] {
			out = append(out, *copyBooking(b))
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.Before(out[j].CreatedAt) })
	return truncate(out, limit), nil
}

// --- guide ledger ---

type ledgerRepository struct{ st *state }

func (r *ledgerRepository) RecordEarning(ctx context.Context, guideID string, entry domain.EarningEntry, month, year int) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	g, ok := r.st.guides[guideID]
	if !ok {
		return domain.NewNotFound("guide", guideID)
	}
	for _, e := range g.Earnings.History {
		if e.BookingID == entry.BookingID {
			return domain.ErrAlreadySettled
		}
	}
	g.Earnings.Apply(entry, month, year)
	return nil
}

func (r *ledgerRepository) MarkPaid(ctx context.Context, guideID, bookingID string) (decimal.Decimal, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	g, ok := r.st.guides[guideID]
	if !ok {
		return decimal.Zero, domain.NewNotFound("guide", guideID)
	}
	for i := range g.Earnings.History {
		e := &g.Earnings.History[i]
		if e.BookingID != bookingID {
			continue
		}
		if e.Status != domain.EarningStatusPending {
			return decimal.Zero, domain.ErrInvalidTransition
		}
		e.Status = domain.EarningStatusPaid
		g.Earnings.Pending = g.Earnings.Pending.Sub(e.Amount)
		g.Earnings.Received = g.Earnings.Received.Add(e.Amount)
		return e.Amount, nil
	}
	return decimal.Zero, domain.NewNotFound("earning entry", bookingID)
}

// --- notifications ---

type notificationRepository struct{ st *state }

func (r *notificationRepository) Create(ctx context.Context, n *domain.Notification) error {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	n.ID = newID(n.ID)
	n.CreatedAt = time.Now()
	r.st.notifications = append(r.st.notifications, *n)
	return nil
}

func (r *notificationRepository) List(ctx context.Context, userID string, limit, offset int32) ([]domain.Notification, int32, error) {
	r.st.mu.Lock()
	defer r.st.mu.Unlock()
	var mine []domain.Notification
	for i := len(r.st.notifications) - 1; i >= 0; i-- {
		if r.st.notifications[i].UserID == userID {
			mine = append(mine, r.st.notifications[i])
		}
	}
	total := int32(len(mine))
	if offset < 0 || offset >= total {
		return nil, total, nil
	}
	end := int64(offset) + int64(limit)
	if limit <= 0 || end > int64(total) {
		end = int64(total)
	}
	return mine[offset:end], total, nil
}
