package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"travel-marketplace-backend/internal/domain"
	"travel-marketplace-backend/internal/logger"
	"travel-marketplace-backend/internal/repository"
)

type requestRepository struct {
	db *sql.DB
}

func NewRequestRepository(db *sql.DB) repository.RequestRepository {
	return &requestRepository{db: db}
}

const requestColumns = `id, customer_id, customer_name, package_id, package_name, agency_id, guide_id,
	request_type, price, duration, itinerary, available_dates, max_group_size, message, status,
	created_at, updated_at`

func (r *requestRepository) Create(ctx context.Context, req *domain.Request) error {
	logger.EnterMethod("requestRepository.Create", "customerID", req.CustomerID, "packageID", req.PackageID)

	if req.ID == "" {
		req.ID = uuid.NewString()
	}
	itinerary, err := json.Marshal(req.Itinerary)
	if err != nil {
		return fmt.Errorf("marshal itinerary: %w", err)
	}
	if req.AvailableDates == nil {
		req.AvailableDates = []string{}
	}
	now := time.Now()
	req.CreatedAt, req.UpdatedAt = now, now

	query := `INSERT INTO requests (` + requestColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17)`
	_, err = conn(ctx, r.db).ExecContext(ctx, query,
		req.ID, req.CustomerID, req.CustomerName, req.PackageID, req.PackageName, req.AgencyID, nullString(req.GuideID),
		req.RequestType, req.Price, req.Duration, itinerary, pq.Array(req.AvailableDates), req.MaxGroupSize, req.Message, req.Status,
		req.CreatedAt, req.UpdatedAt,
	)
	if err != nil {
		logger.ExitMethodWithError("requestRepository.Create", err, "customerID", req.CustomerID)
		return err
	}

	logger.ExitMethod("requestRepository.Create", "requestID", req.ID)
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRequest(s rowScanner) (*domain.Request, error) {
	req := &domain.Request{}
	var guideID sql.NullString
	var itinerary []byte
	err := s.Scan(
		&req.ID, &req.CustomerID, &req.CustomerName, &req.PackageID, &req.PackageName, &req.AgencyID, &guideID,
		&req.RequestType, &req.Price, &req.Duration, &itinerary, pq.Array(&req.AvailableDates), &req.MaxGroupSize, &req.Message, &req.Status,
		&req.CreatedAt, &req.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	req.GuideID = stringPtr(guideID)
	if len(itinerary) > 0 {
		if err := json.Unmarshal(itinerary, &req.Itinerary); err != nil {
			return nil, fmt.Errorf("unmarshal itinerary: %w", err)
		}
	}
	return req, nil
}

func (r *requestRepository) GetByID(ctx context.Context, id string) (*domain.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE id = $1`
	req, err := scanRequest(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "request", id)
	}
	return req, nil
}

// TransitionStatus is a compare-and-set on status so two concurrent deciders cannot both win.
func (r *requestRepository) TransitionStatus(ctx context.Context, id string, from, to domain.RequestStatus) (bool, error) {
	query := `UPDATE requests SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`
	logger.DatabaseCall("UPDATE", "requests", "requestID", id, "from", from, "to", to)
	res, err := conn(ctx, r.db).ExecContext(ctx, query, to, time.Now(), id, from)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return false, err
	}
	n, err := rowsAffected(res)
	logger.DatabaseResult("UPDATE", n, err)
	return n == 1, err
}

func (r *requestRepository) list(ctx context.Context, where string, args ...any) ([]domain.Request, error) {
	query := `SELECT ` + requestColumns + ` FROM requests WHERE ` + where + ` ORDER BY created_at DESC`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var reqs []domain.Request
	for rows.Next() {
		req, err := scanRequest(rows)
		if err != nil {
			return nil, err
		}
		reqs = append(reqs, *req)
	}
	return reqs, rows.Err()
}

func (r *requestRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Request, error) {
	return r.list(ctx, "customer_id = $1", customerID)
}

func (r *requestRepository) ListByAgency(ctx context.Context, agencyID string) ([]domain.Request, error) {
	return r.list(ctx, "agency_id = $1", agencyID)
}

func (r *requestRepository) ListAll(ctx context.Context) ([]domain.Request, error) {
	return r.list(ctx, "TRUE")
}
