package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"travel-marketplace-backend/internal/domain"
	"travel-marketplace-backend/internal/logger"
	"travel-marketplace-backend/internal/repository"
)

type guideRequestRepository struct {
	db *sql.DB
}

func NewGuideRequestRepository(db *sql.DB) repository.GuideRequestRepository {
	return &guideRequestRepository{db: db}
}

const guideRequestColumns = `id, guide_id, guide_name, package_id, package_name, agency_id, agency_name,
	message, initiator, type, status, created_at, updated_at`

func scanGuideRequest(s rowScanner) (*domain.GuideRequest, error) {
	gr := &domain.GuideRequest{}
	var packageID sql.NullString
	err := s.Scan(
		&gr.ID, &gr.GuideID, &gr.GuideName, &packageID, &gr.PackageName, &gr.AgencyID, &gr.AgencyName,
		&gr.Message, &gr.Initiator, &gr.Type, &gr.Status, &gr.CreatedAt, &gr.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	gr.PackageID = stringPtr(packageID)
	return gr, nil
}

func (r *guideRequestRepository) Create(ctx context.Context, gr *domain.GuideRequest) error {
	logger.EnterMethod("guideRequestRepository.Create", "guideID", gr.GuideID, "agencyID", gr.AgencyID, "type", gr.Type)

	if gr.ID == "" {
		gr.ID = uuid.NewString()
	}
	now := time.Now()
	gr.CreatedAt, gr.UpdatedAt = now, now

	query := `INSERT INTO guide_requests (` + guideRequestColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	logger.DatabaseCall("INSERT", "guide_requests", "guideRequestID", gr.ID)
	_, err := conn(ctx, r.db).ExecContext(ctx, query,
		gr.ID, gr.GuideID, gr.GuideName, nullString(gr.PackageID), gr.PackageName, gr.AgencyID, gr.AgencyName,
		gr.Message, gr.Initiator, gr.Type, gr.Status, gr.CreatedAt, gr.UpdatedAt,
	)
	if err != nil {
		if code, constraint := pqCode(err); code == uniqueViolation {
			logger.Warn("Pending guide request slot already taken", "constraint", constraint, "guideID", gr.GuideID)
			err = domain.ErrDuplicateRequest
		}
		logger.ExitMethodWithError("guideRequestRepository.Create", err, "guideID", gr.GuideID)
		return err
	}

	logger.ExitMethod("guideRequestRepository.Create", "guideRequestID", gr.ID)
	return nil
}

func (r *guideRequestRepository) GetByID(ctx context.Context, id string) (*domain.GuideRequest, error) {
	query := `SELECT ` + guideRequestColumns + ` FROM guide_requests WHERE id = $1`
	gr, err := scanGuideRequest(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "guide request", id)
	}
	return gr, nil
}

func (r *guideRequestRepository) FindPending(ctx context.Context, key domain.PendingKey) (*domain.GuideRequest, error) {
	var target string
	switch key.Type {
	case domain.GuideRequestTypePackageAssignment:
		target = "package_id"
	case domain.GuideRequestTypeGeneralCollaboration:
		target = "agency_id"
	default:
		return nil, fmt.Errorf("%w: guide request type %q", domain.ErrInvalidInput, key.Type)
	}

	query := `SELECT ` + guideRequestColumns + ` FROM guide_requests
	          WHERE type = $1 AND guide_id = $2 AND ` + target + ` = $3 AND status = 'pending'
	          LIMIT 1`
	gr, err := scanGuideRequest(conn(ctx, r.db).QueryRowContext(ctx, query, key.Type, key.GuideID, key.Target))
	if err != nil {
		return nil, notFound(err, "guide request", "")
	}
	return gr, nil
}

func (r *guideRequestRepository) TransitionStatus(ctx context.Context, id string, from, to domain.RequestStatus) (bool, error) {
	query := `UPDATE guide_requests SET status = $1, updated_at = $2 WHERE id = $3 AND status = $4`
	logger.DatabaseCall("UPDATE", "guide_requests", "guideRequestID", id, "from", from, "to", to)
	res, err := conn(ctx, r.db).ExecContext(ctx, query, to, time.Now(), id, from)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return false, err
	}
	n, err := rowsAffected(res)
	logger.DatabaseResult("UPDATE", n, err)
	return n == 1, err
}

func (r *guideRequestRepository) DeletePending(ctx context.Context, id string) (bool, error) {
	query := `DELETE FROM guide_requests WHERE id = $1 AND status = 'pending'`
	logger.DatabaseCall("DELETE", "guide_requests", "guideRequestID", id)
	res, err := conn(ctx, r.db).ExecContext(ctx, query, id)
	if err != nil {
		logger.DatabaseResult("DELETE", 0, err)
		return false, err
	}
	n, err := rowsAffected(res)
	logger.DatabaseResult("DELETE", n, err)
	return n == 1, err
}

func (r *guideRequestRepository) list(ctx context.Context, where string, arg any) ([]domain.GuideRequest, error) {
	query := `SELECT ` + guideRequestColumns + ` FROM guide_requests WHERE ` + where + ` ORDER BY created_at DESC`
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, arg)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.GuideRequest
	for rows.Next() {
		gr, err := scanGuideRequest(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *gr)
	}
	return out, rows.Err()
}

func (r *guideRequestRepository) ListByGuide(ctx context.Context, guideID string) ([]domain.GuideRequest, error) {
	return r.list(ctx, "guide_id = $1", guideID)
}

func (r *guideRequestRepository) ListByAgency(ctx context.Context, agencyID string) ([]domain.GuideRequest, error) {
	return r.list(ctx, "agency_id = $1", agencyID)
}

func (r *guideRequestRepository) ListApprovedUnlinked(ctx context.Context, limit int) ([]domain.AssignmentLink, error) {
	query := `
		SELECT DISTINCT gr.package_id, gr.guide_id
		FROM guide_requests gr
		LEFT JOIN package_guides pg
		       ON pg.package_id = gr.package_id AND pg.guide_id = gr.guide_id
		LEFT JOIN guide_assigned_packages gap
		       ON gap.package_id = gr.package_id AND gap.guide_id = gr.guide_id
		WHERE gr.type = 'package_assignment'
		  AND gr.status = 'approved'
		  AND gr.package_id IS NOT NULL
		  AND pg.package_id IS NULL
		  AND gap.package_id IS NULL
		LIMIT $1
	`
	return queryLinks(ctx, conn(ctx, r.db), query, limit)
}
