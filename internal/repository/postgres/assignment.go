package postgres

import (
	"context"
	"database/sql"

	"travel-marketplace-backend/internal/domain"
	"travel-marketplace-backend/internal/logger"
	"travel-marketplace-backend/internal/repository"
)

type assignmentRepository struct {
	db *sql.DB
}

func NewAssignmentRepository(db *sql.DB) repository.AssignmentRepository {
	return &assignmentRepository{db: db}
}

func (r *assignmentRepository) AddPackageGuide(ctx context.Context, packageID, guideID string) (bool, error) {
	query := `INSERT INTO package_guides (package_id, guide_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	logger.DatabaseCall("INSERT", "package_guides", "packageID", packageID, "guideID", guideID)
	res, err := conn(ctx, r.db).ExecContext(ctx, query, packageID, guideID)
	if err != nil {
		logger.DatabaseResult("INSERT", 0, err)
		return false, err
	}
	n, err := rowsAffected(res)
	logger.DatabaseResult("INSERT", n, err)
	return n > 0, err
}

func (r *assignmentRepository) RemovePackageGuide(ctx context.Context, packageID, guideID string) (bool, error) {
	query := `DELETE FROM package_guides WHERE package_id = $1 AND guide_id = $2`
	res, err := conn(ctx, r.db).ExecContext(ctx, query, packageID, guideID)
	if err != nil {
		return false, err
	}
	n, err := rowsAffected(res)
	return n > 0, err
}

func (r *assignmentRepository) AddAssignedPackage(ctx context.Context, guideID string, ap domain.AssignedPackage) (bool, error) {
	query := `INSERT INTO guide_assigned_packages (guide_id, package_id, package_name, price, status)
	          VALUES ($1, $2, $3, $4, $5) ON CONFLICT DO NOTHING`
	logger.DatabaseCall("INSERT", "guide_assigned_packages", "guideID", guideID, "packageID", ap.PackageID)
	res, err := conn(ctx, r.db).ExecContext(ctx, query, guideID, ap.PackageID, ap.PackageName, ap.Price, ap.Status)
	if err != nil {
		logger.DatabaseResult("INSERT", 0, err)
		return false, err
	}
	n, err := rowsAffected(res)
	logger.DatabaseResult("INSERT", n, err)
	return n > 0, err
}

func (r *assignmentRepository) RemoveAssignedPackage(ctx context.Context, guideID, packageID string) (bool, error) {
	query := `DELETE FROM guide_assigned_packages WHERE guide_id = $1 AND package_id = $2`
	res, err := conn(ctx, r.db).ExecContext(ctx, query, guideID, packageID)
	if err != nil {
		return false, err
	}
	n, err := rowsAffected(res)
	return n > 0, err
}

func (r *assignmentRepository) ListDivergent(ctx context.Context, limit int) ([]domain.AssignmentLink, error) {
	query := `
		SELECT pg.package_id, pg.guide_id
		FROM package_guides pg
		LEFT JOIN guide_assigned_packages gap
		       ON gap.guide_id = pg.guide_id AND gap.package_id = pg.package_id
		WHERE gap.guide_id IS NULL
		UNION ALL
		SELECT gap.package_id, gap.guide_id
		FROM guide_assigned_packages gap
		LEFT JOIN package_guides pg
		       ON pg.guide_id = gap.guide_id AND pg.package_id = gap.package_id
		WHERE pg.package_id IS NULL
		LIMIT $1
	`
	return queryLinks(ctx, conn(ctx, r.db), query, limit)
}

func queryLinks(ctx context.Context, q querier, query string, args ...any) ([]domain.AssignmentLink, error) {
	rows, err := q.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var links []domain.AssignmentLink
	for rows.Next() {
		var l domain.AssignmentLink
		if err := rows.Scan(&l.PackageID, &l.GuideID); err != nil {
			return nil, err
		}
		links = append(links, l)
	}
	return links, rows.Err()
}
