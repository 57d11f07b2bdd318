package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"travel-marketplace-backend/internal/domain"
	"travel-marketplace-backend/internal/logger"
	"travel-marketplace-backend/internal/repository"
)

type guideRepository struct {
	db *sql.DB
}

func NewGuideRepository(db *sql.DB) repository.GuideRepository {
	return &guideRepository{db: db}
}

func (r *guideRepository) Create(ctx context.Context, g *domain.Guide) error {
	if g.ID == "" {
		g.ID = uuid.NewString()
	}
	if g.CreatedAt.IsZero() {
		g.CreatedAt = time.Now()
	}
	query := `INSERT INTO guides (id, name, email, created_at, updated_at) VALUES ($1, $2, $3, $4, $4)`
	_, err := conn(ctx, r.db).ExecContext(ctx, query, g.ID, g.Name, g.Email, g.CreatedAt)
	return err
}

func (r *guideRepository) GetByID(ctx context.Context, id string) (*domain.Guide, error) {
	logger.EnterMethod("guideRepository.GetByID", "guideID", id)
	q := conn(ctx, r.db)

	g := &domain.Guide{}
	query := `SELECT id, name, email, earnings_total, earnings_pending, earnings_received, created_at
	          FROM guides WHERE id = $1`
	err := q.QueryRowContext(ctx, query, id).Scan(
		&g.ID, &g.Name, &g.Email,
		&g.Earnings.Total, &g.Earnings.Pending, &g.Earnings.Received,
		&g.CreatedAt,
	)
	if err != nil {
		err = notFound(err, "guide", id)
		logger.ExitMethodWithError("guideRepository.GetByID", err, "guideID", id)
		return nil, err
	}

	if err := r.loadMonthly(ctx, q, g); err != nil {
		return nil, err
	}
	if err := r.loadHistory(ctx, q, g); err != nil {
		return nil, err
	}
	if err := r.loadAssignedPackages(ctx, q, g); err != nil {
		return nil, err
	}

	logger.ExitMethod("guideRepository.GetByID", "guideID", id, "history", len(g.Earnings.History))
	return g, nil
}

func (r *guideRepository) loadMonthly(ctx context.Context, q querier, g *domain.Guide) error {
	rows, err := q.QueryContext(ctx,
		`SELECT month, year, amount FROM guide_earnings_monthly WHERE guide_id = $1 ORDER BY year, month`, g.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var m domain.MonthlyEarning
		if err := rows.Scan(&m.Month, &m.Year, &m.Amount); err != nil {
			return err
		}
		g.Earnings.Monthly = append(g.Earnings.Monthly, m)
	}
	return rows.Err()
}

func (r *guideRepository) loadHistory(ctx context.Context, q querier, g *domain.Guide) error {
	rows, err := q.QueryContext(ctx,
		`SELECT booking_id, package_id, package_name, customer_name, amount, date, status
		 FROM guide_earnings_history WHERE guide_id = $1 ORDER BY date, id`, g.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var e domain.EarningEntry
		if err := rows.Scan(&e.BookingID, &e.PackageID, &e.PackageName, &e.CustomerName, &e.Amount, &e.Date, &e.Status); err != nil {
			return err
		}
		g.Earnings.History = append(g.Earnings.History, e)
	}
	return rows.Err()
}

func (r *guideRepository) loadAssignedPackages(ctx context.Context, q querier, g *domain.Guide) error {
	rows, err := q.QueryContext(ctx,
		`SELECT package_id, package_name, price, status
		 FROM guide_assigned_packages WHERE guide_id = $1 ORDER BY created_at`, g.ID)
	if err != nil {
		return err
	}
	defer rows.Close()
	for rows.Next() {
		var ap domain.AssignedPackage
		if err := rows.Scan(&ap.PackageID, &ap.PackageName, &ap.Price, &ap.Status); err != nil {
			return err
		}
		g.AssignedPackages = append(g.AssignedPackages, ap)
	}
	return rows.Err()
}
