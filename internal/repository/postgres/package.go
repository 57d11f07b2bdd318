package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"travel-marketplace-backend/internal/domain"
	"travel-marketplace-backend/internal/repository"
)

type packageRepository struct {
	db *sql.DB
}

func NewPackageRepository(db *sql.DB) repository.PackageRepository {
	return &packageRepository{db: db}
}

func (r *packageRepository) Create(ctx context.Context, p *domain.Package) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = time.Now()
	}
	query := `INSERT INTO packages (id, name, agency_id, price, created_at) VALUES ($1, $2, $3, $4, $5)`
	_, err := conn(ctx, r.db).ExecContext(ctx, query, p.ID, p.Name, p.AgencyID, p.Price, p.CreatedAt)
	return err
}

// GetByID loads the package with its guide roster (package side of the assignment link).
func (r *packageRepository) GetByID(ctx context.Context, id string) (*domain.Package, error) {
	q := conn(ctx, r.db)
	p := &domain.Package{}
	query := `SELECT id, name, agency_id, price, created_at FROM packages WHERE id = $1`
	err := q.QueryRowContext(ctx, query, id).Scan(&p.ID, &p.Name, &p.AgencyID, &p.Price, &p.CreatedAt)
	if err != nil {
		return nil, notFound(err, "package", id)
	}

	rows, err := q.QueryContext(ctx, `SELECT guide_id FROM package_guides WHERE package_id = $1 ORDER BY created_at`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var guideID string
		if err := rows.Scan(&guideID); err != nil {
			return nil, err
		}
		p.Guides = append(p.Guides, guideID)
	}
	return p, rows.Err()
}
