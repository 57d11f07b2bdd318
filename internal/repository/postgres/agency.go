package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"travel-marketplace-backend/internal/domain"
	"travel-marketplace-backend/internal/repository"
)

type agencyRepository struct {
	db *sql.DB
}

func NewAgencyRepository(db *sql.DB) repository.AgencyRepository {
	return &agencyRepository{db: db}
}

func (r *agencyRepository) Create(ctx context.Context, a *domain.Agency) error {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	query := `INSERT INTO agencies (id, name, email) VALUES ($1, $2, $3)`
	_, err := conn(ctx, r.db).ExecContext(ctx, query, a.ID, a.Name, a.Email)
	return err
}

func (r *agencyRepository) GetByID(ctx context.Context, id string) (*domain.Agency, error) {
	q := conn(ctx, r.db)
	a := &domain.Agency{}
	err := q.QueryRowContext(ctx, `SELECT id, name, email FROM agencies WHERE id = $1`, id).Scan(&a.ID, &a.Name, &a.Email)
	if err != nil {
		return nil, notFound(err, "agency", id)
	}

	rows, err := q.QueryContext(ctx, `SELECT guide_id FROM agency_guides WHERE agency_id = $1 ORDER BY created_at`, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	for rows.Next() {
		var guideID string
		if err := rows.Scan(&guideID); err != nil {
			return nil, err
		}
		a.Guides = append(a.Guides, guideID)
	}
	return a, rows.Err()
}

func (r *agencyRepository) AddGuide(ctx context.Context, agencyID, guideID string) (bool, error) {
	query := `INSERT INTO agency_guides (agency_id, guide_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`
	res, err := conn(ctx, r.db).ExecContext(ctx, query, agencyID, guideID)
	if err != nil {
		if code, _ := pqCode(err); code == foreignKeyViolation {
			return false, domain.NewNotFound("agency", agencyID)
		}
		return false, err
	}
	n, err := rowsAffected(res)
	return n > 0, err
}
