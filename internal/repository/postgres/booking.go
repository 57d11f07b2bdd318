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

type bookingRepository struct {
	db *sql.DB
}

func NewBookingRepository(db *sql.DB) repository.BookingRepository {
	return &bookingRepository{db: db}
}

const bookingColumns = `id, customer_id, customer_name, package_id, package_name, guide_id, guide_name,
	total_price, status, booking_date, created_at, updated_at`

func scanBooking(s rowScanner) (*domain.Booking, error) {
	b := &domain.Booking{}
	var guideID sql.NullString
	err := s.Scan(
		&b.ID, &b.CustomerID, &b.CustomerName, &b.PackageID, &b.PackageName, &guideID, &b.GuideName,
		&b.TotalPrice, &b.Status, &b.BookingDate, &b.CreatedAt, &b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	b.GuideID = stringPtr(guideID)
	return b, nil
}

func (r *bookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	if b.ID == "" {
		b.ID = uuid.NewString()
	}
	now := time.Now()
	if b.BookingDate.IsZero() {
		b.BookingDate = now
	}
	b.CreatedAt, b.UpdatedAt = now, now

	query := `INSERT INTO bookings (` + bookingColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)`
	logger.DatabaseCall("INSERT", "bookings", "bookingID", b.ID, "customerID", b.CustomerID)
	_, err := conn(ctx, r.db).ExecContext(ctx, query,
		b.ID, b.CustomerID, b.CustomerName, b.PackageID, b.PackageName, nullString(b.GuideID), b.GuideName,
		b.TotalPrice, b.Status, b.BookingDate, b.CreatedAt, b.UpdatedAt,
	)
	logger.DatabaseResult("INSERT", 1, err, "bookingID", b.ID)
	return err
}

func (r *bookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings WHERE id = $1`
	b, err := scanBooking(conn(ctx, r.db).QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, notFound(err, "booking", id)
	}
	return b, nil
}

func (r *bookingRepository) TransitionStatus(ctx context.Context, b *domain.Booking, from domain.BookingStatus) (bool, error) {
	b.UpdatedAt = time.Now()
	query := `UPDATE bookings SET guide_id = $1, guide_name = $2, total_price = $3, status = $4, updated_at = $5
	          WHERE id = $6 AND status = $7`
	logger.DatabaseCall("UPDATE", "bookings", "bookingID", b.ID, "from", from, "to", b.Status)
	res, err := conn(ctx, r.db).ExecContext(ctx, query,
		nullString(b.GuideID), b.GuideName, b.TotalPrice, b.Status, b.UpdatedAt, b.ID, from)
	if err != nil {
		logger.DatabaseResult("UPDATE", 0, err)
		return false, err
	}
	n, err := rowsAffected(res)
	logger.DatabaseResult("UPDATE", n, err)
	if err != nil {
		return false, err
	}
	return n == 1, nil
}

func (r *bookingRepository) FindByCustomerAndPackage(ctx context.Context, customerID, packageID string, status domain.BookingStatus) (*domain.Booking, error) {
	query := `SELECT ` + bookingColumns + ` FROM bookings
	          WHERE customer_id = $1 AND package_id = $2 AND status = $3
	          ORDER BY created_at DESC LIMIT 1`
	b, err := scanBooking(conn(ctx, r.db).QueryRowContext(ctx, query, customerID, packageID, status))
	if err != nil {
		return nil, notFound(err, "booking", "")
	}
	return b, nil
}

func (r *bookingRepository) query(ctx context.Context, query string, args ...any) ([]domain.Booking, error) {
	rows, err := conn(ctx, r.db).QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []domain.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, *b)
	}
	return out, rows.Err()
}

func (r *bookingRepository) ListByCustomer(ctx context.Context, customerID string) ([]domain.Booking, error) {
	return r.query(ctx,
		`SELECT `+bookingColumns+` FROM bookings WHERE customer_id = $1 ORDER BY booking_date DESC`, customerID)
}

func (r *bookingRepository) ListUnsettled(ctx context.Context, limit int) ([]domain.Booking, error) {
	query := `SELECT b.id, b.customer_id, b.customer_name, b.package_id, b.package_name, b.guide_id, b.guide_name,
	                 b.total_price, b.status, b.booking_date, b.created_at, b.updated_at
	          FROM bookings b
	          LEFT JOIN guide_earnings_history h ON h.booking_id = b.id
	          WHERE b.status = 'confirmed' AND b.guide_id IS NOT NULL AND h.booking_id IS NULL
	          ORDER BY b.created_at
	          LIMIT $1`
	return r.query(ctx, query, limit)
}
