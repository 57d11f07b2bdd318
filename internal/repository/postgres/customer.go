package postgres

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"travel-marketplace-backend/internal/domain"
	"travel-marketplace-backend/internal/repository"
)

type customerRepository struct {
	db *sql.DB
}

func NewCustomerRepository(db *sql.DB) repository.CustomerRepository {
	return &customerRepository{db: db}
}

func (r *customerRepository) Create(ctx context.Context, c *domain.Customer) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	query := `INSERT INTO customers (id, name, email) VALUES ($1, $2, $3)`
	_, err := conn(ctx, r.db).ExecContext(ctx, query, c.ID, c.Name, c.Email)
	return err
}

func (r *customerRepository) GetByID(ctx context.Context, id string) (*domain.Customer, error) {
	c := &domain.Customer{}
	query := `SELECT id, name, email FROM customers WHERE id = $1`
	err := conn(ctx, r.db).QueryRowContext(ctx, query, id).Scan(&c.ID, &c.Name, &c.Email)
	if err != nil {
		return nil, notFound(err, "customer", id)
	}
	return c, nil
}
