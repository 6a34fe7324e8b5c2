package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jayrboy/vercel-server-weliveapp/internal/domain"
	"github.com/jayrboy/vercel-server-weliveapp/pkg/errors"
)

type customerRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewCustomerRepository creates a new customer repository
func NewCustomerRepository(db *sql.DB, logger *zap.Logger) *customerRepository {
	return &customerRepository{
		db:     db,
		logger: logger,
	}
}

func (r *customerRepository) Upsert(ctx context.Context, customer *domain.Customer) error {
	query := `
		INSERT INTO customers (id, facebook_id, name, email, picture_url, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (facebook_id) DO UPDATE
		SET name = EXCLUDED.name, email = EXCLUDED.email, picture_url = EXCLUDED.picture_url,
			updated_at = EXCLUDED.updated_at
		RETURNING id, created_at
	`

	now := time.Now()
	if customer.ID == uuid.Nil {
		customer.ID = uuid.New()
	}
	customer.UpdatedAt = now
	if customer.CreatedAt.IsZero() {
		customer.CreatedAt = now
	}

	err := r.db.QueryRowContext(ctx, query,
		customer.ID,
		customer.FacebookID,
		customer.Name,
		customer.Email,
		customer.PictureURL,
		customer.CreatedAt,
		customer.UpdatedAt,
	).Scan(&customer.ID, &customer.CreatedAt)
	if err != nil {
		r.logger.Error("Failed to upsert customer", zap.Error(err))
		return err
	}

	return nil
}

func (r *customerRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error) {
	query := `
		SELECT id, facebook_id, name, email, picture_url, created_at, updated_at
		FROM customers
		WHERE id = $1
	`

	var customer domain.Customer
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&customer.ID,
		&customer.FacebookID,
		&customer.Name,
		&customer.Email,
		&customer.PictureURL,
		&customer.CreatedAt,
		&customer.UpdatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "customer", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get customer by ID", zap.Error(err))
		return nil, err
	}

	return &customer, nil
}

func (r *customerRepository) List(ctx context.Context) ([]*domain.Customer, error) {
	query := `
		SELECT id, facebook_id, name, email, picture_url, created_at, updated_at
		FROM customers
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list customers", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var customers []*domain.Customer
	for rows.Next() {
		var customer domain.Customer
		if err := rows.Scan(
			&customer.ID,
			&customer.FacebookID,
			&customer.Name,
			&customer.Email,
			&customer.PictureURL,
			&customer.CreatedAt,
			&customer.UpdatedAt,
		); err != nil {
			return nil, err
		}
		customers = append(customers, &customer)
	}

	return customers, rows.Err()
}
