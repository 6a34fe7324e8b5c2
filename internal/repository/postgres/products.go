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

type productRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewProductRepository creates a new product repository
func NewProductRepository(db *sql.DB, logger *zap.Logger) *productRepository {
	return &productRepository{
		db:     db,
		logger: logger,
	}
}

const productColumns = `id, code, name, price, cost, stock_quantity, limit_per_customer,
		cf, paid, remaining, is_deleted, create_date, update_date`

func (r *productRepository) Create(ctx context.Context, product *domain.Product) error {
	query := `
		INSERT INTO products (` + productColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	now := time.Now()
	if product.ID == uuid.Nil {
		product.ID = uuid.New()
	}
	if product.CreateDate.IsZero() {
		product.CreateDate = now
	}
	product.UpdateDate = now
	product.Remaining = product.StockQuantity - product.Paid

	_, err := r.db.ExecContext(ctx, query,
		product.ID,
		product.Code,
		product.Name,
		product.Price,
		product.Cost,
		product.StockQuantity,
		product.Limit,
		product.CF,
		product.Paid,
		product.Remaining,
		product.IsDeleted,
		product.CreateDate,
		product.UpdateDate,
	)

	if err != nil {
		r.logger.Error("Failed to create product", zap.Error(err))
		return err
	}

	return nil
}

func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products WHERE id = $1`

	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "product", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get product by ID", zap.Error(err))
		return nil, err
	}

	return product, nil
}

func (r *productRepository) List(ctx context.Context) ([]*domain.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products ORDER BY create_date DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var products []*domain.Product
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, product)
	}

	return products, rows.Err()
}

func (r *productRepository) Update(ctx context.Context, product *domain.Product) error {
	query := `
		UPDATE products
		SET code = $2, name = $3, price = $4, cost = $5, stock_quantity = $6,
			limit_per_customer = $7, cf = $8, paid = $9, remaining = $10,
			is_deleted = $11, update_date = $12
		WHERE id = $1
	`

	product.UpdateDate = time.Now()
	product.Remaining = product.StockQuantity - product.Paid

	_, err := r.db.ExecContext(ctx, query,
		product.ID,
		product.Code,
		product.Name,
		product.Price,
		product.Cost,
		product.StockQuantity,
		product.Limit,
		product.CF,
		product.Paid,
		product.Remaining,
		product.IsDeleted,
		product.UpdateDate,
	)

	if err != nil {
		r.logger.Error("Failed to update product", zap.Error(err))
		return err
	}

	return nil
}

func (r *productRepository) Delete(ctx context.Context, id uuid.UUID) error {
	query := `UPDATE products SET is_deleted = TRUE, update_date = $2 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		r.logger.Error("Failed to delete product", zap.Error(err))
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &errors.ErrNotFound{Resource: "product", ID: id.String()}
	}
	return nil
}

func (r *productRepository) Search(ctx context.Context, q string, page, limit int) (*domain.ProductPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = 2
	}

	pattern := "%" + q + "%"

	var total int
	countQuery := `SELECT COUNT(*) FROM products WHERE name ILIKE $1 OR code ILIKE $1`
	if err := r.db.QueryRowContext(ctx, countQuery, pattern).Scan(&total); err != nil {
		r.logger.Error("Failed to count products for search", zap.Error(err))
		return nil, err
	}

	query := `SELECT ` + productColumns + `
		FROM products
		WHERE name ILIKE $1 OR code ILIKE $1
		ORDER BY create_date DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.QueryContext(ctx, query, pattern, limit, (page-1)*limit)
	if err != nil {
		r.logger.Error("Failed to search products", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	docs := []*domain.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		docs = append(docs, product)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	totalPages := (total + limit - 1) / limit
	return &domain.ProductPage{
		Docs:        docs,
		TotalDocs:   total,
		Limit:       limit,
		Page:        page,
		TotalPages:  totalPages,
		HasNextPage: page < totalPages,
		HasPrevPage: page > 1,
	}, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*domain.Product, error) {
	var product domain.Product
	err := row.Scan(
		&product.ID,
		&product.Code,
		&product.Name,
		&product.Price,
		&product.Cost,
		&product.StockQuantity,
		&product.Limit,
		&product.CF,
		&product.Paid,
		&product.Remaining,
		&product.IsDeleted,
		&product.CreateDate,
		&product.UpdateDate,
	)
	if err != nil {
		return nil, err
	}
	return &product, nil
}
