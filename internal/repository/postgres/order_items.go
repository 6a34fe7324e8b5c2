package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jayrboy/vercel-server-weliveapp/internal/domain"
)

type saleOrderItemRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSaleOrderItemRepository creates a new sale order item repository
func NewSaleOrderItemRepository(db *sql.DB, logger *zap.Logger) *saleOrderItemRepository {
	return &saleOrderItemRepository{
		db:     db,
		logger: logger,
	}
}

func (r *saleOrderItemRepository) CreateBatch(ctx context.Context, orderID uuid.UUID, items []*domain.OrderItem) error {
	if len(items) == 0 {
		return nil
	}

	now := time.Now()
	placeholders := make([]string, 0, len(items))
	args := make([]interface{}, 0, len(items)*7)

	for i, item := range items {
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		item.SaleOrderID = orderID
		item.CreatedAt = now

		base := i * 7
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d, $%d, $%d, $%d, $%d, $%d)",
			base+1, base+2, base+3, base+4, base+5, base+6, base+7))
		args = append(args,
			item.ID,
			item.SaleOrderID,
			item.ProductID,
			item.Name,
			item.Price,
			item.Quantity,
			item.CreatedAt,
		)
	}

	query := `
		INSERT INTO sale_order_items (id, sale_order_id, product_id, name, price, quantity, created_at)
		VALUES ` + strings.Join(placeholders, ", ")

	_, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		r.logger.Error("Failed to create sale order items", zap.Error(err))
		return err
	}

	return nil
}

func (r *saleOrderItemRepository) GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]*domain.OrderItem, error) {
	query := `
		SELECT id, sale_order_id, product_id, name, price, quantity, created_at
		FROM sale_order_items
		WHERE sale_order_id = $1
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, orderID)
	if err != nil {
		r.logger.Error("Failed to get sale order items", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var items []*domain.OrderItem
	for rows.Next() {
		var item domain.OrderItem
		if err := rows.Scan(
			&item.ID,
			&item.SaleOrderID,
			&item.ProductID,
			&item.Name,
			&item.Price,
			&item.Quantity,
			&item.CreatedAt,
		); err != nil {
			return nil, err
		}
		items = append(items, &item)
	}

	return items, rows.Err()
}

func (r *saleOrderItemRepository) Update(ctx context.Context, item *domain.OrderItem) error {
	query := `
		UPDATE sale_order_items
		SET product_id = $2, name = $3, price = $4, quantity = $5
		WHERE id = $1
	`

	_, err := r.db.ExecContext(ctx, query,
		item.ID,
		item.ProductID,
		item.Name,
		item.Price,
		item.Quantity,
	)
	if err != nil {
		r.logger.Error("Failed to update sale order item", zap.Error(err))
		return err
	}

	return nil
}

func (r *saleOrderItemRepository) DeleteByOrderID(ctx context.Context, orderID uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sale_order_items WHERE sale_order_id = $1`, orderID)
	if err != nil {
		r.logger.Error("Failed to delete sale order items", zap.Error(err))
		return err
	}
	return nil
}
