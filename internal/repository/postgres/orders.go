package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"go.uber.org/zap"

	"github.com/jayrboy/vercel-server-weliveapp/internal/domain"
	"github.com/jayrboy/vercel-server-weliveapp/pkg/errors"
)

type saleOrderRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewSaleOrderRepository creates a new sale order repository
func NewSaleOrderRepository(db *sql.DB, logger *zap.Logger) *saleOrderRepository {
	return &saleOrderRepository{
		db:     db,
		logger: logger,
	}
}

const saleOrderColumns = `id, customer_fb_id, customer_name, picture_payment, address,
		sub_district, sub_area, district, postcode, tel, channel, complete, sent,
		date_added, updated_at`

func (r *saleOrderRepository) Create(ctx context.Context, order *domain.SaleOrder) error {
	query := `
		INSERT INTO sale_orders (` + saleOrderColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15)
	`

	now := time.Now()
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	if order.Channel == "" {
		order.Channel = domain.DefaultChannel
	}
	if order.DateAdded.IsZero() {
		order.DateAdded = now
	}
	order.UpdatedAt = now

	_, err := r.db.ExecContext(ctx, query,
		order.ID,
		order.CustomerFacebookID,
		order.CustomerName,
		order.PicturePayment,
		order.Address,
		order.SubDistrict,
		order.SubArea,
		order.District,
		order.Postcode,
		order.Tel,
		order.Channel,
		order.Complete,
		order.Sent,
		order.DateAdded,
		order.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to create sale order", zap.Error(err))
		return err
	}

	return nil
}

func (r *saleOrderRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.SaleOrder, error) {
	query := `SELECT ` + saleOrderColumns + ` FROM sale_orders WHERE id = $1`

	order, err := scanSaleOrder(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "sale_order", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get sale order by ID", zap.Error(err))
		return nil, err
	}

	if err := r.loadItems(ctx, []*domain.SaleOrder{order}); err != nil {
		return nil, err
	}
	return order, nil
}

func (r *saleOrderRepository) List(ctx context.Context) ([]*domain.SaleOrder, error) {
	query := `SELECT ` + saleOrderColumns + ` FROM sale_orders ORDER BY date_added DESC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list sale orders", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.SaleOrder
	for rows.Next() {
		order, err := scanSaleOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

func (r *saleOrderRepository) Update(ctx context.Context, order *domain.SaleOrder) error {
	query := `
		UPDATE sale_orders
		SET customer_fb_id = $2, customer_name = $3, picture_payment = $4, address = $5,
			sub_district = $6, sub_area = $7, district = $8, postcode = $9, tel = $10,
			channel = $11, complete = $12, sent = $13, updated_at = $14
		WHERE id = $1
	`

	order.UpdatedAt = time.Now()

	_, err := r.db.ExecContext(ctx, query,
		order.ID,
		order.CustomerFacebookID,
		order.CustomerName,
		order.PicturePayment,
		order.Address,
		order.SubDistrict,
		order.SubArea,
		order.District,
		order.Postcode,
		order.Tel,
		order.Channel,
		order.Complete,
		order.Sent,
		order.UpdatedAt,
	)

	if err != nil {
		r.logger.Error("Failed to update sale order", zap.Error(err))
		return err
	}

	return nil
}

func (r *saleOrderRepository) Delete(ctx context.Context, id uuid.UUID) error {
	_, err := r.db.ExecContext(ctx, `DELETE FROM sale_orders WHERE id = $1`, id)
	if err != nil {
		r.logger.Error("Failed to delete sale order", zap.Error(err))
		return err
	}
	return nil
}

func (r *saleOrderRepository) ToggleComplete(ctx context.Context, id uuid.UUID) (*domain.SaleOrder, error) {
	return r.toggleFlag(ctx, id, "complete")
}

func (r *saleOrderRepository) ToggleSent(ctx context.Context, id uuid.UUID) (*domain.SaleOrder, error) {
	return r.toggleFlag(ctx, id, "sent")
}

// toggleFlag flips a boolean status column. Last write wins on concurrent toggles.
func (r *saleOrderRepository) toggleFlag(ctx context.Context, id uuid.UUID, column string) (*domain.SaleOrder, error) {
	query := `UPDATE sale_orders SET ` + column + ` = NOT ` + column + `, updated_at = $2 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		r.logger.Error("Failed to toggle sale order flag", zap.String("column", column), zap.Error(err))
		return nil, err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return nil, &errors.ErrNotFound{Resource: "sale_order", ID: id.String()}
	}

	return r.GetByID(ctx, id)
}

// GetNewestByCustomerName resolves the chatbot's display-name join. The name is an
// unverified string and may match several orders; the newest one is returned and a
// warning is logged so the ambiguity is observable.
func (r *saleOrderRepository) GetNewestByCustomerName(ctx context.Context, name string) (*domain.SaleOrder, error) {
	if name == "" {
		return nil, &errors.ErrNotFound{Resource: "sale_order", ID: "customer_name empty"}
	}

	var matches int
	if err := r.db.QueryRowContext(ctx,
		`SELECT COUNT(*) FROM sale_orders WHERE customer_name = $1`, name).Scan(&matches); err != nil {
		r.logger.Error("Failed to count sale orders by customer name", zap.Error(err))
		return nil, err
	}
	if matches == 0 {
		return nil, &errors.ErrNotFound{Resource: "sale_order", ID: name}
	}
	if matches > 1 {
		r.logger.Warn("Multiple sale orders share a customer name, picking newest",
			zap.String("customer_name", name),
			zap.Int("matches", matches),
		)
	}

	query := `SELECT ` + saleOrderColumns + `
		FROM sale_orders
		WHERE customer_name = $1
		ORDER BY date_added DESC
		LIMIT 1
	`

	order, err := scanSaleOrder(r.db.QueryRowContext(ctx, query, name))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "sale_order", ID: name}
	}
	if err != nil {
		r.logger.Error("Failed to get sale order by customer name", zap.Error(err))
		return nil, err
	}

	if err := r.loadItems(ctx, []*domain.SaleOrder{order}); err != nil {
		return nil, err
	}
	return order, nil
}

// ListCompletedByProductID returns every completed order holding a line item for the
// product, items preloaded. The report aggregation scans the whole result in memory.
func (r *saleOrderRepository) ListCompletedByProductID(ctx context.Context, productID uuid.UUID) ([]*domain.SaleOrder, error) {
	query := `SELECT DISTINCT o.id, o.customer_fb_id, o.customer_name, o.picture_payment, o.address,
			o.sub_district, o.sub_area, o.district, o.postcode, o.tel, o.channel, o.complete, o.sent,
			o.date_added, o.updated_at
		FROM sale_orders o
		JOIN sale_order_items i ON i.sale_order_id = o.id
		WHERE o.complete = TRUE AND i.product_id = $1
		ORDER BY o.date_added DESC
	`

	rows, err := r.db.QueryContext(ctx, query, productID)
	if err != nil {
		r.logger.Error("Failed to list completed sale orders by product ID", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var orders []*domain.SaleOrder
	for rows.Next() {
		order, err := scanSaleOrder(rows)
		if err != nil {
			return nil, err
		}
		orders = append(orders, order)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}
	return orders, nil
}

// loadItems attaches line items to the given orders with a single query.
func (r *saleOrderRepository) loadItems(ctx context.Context, orders []*domain.SaleOrder) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]string, 0, len(orders))
	byID := make(map[uuid.UUID]*domain.SaleOrder, len(orders))
	for _, o := range orders {
		ids = append(ids, o.ID.String())
		byID[o.ID] = o
		o.Items = []*domain.OrderItem{}
	}

	query := `
		SELECT id, sale_order_id, product_id, name, price, quantity, created_at
		FROM sale_order_items
		WHERE sale_order_id = ANY($1::uuid[])
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query, pq.Array(ids))
	if err != nil {
		r.logger.Error("Failed to load sale order items", zap.Error(err))
		return err
	}
	defer rows.Close()

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
			return err
		}
		if o, ok := byID[item.SaleOrderID]; ok {
			o.Items = append(o.Items, &item)
		}
	}

	return rows.Err()
}

func scanSaleOrder(row rowScanner) (*domain.SaleOrder, error) {
	var order domain.SaleOrder
	var picturePayment sql.NullString

	err := row.Scan(
		&order.ID,
		&order.CustomerFacebookID,
		&order.CustomerName,
		&picturePayment,
		&order.Address,
		&order.SubDistrict,
		&order.SubArea,
		&order.District,
		&order.Postcode,
		&order.Tel,
		&order.Channel,
		&order.Complete,
		&order.Sent,
		&order.DateAdded,
		&order.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if picturePayment.Valid {
		order.PicturePayment = &picturePayment.String
	}

	return &order, nil
}
