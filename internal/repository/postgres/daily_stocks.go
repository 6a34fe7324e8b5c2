package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/jayrboy/vercel-server-weliveapp/internal/domain"
	"github.com/jayrboy/vercel-server-weliveapp/pkg/errors"
)

type dailyStockRepository struct {
	db     *sql.DB
	logger *zap.Logger
}

// NewDailyStockRepository creates a new daily stock repository
func NewDailyStockRepository(db *sql.DB, logger *zap.Logger) *dailyStockRepository {
	return &dailyStockRepository{
		db:     db,
		logger: logger,
	}
}

func (r *dailyStockRepository) Create(ctx context.Context, stock *domain.DailyStock) error {
	query := `
		INSERT INTO daily_stocks (id, status, channel, products, price_total, date_added, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
	`

	now := time.Now()
	if stock.ID == uuid.Nil {
		stock.ID = uuid.New()
	}
	if stock.Status == "" {
		stock.Status = domain.DailyStockStatusNew
	}
	if stock.Channel == "" {
		stock.Channel = domain.DefaultChannel
	}
	if stock.DateAdded.IsZero() {
		stock.DateAdded = now
	}
	stock.UpdatedAt = now

	productsJSON, err := json.Marshal(stock.Products)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query,
		stock.ID,
		stock.Status,
		stock.Channel,
		productsJSON,
		stock.PriceTotal,
		stock.DateAdded,
		stock.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to create daily stock", zap.Error(err))
		return err
	}

	return nil
}

func (r *dailyStockRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.DailyStock, error) {
	query := `
		SELECT id, status, channel, products, price_total, date_added, updated_at
		FROM daily_stocks
		WHERE id = $1
	`

	stock, err := scanDailyStock(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "daily_stock", ID: id.String()}
	}
	if err != nil {
		r.logger.Error("Failed to get daily stock by ID", zap.Error(err))
		return nil, err
	}

	return stock, nil
}

func (r *dailyStockRepository) List(ctx context.Context) ([]*domain.DailyStock, error) {
	query := `
		SELECT id, status, channel, products, price_total, date_added, updated_at
		FROM daily_stocks
		ORDER BY date_added DESC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		r.logger.Error("Failed to list daily stocks", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var stocks []*domain.DailyStock
	for rows.Next() {
		stock, err := scanDailyStock(rows)
		if err != nil {
			return nil, err
		}
		stocks = append(stocks, stock)
	}

	return stocks, rows.Err()
}

func (r *dailyStockRepository) ListByStatus(ctx context.Context, status string) ([]*domain.DailyStock, error) {
	query := `
		SELECT id, status, channel, products, price_total, date_added, updated_at
		FROM daily_stocks
		WHERE status = $1
		ORDER BY date_added DESC
	`

	rows, err := r.db.QueryContext(ctx, query, status)
	if err != nil {
		r.logger.Error("Failed to list daily stocks", zap.Error(err))
		return nil, err
	}
	defer rows.Close()

	var stocks []*domain.DailyStock
	for rows.Next() {
		stock, err := scanDailyStock(rows)
		if err != nil {
			return nil, err
		}
		stocks = append(stocks, stock)
	}

	return stocks, rows.Err()
}

func (r *dailyStockRepository) GetLatestByStatus(ctx context.Context, status string) (*domain.DailyStock, error) {
	query := `
		SELECT id, status, channel, products, price_total, date_added, updated_at
		FROM daily_stocks
		WHERE status = $1
		ORDER BY date_added DESC
		LIMIT 1
	`

	stock, err := scanDailyStock(r.db.QueryRowContext(ctx, query, status))
	if err == sql.ErrNoRows {
		return nil, &errors.ErrNotFound{Resource: "daily_stock", ID: "status " + status}
	}
	if err != nil {
		r.logger.Error("Failed to get latest daily stock", zap.Error(err))
		return nil, err
	}

	return stock, nil
}

func (r *dailyStockRepository) Update(ctx context.Context, stock *domain.DailyStock) error {
	query := `
		UPDATE daily_stocks
		SET status = $2, channel = $3, products = $4, price_total = $5, updated_at = $6
		WHERE id = $1
	`

	stock.UpdatedAt = time.Now()

	productsJSON, err := json.Marshal(stock.Products)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, query,
		stock.ID,
		stock.Status,
		stock.Channel,
		productsJSON,
		stock.PriceTotal,
		stock.UpdatedAt,
	)
	if err != nil {
		r.logger.Error("Failed to update daily stock", zap.Error(err))
		return err
	}

	return nil
}

func (r *dailyStockRepository) UpdatePriceTotal(ctx context.Context, id uuid.UUID, total decimal.Decimal) error {
	query := `UPDATE daily_stocks SET price_total = $2, updated_at = $3 WHERE id = $1`

	res, err := r.db.ExecContext(ctx, query, id, total, time.Now())
	if err != nil {
		r.logger.Error("Failed to update daily stock price total", zap.Error(err))
		return err
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return &errors.ErrNotFound{Resource: "daily_stock", ID: id.String()}
	}

	return nil
}

// RemoveProduct drops a product snapshot from the latest open stock. Returns false
// when no open stock exists or the product is not in it.
func (r *dailyStockRepository) RemoveProduct(ctx context.Context, productID uuid.UUID) (bool, error) {
	stock, err := r.GetLatestByStatus(ctx, domain.DailyStockStatusNew)
	if err != nil {
		if _, ok := err.(*errors.ErrNotFound); ok {
			return false, nil
		}
		return false, err
	}

	kept := make([]domain.DailyStockProduct, 0, len(stock.Products))
	removed := false
	for _, p := range stock.Products {
		if p.ProductID == productID {
			removed = true
			continue
		}
		kept = append(kept, p)
	}
	if !removed {
		return false, nil
	}

	stock.Products = kept
	if err := r.Update(ctx, stock); err != nil {
		return false, err
	}

	return true, nil
}

func scanDailyStock(row rowScanner) (*domain.DailyStock, error) {
	var stock domain.DailyStock
	var productsJSON []byte

	err := row.Scan(
		&stock.ID,
		&stock.Status,
		&stock.Channel,
		&productsJSON,
		&stock.PriceTotal,
		&stock.DateAdded,
		&stock.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if len(productsJSON) > 0 {
		if err := json.Unmarshal(productsJSON, &stock.Products); err != nil {
			return nil, err
		}
	}
	if stock.Products == nil {
		stock.Products = []domain.DailyStockProduct{}
	}

	return &stock, nil
}
