package postgres

import (
	"database/sql"

	"go.uber.org/zap"

	"github.com/jayrboy/vercel-server-weliveapp/internal/repository"
)

// NewRepositories creates a new set of repositories
func NewRepositories(db *sql.DB, logger *zap.Logger) *repository.Repositories {
	return &repository.Repositories{
		Product:       NewProductRepository(db, logger),
		SaleOrder:     NewSaleOrderRepository(db, logger),
		SaleOrderItem: NewSaleOrderItemRepository(db, logger),
		DailyStock:    NewDailyStockRepository(db, logger),
		Customer:      NewCustomerRepository(db, logger),
		User:          NewUserRepository(db, logger),
	}
}
