package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jayrboy/vercel-server-weliveapp/internal/domain"
)

// ProductRepository defines product data access methods
type ProductRepository interface {
	Create(ctx context.Context, product *domain.Product) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
	List(ctx context.Context) ([]*domain.Product, error)
	Update(ctx context.Context, product *domain.Product) error
	Delete(ctx context.Context, id uuid.UUID) error
	Search(ctx context.Context, q string, page, limit int) (*domain.ProductPage, error)
}

// SaleOrderRepository defines sale order data access methods
type SaleOrderRepository interface {
	Create(ctx context.Context, order *domain.SaleOrder) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.SaleOrder, error)
	List(ctx context.Context) ([]*domain.SaleOrder, error)
	Update(ctx context.Context, order *domain.SaleOrder) error
	Delete(ctx context.Context, id uuid.UUID) error
	ToggleComplete(ctx context.Context, id uuid.UUID) (*domain.SaleOrder, error)
	ToggleSent(ctx context.Context, id uuid.UUID) (*domain.SaleOrder, error)
	GetNewestByCustomerName(ctx context.Context, name string) (*domain.SaleOrder, error)
	ListCompletedByProductID(ctx context.Context, productID uuid.UUID) ([]*domain.SaleOrder, error)
}

// SaleOrderItemRepository defines order line item data access methods
type SaleOrderItemRepository interface {
	CreateBatch(ctx context.Context, orderID uuid.UUID, items []*domain.OrderItem) error
	GetByOrderID(ctx context.Context, orderID uuid.UUID) ([]*domain.OrderItem, error)
	Update(ctx context.Context, item *domain.OrderItem) error
	DeleteByOrderID(ctx context.Context, orderID uuid.UUID) error
}

// DailyStockRepository defines daily stock data access methods
type DailyStockRepository interface {
	Create(ctx context.Context, stock *domain.DailyStock) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.DailyStock, error)
	List(ctx context.Context) ([]*domain.DailyStock, error)
	ListByStatus(ctx context.Context, status string) ([]*domain.DailyStock, error)
	GetLatestByStatus(ctx context.Context, status string) (*domain.DailyStock, error)
	Update(ctx context.Context, stock *domain.DailyStock) error
	UpdatePriceTotal(ctx context.Context, id uuid.UUID, total decimal.Decimal) error
	RemoveProduct(ctx context.Context, productID uuid.UUID) (bool, error)
}

// CustomerRepository defines customer data access methods
type CustomerRepository interface {
	Upsert(ctx context.Context, customer *domain.Customer) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Customer, error)
	List(ctx context.Context) ([]*domain.Customer, error)
}

// UserRepository defines back-office user data access methods
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByUsername(ctx context.Context, username string) (*domain.User, error)
	List(ctx context.Context) ([]*domain.User, error)
	UpdateRole(ctx context.Context, id uuid.UUID, role string) (*domain.User, error)
	UpsertFacebookUser(ctx context.Context, user *domain.User) (*domain.User, error)
}

// Repositories aggregates all repositories
type Repositories struct {
	Product       ProductRepository
	SaleOrder     SaleOrderRepository
	SaleOrderItem SaleOrderItemRepository
	DailyStock    DailyStockRepository
	Customer      CustomerRepository
	User          UserRepository
}
