package service

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jayrboy/vercel-server-weliveapp/internal/domain"
	"github.com/jayrboy/vercel-server-weliveapp/pkg/errors"
)

type fakeOrderSource struct {
	orders []*domain.SaleOrder
	err    error
}

func (f *fakeOrderSource) ListCompletedByProductID(ctx context.Context, productID uuid.UUID) ([]*domain.SaleOrder, error) {
	return f.orders, f.err
}

type fakeProductSource struct {
	product *domain.Product
	err     error
}

func (f *fakeProductSource) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.product, nil
}

func completedOrder(productID uuid.UUID, date time.Time, qty int, price decimal.Decimal) *domain.SaleOrder {
	return &domain.SaleOrder{
		ID:        uuid.New(),
		Complete:  true,
		DateAdded: date,
		Items: []*domain.OrderItem{
			{ID: uuid.New(), ProductID: productID, Name: "เสื้อยืด", Price: price, Quantity: qty},
		},
	}
}

func TestProductSalesReportTotalsAndProfit(t *testing.T) {
	productID := uuid.New()
	day := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	orders := &fakeOrderSource{orders: []*domain.SaleOrder{
		completedOrder(productID, day, 2, decimal.NewFromInt(100)),
		completedOrder(productID, day.AddDate(0, 0, -1), 3, decimal.NewFromInt(50)),
	}}
	products := &fakeProductSource{product: &domain.Product{
		ID:   productID,
		Name: "เสื้อยืด",
		Cost: decimal.NewFromInt(30),
	}}

	svc := NewReportService(orders, products, zap.NewNop())
	report, err := svc.ProductSalesReport(context.Background(), productID, 15, 6, 2024)
	require.NoError(t, err)

	assert.Equal(t, "เสื้อยืด", report.ProductName)
	assert.Equal(t, 5, report.TotalQuantity)
	// 2*100 + 3*50
	assert.True(t, report.TotalPrice.Equal(decimal.NewFromInt(350)), "totalPrice = %s", report.TotalPrice)
	// 350 - 30*5
	assert.True(t, report.Profit.Equal(decimal.NewFromInt(200)), "profit = %s", report.Profit)
}

func TestProductSalesReportSeriesShape(t *testing.T) {
	productID := uuid.New()
	end := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	orders := &fakeOrderSource{orders: []*domain.SaleOrder{
		completedOrder(productID, end, 1, decimal.NewFromInt(100)),
		completedOrder(productID, end.AddDate(0, 0, -29), 1, decimal.NewFromInt(40)),
		// outside the window, still counted in totals
		completedOrder(productID, end.AddDate(0, 0, -30), 1, decimal.NewFromInt(7)),
	}}
	products := &fakeProductSource{product: &domain.Product{ID: productID, Cost: decimal.Zero}}

	svc := NewReportService(orders, products, zap.NewNop())
	report, err := svc.ProductSalesReport(context.Background(), productID, 15, 6, 2024)
	require.NoError(t, err)

	require.Len(t, report.DailySalesData, 30)
	require.Len(t, report.Last30Days, 30)

	// Oldest first, each label one calendar day after the previous.
	for i := 1; i < 30; i++ {
		prev, err := time.Parse("2006-01-02", report.Last30Days[i-1])
		require.NoError(t, err)
		cur, err := time.Parse("2006-01-02", report.Last30Days[i])
		require.NoError(t, err)
		assert.Equal(t, prev.AddDate(0, 0, 1), cur)
	}
	assert.Equal(t, "2024-05-17", report.Last30Days[0])
	assert.Equal(t, "2024-06-15", report.Last30Days[29])

	assert.True(t, report.DailySalesData[29].Equal(decimal.NewFromInt(100)))
	assert.True(t, report.DailySalesData[0].Equal(decimal.NewFromInt(40)))
	// the -30d order is outside all buckets
	assert.True(t, report.TotalPrice.Equal(decimal.NewFromInt(147)))
}

func TestProductSalesReportNestedDateGating(t *testing.T) {
	productID := uuid.New()
	price := decimal.NewFromInt(10)

	orders := &fakeOrderSource{orders: []*domain.SaleOrder{
		// right year, wrong month: yearly only
		completedOrder(productID, time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC), 1, price),
		// right year and month, wrong day: yearly + monthly
		completedOrder(productID, time.Date(2024, 6, 10, 0, 0, 0, 0, time.UTC), 1, price),
		// exact date: all three
		completedOrder(productID, time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC), 1, price),
		// wrong year, right month and day: none
		completedOrder(productID, time.Date(2023, 6, 15, 0, 0, 0, 0, time.UTC), 1, price),
	}}
	products := &fakeProductSource{product: &domain.Product{ID: productID, Cost: decimal.Zero}}

	svc := NewReportService(orders, products, zap.NewNop())
	report, err := svc.ProductSalesReport(context.Background(), productID, 15, 6, 2024)
	require.NoError(t, err)

	assert.True(t, report.YearlySales.Equal(decimal.NewFromInt(30)), "yearly = %s", report.YearlySales)
	assert.True(t, report.MonthlySales.Equal(decimal.NewFromInt(20)), "monthly = %s", report.MonthlySales)
	assert.True(t, report.DailySales.Equal(decimal.NewFromInt(10)), "daily = %s", report.DailySales)
}

func TestProductSalesReportNoCompletedOrders(t *testing.T) {
	productID := uuid.New()
	svc := NewReportService(&fakeOrderSource{}, &fakeProductSource{}, zap.NewNop())

	_, err := svc.ProductSalesReport(context.Background(), productID, 15, 6, 2024)
	require.Error(t, err)
	assert.IsType(t, &errors.ErrNotFound{}, err)
}

func TestProductSalesReportDeletedProductFallsBackToItemName(t *testing.T) {
	productID := uuid.New()
	day := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	orders := &fakeOrderSource{orders: []*domain.SaleOrder{
		completedOrder(productID, day, 2, decimal.NewFromInt(100)),
	}}
	products := &fakeProductSource{err: &errors.ErrNotFound{Resource: "product", ID: productID.String()}}

	svc := NewReportService(orders, products, zap.NewNop())
	report, err := svc.ProductSalesReport(context.Background(), productID, 15, 6, 2024)
	require.NoError(t, err)

	assert.Equal(t, "เสื้อยืด", report.ProductName)
	// cost defaults to zero, so profit equals revenue
	assert.True(t, report.Profit.Equal(report.TotalPrice))
}

func TestProductSalesReportIgnoresOtherProducts(t *testing.T) {
	productID := uuid.New()
	other := uuid.New()
	day := time.Date(2024, 6, 15, 0, 0, 0, 0, time.UTC)

	order := completedOrder(productID, day, 1, decimal.NewFromInt(100))
	order.Items = append(order.Items, &domain.OrderItem{
		ID: uuid.New(), ProductID: other, Name: "กางเกง", Price: decimal.NewFromInt(999), Quantity: 5,
	})

	orders := &fakeOrderSource{orders: []*domain.SaleOrder{order}}
	products := &fakeProductSource{product: &domain.Product{ID: productID, Cost: decimal.Zero}}

	svc := NewReportService(orders, products, zap.NewNop())
	report, err := svc.ProductSalesReport(context.Background(), productID, 15, 6, 2024)
	require.NoError(t, err)

	assert.Equal(t, 1, report.TotalQuantity)
	assert.True(t, report.TotalPrice.Equal(decimal.NewFromInt(100)))
}

func TestProductSalesReportIdempotent(t *testing.T) {
	productID := uuid.New()
	day := time.Date(2024, 6, 15, 9, 30, 0, 0, time.UTC)

	orders := &fakeOrderSource{orders: []*domain.SaleOrder{
		completedOrder(productID, day, 2, decimal.NewFromFloat(19.5)),
	}}
	products := &fakeProductSource{product: &domain.Product{ID: productID, Name: "เสื้อยืด", Cost: decimal.NewFromInt(5)}}

	svc := NewReportService(orders, products, zap.NewNop())

	first, err := svc.ProductSalesReport(context.Background(), productID, 15, 6, 2024)
	require.NoError(t, err)
	second, err := svc.ProductSalesReport(context.Background(), productID, 15, 6, 2024)
	require.NoError(t, err)

	firstJSON, err := json.Marshal(first)
	require.NoError(t, err)
	secondJSON, err := json.Marshal(second)
	require.NoError(t, err)
	assert.Equal(t, firstJSON, secondJSON)
}
