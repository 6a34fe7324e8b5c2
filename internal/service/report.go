package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/jayrboy/vercel-server-weliveapp/internal/domain"
	"github.com/jayrboy/vercel-server-weliveapp/pkg/errors"
)

// ReportResult is the sales report for one product, recomputed per request
type ReportResult struct {
	ProductName    string            `json:"productName"`
	TotalQuantity  int               `json:"totalQuantity"`
	TotalPrice     decimal.Decimal   `json:"totalPrice"`
	Profit         decimal.Decimal   `json:"profit"`
	DailySales     decimal.Decimal   `json:"dailySales"`
	MonthlySales   decimal.Decimal   `json:"monthlySales"`
	YearlySales    decimal.Decimal   `json:"yearlySales"`
	DailySalesData []decimal.Decimal `json:"dailySalesData"`
	Last30Days     []string          `json:"last30Days"`
}

// OrderReportSource supplies the completed orders feeding a report
type OrderReportSource interface {
	ListCompletedByProductID(ctx context.Context, productID uuid.UUID) ([]*domain.SaleOrder, error)
}

// ProductSource supplies product name and cost for a report
type ProductSource interface {
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error)
}

// ReportService aggregates completed sale orders into per-product reports
type ReportService struct {
	orders   OrderReportSource
	products ProductSource
	logger   *zap.Logger
}

// NewReportService creates a new report service
func NewReportService(orders OrderReportSource, products ProductSource, logger *zap.Logger) *ReportService {
	return &ReportService{
		orders:   orders,
		products: products,
		logger:   logger,
	}
}

const trailingDays = 30

// ProductSalesReport computes totals, profit and a trailing 30 day series for one
// product, ending at the supplied calendar date. Returns ErrNotFound when no
// completed order references the product.
func (s *ReportService) ProductSalesReport(ctx context.Context, productID uuid.UUID, day, month, year int) (*ReportResult, error) {
	orders, err := s.orders.ListCompletedByProductID(ctx, productID)
	if err != nil {
		return nil, err
	}
	if len(orders) == 0 {
		return nil, &errors.ErrNotFound{Resource: "sale_order", ID: productID.String()}
	}

	// Products can be deleted after orders reference them. The report still
	// computes; name falls back to the line item and cost stays zero.
	var name string
	cost := decimal.Zero
	product, err := s.products.GetByID(ctx, productID)
	switch {
	case err != nil && !isNotFound(err):
		return nil, err
	case err != nil || product.IsDeleted:
		s.logger.Warn("Product missing for report, using line item name",
			zap.String("product_id", productID.String()))
	default:
		name = product.Name
		cost = product.Cost
	}

	endDate := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)

	// Buckets are built newest first and reversed before returning.
	dates := make([]time.Time, trailingDays)
	buckets := make([]decimal.Decimal, trailingDays)
	for i := 0; i < trailingDays; i++ {
		dates[i] = endDate.AddDate(0, 0, -i)
		buckets[i] = decimal.Zero
	}

	result := &ReportResult{
		TotalPrice:   decimal.Zero,
		Profit:       decimal.Zero,
		DailySales:   decimal.Zero,
		MonthlySales: decimal.Zero,
		YearlySales:  decimal.Zero,
	}

	for _, order := range orders {
		orderDate := order.DateAdded.UTC()
		orderDay := time.Date(orderDate.Year(), orderDate.Month(), orderDate.Day(), 0, 0, 0, 0, time.UTC)

		for _, item := range order.Items {
			if item.ProductID != productID {
				continue
			}
			if name == "" {
				name = item.Name
			}

			lineTotal := item.LineTotal()
			result.TotalQuantity += item.Quantity
			result.TotalPrice = result.TotalPrice.Add(lineTotal)

			for i := range dates {
				if orderDay.Equal(dates[i]) {
					buckets[i] = buckets[i].Add(lineTotal)
					break
				}
			}

			// Year gates month, month gates day.
			if orderDate.Year() == year {
				result.YearlySales = result.YearlySales.Add(lineTotal)
				if int(orderDate.Month()) == month {
					result.MonthlySales = result.MonthlySales.Add(lineTotal)
					if orderDate.Day() == day {
						result.DailySales = result.DailySales.Add(lineTotal)
					}
				}
			}
		}
	}

	result.ProductName = name
	result.Profit = result.TotalPrice.Sub(cost.Mul(decimal.NewFromInt(int64(result.TotalQuantity))))

	result.DailySalesData = make([]decimal.Decimal, trailingDays)
	result.Last30Days = make([]string, trailingDays)
	for i := 0; i < trailingDays; i++ {
		j := trailingDays - 1 - i
		result.DailySalesData[i] = buckets[j]
		result.Last30Days[i] = dates[j].Format("2006-01-02")
	}

	return result, nil
}
