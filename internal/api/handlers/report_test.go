package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jayrboy/vercel-server-weliveapp/internal/domain"
	"github.com/jayrboy/vercel-server-weliveapp/internal/service"
	"github.com/jayrboy/vercel-server-weliveapp/pkg/errors"
)

type stubOrderReportSource struct {
	orders []*domain.SaleOrder
}

func (s stubOrderReportSource) ListCompletedByProductID(ctx context.Context, productID uuid.UUID) ([]*domain.SaleOrder, error) {
	return s.orders, nil
}

type stubProductSource struct {
	product *domain.Product
}

func (s stubProductSource) GetByID(ctx context.Context, id uuid.UUID) (*domain.Product, error) {
	if s.product == nil {
		return nil, &errors.ErrNotFound{Resource: "product", ID: id.String()}
	}
	return s.product, nil
}

func reportTestRouter(orders []*domain.SaleOrder, product *domain.Product) *gin.Engine {
	gin.SetMode(gin.TestMode)
	reports := service.NewReportService(stubOrderReportSource{orders}, stubProductSource{product}, zap.NewNop())

	router := gin.New()
	router.GET("/api/sale-order/getorderforreport/:productId/:day/:month/:year",
		HandleProductSalesReport(reports, zap.NewNop()))
	return router
}

func TestReportEndpointNotFound(t *testing.T) {
	router := reportTestRouter(nil, nil)

	url := fmt.Sprintf("/api/sale-order/getorderforreport/%s/15/6/2024", uuid.New())
	req := httptest.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestReportEndpointInvalidParams(t *testing.T) {
	router := reportTestRouter(nil, nil)

	urls := []string{
		"/api/sale-order/getorderforreport/not-a-uuid/15/6/2024",
		fmt.Sprintf("/api/sale-order/getorderforreport/%s/40/6/2024", uuid.New()),
		fmt.Sprintf("/api/sale-order/getorderforreport/%s/15/13/2024", uuid.New()),
	}
	for _, url := range urls {
		req := httptest.NewRequest(http.MethodGet, url, nil)
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code, url)
	}
}

func TestReportEndpointOK(t *testing.T) {
	productID := uuid.New()
	orders := []*domain.SaleOrder{{
		ID:        uuid.New(),
		Complete:  true,
		DateAdded: time.Date(2024, 6, 15, 12, 0, 0, 0, time.UTC),
		Items: []*domain.OrderItem{
			{ID: uuid.New(), ProductID: productID, Name: "เสื้อยืด", Price: decimal.NewFromInt(100), Quantity: 2},
		},
	}}
	product := &domain.Product{ID: productID, Name: "เสื้อยืด", Cost: decimal.NewFromInt(40)}

	router := reportTestRouter(orders, product)

	url := fmt.Sprintf("/api/sale-order/getorderforreport/%s/15/6/2024", productID)
	req := httptest.NewRequest(http.MethodGet, url, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var result struct {
		ProductName    string   `json:"productName"`
		TotalQuantity  int      `json:"totalQuantity"`
		TotalPrice     string   `json:"totalPrice"`
		Profit         string   `json:"profit"`
		DailySalesData []string `json:"dailySalesData"`
		Last30Days     []string `json:"last30Days"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))

	assert.Equal(t, "เสื้อยืด", result.ProductName)
	assert.Equal(t, 2, result.TotalQuantity)
	assert.Equal(t, "200", result.TotalPrice)
	assert.Equal(t, "120", result.Profit)
	assert.Len(t, result.DailySalesData, 30)
	assert.Len(t, result.Last30Days, 30)
	assert.Equal(t, "2024-06-15", result.Last30Days[29])
}
