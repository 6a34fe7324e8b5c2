package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/jayrboy/vercel-server-weliveapp/internal/domain"
	"github.com/jayrboy/vercel-server-weliveapp/internal/repository"
	"github.com/jayrboy/vercel-server-weliveapp/pkg/errors"
)

// OrderItemRequest is one product line in a sale order payload
type OrderItemRequest struct {
	ID        string          `json:"_id"`
	ProductID string          `json:"product_id" binding:"required"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity" binding:"min=0"`
}

// SaleOrderRequest is the create/update payload for a sale order
type SaleOrderRequest struct {
	ID             string             `json:"_id"`
	CustomerFBID   string             `json:"idFb"`
	CustomerName   string             `json:"name" binding:"required"`
	Items          []OrderItemRequest `json:"orders"`
	PicturePayment *string            `json:"picture_payment"`
	Address        string             `json:"address"`
	SubDistrict    string             `json:"sub_district"`
	SubArea        string             `json:"sub_area"`
	District       string             `json:"district"`
	Postcode       string             `json:"postcode"`
	Tel            string             `json:"tel"`
	Channel        string             `json:"channel"`
	DateAdded      *time.Time         `json:"date_added"`
}

// SaleOrderResponse represents the sale order response
type SaleOrderResponse struct {
	ID             string              `json:"_id"`
	CustomerFBID   string              `json:"idFb"`
	CustomerName   string              `json:"name"`
	Items          []OrderItemResponse `json:"orders"`
	PicturePayment *string             `json:"picture_payment,omitempty"`
	Address        string              `json:"address"`
	SubDistrict    string              `json:"sub_district"`
	SubArea        string              `json:"sub_area"`
	District       string              `json:"district"`
	Postcode       string              `json:"postcode"`
	Tel            string              `json:"tel"`
	Channel        string              `json:"channel"`
	Complete       bool                `json:"complete"`
	Sent           bool                `json:"sent"`
	DateAdded      string              `json:"date_added"`
}

// OrderItemResponse is one product line in a sale order response
type OrderItemResponse struct {
	ID        string          `json:"_id"`
	ProductID string          `json:"product_id"`
	Name      string          `json:"name"`
	Price     decimal.Decimal `json:"price"`
	Quantity  int             `json:"quantity"`
	Total     decimal.Decimal `json:"total"`
}

func toSaleOrderResponse(o *domain.SaleOrder) SaleOrderResponse {
	items := make([]OrderItemResponse, 0, len(o.Items))
	for _, item := range o.Items {
		items = append(items, OrderItemResponse{
			ID:        item.ID.String(),
			ProductID: item.ProductID.String(),
			Name:      item.Name,
			Price:     item.Price,
			Quantity:  item.Quantity,
			Total:     item.LineTotal(),
		})
	}

	return SaleOrderResponse{
		ID:             o.ID.String(),
		CustomerFBID:   o.CustomerFacebookID,
		CustomerName:   o.CustomerName,
		Items:          items,
		PicturePayment: o.PicturePayment,
		Address:        o.Address,
		SubDistrict:    o.SubDistrict,
		SubArea:        o.SubArea,
		District:       o.District,
		Postcode:       o.Postcode,
		Tel:            o.Tel,
		Channel:        o.Channel,
		Complete:       o.Complete,
		Sent:           o.Sent,
		DateAdded:      o.DateAdded.Format("2006-01-02T15:04:05Z07:00"),
	}
}

func itemsFromRequest(reqs []OrderItemRequest) ([]*domain.OrderItem, error) {
	items := make([]*domain.OrderItem, 0, len(reqs))
	for _, r := range reqs {
		productID, err := uuid.Parse(r.ProductID)
		if err != nil {
			return nil, &errors.ErrValidation{Message: "invalid product_id: " + r.ProductID}
		}
		item := &domain.OrderItem{
			ProductID: productID,
			Name:      r.Name,
			Price:     r.Price,
			Quantity:  r.Quantity,
		}
		if r.ID != "" {
			if id, err := uuid.Parse(r.ID); err == nil {
				item.ID = id
			}
		}
		items = append(items, item)
	}
	return items, nil
}

// HandleCreateSaleOrder handles POST /api/sale-order
func HandleCreateSaleOrder(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SaleOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		items, err := itemsFromRequest(req.Items)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		order := &domain.SaleOrder{
			CustomerFacebookID: req.CustomerFBID,
			CustomerName:       req.CustomerName,
			PicturePayment:     req.PicturePayment,
			Address:            req.Address,
			SubDistrict:        req.SubDistrict,
			SubArea:            req.SubArea,
			District:           req.District,
			Postcode:           req.Postcode,
			Tel:                req.Tel,
			Channel:            req.Channel,
		}
		if req.DateAdded != nil {
			order.DateAdded = *req.DateAdded
		}

		ctx := c.Request.Context()
		if err := repos.SaleOrder.Create(ctx, order); err != nil {
			logger.Error("Failed to create sale order", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if err := repos.SaleOrderItem.CreateBatch(ctx, order.ID, items); err != nil {
			logger.Error("Failed to create sale order items", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		order.Items = items

		c.JSON(http.StatusCreated, toSaleOrderResponse(order))
	}
}

// HandleGetSaleOrder handles GET /api/sale-order/read/:id
func HandleGetSaleOrder(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
			return
		}

		order, err := repos.SaleOrder.GetByID(c.Request.Context(), id)
		if err != nil {
			if _, ok := err.(*errors.ErrNotFound); ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			logger.Error("Failed to get sale order", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, toSaleOrderResponse(order))
	}
}

// HandleListSaleOrders handles GET /api/sale-order
func HandleListSaleOrders(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		orders, err := repos.SaleOrder.List(c.Request.Context())
		if err != nil {
			logger.Error("Failed to list sale orders", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		out := make([]SaleOrderResponse, 0, len(orders))
		for _, o := range orders {
			out = append(out, toSaleOrderResponse(o))
		}
		c.JSON(http.StatusOK, out)
	}
}

// HandleUpdateSaleOrder handles PUT /api/sale-order. Items are replaced wholesale
// with the submitted set, matching the original document-overwrite semantics.
func HandleUpdateSaleOrder(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SaleOrderRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		id, err := uuid.Parse(req.ID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
			return
		}

		ctx := c.Request.Context()
		order, err := repos.SaleOrder.GetByID(ctx, id)
		if err != nil {
			if _, ok := err.(*errors.ErrNotFound); ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			logger.Error("Failed to get sale order", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		items, err := itemsFromRequest(req.Items)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		order.CustomerFacebookID = req.CustomerFBID
		order.CustomerName = req.CustomerName
		order.PicturePayment = req.PicturePayment
		order.Address = req.Address
		order.SubDistrict = req.SubDistrict
		order.SubArea = req.SubArea
		order.District = req.District
		order.Postcode = req.Postcode
		order.Tel = req.Tel
		if req.Channel != "" {
			order.Channel = req.Channel
		}

		if err := repos.SaleOrder.Update(ctx, order); err != nil {
			logger.Error("Failed to update sale order", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if err := repos.SaleOrderItem.DeleteByOrderID(ctx, order.ID); err != nil {
			logger.Error("Failed to replace sale order items", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if err := repos.SaleOrderItem.CreateBatch(ctx, order.ID, items); err != nil {
			logger.Error("Failed to replace sale order items", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		order.Items = items

		c.JSON(http.StatusOK, toSaleOrderResponse(order))
	}
}

// HandleDeleteSaleOrder handles DELETE /api/sale-order/delete/:id
func HandleDeleteSaleOrder(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
			return
		}

		if err := repos.SaleOrder.Delete(c.Request.Context(), id); err != nil {
			logger.Error("Failed to delete sale order", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "order deleted"})
	}
}

type toggleRequest struct {
	ID string `json:"_id" binding:"required"`
}

// HandleToggleComplete handles PUT /api/sale-order/complete
func HandleToggleComplete(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return toggleHandler(logger, repos.SaleOrder.ToggleComplete)
}

// HandleToggleSent handles PUT /api/sale-order/sent
func HandleToggleSent(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return toggleHandler(logger, repos.SaleOrder.ToggleSent)
}

func toggleHandler(logger *zap.Logger, toggle func(ctx context.Context, id uuid.UUID) (*domain.SaleOrder, error)) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req toggleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		id, err := uuid.Parse(req.ID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid order ID"})
			return
		}

		order, err := toggle(c.Request.Context(), id)
		if err != nil {
			if _, ok := err.(*errors.ErrNotFound); ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "order not found"})
				return
			}
			logger.Error("Failed to toggle sale order flag", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, toSaleOrderResponse(order))
	}
}
