package handlers

import (
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

// DailyStockRequest is the create payload for a daily stock batch
type DailyStockRequest struct {
	Status     string                     `json:"status"`
	Channel    string                     `json:"channel"`
	Products   []domain.DailyStockProduct `json:"products"`
	PriceTotal decimal.Decimal            `json:"price_total"`
	DateAdded  *time.Time                 `json:"date_added"`
}

// HandleCreateDailyStock handles POST /api/daily/create
func HandleCreateDailyStock(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DailyStockRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		stock := &domain.DailyStock{
			Status:     req.Status,
			Channel:    req.Channel,
			Products:   req.Products,
			PriceTotal: req.PriceTotal,
		}
		if req.DateAdded != nil {
			stock.DateAdded = *req.DateAdded
		}

		if err := repos.DailyStock.Create(c.Request.Context(), stock); err != nil {
			logger.Error("Failed to create daily stock", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusCreated, stock)
	}
}

// HandleListDailyStocks handles GET /api/daily/read
func HandleListDailyStocks(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		stocks, err := repos.DailyStock.List(c.Request.Context())
		if err != nil {
			logger.Error("Failed to list daily stocks", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if stocks == nil {
			stocks = []*domain.DailyStock{}
		}
		c.JSON(http.StatusOK, stocks)
	}
}

// HandleGetDailyStock handles GET /api/daily/read/:id
func HandleGetDailyStock(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid daily stock ID"})
			return
		}

		stock, err := repos.DailyStock.GetByID(c.Request.Context(), id)
		if err != nil {
			if _, ok := err.(*errors.ErrNotFound); ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "daily stock not found"})
				return
			}
			logger.Error("Failed to get daily stock", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, stock)
	}
}

// HandleGetDailyStockProduct handles GET /api/daily/read/:id/product/:productId
func HandleGetDailyStockProduct(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid daily stock ID"})
			return
		}
		productID, err := uuid.Parse(c.Param("productId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
			return
		}

		stock, err := repos.DailyStock.GetByID(c.Request.Context(), id)
		if err != nil {
			if _, ok := err.(*errors.ErrNotFound); ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "daily stock not found"})
				return
			}
			logger.Error("Failed to get daily stock", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		for _, p := range stock.Products {
			if p.ProductID == productID {
				c.JSON(http.StatusOK, p)
				return
			}
		}
		c.JSON(http.StatusNotFound, gin.H{"error": "product not in daily stock"})
	}
}

// HandleGetLatestDailyStock handles GET /api/daily/new-status
func HandleGetLatestDailyStock(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		stock, err := repos.DailyStock.GetLatestByStatus(c.Request.Context(), domain.DailyStockStatusNew)
		if err != nil {
			if _, ok := err.(*errors.ErrNotFound); ok {
				c.JSON(http.StatusOK, nil)
				return
			}
			logger.Error("Failed to get latest daily stock", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, stock)
	}
}

// DailyStockProductUpdate targets one product snapshot inside a stock document
type DailyStockProductUpdate struct {
	DailyStockID string          `json:"idDaily" binding:"required"`
	ProductID    string          `json:"idProduct" binding:"required"`
	Code         string          `json:"code"`
	Name         string          `json:"name"`
	Price        decimal.Decimal `json:"price"`
	Cost         decimal.Decimal `json:"cost"`
	Stock        int             `json:"stock"`
	Limit        int             `json:"limit"`
	CF           int             `json:"cf"`
	RemainingCF  int             `json:"remaining_cf"`
	Paid         int             `json:"paid"`
	DateAdded    *time.Time      `json:"date_added"`
}

// HandleUpdateDailyStockProduct handles POST /api/daily/update. It rewrites one
// product snapshot within the stock document; remaining is recomputed as
// stock minus paid.
func HandleUpdateDailyStockProduct(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req DailyStockProductUpdate
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		stockID, err := uuid.Parse(req.DailyStockID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid daily stock ID"})
			return
		}
		productID, err := uuid.Parse(req.ProductID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
			return
		}

		ctx := c.Request.Context()
		stock, err := repos.DailyStock.GetByID(ctx, stockID)
		if err != nil {
			if _, ok := err.(*errors.ErrNotFound); ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "daily stock not found"})
				return
			}
			logger.Error("Failed to get daily stock", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		found := false
		for i := range stock.Products {
			if stock.Products[i].ProductID != productID {
				continue
			}
			found = true

			dateAdded := time.Now()
			if req.DateAdded != nil {
				dateAdded = *req.DateAdded
			}
			stock.Products[i] = domain.DailyStockProduct{
				ProductID:   productID,
				Code:        req.Code,
				Name:        req.Name,
				Price:       req.Price,
				Cost:        req.Cost,
				Stock:       req.Stock,
				Limit:       req.Limit,
				CF:          req.CF,
				RemainingCF: req.RemainingCF,
				Paid:        req.Paid,
				Remaining:   req.Stock - req.Paid,
				DateAdded:   dateAdded,
			}
			break
		}
		if !found {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not in daily stock"})
			return
		}

		if err := repos.DailyStock.Update(ctx, stock); err != nil {
			logger.Error("Failed to update daily stock", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, stock)
	}
}

type dailyStockTotalRequest struct {
	ID    string          `json:"id" binding:"required"`
	Total decimal.Decimal `json:"total"`
}

// HandleUpdateDailyStockTotal handles POST /api/daily/update/total
func HandleUpdateDailyStockTotal(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req dailyStockTotalRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		id, err := uuid.Parse(req.ID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid daily stock ID"})
			return
		}

		ctx := c.Request.Context()
		if err := repos.DailyStock.UpdatePriceTotal(ctx, id, req.Total); err != nil {
			if _, ok := err.(*errors.ErrNotFound); ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "daily stock not found"})
				return
			}
			logger.Error("Failed to update daily stock total", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		stock, err := repos.DailyStock.GetByID(ctx, id)
		if err != nil {
			logger.Error("Failed to get daily stock", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, stock)
	}
}

// HandleRemoveDailyStockProduct handles DELETE /api/daily/delete/product/:id
func HandleRemoveDailyStockProduct(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
			return
		}

		removed, err := repos.DailyStock.RemoveProduct(c.Request.Context(), productID)
		if err != nil {
			logger.Error("Failed to remove product from daily stock", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if !removed {
			c.JSON(http.StatusNotFound, gin.H{"error": "product not in daily stock"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "product removed"})
	}
}

// HandleDailyStockHistory handles GET /api/daily/history
func HandleDailyStockHistory(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		stocks, err := repos.DailyStock.ListByStatus(c.Request.Context(), domain.DailyStockStatusClear)
		if err != nil {
			logger.Error("Failed to list daily stock history", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if stocks == nil {
			stocks = []*domain.DailyStock{}
		}
		c.JSON(http.StatusOK, stocks)
	}
}
