package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/jayrboy/vercel-server-weliveapp/internal/domain"
	"github.com/jayrboy/vercel-server-weliveapp/internal/repository"
	"github.com/jayrboy/vercel-server-weliveapp/pkg/errors"
)

// ProductRequest is the create/update payload for a product
type ProductRequest struct {
	ID            string          `json:"_id"`
	Code          string          `json:"code" binding:"required"`
	Name          string          `json:"name" binding:"required"`
	Price         decimal.Decimal `json:"price"`
	Cost          decimal.Decimal `json:"cost"`
	StockQuantity int             `json:"stock_quantity"`
	Limit         int             `json:"limit"`
	CF            int             `json:"cf"`
	Paid          int             `json:"paid"`
}

// ProductResponse represents the product response
type ProductResponse struct {
	ID            string          `json:"_id"`
	Code          string          `json:"code"`
	Name          string          `json:"name"`
	Price         decimal.Decimal `json:"price"`
	Cost          decimal.Decimal `json:"cost"`
	StockQuantity int             `json:"stock_quantity"`
	Limit         int             `json:"limit"`
	CF            int             `json:"cf"`
	Paid          int             `json:"paid"`
	Remaining     int             `json:"remaining"`
	IsDeleted     bool            `json:"isDelete"`
	CreateDate    string          `json:"date_added"`
	UpdateDate    string          `json:"update_date"`
}

func toProductResponse(p *domain.Product) ProductResponse {
	return ProductResponse{
		ID:            p.ID.String(),
		Code:          p.Code,
		Name:          p.Name,
		Price:         p.Price,
		Cost:          p.Cost,
		StockQuantity: p.StockQuantity,
		Limit:         p.Limit,
		CF:            p.CF,
		Paid:          p.Paid,
		Remaining:     p.Remaining,
		IsDeleted:     p.IsDeleted,
		CreateDate:    p.CreateDate.Format("2006-01-02T15:04:05Z07:00"),
		UpdateDate:    p.UpdateDate.Format("2006-01-02T15:04:05Z07:00"),
	}
}

// HandleCreateProduct handles POST /api/product
func HandleCreateProduct(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		product := &domain.Product{
			Code:          req.Code,
			Name:          req.Name,
			Price:         req.Price,
			Cost:          req.Cost,
			StockQuantity: req.StockQuantity,
			Limit:         req.Limit,
			CF:            req.CF,
			Paid:          req.Paid,
		}

		if err := repos.Product.Create(c.Request.Context(), product); err != nil {
			logger.Error("Failed to create product", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusCreated, toProductResponse(product))
	}
}

// HandleGetProduct handles GET /api/product/read/:id
func HandleGetProduct(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
			return
		}

		product, err := repos.Product.GetByID(c.Request.Context(), id)
		if err != nil {
			if _, ok := err.(*errors.ErrNotFound); ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			logger.Error("Failed to get product", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, toProductResponse(product))
	}
}

// HandleListProducts handles GET /api/product
func HandleListProducts(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		products, err := repos.Product.List(c.Request.Context())
		if err != nil {
			logger.Error("Failed to list products", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		out := make([]ProductResponse, 0, len(products))
		for _, p := range products {
			out = append(out, toProductResponse(p))
		}
		c.JSON(http.StatusOK, out)
	}
}

// HandleSearchProducts handles GET /api/product/search?q=&page=&limit=
func HandleSearchProducts(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		q := c.Query("q")
		page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
		if err != nil || page < 1 {
			page = 1
		}
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "2"))
		if err != nil || limit < 1 {
			limit = 2
		}

		result, err := repos.Product.Search(c.Request.Context(), q, page, limit)
		if err != nil {
			logger.Error("Failed to search products", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, result)
	}
}

// HandleUpdateProduct handles PUT /api/product
func HandleUpdateProduct(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ProductRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		id, err := uuid.Parse(req.ID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
			return
		}

		product, err := repos.Product.GetByID(c.Request.Context(), id)
		if err != nil {
			if _, ok := err.(*errors.ErrNotFound); ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			logger.Error("Failed to get product", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		product.Code = req.Code
		product.Name = req.Name
		product.Price = req.Price
		product.Cost = req.Cost
		product.StockQuantity = req.StockQuantity
		product.Limit = req.Limit
		product.CF = req.CF
		product.Paid = req.Paid
		product.Remaining = req.StockQuantity - req.Paid

		if err := repos.Product.Update(c.Request.Context(), product); err != nil {
			logger.Error("Failed to update product", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, toProductResponse(product))
	}
}

// HandleDeleteProduct handles DELETE /api/product/:id. The product row is
// kept and flagged so old order lines can still resolve a name.
func HandleDeleteProduct(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
			return
		}

		if err := repos.Product.Delete(c.Request.Context(), id); err != nil {
			if _, ok := err.(*errors.ErrNotFound); ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "product not found"})
				return
			}
			logger.Error("Failed to delete product", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "product deleted"})
	}
}
