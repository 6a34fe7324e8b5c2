package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jayrboy/vercel-server-weliveapp/internal/domain"
	"github.com/jayrboy/vercel-server-weliveapp/internal/repository"
	"github.com/jayrboy/vercel-server-weliveapp/pkg/errors"
)

// CustomerRequest is the upsert payload for a customer profile
type CustomerRequest struct {
	FacebookID string `json:"idFb" binding:"required"`
	Name       string `json:"name" binding:"required"`
	Email      string `json:"email"`
	PictureURL string `json:"picture_url"`
}

// HandleUpsertCustomer handles POST /api/customer
func HandleUpsertCustomer(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CustomerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		customer := &domain.Customer{
			FacebookID: req.FacebookID,
			Name:       req.Name,
			Email:      req.Email,
			PictureURL: req.PictureURL,
		}

		if err := repos.Customer.Upsert(c.Request.Context(), customer); err != nil {
			logger.Error("Failed to upsert customer", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, customer)
	}
}

// HandleGetCustomer handles GET /api/customer/read/:id
func HandleGetCustomer(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := uuid.Parse(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid customer ID"})
			return
		}

		customer, err := repos.Customer.GetByID(c.Request.Context(), id)
		if err != nil {
			if _, ok := err.(*errors.ErrNotFound); ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "customer not found"})
				return
			}
			logger.Error("Failed to get customer", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, customer)
	}
}

// HandleListCustomers handles GET /api/customer
func HandleListCustomers(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		customers, err := repos.Customer.List(c.Request.Context())
		if err != nil {
			logger.Error("Failed to list customers", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if customers == nil {
			customers = []*domain.Customer{}
		}
		c.JSON(http.StatusOK, customers)
	}
}
