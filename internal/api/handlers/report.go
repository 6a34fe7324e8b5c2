package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/jayrboy/vercel-server-weliveapp/internal/service"
	"github.com/jayrboy/vercel-server-weliveapp/pkg/errors"
)

// HandleProductSalesReport handles GET /api/sale-order/getorderforreport/:productId/:day/:month/:year
func HandleProductSalesReport(reports *service.ReportService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		productID, err := uuid.Parse(c.Param("productId"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid product ID"})
			return
		}

		day, err := strconv.Atoi(c.Param("day"))
		if err != nil || day < 1 || day > 31 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid day"})
			return
		}
		month, err := strconv.Atoi(c.Param("month"))
		if err != nil || month < 1 || month > 12 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid month"})
			return
		}
		year, err := strconv.Atoi(c.Param("year"))
		if err != nil || year < 1 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid year"})
			return
		}

		result, err := reports.ProductSalesReport(c.Request.Context(), productID, day, month, year)
		if err != nil {
			if _, ok := err.(*errors.ErrNotFound); ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "no completed orders for product"})
				return
			}
			logger.Error("Failed to compute sales report", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
			return
		}

		c.JSON(http.StatusOK, result)
	}
}
