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

// HandleListUsers handles GET /api/users
func HandleListUsers(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		users, err := repos.User.List(c.Request.Context())
		if err != nil {
			logger.Error("Failed to list users", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}
		if users == nil {
			users = []*domain.User{}
		}
		c.JSON(http.StatusOK, users)
	}
}

type changeRoleRequest struct {
	ID   string `json:"id" binding:"required"`
	Role string `json:"role" binding:"required"`
}

// HandleChangeUserRole handles POST /api/user/change-role
func HandleChangeUserRole(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req changeRoleRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		id, err := uuid.Parse(req.ID)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid user ID"})
			return
		}

		user, err := repos.User.UpdateRole(c.Request.Context(), id, req.Role)
		if err != nil {
			if _, ok := err.(*errors.ErrNotFound); ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
				return
			}
			logger.Error("Failed to change user role", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, user)
	}
}
