package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"

	"github.com/jayrboy/vercel-server-weliveapp/internal/api/middleware"
	"github.com/jayrboy/vercel-server-weliveapp/internal/config"
	"github.com/jayrboy/vercel-server-weliveapp/internal/domain"
	"github.com/jayrboy/vercel-server-weliveapp/internal/repository"
	"github.com/jayrboy/vercel-server-weliveapp/pkg/errors"
)

type registerRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=6"`
}

// HandleRegister handles POST /api/auth/register
func HandleRegister(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req registerRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx := c.Request.Context()
		if _, err := repos.User.GetByUsername(ctx, req.Username); err == nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user already exists"})
			return
		} else if _, ok := err.(*errors.ErrNotFound); !ok {
			logger.Error("Failed to check existing user", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), 10)
		if err != nil {
			logger.Error("Failed to hash password", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		user := &domain.User{
			Username:     req.Username,
			PasswordHash: string(hash),
		}
		if err := repos.User.Create(ctx, user); err != nil {
			logger.Error("Failed to create user", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"message": "register successfully"})
	}
}

type loginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// HandleLogin handles POST /api/auth/login
func HandleLogin(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user, err := repos.User.GetByUsername(c.Request.Context(), req.Username)
		if err != nil {
			if _, ok := err.(*errors.ErrNotFound); ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
				return
			}
			logger.Error("Failed to get user", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(req.Password)); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "password invalid"})
			return
		}

		token, err := middleware.IssueToken(cfg, user.Username, user.Role)
		if err != nil {
			logger.Error("Failed to issue token", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token, "payload": gin.H{"user": user}})
	}
}

type loginFacebookRequest struct {
	UserID  string `json:"userID" binding:"required"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture string `json:"picture"`
}

// HandleLoginFacebook handles POST /api/auth/login-facebook. The Facebook user ID
// doubles as the username; the account is created on first login.
func HandleLoginFacebook(cfg *config.Config, repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req loginFacebookRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		user, err := repos.User.UpsertFacebookUser(c.Request.Context(), &domain.User{
			Username:   req.UserID,
			Name:       req.Name,
			Email:      req.Email,
			PictureURL: req.Picture,
		})
		if err != nil {
			logger.Error("Failed to upsert facebook user", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		token, err := middleware.IssueToken(cfg, user.Username, user.Role)
		if err != nil {
			logger.Error("Failed to issue token", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token, "payload": gin.H{"user": user}})
	}
}

// HandleGenerateToken handles POST /api/auth/token, issuing a short-lived
// anonymous token.
func HandleGenerateToken(cfg *config.Config, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, err := middleware.IssueToken(cfg, "", "user")
		if err != nil {
			logger.Error("Failed to issue token", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"token": token, "payload": gin.H{"user": gin.H{"success": true}}})
	}
}

// HandleCurrentUser handles POST /api/auth/current-user (auth required)
func HandleCurrentUser(repos *repository.Repositories, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := middleware.GetClaimsFromContext(c)
		if !ok {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}

		user, err := repos.User.GetByUsername(c.Request.Context(), claims.Username)
		if err != nil {
			if _, ok := err.(*errors.ErrNotFound); ok {
				c.JSON(http.StatusNotFound, gin.H{"error": "user not found"})
				return
			}
			logger.Error("Failed to get current user", zap.Error(err))
			c.JSON(http.StatusInternalServerError, gin.H{"error": "internal error"})
			return
		}

		c.JSON(http.StatusOK, user)
	}
}
