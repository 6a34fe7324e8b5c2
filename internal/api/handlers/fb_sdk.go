package handlers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jayrboy/vercel-server-weliveapp/internal/api/middleware"
	"github.com/jayrboy/vercel-server-weliveapp/internal/config"
	"github.com/jayrboy/vercel-server-weliveapp/internal/domain"
	"github.com/jayrboy/vercel-server-weliveapp/internal/facebook"
	"github.com/jayrboy/vercel-server-weliveapp/internal/repository"
)

type fbSDKRequest struct {
	ID      string `json:"id" binding:"required"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Picture struct {
		Data struct {
			URL string `json:"url"`
		} `json:"data"`
	} `json:"picture"`
	AccessToken string `json:"accessToken"`
}

// HandleFacebookSDKLogin handles POST /api/fb-sdk. The submitted user token is
// introspected with the app token; the account is upserted and a JWT issued
// alongside the granted scopes.
func HandleFacebookSDKLogin(cfg *config.Config, repos *repository.Repositories, fb *facebook.Client, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req fbSDKRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		ctx := c.Request.Context()

		var scopes []string
		var pages []facebook.Page
		if req.AccessToken != "" {
			debug, err := fb.DebugToken(ctx, req.AccessToken)
			if err != nil {
				logger.Warn("Failed to debug user token", zap.Error(err))
			} else {
				scopes = debug.Scopes
			}

			pages, err = fb.GetPages(ctx, req.ID, req.AccessToken)
			if err != nil {
				logger.Warn("Failed to list user pages", zap.Error(err))
			}
		}

		user, err := repos.User.UpsertFacebookUser(ctx, &domain.User{
			Username:   req.ID,
			Name:       req.Name,
			Email:      req.Email,
			PictureURL: req.Picture.Data.URL,
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

		c.JSON(http.StatusOK, gin.H{
			"token": token,
			"payload": gin.H{
				"user":   user,
				"scopes": scopes,
				"pages":  pages,
			},
		})
	}
}

type fbPagePostRequest struct {
	PageID      string `json:"pageId" binding:"required"`
	Message     string `json:"message" binding:"required"`
	AccessToken string `json:"accessToken" binding:"required"`
}

// PagePoster publishes posts on a page feed
type PagePoster interface {
	PostToPage(ctx context.Context, pageID, pageToken, message string) (string, error)
}

// HandleFacebookPagePost handles POST /api/fb-page-post
func HandleFacebookPagePost(fb PagePoster, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req fbPagePostRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}

		postID, err := fb.PostToPage(c.Request.Context(), req.PageID, req.AccessToken, req.Message)
		if err != nil {
			logger.Error("Failed to post to page", zap.Error(err))
			c.JSON(http.StatusBadGateway, gin.H{"error": "page post failed"})
			return
		}

		c.JSON(http.StatusOK, gin.H{"id": postID})
	}
}
