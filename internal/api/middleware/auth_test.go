package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/jayrboy/vercel-server-weliveapp/internal/config"
)

func authTestRouter(cfg *config.Config) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/protected", AuthMiddleware(cfg, zap.NewNop()), func(c *gin.Context) {
		claims, ok := GetClaimsFromContext(c)
		if !ok {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "no claims"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"username": claims.Username, "role": claims.Role})
	})
	return router
}

func TestAuthMiddlewareValidToken(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	router := authTestRouter(cfg)

	token, err := IssueToken(cfg, "somchai", "admin")
	require.NoError(t, err)

	req := httptest.NewRequest(http.MethodGet, "/protected", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "somchai")
	assert.Contains(t, w.Body.String(), "admin")
}

func TestAuthMiddlewareRejects(t *testing.T) {
	cfg := &config.Config{JWTSecret: "test-secret"}
	router := authTestRouter(cfg)

	otherToken, err := IssueToken(&config.Config{JWTSecret: "other-secret"}, "somchai", "user")
	require.NoError(t, err)

	tests := map[string]string{
		"missing header": "",
		"not bearer":     "Basic abc123",
		"garbage token":  "Bearer not.a.jwt",
		"wrong secret":   "Bearer " + otherToken,
	}
	for name, header := range tests {
		req := httptest.NewRequest(http.MethodGet, "/protected", nil)
		if header != "" {
			req.Header.Set("Authorization", header)
		}
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		assert.Equal(t, http.StatusUnauthorized, w.Code, name)
	}
}
