package api

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jayrboy/vercel-server-weliveapp/internal/api/handlers"
	"github.com/jayrboy/vercel-server-weliveapp/internal/api/middleware"
	"github.com/jayrboy/vercel-server-weliveapp/internal/config"
	"github.com/jayrboy/vercel-server-weliveapp/internal/facebook"
	"github.com/jayrboy/vercel-server-weliveapp/internal/repository"
	"github.com/jayrboy/vercel-server-weliveapp/internal/service"
)

// NewRouter creates and configures the Gin router
func NewRouter(cfg *config.Config, repos *repository.Repositories, fb *facebook.Client, logger *zap.Logger) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.New()

	// Middleware
	router.Use(customRecovery(logger))
	router.Use(loggingMiddleware(logger))

	eventLog := service.NewEventLog(100)
	chatbot := service.NewChatbotService(fb, repos.SaleOrder, cfg.OrderLinkBaseURL, logger)
	reports := service.NewReportService(repos.SaleOrder, repos.Product, logger)

	// Root: friendly response so GET / returns 200 instead of 404
	router.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"service": "WeLive Back Office API",
			"endpoints": []string{
				"GET /health",
				"GET /api/product",
				"GET /api/sale-order",
				"GET /api/daily/read",
				"POST /api/webhooks/chatbot",
			},
		})
	})

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	// Webhook diagnostics: recent events, newest first
	router.GET("/webhooks", handlers.HandleWebhookLog(eventLog))

	api := router.Group("/api")
	{
		// Messenger Platform webhook (verified by token, not JWT)
		api.GET("/webhooks/chatbot", handlers.HandleWebhookVerify(cfg, logger))
		api.POST("/webhooks/chatbot", handlers.HandleWebhookEvent(chatbot, eventLog, logger))

		auth := api.Group("/auth")
		{
			auth.POST("/register", handlers.HandleRegister(cfg, repos, logger))
			auth.POST("/login", handlers.HandleLogin(cfg, repos, logger))
			auth.POST("/login-facebook", handlers.HandleLoginFacebook(cfg, repos, logger))
			auth.POST("/token", handlers.HandleGenerateToken(cfg, logger))
		}

		api.POST("/fb-sdk", handlers.HandleFacebookSDKLogin(cfg, repos, fb, logger))

		// Back-office routes (require authentication)
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(cfg, logger))
		{
			protected.POST("/auth/current-user", handlers.HandleCurrentUser(repos, logger))

			protected.POST("/product", handlers.HandleCreateProduct(repos, logger))
			protected.GET("/product", handlers.HandleListProducts(repos, logger))
			protected.GET("/product/read/:id", handlers.HandleGetProduct(repos, logger))
			protected.GET("/product/search", handlers.HandleSearchProducts(repos, logger))
			protected.PUT("/product", handlers.HandleUpdateProduct(repos, logger))
			protected.DELETE("/product/:id", handlers.HandleDeleteProduct(repos, logger))

			protected.POST("/sale-order", handlers.HandleCreateSaleOrder(repos, logger))
			protected.GET("/sale-order", handlers.HandleListSaleOrders(repos, logger))
			protected.GET("/sale-order/read/:id", handlers.HandleGetSaleOrder(repos, logger))
			protected.PUT("/sale-order", handlers.HandleUpdateSaleOrder(repos, logger))
			protected.DELETE("/sale-order/delete/:id", handlers.HandleDeleteSaleOrder(repos, logger))
			protected.PUT("/sale-order/complete", handlers.HandleToggleComplete(repos, logger))
			protected.PUT("/sale-order/sent", handlers.HandleToggleSent(repos, logger))
			protected.GET("/sale-order/getorderforreport/:productId/:day/:month/:year",
				handlers.HandleProductSalesReport(reports, logger))

			protected.POST("/daily/create", handlers.HandleCreateDailyStock(repos, logger))
			protected.GET("/daily/read", handlers.HandleListDailyStocks(repos, logger))
			protected.GET("/daily/read/:id", handlers.HandleGetDailyStock(repos, logger))
			protected.GET("/daily/read/:id/product/:productId", handlers.HandleGetDailyStockProduct(repos, logger))
			protected.GET("/daily/new-status", handlers.HandleGetLatestDailyStock(repos, logger))
			protected.POST("/daily/update", handlers.HandleUpdateDailyStockProduct(repos, logger))
			protected.POST("/daily/update/total", handlers.HandleUpdateDailyStockTotal(repos, logger))
			protected.DELETE("/daily/delete/product/:id", handlers.HandleRemoveDailyStockProduct(repos, logger))
			protected.GET("/daily/history", handlers.HandleDailyStockHistory(repos, logger))

			protected.GET("/customer", handlers.HandleListCustomers(repos, logger))
			protected.GET("/customer/read/:id", handlers.HandleGetCustomer(repos, logger))
			protected.POST("/customer", handlers.HandleUpsertCustomer(repos, logger))

			protected.GET("/users", handlers.HandleListUsers(repos, logger))
			protected.POST("/user/change-role", handlers.HandleChangeUserRole(repos, logger))

			protected.POST("/fb-page-post", handlers.HandleFacebookPagePost(fb, logger))
		}
	}

	return router
}

// customRecovery is a custom recovery middleware that logs panics
func customRecovery(logger *zap.Logger) gin.HandlerFunc {
	return gin.CustomRecovery(func(c *gin.Context, recovered interface{}) {
		logger.Error("Panic recovered",
			zap.Any("error", recovered),
			zap.String("path", c.Request.URL.Path),
			zap.String("method", c.Request.Method),
		)
		c.JSON(http.StatusInternalServerError, gin.H{
			"error":   "internal server error",
			"details": fmt.Sprintf("%v", recovered),
		})
	})
}

// loggingMiddleware logs HTTP requests
func loggingMiddleware(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		method := c.Request.Method

		c.Next()

		status := c.Writer.Status()
		logger.Info("HTTP request",
			zap.String("method", method),
			zap.String("path", path),
			zap.Int("status", status),
		)
	}
}
