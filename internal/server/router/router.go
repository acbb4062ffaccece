package router

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/mamadbah2/stockpanel/internal/server/handlers"
)

// New wires the Gin engine with required routes and middlewares.
func New(inventory *handlers.InventoryHandler, contact *handlers.MessagesHandler, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	inv := r.Group("/api/inventory")
	inv.GET("", inventory.View)
	inv.POST("/reload", inventory.Reload)
	inv.GET("/draft", inventory.Draft)
	inv.POST("/draft", inventory.SubmitDraft)
	inv.DELETE("/draft", inventory.CancelEdit)
	inv.POST("/products/:id/edit", inventory.BeginEdit)
	inv.POST("/products/:id/adjust", inventory.Adjust)
	inv.DELETE("/products/:id", inventory.Delete)

	msg := r.Group("/api/messages")
	msg.GET("", contact.List)
	msg.POST("", contact.Submit)
	msg.DELETE("/:id", contact.Delete)

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
