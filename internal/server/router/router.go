package router

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/mamadbah2/cement/internal/server/handlers"
)

// Handlers groups the HTTP handlers the router mounts. Webhook is nil when
// messaging is not configured.
type Handlers struct {
	Sales     *handlers.SalesHandler
	Inventory *handlers.InventoryHandler
	Reports   *handlers.ReportHandler
	Webhook   *handlers.WebhookHandler
}

// New wires the Gin engine with required routes and middlewares.
func New(h Handlers, logger *zap.Logger) (*gin.Engine, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	gin.SetMode(gin.ReleaseMode)

	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := handlers.RegisterValidators(v); err != nil {
			return nil, fmt.Errorf("register request validators: %w", err)
		}
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		sales := api.Group("/sales")
		sales.GET("", h.Sales.List)
		sales.POST("", h.Sales.Create)
		sales.PUT("/:id", h.Sales.Update)
		sales.DELETE("/:id", h.Sales.Delete)

		inventory := api.Group("/inventory")
		inventory.GET("", h.Inventory.List)
		inventory.GET("/:shop", h.Inventory.Get)
		inventory.GET("/:shop/deliveries", h.Inventory.Deliveries)
		inventory.POST("/:shop/deliveries", h.Inventory.AddDelivery)
		inventory.DELETE("/:shop/deliveries/:id", h.Inventory.DeleteDelivery)

		reports := api.Group("/reports")
		reports.GET("/summary", h.Reports.Summary)
		reports.GET("/export.xlsx", h.Reports.Export)
		reports.POST("/sheets-sync", h.Reports.SheetsSync)
	}

	if h.Webhook != nil {
		r.GET("/webhook", h.Webhook.Verify)
		r.POST("/webhook", h.Webhook.Receive)
		r.POST("/send-message", h.Webhook.SendMessage)
	} else {
		logger.Info("whatsapp routes disabled")
	}

	logger.Info("router initialized")

	return r, nil
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
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
