package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"

	"api_ventas/internal/sales"
)

// Options carries the collaborators of the HTTP layer.
type Options struct {
	Sales       *sales.Service
	Detalles    DetallesClient
	GatewayURL  string
	ServiceName string
	Logger      *zap.Logger
}

// InitRoutes registers middleware and every /ventas endpoint on the given
// Gin engine.
func InitRoutes(e *gin.Engine, opts Options) {
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	serviceName := opts.ServiceName
	if serviceName == "" {
		serviceName = "api-ventas"
	}
	useJSONFieldNames()
	useNumericDecimals()

	e.Use(
		gin.Recovery(),
		RequestID(),
		otelgin.Middleware(serviceName),
		RequestLogger(logger),
		CORS(),
	)

	h := newVentasHandler(opts.Sales, opts.Detalles, opts.GatewayURL, logger)

	ventas := e.Group("/ventas")
	ventas.GET("", h.handleListSales)
	ventas.POST("", h.handleCreateSale)
	ventas.GET("/stats", h.handleSalesStats)
	ventas.GET("/stats/completas", h.handleCompleteStats)
	ventas.GET("/productos/mas-vendidos", h.handleTopSellingProducts)
	ventas.GET("/cliente/:idCliente", h.handleSalesByCustomer)
	ventas.GET("/:id", h.handleGetSale)
	ventas.GET("/:id/con-detalles", h.handleSaleWithDetails)
	ventas.DELETE("/:id", h.handleDeleteSale)

	e.GET("/actuator/health", h.handleHealth)
	e.GET("/v3/api-docs", apiDocsHandler(opts.GatewayURL))
	e.GET("/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"message": "pong",
		})
	})
}
