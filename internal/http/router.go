package http

import (
	"github.com/gin-gonic/gin"
	httpH "github.com/nikolayk812/sqlcart/internal/http/handlers"
	httpMW "github.com/nikolayk812/sqlcart/internal/http/middleware"
	"github.com/nikolayk812/sqlcart/internal/metrics"
	"github.com/prometheus/client_golang/prometheus"
)

type RouterConfig struct {
	CartHandler        *httpH.CartHandler
	IdentityMiddleware *httpMW.IdentityMiddleware
	HealthHandler      *httpH.HealthHandler

	Metrics  *metrics.ServerMetrics
	Gatherer prometheus.Gatherer
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	if cfg.Metrics != nil {
		r.Use(cfg.Metrics.Middleware())
	}

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}
	if cfg.Gatherer != nil {
		r.GET("/metrics", gin.WrapH(metrics.Handler(cfg.Gatherer)))
	}

	if cfg.CartHandler == nil || cfg.IdentityMiddleware == nil {
		return r
	}

	cart := r.Group("/api/cart")
	cart.Use(cfg.IdentityMiddleware.Extract())
	{
		cart.GET("", cfg.CartHandler.GetCart)
		cart.POST("/items", cfg.CartHandler.AddItem)
		cart.DELETE("/items", cfg.CartHandler.Clear)
		cart.GET("/items/:itemID", cfg.CartHandler.GetItem)
		cart.PUT("/items/:itemID", cfg.CartHandler.UpdateItem)
		cart.DELETE("/items/:itemID", cfg.CartHandler.RemoveItem)
		cart.PUT("/products/:kind/:id", cfg.CartHandler.UpdateProduct)
		cart.POST("/checkout", cfg.CartHandler.Checkout)
	}

	user := cart.Group("")
	user.Use(cfg.IdentityMiddleware.RequireUser())
	{
		user.POST("/login", cfg.CartHandler.Login)
		user.POST("/claim", cfg.CartHandler.Claim)
	}

	return r
}
