package http

import (
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/yenminh269/themepark-checkout/internal/adapter/http/middleware"
	"github.com/yenminh269/themepark-checkout/internal/logging"
)

func NewRouter(ch *CartHandler, co *CheckoutHandler, th *TokenHandler, authz *middleware.Authz) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery(), middleware.MetricsMiddleware())

	l := logging.New("http")
	r.Use(middleware.Logging(l))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"ok": true})
	})
	// Prometheus endpoint (scraped by Prometheus)
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.POST("/v1/token", th.IssueToken)

	v1 := r.Group("/v1")
	{
		v1.GET("/cart", authz.Require("cart.read"), ch.GetCart)
		v1.POST("/cart/items", authz.Require("cart.write"), ch.AddLine)
		v1.DELETE("/cart/items", authz.Require("cart.write"), ch.RemoveLine)
		v1.POST("/cart/clear", authz.Require("cart.write"), ch.ClearCart)

		v1.POST("/checkout", authz.Require("checkout.write"), co.Checkout)
		v1.GET("/checkout/:id", authz.Require("orders.read"), co.GetAttempt)
	}

	return r
}
