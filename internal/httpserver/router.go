package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"

	"storefront/internal/domain"
	"storefront/internal/service/cart"
)

type checkoutGateway interface {
	CreateCart(ctx context.Context, variantID string, quantity int) (*domain.Cart, error)
	FetchCartRaw(ctx context.Context, cartID string) (json.RawMessage, error)
}

type productService interface {
	List(ctx context.Context) ([]domain.Product, error)
	Get(ctx context.Context, id string) (*domain.Product, error)
}

type sessionService interface {
	Issue() string
	Store(ctx context.Context, sessionID string) (*cart.Store, error)
}

// CookieOptions controls the session cookie.
type CookieOptions struct {
	Name   string
	Secure bool
	MaxAge time.Duration
}

type Deps struct {
	Gateway  checkoutGateway
	Products productService
	Sessions sessionService
	// Checks are pinged by /readyz.
	Checks      map[string]Pinger
	Gatherer    prometheus.Gatherer
	CORSOrigins []string
	Cookie      CookieOptions
}

func (d Deps) validate() error {
	if d.Gateway == nil {
		return errors.New("gateway required")
	}
	if d.Products == nil {
		return errors.New("product service required")
	}
	if d.Sessions == nil {
		return errors.New("session service required")
	}
	return nil
}

// buildRouter wires routes for the API.
func buildRouter(logger zerolog.Logger, deps Deps) (*gin.Engine, error) {
	if err := deps.validate(); err != nil {
		return nil, err
	}
	if deps.Cookie.Name == "" {
		deps.Cookie.Name = "storefront_session"
	}
	gatherer := deps.Gatherer
	if gatherer == nil {
		gatherer = prometheus.DefaultGatherer
	}

	if gin.Mode() != gin.TestMode {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(requestLogger(logger), gin.Recovery())
	if c, ok := corsConfig(deps.CORSOrigins); ok {
		router.Use(cors.New(c))
	}

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Checks))
	router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})))

	shopify := router.Group("/api/shopify")
	shopify.POST("/checkout", checkoutHandler(deps.Gateway))
	shopify.GET("/cart/:cartId", rawCartHandler(deps.Gateway))
	shopify.GET("/products", productsHandler(deps.Products))
	shopify.GET("/products/:productId", productHandler(deps.Products))

	carts := router.Group("/api/cart", sessionMiddleware(deps.Sessions, deps.Cookie))
	carts.GET("", getCartHandler(deps.Sessions))
	carts.DELETE("", resetCartHandler(deps.Sessions))
	carts.POST("/lines", addLineHandler(deps.Sessions))
	carts.PATCH("/lines/:lineId", updateLineHandler(deps.Sessions))
	carts.DELETE("/lines/:lineId", removeLineHandler(deps.Sessions))

	return router, nil
}

func corsConfig(origins []string) (cors.Config, bool) {
	if len(origins) == 0 {
		return cors.Config{}, false
	}
	c := cors.Config{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", requestIDHeader},
		ExposeHeaders:    []string{requestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	for _, o := range origins {
		if o == "*" {
			c.AllowAllOrigins = true
			c.AllowCredentials = false
			return c, true
		}
	}
	c.AllowOrigins = origins
	return c, true
}
