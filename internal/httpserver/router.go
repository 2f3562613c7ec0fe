package httpserver

import (
	"context"
	"errors"
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"luxe-atelier/internal/domain"
	cartsvc "luxe-atelier/internal/service/cart"
)

// Deps are the collaborators the router needs.
type Deps struct {
	CartSvc  cartService
	Snapshot Pinger
}

type cartService interface {
	Get(ctx context.Context, cartKey string) (*cartsvc.Summary, error)
	AddItem(ctx context.Context, cartKey string, c domain.LineCandidate) (*cartsvc.Summary, error)
	RemoveItem(ctx context.Context, cartKey, lineID string) (*cartsvc.Summary, error)
	UpdateQuantity(ctx context.Context, cartKey, lineID string, quantity int) (*cartsvc.Summary, error)
	Clear(ctx context.Context, cartKey string) (*cartsvc.Summary, error)
	Open(ctx context.Context, cartKey string) (*cartsvc.Summary, error)
	Close(ctx context.Context, cartKey string) (*cartsvc.Summary, error)
	Toggle(ctx context.Context, cartKey string) (*cartsvc.Summary, error)
}

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, deps Deps, allowedOrigins []string) (*gin.Engine, error) {
	if deps.CartSvc == nil {
		return nil, errors.New("cart service required")
	}

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(corsConfig(allowedOrigins)))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(deps.Snapshot))

	h := &cartHandler{svc: deps.CartSvc, logger: logger}
	carts := router.Group("/carts/:cartKey")
	carts.GET("", h.get)
	carts.POST("/items", h.addItem)
	carts.DELETE("/items", h.clear)
	carts.PATCH("/items/:lineId", h.updateQuantity)
	carts.DELETE("/items/:lineId", h.removeItem)
	carts.POST("/open", h.open)
	carts.POST("/close", h.close)
	carts.POST("/toggle", h.toggle)

	return router, nil
}

func corsConfig(allowedOrigins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept"},
		ExposeHeaders: []string{"Content-Length"},
		MaxAge:        12 * time.Hour,
	}
	for _, origin := range allowedOrigins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(allowedOrigins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = allowedOrigins
	return cfg
}
