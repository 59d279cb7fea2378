package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/config"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/http/handlers"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/middleware"
	"github.com/andreasstove999/ecommerce-system/storefront-go/internal/session"
)

type Deps struct {
	Logger *zap.Logger
	Cfg    config.Config

	Catalog handlers.Catalog
	Session *session.Store

	// Metrics is mounted at /metrics when set.
	Metrics http.Handler
}

func NewRouter(d Deps) http.Handler {
	logger := d.Logger
	if logger == nil {
		logger = zap.NewNop()
	}

	r := chi.NewRouter()

	// outer -> inner; RealIP first so the request log carries the client address
	r.Use(chimw.RealIP)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.CorrelationID)
	r.Use(middleware.CORS(d.Cfg.CORSAllowOrigins))
	r.Use(middleware.Recover(logger))

	r.Get("/health", handlers.Health)
	if d.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", d.Metrics)
	}

	products := handlers.NewProductsHandler(d.Catalog, logger)
	c := handlers.NewCartHandler(d.Session, d.Catalog)

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", products.List)

		r.Get("/cart", c.Get)
		r.Get("/cart/badge", c.Badge)
		r.Post("/cart/items", c.AddItem)
		r.Post("/cart/items/{id}", c.AddByID)
		r.Delete("/cart/items/{id}", c.RemoveItem)
		r.Post("/cart/undo", c.Undo)
	})

	return r
}
