package router

import (
	"net/http"

	"storefront/internal/auth"
	"storefront/internal/handler"
	"storefront/internal/metrics"
	"storefront/internal/middleware"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

// Options carries the optional pieces of the router.
type Options struct {
	// Metrics enables request instrumentation and the /metrics endpoint.
	Metrics *metrics.Metrics
	// RateLimiter throttles requests per client IP when set.
	RateLimiter *middleware.RateLimiter
}

// New creates a new HTTP router with all routes and middleware configured.
func New(
	productHandler *handler.ProductHandler,
	orderHandler *handler.OrderHandler,
	tokens *auth.TokenManager,
	logger zerolog.Logger,
	opts Options,
) http.Handler {
	r := chi.NewRouter()

	// Applied in order: Recovery -> Logging -> Metrics -> CORS -> RateLimit -> Authenticate
	r.Use(middleware.Recovery(logger))
	r.Use(middleware.Logging(logger))
	if opts.Metrics != nil {
		r.Use(middleware.Metrics(opts.Metrics))
	}
	r.Use(middleware.CORS)
	if opts.RateLimiter != nil {
		r.Use(opts.RateLimiter.Middleware(logger))
	}
	r.Use(middleware.Authenticate(tokens, logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics.Handler())
	}

	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", productHandler.List)
		r.Get("/{id}", productHandler.GetByID)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireRole(auth.RoleAdmin))
			r.Post("/", productHandler.Create)
			r.Put("/{id}", productHandler.Update)
			r.Delete("/{id}", productHandler.Delete)
		})
	})

	r.Route("/api/orders", func(r chi.Router) {
		r.Use(middleware.RequireAuth)
		r.Post("/", orderHandler.Create)
		r.Get("/", orderHandler.List)
		r.Get("/{id}", orderHandler.GetByID)
		r.With(middleware.RequireRole(auth.RoleAdmin)).Put("/{id}", orderHandler.UpdateStatus)
	})

	return r
}
