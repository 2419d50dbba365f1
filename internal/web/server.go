package web

import (
	"context"
	"embed"
	"fmt"
	"html/template"
	"io/fs"
	"net/http"
	"time"

	"storefront/internal/auth"
	"storefront/internal/middleware"
	"storefront/internal/model"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"
)

//go:embed templates/*.html
var templateFS embed.FS

// pages are the views rendered inside the shared layout.
var pages = []string{"home", "product", "cart", "checkout", "confirmation", "account", "error"}

// API is the subset of the REST client the front end calls.
type API interface {
	ListProducts(ctx context.Context) ([]model.Product, error)
	GetProduct(ctx context.Context, id string) (*model.Product, error)
	CreateOrder(ctx context.Context, token string, req *model.OrderRequest) (*model.Order, error)
	ListOrders(ctx context.Context, token string) ([]model.Order, error)
	GetOrder(ctx context.Context, token, id string) (*model.Order, error)
}

// Server renders the storefront views from API data.
type Server struct {
	api       API
	tokens    *auth.TokenManager
	templates map[string]*template.Template
	secure    bool
	logger    zerolog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithSecureCookies marks session cookies Secure.
func WithSecureCookies() Option {
	return func(s *Server) { s.secure = true }
}

// NewServer parses the embedded templates and returns a ready server.
func NewServer(api API, tokens *auth.TokenManager, logger zerolog.Logger, opts ...Option) (*Server, error) {
	templates, err := parseTemplates(templateFS)
	if err != nil {
		return nil, err
	}

	s := &Server{
		api:       api,
		tokens:    tokens,
		templates: templates,
		logger:    logger.With().Str("component", "web").Logger(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

func parseTemplates(fsys fs.FS) (map[string]*template.Template, error) {
	funcs := template.FuncMap{
		"money": func(v float64) string { return fmt.Sprintf("$%.2f", v) },
		"year":  func() int { return time.Now().Year() },
	}

	templates := make(map[string]*template.Template, len(pages))
	for _, page := range pages {
		t, err := template.New("layout.html").Funcs(funcs).ParseFS(fsys, "templates/layout.html", "templates/"+page+".html")
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s template: %w", page, err)
		}
		templates[page] = t
	}
	return templates, nil
}

// Handler returns the routed front end.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.Recovery(s.logger))
	r.Use(middleware.Logging(s.logger))

	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	r.Get("/", s.home)
	r.Get("/product/{id}", s.product)

	r.Get("/cart", s.cart)
	r.Post("/cart/add", s.cartAdd)
	r.Post("/cart/update", s.cartUpdate)
	r.Post("/cart/remove", s.cartRemove)

	r.Get("/checkout", s.checkout)
	r.Post("/checkout", s.placeOrder)
	r.Get("/orders/{id}", s.confirmation)

	r.Get("/account", s.account)
	r.Post("/account/login", s.login)
	r.Post("/account/logout", s.logout)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		s.renderError(w, r, nil, http.StatusNotFound, "Page not found")
	})

	return r
}
