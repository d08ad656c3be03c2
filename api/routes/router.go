package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/rasyarzq/kasirpos-backend/api/controllers"
	"github.com/rasyarzq/kasirpos-backend/api/middleware"
	"github.com/rasyarzq/kasirpos-backend/internal/auth"
	"github.com/rasyarzq/kasirpos-backend/internal/catalog"
	"github.com/rasyarzq/kasirpos-backend/internal/customers"
	"github.com/rasyarzq/kasirpos-backend/internal/dashboard"
	"github.com/rasyarzq/kasirpos-backend/internal/ledger"
	"github.com/rasyarzq/kasirpos-backend/pkg/auth/session"
	"github.com/rasyarzq/kasirpos-backend/pkg/config"
	"github.com/rasyarzq/kasirpos-backend/pkg/db"
	"github.com/rasyarzq/kasirpos-backend/pkg/logger"
	"github.com/rasyarzq/kasirpos-backend/pkg/metrics"
	"github.com/rasyarzq/kasirpos-backend/pkg/redis"
)

// Deps collects everything the HTTP surface needs. cmd/api builds one and
// hands it over.
type Deps struct {
	Config   *config.Config
	Logger   *logger.Logger
	DB       db.Pinger
	Redis    *redis.Client
	Sessions session.AccessSessionChecker
	Registry *prometheus.Registry
	Metrics  *metrics.HTTPMetrics

	Auth      auth.Service
	Products  catalog.Service
	Customers customers.Service
	Ledger    ledger.Service
	Dashboard dashboard.Service
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(),
	)
	if deps.Metrics != nil {
		r.Use(middleware.Metrics(deps.Metrics))
	}

	var cache controllers.Pinger
	if deps.Redis != nil {
		cache = deps.Redis
	}
	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, deps.DB, cache, logg))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/login", controllers.Login(deps.Auth, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
			r.Post("/logout", controllers.Logout(deps.Auth, logg))
		})
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, deps.Sessions, logg))
		if deps.Redis != nil {
			r.Use(middleware.Idempotency(deps.Redis, logg))
		}

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ListProducts(deps.Products, logg))
			r.Post("/", controllers.CreateProduct(deps.Products, logg))
			r.Get("/search", controllers.SearchProducts(deps.Products, logg))
			r.Get("/{id}", controllers.GetProduct(deps.Products, logg))
			r.Put("/{id}", controllers.UpdateProduct(deps.Products, logg))
			r.Delete("/{id}", controllers.DeleteProduct(deps.Products, logg))
		})

		r.Route("/customers", func(r chi.Router) {
			r.Get("/", controllers.ListCustomers(deps.Customers, logg))
			r.Post("/", controllers.CreateCustomer(deps.Customers, logg))
			r.Get("/{id}", controllers.GetCustomer(deps.Customers, logg))
			r.Put("/{id}", controllers.UpdateCustomer(deps.Customers, logg))
			r.Delete("/{id}", controllers.DeleteCustomer(deps.Customers, logg))
		})

		r.Route("/transactions", func(r chi.Router) {
			r.Get("/", controllers.ListTransactions(deps.Ledger, logg))
			r.Post("/", controllers.CreateTransaction(deps.Ledger, logg))
			r.Get("/{id}", controllers.GetTransaction(deps.Ledger, logg))
			r.Put("/{id}", controllers.UpdateTransaction(deps.Ledger, logg))
		})

		r.Get("/pos", controllers.POSData(deps.Ledger, logg))
		r.Get("/dashboard", controllers.DashboardSummary(deps.Dashboard, logg))
	})

	return r
}
