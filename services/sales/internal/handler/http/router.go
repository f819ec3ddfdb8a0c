package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/auth"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/health"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/middleware"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/sales/internal/service"
)

// RouterConfig holds the router dependencies and settings.
type RouterConfig struct {
	Service        *service.SaleService
	Authenticator  *auth.Authenticator
	HealthHandler  *health.Handler
	Logger         *slog.Logger
	CORS           middleware.CORSConfig
	RateLimitRPS   int
	RateLimitBurst int
}

// NewRouter creates a chi router with all sales service routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("sales"))
	r.Use(middleware.Tracing("sales"))
	r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.Logger))

	r.Get("/health/live", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/ready", cfg.HealthHandler.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	saleHandler := NewSaleHandler(cfg.Service, cfg.Logger)

	// Purchases spend the buyer's wallet, so the path owner check
	// applies the same way it does to wallet routes.
	buyerParam := func(req *http.Request) string {
		return chi.URLParam(req, "id")
	}

	r.Route("/api/v1/sales", func(r chi.Router) {
		// Storefront views are public.
		r.Get("/goods", saleHandler.ListGoods)
		r.Get("/goods/{goodID}", saleHandler.GetGood)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.Authenticator.Validate))
			r.Use(middleware.RequestLogger(cfg.Logger))

			r.With(middleware.RequireAdmin).Post("/", saleHandler.Create)
			r.Get("/customer/{customerID}", saleHandler.ListByCustomer)
			r.Get("/item/{itemID}", saleHandler.ListByItem)

			r.Route("/{id}", func(r chi.Router) {
				r.With(middleware.RequireSelfOrAdmin(buyerParam)).Post("/", saleHandler.ProcessSale)
				r.Get("/", saleHandler.Get)
				r.With(middleware.RequireAdmin).Put("/", saleHandler.Update)
				r.With(middleware.RequireAdmin).Delete("/", saleHandler.Delete)
			})
		})
	})

	return r
}
