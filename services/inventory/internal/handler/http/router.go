package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/auth"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/health"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/middleware"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/inventory/internal/service"
)

// RouterConfig holds the router dependencies and settings.
type RouterConfig struct {
	Service        *service.ItemService
	Authenticator  *auth.Authenticator
	HealthHandler  *health.Handler
	Logger         *slog.Logger
	CORS           middleware.CORSConfig
	RateLimitRPS   int
	RateLimitBurst int
	CacheMaxAge    int
}

// NewRouter creates a chi router with all inventory service routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("inventory"))
	r.Use(middleware.Tracing("inventory"))
	r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.Logger))

	r.Get("/health/live", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/ready", cfg.HealthHandler.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	itemHandler := NewItemHandler(cfg.Service, cfg.Logger)

	r.Route("/api/v1/items", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.Authenticator.Validate))
		r.Use(middleware.RequestLogger(cfg.Logger))

		r.With(middleware.CacheControl(cfg.CacheMaxAge)).Get("/", itemHandler.List)
		r.Post("/", itemHandler.Create)
		r.With(middleware.RequireAdmin).Delete("/", itemHandler.DeleteAll)

		r.Route("/{id}", func(r chi.Router) {
			r.With(middleware.CacheControl(cfg.CacheMaxAge)).Get("/", itemHandler.Get)
			r.Put("/", itemHandler.Update)
			r.Delete("/", itemHandler.Delete)
			r.Post("/deduct", itemHandler.DeductOne)
			r.With(middleware.RequireAdmin).Get("/movements", itemHandler.ListMovements)
		})
	})

	return r
}
