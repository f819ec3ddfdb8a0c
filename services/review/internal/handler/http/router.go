package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/auth"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/health"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/middleware"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/review/internal/service"
)

// RouterConfig holds the router dependencies and settings.
type RouterConfig struct {
	Service        *service.ReviewService
	Authenticator  *auth.Authenticator
	HealthHandler  *health.Handler
	Logger         *slog.Logger
	CORS           middleware.CORSConfig
	RateLimitRPS   int
	RateLimitBurst int
}

// NewRouter creates a chi router with all review service routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("review"))
	r.Use(middleware.Tracing("review"))
	r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.Logger))

	r.Get("/health/live", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/ready", cfg.HealthHandler.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	reviewHandler := NewReviewHandler(cfg.Service, cfg.Logger)

	r.Route("/api/v1/reviews", func(r chi.Router) {
		// Product review listings back the storefront and are public.
		r.Get("/product/{productID}", reviewHandler.ListByProduct)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.Authenticator.Validate))
			r.Use(middleware.RequestLogger(cfg.Logger))

			r.Post("/", reviewHandler.Create)
			r.Get("/customer/{customerID}", reviewHandler.ListByCustomer)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", reviewHandler.Get)
				r.Put("/", reviewHandler.Update)
				r.Delete("/", reviewHandler.Delete)
				r.With(middleware.RequireAdmin).Post("/moderate", reviewHandler.Moderate)
			})
		})
	})

	return r
}
