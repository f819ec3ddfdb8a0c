package http

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/auth"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/health"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/pkg/middleware"
	"github.com/Ibrahim-elKhansa/ecommerce-El-Khansa-Succar/services/customer/internal/service"
)

// RouterConfig holds the router dependencies and settings.
type RouterConfig struct {
	Service        *service.CustomerService
	Authenticator  *auth.Authenticator
	HealthHandler  *health.Handler
	Logger         *slog.Logger
	CORS           middleware.CORSConfig
	RateLimitRPS   int
	RateLimitBurst int
}

// NewRouter creates a chi router with all customer service routes registered.
func NewRouter(cfg RouterConfig) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.CORS(cfg.CORS))
	r.Use(middleware.Recovery(cfg.Logger))
	r.Use(middleware.RequestLogging(cfg.Logger))
	r.Use(middleware.PrometheusMetrics("customer"))
	r.Use(middleware.Tracing("customer"))
	r.Use(middleware.RateLimit(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.Logger))

	r.Get("/health/live", cfg.HealthHandler.LivenessHandler())
	r.Get("/health/ready", cfg.HealthHandler.ReadinessHandler())
	r.Method(http.MethodGet, "/metrics", promhttp.Handler())

	authHandler := NewAuthHandler(cfg.Service, cfg.Logger)
	customerHandler := NewCustomerHandler(cfg.Service, cfg.Logger)

	selfParam := func(req *http.Request) string {
		return chi.URLParam(req, "username")
	}

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.Post("/register", authHandler.Register)
		r.Post("/login", authHandler.Login)
	})

	r.Route("/api/v1/customers", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.Authenticator.Validate))
		r.Use(middleware.RequestLogger(cfg.Logger))

		r.With(middleware.RequireAdmin).Get("/", customerHandler.List)

		r.Route("/{username}", func(r chi.Router) {
			r.Use(middleware.RequireSelfOrAdmin(selfParam))

			r.Get("/", customerHandler.Get)
			r.Put("/", customerHandler.Update)
			r.Delete("/", customerHandler.Delete)
			r.Post("/charge", customerHandler.ChargeWallet)
			r.Post("/deduct", customerHandler.DeductWallet)
		})
	})

	return r
}
