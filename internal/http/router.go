package http

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	_ "github.com/rogerio-castellano/inventory-flow/docs"
	"github.com/rogerio-castellano/inventory-flow/internal/http/handlers"
	mw "github.com/rogerio-castellano/inventory-flow/internal/http/middleware"
	rl "github.com/rogerio-castellano/inventory-flow/internal/http/rate_limiter"
	httpSwagger "github.com/swaggo/http-swagger/v2"
	"go.uber.org/zap"
)

type routerOptions struct {
	logger      *zap.Logger
	limiter     *rl.Limiter
	corsOrigins []string
	trustProxy  bool
}

type RouterOption func(*routerOptions)

func WithLogger(l *zap.Logger) RouterOption {
	return func(o *routerOptions) { o.logger = l }
}

// WithRateLimiter enables per-client throttling. A nil limiter leaves it off.
func WithRateLimiter(l *rl.Limiter) RouterOption {
	return func(o *routerOptions) { o.limiter = l }
}

func WithCORSOrigins(origins ...string) RouterOption {
	return func(o *routerOptions) { o.corsOrigins = origins }
}

// WithTrustedProxy takes the client address from X-Forwarded-For / X-Real-IP.
// Enable it only behind a proxy that overwrites those headers.
func WithTrustedProxy(trust bool) RouterOption {
	return func(o *routerOptions) { o.trustProxy = trust }
}

func NewRouter(opts ...RouterOption) http.Handler {
	o := routerOptions{logger: zap.NewNop(), corsOrigins: []string{"*"}}
	for _, opt := range opts {
		opt(&o)
	}

	r := chi.NewRouter()
	if o.trustProxy {
		r.Use(chimw.RealIP)
	}
	r.Use(chimw.Recoverer)
	r.Use(mw.RequestID)
	r.Use(mw.Tracing)
	r.Use(mw.Logger(o.logger))
	r.Use(mw.Metrics)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: o.corsOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type", mw.RequestIDHeader},
		ExposedHeaders: []string{mw.RequestIDHeader},
		MaxAge:         300,
	}))

	r.Get("/health", handlers.HealthHandler)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	r.Route("/products", func(r chi.Router) {
		if o.limiter != nil {
			r.Use(mw.RateLimit(o.limiter))
		}
		r.Post("/", handlers.CreateProductHandler)
		r.Get("/", handlers.GetProductsHandler)
		r.Get("/summary", handlers.GetSummaryHandler)
		r.Get("/{id}", handlers.GetProductByIDHandler)
		r.Put("/{id}", handlers.UpdateProductHandler)
		r.Delete("/{id}", handlers.DeleteProductHandler)
	})

	return r
}
