package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/storefront-backend/api/controllers"
	"github.com/angelmondragon/storefront-backend/api/middleware"
	"github.com/angelmondragon/storefront-backend/internal/cart"
	checkoutsvc "github.com/angelmondragon/storefront-backend/internal/checkout"
	products "github.com/angelmondragon/storefront-backend/internal/products"
	"github.com/angelmondragon/storefront-backend/pkg/config"
	"github.com/angelmondragon/storefront-backend/pkg/db"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/angelmondragon/storefront-backend/pkg/metrics"
	"github.com/angelmondragon/storefront-backend/pkg/redis"
)

func passthrough(next http.Handler) http.Handler { return next }

// NewRouter wires the storefront API. redisClient, gatherer and httpMetrics
// are optional; when nil the idempotency, rate limit and metrics layers are skipped.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	dbP db.Pinger,
	redisClient *redis.Client,
	gatherer prometheus.Gatherer,
	httpMetrics *metrics.HTTPMetrics,
	productService products.Service,
	cartService cart.Service,
	checkoutService checkoutsvc.Service,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Recoverer(logg),
	)
	if httpMetrics != nil {
		r.Use(middleware.Metrics(httpMetrics))
	}
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	idempotent := passthrough
	checkoutLimit := passthrough
	readiness := map[string]controllers.Pinger{"db": dbP}
	if redisClient != nil {
		idempotent = middleware.Idempotency(redisClient, logg)
		checkoutLimit = middleware.RateLimit(
			middleware.NewRateLimitPolicy(
				"checkout",
				cfg.RateLimit.CheckoutWindow,
				cfg.RateLimit.CheckoutIPLimit,
				cfg.RateLimit.CheckoutEmailLimit,
			),
			redisClient,
			logg,
		)
		readiness["redis"] = redisClient
	}

	notFound := controllers.NotFound(logg)
	r.NotFound(notFound)
	r.MethodNotAllowed(notFound)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, readiness))
	})

	if cfg.Metrics.Enabled && gatherer != nil {
		r.Method(http.MethodGet, cfg.Metrics.Path, promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api", func(r chi.Router) {
		r.Get("/products", controllers.ListProducts(productService, logg))

		r.Get("/cart", controllers.GetCart(cartService, logg))
		r.With(idempotent).Post("/cart", controllers.AddCartItem(cartService, logg))
		r.Delete("/cart", controllers.ClearCart(cartService, logg))
		r.Delete("/cart/{id}", controllers.RemoveCartItem(cartService, logg))

		r.With(checkoutLimit, idempotent).Post("/checkout", controllers.Checkout(checkoutService, logg))
	})

	return r
}
