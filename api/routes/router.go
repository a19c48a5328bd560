package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/shopfront-labs/shopfront-backend/api/controllers"
	"github.com/shopfront-labs/shopfront-backend/api/middleware"
	authsvc "github.com/shopfront-labs/shopfront-backend/internal/auth"
	cartsvc "github.com/shopfront-labs/shopfront-backend/internal/cart"
	"github.com/shopfront-labs/shopfront-backend/internal/catalog"
	checkoutsvc "github.com/shopfront-labs/shopfront-backend/internal/checkout"
	"github.com/shopfront-labs/shopfront-backend/pkg/config"
	"github.com/shopfront-labs/shopfront-backend/pkg/logger"
	"github.com/shopfront-labs/shopfront-backend/pkg/metrics"
)

// NewRouter wires the storefront API. The catalog is public; the cart and
// checkout sit behind the login gate.
func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	httpMetrics *metrics.HTTPMetrics,
	authService authsvc.Service,
	catalogService catalog.Service,
	cartService cartsvc.Service,
	checkoutService checkoutsvc.Service,
	pingers ...controllers.Pinger,
) http.Handler {
	r := chi.NewRouter()

	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(httpMetrics),
		middleware.CORS(cfg.App.CORSOrigins),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, pingers...))
	})

	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/auth/login", controllers.AuthLogin(authService, logg))

		r.Route("/products", func(r chi.Router) {
			r.Get("/", controllers.ProductList(catalogService, logg))
			r.Get("/categories", controllers.ProductCategories(catalogService, logg))
			r.Get("/{productId}", controllers.ProductDetail(catalogService, logg))
		})

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(cfg.JWT, authService, logg))

			r.Post("/auth/logout", controllers.AuthLogout(authService, logg))
			r.Get("/auth/session", controllers.AuthSession(authService, logg))

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", controllers.CartFetch(cartService, cfg.Cart, logg))
				r.Post("/items", controllers.CartAdd(cartService, cfg.Cart, logg))
				r.Patch("/items/{productId}", controllers.CartChangeQuantity(cartService, cfg.Cart, logg))
				r.Delete("/items/{productId}", controllers.CartRemove(cartService, cfg.Cart, logg))
			})

			r.Post("/checkout", controllers.Checkout(checkoutService, cfg.Cart, logg))
		})
	})

	return r
}
