package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/angelmondragon/planfinderz-storefront/api/controllers"
	"github.com/angelmondragon/planfinderz-storefront/api/middleware"
	"github.com/angelmondragon/planfinderz-storefront/internal/cart"
	"github.com/angelmondragon/planfinderz-storefront/internal/catalog"
	"github.com/angelmondragon/planfinderz-storefront/internal/checkout"
	"github.com/angelmondragon/planfinderz-storefront/internal/inquiries"
	"github.com/angelmondragon/planfinderz-storefront/internal/purchases"
	"github.com/angelmondragon/planfinderz-storefront/internal/wishlist"
	"github.com/angelmondragon/planfinderz-storefront/pkg/config"
	"github.com/angelmondragon/planfinderz-storefront/pkg/logger"
	pkgredis "github.com/angelmondragon/planfinderz-storefront/pkg/redis"
)

// redisStore is the slice of the redis client the HTTP layer needs.
type redisStore interface {
	pkgredis.IdempotencyStore
	pkgredis.RateLimiter
}

func NewRouter(
	cfg *config.Config,
	logg *logger.Logger,
	readiness map[string]controllers.Pinger,
	gatherer prometheus.Gatherer,
	redisClient redisStore,
	catalogService catalog.Service,
	cartService cart.Service,
	checkoutService checkout.Service,
	wishlistService wishlist.Service,
	purchasesService purchases.Service,
	inquiriesService inquiries.Service,
) http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.CORS(cfg.App.AllowedOrigins),
	)

	inquiryPolicy := middleware.NewRateLimitPolicy(
		"inquiries",
		cfg.RateLimit.InquiryWindow,
		cfg.RateLimit.InquiryIPLimit,
		cfg.RateLimit.InquiryEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, readiness, logg))
	})
	if gatherer != nil {
		r.Handle("/metrics", promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{}))
	}

	var limiter pkgredis.RateLimiter
	var idempotencyStore pkgredis.IdempotencyStore
	if redisClient != nil {
		limiter = redisClient
		idempotencyStore = redisClient
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.CartSession(cfg.Cart, logg))
		r.Use(middleware.OptionalAuth(cfg.JWT, logg))
		r.Use(middleware.Idempotency(idempotencyStore, logg))

		r.Route("/catalog", func(r chi.Router) {
			r.Get("/", controllers.CatalogBrowse(catalogService, logg))
			r.Get("/{sourceId}", controllers.CatalogDetail(catalogService, logg))
			r.With(middleware.RequireAuth(logg)).Get("/{sourceId}/access", controllers.CatalogAccess(catalogService, purchasesService, logg))
		})

		r.With(middleware.RequireAuth(logg)).Get("/purchases", controllers.PurchaseHistory(purchasesService, logg))

		r.Route("/cart", func(r chi.Router) {
			r.Get("/", controllers.CartFetch(cartService, logg))
			r.Delete("/", controllers.CartClear(cartService, logg))
			r.Post("/items", controllers.CartAddItem(cartService, catalogService, logg))
			r.Patch("/items/{itemId}", controllers.CartUpdateItem(cartService, logg))
			r.Delete("/items/{itemId}", controllers.CartRemoveItem(cartService, logg))
		})

		r.Post("/checkout", controllers.CheckoutSubmit(checkoutService, logg))

		r.Route("/wishlist", func(r chi.Router) {
			r.Get("/", controllers.WishlistList(wishlistService, logg))
			r.Post("/toggle", controllers.WishlistToggle(wishlistService, catalogService, logg))
			r.Get("/{sourceId}", controllers.WishlistContains(wishlistService, logg))
			r.Delete("/{sourceId}", controllers.WishlistRemove(wishlistService, logg))
		})

		r.With(middleware.RateLimit(inquiryPolicy, limiter, logg)).Post("/inquiries", controllers.InquirySubmit(inquiriesService, logg))
	})

	return r
}
