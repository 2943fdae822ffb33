package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/angelmondragon/planfinderz-storefront/api/controllers"
	"github.com/angelmondragon/planfinderz-storefront/api/routes"
	"github.com/angelmondragon/planfinderz-storefront/internal/cart"
	"github.com/angelmondragon/planfinderz-storefront/internal/catalog"
	"github.com/angelmondragon/planfinderz-storefront/internal/checkout"
	"github.com/angelmondragon/planfinderz-storefront/internal/inquiries"
	"github.com/angelmondragon/planfinderz-storefront/internal/purchases"
	"github.com/angelmondragon/planfinderz-storefront/internal/wishlist"
	"github.com/angelmondragon/planfinderz-storefront/pkg/config"
	"github.com/angelmondragon/planfinderz-storefront/pkg/db"
	"github.com/angelmondragon/planfinderz-storefront/pkg/logger"
	"github.com/angelmondragon/planfinderz-storefront/pkg/metrics"
	"github.com/angelmondragon/planfinderz-storefront/pkg/migrate"
	"github.com/angelmondragon/planfinderz-storefront/pkg/pubsub"
	"github.com/angelmondragon/planfinderz-storefront/pkg/redis"
	"github.com/angelmondragon/planfinderz-storefront/pkg/remoteapi"
)

const shutdownTimeout = 15 * time.Second

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront-api"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront-api",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg, logg); err != nil {
		logg.Error(context.Background(), "storefront api stopped unexpectedly", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, logg *logger.Logger) error {
	dbClient, err := db.New(ctx, cfg.DB, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := dbClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing database", err)
		}
	}()

	if err := migrate.MaybeRunDev(ctx, cfg, logg, dbClient); err != nil {
		return err
	}

	redisClient, err := redis.New(ctx, cfg.Redis, logg)
	if err != nil {
		return err
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	registry := prometheus.NewRegistry()
	registry.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	recorder := metrics.NewStorefrontMetrics(registry)

	apiClient, err := remoteapi.New(cfg.Catalog, logg)
	if err != nil {
		return err
	}

	readiness := map[string]controllers.Pinger{
		"database": dbClient,
		"redis":    redisClient,
	}

	publisher, closePublisher, err := newCheckoutPublisher(ctx, cfg, logg)
	if err != nil {
		return err
	}
	defer closePublisher()
	if pinger, ok := publisher.(controllers.Pinger); ok {
		readiness["pubsub"] = pinger
	}

	catalogService, err := catalog.NewService(catalog.ServiceParams{
		Fetcher: apiClient,
		Cache:   redisClient,
		Keyer:   redisClient,
		Metrics: recorder,
		Logger:  logg,
		Config:  cfg.Catalog,
	})
	if err != nil {
		return err
	}

	sessions, err := cart.NewSessionStore(redisClient, redisClient, cfg.Cart.SessionTTL)
	if err != nil {
		return err
	}
	cartService, err := cart.NewService(cart.ServiceParams{Store: sessions, Metrics: recorder, Logger: logg})
	if err != nil {
		return err
	}

	checkoutService, err := checkout.NewService(checkout.ServiceParams{
		Carts:     cartService,
		Publisher: publisher,
		Metrics:   recorder,
		Logger:    logg,
	})
	if err != nil {
		return err
	}

	wishlistService, err := wishlist.NewService(wishlist.ServiceParams{
		Repo:   wishlist.NewRepository(dbClient.DB()),
		Tx:     dbClient,
		Logger: logg,
	})
	if err != nil {
		return err
	}

	purchasesService, err := purchases.NewService(purchases.ServiceParams{
		Fetcher:    apiClient,
		OrdersPath: cfg.Catalog.OrdersPath,
		Logger:     logg,
	})
	if err != nil {
		return err
	}

	inquiriesService, err := inquiries.NewService(inquiries.ServiceParams{
		Poster: apiClient,
		Path:   cfg.Catalog.InquiriesPath,
		Logger: logg,
	})
	if err != nil {
		return err
	}

	router := routes.NewRouter(cfg, logg, readiness, registry, redisClient,
		catalogService, cartService, checkoutService, wishlistService, purchasesService, inquiriesService)

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	logCtx := logg.WithFields(ctx, map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(logCtx, "starting storefront api")

	server := &http.Server{
		Addr:              addr,
		Handler:           otelhttp.NewHandler(router, "storefront-api"),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logg.Info(logCtx, "shutting down storefront api")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

// newCheckoutPublisher hands submissions to Pub/Sub when a topic and project
// are configured and falls back to logging them otherwise.
func newCheckoutPublisher(ctx context.Context, cfg *config.Config, logg *logger.Logger) (checkout.Publisher, func(), error) {
	topic := strings.TrimSpace(cfg.Checkout.Topic)
	if topic == "" || strings.TrimSpace(cfg.GCP.ProjectID) == "" {
		logg.Warn(ctx, "checkout topic not configured, submissions will only be logged")
		return checkout.NewLogPublisher(logg), func() {}, nil
	}

	client, err := pubsub.NewClient(ctx, cfg.GCP, []string{topic}, logg)
	if err != nil {
		return nil, nil, err
	}
	closeFn := func() {
		if err := client.Close(); err != nil {
			logg.Error(context.Background(), "error closing pubsub", err)
		}
	}
	publisher, err := checkout.NewPubSubPublisher(client, topic, logg)
	if err != nil {
		closeFn()
		return nil, nil, err
	}
	return pingablePublisher{PubSubPublisher: publisher, pinger: client}, closeFn, nil
}

type pingablePublisher struct {
	*checkout.PubSubPublisher
	pinger controllers.Pinger
}

func (p pingablePublisher) Ping(ctx context.Context) error {
	return p.pinger.Ping(ctx)
}
