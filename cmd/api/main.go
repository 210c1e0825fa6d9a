package main

import (
	"context"
	"net/http"
	"os"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/samboni/storefront-backend/api/controllers"
	"github.com/samboni/storefront-backend/api/routes"
	"github.com/samboni/storefront-backend/internal/analytics"
	"github.com/samboni/storefront-backend/internal/cart"
	"github.com/samboni/storefront-backend/internal/cartui"
	"github.com/samboni/storefront-backend/internal/catalog"
	"github.com/samboni/storefront-backend/internal/content"
	"github.com/samboni/storefront-backend/pkg/cms"
	"github.com/samboni/storefront-backend/pkg/config"
	"github.com/samboni/storefront-backend/pkg/logger"
	"github.com/samboni/storefront-backend/pkg/metrics"
	"github.com/samboni/storefront-backend/pkg/pubsub"
	"github.com/samboni/storefront-backend/pkg/redis"
	"github.com/samboni/storefront-backend/pkg/shopify"
)

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

	shopifyClient, err := shopify.NewClient(context.Background(), cfg.Shopify, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap shopify client", err)
		os.Exit(1)
	}

	cmsClient, err := cms.NewClient(context.Background(), cfg.CMS, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap cms client", err)
		os.Exit(1)
	}

	redisClient, err := redis.New(context.Background(), cfg.Redis, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to bootstrap redis", err)
		os.Exit(1)
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			logg.Error(context.Background(), "error closing redis", err)
		}
	}()

	events := analytics.Publisher(analytics.NoopPublisher{})
	if cfg.PubSub.Enabled() {
		pubsubClient, err := pubsub.NewClient(context.Background(), cfg.PubSub, logg)
		if err != nil {
			logg.Error(context.Background(), "failed to bootstrap pubsub", err)
			os.Exit(1)
		}
		defer func() {
			if err := pubsubClient.Close(); err != nil {
				logg.Error(context.Background(), "error closing pubsub", err)
			}
		}()
		events = analytics.NewPubSubPublisher(pubsubClient, logg)
	}

	cartService, err := cart.NewService(shopifyClient, cfg.Cart, events)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart service", err)
		os.Exit(1)
	}

	catalogService, err := catalog.NewService(shopifyClient)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	contentService, err := content.NewService(cmsClient, redisClient, cfg.CMS.CacheTTL, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create content service", err)
		os.Exit(1)
	}
	if err := contentService.WarmLayout(context.Background()); err != nil {
		logg.Warn(context.Background(), "layout cache warm failed; serving cold")
	}

	identityStore, err := cartui.NewRedisIdentityStore(redisClient, cfg.Cart.SessionTTL)
	if err != nil {
		logg.Error(context.Background(), "failed to create identity store", err)
		os.Exit(1)
	}

	panelController, err := cartui.NewController(
		cartService,
		identityStore,
		cartui.NewRenderer(cfg.Cart.DefaultStock),
		cfg.Cart.SettlingDelay,
		logg,
	)
	if err != nil {
		logg.Error(context.Background(), "failed to create panel controller", err)
		os.Exit(1)
	}

	registry := prometheus.NewRegistry()

	port := os.Getenv("PORT")
	if port == "" {
		port = cfg.App.Port
	}
	addr := ":" + port
	ctx := logg.WithFields(context.Background(), map[string]any{
		"env":  cfg.App.Env,
		"addr": addr,
	})
	logg.Info(ctx, "starting storefront api")

	server := &http.Server{
		Addr: addr,
		Handler: routes.NewRouter(routes.Deps{
			Config:          cfg,
			Logger:          logg,
			Metrics:         metrics.NewHTTPMetrics(registry),
			MetricsRegistry: registry,
			Readiness: map[string]controllers.Pinger{
				"redis":   redisClient,
				"shopify": shopifyClient,
				"cms":     cmsClient,
			},
			CartService:     cartService,
			CatalogService:  catalogService,
			ContentService:  contentService,
			PanelController: panelController,
		}),
	}

	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		logg.Error(ctx, "storefront api stopped unexpectedly", err)
		os.Exit(1)
	}
}
