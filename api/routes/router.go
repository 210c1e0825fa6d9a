package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/samboni/storefront-backend/api/controllers"
	"github.com/samboni/storefront-backend/api/middleware"
	"github.com/samboni/storefront-backend/internal/cart"
	"github.com/samboni/storefront-backend/internal/cartui"
	"github.com/samboni/storefront-backend/internal/catalog"
	"github.com/samboni/storefront-backend/internal/content"
	"github.com/samboni/storefront-backend/pkg/config"
	"github.com/samboni/storefront-backend/pkg/logger"
	"github.com/samboni/storefront-backend/pkg/metrics"
)

// Deps carries everything the HTTP surface needs. Readiness maps a
// dependency name to its probe; nil probes are skipped so optional
// integrations stay optional.
type Deps struct {
	Config          *config.Config
	Logger          *logger.Logger
	Metrics         *metrics.HTTPMetrics
	MetricsRegistry *prometheus.Registry
	Readiness       map[string]controllers.Pinger
	CartService     cart.Service
	CatalogService  catalog.Service
	ContentService  content.Service
	PanelController *cartui.Controller
}

func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(deps.Metrics),
		middleware.CORS(),
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.Readiness))
	})

	if deps.MetricsRegistry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.MetricsRegistry, promhttp.HandlerOpts{}))
	}

	r.Route("/shopify", func(r chi.Router) {
		r.Route("/cart", func(r chi.Router) {
			r.Post("/create", controllers.CartCreate(deps.CartService, logg))
			r.Post("/add", controllers.CartAdd(deps.CartService, logg))
			r.Post("/update", controllers.CartUpdate(deps.CartService, logg))
			r.Post("/remove", controllers.CartRemove(deps.CartService, logg))
			for _, path := range []string{"/create", "/add", "/update", "/remove"} {
				r.Options(path, preflight())
			}
		})
		r.Get("/get-cart", controllers.CartGet(deps.CartService, logg))
		r.Options("/get-cart", preflight())

		r.Get("/collections", controllers.CatalogCollections(deps.CatalogService, logg))
		r.Options("/collections", preflight())
		r.Get("/products", controllers.CatalogProducts(deps.CatalogService, logg))
		r.Options("/products", preflight())
		r.Get("/collections/{handle}/products", controllers.CatalogCollectionProducts(deps.CatalogService, logg))
		r.Options("/collections/{handle}/products", preflight())
	})

	r.Route("/content", func(r chi.Router) {
		r.Get("/navigation", controllers.ContentNavigation(deps.ContentService, logg))
		r.Get("/articles", controllers.ContentArticles(deps.ContentService, logg))
		r.Get("/articles/{slug}", controllers.ContentArticleBySlug(deps.ContentService, logg))
		r.Get("/faq", controllers.ContentFAQ(deps.ContentService, logg))
		r.Get("/about", controllers.ContentAbout(deps.ContentService, logg))
	})

	session := controllers.PanelSession{
		CookieName: cfg.Cart.SessionCookie,
		TTL:        cfg.Cart.SessionTTL,
	}
	r.Route("/cart/panel", func(r chi.Router) {
		r.Get("/", controllers.PanelGet(deps.PanelController, session, logg))
		r.Post("/add", controllers.PanelAdd(deps.PanelController, session, logg))
		r.Post("/increase", controllers.PanelIncrease(deps.PanelController, session, logg))
		r.Post("/decrease", controllers.PanelDecrease(deps.PanelController, session, logg))
		r.Post("/remove", controllers.PanelRemove(deps.PanelController, session, logg))
	})

	return r
}

// preflight answers bare OPTIONS probes with an empty 204. Real CORS
// preflights never reach here; the CORS middleware intercepts them.
func preflight() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}
}
