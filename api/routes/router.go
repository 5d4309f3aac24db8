package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/artvia/artvia-backend/api/controllers"
	"github.com/artvia/artvia-backend/api/middleware"
	"github.com/artvia/artvia-backend/internal/artworks"
	"github.com/artvia/artvia-backend/internal/payments"
	"github.com/artvia/artvia-backend/internal/users"
	"github.com/artvia/artvia-backend/pkg/config"
	"github.com/artvia/artvia-backend/pkg/logger"
	"github.com/artvia/artvia-backend/pkg/metrics"
	pkgredis "github.com/artvia/artvia-backend/pkg/redis"
)

// Deps carries everything the router wires together.
type Deps struct {
	Config      *config.Config
	Logger      *logger.Logger
	Redis       *pkgredis.Client
	HTTPMetrics *metrics.HTTPMetrics
	Registry    *prometheus.Registry

	Artworks artworks.Service
	Payments payments.Service
	Users    users.Service

	ReadyChecks map[string]controllers.Pinger
}

// NewRouter assembles the full API surface.
func NewRouter(deps Deps) http.Handler {
	cfg := deps.Config
	logg := deps.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.CORS(),
		middleware.Identity(logg),
		middleware.Logging(logg, deps.HTTPMetrics),
	)

	likePolicy := middleware.NewCounterRateLimitPolicy(
		"like",
		cfg.RateLimit.LikeWindow,
		cfg.RateLimit.LikeLimit,
	)
	viewPolicy := middleware.NewCounterRateLimitPolicy(
		"view",
		cfg.RateLimit.ViewWindow,
		cfg.RateLimit.ViewLimit,
	)

	// A nil client stays out of the interface values so the middleware
	// can tell "no redis" apart from a broken one.
	likeLimit := passthrough
	viewLimit := passthrough
	var idempotencyStore pkgredis.IdempotencyStore
	if deps.Redis != nil {
		likeLimit = middleware.CounterRateLimit(likePolicy, deps.Redis, logg)
		viewLimit = middleware.CounterRateLimit(viewPolicy, deps.Redis, logg)
		idempotencyStore = deps.Redis
	}

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, deps.ReadyChecks))
	})

	if deps.Registry != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(deps.Registry, promhttp.HandlerOpts{}))
	}

	r.Route("/art", func(r chi.Router) {
		r.Get("/", controllers.ArtworksList(deps.Artworks, logg))
		r.Post("/", controllers.ArtworkCreate(deps.Artworks, logg))
		r.Get("/trending", controllers.ArtworksTrending(deps.Artworks, logg))
		r.Post("/trending-favorites", controllers.ArtworksTrendingFavorites(deps.Artworks, logg))
		r.With(viewLimit).
			Post("/view/{id}", controllers.ArtworkRecordView(deps.Artworks, logg))
		r.Post("/favorite/{id}", controllers.ArtworkFavorite(deps.Artworks, logg))

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", controllers.ArtworkGet(deps.Artworks, logg))
			r.Put("/", controllers.ArtworkUpdate(deps.Artworks, logg))
			r.Delete("/", controllers.ArtworkDelete(deps.Artworks, logg))
			r.With(likeLimit).
				Post("/toggle-like", controllers.ArtworkToggleLike(deps.Artworks, logg))
		})
	})

	r.Route("/payments", func(r chi.Router) {
		r.With(middleware.Idempotency(idempotencyStore, logg)).
			Post("/", controllers.PaymentCreate(deps.Payments, logg))
		r.Get("/", controllers.PaymentsList(deps.Payments, logg))
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", controllers.PaymentGet(deps.Payments, logg))
			r.Put("/", controllers.PaymentUpdate(deps.Payments, logg))
			r.Patch("/status", controllers.PaymentStatusUpdate(deps.Payments, logg))
			r.Delete("/", controllers.PaymentDelete(deps.Payments, logg))
		})
	})

	r.Route("/users", func(r chi.Router) {
		r.Get("/", controllers.UsersList(deps.Users, logg))
		r.Post("/", controllers.UserCreate(deps.Users, logg))
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", controllers.UserGet(deps.Users, logg))
			r.Put("/", controllers.UserUpdate(deps.Users, logg))
			r.Delete("/", controllers.UserDelete(deps.Users, logg))
		})
	})

	return r
}

func passthrough(next http.Handler) http.Handler {
	return next
}
