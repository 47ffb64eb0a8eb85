package main

import (
	"context"

	"github.com/go-chi/chi/v5"
	"github.com/nats-io/nats.go"
	"go.uber.org/zap"

	"github.com/Brown-Sage/StarVault/internal/platform/analytics"
	"github.com/Brown-Sage/StarVault/internal/platform/auth"
	"github.com/Brown-Sage/StarVault/internal/platform/config"
	"github.com/Brown-Sage/StarVault/internal/platform/db"
	"github.com/Brown-Sage/StarVault/internal/platform/httpserver"
	"github.com/Brown-Sage/StarVault/internal/platform/logging"
	"github.com/Brown-Sage/StarVault/internal/platform/natsconn"
	"github.com/Brown-Sage/StarVault/internal/platform/run"
	"github.com/Brown-Sage/StarVault/services/api/internal/accounts"
	"github.com/Brown-Sage/StarVault/services/api/internal/catalog"
	apiconfig "github.com/Brown-Sage/StarVault/services/api/internal/config"
	"github.com/Brown-Sage/StarVault/services/api/internal/handlers"
	"github.com/Brown-Sage/StarVault/services/api/internal/store"
	"github.com/Brown-Sage/StarVault/services/api/internal/tmdb"
	"github.com/Brown-Sage/StarVault/services/api/internal/tokens"
)

const cacheInvalidateSubject = "catalog.cache.invalidate"

func main() {
	cfg := config.Load()
	log, err := logging.New(cfg.LogLevel)
	if err != nil {
		panic(err)
	}
	defer func() { _ = log.Sync() }()

	apiCfg, err := apiconfig.LoadAPI()
	if err != nil {
		log.Error("load api config", zap.Error(err))
		run.Exit(1)
	}

	ctx := context.Background()
	pool, err := db.Open(ctx)
	if err != nil {
		log.Error("open database", zap.Error(err))
		run.Exit(1)
	}
	defer pool.Close()

	// NATS is optional: without it the cache still expires by TTL and
	// analytics become no-ops.
	var nc *nats.Conn
	var events *analytics.Publisher
	if apiCfg.NATSURL != "" {
		nc, err = natsconn.Connect(natsconn.Options{URL: apiCfg.NATSURL})
		if err != nil {
			log.Error("connect nats", zap.Error(err))
			run.Exit(1)
		}
		defer nc.Close()
		js, err := nc.JetStream()
		if err != nil {
			log.Error("init jetstream", zap.Error(err))
			run.Exit(1)
		}
		events = analytics.New(js, log)
	}

	tmdbClient := tmdb.New(apiCfg.TMDBAPIKey, apiCfg.TMDBBaseURL)
	cache := catalog.NewTTLCache(apiCfg.CatalogCacheTTL, nc, cacheInvalidateSubject)
	catalogSvc := catalog.NewService(tmdbClient, cache)

	users := accounts.NewPostgresUserStore(pool)
	accountSvc := accounts.Service{
		Users:  users,
		Tokens: tokens.Service{Secret: apiCfg.JWTSecret, AccessTokenTTL: apiCfg.AccessTokenTTL},
	}
	reviews := store.NewPostgresReviewStore(pool)

	verifier := auth.JWTVerifier{Secret: apiCfg.JWTSecret}

	r := chi.NewRouter()
	httpserver.SetupRouter(r, httpserver.RouterConfig{ReadyFunc: func() error { return pool.Ping(ctx) }})

	r.Route("/api", func(r chi.Router) {
		r.Get("/trending", handlers.Trending(catalogSvc, log))
		r.Get("/top-rated/movies", handlers.TopRated(catalogSvc, catalog.KindMovie, log))
		r.Get("/top-rated/tv", handlers.TopRated(catalogSvc, catalog.KindTV, log))
		r.Get("/popular/movies", handlers.Popular(catalogSvc, catalog.KindMovie, log))
		r.Get("/popular/tv", handlers.Popular(catalogSvc, catalog.KindTV, log))
		r.Get("/anime/{bucket}", handlers.Anime(catalogSvc, log))
		r.Get("/movie/{id}", handlers.MovieDetail(catalogSvc, events, log))
		r.Get("/tv/{id}", handlers.TVDetail(catalogSvc, events, log))
		r.Get("/person/{id}", handlers.PersonDetail(catalogSvc, log))
		r.Get("/search", handlers.Search(catalogSvc, events, log))

		r.Post("/auth/register", handlers.Register(accountSvc, events, log))
		r.Post("/auth/login", handlers.Login(accountSvc, events, log))

		r.Get("/reviews/{mediaId}", handlers.ListReviewsForMedia(reviews, log))

		r.Group(func(r chi.Router) {
			r.Use(auth.RequireUser(verifier))
			r.Post("/reviews", handlers.CreateReview(reviews, events, log))
			r.Get("/reviews/me", handlers.ListMyReviews(reviews, log))
			r.Get("/reviews/me/{mediaId}", handlers.MyReviewForMedia(reviews, log))
			r.Put("/reviews/{id}", handlers.UpdateReview(reviews, events, log))
			r.Post("/reviews/{id}/replies", handlers.AddReply(reviews, events, log))
		})
	})

	srv := httpserver.New(httpserver.Options{Addr: cfg.HTTP.Addr, Router: r})

	runner := run.New(log)
	code := runner.WithSignals(func(ctx context.Context) error {
		go func() {
			<-ctx.Done()
			_ = srv.Shutdown(context.Background())
		}()
		return srv.Start(log)
	})

	log.Info("exit", zap.Int("code", code))
	run.Exit(code)
}
