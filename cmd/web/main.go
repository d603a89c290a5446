package main

import (
	"context"
	"fmt"
	"net/http"
	"os"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	authhttp "github.com/AlibekovAA/book-review/internal/auth/http"
	authservice "github.com/AlibekovAA/book-review/internal/auth/service"
	cataloghttp "github.com/AlibekovAA/book-review/internal/catalog/http"
	catalogrepo "github.com/AlibekovAA/book-review/internal/catalog/repository"
	catalogservice "github.com/AlibekovAA/book-review/internal/catalog/service"
	"github.com/AlibekovAA/book-review/internal/common/bootstrap"
	"github.com/AlibekovAA/book-review/internal/common/clock"
	"github.com/AlibekovAA/book-review/internal/common/constants"
	commoncrypto "github.com/AlibekovAA/book-review/internal/common/crypto"
	commonhttp "github.com/AlibekovAA/book-review/internal/common/http"
	srv "github.com/AlibekovAA/book-review/internal/common/server"
	"github.com/AlibekovAA/book-review/internal/rating"
	reviewrepo "github.com/AlibekovAA/book-review/internal/review/repository"
	"github.com/AlibekovAA/book-review/internal/session"
	userrepo "github.com/AlibekovAA/book-review/internal/user/repository"
	"github.com/AlibekovAA/book-review/internal/web/render"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	app, err := bootstrap.NewWebApp(ctx)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to start web service: %v\n", err)
		os.Exit(1)
	}
	defer app.Close()

	log := app.Log
	cfg := app.Config
	clk := clock.NewRealClock()
	ids := commoncrypto.NewUUIDGenerator()

	authService := authservice.NewAuthService(authservice.AuthServiceDeps{
		Repo:        userrepo.NewPgRepository(app.Pool),
		Hasher:      commoncrypto.NewBcryptHasher(cfg.BcryptCost),
		IDGenerator: ids,
		Clock:       clk,
		Log:         log,
	})

	ratings := rating.NewClient(rating.Config{
		URL:              cfg.Ratings.URL,
		APIKey:           cfg.Ratings.APIKey,
		Timeout:          cfg.Ratings.Timeout,
		BreakerThreshold: cfg.Ratings.BreakerThreshold,
		BreakerReset:     cfg.Ratings.BreakerReset,
	}, &http.Client{Timeout: cfg.Ratings.Timeout}, log)

	catalogService := catalogservice.NewCatalogService(catalogservice.CatalogServiceDeps{
		Books:       catalogrepo.NewPgRepository(app.Pool),
		Reviews:     reviewrepo.NewPgRepository(app.Pool),
		Ratings:     ratings,
		IDGenerator: ids,
		Clock:       clk,
		Log:         log,
	})

	renderer, err := render.NewTemplateRenderer(log)
	if err != nil {
		log.Fatalf("failed to parse templates: %v", err)
	}

	store, err := session.NewFileStore(cfg.Session.Dir, clk)
	if err != nil {
		log.Fatalf("failed to open session store: %v", err)
	}
	sessions := session.NewManager(store, ids, cfg.Session.CookieName, log)

	router := mux.NewRouter()
	router.Handle("/health", commonhttp.HealthHandler(log)).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)
	authhttp.NewHandler(authService, renderer, cfg.RequestTimeout, log).RegisterRoutes(router)
	cataloghttp.NewHandler(catalogService, renderer, cataloghttp.Config{
		RequestTimeout:      cfg.RequestTimeout,
		BrowseRequiresLogin: cfg.BrowseRequiresLogin,
	}, log).RegisterRoutes(router)
	router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		render.Apology(renderer, w, r, http.StatusNotFound, "page not found")
	})

	rateLimiter := commonhttp.NewStrictRateLimiter()
	rateLimiter.RunCleanup(ctx)
	go session.StartCleanup(ctx, store, cfg.Session.MaxIdle, cfg.Session.CleanupInterval, log)

	handler := commonhttp.BuildBaseHandler(log, sessions.Middleware(router), rateLimiter.Middleware)

	server := srv.NewServer(srv.DefaultServerConfig(cfg.HTTPPort), handler)

	srv.Run(server, log, constants.LoggerServiceWeb, func(context.Context) error {
		log.Infof("web service: stopping background cleanup")
		cancel()
		return nil
	})
}
