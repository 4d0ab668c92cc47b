package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"campus/internal/guard"
	guardmetrics "campus/internal/guard/metrics"
	"campus/internal/login"
	loginmetrics "campus/internal/login/metrics"
	"campus/internal/platform/config"
	"campus/internal/platform/health"
	"campus/internal/platform/logger"
	"campus/internal/platform/middleware"
	platformredis "campus/internal/platform/redis"
	"campus/internal/platform/tracer"
	"campus/internal/session"
	"campus/internal/tenant"
	tenantmetrics "campus/internal/tenant/metrics"
	"campus/pkg/httputil"
)

func main() {
	log := logger.New(slog.LevelInfo)

	cfg, err := config.FromEnv()
	if err != nil {
		log.Error("invalid configuration", "error", err)
		os.Exit(1)
	}

	if err := run(cfg, log); err != nil {
		log.Error("gateway exited", "error", err)
		os.Exit(1)
	}
}

func run(cfg config.Gateway, log *slog.Logger) error {
	var store session.Store
	var redisClient *platformredis.Client

	redisClient, err := platformredis.New(cfg.Redis)
	if err != nil {
		return err
	}
	if redisClient != nil {
		store = session.NewRedisStore(redisClient.Client)
		log.Info("session store backed by redis")
	} else {
		store = session.NewInMemoryStore()
		log.Info("session store in process memory")
	}

	sessions := session.NewSessions(store, session.WithLogger(log))

	resolver := tenant.NewResolver(
		tenant.NewHTTPClient(cfg.APIBaseURL, cfg.APITimeout),
		tenant.WithLogger(log),
		tenant.WithTracer(tracer.NewOTel()),
		tenant.WithMetrics(tenantmetrics.New()),
		tenant.WithCacheTTL(cfg.GuardMemoTTL),
	)

	routeGuard := guard.New(resolver, sessions,
		guard.WithLogger(log),
		guard.WithMetrics(guardmetrics.New()),
		guard.WithLoginPath(cfg.LoginPath),
		guard.WithMemoTTL(cfg.GuardMemoTTL),
	)
	sessions.OnInvalidate(routeGuard.Invalidate)
	sessions.OnInvalidate(resolver.Invalidate)

	authClient := login.NewHTTPClient(cfg.APIBaseURL, cfg.APITimeout)
	loginMetrics := loginmetrics.New()
	loginService := login.NewService(authClient, sessions,
		login.WithLogger(log),
		login.WithMetrics(loginMetrics),
	)
	loginHandler := login.NewHandler(loginService, authClient, log, loginMetrics)

	r := chi.NewRouter()
	r.Use(middleware.Recovery(log))
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(log))
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.ContentTypeJSON)

	r.Get("/healthz", health.Handler(map[string]health.Pinger{"redis": pinger(redisClient)}))
	r.Handle("/metrics", promhttp.Handler())

	loginHandler.Register(r)

	r.Route("/c/{community}", func(r chi.Router) {
		r.Use(guard.RequireCommunity(routeGuard))
		r.Get("/*", serveCommunityPage)
	})
	r.Route("/admin", func(r chi.Router) {
		r.Use(guard.RequireAdmin(routeGuard))
		r.Get("/*", serveAdminPage)
	})

	srv := &http.Server{
		Addr:              cfg.Addr,
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("gateway listening", "addr", cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
	case sig := <-stop:
		log.Info("shutting down", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(ctx); err != nil {
			return err
		}
	}
	return nil
}

// pinger converts a possibly-nil redis client into a health dependency.
func pinger(c *platformredis.Client) health.Pinger {
	if c == nil {
		return nil
	}
	return c
}

// serveCommunityPage stands in for the view layer: it echoes the guard's
// decision so the front-end shell can hydrate the page.
func serveCommunityPage(w http.ResponseWriter, r *http.Request) {
	record := guard.CommunityFromContext(r.Context())
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"community": record,
		"kind":      guard.KindFromContext(r.Context()),
	})
}

func serveAdminPage(w http.ResponseWriter, r *http.Request) {
	httputil.WriteJSON(w, http.StatusOK, map[string]any{
		"kind": guard.KindFromContext(r.Context()),
	})
}
