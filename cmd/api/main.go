package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"reco/internal/auth"
	"reco/internal/config"
	"reco/internal/httpx"
	"reco/internal/status"

	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

const maxBodyBytes = 1 << 20

func main() {
	config.LoadEnvFiles()
	cfg, err := config.LoadAPI()
	if err != nil {
		log.Fatal(err)
	}

	logger, err := config.NewLogger(cfg.Env)
	if err != nil {
		log.Fatalf("cannot build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	dbPool, err := openDB(ctx, cfg.DatabaseDSN)
	if err != nil {
		logger.Fatal("cannot open database", zap.String("dsn", config.RedactDSN(cfg.DatabaseDSN)), zap.Error(err))
	}
	defer dbPool.Close()
	logger.Info("database connection OK")

	userRepository := auth.NewPostgresRepo(dbPool, cfg.DBTimeout)
	tokenRepository := auth.NewTokenRepo(dbPool, cfg.DBTimeout)
	statusRepository := status.NewPostgresRepo(dbPool, cfg.DBTimeout)

	authService := auth.NewService(cfg.JWTSecret, cfg.TokenTTL, userRepository, tokenRepository)
	statusService := status.NewService(statusRepository)

	handler := newRouter(routerDeps{
		auth:      auth.NewHTTPHandler(authService, logger),
		statuses:  status.NewHTTPHandler(statusService, logger),
		secret:    cfg.JWTSecret,
		revoked:   authService,
		ping:      dbPool.Ping,
		logger:    logger,
		origins:   cfg.AllowedOrigins,
		rateLimit: httpx.NewRateLimitMiddleware(cfg.RateLimitRPS, cfg.RateLimitBurst, cfg.TrustedProxies),
		hsts:      cfg.EnableHSTS,
	})

	go purgeRevokedTokens(ctx, tokenRepository, logger)

	httpServer := &http.Server{
		Addr:         cfg.Addr,
		Handler:      handler,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := httpServer.Shutdown(shutdownCtx); err != nil {
			logger.Error("shutdown", zap.Error(err))
		}
	}()

	logger.Info("starting server", zap.String("addr", cfg.Addr), zap.String("env", cfg.Env))
	if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("server stopped")
}

type routerDeps struct {
	auth      *auth.HTTPHandler
	statuses  *status.HTTPHandler
	secret    string
	revoked   httpx.RevocationChecker
	ping      func(context.Context) error
	logger    *zap.Logger
	origins   []string
	rateLimit *httpx.RateLimitMiddleware
	hsts      bool
}

func newRouter(d routerDeps) http.Handler {
	router := http.NewServeMux()

	router.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	router.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), 500*time.Millisecond)
		defer cancel()
		if err := d.ping(ctx); err != nil {
			http.Error(w, "db not ready", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ready"))
	})

	protected := httpx.AuthMiddleware(d.secret, d.revoked)

	router.HandleFunc("POST /v1/auth/signup", d.auth.SignUp)
	router.HandleFunc("POST /v1/auth/signin", d.auth.SignIn)
	router.Handle("POST /v1/auth/signout", protected(http.HandlerFunc(d.auth.SignOut)))
	router.Handle("GET /v1/me", protected(http.HandlerFunc(d.auth.Me)))
	router.Handle("PUT /v1/statuses", protected(http.HandlerFunc(d.statuses.Upsert)))
	router.Handle("GET /v1/statuses", protected(http.HandlerFunc(d.statuses.List)))

	middlewares := []func(http.Handler) http.Handler{
		httpx.RequestIDMiddleware,
		httpx.AccessLogMiddleware(d.logger),
		httpx.RecoveryMiddleware(d.logger),
		httpx.SecurityHeadersMiddleware(d.hsts),
		httpx.CORSMiddleware(d.origins),
	}
	if d.rateLimit != nil {
		middlewares = append(middlewares, d.rateLimit.Middleware)
	}
	middlewares = append(middlewares, httpx.RequestSizeLimitMiddleware(maxBodyBytes))

	return httpx.Chain(router, middlewares...)
}

func openDB(ctx context.Context, dsn string) (*pgxpool.Pool, error) {
	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, err
	}
	pingCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := pool.Ping(pingCtx); err != nil {
		pool.Close()
		return nil, err
	}
	return pool, nil
}

func purgeRevokedTokens(ctx context.Context, tokens auth.TokenStore, logger *zap.Logger) {
	ticker := time.NewTicker(time.Hour)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			n, err := tokens.PurgeExpired(ctx)
			if err != nil {
				logger.Warn("purging revoked tokens", zap.Error(err))
				continue
			}
			logger.Debug("purged revoked tokens", zap.Int64("count", n))
		}
	}
}
