// Noteful server entry point. Wires the SQLite store, domain services, and
// HTTP surface together and runs until interrupted.
package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/noteful/noteful/internal/api"
	"github.com/noteful/noteful/internal/auth"
	"github.com/noteful/noteful/internal/config"
	"github.com/noteful/noteful/internal/db"
	"github.com/noteful/noteful/internal/folders"
	"github.com/noteful/noteful/internal/notes"
	"github.com/noteful/noteful/internal/obs"
	"github.com/noteful/noteful/internal/ratelimit"
	"github.com/noteful/noteful/internal/tags"
)

const shutdownTimeout = 10 * time.Second

func main() {
	obs.Init()
	log := obs.Pkg("main")

	// Missing .env is fine; real deployments set env vars directly.
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		log.Warn("dotenv_load_failed", "err", err)
	}

	devMode, addr := config.ParseFlags()
	cfg := config.MustLoadConfig(devMode, addr)
	cfg.PrintStartupSummary()

	store, err := db.Open(cfg.DatabasePath, db.Options{Key: cfg.DatabaseKey})
	if err != nil {
		log.Error("db_open_failed", "path", cfg.DatabasePath, "err", err)
		os.Exit(1)
	}
	defer store.Close()

	issuer, err := auth.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpiry)
	if err != nil {
		log.Error("token_issuer_init_failed", "err", err)
		os.Exit(1)
	}

	users := auth.NewUserService(store)
	notesSvc := notes.NewService(store)
	foldersSvc := folders.NewService(store)
	tagsSvc := tags.NewService(store)

	handler := api.NewHandler(users, issuer, notesSvc, foldersSvc, tagsSvc, cfg.DevMode)
	authed := auth.NewMiddleware(issuer)

	mux := http.NewServeMux()
	handler.RegisterRoutes(mux, authed)

	limiter := ratelimit.NewRateLimiter(cfg.RateLimitConfig)
	defer limiter.Stop()

	limited := ratelimit.Middleware(limiter, func(r *http.Request) string {
		if user, err := authed.UserFromRequest(r); err == nil {
			return user.ID
		}
		return ""
	})(mux)

	root := obs.RequestContextMiddleware(obs.AccessLogMiddleware("http", limited))

	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           root,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("server_listening", "addr", cfg.ListenAddr)
		errCh <- server.ListenAndServe()
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error("server_failed", "err", err)
			os.Exit(1)
		}
	case sig := <-stop:
		log.Info("shutdown_signal", "signal", sig.String())
		ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := server.Shutdown(ctx); err != nil {
			log.Error("shutdown_failed", "err", err)
		}
	}
}
