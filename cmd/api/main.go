package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/bryanwahyu/growthaudit/internal/bootstrap"
	"github.com/bryanwahyu/growthaudit/internal/config"
	"github.com/bryanwahyu/growthaudit/internal/infra/httpserver"
	"github.com/bryanwahyu/growthaudit/internal/logging"
	"github.com/bryanwahyu/growthaudit/internal/middleware"
)

func main() {
	// path config.yaml
	path := "config.yaml"
	if v := os.Getenv("CONFIG_PATH"); v != "" {
		path = v
	}

	// load config
	cfg, err := config.Load(path)
	if err != nil {
		logging.Log.Fatalf("config load error: %v", err)
	}
	if err := logging.SetLevel(cfg.Log.Level); err != nil {
		logging.Log.Fatalf("log config error: %v", err)
	}
	if err := logging.SetFormat(cfg.Log.Format); err != nil {
		logging.Log.Fatalf("log config error: %v", err)
	}

	ctx := context.Background()

	// init storage
	store, err := bootstrap.OpenStore(ctx, cfg)
	if err != nil {
		logging.Log.Fatal(err)
	}
	defer store.Close()

	// init service
	svc, err := bootstrap.NewService(ctx, cfg, store)
	if err != nil {
		logging.Log.Fatalf("analyzer init error: %v", err)
	}

	limiter := middleware.NewRateLimiter(cfg.Server.RateLimit.Capacity, cfg.Server.RateLimit.RefillRate)
	defer limiter.Close()

	// init router
	handler := httpserver.NewRouter(svc, httpserver.Options{
		AllowOrigins: cfg.Server.AllowOrigins,
		APIKeys:      cfg.Server.APIKeys,
		Limiter:      limiter,
		Checkers:     map[string]middleware.HealthChecker{store.Driver: store},
	})

	addr := fmt.Sprintf(":%d", cfg.Server.Port)
	srv := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 60 * time.Second, // remote analyzers can be slow
		IdleTimeout:  60 * time.Second,
	}

	// run server
	go func() {
		logging.Log.WithField("provider", cfg.Analyzer.Provider).
			WithField("storage", store.Driver).
			Infof("server listening on %s", addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Log.Fatalf("server error: %v", err)
		}
	}()

	// graceful shutdown
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop
	logging.Log.Info("shutting down server...")

	ctx2, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx2); err != nil {
		logging.Log.Errorf("shutdown error: %v", err)
	}
}
