package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/mr1hm/water-insights/internal/api"
	"github.com/mr1hm/water-insights/internal/config"
	"github.com/mr1hm/water-insights/internal/forecast"
	"github.com/mr1hm/water-insights/internal/ingestion"
	"github.com/mr1hm/water-insights/internal/logging"
	"github.com/mr1hm/water-insights/internal/models"
	"github.com/mr1hm/water-insights/internal/predictor"
	"github.com/mr1hm/water-insights/internal/repository"
	"github.com/mr1hm/water-insights/internal/worker"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logging.Fatalf("Fatal while loading config: %v", err)
	}
	logging.Setup(cfg.Logging.Level, cfg.Logging.Format)

	slog.Info("Server starting", "host", cfg.Server.Host, "port", cfg.Server.Port)

	db, err := repository.NewSQLiteDB(cfg.DB.Path)
	if err != nil {
		logging.Fatalf("Failed to initialize database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	mgr := ingestion.NewManager(cfg.Dataset)
	if err := mgr.Start(ctx); err != nil {
		logging.Fatalf("Failed to load dataset: %v", err)
	}

	client := predictor.NewHTTPClient(cfg.Predictor.URL, cfg.Predictor.Timeout)
	assembler := forecast.NewAssembler(client, cfg.Predictor.Concurrency).WithMaxHorizon(cfg.Predictor.MaxHorizon)

	// Records outlive the request that produced them, so workers get the
	// background context rather than the request's.
	history := worker.NewPool("history", cfg.Worker.Count, cfg.Worker.BufferSize,
		func(ctx context.Context, r *models.PredictionRecord) error {
			return db.Add(ctx, r)
		})
	history.Start(context.Background())

	record := func(r models.PredictionRecord) {
		if err := history.Submit(&r); err != nil {
			slog.Warn("prediction not recorded", "id", r.ID, "country", r.Country, "error", err)
		}
	}

	// Gin router
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	// rate limiting keys on ClientIP; forwarding headers are not trusted
	if err := router.SetTrustedProxies(nil); err != nil {
		logging.Fatalf("Failed to configure trusted proxies: %v", err)
	}
	router.Use(gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: false, // must stay false with wildcard origins
	}))
	router.Use(api.RateLimitMiddleware(cfg.Server.RateLimitRPS))

	handler := api.NewHandler(mgr, assembler, client, db, record)
	handler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port),
		Handler: router,
	}

	go func() {
		slog.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logging.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	// Handlers still running after a shutdown timeout get ErrPoolClosed from Submit.
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown error", "error", err)
	}
	history.Stop()

	cancel()
	mgr.Stop()

	slog.Info("shutdown complete")
}
