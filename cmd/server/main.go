package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/uniedit/gridify"
	"github.com/uniedit/gridify/adapter/countcache"
	widgethttp "github.com/uniedit/gridify/internal/adapter/inbound/http/widget"
	"github.com/uniedit/gridify/internal/shared/cache"
	"github.com/uniedit/gridify/internal/shared/config"
	"github.com/uniedit/gridify/internal/shared/database"
	"github.com/uniedit/gridify/internal/shared/logger"
	"github.com/uniedit/gridify/internal/shared/metrics"
	"github.com/uniedit/gridify/internal/shared/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	appLog := logger.New(&logger.Config{Level: cfg.Log.Level, Format: cfg.Log.Format})
	zapLog := newZapLogger(cfg.Log.Level, cfg.Log.Format)
	defer zapLog.Sync()

	gridify.SetDefaultPageSize(cfg.Gridify.DefaultPageSize)
	gridify.SetMaxPageSize(cfg.Gridify.MaxPageSize)

	db, err := database.New(&cfg.Database)
	if err != nil {
		appLog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer database.Close(db)

	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		appLog.Error("failed to connect to redis", "error", err)
		os.Exit(1)
	}
	defer cache.Close(redisClient)

	appMetrics := metrics.New("gridify")

	countCache := countcache.New(redisClient, "widgets", cfg.Gridify.CountCacheTTL).WithMetrics(appMetrics)

	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(
		middleware.RequestID(),
		middleware.Recovery(appLog),
		middleware.Logging(appLog),
		middleware.Metrics(appMetrics),
		middleware.CORS(middleware.DefaultCORSConfig()),
		middleware.RateLimitByEndpoint(redisClient, 200, time.Minute),
	)

	router.GET("/healthz", func(c *gin.Context) { c.Status(http.StatusOK) })
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	widgetHandler := widgethttp.New(db, countCache, widgethttp.WithLogger(zapLog), widgethttp.WithMetrics(appMetrics))
	widgetHandler.RegisterRoutes(router)

	srv := &http.Server{
		Addr:         cfg.Server.Address,
		Handler:      router,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  cfg.Server.IdleTimeout,
	}

	go func() {
		appLog.Info("starting server", "address", cfg.Server.Address)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			appLog.Error("server failed", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	appLog.Info("shutting down server")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		appLog.Error("server forced to shutdown", "error", err)
	}

	appLog.Info("server exited")
}

// newZapLogger builds a *zap.Logger from the same level/format settings
// logger.New uses for the slog-based request logger, so the two agree on
// verbosity and destination.
func newZapLogger(level, format string) *zap.Logger {
	var cfg zap.Config
	if strings.EqualFold(format, "text") {
		cfg = zap.NewDevelopmentConfig()
	} else {
		cfg = zap.NewProductionConfig()
	}
	cfg.OutputPaths = []string{"stdout"}

	lvl := zapcore.InfoLevel
	switch strings.ToLower(level) {
	case "debug":
		lvl = zapcore.DebugLevel
	case "warn", "warning":
		lvl = zapcore.WarnLevel
	case "error":
		lvl = zapcore.ErrorLevel
	}
	cfg.Level = zap.NewAtomicLevelAt(lvl)

	built, err := cfg.Build()
	if err != nil {
		return zap.NewNop()
	}
	return built
}
