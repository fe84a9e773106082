package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/Team-Bodhi/bodhi/internal/auth"
	"github.com/Team-Bodhi/bodhi/internal/cart"
	"github.com/Team-Bodhi/bodhi/internal/catalog"
	"github.com/Team-Bodhi/bodhi/internal/checkout"
	"github.com/Team-Bodhi/bodhi/internal/events"
	"github.com/Team-Bodhi/bodhi/internal/gateway"
	"github.com/Team-Bodhi/bodhi/internal/httpapi"
	"github.com/Team-Bodhi/bodhi/internal/session"
	"github.com/Team-Bodhi/bodhi/pkg/logger"
)

type Config struct {
	HTTPPort        string
	APIBaseURL      string
	RedisAddr       string // empty disables the catalog cache
	KafkaBrokers    string // comma-separated; empty disables events
	RequestTimeout  time.Duration
	SubmitTimeout   time.Duration
	CatalogTimeout  time.Duration
	SessionTTL      time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		APIBaseURL:      getEnv("API_BASE_URL", "http://localhost:3000/api"),
		RedisAddr:       getEnv("REDIS_ADDR", ""),
		KafkaBrokers:    getEnv("KAFKA_BROKERS", ""),
		RequestTimeout:  30 * time.Second,
		SubmitTimeout:   gateway.DefaultSubmitTimeout,
		CatalogTimeout:  10 * time.Second,
		SessionTTL:      session.DefaultTTL,
		ShutdownTimeout: 10 * time.Second,
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	logger.Init()
	defer logger.Sync()

	cfg := loadConfig()

	var bookCache catalog.BookCache
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
		defer rdb.Close()
		bookCache = catalog.NewRedisCache(rdb)
	}

	books := catalog.NewClient(cfg.APIBaseURL, cfg.CatalogTimeout, bookCache)
	orders := gateway.NewClient(cfg.APIBaseURL, cfg.SubmitTimeout)
	authn := auth.NewClient(cfg.APIBaseURL, cfg.CatalogTimeout)

	var publisher checkout.EventPublisher
	if cfg.KafkaBrokers != "" {
		p := events.NewPublisher(strings.Split(cfg.KafkaBrokers, ",")...)
		defer p.Close()
		publisher = p
	}

	sessions := session.NewManager(cfg.SessionTTL, func(id string) *session.Session {
		c := cart.New()
		return &session.Session{
			ID:       id,
			Page:     session.PageMain,
			Cart:     c,
			Checkout: checkout.NewOrchestrator(id, c, orders, publisher),
		}
	})
	defer sessions.Close()

	router := httpapi.NewRouter(sessions, books, authn, cfg.RequestTimeout)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Log.Info("storefront starting", zap.String("port", cfg.HTTPPort), zap.String("api", cfg.APIBaseURL))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Log.Fatal("server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Log.Info("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Log.Fatal("server forced to shutdown", zap.Error(err))
	}

	logger.Log.Info("server exited")
}
