package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"slices"
	"syscall"
	"time"

	"restaurant-storefront/cache"
	"restaurant-storefront/cart"
	"restaurant-storefront/config"
	"restaurant-storefront/events"
	"restaurant-storefront/handlers"
	"restaurant-storefront/logging"
	"restaurant-storefront/middleware"
	"restaurant-storefront/receipt"
	"restaurant-storefront/repository"
	"restaurant-storefront/routes"
	"restaurant-storefront/seed"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/rs/cors"
	"go.uber.org/zap"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	logger, err := logging.New(cfg.Log.Level, cfg.Log.Format)
	if err != nil {
		log.Fatalf("build logger: %v", err)
	}
	defer func() { _ = logger.Sync() }()

	if cfg.Auth.JWTSecret == config.DefaultJWTSecret {
		logger.Warn("using the development JWT secret; set STOREFRONT_AUTH_JWT_SECRET")
	}

	gin.SetMode(cfg.Server.Mode)
	if err := handlers.RegisterValidators(); err != nil {
		logger.Fatal("register validators", zap.Error(err))
	}

	// Initialize database
	db, err := config.InitDB(cfg.DB, logger)
	if err != nil {
		logger.Fatal("init database", zap.Error(err))
	}

	if cfg.Menu.SeedFile != "" {
		items, err := seed.LoadFile(cfg.Menu.SeedFile)
		if err != nil {
			logger.Warn("menu seed skipped", zap.String("file", cfg.Menu.SeedFile), zap.Error(err))
		} else if _, err := seed.Apply(context.Background(), repository.NewMenuRepository(db), items, logger); err != nil {
			logger.Fatal("seed menu", zap.Error(err))
		}
	}

	// Carts and the menu cache live in Redis when configured, in memory otherwise
	var (
		carts     cart.Store = cart.NewMemoryStore()
		menuCache cache.MenuCache
		rdb       *redis.Client
	)
	if cfg.Redis.Addr != "" {
		rdb = redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr,
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		err := rdb.Ping(ctx).Err()
		cancel()
		if err != nil {
			logger.Fatal("connect redis", zap.String("addr", cfg.Redis.Addr), zap.Error(err))
		}
		carts = cart.NewRedisStore(rdb, cfg.Redis.CartTTL)
		menuCache = cache.NewRedisMenuCache(rdb, cfg.Redis.MenuTTL)
		logger.Info("redis connected", zap.String("addr", cfg.Redis.Addr))
	}

	var publisher events.Publisher = events.NewLogPublisher(logger)
	if len(cfg.Kafka.Brokers) > 0 {
		publisher = events.NewKafkaPublisher(events.NewKafkaWriter(cfg.Kafka.Brokers, cfg.Kafka.Topic))
		logger.Info("publishing order events to kafka",
			zap.Strings("brokers", cfg.Kafka.Brokers), zap.String("topic", cfg.Kafka.Topic))
	}

	h, sessions := routes.Build(routes.Deps{
		DB:        db,
		Carts:     carts,
		MenuCache: menuCache,
		Publisher: publisher,
		QR:        receipt.DefaultQRGenerator{BaseURL: cfg.Server.BaseURL},
		Auth:      cfg.Auth,
		Log:       logger,
	})

	r := gin.New()
	r.Use(middleware.Logger(logger), middleware.Recovery(logger))
	// receipts are already-compressed PNGs
	r.Use(gzip.Gzip(gzip.DefaultCompression, gzip.WithExcludedExtensions([]string{".png"})))
	routes.SetupRoutes(r, h, sessions, middleware.NewRateLimiter(cfg.RateLimit.RPS, cfg.RateLimit.Burst))

	// CORS for frontend integration
	corsHandler := cors.New(cors.Options{
		AllowedOrigins:   cfg.CORS.AllowedOrigins,
		AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: !slices.Contains(cfg.CORS.AllowedOrigins, "*"),
	}).Handler(r)

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      corsHandler,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	go func() {
		logger.Info("server running", zap.String("addr", "http://localhost:"+cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("http server error", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("server shutdown error", zap.Error(err))
	}

	if err := publisher.Close(); err != nil {
		logger.Error("event publisher close error", zap.Error(err))
	}
	if rdb != nil {
		if err := rdb.Close(); err != nil {
			logger.Error("redis close error", zap.Error(err))
		}
	}
	if sqlDB, err := db.DB(); err == nil {
		if err := sqlDB.Close(); err != nil {
			logger.Error("db close error", zap.Error(err))
		}
	}
	logger.Info("shutdown complete")
}
