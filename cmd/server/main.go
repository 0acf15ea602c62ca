package main

import (
	"context"
	"flag"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/printworks/backend/internal/application/checkout"
	"github.com/printworks/backend/internal/domain/cart"
	"github.com/printworks/backend/internal/infrastructure/auth"
	"github.com/printworks/backend/internal/infrastructure/config"
	"github.com/printworks/backend/internal/infrastructure/event"
	"github.com/printworks/backend/internal/infrastructure/logger"
	"github.com/printworks/backend/internal/infrastructure/persistence"
	"github.com/printworks/backend/internal/infrastructure/staging"
	"github.com/printworks/backend/internal/interfaces/http/handler"
	"github.com/printworks/backend/internal/interfaces/http/middleware"
	"github.com/printworks/backend/internal/interfaces/http/router"
)

func main() {
	configPath := flag.String("config", "", "path to config file")
	flag.Parse()

	cfg, err := config.Load(*configPath)
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:  cfg.Log.Level,
		Format: cfg.Log.Format,
		Output: cfg.Log.Output,
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = log.Sync()
	}()

	log.Info("Starting print configurator backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	// Catalog and cart storage
	db, err := persistence.NewDatabase(cfg.Database.Path)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := db.Migrate(); err != nil {
		log.Fatal("Failed to migrate database", zap.Error(err))
	}
	log.Info("Database ready", zap.String("path", cfg.Database.Path))

	productRepo := persistence.NewGormProductRepository(db.DB)
	cartService := persistence.NewGormCartService(db.DB, productRepo)

	// Staged operations and auth tokens live in Redis when available so the
	// token watch crosses process boundaries; otherwise in-memory stores
	// back a single-process deployment.
	var (
		stagingStore cart.StagingStore
		tokenStore   cart.TokenStore
	)
	if cfg.Redis.Enabled {
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.Redis.Addr(),
			Password: cfg.Redis.Password,
			DB:       cfg.Redis.DB,
		})
		if err := client.Ping(context.Background()).Err(); err != nil {
			log.Fatal("Failed to connect to Redis", zap.Error(err))
		}
		defer func() {
			if err := client.Close(); err != nil {
				log.Error("Error closing Redis client", zap.Error(err))
			}
		}()
		stagingStore = staging.NewRedisStagingStore(client, "cart:staged:", cfg.Staging.TTL)
		tokenStore = auth.NewRedisTokenStore(client, "auth:token:", cfg.Auth.TokenSecret, cfg.Auth.TokenTTL, cfg.Auth.PollInterval, log)
		log.Info("Using Redis-backed staging and token stores", zap.String("addr", cfg.Redis.Addr()))
	} else {
		stagingStore = staging.NewInMemoryStagingStore()
		tokenStore = auth.NewInMemoryTokenStore(cfg.Auth.TokenSecret)
		log.Info("Using in-memory staging and token stores")
	}

	// Event bus and application services
	eventBus := event.NewInMemoryEventBus(log)

	quoter := checkout.NewQuoter(productRepo)
	processor := checkout.NewProcessor(stagingStore, cartService, eventBus, log)
	stager := checkout.NewStager(quoter, processor, stagingStore, tokenStore, eventBus, log)
	triggers := checkout.NewTriggers(processor, stagingStore, tokenStore, log)
	reconciler := checkout.NewReconciler(log)

	eventBus.Subscribe(triggers)
	eventBus.Subscribe(reconciler)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Cross-context trigger: watch the token store for sessions that
	// authenticated outside this process.
	watchCtx, cancelWatch := context.WithCancel(context.Background())
	defer cancelWatch()
	go func() {
		if err := triggers.WatchTokenStore(watchCtx); err != nil && watchCtx.Err() == nil {
			log.Error("Token store watch stopped", zap.Error(err))
		}
	}()

	// HTTP layer
	configuratorHandler := handler.NewConfiguratorHandler(quoter, stager)
	sessionHandler := handler.NewSessionHandler(tokenStore, triggers, eventBus, log)
	cartHandler := handler.NewCartHandler(cartService, reconciler)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	engine := gin.New()
	engine.Use(middleware.RequestID())
	engine.Use(gin.Recovery())
	engine.Use(middleware.RequestLogger(log))
	engine.Use(middleware.CORSWithConfig(middleware.DefaultCORSConfig()))

	engine.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status": "healthy",
			"time":   time.Now().Format(time.RFC3339),
		})
	})

	r := router.NewRouter(engine)
	r.Register(configuratorHandler).
		Register(sessionHandler).
		Register(cartHandler)
	r.Setup()

	srv := &http.Server{
		Addr:         ":" + cfg.App.Port,
		Handler:      engine,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	cancelWatch()
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
