package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"golang-cart-backend/configs"
	"golang-cart-backend/internal/events"
	"golang-cart-backend/internal/handlers"
	"golang-cart-backend/internal/middleware"
	"golang-cart-backend/internal/models"
	"golang-cart-backend/internal/repositories"
	"golang-cart-backend/internal/services"
	"golang-cart-backend/pkg/auth"
	"golang-cart-backend/pkg/cache"
	"golang-cart-backend/pkg/database"
	"golang-cart-backend/pkg/logger"
	"golang-cart-backend/pkg/messaging"

	"github.com/gin-gonic/gin"
	gormlogger "gorm.io/gorm/logger"
)

const serviceName = "cart-manager"

func main() {
	// Load configuration
	config := configs.LoadConfig()

	log := logger.New(logger.Options{
		Service: serviceName,
		Env:     config.Log.Env,
		Level:   config.Log.Level,
	})

	gin.SetMode(config.Server.Mode)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	db := &database.Database{}
	defer db.Close()

	if config.NeedsMongo() {
		mdb, err := database.NewMongo(ctx, config.Database.MongoURL, config.Database.MongoDBName)
		if err != nil {
			fatal("failed to connect to mongodb", err)
		}
		db.MongoDB = mdb
	}

	// Initialize repositories
	cartRepo, err := newCartRepository(ctx, config, db)
	if err != nil {
		fatal("failed to initialize cart store", err)
	}

	catalog, err := newProductCatalog(config, db)
	if err != nil {
		fatal("failed to initialize product catalog", err)
	}

	if config.Redis.URL != "" {
		rdb, err := cache.Connect(ctx, config.Redis.URL, config.Redis.Password, config.Redis.DB)
		if err != nil {
			fatal("failed to connect to redis", err)
		}
		redisCache := cache.NewRedisCache(rdb, serviceName)
		defer redisCache.Close()

		cartRepo = repositories.NewCachedCartRepository(cartRepo, redisCache, config.Redis.CacheTTL)
	}

	// Event listeners
	dispatcher := events.NewDispatcher()
	dispatcher.SubscribeAll(events.LogListener(log))

	if len(config.Kafka.Brokers) > 0 {
		kafkaProducer := messaging.NewKafkaProducer(config.Kafka.Brokers)
		defer kafkaProducer.Close()

		messaging.NewEventPublisher(kafkaProducer, config.Kafka.CartEventsTopic).Register(dispatcher)
		slog.Info("publishing cart events", "brokers", config.Kafka.Brokers, "topic", config.Kafka.CartEventsTopic)
	}

	cartManager := services.NewCartManager(cartRepo, dispatcher)

	jwtManager := auth.NewJWTManager(config.JWT.SecretKey, config.JWT.ExpiryHours, config.JWT.RefreshExpiryDays)
	authMiddleware := middleware.NewAuthMiddleware(jwtManager)
	cartHandler := handlers.NewCartHandler(cartManager, catalog)

	router := handlers.NewRouter(handlers.RouterOptions{
		ServiceName: serviceName,
		Store:       config.Store,
		CORSOrigins: config.Server.CORSOrigins,
	}, cartHandler, authMiddleware)

	server := &http.Server{
		Addr:              config.Addr(),
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		slog.Info("server starting", "addr", server.Addr, "store", config.Store)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			fatal("server error", err)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		slog.Error("server shutdown", "error", err)
	}
}

func newCartRepository(ctx context.Context, config *configs.Config, db *database.Database) (repositories.CartRepository, error) {
	switch config.Store {
	case configs.StoreMemory:
		slog.Warn("using in-memory cart store, carts are lost on restart")
		return repositories.NewMemoryCartRepository(), nil

	case configs.StorePostgres:
		level := gormlogger.Warn
		if config.Log.Level == "debug" {
			level = gormlogger.Info
		}
		pg, err := database.NewPostgres(config.Database.PostgresURL, level)
		if err != nil {
			return nil, err
		}
		db.Postgres = pg

		// Auto-migrate PostgreSQL tables
		if err := db.AutoMigrate(&models.Cart{}); err != nil {
			return nil, fmt.Errorf("failed to migrate database: %w", err)
		}
		return repositories.NewPostgresCartRepository(pg), nil

	case configs.StoreMongo:
		repo := repositories.NewMongoCartRepository(db.MongoDB)
		if indexer, ok := repo.(interface{ CreateIndexes(context.Context) error }); ok {
			if err := indexer.CreateIndexes(ctx); err != nil {
				return nil, err
			}
		}
		return repo, nil
	}

	return nil, fmt.Errorf("unknown CART_STORE %q", config.Store)
}

func newProductCatalog(config *configs.Config, db *database.Database) (repositories.ProductCatalog, error) {
	switch config.Catalog {
	case configs.CatalogOpaque:
		return repositories.NewOpaqueProductCatalog(), nil
	case configs.CatalogMongo:
		return repositories.NewMongoProductCatalog(db.MongoDB), nil
	}
	return nil, fmt.Errorf("unknown PRODUCT_CATALOG %q", config.Catalog)
}

func fatal(msg string, err error) {
	slog.Error(msg, "error", err)
	os.Exit(1)
}
