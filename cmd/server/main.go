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

	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	"github.com/priyanka5064/ecom-backend/internal/cache"
	"github.com/priyanka5064/ecom-backend/internal/catalog"
	"github.com/priyanka5064/ecom-backend/internal/httpapi"
	"github.com/priyanka5064/ecom-backend/internal/poller"
	"github.com/priyanka5064/ecom-backend/internal/repository"
	"github.com/priyanka5064/ecom-backend/internal/service"
	"github.com/priyanka5064/ecom-backend/pkg/logger"
)

type Config struct {
	HTTPPort        string
	MongoURI        string
	MongoDBName     string
	CatalogDBPath   string
	MigrationsPath  string
	RedisAddr       string
	RedisPassword   string
	KafkaBrokers    []string
	KafkaTopic      string
	KafkaGroupID    string
	JWTSecret       string
	Env             string
	LogLevel        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration
}

func loadConfig() *Config {
	cfg := &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDBName:     getEnv("MONGO_DB_NAME", "cartdb"),
		CatalogDBPath:   getEnv("CATALOG_DB_PATH", "./products.db"),
		MigrationsPath:  getEnv("MIGRATIONS_PATH", "./internal/catalog/migrations"),
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		RedisPassword:   getEnv("REDIS_PASSWORD", ""),
		KafkaTopic:      getEnv("KAFKA_ORDERS_TOPIC", "order-events"),
		KafkaGroupID:    getEnv("KAFKA_GROUP_ID", "cart-clearer"),
		JWTSecret:       getEnv("JWT_SECRET", ""),
		Env:             getEnv("APP_ENV", "dev"),
		LogLevel:        getEnv("LOG_LEVEL", "info"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
	}
	if brokers := getEnv("KAFKA_BROKERS", ""); brokers != "" {
		cfg.KafkaBrokers = strings.Split(brokers, ",")
	}
	return cfg
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	_ = godotenv.Load()
	cfg := loadConfig()

	log := logger.New(logger.Options{
		Service: "ecom-backend",
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
	})

	if cfg.JWTSecret == "" {
		log.Fatal().Msg("JWT_SECRET is required")
	}

	ctx := context.Background()

	mongoDB, err := repository.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer mongoDB.Client().Disconnect(ctx)

	cartRepo := repository.NewMongoRepository(mongoDB)
	log.Info().Str("uri", cfg.MongoURI).Msg("connected to MongoDB")

	catalogRepo, err := catalog.NewSQLiteRepository(cfg.CatalogDBPath)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to open catalog database")
	}
	defer catalogRepo.Close()

	if err := catalogRepo.RunMigrations(cfg.MigrationsPath); err != nil {
		log.Fatal().Err(err).Msg("failed to run catalog migrations")
	}
	log.Info().Msg("catalog migrations completed")

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		Password: cfg.RedisPassword,
		DB:       0,
	})
	defer redisClient.Close()
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatal().Err(err).Msg("redis connection failed")
	}
	log.Info().Msg("redis ping succeeded")

	cartCache := cache.NewBreakerCache(cache.NewRedisCache(redisClient))
	cartService := service.NewCartService(cartRepo, catalogRepo, cartCache, log)

	cartHandler := httpapi.NewCartHandler(cartService, cfg.RequestTimeout, log)
	productHandler := httpapi.NewProductHandler(catalogRepo, cfg.RequestTimeout, log)

	router := httpapi.NewRouter(cartHandler, productHandler, []byte(cfg.JWTSecret), cfg.RequestTimeout, log)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      otelhttp.NewHandler(router, "ecom-backend"),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	pollerCtx, stopPoller := context.WithCancel(ctx)
	defer stopPoller()
	if len(cfg.KafkaBrokers) > 0 {
		p := poller.New(cartService, log, cfg.KafkaTopic, cfg.KafkaGroupID, cfg.KafkaBrokers...)
		defer p.Close()
		go p.Run(pollerCtx)
		log.Info().Strs("brokers", cfg.KafkaBrokers).Str("topic", cfg.KafkaTopic).Msg("order-event poller started")
	}

	go func() {
		log.Info().Str("port", cfg.HTTPPort).Msg("server starting")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("server error")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info().Msg("shutting down server...")
	stopPoller()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	log.Info().Msg("server exited")
}
