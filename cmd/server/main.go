package main

import (
	"context"
	"time"

	"marketplace-service/config"
	handlers "marketplace-service/internal/controllers/http"
	"marketplace-service/internal/infra/assets"
	"marketplace-service/internal/infra/identity"
	inframysql "marketplace-service/internal/infra/mysql"
	"marketplace-service/internal/infra/rabbitmq"
	mysqlrepo "marketplace-service/internal/repository/mysql"
	"marketplace-service/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal().Err(err).Msg("config: load")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	db, err := inframysql.NewMySQL(cfg)
	if err != nil {
		log.Fatal().Err(err).Msg("db: connect")
	}

	sqlDB, _ := db.DB()
	sqlDB.SetMaxOpenConns(100)
	sqlDB.SetMaxIdleConns(20)
	sqlDB.SetConnMaxLifetime(5 * time.Minute)
	sqlDB.SetConnMaxIdleTime(1 * time.Minute)

	productRepo := mysqlrepo.NewProductRepository(db)
	orderRepo := mysqlrepo.NewOrderRepository(db)
	cartRepo := mysqlrepo.NewCartRepository(db)
	commentRepo := mysqlrepo.NewCommentRepository(db)

	assetStore := assets.NewFileStore(cfg.AssetRoot, cfg.AssetBaseURL)
	identityClient := identity.NewClient(cfg.AuthServiceURL, 2*time.Second)

	publisher, err := rabbitmq.NewPublisher(cfg.RabbitMQURL, cfg.OrderExchange)
	if err != nil {
		log.Fatal().Err(err).Msg("rabbitmq: init publisher")
	}
	defer publisher.Close()

	catalogSvc := services.NewCatalogService(productRepo, assetStore)
	orderSvc := services.NewOrderService(orderRepo, productRepo, identityClient, publisher)
	cartSvc := services.NewCartService(cartRepo, productRepo)
	commentSvc := services.NewCommentService(commentRepo, productRepo)

	redisClient := redis.NewClient(&redis.Options{
		Addr:         cfg.RedisAddr,
		DB:           0,
		PoolSize:     50,
		MinIdleConns: 10,
		DialTimeout:  2 * time.Second,
		ReadTimeout:  500 * time.Millisecond,
		WriteTimeout: 500 * time.Millisecond,
	})
	orderSvc.SetRedisClient(redisClient)

	go func() {
		time.Sleep(5 * time.Second)
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		products, err := productRepo.FindAll(ctx)
		if err != nil {
			log.Warn().Err(err).Msg("cache warmup: list products")
			return
		}
		ids := make([]string, 0, len(products))
		for _, p := range products {
			ids = append(ids, p.ID)
		}
		if err := orderSvc.WarmupProductCache(ctx, ids); err != nil {
			log.Warn().Err(err).Msg("cache warmup failed")
		} else {
			log.Info().Int("products", len(ids)).Msg("product cache warmed up")
		}
	}()

	handler := handlers.NewHandler(catalogSvc, orderSvc, cartSvc, commentSvc, redisClient)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	r.Static("/assets", cfg.AssetRoot)

	handler.RegisterRoutes(r)

	log.Info().Str("port", cfg.HTTPPort).Msg("starting marketplace service")
	if err := r.Run(":" + cfg.HTTPPort); err != nil {
		log.Fatal().Err(err).Msg("server run")
	}
}
