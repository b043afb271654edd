package main

import (
	"fmt"

	"marketplace-service/config"
	"marketplace-service/internal/auth"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"gorm.io/driver/mysql"
	"gorm.io/gorm"
)

func main() {
	cfg, err := config.LoadConfig(".")
	if err != nil {
		log.Fatal().Err(err).Msg("config: load")
	}
	if level, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(level)
	}

	dsn := fmt.Sprintf("%s:%s@tcp(%s:%d)/%s?charset=utf8mb4&parseTime=True&loc=Local",
		cfg.MySQLUser, cfg.MySQLPassword, cfg.MySQLHost, cfg.MySQLPort, cfg.MySQLDatabase)
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{})
	if err != nil {
		log.Fatal().Err(err).Msg("db: connect")
	}
	if err := db.AutoMigrate(&auth.User{}); err != nil {
		log.Fatal().Err(err).Msg("db: migrate")
	}

	service := auth.NewService(auth.NewUserRepository(db))
	handler := auth.NewHandler(service)

	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())

	handler.RegisterRoutes(r)

	log.Info().Str("port", cfg.AuthPort).Msg("starting auth service")
	if err := r.Run(":" + cfg.AuthPort); err != nil {
		log.Fatal().Err(err).Msg("server run")
	}
}
