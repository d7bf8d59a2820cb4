package main // Entry point package

import (
	"context"
	"log"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/iliyamo/streamhub-user-service/internal/config"
	"github.com/iliyamo/streamhub-user-service/internal/database"
	"github.com/iliyamo/streamhub-user-service/internal/handler"
	"github.com/iliyamo/streamhub-user-service/internal/media"
	"github.com/iliyamo/streamhub-user-service/internal/queue"
	"github.com/iliyamo/streamhub-user-service/internal/repository"
	"github.com/iliyamo/streamhub-user-service/internal/router"
	"github.com/iliyamo/streamhub-user-service/internal/service"
)

func main() {
	_ = godotenv.Load() // .env is optional; real env wins
	cfg := config.Load()

	db, err := database.Open(cfg.DBUser, cfg.DBPass, cfg.DBHost, cfg.DBPort, cfg.DBName)
	if err != nil {
		log.Fatalf("database: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	uploader, err := media.NewS3Uploader(ctx, media.S3Config{
		Endpoint:      cfg.S3Endpoint,
		Region:        cfg.S3Region,
		Bucket:        cfg.S3Bucket,
		AccessKey:     cfg.S3AccessKey,
		SecretKey:     cfg.S3SecretKey,
		PublicBaseURL: cfg.S3PublicBase,
	})
	cancel()
	if err != nil {
		log.Fatalf("media store: %v", err)
	}

	svc := service.NewUserService(
		repository.NewUserRepo(db),
		repository.NewSubscriptionRepo(db),
		uploader,
		queue.NewPublisher(),
		service.TokenConfig{
			AccessSecret:   cfg.AccessSecret,
			RefreshSecret:  cfg.RefreshSecret,
			AccessTTLMin:   cfg.AccessTTLMin,
			RefreshTTLDays: cfg.RefreshTTLDays,
		},
		cfg.BcryptCost,
	)

	rdb := config.NewRedisClient() // nil disables rate limiting and caching
	if rdb == nil {
		log.Println("redis unavailable; rate limiting and caching disabled")
	}

	// Audit-log consumer runs for the lifetime of the process and
	// reconnects on its own.
	go func() {
		if err := queue.StartAccountConsumer(); err != nil {
			log.Printf("account consumer stopped: %v", err)
		}
	}()

	e := echo.New()
	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.BodyLimit("16M")) // multipart image uploads

	router.RegisterRoutes(e)
	authHandler := handler.NewAuthHandler(cfg, svc)
	router.RegisterAuth(e, authHandler, rdb)
	router.RegisterUsers(e, cfg, handler.NewProfileHandler(svc), authHandler, handler.NewChannelHandler(svc), rdb)

	addr := ":" + cfg.Port
	log.Printf("listening on %s (env=%s)", addr, cfg.Env)

	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
