package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"

	"qr-dine/config"
	httpapi "qr-dine/order-svc/internal/api/http"
	"qr-dine/order-svc/internal/service"
	"qr-dine/order-svc/internal/storage"
	"qr-dine/pkg/logger"
)

func main() {
	cfg := config.Load()
	appLog := logger.New("order-svc")

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	var repo service.Repository
	switch cfg.StorageDriver {
	case "memory":
		appLog.Warn("storage_init", "", "using in-memory storage, data is lost on restart")
		repo = storage.NewMemoryRepository()
	default:
		db := config.MustInitPostgres(cfg.Postgres)
		defer db.Close()
		pg := storage.NewPostgresRepository(db)
		if err := pg.EnsureSchema(ctx); err != nil {
			log.Fatal("Failed to ensure schema:", err)
		}
		repo = pg
	}

	var (
		cache     service.MenuCache
		stats     service.StatsReader
		publisher service.EventPublisher
	)
	if cfg.Redis.Enabled() {
		rdb := config.MustInitRedis(cfg.Redis)
		defer rdb.Close()
		cache = storage.NewRedisMenuCache(rdb, cfg.MenuCacheTTL)
		stats = storage.NewRedisStatsReader(rdb)
	}
	if cfg.Kafka.Enabled() {
		writer := config.NewKafkaWriter(cfg.Kafka)
		defer writer.Close()
		publisher = storage.NewKafkaPublisher(writer)
	}

	gateway := service.NewGateway(repo)
	handler := httpapi.NewHandler(httpapi.Services{
		Auth:        service.NewAuthService(repo, cfg.JWTSecret, cfg.JWTTTL, appLog),
		Staff:       service.NewStaffService(repo, gateway, appLog),
		Restaurants: service.NewRestaurantService(repo, gateway, cache),
		Categories:  service.NewCategoryService(repo, gateway, cache),
		Menu:        service.NewMenuService(repo, gateway, cache, appLog),
		Tables:      service.NewTableRegistry(repo, gateway, service.NewKeyedMutex(), appLog),
		Orders:      service.NewOrderService(repo, gateway, publisher, appLog),
		Stats:       service.NewStatsService(stats, gateway),
		QR:          service.DefaultQRGenerator{BaseURL: cfg.PublicBaseURL},
	}, appLog)

	if err := httpapi.StartServer(ctx, cfg.HTTPAddr, httpapi.NewRouter(handler), appLog); err != nil {
		appLog.Error("service_stopped", "", "HTTP server failed", err)
		os.Exit(1)
	}
	appLog.Info("service_stopped", "", "order service stopped")
}
