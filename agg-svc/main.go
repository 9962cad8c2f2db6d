package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"qr-dine/agg-svc/internal/service"
	"qr-dine/agg-svc/internal/storage"
	"qr-dine/config"
	"qr-dine/pkg/logger"
)

const consumerGroup = "agg-svc-consumer"

func main() {
	cfg := config.Load()
	appLog := logger.New("agg-svc")

	if !cfg.Kafka.Enabled() || !cfg.Redis.Enabled() {
		appLog.Error("service_init", "", "KAFKA_BROKER and REDIS_HOST are required", nil)
		os.Exit(1)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	rdb := config.MustInitRedis(cfg.Redis)
	defer rdb.Close()

	reader := config.NewKafkaReader(cfg.Kafka, consumerGroup)
	defer reader.Close()

	consumer := service.NewConsumer(reader, storage.NewStore(rdb), appLog)
	if err := consumer.Start(ctx); err != nil {
		appLog.Error("service_stopped", "", "consumer failed", err)
		os.Exit(1)
	}
}
