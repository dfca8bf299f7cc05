// Command zoo-audit consumes record change events and logs each one.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/gartstein/zoo/internal/zoo/config"
	"github.com/gartstein/zoo/internal/zoo/events"
	"go.uber.org/zap"
)

func main() {
	configPath := flag.String("config", "", "path to the YAML config file (default $ZOO_CONFIG or config.yaml)")
	groupID := flag.String("group", "zoo-audit", "Kafka consumer group")
	flag.Parse()

	cfg, err := config.Load(config.Path(*configPath))
	if err != nil {
		bootLogger, _ := zap.NewProduction()
		bootLogger.Fatal("failed to load config", zap.Error(err))
	}
	logger, err := cfg.NewLogger()
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	if len(cfg.Kafka.Brokers) == 0 {
		logger.Fatal("kafka.brokers is not configured")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	consumer := events.NewConsumer(cfg.Kafka.Brokers, *groupID, cfg.Kafka.Topic, logger)
	defer consumer.Close()
	consumer.RegisterHandler(events.AuditHandler(logger))

	logger.Info("Consuming change events",
		zap.Strings("brokers", cfg.Kafka.Brokers),
		zap.String("topic", cfg.Kafka.Topic),
		zap.String("group", *groupID),
	)
	if err := consumer.Run(ctx); err != nil {
		logger.Error("consumer stopped", zap.Error(err))
	}
}
