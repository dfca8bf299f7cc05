package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/gartstein/zoo/internal/zoo/config"
	"github.com/gartstein/zoo/internal/zoo/controller"
	"github.com/gartstein/zoo/internal/zoo/db"
	"github.com/gartstein/zoo/internal/zoo/events"
	"github.com/gartstein/zoo/internal/zoo/handlers"
	"github.com/gartstein/zoo/internal/zoo/metrics"
	"go.uber.org/zap"
)

// changeProducer is the event sink the server publishes to.
type changeProducer interface {
	controller.EventProducer
	Close()
}

func main() {
	configPath := flag.String("config", "", "path to the YAML config file (default $ZOO_CONFIG or config.yaml)")
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
	defer func(logger *zap.Logger) {
		_ = logger.Sync()
	}(logger)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repo, err := db.Connect(ctx, cfg.DB(logger))
	if err != nil {
		logger.Fatal("failed to initialize database", zap.Error(err))
	}
	defer func() {
		if err := repo.Close(); err != nil {
			logger.Error("failed to close database", zap.Error(err))
		}
	}()

	producer := initProducer(cfg, logger)
	defer producer.Close()

	recorder := metrics.NewRecorder()
	store := controller.FromDB(repo)
	services := controller.NewServices(controller.Dependencies{
		Repo:     store,
		Producer: producer,
		Metrics:  recorder,
		Logger:   logger,
	})
	catalog := controller.NewCatalog(services, store, cfg.Placeholder, logger)

	server := handlers.NewServer(cfg.GRPCPort, cfg.HTTPPort, logger)
	handler := handlers.NewHandler(services, catalog, logger)
	if err := server.RegisterHTTPGateway(handler, cfg.JWTSecret, recorder.Handler()); err != nil {
		logger.Fatal("Failed to register HTTP gateway", zap.Error(err))
	}
	if cfg.JWTSecret == "" {
		logger.Warn("jwt_secret is empty, write endpoints are not protected")
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	waitForShutdown(ctx, server, errCh, logger)
}

// initProducer publishes change events to Kafka when brokers are configured.
func initProducer(cfg *config.Config, logger *zap.Logger) changeProducer {
	if len(cfg.Kafka.Brokers) == 0 {
		logger.Info("no Kafka brokers configured, change events are discarded")
		return events.NopProducer{}
	}
	if err := events.EnsureTopic(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger); err != nil {
		logger.Warn("failed to reach Kafka", zap.Error(err))
	}
	return events.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.Topic, logger)
}

// waitForShutdown blocks until a signal arrives or a server fails, then
// shuts the servers down.
func waitForShutdown(ctx context.Context, server *handlers.Server, errCh <-chan error, logger *zap.Logger) {
	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			logger.Error("Server failed", zap.Error(err))
		}
	}

	server.Stop()
	logger.Info("Servers stopped properly")
}
