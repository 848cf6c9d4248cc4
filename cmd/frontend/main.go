package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Kepler-Br/omega-momiji-telegram-frontend/internal/config"
	"github.com/Kepler-Br/omega-momiji-telegram-frontend/internal/constants"
	"github.com/Kepler-Br/omega-momiji-telegram-frontend/internal/metrics"
	"github.com/Kepler-Br/omega-momiji-telegram-frontend/internal/service"
	"github.com/Kepler-Br/omega-momiji-telegram-frontend/internal/tracing"
	"github.com/Kepler-Br/omega-momiji-telegram-frontend/pkg/broker"
	"github.com/Kepler-Br/omega-momiji-telegram-frontend/pkg/storage"
	"github.com/Kepler-Br/omega-momiji-telegram-frontend/pkg/telegram"

	"github.com/sirupsen/logrus"
)

var (
	// Version information (set at build time)
	Version   = "dev"
	BuildTime = "unknown"
	GitCommit = "unknown"

	// CLI flags
	verbose    = flag.Bool("verbose", false, "Enable verbose logging")
	configPath = flag.String("config", "config.json", "Path to configuration file")
	version    = flag.Bool("version", false, "Show version information")
)

func main() {
	flag.Parse()

	if *version {
		fmt.Printf("omega-momiji-telegram-frontend %s\nBuild Time: %s\nGit Commit: %s\n", Version, BuildTime, GitCommit)
		os.Exit(0)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx); err != nil {
		logrus.Fatalf("Application error: %v", err)
	}
}

func run(ctx context.Context) error {
	logger := logrus.New()
	logger.SetFormatter(&logrus.JSONFormatter{})

	logger.WithFields(logrus.Fields{
		"version": Version,
		"build":   BuildTime,
		"commit":  GitCommit,
	}).Info("Starting Telegram frontend")

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	if *verbose {
		logger.SetLevel(logrus.DebugLevel)
	} else if cfg.LogLevel != "" {
		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			logger.Warnf("Invalid log level %q, defaulting to info", cfg.LogLevel)
			logger.SetLevel(logrus.InfoLevel)
		} else {
			logger.SetLevel(level)
		}
	} else {
		logger.SetLevel(logrus.InfoLevel)
	}

	tracingManager := tracing.NewManager(tracing.Config{
		ServiceName:    cfg.Tracing.ServiceName,
		ServiceVersion: cfg.Tracing.ServiceVersion,
		Environment:    cfg.Tracing.Environment,
		OTLPEndpoint:   cfg.Tracing.OTLPEndpoint,
		SampleRate:     cfg.Tracing.SampleRate,
		Enabled:        cfg.Tracing.Enabled,
		UseStdout:      cfg.Tracing.UseStdout,
	}, logger)

	if err := tracingManager.Initialize(ctx); err != nil {
		logger.Warnf("Failed to initialize tracing: %v", err)
	}
	defer func() {
		if err := tracingManager.Shutdown(context.Background()); err != nil {
			logger.Warnf("Failed to shutdown tracing: %v", err)
		}
	}()

	tgClient, err := telegram.NewClient(ctx, cfg.Telegram.BotToken, cfg.Telegram.PollTimeoutSec, logger)
	if err != nil {
		return fmt.Errorf("failed to connect to Telegram: %w", err)
	}

	store, err := storage.NewMinioStore(
		cfg.Storage.Endpoint,
		cfg.Storage.AccessKey,
		cfg.Storage.SecretKey,
		cfg.Storage.UseSSL,
		logger,
	)
	if err != nil {
		return fmt.Errorf("failed to connect to object storage: %w", err)
	}

	producer := broker.NewKafkaProducer(cfg.Kafka.Brokers, cfg.Kafka.MessagesTopic, logger)
	defer func() {
		if err := producer.Close(); err != nil {
			logger.Warnf("Failed to close broker producer: %v", err)
		}
	}()

	dispatcher := service.NewDispatcher(cfg.Frontend.Workers)
	chatStats := metrics.NewChatStats(metrics.GetRegistry(), constants.DefaultKnownChatsLimit)

	pipeline := service.NewPipeline(
		service.NewWhitelist(cfg.Frontend.Whitelist),
		service.NewNormalizer(cfg.Frontend.Name, cfg.Frontend.IncludeMentioned),
		service.NewOffloader(store, tgClient, cfg.Frontend.MaxFileSizeBytes, logger),
		service.NewPublisher(producer, logger),
		dispatcher,
		chatStats,
		cfg.ShouldUploadFiles(),
		logger,
	)

	updates, err := tgClient.Updates(ctx)
	if err != nil {
		return fmt.Errorf("failed to open update stream: %w", err)
	}

	go func() {
		for update := range updates {
			ev := telegram.DecodeUpdate(update, tgClient.Username())
			if ev == nil {
				continue
			}
			pipeline.Submit(ctx, ev)
		}
		logger.Info("Update stream closed")
	}()

	logger.WithFields(logrus.Fields{
		"frontend": cfg.Frontend.Name,
		"topic":    cfg.Kafka.MessagesTopic,
		"workers":  cfg.Frontend.Workers,
	}).Info("Ingestion pipeline started")

	server := NewServer(cfg, tgClient, logger)
	serverErrCh := make(chan error, constants.ServerErrorChannelSize)
	go func() {
		if err := server.Start(); err != nil {
			serverErrCh <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		logger.Info("Received shutdown signal")
	case err := <-serverErrCh:
		logger.Error(err)
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), time.Duration(constants.DefaultGracefulShutdownSec)*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shutdown server gracefully: %w", err)
	}

	// Let in-flight offloads and publishes run to completion before the
	// producer closes.
	dispatcher.Wait()

	logger.Info("Shutdown completed")
	return nil
}
