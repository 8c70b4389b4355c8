package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/dolpagu/dispute-service/internal/config"
	delivery "github.com/dolpagu/dispute-service/internal/delivery/http"
	"github.com/dolpagu/dispute-service/internal/delivery/http/handlers"
	"github.com/dolpagu/dispute-service/internal/infrastructure/adjudicator"
	"github.com/dolpagu/dispute-service/internal/infrastructure/kafka"
	"github.com/dolpagu/dispute-service/internal/infrastructure/metrics"
	"github.com/dolpagu/dispute-service/internal/infrastructure/migrate"
	"github.com/dolpagu/dispute-service/internal/infrastructure/postgres"
	"github.com/dolpagu/dispute-service/internal/infrastructure/postgres/repository"
	"github.com/dolpagu/dispute-service/internal/infrastructure/settlement"
	usecase "github.com/dolpagu/dispute-service/internal/usecase/dispute"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/sync/errgroup"
)

func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("failed to load .env")
	}
	// Reading config
	cfg := config.MustLoad()
	setupLogger(cfg.LogConfig)

	// Init database
	db := postgres.MustInitDB(cfg)
	if cfg.DisputeDB.MigrationsPath != "" {
		if err := migrate.RunMigrations(db, cfg.DisputeDB.MigrationsPath); err != nil {
			log.Fatalf("failed to run migrations: %v\n", err)
		}
	}

	// Init repositories
	disputeRepo := repository.NewDefaultDisputeRepository(db)
	messageRepo := repository.NewDefaultDisputeMessageRepository(db)
	caseRepo := repository.NewDefaultCaseRecordRepository(db)

	// Init kafka publisher
	brokers := []string{fmt.Sprintf("%s:%s", cfg.KafkaService.Host, cfg.KafkaService.Port)}
	publisher := kafka.NewKafkaPublisher(brokers, cfg.KafkaService.DisputeTopic)
	defer publisher.Close()

	// Init settlement client
	settlementClient, err := settlement.NewHTTPSettlementClient(
		fmt.Sprintf("%s:%s", cfg.SettlementService.Host, cfg.SettlementService.Port))
	if err != nil {
		log.Fatalf("failed to init settlement client: %v\n", err)
	}

	// Init adjudicator client
	adjudicatorClient := adjudicator.NewClient(
		cfg.Adjudicator.BaseURL,
		cfg.Adjudicator.APIKey,
		cfg.Adjudicator.Model,
		time.Duration(cfg.Adjudicator.TimeoutSeconds)*time.Second,
	)

	// Init metrics
	registry := prometheus.NewRegistry()
	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	disputeMetrics := metrics.NewDisputeMetrics(registry)

	// Init dispute usecase
	uc := usecase.NewDefaultDisputeUsecase(
		disputeRepo,
		messageRepo,
		caseRepo,
		adjudicatorClient,
		settlementClient,
		publisher,
		disputeMetrics,
	)

	// HTTP API server
	handler := handlers.NewDisputeHandler(uc)
	apiServer := &http.Server{
		Addr:    fmt.Sprintf("%s:%s", cfg.HTTPServer.Host, cfg.HTTPServer.Port),
		Handler: delivery.NewRouter(handler),
	}

	// Metrics server
	metricsMux := http.NewServeMux()
	metricsMux.Handle("/metrics", promhttp.HandlerFor(registry, promhttp.HandlerOpts{}))
	metricsServer := &http.Server{
		Addr:    cfg.Metrics.Address,
		Handler: metricsMux,
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		slog.Info("http server started", "addr", apiServer.Addr)
		if err := apiServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		slog.Info("metrics server started", "addr", metricsServer.Addr)
		if err := metricsServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := apiServer.Shutdown(shutdownCtx); err != nil {
			slog.Error("api server shutdown failed", "error", err.Error())
		}
		return metricsServer.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Fatalf("server failed: %v\n", err)
	}
	slog.Info("dispute service stopped")
}

func setupLogger(cfg config.LogConfig) {
	var level slog.Level
	switch cfg.LogLevel {
	case "debug":
		level = slog.LevelDebug
	case "warn":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	output := os.Stdout
	if cfg.LogOutput == "stderr" {
		output = os.Stderr
	}

	var handler slog.Handler
	if cfg.LogFormat == "json" {
		handler = slog.NewJSONHandler(output, &slog.HandlerOptions{Level: level})
	} else {
		handler = slog.NewTextHandler(output, &slog.HandlerOptions{Level: level})
	}
	slog.SetDefault(slog.New(handler))
}
