package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"pos-service/config"
	"pos-service/internal/api"
	"pos-service/internal/auth"
	"pos-service/internal/broker"
	"pos-service/internal/currency"
	"pos-service/internal/kv"
	"pos-service/internal/report"
	"pos-service/internal/service"
	"pos-service/internal/store"
	"pos-service/internal/util"
	"pos-service/internal/worker"

	"github.com/gin-gonic/gin"
)

func main() {

	cfg := config.Load()

	if err := util.InitLogger(cfg.Server.Env); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer util.SyncLogger()

	logger := util.GetLogger()
	logger.Info("Starting POS service")

	tp, err := util.InitTracer("pos-service", cfg.Observ.JaegerEndpoint)
	if err != nil {
		log.Fatalf("Failed to initialize tracer: %v", err)
	}
	defer func() {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := tp.Shutdown(ctx); err != nil {
			log.Printf("Error shutting down tracer: %v", err)
		}
	}()

	backend, err := newBackend(cfg)
	if err != nil {
		log.Fatalf("Failed to initialize storage backend: %v", err)
	}
	log.Printf("Storage backend ready: %s", cfg.Storage.Backend)

	ledger := store.NewStore(backend)
	defer ledger.Close()

	ctx := context.Background()
	if err := ledger.Initialize(ctx, defaultCatalog()); err != nil {
		log.Fatalf("Failed to initialize catalog: %v", err)
	}

	var publisher *broker.EventPublisher
	if len(cfg.Kafka.Brokers) > 0 {
		producer := broker.NewProducer(cfg.Kafka.Brokers, cfg.Kafka.TopicSales)
		defer producer.Close()
		publisher = broker.NewEventPublisher(producer)
		log.Println("Kafka producer initialized")
	}

	prefs := currency.NewPreferences(backend)
	authProvider := auth.NewMagicLink()
	reports := report.NewAggregator(ledger, cfg.Business.LowStockThreshold)
	posService := service.NewPOSService(ledger, publisher)

	workerCtx, workerCancel := context.WithCancel(context.Background())
	defer workerCancel()

	lowStockWorker := worker.NewLowStockWorker(
		ledger,
		publisher,
		cfg.Business.LowStockThreshold,
		time.Duration(cfg.Business.LowStockScanSeconds)*time.Second,
	)
	go func() {
		if err := lowStockWorker.Start(workerCtx); err != nil && err != context.Canceled {
			log.Printf("Low-stock worker error: %v", err)
		}
	}()

	if cfg.Server.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()
	handler := api.NewHandler(posService, reports, prefs, authProvider)
	handler.SetupRoutes(router)

	srv := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.Server.Port),
		Handler: router,
	}

	go func() {
		log.Printf("Starting HTTP server on port %s", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Failed to start server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server forced to shutdown: %v", err)
	}

	workerCancel()
	lowStockWorker.Stop()

	log.Println("Server exited")
}

// newBackend builds the configured key-value backend.
func newBackend(cfg *config.Config) (kv.Store, error) {
	switch cfg.Storage.Backend {
	case "redis":
		return kv.NewRedis(cfg.Storage.RedisAddr, cfg.Storage.RedisPassword, cfg.Storage.RedisDB, cfg.Storage.RedisPrefix)
	case "postgres":
		pg, err := kv.NewPostgres(cfg.Storage.DatabaseURL)
		if err != nil {
			return nil, err
		}
		if err := pg.EnsureSchema(context.Background()); err != nil {
			pg.Close()
			return nil, err
		}
		return pg, nil
	default:
		log.Println("Using in-memory storage: state will not survive a restart")
		return kv.NewMemory(), nil
	}
}
