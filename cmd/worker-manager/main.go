// cmd/worker-manager/main.go
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	commonaws "github.com/ZainManzoor2003/mehndi-sub002/internal/common/aws"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/camunda"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/config"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/database"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/logger"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/common/observability"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/notify"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/payments"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/search"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/settlement"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/store"
	"github.com/ZainManzoor2003/mehndi-sub002/internal/sweep"

	// Booking Workers (5)
	atb "github.com/ZainManzoor2003/mehndi-sub002/internal/workers/booking/apply-to-booking"
	cb "github.com/ZainManzoor2003/mehndi-sub002/internal/workers/booking/cancel-booking"
	cpb "github.com/ZainManzoor2003/mehndi-sub002/internal/workers/booking/complete-booking"
	ra "github.com/ZainManzoor2003/mehndi-sub002/internal/workers/booking/respond-application"
	wa "github.com/ZainManzoor2003/mehndi-sub002/internal/workers/booking/withdraw-application"

	// Payment Workers (2)
	cc "github.com/ZainManzoor2003/mehndi-sub002/internal/workers/payment/create-checkout"
	pc "github.com/ZainManzoor2003/mehndi-sub002/internal/workers/payment/payment-confirmed"
)

// retryWithBackoff attempts to execute a function with exponential backoff
func retryWithBackoff(operation func() error, maxRetries int, initialDelay time.Duration, log *zap.Logger, operationName string) error {
	var err error
	delay := initialDelay

	for i := 0; i < maxRetries; i++ {
		err = operation()
		if err == nil {
			return nil
		}

		if i < maxRetries-1 {
			log.Warn(fmt.Sprintf("%s failed, retrying...", operationName),
				zap.Error(err),
				zap.Int("attempt", i+1),
				zap.Int("maxRetries", maxRetries),
				zap.Duration("nextRetryIn", delay),
			)
			time.Sleep(delay)
			delay *= 2 // Exponential backoff
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	zapLog := logger.New("info", "console")
	defer zapLog.Sync()

	zapLog.Info("Starting worker manager...")

	cfg, err := config.Load()
	if err != nil {
		zapLog.Fatal("config load failed", zap.Error(err))
	}
	log := logger.NewZapAdapter(zapLog)

	obs := observability.New(cfg.App.Name)
	defer obs.Shutdown()

	// --- Init Zeebe Client with retry ---
	var camundaClient *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		camundaClient, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         time.Duration(cfg.Camunda.RequestTimeout) * time.Millisecond,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")

	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zeebeClient := camundaClient.GetClient()
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")

	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	// --- Init Elasticsearch with retry ---
	var esClient *database.ElasticsearchClient
	err = retryWithBackoff(func() error {
		var err error
		esClient, err = database.NewElasticsearch(cfg.Database.Elasticsearch)
		if err != nil {
			return err
		}
		return esClient.Ping()
	}, 15, 2*time.Second, zapLog, "Elasticsearch connection")

	if err != nil {
		zapLog.Fatal("elasticsearch failed after retries", zap.Error(err))
	}
	zapLog.Info("Elasticsearch connected successfully")

	// --- Init Redis with retry ---
	var redisClient *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redisClient, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		return redisClient.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")

	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redisClient.Close()
	zapLog.Info("Redis connected successfully")

	// --- AWS delivery clients, only for enabled channels ---
	var sesSvc notify.SESService
	var snsSvc notify.SNSService
	if cfg.Notifications.Email.Enabled {
		sesClient, err := commonaws.NewSESClient(context.Background(), cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("ses client failed", zap.Error(err))
		}
		sesSvc = sesClient
		zapLog.Info("SES client initialized", zap.String("region", cfg.Notifications.AWS.Region))
	}
	if cfg.Notifications.SMS.Enabled {
		snsClient, err := commonaws.NewSNSClient(context.Background(), cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("sns client failed", zap.Error(err))
		}
		snsSvc = snsClient
		zapLog.Info("SNS client initialized", zap.String("region", cfg.Notifications.AWS.Region))
	}

	// --- Wire the settlement engine ---
	bookings := store.NewBookingStore(pg.DB)
	apps := store.NewApplicationStore(pg.DB)
	wallets := store.NewWalletStore(pg.DB)
	ledger := store.NewLedgerStore(pg.DB)
	artists := store.NewArtistStore(pg.DB)
	notifications := store.NewNotificationStore(pg.DB)

	notifier := notify.New(notifications, sesSvc, snsSvc, cfg.Notifications, log)
	gateway := payments.NewClient(cfg.Payments, log)
	indexer := search.NewLedgerIndexer(esClient.Client, cfg.Database.Elasticsearch.LedgerIndex, log)
	deduper := settlement.NewRedisDeduper(redisClient.GetClient())

	engine := settlement.NewEngine(settlement.EngineParams{
		Bookings:   bookings,
		Apps:       apps,
		Wallets:    wallets,
		Ledger:     ledger,
		Artists:    artists,
		Gateway:    gateway,
		Notifier:   notifier,
		Dedupe:     deduper,
		Indexer:    indexer,
		Logger:     log,
		Settlement: cfg.Settlement,
		Sweep:      cfg.Sweep,
		Currency:   cfg.Payments.Currency,
	})

	// --- Auto-complete sweep ---
	var sweeper *sweep.Sweeper
	if cfg.Sweep.Enabled {
		sweeper = sweep.New(engine, redisClient, log, cfg.Sweep)
		sweeper.Start(context.Background())
	}

	// --- Register Workers ---
	var workers []*camunda.CamundaWorker
	startWorker := func(taskType string, handler camunda.JobHandler) {
		wcfg := cfg.Workers[taskType]
		w := camunda.NewWorker(
			zeebeClient,
			taskType,
			wcfg.MaxJobsActive,
			time.Duration(wcfg.Timeout)*time.Millisecond,
			handler,
			zapLog,
		)
		w.Start()
		workers = append(workers, w)
	}

	// Apply To Booking
	if taskType := atb.TaskType; cfg.Workers[taskType].Enabled {
		startWorker(taskType, atb.NewHandler(atb.LoadConfig(), engine, log))
	}

	// Withdraw Application
	if taskType := wa.TaskType; cfg.Workers[taskType].Enabled {
		startWorker(taskType, wa.NewHandler(wa.LoadConfig(), engine, log))
	}

	// Respond To Application
	if taskType := ra.TaskType; cfg.Workers[taskType].Enabled {
		startWorker(taskType, ra.NewHandler(ra.LoadConfig(), engine, log))
	}

	// Create Checkout Session
	if taskType := cc.TaskType; cfg.Workers[taskType].Enabled {
		startWorker(taskType, cc.NewHandler(cc.LoadConfig(), engine, log))
	}

	// Payment Confirmed Callback
	if taskType := pc.TaskType; cfg.Workers[taskType].Enabled {
		startWorker(taskType, pc.NewHandler(pc.LoadConfig(cfg.Payments.WebhookSecret), engine, log))
	}

	// Cancel Booking
	if taskType := cb.TaskType; cfg.Workers[taskType].Enabled {
		startWorker(taskType, cb.NewHandler(cb.LoadConfig(), engine, log))
	}

	// Complete Booking
	if taskType := cpb.TaskType; cfg.Workers[taskType].Enabled {
		startWorker(taskType, cpb.NewHandler(cpb.LoadConfig(), engine, log))
	}

	zapLog.Info("All workers registered successfully", zap.Int("count", len(workers)))

	// --- Health & Metrics Server ---
	go func() {
		http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "healthy",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.HandleFunc("/ready", func(w http.ResponseWriter, r *http.Request) {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusOK)
			json.NewEncoder(w).Encode(map[string]string{
				"status": "ready",
				"time":   time.Now().Format(time.RFC3339),
			})
		})
		http.Handle("/metrics", promhttp.Handler())
		zapLog.Info("Health/Metrics server listening on :8080")
		if err := http.ListenAndServe(":8080", nil); err != nil {
			zapLog.Error("Health/Metrics server failed", zap.Error(err))
		}
	}()

	// --- Graceful Shutdown ---
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	<-sigCh

	zapLog.Info("Shutdown signal received, stopping workers...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if sweeper != nil {
		sweeper.Stop()
	}
	for _, w := range workers {
		w.Stop(shutdownCtx)
	}

	if err := camundaClient.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}
