// cmd/worker-manager/main.go
package main

import (
	"context"
	"fmt"
	"net/http"
	_ "net/http/pprof"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"financial-health-workers/internal/api"
	"financial-health-workers/internal/common/aws"
	"financial-health-workers/internal/common/camunda"
	"financial-health-workers/internal/common/config"
	"financial-health-workers/internal/common/database"
	"financial-health-workers/internal/common/logger"
	"financial-health-workers/internal/common/observability"
	"financial-health-workers/internal/healthscore"
	"financial-health-workers/pkg/registry"

	chs "financial-health-workers/internal/workers/health/calculate-health-score"
	ihr "financial-health-workers/internal/workers/health/index-health-report"
	nhr "financial-health-workers/internal/workers/health/notify-health-report"
	shr "financial-health-workers/internal/workers/health/store-health-report"
	vfi "financial-health-workers/internal/workers/health/validate-financial-inputs"
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
			delay *= 2
		}
	}

	return fmt.Errorf("%s failed after %d attempts: %w", operationName, maxRetries, err)
}

func main() {
	bootLog := logger.New("info", "console")

	cfg, err := config.Load()
	if err != nil {
		bootLog.Fatal("config load failed", zap.Error(err))
	}

	zapLog := logger.New(cfg.Logging.Level, cfg.Logging.Format, cfg.Logging.Output)
	defer zapLog.Sync()
	log := logger.NewZapAdapter(zapLog)

	zapLog.Info("Starting worker manager...",
		zap.String("app", cfg.App.Name),
		zap.String("environment", cfg.App.Environment),
		zap.String("scoringVersion", cfg.Scoring.Version),
	)

	var obsOpts []observability.Option
	if cfg.Tracing.Enabled && cfg.Tracing.JaegerEndpoint != "" {
		obsOpts = append(obsOpts, observability.WithJaeger(cfg.Tracing.JaegerEndpoint, cfg.Tracing.SampleRatio))
	}
	obs := observability.New(cfg.App.Name, obsOpts...)
	defer obs.Shutdown()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	checkRegistry(cfg, zapLog)

	// --- Init Zeebe Client with retry ---
	var zeebe *camunda.Client
	err = retryWithBackoff(func() error {
		var err error
		zeebe, err = camunda.NewClientWithConfig(&camunda.ClientConfig{
			GatewayAddress:         cfg.Camunda.BrokerAddress,
			UsePlaintextConnection: true,
			ConnectionTimeout:      10 * time.Second,
			RequestTimeout:         config.GetDuration(cfg.Camunda.RequestTimeout),
			ProcessID:              cfg.Camunda.ProcessID,
		})
		return err
	}, 10, 2*time.Second, zapLog, "Zeebe client initialization")
	if err != nil {
		zapLog.Fatal("zeebe client failed after retries", zap.Error(err))
	}
	zapLog.Info("Zeebe client connected successfully")

	// --- Init PostgreSQL with retry ---
	var pg *database.PostgresClient
	err = retryWithBackoff(func() error {
		var err error
		pg, err = database.NewPostgres(cfg.Database.Postgres)
		if err != nil {
			return err
		}
		return pg.Ping(ctx)
	}, 15, 2*time.Second, zapLog, "PostgreSQL connection")
	if err != nil {
		zapLog.Fatal("postgres failed after retries", zap.Error(err))
	}
	defer pg.Close()
	zapLog.Info("PostgreSQL connected successfully")

	if cfg.Database.Postgres.RunMigrations {
		if err := database.RunMigrations(ctx, pg.DB); err != nil {
			zapLog.Fatal("migrations failed", zap.Error(err))
		}
		zapLog.Info("Database migrations applied")
	}

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
	var redis *database.RedisClient
	err = retryWithBackoff(func() error {
		var err error
		redis, err = database.NewRedis(cfg.Database.Redis)
		if err != nil {
			return err
		}
		return redis.Ping(ctx)
	}, 10, 2*time.Second, zapLog, "Redis connection")
	if err != nil {
		zapLog.Fatal("redis failed after retries", zap.Error(err))
	}
	defer redis.Close()
	zapLog.Info("Redis connected successfully")

	// --- Scoring engine ---
	engineOpts, err := healthscore.OptionsFromConfig(cfg.Scoring, log)
	if err != nil {
		zapLog.Fatal("invalid scoring configuration", zap.Error(err))
	}
	engine := healthscore.New(engineOpts...)

	// --- Notification clients ---
	var (
		email  nhr.EmailSender
		alerts nhr.AlertPublisher
	)
	if cfg.Notifications.Email.Enabled {
		ses, err := aws.NewSESClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("ses client failed", zap.Error(err))
		}
		email = ses
	}
	if cfg.Notifications.SMS.Enabled || cfg.Notifications.SMS.TopicARN != "" {
		sns, err := aws.NewSNSClient(ctx, cfg.Notifications.AWS.Region)
		if err != nil {
			zapLog.Fatal("sns client failed", zap.Error(err))
		}
		alerts = sns
	}

	// --- Register workers ---
	manager := camunda.NewManager(zeebe.GetClient(), obs, zapLog)
	reports := database.NewReportStore(pg)

	validateCfg := vfi.LoadConfig()
	validateCfg.Timeout = workerTimeout(cfg, vfi.TaskType, validateCfg.Timeout)
	validator := vfi.NewHandler(validateCfg, engine, log)
	manager.Register(vfi.TaskType, config.GetWorkerConfig(cfg, vfi.TaskType), validator.Handle)

	calcCfg := chs.LoadConfig()
	calcCfg.Timeout = workerTimeout(cfg, chs.TaskType, calcCfg.Timeout)
	calcCfg.CacheTTL = time.Duration(cfg.Database.Redis.CacheTTL) * time.Second
	calculator := chs.NewHandler(calcCfg, engine, redis, obs, log)
	manager.Register(chs.TaskType, config.GetWorkerConfig(cfg, chs.TaskType), calculator.Handle)

	storeCfg := shr.LoadConfig()
	storeCfg.Timeout = workerTimeout(cfg, shr.TaskType, storeCfg.Timeout)
	manager.Register(shr.TaskType, config.GetWorkerConfig(cfg, shr.TaskType),
		shr.NewHandler(storeCfg, reports, log).Handle)

	indexCfg := ihr.LoadConfig()
	indexCfg.Timeout = workerTimeout(cfg, ihr.TaskType, indexCfg.Timeout)
	indexCfg.Index = cfg.Database.Elasticsearch.Index
	manager.Register(ihr.TaskType, config.GetWorkerConfig(cfg, ihr.TaskType),
		ihr.NewHandler(indexCfg, esClient, log).Handle)

	notifyCfg := nhr.LoadConfig()
	notifyCfg.Timeout = workerTimeout(cfg, nhr.TaskType, notifyCfg.Timeout)
	notifyCfg.EmailEnabled = cfg.Notifications.Email.Enabled
	notifyCfg.FromEmail = cfg.Notifications.Email.FromEmail
	notifyCfg.SMSEnabled = cfg.Notifications.SMS.Enabled
	notifyCfg.AlertTopicARN = cfg.Notifications.SMS.TopicARN
	notifyCfg.LowScoreThreshold = cfg.Notifications.SMS.LowScoreThreshold
	manager.Register(nhr.TaskType, config.GetWorkerConfig(cfg, nhr.TaskType),
		nhr.NewHandler(notifyCfg, email, alerts, log).Handle)

	zapLog.Info("Workers registered", zap.Int("count", manager.Count()))

	// --- HTTP API ---
	server := api.NewServer(cfg.HTTP, api.Deps{
		Calculator: calculator,
		Validator:  validator,
		Reports:    reports,
		Processes:  zeebe,
		Version:    engine.Version(),
		Checks: []api.Check{
			{Name: "postgres", Ping: pg.Ping},
			{Name: "redis", Ping: redis.Ping},
			{Name: "elasticsearch", Ping: func(context.Context) error { return esClient.Ping() }},
			{Name: "zeebe", Ping: zeebe.HealthCheck},
		},
	}, log)

	apiErr := make(chan error, 1)
	go func() {
		apiErr <- server.ListenAndServe(ctx)
	}()

	// --- Metrics & pprof Server ---
	if cfg.HTTP.MetricsAddress != "" && cfg.HTTP.MetricsAddress != cfg.HTTP.Address {
		go func() {
			http.Handle("/metrics", promhttp.Handler())
			zapLog.Info("Metrics server listening", zap.String("address", cfg.HTTP.MetricsAddress))
			if err := http.ListenAndServe(cfg.HTTP.MetricsAddress, nil); err != nil {
				zapLog.Error("Metrics server failed", zap.Error(err))
			}
		}()
	}

	// --- Graceful Shutdown ---
	select {
	case <-ctx.Done():
		zapLog.Info("Shutdown signal received, stopping workers...")
	case err := <-apiErr:
		if err != nil {
			zapLog.Error("HTTP API failed", zap.Error(err))
		}
		stop()
	}

	manager.Close()
	if err := <-apiErr; err != nil {
		zapLog.Error("HTTP API shutdown error", zap.Error(err))
	}
	if err := zeebe.Close(); err != nil {
		zapLog.Error("Error closing Zeebe client", zap.Error(err))
	}

	zapLog.Info("Worker manager stopped gracefully")
}

func workerTimeout(cfg *config.Config, taskType string, fallback time.Duration) time.Duration {
	if w, ok := cfg.Workers[taskType]; ok && w.Timeout > 0 {
		return config.GetDuration(w.Timeout)
	}
	return fallback
}

// checkRegistry warns about activities the registry lists but this binary
// does not serve.
func checkRegistry(cfg *config.Config, log *zap.Logger) {
	if cfg.Registry.Path == "" {
		return
	}
	reg, err := registry.Load(cfg.Registry.Path)
	if err != nil {
		log.Warn("activity registry not loaded", zap.String("path", cfg.Registry.Path), zap.Error(err))
		return
	}
	served := map[string]bool{
		vfi.TaskType: true,
		chs.TaskType: true,
		shr.TaskType: true,
		ihr.TaskType: true,
		nhr.TaskType: true,
	}
	for _, a := range reg.Activities {
		if !served[a.TaskType] {
			log.Warn("registry activity has no worker", zap.String("taskType", a.TaskType))
		}
	}
}
