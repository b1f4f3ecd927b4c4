// API server entry point for WattWise HomeAudit-Intelligence.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	prom "github.com/prometheus/client_golang/prometheus"
	goredis "github.com/redis/go-redis/v9"

	appaudit "github.com/wattwise/HomeAudit-Intelligence/internal/application/audit"
	"github.com/wattwise/HomeAudit-Intelligence/internal/application/reporting"
	"github.com/wattwise/HomeAudit-Intelligence/internal/config"
	"github.com/wattwise/HomeAudit-Intelligence/internal/domain/analysis"
	domaudit "github.com/wattwise/HomeAudit-Intelligence/internal/domain/audit"
	"github.com/wattwise/HomeAudit-Intelligence/internal/domain/recommendation"
	"github.com/wattwise/HomeAudit-Intelligence/internal/infrastructure/database/postgres"
	"github.com/wattwise/HomeAudit-Intelligence/internal/infrastructure/database/postgres/repositories"
	"github.com/wattwise/HomeAudit-Intelligence/internal/infrastructure/database/redis"
	"github.com/wattwise/HomeAudit-Intelligence/internal/infrastructure/messaging/kafka"
	"github.com/wattwise/HomeAudit-Intelligence/internal/infrastructure/monitoring/logging"
	"github.com/wattwise/HomeAudit-Intelligence/internal/infrastructure/monitoring/prometheus"
	"github.com/wattwise/HomeAudit-Intelligence/internal/infrastructure/storage/minio"
	httpserver "github.com/wattwise/HomeAudit-Intelligence/internal/interfaces/http"
	"github.com/wattwise/HomeAudit-Intelligence/internal/interfaces/http/handlers"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to configuration file (empty: environment only)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "apiserver: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	cfg, err := loadConfig(configPath)
	if err != nil {
		return err
	}

	log, err := newLogger(cfg.Log)
	if err != nil {
		return err
	}
	log.Info("starting apiserver",
		logging.String("version", version),
		logging.Int("port", cfg.Server.Port))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := prometheus.NewMetrics(prom.DefaultRegisterer)
	recorder := prometheus.NewRecorder(metrics)

	if err := postgres.Migrate(cfg.Database, log); err != nil {
		return fmt.Errorf("migrations failed: %w", err)
	}
	pool, err := postgres.Connect(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("postgres connect failed: %w", err)
	}
	defer pool.Close()

	// The API stays up without redis: caching degrades to pass-through.
	var cache appaudit.ResultCache
	rdb, err := redis.Connect(ctx, cfg.Redis, log)
	if err != nil {
		log.Warn("redis unavailable, running without result cache", logging.Err(err))
	} else {
		defer rdb.Close()
		cache = redis.NewResultCache(rdb, cfg.Redis.KeyPrefix, cfg.Analysis.CacheTTL, log)
	}

	producer := kafka.NewProducer(cfg.Kafka, log)
	producer.SetPublishObserver(recorder.EventPublished)
	defer producer.Close()

	var archiver reporting.Archiver
	if cfg.MinIO.Enabled {
		a, err := minio.NewArchiver(ctx, cfg.MinIO, log)
		if err != nil {
			log.Warn("minio unavailable, report archiving disabled", logging.Err(err))
		} else {
			archiver = a
		}
	}

	svc := buildService(cfg, pool, cache, producer, recorder, log)
	exporter := reporting.NewExporter(archiver, log)

	checkers := []handlers.HealthChecker{pgChecker{pool: pool}}
	if rdb != nil {
		checkers = append(checkers, redisChecker{rdb: rdb})
	}

	router := httpserver.NewRouter(httpserver.RouterConfig{
		Service:        svc,
		Exporter:       exporter,
		Logger:         log,
		Version:        version,
		HealthCheckers: checkers,
		Mode:           cfg.Server.Mode,
	})
	srv := httpserver.NewServer(cfg.Server, router, log)

	errCh := make(chan error, 1)
	go func() { errCh <- srv.Start() }()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("shutdown signal received")
	return srv.Stop(context.Background())
}

func loadConfig(path string) (*config.Config, error) {
	if path != "" {
		return config.Load(path)
	}
	return config.LoadFromEnv()
}

func newLogger(cfg config.LogConfig) (logging.Logger, error) {
	format := "json"
	if cfg.Format == "text" {
		format = "console"
	}
	outputs := []string{"stdout"}
	if cfg.Output != "" {
		outputs = []string{cfg.Output}
	}
	return logging.NewLogger(logging.LogConfig{
		Level:       cfg.Level,
		Format:      format,
		OutputPaths: outputs,
	})
}

func buildService(
	cfg *config.Config,
	pool *pgxpool.Pool,
	cache appaudit.ResultCache,
	events appaudit.EventPublisher,
	metrics appaudit.MetricsRecorder,
	log logging.Logger,
) appaudit.AnalysisService {
	seed := cfg.Analysis.EstimatorSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	return appaudit.NewAnalysisService(
		domaudit.NewNormalizer(log),
		[]analysis.Analyzer{
			analysis.NewEnergyAnalyzer(),
			analysis.NewHVACAnalyzer(),
			analysis.NewLightingAnalyzer(),
			analysis.NewHumidityAnalyzer(),
		},
		analysis.NewAggregator(log),
		recommendation.NewGenerator(recommendation.NewSeededEstimator(log, seed), log),
		recommendation.NewMatcher(recommendation.NewStaticCatalog(), log),
		repositories.NewAuditRepository(pool, log),
		repositories.NewReportRepository(pool, log),
		cache,
		events,
		metrics,
		log,
		appaudit.ServiceConfig{Timeout: cfg.Analysis.Timeout},
	)
}

type pgChecker struct {
	pool *pgxpool.Pool
}

func (c pgChecker) Name() string                    { return "postgres" }
func (c pgChecker) Check(ctx context.Context) error { return c.pool.Ping(ctx) }

type redisChecker struct {
	rdb *goredis.Client
}

func (c redisChecker) Name() string                    { return "redis" }
func (c redisChecker) Check(ctx context.Context) error { return c.rdb.Ping(ctx).Err() }
