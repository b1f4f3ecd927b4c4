// Worker entry point: consumes audit-submitted events and runs the analysis
// pipeline asynchronously.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"golang.org/x/sync/errgroup"

	appaudit "github.com/wattwise/HomeAudit-Intelligence/internal/application/audit"
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
	apperrors "github.com/wattwise/HomeAudit-Intelligence/pkg/errors"
)

var version = "dev"

func main() {
	configPath := flag.String("config", "", "path to configuration file (empty: environment only)")
	flag.Parse()

	if err := run(*configPath); err != nil {
		fmt.Fprintf(os.Stderr, "worker: %v\n", err)
		os.Exit(1)
	}
}

func run(configPath string) error {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.Load(configPath)
	} else {
		cfg, err = config.LoadFromEnv()
	}
	if err != nil {
		return err
	}

	format := "json"
	if cfg.Log.Format == "text" {
		format = "console"
	}
	log, err := logging.NewLogger(logging.LogConfig{Level: cfg.Log.Level, Format: format})
	if err != nil {
		return err
	}
	log = log.Named("worker")
	log.Info("starting worker",
		logging.String("version", version),
		logging.Int("concurrency", cfg.Worker.Concurrency))

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	metrics := prometheus.NewMetrics(prom.DefaultRegisterer)
	recorder := prometheus.NewRecorder(metrics)

	pool, err := postgres.Connect(ctx, cfg.Database, log)
	if err != nil {
		return fmt.Errorf("postgres connect failed: %w", err)
	}
	defer pool.Close()

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

	seed := cfg.Analysis.EstimatorSeed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	svc := appaudit.NewAnalysisService(
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
		producer,
		recorder,
		log,
		appaudit.ServiceConfig{Timeout: cfg.Analysis.Timeout},
	)

	handler := func(ctx context.Context, ev kafka.AuditSubmittedEvent) error {
		_, err := svc.AnalyzeAudit(ctx, ev.AuditID)
		if apperrors.IsCode(err, apperrors.ErrCodeAuditNotFound) {
			// The audit was deleted before analysis ran; nothing to retry.
			log.Warn("skipping analysis of missing audit",
				logging.String("audit_id", string(ev.AuditID)))
			return nil
		}
		return err
	}

	g, gctx := errgroup.WithContext(ctx)
	consumers := make([]*kafka.Consumer, 0, cfg.Worker.Concurrency)
	for i := 0; i < cfg.Worker.Concurrency; i++ {
		c := kafka.NewConsumer(cfg.Kafka, log)
		consumers = append(consumers, c)
		g.Go(func() error { return c.Run(gctx, handler) })
	}

	<-gctx.Done()
	log.Info("shutdown signal received")
	for _, c := range consumers {
		if err := c.Close(); err != nil {
			log.Warn("consumer close failed", logging.Err(err))
		}
	}
	if err := g.Wait(); err != nil && ctx.Err() == nil {
		return err
	}
	return nil
}
