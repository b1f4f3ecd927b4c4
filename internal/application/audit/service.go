// Package audit is the application layer of the analysis pipeline: it
// orchestrates normalization, the parallel domain analyzers, aggregation,
// recommendation generation, and product matching, plus persistence, caching
// and event publication around them.
package audit

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/wattwise/HomeAudit-Intelligence/internal/domain/analysis"
	domaudit "github.com/wattwise/HomeAudit-Intelligence/internal/domain/audit"
	"github.com/wattwise/HomeAudit-Intelligence/internal/domain/recommendation"
	"github.com/wattwise/HomeAudit-Intelligence/internal/infrastructure/monitoring/logging"
	apperrors "github.com/wattwise/HomeAudit-Intelligence/pkg/errors"
	audittypes "github.com/wattwise/HomeAudit-Intelligence/pkg/types/audit"
	"github.com/wattwise/HomeAudit-Intelligence/pkg/types/common"
)

// ─────────────────────────────────────────────────────────────────────────────
// Ports
// ─────────────────────────────────────────────────────────────────────────────

// ResultCache is the analysis result cache port.
type ResultCache interface {
	Get(ctx context.Context, auditID common.ID) (*audittypes.AnalysisResult, bool)
	Set(ctx context.Context, res *audittypes.AnalysisResult)
	Invalidate(ctx context.Context, auditID common.ID)
	GetOrCompute(ctx context.Context, auditID common.ID,
		compute func(context.Context) (*audittypes.AnalysisResult, error)) (*audittypes.AnalysisResult, error)
}

// EventPublisher announces audit lifecycle events.
type EventPublisher interface {
	PublishSubmitted(ctx context.Context, auditID common.ID) error
	PublishAnalyzed(ctx context.Context, res *audittypes.AnalysisResult) error
}

// MetricsRecorder receives pipeline instrumentation.  The prometheus-backed
// implementation lives in infrastructure/monitoring.
type MetricsRecorder interface {
	AnalysisCompleted(outcome string, duration time.Duration)
	NormalizationCorrections(count int)
	ContractViolation(domain string)
	RecommendationGenerated(recType string)
	OverallScore(score float64, substituted bool)
	CacheHit()
	CacheMiss()
}

// ─────────────────────────────────────────────────────────────────────────────
// Service
// ─────────────────────────────────────────────────────────────────────────────

// AnalysisService is the application facade over the audit analysis pipeline.
type AnalysisService interface {
	// SubmitAudit stores a raw audit and queues it for asynchronous
	// analysis, returning its ID.
	SubmitAudit(ctx context.Context, rec *audittypes.AuditRecord) (common.ID, error)

	// AnalyzeAudit runs (or returns the cached) analysis of a stored audit,
	// persisting the result.
	AnalyzeAudit(ctx context.Context, auditID common.ID) (*audittypes.AnalysisResult, error)

	// AnalyzeRecord analyzes an ad-hoc record without persistence.
	AnalyzeRecord(ctx context.Context, rec *audittypes.AuditRecord) (*audittypes.AnalysisResult, error)

	// GetReport returns the stored analysis result for an audit.
	GetReport(ctx context.Context, auditID common.ID) (*audittypes.AnalysisResult, error)

	// ListReports pages through stored analysis results, newest first.
	ListReports(ctx context.Context, p common.Pagination) ([]*audittypes.AnalysisResult, int64, error)
}

// ServiceConfig holds pipeline tunables.
type ServiceConfig struct {
	// Timeout bounds one full analysis run.
	Timeout time.Duration
}

type analysisServiceImpl struct {
	normalizer *domaudit.Normalizer
	analyzers  []analysis.Analyzer
	aggregator *analysis.Aggregator
	generator  *recommendation.Generator
	matcher    *recommendation.Matcher

	auditRepo  domaudit.AuditRepository
	reportRepo domaudit.ReportRepository
	cache      ResultCache
	events     EventPublisher
	metrics    MetricsRecorder
	log        logging.Logger
	cfg        ServiceConfig

	now func() time.Time
}

// NewAnalysisService constructs the production pipeline service.  The cache,
// events and metrics dependencies accept nil and degrade to no-ops; the
// domain components and repositories are required.
func NewAnalysisService(
	normalizer *domaudit.Normalizer,
	analyzers []analysis.Analyzer,
	aggregator *analysis.Aggregator,
	generator *recommendation.Generator,
	matcher *recommendation.Matcher,
	auditRepo domaudit.AuditRepository,
	reportRepo domaudit.ReportRepository,
	cache ResultCache,
	events EventPublisher,
	metrics MetricsRecorder,
	log logging.Logger,
	cfg ServiceConfig,
) AnalysisService {
	if log == nil {
		log = logging.NewNopLogger()
	}
	if cache == nil {
		cache = noopCache{}
	}
	if events == nil {
		events = noopPublisher{}
	}
	if metrics == nil {
		metrics = noopMetrics{}
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 30 * time.Second
	}
	return &analysisServiceImpl{
		normalizer: normalizer,
		analyzers:  analyzers,
		aggregator: aggregator,
		generator:  generator,
		matcher:    matcher,
		auditRepo:  auditRepo,
		reportRepo: reportRepo,
		cache:      cache,
		events:     events,
		metrics:    metrics,
		log:        log.Named("analysis"),
		cfg:        cfg,
		now:        time.Now,
	}
}

func (s *analysisServiceImpl) SubmitAudit(ctx context.Context, rec *audittypes.AuditRecord) (common.ID, error) {
	if rec == nil {
		return "", apperrors.InvalidParam("audit record is required")
	}
	if rec.ID == "" {
		rec.ID = common.NewID()
	}

	if err := s.auditRepo.Create(ctx, rec); err != nil {
		return "", err
	}

	// Publication is best-effort: the audit is durable and analysis can be
	// triggered synchronously if the queue is down.
	if err := s.events.PublishSubmitted(ctx, rec.ID); err != nil {
		s.log.Warn("failed to queue audit for analysis",
			logging.String("audit_id", string(rec.ID)),
			logging.Err(err))
	}

	s.log.Info("audit submitted", logging.String("audit_id", string(rec.ID)))
	return rec.ID, nil
}

func (s *analysisServiceImpl) AnalyzeAudit(ctx context.Context, auditID common.ID) (*audittypes.AnalysisResult, error) {
	if auditID == "" {
		return nil, apperrors.InvalidParam("audit id is required")
	}

	if res, ok := s.cache.Get(ctx, auditID); ok {
		s.metrics.CacheHit()
		return res, nil
	}
	s.metrics.CacheMiss()

	return s.cache.GetOrCompute(ctx, auditID, func(ctx context.Context) (*audittypes.AnalysisResult, error) {
		rec, err := s.auditRepo.GetByID(ctx, auditID)
		if err != nil {
			return nil, err
		}

		res, err := s.AnalyzeRecord(ctx, rec)
		if err != nil {
			return nil, err
		}
		res.AuditID = auditID

		if err := s.reportRepo.Save(ctx, res); err != nil {
			return nil, err
		}

		if err := s.events.PublishAnalyzed(ctx, res); err != nil {
			s.log.Warn("failed to publish analysis completion",
				logging.String("audit_id", string(auditID)),
				logging.Err(err))
		}
		return res, nil
	})
}

// AnalyzeRecord is the pipeline core.  It cannot fail for bad input: the
// normalizer repairs the record and analyzer failures degrade to fallback
// scores, so a report is always produced.  Only a cancelled context or an
// internal bug surfaces as an error.
func (s *analysisServiceImpl) AnalyzeRecord(ctx context.Context, rec *audittypes.AuditRecord) (*audittypes.AnalysisResult, error) {
	start := s.now()
	ctx, cancel := context.WithTimeout(ctx, s.cfg.Timeout)
	defer cancel()

	// Stage 1: normalization.
	normalized, corrections := s.normalizer.Normalize(rec)
	s.metrics.NormalizationCorrections(len(corrections))

	// Stage 2: domain analyzers fan out in parallel over the immutable
	// normalized record and join before aggregation.
	scores := make([]analysis.DomainScore, len(s.analyzers))
	g, gctx := errgroup.WithContext(ctx)
	for i, a := range s.analyzers {
		i, a := i, a
		g.Go(func() error {
			ds, err := a.Analyze(gctx, normalized)
			if err != nil {
				s.log.Error("analyzer failed, using fallback score",
					logging.String("domain", a.Domain()),
					logging.Err(err))
				s.metrics.ContractViolation(a.Domain())
				scores[i] = analysis.FallbackScore(a.Domain())
				return nil
			}

			validated, verr := analysis.ValidateScore(ds, s.log)
			if verr != nil {
				s.metrics.ContractViolation(a.Domain())
			}
			scores[i] = validated
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		s.metrics.AnalysisCompleted("error", s.now().Sub(start))
		return nil, apperrors.Wrap(err, apperrors.ErrCodeAnalysisFailed, "analysis fan-out failed")
	}
	if err := ctx.Err(); err != nil {
		s.metrics.AnalysisCompleted("error", s.now().Sub(start))
		return nil, apperrors.Wrap(err, apperrors.ErrCodeAnalysisFailed, "analysis deadline exceeded")
	}

	// Stage 3: aggregation.
	report := s.aggregator.Aggregate(scores, normalized.YearBuilt)
	s.metrics.OverallScore(report.OverallScore, report.ScoreSubstituted)

	// Stage 4: recommendations and product matching.
	recs := s.generator.Generate(normalized, scores)
	s.matcher.Match(ctx, recs)
	for _, r := range recs {
		s.metrics.RecommendationGenerated(r.Type)
	}

	var auditID common.ID
	if rec != nil {
		auditID = rec.ID
	}
	res := &audittypes.AnalysisResult{
		AuditID:          auditID,
		EfficiencyReport: report,
		Recommendations:  recs,
		AnalyzedAt:       s.now().UTC(),
	}

	s.metrics.AnalysisCompleted("success", s.now().Sub(start))
	s.log.Info("audit analyzed",
		logging.String("audit_id", string(res.AuditID)),
		logging.Float64("overall_score", report.OverallScore),
		logging.String("interpretation", string(report.Interpretation)),
		logging.Int("recommendations", len(recs)),
		logging.Int("corrections", len(corrections)))
	return res, nil
}

func (s *analysisServiceImpl) GetReport(ctx context.Context, auditID common.ID) (*audittypes.AnalysisResult, error) {
	if auditID == "" {
		return nil, apperrors.InvalidParam("audit id is required")
	}

	if res, ok := s.cache.Get(ctx, auditID); ok {
		s.metrics.CacheHit()
		return res, nil
	}
	s.metrics.CacheMiss()

	res, err := s.reportRepo.GetByAuditID(ctx, auditID)
	if err != nil {
		return nil, err
	}
	s.cache.Set(ctx, res)
	return res, nil
}

func (s *analysisServiceImpl) ListReports(ctx context.Context, p common.Pagination) ([]*audittypes.AnalysisResult, int64, error) {
	return s.reportRepo.List(ctx, p)
}

// ─────────────────────────────────────────────────────────────────────────────
// No-op fallbacks
// ─────────────────────────────────────────────────────────────────────────────

type noopCache struct{}

func (noopCache) Get(context.Context, common.ID) (*audittypes.AnalysisResult, bool) { return nil, false }
func (noopCache) Set(context.Context, *audittypes.AnalysisResult)                   {}
func (noopCache) Invalidate(context.Context, common.ID)                             {}
func (noopCache) GetOrCompute(ctx context.Context, _ common.ID,
	compute func(context.Context) (*audittypes.AnalysisResult, error)) (*audittypes.AnalysisResult, error) {
	return compute(ctx)
}

type noopPublisher struct{}

func (noopPublisher) PublishSubmitted(context.Context, common.ID) error                 { return nil }
func (noopPublisher) PublishAnalyzed(context.Context, *audittypes.AnalysisResult) error { return nil }

type noopMetrics struct{}

func (noopMetrics) AnalysisCompleted(string, time.Duration) {}
func (noopMetrics) NormalizationCorrections(int)            {}
func (noopMetrics) ContractViolation(string)                {}
func (noopMetrics) RecommendationGenerated(string)          {}
func (noopMetrics) OverallScore(float64, bool)              {}
func (noopMetrics) CacheHit()                               {}
func (noopMetrics) CacheMiss()                              {}
