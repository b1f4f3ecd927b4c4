package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	domaudit "github.com/wattwise/HomeAudit-Intelligence/internal/domain/audit"
	"github.com/wattwise/HomeAudit-Intelligence/internal/infrastructure/monitoring/logging"
	apperrors "github.com/wattwise/HomeAudit-Intelligence/pkg/errors"
	audittypes "github.com/wattwise/HomeAudit-Intelligence/pkg/types/audit"
	"github.com/wattwise/HomeAudit-Intelligence/pkg/types/common"
)

type reportRepository struct {
	pool *pgxpool.Pool
	log  logging.Logger
}

// NewReportRepository constructs the PostgreSQL report repository.
func NewReportRepository(pool *pgxpool.Pool, log logging.Logger) domaudit.ReportRepository {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &reportRepository{pool: pool, log: log}
}

func (r *reportRepository) Save(ctx context.Context, res *audittypes.AnalysisResult) error {
	if res == nil || res.AuditID == "" {
		return apperrors.InvalidParam("analysis result with audit id is required")
	}
	if res.AnalyzedAt.IsZero() {
		res.AnalyzedAt = time.Now().UTC()
	}

	doc, err := json.Marshal(res)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeSerialization, "failed to marshal analysis result")
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO analysis_results (audit_id, result, overall_score, interpretation, analyzed_at)
		 VALUES ($1, $2, $3, $4, $5)
		 ON CONFLICT (audit_id) DO UPDATE SET
		   result = EXCLUDED.result,
		   overall_score = EXCLUDED.overall_score,
		   interpretation = EXCLUDED.interpretation,
		   analyzed_at = EXCLUDED.analyzed_at`,
		string(res.AuditID), doc,
		res.EfficiencyReport.OverallScore,
		string(res.EfficiencyReport.Interpretation),
		res.AnalyzedAt)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to store analysis result")
	}

	r.log.Debug("analysis result stored",
		logging.String("audit_id", string(res.AuditID)),
		logging.Float64("overall_score", res.EfficiencyReport.OverallScore))
	return nil
}

func (r *reportRepository) GetByAuditID(ctx context.Context, auditID common.ID) (*audittypes.AnalysisResult, error) {
	var doc []byte
	err := r.pool.QueryRow(ctx,
		`SELECT result FROM analysis_results WHERE audit_id = $1`, string(auditID)).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.New(apperrors.ErrCodeReportNotFound, "analysis result not found").WithDetail(string(auditID))
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to query analysis result")
	}

	res := &audittypes.AnalysisResult{}
	if err := json.Unmarshal(doc, res); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeSerialization, "failed to unmarshal analysis result")
	}
	return res, nil
}

func (r *reportRepository) List(ctx context.Context, p common.Pagination) ([]*audittypes.AnalysisResult, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM analysis_results`).Scan(&total); err != nil {
		return nil, 0, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to count analysis results")
	}

	rows, err := r.pool.Query(ctx,
		`SELECT result FROM analysis_results ORDER BY analyzed_at DESC LIMIT $1 OFFSET $2`,
		p.Limit(), p.Offset())
	if err != nil {
		return nil, 0, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to list analysis results")
	}
	defer rows.Close()

	var out []*audittypes.AnalysisResult
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, 0, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to scan result row")
		}
		res := &audittypes.AnalysisResult{}
		if err := json.Unmarshal(doc, res); err != nil {
			return nil, 0, apperrors.Wrap(err, apperrors.ErrCodeSerialization, "failed to unmarshal analysis result")
		}
		out = append(out, res)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "result row iteration failed")
	}
	return out, total, nil
}
