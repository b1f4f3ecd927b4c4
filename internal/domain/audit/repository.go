package audit

import (
	"context"

	"github.com/wattwise/HomeAudit-Intelligence/pkg/types/audit"
	"github.com/wattwise/HomeAudit-Intelligence/pkg/types/common"
)

// AuditRepository is the persistence port for raw audit records.
// Implementations live under internal/infrastructure/database.
type AuditRepository interface {
	Create(ctx context.Context, rec *audit.AuditRecord) error
	GetByID(ctx context.Context, id common.ID) (*audit.AuditRecord, error)
	List(ctx context.Context, p common.Pagination) ([]*audit.AuditRecord, int64, error)
	Delete(ctx context.Context, id common.ID) error
}

// ReportRepository stores completed analysis results keyed by audit ID.
// Results are write-once: a re-analysis replaces the stored result whole.
type ReportRepository interface {
	Save(ctx context.Context, res *audit.AnalysisResult) error
	GetByAuditID(ctx context.Context, auditID common.ID) (*audit.AnalysisResult, error)
	List(ctx context.Context, p common.Pagination) ([]*audit.AnalysisResult, int64, error)
}
