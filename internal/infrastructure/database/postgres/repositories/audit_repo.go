// Package repositories contains the PostgreSQL-backed implementations of the
// domain repository interfaces.  Records are stored as JSONB documents with
// the frequently-queried columns lifted out for indexing.
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

type auditRepository struct {
	pool *pgxpool.Pool
	log  logging.Logger
}

// NewAuditRepository constructs the PostgreSQL audit repository.
func NewAuditRepository(pool *pgxpool.Pool, log logging.Logger) domaudit.AuditRepository {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &auditRepository{pool: pool, log: log}
}

func (r *auditRepository) Create(ctx context.Context, rec *audittypes.AuditRecord) error {
	if rec == nil {
		return apperrors.InvalidParam("audit record is required")
	}
	if rec.ID == "" {
		rec.ID = common.NewID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	doc, err := json.Marshal(rec)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeSerialization, "failed to marshal audit record")
	}

	_, err = r.pool.Exec(ctx,
		`INSERT INTO audits (id, record, created_at) VALUES ($1, $2, $3)
		 ON CONFLICT (id) DO UPDATE SET record = EXCLUDED.record`,
		string(rec.ID), doc, rec.CreatedAt)
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to insert audit record")
	}

	r.log.Debug("audit record stored", logging.String("audit_id", string(rec.ID)))
	return nil
}

func (r *auditRepository) GetByID(ctx context.Context, id common.ID) (*audittypes.AuditRecord, error) {
	var doc []byte
	err := r.pool.QueryRow(ctx,
		`SELECT record FROM audits WHERE id = $1`, string(id)).Scan(&doc)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, apperrors.New(apperrors.ErrCodeAuditNotFound, "audit not found").WithDetail(string(id))
	}
	if err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to query audit record")
	}

	rec := &audittypes.AuditRecord{}
	if err := json.Unmarshal(doc, rec); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeSerialization, "failed to unmarshal audit record")
	}
	return rec, nil
}

func (r *auditRepository) List(ctx context.Context, p common.Pagination) ([]*audittypes.AuditRecord, int64, error) {
	var total int64
	if err := r.pool.QueryRow(ctx, `SELECT count(*) FROM audits`).Scan(&total); err != nil {
		return nil, 0, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to count audits")
	}

	rows, err := r.pool.Query(ctx,
		`SELECT record FROM audits ORDER BY created_at DESC LIMIT $1 OFFSET $2`,
		p.Limit(), p.Offset())
	if err != nil {
		return nil, 0, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to list audits")
	}
	defer rows.Close()

	var out []*audittypes.AuditRecord
	for rows.Next() {
		var doc []byte
		if err := rows.Scan(&doc); err != nil {
			return nil, 0, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to scan audit row")
		}
		rec := &audittypes.AuditRecord{}
		if err := json.Unmarshal(doc, rec); err != nil {
			return nil, 0, apperrors.Wrap(err, apperrors.ErrCodeSerialization, "failed to unmarshal audit record")
		}
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "audit row iteration failed")
	}
	return out, total, nil
}

func (r *auditRepository) Delete(ctx context.Context, id common.ID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM audits WHERE id = $1`, string(id))
	if err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeDatabaseError, "failed to delete audit record")
	}
	if tag.RowsAffected() == 0 {
		return apperrors.New(apperrors.ErrCodeAuditNotFound, "audit not found").WithDetail(string(id))
	}
	return nil
}
