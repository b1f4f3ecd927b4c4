//go:build integration

// Integration tests for the PostgreSQL repositories.  They require Docker and
// are gated behind the "integration" build tag.
package repositories_test

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/wattwise/HomeAudit-Intelligence/internal/infrastructure/database/postgres/repositories"
	"github.com/wattwise/HomeAudit-Intelligence/internal/testutil"
	apperrors "github.com/wattwise/HomeAudit-Intelligence/pkg/errors"
	audittypes "github.com/wattwise/HomeAudit-Intelligence/pkg/types/audit"
	"github.com/wattwise/HomeAudit-Intelligence/pkg/types/common"
)

// startPostgres launches a PostgreSQL 16 container and returns a connected
// pool with the schema applied.
func startPostgres(t *testing.T) *pgxpool.Pool {
	t.Helper()
	ctx := context.Background()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:16-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "test",
			"POSTGRES_PASSWORD": "test",
			"POSTGRES_DB":       "wattwise_test",
		},
		WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "5432")
	require.NoError(t, err)

	dsn := fmt.Sprintf("postgres://test:test@%s:%s/wattwise_test?sslmode=disable", host, port.Port())
	pool, err := pgxpool.New(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	applySchema(t, pool)
	return pool
}

func applySchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()
	ddl := `
	CREATE TABLE IF NOT EXISTS audits (
		id         TEXT PRIMARY KEY,
		record     JSONB NOT NULL,
		created_at TIMESTAMPTZ NOT NULL DEFAULT now()
	);
	CREATE TABLE IF NOT EXISTS analysis_results (
		audit_id       TEXT PRIMARY KEY REFERENCES audits (id) ON DELETE CASCADE,
		result         JSONB NOT NULL,
		overall_score  DOUBLE PRECISION NOT NULL,
		interpretation TEXT NOT NULL,
		analyzed_at    TIMESTAMPTZ NOT NULL
	);`
	_, err := pool.Exec(context.Background(), ddl)
	require.NoError(t, err)
}

func fptr(v float64) *float64 { return &v }

func sampleRecord(id common.ID) *audittypes.AuditRecord {
	return &audittypes.AuditRecord{
		ID: id,
		BasicInfo: &audittypes.BasicInfo{
			YearBuilt:     fptr(1992),
			SquareFootage: fptr(2100),
		},
		CreatedAt: time.Now().UTC(),
	}
}

func TestAuditRepository(t *testing.T) {
	pool := startPostgres(t)
	repo := repositories.NewAuditRepository(pool, testutil.NewMockLogger())
	ctx := context.Background()

	t.Run("create and get round-trip", func(t *testing.T) {
		id := common.NewID()
		require.NoError(t, repo.Create(ctx, sampleRecord(id)))

		got, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, id, got.ID)
		require.NotNil(t, got.BasicInfo)
		assert.Equal(t, 1992.0, *got.BasicInfo.YearBuilt)
	})

	t.Run("create is idempotent per id", func(t *testing.T) {
		id := common.NewID()
		rec := sampleRecord(id)
		require.NoError(t, repo.Create(ctx, rec))
		rec.BasicInfo.SquareFootage = fptr(3000)
		require.NoError(t, repo.Create(ctx, rec))

		got, err := repo.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, 3000.0, *got.BasicInfo.SquareFootage)
	})

	t.Run("missing audit", func(t *testing.T) {
		_, err := repo.GetByID(ctx, common.NewID())
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeAuditNotFound))
	})

	t.Run("list pages newest first", func(t *testing.T) {
		for i := 0; i < 5; i++ {
			require.NoError(t, repo.Create(ctx, sampleRecord(common.NewID())))
		}
		records, total, err := repo.List(ctx, common.Pagination{Page: 1, PageSize: 3})
		require.NoError(t, err)
		assert.Len(t, records, 3)
		assert.GreaterOrEqual(t, total, int64(5))
	})

	t.Run("delete", func(t *testing.T) {
		id := common.NewID()
		require.NoError(t, repo.Create(ctx, sampleRecord(id)))
		require.NoError(t, repo.Delete(ctx, id))
		_, err := repo.GetByID(ctx, id)
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeAuditNotFound))
	})
}

func TestReportRepository(t *testing.T) {
	pool := startPostgres(t)
	auditRepo := repositories.NewAuditRepository(pool, testutil.NewMockLogger())
	repo := repositories.NewReportRepository(pool, testutil.NewMockLogger())
	ctx := context.Background()

	newResult := func(t *testing.T, score float64) *audittypes.AnalysisResult {
		t.Helper()
		id := common.NewID()
		require.NoError(t, auditRepo.Create(ctx, sampleRecord(id)))
		return &audittypes.AnalysisResult{
			AuditID: id,
			EfficiencyReport: audittypes.EfficiencyReport{
				OverallScore:   score,
				Interpretation: audittypes.TierForScore(score),
				DomainScores:   map[string]float64{"energy": score},
				AgeFactor:      1.0,
			},
			Recommendations: []audittypes.Recommendation{{Type: "Lighting System Upgrade"}},
			AnalyzedAt:      time.Now().UTC().Truncate(time.Microsecond),
		}
	}

	t.Run("save and get round-trip", func(t *testing.T) {
		res := newResult(t, 77.5)
		require.NoError(t, repo.Save(ctx, res))

		got, err := repo.GetByAuditID(ctx, res.AuditID)
		require.NoError(t, err)
		assert.Equal(t, res.EfficiencyReport, got.EfficiencyReport)
		assert.Len(t, got.Recommendations, 1)
	})

	t.Run("re-analysis replaces the stored result", func(t *testing.T) {
		res := newResult(t, 66)
		require.NoError(t, repo.Save(ctx, res))

		res.EfficiencyReport.OverallScore = 81
		require.NoError(t, repo.Save(ctx, res))

		got, err := repo.GetByAuditID(ctx, res.AuditID)
		require.NoError(t, err)
		assert.Equal(t, 81.0, got.EfficiencyReport.OverallScore)
	})

	t.Run("missing report", func(t *testing.T) {
		_, err := repo.GetByAuditID(ctx, common.NewID())
		assert.True(t, apperrors.IsCode(err, apperrors.ErrCodeReportNotFound))
	})
}
