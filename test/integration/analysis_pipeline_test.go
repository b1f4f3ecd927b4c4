//go:build integration

// End-to-end pipeline test against a real PostgreSQL instance: submit an
// audit, analyze it, and read the stored report back.  Requires Docker.
package integration

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

	appaudit "github.com/wattwise/HomeAudit-Intelligence/internal/application/audit"
	"github.com/wattwise/HomeAudit-Intelligence/internal/domain/analysis"
	domaudit "github.com/wattwise/HomeAudit-Intelligence/internal/domain/audit"
	"github.com/wattwise/HomeAudit-Intelligence/internal/domain/recommendation"
	"github.com/wattwise/HomeAudit-Intelligence/internal/infrastructure/database/postgres/repositories"
	"github.com/wattwise/HomeAudit-Intelligence/internal/testutil"
	audittypes "github.com/wattwise/HomeAudit-Intelligence/pkg/types/audit"
	"github.com/wattwise/HomeAudit-Intelligence/pkg/types/common"
)

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

	pool, err := pgxpool.New(ctx,
		fmt.Sprintf("postgres://test:test@%s:%s/wattwise_test?sslmode=disable", host, port.Port()))
	require.NoError(t, err)
	t.Cleanup(pool.Close)

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
	_, err = pool.Exec(ctx, ddl)
	require.NoError(t, err)
	return pool
}

func fptr(v float64) *float64 { return &v }
func sptr(v string) *string   { return &v }

func TestAnalysisPipelineEndToEnd(t *testing.T) {
	pool := startPostgres(t)
	log := testutil.NewMockLogger()

	svc := appaudit.NewAnalysisService(
		domaudit.NewNormalizer(log),
		[]analysis.Analyzer{
			analysis.NewEnergyAnalyzer(),
			analysis.NewHVACAnalyzer(),
			analysis.NewLightingAnalyzer(),
			analysis.NewHumidityAnalyzer(),
		},
		analysis.NewAggregator(log),
		recommendation.NewGenerator(recommendation.NewSeededEstimator(log, 99), log),
		recommendation.NewMatcher(recommendation.NewStaticCatalog(), log),
		repositories.NewAuditRepository(pool, log),
		repositories.NewReportRepository(pool, log),
		nil, nil, nil,
		log,
		appaudit.ServiceConfig{Timeout: 10 * time.Second},
	)

	ctx := context.Background()
	rec := &audittypes.AuditRecord{
		BasicInfo: &audittypes.BasicInfo{
			YearBuilt:     fptr(1972),
			SquareFootage: fptr(1850),
		},
		HVAC: &audittypes.HVACSystem{
			SystemType: sptr("furnace"),
			Age:        fptr(20),
			Efficiency: fptr(74),
		},
		Lighting: &audittypes.LightingMix{
			LEDPercent:          fptr(15),
			CFLPercent:          fptr(25),
			IncandescentPercent: fptr(60),
		},
		Utility: &audittypes.UtilityBills{
			ElectricKWhPerYear: fptr(26000),
			GasThermsPerYear:   fptr(800),
		},
		Humidity: &audittypes.HumidityReadings{CurrentRH: fptr(64)},
		Envelope: &audittypes.EnvelopeCondition{
			WindowType:      sptr("single-pane"),
			AtticInsulation: sptr("poor"),
		},
	}

	id, err := svc.SubmitAudit(ctx, rec)
	require.NoError(t, err)
	require.NotEmpty(t, id)

	res, err := svc.AnalyzeAudit(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, id, res.AuditID)
	assert.GreaterOrEqual(t, res.EfficiencyReport.OverallScore, 60.0)
	assert.LessOrEqual(t, res.EfficiencyReport.OverallScore, 95.0)
	assert.NotEmpty(t, res.Recommendations)

	// The stored report matches what the pipeline returned.
	stored, err := svc.GetReport(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, res.EfficiencyReport, stored.EfficiencyReport)
	assert.Equal(t, len(res.Recommendations), len(stored.Recommendations))

	results, total, err := svc.ListReports(ctx, common.Pagination{Page: 1, PageSize: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, results, 1)
}
