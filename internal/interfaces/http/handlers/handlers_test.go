package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wattwise/HomeAudit-Intelligence/internal/application/reporting"
	"github.com/wattwise/HomeAudit-Intelligence/internal/testutil"
	apperrors "github.com/wattwise/HomeAudit-Intelligence/pkg/errors"
	audittypes "github.com/wattwise/HomeAudit-Intelligence/pkg/types/audit"
	"github.com/wattwise/HomeAudit-Intelligence/pkg/types/common"
)

func init() {
	gin.SetMode(gin.TestMode)
}

// stubService satisfies appaudit.AnalysisService with canned responses.
type stubService struct {
	submitID  common.ID
	submitErr error
	result    *audittypes.AnalysisResult
	resultErr error
	list      []*audittypes.AnalysisResult
	total     int64
}

func (s *stubService) SubmitAudit(context.Context, *audittypes.AuditRecord) (common.ID, error) {
	return s.submitID, s.submitErr
}

func (s *stubService) AnalyzeAudit(context.Context, common.ID) (*audittypes.AnalysisResult, error) {
	return s.result, s.resultErr
}

func (s *stubService) AnalyzeRecord(context.Context, *audittypes.AuditRecord) (*audittypes.AnalysisResult, error) {
	return s.result, s.resultErr
}

func (s *stubService) GetReport(context.Context, common.ID) (*audittypes.AnalysisResult, error) {
	return s.result, s.resultErr
}

func (s *stubService) ListReports(context.Context, common.Pagination) ([]*audittypes.AnalysisResult, int64, error) {
	return s.list, s.total, s.resultErr
}

func testRouter(svc *stubService) *gin.Engine {
	r := gin.New()
	api := r.Group("/api/v1")
	NewAuditHandler(svc).RegisterRoutes(api)
	exporter := reporting.NewExporter(nil, testutil.NewMockLogger())
	NewReportHandler(svc, exporter).RegisterRoutes(api)
	return r
}

func sampleResult() *audittypes.AnalysisResult {
	return &audittypes.AnalysisResult{
		AuditID: "a-1",
		EfficiencyReport: audittypes.EfficiencyReport{
			OverallScore:   75,
			Interpretation: audittypes.TierGood,
			DomainScores:   map[string]float64{"energy": 72},
			AgeFactor:      1.0,
		},
		Recommendations: []audittypes.Recommendation{{Type: "Lighting System Upgrade"}},
		AnalyzedAt:      time.Date(2026, 2, 1, 12, 0, 0, 0, time.UTC),
	}
}

type envelope struct {
	Success    bool                `json:"success"`
	Data       json.RawMessage     `json:"data"`
	Error      *common.ErrorDetail `json:"error"`
	Pagination *common.Pagination  `json:"pagination"`
}

func doJSON(t *testing.T, r *gin.Engine, method, path string, body interface{}) (*httptest.ResponseRecorder, envelope) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	var env envelope
	if w.Header().Get("Content-Type") == "application/json; charset=utf-8" {
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &env))
	}
	return w, env
}

func TestSubmitAudit_Handler(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		r := testRouter(&stubService{submitID: "a-1"})
		w, env := doJSON(t, r, http.MethodPost, "/api/v1/audits", audittypes.AuditRecord{})
		assert.Equal(t, http.StatusAccepted, w.Code)
		assert.True(t, env.Success)
		assert.Contains(t, string(env.Data), `"audit_id":"a-1"`)
	})

	t.Run("malformed body", func(t *testing.T) {
		r := testRouter(&stubService{})
		req := httptest.NewRequest(http.MethodPost, "/api/v1/audits", bytes.NewBufferString("{not json"))
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestAnalyze_Handler(t *testing.T) {
	t.Run("returns report", func(t *testing.T) {
		r := testRouter(&stubService{result: sampleResult()})
		w, env := doJSON(t, r, http.MethodPost, "/api/v1/audits/a-1/analysis", nil)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.True(t, env.Success)
		assert.Contains(t, string(env.Data), `"overall_score":75`)
	})

	t.Run("audit missing", func(t *testing.T) {
		r := testRouter(&stubService{
			resultErr: apperrors.New(apperrors.ErrCodeAuditNotFound, "audit not found"),
		})
		w, env := doJSON(t, r, http.MethodPost, "/api/v1/audits/nope/analysis", nil)
		assert.Equal(t, http.StatusNotFound, w.Code)
		require.NotNil(t, env.Error)
		assert.Equal(t, string(apperrors.ErrCodeAuditNotFound), env.Error.Code)
	})

	t.Run("internal errors are masked", func(t *testing.T) {
		r := testRouter(&stubService{resultErr: errors.New("pgx: connection refused")})
		w, env := doJSON(t, r, http.MethodPost, "/api/v1/audits/a-1/analysis", nil)
		assert.Equal(t, http.StatusInternalServerError, w.Code)
		require.NotNil(t, env.Error)
		assert.NotContains(t, env.Error.Message, "pgx")
	})
}

func TestAnalyzeAdHoc_Handler(t *testing.T) {
	r := testRouter(&stubService{result: sampleResult()})
	w, env := doJSON(t, r, http.MethodPost, "/api/v1/analysis", audittypes.AuditRecord{})
	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, env.Success)
}

func TestGetReport_Handler(t *testing.T) {
	r := testRouter(&stubService{
		resultErr: apperrors.New(apperrors.ErrCodeReportNotFound, "report not found"),
	})
	w, _ := doJSON(t, r, http.MethodGet, "/api/v1/reports/a-9", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestListReports_Handler(t *testing.T) {
	r := testRouter(&stubService{
		list:  []*audittypes.AnalysisResult{sampleResult()},
		total: 41,
	})
	w, env := doJSON(t, r, http.MethodGet, "/api/v1/reports?page=2&page_size=10", nil)
	assert.Equal(t, http.StatusOK, w.Code)
	require.NotNil(t, env.Pagination)
	assert.Equal(t, 2, env.Pagination.Page)
	assert.Equal(t, 10, env.Pagination.PageSize)
	assert.Equal(t, int64(41), env.Pagination.Total)
}

func TestExportReport_Handler(t *testing.T) {
	t.Run("json attachment", func(t *testing.T) {
		r := testRouter(&stubService{result: sampleResult()})
		req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/a-1/export?format=json", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Disposition"), "report-a-1.json")

		var round audittypes.AnalysisResult
		require.NoError(t, json.Unmarshal(w.Body.Bytes(), &round))
		assert.Equal(t, common.ID("a-1"), round.AuditID)
	})

	t.Run("csv", func(t *testing.T) {
		r := testRouter(&stubService{result: sampleResult()})
		req := httptest.NewRequest(http.MethodGet, "/api/v1/reports/a-1/export?format=csv", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)

		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Header().Get("Content-Type"), "text/csv")
		assert.Contains(t, w.Body.String(), "summary,overall_score,75.0")
	})

	t.Run("unknown format", func(t *testing.T) {
		r := testRouter(&stubService{result: sampleResult()})
		w, _ := doJSON(t, r, http.MethodGet, "/api/v1/reports/a-1/export?format=pdf", nil)
		assert.Equal(t, http.StatusBadRequest, w.Code)
	})
}

func TestHealthHandler(t *testing.T) {
	t.Run("liveness", func(t *testing.T) {
		r := gin.New()
		NewHealthHandler("test").RegisterRoutes(r)
		req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusOK, w.Code)
		assert.Contains(t, w.Body.String(), `"status":"alive"`)
	})

	t.Run("readiness reflects checker failures", func(t *testing.T) {
		r := gin.New()
		NewHealthHandler("test",
			namedChecker{name: "postgres"},
			namedChecker{name: "redis", err: errors.New("dial tcp: refused")},
		).RegisterRoutes(r)

		req := httptest.NewRequest(http.MethodGet, "/readyz", nil)
		w := httptest.NewRecorder()
		r.ServeHTTP(w, req)
		assert.Equal(t, http.StatusServiceUnavailable, w.Code)
		assert.Contains(t, w.Body.String(), `"not_ready"`)
		assert.Contains(t, w.Body.String(), "dial tcp: refused")
	})
}

type namedChecker struct {
	name string
	err  error
}

func (c namedChecker) Name() string                  { return c.name }
func (c namedChecker) Check(_ context.Context) error { return c.err }
