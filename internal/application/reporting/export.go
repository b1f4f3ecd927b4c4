// Package reporting renders analysis results into exportable documents.
package reporting

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/wattwise/HomeAudit-Intelligence/internal/infrastructure/monitoring/logging"
	apperrors "github.com/wattwise/HomeAudit-Intelligence/pkg/errors"
	audittypes "github.com/wattwise/HomeAudit-Intelligence/pkg/types/audit"
	"github.com/wattwise/HomeAudit-Intelligence/pkg/types/common"
)

// Format identifies an export encoding.
type Format string

const (
	FormatJSON Format = "json"
	FormatCSV  Format = "csv"
)

// ParseFormat validates a user-supplied format string.
func ParseFormat(s string) (Format, error) {
	switch Format(strings.ToLower(strings.TrimSpace(s))) {
	case FormatJSON, "":
		return FormatJSON, nil
	case FormatCSV:
		return FormatCSV, nil
	default:
		return "", apperrors.InvalidParam(fmt.Sprintf("unsupported export format %q", s))
	}
}

// ContentType returns the MIME type served for the format.
func (f Format) ContentType() string {
	if f == FormatCSV {
		return "text/csv"
	}
	return "application/json"
}

// Archiver persists rendered exports to object storage.
type Archiver interface {
	Store(ctx context.Context, auditID common.ID, format, contentType string, data []byte) (string, error)
}

// Exporter renders analysis results and optionally archives the rendering.
// A nil archiver disables archiving.
type Exporter struct {
	archiver Archiver
	log      logging.Logger
}

func NewExporter(archiver Archiver, log logging.Logger) *Exporter {
	if log == nil {
		log = logging.NewNopLogger()
	}
	return &Exporter{archiver: archiver, log: log.Named("export")}
}

// Export renders the result in the requested format.  When an archiver is
// configured the rendering is also stored; archive failures are logged and do
// not fail the export.
func (e *Exporter) Export(ctx context.Context, res *audittypes.AnalysisResult, format Format) ([]byte, error) {
	if res == nil {
		return nil, apperrors.InvalidParam("analysis result is required")
	}

	var (
		data []byte
		err  error
	)
	switch format {
	case FormatCSV:
		data, err = renderCSV(res)
	default:
		data, err = json.MarshalIndent(res, "", "  ")
		if err != nil {
			err = apperrors.Wrap(err, apperrors.ErrCodeSerialization, "failed to encode report")
		}
	}
	if err != nil {
		return nil, err
	}

	if e.archiver != nil && res.AuditID != "" {
		if loc, aerr := e.archiver.Store(ctx, res.AuditID, string(format), format.ContentType(), data); aerr != nil {
			e.log.Warn("failed to archive report",
				logging.String("audit_id", string(res.AuditID)),
				logging.Err(aerr))
		} else {
			e.log.Info("report archived",
				logging.String("audit_id", string(res.AuditID)),
				logging.String("location", loc))
		}
	}
	return data, nil
}

// renderCSV flattens the report into a summary section, one row per domain
// score, and one row per recommendation.
func renderCSV(res *audittypes.AnalysisResult) ([]byte, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	rows := [][]string{
		{"section", "field", "value"},
		{"summary", "audit_id", string(res.AuditID)},
		{"summary", "overall_score", formatScore(res.EfficiencyReport.OverallScore)},
		{"summary", "interpretation", string(res.EfficiencyReport.Interpretation)},
		{"summary", "age_factor", strconv.FormatFloat(res.EfficiencyReport.AgeFactor, 'f', 3, 64)},
		{"summary", "analyzed_at", res.AnalyzedAt.Format("2006-01-02T15:04:05Z07:00")},
	}

	domains := make([]string, 0, len(res.EfficiencyReport.DomainScores))
	for d := range res.EfficiencyReport.DomainScores {
		domains = append(domains, d)
	}
	sort.Strings(domains)
	for _, d := range domains {
		rows = append(rows, []string{"domain_score", d, formatScore(res.EfficiencyReport.DomainScores[d])})
	}

	rows = append(rows, []string{
		"recommendation_header", "type",
		"priority|scope|savings_usd_yr|cost_usd|payback_yrs",
	})
	for _, rec := range res.Recommendations {
		rows = append(rows, []string{
			"recommendation",
			rec.Type,
			strings.Join([]string{
				string(rec.Priority),
				rec.Scope,
				strconv.FormatFloat(rec.EstimatedSavings, 'f', 0, 64),
				strconv.FormatFloat(rec.EstimatedCost, 'f', 0, 64),
				strconv.FormatFloat(rec.PaybackYears, 'f', 1, 64),
			}, "|"),
		})
	}

	if err := w.WriteAll(rows); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeSerialization, "failed to encode report csv")
	}
	return buf.Bytes(), nil
}

func formatScore(v float64) string {
	return strconv.FormatFloat(v, 'f', 1, 64)
}
