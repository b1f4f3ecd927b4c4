package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	apperrors "github.com/wattwise/HomeAudit-Intelligence/pkg/errors"
	audittypes "github.com/wattwise/HomeAudit-Intelligence/pkg/types/audit"
)

// NewAnalyzeCmd creates the analyze command.
func NewAnalyzeCmd(opts *RootOptions) *cobra.Command {
	var (
		inputPath  string
		outputPath string
		format     string
	)

	cmd := &cobra.Command{
		Use:   "analyze",
		Short: "Analyze an audit survey file",
		Long: "Analyze reads a JSON audit survey, runs the full scoring pipeline and\n" +
			"prints the efficiency report with recommendations.",
		Example: `  auditctl analyze --file survey.json
  auditctl analyze --file survey.json --format json --output report.json`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newCLILogger(opts)
			if err != nil {
				return err
			}

			rec, err := readAuditFile(inputPath)
			if err != nil {
				return err
			}

			svc := newPipeline(opts, log)
			res, err := svc.AnalyzeRecord(cmd.Context(), rec)
			if err != nil {
				return err
			}

			return writeResult(cmd, res, format, outputPath)
		},
	}

	cmd.Flags().StringVarP(&inputPath, "file", "f", "", "audit survey JSON file (required)")
	cmd.Flags().StringVarP(&outputPath, "output", "o", "", "write the report to a file instead of stdout")
	cmd.Flags().StringVar(&format, "format", "text", "output format: text|json")
	_ = cmd.MarkFlagRequired("file")
	return cmd
}

func readAuditFile(path string) (*audittypes.AuditRecord, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read audit file: %w", err)
	}
	var rec audittypes.AuditRecord
	if err := json.Unmarshal(data, &rec); err != nil {
		return nil, apperrors.InvalidParam("malformed audit file: " + err.Error())
	}
	return &rec, nil
}

func writeResult(cmd *cobra.Command, res *audittypes.AnalysisResult, format, outputPath string) error {
	var out []byte
	switch format {
	case "json":
		data, err := json.MarshalIndent(res, "", "  ")
		if err != nil {
			return err
		}
		out = append(data, '\n')
	case "text", "":
		out = []byte(renderText(res))
	default:
		return apperrors.InvalidParam(fmt.Sprintf("unsupported format %q", format))
	}

	if outputPath != "" {
		return os.WriteFile(outputPath, out, 0o644)
	}
	_, err := cmd.OutOrStdout().Write(out)
	return err
}

// renderText produces the human-readable report.
func renderText(res *audittypes.AnalysisResult) string {
	report := res.EfficiencyReport

	out := fmt.Sprintf("Overall efficiency: %.1f (%s)\n\n", report.OverallScore, report.Interpretation)

	rows := make([][]string, 0, len(report.DomainScores))
	for _, d := range []string{"energy", "hvac", "lighting", "humidity"} {
		if score, ok := report.DomainScores[d]; ok {
			rows = append(rows, []string{d, fmt.Sprintf("%.1f", score)})
		}
	}
	out += formatTable([]string{"DOMAIN", "SCORE"}, rows) + "\n"

	recRows := make([][]string, 0, len(res.Recommendations))
	for _, rec := range res.Recommendations {
		recRows = append(recRows, []string{
			rec.Type,
			string(rec.Priority),
			rec.Scope,
			fmt.Sprintf("$%.0f/yr", rec.EstimatedSavings),
			fmt.Sprintf("$%.0f", rec.EstimatedCost),
			fmt.Sprintf("%.1f yrs", rec.PaybackYears),
		})
	}
	out += formatTable(
		[]string{"RECOMMENDATION", "PRIORITY", "SCOPE", "SAVINGS", "COST", "PAYBACK"},
		recRows)
	return out
}
