package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/wattwise/HomeAudit-Intelligence/internal/application/reporting"
	apperrors "github.com/wattwise/HomeAudit-Intelligence/pkg/errors"
	audittypes "github.com/wattwise/HomeAudit-Intelligence/pkg/types/audit"
)

// NewReportCmd creates the report command for re-rendering stored results.
func NewReportCmd(opts *RootOptions) *cobra.Command {
	reportCmd := &cobra.Command{
		Use:   "report",
		Short: "Work with saved analysis results",
	}

	var (
		inputPath  string
		outputPath string
		format     string
	)

	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Re-render a saved analysis result as json or csv",
		Example: `  auditctl report export --file result.json --format csv
  auditctl report export -f result.json --format csv -o report.csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			log, err := newCLILogger(opts)
			if err != nil {
				return err
			}

			data, err := os.ReadFile(inputPath)
			if err != nil {
				return fmt.Errorf("failed to read result file: %w", err)
			}
			var res audittypes.AnalysisResult
			if err := json.Unmarshal(data, &res); err != nil {
				return apperrors.InvalidParam("malformed result file: " + err.Error())
			}

			f, err := reporting.ParseFormat(format)
			if err != nil {
				return err
			}

			exporter := reporting.NewExporter(nil, log)
			out, err := exporter.Export(cmd.Context(), &res, f)
			if err != nil {
				return err
			}

			if outputPath != "" {
				return os.WriteFile(outputPath, out, 0o644)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}

	exportCmd.Flags().StringVarP(&inputPath, "file", "f", "", "saved analysis result JSON file (required)")
	exportCmd.Flags().StringVarP(&outputPath, "output", "o", "", "write to a file instead of stdout")
	exportCmd.Flags().StringVar(&format, "format", "json", "export format: json|csv")
	_ = exportCmd.MarkFlagRequired("file")

	showCmd := &cobra.Command{
		Use:   "show",
		Short: "Print a saved analysis result as a readable summary",
		RunE: func(cmd *cobra.Command, args []string) error {
			data, err := os.ReadFile(inputPath)
			if err != nil {
				return fmt.Errorf("failed to read result file: %w", err)
			}
			var res audittypes.AnalysisResult
			if err := json.Unmarshal(data, &res); err != nil {
				return apperrors.InvalidParam("malformed result file: " + err.Error())
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), renderText(&res))
			return err
		},
	}
	showCmd.Flags().StringVarP(&inputPath, "file", "f", "", "saved analysis result JSON file (required)")
	_ = showCmd.MarkFlagRequired("file")

	reportCmd.AddCommand(exportCmd, showCmd)
	return reportCmd
}
