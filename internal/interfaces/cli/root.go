// Package cli implements the auditctl command tree.  The CLI runs the
// analysis pipeline in-process so audits can be scored from survey files
// without a running server.
package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	appaudit "github.com/wattwise/HomeAudit-Intelligence/internal/application/audit"
	"github.com/wattwise/HomeAudit-Intelligence/internal/domain/analysis"
	domaudit "github.com/wattwise/HomeAudit-Intelligence/internal/domain/audit"
	"github.com/wattwise/HomeAudit-Intelligence/internal/domain/recommendation"
	"github.com/wattwise/HomeAudit-Intelligence/internal/infrastructure/monitoring/logging"
)

// Build-time variables injected via ldflags.
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

// RootOptions holds global CLI flags.
type RootOptions struct {
	LogLevel string
	Verbose  bool
	Seed     int64
}

// NewRootCommand creates the root cobra command with global flags and
// subcommands attached.
func NewRootCommand() *cobra.Command {
	opts := &RootOptions{}

	cmd := &cobra.Command{
		Use:   "auditctl",
		Short: "WattWise home energy audit analysis",
		Long: "auditctl scores home energy audit surveys: it normalizes raw survey\n" +
			"data, rates the energy, HVAC, lighting and humidity domains, and emits\n" +
			"an efficiency report with prioritized improvement recommendations.",
		Version:       fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildDate),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := cmd.PersistentFlags()
	pf.StringVar(&opts.LogLevel, "log-level", "warn", "log level (debug, info, warn, error)")
	pf.BoolVarP(&opts.Verbose, "verbose", "v", false, "enable verbose output")
	pf.Int64Var(&opts.Seed, "seed", 0, "random seed for cost estimates (0 = time-based)")

	cmd.AddCommand(
		NewAnalyzeCmd(opts),
		NewReportCmd(opts),
	)
	return cmd
}

// Execute runs the CLI and reports its exit status.
func Execute() error {
	rootCmd := NewRootCommand()
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(rootCmd.ErrOrStderr(), "Error: %s\n", err.Error())
		return err
	}
	return nil
}

// newCLILogger builds a console logger writing to stderr so stdout stays
// clean for piped output.
func newCLILogger(opts *RootOptions) (logging.Logger, error) {
	level := strings.ToLower(opts.LogLevel)
	if opts.Verbose {
		level = "debug"
	}
	return logging.NewLogger(logging.LogConfig{
		Level:            level,
		Format:           "console",
		OutputPaths:      []string{"stderr"},
		ErrorOutputPaths: []string{"stderr"},
	})
}

// newPipeline assembles a standalone analysis service with no persistence,
// cache or messaging attached.
func newPipeline(opts *RootOptions, log logging.Logger) appaudit.AnalysisService {
	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	estimator := recommendation.NewSeededEstimator(log, seed)
	return appaudit.NewAnalysisService(
		domaudit.NewNormalizer(log),
		[]analysis.Analyzer{
			analysis.NewEnergyAnalyzer(),
			analysis.NewHVACAnalyzer(),
			analysis.NewLightingAnalyzer(),
			analysis.NewHumidityAnalyzer(),
		},
		analysis.NewAggregator(log),
		recommendation.NewGenerator(estimator, log),
		recommendation.NewMatcher(recommendation.NewStaticCatalog(), log),
		nil, nil, nil, nil, nil,
		log,
		appaudit.ServiceConfig{},
	)
}

// formatTable renders headers and rows as an aligned ASCII table.
func formatTable(headers []string, rows [][]string) string {
	widths := make([]int, len(headers))
	for i, h := range headers {
		widths[i] = len(h)
	}
	for _, row := range rows {
		for i := 0; i < len(row) && i < len(widths); i++ {
			if len(row[i]) > widths[i] {
				widths[i] = len(row[i])
			}
		}
	}

	var sb strings.Builder
	writeRow := func(cells []string) {
		for i := range headers {
			if i > 0 {
				sb.WriteString("  ")
			}
			val := ""
			if i < len(cells) {
				val = cells[i]
			}
			sb.WriteString(padRight(val, widths[i]))
		}
		sb.WriteString("\n")
	}

	writeRow(headers)
	for i, w := range widths {
		if i > 0 {
			sb.WriteString("  ")
		}
		sb.WriteString(strings.Repeat("-", w))
	}
	sb.WriteString("\n")
	for _, row := range rows {
		writeRow(row)
	}
	return sb.String()
}

func padRight(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}
