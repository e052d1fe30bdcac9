package cmd

import (
	"fmt"
	"path/filepath"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tablelens/internal/analysis"
	"github.com/KaramelBytes/tablelens/internal/logger"
	"github.com/KaramelBytes/tablelens/internal/parser"
	"github.com/KaramelBytes/tablelens/internal/utils"
)

var (
	anaReport     string
	anaFormat     string
	anaOutputPath string
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <file.csv>",
	Short: "Analyze a CSV file and print a report",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path := args[0]
		a, err := analyzeFile(path)
		if err != nil {
			return err
		}
		out, err := renderReport(a, anaReport, resolveFormat(anaFormat), filepath.Base(path))
		if err != nil {
			return err
		}

		if anaOutputPath != "" {
			if err := utils.SafeWriteFile(anaOutputPath, out); err != nil {
				return fmt.Errorf("write output: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Wrote %s report to %s\n", anaReport, anaOutputPath)
			return nil
		}
		_, err = cmd.OutOrStdout().Write(out)
		return err
	},
}

// analyzeFile reads, validates and analyzes one CSV file.
func analyzeFile(path string) (*analysis.Analysis, error) {
	text, err := parser.ReadCSVFile(path)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	t, err := analysis.ParseCSV(text)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	a := analysis.Build(t)
	logger.Log.WithFields(logrus.Fields{
		"file":    path,
		"rows":    a.Rows,
		"columns": a.Columns,
		"health":  a.Audit.HealthScore,
	}).Debug("analyzed csv")
	return a, nil
}

func init() {
	rootCmd.AddCommand(analyzeCmd)
	analyzeCmd.Flags().StringVarP(&anaReport, "report", "r", analysis.ReportFull, "report: types|audit|full|stats|dashboard")
	analyzeCmd.Flags().StringVarP(&anaFormat, "format", "f", "", "output format: json|yaml|markdown (default from config)")
	analyzeCmd.Flags().StringVarP(&anaOutputPath, "output", "o", "", "optional path to write the report")
}
