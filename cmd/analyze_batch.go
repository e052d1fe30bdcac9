package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KaramelBytes/tablelens/internal/analysis"
	"github.com/KaramelBytes/tablelens/internal/utils"
)

var (
	abReport string
	abFormat string
	abOutDir string
	abQuiet  bool
)

var analyzeBatchCmd = &cobra.Command{
	Use:   "analyze-batch <files...>",
	Short: "Analyze multiple CSV files with progress and optional output directory",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		files := expandInputs(args)
		if len(files) == 0 {
			return fmt.Errorf("no input files matched")
		}
		format := resolveFormat(abFormat)
		if abOutDir != "" {
			if err := utils.EnsureDir(abOutDir); err != nil {
				return fmt.Errorf("create output dir: %w", err)
			}
		}

		// Reports go to stdout; progress and failures to stderr.
		out := cmd.OutOrStdout()
		errOut := cmd.ErrOrStderr()
		total := len(files)
		var failed int
		for i, path := range files {
			if !abQuiet {
				fmt.Fprintf(errOut, "[%d/%d] Processing %s...\n", i+1, total, filepath.Base(path))
			}
			a, err := analyzeFile(path)
			if err != nil {
				failed++
				fmt.Fprintln(errOut, "✗", err)
				continue
			}
			body, err := renderReport(a, abReport, format, filepath.Base(path))
			if err != nil {
				return err
			}

			if abOutDir == "" {
				if !abQuiet {
					_, _ = out.Write(body)
				}
				continue
			}
			outFile := utils.UniquePath(abOutDir, strings.TrimSuffix(filepath.Base(path), filepath.Ext(path)), abReport+"."+formatExt(format))
			if err := utils.SafeWriteFile(outFile, body); err != nil {
				return fmt.Errorf("write report: %w", err)
			}
			if !abQuiet {
				fmt.Fprintf(errOut, "✓ Wrote %s\n", outFile)
			}
		}
		if failed > 0 {
			return fmt.Errorf("%d of %d files failed", failed, total)
		}
		return nil
	},
}

// expandInputs resolves globs, keeps literal paths that exist, and returns a
// sorted, de-duplicated list.
func expandInputs(args []string) []string {
	var files []string
	seen := map[string]struct{}{}
	for _, arg := range args {
		matches, _ := filepath.Glob(arg)
		if len(matches) == 0 {
			if _, err := os.Stat(arg); err == nil {
				matches = []string{arg}
			}
		}
		for _, m := range matches {
			if _, ok := seen[m]; ok {
				continue
			}
			seen[m] = struct{}{}
			files = append(files, m)
		}
	}
	sort.Strings(files)
	return files
}

func init() {
	rootCmd.AddCommand(analyzeBatchCmd)
	analyzeBatchCmd.Flags().StringVarP(&abReport, "report", "r", analysis.ReportFull, "report: types|audit|full|stats|dashboard")
	analyzeBatchCmd.Flags().StringVarP(&abFormat, "format", "f", "", "output format: json|yaml|markdown (default from config)")
	analyzeBatchCmd.Flags().StringVar(&abOutDir, "out-dir", "", "directory to write one report per input")
	analyzeBatchCmd.Flags().BoolVarP(&abQuiet, "quiet", "q", false, "suppress progress and stdout reports")
}
