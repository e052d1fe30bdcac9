package cmd

import (
	"encoding/json"
	"fmt"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/KaramelBytes/tablelens/internal/analysis"
)

// Output formats accepted by --format.
const (
	formatJSON     = "json"
	formatYAML     = "yaml"
	formatMarkdown = "markdown"
)

func resolveFormat(flag string) string {
	if flag != "" {
		return flag
	}
	if cfg != nil && cfg.DefaultFormat != "" {
		return cfg.DefaultFormat
	}
	return formatJSON
}

func formatExt(format string) string {
	if format == formatMarkdown {
		return "md"
	}
	return format
}

// renderReport encodes the named report of a in the requested format.
// Markdown is a human-readable digest of the full analysis only.
func renderReport(a *analysis.Analysis, report, format, name string) ([]byte, error) {
	if format == formatMarkdown {
		if report != analysis.ReportFull && report != "" {
			return nil, fmt.Errorf("markdown output is only available for the %q report", analysis.ReportFull)
		}
		return []byte(a.Markdown(name)), nil
	}
	view, err := a.View(report, time.Now())
	if err != nil {
		return nil, err
	}
	switch format {
	case formatJSON:
		b, err := json.MarshalIndent(view, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("marshal json: %w", err)
		}
		return append(b, '\n'), nil
	case formatYAML:
		b, err := yaml.Marshal(view)
		if err != nil {
			return nil, fmt.Errorf("marshal yaml: %w", err)
		}
		return b, nil
	default:
		return nil, fmt.Errorf("unsupported --format: %s (use json|yaml|markdown)", format)
	}
}
