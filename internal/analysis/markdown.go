package analysis

import (
	"fmt"
	"strings"
)

// Markdown renders a compact, human-readable report of the analysis.
func (a *Analysis) Markdown(name string) string {
	var b strings.Builder
	b.WriteString("[DATASET SUMMARY]\n")
	if name != "" {
		b.WriteString(fmt.Sprintf("File: %s\n", name))
	}
	b.WriteString(fmt.Sprintf("Rows: %d\n", a.Rows))
	b.WriteString(fmt.Sprintf("Columns: %d\n", a.Columns))
	b.WriteString(fmt.Sprintf("Health score: %s%%\n\n", formatFloat(a.Audit.HealthScore)))

	b.WriteString("[SCHEMA]\n")
	a.ColumnTypes.Each(func(col string, t ColumnType) {
		missing, _ := a.Audit.MissingValuesPerColumn.Get(col)
		missPct := 0.0
		if a.Rows > 0 {
			missPct = float64(missing) * 100.0 / float64(a.Rows)
		}
		b.WriteString(fmt.Sprintf("- %s: %s (missing %d, %.1f%%)\n", safeName(col), t, missing, missPct))
	})

	b.WriteString("\n[DATA QUALITY]\n")
	b.WriteString(fmt.Sprintf("- Duplicate rows: %d\n", a.Audit.DuplicateRowsCount))
	b.WriteString(fmt.Sprintf("- Total missing values: %d\n", a.Audit.TotalMissing()))

	if a.Stats.Len() > 0 {
		b.WriteString("\n[NUMERIC STATS]\n")
		b.WriteString("| column | mean | min | max | total |\n")
		b.WriteString("| --- | --- | --- | --- | --- |\n")
		a.Stats.Each(func(col string, s ColumnStats) {
			b.WriteString(fmt.Sprintf("| %s | %s | %s | %s | %s |\n", safeVal(safeName(col)),
				formatFloat(s.Mean), formatFloat(s.Min), formatFloat(s.Max), formatFloat(s.Total)))
		})
	}

	flagged := false
	a.Anomalies.Each(func(col string, r ColumnAnomalies) {
		if r.AnomalyCount == 0 {
			return
		}
		if !flagged {
			b.WriteString("\n[ANOMALIES]\n")
			flagged = true
		}
		b.WriteString(fmt.Sprintf("- %s: %d above %s (mean %s, std %s); rows %s\n",
			safeName(col), r.AnomalyCount, formatFloat(r.Threshold), formatFloat(r.Mean), formatFloat(r.StdDev), joinInts(r.AnomalyIndices, 8)))
	})

	b.WriteString("\n[INSIGHTS]\n")
	for _, s := range a.Insights {
		b.WriteString("- ")
		b.WriteString(s)
		b.WriteString("\n")
	}

	b.WriteString("\n[CHART SUGGESTIONS]\n")
	for _, c := range a.ChartSuggestions {
		if len(c.Columns) > 0 {
			b.WriteString(fmt.Sprintf("- %s (%s): %s\n", c.ChartType, strings.Join(c.Columns, ", "), c.Reason))
		} else {
			b.WriteString(fmt.Sprintf("- %s: %s\n", c.ChartType, c.Reason))
		}
	}
	return b.String()
}

func joinInts(xs []int, limit int) string {
	parts := make([]string, 0, min(len(xs), limit))
	for i, x := range xs {
		if i == limit {
			parts = append(parts, fmt.Sprintf("… (+%d)", len(xs)-limit))
			break
		}
		parts = append(parts, fmt.Sprint(x))
	}
	return strings.Join(parts, ", ")
}

func safeName(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return "(unnamed)"
	}
	return s
}

func safeVal(s string) string { return strings.ReplaceAll(strings.ReplaceAll(s, "\n", " "), "|", "/") }
