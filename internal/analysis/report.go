package analysis

import (
	"fmt"
	"strings"
	"time"
)

// Analysis bundles every sub-report computed for one table. The other
// report shapes are views over it, so they always agree with each other.
type Analysis struct {
	ColumnTypes      *Ordered[ColumnType]      `json:"column_types" yaml:"column_types"`
	Audit            *AuditReport              `json:"audit" yaml:"audit"`
	Stats            *Ordered[ColumnStats]     `json:"stats" yaml:"stats"`
	Anomalies        *Ordered[ColumnAnomalies] `json:"anomalies" yaml:"anomalies"`
	Insights         []string                  `json:"insights" yaml:"insights"`
	ChartSuggestions []ChartSuggestion         `json:"chart_suggestions" yaml:"chart_suggestions"`

	Rows    int `json:"-" yaml:"-"`
	Columns int `json:"-" yaml:"-"`
}

// TypesReport is the type-only report shape.
type TypesReport struct {
	ColumnTypes *Ordered[ColumnType] `json:"column_types" yaml:"column_types"`
}

// StatsReport is the stats-only report shape.
type StatsReport struct {
	NumericColumnStats *Ordered[ColumnStats] `json:"numeric_column_stats" yaml:"numeric_column_stats"`
}

// Dashboard is the summary payload rendered by dashboard clients.
type Dashboard struct {
	Meta      DashboardMeta      `json:"meta" yaml:"meta"`
	Summary   []SummaryItem      `json:"summary" yaml:"summary"`
	Charts    []ChartSuggestion  `json:"charts" yaml:"charts"`
	Insights  []string           `json:"insights" yaml:"insights"`
	Anomalies []AnomalyHighlight `json:"anomalies" yaml:"anomalies"`
}

type DashboardMeta struct {
	Rows        int    `json:"rows" yaml:"rows"`
	Columns     int    `json:"columns" yaml:"columns"`
	GeneratedAt string `json:"generated_at" yaml:"generated_at"`
}

type SummaryItem struct {
	Title string  `json:"title" yaml:"title"`
	Value float64 `json:"value" yaml:"value"`
}

type AnomalyHighlight struct {
	Column string `json:"column" yaml:"column"`
	Count  int    `json:"count" yaml:"count"`
}

// Build runs every analysis stage over t exactly once.
func Build(t *Table) *Analysis {
	types := ClassifyTable(t)
	audit := Audit(t)
	stats := NumericStats(t)
	anomalies := DetectAnomalies(t)
	return &Analysis{
		ColumnTypes:      types,
		Audit:            audit,
		Stats:            stats,
		Anomalies:        anomalies,
		Insights:         Insights(t, audit, stats, anomalies),
		ChartSuggestions: SuggestCharts(types),
		Rows:             t.Rows,
		Columns:          t.NumCols(),
	}
}

// Types returns the type-only view.
func (a *Analysis) Types() *TypesReport {
	return &TypesReport{ColumnTypes: a.ColumnTypes}
}

// NumericStats returns the stats-only view.
func (a *Analysis) NumericStats() *StatsReport {
	return &StatsReport{NumericColumnStats: a.Stats}
}

// Dashboard assembles the dashboard payload, stamped with now in UTC.
func (a *Analysis) Dashboard(now time.Time) *Dashboard {
	highlights := []AnomalyHighlight{}
	a.Anomalies.Each(func(name string, r ColumnAnomalies) {
		if r.AnomalyCount > 0 {
			highlights = append(highlights, AnomalyHighlight{Column: name, Count: r.AnomalyCount})
		}
	})
	return &Dashboard{
		Meta: DashboardMeta{
			Rows:        a.Rows,
			Columns:     a.Columns,
			GeneratedAt: now.UTC().Format(time.RFC3339Nano),
		},
		Summary: []SummaryItem{
			{Title: "Health Score", Value: a.Audit.HealthScore},
			{Title: "Duplicate Rows", Value: float64(a.Audit.DuplicateRowsCount)},
			{Title: "Total Missing Values", Value: float64(a.Audit.TotalMissing())},
		},
		Charts:    a.ChartSuggestions,
		Insights:  a.Insights,
		Anomalies: highlights,
	}
}

// TypesOf classifies the columns of csvText.
func TypesOf(csvText string) (*TypesReport, error) {
	t, err := ParseCSV(csvText)
	if err != nil {
		return nil, err
	}
	return &TypesReport{ColumnTypes: ClassifyTable(t)}, nil
}

// AuditOf returns the data-quality report of csvText.
func AuditOf(csvText string) (*AuditReport, error) {
	t, err := ParseCSV(csvText)
	if err != nil {
		return nil, err
	}
	return Audit(t), nil
}

// Analyze returns the full analysis of csvText.
func Analyze(csvText string) (*Analysis, error) {
	t, err := ParseCSV(csvText)
	if err != nil {
		return nil, err
	}
	return Build(t), nil
}

// StatsOf returns numeric column statistics of csvText.
func StatsOf(csvText string) (*StatsReport, error) {
	t, err := ParseCSV(csvText)
	if err != nil {
		return nil, err
	}
	return &StatsReport{NumericColumnStats: NumericStats(t)}, nil
}

// DashboardOf returns the dashboard payload of csvText.
func DashboardOf(csvText string) (*Dashboard, error) {
	a, err := Analyze(csvText)
	if err != nil {
		return nil, err
	}
	return a.Dashboard(time.Now()), nil
}

// Report names accepted by View.
const (
	ReportTypes     = "types"
	ReportAudit     = "audit"
	ReportFull      = "full"
	ReportStats     = "stats"
	ReportDashboard = "dashboard"
)

// ReportNames lists the report shapes in a stable order.
var ReportNames = []string{ReportTypes, ReportAudit, ReportFull, ReportStats, ReportDashboard}

// View returns the named report shape.
func (a *Analysis) View(report string, now time.Time) (any, error) {
	switch report {
	case ReportTypes:
		return a.Types(), nil
	case ReportAudit:
		return a.Audit, nil
	case ReportFull, "":
		return a, nil
	case ReportStats:
		return a.NumericStats(), nil
	case ReportDashboard:
		return a.Dashboard(now), nil
	default:
		return nil, fmt.Errorf("unknown report %q (use %s)", report, strings.Join(ReportNames, "|"))
	}
}
