package analysis

import "fmt"

// Chart types produced by SuggestCharts.
const (
	ChartBar        = "bar"
	ChartHistogram  = "histogram"
	ChartLine       = "line"
	ChartPieOrGroup = "pie_or_grouped_bar"
	ChartTable      = "table"
)

// ChartSuggestion recommends a visualization for up to two columns.
type ChartSuggestion struct {
	ChartType string   `json:"chart_type" yaml:"chart_type"`
	Columns   []string `json:"columns" yaml:"columns"`
	Reason    string   `json:"reason" yaml:"reason"`
}

// SuggestCharts maps column types to visualizations: bars for categorical
// columns, histograms for numeric ones, lines for dates, then one pairing for
// every categorical/numeric combination. It never returns an empty slice.
func SuggestCharts(types *Ordered[ColumnType]) []ChartSuggestion {
	var categorical, numeric, dates []string
	types.Each(func(name string, t ColumnType) {
		switch t {
		case TypeCategorical:
			categorical = append(categorical, name)
		case TypeNumeric:
			numeric = append(numeric, name)
		case TypeDate:
			dates = append(dates, name)
		}
	})

	var out []ChartSuggestion
	for _, c := range categorical {
		out = append(out, ChartSuggestion{
			ChartType: ChartBar,
			Columns:   []string{c},
			Reason:    fmt.Sprintf("'%s' is categorical, so a bar chart is suitable.", c),
		})
	}
	for _, c := range numeric {
		out = append(out, ChartSuggestion{
			ChartType: ChartHistogram,
			Columns:   []string{c},
			Reason:    fmt.Sprintf("'%s' is numeric, so a histogram is suitable.", c),
		})
	}
	for _, c := range dates {
		out = append(out, ChartSuggestion{
			ChartType: ChartLine,
			Columns:   []string{c},
			Reason:    fmt.Sprintf("'%s' is date-like, so a line chart is suitable for trends.", c),
		})
	}
	for _, c := range categorical {
		for _, n := range numeric {
			out = append(out, ChartSuggestion{
				ChartType: ChartPieOrGroup,
				Columns:   []string{c, n},
				Reason:    fmt.Sprintf("'%s' (categorical) with '%s' (numeric) fits a pie chart or grouped bar chart.", c, n),
			})
		}
	}

	if len(out) == 0 {
		out = append(out, ChartSuggestion{
			ChartType: ChartTable,
			Columns:   []string{},
			Reason:    "No clear chart recommendation based on detected column types.",
		})
	}
	return out
}
