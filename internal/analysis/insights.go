package analysis

import (
	"fmt"
	"sort"
)

// Insight rule thresholds.
const (
	MissingRatioThreshold   = 0.2
	VariabilityThreshold    = 1.0
	DominanceMaxUnique      = 10
	DominanceShareThreshold = 0.5
)

// NoIssuesInsight is emitted when no rule produces an observation.
const NoIssuesInsight = "No major data quality or distribution issues detected."

// Insights derives plain-language observations. Missing-data findings come
// first, then variability, anomalies and categorical dominance.
func Insights(t *Table, audit *AuditReport, stats *Ordered[ColumnStats], anomalies *Ordered[ColumnAnomalies]) []string {
	var out []string

	rows := max(t.Rows, 1)
	audit.MissingValuesPerColumn.Each(func(name string, missing int) {
		ratio := float64(missing) / float64(rows)
		if ratio >= MissingRatioThreshold {
			out = append(out, fmt.Sprintf("High missing data in '%s': %d missing values (%s%%).",
				name, missing, formatFloat(round2(ratio*100))))
		}
	})

	stats.Each(func(name string, s ColumnStats) {
		spread := saturate(s.Max - s.Min)
		if s.Mean > 0 && spread/s.Mean >= VariabilityThreshold {
			out = append(out, fmt.Sprintf("High variability in numeric column '%s' (range %s vs mean %s).",
				name, formatFloat(round4(spread)), formatFloat(round4(s.Mean))))
		}
	})

	anomalies.Each(func(name string, a ColumnAnomalies) {
		if a.AnomalyCount > 0 {
			out = append(out, fmt.Sprintf("Detected %d anomalies in '%s' above threshold %s.",
				a.AnomalyCount, name, formatFloat(a.Threshold)))
		}
	})

	for i := range t.Columns {
		value, ratio, ok := dominantValue(t.Columns[i].Texts())
		if ok && ratio >= DominanceShareThreshold {
			out = append(out, fmt.Sprintf("Categorical pattern in '%s': '%s' appears in %s%% of non-null rows.",
				t.Columns[i].Name, value, formatFloat(round2(ratio*100))))
		}
	}

	if len(out) == 0 {
		out = append(out, NoIssuesInsight)
	}
	return out
}

// dominantValue returns the most frequent value of a low-cardinality column
// and its share of values. Among equally frequent values the
// lexicographically smallest wins.
func dominantValue(values []string) (string, float64, bool) {
	if len(values) == 0 {
		return "", 0, false
	}
	counts := make(map[string]int)
	for _, v := range values {
		counts[v]++
	}
	if len(counts) > DominanceMaxUnique {
		return "", 0, false
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	best := keys[0]
	for _, k := range keys[1:] {
		if counts[k] > counts[best] {
			best = k
		}
	}
	return best, float64(counts[best]) / float64(len(values)), true
}
