package analysis

// AnomalySigma is the number of population standard deviations above the
// mean beyond which a value is flagged.
const AnomalySigma = 2.0

// ColumnAnomalies describes upper-tail outliers of one numeric column.
type ColumnAnomalies struct {
	Mean           float64   `json:"mean" yaml:"mean"`
	StdDev         float64   `json:"std_dev" yaml:"std_dev"`
	Threshold      float64   `json:"threshold" yaml:"threshold"`
	AnomalyCount   int       `json:"anomaly_count" yaml:"anomaly_count"`
	AnomalyIndices []int     `json:"anomaly_indices" yaml:"anomaly_indices"`
	AnomalyValues  []float64 `json:"anomaly_values" yaml:"anomaly_values"`
}

// DetectAnomalies flags, per numeric-coercible column, the rows whose value
// is strictly greater than mean + AnomalySigma*stddev. Values far below the
// mean are never flagged. Columns without numeric values are left out.
func DetectAnomalies(t *Table) *Ordered[ColumnAnomalies] {
	out := NewOrdered[ColumnAnomalies]()
	for _, col := range t.Columns {
		vals, valid := coerceNumeric(col)
		n, mean, std := moments(vals, valid)
		if n == 0 {
			continue
		}
		threshold := saturate(mean + AnomalySigma*std)

		rep := ColumnAnomalies{
			Mean:           round4(mean),
			StdDev:         round4(std),
			Threshold:      round4(threshold),
			AnomalyIndices: []int{},
			AnomalyValues:  []float64{},
		}
		for i, v := range vals {
			if valid[i] && v > threshold {
				rep.AnomalyIndices = append(rep.AnomalyIndices, i)
				rep.AnomalyValues = append(rep.AnomalyValues, round4(v))
			}
		}
		rep.AnomalyCount = len(rep.AnomalyIndices)
		out.Set(col.Name, rep)
	}
	return out
}
