package analysis

import "math"

// ColumnStats holds the summary statistics of one numeric-coercible column.
type ColumnStats struct {
	Mean  float64 `json:"mean" yaml:"mean"`
	Min   float64 `json:"min" yaml:"min"`
	Max   float64 `json:"max" yaml:"max"`
	Total float64 `json:"total" yaml:"total"`
}

// coerceNumeric converts every cell it can to a number. Cells that do not
// convert are reported as invalid rather than as an error.
func coerceNumeric(col Column) (vals []float64, valid []bool) {
	vals = make([]float64, len(col.Cells))
	valid = make([]bool, len(col.Cells))
	for i, c := range col.Cells {
		switch c.Kind {
		case CellNumber:
			vals[i], valid[i] = c.Num, true
		case CellBool:
			if c.Bool {
				vals[i] = 1
			}
			valid[i] = true
		case CellString:
			vals[i], valid[i] = parseNumber(c.Str)
		}
	}
	return vals, valid
}

// moments returns the count, mean and population standard deviation of the
// valid values. When the plain sums overflow they are recomputed on values
// scaled by the largest magnitude, which keeps both results finite.
func moments(vals []float64, valid []bool) (n int, mean, std float64) {
	var sum, peak float64
	for i, v := range vals {
		if valid[i] {
			n++
			sum += v
			peak = math.Max(peak, math.Abs(v))
		}
	}
	if n == 0 {
		return 0, 0, 0
	}
	mean = sum / float64(n)
	var sq float64
	for i, v := range vals {
		if valid[i] {
			d := v - mean
			sq += d * d
		}
	}
	if !math.IsInf(sum, 0) && !math.IsInf(sq, 0) {
		return n, mean, math.Sqrt(sq / float64(n))
	}

	var ssum float64
	for i, v := range vals {
		if valid[i] {
			ssum += v / peak
		}
	}
	smean := ssum / float64(n)
	var ssq float64
	for i, v := range vals {
		if valid[i] {
			d := v/peak - smean
			ssq += d * d
		}
	}
	return n, saturate(smean * peak), saturate(math.Sqrt(ssq/float64(n)) * peak)
}

// NumericStats computes mean, min, max and total for every column holding at
// least one numeric value. Columns without one are left out. A total that
// exceeds the float range is reported as ±math.MaxFloat64.
func NumericStats(t *Table) *Ordered[ColumnStats] {
	out := NewOrdered[ColumnStats]()
	for _, col := range t.Columns {
		vals, valid := coerceNumeric(col)
		n, mean, _ := moments(vals, valid)
		if n == 0 {
			continue
		}
		sum, lo, hi := 0.0, math.Inf(1), math.Inf(-1)
		for i, v := range vals {
			if !valid[i] {
				continue
			}
			sum += v
			lo = math.Min(lo, v)
			hi = math.Max(hi, v)
		}
		out.Set(col.Name, ColumnStats{
			Mean:  round4(mean),
			Min:   round4(lo),
			Max:   round4(hi),
			Total: round4(saturate(sum)),
		})
	}
	return out
}
