package analysis

import (
	"strconv"
	"strings"
)

// AuditReport summarises missing values and duplicate rows.
type AuditReport struct {
	MissingValuesPerColumn *Ordered[int] `json:"missing_values_per_column" yaml:"missing_values_per_column"`
	DuplicateRowsCount     int           `json:"duplicate_rows_count" yaml:"duplicate_rows_count"`
	HealthScore            float64       `json:"health_score" yaml:"health_score"`
}

// TotalMissing sums the per-column missing counts.
func (a *AuditReport) TotalMissing() int {
	var n int
	a.MissingValuesPerColumn.Each(func(_ string, v int) { n += v })
	return n
}

// Audit computes the data-quality report for t. The health score is the
// percentage of non-null cells, and 0 for a table without cells.
func Audit(t *Table) *AuditReport {
	rep := &AuditReport{MissingValuesPerColumn: NewOrdered[int]()}
	var missing int
	for _, col := range t.Columns {
		var n int
		for _, c := range col.Cells {
			if c.IsNull() {
				n++
			}
		}
		rep.MissingValuesPerColumn.Set(col.Name, n)
		missing += n
	}

	seen := make(map[string]struct{}, t.Rows)
	for i := 0; i < t.Rows; i++ {
		key := rowKey(t, i)
		if _, dup := seen[key]; dup {
			rep.DuplicateRowsCount++
			continue
		}
		seen[key] = struct{}{}
	}

	total := t.Rows * t.NumCols()
	if total > 0 {
		rep.HealthScore = round2(100 * (1 - float64(missing)/float64(total)))
	}
	return rep
}

// rowKey encodes row i so that equal rows, nulls included, share a key.
func rowKey(t *Table, i int) string {
	var b strings.Builder
	for _, col := range t.Columns {
		c := col.Cells[i]
		b.WriteByte(byte('0' + c.Kind))
		var v string
		switch c.Kind {
		case CellString:
			v = c.Str
		case CellNumber:
			v = strconv.FormatFloat(c.Num, 'g', -1, 64)
		case CellBool:
			v = strconv.FormatBool(c.Bool)
		case CellTime:
			v = c.Time.UTC().Format("2006-01-02T15:04:05.999999999")
		}
		b.WriteString(strconv.Itoa(len(v)))
		b.WriteByte(':')
		b.WriteString(v)
	}
	return b.String()
}
