package analysis

import (
	"math"
	"unicode/utf8"

	"github.com/araddon/dateparse"
)

// ColumnType is the semantic type assigned to a column.
type ColumnType string

const (
	TypeNumeric     ColumnType = "numeric"
	TypeDate        ColumnType = "date"
	TypeCategorical ColumnType = "categorical"
	TypeText        ColumnType = "text"
)

// Classification policy.
const (
	DateParseRatio         = 0.8
	NumericParseRatio      = 0.8
	CategoricalUniqueRatio = 0.2
	CategoricalMinUnique   = 2
	CategoricalMaxUnique   = 50
	CategoricalMaxAvgLen   = 40.0
)

// ClassifyColumn assigns one of numeric, date, categorical or text to col.
// Rules are tried in order and the first match wins.
func ClassifyColumn(col Column) ColumnType {
	var values []Cell
	for _, c := range col.Cells {
		if !c.IsNull() {
			values = append(values, c)
		}
	}
	if len(values) == 0 {
		return TypeText
	}
	if allCells(values, func(c Cell) bool { return c.Kind == CellNumber || c.Kind == CellBool }) {
		return TypeNumeric
	}
	if allCells(values, func(c Cell) bool { return c.Kind == CellTime }) {
		return TypeDate
	}

	texts := col.Texts()
	if share(texts, looksLikeDate) >= DateParseRatio {
		return TypeDate
	}
	if share(texts, func(s string) bool { _, ok := parseNumber(s); return ok }) >= NumericParseRatio {
		return TypeNumeric
	}

	total := len(texts)
	unique := make(map[string]struct{}, total)
	var runes int
	for _, s := range texts {
		unique[s] = struct{}{}
		runes += utf8.RuneCountInString(s)
	}
	avgLen := float64(runes) / float64(total)
	limit := min(CategoricalMaxUnique, max(CategoricalMinUnique, int(math.Round(CategoricalUniqueRatio*float64(total)))))
	if len(unique) <= limit && avgLen <= CategoricalMaxAvgLen {
		return TypeCategorical
	}
	return TypeText
}

// ClassifyTable classifies every column, keyed in table order.
func ClassifyTable(t *Table) *Ordered[ColumnType] {
	out := NewOrdered[ColumnType]()
	for _, col := range t.Columns {
		out.Set(col.Name, ClassifyColumn(col))
	}
	return out
}

func allCells(cells []Cell, pred func(Cell) bool) bool {
	for _, c := range cells {
		if !pred(c) {
			return false
		}
	}
	return true
}

func share(values []string, pred func(string) bool) float64 {
	if len(values) == 0 {
		return 0
	}
	var n int
	for _, v := range values {
		if pred(v) {
			n++
		}
	}
	return float64(n) / float64(len(values))
}

// looksLikeDate reports whether s parses as a calendar date or timestamp.
// Plain numeric literals are left to the numeric rule.
func looksLikeDate(s string) (ok bool) {
	if _, isNum := parseNumber(s); isNum {
		return false
	}
	// dateparse can panic on some malformed inputs.
	defer func() {
		if recover() != nil {
			ok = false
		}
	}()
	_, err := dateparse.ParseAny(s)
	return err == nil
}
