package analysis

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
)

// Kind is the storage leaning a column receives at parse time, mirroring how a
// dataframe reader settles on a dtype before any analysis runs.
type Kind int

const (
	KindEmpty  Kind = iota // every cell is null
	KindInt                // integer literals, no nulls
	KindFloat              // numeric literals, nulls allowed
	KindBool               // boolean literals, no nulls
	KindString             // anything else
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindBool:
		return "bool"
	case KindString:
		return "string"
	default:
		return "empty"
	}
}

// CellKind identifies the value held by a Cell.
type CellKind uint8

const (
	CellNull CellKind = iota
	CellString
	CellNumber
	CellBool
	CellTime
)

// Cell is one nullable value of a column.
type Cell struct {
	Kind CellKind
	Str  string
	Num  float64
	Bool bool
	Time time.Time
}

func Null() Cell { return Cell{} }

func String(s string) Cell { return Cell{Kind: CellString, Str: s} }

func Number(f float64) Cell { return Cell{Kind: CellNumber, Num: f} }

func Boolean(b bool) Cell { return Cell{Kind: CellBool, Bool: b} }

func Timestamp(t time.Time) Cell { return Cell{Kind: CellTime, Time: t} }

// IsNull reports whether the cell holds no value.
func (c Cell) IsNull() bool { return c.Kind == CellNull }

// Column is a named, ordered sequence of cells.
type Column struct {
	Name  string
	Kind  Kind
	Cells []Cell
}

// Table is the parsed, rectangular dataset. It is never mutated after parsing.
type Table struct {
	Columns []Column
	Rows    int
}

// NumCols returns the number of columns.
func (t *Table) NumCols() int { return len(t.Columns) }

// Texts returns the non-null cells of the column coerced to strings.
func (c *Column) Texts() []string {
	out := make([]string, 0, len(c.Cells))
	for _, cell := range c.Cells {
		if cell.IsNull() {
			continue
		}
		out = append(out, c.text(cell))
	}
	return out
}

func (c *Column) text(cell Cell) string {
	switch cell.Kind {
	case CellNumber:
		if c.Kind == KindInt {
			return strconv.FormatFloat(cell.Num, 'f', -1, 64)
		}
		return formatFloat(cell.Num)
	case CellBool:
		if cell.Bool {
			return "True"
		}
		return "False"
	case CellTime:
		return cell.Time.Format("2006-01-02 15:04:05")
	default:
		return cell.Str
	}
}

// ParseError reports CSV text that cannot be turned into a Table.
type ParseError struct {
	Reason string
	Err    error
}

func (e *ParseError) Error() string { return "parse csv: " + e.Reason }

func (e *ParseError) Unwrap() error { return e.Err }

// nullTokens are the literal cell values read as missing.
var nullTokens = map[string]struct{}{
	"": {}, "#N/A": {}, "#N/A N/A": {}, "#NA": {}, "-1.#IND": {}, "-1.#QNAN": {},
	"-NaN": {}, "-nan": {}, "1.#IND": {}, "1.#QNAN": {}, "<NA>": {}, "N/A": {},
	"NA": {}, "NULL": {}, "NaN": {}, "None": {}, "n/a": {}, "nan": {}, "null": {},
}

func isNullToken(s string) bool {
	_, ok := nullTokens[s]
	return ok
}

// ParseCSV parses comma-separated text with a header row into a Table.
func ParseCSV(text string) (*Table, error) {
	text = strings.TrimPrefix(text, "\ufeff")
	r := csv.NewReader(strings.NewReader(text))
	r.FieldsPerRecord = -1

	header, err := r.Read()
	if err != nil {
		if errors.Is(err, io.EOF) {
			return nil, &ParseError{Reason: "No columns to parse from file"}
		}
		return nil, &ParseError{Reason: err.Error(), Err: err}
	}
	names := headerNames(header)
	ncol := len(names)

	var records [][]string
	for {
		rec, err := r.Read()
		if err != nil {
			if errors.Is(err, io.EOF) {
				break
			}
			return nil, &ParseError{Reason: err.Error(), Err: err}
		}
		if len(rec) > ncol {
			line, _ := r.FieldPos(0)
			return nil, &ParseError{Reason: fmt.Sprintf("Expected %d fields in line %d, saw %d", ncol, line, len(rec))}
		}
		records = append(records, rec)
	}

	t := &Table{Columns: make([]Column, ncol), Rows: len(records)}
	raw := make([]string, len(records))
	present := make([]bool, len(records))
	for j, name := range names {
		for i, rec := range records {
			if j < len(rec) && !isNullToken(rec[j]) {
				raw[i], present[i] = rec[j], true
			} else {
				raw[i], present[i] = "", false
			}
		}
		t.Columns[j] = buildColumn(name, raw, present)
	}
	return t, nil
}

// headerNames fills blank names and de-duplicates repeated ones.
func headerNames(header []string) []string {
	names := make([]string, len(header))
	seen := make(map[string]int, len(header))
	for i, h := range header {
		name := h
		if strings.TrimSpace(name) == "" {
			name = fmt.Sprintf("Unnamed: %d", i)
		}
		if n, ok := seen[name]; ok {
			base := name
			for {
				n++
				name = fmt.Sprintf("%s.%d", base, n)
				if _, taken := seen[name]; !taken {
					break
				}
			}
			seen[base] = n
		}
		seen[name] = 0
		names[i] = name
	}
	return names
}

func buildColumn(name string, raw []string, present []bool) Column {
	var nonNull int
	allInt, allNum, allBool := true, true, true
	for i, s := range raw {
		if !present[i] {
			continue
		}
		nonNull++
		if allInt {
			if _, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64); err != nil {
				allInt = false
			}
		}
		if allNum {
			if _, ok := parseNumber(s); !ok {
				allNum = false
			}
		}
		if allBool {
			if _, ok := parseBool(s); !ok {
				allBool = false
			}
		}
	}
	hasNull := nonNull < len(raw)

	col := Column{Name: name, Cells: make([]Cell, len(raw))}
	switch {
	case nonNull == 0:
		col.Kind = KindEmpty
	case allInt && !hasNull:
		col.Kind = KindInt
	case allNum:
		col.Kind = KindFloat
	case allBool && !hasNull:
		col.Kind = KindBool
	default:
		col.Kind = KindString
	}
	for i, s := range raw {
		if !present[i] {
			continue
		}
		switch col.Kind {
		case KindInt, KindFloat:
			f, _ := parseNumber(s)
			col.Cells[i] = Number(f)
		case KindBool:
			b, _ := parseBool(s)
			col.Cells[i] = Boolean(b)
		default:
			col.Cells[i] = String(s)
		}
	}
	return col
}

func parseBool(s string) (bool, bool) {
	switch s {
	case "True", "TRUE", "true":
		return true, true
	case "False", "FALSE", "false":
		return false, true
	}
	return false, false
}
