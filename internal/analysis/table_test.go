package analysis

import (
	"encoding/csv"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCSV_InfersColumnKinds(t *testing.T) {
	tbl, err := ParseCSV("id,score,flag,label,empty\n1,1.5,True,x,\n2,,false,y,\n3,2,TRUE,3,\n")
	require.NoError(t, err)
	require.Equal(t, 3, tbl.Rows)
	require.Equal(t, 5, tbl.NumCols())

	kinds := map[string]Kind{}
	for _, c := range tbl.Columns {
		kinds[c.Name] = c.Kind
		assert.Len(t, c.Cells, tbl.Rows, "column %s", c.Name)
	}
	assert.Equal(t, KindInt, kinds["id"])
	assert.Equal(t, KindFloat, kinds["score"])
	assert.Equal(t, KindBool, kinds["flag"])
	assert.Equal(t, KindString, kinds["label"])
	assert.Equal(t, KindEmpty, kinds["empty"])

	score := tbl.Columns[1]
	assert.Equal(t, Number(1.5), score.Cells[0])
	assert.True(t, score.Cells[1].IsNull())
	assert.Equal(t, []string{"1.5", "2.0"}, score.Texts())
	assert.Equal(t, []string{"1", "2", "3"}, tbl.Columns[0].Texts())
	assert.Equal(t, []string{"True", "False", "True"}, tbl.Columns[2].Texts())
}

func TestParseCSV_IntegerColumnWithNullsBecomesFloat(t *testing.T) {
	tbl, err := ParseCSV("a,b\n1,x\n2,x\n3,y\n,z\n")
	require.NoError(t, err)
	assert.Equal(t, 4, tbl.Rows)
	assert.Equal(t, KindFloat, tbl.Columns[0].Kind)
	assert.Equal(t, []string{"1.0", "2.0", "3.0"}, tbl.Columns[0].Texts())
	assert.Equal(t, KindString, tbl.Columns[1].Kind)
}

func TestParseCSV_NullMarkers(t *testing.T) {
	tbl, err := ParseCSV("v\nNA\nnull\n5\nN/A\nNaN\nnone\n")
	require.NoError(t, err)
	col := tbl.Columns[0]
	var nulls int
	for _, c := range col.Cells {
		if c.IsNull() {
			nulls++
		}
	}
	assert.Equal(t, 4, nulls)
	// "none" is not a null marker, so the column stays textual.
	assert.Equal(t, KindString, col.Kind)
}

func TestParseCSV_HeaderNames(t *testing.T) {
	tbl, err := ParseCSV("a,a,,a\n1,2,3,4\n")
	require.NoError(t, err)
	var names []string
	for _, c := range tbl.Columns {
		names = append(names, c.Name)
	}
	assert.Equal(t, []string{"a", "a.1", "Unnamed: 2", "a.2"}, names)
}

func TestParseCSV_QuotedFieldsAndEmbeddedNewlines(t *testing.T) {
	tbl, err := ParseCSV("name,note\n\"Smith, J\",\"line1\nline2\"\n")
	require.NoError(t, err)
	require.Equal(t, 1, tbl.Rows)
	assert.Equal(t, "Smith, J", tbl.Columns[0].Cells[0].Str)
	assert.Equal(t, "line1\nline2", tbl.Columns[1].Cells[0].Str)
}

func TestParseCSV_ShortRowsArePadded(t *testing.T) {
	tbl, err := ParseCSV("a,b,c\n1\n2,x,y\n")
	require.NoError(t, err)
	assert.True(t, tbl.Columns[1].Cells[0].IsNull())
	assert.True(t, tbl.Columns[2].Cells[0].IsNull())
	assert.Equal(t, "x", tbl.Columns[1].Cells[1].Str)
}

func TestParseCSV_SkipsBlankLinesAndBOM(t *testing.T) {
	tbl, err := ParseCSV("\ufeffa,b\n1,2\n\n3,4\n")
	require.NoError(t, err)
	assert.Equal(t, "a", tbl.Columns[0].Name)
	assert.Equal(t, 2, tbl.Rows)
}

func TestParseCSV_HeadersOnly(t *testing.T) {
	tbl, err := ParseCSV("a,b\n")
	require.NoError(t, err)
	assert.Equal(t, 0, tbl.Rows)
	assert.Equal(t, 2, tbl.NumCols())
	assert.Equal(t, KindEmpty, tbl.Columns[0].Kind)
}

func TestParseCSV_Errors(t *testing.T) {
	tests := []struct {
		name   string
		input  string
		reason string
	}{
		{name: "empty input", input: "", reason: "No columns to parse from file"},
		{name: "too many fields", input: "a,b\n1,2\n1,2,3\n", reason: "Expected 2 fields in line 3, saw 3"},
		{name: "bare quote", input: "a,b\n1,x\"y\n"},
		{name: "unterminated quote", input: "a,b\n1,\"x\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseCSV(tt.input)
			require.Error(t, err)
			var pe *ParseError
			require.True(t, errors.As(err, &pe), "want *ParseError, got %T", err)
			if tt.reason != "" {
				assert.Equal(t, tt.reason, pe.Reason)
			} else {
				var csvErr *csv.ParseError
				assert.True(t, errors.As(err, &csvErr), "reader error should be wrapped")
				assert.NotEmpty(t, pe.Reason)
			}
		})
	}
}
