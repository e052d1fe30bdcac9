package analysis

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysis_Markdown(t *testing.T) {
	a, err := Analyze("a,b\n1,x\n2,x\n3,y\n,z\n")
	require.NoError(t, err)
	md := a.Markdown("sales.csv")

	for _, want := range []string{
		"[DATASET SUMMARY]\nFile: sales.csv\nRows: 4\nColumns: 2\nHealth score: 87.5%\n",
		"- a: numeric (missing 1, 25.0%)\n",
		"- b: text (missing 0, 0.0%)\n",
		"- Duplicate rows: 0\n",
		"| a | 2.0 | 1.0 | 3.0 | 6.0 |\n",
		"[INSIGHTS]\n- High missing data in 'a'",
		"[CHART SUGGESTIONS]\n- histogram (a): 'a' is numeric, so a histogram is suitable.\n",
	} {
		assert.Contains(t, md, want)
	}
	assert.NotContains(t, md, "[ANOMALIES]")
}

func TestAnalysis_MarkdownStatsKeepPrecision(t *testing.T) {
	a, err := Analyze("amount\n123000\n456\n0.125\n")
	require.NoError(t, err)
	assert.Contains(t, a.Markdown(""), "| amount | 41152.0417 | 0.125 | 123000.0 | 123456.125 |\n")
}

func TestAnalysis_MarkdownAnomalies(t *testing.T) {
	a := Build(numericTable("v", 10, 10, 10, 10, 10, 10, 10, 10, 10, 100))
	md := a.Markdown("")
	assert.NotContains(t, md, "File:")
	assert.Contains(t, md, "[ANOMALIES]\n- v: 1 above 73.0 (mean 19.0, std 27.0); rows 9\n")
}

func TestJoinInts(t *testing.T) {
	assert.Equal(t, "1, 2", joinInts([]int{1, 2}, 8))
	assert.Equal(t, "1, 2, … (+2)", joinInts([]int{1, 2, 3, 4}, 2))
	assert.Equal(t, "", joinInts(nil, 8))
}
