package analysis

import (
	"math"
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KaramelBytes/tabprep-cli/internal/table"
)

func metrics() *table.Table {
	nan := math.NaN()
	return table.MustNew(
		table.NewText("Group", []string{"A", "A", "A", "B", "B", "B", "A", "B", "A", "B"}),
		table.NewNumeric("Score", []float64{10, 11, 9.5, 10.5, 9.8, 10.2, 8.8, 9.7, 50, nan}),
		table.NewNumeric("Double", []float64{20, 22, 19, 21, 19.6, 20.4, 17.6, 19.4, 100, 20}),
		table.NewBool("Promo", []bool{true, false, true, false, false, false, true, false, false, false}),
		table.NewLabel("Bin", []string{"Low", "High", "Low", "", "Medium", "High", "Low", "Low", "High", "Medium"}),
	)
}

func TestDescribeColumns(t *testing.T) {
	opt := DefaultOptions()
	opt.Outliers = true
	rep, err := Describe("metrics.csv", metrics(), opt)
	require.NoError(t, err)
	assert.Equal(t, 10, rep.Rows)
	require.Len(t, rep.Cols, 5)
	assert.Len(t, rep.Samples, 5)

	score := rep.Cols[1]
	assert.Equal(t, table.Numeric, score.Kind)
	assert.Equal(t, 9, score.NonNull)
	assert.Equal(t, 1, score.Missing)
	assert.InDelta(t, 10.0, score.MissingPct(), 1e-9)
	assert.Equal(t, 8.8, score.Min)
	assert.Equal(t, 50.0, score.Max)
	assert.InDelta(t, 129.5/9, score.Mean, 1e-9)
	assert.Greater(t, score.Std, 0.0)
	assert.Equal(t, 1, score.OutliersCount)

	assert.Equal(t, 3, rep.Cols[3].TrueCount)

	bin := rep.Cols[4]
	assert.Equal(t, 1, bin.Missing)
	assert.Equal(t, 3, bin.Unique)
	assert.Equal(t, CategoryCount{Value: "Low", Count: 4}, bin.TopValues[0])
}

func TestDescribeCorrelationsAndGroups(t *testing.T) {
	opt := DefaultOptions()
	opt.Correlations = true
	opt.GroupBy = []string{"Group"}
	rep, err := Describe("metrics.csv", metrics(), opt)
	require.NoError(t, err)

	require.NotNil(t, rep.Corr)
	assert.Equal(t, []string{"Score", "Double"}, rep.Corr.Columns)
	// Double is exactly 2*Score on every row where Score is present
	assert.InDelta(t, 1.0, rep.Corr.Values[0][1], 1e-9)
	assert.Equal(t, rep.Corr.Values[0][1], rep.Corr.Values[1][0])

	require.Len(t, rep.Groups, 2)
	assert.Equal(t, "Group=A", rep.Groups[0].Key)
	assert.Equal(t, 5, rep.Groups[0].Size)
	assert.InDelta(t, (10+11+9.5+8.8+50)/5.0, rep.Groups[0].Metrics["Score"].Mean, 1e-9)
	assert.Equal(t, 4, rep.Groups[1].Metrics["Score"].Count)

	_, err = Describe("x", metrics(), Options{GroupBy: []string{"Nope"}})
	assert.ErrorIs(t, err, table.ErrUnknownColumn)
}

func TestDescribeCorrelationsNeedTwoNumeric(t *testing.T) {
	tb := table.MustNew(table.NewNumeric("only", []float64{1, 2}))
	rep, err := Describe("", tb, Options{Correlations: true})
	require.NoError(t, err)
	assert.Nil(t, rep.Corr)
	assert.Len(t, rep.Warnings, 1)
}

func TestMarkdown(t *testing.T) {
	opt := DefaultOptions()
	opt.SampleRows = 2
	opt.Correlations = true
	opt.Outliers = true
	opt.GroupBy = []string{"Group"}
	rep, err := Describe("metrics.csv", metrics(), opt)
	require.NoError(t, err)

	md := rep.Markdown()
	for _, want := range []string{
		"[DATASET SUMMARY]",
		"File: metrics.csv",
		"Rows: 10",
		"Columns: 5",
		"- Score: numeric (non-null 9, missing 10.0%)",
		"outliers: 1 above |z|>3.5",
		"- Promo: bool (non-null 10, missing 0.0%) - true 3",
		"- Bin: label (non-null 9, missing 10.0%) - top: Low(4), High(3), Medium(2)",
		"[GROUP-BY SUMMARY]",
		"Group=A (n=5)",
		"[CORRELATIONS]",
		"- Score ~ Double: r=1.000",
		"[HEAD AND SAMPLE ROWS]",
		"| Group | Score | Double | Promo | Bin |",
		"| A | 10 | 20 | true | Low |",
	} {
		assert.Contains(t, md, want)
	}
	assert.Equal(t, 2, strings.Count(md, "| A |"))
	assert.NotContains(t, md, "[NOTES]")
}

func TestTruncateKeepsRunesWhole(t *testing.T) {
	long := strings.Repeat("é", 100)
	got := truncate(long, 80)
	assert.True(t, utf8.ValidString(got))
	assert.Equal(t, 80, utf8.RuneCountInString(got))
	assert.True(t, strings.HasSuffix(got, "..."))

	short := strings.Repeat("é", 50)
	assert.Equal(t, short, truncate(short, 80))
}
