package table

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() *Table {
	return MustNew(
		NewText("Region", []string{"A", "B", ""}),
		NewNumeric("Score", []float64{10, math.NaN(), 30}),
		NewBool("Flag", []bool{true, false, true}),
	)
}

func TestNewRejectsBadShape(t *testing.T) {
	_, err := New(NewNumeric("a", []float64{1, 2}), NewNumeric("b", []float64{1}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrShape))

	_, err = New(NewNumeric("a", []float64{1}), NewText("a", []string{"x"}))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrDuplicateColumn))
}

func TestColumnCells(t *testing.T) {
	tb := sample()
	region, ok := tb.Column("Region")
	require.True(t, ok)
	assert.True(t, region.IsMissing(2))
	assert.False(t, region.IsMissing(0))

	score, _ := tb.Column("Score")
	assert.True(t, score.IsMissing(1))
	assert.Equal(t, "10", score.Text(0))
	assert.Equal(t, "", score.Text(1))
	assert.Equal(t, "30.00", score.Format(2, 2))

	flag, _ := tb.Column("Flag")
	assert.Equal(t, 1.0, flag.Float(0))
	assert.Equal(t, "false", flag.Text(1))
	assert.True(t, math.IsNaN(region.Float(0)))
}

func TestDropPreservesOrderAndInput(t *testing.T) {
	tb := sample()
	out, err := tb.Drop("prune", "Score")
	require.NoError(t, err)
	assert.Equal(t, []string{"Region", "Flag"}, out.Names())
	assert.Equal(t, 3, out.Rows())
	assert.Equal(t, []string{"Region", "Score", "Flag"}, tb.Names())

	_, err = tb.Drop("prune", "Nope")
	var ce *ColumnError
	require.ErrorAs(t, err, &ce)
	assert.Equal(t, "Nope", ce.Column)
	assert.True(t, errors.Is(err, ErrUnknownColumn))
}

func TestDropAllKeepsRowCount(t *testing.T) {
	out, err := sample().Drop("prune", "Region", "Score", "Flag")
	require.NoError(t, err)
	assert.Equal(t, 0, out.Width())
	assert.Equal(t, 3, out.Rows())
}

func TestSpliceAwayOnlyColumnKeepsRowCount(t *testing.T) {
	tb := MustNew(NewText("r", []string{"", "", ""}))
	out, err := tb.Splice("onehot", "r")
	require.NoError(t, err)
	assert.Equal(t, 0, out.Width())
	assert.Equal(t, 3, out.Rows())

	out, err = sample().Select("select")
	require.NoError(t, err)
	assert.Equal(t, 3, out.Rows())
}

func TestSpliceAndAppend(t *testing.T) {
	tb := sample()
	out, err := tb.Splice("onehot", "Region",
		NewBool("Region_A", []bool{true, false, false}),
		NewBool("Region_B", []bool{false, true, false}))
	require.NoError(t, err)
	assert.Equal(t, []string{"Region_A", "Region_B", "Score", "Flag"}, out.Names())

	_, err = tb.Splice("onehot", "Region", NewBool("Flag", []bool{true, true, true}))
	assert.True(t, errors.Is(err, ErrDuplicateColumn))

	_, err = tb.Append("bin", NewLabel("Score", []string{"a", "b", "c"}))
	assert.True(t, errors.Is(err, ErrDuplicateColumn))

	out, err = tb.Append("bin", NewLabel("Bin", []string{"Low", "", "High"}))
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "10", "true", "Low"}, out.Record(0, -1))
}

func TestReplaceKeepsPosition(t *testing.T) {
	tb := sample()
	out, err := tb.Replace("normalize", NewNumeric("Region", []float64{0, 1, 0.5}))
	require.NoError(t, err)
	assert.Equal(t, tb.Names(), out.Names())
	c, _ := out.Column("Region")
	assert.Equal(t, Numeric, c.Kind())
	orig, _ := tb.Column("Region")
	assert.Equal(t, Text, orig.Kind())
}
