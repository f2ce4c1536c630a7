package prep

import (
	"math"
	"sort"

	"github.com/KaramelBytes/tabprep-cli/internal/table"
)

// DefaultBinLabels are the labels used for the quarterly average bin.
var DefaultBinLabels = []string{"Low", "Medium", "High"}

// AddRowMean appends a numeric column holding the row-wise mean of sources.
// A row missing any source value is missing.
func AddRowMean(t *table.Table, sources []string, name string) (*table.Table, error) {
	if t.Has(name) {
		return nil, table.DuplicateColumn("row mean", name)
	}
	means, err := rowMeans("row mean", t, sources, name)
	if err != nil {
		return nil, err
	}
	return t.Append("row mean", table.NewNumeric(name, means))
}

// AddQuantileBin appends a label column that splits the row-wise mean of
// sources into len(labels) equal-frequency bins, lowest first.
//
// Bin edges are the interpolated quantiles at i/len(labels). Intervals are
// closed on the right, so a value equal to an interior edge lands in the lower
// bin and the minimum lands in the first. When repeated values make two edges
// coincide, rows are binned by their stable rank instead, so every bin holds
// within one row of n/len(labels) and ties split in row order. Rows with a
// missing mean get a missing label.
func AddQuantileBin(t *table.Table, sources []string, name string, labels []string) (*table.Table, error) {
	if len(labels) == 0 {
		return nil, invalidOption("quantile bin", name, "no bin labels")
	}
	if t.Has(name) {
		return nil, table.DuplicateColumn("quantile bin", name)
	}
	means, err := rowMeans("quantile bin", t, sources, name)
	if err != nil {
		return nil, err
	}
	return t.Append("quantile bin", table.NewLabel(name, quantileLabels(means, labels)))
}

func rowMeans(op string, t *table.Table, sources []string, name string) ([]float64, error) {
	if len(sources) == 0 {
		return nil, invalidOption(op, name, "no source columns")
	}
	cols, err := t.Lookup(op, sources)
	if err != nil {
		return nil, err
	}
	means := make([]float64, t.Rows())
	for _, c := range cols {
		vals, err := numericValues(op, c)
		if err != nil {
			return nil, err
		}
		for i, v := range vals {
			means[i] += v
		}
	}
	n := float64(len(cols))
	for i := range means {
		// NaN propagates through the sum
		means[i] /= n
	}
	return means, nil
}

func quantileLabels(vals []float64, labels []string) []string {
	out := make([]string, len(vals))
	k := len(labels)
	edges := quantileEdges(vals, k)
	if edges == nil {
		return out
	}
	if !strictlyAscending(edges) {
		// repeated values collapse a bin; split them by stable rank
		vals = stableRanks(vals)
		edges = quantileEdges(vals, k)
	}
	for i, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		b := sort.Search(k, func(b int) bool { return v <= edges[b+1] })
		if b == k {
			b = k - 1
		}
		out[i] = labels[b]
	}
	return out
}

// quantileEdges returns the k+1 bin edges over the observed values, or nil
// when nothing is observed.
func quantileEdges(vals []float64, k int) []float64 {
	obs := observed(vals)
	if len(obs) == 0 {
		return nil
	}
	sort.Float64s(obs)
	edges := make([]float64, k+1)
	for j := range edges {
		edges[j] = rankQuantile(obs, j, k)
	}
	return edges
}

func strictlyAscending(edges []float64) bool {
	for j := 1; j < len(edges); j++ {
		if !(edges[j] > edges[j-1]) {
			return false
		}
	}
	return true
}

// stableRanks replaces each observed value with its 0-based rank, ties broken
// by row order. Missing values stay missing.
func stableRanks(vals []float64) []float64 {
	idx := make([]int, 0, len(vals))
	for i, v := range vals {
		if !math.IsNaN(v) {
			idx = append(idx, i)
		}
	}
	sort.SliceStable(idx, func(a, b int) bool { return vals[idx[a]] < vals[idx[b]] })
	out := make([]float64, len(vals))
	for i := range out {
		out[i] = math.NaN()
	}
	for r, i := range idx {
		out[i] = float64(r)
	}
	return out
}

// rankQuantile is quantile at j/k with the rank position computed from
// integers, so edges that fall on an observation are exact.
func rankQuantile(sorted []float64, j, k int) float64 {
	pos := float64(j*(len(sorted)-1)) / float64(k)
	lo := int(math.Floor(pos))
	if lo >= len(sorted)-1 {
		return sorted[len(sorted)-1]
	}
	w := pos - float64(lo)
	if w == 0 {
		return sorted[lo]
	}
	return sorted[lo]*(1-w) + sorted[lo+1]*w
}
