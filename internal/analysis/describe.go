// Package analysis summarizes a loaded table as a compact markdown report:
// schema, per-column statistics, group summaries, correlations and sample rows.
package analysis

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"gonum.org/v1/gonum/stat"

	"github.com/KaramelBytes/tabprep-cli/internal/table"
)

// Options controls what Describe computes.
type Options struct {
	// SampleRows determines how many leading rows to include in the report.
	SampleRows int
	// GroupBy computes per-group numeric means for the given column names.
	GroupBy []string
	// Correlations computes Pearson correlations among numeric columns.
	Correlations bool
	// Outlier detection via robust Z-score (MAD). If Outliers is true, counts |z|>threshold.
	Outliers         bool
	OutlierThreshold float64
	// TopValues caps the categories listed per text or label column.
	TopValues int
}

// DefaultOptions returns reasonable defaults for dataset description.
func DefaultOptions() Options {
	return Options{SampleRows: 5, OutlierThreshold: 3.5, TopValues: 8}
}

// Report is a markdown-friendly description of a tabular dataset.
type Report struct {
	Name     string
	Rows     int
	Cols     []ColumnSummary
	Header   []string
	Samples  [][]string
	Warnings []string
	Groups   []GroupResult
	Corr     *CorrMatrix
}

// ColumnSummary captures the kind and statistics of one column.
type ColumnSummary struct {
	Name    string
	Kind    table.Kind
	NonNull int
	Missing int
	Unique  int
	// Numeric stats
	Min  float64
	Max  float64
	Mean float64
	Std  float64
	// Outliers (robust Z via MAD)
	OutliersCount    int
	OutliersMaxAbsZ  float64
	OutlierThreshold float64
	// Text and label top values
	TopValues []CategoryCount
	// Bool columns
	TrueCount int
}

// MissingPct is the share of missing cells as a percentage.
func (c ColumnSummary) MissingPct() float64 {
	total := c.NonNull + c.Missing
	if total == 0 {
		return 0
	}
	return float64(c.Missing) * 100.0 / float64(total)
}

type CategoryCount struct {
	Value string
	Count int
}

// GroupResult captures numeric means per group key.
type GroupResult struct {
	Key     string
	Size    int
	Metrics map[string]NumSummary // by column name
}

type NumSummary struct {
	Count          int
	Min, Max, Mean float64
}

// CorrMatrix holds a symmetric Pearson correlation matrix across numeric columns.
type CorrMatrix struct {
	Columns []string
	Values  [][]float64 // row-major, Values[i][j]
}

// Describe builds a Report for t. name is only used as the report title.
func Describe(name string, t *table.Table, opt Options) (*Report, error) {
	rep := &Report{Name: name, Rows: t.Rows(), Header: t.Names()}
	if opt.SampleRows < 0 {
		opt.SampleRows = 0
	}
	if opt.TopValues <= 0 {
		opt.TopValues = 8
	}
	for i := 0; i < t.Rows() && i < opt.SampleRows; i++ {
		rep.Samples = append(rep.Samples, t.Record(i, -1))
	}

	var numCols []*table.Column
	for _, c := range t.Columns() {
		s := ColumnSummary{Name: c.Name(), Kind: c.Kind()}
		for i := 0; i < c.Len(); i++ {
			if c.IsMissing(i) {
				s.Missing++
			} else {
				s.NonNull++
			}
		}
		switch c.Kind() {
		case table.Numeric:
			numCols = append(numCols, c)
			summarizeNumeric(&s, c, opt)
		case table.Text, table.Label:
			s.TopValues, s.Unique = topValues(c, opt.TopValues)
		case table.Bool:
			for i := 0; i < c.Len(); i++ {
				if c.Bool(i) {
					s.TrueCount++
				}
			}
		}
		rep.Cols = append(rep.Cols, s)
	}

	if len(opt.GroupBy) > 0 {
		groups, err := groupSummaries(t, opt.GroupBy, numCols)
		if err != nil {
			return nil, err
		}
		rep.Groups = groups
	}

	if opt.Correlations {
		if len(numCols) >= 2 {
			rep.Corr = correlations(numCols)
		} else {
			rep.Warnings = append(rep.Warnings, "correlations need at least two numeric columns")
		}
	}
	return rep, nil
}

func summarizeNumeric(s *ColumnSummary, c *table.Column, opt Options) {
	obs := make([]float64, 0, c.Len())
	for _, v := range c.Floats() {
		if !math.IsNaN(v) {
			obs = append(obs, v)
		}
	}
	if len(obs) == 0 {
		s.Min, s.Max, s.Mean, s.Std = math.NaN(), math.NaN(), math.NaN(), math.NaN()
		return
	}
	s.Min, s.Max = obs[0], obs[0]
	for _, v := range obs {
		s.Min = math.Min(s.Min, v)
		s.Max = math.Max(s.Max, v)
	}
	if len(obs) > 1 {
		s.Mean, s.Std = stat.MeanStdDev(obs, nil)
	} else {
		s.Mean = obs[0]
	}
	if opt.Outliers && len(obs) >= 8 {
		median, mad := medianMAD(obs)
		thr := opt.OutlierThreshold
		if thr <= 0 {
			thr = 3.5
		}
		var cnt int
		maxAbsZ := 0.0
		if mad > 0 {
			for _, v := range obs {
				az := math.Abs(0.6745 * (v - median) / mad)
				if az > thr {
					cnt++
				}
				if az > maxAbsZ {
					maxAbsZ = az
				}
			}
		}
		s.OutliersCount = cnt
		s.OutliersMaxAbsZ = maxAbsZ
		s.OutlierThreshold = thr
	}
}

func topValues(c *table.Column, limit int) ([]CategoryCount, int) {
	counts := map[string]int{}
	for i := 0; i < c.Len(); i++ {
		if !c.IsMissing(i) {
			counts[c.Text(i)]++
		}
	}
	tops := make([]CategoryCount, 0, len(counts))
	for k, v := range counts {
		tops = append(tops, CategoryCount{Value: k, Count: v})
	}
	sort.Slice(tops, func(i, j int) bool {
		if tops[i].Count == tops[j].Count {
			return tops[i].Value < tops[j].Value
		}
		return tops[i].Count > tops[j].Count
	})
	if len(tops) > limit {
		tops = tops[:limit]
	}
	return tops, len(counts)
}

func groupSummaries(t *table.Table, by []string, numCols []*table.Column) ([]GroupResult, error) {
	keys, err := t.Lookup("describe", by)
	if err != nil {
		return nil, err
	}
	type gAcc struct {
		size          int
		sum, min, max map[string]float64
		cnt           map[string]int
	}
	groups := map[string]*gAcc{}
	for i := 0; i < t.Rows(); i++ {
		parts := make([]string, len(keys))
		for j, k := range keys {
			parts[j] = fmt.Sprintf("%s=%s", k.Name(), safeVal(k.Text(i)))
		}
		key := strings.Join(parts, " | ")
		ga := groups[key]
		if ga == nil {
			ga = &gAcc{sum: map[string]float64{}, min: map[string]float64{}, max: map[string]float64{}, cnt: map[string]int{}}
			groups[key] = ga
		}
		ga.size++
		for _, c := range numCols {
			x := c.Float(i)
			if math.IsNaN(x) {
				continue
			}
			n := c.Name()
			if ga.cnt[n] == 0 || x < ga.min[n] {
				ga.min[n] = x
			}
			if ga.cnt[n] == 0 || x > ga.max[n] {
				ga.max[n] = x
			}
			ga.sum[n] += x
			ga.cnt[n]++
		}
	}
	out := make([]GroupResult, 0, len(groups))
	for k, ga := range groups {
		gr := GroupResult{Key: k, Size: ga.size, Metrics: map[string]NumSummary{}}
		for n, cnt := range ga.cnt {
			gr.Metrics[n] = NumSummary{Count: cnt, Min: ga.min[n], Max: ga.max[n], Mean: ga.sum[n] / float64(cnt)}
		}
		out = append(out, gr)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Size == out[j].Size {
			return out[i].Key < out[j].Key
		}
		return out[i].Size > out[j].Size
	})
	if len(out) > 20 {
		out = out[:20]
	}
	return out, nil
}

// correlations uses rows where both values are present for each pair.
func correlations(cols []*table.Column) *CorrMatrix {
	n := len(cols)
	names := make([]string, n)
	vals := make([][]float64, n)
	for i, c := range cols {
		names[i] = c.Name()
		vals[i] = make([]float64, n)
	}
	for a := 0; a < n; a++ {
		vals[a][a] = 1
		for b := a + 1; b < n; b++ {
			r := pearson(cols[a], cols[b])
			vals[a][b], vals[b][a] = r, r
		}
	}
	return &CorrMatrix{Columns: names, Values: vals}
}

func pearson(a, b *table.Column) float64 {
	var xs, ys []float64
	for i := 0; i < a.Len(); i++ {
		x, y := a.Float(i), b.Float(i)
		if math.IsNaN(x) || math.IsNaN(y) {
			continue
		}
		xs = append(xs, x)
		ys = append(ys, y)
	}
	if len(xs) < 2 {
		return 0
	}
	r := stat.Correlation(xs, ys, nil)
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return 0
	}
	return math.Max(-1, math.Min(1, r))
}

// medianMAD computes median and MAD (median absolute deviation) of values.
func medianMAD(vals []float64) (median, mad float64) {
	if len(vals) == 0 {
		return 0, 0
	}
	cp := make([]float64, len(vals))
	copy(cp, vals)
	sort.Float64s(cp)
	median = quantile(cp, 0.5)
	dev := make([]float64, len(cp))
	for i, v := range cp {
		dev[i] = math.Abs(v - median)
	}
	sort.Float64s(dev)
	mad = quantile(dev, 0.5)
	return
}

func quantile(sorted []float64, q float64) float64 {
	if len(sorted) == 0 {
		return 0
	}
	if q <= 0 {
		return sorted[0]
	}
	if q >= 1 {
		return sorted[len(sorted)-1]
	}
	pos := q * float64(len(sorted)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	if lo == hi {
		return sorted[lo]
	}
	w := pos - float64(lo)
	return sorted[lo]*(1-w) + sorted[hi]*w
}
