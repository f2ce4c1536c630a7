package prep

import (
	"math"
	"sort"
	"strconv"

	"github.com/KaramelBytes/tabprep-cli/internal/table"
)

// OneHot replaces column with one bool column per distinct non-missing value,
// named "{column}_{value}" and ordered by value. Rows whose source is missing
// are false everywhere.
func OneHot(t *table.Table, column string) (*table.Table, error) {
	c, ok := t.Column(column)
	if !ok {
		return nil, table.UnknownColumn("one-hot", column)
	}
	values := distinctValues(c)
	pos := make(map[string]int, len(values))
	blocks := make([][]bool, len(values))
	for j, v := range values {
		pos[v] = j
		blocks[j] = make([]bool, c.Len())
	}
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			continue
		}
		blocks[pos[c.Text(i)]][i] = true
	}
	repl := make([]*table.Column, len(values))
	for j, v := range values {
		repl[j] = table.NewBool(column+"_"+v, blocks[j])
	}
	return t.Splice("one-hot", column, repl...)
}

// distinctValues returns the distinct non-missing cell texts, numerically
// sorted for numeric columns and lexically otherwise.
func distinctValues(c *table.Column) []string {
	seen := make(map[string]struct{})
	var out []string
	for i := 0; i < c.Len(); i++ {
		if c.IsMissing(i) {
			continue
		}
		s := c.Text(i)
		if _, ok := seen[s]; ok {
			continue
		}
		seen[s] = struct{}{}
		out = append(out, s)
	}
	if c.Kind() == table.Numeric {
		sort.Slice(out, func(a, b int) bool {
			x, _ := strconv.ParseFloat(out[a], 64)
			y, _ := strconv.ParseFloat(out[b], 64)
			return x < y
		})
		return out
	}
	sort.Strings(out)
	return out
}

// BucketizeNumeric replaces column with labels chosen by ascending thresholds:
// a value gets labels[i] for the first i with value < thresholds[i].
//
// With len(labels) == len(thresholds), values at or above the last threshold
// are out of range and missing. With one extra label, that label is open-ended
// and takes them instead. Missing values stay missing.
func BucketizeNumeric(t *table.Table, column string, thresholds []float64, labels []string) (*table.Table, error) {
	const op = "bucketize"
	c, ok := t.Column(column)
	if !ok {
		return nil, table.UnknownColumn(op, column)
	}
	if len(thresholds) == 0 {
		return nil, invalidOption(op, column, "no thresholds")
	}
	openTop := len(labels) == len(thresholds)+1
	if len(labels) != len(thresholds) && !openTop {
		return nil, invalidOption(op, column, "%d labels for %d thresholds", len(labels), len(thresholds))
	}
	for i := 1; i < len(thresholds); i++ {
		if !(thresholds[i] > thresholds[i-1]) {
			return nil, invalidOption(op, column, "thresholds must be strictly ascending")
		}
	}
	vals, err := numericValues(op, c)
	if err != nil {
		return nil, err
	}
	out := make([]string, len(vals))
	for i, v := range vals {
		if math.IsNaN(v) {
			continue
		}
		b := sort.Search(len(thresholds), func(j int) bool { return v < thresholds[j] })
		switch {
		case b < len(thresholds):
			out[i] = labels[b]
		case openTop:
			out[i] = labels[len(thresholds)]
		}
	}
	return t.Replace(op, table.NewLabel(column, out))
}

// Binarize replaces a numeric column with a bool column that is true where
// the value is greater than zero. Missing values become false.
func Binarize(t *table.Table, column string) (*table.Table, error) {
	c, ok := t.Column(column)
	if !ok {
		return nil, table.UnknownColumn("binarize", column)
	}
	vals, err := numericValues("binarize", c)
	if err != nil {
		return nil, err
	}
	out := make([]bool, len(vals))
	for i, v := range vals {
		out[i] = v > 0
	}
	return t.Replace("binarize", table.NewBool(column, out))
}

// EncodeForAssociation turns every column into bool indicators so the table
// can feed a frequent-itemset miner: text and label columns are one-hot
// encoded, numeric columns binarized, bool columns kept.
func EncodeForAssociation(t *table.Table) (*table.Table, error) {
	cur := t
	for _, c := range t.Columns() {
		var err error
		switch c.Kind() {
		case table.Text, table.Label:
			cur, err = OneHot(cur, c.Name())
		case table.Numeric:
			cur, err = Binarize(cur, c.Name())
		}
		if err != nil {
			return nil, err
		}
	}
	return cur, nil
}

// LabelEncode replaces column with numeric codes 0..k-1 assigned to its
// distinct values in sorted order. Missing values stay missing.
func LabelEncode(t *table.Table, column string) (*table.Table, error) {
	c, ok := t.Column(column)
	if !ok {
		return nil, table.UnknownColumn("label encode", column)
	}
	values := distinctValues(c)
	code := make(map[string]float64, len(values))
	for j, v := range values {
		code[v] = float64(j)
	}
	out := make([]float64, c.Len())
	for i := range out {
		if c.IsMissing(i) {
			out[i] = math.NaN()
			continue
		}
		out[i] = code[c.Text(i)]
	}
	return t.Replace("label encode", table.NewNumeric(column, out))
}

// DefaultClassThresholds split a production-style target into Low below 5000,
// Medium below 15000 and High otherwise.
var DefaultClassThresholds = []float64{5000, 15000}

// EncodeForClassification keeps features followed by target, label-encodes
// the text and label features and bucketizes target into class labels.
func EncodeForClassification(t *table.Table, features []string, target string, thresholds []float64, labels []string) (*table.Table, error) {
	const op = "classification encode"
	if len(features) == 0 {
		return nil, invalidOption(op, target, "no feature columns")
	}
	for _, f := range features {
		if f == target {
			return nil, invalidOption(op, target, "target is also a feature")
		}
	}
	cur, err := t.Select(op, append(append([]string{}, features...), target)...)
	if err != nil {
		return nil, err
	}
	for _, c := range cur.Columns() {
		if c.Name() == target || (c.Kind() != table.Text && c.Kind() != table.Label) {
			continue
		}
		if cur, err = LabelEncode(cur, c.Name()); err != nil {
			return nil, err
		}
	}
	return BucketizeNumeric(cur, target, thresholds, labels)
}
