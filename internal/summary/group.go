package summary

import (
	"fmt"
	"sort"

	"github.com/KaramelBytes/filmstats-cli/internal/dataset"
	"gonum.org/v1/gonum/stat"
)

// GroupMean is the average of a value field within one group.
type GroupMean struct {
	Key   string  `json:"key" yaml:"key"`
	Mean  float64 `json:"mean" yaml:"mean"`
	Count int     `json:"count" yaml:"count"`
}

// ValueCount is how often a value occurs.
type ValueCount struct {
	Value string `json:"value" yaml:"value"`
	Count int    `json:"count" yaml:"count"`
}

// GroupedMean averages valueKey per distinct groupKey. Groups are ordered
// by key ascending, numerically when groupKey is numeric. Rows lacking
// either field are skipped.
func GroupedMean(d *dataset.Dataset, groupKey, valueKey dataset.Field) ([]GroupMean, error) {
	if !valueKey.Numeric() {
		return nil, fmt.Errorf("grouped mean of %s: %w", valueKey, ErrNotNumeric)
	}
	type acc struct {
		key  string
		num  float64
		vals []float64
	}
	groups := map[string]*acc{}
	for _, r := range d.Rows() {
		v, ok := r.Number(valueKey)
		if !ok {
			continue
		}
		var num float64
		if groupKey.Numeric() {
			if num, ok = r.Number(groupKey); !ok {
				continue
			}
		}
		k := r.Text(groupKey)
		g := groups[k]
		if g == nil {
			g = &acc{key: k, num: num}
			groups[k] = g
		}
		g.vals = append(g.vals, v)
	}
	accs := make([]*acc, 0, len(groups))
	for _, g := range groups {
		accs = append(accs, g)
	}
	sort.Slice(accs, func(i, j int) bool {
		if groupKey.Numeric() && accs[i].num != accs[j].num {
			return accs[i].num < accs[j].num
		}
		return accs[i].key < accs[j].key
	})
	out := make([]GroupMean, len(accs))
	for i, g := range accs {
		out[i] = GroupMean{Key: g.key, Mean: stat.Mean(g.vals, nil), Count: len(g.vals)}
	}
	return out, nil
}

// TopNByFrequency counts the values of field and returns the n most
// frequent, ties in first-seen order. Empty cells are not counted and
// n <= 0 returns every value.
func TopNByFrequency(d *dataset.Dataset, field dataset.Field, n int) ([]ValueCount, error) {
	if d.Len() == 0 {
		return nil, fmt.Errorf("top %s by frequency: %w", field, ErrEmptyDataset)
	}
	index := map[string]int{}
	var out []ValueCount
	for _, r := range d.Rows() {
		v := r.Text(field)
		if v == "" {
			continue
		}
		i, ok := index[v]
		if !ok {
			i = len(out)
			index[v] = i
			out = append(out, ValueCount{Value: v})
		}
		out[i].Count++
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Count > out[j].Count })
	if n > 0 && n < len(out) {
		out = out[:n]
	}
	return out, nil
}

// TopNByValue returns the n rows with the largest field value. Equal
// values keep their input order and n <= 0 returns every row carrying the
// field.
func TopNByValue(d *dataset.Dataset, field dataset.Field, n int) ([]dataset.MovieRecord, error) {
	if d.Len() == 0 {
		return nil, fmt.Errorf("top %s by value: %w", field, ErrEmptyDataset)
	}
	if !field.Numeric() {
		return nil, fmt.Errorf("top %s by value: %w", field, ErrNotNumeric)
	}
	var rows []dataset.MovieRecord
	for _, r := range d.Rows() {
		if r.Has(field) {
			rows = append(rows, r)
		}
	}
	sort.SliceStable(rows, func(i, j int) bool {
		a, _ := rows[i].Number(field)
		b, _ := rows[j].Number(field)
		return a > b
	})
	if n > 0 && n < len(rows) {
		rows = rows[:n]
	}
	return rows, nil
}
