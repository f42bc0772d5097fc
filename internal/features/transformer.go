package features

import (
	"errors"
	"fmt"
	"math"
	"sort"
	"strconv"

	"carprice/internal/dataset"
)

// NumericFeature carries the fitted statistics for one numeric column:
// the training mean used for imputation and the post-imputation mean and
// standard deviation used for standardization.
type NumericFeature struct {
	Name   string
	Impute float64
	Mean   float64
	Std    float64
}

// CategoricalFeature carries the fitted state for one categorical column:
// the most frequent training value used for imputation and the ordered
// category vocabulary for one-hot expansion.
type CategoricalFeature struct {
	Name       string
	Impute     string
	Categories []string
	index      map[string]int
}

// Transformer is the fitted column-wise encoding shared between offline
// feature preparation and online inference. Fit runs exactly once, on
// training data; Transform never re-estimates statistics.
type Transformer struct {
	Numeric     []NumericFeature
	Categorical []CategoricalFeature
}

// Fit partitions the frame's columns into numeric and categorical by value
// shape and computes the training statistics for each branch. A column is
// numeric when every non-missing training cell parses as a float and at
// least one cell is non-missing.
func Fit(frame *dataset.Frame) (*Transformer, error) {
	if frame.Len() == 0 {
		return nil, errors.New("features: cannot fit on an empty frame")
	}

	t := &Transformer{}
	for _, name := range frame.Columns() {
		cells, err := frame.Column(name)
		if err != nil {
			return nil, fmt.Errorf("features: %w", err)
		}
		if values, ok := numericValues(cells); ok {
			t.Numeric = append(t.Numeric, fitNumeric(name, cells, values))
			continue
		}
		cat, err := fitCategorical(name, cells)
		if err != nil {
			return nil, err
		}
		t.Categorical = append(t.Categorical, cat)
	}
	return t, nil
}

// Width reports the number of output feature columns: the numeric block
// followed by one indicator column per known category.
func (t *Transformer) Width() int {
	width := len(t.Numeric)
	for _, cat := range t.Categorical {
		width += len(cat.Categories)
	}
	return width
}

// FeatureNames returns the output column names in transform order.
func (t *Transformer) FeatureNames() []string {
	names := make([]string, 0, t.Width())
	for _, num := range t.Numeric {
		names = append(names, num.Name)
	}
	for _, cat := range t.Categorical {
		for _, value := range cat.Categories {
			names = append(names, cat.Name+"="+value)
		}
	}
	return names
}

// Transform encodes every row of the frame with the fitted statistics. The
// frame must contain every fitted column; extra columns are ignored. A
// category never seen during fit yields an all-zero indicator block rather
// than an error.
func (t *Transformer) Transform(frame *dataset.Frame) ([][]float64, error) {
	for _, num := range t.Numeric {
		if !frame.Has(num.Name) {
			return nil, fmt.Errorf("features: transform input missing column %q", num.Name)
		}
	}
	for _, cat := range t.Categorical {
		if !frame.Has(cat.Name) {
			return nil, fmt.Errorf("features: transform input missing column %q", cat.Name)
		}
	}

	out := make([][]float64, frame.Len())
	for i := range out {
		row := make([]float64, 0, t.Width())
		for _, num := range t.Numeric {
			cell, err := frame.Cell(i, num.Name)
			if err != nil {
				return nil, fmt.Errorf("features: %w", err)
			}
			value := num.Impute
			if cell != "" {
				value, err = strconv.ParseFloat(cell, 64)
				if err != nil {
					return nil, fmt.Errorf("features: column %q row %d: %w", num.Name, i, err)
				}
			}
			row = append(row, num.standardize(value))
		}
		for _, cat := range t.Categorical {
			cell, err := frame.Cell(i, cat.Name)
			if err != nil {
				return nil, fmt.Errorf("features: %w", err)
			}
			if cell == "" {
				cell = cat.Impute
			}
			block := make([]float64, len(cat.Categories))
			if j, ok := cat.lookup(cell); ok {
				block[j] = 1
			}
			row = append(row, block...)
		}
		out[i] = row
	}
	return out, nil
}

func (n NumericFeature) standardize(value float64) float64 {
	if n.Std == 0 {
		return 0
	}
	return (value - n.Mean) / n.Std
}

func (c *CategoricalFeature) lookup(value string) (int, bool) {
	if c.index == nil {
		c.index = make(map[string]int, len(c.Categories))
		for j, v := range c.Categories {
			c.index[v] = j
		}
	}
	j, ok := c.index[value]
	return j, ok
}

// numericValues parses the non-missing cells of a column. The bool result
// reports whether the column qualifies as numeric.
func numericValues(cells []string) ([]float64, bool) {
	values := make([]float64, 0, len(cells))
	for _, cell := range cells {
		if cell == "" {
			continue
		}
		v, err := strconv.ParseFloat(cell, 64)
		if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
			return nil, false
		}
		values = append(values, v)
	}
	if len(values) == 0 {
		return nil, false
	}
	return values, true
}

func fitNumeric(name string, cells []string, values []float64) NumericFeature {
	impute := mean(values)

	// Scaling statistics are computed after imputation, so missing cells
	// contribute the imputed value.
	filled := make([]float64, len(cells))
	for i, cell := range cells {
		if cell == "" {
			filled[i] = impute
			continue
		}
		filled[i], _ = strconv.ParseFloat(cell, 64)
	}
	m := mean(filled)
	return NumericFeature{Name: name, Impute: impute, Mean: m, Std: stddev(filled, m)}
}

func fitCategorical(name string, cells []string) (CategoricalFeature, error) {
	counts := make(map[string]int)
	for _, cell := range cells {
		if cell == "" {
			continue
		}
		counts[cell]++
	}
	if len(counts) == 0 {
		return CategoricalFeature{}, fmt.Errorf("features: column %q has no observed values", name)
	}

	categories := make([]string, 0, len(counts))
	for value := range counts {
		categories = append(categories, value)
	}
	sort.Strings(categories)

	// Ties break toward the lexicographically smallest value so refits on
	// the same data stay deterministic.
	impute := categories[0]
	for _, value := range categories {
		if counts[value] > counts[impute] {
			impute = value
		}
	}
	return CategoricalFeature{Name: name, Impute: impute, Categories: categories}, nil
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}

// stddev is the population standard deviation, matching the convention of
// fitting scalers on the full training column.
func stddev(values []float64, m float64) float64 {
	if len(values) == 0 {
		return 0
	}
	var sum float64
	for _, v := range values {
		d := v - m
		sum += d * d
	}
	return math.Sqrt(sum / float64(len(values)))
}
