package core

import (
	"fmt"
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// The statistics below ignore non-numeric values.  Variance and covariance
// are population statistics (divide by n).

func numbers(vs []Value) ([]float64, error) {
	xs := Numbers(vs)
	if len(xs) == 0 {
		return nil, ErrNoNumericData
	}
	return xs, nil
}

func Mean(vs []Value) (float64, error) {
	xs, err := numbers(vs)
	if err != nil {
		return 0, err
	}
	return stat.Mean(xs, nil), nil
}

func Variance(vs []Value) (float64, error) {
	xs, err := numbers(vs)
	if err != nil {
		return 0, err
	}
	_, v := stat.PopMeanVariance(xs, nil)
	return v, nil
}

func Std(vs []Value) (float64, error) {
	v, err := Variance(vs)
	return math.Sqrt(v), err
}

// Median averages the two middle values of an even-sized sample.
func Median(vs []Value) (float64, error) {
	xs, err := numbers(vs)
	if err != nil {
		return 0, err
	}
	return median(sorted(xs)), nil
}

func median(s []float64) float64 {
	n := len(s)
	if n%2 == 1 {
		return s[n/2]
	}
	return (s[n/2-1] + s[n/2]) / 2
}

func sorted(xs []float64) []float64 {
	s := slices.Clone(xs)
	slices.Sort(s)
	return s
}

// Percentile picks the element at round(p/100 * (n-1)) of the sorted sample.
// p must be within [0, 100].
func Percentile(vs []Value, p float64) (float64, error) {
	if p < 0 || p > 100 || math.IsNaN(p) {
		return 0, fmt.Errorf("percentile %g outside [0, 100]: %w", p, ErrInvalidParameter)
	}
	xs, err := numbers(vs)
	if err != nil {
		return 0, err
	}
	return percentile(sorted(xs), p), nil
}

func percentile(s []float64, p float64) float64 {
	i := int(math.Round(p / 100 * float64(len(s)-1)))
	return s[i]
}

// pairs keeps the positions where both values are numeric.
func pairs(xs, ys []Value) ([]float64, []float64, error) {
	if len(xs) != len(ys) {
		return nil, nil, fmt.Errorf("%d and %d values: %w", len(xs), len(ys), ErrLengthMismatch)
	}
	var a, b []float64
	for i := range xs {
		x, okx := ToFloat(xs[i])
		y, oky := ToFloat(ys[i])
		if okx && oky {
			a = append(a, x)
			b = append(b, y)
		}
	}
	if len(a) == 0 {
		return nil, nil, ErrNoNumericData
	}
	return a, b, nil
}

func Covariance(xs, ys []Value) (float64, error) {
	a, b, err := pairs(xs, ys)
	if err != nil {
		return 0, err
	}
	return stat.BivariateMoment(1, 1, a, b, nil), nil
}

// Correlation is the Pearson coefficient.  It is 0 when either input has no
// spread.
func Correlation(xs, ys []Value) (float64, error) {
	a, b, err := pairs(xs, ys)
	if err != nil {
		return 0, err
	}
	_, va := stat.PopMeanVariance(a, nil)
	_, vb := stat.PopMeanVariance(b, nil)
	if va == 0 || vb == 0 {
		return 0, nil
	}
	return stat.BivariateMoment(1, 1, a, b, nil) / math.Sqrt(va*vb), nil
}

// Summary describes a numeric sample.
type Summary struct {
	Count  int
	Mean   float64
	Std    float64
	Min    float64
	Max    float64
	Median float64
	P5     float64
	P95    float64
}

func Summarize(vs []Value) (Summary, error) {
	xs, err := numbers(vs)
	if err != nil {
		return Summary{}, err
	}
	s := sorted(xs)
	mean, variance := stat.PopMeanVariance(xs, nil)
	return Summary{
		Count:  len(xs),
		Mean:   mean,
		Std:    math.Sqrt(variance),
		Min:    floats.Min(xs),
		Max:    floats.Max(xs),
		Median: median(s),
		P5:     percentile(s, 5),
		P95:    percentile(s, 95),
	}, nil
}

func (s Summary) String() string {
	return fmt.Sprintf("n=%d mean=%.4f std=%.4f min=%.4f p5=%.4f median=%.4f p95=%.4f max=%.4f",
		s.Count, s.Mean, s.Std, s.Min, s.P5, s.Median, s.P95, s.Max)
}

// AsMap renders the summary as a runtime map value.
func (s Summary) AsMap() *MapVal {
	return NewMap(map[string]Value{
		"count":  IntVal(s.Count),
		"mean":   FloatVal(s.Mean),
		"std":    FloatVal(s.Std),
		"min":    FloatVal(s.Min),
		"max":    FloatVal(s.Max),
		"median": FloatVal(s.Median),
		"p5":     FloatVal(s.P5),
		"p95":    FloatVal(s.P95),
	})
}
