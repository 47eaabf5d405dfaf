package viz

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/hyperpolymath/betlang/core"
)

type Bar struct {
	Label string
	Value float64
}

type BarChart struct {
	Title  string
	Bars   []Bar
	config ChartConfig
}

func NewBarChart(title string, bars []Bar, config ChartConfig) (*BarChart, error) {
	if len(bars) == 0 {
		return nil, ErrNoData
	}
	for _, b := range bars {
		if b.Value < 0 || math.IsNaN(b.Value) || math.IsInf(b.Value, 0) {
			return nil, fmt.Errorf("bar %q = %v: %w", b.Label, b.Value, ErrInvalidBar)
		}
	}
	return &BarChart{Title: title, Bars: bars, config: config.normalized()}, nil
}

func valueLabel(v core.Value) string {
	if s, ok := v.(core.StringVal); ok {
		return string(s)
	}
	return v.String()
}

// FrequencyChart plots the relative frequency of each distinct value in vs,
// ordered by label.
func FrequencyChart(title string, vs []core.Value, config ChartConfig) (*BarChart, error) {
	counts := map[string]int{}
	for _, v := range vs {
		counts[valueLabel(v)]++
	}
	bars := make([]Bar, 0, len(counts))
	for label, n := range counts {
		bars = append(bars, Bar{Label: label, Value: float64(n) / float64(len(vs))})
	}
	slices.SortFunc(bars, func(a, b Bar) int { return strings.Compare(a.Label, b.Label) })
	return NewBarChart(title, bars, config)
}

// OutcomesChart plots the probability of each outcome, merging outcomes that
// print the same.  Bars keep the order outcomes first appear in.
func OutcomesChart(title string, o *core.Outcomes[core.Value], config ChartConfig) (*BarChart, error) {
	if o == nil || o.TotalWeight() <= 0 {
		return nil, ErrNoData
	}
	merged := o.Normalized().Merge(valueLabel)
	bars := make([]Bar, 0, merged.Len())
	for _, b := range merged.Buckets {
		bars = append(bars, Bar{Label: valueLabel(b.Value), Value: b.Weight})
	}
	return NewBarChart(title, bars, config)
}

func (c *BarChart) Generate() (string, error) {
	labels := make([]string, len(c.Bars))
	peak := 0.0
	for i, b := range c.Bars {
		labels[i] = b.Label
		peak = max(peak, b.Value)
	}
	w := labelWidth(labels)

	var sb strings.Builder
	if c.Title != "" {
		sb.WriteString(c.Title + "\n")
	}
	for _, b := range c.Bars {
		fmt.Fprintf(&sb, "%s | %s %.*f\n", pad(b.Label, w), c.config.bar(b.Value, peak), c.config.Precision, b.Value)
	}
	return sb.String(), nil
}
