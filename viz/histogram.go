package viz

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"github.com/hyperpolymath/betlang/core"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Bin counts the samples in [Lo, Hi).  The last bin also holds its upper edge.
type Bin struct {
	Lo, Hi float64
	Count  int
}

type Histogram struct {
	Title   string
	Bins    []Bin
	Total   int
	Dropped int // NaN and infinite samples left out of the bins
	config  ChartConfig
}

// NewHistogram splits the finite samples of data into bins equal-width bins
// between their minimum and maximum.
func NewHistogram(title string, data []float64, bins int, config ChartConfig) (*Histogram, error) {
	if bins <= 0 {
		return nil, ErrInvalidBins
	}
	xs := make([]float64, 0, len(data))
	for _, x := range data {
		if !math.IsNaN(x) && !math.IsInf(x, 0) {
			xs = append(xs, x)
		}
	}
	if len(xs) == 0 {
		return nil, ErrNoData
	}
	slices.Sort(xs)
	lo, hi := xs[0], xs[len(xs)-1]

	dividers := make([]float64, bins+1)
	if lo == hi {
		for i := range dividers {
			dividers[i] = lo + float64(i)
		}
	} else {
		floats.Span(dividers, lo, hi)
	}
	dividers[bins] = math.Nextafter(dividers[bins], math.Inf(1))
	counts := stat.Histogram(nil, dividers, xs, nil)

	h := &Histogram{Title: title, Total: len(xs), Dropped: len(data) - len(xs), config: config.normalized()}
	for i, c := range counts {
		h.Bins = append(h.Bins, Bin{Lo: dividers[i], Hi: dividers[i+1], Count: int(c)})
	}
	return h, nil
}

// HistogramOf plots the numeric elements of vs.  Other values are ignored.
func HistogramOf(title string, vs []core.Value, bins int, config ChartConfig) (*Histogram, error) {
	return NewHistogram(title, core.Numbers(vs), bins, config)
}

func (h *Histogram) Generate() (string, error) {
	p := h.config.Precision
	labels := make([]string, len(h.Bins))
	peak := 0
	for i, b := range h.Bins {
		labels[i] = fmt.Sprintf("%.*f..%.*f", p, b.Lo, p, b.Hi)
		peak = max(peak, b.Count)
	}
	w := labelWidth(labels)

	var sb strings.Builder
	if h.Title != "" {
		sb.WriteString(h.Title + "\n")
	}
	for i, b := range h.Bins {
		fmt.Fprintf(&sb, "%s | %s %d\n", pad(labels[i], w), h.config.bar(float64(b.Count), float64(peak)), b.Count)
	}
	fmt.Fprintf(&sb, "n=%d", h.Total)
	if h.Dropped > 0 {
		fmt.Fprintf(&sb, " (%d non-finite dropped)", h.Dropped)
	}
	sb.WriteString("\n")
	return sb.String(), nil
}
