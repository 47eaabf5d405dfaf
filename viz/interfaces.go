// Package viz renders runtime values as terminal charts.
package viz

import (
	"errors"
	"math"
	"strings"

	"github.com/fatih/color"
)

var (
	ErrNoData      = errors.New("no data to plot")
	ErrInvalidBins = errors.New("bin count must be positive")
	ErrInvalidBar  = errors.New("bar values must be finite and non-negative")
)

// Chart is anything that renders to text.
type Chart interface {
	Generate() (string, error)
}

// ChartConfig holds the layout shared by all charts.
type ChartConfig struct {
	Width     int    // cells used by the longest bar
	Precision int    // decimals printed for values and bin edges
	BarChar   string // glyph a bar is built from
	Color     bool   // wrap bars in ANSI colors
	BarColor  color.Attribute
}

func DefaultChartConfig() ChartConfig {
	return ChartConfig{
		Width:     40,
		Precision: 2,
		BarChar:   "█",
		BarColor:  color.FgCyan,
	}
}

func (c ChartConfig) normalized() ChartConfig {
	d := DefaultChartConfig()
	if c.Width <= 0 {
		c.Width = d.Width
	}
	if c.Precision < 0 {
		c.Precision = d.Precision
	}
	if c.BarChar == "" {
		c.BarChar = d.BarChar
	}
	if c.BarColor == 0 {
		c.BarColor = d.BarColor
	}
	return c
}

// bar draws value as a fraction of peak.
func (c ChartConfig) bar(value, peak float64) string {
	n := 0
	if peak > 0 {
		n = int(math.Round(value / peak * float64(c.Width)))
	}
	s := strings.Repeat(c.BarChar, n)
	painter := color.New(c.BarColor)
	if c.Color {
		painter.EnableColor()
	} else {
		painter.DisableColor()
	}
	return painter.Sprint(s)
}

func labelWidth(labels []string) int {
	w := 0
	for _, l := range labels {
		w = max(w, len([]rune(l)))
	}
	return w
}

func pad(s string, width int) string {
	if n := width - len([]rune(s)); n > 0 {
		return s + strings.Repeat(" ", n)
	}
	return s
}
