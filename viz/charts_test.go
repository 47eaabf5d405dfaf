package viz

import (
	"testing"

	"github.com/fatih/color"
	"github.com/hyperpolymath/betlang/core"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func golden(t *testing.T) *goldie.Goldie {
	return goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
}

func plain() ChartConfig {
	return ChartConfig{Width: 10, Precision: 1, BarChar: "█"}
}

func TestHistogram(t *testing.T) {
	data := []float64{1, 2, 3, 4, 5, 6, 7, 8, 9, 10}
	h, err := NewHistogram("values", data, 3, plain())
	require.NoError(t, err)
	require.Len(t, h.Bins, 3)
	assert.Equal(t, []int{3, 3, 4}, []int{h.Bins[0].Count, h.Bins[1].Count, h.Bins[2].Count})

	out, err := h.Generate()
	require.NoError(t, err)
	golden(t).Assert(t, "histogram", []byte(out))
}

func TestHistogramOfValues(t *testing.T) {
	vs := []core.Value{core.IntVal(5), core.StringVal("skip"), core.FloatVal(5), core.IntVal(5)}
	h, err := HistogramOf("", vs, 4, plain())
	require.NoError(t, err)
	assert.Equal(t, 3, h.Total)
	assert.Equal(t, 3, h.Bins[0].Count)

	_, err = HistogramOf("", []core.Value{core.StringVal("x")}, 4, plain())
	assert.ErrorIs(t, err, ErrNoData)
	_, err = NewHistogram("", []float64{1}, 0, plain())
	assert.ErrorIs(t, err, ErrInvalidBins)
}

func TestFrequencyChart(t *testing.T) {
	letters := []core.Value{
		core.StringVal("b"), core.StringVal("a"), core.StringVal("b"),
		core.StringVal("c"), core.StringVal("b"), core.StringVal("a"),
	}
	cfg := plain()
	cfg.Precision = 2
	c, err := FrequencyChart("letters", letters, cfg)
	require.NoError(t, err)
	out, err := c.Generate()
	require.NoError(t, err)
	golden(t).Assert(t, "frequency", []byte(out))
}

func TestOutcomesChart(t *testing.T) {
	d, err := core.WeightedBet(core.StringVal("win"), 1, core.StringVal("lose"), 2, core.StringVal("win"), 1)
	require.NoError(t, err)
	o, err := d.Enumerate()
	require.NoError(t, err)
	c, err := OutcomesChart("", o, plain())
	require.NoError(t, err)
	require.Len(t, c.Bars, 2)
	assert.Equal(t, "win", c.Bars[0].Label)
	assert.InDelta(t, 0.5, c.Bars[0].Value, 1e-12)
	assert.InDelta(t, 0.5, c.Bars[1].Value, 1e-12)
}

func TestBarChartValidation(t *testing.T) {
	_, err := NewBarChart("", nil, plain())
	assert.ErrorIs(t, err, ErrNoData)
	_, err = NewBarChart("", []Bar{{"x", -1}}, plain())
	assert.ErrorIs(t, err, ErrInvalidBar)
}

func TestColoredBars(t *testing.T) {
	cfg := plain()
	cfg.Color = true
	cfg.BarColor = color.FgRed
	c, err := NewBarChart("", []Bar{{"x", 1}}, cfg)
	require.NoError(t, err)
	out, err := c.Generate()
	require.NoError(t, err)
	assert.Contains(t, out, "\x1b[31m")
}
