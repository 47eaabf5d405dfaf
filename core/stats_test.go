package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ints(xs ...int64) []Value {
	out := make([]Value, len(xs))
	for i, x := range xs {
		out[i] = IntVal(x)
	}
	return out
}

func TestBasicStatistics(t *testing.T) {
	data := ints(1, 2, 3, 4, 5)

	mean, err := Mean(data)
	require.NoError(t, err)
	assert.Equal(t, 3.0, mean)

	median, err := Median(data)
	require.NoError(t, err)
	assert.Equal(t, 3.0, median)

	variance, err := Variance(data)
	require.NoError(t, err)
	assert.InDelta(t, 2.0, variance, 1e-12)

	std, err := Std(data)
	require.NoError(t, err)
	assert.InDelta(t, 1.41421356, std, 1e-6)
}

func TestStatisticsIgnoreNonNumeric(t *testing.T) {
	data := []Value{IntVal(2), StringVal("skip"), FloatVal(4), BoolVal(true)}
	mean, err := Mean(data)
	require.NoError(t, err)
	assert.Equal(t, 3.0, mean)

	_, err = Mean([]Value{StringVal("a")})
	assert.ErrorIs(t, err, ErrNoNumericData)
	_, err = Median(nil)
	assert.ErrorIs(t, err, ErrNoNumericData)
}

func TestMedianEvenCount(t *testing.T) {
	m, err := Median(ints(4, 1, 3, 2))
	require.NoError(t, err)
	assert.Equal(t, 2.5, m)
}

func TestPercentile(t *testing.T) {
	data := ints(10, 20, 30, 40, 50)
	for p, want := range map[float64]float64{0: 10, 25: 20, 50: 30, 100: 50, 90: 50, 10: 10} {
		got, err := Percentile(data, p)
		require.NoError(t, err)
		assert.Equal(t, want, got, "p%g", p)
	}
	_, err := Percentile(data, 101)
	assert.ErrorIs(t, err, ErrInvalidParameter)
}

func TestCovarianceAndCorrelation(t *testing.T) {
	xs := ints(1, 2, 3, 4, 5)
	ys := ints(2, 4, 6, 8, 10)

	cov, err := Covariance(xs, ys)
	require.NoError(t, err)
	assert.InDelta(t, 4.0, cov, 1e-12)

	corr, err := Correlation(xs, ys)
	require.NoError(t, err)
	assert.InDelta(t, 1.0, corr, 1e-12)

	corr, err = Correlation(xs, ints(7, 7, 7, 7, 7))
	require.NoError(t, err)
	assert.Equal(t, 0.0, corr)

	_, err = Covariance(xs, ints(1))
	assert.ErrorIs(t, err, ErrLengthMismatch)
}

func TestSummarize(t *testing.T) {
	s, err := Summarize(ints(5, 1, 4, 2, 3))
	require.NoError(t, err)
	assert.Equal(t, 5, s.Count)
	assert.Equal(t, 3.0, s.Mean)
	assert.Equal(t, 1.0, s.Min)
	assert.Equal(t, 5.0, s.Max)
	assert.Equal(t, 3.0, s.Median)
	assert.Equal(t, 1.0, s.P5)
	assert.Equal(t, 5.0, s.P95)

	m := s.AsMap()
	v, ok := m.Get("count")
	require.True(t, ok)
	assert.Equal(t, IntVal(5), v)
}

func TestSamplingHelpers(t *testing.T) {
	rng := NewRNG(17)
	items := ints(1, 2, 3, 4, 5, 6)

	shuffled := Shuffle(items, rng)
	assert.ElementsMatch(t, items, shuffled)

	picked := SampleWithoutReplacement(items, 4, rng)
	assert.Len(t, picked, 4)
	assert.Len(t, NewSet(picked...).Elems(), 4)
	assert.Len(t, SampleWithoutReplacement(items, 10, rng), 6)

	with, err := SampleWithReplacement(items, 20, rng)
	require.NoError(t, err)
	assert.Len(t, with, 20)

	_, err = SampleWithReplacement(nil, 1, rng)
	assert.ErrorIs(t, err, ErrEmpty)
	_, err = Choose(nil, rng)
	assert.ErrorIs(t, err, ErrEmpty)

	idx := SampleIndices(5, 3, rng)
	assert.Len(t, idx, 3)
	for _, i := range idx {
		assert.True(t, i >= 0 && i < 5)
	}
}
