package ffi

import (
	"math"
	"sync"
	"testing"

	"github.com/hyperpolymath/betlang/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTernaryDraws(t *testing.T) {
	seen := map[int]bool{}
	logic := map[int]bool{}
	for range 300 {
		i, err := Ternary(nil)
		require.NoError(t, err)
		seen[i] = true
		l, err := TernaryLogic(nil)
		require.NoError(t, err)
		logic[l] = true
	}
	assert.Equal(t, map[int]bool{0: true, 1: true, 2: true}, seen)
	assert.Equal(t, map[int]bool{-1: true, 0: true, 1: true}, logic)

	for range 100 {
		i, err := WeightedTernary(nil, 0, 0, 5)
		require.NoError(t, err)
		assert.Equal(t, 2, i)
	}
	_, err := WeightedTernary(nil, 0, 0, 0)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	_, err = WeightedTernary(nil, math.NaN(), 1, 1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestSeededGeneratorsRepeat(t *testing.T) {
	a, b := NewGenerator(11), NewGenerator(11)
	for range 20 {
		x, err := Normal(a, 0, 1)
		require.NoError(t, err)
		y, err := Normal(b, 0, 1)
		require.NoError(t, err)
		assert.Equal(t, x, y)
	}
}

func TestScalarSamplers(t *testing.T) {
	g := NewGenerator(5)
	u, err := Uniform(g, 2, 3)
	require.NoError(t, err)
	assert.True(t, u >= 2 && u < 3)

	i, err := UniformInt(g, -1, 1)
	require.NoError(t, err)
	assert.True(t, i >= -1 && i <= 1)

	b, err := Bernoulli(g, 1)
	require.NoError(t, err)
	assert.True(t, b)

	n, err := Binomial(g, 0, 0.5)
	require.NoError(t, err)
	assert.Equal(t, int64(0), n)

	idx, err := Categorical(g, []float64{0, 0, 1})
	require.NoError(t, err)
	assert.Equal(t, 2, idx)

	for _, f := range []func() (float64, error){
		func() (float64, error) { return StandardNormal(g) },
		func() (float64, error) { return Exponential(g, 2) },
		func() (float64, error) { return Gamma(g, 2, 1) },
		func() (float64, error) { return Beta(g, 2, 2) },
	} {
		v, err := f()
		require.NoError(t, err)
		assert.False(t, math.IsNaN(v))
	}
	p, err := Poisson(g, 3)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, p, int64(0))
}

func TestInvalidParametersAreErrors(t *testing.T) {
	v, err := Normal(nil, 0, -1)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
	assert.True(t, math.IsNaN(v))

	n, err := Poisson(nil, 0)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
	assert.Equal(t, int64(-1), n)

	_, err = UniformInt(nil, 3, 2)
	assert.ErrorIs(t, err, core.ErrInvalidParameter)
	_, err = Categorical(nil, nil)
	assert.ErrorIs(t, err, core.ErrEmpty)
	_, err = Bernoulli(nil, 2)
	assert.Error(t, err)
	assert.Error(t, FillNormal(nil, make([]float64, 3), 0, 0))
}

func TestArrays(t *testing.T) {
	g := NewGenerator(9)
	buf := make([]float64, 100)
	require.NoError(t, FillUniform(g, buf))
	for _, x := range buf {
		assert.True(t, x >= 0 && x < 1)
	}
	require.NoError(t, FillNormal(g, buf, 5, 0.1))
	mean, err := Mean(buf)
	require.NoError(t, err)
	assert.InDelta(t, 5, mean, 0.1)

	ints := []int64{1, 2, 3, 4, 5}
	require.NoError(t, ShuffleInts(g, ints))
	assert.ElementsMatch(t, []int64{1, 2, 3, 4, 5}, ints)
	reals := []float64{1.5, 2.5}
	require.NoError(t, ShuffleFloats(g, reals))
	assert.ElementsMatch(t, []float64{1.5, 2.5}, reals)

	out := make([]int64, 10)
	k, err := SampleIndices(g, out, 4)
	require.NoError(t, err)
	assert.Equal(t, 4, k)
	assert.ElementsMatch(t, []int64{0, 1, 2, 3}, out[:k])
	_, err = SampleIndices(g, out, -1)
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestStatistics(t *testing.T) {
	xs := []float64{1, 2, 3, 4, 5}
	v, err := Variance(xs)
	require.NoError(t, err)
	assert.InDelta(t, 2, v, 1e-12)
	s, err := Std(xs)
	require.NoError(t, err)
	assert.InDelta(t, math.Sqrt2, s, 1e-12)
	c, err := Correlation(xs, []float64{2, 4, 6, 8, 10})
	require.NoError(t, err)
	assert.InDelta(t, 1, c, 1e-12)
	cv, err := Covariance(xs, []float64{2, 4, 6, 8, 10})
	require.NoError(t, err)
	assert.InDelta(t, 4, cv, 1e-12)

	m, err := Mean(nil)
	assert.ErrorIs(t, err, ErrInvalidArgument)
	assert.True(t, math.IsNaN(m))
	_, err = Covariance(xs, xs[:2])
	assert.ErrorIs(t, err, ErrInvalidArgument)
}

func TestPanicsAreRecovered(t *testing.T) {
	_, err := guard("boom", func() (int, error) { panic("kaboom") })
	var pe *PanicError
	require.ErrorAs(t, err, &pe)
	assert.Equal(t, "boom", pe.Entry)
	assert.Contains(t, err.Error(), "kaboom")
}

func TestHandles(t *testing.T) {
	h := NewHandles()
	id := h.New(3)
	assert.NotZero(t, id)
	g, err := h.Get(id)
	require.NoError(t, err)
	want, _ := Uniform(NewGenerator(3), 0, 1)
	got, _ := Uniform(g, 0, 1)
	assert.Equal(t, want, got)

	per, err := h.Get(0)
	require.NoError(t, err)
	assert.Nil(t, per)

	assert.True(t, h.Free(id))
	assert.False(t, h.Free(id))
	_, err = h.Get(id)
	assert.ErrorIs(t, err, ErrUnknownHandle)
}

func TestConcurrentCallers(t *testing.T) {
	var wg sync.WaitGroup
	errs := make(chan error, 64)
	for range 64 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			buf := make([]float64, 32)
			if err := FillUniform(nil, buf); err != nil {
				errs <- err
			}
			if _, err := Mean(buf); err != nil {
				errs <- err
			}
		}()
	}
	wg.Wait()
	close(errs)
	for err := range errs {
		t.Error(err)
	}
}
