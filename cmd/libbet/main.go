//go:build cgo

// Command libbet builds the C shared library:
//
//	go build -buildmode=c-shared -o libbet.so ./cmd/libbet
//
// Scalar entries return NaN (floating point) or -1 (integer) when their
// parameters are invalid.  Entries taking a generator handle use the
// per-call generator for handle 0.
package main

/*
#include <stddef.h>
#include <stdint.h>
*/
import "C"

import (
	"math"
	"sync"
	"unsafe"

	"github.com/hyperpolymath/betlang/ffi"
)

var handles = ffi.NewHandles()

var (
	versionOnce sync.Once
	versionStr  *C.char
)

func main() {}

func floats(p *C.double, n C.size_t) []float64 {
	if p == nil || n == 0 {
		return nil
	}
	return unsafe.Slice((*float64)(unsafe.Pointer(p)), int(n))
}

func longs(p *C.int64_t, n C.size_t) []int64 {
	if p == nil || n == 0 {
		return nil
	}
	return unsafe.Slice((*int64)(unsafe.Pointer(p)), int(n))
}

func double(v float64, err error) C.double {
	if err != nil {
		return C.double(math.NaN())
	}
	return C.double(v)
}

func integer(v int64, err error) C.int64_t {
	if err != nil {
		return -1
	}
	return C.int64_t(v)
}

func small(v int, err error) C.int {
	if err != nil {
		return -1
	}
	return C.int(v)
}

func status(err error) C.int {
	if err != nil {
		return -1
	}
	return 0
}

//export bet_ternary
func bet_ternary() C.int { return small(ffi.Ternary(nil)) }

//export bet_weighted_ternary
func bet_weighted_ternary(w0, w1, w2 C.double) C.int {
	return small(ffi.WeightedTernary(nil, float64(w0), float64(w1), float64(w2)))
}

//export bet_ternary_logic
func bet_ternary_logic() C.int {
	v, err := ffi.TernaryLogic(nil)
	if err != nil {
		return -2
	}
	return C.int(v)
}

//export bet_uniform_int
func bet_uniform_int(low, high C.int64_t) C.int64_t {
	return integer(ffi.UniformInt(nil, int64(low), int64(high)))
}

//export bet_bernoulli
func bet_bernoulli(p C.double) C.int {
	b, err := ffi.Bernoulli(nil, float64(p))
	if err != nil {
		return -1
	}
	if b {
		return 1
	}
	return 0
}

//export bet_binomial
func bet_binomial(n C.int64_t, p C.double) C.int64_t {
	return integer(ffi.Binomial(nil, int64(n), float64(p)))
}

//export bet_poisson
func bet_poisson(lambda C.double) C.int64_t {
	return integer(ffi.Poisson(nil, float64(lambda)))
}

//export bet_categorical
func bet_categorical(weights *C.double, n C.size_t) C.int {
	return small(ffi.Categorical(nil, floats(weights, n)))
}

//export bet_uniform
func bet_uniform(low, high C.double) C.double {
	return double(ffi.Uniform(nil, float64(low), float64(high)))
}

//export bet_standard_normal
func bet_standard_normal() C.double { return double(ffi.StandardNormal(nil)) }

//export bet_normal
func bet_normal(mean, std C.double) C.double {
	return double(ffi.Normal(nil, float64(mean), float64(std)))
}

//export bet_exponential
func bet_exponential(rate C.double) C.double {
	return double(ffi.Exponential(nil, float64(rate)))
}

//export bet_gamma
func bet_gamma(shape, scale C.double) C.double {
	return double(ffi.Gamma(nil, float64(shape), float64(scale)))
}

//export bet_beta
func bet_beta(alpha, beta C.double) C.double {
	return double(ffi.Beta(nil, float64(alpha), float64(beta)))
}

//export bet_sample_uniform_array
func bet_sample_uniform_array(out *C.double, n C.size_t) C.int {
	return status(ffi.FillUniform(nil, floats(out, n)))
}

//export bet_sample_normal_array
func bet_sample_normal_array(out *C.double, n C.size_t, mean, std C.double) C.int {
	return status(ffi.FillNormal(nil, floats(out, n), float64(mean), float64(std)))
}

//export bet_shuffle_int
func bet_shuffle_int(arr *C.int64_t, n C.size_t) C.int {
	return status(ffi.ShuffleInts(nil, longs(arr, n)))
}

//export bet_shuffle_real
func bet_shuffle_real(arr *C.double, n C.size_t) C.int {
	return status(ffi.ShuffleFloats(nil, floats(arr, n)))
}

// bet_sample_indices writes min(k, n) distinct indices below n into out and
// returns the count written, or -1.
//
//export bet_sample_indices
func bet_sample_indices(out *C.int64_t, k, n C.size_t) C.int64_t {
	written, err := ffi.SampleIndices(nil, longs(out, k), int(n))
	return integer(int64(written), err)
}

//export bet_mean
func bet_mean(arr *C.double, n C.size_t) C.double { return double(ffi.Mean(floats(arr, n))) }

//export bet_variance
func bet_variance(arr *C.double, n C.size_t) C.double { return double(ffi.Variance(floats(arr, n))) }

//export bet_std
func bet_std(arr *C.double, n C.size_t) C.double { return double(ffi.Std(floats(arr, n))) }

//export bet_covariance
func bet_covariance(x, y *C.double, n C.size_t) C.double {
	return double(ffi.Covariance(floats(x, n), floats(y, n)))
}

//export bet_correlation
func bet_correlation(x, y *C.double, n C.size_t) C.double {
	return double(ffi.Correlation(floats(x, n), floats(y, n)))
}

//export bet_rng_new
func bet_rng_new(seed C.uint64_t) C.uint64_t { return C.uint64_t(handles.New(uint64(seed))) }

//export bet_rng_free
func bet_rng_free(h C.uint64_t) C.int {
	if handles.Free(uint64(h)) {
		return 0
	}
	return -1
}

//export bet_rng_ternary
func bet_rng_ternary(h C.uint64_t) C.int {
	g, err := handles.Get(uint64(h))
	if err != nil {
		return -1
	}
	return small(ffi.Ternary(g))
}

//export bet_rng_uniform
func bet_rng_uniform(h C.uint64_t, low, high C.double) C.double {
	g, err := handles.Get(uint64(h))
	if err != nil {
		return C.double(math.NaN())
	}
	return double(ffi.Uniform(g, float64(low), float64(high)))
}

//export bet_rng_normal
func bet_rng_normal(h C.uint64_t, mean, std C.double) C.double {
	g, err := handles.Get(uint64(h))
	if err != nil {
		return C.double(math.NaN())
	}
	return double(ffi.Normal(g, float64(mean), float64(std)))
}

// bet_version returns a static string owned by the library.
//
//export bet_version
func bet_version() *C.char {
	versionOnce.Do(func() { versionStr = C.CString(ffi.Version()) })
	return versionStr
}
