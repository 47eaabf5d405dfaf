package decl

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTernaryKleene(t *testing.T) {
	assert.Equal(t, TernaryUnknown, TernaryTrue.And(TernaryUnknown))
	assert.Equal(t, TernaryUnknown, TernaryFalse.Or(TernaryUnknown))
	assert.Equal(t, TernaryUnknown, TernaryUnknown.Not())
	assert.Equal(t, TernaryFalse, TernaryTrue.And(TernaryFalse))
}

func TestTernaryTruthTables(t *testing.T) {
	T, F, U := TernaryTrue, TernaryFalse, TernaryUnknown
	tests := []struct {
		a, b       TernaryValue
		and, or, x TernaryValue
	}{
		{T, T, T, T, F},
		{T, U, U, T, U},
		{T, F, F, T, T},
		{U, U, U, U, U},
		{U, F, F, U, U},
		{F, F, F, F, F},
		{F, T, F, T, T},
	}
	for _, tc := range tests {
		assert.Equal(t, tc.and, tc.a.And(tc.b), "%s and %s", tc.a, tc.b)
		assert.Equal(t, tc.and, tc.b.And(tc.a), "%s and %s", tc.b, tc.a)
		assert.Equal(t, tc.or, tc.a.Or(tc.b), "%s or %s", tc.a, tc.b)
		assert.Equal(t, tc.x, tc.a.Xor(tc.b), "%s xor %s", tc.a, tc.b)
	}
	assert.Equal(t, F, T.Not())
	assert.Equal(t, T, F.Not())
}

func TestTernaryConversions(t *testing.T) {
	assert.Equal(t, 0.0, TernaryFalse.Float())
	assert.Equal(t, 0.5, TernaryUnknown.Float())
	assert.Equal(t, 1.0, TernaryTrue.Float())
	assert.Equal(t, -1, TernaryFalse.Int())
	assert.Equal(t, 0, TernaryUnknown.Int())
	assert.Equal(t, 1, TernaryTrue.Int())

	v, known := TernaryUnknown.Bool()
	assert.False(t, v)
	assert.False(t, known)
	v, known = TernaryTrue.Bool()
	assert.True(t, v)
	assert.True(t, known)

	p, err := ParseTernary("Unknown")
	assert.NoError(t, err)
	assert.Equal(t, TernaryUnknown, p)
	_, err = ParseTernary("maybe")
	assert.Error(t, err)
}
