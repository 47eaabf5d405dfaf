package bridge

import (
	"encoding/json"
	"errors"
	"math"
	"testing"

	"github.com/hyperpolymath/betlang/core"
	"github.com/hyperpolymath/betlang/decl"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompositeValueSurvivesJSON(t *testing.T) {
	v := core.NewMap(map[string]core.Value{
		"count":   core.IntVal(math.MaxInt64),
		"ratio":   core.FloatVal(2),
		"flags":   core.NewList(core.BoolVal(true), core.TernaryVal(decl.TernaryUnknown)),
		"pair":    core.NewTuple(core.StringVal("x"), core.Unit),
		"seen":    core.NewSet(core.IntVal(1), core.IntVal(2)),
		"raw":     core.BytesVal("\x00\xffbet"),
		"missing": core.NewVariant("None"),
		"found":   core.NewVariant("Some", core.FloatVal(math.Inf(-1))),
		"failure": core.ErrorVal{Message: "boom"},
	})
	data, err := Marshal(v)
	require.NoError(t, err)

	back, err := Unmarshal(data)
	require.NoError(t, err)
	assert.True(t, core.Equal(v, back), "got %s", back)

	// Int and Float stay distinct
	count, _ := back.(*core.MapVal).Get("count")
	assert.Equal(t, core.IntVal(math.MaxInt64), count)
	ratio, _ := back.(*core.MapVal).Get("ratio")
	assert.Equal(t, core.FloatVal(2), ratio)
}

func TestTaggedShape(t *testing.T) {
	data, err := Marshal(core.IntVal(7))
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, map[string]any{"$type": "int", "value": "7"}, doc)

	data, err = MarshalIndent(core.FloatVal(0.5))
	require.NoError(t, err)
	var f float64
	require.NoError(t, json.Unmarshal(data, &f))
	assert.Equal(t, 0.5, f)

	data, err = Marshal(core.FloatVal(math.NaN()))
	require.NoError(t, err)
	back, err := Unmarshal(data)
	require.NoError(t, err)
	assert.True(t, math.IsNaN(float64(back.(core.FloatVal))))
}

func TestPlainJSON(t *testing.T) {
	v, err := Unmarshal([]byte(`{"a": [1, true, null], "b": "s"}`))
	require.NoError(t, err)
	want := core.NewMap(map[string]core.Value{
		"a": core.NewList(core.FloatVal(1), core.BoolVal(true), core.Unit),
		"b": core.StringVal("s"),
	})
	assert.True(t, core.Equal(want, v), "got %s", v)
}

func TestUnsupportedValues(t *testing.T) {
	native := &core.NativeFunction{Name: "f", Arity: 1, Fn: func(args []core.Value) (core.Value, error) { return args[0], nil }}
	for _, v := range []core.Value{
		core.Bet(core.IntVal(1), core.IntVal(2), core.IntVal(3)),
		native,
		&core.Closure{Name: "g"},
		core.NewList(core.IntVal(1), native),
	} {
		_, err := Marshal(v)
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrUnsupportedType)
		var se *SerializationError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, UnsupportedType, se.Kind)
	}
}

func TestInvalidFormat(t *testing.T) {
	for _, doc := range []string{
		`not json`,
		`{"$type": "int", "value": "4.5"}`,
		`{"$type": "int", "value": 4}`,
		`{"$type": "bytes", "value": "***"}`,
		`{"$type": "ternary", "value": "maybe"}`,
		`{"$type": "tuple"}`,
		`{"$type": "wat"}`,
		`{"$type": 3}`,
	} {
		_, err := Unmarshal([]byte(doc))
		assert.ErrorIs(t, err, ErrInvalidFormat, doc)
		assert.NotErrorIs(t, err, ErrUnsupportedType, doc)
	}
}
