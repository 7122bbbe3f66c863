package property

import (
	"encoding/json"
	"math/big"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/metaprop/codec"
)

func TestEncodeValue(t *testing.T) {
	m := NewMap("sample-map", TypeString, TypeString, map[string]string{"k3": "v3", "k1": "v1", "k2": "v2"})
	v, err := EncodeValue(m)
	require.NoError(t, err)
	doc := v.(*codec.Document)
	assert.Equal(t, []string{"k1", "k2", "k3"}, doc.Keys())

	ints := NewMap("by-id", TypeInteger, TypeDate, map[int32]time.Time{
		2: time.Date(2024, 1, 2, 0, 0, 0, 0, time.Local),
	})
	v, err = EncodeValue(ints)
	require.NoError(t, err)
	date, _ := v.(*codec.Document).Get("2")
	assert.Equal(t, "2024-01-02", date)

	list := NewCollection("amounts", TypeDecimal, []decimal.Decimal{decimal.RequireFromString("1.50")})
	v, err = EncodeValue(list)
	require.NoError(t, err)
	assert.Equal(t, []any{json.Number("1.5")}, v)

	v, err = EncodeValue(NewCollection[string]("empty", TypeString, nil))
	require.NoError(t, err)
	assert.Nil(t, v)

	v, err = EncodeValue(NewDecimal("child-1", decimal.RequireFromString("123.45")))
	require.NoError(t, err)
	assert.Equal(t, json.Number("123.45"), v)
}

func TestMakeRoundTripsEncodedValues(t *testing.T) {
	tests := []Property{
		NewString("s", "x"),
		NewBoolean("b", true),
		NewByte("i8", -1),
		NewShort("i16", 2),
		NewInteger("i32", 3),
		NewLong("i64", 4),
		NewFloat("f32", 1.5),
		NewDouble("f64", 2.25),
		NewBigInteger("big", big.NewInt(99)),
		NewCollection("tags", TypeString, []string{"a", "b"}),
		NewCollection("counts", TypeLong, []int64{1, 2}),
		NewMap("m", TypeString, TypeInteger, map[string]int32{"a": 1}),
		NewMap("flags", TypeLong, TypeBoolean, map[any]bool{int64(7): true}),
	}
	for _, p := range tests {
		t.Run(p.Name(), func(t *testing.T) {
			wire, err := EncodeValue(p)
			require.NoError(t, err)
			back, err := Make(p.Name(), ShapeOf(p), wire, nil)
			require.NoError(t, err)
			assert.Equal(t, p, back)
		})
	}
}

func TestMakeWithAttributesBuildsComplex(t *testing.T) {
	p, err := Make("salary", Shape{Type: TypeDecimal}, json.Number("10.5"), map[string]string{"currency": "EUR"})
	require.NoError(t, err)
	c, ok := p.(*Complex[decimal.Decimal])
	require.True(t, ok)
	assert.True(t, decimal.RequireFromString("10.5").Equal(c.Value()))
	assert.Equal(t, map[string]string{"currency": "EUR"}, c.Attributes())
}

func TestMakeErrors(t *testing.T) {
	_, err := Make("x", Shape{}, "v", nil)
	assert.Error(t, err)
	_, err = Make("x", Shape{Type: TypeList}, "v", nil)
	assert.Error(t, err)
	_, err = Make("x", Shape{Type: TypeMap}, []any{}, nil)
	assert.Error(t, err)
	_, err = Make("x", Shape{Type: TypeMap, KeyType: TypeList}, codec.NewDocument(), nil)
	assert.Error(t, err)
	_, err = Make("x", Shape{Type: TypeInteger}, "abc", nil)
	assert.Error(t, err)
	_, err = Make("x", Shape{Type: TypeList, ElementType: TypeLong}, []any{"a"}, nil)
	assert.Error(t, err)
}

func TestInfer(t *testing.T) {
	p, err := Infer("child-1", json.Number("123.45"))
	require.NoError(t, err)
	assert.Equal(t, TypeDouble, p.Type())
	assert.Equal(t, 123.45, p.Interface())

	p, err = Infer("count", json.Number("3"))
	require.NoError(t, err)
	assert.Equal(t, int64(3), p.Interface())

	p, err = Infer("sample-map", codec.NewDocument().Set("k1", "v1").Set("k2", "v2"))
	require.NoError(t, err)
	assert.Equal(t, map[string]string{"k1": "v1", "k2": "v2"}, p.Interface())

	p, err = Infer("mixed", []any{json.Number("1"), json.Number("1.5")})
	require.NoError(t, err)
	assert.Equal(t, []float64{1, 1.5}, p.Interface())

	p, err = Infer("any", []any{"a", true})
	require.NoError(t, err)
	assert.Equal(t, TypeObject, p.(ElementTyped).ElementType())

	p, err = Infer("flag", false)
	require.NoError(t, err)
	assert.Equal(t, TypeBoolean, p.Type())
}
