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

func TestLookupType(t *testing.T) {
	for _, typ := range Types() {
		got, err := LookupType(typ.String())
		require.NoError(t, err)
		assert.Equal(t, typ, got)
	}
	got, err := LookupType(" Decimal ")
	require.NoError(t, err)
	assert.Equal(t, TypeDecimal, got)

	_, err = LookupType("java.lang.Whatever")
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrTypeNotFound)
	var nf *TypeNotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "java.lang.Whatever", nf.Name)
}

func TestTypeText(t *testing.T) {
	b, err := json.Marshal(map[string]Type{"t": TypeOffsetDateTime})
	require.NoError(t, err)
	assert.JSONEq(t, `{"t":"offsetdatetime"}`, string(b))

	var decoded struct{ T Type }
	require.NoError(t, json.Unmarshal([]byte(`{"T":"biginteger"}`), &decoded))
	assert.Equal(t, TypeBigInteger, decoded.T)
	assert.Error(t, json.Unmarshal([]byte(`{"T":"nope"}`), &decoded))

	_, err = TypeInvalid.MarshalText()
	assert.Error(t, err)
}

func TestTypeOf(t *testing.T) {
	tests := []struct {
		value any
		want  Type
	}{
		{"s", TypeString},
		{true, TypeBoolean},
		{int8(1), TypeByte},
		{int16(1), TypeShort},
		{int32(1), TypeInteger},
		{7, TypeLong},
		{float32(1), TypeFloat},
		{1.5, TypeDouble},
		{json.Number("12"), TypeLong},
		{json.Number("12.5"), TypeDouble},
		{decimal.NewFromInt(1), TypeDecimal},
		{big.NewInt(1), TypeBigInteger},
		{time.Now(), TypeOffsetDateTime},
		{[]string{"a"}, TypeList},
		{map[string]int{}, TypeMap},
		{codec.NewDocument(), TypeMap},
		{nil, TypeObject},
		{struct{}{}, TypeObject},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, TypeOf(tt.value), "%T", tt.value)
	}
}

func TestTypeEncodeDecode(t *testing.T) {
	day := time.Date(2024, 2, 29, 0, 0, 0, 0, time.Local)
	clock := time.Date(0, 1, 1, 13, 45, 10, 500, time.Local)
	stamp := time.Date(2024, 2, 29, 13, 45, 10, 0, time.Local)
	offset := time.Date(2024, 2, 29, 13, 45, 10, 0, time.FixedZone("", 2*3600))

	tests := []struct {
		typ   Type
		value any
		wire  any
	}{
		{TypeString, "x", "x"},
		{TypeBoolean, true, true},
		{TypeByte, int8(-3), json.Number("-3")},
		{TypeShort, int16(300), json.Number("300")},
		{TypeInteger, int32(70000), json.Number("70000")},
		{TypeLong, int64(1) << 40, json.Number("1099511627776")},
		{TypeFloat, float32(1.25), json.Number("1.25")},
		{TypeDouble, 123.45, json.Number("123.45")},
		{TypeDecimal, decimal.RequireFromString("123.45"), json.Number("123.45")},
		{TypeBigInteger, new(big.Int).Lsh(big.NewInt(1), 80), json.Number("1208925819614629174706176")},
		{TypeDate, day, "2024-02-29"},
		{TypeTime, clock, "13:45:10.0000005"},
		{TypeDateTime, stamp, "2024-02-29T13:45:10"},
		{TypeOffsetDateTime, offset, "2024-02-29T13:45:10+02:00"},
	}
	for _, tt := range tests {
		t.Run(tt.typ.String(), func(t *testing.T) {
			wire, err := tt.typ.Encode(tt.value)
			require.NoError(t, err)
			assert.Equal(t, tt.wire, wire)

			back, err := tt.typ.Decode(wire)
			require.NoError(t, err)
			switch want := tt.value.(type) {
			case time.Time:
				assert.True(t, want.Equal(back.(time.Time)), "got %v", back)
			case decimal.Decimal:
				assert.True(t, want.Equal(back.(decimal.Decimal)))
			case *big.Int:
				assert.Zero(t, want.Cmp(back.(*big.Int)))
			default:
				assert.Equal(t, tt.value, back)
			}
		})
	}
}

func TestTypeDecodeFromStrings(t *testing.T) {
	v, err := TypeInteger.Decode("42")
	require.NoError(t, err)
	assert.Equal(t, int32(42), v)

	v, err = TypeBoolean.Decode("true")
	require.NoError(t, err)
	assert.Equal(t, true, v)

	_, err = TypeByte.Decode(json.Number("300"))
	assert.Error(t, err, "out of range")

	_, err = TypeLong.Decode(json.Number("1.5"))
	assert.Error(t, err)

	_, err = TypeString.Decode(json.Number("1"))
	assert.Error(t, err)

	v, err = TypeMap.Decode(codec.NewDocument().Set("a", json.Number("1")))
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"a": int64(1)}, v)

	v, err = TypeLong.Decode(nil)
	require.NoError(t, err)
	assert.Nil(t, v)
}
