package validator

import (
	"math"
	"math/big"
	"reflect"
	"strconv"
	"time"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// IsNullValue reports whether v is nil or a nil pointer, map, slice, channel, func or
// interface.
func IsNullValue(v any) bool {
	return deref(v) == nil
}

// deref follows pointers until it reaches a non-pointer value. Arbitrary precision
// numbers keep their pointer form. It returns nil for null values.
func deref(v any) any {
	for {
		switch x := v.(type) {
		case nil:
			return nil
		case *big.Int:
			if x == nil {
				return nil
			}
			return x
		case *big.Float:
			if x == nil {
				return nil
			}
			return x
		}
		rv := reflect.ValueOf(v)
		switch rv.Kind() {
		case reflect.Pointer:
			if rv.IsNil() {
				return nil
			}
			v = rv.Elem().Interface()
		case reflect.Map, reflect.Slice, reflect.Chan, reflect.Func, reflect.Interface:
			if rv.IsNil() {
				return nil
			}
			return v
		default:
			return v
		}
	}
}

// numeric is the projection of a number used by the numeric rules.
type numeric struct {
	// decimal is set for float32, float64, decimal.Decimal and *big.Float.
	decimal bool
	i       int64
	f       float64
	// i32 is the truncated value wrapped to 32 bits.
	i32 int32
	// text is the minimal plain decimal form, without trailing fractional zeros.
	text string
}

func asNumeric(v any) (numeric, bool) {
	switch x := v.(type) {
	case decimal.Decimal:
		f := x.InexactFloat64()
		return numeric{decimal: true, f: f, i32: int32(x.IntPart()), text: x.String()}, true
	case *big.Float:
		f, _ := x.Float64()
		i, _ := x.Int64()
		return numeric{decimal: true, f: f, i32: int32(i), text: bigFloatText(x)}, true
	case *big.Int:
		i := x.Int64()
		f, _ := new(big.Float).SetInt(x).Float64()
		return numeric{i: i, f: f, i32: int32(i), text: x.String()}, true
	}
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		i := rv.Int()
		return numeric{i: i, f: float64(i), i32: int32(i), text: strconv.FormatInt(i, 10)}, true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		u := rv.Uint()
		i := int64(u)
		if u > math.MaxInt64 {
			i = math.MaxInt64
		}
		return numeric{i: i, f: float64(u), i32: int32(u), text: strconv.FormatUint(u, 10)}, true
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		n := numeric{decimal: true, f: f, i32: doubleToInt(f)}
		if !math.IsNaN(f) && !math.IsInf(f, 0) {
			if rv.Kind() == reflect.Float32 {
				n.text = decimal.NewFromFloat32(float32(f)).String()
			} else {
				n.text = decimal.NewFromFloat(f).String()
			}
		}
		return n, true
	}
	return numeric{}, false
}

// doubleToInt mirrors a saturating float to 32-bit integer conversion where NaN
// becomes zero.
func doubleToInt(f float64) int32 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt32:
		return math.MaxInt32
	case f <= math.MinInt32:
		return math.MinInt32
	default:
		return int32(f)
	}
}

// toLong truncates f toward zero, saturating at the int64 limits. NaN becomes zero.
func toLong(f float64) int64 {
	switch {
	case math.IsNaN(f):
		return 0
	case f >= math.MaxInt64:
		return math.MaxInt64
	case f <= math.MinInt64:
		return math.MinInt64
	default:
		return int64(f)
	}
}

// toInt is toLong for 32-bit lengths.
func toInt(f float64) int32 {
	return doubleToInt(f)
}

func bigFloatText(f *big.Float) string {
	if f.IsInf() {
		return ""
	}
	d, err := decimal.NewFromString(f.Text('f', -1))
	if err != nil {
		return ""
	}
	return d.String()
}

// asLength returns the length of strings (in runes), slices, arrays and maps.
func asLength(v any) (int, bool) {
	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.String:
		return utf8.RuneCountInString(rv.String()), true
	case reflect.Slice, reflect.Array, reflect.Map:
		return rv.Len(), true
	}
	return 0, false
}

func asString(v any) (string, bool) {
	rv := reflect.ValueOf(v)
	if rv.Kind() != reflect.String {
		return "", false
	}
	return rv.String(), true
}

func asTime(v any) (time.Time, bool) {
	t, ok := v.(time.Time)
	return t, ok
}

// asFloat projects ordered values and arbitrary precision numbers for descriptors.
func asFloat(v any) (float64, bool) {
	if v = deref(v); v == nil {
		return 0, false
	}
	n, ok := asNumeric(v)
	if !ok {
		return 0, false
	}
	return n.f, true
}
