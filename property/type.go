package property

import (
	"encoding/json"
	"errors"
	"fmt"
	"math/big"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zero-day-ai/metaprop/codec"
)

// Type is the runtime type token of a property value. The set of tokens is closed;
// tokens are identified on the wire by their stable name.
type Type uint8

const (
	TypeInvalid Type = iota
	TypeString
	TypeBoolean
	TypeByte
	TypeShort
	TypeInteger
	TypeLong
	TypeFloat
	TypeDouble
	TypeDecimal
	TypeBigInteger
	TypeDate
	TypeTime
	TypeDateTime
	TypeOffsetDateTime
	TypeList
	TypeMap
	TypeObject
)

var typeNames = [...]string{
	TypeInvalid:        "",
	TypeString:         "string",
	TypeBoolean:        "boolean",
	TypeByte:           "byte",
	TypeShort:          "short",
	TypeInteger:        "integer",
	TypeLong:           "long",
	TypeFloat:          "float",
	TypeDouble:         "double",
	TypeDecimal:        "decimal",
	TypeBigInteger:     "biginteger",
	TypeDate:           "date",
	TypeTime:           "time",
	TypeDateTime:       "datetime",
	TypeOffsetDateTime: "offsetdatetime",
	TypeList:           "list",
	TypeMap:            "map",
	TypeObject:         "object",
}

var registry = func() map[string]Type {
	m := make(map[string]Type, len(typeNames))
	for t, name := range typeNames {
		if name != "" {
			m[name] = Type(t)
		}
	}
	return m
}()

// Wire layouts of the temporal tokens.
const (
	LayoutDate     = "2006-01-02"
	LayoutTime     = "15:04:05.999999999"
	LayoutDateTime = "2006-01-02T15:04:05.999999999"
)

// ErrTypeNotFound is matched by *TypeNotFoundError.
var ErrTypeNotFound = errors.New("property: type not found")

// TypeNotFoundError reports a type name without a registered token.
type TypeNotFoundError struct {
	Name string
}

func (e *TypeNotFoundError) Error() string {
	return fmt.Sprintf("property: type not found: %q", e.Name)
}

// Is matches ErrTypeNotFound.
func (e *TypeNotFoundError) Is(target error) bool {
	return target == ErrTypeNotFound
}

// LookupType resolves a token by name, ignoring case.
func LookupType(name string) (Type, error) {
	if t, ok := registry[strings.ToLower(strings.TrimSpace(name))]; ok {
		return t, nil
	}
	return TypeInvalid, &TypeNotFoundError{Name: name}
}

// Types lists every valid token.
func Types() []Type {
	out := make([]Type, 0, len(typeNames)-1)
	for t := TypeString; t <= TypeObject; t++ {
		out = append(out, t)
	}
	return out
}

// String returns the stable name of t.
func (t Type) String() string {
	if int(t) < len(typeNames) {
		return typeNames[t]
	}
	return "type(" + strconv.Itoa(int(t)) + ")"
}

// IsValid reports whether t is a registered token.
func (t Type) IsValid() bool {
	return t > TypeInvalid && t <= TypeObject
}

// IsNumeric reports whether t is one of the number tokens.
func (t Type) IsNumeric() bool {
	return t >= TypeByte && t <= TypeBigInteger
}

// IsTemporal reports whether t is one of the date and time tokens.
func (t Type) IsTemporal() bool {
	return t >= TypeDate && t <= TypeOffsetDateTime
}

// MarshalText implements encoding.TextMarshaler.
func (t Type) MarshalText() ([]byte, error) {
	if !t.IsValid() {
		return nil, fmt.Errorf("property: cannot marshal invalid type %d", uint8(t))
	}
	return []byte(t.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (t *Type) UnmarshalText(text []byte) error {
	v, err := LookupType(string(text))
	if err != nil {
		return err
	}
	*t = v
	return nil
}

// TypeOf infers the token of a Go or document value. Integral json.Number values map
// to long and other numbers to double; nil maps to object.
func TypeOf(v any) Type {
	switch x := v.(type) {
	case nil:
		return TypeObject
	case json.Number:
		if _, err := x.Int64(); err == nil {
			return TypeLong
		}
		return TypeDouble
	case decimal.Decimal:
		return TypeDecimal
	case *big.Int:
		return TypeBigInteger
	case time.Time:
		return TypeOffsetDateTime
	case *codec.Document:
		return TypeMap
	}
	switch reflect.TypeOf(v).Kind() {
	case reflect.String:
		return TypeString
	case reflect.Bool:
		return TypeBoolean
	case reflect.Int8:
		return TypeByte
	case reflect.Int16:
		return TypeShort
	case reflect.Int32:
		return TypeInteger
	case reflect.Int, reflect.Int64, reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return TypeLong
	case reflect.Float32:
		return TypeFloat
	case reflect.Float64:
		return TypeDouble
	case reflect.Slice, reflect.Array:
		return TypeList
	case reflect.Map:
		return TypeMap
	}
	return TypeObject
}

// Encode converts a value of type t into a document value.
func (t Type) Encode(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	switch t {
	case TypeString:
		if s, ok := v.(string); ok {
			return s, nil
		}
		return fmt.Sprint(v), nil
	case TypeDate, TypeTime, TypeDateTime, TypeOffsetDateTime:
		tm, ok := v.(time.Time)
		if !ok {
			return nil, fmt.Errorf("property: %s value must be a time.Time, got %T", t, v)
		}
		return tm.Format(t.layout()), nil
	case TypeInvalid:
		return nil, fmt.Errorf("property: cannot encode with invalid type")
	}
	n, err := codec.Normalize(v)
	if err != nil {
		return nil, fmt.Errorf("property: encode %s: %w", t, err)
	}
	return n, nil
}

func (t Type) layout() string {
	switch t {
	case TypeDate:
		return LayoutDate
	case TypeTime:
		return LayoutTime
	case TypeDateTime:
		return LayoutDateTime
	}
	return time.RFC3339Nano
}

// Decode converts a document value into the canonical Go value of t:
//
//	string          string
//	boolean         bool
//	byte .. long    int8, int16, int32, int64
//	float, double   float32, float64
//	decimal         decimal.Decimal
//	biginteger      *big.Int
//	date .. offset  time.Time
//	list            []any
//	map             map[string]any
//	object          plain Go value
//
// Numbers, booleans and temporals are also accepted in their string form, which is how
// they appear as map keys.
func (t Type) Decode(v any) (any, error) {
	if v == nil {
		return nil, nil
	}
	out, err := t.decode(v)
	if err != nil {
		return nil, fmt.Errorf("property: decode %s from %T: %w", t, v, err)
	}
	return out, nil
}

func (t Type) decode(v any) (any, error) {
	switch t {
	case TypeString:
		s, ok := v.(string)
		if !ok {
			return nil, errors.New("not a string")
		}
		return s, nil
	case TypeBoolean:
		switch x := v.(type) {
		case bool:
			return x, nil
		case string:
			return strconv.ParseBool(x)
		}
		return nil, errors.New("not a boolean")
	case TypeByte, TypeShort, TypeInteger, TypeLong:
		s, err := numberText(v)
		if err != nil {
			return nil, err
		}
		i, err := strconv.ParseInt(s, 10, t.bits())
		if err != nil {
			return nil, err
		}
		switch t {
		case TypeByte:
			return int8(i), nil
		case TypeShort:
			return int16(i), nil
		case TypeInteger:
			return int32(i), nil
		}
		return i, nil
	case TypeFloat, TypeDouble:
		s, err := numberText(v)
		if err != nil {
			return nil, err
		}
		f, err := strconv.ParseFloat(s, t.bits())
		if err != nil {
			return nil, err
		}
		if t == TypeFloat {
			return float32(f), nil
		}
		return f, nil
	case TypeDecimal:
		s, err := numberText(v)
		if err != nil {
			return nil, err
		}
		return decimal.NewFromString(s)
	case TypeBigInteger:
		s, err := numberText(v)
		if err != nil {
			return nil, err
		}
		b, ok := new(big.Int).SetString(s, 10)
		if !ok {
			return nil, fmt.Errorf("invalid integer %q", s)
		}
		return b, nil
	case TypeDate, TypeTime, TypeDateTime, TypeOffsetDateTime:
		switch x := v.(type) {
		case time.Time:
			return x, nil
		case string:
			if t == TypeOffsetDateTime {
				return time.Parse(time.RFC3339Nano, x)
			}
			return time.ParseInLocation(t.layout(), x, time.Local)
		}
		return nil, errors.New("not a temporal string")
	case TypeList:
		p := codec.Plain(v)
		if l, ok := p.([]any); ok {
			return l, nil
		}
		return nil, errors.New("not a list")
	case TypeMap:
		p := codec.Plain(v)
		if m, ok := p.(map[string]any); ok {
			return m, nil
		}
		return nil, errors.New("not a map")
	case TypeObject:
		return codec.Plain(v), nil
	}
	return nil, errors.New("invalid type")
}

func (t Type) bits() int {
	switch t {
	case TypeByte:
		return 8
	case TypeShort:
		return 16
	case TypeInteger, TypeFloat:
		return 32
	}
	return 64
}

func numberText(v any) (string, error) {
	switch x := v.(type) {
	case json.Number:
		return x.String(), nil
	case string:
		return strings.TrimSpace(x), nil
	}
	n, err := codec.Normalize(v)
	if err != nil {
		return "", err
	}
	if num, ok := n.(json.Number); ok {
		return num.String(), nil
	}
	return "", errors.New("not a number")
}
