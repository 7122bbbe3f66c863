package property

import (
	"encoding/json"
	"fmt"
	"math/big"
	"reflect"
	"sort"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/zero-day-ai/metaprop/codec"
)

// Shape holds the tokens needed to rebuild a property from a document value.
type Shape struct {
	Type        Type
	ElementType Type
	KeyType     Type
	ValueType   Type
}

// ShapeOf returns the tokens of p.
func ShapeOf(p Property) Shape {
	s := Shape{Type: p.Type()}
	if e, ok := p.(ElementTyped); ok {
		s.ElementType = e.ElementType()
	}
	if e, ok := p.(EntryTyped); ok {
		s.KeyType, s.ValueType = e.KeyType(), e.ValueType()
	}
	return s
}

// EncodeValue renders the value of p as a document value. List elements and map
// entries are encoded with their own tokens; map keys become strings sorted in
// ascending order.
func EncodeValue(p Property) (any, error) {
	s := ShapeOf(p)
	switch {
	case s.Type == TypeList && s.ElementType.IsValid():
		rv := reflect.ValueOf(p.Interface())
		if !rv.IsValid() || (rv.Kind() == reflect.Slice && rv.IsNil()) {
			return nil, nil
		}
		if rv.Kind() != reflect.Slice && rv.Kind() != reflect.Array {
			return nil, fmt.Errorf("property %q: list value must be a slice, got %s", p.Name(), rv.Type())
		}
		out := make([]any, rv.Len())
		for i := range out {
			e, err := s.ElementType.Encode(rv.Index(i).Interface())
			if err != nil {
				return nil, fmt.Errorf("property %q element %d: %w", p.Name(), i, err)
			}
			out[i] = e
		}
		return out, nil
	case s.Type == TypeMap && s.KeyType.IsValid() && s.ValueType.IsValid():
		rv := reflect.ValueOf(p.Interface())
		if !rv.IsValid() || rv.IsNil() {
			return nil, nil
		}
		if rv.Kind() != reflect.Map {
			return nil, fmt.Errorf("property %q: map value must be a map, got %s", p.Name(), rv.Type())
		}
		type entry struct {
			key   string
			value any
		}
		entries := make([]entry, 0, rv.Len())
		iter := rv.MapRange()
		for iter.Next() {
			k, err := s.KeyType.Encode(iter.Key().Interface())
			if err != nil {
				return nil, fmt.Errorf("property %q key: %w", p.Name(), err)
			}
			v, err := s.ValueType.Encode(iter.Value().Interface())
			if err != nil {
				return nil, fmt.Errorf("property %q value of %v: %w", p.Name(), k, err)
			}
			entries = append(entries, entry{key: keyText(k), value: v})
		}
		sort.Slice(entries, func(i, j int) bool { return entries[i].key < entries[j].key })
		doc := codec.NewDocument()
		for _, e := range entries {
			doc.Set(e.key, e.value)
		}
		return doc, nil
	}
	v, err := p.Type().Encode(p.Interface())
	if err != nil {
		return nil, fmt.Errorf("property %q: %w", p.Name(), err)
	}
	return v, nil
}

func keyText(k any) string {
	switch x := k.(type) {
	case string:
		return x
	case json.Number:
		return x.String()
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprint(k)
}

// Make rebuilds a property from a document value. Non-nil attributes turn a scalar into
// a Complex property; lists and maps do not carry attributes.
func Make(name string, s Shape, raw any, attributes map[string]string) (Property, error) {
	switch s.Type {
	case TypeInvalid:
		return nil, fmt.Errorf("property %q: missing type", name)
	case TypeList:
		elem := s.ElementType
		if !elem.IsValid() {
			elem = TypeObject
		}
		var items []any
		if raw != nil {
			l, ok := raw.([]any)
			if !ok {
				return nil, fmt.Errorf("property %q: list value must be an array, got %T", name, raw)
			}
			items = l
		}
		return makeCollection(name, elem, items)
	case TypeMap:
		kt, vt := s.KeyType, s.ValueType
		if !kt.IsValid() {
			kt = TypeString
		}
		if !vt.IsValid() {
			vt = TypeObject
		}
		if kt == TypeList || kt == TypeMap {
			return nil, fmt.Errorf("property %q: %s cannot be a map key type", name, kt)
		}
		var doc *codec.Document
		if raw != nil {
			d, ok := raw.(*codec.Document)
			if !ok {
				return nil, fmt.Errorf("property %q: map value must be an object, got %T", name, raw)
			}
			doc = d
		}
		if kt == TypeString {
			return makeMap[string](name, kt, vt, doc)
		}
		return makeMap[any](name, kt, vt, doc)
	}
	if !s.Type.IsValid() {
		return nil, fmt.Errorf("property %q: invalid type %s", name, s.Type)
	}
	v, err := s.Type.Decode(raw)
	if err != nil {
		return nil, fmt.Errorf("property %q: %w", name, err)
	}
	if attributes != nil {
		return makeComplex(name, s.Type, v, attributes), nil
	}
	return makeScalar(name, s.Type, v), nil
}

// Infer rebuilds a property from a document value without type information: integral
// numbers become long, other numbers double, arrays lists and objects string keyed
// maps. Homogeneous lists and maps get the element token; mixed ones use object.
func Infer(name string, raw any) (Property, error) {
	switch x := raw.(type) {
	case []any:
		return Make(name, Shape{Type: TypeList, ElementType: commonType(x)}, x, nil)
	case *codec.Document:
		values := make([]any, 0, x.Len())
		x.Range(func(_ string, v any) bool {
			values = append(values, v)
			return true
		})
		return Make(name, Shape{Type: TypeMap, KeyType: TypeString, ValueType: commonType(values)}, x, nil)
	case string:
		return NewString(name, x), nil
	}
	return Make(name, Shape{Type: TypeOf(raw)}, raw, nil)
}

func commonType(values []any) Type {
	common := TypeInvalid
	for _, v := range values {
		if v == nil {
			continue
		}
		t := TypeOf(v)
		switch {
		case common == TypeInvalid:
			common = t
		case common == t:
		case (common == TypeLong && t == TypeDouble) || (common == TypeDouble && t == TypeLong):
			common = TypeDouble
		default:
			return TypeObject
		}
	}
	if common == TypeInvalid {
		return TypeObject
	}
	return common
}

func as[T any](v any) T {
	t, _ := v.(T)
	return t
}

func makeScalar(name string, t Type, v any) Property {
	switch t {
	case TypeString:
		return NewString(name, as[string](v))
	case TypeBoolean:
		return NewBoolean(name, as[bool](v))
	case TypeByte:
		return NewByte(name, as[int8](v))
	case TypeShort:
		return NewShort(name, as[int16](v))
	case TypeInteger:
		return NewInteger(name, as[int32](v))
	case TypeLong:
		return NewLong(name, as[int64](v))
	case TypeFloat:
		return NewFloat(name, as[float32](v))
	case TypeDouble:
		return NewDouble(name, as[float64](v))
	case TypeDecimal:
		return NewDecimal(name, as[decimal.Decimal](v))
	case TypeBigInteger:
		return NewBigInteger(name, as[*big.Int](v))
	case TypeDate, TypeTime, TypeDateTime, TypeOffsetDateTime:
		return NewTemporal(name, t, as[time.Time](v))
	}
	return NewSimple(name, t, v)
}

func makeComplex(name string, t Type, v any, attributes map[string]string) Property {
	switch t {
	case TypeString:
		return complexOf[string](name, t, v, attributes)
	case TypeBoolean:
		return complexOf[bool](name, t, v, attributes)
	case TypeByte:
		return complexOf[int8](name, t, v, attributes)
	case TypeShort:
		return complexOf[int16](name, t, v, attributes)
	case TypeInteger:
		return complexOf[int32](name, t, v, attributes)
	case TypeLong:
		return complexOf[int64](name, t, v, attributes)
	case TypeFloat:
		return complexOf[float32](name, t, v, attributes)
	case TypeDouble:
		return complexOf[float64](name, t, v, attributes)
	case TypeDecimal:
		return complexOf[decimal.Decimal](name, t, v, attributes)
	case TypeBigInteger:
		return complexOf[*big.Int](name, t, v, attributes)
	case TypeDate, TypeTime, TypeDateTime, TypeOffsetDateTime:
		return complexOf[time.Time](name, t, v, attributes)
	}
	return complexOf[any](name, t, v, attributes)
}

func complexOf[T any](name string, t Type, v any, attributes map[string]string) Property {
	c := NewComplex(name, t, as[T](v))
	c.SetAttributes(attributes)
	return c
}

func makeCollection(name string, elem Type, items []any) (Property, error) {
	switch elem {
	case TypeString:
		return collectionOf[string](name, elem, items)
	case TypeBoolean:
		return collectionOf[bool](name, elem, items)
	case TypeByte:
		return collectionOf[int8](name, elem, items)
	case TypeShort:
		return collectionOf[int16](name, elem, items)
	case TypeInteger:
		return collectionOf[int32](name, elem, items)
	case TypeLong:
		return collectionOf[int64](name, elem, items)
	case TypeFloat:
		return collectionOf[float32](name, elem, items)
	case TypeDouble:
		return collectionOf[float64](name, elem, items)
	case TypeDecimal:
		return collectionOf[decimal.Decimal](name, elem, items)
	case TypeBigInteger:
		return collectionOf[*big.Int](name, elem, items)
	case TypeDate, TypeTime, TypeDateTime, TypeOffsetDateTime:
		return collectionOf[time.Time](name, elem, items)
	case TypeList:
		return collectionOf[[]any](name, elem, items)
	case TypeMap:
		return collectionOf[map[string]any](name, elem, items)
	}
	return collectionOf[any](name, elem, items)
}

func collectionOf[E any](name string, elem Type, items []any) (Property, error) {
	if items == nil {
		return NewCollection[E](name, elem, nil), nil
	}
	values := make([]E, len(items))
	for i, item := range items {
		v, err := elem.Decode(item)
		if err != nil {
			return nil, fmt.Errorf("property %q element %d: %w", name, i, err)
		}
		values[i] = as[E](v)
	}
	return NewCollection(name, elem, values), nil
}

func makeMap[K comparable](name string, kt, vt Type, doc *codec.Document) (Property, error) {
	switch vt {
	case TypeString:
		return mapOf[K, string](name, kt, vt, doc)
	case TypeBoolean:
		return mapOf[K, bool](name, kt, vt, doc)
	case TypeByte:
		return mapOf[K, int8](name, kt, vt, doc)
	case TypeShort:
		return mapOf[K, int16](name, kt, vt, doc)
	case TypeInteger:
		return mapOf[K, int32](name, kt, vt, doc)
	case TypeLong:
		return mapOf[K, int64](name, kt, vt, doc)
	case TypeFloat:
		return mapOf[K, float32](name, kt, vt, doc)
	case TypeDouble:
		return mapOf[K, float64](name, kt, vt, doc)
	case TypeDecimal:
		return mapOf[K, decimal.Decimal](name, kt, vt, doc)
	case TypeBigInteger:
		return mapOf[K, *big.Int](name, kt, vt, doc)
	case TypeDate, TypeTime, TypeDateTime, TypeOffsetDateTime:
		return mapOf[K, time.Time](name, kt, vt, doc)
	case TypeList:
		return mapOf[K, []any](name, kt, vt, doc)
	case TypeMap:
		return mapOf[K, map[string]any](name, kt, vt, doc)
	}
	return mapOf[K, any](name, kt, vt, doc)
}

func mapOf[K comparable, V any](name string, kt, vt Type, doc *codec.Document) (Property, error) {
	if doc == nil {
		return NewMap[K, V](name, kt, vt, nil), nil
	}
	values := make(map[K]V, doc.Len())
	var err error
	doc.Range(func(key string, raw any) bool {
		var k, v any
		if k, err = kt.Decode(key); err != nil {
			err = fmt.Errorf("property %q key %q: %w", name, key, err)
			return false
		}
		if v, err = vt.Decode(raw); err != nil {
			err = fmt.Errorf("property %q value of %q: %w", name, key, err)
			return false
		}
		values[as[K](k)] = as[V](v)
		return true
	})
	if err != nil {
		return nil, err
	}
	return NewMap(name, kt, vt, values), nil
}
