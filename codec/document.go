// Package codec defines the generic document model the serializer builds and the codecs
// turning it into bytes.
//
// A document value is one of:
//
//	nil, bool, string, json.Number, []any, *Document
//
// Documents keep field insertion order so rendered output is stable. Numbers are kept as
// json.Number text, so decimals survive a round trip without float rounding.
package codec

import (
	"encoding/json"
	"fmt"
	"math"
	"math/big"
	"reflect"
	"sort"
	"strconv"

	"github.com/shopspring/decimal"
)

// Document is an ordered object.
type Document struct {
	keys   []string
	values map[string]any
}

// NewDocument creates an empty document.
func NewDocument() *Document {
	return &Document{values: make(map[string]any)}
}

// Set stores value under key. An existing key keeps its position.
func (d *Document) Set(key string, value any) *Document {
	if d.values == nil {
		d.values = make(map[string]any)
	}
	if _, ok := d.values[key]; !ok {
		d.keys = append(d.keys, key)
	}
	d.values[key] = value
	return d
}

// Get returns the value stored under key.
func (d *Document) Get(key string) (any, bool) {
	if d == nil {
		return nil, false
	}
	v, ok := d.values[key]
	return v, ok
}

// Has reports whether key is present.
func (d *Document) Has(key string) bool {
	_, ok := d.Get(key)
	return ok
}

// Delete removes key.
func (d *Document) Delete(key string) {
	if _, ok := d.values[key]; !ok {
		return
	}
	delete(d.values, key)
	for i, k := range d.keys {
		if k == key {
			d.keys = append(d.keys[:i], d.keys[i+1:]...)
			break
		}
	}
}

// Keys returns the keys in insertion order.
func (d *Document) Keys() []string {
	if d == nil {
		return nil
	}
	return append([]string(nil), d.keys...)
}

// Len returns the number of fields.
func (d *Document) Len() int {
	if d == nil {
		return 0
	}
	return len(d.keys)
}

// Range calls fn for each field in order until fn returns false.
func (d *Document) Range(fn func(key string, value any) bool) {
	if d == nil {
		return
	}
	for _, k := range d.keys {
		if !fn(k, d.values[k]) {
			return
		}
	}
}

// Merge copies every field of o into d.
func (d *Document) Merge(o *Document) *Document {
	o.Range(func(k string, v any) bool {
		d.Set(k, v)
		return true
	})
	return d
}

// String returns the compact JSON form.
func (d *Document) String() string {
	b, err := json.Marshal(d)
	if err != nil {
		return fmt.Sprintf("<invalid document: %v>", err)
	}
	return string(b)
}

// Normalize converts native Go values into document values: maps become documents with
// sorted keys, slices and arrays become []any, numbers become json.Number. Values that
// are already document values are returned unchanged.
func Normalize(v any) (any, error) {
	switch x := v.(type) {
	case nil, bool, string, json.Number:
		return x, nil
	case *Document:
		return x, nil
	case decimal.Decimal:
		return json.Number(x.String()), nil
	case *big.Int:
		if x == nil {
			return nil, nil
		}
		return json.Number(x.String()), nil
	case *big.Float:
		if x == nil {
			return nil, nil
		}
		return json.Number(x.Text('g', -1)), nil
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			n, err := Normalize(e)
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	}

	rv := reflect.ValueOf(v)
	switch rv.Kind() {
	case reflect.Pointer, reflect.Interface:
		if rv.IsNil() {
			return nil, nil
		}
		return Normalize(rv.Elem().Interface())
	case reflect.Bool:
		return rv.Bool(), nil
	case reflect.String:
		return rv.String(), nil
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return json.Number(strconv.FormatInt(rv.Int(), 10)), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return json.Number(strconv.FormatUint(rv.Uint(), 10)), nil
	case reflect.Float32:
		return FloatNumber(rv.Float(), 32)
	case reflect.Float64:
		return FloatNumber(rv.Float(), 64)
	case reflect.Slice, reflect.Array:
		if rv.Kind() == reflect.Slice && rv.IsNil() {
			return nil, nil
		}
		out := make([]any, rv.Len())
		for i := range out {
			n, err := Normalize(rv.Index(i).Interface())
			if err != nil {
				return nil, err
			}
			out[i] = n
		}
		return out, nil
	case reflect.Map:
		if rv.IsNil() {
			return nil, nil
		}
		keys := rv.MapKeys()
		names := make([]string, len(keys))
		byName := make(map[string]reflect.Value, len(keys))
		for i, k := range keys {
			names[i] = fmt.Sprint(k.Interface())
			byName[names[i]] = k
		}
		sort.Strings(names)
		doc := NewDocument()
		for _, name := range names {
			n, err := Normalize(rv.MapIndex(byName[name]).Interface())
			if err != nil {
				return nil, err
			}
			doc.Set(name, n)
		}
		return doc, nil
	}
	return nil, fmt.Errorf("codec: unsupported value of type %T", v)
}

// FloatNumber renders f with the shortest representation that round-trips at the given
// bit size. NaN and infinities have no document form.
func FloatNumber(f float64, bitSize int) (json.Number, error) {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return "", fmt.Errorf("codec: %v has no document form", f)
	}
	return json.Number(strconv.FormatFloat(f, 'f', -1, bitSize)), nil
}

// Plain converts document values into native Go values: documents become
// map[string]any and integral numbers become int64, other numbers float64.
func Plain(v any) any {
	switch x := v.(type) {
	case *Document:
		out := make(map[string]any, x.Len())
		x.Range(func(k string, e any) bool {
			out[k] = Plain(e)
			return true
		})
		return out
	case []any:
		out := make([]any, len(x))
		for i, e := range x {
			out[i] = Plain(e)
		}
		return out
	case json.Number:
		if i, err := x.Int64(); err == nil {
			return i
		}
		f, _ := x.Float64()
		return f
	}
	return v
}
