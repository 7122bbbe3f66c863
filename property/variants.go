package property

import (
	"fmt"
	"math/big"
	"time"

	"github.com/shopspring/decimal"
)

// String holds a string value.
type String struct {
	Simple[string]
}

// NewString creates a string property.
func NewString(name, value string) *String {
	return &String{Simple[string]{name: name, typ: TypeString, value: value}}
}

// Boolean holds a bool value.
type Boolean struct {
	Simple[bool]
}

// NewBoolean creates a boolean property.
func NewBoolean(name string, value bool) *Boolean {
	return &Boolean{Simple[bool]{name: name, typ: TypeBoolean, value: value}}
}

// Number lists the value types of numeric properties.
type Number interface {
	~int8 | ~int16 | ~int32 | ~int64 | ~float32 | ~float64 | decimal.Decimal | *big.Int
}

// Numeric holds a number.
type Numeric[N Number] struct {
	Simple[N]
}

// NewNumeric creates a numeric property with an explicit token.
func NewNumeric[N Number](name string, typ Type, value N) *Numeric[N] {
	return &Numeric[N]{Simple[N]{name: name, typ: typ, value: value}}
}

// NewByte creates a byte property.
func NewByte(name string, value int8) *Numeric[int8] {
	return NewNumeric(name, TypeByte, value)
}

// NewShort creates a short property.
func NewShort(name string, value int16) *Numeric[int16] {
	return NewNumeric(name, TypeShort, value)
}

// NewInteger creates an integer property.
func NewInteger(name string, value int32) *Numeric[int32] {
	return NewNumeric(name, TypeInteger, value)
}

// NewLong creates a long property.
func NewLong(name string, value int64) *Numeric[int64] {
	return NewNumeric(name, TypeLong, value)
}

// NewFloat creates a float property.
func NewFloat(name string, value float32) *Numeric[float32] {
	return NewNumeric(name, TypeFloat, value)
}

// NewDouble creates a double property.
func NewDouble(name string, value float64) *Numeric[float64] {
	return NewNumeric(name, TypeDouble, value)
}

// NewDecimal creates an arbitrary precision decimal property.
func NewDecimal(name string, value decimal.Decimal) *Numeric[decimal.Decimal] {
	return NewNumeric(name, TypeDecimal, value)
}

// NewBigInteger creates an arbitrary precision integer property.
func NewBigInteger(name string, value *big.Int) *Numeric[*big.Int] {
	return NewNumeric(name, TypeBigInteger, value)
}

// Temporal holds a time.Time rendered as a date, a time of day, a local date-time or a
// date-time with offset depending on its token.
type Temporal struct {
	Simple[time.Time]
}

// NewTemporal creates a temporal property. It panics when typ is not a temporal token.
func NewTemporal(name string, typ Type, value time.Time) *Temporal {
	if !typ.IsTemporal() {
		panic(fmt.Sprintf("property: %s is not a temporal type", typ))
	}
	return &Temporal{Simple[time.Time]{name: name, typ: typ, value: value}}
}

// NewDate creates a date property; only the calendar date of value is written.
func NewDate(name string, value time.Time) *Temporal {
	return NewTemporal(name, TypeDate, value)
}

// NewTime creates a time-of-day property.
func NewTime(name string, value time.Time) *Temporal {
	return NewTemporal(name, TypeTime, value)
}

// NewDateTime creates a local date-time property without offset.
func NewDateTime(name string, value time.Time) *Temporal {
	return NewTemporal(name, TypeDateTime, value)
}

// NewOffsetDateTime creates a date-time property written with its UTC offset.
func NewOffsetDateTime(name string, value time.Time) *Temporal {
	return NewTemporal(name, TypeOffsetDateTime, value)
}

// Collection holds a slice whose elements share a token. Emptiness and size are governed
// only by the attached validators.
type Collection[E any] struct {
	Simple[[]E]
	elementType Type
}

// NewCollection creates a list property.
func NewCollection[E any](name string, elementType Type, values []E) *Collection[E] {
	return &Collection[E]{
		Simple:      Simple[[]E]{name: name, typ: TypeList, value: values},
		elementType: elementType,
	}
}

// ElementType returns the token of the elements.
func (c *Collection[E]) ElementType() Type { return c.elementType }

// Map holds a map with typed keys and values.
type Map[K comparable, V any] struct {
	Simple[map[K]V]
	keyType   Type
	valueType Type
}

// NewMap creates a map property.
func NewMap[K comparable, V any](name string, keyType, valueType Type, values map[K]V) *Map[K, V] {
	return &Map[K, V]{
		Simple:    Simple[map[K]V]{name: name, typ: TypeMap, value: values},
		keyType:   keyType,
		valueType: valueType,
	}
}

// KeyType returns the token of the keys.
func (m *Map[K, V]) KeyType() Type { return m.keyType }

// ValueType returns the token of the values.
func (m *Map[K, V]) ValueType() Type { return m.valueType }

// ElementTyped is implemented by list properties.
type ElementTyped interface {
	ElementType() Type
}

// EntryTyped is implemented by map properties.
type EntryTyped interface {
	KeyType() Type
	ValueType() Type
}
