package property

import (
	"maps"
	"strings"

	"github.com/zero-day-ai/metaprop/validator"
)

// AttributeHidden marks a property that modes honouring visibility leave out when set
// to "true".
const AttributeHidden = "hidden"

// AttributeSupport is a free-form string attribute side channel. Attributes are neither
// validated nor type checked.
type AttributeSupport interface {
	Attributes() map[string]string
	AddAttribute(key, value string)
	AddAttributes(attributes map[string]string)
	SetAttributes(attributes map[string]string)
	ClearAttributes()
}

// Complex is a scalar property carrying attributes.
type Complex[T any] struct {
	Simple[T]
	attributes map[string]string
}

// NewComplex creates a complex property without attributes.
func NewComplex[T any](name string, typ Type, value T) *Complex[T] {
	return &Complex[T]{Simple: Simple[T]{name: name, typ: typ, value: value}}
}

// Attributes returns the attributes; nil when none were ever set.
func (c *Complex[T]) Attributes() map[string]string {
	return c.attributes
}

// AddAttribute sets one attribute, creating the attribute map when needed.
func (c *Complex[T]) AddAttribute(key, value string) {
	if c.attributes == nil {
		c.attributes = make(map[string]string)
	}
	c.attributes[key] = value
}

// AddAttributes merges attributes into the existing ones.
func (c *Complex[T]) AddAttributes(attributes map[string]string) {
	for k, v := range attributes {
		c.AddAttribute(k, v)
	}
}

// SetAttributes replaces all attributes with a copy of attributes.
func (c *Complex[T]) SetAttributes(attributes map[string]string) {
	c.attributes = maps.Clone(attributes)
}

// ClearAttributes removes every attribute.
func (c *Complex[T]) ClearAttributes() {
	c.attributes = nil
}

// IsHidden reports whether p carries the hidden attribute set to true.
func IsHidden(p Property) bool {
	a, ok := p.(AttributeSupport)
	if !ok {
		return false
	}
	return strings.EqualFold(a.Attributes()[AttributeHidden], "true")
}

// Builder assembles a Complex property with optional attributes and validators.
type Builder[T any] struct {
	name       string
	value      T
	typ        Type
	attributes map[string]string
	validators []validator.Validator[T]
}

// Build starts a builder.
func Build[T any](name string, value T, typ Type) *Builder[T] {
	return &Builder[T]{name: name, value: value, typ: typ}
}

// Attribute adds one attribute to the built property.
func (b *Builder[T]) Attribute(key, value string) *Builder[T] {
	if b.attributes == nil {
		b.attributes = make(map[string]string)
	}
	b.attributes[key] = value
	return b
}

// Attributes adds every entry of attributes to the built property.
func (b *Builder[T]) Attributes(attributes map[string]string) *Builder[T] {
	for k, v := range attributes {
		b.Attribute(k, v)
	}
	return b
}

// Validator appends one validator.
func (b *Builder[T]) Validator(v validator.Validator[T]) *Builder[T] {
	if v != nil {
		b.validators = append(b.validators, v)
	}
	return b
}

// Validators appends validators in order.
func (b *Builder[T]) Validators(vs ...validator.Validator[T]) *Builder[T] {
	for _, v := range vs {
		b.Validator(v)
	}
	return b
}

// Build creates the property. Validators and attributes are attached only when at least
// one was supplied, so a plain build reports nil for both.
func (b *Builder[T]) Build() *Complex[T] {
	c := NewComplex(b.name, b.typ, b.value)
	if len(b.validators) > 0 {
		c.AddValidators(b.validators...)
	}
	if len(b.attributes) > 0 {
		c.SetAttributes(b.attributes)
	}
	return c
}
