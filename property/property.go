package property

import (
	"github.com/zero-day-ai/metaprop/validator"
)

// Property is the type-erased view of any property.
type Property interface {
	// Name returns the property name, unique among its siblings.
	Name() string

	// Type returns the runtime type token of the value.
	Type() Type

	// Interface returns the value as an any.
	Interface() any

	// Validate runs the attached validators against the value.
	Validate() error
}

// Validatable is implemented by properties holding validators for values of type T.
// Mutators return the receiver so calls can be chained.
type Validatable[T any] interface {
	AddValidator(v validator.Validator[T]) Validatable[T]
	AddValidators(vs ...validator.Validator[T]) Validatable[T]
	RemoveValidator(v validator.Validator[T]) Validatable[T]
	Validators() []validator.Validator[T]
	Validate() error
}

// Simple is the scalar property every other variant builds on.
//
// The declared type must match the runtime type of the value; this is not checked.
type Simple[T any] struct {
	name       string
	typ        Type
	value      T
	validators []validator.Validator[T]
}

// NewSimple creates a property of an arbitrary value type.
func NewSimple[T any](name string, typ Type, value T) *Simple[T] {
	return &Simple[T]{name: name, typ: typ, value: value}
}

// Name returns the property name.
func (p *Simple[T]) Name() string { return p.name }

// Type returns the type token of the value.
func (p *Simple[T]) Type() Type { return p.typ }

// Value returns the typed value.
func (p *Simple[T]) Value() T { return p.value }

// Interface returns the value as an any.
func (p *Simple[T]) Interface() any { return p.value }

// SetValue replaces the value without validating it.
func (p *Simple[T]) SetValue(value T) {
	p.value = value
}

// AddValidator appends v to the validators.
func (p *Simple[T]) AddValidator(v validator.Validator[T]) Validatable[T] {
	if v != nil {
		p.validators = append(p.validators, v)
	}
	return p
}

// AddValidators appends vs in order.
func (p *Simple[T]) AddValidators(vs ...validator.Validator[T]) Validatable[T] {
	for _, v := range vs {
		p.AddValidator(v)
	}
	return p
}

// RemoveValidator removes the first occurrence of v. Removing a validator that was never
// added does nothing.
func (p *Simple[T]) RemoveValidator(v validator.Validator[T]) Validatable[T] {
	for i, existing := range p.validators {
		if validator.Same(existing, v) {
			p.validators = append(p.validators[:i:i], p.validators[i+1:]...)
			break
		}
	}
	return p
}

// Validators returns the validators in evaluation order. The result is nil when none were
// ever attached.
func (p *Simple[T]) Validators() []validator.Validator[T] {
	if p.validators == nil {
		return nil
	}
	return append([]validator.Validator[T](nil), p.validators...)
}

// Validate runs the validators in order; see validator.Run for how violations are
// reported.
func (p *Simple[T]) Validate() error {
	return validator.Run(p.value, p.validators)
}

// Descriptors returns the descriptors of the validators that provide one, in order.
func (p *Simple[T]) Descriptors() []validator.Descriptor {
	var out []validator.Descriptor
	for _, v := range p.validators {
		if d, ok := validator.Describe(v); ok {
			out = append(out, d)
		}
	}
	return out
}

// Descriptive is implemented by properties exposing validator descriptors.
type Descriptive interface {
	Descriptors() []validator.Descriptor
}
