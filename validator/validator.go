package validator

import (
	"errors"
	"reflect"
	"time"
)

// Validator checks a single value.
//
// Validate returns nil when value satisfies the rule, a *ValidationError when it does
// not, and an *UnsupportedTypeError when the rule cannot inspect the kind of value.
// Implementations must be stateless and safe for concurrent use.
type Validator[T any] interface {
	Validate(value T) error
}

// Option customises a validator at construction.
type Option func(*settings)

type settings struct {
	message  Message
	userArgs bool
	now      func() time.Time
}

// WithMessage replaces the default message text.
func WithMessage(text string) Option {
	return func(s *settings) {
		s.message.Default = text
	}
}

// WithCodes replaces the message lookup codes.
func WithCodes(codes ...string) Option {
	return func(s *settings) {
		s.message.Codes = append([]string(nil), codes...)
	}
}

// WithArgs sets the message arguments. Builtins fill in their own arguments, such as
// the bound of Max, only when none were supplied.
func WithArgs(args ...any) Option {
	return func(s *settings) {
		s.message.Args = append([]any(nil), args...)
		s.userArgs = true
	}
}

// WithClock sets the time source used by Past and Future.
func WithClock(now func() time.Time) Option {
	return func(s *settings) {
		if now != nil {
			s.now = now
		}
	}
}

func newSettings(def Message, opts []Option) settings {
	s := settings{message: def.clone(), now: time.Now}
	for _, opt := range opts {
		opt(&s)
	}
	return s
}

// checkFunc inspects a value with pointers already dereferenced; v is nil for a null
// value. It reports whether the value is valid and the arguments of the violation.
type checkFunc func(v any) (ok bool, args []any, err error)

// rule is the implementation shared by every builtin. It is always used by pointer so
// that validators can be compared for removal.
type rule[T any] struct {
	name       string
	message    Message
	userArgs   bool
	descriptor *Descriptor
	check      checkFunc
}

func newRule[T any](name string, s settings, d *Descriptor, check checkFunc) *rule[T] {
	return &rule[T]{
		name:       name,
		message:    s.message,
		userArgs:   s.userArgs,
		descriptor: d,
		check:      check,
	}
}

// Validate implements Validator.
func (r *rule[T]) Validate(value T) error {
	ok, args, err := r.check(deref(value))
	if err != nil {
		return err
	}
	if ok {
		return nil
	}
	return r.violation(args...)
}

func (r *rule[T]) violation(args ...any) error {
	m := r.message.clone()
	if !r.userArgs && len(args) > 0 {
		m.Args = args
	}
	return &ValidationError{message: &m}
}

// Descriptor implements Described.
func (r *rule[T]) Descriptor() (Descriptor, bool) {
	if r.descriptor == nil {
		return Descriptor{}, false
	}
	return *r.descriptor, true
}

// Message returns the message reported on violation, before argument substitution.
func (r *rule[T]) Message() Message {
	return r.message.clone()
}

// String returns the rule name.
func (r *rule[T]) String() string {
	return r.name
}

// New builds a validator from a predicate. A false result is reported with
// "Invalid value" unless WithMessage says otherwise.
func New[T any](valid func(value T) bool, opts ...Option) Validator[T] {
	s := newSettings(Message{Default: "Invalid value"}, opts)
	return &predicate[T]{message: s.message, valid: valid}
}

type predicate[T any] struct {
	message Message
	valid   func(value T) bool
}

func (p *predicate[T]) Validate(value T) error {
	if p.valid(value) {
		return nil
	}
	return NewValidationError(p.message)
}

// Run validates value against every validator in order and aggregates the violations.
//
// An *UnsupportedTypeError aborts the run and is returned as-is. Otherwise Run returns
// nil when nothing failed, the single *ValidationError when exactly one validator
// failed, and an aggregate whose causes follow validator order when more failed.
// Errors of any other type are treated as single violations.
func Run[T any](value T, validators []Validator[T]) error {
	var failures []*ValidationError
	for _, v := range validators {
		if v == nil {
			continue
		}
		err := v.Validate(value)
		if err == nil {
			continue
		}
		var unsupported *UnsupportedTypeError
		if errors.As(err, &unsupported) {
			return err
		}
		var verr *ValidationError
		if !errors.As(err, &verr) {
			verr = &ValidationError{message: &Message{Default: err.Error()}}
		}
		failures = append(failures, verr)
	}
	switch len(failures) {
	case 0:
		return nil
	case 1:
		return failures[0]
	default:
		return Aggregate(failures...)
	}
}

// Same reports whether a and b are the same validator. Validators of non-comparable
// dynamic types are never the same.
func Same[T any](a, b Validator[T]) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	ta, tb := reflect.TypeOf(a), reflect.TypeOf(b)
	if ta != tb || !ta.Comparable() {
		return false
	}
	return a == b
}
