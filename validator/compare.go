package validator

import "cmp"

type comparison struct {
	name      string
	message   Message
	holds     func(c int) bool
	exclusive bool
	upper     bool
}

var (
	lessThan       = comparison{name: "lessThan", message: MessageLessThan, holds: func(c int) bool { return c < 0 }, exclusive: true, upper: true}
	lessOrEqual    = comparison{name: "lessOrEqual", message: MessageLessOrEqual, holds: func(c int) bool { return c <= 0 }, upper: true}
	greaterThan    = comparison{name: "greaterThan", message: MessageGreaterThan, holds: func(c int) bool { return c > 0 }, exclusive: true}
	greaterOrEqual = comparison{name: "greaterOrEqual", message: MessageGreaterOrEqual, holds: func(c int) bool { return c >= 0 }}
)

// LessThan requires the value to be strictly less than target.
func LessThan[T cmp.Ordered](target T, opts ...Option) Validator[T] {
	return compareWith(lessThan, target, cmp.Compare[T], opts)
}

// LessOrEqual requires the value to be less than or equal to target.
func LessOrEqual[T cmp.Ordered](target T, opts ...Option) Validator[T] {
	return compareWith(lessOrEqual, target, cmp.Compare[T], opts)
}

// GreaterThan requires the value to be strictly greater than target.
func GreaterThan[T cmp.Ordered](target T, opts ...Option) Validator[T] {
	return compareWith(greaterThan, target, cmp.Compare[T], opts)
}

// GreaterOrEqual requires the value to be greater than or equal to target.
func GreaterOrEqual[T cmp.Ordered](target T, opts ...Option) Validator[T] {
	return compareWith(greaterOrEqual, target, cmp.Compare[T], opts)
}

// LessThanFunc is LessThan for types ordered by compare, such as time.Time with
// time.Time.Compare or decimal.Decimal with decimal.Decimal.Cmp. Null values pass.
// It panics when target is null.
func LessThanFunc[T any](target T, compare func(a, b T) int, opts ...Option) Validator[T] {
	return compareWith(lessThan, target, compare, opts)
}

// LessOrEqualFunc is LessOrEqual for types ordered by compare.
func LessOrEqualFunc[T any](target T, compare func(a, b T) int, opts ...Option) Validator[T] {
	return compareWith(lessOrEqual, target, compare, opts)
}

// GreaterThanFunc is GreaterThan for types ordered by compare.
func GreaterThanFunc[T any](target T, compare func(a, b T) int, opts ...Option) Validator[T] {
	return compareWith(greaterThan, target, compare, opts)
}

// GreaterOrEqualFunc is GreaterOrEqual for types ordered by compare.
func GreaterOrEqualFunc[T any](target T, compare func(a, b T) int, opts ...Option) Validator[T] {
	return compareWith(greaterOrEqual, target, compare, opts)
}

func compareWith[T any](c comparison, target T, compare func(a, b T) int, opts []Option) Validator[T] {
	if IsNullValue(target) {
		panic("validator: " + c.name + " requires a comparison target")
	}
	if compare == nil {
		panic("validator: " + c.name + " requires a compare function")
	}
	var d *Descriptor
	if f, ok := asFloat(target); ok {
		d = &Descriptor{}
		if c.upper {
			d.Max, d.ExclusiveMax = float64p(f), c.exclusive
		} else {
			d.Min, d.ExclusiveMin = float64p(f), c.exclusive
		}
	}
	r := newRule[T](c.name, newSettings(c.message, opts), d, nil)
	return &ordered[T]{rule: r, target: target, compare: compare, holds: c.holds}
}

// ordered keeps the static type so compare can be called without reflection.
type ordered[T any] struct {
	*rule[T]
	target  T
	compare func(a, b T) int
	holds   func(c int) bool
}

func (o *ordered[T]) Validate(value T) error {
	if IsNullValue(value) {
		return nil
	}
	if o.holds(o.compare(value, o.target)) {
		return nil
	}
	return o.violation(o.target)
}
