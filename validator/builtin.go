package validator

import (
	"fmt"
	"regexp"
	"strings"
	"unicode"
)

// IsNull requires the value to be null.
func IsNull[T any](opts ...Option) Validator[T] {
	return newRule[T]("null", newSettings(MessageNull, opts), nil, func(v any) (bool, []any, error) {
		return v == nil, nil, nil
	})
}

// NotNull requires the value to be present.
func NotNull[T any](opts ...Option) Validator[T] {
	return newRule[T]("notNull", newSettings(MessageNotNull, opts), &Descriptor{Required: true},
		func(v any) (bool, []any, error) {
			return v != nil, nil, nil
		})
}

// NotEmpty requires a non-null string, slice, array or map with at least one element.
func NotEmpty[T any](opts ...Option) Validator[T] {
	return newRule[T]("notEmpty", newSettings(MessageNotEmpty, opts), &Descriptor{Required: true},
		func(v any) (bool, []any, error) {
			if v == nil {
				return false, nil, nil
			}
			n, ok := asLength(v)
			if !ok {
				return false, nil, unsupported("notEmpty", v)
			}
			return n > 0, nil, nil
		})
}

// NotBlank requires a non-null string containing at least one non-whitespace rune.
func NotBlank[T any](opts ...Option) Validator[T] {
	return newRule[T]("notBlank", newSettings(MessageNotBlank, opts), &Descriptor{Required: true},
		func(v any) (bool, []any, error) {
			if v == nil {
				return false, nil, nil
			}
			s, ok := asString(v)
			if !ok {
				return false, nil, unsupported("notBlank", v)
			}
			return strings.IndexFunc(s, func(r rune) bool { return !unicode.IsSpace(r) }) >= 0, nil, nil
		})
}

// Max requires a number, or the length of a string, slice, array or map, to be at most
// m. Integral numbers and lengths are compared against m truncated toward zero.
func Max[T any](m float64, opts ...Option) Validator[T] {
	return newRule[T]("max", newSettings(MessageMax, opts), &Descriptor{Max: float64p(m)},
		bound("max", m, func(a, b float64) bool { return a <= b }, func(a, b int64) bool { return a <= b }))
}

// Min requires a number, or the length of a string, slice, array or map, to be at least
// m. Integral numbers and lengths are compared against m truncated toward zero.
func Min[T any](m float64, opts ...Option) Validator[T] {
	return newRule[T]("min", newSettings(MessageMin, opts), &Descriptor{Min: float64p(m)},
		bound("min", m, func(a, b float64) bool { return a >= b }, func(a, b int64) bool { return a >= b }))
}

func bound(name string, m float64, decimalOK func(a, b float64) bool, integralOK func(a, b int64) bool) checkFunc {
	return func(v any) (bool, []any, error) {
		if v == nil {
			return true, nil, nil
		}
		if n, ok := asNumeric(v); ok {
			if n.decimal {
				return decimalOK(n.f, m), []any{m}, nil
			}
			return integralOK(n.i, toLong(m)), []any{toLong(m)}, nil
		}
		if l, ok := asLength(v); ok {
			return integralOK(int64(l), int64(toInt(m))), []any{int64(toInt(m))}, nil
		}
		return false, nil, unsupported(name, v)
	}
}

// PatternFlag alters how a Pattern expression is matched.
type PatternFlag int

const (
	// UnixLines is accepted for compatibility; line terminators are always '\n'.
	UnixLines PatternFlag = 1 << iota
	CaseInsensitive
	// Comments is not supported and makes Pattern panic.
	Comments
	Multiline
	// Literal matches the expression as plain text.
	Literal
	DotAll
	// UnicodeCase is accepted for compatibility; case folding is always Unicode aware.
	UnicodeCase
	// CanonEq is accepted for compatibility and ignored.
	CanonEq
)

func compilePattern(expr string, flags []PatternFlag) *regexp.Regexp {
	var set PatternFlag
	for _, f := range flags {
		set |= f
	}
	if set&Comments != 0 {
		panic("validator: Comments pattern flag is not supported")
	}
	if set&Literal != 0 {
		expr = regexp.QuoteMeta(expr)
	}
	var inline string
	if set&CaseInsensitive != 0 {
		inline += "i"
	}
	if set&Multiline != 0 {
		inline += "m"
	}
	if set&DotAll != 0 {
		inline += "s"
	}
	full := "^(?:" + expr + ")$"
	if inline != "" {
		full = "(?" + inline + ")" + full
	}
	re, err := regexp.Compile(full)
	if err != nil {
		panic(fmt.Sprintf("validator: invalid pattern %q: %v", expr, err))
	}
	return re
}

// Pattern requires a string to match expr entirely. Null passes.
// Pattern panics when expr does not compile.
func Pattern[T any](expr string, flags ...PatternFlag) Validator[T] {
	return PatternWith[T](expr, flags, nil)
}

// PatternWith is Pattern with options.
func PatternWith[T any](expr string, flags []PatternFlag, opts []Option) Validator[T] {
	re := compilePattern(expr, flags)
	return newRule[T]("pattern", newSettings(MessagePattern, opts), &Descriptor{Pattern: expr},
		func(v any) (bool, []any, error) {
			if v == nil {
				return true, nil, nil
			}
			s, ok := asString(v)
			if !ok {
				return false, nil, unsupported("pattern", v)
			}
			return re.MatchString(s), nil, nil
		})
}

// In requires the value to equal one of values. Null fails.
// In panics when no candidate is given.
func In[T comparable](values ...T) Validator[T] {
	return InWith(values)
}

// InWith is In with options.
func InWith[T comparable](values []T, opts ...Option) Validator[T] {
	if len(values) == 0 {
		panic("validator: in requires at least one value")
	}
	candidates := append([]T(nil), values...)
	s := newSettings(MessageIn, opts)
	r := newRule[T]("in", s, &Descriptor{In: toAny(candidates)}, nil)
	return &membership[T]{rule: r, candidates: candidates, want: true}
}

// NotIn requires the value to differ from every one of values. Null passes.
// NotIn panics when no candidate is given.
func NotIn[T comparable](values ...T) Validator[T] {
	return NotInWith(values)
}

// NotInWith is NotIn with options.
func NotInWith[T comparable](values []T, opts ...Option) Validator[T] {
	if len(values) == 0 {
		panic("validator: notIn requires at least one value")
	}
	candidates := append([]T(nil), values...)
	s := newSettings(MessageNotIn, opts)
	r := newRule[T]("notIn", s, &Descriptor{NotIn: toAny(candidates)}, nil)
	return &membership[T]{rule: r, candidates: candidates}
}

// membership compares values with ==, which a checkFunc over dereferenced values
// cannot express for pointer element types.
type membership[T comparable] struct {
	*rule[T]
	candidates []T
	want       bool
}

func (m *membership[T]) Validate(value T) error {
	if IsNullValue(value) {
		if m.want {
			return m.violation()
		}
		return nil
	}
	found := false
	for _, c := range m.candidates {
		if c == value {
			found = true
			break
		}
	}
	if found != m.want {
		return m.violation()
	}
	return nil
}

func toAny[T any](values []T) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}

// NotZero rejects numbers whose value truncated to a 32-bit integer is zero, so 0.5
// fails as well. Null passes.
func NotZero[T any](opts ...Option) Validator[T] {
	return newRule[T]("notZero", newSettings(MessageNotZero, opts), &Descriptor{NotIn: []any{0}},
		func(v any) (bool, []any, error) {
			if v == nil {
				return true, nil, nil
			}
			n, ok := asNumeric(v)
			if !ok {
				return false, nil, unsupported("notZero", v)
			}
			return n.i32 != 0, nil, nil
		})
}

// NotNegative rejects numbers below zero. Null passes.
func NotNegative[T any](opts ...Option) Validator[T] {
	return newRule[T]("notNegative", newSettings(MessageNotNegative, opts), &Descriptor{Min: float64p(0)},
		func(v any) (bool, []any, error) {
			if v == nil {
				return true, nil, nil
			}
			n, ok := asNumeric(v)
			if !ok {
				return false, nil, unsupported("notNegative", v)
			}
			return !(n.f < 0), nil, nil
		})
}

// Digits bounds the number of integral and fractional digits of a number, counted on
// its plain decimal form without sign and trailing fractional zeros. Null passes.
// Digits panics when a bound is negative.
func Digits[T any](integral, fractional int, opts ...Option) Validator[T] {
	if integral < 0 {
		panic("validator: integral digits max number cannot be negative")
	}
	if fractional < 0 {
		panic("validator: fractional digits max number cannot be negative")
	}
	d := &Descriptor{IntegerDigits: intp(integral), FractionDigits: intp(fractional)}
	return newRule[T]("digits", newSettings(MessageDigits, opts), d,
		func(v any) (bool, []any, error) {
			if v == nil {
				return true, nil, nil
			}
			n, ok := asNumeric(v)
			if !ok {
				return false, nil, unsupported("digits", v)
			}
			if n.text == "" {
				return false, nil, nil
			}
			s := strings.TrimPrefix(n.text, "-")
			itg, fct := len(s), 0
			if i := strings.IndexByte(s, '.'); i >= 0 {
				itg, fct = i, len(s)-i-1
			}
			return itg <= integral && fct <= fractional, nil, nil
		})
}

var emailPattern = regexp.MustCompile(`^[_A-Za-z0-9+-]+(\.[_A-Za-z0-9-]+)*@[A-Za-z0-9-]+(\.[A-Za-z0-9]+)*(\.[A-Za-z]{2,})$`)

// Email requires a string shaped like an e-mail address. Null passes.
func Email[T any](opts ...Option) Validator[T] {
	return newRule[T]("email", newSettings(MessageEmail, opts), &Descriptor{Email: true},
		func(v any) (bool, []any, error) {
			if v == nil {
				return true, nil, nil
			}
			s, ok := asString(v)
			if !ok {
				return false, nil, unsupported("email", v)
			}
			return emailPattern.MatchString(s), nil, nil
		})
}
