package validator

import (
	"math"
	"math/big"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type custom struct{ name string }

func requireViolation(t *testing.T, err error, msgAndArgs ...any) *ValidationError {
	t.Helper()
	require.Error(t, err, msgAndArgs...)
	var verr *ValidationError
	require.ErrorAs(t, err, &verr, msgAndArgs...)
	return verr
}

func requireUnsupported(t *testing.T, err error) {
	t.Helper()
	require.Error(t, err)
	var uerr *UnsupportedTypeError
	require.ErrorAs(t, err, &uerr)
}

func TestNullRules(t *testing.T) {
	s := "x"
	assert.NoError(t, IsNull[*string]().Validate(nil))
	requireViolation(t, IsNull[*string]().Validate(&s))

	assert.NoError(t, NotNull[*string]().Validate(&s))
	verr := requireViolation(t, NotNull[*string]().Validate(nil))
	assert.Equal(t, "Value is required", verr.Error())

	assert.NoError(t, NotNull[any]().Validate(0))
	requireViolation(t, NotNull[any]().Validate(nil))
	requireViolation(t, NotNull[map[string]int]().Validate(nil))
}

func TestNotEmpty(t *testing.T) {
	tests := []struct {
		name    string
		value   any
		invalid bool
	}{
		{"empty string", "", true},
		{"empty list", []int{}, true},
		{"empty map", map[string]int{}, true},
		{"null", nil, true},
		{"string", "a", false},
		{"list", []int{1}, false},
		{"map", map[string]int{"k": 1}, false},
		{"array", [1]int{1}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := NotEmpty[any]().Validate(tt.value)
			if tt.invalid {
				verr := requireViolation(t, err)
				assert.Equal(t, MessageNotEmpty.Default, verr.Error())
				return
			}
			assert.NoError(t, err)
		})
	}

	t.Run("unsupported kind", func(t *testing.T) {
		requireUnsupported(t, NotEmpty[custom]().Validate(custom{name: "x"}))
	})
}

func TestNotBlank(t *testing.T) {
	v := NotBlank[string]()
	assert.NoError(t, v.Validate(" a "))
	requireViolation(t, v.Validate(" \t\n"))
	requireViolation(t, v.Validate(""))
	requireUnsupported(t, NotBlank[int]().Validate(3))
	requireViolation(t, NotBlank[*string]().Validate(nil))
}

func TestMaxMinTruncateIntegralBound(t *testing.T) {
	requireViolation(t, Max[int](2.9).Validate(3))
	assert.NoError(t, Max[int](2.9).Validate(2))
	assert.NoError(t, Min[int64](-2.9).Validate(-2))
	requireViolation(t, Min[int64](-2.9).Validate(-3))
	assert.NoError(t, Min[int](2.9).Validate(2))

	// decimal kinds compare against the exact bound
	requireViolation(t, Max[float64](2.9).Validate(2.95))
	assert.NoError(t, Max[float64](2.9).Validate(2.9))
	requireViolation(t, Max[decimal.Decimal](2.9).Validate(decimal.RequireFromString("2.91")))
	requireViolation(t, Max[*big.Int](2.9).Validate(big.NewInt(3)))
}

func TestMaxMinSaturatingBounds(t *testing.T) {
	tests := []struct {
		name  string
		check func() error
		valid bool
	}{
		{name: "huge max long", check: func() error { return Max[int64](1e19).Validate(5) }, valid: true},
		{name: "huge max length", check: func() error { return Max[string](1e19).Validate("abc") }, valid: true},
		{name: "infinite max", check: func() error { return Max[int32](math.Inf(1)).Validate(1) }, valid: true},
		{name: "negative infinite min", check: func() error { return Min[int64](math.Inf(-1)).Validate(math.MinInt64) }, valid: true},
		{name: "huge min long", check: func() error { return Min[int64](1e19).Validate(5) }},
		{name: "nan max is zero", check: func() error { return Max[int](math.NaN()).Validate(1) }},
		{name: "nan min is zero", check: func() error { return Min[int](math.NaN()).Validate(0) }, valid: true},
		{name: "nan max length", check: func() error { return Max[string](math.NaN()).Validate("") }, valid: true},
		{name: "uint above int64", check: func() error { return Max[uint64](10).Validate(uint64(math.MaxUint64)) }},
		{name: "uint within bound", check: func() error { return Max[uint64](10).Validate(uint64(10)) }, valid: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.valid {
				assert.NoError(t, tt.check())
				return
			}
			requireViolation(t, tt.check())
		})
	}

	verr := requireViolation(t, Min[int64](1e19).Validate(5))
	assert.Equal(t, "Value too small. Minimum is 9223372036854775807", verr.Error())
	verr = requireViolation(t, Min[string](1e19).Validate("abc"))
	assert.Equal(t, "Value too small. Minimum is 2147483647", verr.Error())
}

func TestMaxMinLengths(t *testing.T) {
	assert.NoError(t, Max[string](3).Validate("abc"))
	requireViolation(t, Max[string](3.7).Validate("abcd"))
	assert.NoError(t, Max[string](3).Validate("äöü"))
	requireViolation(t, Min[[]int](2).Validate([]int{1}))
	assert.NoError(t, Min[map[string]int](1).Validate(map[string]int{"a": 1}))
	assert.NoError(t, Max[*string](1).Validate(nil))
	requireUnsupported(t, Max[bool](1).Validate(true))
}

func TestMaxMessageArguments(t *testing.T) {
	verr := requireViolation(t, Max[int](2.9).Validate(3))
	assert.Equal(t, "Value too large. Maximum is 2", verr.Error())

	verr = requireViolation(t, Max[float64](2.5).Validate(3))
	assert.Equal(t, "Value too large. Maximum is 2.5", verr.Error())

	verr = requireViolation(t, Min[int](5, WithArgs("five")).Validate(1))
	assert.Equal(t, "Value too small. Minimum is five", verr.Error())
}

func TestPattern(t *testing.T) {
	v := Pattern[string]("[a-z]+")
	assert.NoError(t, v.Validate("abc"))
	requireViolation(t, v.Validate("abc1"), "must match the whole value")
	assert.NoError(t, Pattern[*string]("[a-z]+").Validate(nil))
	assert.NoError(t, Pattern[string]("[a-z]+", CaseInsensitive).Validate("ABC"))
	assert.NoError(t, Pattern[string]("a.b", DotAll).Validate("a\nb"))
	assert.NoError(t, Pattern[string]("a.b", Literal).Validate("a.b"))
	requireViolation(t, Pattern[string]("a.b", Literal).Validate("axb"))
	requireUnsupported(t, Pattern[int]("1").Validate(1))

	assert.Panics(t, func() { Pattern[string]("(") })
	assert.Panics(t, func() { Pattern[string]("a", Comments) })
}

func TestInNotIn(t *testing.T) {
	in := In("draft", "published")
	assert.NoError(t, in.Validate("draft"))
	requireViolation(t, in.Validate("archived"))

	a, b := "a", "b"
	inPtr := In(&a)
	requireViolation(t, inPtr.Validate(nil), "in fails on null")
	assert.NoError(t, inPtr.Validate(&a))

	notIn := NotIn(&a)
	assert.NoError(t, notIn.Validate(nil), "notIn passes null")
	assert.NoError(t, notIn.Validate(&b))
	requireViolation(t, notIn.Validate(&a))

	assert.Panics(t, func() { In[string]() })
	assert.Panics(t, func() { NotIn[int]() })
}

func TestNotZeroUsesTruncatedInt(t *testing.T) {
	v := NotZero[any]()
	requireViolation(t, v.Validate(0))
	requireViolation(t, v.Validate(0.5), "0.5 truncates to zero")
	requireViolation(t, v.Validate(int64(1)<<32), "wraps to zero in 32 bits")
	requireViolation(t, v.Validate(decimal.RequireFromString("-0.9")))
	assert.NoError(t, v.Validate(1.5))
	assert.NoError(t, v.Validate(nil))
	requireUnsupported(t, v.Validate("0"))
}

func TestNotNegativeUsesDouble(t *testing.T) {
	v := NotNegative[any]()
	requireViolation(t, v.Validate(-0.1), "negative double fails even though int projection is zero")
	requireViolation(t, v.Validate(-1))
	assert.NoError(t, v.Validate(0))
	assert.NoError(t, v.Validate(uint8(3)))
	assert.NoError(t, v.Validate(nil))
}

func TestDigits(t *testing.T) {
	v := Digits[any](2, 1)
	assert.NoError(t, v.Validate(12.3))
	assert.NoError(t, v.Validate(-12.3))
	requireViolation(t, v.Validate(123.4))
	requireViolation(t, v.Validate(1.23))
	assert.NoError(t, v.Validate(12.30), "trailing zeros are stripped")
	assert.NoError(t, v.Validate(decimal.RequireFromString("12.300")))
	assert.NoError(t, v.Validate(99))
	requireViolation(t, v.Validate(big.NewInt(100)))
	requireViolation(t, v.Validate(1e300))
	assert.NoError(t, v.Validate(nil))
	requireUnsupported(t, v.Validate("12"))

	assert.Panics(t, func() { Digits[int](-1, 0) })
	assert.Panics(t, func() { Digits[int](0, -1) })
}

func TestPastFuture(t *testing.T) {
	now := time.Date(2024, 5, 10, 15, 30, 0, 0, time.Local)
	clock := WithClock(func() time.Time { return now })

	earlierToday := now.Add(-time.Hour)
	yesterday := now.AddDate(0, 0, -1)
	tomorrow := now.AddDate(0, 0, 1)

	pastDay := Past[time.Time](false, clock)
	requireViolation(t, pastDay.Validate(earlierToday), "today is not in the past")
	assert.NoError(t, pastDay.Validate(yesterday))

	pastInstant := Past[time.Time](true, clock)
	assert.NoError(t, pastInstant.Validate(earlierToday))
	requireViolation(t, pastInstant.Validate(now), "equality fails")

	futureDay := Future[*time.Time](false, clock)
	later := now.Add(time.Hour)
	requireViolation(t, futureDay.Validate(&later))
	assert.NoError(t, futureDay.Validate(&tomorrow))
	assert.NoError(t, futureDay.Validate(nil))

	requireUnsupported(t, Past[string](true).Validate("2020-01-01"))
}

func TestComparisons(t *testing.T) {
	requireViolation(t, LessThan(10).Validate(10))
	assert.NoError(t, LessOrEqual(10).Validate(10))
	requireViolation(t, GreaterThan("b").Validate("a"))
	assert.NoError(t, GreaterOrEqual(1.5).Validate(1.5))

	verr := requireViolation(t, LessThan(10).Validate(11))
	assert.Equal(t, "Value must be less than 10", verr.Error())

	d := LessThanFunc(decimal.NewFromInt(5), decimal.Decimal.Cmp)
	assert.NoError(t, d.Validate(decimal.RequireFromString("4.99")))
	requireViolation(t, d.Validate(decimal.NewFromInt(5)))

	deadline := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)
	before := LessThanFunc(deadline, time.Time.Compare)
	assert.NoError(t, before.Validate(deadline.Add(-time.Second)))

	bigger := GreaterThanFunc(big.NewInt(1), (*big.Int).Cmp)
	assert.NoError(t, bigger.Validate(nil), "null passes")
	requireViolation(t, bigger.Validate(big.NewInt(1)))

	assert.Panics(t, func() { LessThanFunc[*big.Int](nil, (*big.Int).Cmp) })
}

func TestEmail(t *testing.T) {
	v := Email[string]()
	assert.NoError(t, v.Validate("jane+hr.doe@example.co.uk"))
	// '+' is only allowed before the first dot of the local part
	requireViolation(t, v.Validate("jane.doe+hr@example.co.uk"))
	requireViolation(t, v.Validate("jane.doe@"))
	requireViolation(t, v.Validate("jane doe@example.com"))
	assert.NoError(t, Email[*string]().Validate(nil))
}

func TestExpression(t *testing.T) {
	even := Expression[int64](`value % 2 == 0`, WithMessage("Value must be even"))
	assert.NoError(t, even.Validate(4))
	verr := requireViolation(t, even.Validate(3))
	assert.Equal(t, "Value must be even", verr.Error())

	prefix := Expression[string](`value.startsWith("EMP-")`)
	assert.NoError(t, prefix.Validate("EMP-1"))
	requireViolation(t, prefix.Validate("1"))

	requireViolation(t, Expression[map[string]any](`value.missing == 1`).Validate(map[string]any{}))

	assert.Panics(t, func() { Expression[int](`value +`) })
}

func TestNewPredicate(t *testing.T) {
	v := New(func(s string) bool { return len(s)%2 == 0 }, WithMessage("odd"), WithCodes("odd.code"))
	assert.NoError(t, v.Validate("ab"))
	verr := requireViolation(t, v.Validate("a"))
	m, ok := verr.Message()
	require.True(t, ok)
	assert.Equal(t, []string{"odd.code"}, m.Codes)
}

func TestDescriptors(t *testing.T) {
	tests := []struct {
		name  string
		v     any
		kinds []Kind
	}{
		{"notNull", NotNull[string](), []Kind{KindRequired}},
		{"notBlank", NotBlank[string](), []Kind{KindRequired}},
		{"max", Max[int](3), []Kind{KindMax}},
		{"min", Min[int](3), []Kind{KindMin}},
		{"pattern", Pattern[string]("a"), []Kind{KindPattern}},
		{"in", In(1, 2), []Kind{KindIn}},
		{"notIn", NotIn(1), []Kind{KindNotIn}},
		{"notZero", NotZero[int](), []Kind{KindNotIn}},
		{"notNegative", NotNegative[int](), []Kind{KindMin}},
		{"digits", Digits[float64](3, 2), []Kind{KindIntegerDigits, KindFractionDigits}},
		{"past", Past[time.Time](false), []Kind{KindPast}},
		{"future", Future[time.Time](true), []Kind{KindFuture}},
		{"email", Email[string](), []Kind{KindEmail}},
		{"lessThan", LessThan(4), []Kind{KindExclusiveMax}},
		{"lessOrEqual", LessOrEqual(4), []Kind{KindMax}},
		{"greaterThan", GreaterThan(4), []Kind{KindExclusiveMin}},
		{"greaterOrEqual", GreaterOrEqual(4), []Kind{KindMin}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d, ok := Describe(tt.v)
			require.True(t, ok)
			assert.Equal(t, tt.kinds, d.Kinds())
		})
	}

	_, ok := Describe(IsNull[string]())
	assert.False(t, ok)
	_, ok = Describe(LessThan("b"))
	assert.False(t, ok, "non numeric targets have no descriptor")

	d, _ := Describe(NotZero[int]())
	assert.Equal(t, []any{0}, d.NotIn)
}
