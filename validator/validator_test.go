package validator

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

func TestRunAggregation(t *testing.T) {
	t.Run("no failures", func(t *testing.T) {
		assert.NoError(t, Run("abc", []Validator[string]{NotBlank[string](), Max[string](5)}))
	})

	t.Run("single failure is returned unchanged", func(t *testing.T) {
		limit := Max[string](2, WithMessage("too long"), WithCodes("name.too.long"))
		err := Run("abc", []Validator[string]{NotBlank[string](), limit})
		verr := requireViolation(t, err)
		assert.False(t, verr.IsAggregate())
		m, ok := verr.Message()
		require.True(t, ok)
		assert.Equal(t, "too long", m.Default)
		assert.Equal(t, []string{"name.too.long"}, m.Codes)
	})

	t.Run("aggregate keeps order", func(t *testing.T) {
		err := Run("", []Validator[string]{
			Min[string](3, WithMessage("first")),
			NotBlank[string](WithMessage("second")),
			Pattern[string]("[0-9]+"),
			Email[string](WithMessage("third")),
		})
		verr := requireViolation(t, err)
		assert.True(t, verr.IsAggregate())
		require.Len(t, verr.Causes(), 4)
		var texts []string
		for _, m := range verr.Messages() {
			texts = append(texts, m.String())
		}
		assert.Equal(t, []string{"first", "second", "Invalid value", "third"}, texts)
		_, ok := verr.Message()
		assert.False(t, ok)
		assert.Contains(t, verr.Error(), "4 validation errors")
	})

	t.Run("unsupported type propagates", func(t *testing.T) {
		err := Run[any](struct{}{}, []Validator[any]{NotNull[any](), NotEmpty[any]()})
		requireUnsupported(t, err)
	})

	t.Run("unsupported type wins over collected failures", func(t *testing.T) {
		err := Run[any](true, []Validator[any]{IsNull[any](), Max[any](1)})
		requireUnsupported(t, err)
	})

	t.Run("foreign errors become violations", func(t *testing.T) {
		boom := errors.New("boom")
		fail := validatorFunc[int](func(int) error { return boom })
		verr := requireViolation(t, Run(1, []Validator[int]{fail}))
		assert.Equal(t, "boom", verr.Error())
	})
}

type validatorFunc[T any] func(T) error

func (f validatorFunc[T]) Validate(v T) error { return f(v) }

func TestValidationErrorTraversal(t *testing.T) {
	first := NewValidationError(MessageNotNull)
	second := NewValidationError(MessageNotBlank)
	agg := Aggregate(first, second)
	assert.ErrorIs(t, agg, second)
	assert.Len(t, agg.Unwrap(), 2)
	assert.Nil(t, first.Unwrap())
}

func TestSame(t *testing.T) {
	a := NotNull[string]()
	b := NotNull[string]()
	assert.True(t, Same(a, a))
	assert.False(t, Same(a, b))
	f := validatorFunc[string](func(string) error { return nil })
	assert.False(t, Same[string](f, f), "func validators are not comparable")
}

func TestDefaultResolver(t *testing.T) {
	r := DefaultResolver{}
	assert.Equal(t, "between 1 and 2", r.Resolve(Message{Default: "between & and &", Args: []any{1, 2}}))
	assert.Equal(t, "between 1 and &", r.Resolve(Message{Default: "between & and &", Args: []any{1}}))
	assert.Equal(t, "plain", r.Resolve(Message{Default: "plain", Args: []any{1}}))
}

func TestCatalogResolver(t *testing.T) {
	cat, err := NewDefaultCatalog()
	require.NoError(t, err)
	require.NoError(t, cat.SetString(language.German, MessageCodePrefix+"max", "Wert zu groß. Maximum ist %v"))

	de := NewCatalogResolver(language.German, cat)
	verr := requireViolation(t, Max[int](5).Validate(9))
	m, _ := verr.Message()
	assert.Equal(t, "Wert zu groß. Maximum ist 5", de.Resolve(m))

	en := NewCatalogResolver(language.English, cat)
	assert.Equal(t, "Value too large. Maximum is 5", en.Resolve(m))

	assert.Equal(t, "custom", en.Resolve(Message{Default: "custom", Codes: []string{"unknown.code"}}))
}
