package serialization

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/metaprop/property"
)

func TestParseMode(t *testing.T) {
	for _, m := range Modes() {
		got, err := ParseMode(m.String())
		require.NoError(t, err)
		assert.Equal(t, m, got)
	}
	got, err := ParseMode("name-value-type")
	require.NoError(t, err)
	assert.Equal(t, ModeNameValueType, got)

	_, err = ParseMode("everything")
	assert.Error(t, err)
	assert.Equal(t, ModeNameValue, Options{}.Mode)
}

func TestModeText(t *testing.T) {
	var m Mode
	require.NoError(t, m.UnmarshalText([]byte("meta_data")))
	assert.Equal(t, ModeMetaData, m)
	b, err := ModeAll.MarshalText()
	require.NoError(t, err)
	assert.Equal(t, "ALL", string(b))
	_, err = Mode(42).MarshalText()
	assert.Error(t, err)
}

func TestOptionsFromTag(t *testing.T) {
	tests := []struct {
		tag  string
		want Options
	}{
		{"", Options{}},
		{"mode=META_DATA,unwrap", Options{Mode: ModeMetaData, Unwrap: true}},
		{"unwrap=false, mode=VALUE", Options{Mode: ModeValue}},
		{"unwrap=true", Options{Unwrap: true}},
	}
	for _, tt := range tests {
		got, err := OptionsFromTag(tt.tag)
		require.NoError(t, err, tt.tag)
		assert.Equal(t, tt.want, got, tt.tag)
	}
	_, err := OptionsFromTag("mode=BOGUS")
	assert.Error(t, err)
	_, err = OptionsFromTag("pretty")
	assert.Error(t, err)
}

func TestFieldOptions(t *testing.T) {
	type record struct {
		Tree  *property.Composite `metaprop:"mode=META_DATA,unwrap"`
		Plain *property.Composite
	}
	opts, err := FieldOptions(reflect.TypeOf(&record{}), "Tree")
	require.NoError(t, err)
	assert.Equal(t, Options{Mode: ModeMetaData, Unwrap: true}, opts)

	opts, err = FieldOptions(reflect.TypeOf(record{}), "Plain")
	require.NoError(t, err)
	assert.Equal(t, Options{}, opts)

	_, err = FieldOptions(reflect.TypeOf(record{}), "Missing")
	assert.Error(t, err)
	_, err = FieldOptions(reflect.TypeOf(1), "X")
	assert.Error(t, err)
}
