package codec

import (
	"encoding/json"
	"math/big"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleDocument() *Document {
	return NewDocument().
		Set("root", "root-value").
		Set("child-node", NewDocument().
			Set("child-1", json.Number("123.45")).
			Set("sample-map", NewDocument().Set("k1", "v1").Set("k2", "v2"))).
		Set("tags", []any{"a", json.Number("1"), true, nil})
}

func TestDocumentOrder(t *testing.T) {
	d := NewDocument().Set("b", 1).Set("a", 2).Set("b", 3)
	assert.Equal(t, []string{"b", "a"}, d.Keys())
	v, ok := d.Get("b")
	require.True(t, ok)
	assert.Equal(t, 3, v)

	d.Delete("b")
	assert.Equal(t, []string{"a"}, d.Keys())
	assert.False(t, d.Has("b"))
	d.Delete("missing")
	assert.Equal(t, 1, d.Len())
}

func TestJSONRoundTrip(t *testing.T) {
	data, err := JSON{}.Render(sampleDocument())
	require.NoError(t, err)
	assert.JSONEq(t, `{"root":"root-value","child-node":{"child-1":123.45,"sample-map":{"k1":"v1","k2":"v2"}},"tags":["a",1,true,null]}`, string(data))
	assert.Equal(t, `{"root":"root-value","child-node":{"child-1":123.45,"sample-map":{"k1":"v1","k2":"v2"}},"tags":["a",1,true,null]}`, string(data))

	parsed, err := JSON{}.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, sampleDocument(), parsed)
}

func TestJSONParseErrors(t *testing.T) {
	_, err := JSON{}.Parse([]byte(`{"a":`))
	assert.Error(t, err)
	_, err = JSON{}.Parse([]byte(`{"a":1} {"b":2}`))
	assert.Error(t, err)
}

func TestDocumentJSONMarshalling(t *testing.T) {
	var d Document
	require.NoError(t, json.Unmarshal([]byte(`{"z":1,"a":{"y":2,"b":3}}`), &d))
	assert.Equal(t, []string{"z", "a"}, d.Keys())
	inner, _ := d.Get("a")
	assert.Equal(t, []string{"y", "b"}, inner.(*Document).Keys())

	assert.Error(t, json.Unmarshal([]byte(`[1]`), &d))
}

func TestYAMLRoundTrip(t *testing.T) {
	data, err := YAML{}.Render(sampleDocument())
	require.NoError(t, err)
	assert.Contains(t, string(data), "child-1: 123.45")

	parsed, err := YAML{}.Parse(data)
	require.NoError(t, err)
	assert.Equal(t, sampleDocument(), parsed)
}

func TestYAMLScalars(t *testing.T) {
	parsed, err := YAML{}.Parse([]byte("i: 0x1F\nf: 1.50\nb: yes\ns: 'x'\nn: ~\n"))
	require.NoError(t, err)
	doc := parsed.(*Document)
	assert.Equal(t, []string{"i", "f", "b", "s", "n"}, doc.Keys())
	i, _ := doc.Get("i")
	assert.Equal(t, json.Number("31"), i)
	f, _ := doc.Get("f")
	assert.Equal(t, json.Number("1.5"), f)
	b, _ := doc.Get("b")
	assert.Equal(t, "yes", b, "yaml 1.2 keeps yes as a string")
	n, _ := doc.Get("n")
	assert.Nil(t, n)
}

func TestProtoRoundTrip(t *testing.T) {
	data, err := Proto{}.Render(sampleDocument())
	require.NoError(t, err)

	parsed, err := Proto{}.Parse(data)
	require.NoError(t, err)
	doc := parsed.(*Document)
	assert.Equal(t, []string{"child-node", "root", "tags"}, doc.Keys(), "keys come back sorted")
	child, _ := doc.Get("child-node")
	v, _ := child.(*Document).Get("child-1")
	assert.Equal(t, json.Number("123.45"), v)
}

func TestNormalize(t *testing.T) {
	n, err := Normalize(map[string]any{
		"b": []int{1, 2},
		"a": decimal.RequireFromString("1.10"),
		"c": big.NewInt(7),
		"d": float32(0.1),
	})
	require.NoError(t, err)
	doc := n.(*Document)
	assert.Equal(t, []string{"a", "b", "c", "d"}, doc.Keys())
	a, _ := doc.Get("a")
	assert.Equal(t, json.Number("1.1"), a)
	b, _ := doc.Get("b")
	assert.Equal(t, []any{json.Number("1"), json.Number("2")}, b)
	d, _ := doc.Get("d")
	assert.Equal(t, json.Number("0.1"), d)

	_, err = Normalize(make(chan int))
	assert.Error(t, err)
}

func TestPlain(t *testing.T) {
	p := Plain(sampleDocument()).(map[string]any)
	child := p["child-node"].(map[string]any)
	assert.Equal(t, 123.45, child["child-1"])
	assert.Equal(t, []any{"a", int64(1), true, nil}, p["tags"])
}

func TestByName(t *testing.T) {
	for name, want := range map[string]string{"json": "json", "YAML": "yaml", "yml": "yaml", "protobuf": "proto", "": "json"} {
		c, err := ByName(name)
		require.NoError(t, err)
		assert.Equal(t, want, c.Name())
	}
	_, err := ByName("xml")
	assert.ErrorIs(t, err, ErrUnknownCodec)
}
