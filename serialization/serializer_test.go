package serialization

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/zero-day-ai/metaprop/codec"
	"github.com/zero-day-ai/metaprop/property"
)

func sampleTree() *property.Composite {
	return property.NewCompositeGroup(property.NewString("root", "root-value"), "child-node",
		property.NewComposite(property.NewDecimal("child-1", decimal.RequireFromString("123.45"))),
		property.NewComposite(property.NewMap("sample-map", property.TypeString, property.TypeString,
			map[string]string{"k1": "v1", "k2": "v2", "k3": "v3"})),
	)
}

func TestNameValueScenario(t *testing.T) {
	s := NewSerializer(codec.JSON{})
	data, err := s.MarshalTree(sampleTree(), Options{Mode: ModeNameValue})
	require.NoError(t, err)
	assert.Equal(t,
		`{"root":"root-value","child-node":{"child-1":123.45,"sample-map":{"k1":"v1","k2":"v2","k3":"v3"}}}`,
		string(data))
}

func TestMetaDataRoundTripIsLossless(t *testing.T) {
	p := property.Build("salary", decimal.RequireFromString("1234.50"), property.TypeDecimal).
		Attribute("currency", "EUR").
		Attribute("label", "Salary").
		Build()
	s := NewSerializer(nil)

	data, err := s.MarshalProperty(p, Options{Mode: ModeMetaData})
	require.NoError(t, err)
	assert.JSONEq(t,
		`{"name":"salary","type":"decimal","value":1234.5,"attributes":{"currency":"EUR","label":"Salary"}}`,
		string(data))

	back, err := s.UnmarshalProperty(data, Options{Mode: ModeMetaData})
	require.NoError(t, err)
	c, ok := back.(*property.Complex[decimal.Decimal])
	require.True(t, ok, "got %T", back)
	assert.Equal(t, p.Name(), c.Name())
	assert.Equal(t, p.Type(), c.Type())
	assert.True(t, p.Value().Equal(c.Value()))
	assert.Equal(t, p.Attributes(), c.Attributes())
}

func TestMetaDataTreeRoundTrip(t *testing.T) {
	dob := time.Date(1990, 4, 1, 0, 0, 0, 0, time.Local)
	hidden := property.Build("ssn", "123-45", property.TypeString).Attribute(property.AttributeHidden, "true").Build()
	address := property.NewCompositeGroup(property.NewString("address", "home"), "lines",
		property.NewComposite(property.NewCollection("street", property.TypeString, []string{"Main St", "1"})),
	)
	root := property.NewCompositeGroup(property.NewString("employee", "E1"), "fields",
		property.NewComposite(property.NewDate("dob", dob)),
		property.NewComposite(hidden),
		address,
	)

	for _, c := range []codec.Codec{codec.JSON{}, codec.YAML{}, codec.Proto{}} {
		t.Run(c.Name(), func(t *testing.T) {
			s := NewSerializer(c)
			data, err := s.MarshalTree(root, Options{Mode: ModeMetaData})
			require.NoError(t, err)

			back, err := s.UnmarshalTree(data, Options{Mode: ModeMetaData})
			require.NoError(t, err)
			assert.Equal(t, "fields", back.ChildNodeName())
			children := back.Children()
			require.Len(t, children, 3, "hidden properties are kept")

			gotDob := children[0].Node().(*property.Temporal)
			assert.Equal(t, property.TypeDate, gotDob.Type())
			assert.True(t, dob.Equal(gotDob.Value()))

			assert.True(t, property.IsHidden(children[1].Node()))

			street := children[2].Children()[0].Node().(*property.Collection[string])
			assert.Equal(t, []string{"Main St", "1"}, street.Value())
			assert.Same(t, back, children[2].Parent())
		})
	}
}

func TestNameValueRoundTripIsLossy(t *testing.T) {
	s := NewSerializer(codec.JSON{})
	p := property.Build("age", int32(40), property.TypeInteger).Attribute("unit", "years").Build()
	data, err := s.MarshalProperty(p, Options{Mode: ModeNameValue})
	require.NoError(t, err)
	assert.Equal(t, `{"age":40}`, string(data))

	back, err := s.UnmarshalProperty(data, Options{Mode: ModeNameValue})
	require.NoError(t, err)
	assert.Equal(t, "age", back.Name())
	assert.EqualValues(t, 40, back.Interface())
	_, hasAttributes := back.(property.AttributeSupport)
	assert.False(t, hasAttributes)
}

func TestNameValueTreeRead(t *testing.T) {
	s := NewSerializer(codec.JSON{})
	data := []byte(`{"root":"root-value","child-node":{"child-1":123.45,"sample-map":{"k1":"v1","k2":"v2","k3":"v3"},"deep":{"deep":1,"grp":{"x":true}}},"foreign":1}`)
	root, err := s.UnmarshalTree(data, Options{})
	require.NoError(t, err)
	assert.Equal(t, "root-value", root.Node().Interface())
	assert.Equal(t, "child-node", root.ChildNodeName())
	children := root.Children()
	require.Len(t, children, 3)
	assert.Equal(t, 123.45, children[0].Node().Interface())
	assert.Equal(t, map[string]string{"k1": "v1", "k2": "v2", "k3": "v3"}, children[1].Node().Interface())
	deep := children[2]
	assert.Equal(t, "grp", deep.ChildNodeName())
	assert.Equal(t, int64(1), deep.Node().Interface())
	assert.Equal(t, true, deep.Children()[0].Node().Interface())
}

func TestNestedNonLeafChildren(t *testing.T) {
	root := property.NewCompositeGroup(property.NewString("a", "1"), "g",
		property.NewCompositeGroup(property.NewString("b", "2"), "h",
			property.NewComposite(property.NewLong("c", 3))),
	)
	s := NewSerializer(codec.JSON{})
	data, err := s.MarshalTree(root, Options{})
	require.NoError(t, err)
	assert.Equal(t, `{"a":"1","g":{"b":{"b":"2","h":{"c":3}}}}`, string(data))

	back, err := s.UnmarshalTree(data, Options{})
	require.NoError(t, err)
	support := property.NewSupport(back)
	c, ok := support.FindProperty("a/b/c")
	require.True(t, ok)
	assert.Equal(t, int64(3), c.Interface())
}

func TestNameValueMapChildKeepsValue(t *testing.T) {
	secret := property.Build("pin", "1234", property.TypeString).Attribute(property.AttributeHidden, "true").Build()
	root := property.NewCompositeGroup(property.NewString("root", "r"), "g",
		property.NewComposite(property.NewMap("alias", property.TypeString, property.TypeString,
			map[string]string{"alias": "x"})),
		property.NewCompositeGroup(property.NewString("card", "c1"), "h", property.NewComposite(secret)),
	)
	s := NewSerializer(codec.JSON{})
	data, err := s.MarshalTree(root, Options{Mode: ModeNameValue})
	require.NoError(t, err)
	// a child whose children are all hidden is written as a plain value
	assert.Equal(t, `{"root":"r","g":{"alias":{"alias":"x"},"card":"c1"}}`, string(data))

	back, err := s.UnmarshalTree(data, Options{Mode: ModeNameValue})
	require.NoError(t, err)
	children := back.Children()
	require.Len(t, children, 2)

	alias := children[0]
	assert.True(t, alias.IsLeaf())
	assert.Equal(t, "alias", alias.Node().Name())
	assert.Equal(t, property.TypeMap, alias.Node().Type())
	v, err := property.EncodeValue(alias.Node())
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"alias": "x"}, codec.Plain(v))

	card := children[1]
	assert.True(t, card.IsLeaf())
	assert.Equal(t, "c1", card.Node().Interface())
}

func TestNameValueTypeRoundTrip(t *testing.T) {
	s := NewSerializer(codec.JSON{})
	data, err := s.MarshalTree(sampleTree(), Options{Mode: ModeNameValueType})
	require.NoError(t, err)
	assert.JSONEq(t, `{
		"root": {"type":"string","value":"root-value"},
		"child-node": {
			"child-1": {"type":"decimal","value":123.45},
			"sample-map": {"type":"map","value":{"k1":"v1","k2":"v2","k3":"v3"},"keyType":"string","valueType":"string"}
		}
	}`, string(data))

	back, err := s.UnmarshalTree(data, Options{Mode: ModeNameValueType})
	require.NoError(t, err)
	children := back.Children()
	require.Len(t, children, 2)
	amount := children[0].Node().(*property.Numeric[decimal.Decimal])
	assert.Equal(t, "123.45", amount.Value().String())
	m := children[1].Node().(*property.Map[string, string])
	assert.Equal(t, property.TypeString, m.ValueType())
}

func TestHiddenVisibility(t *testing.T) {
	secret := property.Build("secret", "s3cr3t", property.TypeString).Attribute(property.AttributeHidden, "true").Build()
	root := property.NewCompositeGroup(property.NewString("user", "u1"), "fields",
		property.NewComposite(property.NewString("email", "u1@example.com")),
		property.NewComposite(secret),
	)
	s := NewSerializer(codec.JSON{})

	data, err := s.MarshalTree(root, Options{Mode: ModeNameValue})
	require.NoError(t, err)
	assert.Equal(t, `{"user":"u1","fields":{"email":"u1@example.com"}}`, string(data))

	data, err = s.MarshalTree(root, Options{Mode: ModeAll})
	require.NoError(t, err)
	assert.Equal(t, `{"user":"u1","fields":{"email":"u1@example.com","secret":"s3cr3t"}}`, string(data))
}

func TestValueMode(t *testing.T) {
	s := NewSerializer(codec.JSON{})
	data, err := s.MarshalTree(sampleTree(), Options{Mode: ModeValue})
	require.NoError(t, err)
	assert.Equal(t, `["root-value",123.45,{"k1":"v1","k2":"v2","k3":"v3"}]`, string(data))

	data, err = s.MarshalProperty(property.NewLong("n", 5), Options{Mode: ModeValue})
	require.NoError(t, err)
	assert.Equal(t, `5`, string(data))

	leaf, err := s.UnmarshalTree([]byte(`"x"`), Options{Mode: ModeValue})
	require.NoError(t, err)
	assert.True(t, leaf.IsLeaf())
	assert.Equal(t, "", leaf.Node().Name())
	assert.Equal(t, "x", leaf.Node().Interface())
}

func TestEmbedAndExtract(t *testing.T) {
	s := NewSerializer(codec.JSON{})

	wrapped := codec.NewDocument().Set("id", "1")
	require.NoError(t, s.Embed(wrapped, "compositeProperty", sampleTree(), Options{Mode: ModeMetaData}))
	assert.Equal(t, []string{"id", "compositeProperty"}, wrapped.Keys())
	tree, err := s.Extract(wrapped, "compositeProperty", Options{Mode: ModeMetaData})
	require.NoError(t, err)
	assert.Len(t, tree.Children(), 2)

	unwrapped := codec.NewDocument().Set("id", "1").Set("name", "emp")
	opts := Options{Mode: ModeMetaData, Unwrap: true}
	require.NoError(t, s.Embed(unwrapped, "compositeProperty", sampleTree(), opts))
	assert.Equal(t, []string{"id", "name", "node", "childNodeName", "children"}, unwrapped.Keys())
	tree, err = s.Extract(unwrapped, "compositeProperty", opts, "id", "name")
	require.NoError(t, err)
	assert.Equal(t, "root", tree.Node().Name())

	nameValue := codec.NewDocument().Set("id", "1")
	nvOpts := Options{Mode: ModeNameValue, Unwrap: true}
	require.NoError(t, s.Embed(nameValue, "tree", sampleTree(), nvOpts))
	tree, err = s.Extract(nameValue, "tree", nvOpts, "id")
	require.NoError(t, err)
	assert.Equal(t, "root", tree.Node().Name())

	empty, err := s.Extract(codec.NewDocument(), "compositeProperty", Options{Mode: ModeMetaData})
	require.NoError(t, err)
	assert.Nil(t, empty)
}

func TestSerializationErrors(t *testing.T) {
	s := NewSerializer(codec.JSON{})

	_, err := s.UnmarshalTree([]byte(`{"node":`), Options{Mode: ModeMetaData})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrRead)
	var serr *Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, Read, serr.Direction)
	assert.Equal(t, TargetTree, serr.Target)
	assert.Equal(t, ModeMetaData, serr.Mode)

	_, err = s.UnmarshalTree([]byte(`{"node":{"name":"x","type":"nope","value":1}}`), Options{Mode: ModeMetaData})
	require.Error(t, err)
	assert.ErrorIs(t, err, property.ErrTypeNotFound)
	assert.ErrorIs(t, err, ErrRead)

	_, err = s.UnmarshalProperty([]byte(`[1]`), Options{Mode: ModeMetaData})
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, TargetProperty, serr.Target)

	_, err = s.MarshalProperty(property.NewDouble("nan", nanValue()), Options{Mode: ModeNameValue})
	assert.ErrorIs(t, err, ErrWrite)
	assert.NotErrorIs(t, err, ErrRead)

	_, err = s.MarshalTree(nil, Options{})
	assert.ErrorIs(t, err, ErrWrite)
}

func nanValue() float64 {
	var zero float64
	return zero / zero
}

func TestConverters(t *testing.T) {
	s := NewSerializer(codec.YAML{})
	tc := NewTreeConverter(s, ModeMetaData)
	data, err := tc.WriteTree(sampleTree())
	require.NoError(t, err)
	back, err := tc.ReadTree(data)
	require.NoError(t, err)
	assert.Len(t, back.Children(), 2)

	pc := NewPropertyConverter(s, ModeNameValueType)
	data, err = pc.WriteProperty(property.NewBoolean("active", true))
	require.NoError(t, err)
	p, err := pc.ReadProperty(data)
	require.NoError(t, err)
	assert.Equal(t, property.NewBoolean("active", true), p)
}

func TestDecodedNumbersStayExact(t *testing.T) {
	s := NewSerializer(codec.JSON{})
	raw := []byte(`{"node":{"name":"n","type":"decimal","value":0.1000000000000000055511151231257827}}`)
	root, err := s.UnmarshalTree(raw, Options{Mode: ModeMetaData})
	require.NoError(t, err)
	d := root.Node().(*property.Numeric[decimal.Decimal])
	assert.Equal(t, "0.1000000000000000055511151231257827", d.Value().String())
}
