package schema

import (
	"github.com/zero-day-ai/metaprop/property"
	"github.com/zero-day-ai/metaprop/validator"
)

// FromTree returns the schema of the NAME_VALUE document of root. Hidden children
// are left out, as they are when the tree is written.
func FromTree(root *property.Composite) JSON {
	s := node(root)
	s.Schema = Draft
	if p := root.Node(); p != nil {
		s.Title = p.Name()
	}
	return s
}

// FromProperty returns the schema of the value of p, constraints included.
func FromProperty(p property.Property) JSON {
	s, _ := fromProperty(p)
	return s
}

func node(n *property.Composite) JSON {
	s := Object(map[string]JSON{})
	p := n.Node()
	if p == nil {
		return s
	}
	ps, required := fromProperty(p)
	s.Properties[p.Name()] = ps
	if required {
		s.Required = append(s.Required, p.Name())
	}

	group := Object(map[string]JSON{})
	for _, c := range n.Children() {
		cp := c.Node()
		if cp == nil || property.IsHidden(cp) {
			continue
		}
		if !c.IsLeaf() {
			group.Properties[cp.Name()] = node(c)
			continue
		}
		cs, required := fromProperty(cp)
		group.Properties[cp.Name()] = cs
		if required {
			group.Required = append(group.Required, cp.Name())
		}
	}
	if len(group.Properties) > 0 {
		s.Properties[n.ChildNodeName()] = group
	}
	return s
}

// fromProperty reports whether p carries a required constraint next to its schema.
func fromProperty(p property.Property) (JSON, bool) {
	shape := property.ShapeOf(p)
	s := ofType(shape.Type)
	switch shape.Type {
	case property.TypeList:
		if shape.ElementType.IsValid() {
			items := ofType(shape.ElementType)
			s.Items = &items
		}
	case property.TypeMap:
		if shape.ValueType.IsValid() {
			values := ofType(shape.ValueType)
			s.AdditionalProperties = &values
		}
	}

	d, ok := describe(p)
	if !ok {
		return s, false
	}
	constrain(&s, shape.Type, d)
	return s, d.Required
}

func describe(p property.Property) (validator.Descriptor, bool) {
	dp, ok := p.(property.Descriptive)
	if !ok {
		return validator.Descriptor{}, false
	}
	ds := dp.Descriptors()
	if len(ds) == 0 {
		return validator.Descriptor{}, false
	}
	d := ds[0]
	for _, o := range ds[1:] {
		d = d.Merge(o)
	}
	return d, true
}

func ofType(t property.Type) JSON {
	switch t {
	case property.TypeString:
		return String()
	case property.TypeBoolean:
		return Bool()
	case property.TypeByte, property.TypeShort, property.TypeInteger, property.TypeLong, property.TypeBigInteger:
		return Int()
	case property.TypeFloat, property.TypeDouble, property.TypeDecimal:
		return Number()
	case property.TypeDate:
		return JSON{Type: "string", Format: "date"}
	case property.TypeTime:
		return JSON{Type: "string", Format: "time"}
	case property.TypeDateTime, property.TypeOffsetDateTime:
		return JSON{Type: "string", Format: "date-time"}
	case property.TypeList:
		return JSON{Type: "array"}
	case property.TypeMap:
		return JSON{Type: "object"}
	}
	return JSON{}
}

func constrain(s *JSON, t property.Type, d validator.Descriptor) {
	switch {
	case t == property.TypeString:
		s.MinLength, s.MaxLength = length(d.Min), length(d.Max)
	case t == property.TypeList:
		s.MinItems, s.MaxItems = length(d.Min), length(d.Max)
	case t == property.TypeMap:
		s.MinProperties, s.MaxProperties = length(d.Min), length(d.Max)
	case t.IsNumeric():
		if d.ExclusiveMin {
			s.ExclusiveMinimum = d.Min
		} else {
			s.Minimum = d.Min
		}
		if d.ExclusiveMax {
			s.ExclusiveMaximum = d.Max
		} else {
			s.Maximum = d.Max
		}
	}

	if d.Pattern != "" {
		s.Pattern = "^(?:" + d.Pattern + ")$"
	}
	if d.Email {
		s.Format = "email"
	}
	s.Enum = values(t, d.In)
	if notIn := values(t, d.NotIn); len(notIn) > 0 {
		s.Not = &JSON{Enum: notIn}
	}
	s.IntegerDigits, s.FractionDigits = d.IntegerDigits, d.FractionDigits
	s.Past, s.Future = d.Past, d.Future
}

// length truncates a size bound the way the size rules compare lengths.
func length(f *float64) *int {
	if f == nil {
		return nil
	}
	n := int(*f)
	return &n
}

// values renders enumerated values with the token of the property, so they compare
// equal to the document values the property is written as.
func values(t property.Type, in []any) []any {
	if len(in) == 0 {
		return nil
	}
	out := make([]any, len(in))
	for i, v := range in {
		out[i] = v
		if t.IsValid() {
			if e, err := t.Encode(v); err == nil {
				out[i] = e
			}
		}
	}
	return out
}
