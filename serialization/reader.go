package serialization

import (
	"fmt"

	"github.com/zero-day-ai/metaprop/codec"
	"github.com/zero-day-ai/metaprop/property"
)

type reader struct {
	mode Mode
}

func (r reader) standalone(v any) (property.Property, error) {
	switch r.mode {
	case ModeValue:
		return property.Infer("", v)
	case ModeMetaData:
		doc, err := document(v, "property")
		if err != nil {
			return nil, err
		}
		return r.meta(doc)
	}
	doc, err := document(v, "property")
	if err != nil {
		return nil, err
	}
	if doc.Len() == 0 {
		return nil, fmt.Errorf("empty document")
	}
	name := doc.Keys()[0]
	value, _ := doc.Get(name)
	return r.named(name, value)
}

func (r reader) tree(v any) (*property.Composite, error) {
	switch r.mode {
	case ModeValue:
		p, err := property.Infer("", v)
		if err != nil {
			return nil, err
		}
		return property.NewComposite(p), nil
	case ModeMetaData:
		doc, err := document(v, "tree")
		if err != nil {
			return nil, err
		}
		return r.metaTree(doc)
	}
	doc, err := document(v, "tree")
	if err != nil {
		return nil, err
	}
	return r.namedTree(doc)
}

// namedTree reads the NAME_VALUE family: the first field is the node, the next field
// holding an object is the child group. Any further fields are ignored.
func (r reader) namedTree(doc *codec.Document) (*property.Composite, error) {
	keys := doc.Keys()
	if len(keys) == 0 {
		return nil, fmt.Errorf("empty document")
	}
	value, _ := doc.Get(keys[0])
	p, err := r.named(keys[0], value)
	if err != nil {
		return nil, err
	}
	node := property.NewComposite(p)
	if len(keys) < 2 {
		return node, nil
	}
	raw, _ := doc.Get(keys[1])
	group, ok := raw.(*codec.Document)
	if !ok {
		return node, nil
	}
	var children []*property.Composite
	var cerr error
	group.Range(func(name string, v any) bool {
		var child *property.Composite
		if nested, ok := r.nestedNode(name, v); ok {
			child, cerr = r.namedTree(nested)
		} else {
			var cp property.Property
			if cp, cerr = r.named(name, v); cerr == nil {
				child = property.NewComposite(cp)
			}
		}
		if cerr != nil {
			cerr = fmt.Errorf("child %q: %w", name, cerr)
			return false
		}
		children = append(children, child)
		return true
	})
	if cerr != nil {
		return nil, cerr
	}
	node.SetChildren(keys[1], children...)
	return node, nil
}

// nestedNode recognises a non-leaf child written as its own document: exactly two
// fields, the child name followed by a child group object. Anything else is a value.
func (r reader) nestedNode(name string, v any) (*codec.Document, bool) {
	doc, ok := v.(*codec.Document)
	if !ok || doc.Len() != 2 {
		return nil, false
	}
	keys := doc.Keys()
	if keys[0] != name {
		return nil, false
	}
	group, _ := doc.Get(keys[1])
	if _, ok := group.(*codec.Document); !ok {
		return nil, false
	}
	return doc, true
}

// named builds a property from a NAME_VALUE or NAME_VALUE_TYPE entry.
func (r reader) named(name string, v any) (property.Property, error) {
	if r.mode != ModeNameValueType {
		return property.Infer(name, v)
	}
	doc, err := document(v, "typed value")
	if err != nil {
		return nil, fmt.Errorf("property %q: %w", name, err)
	}
	shape, err := shapeOf(doc)
	if err != nil {
		return nil, fmt.Errorf("property %q: %w", name, err)
	}
	value, _ := doc.Get(FieldValue)
	return property.Make(name, shape, value, nil)
}

func (r reader) metaTree(doc *codec.Document) (*property.Composite, error) {
	raw, ok := doc.Get(FieldNode)
	if !ok {
		return nil, fmt.Errorf("missing %q", FieldNode)
	}
	nodeDoc, err := document(raw, FieldNode)
	if err != nil {
		return nil, err
	}
	p, err := r.meta(nodeDoc)
	if err != nil {
		return nil, err
	}
	node := property.NewComposite(p)

	var label string
	if raw, ok := doc.Get(FieldChildNodeName); ok && raw != nil {
		if label, ok = raw.(string); !ok {
			return nil, fmt.Errorf("%q must be a string, got %T", FieldChildNodeName, raw)
		}
	}
	raw, ok = doc.Get(FieldChildren)
	if !ok || raw == nil {
		node.SetChildren(label)
		return node, nil
	}
	list, ok := raw.([]any)
	if !ok {
		return nil, fmt.Errorf("%q must be an array, got %T", FieldChildren, raw)
	}
	children := make([]*property.Composite, 0, len(list))
	for i, item := range list {
		childDoc, err := document(item, FieldChildren)
		if err != nil {
			return nil, fmt.Errorf("child %d: %w", i, err)
		}
		child, err := r.metaTree(childDoc)
		if err != nil {
			return nil, fmt.Errorf("child %d: %w", i, err)
		}
		children = append(children, child)
	}
	node.SetChildren(label, children...)
	return node, nil
}

func (r reader) meta(doc *codec.Document) (property.Property, error) {
	rawName, _ := doc.Get(FieldName)
	name, ok := rawName.(string)
	if !ok {
		return nil, fmt.Errorf("%q must be a string, got %T", FieldName, rawName)
	}
	shape, err := shapeOf(doc)
	if err != nil {
		return nil, fmt.Errorf("property %q: %w", name, err)
	}
	var attrs map[string]string
	if raw, ok := doc.Get(FieldAttributes); ok && raw != nil {
		adoc, err := document(raw, FieldAttributes)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		attrs = make(map[string]string, adoc.Len())
		adoc.Range(func(k string, v any) bool {
			if s, ok := v.(string); ok {
				attrs[k] = s
			} else {
				attrs[k] = fmt.Sprint(v)
			}
			return true
		})
	}
	value, _ := doc.Get(FieldValue)
	return property.Make(name, shape, value, attrs)
}

func shapeOf(doc *codec.Document) (property.Shape, error) {
	var s property.Shape
	for field, dst := range map[string]*property.Type{
		FieldType:        &s.Type,
		FieldElementType: &s.ElementType,
		FieldKeyType:     &s.KeyType,
		FieldValueType:   &s.ValueType,
	} {
		raw, ok := doc.Get(field)
		if !ok || raw == nil {
			continue
		}
		name, ok := raw.(string)
		if !ok {
			return s, fmt.Errorf("%q must be a string, got %T", field, raw)
		}
		t, err := property.LookupType(name)
		if err != nil {
			return s, err
		}
		*dst = t
	}
	if !s.Type.IsValid() {
		return s, fmt.Errorf("missing %q", FieldType)
	}
	return s, nil
}

func document(v any, what string) (*codec.Document, error) {
	doc, ok := v.(*codec.Document)
	if !ok {
		return nil, fmt.Errorf("%s must be an object, got %T", what, v)
	}
	return doc, nil
}
