// Package serialization renders property trees into document shapes selected per call by
// a Mode, and reads them back.
//
// The same tree can be written as META_DATA for a document store and as NAME_VALUE for
// an API response without being changed; the mode and the unwrap flag are passed to each
// call in Options. The codec turning documents into bytes is injected into the
// Serializer.
//
// META_DATA and NAME_VALUE_TYPE round-trip losslessly. NAME_VALUE and ALL do not carry
// types or attributes: on read, types are inferred from the document values (integral
// numbers become long, other numbers double) and attributes are lost. VALUE reads yield
// an unnamed leaf.
package serialization

import (
	"errors"
	"fmt"
	"maps"
	"slices"

	"github.com/zero-day-ai/metaprop/codec"
	"github.com/zero-day-ai/metaprop/property"
)

// Field names of the META_DATA and NAME_VALUE_TYPE shapes.
const (
	FieldName          = "name"
	FieldType          = "type"
	FieldValue         = "value"
	FieldElementType   = "elementType"
	FieldKeyType       = "keyType"
	FieldValueType     = "valueType"
	FieldAttributes    = "attributes"
	FieldNode          = "node"
	FieldChildNodeName = "childNodeName"
	FieldChildren      = "children"
)

// Serializer encodes and decodes trees and properties.
type Serializer struct {
	codec codec.Codec
}

// NewSerializer creates a serializer rendering bytes with c. A nil codec selects JSON.
func NewSerializer(c codec.Codec) *Serializer {
	if c == nil {
		c = codec.JSON{}
	}
	return &Serializer{codec: c}
}

// Codec returns the codec used for bytes.
func (s *Serializer) Codec() codec.Codec { return s.codec }

// MarshalTree renders root to bytes.
func (s *Serializer) MarshalTree(root *property.Composite, opts Options) ([]byte, error) {
	doc, err := s.EncodeTree(root, opts)
	if err != nil {
		return nil, err
	}
	b, err := s.codec.Render(doc)
	if err != nil {
		return nil, writeError(TargetTree, opts.Mode, err)
	}
	return b, nil
}

// UnmarshalTree parses bytes into a tree.
func (s *Serializer) UnmarshalTree(data []byte, opts Options) (*property.Composite, error) {
	doc, err := s.codec.Parse(data)
	if err != nil {
		return nil, readError(TargetTree, opts.Mode, err)
	}
	return s.DecodeTree(doc, opts)
}

// MarshalProperty renders p to bytes.
func (s *Serializer) MarshalProperty(p property.Property, opts Options) ([]byte, error) {
	doc, err := s.EncodeProperty(p, opts)
	if err != nil {
		return nil, err
	}
	b, err := s.codec.Render(doc)
	if err != nil {
		return nil, writeError(TargetProperty, opts.Mode, err)
	}
	return b, nil
}

// UnmarshalProperty parses bytes into a property.
func (s *Serializer) UnmarshalProperty(data []byte, opts Options) (property.Property, error) {
	doc, err := s.codec.Parse(data)
	if err != nil {
		return nil, readError(TargetProperty, opts.Mode, err)
	}
	return s.DecodeProperty(doc, opts)
}

// EncodeTree renders root as a document value. Every mode but VALUE yields a
// *codec.Document.
func (s *Serializer) EncodeTree(root *property.Composite, opts Options) (any, error) {
	if root == nil || root.Node() == nil {
		return nil, writeError(TargetTree, opts.Mode, errors.New("nil tree"))
	}
	w := writer{mode: opts.Mode, seen: make(map[*property.Composite]struct{})}
	v, err := w.tree(root)
	if err != nil {
		return nil, writeError(TargetTree, opts.Mode, err)
	}
	return v, nil
}

// DecodeTree rebuilds a tree from a document value.
func (s *Serializer) DecodeTree(doc any, opts Options) (*property.Composite, error) {
	r := reader{mode: opts.Mode}
	root, err := r.tree(doc)
	if err != nil {
		return nil, readError(TargetTree, opts.Mode, err)
	}
	return root, nil
}

// EncodeProperty renders a standalone property as a document value.
func (s *Serializer) EncodeProperty(p property.Property, opts Options) (any, error) {
	if p == nil {
		return nil, writeError(TargetProperty, opts.Mode, errors.New("nil property"))
	}
	w := writer{mode: opts.Mode}
	var (
		v   any
		err error
	)
	switch opts.Mode {
	case ModeValue:
		v, err = property.EncodeValue(p)
	case ModeMetaData:
		v, err = w.meta(p)
	default:
		var value any
		if value, err = w.value(p); err == nil {
			v = codec.NewDocument().Set(p.Name(), value)
		}
	}
	if err != nil {
		return nil, writeError(TargetProperty, opts.Mode, err)
	}
	return v, nil
}

// DecodeProperty rebuilds a standalone property from a document value.
func (s *Serializer) DecodeProperty(doc any, opts Options) (property.Property, error) {
	r := reader{mode: opts.Mode}
	p, err := r.standalone(doc)
	if err != nil {
		return nil, readError(TargetProperty, opts.Mode, err)
	}
	return p, nil
}

// Embed writes root into doc under field, or merges its fields into doc when
// opts.Unwrap is set. VALUE output is never merged.
func (s *Serializer) Embed(doc *codec.Document, field string, root *property.Composite, opts Options) error {
	if root == nil {
		return nil
	}
	v, err := s.EncodeTree(root, opts)
	if err != nil {
		return err
	}
	if fields, ok := v.(*codec.Document); ok && opts.Unwrap {
		doc.Merge(fields)
		return nil
	}
	doc.Set(field, v)
	return nil
}

// Extract reads a tree written by Embed. With opts.Unwrap the tree fields are read from
// doc itself after dropping the keys listed in own; otherwise from doc[field]. It returns
// nil when no tree is present.
func (s *Serializer) Extract(doc *codec.Document, field string, opts Options, own ...string) (*property.Composite, error) {
	if opts.Unwrap && opts.Mode != ModeValue {
		fields := codec.NewDocument()
		doc.Range(func(k string, v any) bool {
			if !slices.Contains(own, k) {
				fields.Set(k, v)
			}
			return true
		})
		if fields.Len() == 0 {
			return nil, nil
		}
		return s.DecodeTree(fields, opts)
	}
	v, ok := doc.Get(field)
	if !ok || v == nil {
		return nil, nil
	}
	return s.DecodeTree(v, opts)
}

type writer struct {
	mode Mode
	seen map[*property.Composite]struct{}
}

func (w writer) tree(n *property.Composite) (any, error) {
	if _, ok := w.seen[n]; ok {
		return nil, fmt.Errorf("cycle at property %q", n.Node().Name())
	}
	w.seen[n] = struct{}{}
	defer delete(w.seen, n)

	p := n.Node()
	if p == nil {
		return nil, errors.New("tree node without property")
	}
	children := w.visible(n.Children())

	switch w.mode {
	case ModeValue:
		v, err := property.EncodeValue(p)
		if err != nil || len(children) == 0 {
			return v, err
		}
		list := []any{v}
		for _, c := range children {
			cv, err := w.tree(c)
			if err != nil {
				return nil, err
			}
			list = append(list, cv)
		}
		return list, nil

	case ModeMetaData:
		node, err := w.meta(p)
		if err != nil {
			return nil, err
		}
		doc := codec.NewDocument().Set(FieldNode, node)
		if n.ChildNodeName() != "" {
			doc.Set(FieldChildNodeName, n.ChildNodeName())
		}
		if len(children) > 0 {
			list := make([]any, 0, len(children))
			for _, c := range children {
				cv, err := w.tree(c)
				if err != nil {
					return nil, err
				}
				list = append(list, cv)
			}
			doc.Set(FieldChildren, list)
		}
		return doc, nil
	}

	value, err := w.value(p)
	if err != nil {
		return nil, err
	}
	doc := codec.NewDocument().Set(p.Name(), value)
	if len(children) > 0 {
		group := codec.NewDocument()
		for _, c := range children {
			var cv any
			if len(w.visible(c.Children())) == 0 {
				cv, err = w.value(c.Node())
			} else {
				cv, err = w.tree(c)
			}
			if err != nil {
				return nil, err
			}
			group.Set(c.Node().Name(), cv)
		}
		doc.Set(n.ChildNodeName(), group)
	}
	return doc, nil
}

func (w writer) visible(children []*property.Composite) []*property.Composite {
	out := children[:0:0]
	for _, c := range children {
		if c == nil || c.Node() == nil {
			continue
		}
		if w.mode.hidesHidden() && property.IsHidden(c.Node()) {
			continue
		}
		out = append(out, c)
	}
	return out
}

// value renders the value of p for the NAME_VALUE family.
func (w writer) value(p property.Property) (any, error) {
	v, err := property.EncodeValue(p)
	if err != nil {
		return nil, err
	}
	if w.mode != ModeNameValueType {
		return v, nil
	}
	doc := codec.NewDocument().Set(FieldType, p.Type().String()).Set(FieldValue, v)
	setTokens(doc, property.ShapeOf(p))
	return doc, nil
}

func (w writer) meta(p property.Property) (*codec.Document, error) {
	v, err := property.EncodeValue(p)
	if err != nil {
		return nil, err
	}
	doc := codec.NewDocument().
		Set(FieldName, p.Name()).
		Set(FieldType, p.Type().String()).
		Set(FieldValue, v)
	setTokens(doc, property.ShapeOf(p))
	if a, ok := p.(property.AttributeSupport); ok && a.Attributes() != nil {
		attrs := codec.NewDocument()
		for _, k := range slices.Sorted(maps.Keys(a.Attributes())) {
			attrs.Set(k, a.Attributes()[k])
		}
		doc.Set(FieldAttributes, attrs)
	}
	return doc, nil
}

func setTokens(doc *codec.Document, s property.Shape) {
	if s.ElementType.IsValid() {
		doc.Set(FieldElementType, s.ElementType.String())
	}
	if s.KeyType.IsValid() {
		doc.Set(FieldKeyType, s.KeyType.String())
	}
	if s.ValueType.IsValid() {
		doc.Set(FieldValueType, s.ValueType.String())
	}
}
