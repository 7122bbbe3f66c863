package codec

import (
	"encoding/json"
	"fmt"
	"sort"

	"google.golang.org/protobuf/proto"
	"google.golang.org/protobuf/types/known/structpb"
)

// Proto encodes documents as a binary google.protobuf.Value. Struct fields have no
// order on the wire, so parsed documents list their keys sorted, and every number
// travels as a double.
type Proto struct{}

// Name implements Codec.
func (Proto) Name() string { return "proto" }

// Parse implements Codec.
func (Proto) Parse(data []byte) (any, error) {
	var pv structpb.Value
	if err := proto.Unmarshal(data, &pv); err != nil {
		return nil, fmt.Errorf("codec: parse proto: %w", err)
	}
	return FromProto(&pv)
}

// Render implements Codec.
func (Proto) Render(v any) ([]byte, error) {
	pv, err := ToProto(v)
	if err != nil {
		return nil, err
	}
	b, err := proto.MarshalOptions{Deterministic: true}.Marshal(pv)
	if err != nil {
		return nil, fmt.Errorf("codec: render proto: %w", err)
	}
	return b, nil
}

// ToProto converts a document value into a structpb.Value.
func ToProto(v any) (*structpb.Value, error) {
	n, err := Normalize(v)
	if err != nil {
		return nil, err
	}
	switch x := n.(type) {
	case nil:
		return structpb.NewNullValue(), nil
	case bool:
		return structpb.NewBoolValue(x), nil
	case string:
		return structpb.NewStringValue(x), nil
	case json.Number:
		f, err := x.Float64()
		if err != nil {
			return nil, fmt.Errorf("codec: number %q: %w", x, err)
		}
		return structpb.NewNumberValue(f), nil
	case []any:
		values := make([]*structpb.Value, len(x))
		for i, e := range x {
			if values[i], err = ToProto(e); err != nil {
				return nil, err
			}
		}
		return structpb.NewListValue(&structpb.ListValue{Values: values}), nil
	case *Document:
		fields := make(map[string]*structpb.Value, x.Len())
		x.Range(func(k string, e any) bool {
			var pv *structpb.Value
			if pv, err = ToProto(e); err != nil {
				return false
			}
			fields[k] = pv
			return true
		})
		if err != nil {
			return nil, err
		}
		return structpb.NewStructValue(&structpb.Struct{Fields: fields}), nil
	}
	return nil, fmt.Errorf("codec: not a document value: %T", n)
}

// FromProto converts a structpb.Value into a document value.
func FromProto(pv *structpb.Value) (any, error) {
	switch k := pv.GetKind().(type) {
	case nil, *structpb.Value_NullValue:
		return nil, nil
	case *structpb.Value_BoolValue:
		return k.BoolValue, nil
	case *structpb.Value_StringValue:
		return k.StringValue, nil
	case *structpb.Value_NumberValue:
		return FloatNumber(k.NumberValue, 64)
	case *structpb.Value_ListValue:
		list := make([]any, 0, len(k.ListValue.GetValues()))
		for _, e := range k.ListValue.GetValues() {
			v, err := FromProto(e)
			if err != nil {
				return nil, err
			}
			list = append(list, v)
		}
		return list, nil
	case *structpb.Value_StructValue:
		fields := k.StructValue.GetFields()
		keys := make([]string, 0, len(fields))
		for key := range fields {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		doc := NewDocument()
		for _, key := range keys {
			v, err := FromProto(fields[key])
			if err != nil {
				return nil, err
			}
			doc.Set(key, v)
		}
		return doc, nil
	}
	return nil, fmt.Errorf("codec: unsupported protobuf value kind %T", pv.GetKind())
}
