// Package metaprop models runtime-typed, validatable properties arranged in trees and
// renders those trees into several document shapes.
//
// The library is organised in layers:
//
//   - validator: typed validation rules, descriptors and aggregated, localisable errors
//   - codec: an ordered document model with JSON, YAML and protobuf Struct codecs
//   - property: type tokens, typed properties with attributes, composite trees and
//     path lookup
//   - serialization: the NAME_VALUE, VALUE, NAME_VALUE_TYPE, META_DATA and ALL document
//     shapes, selected per call
//   - schema: JSON Schema export of a tree and document validation
//   - store: MetaObject documents persisted in Redis, etcd or bbolt
//   - health: reachability checks of the store backends
//   - config: YAML configuration of the command line tool
//
// # Getting Started
//
// Build a tree and render it:
//
//	root := property.NewCompositeGroup(property.NewString("root", "root-value"), "child-node",
//		property.NewComposite(property.NewDecimal("child-1", decimal.RequireFromString("123.45"))),
//	)
//
//	s := serialization.NewSerializer(codec.JSON{})
//	data, err := s.MarshalTree(root, serialization.Options{Mode: serialization.ModeNameValue})
//	// {"root":"root-value","child-node":{"child-1":123.45}}
//
// Writing the same tree with ModeMetaData keeps types and attributes, so it can be read
// back unchanged.
//
// # Errors
//
// Store and command line failures are reported as *Error values carrying the failed
// operation and a kind:
//
//	obj, err := st.Get(ctx, id)
//	if errors.Is(err, metaprop.ErrNotFound) {
//		// ...
//	}
package metaprop
