// Package store persists MetaObject documents.
//
// A MetaObject pairs a few fixed fields with a property tree. The tree is embedded in
// the document in META_DATA mode, so it round-trips with its types and attributes:
//
//	{
//	  "id": "0b7c...",
//	  "metadataId": "employee",
//	  "name": "Ada",
//	  "dob": "1990-04-01",
//	  "compositeProperty": {"node": {...}, "childNodeName": "children", "children": [...]}
//	}
//
// Documents are rendered to bytes by a codec and kept by a Backend. Three backends are
// provided: Redis, etcd and bbolt. Cached puts an LRU read cache in front of any of them.
//
//	backend, err := store.NewBolt(store.BoltOptions{Path: "metaprop.db"})
//	st := store.New(backend, store.WithLogger(logger))
//	defer st.Close()
//
//	err = st.Put(ctx, obj)
//	obj, err = st.Get(ctx, obj.ID)
//
// Store operations are traced and counted with OpenTelemetry when a tracer or meter
// provider is supplied. All methods are safe for concurrent use.
package store
