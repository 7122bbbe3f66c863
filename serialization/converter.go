package serialization

import "github.com/zero-day-ai/metaprop/property"

// TreeWriter renders a tree to bytes.
type TreeWriter interface {
	WriteTree(root *property.Composite) ([]byte, error)
}

// TreeReader parses bytes into a tree.
type TreeReader interface {
	ReadTree(data []byte) (*property.Composite, error)
}

// PropertyWriter renders a property to bytes.
type PropertyWriter interface {
	WriteProperty(p property.Property) ([]byte, error)
}

// PropertyReader parses bytes into a property.
type PropertyReader interface {
	ReadProperty(data []byte) (property.Property, error)
}

// TreeConverter binds a serializer to fixed options so storage adapters can register
// it against their own field mapping.
type TreeConverter struct {
	serializer *Serializer
	opts       Options
}

// NewTreeConverter creates a converter writing and reading trees in mode.
func NewTreeConverter(s *Serializer, mode Mode) *TreeConverter {
	return &TreeConverter{serializer: s, opts: Options{Mode: mode}}
}

// WriteTree renders root in the converter mode.
func (c *TreeConverter) WriteTree(root *property.Composite) ([]byte, error) {
	return c.serializer.MarshalTree(root, c.opts)
}

// ReadTree parses a tree written in the converter mode.
func (c *TreeConverter) ReadTree(data []byte) (*property.Composite, error) {
	return c.serializer.UnmarshalTree(data, c.opts)
}

// PropertyConverter is the standalone property counterpart of TreeConverter.
type PropertyConverter struct {
	serializer *Serializer
	opts       Options
}

// NewPropertyConverter creates a converter writing and reading properties in mode.
func NewPropertyConverter(s *Serializer, mode Mode) *PropertyConverter {
	return &PropertyConverter{serializer: s, opts: Options{Mode: mode}}
}

// WriteProperty renders p in the converter mode.
func (c *PropertyConverter) WriteProperty(p property.Property) ([]byte, error) {
	return c.serializer.MarshalProperty(p, c.opts)
}

// ReadProperty parses a property written in the converter mode.
func (c *PropertyConverter) ReadProperty(data []byte) (property.Property, error) {
	return c.serializer.UnmarshalProperty(data, c.opts)
}

var (
	_ TreeWriter     = (*TreeConverter)(nil)
	_ TreeReader     = (*TreeConverter)(nil)
	_ PropertyWriter = (*PropertyConverter)(nil)
	_ PropertyReader = (*PropertyConverter)(nil)
)
