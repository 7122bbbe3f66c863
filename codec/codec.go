package codec

import (
	"errors"
	"fmt"
	"strings"
)

// Codec parses bytes into a document value and renders a document value into bytes.
type Codec interface {
	Name() string
	Parse(data []byte) (any, error)
	Render(v any) ([]byte, error)
}

// ErrUnknownCodec is returned by ByName for unregistered names.
var ErrUnknownCodec = errors.New("codec: unknown codec")

// ByName returns the codec registered under name: "json", "yaml" or "proto".
func ByName(name string) (Codec, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "json", "":
		return JSON{}, nil
	case "yaml", "yml":
		return YAML{}, nil
	case "proto", "protobuf":
		return Proto{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownCodec, name)
}
