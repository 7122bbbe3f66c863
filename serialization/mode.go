package serialization

import (
	"fmt"
	"reflect"
	"strings"
)

// Mode selects the shape a tree or property takes on the wire.
type Mode uint8

const (
	// ModeNameValue renders {name: value} and nests children under their group label.
	// Hidden properties are left out. It is the zero value.
	ModeNameValue Mode = iota

	// ModeValue renders raw values only.
	ModeValue

	// ModeNameValueType is ModeNameValue with each value wrapped with its type token.
	ModeNameValueType

	// ModeMetaData renders every property with name, type, value and attributes. It is
	// lossless.
	ModeMetaData

	// ModeAll is ModeNameValue including hidden properties.
	ModeAll
)

var modeNames = [...]string{
	ModeNameValue:     "NAME_VALUE",
	ModeValue:         "VALUE",
	ModeNameValueType: "NAME_VALUE_TYPE",
	ModeMetaData:      "META_DATA",
	ModeAll:           "ALL",
}

// DefaultMode is used when nothing else is configured.
const DefaultMode = ModeNameValue

// Modes lists every mode.
func Modes() []Mode {
	return []Mode{ModeValue, ModeNameValue, ModeNameValueType, ModeMetaData, ModeAll}
}

func (m Mode) String() string {
	if int(m) < len(modeNames) {
		return modeNames[m]
	}
	return fmt.Sprintf("Mode(%d)", uint8(m))
}

// ParseMode parses a mode name such as "META_DATA". Case, dashes and spaces are
// ignored.
func ParseMode(s string) (Mode, error) {
	norm := strings.ToUpper(strings.NewReplacer("-", "_", " ", "_").Replace(strings.TrimSpace(s)))
	for m, name := range modeNames {
		if name == norm {
			return Mode(m), nil
		}
	}
	return 0, fmt.Errorf("serialization: unknown mode %q", s)
}

// MarshalText implements encoding.TextMarshaler.
func (m Mode) MarshalText() ([]byte, error) {
	if int(m) >= len(modeNames) {
		return nil, fmt.Errorf("serialization: invalid mode %d", uint8(m))
	}
	return []byte(m.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (m *Mode) UnmarshalText(text []byte) error {
	v, err := ParseMode(string(text))
	if err != nil {
		return err
	}
	*m = v
	return nil
}

// hidesHidden reports whether the mode leaves out hidden properties.
func (m Mode) hidesHidden() bool {
	return m == ModeNameValue || m == ModeNameValueType || m == ModeValue
}

// Options controls one serialization call. They travel down the recursion explicitly
// and are never stored on the tree.
type Options struct {
	Mode Mode

	// Unwrap merges an embedded tree into the enclosing document instead of nesting it
	// under its field name.
	Unwrap bool
}

// TagName is the struct tag key read by OptionsFromTag callers.
const TagName = "metaprop"

// OptionsFromTag parses a tag value such as "mode=META_DATA,unwrap".
func OptionsFromTag(tag string) (Options, error) {
	var opts Options
	for _, part := range strings.Split(tag, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		key, value, hasValue := strings.Cut(part, "=")
		switch strings.ToLower(strings.TrimSpace(key)) {
		case "mode":
			m, err := ParseMode(value)
			if err != nil {
				return Options{}, err
			}
			opts.Mode = m
		case "unwrap":
			opts.Unwrap = !hasValue || strings.EqualFold(strings.TrimSpace(value), "true")
		default:
			return Options{}, fmt.Errorf("serialization: unknown tag option %q", part)
		}
	}
	return opts, nil
}

// FieldOptions returns the options declared on the named field of a struct type.
func FieldOptions(structType reflect.Type, field string) (Options, error) {
	for structType.Kind() == reflect.Pointer {
		structType = structType.Elem()
	}
	if structType.Kind() != reflect.Struct {
		return Options{}, fmt.Errorf("serialization: %s is not a struct", structType)
	}
	f, ok := structType.FieldByName(field)
	if !ok {
		return Options{}, fmt.Errorf("serialization: %s has no field %s", structType, field)
	}
	return OptionsFromTag(f.Tag.Get(TagName))
}
