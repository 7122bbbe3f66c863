package store

import (
	"errors"
	"fmt"
	"reflect"
	"time"

	"github.com/google/uuid"

	"github.com/zero-day-ai/metaprop/codec"
	"github.com/zero-day-ai/metaprop/property"
	"github.com/zero-day-ai/metaprop/serialization"
	"github.com/zero-day-ai/metaprop/validator"
)

// Document field names of a MetaObject.
const (
	FieldID                = "id"
	FieldMetadataID        = "metadataId"
	FieldName              = "name"
	FieldDOB               = "dob"
	FieldCompositeProperty = "compositeProperty"
)

var ownFields = []string{FieldID, FieldMetadataID, FieldName, FieldDOB}

// MetaObject is a stored document holding a property tree.
type MetaObject struct {
	ID         uuid.UUID
	MetadataID string
	Name       string

	// DOB is a calendar date; the time of day is dropped when stored.
	DOB time.Time

	CompositeProperty *property.Composite `metaprop:"mode=META_DATA"`
}

// NewMetaObject creates an object with a random ID.
func NewMetaObject(metadataID, name string, dob time.Time, tree *property.Composite) *MetaObject {
	return &MetaObject{
		ID:                uuid.New(),
		MetadataID:        metadataID,
		Name:              name,
		DOB:               dob,
		CompositeProperty: tree,
	}
}

var (
	nameRules       = []validator.Validator[string]{validator.NotBlank[string]()}
	metadataIDRules = []validator.Validator[string]{validator.NotBlank[string](), validator.Max[string](128)}
)

// Validate checks the fixed fields and every property of the tree.
func (o *MetaObject) Validate() error {
	var errs []error
	if o.ID == uuid.Nil {
		errs = append(errs, fmt.Errorf("%s: must not be the nil UUID", FieldID))
	}
	if err := validator.Run(o.MetadataID, metadataIDRules); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", FieldMetadataID, err))
	}
	if err := validator.Run(o.Name, nameRules); err != nil {
		errs = append(errs, fmt.Errorf("%s: %w", FieldName, err))
	}
	if o.CompositeProperty != nil {
		if err := property.Validate(o.CompositeProperty); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", FieldCompositeProperty, err))
		}
	}
	return errors.Join(errs...)
}

// treeOptions reads the serialization options declared on the tree field.
var treeOptions = func() serialization.Options {
	opts, err := serialization.FieldOptions(reflect.TypeFor[MetaObject](), "CompositeProperty")
	if err != nil {
		panic(err)
	}
	return opts
}()

// Encoder turns objects into bytes and back with a codec.
type Encoder struct {
	serializer *serialization.Serializer
}

// NewEncoder creates an encoder using c. A nil codec selects JSON.
func NewEncoder(c codec.Codec) *Encoder {
	return &Encoder{serializer: serialization.NewSerializer(c)}
}

// Codec returns the codec of e.
func (e *Encoder) Codec() codec.Codec { return e.serializer.Codec() }

// Document renders o as a document.
func (e *Encoder) Document(o *MetaObject) (*codec.Document, error) {
	doc := codec.NewDocument().
		Set(FieldID, o.ID.String()).
		Set(FieldMetadataID, o.MetadataID).
		Set(FieldName, o.Name)
	if o.DOB.IsZero() {
		doc.Set(FieldDOB, nil)
	} else {
		doc.Set(FieldDOB, o.DOB.Format(property.LayoutDate))
	}
	if err := e.serializer.Embed(doc, FieldCompositeProperty, o.CompositeProperty, treeOptions); err != nil {
		return nil, err
	}
	return doc, nil
}

// Object reads an object from a document written by Document. A missing id leaves the
// ID at uuid.Nil.
func (e *Encoder) Object(doc *codec.Document) (*MetaObject, error) {
	o := &MetaObject{}

	id, err := stringField(doc, FieldID)
	if err != nil {
		return nil, err
	}
	if id != "" {
		if o.ID, err = uuid.Parse(id); err != nil {
			return nil, fmt.Errorf("%s: %w", FieldID, err)
		}
	}
	if o.MetadataID, err = stringField(doc, FieldMetadataID); err != nil {
		return nil, err
	}
	if o.Name, err = stringField(doc, FieldName); err != nil {
		return nil, err
	}

	dob, err := stringField(doc, FieldDOB)
	if err != nil {
		return nil, err
	}
	if dob != "" {
		if o.DOB, err = time.ParseInLocation(property.LayoutDate, dob, time.Local); err != nil {
			return nil, fmt.Errorf("%s: %w", FieldDOB, err)
		}
	}

	if o.CompositeProperty, err = e.serializer.Extract(doc, FieldCompositeProperty, treeOptions, ownFields...); err != nil {
		return nil, err
	}
	return o, nil
}

// Marshal renders o to bytes.
func (e *Encoder) Marshal(o *MetaObject) ([]byte, error) {
	doc, err := e.Document(o)
	if err != nil {
		return nil, err
	}
	return e.serializer.Codec().Render(doc)
}

// Unmarshal parses bytes written by Marshal.
func (e *Encoder) Unmarshal(data []byte) (*MetaObject, error) {
	v, err := e.serializer.Codec().Parse(data)
	if err != nil {
		return nil, err
	}
	doc, ok := v.(*codec.Document)
	if !ok {
		return nil, fmt.Errorf("object must be a document, got %T", v)
	}
	return e.Object(doc)
}

// stringField returns "" for absent and null fields.
func stringField(doc *codec.Document, key string) (string, error) {
	v, ok := doc.Get(key)
	if !ok || v == nil {
		return "", nil
	}
	s, ok := v.(string)
	if !ok {
		return "", fmt.Errorf("%s: expected string, got %T", key, v)
	}
	return s, nil
}
