package api

import (
	"errors"
	"fmt"

	"github.com/tidwall/gjson"
)

type (
	// Shape declares the structural contract for a value: its required and
	// optional fields and each field's kind. Shapes are pure data, compared
	// structurally, and never mutated after creation
	Shape map[Name]*Field

	// Field describes a single field of a Shape. Object fields carry a
	// nested Shape; array fields declare their element as Item
	Field struct {
		Item     *Field `json:"item,omitempty"`
		Fields   Shape  `json:"fields,omitempty"`
		Kind     Kind   `json:"kind"`
		Default  string `json:"default,omitempty"`
		Optional bool   `json:"optional,omitempty"`
	}

	// Kind identifies the primitive kind of a field value
	Kind string
)

const (
	KindString  Kind = "string"
	KindNumber  Kind = "number"
	KindBoolean Kind = "boolean"
	KindObject  Kind = "object"
	KindArray   Kind = "array"
)

var (
	ErrInvalidKind       = errors.New("invalid field kind")
	ErrFieldNameEmpty    = errors.New("field name empty")
	ErrFieldNil          = errors.New("field has nil definition")
	ErrObjectShapeEmpty  = errors.New("object field requires a nested shape")
	ErrArrayItemMissing  = errors.New("array field requires an item kind")
	ErrDefaultNotAllowed = errors.New(
		"default value requires an optional field",
	)
	ErrInvalidDefault = errors.New("invalid default value for kind")
)

var validKinds = map[Kind]struct{}{
	KindString:  {},
	KindNumber:  {},
	KindBoolean: {},
	KindObject:  {},
	KindArray:   {},
}

// Validate checks that the Shape is well-formed: every field names a valid
// kind, object fields nest a shape, array fields declare their element, and
// declared defaults are valid JSON of the declared kind
func (s Shape) Validate() error {
	for name, f := range s {
		if name == "" {
			return ErrFieldNameEmpty
		}
		if f == nil {
			return fmt.Errorf("%w: %q", ErrFieldNil, name)
		}
		if err := f.validate(name); err != nil {
			return err
		}
	}
	return nil
}

func (f *Field) validate(name Name) error {
	if _, ok := validKinds[f.Kind]; !ok {
		return fmt.Errorf("%w: %s for field %q", ErrInvalidKind, f.Kind, name)
	}

	if f.Default != "" {
		if !f.Optional {
			return fmt.Errorf("%w: %q", ErrDefaultNotAllowed, name)
		}
		if err := validateDefault(f.Default, f.Kind); err != nil {
			return fmt.Errorf("%w for field %q: %v",
				ErrInvalidDefault, name, err)
		}
	}

	switch f.Kind {
	case KindObject:
		if len(f.Fields) == 0 {
			return fmt.Errorf("%w: %q", ErrObjectShapeEmpty, name)
		}
		return f.Fields.Validate()
	case KindArray:
		if f.Item == nil {
			return fmt.Errorf("%w: %q", ErrArrayItemMissing, name)
		}
		return f.Item.validate(name)
	}
	return nil
}

func validateDefault(value string, kind Kind) error {
	if !gjson.Valid(value) {
		return errors.New("must be valid JSON")
	}

	result := gjson.Parse(value)

	switch kind {
	case KindString:
		if result.Type != gjson.String {
			return errors.New("must be a valid JSON string")
		}
	case KindNumber:
		if result.Type != gjson.Number {
			return errors.New("must be a valid number")
		}
	case KindBoolean:
		if result.Type != gjson.True && result.Type != gjson.False {
			return errors.New("must be \"true\" or \"false\"")
		}
	case KindObject:
		if !result.IsObject() {
			return errors.New("must be a valid JSON object")
		}
	case KindArray:
		if !result.IsArray() {
			return errors.New("must be a valid JSON array")
		}
	}
	return nil
}

// DefaultValue decodes the field's declared default into a Go value. Only
// meaningful when a Default is declared
func (f *Field) DefaultValue() any {
	if f.Default == "" {
		return nil
	}
	return gjson.Parse(f.Default).Value()
}

// Equal compares two Shapes structurally
func (s Shape) Equal(other Shape) bool {
	if len(s) != len(other) {
		return false
	}
	for name, f := range s {
		o, ok := other[name]
		if !ok || !f.Equal(o) {
			return false
		}
	}
	return true
}

// Equal compares two Fields structurally
func (f *Field) Equal(other *Field) bool {
	if f == nil && other == nil {
		return true
	}
	if f == nil || other == nil {
		return false
	}
	return f.Kind == other.Kind &&
		f.Optional == other.Optional &&
		f.Default == other.Default &&
		f.Item.Equal(other.Item) &&
		f.Fields.Equal(other.Fields)
}

// Required returns the names of the Shape's required fields
func (s Shape) Required() []Name {
	var names []Name
	for name, f := range s {
		if !f.Optional {
			names = append(names, name)
		}
	}
	return names
}
