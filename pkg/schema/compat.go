package schema

import (
	"errors"
	"fmt"

	"github.com/griefbot/memeforge/pkg/api"
)

var (
	ErrMissingField     = errors.New("field not produced by prior step")
	ErrKindMismatch     = errors.New("field kind differs between steps")
	ErrMayBeAbsent      = errors.New("field is optional without a default")
	ErrItemIncompatible = errors.New("array item kind differs between steps")
)

// Satisfies reports whether a value conforming to out is guaranteed to
// conform to in: every required field of in must be one out always produces,
// with a compatible kind. This is a static check over the shapes themselves,
// performed once at pipeline construction time
func Satisfies(out, in api.Shape) error {
	return shapeSatisfies(out, in, "")
}

func shapeSatisfies(out, in api.Shape, prefix string) error {
	for name, want := range in {
		path := string(name)
		if prefix != "" {
			path = prefix + "." + path
		}
		have, ok := out[name]
		if !ok {
			if want.Optional {
				continue
			}
			return fmt.Errorf("%w: %q", ErrMissingField, path)
		}
		if err := fieldSatisfies(have, want, path); err != nil {
			return err
		}
		if !want.Optional && have.Optional && have.Default == "" {
			return fmt.Errorf("%w: %q", ErrMayBeAbsent, path)
		}
	}
	return nil
}

func fieldSatisfies(have, want *api.Field, path string) error {
	if have.Kind != want.Kind {
		return fmt.Errorf("%w: %q (%s vs %s)",
			ErrKindMismatch, path, have.Kind, want.Kind)
	}
	switch want.Kind {
	case api.KindObject:
		return shapeSatisfies(have.Fields, want.Fields, path)
	case api.KindArray:
		if err := fieldSatisfies(
			have.Item, want.Item, path+"[]",
		); err != nil {
			return fmt.Errorf("%w: %q", ErrItemIncompatible, path)
		}
	}
	return nil
}

// ApplyDefaults returns a copy of value with declared defaults filled in
// for absent optional fields. The input Args is never mutated
func ApplyDefaults(shape api.Shape, value api.Args) api.Args {
	res := value.Clone()
	for name, field := range shape {
		if _, ok := res[name]; ok {
			continue
		}
		if field.Optional && field.Default != "" {
			res[name] = field.DefaultValue()
		}
	}
	return res
}
