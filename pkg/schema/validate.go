package schema

import (
	"fmt"
	"strings"

	"github.com/griefbot/memeforge/pkg/api"
)

// Error reports the complete list of violations found when a value was
// validated against a shape
type Error struct {
	Violations []api.Violation
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(fmt.Sprintf("%d violation(s)", len(e.Violations)))
	for _, v := range e.Violations {
		b.WriteString("; ")
		b.WriteString(v.Path)
		b.WriteString(": ")
		b.WriteString(v.Problem)
		if v.Expected != "" {
			b.WriteString(fmt.Sprintf(" (expected %s, got %s)",
				v.Expected, v.Actual))
		}
	}
	return b.String()
}

// Validate checks value against shape, accumulating every violation. It
// returns nil only when zero violations were found; otherwise a *Error
// carrying the full list. Validate has no side effects
func Validate(shape api.Shape, value api.Args) error {
	violations := validateObject(shape, value, "")
	if len(violations) == 0 {
		return nil
	}
	return &Error{Violations: violations}
}

func validateObject(
	shape api.Shape, value api.Args, prefix string,
) []api.Violation {
	var res []api.Violation
	for name, field := range shape {
		path := joinPath(prefix, string(name))
		val, ok := value[name]
		if !ok || val == nil {
			if !field.Optional {
				res = append(res, api.Violation{
					Path:     path,
					Problem:  api.ProblemMissing,
					Expected: field.Kind,
				})
			}
			continue
		}
		res = append(res, validateValue(field, val, path)...)
	}
	return res
}

func validateValue(field *api.Field, val any, path string) []api.Violation {
	actual, ok := kindOf(val)
	if !ok || actual != field.Kind {
		return []api.Violation{{
			Path:     path,
			Problem:  api.ProblemMismatch,
			Expected: field.Kind,
			Actual:   describeValue(val),
		}}
	}

	switch field.Kind {
	case api.KindObject:
		return validateObject(field.Fields, asArgs(val), path)
	case api.KindArray:
		var res []api.Violation
		for i, item := range asList(val) {
			res = append(res, validateValue(
				field.Item, item, fmt.Sprintf("%s[%d]", path, i),
			)...)
		}
		return res
	}
	return nil
}

func kindOf(val any) (api.Kind, bool) {
	switch val.(type) {
	case string:
		return api.KindString, true
	case float64, float32, int, int32, int64:
		return api.KindNumber, true
	case bool:
		return api.KindBoolean, true
	case api.Args, map[api.Name]any, map[string]any:
		return api.KindObject, true
	case []any, []string, []api.Args:
		return api.KindArray, true
	default:
		return "", false
	}
}

func describeValue(val any) string {
	if kind, ok := kindOf(val); ok {
		return string(kind)
	}
	return fmt.Sprintf("%T", val)
}

func asArgs(val any) api.Args {
	switch v := val.(type) {
	case api.Args:
		return v
	case map[api.Name]any:
		return v
	case map[string]any:
		res := make(api.Args, len(v))
		for k, item := range v {
			res[api.Name(k)] = item
		}
		return res
	default:
		return nil
	}
}

func asList(val any) []any {
	switch v := val.(type) {
	case []any:
		return v
	case []string:
		res := make([]any, len(v))
		for i, s := range v {
			res[i] = s
		}
		return res
	case []api.Args:
		res := make([]any, len(v))
		for i, a := range v {
			res[i] = a
		}
		return res
	default:
		return nil
	}
}

func joinPath(prefix, name string) string {
	if prefix == "" {
		return name
	}
	return prefix + "." + name
}
