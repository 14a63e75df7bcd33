package api

import "maps"

type (
	// Args represents a map of named values passed between pipeline steps
	Args map[Name]any

	// Name is a string identifier for steps, fields, and arguments
	Name string
)

// Set creates a new Args with the specified name-value pair added
func (a Args) Set(name Name, value any) Args {
	if a == nil {
		return Args{name: value}
	}
	res := maps.Clone(a)
	res[name] = value
	return res
}

// Clone returns a shallow copy of the Args
func (a Args) Clone() Args {
	if a == nil {
		return Args{}
	}
	return maps.Clone(a)
}

// GetString retrieves a string value from args, returning defaultValue if
// not found or wrong type
func (a Args) GetString(name Name, defaultValue string) string {
	val, ok := a[name]
	if !ok {
		return defaultValue
	}
	str, ok := val.(string)
	if !ok {
		return defaultValue
	}
	return str
}

// GetBool retrieves a boolean value from args, returning defaultValue if not
// found or wrong type
func (a Args) GetBool(name Name, defaultValue bool) bool {
	val, ok := a[name]
	if !ok {
		return defaultValue
	}
	b, ok := val.(bool)
	if !ok {
		return defaultValue
	}
	return b
}

// GetInt retrieves an integer value from args, returning defaultValue if not
// found or wrong type. Supports both int and float64 (converting from JSON
// numbers)
func (a Args) GetInt(name Name, defaultValue int) int {
	val, ok := a[name]
	if !ok {
		return defaultValue
	}
	if i, ok := val.(int); ok {
		return i
	}
	if f, ok := val.(float64); ok {
		return int(f)
	}
	return defaultValue
}

// GetStrings retrieves a string slice from args. JSON-decoded arrays arrive
// as []any, so both representations are accepted. Returns nil if the value
// is absent or not a list of strings
func (a Args) GetStrings(name Name) []string {
	val, ok := a[name]
	if !ok {
		return nil
	}
	switch v := val.(type) {
	case []string:
		return v
	case []any:
		res := make([]string, 0, len(v))
		for _, item := range v {
			str, ok := item.(string)
			if !ok {
				return nil
			}
			res = append(res, str)
		}
		return res
	default:
		return nil
	}
}

// GetObject retrieves a nested object from args. Returns nil if the value
// is absent or not an object
func (a Args) GetObject(name Name) Args {
	val, ok := a[name]
	if !ok {
		return nil
	}
	switch v := val.(type) {
	case Args:
		return v
	case map[Name]any:
		return v
	case map[string]any:
		res := make(Args, len(v))
		for k, item := range v {
			res[Name(k)] = item
		}
		return res
	default:
		return nil
	}
}

// GetList retrieves a list of objects from args. Returns nil if the value
// is absent or any element is not an object
func (a Args) GetList(name Name) []Args {
	val, ok := a[name]
	if !ok {
		return nil
	}
	items, ok := val.([]any)
	if !ok {
		if list, ok := val.([]Args); ok {
			return list
		}
		return nil
	}
	res := make([]Args, 0, len(items))
	for _, item := range items {
		obj := Args(nil)
		switch v := item.(type) {
		case Args:
			obj = v
		case map[string]any:
			obj = make(Args, len(v))
			for k, e := range v {
				obj[Name(k)] = e
			}
		default:
			return nil
		}
		res = append(res, obj)
	}
	return res
}
