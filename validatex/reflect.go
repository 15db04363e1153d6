package validatex

import (
	"errors"
	"reflect"
	"strings"
)

var (
	ErrNotStruct = errors.New("value must be a struct")
)

// fieldInfo stores information about a struct field
type fieldInfo struct {
	Name  string
	Value any
	Rules []ruleInfo
}

// ruleInfo stores information about a validation rule
type ruleInfo struct {
	Name  string
	Param string
}

// structFields returns the tagged fields of obj, keyed by name. Nested structs
// are flattened as Parent.Child.
func structFields(obj any) (map[string]fieldInfo, error) {
	val := reflect.ValueOf(obj)
	if val.Kind() == reflect.Ptr {
		if val.IsNil() {
			return nil, ErrNotStruct
		}
		val = val.Elem()
	}
	if val.Kind() != reflect.Struct {
		return nil, ErrNotStruct
	}

	typ := val.Type()
	fields := make(map[string]fieldInfo)

	for i := 0; i < typ.NumField(); i++ {
		field := typ.Field(i)
		if !field.IsExported() {
			continue
		}

		fieldValue := val.Field(i)
		tag := field.Tag.Get("validatex")
		if tag != "" && tag != "-" {
			fields[field.Name] = fieldInfo{
				Name:  field.Name,
				Value: fieldValue.Interface(),
				Rules: parseTag(tag),
			}
		}

		nested := fieldValue
		if nested.Kind() == reflect.Ptr && !nested.IsNil() {
			nested = nested.Elem()
		}
		if nested.Kind() != reflect.Struct || tag == "-" {
			continue
		}

		inner, err := structFields(nested.Interface())
		if err != nil {
			return nil, err
		}
		for k, v := range inner {
			fields[field.Name+"."+k] = v
		}
	}

	return fields, nil
}

// parseTag parses a validatex tag string into validation rules
func parseTag(tag string) []ruleInfo {
	parts := strings.Split(tag, ",")
	rules := make([]ruleInfo, 0, len(parts))

	for _, part := range parts {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, param, _ := strings.Cut(part, "=")
		rules = append(rules, ruleInfo{Name: name, Param: param})
	}

	return rules
}

// isZero checks if a value is the zero value for its type
func isZero(value any) bool {
	if value == nil {
		return true
	}

	val := reflect.ValueOf(value)
	switch val.Kind() {
	case reflect.Ptr, reflect.Interface:
		return val.IsNil()
	case reflect.Slice, reflect.Map, reflect.Array, reflect.String:
		return val.Len() == 0
	default:
		return val.IsZero()
	}
}

// dereferenceValue safely dereferences a pointer value and reports whether it was nil
func dereferenceValue(value any) (any, bool) {
	if value == nil {
		return nil, true
	}

	val := reflect.ValueOf(value)
	if val.Kind() != reflect.Ptr {
		return value, false
	}
	if val.IsNil() {
		return nil, true
	}
	return val.Elem().Interface(), false
}
