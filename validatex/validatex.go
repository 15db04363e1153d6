// Package validatex validates structs from `validatex` field tags.
//
//	type Options struct {
//		APIKey string `validatex:"required"`
//		Engine int    `validatex:"oneof=0 1 2 3"`
//	}
//
//	if err := validatex.Validate(opts); err != nil {
//		var verrs validatex.Errors
//		errors.As(err, &verrs)
//	}
//
// Rules are comma separated; parameters follow "=". Rules other than "required" skip
// zero values, so optional fields only need their format rule.
package validatex

import (
	"fmt"
	"sort"
	"strings"
)

// Validatable lets a type add checks that tags cannot express
type Validatable interface {
	Validate() error
}

// FieldError describes a single failed rule
type FieldError struct {
	Field string
	Rule  string
	Param string
	Value any
}

func (e FieldError) Error() string {
	if e.Param != "" {
		return fmt.Sprintf("%s failed %s=%s", e.Field, e.Rule, e.Param)
	}
	return fmt.Sprintf("%s failed %s", e.Field, e.Rule)
}

// Errors is the list of rule failures for one struct, ordered by field name
type Errors []FieldError

func (e Errors) Error() string {
	parts := make([]string, 0, len(e))
	for _, fe := range e {
		parts = append(parts, fe.Error())
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Fields returns the names of the fields that failed
func (e Errors) Fields() []string {
	out := make([]string, 0, len(e))
	for _, fe := range e {
		out = append(out, fe.Field)
	}
	return out
}

// Has reports whether the named field failed any rule
func (e Errors) Has(field string) bool {
	for _, fe := range e {
		if fe.Field == field {
			return true
		}
	}
	return false
}

// Validate checks obj's tagged fields. It returns Errors when a rule fails,
// the result of obj.Validate for Validatable values, or a setup error for
// non-struct input and unknown rules.
func Validate(obj any) error {
	fields, err := structFields(obj)
	if err != nil {
		return err
	}

	names := make([]string, 0, len(fields))
	for name := range fields {
		names = append(names, name)
	}
	sort.Strings(names)

	var errs Errors
	for _, name := range names {
		field := fields[name]
		val, isNil := dereferenceValue(field.Value)

		for _, rule := range field.Rules {
			fn, ok := getValidationFunc(rule.Name)
			if !ok {
				return fmt.Errorf("validatex: unknown rule %q on field %s", rule.Name, name)
			}
			if rule.Name != "required" && (isNil || isZero(val)) {
				continue
			}
			if !fn(val, rule.Param) {
				errs = append(errs, FieldError{Field: name, Rule: rule.Name, Param: rule.Param, Value: val})
			}
		}
	}

	if len(errs) > 0 {
		return errs
	}

	if v, ok := obj.(Validatable); ok {
		return v.Validate()
	}
	return nil
}
