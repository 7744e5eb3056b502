package model

import (
	"slices"

	"github.com/partite-ai/idlbind/ast"
)

// Enum is a closed set of named variants without data.
type Enum struct {
	name     string
	variants []string
}

func (e *Enum) Name() string       { return e.name }
func (e *Enum) Type() Type         { return EnumType{Name: e.name} }
func (e *Enum) Variants() []string { return e.variants }

func (e *Enum) HasVariant(name string) bool { return slices.Contains(e.variants, name) }

// ErrorEnum is an enum declared with [Error]; each variant is an error case
// carrying a message across the boundary.
type ErrorEnum struct {
	name     string
	variants []string
}

func (e *ErrorEnum) Name() string       { return e.name }
func (e *ErrorEnum) Type() Type         { return ErrorType{Name: e.name} }
func (e *ErrorEnum) Variants() []string { return e.variants }

func convertEnumVariants(def *ast.Enum) ([]string, error) {
	if len(def.Values) == 0 {
		return nil, invalid(def.Identifier, "enum %s must declare at least one variant", def.Identifier)
	}
	variants := make([]string, 0, len(def.Values))
	for _, v := range def.Values {
		if v == "" {
			return nil, invalid(def.Identifier, "empty variant name in enum %s", def.Identifier)
		}
		if slices.Contains(variants, v) {
			return nil, duplicate(v, "duplicate variant %q in enum %s", v, def.Identifier)
		}
		variants = append(variants, v)
	}
	return variants, nil
}

func convertEnum(def *ast.Enum) (*Enum, error) {
	variants, err := convertEnumVariants(def)
	if err != nil {
		return nil, err
	}
	return &Enum{name: def.Identifier, variants: variants}, nil
}

func convertErrorEnum(def *ast.Enum) (*ErrorEnum, error) {
	variants, err := convertEnumVariants(def)
	if err != nil {
		return nil, err
	}
	return &ErrorEnum{name: def.Identifier, variants: variants}, nil
}
