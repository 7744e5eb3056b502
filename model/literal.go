package model

import (
	"strconv"

	"github.com/partite-ai/idlbind/ast"
)

// LiteralKind classifies a default value.
type LiteralKind int

const (
	LiteralBoolean LiteralKind = iota
	LiteralString
	LiteralUInt
	LiteralInt
	LiteralFloat
	LiteralEnum
	LiteralNull
	LiteralEmptySequence
	LiteralEmptyMap
)

// Literal is a default value checked against the type it initializes. Value
// holds the normalized source text: the digits of numbers, the contents of
// strings, or the variant name of enum literals.
type Literal struct {
	Kind  LiteralKind
	Value string
	Type  Type
}

// convertLiteral checks the shape of lit against t. Enum variants are checked once
// every definition is known, see ComponentInterface.checkConsistency.
func convertLiteral(lit *ast.Literal, t Type) (*Literal, error) {
	if lit == nil {
		return nil, nil
	}
	mismatch := func() error {
		return invalid(lit.Value, "default value %q is not a valid %s", lit.Value, t)
	}

	if opt, ok := t.(OptionalType); ok {
		if lit.Kind == ast.LiteralNull {
			return &Literal{Kind: LiteralNull, Type: t}, nil
		}
		inner, err := convertLiteral(lit, opt.Inner)
		if err != nil {
			return nil, err
		}
		return inner, nil
	}

	switch lit.Kind {
	case ast.LiteralBoolean:
		if t != Bool {
			return nil, mismatch()
		}
		return &Literal{Kind: LiteralBoolean, Value: lit.Value, Type: t}, nil
	case ast.LiteralString:
		if t != String {
			return nil, mismatch()
		}
		return &Literal{Kind: LiteralString, Value: lit.Value, Type: t}, nil
	case ast.LiteralInteger:
		p, ok := t.(Primitive)
		if !ok {
			return nil, mismatch()
		}
		switch {
		case p.IsInteger() && p.IsSigned():
			v, err := strconv.ParseInt(lit.Value, 0, p.BitSize())
			if err != nil {
				return nil, mismatch()
			}
			return &Literal{Kind: LiteralInt, Value: strconv.FormatInt(v, 10), Type: t}, nil
		case p.IsInteger():
			v, err := strconv.ParseUint(lit.Value, 0, p.BitSize())
			if err != nil {
				return nil, mismatch()
			}
			return &Literal{Kind: LiteralUInt, Value: strconv.FormatUint(v, 10), Type: t}, nil
		case p.IsFloat():
			if _, err := strconv.ParseFloat(lit.Value, p.BitSize()); err != nil {
				return nil, mismatch()
			}
			return &Literal{Kind: LiteralFloat, Value: lit.Value, Type: t}, nil
		}
		return nil, mismatch()
	case ast.LiteralFloat:
		p, ok := t.(Primitive)
		if !ok || !p.IsFloat() {
			return nil, mismatch()
		}
		if _, err := strconv.ParseFloat(lit.Value, p.BitSize()); err != nil {
			return nil, mismatch()
		}
		return &Literal{Kind: LiteralFloat, Value: lit.Value, Type: t}, nil
	case ast.LiteralIdentifier:
		if _, ok := t.(EnumType); !ok {
			return nil, mismatch()
		}
		return &Literal{Kind: LiteralEnum, Value: lit.Value, Type: t}, nil
	case ast.LiteralEmptySequence:
		if _, ok := t.(SequenceType); !ok {
			return nil, mismatch()
		}
		return &Literal{Kind: LiteralEmptySequence, Type: t}, nil
	case ast.LiteralEmptyMap:
		if _, ok := t.(MapType); !ok {
			return nil, mismatch()
		}
		return &Literal{Kind: LiteralEmptyMap, Type: t}, nil
	case ast.LiteralNull:
		return nil, mismatch()
	default:
		return nil, invalid(lit.Value, "unknown literal kind %d", lit.Kind)
	}
}
