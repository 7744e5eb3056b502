package model

import (
	"slices"
	"strings"

	"github.com/partite-ai/idlbind/ast"
)

const voidTypeName = "void"

// typeUniverse maps type names to semantic types and records every type that
// appears anywhere in the interface.
type typeUniverse struct {
	typeDefinitions map[string]Type
	allKnownTypes   map[Type]struct{}
}

func newTypeUniverse() *typeUniverse {
	return &typeUniverse{
		typeDefinitions: make(map[string]Type),
		allKnownTypes:   make(map[Type]struct{}),
	}
}

// addTypeDefinition binds a user-defined name. Names share one namespace across
// records, enums, errors, objects, delegates and callback interfaces.
func (u *typeUniverse) addTypeDefinition(name string, t Type) error {
	if _, ok := builtinTypes[name]; ok || name == voidTypeName {
		return newError(ErrReservedName, name, "%q is a builtin type name", name)
	}
	if existing, ok := u.typeDefinitions[name]; ok {
		return duplicate(name, "conflicting type definition for %q: already declared as %s", name, describeType(existing))
	}
	u.typeDefinitions[name] = t
	u.addKnownType(t)
	return nil
}

func (u *typeUniverse) getTypeDefinition(name string) (Type, bool) {
	t, ok := u.typeDefinitions[name]
	return t, ok
}

// resolveTypeExpression converts a syntactic type into a semantic Type. Every
// resolved type, including nested ones, is added to the known types.
func (u *typeUniverse) resolveTypeExpression(expr ast.TypeExpr) (Type, error) {
	t, err := u.resolve(expr)
	if err != nil {
		return nil, err
	}
	u.addKnownType(t)
	return t, nil
}

// resolveReturnType is resolveTypeExpression but maps void (or a missing return
// type) to nil.
func (u *typeUniverse) resolveReturnType(expr ast.TypeExpr) (Type, error) {
	if expr == nil {
		return nil, nil
	}
	if named, ok := expr.(*ast.NamedType); ok && named.Name == voidTypeName {
		return nil, nil
	}
	return u.resolveTypeExpression(expr)
}

func (u *typeUniverse) resolve(expr ast.TypeExpr) (Type, error) {
	switch e := expr.(type) {
	case *ast.NamedType:
		if p, ok := builtinTypes[e.Name]; ok {
			return p, nil
		}
		if e.Name == voidTypeName {
			return nil, newError(ErrTypeResolution, e.Name, "void is only valid as a return type")
		}
		if t, ok := u.typeDefinitions[e.Name]; ok {
			return t, nil
		}
		return nil, newError(ErrTypeResolution, e.Name, "unknown type reference: %q", e.Name)
	case *ast.NullableType:
		inner, err := u.resolve(e.Inner)
		if err != nil {
			return nil, err
		}
		return OptionalType{Inner: inner}, nil
	case *ast.SequenceType:
		inner, err := u.resolve(e.Element)
		if err != nil {
			return nil, err
		}
		return SequenceType{Inner: inner}, nil
	case *ast.RecordType:
		key, err := u.resolve(e.Key)
		if err != nil {
			return nil, err
		}
		value, err := u.resolve(e.Value)
		if err != nil {
			return nil, err
		}
		return MapType{Key: key, Value: value}, nil
	case nil:
		return nil, newError(ErrTypeResolution, "", "missing type expression")
	default:
		return nil, newError(ErrTypeResolution, "", "unsupported type expression %T", expr)
	}
}

func (u *typeUniverse) addKnownType(t Type) {
	if _, ok := u.allKnownTypes[t]; ok {
		return
	}
	u.allKnownTypes[t] = struct{}{}
	for _, sub := range Subtypes(t) {
		u.addKnownType(sub)
	}
}

// knownTypes returns every type in a deterministic order.
func (u *typeUniverse) knownTypes() []Type {
	types := make([]Type, 0, len(u.allKnownTypes))
	for t := range u.allKnownTypes {
		types = append(types, t)
	}
	slices.SortFunc(types, func(a, b Type) int {
		return strings.Compare(CanonicalName(a), CanonicalName(b))
	})
	return types
}

func describeType(t Type) string {
	switch t.(type) {
	case RecordType:
		return "a dictionary"
	case EnumType:
		return "an enum"
	case ErrorType:
		return "an error"
	case ObjectType:
		return "an interface"
	case DelegateObjectType:
		return "a delegate"
	case CallbackInterfaceType:
		return "a callback interface"
	}
	return t.String()
}
