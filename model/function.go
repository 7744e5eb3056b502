package model

import (
	"github.com/partite-ai/idlbind/ast"
)

// Argument is a formal parameter of a function, method or constructor.
type Argument struct {
	name         string
	typ          Type
	byRef        bool
	optional     bool
	defaultValue *Literal
}

func (a *Argument) Name() string { return a.name }
func (a *Argument) Type() Type   { return a.typ }
func (a *Argument) ByRef() bool  { return a.byRef }

// Default returns the declared default value, or nil.
func (a *Argument) Default() *Literal { return a.defaultValue }

func convertArguments(u *typeUniverse, owner string, args []*ast.Argument) ([]*Argument, error) {
	out := make([]*Argument, 0, len(args))
	seen := make(map[string]struct{}, len(args))
	for _, arg := range args {
		if arg.Identifier == "" {
			return nil, invalid(owner, "anonymous arguments are not supported in %s", owner)
		}
		if _, ok := seen[arg.Identifier]; ok {
			return nil, duplicate(arg.Identifier, "duplicate argument name %q in %s", arg.Identifier, owner)
		}
		seen[arg.Identifier] = struct{}{}

		typ, err := u.resolveTypeExpression(arg.Type)
		if err != nil {
			return nil, err
		}
		byRef, err := parseArgumentByRef(arg.Identifier, arg.Attributes)
		if err != nil {
			return nil, err
		}
		def, err := convertLiteral(arg.Default, typ)
		if err != nil {
			return nil, err
		}
		out = append(out, &Argument{
			name:         arg.Identifier,
			typ:          typ,
			byRef:        byRef,
			optional:     arg.Optional,
			defaultValue: def,
		})
	}
	return out, nil
}

// Function is a top-level namespace function.
type Function struct {
	name       string
	arguments  []*Argument
	returnType Type
	throws     string
}

func (f *Function) Name() string           { return f.name }
func (f *Function) Arguments() []*Argument { return f.arguments }
func (f *Function) ReturnType() Type       { return f.returnType }
func (f *Function) Throws() string         { return f.throws }
func (f *Function) ThrowsType() Type       { return throwsType(f.throws) }

func convertFunction(u *typeUniverse, op *ast.Operation) (*Function, error) {
	if op.Special != ast.SpecialNone || op.Modifier != ast.ModifierNone {
		return nil, unsupported(op.Identifier, "special operations and modifiers are not supported on function %q", op.Identifier)
	}
	if op.Identifier == "" {
		return nil, invalid("", "anonymous functions are not supported")
	}
	args, err := convertArguments(u, "function "+op.Identifier, op.Args)
	if err != nil {
		return nil, err
	}
	returnType, err := u.resolveReturnType(op.ReturnType)
	if err != nil {
		return nil, err
	}
	throws, err := parseFunctionThrows(op.Identifier, op.Attributes)
	if err != nil {
		return nil, err
	}
	return &Function{
		name:       op.Identifier,
		arguments:  args,
		returnType: returnType,
		throws:     throws,
	}, nil
}

// throwsType turns a throws attribute value into the Error type it names.
func throwsType(name string) Type {
	if name == "" {
		return nil
	}
	return ErrorType{Name: name}
}
