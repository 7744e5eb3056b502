package model

import (
	"github.com/partite-ai/idlbind/ast"
)

// CallbackInterface is an interface implemented on the foreign side and called
// from across the boundary.
type CallbackInterface struct {
	name    string
	methods []*Method
}

func (c *CallbackInterface) Name() string { return c.name }

func (c *CallbackInterface) Type() Type { return CallbackInterfaceType{Name: c.name} }

func (c *CallbackInterface) Methods() []*Method { return c.methods }

func (c *CallbackInterface) FindMethod(name string) *Method {
	for _, m := range c.methods {
		if m.name == name {
			return m
		}
	}
	return nil
}

func convertCallbackInterface(u *typeUniverse, iface *ast.Interface) (*CallbackInterface, error) {
	if iface.Inheritance != nil {
		return nil, unsupported(iface.Identifier, "inheritance is not supported for callback interfaces: %s", iface.Identifier)
	}
	if _, err := noAttributeRules.parse("callback interface "+iface.Identifier, iface.Attributes); err != nil {
		return nil, err
	}

	cb := &CallbackInterface{name: iface.Identifier}
	for _, member := range iface.Members {
		op, ok := member.(*ast.Operation)
		if !ok {
			return nil, unsupported(iface.Identifier, "callback interface %s may only contain operations, found %s", iface.Identifier, memberKind(member))
		}
		if op.Special != ast.SpecialNone || op.Modifier != ast.ModifierNone {
			return nil, unsupported(op.Identifier, "special operations and modifiers are not supported on callback methods: %s.%s", iface.Identifier, op.Identifier)
		}
		if op.Identifier == "" {
			return nil, invalid(iface.Identifier, "anonymous methods are not supported in callback interface %s", iface.Identifier)
		}
		if cb.FindMethod(op.Identifier) != nil {
			return nil, duplicate(op.Identifier, "duplicate method %q in callback interface %s", op.Identifier, iface.Identifier)
		}
		args, err := convertArguments(u, "callback method "+iface.Identifier+"."+op.Identifier, op.Args)
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
		cb.methods = append(cb.methods, &Method{
			name:       op.Identifier,
			arguments:  args,
			returnType: returnType,
			attributes: MethodAttributes{throws: throws},
		})
	}

	for _, m := range cb.methods {
		m.objectName = cb.name
	}
	return cb, nil
}
