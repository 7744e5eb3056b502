package model

import (
	"github.com/partite-ai/idlbind/ast"
)

// constructorName is the identifier reserved for the default constructor.
const constructorName = "new"

// Delegate is a named set of zero-argument methods that object methods may
// call through to.
type Delegate struct {
	name    string
	methods []*DelegateMethod
}

func (d *Delegate) Name() string { return d.name }

func (d *Delegate) Type() Type { return DelegateObjectType{Name: d.name} }

func (d *Delegate) Methods() []*DelegateMethod { return d.methods }

// FindMethod returns the method with the given name, or nil.
func (d *Delegate) FindMethod(name string) *DelegateMethod {
	for _, m := range d.methods {
		if m.name == name {
			return m
		}
	}
	return nil
}

// DelegateMethod is a method of a Delegate.
type DelegateMethod struct {
	name         string
	delegateName string
	returnType   Type
	attributes   MethodAttributes
}

func (m *DelegateMethod) Name() string { return m.name }

// DelegateName is the name of the owning delegate.
func (m *DelegateMethod) DelegateName() string { return m.delegateName }

// ReturnType returns the declared return type, or nil if the method returns nothing.
func (m *DelegateMethod) ReturnType() Type { return m.returnType }

func (m *DelegateMethod) Attributes() MethodAttributes { return m.attributes }

func (m *DelegateMethod) Throws() string { return m.attributes.throws }

// ThrowsType returns the Error type named by the method's Throws attribute, or
// nil. The name is not checked here so errors may be declared later in the
// source.
func (m *DelegateMethod) ThrowsType() Type { return throwsType(m.attributes.throws) }

func convertDelegate(u *typeUniverse, iface *ast.Interface) (*Delegate, error) {
	if iface.Inheritance != nil {
		return nil, unsupported(iface.Identifier, "inheritance is not supported for delegates: %s", iface.Identifier)
	}

	d := &Delegate{name: iface.Identifier}
	for _, member := range iface.Members {
		op, ok := member.(*ast.Operation)
		if !ok {
			return nil, unsupported(iface.Identifier, "delegate %s may only contain operations, found %s", iface.Identifier, memberKind(member))
		}
		m, err := convertDelegateMethod(u, iface.Identifier, op)
		if err != nil {
			return nil, err
		}
		if d.FindMethod(m.name) != nil {
			return nil, duplicate(m.name, "duplicate method %q in delegate %s", m.name, iface.Identifier)
		}
		d.methods = append(d.methods, m)
	}

	for _, m := range d.methods {
		m.delegateName = d.name
	}
	return d, nil
}

func convertDelegateMethod(u *typeUniverse, delegate string, op *ast.Operation) (*DelegateMethod, error) {
	if len(op.Args) > 0 {
		return nil, unsupported(op.Identifier, "delegate methods cannot take arguments: %s.%s", delegate, op.Identifier)
	}
	if op.Special != ast.SpecialNone || op.Modifier != ast.ModifierNone {
		return nil, unsupported(op.Identifier, "special operations and modifiers are not supported on delegate methods: %s.%s", delegate, op.Identifier)
	}
	if op.Identifier == "" {
		return nil, invalid(delegate, "anonymous methods are not supported in delegate %s", delegate)
	}
	if op.Identifier == constructorName {
		return nil, newError(ErrReservedName, op.Identifier, "the method name %q is reserved for the default constructor", constructorName)
	}
	returnType, err := u.resolveReturnType(op.ReturnType)
	if err != nil {
		return nil, err
	}
	attrs, err := parseDelegateMethodAttributes(op.Identifier, op.Attributes)
	if err != nil {
		return nil, err
	}
	return &DelegateMethod{
		name:       op.Identifier,
		returnType: returnType,
		attributes: attrs,
	}, nil
}

func memberKind(member ast.InterfaceMember) string {
	switch member.(type) {
	case *ast.Operation:
		return "an operation"
	case *ast.Constructor:
		return "a constructor"
	case *ast.AttributeMember:
		return "an attribute"
	case *ast.ConstMember:
		return "a constant"
	}
	return "an unknown member"
}
