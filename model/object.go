package model

import (
	"github.com/partite-ai/idlbind/ast"
)

// Object is an ordinary interface exposed as an opaque, reference-counted
// object.
type Object struct {
	name         string
	constructors []*Constructor
	methods      []*Method
	threadsafe   bool
	delegateName string
}

func (o *Object) Name() string { return o.name }

func (o *Object) Type() Type { return ObjectType{Name: o.name} }

func (o *Object) Constructors() []*Constructor { return o.constructors }

// PrimaryConstructor returns the constructor named "new", or nil.
func (o *Object) PrimaryConstructor() *Constructor {
	return o.FindConstructor(constructorName)
}

func (o *Object) FindConstructor(name string) *Constructor {
	for _, c := range o.constructors {
		if c.name == name {
			return c
		}
	}
	return nil
}

func (o *Object) Methods() []*Method { return o.methods }

// FindMethod returns the method with the given name, or nil.
func (o *Object) FindMethod(name string) *Method {
	for _, m := range o.methods {
		if m.name == name {
			return m
		}
	}
	return nil
}

func (o *Object) Threadsafe() bool { return o.threadsafe }

// DelegateName returns the delegate named by [Delegate=D], or "".
func (o *Object) DelegateName() string { return o.delegateName }

// Constructor creates an Object.
type Constructor struct {
	name       string
	objectName string
	arguments  []*Argument
	throws     string
}

func (c *Constructor) Name() string           { return c.name }
func (c *Constructor) ObjectName() string     { return c.objectName }
func (c *Constructor) Arguments() []*Argument { return c.arguments }
func (c *Constructor) Throws() string         { return c.throws }
func (c *Constructor) ThrowsType() Type       { return throwsType(c.throws) }

// IsPrimary reports whether c is the default constructor.
func (c *Constructor) IsPrimary() bool { return c.name == constructorName }

// Method is a method of an Object or a CallbackInterface. Its declared return
// and throws types are what the declaration says; methods with a call-with
// relation take their effective types from the delegate method instead, see
// ComponentInterface.EffectiveReturnType.
type Method struct {
	name       string
	objectName string
	arguments  []*Argument
	returnType Type
	attributes MethodAttributes
}

func (m *Method) Name() string { return m.name }

// ObjectName is the name of the owning object or callback interface.
func (m *Method) ObjectName() string          { return m.objectName }
func (m *Method) Arguments() []*Argument      { return m.arguments }
func (m *Method) ReturnType() Type            { return m.returnType }
func (m *Method) Attributes() MethodAttributes { return m.attributes }
func (m *Method) Throws() string              { return m.attributes.throws }
func (m *Method) ThrowsType() Type            { return throwsType(m.attributes.throws) }
func (m *Method) CallWith() string            { return m.attributes.callWith }
func (m *Method) TakesSelfByArc() bool        { return m.attributes.byArc }

func convertObject(u *typeUniverse, iface *ast.Interface, attrs InterfaceAttributes) (*Object, error) {
	if iface.Inheritance != nil {
		return nil, unsupported(iface.Identifier, "inheritance is not supported for interfaces: %s", iface.Identifier)
	}

	o := &Object{
		name:         iface.Identifier,
		threadsafe:   attrs.Threadsafe(),
		delegateName: attrs.DelegateName(),
	}
	for _, member := range iface.Members {
		switch member := member.(type) {
		case *ast.Constructor:
			c, err := convertConstructor(u, iface.Identifier, member)
			if err != nil {
				return nil, err
			}
			if o.FindConstructor(c.name) != nil {
				return nil, duplicate(c.name, "duplicate constructor %q in interface %s", c.name, iface.Identifier)
			}
			o.constructors = append(o.constructors, c)
		case *ast.Operation:
			m, err := convertObjectMethod(u, iface.Identifier, member)
			if err != nil {
				return nil, err
			}
			if o.FindMethod(m.name) != nil {
				return nil, duplicate(m.name, "duplicate method %q in interface %s", m.name, iface.Identifier)
			}
			o.methods = append(o.methods, m)
		default:
			return nil, unsupported(iface.Identifier, "interface %s may only contain operations and constructors, found %s", iface.Identifier, memberKind(member))
		}
	}

	if len(o.constructors) == 0 {
		o.constructors = append(o.constructors, &Constructor{name: constructorName})
	}
	for _, c := range o.constructors {
		c.objectName = o.name
	}
	for _, m := range o.methods {
		m.objectName = o.name
	}
	return o, nil
}

func convertConstructor(u *typeUniverse, object string, c *ast.Constructor) (*Constructor, error) {
	attrs, err := parseConstructorAttributes(object, c.Attributes)
	if err != nil {
		return nil, err
	}
	name := attrs.name
	if name == "" {
		name = constructorName
	}
	args, err := convertArguments(u, "constructor "+object+"."+name, c.Args)
	if err != nil {
		return nil, err
	}
	return &Constructor{
		name:      name,
		arguments: args,
		throws:    attrs.throws,
	}, nil
}

func convertObjectMethod(u *typeUniverse, object string, op *ast.Operation) (*Method, error) {
	if op.Special != ast.SpecialNone || op.Modifier != ast.ModifierNone {
		return nil, unsupported(op.Identifier, "special operations and modifiers are not supported on methods: %s.%s", object, op.Identifier)
	}
	if op.Identifier == "" {
		return nil, invalid(object, "anonymous methods are not supported in interface %s", object)
	}
	if op.Identifier == constructorName {
		return nil, newError(ErrReservedName, op.Identifier, "the method name %q is reserved for the default constructor", constructorName)
	}
	args, err := convertArguments(u, "method "+object+"."+op.Identifier, op.Args)
	if err != nil {
		return nil, err
	}
	returnType, err := u.resolveReturnType(op.ReturnType)
	if err != nil {
		return nil, err
	}
	attrs, err := parseMethodAttributes(op.Identifier, op.Attributes)
	if err != nil {
		return nil, err
	}
	return &Method{
		name:       op.Identifier,
		arguments:  args,
		returnType: returnType,
		attributes: attrs,
	}, nil
}
