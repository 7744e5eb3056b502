package ast

// Document represents a parsed interface description
type Document struct {
	Definitions []Definition
}

// Definition is the interface for all top-level definitions
type Definition interface {
	isDefinition()
}

// Namespace declares the component name and its top-level functions
type Namespace struct {
	Identifier string
	Version    string // empty when the namespace is unversioned
	Members    []*Operation
}

func (*Namespace) isDefinition() {}

// Interface represents an `interface` or `callback interface` declaration
type Interface struct {
	Attributes  ExtendedAttributes
	Callback    bool
	Identifier  string
	Inheritance *Inheritance
	Members     []InterfaceMember
}

func (*Interface) isDefinition() {}

// Inheritance is the `: Parent` clause of an interface
type Inheritance struct {
	Identifier string
}

// Dictionary represents a `dictionary` declaration
type Dictionary struct {
	Attributes  ExtendedAttributes
	Identifier  string
	Inheritance *Inheritance
	Members     []*DictionaryMember
}

func (*Dictionary) isDefinition() {}

// DictionaryMember is a single dictionary field
type DictionaryMember struct {
	Attributes ExtendedAttributes
	Required   bool
	Type       TypeExpr
	Identifier string
	Default    *Literal
}

// Enum represents an `enum` declaration
type Enum struct {
	Attributes ExtendedAttributes
	Identifier string
	Values     []string
}

func (*Enum) isDefinition() {}

// InterfaceMember is the interface for all members of an interface body
type InterfaceMember interface {
	isInterfaceMember()
}

// Special marks getter/setter/deleter operations
type Special int

const (
	SpecialNone Special = iota
	SpecialGetter
	SpecialSetter
	SpecialDeleter
)

// Modifier marks static/stringifier operations
type Modifier int

const (
	ModifierNone Modifier = iota
	ModifierStatic
	ModifierStringifier
)

// Operation is a regular operation; also used for namespace functions
type Operation struct {
	Attributes ExtendedAttributes
	Special    Special
	Modifier   Modifier
	ReturnType TypeExpr // nil means void
	Identifier string   // empty for anonymous operations
	Args       []*Argument
}

func (*Operation) isInterfaceMember() {}

// Constructor is a `constructor(...)` member
type Constructor struct {
	Attributes ExtendedAttributes
	Args       []*Argument
}

func (*Constructor) isInterfaceMember() {}

// AttributeMember is an `attribute T name` member
type AttributeMember struct {
	Attributes ExtendedAttributes
	ReadOnly   bool
	Type       TypeExpr
	Identifier string
}

func (*AttributeMember) isInterfaceMember() {}

// ConstMember is a `const T name = value` member
type ConstMember struct {
	Type       TypeExpr
	Identifier string
	Value      *Literal
}

func (*ConstMember) isInterfaceMember() {}

// Argument is a single formal parameter
type Argument struct {
	Attributes ExtendedAttributes
	Optional   bool
	Type       TypeExpr
	Identifier string
	Default    *Literal
}

// ExtendedAttribute is a `[Name]` or `[Name=Value]` marker
type ExtendedAttribute struct {
	Name  string
	Value string // empty when the attribute has no right-hand side
}

// ExtendedAttributes is an ordered attribute list
type ExtendedAttributes []*ExtendedAttribute

// TypeExpr is the interface for all type expressions
type TypeExpr interface {
	isTypeExpr()
}

// NamedType references a builtin or user-defined type by name
type NamedType struct {
	Name string
}

func (*NamedType) isTypeExpr() {}

// SequenceType is `sequence<T>`
type SequenceType struct {
	Element TypeExpr
}

func (*SequenceType) isTypeExpr() {}

// RecordType is `record<K, V>`
type RecordType struct {
	Key   TypeExpr
	Value TypeExpr
}

func (*RecordType) isTypeExpr() {}

// NullableType is `T?`
type NullableType struct {
	Inner TypeExpr
}

func (*NullableType) isTypeExpr() {}

// LiteralKind classifies default values
type LiteralKind int

const (
	LiteralBoolean LiteralKind = iota
	LiteralInteger
	LiteralFloat
	LiteralString
	LiteralNull
	LiteralEmptySequence
	LiteralEmptyMap
	LiteralIdentifier
)

// Literal is a default value as written in the source
type Literal struct {
	Kind  LiteralKind
	Value string
}
