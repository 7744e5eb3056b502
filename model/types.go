package model

import "fmt"

// Type is a resolved semantic type. The set of implementations is closed; every
// variant is a comparable value so types can be compared with == and used as
// map keys.
type Type interface {
	isType()
	String() string
}

// Primitive is a builtin scalar type.
type Primitive uint8

const (
	Bool Primitive = iota + 1
	UInt8
	Int8
	UInt16
	Int16
	UInt32
	Int32
	UInt64
	Int64
	Float32
	Float64
	String
	Timestamp
	Duration
)

var primitiveNames = map[Primitive]string{
	Bool:      "bool",
	UInt8:     "u8",
	Int8:      "i8",
	UInt16:    "u16",
	Int16:     "i16",
	UInt32:    "u32",
	Int32:     "i32",
	UInt64:    "u64",
	Int64:     "i64",
	Float32:   "f32",
	Float64:   "f64",
	String:    "string",
	Timestamp: "timestamp",
	Duration:  "duration",
}

var builtinTypes = func() map[string]Primitive {
	m := make(map[string]Primitive, len(primitiveNames))
	for p, name := range primitiveNames {
		m[name] = p
	}
	return m
}()

func (Primitive) isType() {}

func (p Primitive) String() string {
	if name, ok := primitiveNames[p]; ok {
		return name
	}
	return fmt.Sprintf("primitive(%d)", uint8(p))
}

// IsInteger reports whether p is one of the fixed-width integer types.
func (p Primitive) IsInteger() bool {
	return p >= UInt8 && p <= Int64
}

// IsSigned reports whether p is a signed integer type.
func (p Primitive) IsSigned() bool {
	switch p {
	case Int8, Int16, Int32, Int64:
		return true
	}
	return false
}

// IsFloat reports whether p is a floating point type.
func (p Primitive) IsFloat() bool {
	return p == Float32 || p == Float64
}

// BitSize returns the width of integer and floating point types, 0 otherwise.
func (p Primitive) BitSize() int {
	switch p {
	case UInt8, Int8:
		return 8
	case UInt16, Int16:
		return 16
	case UInt32, Int32, Float32:
		return 32
	case UInt64, Int64, Float64:
		return 64
	}
	return 0
}

type RecordType struct{ Name string }

func (RecordType) isType()          {}
func (t RecordType) String() string { return t.Name }

type EnumType struct{ Name string }

func (EnumType) isType()          {}
func (t EnumType) String() string { return t.Name }

type ErrorType struct{ Name string }

func (ErrorType) isType()          {}
func (t ErrorType) String() string { return t.Name }

type ObjectType struct{ Name string }

func (ObjectType) isType()          {}
func (t ObjectType) String() string { return t.Name }

type DelegateObjectType struct{ Name string }

func (DelegateObjectType) isType()          {}
func (t DelegateObjectType) String() string { return t.Name }

type CallbackInterfaceType struct{ Name string }

func (CallbackInterfaceType) isType()          {}
func (t CallbackInterfaceType) String() string { return t.Name }

type OptionalType struct{ Inner Type }

func (OptionalType) isType()          {}
func (t OptionalType) String() string { return t.Inner.String() + "?" }

type SequenceType struct{ Inner Type }

func (SequenceType) isType()          {}
func (t SequenceType) String() string { return "sequence<" + t.Inner.String() + ">" }

type MapType struct{ Key, Value Type }

func (MapType) isType() {}
func (t MapType) String() string {
	return "record<" + t.Key.String() + ", " + t.Value.String() + ">"
}

// CanonicalName returns a unique identifier for t, suitable for naming generated
// helpers. Delegate and callback interface types are namespaced so they never
// collide with an object of the same name.
func CanonicalName(t Type) string {
	switch t := t.(type) {
	case Primitive:
		return t.String()
	case RecordType:
		return "Type" + t.Name
	case EnumType:
		return "Type" + t.Name
	case ErrorType:
		return "Type" + t.Name
	case ObjectType:
		return "Type" + t.Name
	case DelegateObjectType:
		return "Delegate" + t.Name
	case CallbackInterfaceType:
		return "CallbackInterface" + t.Name
	case OptionalType:
		return "Optional" + CanonicalName(t.Inner)
	case SequenceType:
		return "Sequence" + CanonicalName(t.Inner)
	case MapType:
		return "Map" + CanonicalName(t.Key) + CanonicalName(t.Value)
	default:
		panic(fmt.Sprintf("unknown type %T", t))
	}
}

// NamedDefinition returns the definition name a named type refers to.
func NamedDefinition(t Type) (string, bool) {
	switch t := t.(type) {
	case RecordType:
		return t.Name, true
	case EnumType:
		return t.Name, true
	case ErrorType:
		return t.Name, true
	case ObjectType:
		return t.Name, true
	case DelegateObjectType:
		return t.Name, true
	case CallbackInterfaceType:
		return t.Name, true
	}
	return "", false
}

// Subtypes returns the types directly nested in t.
func Subtypes(t Type) []Type {
	switch t := t.(type) {
	case OptionalType:
		return []Type{t.Inner}
	case SequenceType:
		return []Type{t.Inner}
	case MapType:
		return []Type{t.Key, t.Value}
	}
	return nil
}
