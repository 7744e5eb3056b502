package model

import (
	"github.com/partite-ai/idlbind/ast"
)

const (
	attrByRef      = "ByRef"
	attrCallWith   = "CallWith"
	attrDelegate   = "Delegate"
	attrEnum       = "Enum"
	attrError      = "Error"
	attrName       = "Name"
	attrSelf       = "Self"
	attrThreadsafe = "Threadsafe"
	attrThrows     = "Throws"
)

type attrValue int

const (
	noValue attrValue = iota
	requiredValue
	optionalValue
)

// attributeRules lists which attributes a declaring context accepts and whether
// each takes a right-hand side.
type attributeRules map[string]attrValue

var (
	interfaceAttributeRules   = attributeRules{attrThreadsafe: noValue, attrDelegate: optionalValue, attrEnum: noValue}
	methodAttributeRules      = attributeRules{attrThrows: requiredValue, attrSelf: requiredValue, attrCallWith: requiredValue}
	delegateMethodRules       = attributeRules{attrThrows: requiredValue}
	constructorAttributeRules = attributeRules{attrThrows: requiredValue, attrName: requiredValue}
	functionAttributeRules    = attributeRules{attrThrows: requiredValue}
	enumAttributeRules        = attributeRules{attrError: noValue}
	argumentAttributeRules    = attributeRules{attrByRef: noValue}
	noAttributeRules          = attributeRules{}
)

// parse checks attrs against the rules and returns the attribute values by name.
// A present attribute without a value maps to "".
func (rules attributeRules) parse(context string, attrs ast.ExtendedAttributes) (map[string]string, error) {
	values := make(map[string]string, len(attrs))
	for _, attr := range attrs {
		kind, ok := rules[attr.Name]
		if !ok {
			return nil, invalid(attr.Name, "attribute %q is not supported on %s", attr.Name, context)
		}
		if _, seen := values[attr.Name]; seen {
			return nil, invalid(attr.Name, "attribute %q given more than once on %s", attr.Name, context)
		}
		switch {
		case kind == noValue && attr.Value != "":
			return nil, invalid(attr.Name, "attribute %q on %s does not take a value", attr.Name, context)
		case kind == requiredValue && attr.Value == "":
			return nil, invalid(attr.Name, "attribute %q on %s requires a value", attr.Name, context)
		}
		values[attr.Name] = attr.Value
	}
	return values, nil
}

// InterfaceAttributes are the markers accepted on interface declarations.
type InterfaceAttributes struct {
	threadsafe bool
	isDelegate bool
	delegate   string
	isEnum     bool
}

func parseInterfaceAttributes(name string, attrs ast.ExtendedAttributes) (InterfaceAttributes, error) {
	values, err := interfaceAttributeRules.parse("interface "+name, attrs)
	if err != nil {
		return InterfaceAttributes{}, err
	}
	var ia InterfaceAttributes
	_, ia.threadsafe = values[attrThreadsafe]
	_, ia.isEnum = values[attrEnum]
	if d, ok := values[attrDelegate]; ok {
		if d == "" {
			ia.isDelegate = true
		} else {
			ia.delegate = d
		}
	}
	if ia.isDelegate && ia.threadsafe {
		return InterfaceAttributes{}, invalid(name, "delegate %q cannot be marked Threadsafe", name)
	}
	return ia, nil
}

// IsDelegate reports a bare [Delegate] marker: the interface is itself a delegate.
func (ia InterfaceAttributes) IsDelegate() bool { return ia.isDelegate }

// DelegateName returns the delegate named by [Delegate=D], or "".
func (ia InterfaceAttributes) DelegateName() string { return ia.delegate }

func (ia InterfaceAttributes) Threadsafe() bool { return ia.threadsafe }

// MethodAttributes are the markers accepted on methods.
type MethodAttributes struct {
	throws   string
	byArc    bool
	callWith string
}

func parseMethodAttributes(name string, attrs ast.ExtendedAttributes) (MethodAttributes, error) {
	values, err := methodAttributeRules.parse("method "+name, attrs)
	if err != nil {
		return MethodAttributes{}, err
	}
	ma := MethodAttributes{
		throws:   values[attrThrows],
		callWith: values[attrCallWith],
	}
	if self, ok := values[attrSelf]; ok {
		if self != "ByArc" {
			return MethodAttributes{}, invalid(attrSelf, "unsupported Self type %q on method %s", self, name)
		}
		ma.byArc = true
	}
	return ma, nil
}

func parseDelegateMethodAttributes(name string, attrs ast.ExtendedAttributes) (MethodAttributes, error) {
	values, err := delegateMethodRules.parse("delegate method "+name, attrs)
	if err != nil {
		return MethodAttributes{}, err
	}
	return MethodAttributes{throws: values[attrThrows]}, nil
}

// Throws returns the error name given by [Throws=E], or "".
func (ma MethodAttributes) Throws() string { return ma.throws }

// CallWith returns the delegate method named by [CallWith=m], or "".
func (ma MethodAttributes) CallWith() string { return ma.callWith }

func (ma MethodAttributes) TakesSelfByArc() bool { return ma.byArc }

type constructorAttributes struct {
	throws string
	name   string
}

func parseConstructorAttributes(object string, attrs ast.ExtendedAttributes) (constructorAttributes, error) {
	values, err := constructorAttributeRules.parse("constructor of "+object, attrs)
	if err != nil {
		return constructorAttributes{}, err
	}
	return constructorAttributes{
		throws: values[attrThrows],
		name:   values[attrName],
	}, nil
}

func parseFunctionThrows(name string, attrs ast.ExtendedAttributes) (string, error) {
	values, err := functionAttributeRules.parse("function "+name, attrs)
	if err != nil {
		return "", err
	}
	return values[attrThrows], nil
}

func parseEnumIsError(name string, attrs ast.ExtendedAttributes) (bool, error) {
	values, err := enumAttributeRules.parse("enum "+name, attrs)
	if err != nil {
		return false, err
	}
	_, isError := values[attrError]
	return isError, nil
}

func parseArgumentByRef(name string, attrs ast.ExtendedAttributes) (bool, error) {
	values, err := argumentAttributeRules.parse("argument "+name, attrs)
	if err != nil {
		return false, err
	}
	_, byRef := values[attrByRef]
	return byRef, nil
}
