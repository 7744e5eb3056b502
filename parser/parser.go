package parser

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/partite-ai/idlbind/ast"
)

// Parser reads the s-expression form of an interface description syntax tree.
//
// The tree is produced by an external front end; every list maps onto exactly one
// ast node:
//
//	(namespace example "1.0.0"
//	  (function hello (arg name string) (returns string)))
//	(interface ExampleDelegate (attr Delegate)
//	  (operation async_dispatch))
//	(interface Example (attr Delegate ExampleDelegate)
//	  (constructor)
//	  (operation long_running_method (attr CallWith async_dispatch)))
//	(enum Failure (attr Error) Timeout Cancelled)
//	(dictionary Point (field x i32 required) (field label (optional string) (default null)))
type Parser struct {
	reader *bufio.Reader
}

// NewParser creates a new parser for the given reader
func NewParser(r io.Reader) *Parser {
	return &Parser{
		reader: bufio.NewReader(r),
	}
}

// ParseString parses a document held in memory
func ParseString(src string) (*ast.Document, error) {
	return NewParser(strings.NewReader(src)).ParseDocument()
}

// ParseDocument parses a complete document
func (p *Parser) ParseDocument() (*ast.Document, error) {
	src, err := io.ReadAll(p.reader)
	if err != nil {
		return nil, fmt.Errorf("failed to read input: %w", err)
	}

	exprs, err := newReader(string(src)).readAll()
	if err != nil {
		return nil, err
	}

	doc := &ast.Document{
		Definitions: []ast.Definition{},
	}
	for _, expr := range exprs {
		def, err := parseDefinition(expr)
		if err != nil {
			return nil, err
		}
		doc.Definitions = append(doc.Definitions, def)
	}
	return doc, nil
}

func parseDefinition(expr *SExpr) (ast.Definition, error) {
	switch expr.head() {
	case "namespace":
		return parseNamespace(expr)
	case "interface":
		return parseInterface(expr, false)
	case "callback-interface":
		return parseInterface(expr, true)
	case "dictionary":
		return parseDictionary(expr)
	case "enum":
		return parseEnum(expr)
	default:
		return nil, fmt.Errorf("unknown top-level form %s at position %d", expr.Dump(), expr.Pos)
	}
}

// nameOf returns the identifier following the form keyword
func nameOf(expr *SExpr) (string, error) {
	if len(expr.Children) < 2 || !expr.Children[1].IsAtom() {
		return "", fmt.Errorf("%s at position %d: missing identifier", expr.head(), expr.Pos)
	}
	return expr.Children[1].Value, nil
}

func parseNamespace(expr *SExpr) (*ast.Namespace, error) {
	name, err := nameOf(expr)
	if err != nil {
		return nil, err
	}
	ns := &ast.Namespace{
		Identifier: name,
	}
	for _, child := range expr.Children[2:] {
		if child.IsAtom() {
			if ns.Version != "" {
				return nil, fmt.Errorf("namespace %s: unexpected atom %q", name, child.Value)
			}
			ns.Version = child.Value
			continue
		}
		if child.head() != "function" {
			return nil, fmt.Errorf("namespace %s: unexpected member %s", name, child.Dump())
		}
		op, err := parseOperation(child)
		if err != nil {
			return nil, fmt.Errorf("namespace %s: %w", name, err)
		}
		ns.Members = append(ns.Members, op)
	}
	return ns, nil
}

func parseInterface(expr *SExpr, callback bool) (*ast.Interface, error) {
	name, err := nameOf(expr)
	if err != nil {
		return nil, err
	}
	iface := &ast.Interface{
		Callback:   callback,
		Identifier: name,
	}
	for _, child := range expr.Children[2:] {
		switch child.head() {
		case "attr":
			attr, err := parseAttribute(child)
			if err != nil {
				return nil, fmt.Errorf("interface %s: %w", name, err)
			}
			iface.Attributes = append(iface.Attributes, attr)
		case "inherits":
			parent, err := nameOf(child)
			if err != nil {
				return nil, fmt.Errorf("interface %s: %w", name, err)
			}
			iface.Inheritance = &ast.Inheritance{Identifier: parent}
		case "operation":
			op, err := parseOperation(child)
			if err != nil {
				return nil, fmt.Errorf("interface %s: %w", name, err)
			}
			iface.Members = append(iface.Members, op)
		case "constructor":
			ctor, err := parseConstructor(child)
			if err != nil {
				return nil, fmt.Errorf("interface %s: %w", name, err)
			}
			iface.Members = append(iface.Members, ctor)
		case "attribute":
			member, err := parseAttributeMember(child)
			if err != nil {
				return nil, fmt.Errorf("interface %s: %w", name, err)
			}
			iface.Members = append(iface.Members, member)
		case "const":
			member, err := parseConstMember(child)
			if err != nil {
				return nil, fmt.Errorf("interface %s: %w", name, err)
			}
			iface.Members = append(iface.Members, member)
		default:
			return nil, fmt.Errorf("interface %s: unexpected member %s", name, child.Dump())
		}
	}
	return iface, nil
}

func parseDictionary(expr *SExpr) (*ast.Dictionary, error) {
	name, err := nameOf(expr)
	if err != nil {
		return nil, err
	}
	dict := &ast.Dictionary{
		Identifier: name,
	}
	for _, child := range expr.Children[2:] {
		switch child.head() {
		case "attr":
			attr, err := parseAttribute(child)
			if err != nil {
				return nil, fmt.Errorf("dictionary %s: %w", name, err)
			}
			dict.Attributes = append(dict.Attributes, attr)
		case "inherits":
			parent, err := nameOf(child)
			if err != nil {
				return nil, fmt.Errorf("dictionary %s: %w", name, err)
			}
			dict.Inheritance = &ast.Inheritance{Identifier: parent}
		case "field":
			field, err := parseField(child)
			if err != nil {
				return nil, fmt.Errorf("dictionary %s: %w", name, err)
			}
			dict.Members = append(dict.Members, field)
		default:
			return nil, fmt.Errorf("dictionary %s: unexpected member %s", name, child.Dump())
		}
	}
	return dict, nil
}

func parseEnum(expr *SExpr) (*ast.Enum, error) {
	name, err := nameOf(expr)
	if err != nil {
		return nil, err
	}
	enum := &ast.Enum{
		Identifier: name,
	}
	for _, child := range expr.Children[2:] {
		if child.IsAtom() {
			enum.Values = append(enum.Values, child.Value)
			continue
		}
		if child.head() != "attr" {
			return nil, fmt.Errorf("enum %s: unexpected member %s", name, child.Dump())
		}
		attr, err := parseAttribute(child)
		if err != nil {
			return nil, fmt.Errorf("enum %s: %w", name, err)
		}
		enum.Attributes = append(enum.Attributes, attr)
	}
	return enum, nil
}

// parseOperation handles both `operation` and `function` forms. The identifier is
// optional: a list in the identifier position denotes an anonymous operation.
func parseOperation(expr *SExpr) (*ast.Operation, error) {
	op := &ast.Operation{}
	clauses := expr.Children[1:]
	if len(clauses) > 0 && clauses[0].IsAtom() {
		op.Identifier = clauses[0].Value
		clauses = clauses[1:]
	}
	for _, child := range clauses {
		switch child.head() {
		case "attr":
			attr, err := parseAttribute(child)
			if err != nil {
				return nil, err
			}
			op.Attributes = append(op.Attributes, attr)
		case "returns":
			if len(child.Children) != 2 {
				return nil, fmt.Errorf("returns clause expects one type at position %d", child.Pos)
			}
			typ, err := parseType(child.Children[1])
			if err != nil {
				return nil, err
			}
			op.ReturnType = typ
		case "arg":
			arg, err := parseArgument(child)
			if err != nil {
				return nil, err
			}
			op.Args = append(op.Args, arg)
		case "special":
			special, err := parseSpecial(child)
			if err != nil {
				return nil, err
			}
			op.Special = special
		case "modifier":
			modifier, err := parseModifier(child)
			if err != nil {
				return nil, err
			}
			op.Modifier = modifier
		default:
			return nil, fmt.Errorf("unexpected operation clause %s", child.Dump())
		}
	}
	return op, nil
}

func parseConstructor(expr *SExpr) (*ast.Constructor, error) {
	ctor := &ast.Constructor{}
	for _, child := range expr.Children[1:] {
		switch child.head() {
		case "attr":
			attr, err := parseAttribute(child)
			if err != nil {
				return nil, err
			}
			ctor.Attributes = append(ctor.Attributes, attr)
		case "arg":
			arg, err := parseArgument(child)
			if err != nil {
				return nil, err
			}
			ctor.Args = append(ctor.Args, arg)
		default:
			return nil, fmt.Errorf("unexpected constructor clause %s", child.Dump())
		}
	}
	return ctor, nil
}

func parseAttributeMember(expr *SExpr) (*ast.AttributeMember, error) {
	if len(expr.Children) < 3 {
		return nil, fmt.Errorf("attribute member expects a name and a type at position %d", expr.Pos)
	}
	typ, err := parseType(expr.Children[2])
	if err != nil {
		return nil, err
	}
	member := &ast.AttributeMember{
		Identifier: expr.Children[1].Value,
		Type:       typ,
	}
	for _, child := range expr.Children[3:] {
		switch {
		case child.IsAtom() && child.Value == "readonly":
			member.ReadOnly = true
		case child.head() == "attr":
			attr, err := parseAttribute(child)
			if err != nil {
				return nil, err
			}
			member.Attributes = append(member.Attributes, attr)
		default:
			return nil, fmt.Errorf("unexpected attribute member clause %s", child.Dump())
		}
	}
	return member, nil
}

func parseConstMember(expr *SExpr) (*ast.ConstMember, error) {
	if len(expr.Children) != 4 {
		return nil, fmt.Errorf("const member expects a name, a type and a value at position %d", expr.Pos)
	}
	typ, err := parseType(expr.Children[2])
	if err != nil {
		return nil, err
	}
	return &ast.ConstMember{
		Identifier: expr.Children[1].Value,
		Type:       typ,
		Value:      parseLiteral(expr.Children[3]),
	}, nil
}

func parseArgument(expr *SExpr) (*ast.Argument, error) {
	if len(expr.Children) < 3 || !expr.Children[1].IsAtom() {
		return nil, fmt.Errorf("arg expects a name and a type at position %d", expr.Pos)
	}
	typ, err := parseType(expr.Children[2])
	if err != nil {
		return nil, err
	}
	arg := &ast.Argument{
		Identifier: expr.Children[1].Value,
		Type:       typ,
	}
	for _, child := range expr.Children[3:] {
		switch {
		case child.IsAtom() && child.Value == "optional":
			arg.Optional = true
		case child.head() == "default":
			lit, err := parseDefault(child)
			if err != nil {
				return nil, err
			}
			arg.Default = lit
		case child.head() == "attr":
			attr, err := parseAttribute(child)
			if err != nil {
				return nil, err
			}
			arg.Attributes = append(arg.Attributes, attr)
		default:
			return nil, fmt.Errorf("unexpected arg clause %s", child.Dump())
		}
	}
	return arg, nil
}

func parseField(expr *SExpr) (*ast.DictionaryMember, error) {
	if len(expr.Children) < 3 || !expr.Children[1].IsAtom() {
		return nil, fmt.Errorf("field expects a name and a type at position %d", expr.Pos)
	}
	typ, err := parseType(expr.Children[2])
	if err != nil {
		return nil, err
	}
	field := &ast.DictionaryMember{
		Identifier: expr.Children[1].Value,
		Type:       typ,
	}
	for _, child := range expr.Children[3:] {
		switch {
		case child.IsAtom() && child.Value == "required":
			field.Required = true
		case child.head() == "default":
			lit, err := parseDefault(child)
			if err != nil {
				return nil, err
			}
			field.Default = lit
		case child.head() == "attr":
			attr, err := parseAttribute(child)
			if err != nil {
				return nil, err
			}
			field.Attributes = append(field.Attributes, attr)
		default:
			return nil, fmt.Errorf("unexpected field clause %s", child.Dump())
		}
	}
	return field, nil
}

func parseAttribute(expr *SExpr) (*ast.ExtendedAttribute, error) {
	switch len(expr.Children) {
	case 2:
		return &ast.ExtendedAttribute{Name: expr.Children[1].Value}, nil
	case 3:
		return &ast.ExtendedAttribute{Name: expr.Children[1].Value, Value: expr.Children[2].Value}, nil
	default:
		return nil, fmt.Errorf("attr expects a name and an optional value at position %d", expr.Pos)
	}
}

func parseSpecial(expr *SExpr) (ast.Special, error) {
	if len(expr.Children) != 2 {
		return ast.SpecialNone, fmt.Errorf("special expects one keyword at position %d", expr.Pos)
	}
	switch expr.Children[1].Value {
	case "getter":
		return ast.SpecialGetter, nil
	case "setter":
		return ast.SpecialSetter, nil
	case "deleter":
		return ast.SpecialDeleter, nil
	default:
		return ast.SpecialNone, fmt.Errorf("unknown special keyword %q", expr.Children[1].Value)
	}
}

func parseModifier(expr *SExpr) (ast.Modifier, error) {
	if len(expr.Children) != 2 {
		return ast.ModifierNone, fmt.Errorf("modifier expects one keyword at position %d", expr.Pos)
	}
	switch expr.Children[1].Value {
	case "static":
		return ast.ModifierStatic, nil
	case "stringifier":
		return ast.ModifierStringifier, nil
	default:
		return ast.ModifierNone, fmt.Errorf("unknown modifier keyword %q", expr.Children[1].Value)
	}
}

func parseType(expr *SExpr) (ast.TypeExpr, error) {
	if expr.IsAtom() {
		return &ast.NamedType{Name: expr.Value}, nil
	}
	switch expr.head() {
	case "sequence":
		if len(expr.Children) != 2 {
			return nil, fmt.Errorf("sequence expects one element type at position %d", expr.Pos)
		}
		elem, err := parseType(expr.Children[1])
		if err != nil {
			return nil, err
		}
		return &ast.SequenceType{Element: elem}, nil
	case "optional":
		if len(expr.Children) != 2 {
			return nil, fmt.Errorf("optional expects one inner type at position %d", expr.Pos)
		}
		inner, err := parseType(expr.Children[1])
		if err != nil {
			return nil, err
		}
		return &ast.NullableType{Inner: inner}, nil
	case "record":
		if len(expr.Children) != 3 {
			return nil, fmt.Errorf("record expects a key and a value type at position %d", expr.Pos)
		}
		key, err := parseType(expr.Children[1])
		if err != nil {
			return nil, err
		}
		value, err := parseType(expr.Children[2])
		if err != nil {
			return nil, err
		}
		return &ast.RecordType{Key: key, Value: value}, nil
	default:
		return nil, fmt.Errorf("unknown type expression %s", expr.Dump())
	}
}

func parseDefault(expr *SExpr) (*ast.Literal, error) {
	if len(expr.Children) != 2 || !expr.Children[1].IsAtom() {
		return nil, fmt.Errorf("default expects one literal at position %d", expr.Pos)
	}
	return parseLiteral(expr.Children[1]), nil
}

func parseLiteral(expr *SExpr) *ast.Literal {
	if expr.Quoted {
		return &ast.Literal{Kind: ast.LiteralString, Value: expr.Value}
	}
	switch v := expr.Value; {
	case v == "true" || v == "false":
		return &ast.Literal{Kind: ast.LiteralBoolean, Value: v}
	case v == "null":
		return &ast.Literal{Kind: ast.LiteralNull}
	case v == "[]":
		return &ast.Literal{Kind: ast.LiteralEmptySequence}
	case v == "{}":
		return &ast.Literal{Kind: ast.LiteralEmptyMap}
	case isNumeric(v):
		if strings.ContainsAny(v, ".eE") && !strings.HasPrefix(v, "0x") {
			return &ast.Literal{Kind: ast.LiteralFloat, Value: v}
		}
		return &ast.Literal{Kind: ast.LiteralInteger, Value: v}
	default:
		return &ast.Literal{Kind: ast.LiteralIdentifier, Value: v}
	}
}

func isNumeric(s string) bool {
	s = strings.TrimPrefix(s, "-")
	return s != "" && s[0] >= '0' && s[0] <= '9'
}
