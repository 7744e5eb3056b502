package model

import (
	"slices"
	"strings"

	"github.com/partite-ai/idlbind/ast"
	"github.com/partite-ai/idlbind/internal/logger"
)

// BuilderOption configures a Builder
type BuilderOption func(*Builder)

// WithStrictCallWith makes every [CallWith=...] relation that does not resolve
// to a delegate method a build error instead of a method without return or
// throws type.
func WithStrictCallWith() BuilderOption {
	return func(b *Builder) {
		b.strictCallWith = true
	}
}

// Builder constructs a ComponentInterface from a syntax tree
type Builder struct {
	strictCallWith bool
}

// NewBuilder creates a new model builder
func NewBuilder(opts ...BuilderOption) *Builder {
	b := &Builder{}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

// Build validates doc and returns its semantic model. The first failure stops
// the build and no model is returned.
func (b *Builder) Build(doc *ast.Document) (*ComponentInterface, error) {
	ci := newComponentInterface()

	// Names are registered up front so definitions may refer to types declared
	// later in the source.
	for _, def := range doc.Definitions {
		if err := b.registerDefinition(ci, def); err != nil {
			return nil, err
		}
	}
	if ci.namespace == "" {
		return nil, invalid("", "missing namespace definition")
	}

	for _, def := range doc.Definitions {
		if err := b.buildDefinition(ci, def); err != nil {
			return nil, err
		}
	}

	if err := b.checkConsistency(ci); err != nil {
		return nil, err
	}
	return ci, nil
}

func (b *Builder) registerDefinition(ci *ComponentInterface, def ast.Definition) error {
	switch d := def.(type) {
	case *ast.Namespace:
		if d.Identifier == "" {
			return invalid("", "anonymous namespaces are not supported")
		}
		if ci.namespace != "" {
			return duplicate(d.Identifier, "duplicate namespace definition: %s (already declared %s)", d.Identifier, ci.namespace)
		}
		ci.namespace = d.Identifier
		ci.version = d.Version
		return nil
	case *ast.Dictionary:
		if d.Identifier == "" {
			return invalid("", "anonymous dictionaries are not supported")
		}
		return ci.types.addTypeDefinition(d.Identifier, RecordType{Name: d.Identifier})
	case *ast.Enum:
		if d.Identifier == "" {
			return invalid("", "anonymous enums are not supported")
		}
		isError, err := parseEnumIsError(d.Identifier, d.Attributes)
		if err != nil {
			return err
		}
		if isError {
			return ci.types.addTypeDefinition(d.Identifier, ErrorType{Name: d.Identifier})
		}
		return ci.types.addTypeDefinition(d.Identifier, EnumType{Name: d.Identifier})
	case *ast.Interface:
		if d.Identifier == "" {
			return invalid("", "anonymous interfaces are not supported")
		}
		if d.Callback {
			return ci.types.addTypeDefinition(d.Identifier, CallbackInterfaceType{Name: d.Identifier})
		}
		attrs, err := parseInterfaceAttributes(d.Identifier, d.Attributes)
		if err != nil {
			return err
		}
		switch {
		case attrs.isEnum:
			return unsupported(d.Identifier, "interfaces marked [Enum] are not supported: %s", d.Identifier)
		case attrs.IsDelegate():
			return ci.types.addTypeDefinition(d.Identifier, DelegateObjectType{Name: d.Identifier})
		default:
			return ci.types.addTypeDefinition(d.Identifier, ObjectType{Name: d.Identifier})
		}
	default:
		return unsupported("", "unsupported definition type: %T", def)
	}
}

func (b *Builder) buildDefinition(ci *ComponentInterface, def ast.Definition) error {
	switch d := def.(type) {
	case *ast.Namespace:
		return b.buildNamespace(ci, d)
	case *ast.Dictionary:
		return b.buildRecord(ci, d)
	case *ast.Enum:
		return b.buildEnum(ci, d)
	case *ast.Interface:
		if d.Callback {
			return b.buildCallbackInterface(ci, d)
		}
		return b.buildInterface(ci, d)
	default:
		return unsupported("", "unsupported definition type: %T", def)
	}
}

func (b *Builder) buildNamespace(ci *ComponentInterface, ns *ast.Namespace) error {
	for _, op := range ns.Members {
		f, err := convertFunction(ci.types, op)
		if err != nil {
			return err
		}
		if err := ci.addFunctionDefinition(f); err != nil {
			return err
		}
		logger.LogDefinition("function", f.name)
	}
	return nil
}

func (b *Builder) buildRecord(ci *ComponentInterface, dict *ast.Dictionary) error {
	r, err := convertRecord(ci.types, dict)
	if err != nil {
		return err
	}
	if err := ci.addRecordDefinition(r); err != nil {
		return err
	}
	logger.LogDefinition("dictionary", r.name)
	return nil
}

func (b *Builder) buildEnum(ci *ComponentInterface, def *ast.Enum) error {
	if t, _ := ci.types.getTypeDefinition(def.Identifier); t == (ErrorType{Name: def.Identifier}) {
		e, err := convertErrorEnum(def)
		if err != nil {
			return err
		}
		if err := ci.addErrorDefinition(e); err != nil {
			return err
		}
		logger.LogDefinition("error", e.name)
		return nil
	}
	e, err := convertEnum(def)
	if err != nil {
		return err
	}
	if err := ci.addEnumDefinition(e); err != nil {
		return err
	}
	logger.LogDefinition("enum", e.name)
	return nil
}

func (b *Builder) buildInterface(ci *ComponentInterface, iface *ast.Interface) error {
	attrs, err := parseInterfaceAttributes(iface.Identifier, iface.Attributes)
	if err != nil {
		return err
	}
	if attrs.IsDelegate() {
		d, err := convertDelegate(ci.types, iface)
		if err != nil {
			return err
		}
		if err := ci.addDelegateDefinition(d); err != nil {
			return err
		}
		logger.LogDefinition("delegate", d.name)
		return nil
	}
	o, err := convertObject(ci.types, iface, attrs)
	if err != nil {
		return err
	}
	if err := ci.addObjectDefinition(o); err != nil {
		return err
	}
	logger.LogDefinition("interface", o.name)
	return nil
}

func (b *Builder) buildCallbackInterface(ci *ComponentInterface, iface *ast.Interface) error {
	cb, err := convertCallbackInterface(ci.types, iface)
	if err != nil {
		return err
	}
	if err := ci.addCallbackInterfaceDefinition(cb); err != nil {
		return err
	}
	logger.LogDefinition("callback interface", cb.name)
	return nil
}

// checkConsistency verifies the cross references that can only be checked once
// every definition is known.
func (b *Builder) checkConsistency(ci *ComponentInterface) error {
	checkThrows := func(owner, throws string) error {
		if throws == "" {
			return nil
		}
		if ci.errorsByName[throws] == nil {
			return newError(ErrTypeResolution, throws, "%s throws %q, which is not a declared error", owner, throws)
		}
		return nil
	}
	checkArgs := func(args []*Argument) error {
		for _, arg := range args {
			if err := checkEnumLiteral(ci, arg.defaultValue); err != nil {
				return err
			}
		}
		return nil
	}

	for _, f := range ci.functions {
		if err := checkThrows("function "+f.name, f.throws); err != nil {
			return err
		}
		if err := checkArgs(f.arguments); err != nil {
			return err
		}
	}
	for _, d := range ci.delegates {
		for _, m := range d.methods {
			if err := checkThrows("delegate method "+d.name+"."+m.name, m.Throws()); err != nil {
				return err
			}
		}
	}
	for _, cb := range ci.callbackInterfaces {
		for _, m := range cb.methods {
			if err := checkThrows("callback method "+cb.name+"."+m.name, m.Throws()); err != nil {
				return err
			}
			if err := checkArgs(m.arguments); err != nil {
				return err
			}
		}
	}
	for _, o := range ci.objects {
		if b.strictCallWith && o.delegateName != "" && ci.delegatesByName[o.delegateName] == nil {
			return newError(ErrTypeResolution, o.delegateName, "interface %s delegates to %q, which is not a declared delegate", o.name, o.delegateName)
		}
		for _, c := range o.constructors {
			if err := checkThrows("constructor "+o.name+"."+c.name, c.throws); err != nil {
				return err
			}
			if err := checkArgs(c.arguments); err != nil {
				return err
			}
		}
		for _, m := range o.methods {
			if err := checkThrows("method "+o.name+"."+m.name, m.Throws()); err != nil {
				return err
			}
			if err := checkArgs(m.arguments); err != nil {
				return err
			}
			if b.strictCallWith && m.CallWith() != "" {
				if _, ok := ci.ResolveCallWith(m); !ok {
					return newError(ErrTypeResolution, m.CallWith(), "method %s.%s calls with %q, which does not resolve to a delegate method", o.name, m.name, m.CallWith())
				}
			}
		}
	}
	for _, r := range ci.records {
		for _, f := range r.fields {
			if err := checkEnumLiteral(ci, f.defaultValue); err != nil {
				return err
			}
		}
	}
	return checkRecordCycles(ci)
}

// checkRecordCycles rejects records that contain themselves through required
// fields only. Such a record has no finite value; a cycle must pass through an
// optional, sequence or map.
func checkRecordCycles(ci *ComponentInterface) error {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[string]int, len(ci.records))
	var path []string

	var visit func(r *Record) error
	visit = func(r *Record) error {
		switch state[r.name] {
		case done:
			return nil
		case visiting:
			start := slices.Index(path, r.name)
			cycle := append(slices.Clone(path[start:]), r.name)
			return invalid(r.name, "record %s contains itself without an optional, sequence or map: %s", r.name, strings.Join(cycle, " -> "))
		}
		state[r.name] = visiting
		path = append(path, r.name)
		for _, f := range r.fields {
			rt, ok := f.typ.(RecordType)
			if !ok {
				continue
			}
			if next := ci.recordsByName[rt.Name]; next != nil {
				if err := visit(next); err != nil {
					return err
				}
			}
		}
		path = path[:len(path)-1]
		state[r.name] = done
		return nil
	}

	for _, r := range ci.records {
		if err := visit(r); err != nil {
			return err
		}
	}
	return nil
}

func checkEnumLiteral(ci *ComponentInterface, lit *Literal) error {
	if lit == nil || lit.Kind != LiteralEnum {
		return nil
	}
	t, ok := lit.Type.(EnumType)
	if !ok {
		return invalid(lit.Value, "enum literal %q has non-enum type %s", lit.Value, lit.Type)
	}
	e := ci.enumsByName[t.Name]
	if e == nil || !e.HasVariant(lit.Value) {
		return invalid(lit.Value, "%q is not a variant of enum %s", lit.Value, t.Name)
	}
	return nil
}
