package kotlin

import (
	"fmt"

	"github.com/partite-ai/idlbind/backend"
	"github.com/partite-ai/idlbind/model"
)

// noImports is embedded by declarations that need no imports or
// initialization code.
type noImports struct{}

func (noImports) Imports(backend.CodeOracle) []string                 { return nil }
func (noImports) InitializationCode(backend.CodeOracle) (string, bool) { return "", false }

func labelOf(o backend.CodeOracle, t model.Type) string {
	if t == nil {
		return ""
	}
	return o.FindCodeType(t).TypeLabel(o)
}

func converterOf(o backend.CodeOracle, t model.Type) string {
	if t == nil {
		return ""
	}
	return converterName(o, t)
}

type recordDeclaration struct {
	noImports
	record *model.Record
}

type fieldView struct {
	Name      string
	Label     string
	Default   string
	Converter string
	Read      string
	Write     string
}

func (d *recordDeclaration) DefinitionCode(o backend.CodeOracle) (string, bool) {
	rt := d.record.Type()
	var fields []fieldView
	for _, f := range d.record.Fields() {
		ct := o.FindCodeType(f.Type())
		fv := fieldView{
			Name:      o.VarName(f.Name()),
			Label:     ct.TypeLabel(o),
			Converter: converterName(o, f.Type()),
			Read:      ct.Read(o, "buf"),
			Write:     ct.Write(o, "value."+o.VarName(f.Name()), "buf"),
		}
		if lit := f.Default(); lit != nil {
			fv.Default = ct.Literal(o, lit)
		}
		fields = append(fields, fv)
	}
	return render("RecordTemplate", map[string]any{
		"Name":      labelOf(o, rt),
		"Converter": converterOf(o, rt),
		"Fields":    fields,
	}), true
}

type enumDeclaration struct {
	noImports
	enum *model.Enum
}

func (d *enumDeclaration) DefinitionCode(o backend.CodeOracle) (string, bool) {
	var variants []string
	for _, v := range d.enum.Variants() {
		variants = append(variants, o.EnumVariantName(v))
	}
	return render("EnumTemplate", map[string]any{
		"Name":      labelOf(o, d.enum.Type()),
		"Converter": converterOf(o, d.enum.Type()),
		"Variants":  variants,
	}), true
}

type errorDeclaration struct {
	noImports
	err *model.ErrorEnum
}

func (d *errorDeclaration) DefinitionCode(o backend.CodeOracle) (string, bool) {
	var variants []string
	for _, v := range d.err.Variants() {
		variants = append(variants, o.ErrorName(v))
	}
	return render("ErrorTemplate", map[string]any{
		"Name":      labelOf(o, d.err.Type()),
		"Converter": converterOf(o, d.err.Type()),
		"Variants":  variants,
	}), true
}

type methodView struct {
	Name        string
	Params      string
	ReturnLabel string
	Throws      string
	Call        string
}

type objectDeclaration struct {
	noImports
	ci     *model.ComponentInterface
	object *model.Object
}

// DefinitionCode renders the object class. Methods with a call-with relation
// are declared with the return and throws types of the delegate method they
// call through.
func (d *objectDeclaration) DefinitionCode(o backend.CodeOracle) (string, bool) {
	obj := d.object
	var primary *methodView
	var secondary []methodView
	for _, c := range obj.Constructors() {
		cv := methodView{
			Name:   o.FunName(c.Name()),
			Params: argList(c.Arguments(), true),
			Throws: labelOf(o, c.ThrowsType()),
			Call:   rustCallExpr(constructorSymbol(d.ci, c), "", c.Arguments(), c.ThrowsType(), nil),
		}
		if c.IsPrimary() {
			primary = &cv
		} else {
			secondary = append(secondary, cv)
		}
	}
	var methods []methodView
	for _, m := range obj.Methods() {
		ret := d.ci.EffectiveReturnType(m)
		throws := d.ci.EffectiveThrowsType(m)
		methods = append(methods, methodView{
			Name:        o.FunName(m.Name()),
			Params:      argList(m.Arguments(), false),
			ReturnLabel: labelOf(o, ret),
			Throws:      labelOf(o, throws),
			Call:        rustCallExpr(methodSymbol(d.ci, m), "this.pointer", m.Arguments(), throws, ret),
		})
	}
	return render("ObjectTemplate", map[string]any{
		"Name":         labelOf(o, obj.Type()),
		"Converter":    converterOf(o, obj.Type()),
		"FreeSymbol":   objectFreeSymbol(d.ci, obj),
		"Primary":      primary,
		"Constructors": secondary,
		"Methods":      methods,
	}), true
}

type delegateMethodView struct {
	Name            string
	Invoke          string
	Index           int
	ReturnLabel     string
	ReturnConverter string
	Throws          string
	ThrowsConverter string
}

type delegateObjectDeclaration struct {
	ci       *model.ComponentInterface
	delegate *model.Delegate
}

func (d *delegateObjectDeclaration) converter(o backend.CodeOracle) string {
	return converterOf(o, d.delegate.Type())
}

func (d *delegateObjectDeclaration) Imports(backend.CodeOracle) []string {
	return []string{
		"java.util.concurrent.ConcurrentHashMap",
		"java.util.concurrent.atomic.AtomicBoolean",
		"java.util.concurrent.atomic.AtomicLong",
	}
}

// InitializationCode registers the delegate's converter with the library as
// soon as it is loaded, so no handle crosses the boundary before the library
// can call back into it.
func (d *delegateObjectDeclaration) InitializationCode(o backend.CodeOracle) (string, bool) {
	return fmt.Sprintf("%s.register(lib)", d.converter(o)), true
}

func (d *delegateObjectDeclaration) DefinitionCode(o backend.CodeOracle) (string, bool) {
	var methods []delegateMethodView
	for i, m := range d.delegate.Methods() {
		methods = append(methods, delegateMethodView{
			Name:            o.FunName(m.Name()),
			Invoke:          "invoke" + o.ClassName(m.Name()),
			Index:           i + 1,
			ReturnLabel:     labelOf(o, m.ReturnType()),
			ReturnConverter: converterOf(o, m.ReturnType()),
			Throws:          labelOf(o, m.ThrowsType()),
			ThrowsConverter: converterOf(o, m.ThrowsType()),
		})
	}
	return render("DelegateObjectTemplate", map[string]any{
		"Name":       labelOf(o, d.delegate.Type()),
		"Converter":  d.converter(o),
		"InitSymbol": initCallbackSymbol(d.ci, d.delegate.Name()),
		"Methods":    methods,
	}), true
}

type callbackMethodView struct {
	Name            string
	Invoke          string
	Index           int
	Params          string
	ReadArgs        []string
	ArgNames        string
	ReturnLabel     string
	ReturnConverter string
	Throws          string
	ThrowsConverter string
}

type callbackInterfaceDeclaration struct {
	ci       *model.ComponentInterface
	callback *model.CallbackInterface
}

func (d *callbackInterfaceDeclaration) converter(o backend.CodeOracle) string {
	return converterOf(o, d.callback.Type())
}

// Imports surfaces the lock used to serialize dispatch into the callback.
func (d *callbackInterfaceDeclaration) Imports(backend.CodeOracle) []string {
	return []string{
		"java.util.concurrent.locks.ReentrantLock",
		"kotlin.concurrent.withLock",
	}
}

func (d *callbackInterfaceDeclaration) InitializationCode(o backend.CodeOracle) (string, bool) {
	return fmt.Sprintf("%s.register(lib)", d.converter(o)), true
}

func (d *callbackInterfaceDeclaration) DefinitionCode(o backend.CodeOracle) (string, bool) {
	var methods []callbackMethodView
	for i, m := range d.callback.Methods() {
		var reads []string
		for _, arg := range m.Arguments() {
			reads = append(reads, fmt.Sprintf("val %s = %s", o.VarName(arg.Name()), o.FindCodeType(arg.Type()).Read(o, "argsBuf")))
		}
		methods = append(methods, callbackMethodView{
			Name:            o.FunName(m.Name()),
			Invoke:          "invoke" + o.ClassName(m.Name()),
			Index:           i + 1,
			Params:          argList(m.Arguments(), false),
			ReadArgs:        reads,
			ArgNames:        argNames(m.Arguments()),
			ReturnLabel:     labelOf(o, m.ReturnType()),
			ReturnConverter: converterOf(o, m.ReturnType()),
			Throws:          labelOf(o, m.ThrowsType()),
			ThrowsConverter: converterOf(o, m.ThrowsType()),
		})
	}
	return render("CallbackInterfaceTemplate", map[string]any{
		"Name":       labelOf(o, d.callback.Type()),
		"Converter":  d.converter(o),
		"InitSymbol": initCallbackSymbol(d.ci, d.callback.Name()),
		"Methods":    methods,
	}), true
}

// callbackInterfaceRuntime is the support code shared by all callback
// interfaces. It is only part of the unit when ci declares at least one.
type callbackInterfaceRuntime struct {
	isNeeded bool
}

func newCallbackInterfaceRuntime(ci *model.ComponentInterface) *callbackInterfaceRuntime {
	return &callbackInterfaceRuntime{isNeeded: ci.HasCallbackInterfaces()}
}

func (r *callbackInterfaceRuntime) Imports(backend.CodeOracle) []string {
	if !r.isNeeded {
		return nil
	}
	return []string{
		"java.util.concurrent.atomic.AtomicBoolean",
		"java.util.concurrent.atomic.AtomicLong",
	}
}

func (r *callbackInterfaceRuntime) InitializationCode(backend.CodeOracle) (string, bool) {
	return "", false
}

func (r *callbackInterfaceRuntime) DefinitionCode(backend.CodeOracle) (string, bool) {
	if !r.isNeeded {
		return "", false
	}
	return render("CallbackInterfaceRuntime", nil), true
}

type functionsDeclaration struct {
	noImports
	ci        *model.ComponentInterface
	functions []*model.Function
}

func (d *functionsDeclaration) DefinitionCode(o backend.CodeOracle) (string, bool) {
	var fns []methodView
	for _, f := range d.functions {
		fns = append(fns, methodView{
			Name:        o.FunName(f.Name()),
			Params:      argList(f.Arguments(), true),
			ReturnLabel: labelOf(o, f.ReturnType()),
			Throws:      labelOf(o, f.ThrowsType()),
			Call:        rustCallExpr(functionSymbol(d.ci, f), "", f.Arguments(), f.ThrowsType(), f.ReturnType()),
		})
	}
	return render("TopLevelFunctionsTemplate", fns), true
}
