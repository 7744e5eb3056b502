// Package kotlin generates Kotlin bindings for a component interface.
package kotlin

import (
	"bytes"
	"embed"
	"fmt"
	"slices"
	"strings"
	"text/template"

	"github.com/partite-ai/idlbind/backend"
	"github.com/partite-ai/idlbind/model"
)

//go:embed templates/*.kt
var templateFS embed.FS

var oracle = CodeOracle{}

// Declarations precompute everything they render, so templates only need
// to number variants.
var templates = template.Must(template.New("kotlin").Funcs(template.FuncMap{
	"inc": func(i int) int { return i + 1 },
}).ParseFS(templateFS, "templates/*.kt"))

func render(name string, data any) string {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		panic(fmt.Sprintf("kotlin: rendering %s: %v", name, err))
	}
	return buf.String()
}

// Generator renders Kotlin bindings.
type Generator struct{}

func init() {
	backend.Register(Generator{})
}

func (Generator) Language() string      { return "kotlin" }
func (Generator) FileExtension() string { return ".kt" }

type wrapperData struct {
	PackageName        string
	LibraryName        string
	AllocSymbol        string
	FreeSymbol         string
	Imports            []string
	InitializationCode []string
	FfiFunctions       []string
	Helpers            []backend.Helper
	Definitions        []string
}

// Generate renders the complete Kotlin source for ci.
func (g Generator) Generate(ci *model.ComponentInterface, opts backend.Options) ([]byte, error) {
	defaults := backend.DefaultOptions(ci)
	if opts.PackageName == "" {
		opts.PackageName = defaults.PackageName
	}
	if opts.LibraryName == "" {
		opts.LibraryName = defaults.LibraryName
	}

	decls := Declarations(ci)
	data := wrapperData{
		PackageName:        opts.PackageName,
		LibraryName:        opts.LibraryName,
		AllocSymbol:        rustBufferAllocSymbol(ci),
		FreeSymbol:         rustBufferFreeSymbol(ci),
		Imports:            backend.CollectImports(oracle, decls),
		InitializationCode: backend.CollectInitializationCode(oracle, decls),
		FfiFunctions:       ffiFunctions(ci),
		Helpers:            backend.CollectHelpers(oracle, helperTypes(ci)),
		Definitions:        backend.CollectDefinitionCode(oracle, decls),
	}

	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, "wrapper", data); err != nil {
		return nil, fmt.Errorf("failed to render kotlin bindings for %s: %w", ci.Namespace(), err)
	}
	return buf.Bytes(), nil
}

// helperTypes is every type of ci plus the types the generated runtime itself
// relies on.
func helperTypes(ci *model.ComponentInterface) []model.Type {
	types := ci.Types()
	if len(ci.ErrorDefinitions()) > 0 && !slices.Contains(types, model.Type(model.String)) {
		types = append(types, model.String)
	}
	return types
}

// Declarations returns the top-level declarations of ci in emission order.
func Declarations(ci *model.ComponentInterface) []backend.CodeDeclaration {
	decls := []backend.CodeDeclaration{newCallbackInterfaceRuntime(ci)}
	for _, r := range ci.RecordDefinitions() {
		decls = append(decls, &recordDeclaration{record: r})
	}
	for _, e := range ci.EnumDefinitions() {
		decls = append(decls, &enumDeclaration{enum: e})
	}
	for _, e := range ci.ErrorDefinitions() {
		decls = append(decls, &errorDeclaration{err: e})
	}
	for _, o := range ci.ObjectDefinitions() {
		decls = append(decls, &objectDeclaration{ci: ci, object: o})
	}
	for _, d := range ci.DelegateDefinitions() {
		decls = append(decls, &delegateObjectDeclaration{ci: ci, delegate: d})
	}
	for _, cb := range ci.CallbackInterfaceDefinitions() {
		decls = append(decls, &callbackInterfaceDeclaration{ci: ci, callback: cb})
	}
	if fns := ci.FunctionDefinitions(); len(fns) > 0 {
		decls = append(decls, &functionsDeclaration{ci: ci, functions: fns})
	}
	return decls
}

// argList renders a parameter list. Defaults are only legal where the
// declaration is not an override.
func argList(args []*model.Argument, withDefaults bool) string {
	parts := make([]string, 0, len(args))
	for _, arg := range args {
		s := oracle.VarName(arg.Name()) + ": " + oracle.FindCodeType(arg.Type()).TypeLabel(oracle)
		if lit := arg.Default(); withDefaults && lit != nil {
			s += " = " + oracle.FindCodeType(arg.Type()).Literal(oracle, lit)
		}
		parts = append(parts, s)
	}
	return strings.Join(parts, ", ")
}

func argNames(args []*model.Argument) string {
	names := make([]string, 0, len(args))
	for _, arg := range args {
		names = append(names, oracle.VarName(arg.Name()))
	}
	return strings.Join(names, ", ")
}
