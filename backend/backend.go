// Package backend defines the Conversion Contract shared by every target
// language: how each semantic type is named, rendered as a literal, and moved
// across the FFI boundary.
package backend

import (
	"github.com/partite-ai/idlbind/model"
)

// CodeOracle answers target-language questions for a backend. FindCodeType
// dispatches on the closed set of model types.
type CodeOracle interface {
	FindCodeType(t model.Type) CodeType

	// ClassName returns the target-language class name for an IDL identifier
	ClassName(nm string) string
	// FunName returns the target-language function name for an IDL identifier
	FunName(nm string) string
	// VarName returns the target-language variable name for an IDL identifier
	VarName(nm string) string
	EnumVariantName(nm string) string
	// ErrorName returns the class name of one error variant
	ErrorName(nm string) string
}

// CodeType describes one semantic type in the target language.
//
// For every legal value v, Lift(Lower(v)) must reproduce v, and Read applied
// to a stream positioned right after Write(v) must reproduce v and leave the
// stream positioned just past it.
type CodeType interface {
	// TypeLabel is the name used in declarations
	TypeLabel(o CodeOracle) string
	// CanonicalName uniquely names the type's generated helpers
	CanonicalName(o CodeOracle) string
	// Literal renders a default value. It panics for types that cannot have
	// literals; callers only reach it through literals the model validated.
	Literal(o CodeOracle, lit *model.Literal) string

	Lower(o CodeOracle, nm string) string
	Write(o CodeOracle, nm, target string) string
	Lift(o CodeOracle, nm string) string
	Read(o CodeOracle, nm string) string

	// HelperCode returns support code needed once per generated unit
	HelperCode(o CodeOracle) (string, bool)
}

// CodeDeclaration is a top-level item of the generated unit.
type CodeDeclaration interface {
	// Imports lists the symbols the definition code refers to
	Imports(o CodeOracle) []string
	// InitializationCode runs once when the native library is loaded, before
	// any call crosses the boundary
	InitializationCode(o CodeOracle) (string, bool)
	DefinitionCode(o CodeOracle) (string, bool)
}
