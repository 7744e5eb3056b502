package kotlin

import (
	"fmt"
	"strings"
	"unicode"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/partite-ai/idlbind/backend"
	"github.com/partite-ai/idlbind/model"
)

var (
	titleCaser = cases.Title(language.Und, cases.NoLower)
	upperCaser = cases.Upper(language.Und)
	lowerCaser = cases.Lower(language.Und)
)

var keywords = map[string]struct{}{
	"as": {}, "break": {}, "class": {}, "continue": {}, "do": {}, "else": {}, "false": {},
	"for": {}, "fun": {}, "if": {}, "in": {}, "interface": {}, "is": {}, "null": {},
	"object": {}, "package": {}, "return": {}, "super": {}, "this": {}, "throw": {},
	"true": {}, "try": {}, "typealias": {}, "typeof": {}, "val": {}, "var": {}, "when": {},
	"while": {},
}

// CodeOracle is the Kotlin implementation of backend.CodeOracle.
type CodeOracle struct{}

var _ backend.CodeOracle = CodeOracle{}

// FindCodeType maps a model type to its Kotlin code type.
func (o CodeOracle) FindCodeType(t model.Type) backend.CodeType {
	switch t := t.(type) {
	case model.Primitive:
		switch t {
		case model.Timestamp:
			return codeType{&timestampCodeType{}}
		case model.Duration:
			return codeType{&durationCodeType{}}
		}
		return codeType{&primitiveCodeType{p: t}}
	case model.RecordType:
		return codeType{&recordCodeType{id: t.Name}}
	case model.EnumType:
		return codeType{&enumCodeType{id: t.Name}}
	case model.ErrorType:
		return codeType{&errorCodeType{id: t.Name}}
	case model.ObjectType:
		return codeType{&objectCodeType{id: t.Name}}
	case model.DelegateObjectType:
		return codeType{&delegateObjectCodeType{id: t.Name}}
	case model.CallbackInterfaceType:
		return codeType{&callbackInterfaceCodeType{id: t.Name}}
	case model.OptionalType:
		return codeType{&optionalCodeType{inner: t.Inner}}
	case model.SequenceType:
		return codeType{&sequenceCodeType{inner: t.Inner}}
	case model.MapType:
		return codeType{&mapCodeType{key: t.Key, value: t.Value}}
	default:
		panic(fmt.Sprintf("kotlin: no code type for %T", t))
	}
}

// ClassName is UpperCamelCase.
func (CodeOracle) ClassName(nm string) string {
	var sb strings.Builder
	for _, part := range splitWords(nm) {
		sb.WriteString(titleCaser.String(part))
	}
	return sb.String()
}

// FunName is lowerCamelCase.
func (o CodeOracle) FunName(nm string) string {
	return escapeKeyword(lowerFirst(o.ClassName(nm)))
}

func (o CodeOracle) VarName(nm string) string {
	return escapeKeyword(lowerFirst(o.ClassName(nm)))
}

// EnumVariantName is SHOUTY_SNAKE_CASE.
func (CodeOracle) EnumVariantName(nm string) string {
	return upperCaser.String(strings.Join(splitWords(nm), "_"))
}

// ErrorName renames a trailing "Error" to "Exception", the Kotlin convention.
func (o CodeOracle) ErrorName(nm string) string {
	name := o.ClassName(nm)
	if base, ok := strings.CutSuffix(name, "Error"); ok && base != "" {
		return base + "Exception"
	}
	return name
}

// splitWords splits snake_case and camelCase identifiers into words.
func splitWords(nm string) []string {
	var words []string
	var current []rune
	runes := []rune(nm)
	flush := func() {
		if len(current) > 0 {
			words = append(words, string(current))
			current = current[:0]
		}
	}
	for i, r := range runes {
		switch {
		case r == '_' || r == '-' || r == ' ':
			flush()
			continue
		case unicode.IsUpper(r) && i > 0:
			prev := runes[i-1]
			nextLower := i+1 < len(runes) && unicode.IsLower(runes[i+1])
			if unicode.IsLower(prev) || unicode.IsDigit(prev) || (unicode.IsUpper(prev) && nextLower) {
				flush()
			}
		}
		current = append(current, r)
	}
	flush()
	return words
}

func lowerFirst(s string) string {
	for i, r := range s {
		return lowerCaser.String(string(r)) + s[i+len(string(r)):]
	}
	return s
}

func escapeKeyword(nm string) string {
	if _, ok := keywords[nm]; ok {
		return "`" + nm + "`"
	}
	return nm
}
