package kotlin

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/partite-ai/idlbind/backend"
	"github.com/partite-ai/idlbind/model"
)

// variant is the category-specific half of a Kotlin code type. Conversions are
// shared: every type crosses the boundary through the converter object named
// FfiConverter<CanonicalName>.
type variant interface {
	typeLabel(o backend.CodeOracle) string
	canonicalName(o backend.CodeOracle) string
	literal(o backend.CodeOracle, lit *model.Literal) string
	helperCode(o backend.CodeOracle) (string, bool)
	// ffiType is the Kotlin type of a lowered value
	ffiType() string
}

type codeType struct {
	variant variant
}

var _ backend.CodeType = codeType{}

func (c codeType) TypeLabel(o backend.CodeOracle) string     { return c.variant.typeLabel(o) }
func (c codeType) CanonicalName(o backend.CodeOracle) string { return c.variant.canonicalName(o) }

func (c codeType) Literal(o backend.CodeOracle, lit *model.Literal) string {
	return c.variant.literal(o, lit)
}

func (c codeType) HelperCode(o backend.CodeOracle) (string, bool) { return c.variant.helperCode(o) }

func (c codeType) converter(o backend.CodeOracle) string {
	return "FfiConverter" + c.CanonicalName(o)
}

func (c codeType) Lower(o backend.CodeOracle, nm string) string {
	return fmt.Sprintf("%s.lower(%s)", c.converter(o), nm)
}

func (c codeType) Write(o backend.CodeOracle, nm, target string) string {
	return fmt.Sprintf("%s.write(%s, %s)", c.converter(o), nm, target)
}

func (c codeType) Lift(o backend.CodeOracle, nm string) string {
	return fmt.Sprintf("%s.lift(%s)", c.converter(o), nm)
}

func (c codeType) Read(o backend.CodeOracle, nm string) string {
	return fmt.Sprintf("%s.read(%s)", c.converter(o), nm)
}

func noLiteral(label string) string {
	panic(fmt.Sprintf("kotlin: %s has no literal representation", label))
}

func converterName(o backend.CodeOracle, t model.Type) string {
	return "FfiConverter" + o.FindCodeType(t).CanonicalName(o)
}

func ffiType(o backend.CodeOracle, t model.Type) string {
	if ct, ok := o.FindCodeType(t).(codeType); ok {
		return ct.variant.ffiType()
	}
	return "RustBuffer.ByValue"
}

// primitiveInfo describes how one scalar type is stored in a ByteBuffer.
type primitiveInfo struct {
	label   string
	ffi     string
	getter  string
	putter  string
	size    int
	lift    string
	lower   string
	literal string // format applied to the literal value; "" for none
}

var primitives = map[model.Primitive]primitiveInfo{
	model.Bool:    {"Boolean", "Byte", "get", "put", 1, "value.toInt() != 0", "if (value) 1.toByte() else 0.toByte()", ""},
	model.UInt8:   {"UByte", "Byte", "get", "put", 1, "value.toUByte()", "value.toByte()", "%s.toUByte()"},
	model.Int8:    {"Byte", "Byte", "get", "put", 1, "value", "value", "%s.toByte()"},
	model.UInt16:  {"UShort", "Short", "getShort", "putShort", 2, "value.toUShort()", "value.toShort()", "%s.toUShort()"},
	model.Int16:   {"Short", "Short", "getShort", "putShort", 2, "value", "value", "%s.toShort()"},
	model.UInt32:  {"UInt", "Int", "getInt", "putInt", 4, "value.toUInt()", "value.toInt()", "%su"},
	model.Int32:   {"Int", "Int", "getInt", "putInt", 4, "value", "value", "%s"},
	model.UInt64:  {"ULong", "Long", "getLong", "putLong", 8, "value.toULong()", "value.toLong()", "%suL"},
	model.Int64:   {"Long", "Long", "getLong", "putLong", 8, "value", "value", "%sL"},
	model.Float32: {"Float", "Float", "getFloat", "putFloat", 4, "value", "value", "%sf"},
	model.Float64: {"Double", "Double", "getDouble", "putDouble", 8, "value", "value", "%s"},
}

type primitiveCodeType struct {
	p model.Primitive
}

func (c *primitiveCodeType) typeLabel(backend.CodeOracle) string {
	if c.p == model.String {
		return "String"
	}
	return primitives[c.p].label
}

func (c *primitiveCodeType) canonicalName(o backend.CodeOracle) string { return c.typeLabel(o) }

func (c *primitiveCodeType) ffiType() string {
	if c.p == model.String {
		return "RustBuffer.ByValue"
	}
	return primitives[c.p].ffi
}

func (c *primitiveCodeType) literal(o backend.CodeOracle, lit *model.Literal) string {
	switch lit.Kind {
	case model.LiteralBoolean:
		return lit.Value
	case model.LiteralString:
		return stringLiteral(lit.Value)
	case model.LiteralInt, model.LiteralUInt:
		value := lit.Value
		if strings.HasPrefix(value, "-") && c.p.BitSize() < 32 {
			value = "(" + value + ")"
		}
		if c.p.IsFloat() {
			return floatLiteral(c.p, lit.Value)
		}
		return fmt.Sprintf(primitives[c.p].literal, value)
	case model.LiteralFloat:
		return floatLiteral(c.p, lit.Value)
	}
	return noLiteral(c.typeLabel(o))
}

func floatLiteral(p model.Primitive, value string) string {
	f, err := strconv.ParseFloat(value, p.BitSize())
	if err != nil {
		panic(fmt.Sprintf("kotlin: invalid float literal %q", value))
	}
	s := strconv.FormatFloat(f, 'g', -1, p.BitSize())
	if !strings.ContainsAny(s, ".eEIN") {
		s += ".0"
	}
	if p == model.Float32 {
		return s + "f"
	}
	return s
}

// stringLiteral quotes s as a Kotlin string literal. Dollar signs are escaped
// so they are not read as templates.
func stringLiteral(s string) string {
	var sb strings.Builder
	sb.WriteByte('"')
	for _, r := range s {
		switch r {
		case '"':
			sb.WriteString(`\"`)
		case '\\':
			sb.WriteString(`\\`)
		case '$':
			sb.WriteString(`\$`)
		case '\n':
			sb.WriteString(`\n`)
		case '\r':
			sb.WriteString(`\r`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&sb, `\u%04x`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('"')
	return sb.String()
}

func (c *primitiveCodeType) helperCode(o backend.CodeOracle) (string, bool) {
	if c.p == model.String {
		return render("StringHelper", nil), true
	}
	info := primitives[c.p]
	return render("ScalarHelper", scalarHelperData{
		Converter: "FfiConverter" + c.canonicalName(o),
		Label:     info.label,
		FfiType:   info.ffi,
		Getter:    info.getter,
		Putter:    info.putter,
		Size:      info.size,
		LiftExpr:  info.lift,
		LowerExpr: info.lower,
	}), true
}

type scalarHelperData struct {
	Converter string
	Label     string
	FfiType   string
	Getter    string
	Putter    string
	Size      int
	LiftExpr  string
	LowerExpr string
}

type timestampCodeType struct{}

func (*timestampCodeType) typeLabel(backend.CodeOracle) string     { return "java.time.Instant" }
func (*timestampCodeType) canonicalName(backend.CodeOracle) string { return "Timestamp" }
func (*timestampCodeType) ffiType() string                         { return "RustBuffer.ByValue" }

func (c *timestampCodeType) literal(o backend.CodeOracle, _ *model.Literal) string {
	return noLiteral(c.typeLabel(o))
}

func (*timestampCodeType) helperCode(backend.CodeOracle) (string, bool) {
	return render("TimestampHelper", nil), true
}

type durationCodeType struct{}

func (*durationCodeType) typeLabel(backend.CodeOracle) string     { return "java.time.Duration" }
func (*durationCodeType) canonicalName(backend.CodeOracle) string { return "Duration" }
func (*durationCodeType) ffiType() string                         { return "RustBuffer.ByValue" }

func (c *durationCodeType) literal(o backend.CodeOracle, _ *model.Literal) string {
	return noLiteral(c.typeLabel(o))
}

func (*durationCodeType) helperCode(backend.CodeOracle) (string, bool) {
	return render("DurationHelper", nil), true
}

type optionalCodeType struct {
	inner model.Type
}

func (c *optionalCodeType) typeLabel(o backend.CodeOracle) string {
	return o.FindCodeType(c.inner).TypeLabel(o) + "?"
}

func (c *optionalCodeType) canonicalName(o backend.CodeOracle) string {
	return "Optional" + o.FindCodeType(c.inner).CanonicalName(o)
}

func (*optionalCodeType) ffiType() string { return "RustBuffer.ByValue" }

func (c *optionalCodeType) literal(o backend.CodeOracle, lit *model.Literal) string {
	if lit.Kind == model.LiteralNull {
		return "null"
	}
	return o.FindCodeType(c.inner).Literal(o, lit)
}

func (c *optionalCodeType) helperCode(o backend.CodeOracle) (string, bool) {
	return render("OptionalHelper", compoundHelperData{
		Converter:      "FfiConverter" + c.canonicalName(o),
		Label:          c.typeLabel(o),
		InnerLabel:     o.FindCodeType(c.inner).TypeLabel(o),
		InnerConverter: converterName(o, c.inner),
	}), true
}

type sequenceCodeType struct {
	inner model.Type
}

func (c *sequenceCodeType) typeLabel(o backend.CodeOracle) string {
	return "List<" + o.FindCodeType(c.inner).TypeLabel(o) + ">"
}

func (c *sequenceCodeType) canonicalName(o backend.CodeOracle) string {
	return "Sequence" + o.FindCodeType(c.inner).CanonicalName(o)
}

func (*sequenceCodeType) ffiType() string { return "RustBuffer.ByValue" }

func (c *sequenceCodeType) literal(o backend.CodeOracle, lit *model.Literal) string {
	if lit.Kind == model.LiteralEmptySequence {
		return "listOf()"
	}
	return noLiteral(c.typeLabel(o))
}

func (c *sequenceCodeType) helperCode(o backend.CodeOracle) (string, bool) {
	return render("SequenceHelper", compoundHelperData{
		Converter:      "FfiConverter" + c.canonicalName(o),
		Label:          c.typeLabel(o),
		InnerLabel:     o.FindCodeType(c.inner).TypeLabel(o),
		InnerConverter: converterName(o, c.inner),
	}), true
}

type mapCodeType struct {
	key, value model.Type
}

func (c *mapCodeType) typeLabel(o backend.CodeOracle) string {
	return fmt.Sprintf("Map<%s, %s>", o.FindCodeType(c.key).TypeLabel(o), o.FindCodeType(c.value).TypeLabel(o))
}

func (c *mapCodeType) canonicalName(o backend.CodeOracle) string {
	return "Map" + o.FindCodeType(c.key).CanonicalName(o) + o.FindCodeType(c.value).CanonicalName(o)
}

func (*mapCodeType) ffiType() string { return "RustBuffer.ByValue" }

func (c *mapCodeType) literal(o backend.CodeOracle, lit *model.Literal) string {
	if lit.Kind == model.LiteralEmptyMap {
		return "mapOf()"
	}
	return noLiteral(c.typeLabel(o))
}

func (c *mapCodeType) helperCode(o backend.CodeOracle) (string, bool) {
	return render("MapHelper", compoundHelperData{
		Converter:      "FfiConverter" + c.canonicalName(o),
		Label:          c.typeLabel(o),
		KeyLabel:       o.FindCodeType(c.key).TypeLabel(o),
		ValueLabel:     o.FindCodeType(c.value).TypeLabel(o),
		KeyConverter:   converterName(o, c.key),
		ValueConverter: converterName(o, c.value),
	}), true
}

type compoundHelperData struct {
	Converter      string
	Label          string
	InnerLabel     string
	InnerConverter string
	KeyLabel       string
	ValueLabel     string
	KeyConverter   string
	ValueConverter string
}

// Records, enums, errors and objects render their converters with their
// declarations, so they have no helper code of their own.

type recordCodeType struct{ id string }

func (c *recordCodeType) typeLabel(o backend.CodeOracle) string     { return o.ClassName(c.id) }
func (c *recordCodeType) canonicalName(o backend.CodeOracle) string { return "Type" + c.typeLabel(o) }
func (*recordCodeType) ffiType() string                             { return "RustBuffer.ByValue" }
func (*recordCodeType) helperCode(backend.CodeOracle) (string, bool) {
	return "", false
}

func (c *recordCodeType) literal(o backend.CodeOracle, _ *model.Literal) string {
	return noLiteral(c.typeLabel(o))
}

type enumCodeType struct{ id string }

func (c *enumCodeType) typeLabel(o backend.CodeOracle) string     { return o.ClassName(c.id) }
func (c *enumCodeType) canonicalName(o backend.CodeOracle) string { return "Type" + c.typeLabel(o) }
func (*enumCodeType) ffiType() string                             { return "RustBuffer.ByValue" }
func (*enumCodeType) helperCode(backend.CodeOracle) (string, bool) {
	return "", false
}

func (c *enumCodeType) literal(o backend.CodeOracle, lit *model.Literal) string {
	if lit.Kind != model.LiteralEnum {
		return noLiteral(c.typeLabel(o))
	}
	return c.typeLabel(o) + "." + o.EnumVariantName(lit.Value)
}

type errorCodeType struct{ id string }

func (c *errorCodeType) typeLabel(o backend.CodeOracle) string     { return o.ErrorName(c.id) }
func (c *errorCodeType) canonicalName(o backend.CodeOracle) string { return "Type" + c.typeLabel(o) }
func (*errorCodeType) ffiType() string                             { return "RustBuffer.ByValue" }
func (*errorCodeType) helperCode(backend.CodeOracle) (string, bool) {
	return "", false
}

func (c *errorCodeType) literal(o backend.CodeOracle, _ *model.Literal) string {
	return noLiteral(c.typeLabel(o))
}

type objectCodeType struct{ id string }

func (c *objectCodeType) typeLabel(o backend.CodeOracle) string     { return o.ClassName(c.id) }
func (c *objectCodeType) canonicalName(o backend.CodeOracle) string { return "Type" + c.typeLabel(o) }
func (*objectCodeType) ffiType() string                             { return "Pointer" }
func (*objectCodeType) helperCode(backend.CodeOracle) (string, bool) {
	return "", false
}

func (c *objectCodeType) literal(o backend.CodeOracle, _ *model.Literal) string {
	return noLiteral(c.typeLabel(o))
}

// delegateObjectCodeType and callbackInterfaceCodeType cross the boundary as
// opaque handles. Their converters must be registered with the native
// library before first use; see the declarations.

type delegateObjectCodeType struct{ id string }

func (c *delegateObjectCodeType) typeLabel(o backend.CodeOracle) string { return o.ClassName(c.id) }
func (c *delegateObjectCodeType) canonicalName(o backend.CodeOracle) string {
	return "Delegate" + c.typeLabel(o)
}
func (*delegateObjectCodeType) ffiType() string { return "Long" }

func (c *delegateObjectCodeType) literal(o backend.CodeOracle, _ *model.Literal) string {
	return noLiteral(c.typeLabel(o))
}

func (c *delegateObjectCodeType) helperCode(o backend.CodeOracle) (string, bool) {
	return fmt.Sprintf("// Helper code for %s delegate is found in DelegateObjectTemplate.kt", c.typeLabel(o)), true
}

type callbackInterfaceCodeType struct{ id string }

func (c *callbackInterfaceCodeType) typeLabel(o backend.CodeOracle) string { return o.ClassName(c.id) }
func (c *callbackInterfaceCodeType) canonicalName(o backend.CodeOracle) string {
	return "CallbackInterface" + c.typeLabel(o)
}
func (*callbackInterfaceCodeType) ffiType() string { return "Long" }

func (c *callbackInterfaceCodeType) literal(o backend.CodeOracle, _ *model.Literal) string {
	return noLiteral(c.typeLabel(o))
}

func (c *callbackInterfaceCodeType) helperCode(o backend.CodeOracle) (string, bool) {
	return fmt.Sprintf("// Helper code for %s callback interface is found in CallbackInterfaceTemplate.kt", c.typeLabel(o)), true
}
