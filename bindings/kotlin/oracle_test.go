package kotlin

import (
	"testing"

	"github.com/partite-ai/idlbind/model"
)

func TestNaming(t *testing.T) {
	tests := []struct {
		name string
		fn   func(string) string
		in   string
		want string
	}{
		{"class from snake", oracle.ClassName, "callback_interface", "CallbackInterface"},
		{"class keeps acronyms", oracle.ClassName, "HTTPClient", "HTTPClient"},
		{"class from camel", oracle.ClassName, "fooBar", "FooBar"},
		{"fun from snake", oracle.FunName, "on_shape", "onShape"},
		{"fun escapes keywords", oracle.FunName, "object", "`object`"},
		{"var from upper camel", oracle.VarName, "ListenerCount", "listenerCount"},
		{"var escapes keywords", oracle.VarName, "in", "`in`"},
		{"variant from camel", oracle.EnumVariantName, "DarkBlue", "DARK_BLUE"},
		{"variant from snake", oracle.EnumVariantName, "dark_blue", "DARK_BLUE"},
		{"error suffix renamed", oracle.ErrorName, "ParseError", "ParseException"},
		{"bare error kept", oracle.ErrorName, "Error", "Error"},
		{"error without suffix", oracle.ErrorName, "Failure", "Failure"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.fn(tt.in); got != tt.want {
				t.Errorf("got %q, want %q", got, tt.want)
			}
		})
	}
}

func TestCodeTypeNames(t *testing.T) {
	tests := []struct {
		typ       model.Type
		label     string
		canonical string
	}{
		{model.UInt32, "UInt", "UInt"},
		{model.String, "String", "String"},
		{model.Timestamp, "java.time.Instant", "Timestamp"},
		{model.RecordType{Name: "shape"}, "Shape", "TypeShape"},
		{model.ErrorType{Name: "ParseError"}, "ParseException", "TypeParseException"},
		{model.ObjectType{Name: "Canvas"}, "Canvas", "TypeCanvas"},
		{model.DelegateObjectType{Name: "Backend"}, "Backend", "DelegateBackend"},
		{model.CallbackInterfaceType{Name: "Listener"}, "Listener", "CallbackInterfaceListener"},
		{model.OptionalType{Inner: model.String}, "String?", "OptionalString"},
		{model.SequenceType{Inner: model.Int64}, "List<Long>", "SequenceLong"},
		{model.MapType{Key: model.String, Value: model.Bool}, "Map<String, Boolean>", "MapStringBoolean"},
	}
	for _, tt := range tests {
		t.Run(model.CanonicalName(tt.typ), func(t *testing.T) {
			ct := oracle.FindCodeType(tt.typ)
			if got := ct.TypeLabel(oracle); got != tt.label {
				t.Errorf("TypeLabel() = %q, want %q", got, tt.label)
			}
			if got := ct.CanonicalName(oracle); got != tt.canonical {
				t.Errorf("CanonicalName() = %q, want %q", got, tt.canonical)
			}
		})
	}
}

func TestConversionsRouteThroughConverter(t *testing.T) {
	for _, typ := range []model.Type{
		model.DelegateObjectType{Name: "Backend"},
		model.CallbackInterfaceType{Name: "Listener"},
	} {
		ct := oracle.FindCodeType(typ)
		conv := "FfiConverter" + ct.CanonicalName(oracle)
		checks := map[string]string{
			ct.Lower(oracle, "v"):        conv + ".lower(v)",
			ct.Write(oracle, "v", "buf"): conv + ".write(v, buf)",
			ct.Lift(oracle, "raw"):       conv + ".lift(raw)",
			ct.Read(oracle, "buf"):       conv + ".read(buf)",
		}
		for got, want := range checks {
			if got != want {
				t.Errorf("%s: got %q, want %q", conv, got, want)
			}
		}
		helper, ok := ct.HelperCode(oracle)
		if !ok || helper == "" {
			t.Errorf("%s: expected helper code", conv)
		}
	}
}

func TestLiterals(t *testing.T) {
	tests := []struct {
		name string
		typ  model.Type
		lit  model.Literal
		want string
	}{
		{"negative byte", model.Int8, model.Literal{Kind: model.LiteralInt, Value: "-1"}, "(-1).toByte()"},
		{"unsigned int", model.UInt32, model.Literal{Kind: model.LiteralUInt, Value: "5"}, "5u"},
		{"long", model.Int64, model.Literal{Kind: model.LiteralInt, Value: "7"}, "7L"},
		{"float from integer", model.Float32, model.Literal{Kind: model.LiteralInt, Value: "1"}, "1.0f"},
		{"double", model.Float64, model.Literal{Kind: model.LiteralFloat, Value: "2.5"}, "2.5"},
		{"boolean", model.Bool, model.Literal{Kind: model.LiteralBoolean, Value: "true"}, "true"},
		{"string escapes dollar", model.String, model.Literal{Kind: model.LiteralString, Value: `a$b"c`}, `"a\$b\"c"`},
		{"optional null", model.OptionalType{Inner: model.String}, model.Literal{Kind: model.LiteralNull}, "null"},
		{"optional value", model.OptionalType{Inner: model.UInt8}, model.Literal{Kind: model.LiteralUInt, Value: "3"}, "3.toUByte()"},
		{"empty sequence", model.SequenceType{Inner: model.String}, model.Literal{Kind: model.LiteralEmptySequence}, "listOf()"},
		{"empty map", model.MapType{Key: model.String, Value: model.String}, model.Literal{Kind: model.LiteralEmptyMap}, "mapOf()"},
		{"enum variant", model.EnumType{Name: "Kind"}, model.Literal{Kind: model.LiteralEnum, Value: "Square"}, "Kind.SQUARE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			lit := tt.lit
			if got := oracle.FindCodeType(tt.typ).Literal(oracle, &lit); got != tt.want {
				t.Errorf("Literal() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestLiteralPanicsForLiteralLessTypes(t *testing.T) {
	lit := &model.Literal{Kind: model.LiteralNull}
	for _, typ := range []model.Type{
		model.RecordType{Name: "R"},
		model.ErrorType{Name: "E"},
		model.ObjectType{Name: "O"},
		model.DelegateObjectType{Name: "D"},
		model.CallbackInterfaceType{Name: "L"},
		model.Timestamp,
		model.Duration,
	} {
		t.Run(model.CanonicalName(typ), func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Errorf("expected Literal to panic")
				}
			}()
			oracle.FindCodeType(typ).Literal(oracle, lit)
		})
	}
}
