package model

import (
	"testing"

	"github.com/partite-ai/idlbind/ast"
)

func TestCanonicalName(t *testing.T) {
	tests := []struct {
		typ  Type
		want string
	}{
		{UInt32, "u32"},
		{String, "string"},
		{Timestamp, "timestamp"},
		{RecordType{Name: "Point"}, "TypePoint"},
		{ObjectType{Name: "Example"}, "TypeExample"},
		{DelegateObjectType{Name: "Example"}, "DelegateExample"},
		{CallbackInterfaceType{Name: "Example"}, "CallbackInterfaceExample"},
		{OptionalType{Inner: EnumType{Name: "Color"}}, "OptionalTypeColor"},
		{SequenceType{Inner: OptionalType{Inner: Int32}}, "SequenceOptionali32"},
		{MapType{Key: String, Value: SequenceType{Inner: Float64}}, "MapstringSequencef64"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			if got := CanonicalName(tt.typ); got != tt.want {
				t.Errorf("CanonicalName(%v) = %q, want %q", tt.typ, got, tt.want)
			}
		})
	}
}

func TestCanonicalNamesDoNotCollide(t *testing.T) {
	types := []Type{
		ObjectType{Name: "X"},
		DelegateObjectType{Name: "X"},
		CallbackInterfaceType{Name: "X"},
	}
	seen := make(map[string]Type)
	for _, typ := range types {
		name := CanonicalName(typ)
		if other, ok := seen[name]; ok {
			t.Errorf("%v and %v share canonical name %q", typ, other, name)
		}
		seen[name] = typ
	}
}

func TestTypesAreComparable(t *testing.T) {
	a := MapType{Key: String, Value: OptionalType{Inner: RecordType{Name: "R"}}}
	b := MapType{Key: String, Value: OptionalType{Inner: RecordType{Name: "R"}}}
	if a != b {
		t.Fatalf("structurally equal types compare unequal")
	}
	m := map[Type]int{a: 1}
	if m[b] != 1 {
		t.Errorf("structurally equal types hash differently")
	}
}

func TestConvertLiteral(t *testing.T) {
	tests := []struct {
		name        string
		lit         *ast.Literal
		typ         Type
		wantKind    LiteralKind
		wantValue   string
		expectedErr string
	}{
		{"bool", &ast.Literal{Kind: ast.LiteralBoolean, Value: "true"}, Bool, LiteralBoolean, "true", ""},
		{"hex unsigned", &ast.Literal{Kind: ast.LiteralInteger, Value: "0x10"}, UInt16, LiteralUInt, "16", ""},
		{"negative signed", &ast.Literal{Kind: ast.LiteralInteger, Value: "-128"}, Int8, LiteralInt, "-128", ""},
		{"integer for float", &ast.Literal{Kind: ast.LiteralInteger, Value: "3"}, Float32, LiteralFloat, "3", ""},
		{"optional inner", &ast.Literal{Kind: ast.LiteralString, Value: "hi"}, OptionalType{Inner: String}, LiteralString, "hi", ""},
		{"negative unsigned", &ast.Literal{Kind: ast.LiteralInteger, Value: "-1"}, UInt8, 0, "", "not a valid u8"},
		{"null for non-optional", &ast.Literal{Kind: ast.LiteralNull}, String, 0, "", "not a valid string"},
		{"string for bool", &ast.Literal{Kind: ast.LiteralString, Value: "yes"}, Bool, 0, "", "not a valid bool"},
		{"empty map for sequence", &ast.Literal{Kind: ast.LiteralEmptyMap}, SequenceType{Inner: UInt8}, 0, "", "not a valid sequence<u8>"},
		{"float for integer", &ast.Literal{Kind: ast.LiteralFloat, Value: "1.5"}, Int32, 0, "", "not a valid i32"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := convertLiteral(tt.lit, tt.typ)
			if tt.expectedErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, but got nil", tt.expectedErr)
				}
				if !contains(err.Error(), tt.expectedErr) {
					t.Fatalf("expected error containing %q, but got: %v", tt.expectedErr, err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got.Kind != tt.wantKind || got.Value != tt.wantValue {
				t.Errorf("convertLiteral() = %+v, want kind %d value %q", got, tt.wantKind, tt.wantValue)
			}
		})
	}
}
