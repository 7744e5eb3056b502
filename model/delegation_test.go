package model

import (
	"errors"
	"testing"

	"github.com/partite-ai/idlbind/parser"
)

func TestEffectiveTypes(t *testing.T) {
	tests := []struct {
		name       string
		source     string
		object     string
		method     string
		wantReturn Type
		wantThrows Type
	}{
		{
			name: "delegate method declares neither",
			source: `(namespace test)
(interface D (attr Delegate) (operation f))
(interface O (attr Delegate D) (operation g (attr CallWith f)))`,
			object: "O",
			method: "g",
		},
		{
			name: "throws comes from the delegate method",
			source: `(namespace test)
(interface D (attr Delegate) (operation f (attr Throws E)))
(interface O (attr Delegate D) (operation g (attr CallWith f)))
(enum E (attr Error) Timeout Cancelled)`,
			object:     "O",
			method:     "g",
			wantThrows: ErrorType{Name: "E"},
		},
		{
			name: "composite return type is inherited",
			source: `(namespace test)
(interface D (attr Delegate) (operation f (returns (sequence (optional i32)))))
(interface O (attr Delegate D) (operation g (attr CallWith f)))`,
			object:     "O",
			method:     "g",
			wantReturn: SequenceType{Inner: OptionalType{Inner: Int32}},
		},
		{
			name: "own declaration is ignored",
			source: `(namespace test)
(enum Own (attr Error) A)
(interface D (attr Delegate) (operation f (returns u8)))
(interface O (attr Delegate D) (operation g (attr CallWith f) (attr Throws Own) (returns string)))`,
			object:     "O",
			method:     "g",
			wantReturn: UInt8,
		},
		{
			name: "missing delegate method",
			source: `(namespace test)
(interface D (attr Delegate) (operation f (returns u8)))
(interface O (attr Delegate D) (operation g (attr CallWith missing) (returns string)))`,
			object: "O",
			method: "g",
		},
		{
			name: "missing delegate",
			source: `(namespace test)
(interface O (attr Delegate Nowhere) (operation g (attr CallWith f) (returns string)))`,
			object: "O",
			method: "g",
		},
		{
			name: "object without a delegate",
			source: `(namespace test)
(interface D (attr Delegate) (operation f (returns u8)))
(interface O (operation g (attr CallWith f) (returns string)))`,
			object: "O",
			method: "g",
		},
		{
			name: "method without call-with keeps its declaration",
			source: `(namespace test)
(enum Failure (attr Error) A)
(interface O (operation g (attr Throws Failure) (returns (record string u64))))`,
			object:     "O",
			method:     "g",
			wantReturn: MapType{Key: String, Value: UInt64},
			wantThrows: ErrorType{Name: "Failure"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ci := mustBuild(t, tt.source)
			m := ci.GetObjectDefinition(tt.object).FindMethod(tt.method)
			if m == nil {
				t.Fatalf("method %s.%s not found", tt.object, tt.method)
			}
			for i := 0; i < 3; i++ {
				if got := ci.EffectiveReturnType(m); got != tt.wantReturn {
					t.Errorf("EffectiveReturnType() = %v, want %v", got, tt.wantReturn)
				}
				if got := ci.EffectiveThrowsType(m); got != tt.wantThrows {
					t.Errorf("EffectiveThrowsType() = %v, want %v", got, tt.wantThrows)
				}
			}
		})
	}
}

func TestDelegateMethodReturnTypeResolution(t *testing.T) {
	ci := mustBuild(t, `(namespace test)
(interface D (attr Delegate) (operation f (returns (sequence (optional i32)))))`)
	got := ci.GetDelegateDefinition("D").FindMethod("f").ReturnType()
	want := SequenceType{Inner: OptionalType{Inner: Int32}}
	if got != want {
		t.Fatalf("ReturnType() = %v, want %v", got, want)
	}
	if CanonicalName(got) != "SequenceOptionali32" {
		t.Errorf("CanonicalName() = %q", CanonicalName(got))
	}
}

func TestResolveCallWith(t *testing.T) {
	ci := mustBuild(t, `(namespace test)
(interface D (attr Delegate) (operation f (returns u8)))
(interface O (attr Delegate D) (operation g (attr CallWith f)) (operation h))`)
	o := ci.GetObjectDefinition("O")

	dm, ok := ci.ResolveCallWith(o.FindMethod("g"))
	if !ok || dm.Name() != "f" || dm.DelegateName() != "D" {
		t.Fatalf("ResolveCallWith(g) = %v, %v", dm, ok)
	}
	if _, ok := ci.ResolveCallWith(o.FindMethod("h")); ok {
		t.Errorf("ResolveCallWith(h) should not resolve")
	}
	if ci.EffectiveThrows(o.FindMethod("g")) != "" {
		t.Errorf("EffectiveThrows(g) should be empty")
	}
}

func TestStrictCallWith(t *testing.T) {
	tests := []struct {
		name        string
		source      string
		expectedErr string
	}{
		{
			name: "unknown delegate method",
			source: `(namespace test)
(interface D (attr Delegate) (operation f))
(interface O (attr Delegate D) (operation g (attr CallWith fx)))`,
			expectedErr: `method O.g calls with "fx", which does not resolve to a delegate method`,
		},
		{
			name: "unknown delegate",
			source: `(namespace test)
(interface O (attr Delegate D) (operation g (attr CallWith f)))`,
			expectedErr: `interface O delegates to "D", which is not a declared delegate`,
		},
		{
			name: "object without delegate",
			source: `(namespace test)
(interface O (operation g (attr CallWith f)))`,
			expectedErr: `calls with "f"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			doc, err := parser.ParseString(tt.source)
			if err != nil {
				t.Fatalf("failed to parse source: %v", err)
			}
			if _, err := NewBuilder().Build(doc); err != nil {
				t.Fatalf("permissive build failed: %v", err)
			}
			_, err = NewBuilder(WithStrictCallWith()).Build(doc)
			if err == nil {
				t.Fatalf("expected error containing %q, but got nil", tt.expectedErr)
			}
			if !errors.Is(err, ErrTypeResolution) {
				t.Errorf("expected a type resolution error, got %v", err)
			}
			var modelErr *Error
			if !errors.As(err, &modelErr) || modelErr.Name == "" {
				t.Errorf("expected *Error carrying the offending name, got %v", err)
			}
			if !contains(err.Error(), tt.expectedErr) {
				t.Fatalf("expected error containing %q, but got: %v", tt.expectedErr, err)
			}
		})
	}
}

func contains(s, substr string) bool {
	for i := 0; i+len(substr) <= len(s); i++ {
		if s[i:i+len(substr)] == substr {
			return true
		}
	}
	return false
}
