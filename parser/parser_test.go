package parser

import (
	"fmt"
	"strings"
	"testing"

	"github.com/partite-ai/idlbind/ast"
)

// TestCase represents a single parser test case
type TestCase struct {
	Name        string
	Source      string
	Matcher     func(doc *ast.Document) error // Validates the parsed document
	ExpectedErr string                        // If set, expect an error containing this substring
}

// RunParserTests runs a suite of parser test cases
func RunParserTests(t *testing.T, tests []TestCase) {
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			doc, err := ParseString(tt.Source)

			if tt.ExpectedErr != "" {
				if err == nil {
					t.Fatalf("expected error containing %q, but got nil", tt.ExpectedErr)
				}
				if !strings.Contains(err.Error(), tt.ExpectedErr) {
					t.Fatalf("expected error containing %q, but got: %v", tt.ExpectedErr, err)
				}
				return
			}

			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.Matcher != nil {
				if err := tt.Matcher(doc); err != nil {
					t.Errorf("matcher validation failed: %v", err)
				}
			}
		})
	}
}

func singleDefinition[T ast.Definition](doc *ast.Document) (T, error) {
	var zero T
	if len(doc.Definitions) != 1 {
		return zero, fmt.Errorf("expected 1 definition, got %d", len(doc.Definitions))
	}
	def, ok := doc.Definitions[0].(T)
	if !ok {
		return zero, fmt.Errorf("expected %T, got %T", zero, doc.Definitions[0])
	}
	return def, nil
}

func TestNamespace(t *testing.T) {
	RunParserTests(t, []TestCase{
		{
			Name:   "empty document",
			Source: "; nothing here\n",
			Matcher: func(doc *ast.Document) error {
				if len(doc.Definitions) != 0 {
					return fmt.Errorf("expected no definitions, got %d", len(doc.Definitions))
				}
				return nil
			},
		},
		{
			Name: "versioned namespace with functions",
			Source: `(namespace example "1.0.0"
  (function hello (arg name string) (returns string))
  (function reset (attr Throws Failure)))`,
			Matcher: func(doc *ast.Document) error {
				ns, err := singleDefinition[*ast.Namespace](doc)
				if err != nil {
					return err
				}
				if ns.Identifier != "example" || ns.Version != "1.0.0" {
					return fmt.Errorf("got namespace %q version %q", ns.Identifier, ns.Version)
				}
				if len(ns.Members) != 2 {
					return fmt.Errorf("expected 2 functions, got %d", len(ns.Members))
				}
				hello := ns.Members[0]
				if hello.Identifier != "hello" || len(hello.Args) != 1 {
					return fmt.Errorf("unexpected hello: %+v", hello)
				}
				if named, ok := hello.ReturnType.(*ast.NamedType); !ok || named.Name != "string" {
					return fmt.Errorf("unexpected hello return type %#v", hello.ReturnType)
				}
				reset := ns.Members[1]
				if reset.ReturnType != nil {
					return fmt.Errorf("reset should return nothing")
				}
				if len(reset.Attributes) != 1 || reset.Attributes[0].Name != "Throws" || reset.Attributes[0].Value != "Failure" {
					return fmt.Errorf("unexpected reset attributes %+v", reset.Attributes)
				}
				return nil
			},
		},
		{
			Name:        "namespace member that is not a function",
			Source:      `(namespace example (operation f))`,
			ExpectedErr: "namespace example: unexpected member",
		},
		{
			Name:        "unknown top-level form",
			Source:      `(typedef Foo u8)`,
			ExpectedErr: "unknown top-level form",
		},
		{
			Name:        "unbalanced",
			Source:      `(namespace example`,
			ExpectedErr: "unexpected end of input",
		},
	})
}

func TestInterface(t *testing.T) {
	RunParserTests(t, []TestCase{
		{
			Name: "delegate and delegating object",
			Source: `(interface ExampleDelegate (attr Delegate)
  (operation async_dispatch (returns (sequence (optional i32)))))
(interface Example (attr Delegate ExampleDelegate) (attr Threadsafe)
  (constructor (attr Name with_seed) (arg seed u64))
  (operation long_running_method (attr CallWith async_dispatch)))`,
			Matcher: func(doc *ast.Document) error {
				if len(doc.Definitions) != 2 {
					return fmt.Errorf("expected 2 definitions, got %d", len(doc.Definitions))
				}
				d := doc.Definitions[0].(*ast.Interface)
				if len(d.Attributes) != 1 || d.Attributes[0].Name != "Delegate" || d.Attributes[0].Value != "" {
					return fmt.Errorf("unexpected delegate attributes %+v", d.Attributes)
				}
				op := d.Members[0].(*ast.Operation)
				seq, ok := op.ReturnType.(*ast.SequenceType)
				if !ok {
					return fmt.Errorf("expected sequence return type, got %T", op.ReturnType)
				}
				opt, ok := seq.Element.(*ast.NullableType)
				if !ok || opt.Inner.(*ast.NamedType).Name != "i32" {
					return fmt.Errorf("expected optional i32 element, got %#v", seq.Element)
				}

				o := doc.Definitions[1].(*ast.Interface)
				if o.Callback {
					return fmt.Errorf("object parsed as callback")
				}
				if len(o.Attributes) != 2 || o.Attributes[0].Value != "ExampleDelegate" {
					return fmt.Errorf("unexpected object attributes %+v", o.Attributes)
				}
				ctor, ok := o.Members[0].(*ast.Constructor)
				if !ok || len(ctor.Args) != 1 || ctor.Attributes[0].Value != "with_seed" {
					return fmt.Errorf("unexpected constructor %#v", o.Members[0])
				}
				return nil
			},
		},
		{
			Name: "members of every kind",
			Source: `(callback-interface Listener (inherits Base)
  (operation (special getter) (arg index u32) (returns string))
  (operation create (modifier static))
  (attribute size u32 readonly)
  (const limit u8 4))`,
			Matcher: func(doc *ast.Document) error {
				iface, err := singleDefinition[*ast.Interface](doc)
				if err != nil {
					return err
				}
				if !iface.Callback || iface.Inheritance == nil || iface.Inheritance.Identifier != "Base" {
					return fmt.Errorf("unexpected callback interface header %+v", iface)
				}
				getter := iface.Members[0].(*ast.Operation)
				if getter.Identifier != "" || getter.Special != ast.SpecialGetter {
					return fmt.Errorf("expected anonymous getter, got %+v", getter)
				}
				if iface.Members[1].(*ast.Operation).Modifier != ast.ModifierStatic {
					return fmt.Errorf("expected static modifier")
				}
				attr := iface.Members[2].(*ast.AttributeMember)
				if !attr.ReadOnly || attr.Identifier != "size" {
					return fmt.Errorf("unexpected attribute member %+v", attr)
				}
				c := iface.Members[3].(*ast.ConstMember)
				if c.Value.Kind != ast.LiteralInteger || c.Value.Value != "4" {
					return fmt.Errorf("unexpected const value %+v", c.Value)
				}
				return nil
			},
		},
		{
			Name:        "unknown special",
			Source:      `(interface Foo (operation f (special caller)))`,
			ExpectedErr: `interface Foo: unknown special keyword "caller"`,
		},
		{
			Name:        "missing identifier",
			Source:      `(interface)`,
			ExpectedErr: "missing identifier",
		},
	})
}

func TestDictionaryAndEnum(t *testing.T) {
	RunParserTests(t, []TestCase{
		{
			Name: "fields with defaults",
			Source: `(dictionary Point
  (field x i32 required)
  (field label (optional string) (default null))
  (field name string (default "origin"))
  (field scale f64 (default 1.5))
  (field count u8 (default 0x0f))
  (field kind Kind (default Square))
  (field tags (sequence string) (default []))
  (field extra (record string u32) (default {}))
  (field flag bool (default false)))`,
			Matcher: func(doc *ast.Document) error {
				dict, err := singleDefinition[*ast.Dictionary](doc)
				if err != nil {
					return err
				}
				if !dict.Members[0].Required || dict.Members[0].Default != nil {
					return fmt.Errorf("x should be required without default")
				}
				want := []ast.Literal{
					{Kind: ast.LiteralNull},
					{Kind: ast.LiteralString, Value: "origin"},
					{Kind: ast.LiteralFloat, Value: "1.5"},
					{Kind: ast.LiteralInteger, Value: "0x0f"},
					{Kind: ast.LiteralIdentifier, Value: "Square"},
					{Kind: ast.LiteralEmptySequence},
					{Kind: ast.LiteralEmptyMap},
					{Kind: ast.LiteralBoolean, Value: "false"},
				}
				for i, w := range want {
					got := dict.Members[i+1].Default
					if got == nil || *got != w {
						return fmt.Errorf("field %s default = %+v, want %+v", dict.Members[i+1].Identifier, got, w)
					}
				}
				if _, ok := dict.Members[7].Type.(*ast.RecordType); !ok {
					return fmt.Errorf("expected record type for extra")
				}
				return nil
			},
		},
		{
			Name:   "error enum",
			Source: `(enum Failure (attr Error) Timeout Cancelled)`,
			Matcher: func(doc *ast.Document) error {
				enum, err := singleDefinition[*ast.Enum](doc)
				if err != nil {
					return err
				}
				if len(enum.Attributes) != 1 || enum.Attributes[0].Name != "Error" {
					return fmt.Errorf("unexpected attributes %+v", enum.Attributes)
				}
				if strings.Join(enum.Values, ",") != "Timeout,Cancelled" {
					return fmt.Errorf("unexpected values %v", enum.Values)
				}
				return nil
			},
		},
		{
			Name:        "field without type",
			Source:      `(dictionary Point (field x))`,
			ExpectedErr: "field expects a name and a type",
		},
		{
			Name:        "bad record type",
			Source:      `(dictionary Point (field x (record string)))`,
			ExpectedErr: "record expects a key and a value type",
		},
	})
}
