package kotlin

import (
	"slices"
	"strings"
	"testing"

	"github.com/partite-ai/idlbind/backend"
	"github.com/partite-ai/idlbind/model"
	"github.com/partite-ai/idlbind/parser"
)

func mustBuild(t *testing.T, src string) *model.ComponentInterface {
	t.Helper()
	doc, err := parser.ParseString(src)
	if err != nil {
		t.Fatalf("failed to parse source: %v", err)
	}
	ci, err := model.NewBuilder().Build(doc)
	if err != nil {
		t.Fatalf("failed to build: %v", err)
	}
	return ci
}

func mustGenerate(t *testing.T, ci *model.ComponentInterface) string {
	t.Helper()
	out, err := Generator{}.Generate(ci, backend.Options{})
	if err != nil {
		t.Fatalf("failed to generate: %v", err)
	}
	return string(out)
}

// generatorTestCase represents a single rendering test case
type generatorTestCase struct {
	Name       string
	Source     string
	Contains   []string
	Excludes   []string
	ExactlyOne []string
}

func runGeneratorTests(t *testing.T, tests []generatorTestCase) {
	for _, tt := range tests {
		t.Run(tt.Name, func(t *testing.T) {
			out := mustGenerate(t, mustBuild(t, tt.Source))
			for _, want := range tt.Contains {
				if !strings.Contains(out, want) {
					t.Errorf("output does not contain %q\n%s", want, out)
				}
			}
			for _, unwanted := range tt.Excludes {
				if strings.Contains(out, unwanted) {
					t.Errorf("output unexpectedly contains %q", unwanted)
				}
			}
			for _, once := range tt.ExactlyOne {
				if n := strings.Count(out, once); n != 1 {
					t.Errorf("%q appears %d times, want 1", once, n)
				}
			}
		})
	}
}

func TestGenerate(t *testing.T) {
	tests := []generatorTestCase{
		{
			Name:   "wrapper defaults",
			Source: `(namespace geometry)`,
			Contains: []string{
				"package uniffi.geometry",
				`Native.load("uniffi_geometry", _UniFFILib::class.java)`,
				"fun ffi_geometry_rustbuffer_alloc(size: Int, _uniffi_out_err: RustCallStatus): RustBuffer.ByValue",
			},
			Excludes: []string{".also { lib: _UniFFILib ->"},
		},
		{
			Name:   "callback runtime omitted without callback interfaces",
			Source: `(namespace test) (interface D (attr Delegate) (operation f (returns u32)))`,
			Excludes: []string{
				"ConcurrentHandleMap",
				"FfiConverterCallbackInterface<",
				"import java.util.concurrent.locks.ReentrantLock",
				"import kotlin.concurrent.withLock",
			},
		},
		{
			Name: "callback interface dispatches under a reentrant lock",
			Source: `(namespace test)
(callback-interface Listener (operation on_event (arg code u32) (returns bool)))
(callback-interface Sink (operation push (arg data string)))`,
			Contains: []string{
				"internal class ConcurrentHandleMap<T>",
				"public interface Listener",
				"fun onEvent(code: UInt): Boolean",
				"private val lock = ReentrantLock()",
				"= lock.withLock {",
				"val code = FfiConverterUInt.read(argsBuf)",
				"1 -> invokeOnEvent(cb, argsBuf, outBuf)",
				"FfiConverterBoolean.lowerIntoRustBuffer(kotlinCallbackInterface.onEvent(code))",
				"fun ffi_test_Listener_init_callback(callbackStub: ForeignCallback, _uniffi_out_err: RustCallStatus): Unit",
			},
			ExactlyOne: []string{
				"import java.util.concurrent.locks.ReentrantLock\n",
				"import kotlin.concurrent.withLock\n",
				"import java.util.concurrent.atomic.AtomicBoolean\n",
				"FfiConverterCallbackInterfaceListener.register(lib)",
				"FfiConverterCallbackInterfaceSink.register(lib)",
				"internal abstract class FfiConverterCallbackInterface<CallbackInterface>",
			},
		},
		{
			Name: "delegate renders a handle converter registered at load",
			Source: `(namespace test)
(enum Failure (attr Error) Timeout)
(interface Backend (attr Delegate)
  (operation fetch (returns string) (attr Throws Failure))
  (operation ping))`,
			Contains: []string{
				"public interface Backend",
				"@Throws(Failure::class)\n    fun fetch(): String",
				"fun ping()\n",
				"internal interface ForeignDelegateBackend : com.sun.jna.Callback",
				"public object FfiConverterDelegateBackend : FfiConverter<Backend, Long>",
				"1 -> invokeFetch(delegate, outBuf)",
				"2 -> invokePing(delegate, outBuf)",
				"outBuf.setValue(FfiConverterTypeFailure.lowerIntoRustBuffer(e))",
				".also { lib: _UniFFILib ->\n                FfiConverterDelegateBackend.register(lib)",
				"fun ffi_test_Backend_init_callback(callbackStub: ForeignDelegateBackend, _uniffi_out_err: RustCallStatus): Unit",
				"import java.util.concurrent.ConcurrentHashMap",
			},
			Excludes: []string{"ConcurrentHandleMap"},
		},
		{
			Name: "delegating methods use the delegate method's types",
			Source: `(namespace test)
(enum Failure (attr Error) Timeout)
(interface Backend (attr Delegate) (operation fetch (returns u8) (attr Throws Failure)))
(interface Client (attr Delegate Backend)
  (operation get (attr CallWith fetch) (returns string))
  (operation close_all))`,
			Contains: []string{
				"@Throws(Failure::class)\n    override fun get(): UByte =",
				"rustCallWithError(Failure) { _status ->\n        _UniFFILib.INSTANCE.test_Client_get(this.pointer, _status)",
				"FfiConverterUByte.lift(it)",
				"fun test_Client_get(ptr: Pointer, _uniffi_out_err: RustCallStatus): Byte",
				"override fun closeAll() =",
				"constructor() :\n        this(rustCall { _status ->",
			},
			Excludes: []string{"override fun get(): String"},
		},
		{
			Name: "records, enums and functions",
			Source: `(namespace geometry
  (function area (arg shape Shape) (arg scale f64 (default 1.0)) (returns f64))
  (function parse (arg text string) (attr Throws ParseError) (returns Shape)))
(dictionary Shape
  (field kind Kind required)
  (field tags (sequence string) (default []))
  (field label (optional string) (default null)))
(enum Kind Square Circle)
(enum ParseError (attr Error) Empty Malformed)`,
			Contains: []string{
				"data class Shape(\n    var kind: Kind,\n    var tags: List<String> = listOf(),\n    var label: String? = null\n)",
				"enum class Kind {\n    SQUARE, CIRCLE;\n}",
				"sealed class ParseException(message: String) : Exception(message)",
				"class Malformed(message: String) : ParseException(message)",
				"2 -> ParseException.Malformed(FfiConverterString.read(buf))",
				"fun area(shape: Shape, scale: Double = 1.0): Double =",
				"FfiConverterTypeShape.lower(shape), FfiConverterDouble.lower(scale), _status",
				"@Throws(ParseException::class)\nfun parse(text: String): Shape =",
			},
			ExactlyOne: []string{
				"public object FfiConverterString ",
				"public object FfiConverterSequenceString ",
				"public object FfiConverterOptionalString ",
			},
		},
	}
	runGeneratorTests(t, tests)
}

func TestDelegateDeclaration(t *testing.T) {
	ci := mustBuild(t, `(namespace test) (interface Backend (attr Delegate) (operation fetch (returns u32)))`)
	decl := &delegateObjectDeclaration{ci: ci, delegate: ci.GetDelegateDefinition("Backend")}

	code, ok := decl.InitializationCode(oracle)
	if !ok || code != "FfiConverterDelegateBackend.register(lib)" {
		t.Errorf("InitializationCode() = %q, %v", code, ok)
	}
	imports := decl.Imports(oracle)
	for _, want := range []string{
		"java.util.concurrent.ConcurrentHashMap",
		"java.util.concurrent.atomic.AtomicBoolean",
		"java.util.concurrent.atomic.AtomicLong",
	} {
		if !slices.Contains(imports, want) {
			t.Errorf("Imports() = %v, missing %s", imports, want)
		}
	}
	def, ok := decl.DefinitionCode(oracle)
	if !ok {
		t.Fatal("expected definition code")
	}
	if !strings.Contains(def, "registered.compareAndSet(false, true)") {
		t.Errorf("registration is not guarded:\n%s", def)
	}
}

func TestCallbackInterfaceDeclaration(t *testing.T) {
	ci := mustBuild(t, `(namespace test) (callback-interface Listener (operation ping))`)
	decl := &callbackInterfaceDeclaration{ci: ci, callback: ci.GetCallbackInterfaceDefinition("Listener")}

	if got := decl.Imports(oracle); !slices.Equal(got, []string{"java.util.concurrent.locks.ReentrantLock", "kotlin.concurrent.withLock"}) {
		t.Errorf("Imports() = %v", got)
	}
	code, ok := decl.InitializationCode(oracle)
	if !ok || code != "FfiConverterCallbackInterfaceListener.register(lib)" {
		t.Errorf("InitializationCode() = %q, %v", code, ok)
	}
}

func TestCallbackRuntimeDeclaration(t *testing.T) {
	without := newCallbackInterfaceRuntime(mustBuild(t, `(namespace test)`))
	if _, ok := without.DefinitionCode(oracle); ok {
		t.Error("runtime rendered without callback interfaces")
	}
	if imports := without.Imports(oracle); len(imports) != 0 {
		t.Errorf("Imports() = %v, want none", imports)
	}

	with := newCallbackInterfaceRuntime(mustBuild(t, `(namespace test) (callback-interface L (operation f))`))
	if _, ok := with.DefinitionCode(oracle); !ok {
		t.Error("runtime not rendered with a callback interface")
	}
}

func TestRegisteredWithBackend(t *testing.T) {
	g, err := backend.Lookup("kotlin")
	if err != nil {
		t.Fatalf("Lookup() error: %v", err)
	}
	if g.FileExtension() != ".kt" {
		t.Errorf("FileExtension() = %q", g.FileExtension())
	}
}
