package kotlin

import (
	"fmt"
	"strings"

	"github.com/partite-ai/idlbind/model"
)

// Symbol names of the native library. They follow the scaffolding's naming so
// both sides agree without further configuration.

func rustBufferAllocSymbol(ci *model.ComponentInterface) string {
	return fmt.Sprintf("ffi_%s_rustbuffer_alloc", ci.Namespace())
}

func rustBufferFreeSymbol(ci *model.ComponentInterface) string {
	return fmt.Sprintf("ffi_%s_rustbuffer_free", ci.Namespace())
}

func objectFreeSymbol(ci *model.ComponentInterface, o *model.Object) string {
	return fmt.Sprintf("ffi_%s_%s_object_free", ci.Namespace(), o.Name())
}

func constructorSymbol(ci *model.ComponentInterface, c *model.Constructor) string {
	return fmt.Sprintf("%s_%s_%s", ci.Namespace(), c.ObjectName(), c.Name())
}

func methodSymbol(ci *model.ComponentInterface, m *model.Method) string {
	return fmt.Sprintf("%s_%s_%s", ci.Namespace(), m.ObjectName(), m.Name())
}

func functionSymbol(ci *model.ComponentInterface, f *model.Function) string {
	return fmt.Sprintf("%s_%s", ci.Namespace(), f.Name())
}

func initCallbackSymbol(ci *model.ComponentInterface, name string) string {
	return fmt.Sprintf("ffi_%s_%s_init_callback", ci.Namespace(), name)
}

// ffiFunctions returns the declarations of every native function the bindings
// call, in the form `name(params): Return`.
func ffiFunctions(ci *model.ComponentInterface) []string {
	fns := []string{
		ffiDecl(rustBufferAllocSymbol(ci), []string{"size: Int"}, "RustBuffer.ByValue"),
		ffiDecl(rustBufferFreeSymbol(ci), []string{"buf: RustBuffer.ByValue"}, "Unit"),
	}
	for _, o := range ci.ObjectDefinitions() {
		fns = append(fns, ffiDecl(objectFreeSymbol(ci, o), []string{"ptr: Pointer"}, "Unit"))
		for _, c := range o.Constructors() {
			fns = append(fns, ffiDecl(constructorSymbol(ci, c), ffiParams(c.Arguments()), "Pointer"))
		}
		for _, m := range o.Methods() {
			params := append([]string{"ptr: Pointer"}, ffiParams(m.Arguments())...)
			fns = append(fns, ffiDecl(methodSymbol(ci, m), params, ffiReturn(ci.EffectiveReturnType(m))))
		}
	}
	for _, d := range ci.DelegateDefinitions() {
		cb := "callbackStub: ForeignDelegate" + oracle.ClassName(d.Name())
		fns = append(fns, ffiDecl(initCallbackSymbol(ci, d.Name()), []string{cb}, "Unit"))
	}
	for _, cb := range ci.CallbackInterfaceDefinitions() {
		fns = append(fns, ffiDecl(initCallbackSymbol(ci, cb.Name()), []string{"callbackStub: ForeignCallback"}, "Unit"))
	}
	for _, f := range ci.FunctionDefinitions() {
		fns = append(fns, ffiDecl(functionSymbol(ci, f), ffiParams(f.Arguments()), ffiReturn(f.ReturnType())))
	}
	return fns
}

func ffiDecl(symbol string, params []string, ret string) string {
	params = append(params, "_uniffi_out_err: RustCallStatus")
	return fmt.Sprintf("%s(%s): %s", symbol, strings.Join(params, ", "), ret)
}

func ffiParams(args []*model.Argument) []string {
	params := make([]string, 0, len(args))
	for _, arg := range args {
		params = append(params, fmt.Sprintf("%s: %s", oracle.VarName(arg.Name()), ffiType(oracle, arg.Type())))
	}
	return params
}

func ffiReturn(t model.Type) string {
	if t == nil {
		return "Unit"
	}
	return ffiType(oracle, t)
}

// rustCallExpr renders a call into the native library, checking the call
// status and lifting the result.
func rustCallExpr(symbol, receiver string, args []*model.Argument, throws, ret model.Type) string {
	callArgs := make([]string, 0, len(args)+2)
	if receiver != "" {
		callArgs = append(callArgs, receiver)
	}
	for _, arg := range args {
		callArgs = append(callArgs, oracle.FindCodeType(arg.Type()).Lower(oracle, oracle.VarName(arg.Name())))
	}
	callArgs = append(callArgs, "_status")

	var sb strings.Builder
	if throws != nil {
		fmt.Fprintf(&sb, "rustCallWithError(%s) { _status ->\n", oracle.FindCodeType(throws).TypeLabel(oracle))
	} else {
		sb.WriteString("rustCall { _status ->\n")
	}
	fmt.Fprintf(&sb, "        _UniFFILib.INSTANCE.%s(%s)\n    }", symbol, strings.Join(callArgs, ", "))
	if ret != nil {
		fmt.Fprintf(&sb, ".let {\n        %s\n    }", oracle.FindCodeType(ret).Lift(oracle, "it"))
	}
	return sb.String()
}
