//go:build darwin

package objcrt

import (
	"fmt"
	"runtime"
	"sync"
	"unsafe"

	"github.com/go-webgpu/goffi/ffi"
	"github.com/go-webgpu/goffi/types"
)

// libraryCache holds one dlopen handle per framework dylib path, shared
// between free-function calls and extern-global reads so a framework
// generated bindings touch through both surfaces is only ever loaded
// once.
var libraryCache sync.Map // string -> unsafe.Pointer

// FrameworkPath is the conventional on-disk path of an Apple system
// framework's dylib, e.g. "Foundation" ->
// "/System/Library/Frameworks/Foundation.framework/Foundation".
func FrameworkPath(framework string) string {
	return fmt.Sprintf("/System/Library/Frameworks/%s.framework/%s", framework, framework)
}

func loadFramework(framework string) (unsafe.Pointer, error) {
	path := FrameworkPath(framework)
	if h, ok := libraryCache.Load(path); ok {
		return h.(unsafe.Pointer), nil
	}
	h, err := ffi.LoadLibrary(path)
	if err != nil {
		return nil, fmt.Errorf("objcrt: load %s: %w", path, err)
	}
	actual, _ := libraryCache.LoadOrStore(path, h)
	return actual.(unsafe.Pointer), nil
}

// symbolCache caches resolved symbol addresses, keyed by framework+name,
// since a generated package calls the same free function or reads the
// same extern global from every call site that uses it.
var symbolCache sync.Map // string -> unsafe.Pointer

func resolveSymbol(framework, name string) (unsafe.Pointer, error) {
	key := framework + "\x00" + name
	if sym, ok := symbolCache.Load(key); ok {
		return sym.(unsafe.Pointer), nil
	}
	lib, err := loadFramework(framework)
	if err != nil {
		return nil, err
	}
	sym, err := ffi.GetSymbol(lib, name)
	if err != nil {
		return nil, fmt.Errorf("objcrt: symbol %s not found in %s: %w", name, framework, err)
	}
	actual, _ := symbolCache.LoadOrStore(key, sym)
	return actual.(unsafe.Pointer), nil
}

// call binds and invokes a free C function by symbol name, the same
// load-resolve-prepare-dispatch shape send() uses for objc_msgSend
// minus the (self, cmd) leading arguments a plain C function doesn't
// take.
func call(framework, symbol string, retType *types.TypeDescriptor, retPtr unsafe.Pointer, args ...Arg) error {
	fn, err := resolveSymbol(framework, symbol)
	if err != nil {
		return err
	}

	argTypes := make([]*types.TypeDescriptor, len(args))
	argPtrs := make([]unsafe.Pointer, len(args))
	for i, arg := range args {
		argTypes[i] = arg.typ
		argPtrs[i] = arg.ptr
	}

	cif := &types.CallInterface{}
	if err := ffi.PrepareCallInterface(cif, types.DefaultCall, retType, argTypes); err != nil {
		return err
	}

	err = ffi.CallFunction(cif, fn, retPtr, argPtrs)
	runtime.KeepAlive(args)
	return err
}

// CallVoid calls a free C function with no useful return value.
func CallVoid(framework, symbol string, args ...Arg) {
	_ = call(framework, symbol, types.VoidTypeDescriptor, nil, args...)
}

// CallID calls a free C function returning an object/CF pointer.
func CallID(framework, symbol string, args ...Arg) ID {
	var result ID
	_ = call(framework, symbol, types.PointerTypeDescriptor, unsafe.Pointer(&result), args...)
	return result
}

// CallPointer calls a free C function returning a plain pointer.
func CallPointer(framework, symbol string, args ...Arg) unsafe.Pointer {
	var result unsafe.Pointer
	_ = call(framework, symbol, types.PointerTypeDescriptor, unsafe.Pointer(&result), args...)
	return result
}

// CallBool calls a free C function returning BOOL/_Bool.
func CallBool(framework, symbol string, args ...Arg) bool {
	var result uint8
	_ = call(framework, symbol, types.UInt8TypeDescriptor, unsafe.Pointer(&result), args...)
	return result != 0
}

// CallUint calls a free C function returning an unsigned integer.
func CallUint(framework, symbol string, args ...Arg) uint {
	var result uint64
	_ = call(framework, symbol, types.UInt64TypeDescriptor, unsafe.Pointer(&result), args...)
	return uint(result)
}

// CallInt calls a free C function returning a signed integer.
func CallInt(framework, symbol string, args ...Arg) int {
	var result int64
	_ = call(framework, symbol, types.SInt64TypeDescriptor, unsafe.Pointer(&result), args...)
	return int(result)
}

// CallFloat64 calls a free C function returning a float or double.
func CallFloat64(framework, symbol string, args ...Arg) float64 {
	var result float64
	_ = call(framework, symbol, types.DoubleTypeDescriptor, unsafe.Pointer(&result), args...)
	return result
}

// CallStruct calls a free C function returning a by-value struct
// described by retType, decoding the result as T.
func CallStruct[T any](framework, symbol string, retType *types.TypeDescriptor, args ...Arg) T {
	var result T
	_ = call(framework, symbol, retType, unsafe.Pointer(&result), args...)
	return result
}

// ReadGlobal reads an extern global's current value straight out of
// its loaded symbol. T's Go layout must match the C global's bit
// layout exactly (true for every primitive, pointer, ID/Retained
// newtype, and plain-old-data struct the emitter generates), since the
// symbol's address is reinterpreted as *T rather than copied through a
// width-specific accessor the way CallUint/CallInt coerce a function's
// return register. A global that fails to resolve reads as T's zero
// value.
func ReadGlobal[T any](framework, symbol string) T {
	var zero T
	addr, err := resolveSymbol(framework, symbol)
	if err != nil {
		return zero
	}
	return *(*T)(addr)
}
