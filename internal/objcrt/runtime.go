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

// library handle and function symbols for libobjc.A.dylib, resolved
// once by Init.
var (
	objcLib unsafe.Pointer

	symObjcMsgSend      unsafe.Pointer
	symObjcMsgSendFpret unsafe.Pointer
	symObjcMsgSendStret unsafe.Pointer
	symObjcGetClass     unsafe.Pointer
	symSelRegisterName  unsafe.Pointer

	cifGetClass    types.CallInterface
	cifSelRegister types.CallInterface
)

var initOnce sync.Once
var initErr error

// Init loads libobjc.A.dylib and resolves the message-send and
// class/selector lookup symbols every generated binding depends on.
// Safe to call more than once; only the first call does any work.
func Init() error {
	initOnce.Do(func() {
		initErr = initRuntime()
	})
	return initErr
}

func initRuntime() error {
	var err error

	objcLib, err = ffi.LoadLibrary("/usr/lib/libobjc.A.dylib")
	if err != nil {
		return fmt.Errorf("objcrt: load libobjc: %w", err)
	}

	if symObjcMsgSend, err = ffi.GetSymbol(objcLib, "objc_msgSend"); err != nil {
		return fmt.Errorf("objcrt: objc_msgSend not found: %w", err)
	}
	if symObjcMsgSendFpret, err = ffi.GetSymbol(objcLib, "objc_msgSend_fpret"); err != nil {
		symObjcMsgSendFpret = nil
	}
	if symObjcMsgSendStret, err = ffi.GetSymbol(objcLib, "objc_msgSend_stret"); err != nil {
		symObjcMsgSendStret = nil
	}
	if symObjcGetClass, err = ffi.GetSymbol(objcLib, "objc_getClass"); err != nil {
		return fmt.Errorf("objcrt: objc_getClass not found: %w", err)
	}
	if symSelRegisterName, err = ffi.GetSymbol(objcLib, "sel_registerName"); err != nil {
		return fmt.Errorf("objcrt: sel_registerName not found: %w", err)
	}

	if err := ffi.PrepareCallInterface(&cifGetClass, types.DefaultCall,
		types.PointerTypeDescriptor,
		[]*types.TypeDescriptor{types.PointerTypeDescriptor}); err != nil {
		return fmt.Errorf("objcrt: prepare objc_getClass: %w", err)
	}
	if err := ffi.PrepareCallInterface(&cifSelRegister, types.DefaultCall,
		types.PointerTypeDescriptor,
		[]*types.TypeDescriptor{types.PointerTypeDescriptor}); err != nil {
		return fmt.Errorf("objcrt: prepare sel_registerName: %w", err)
	}

	if err := initBlockSupport(); err != nil {
		return err
	}

	return nil
}

// GetClass looks up the named Objective-C class.
func GetClass(name string) Class {
	cname := append([]byte(name), 0)
	ptr := uintptr(unsafe.Pointer(&cname[0]))
	var result Class
	args := [1]unsafe.Pointer{unsafe.Pointer(&ptr)}
	_ = ffi.CallFunction(&cifGetClass, symObjcGetClass, unsafe.Pointer(&result), args[:])
	return result
}

// selectorCache caches Sel results, since sel_registerName
// is called once per distinct selector string by every generated
// binding site that sends it.
var selectorCache sync.Map

// Sel registers and returns the selector for name.
func Sel(name string) SEL {
	if cached, ok := selectorCache.Load(name); ok {
		return cached.(SEL)
	}

	cname := append([]byte(name), 0)
	ptr := uintptr(unsafe.Pointer(&cname[0]))
	var result SEL
	args := [1]unsafe.Pointer{unsafe.Pointer(&ptr)}
	_ = ffi.CallFunction(&cifSelRegister, symSelRegisterName, unsafe.Pointer(&result), args[:])

	selectorCache.Store(name, result)
	return result
}

// Arg is one argument to a message send, carrying both the goffi type
// descriptor needed to prepare the call interface and the pointer to
// the value itself.
type Arg struct {
	typ       *types.TypeDescriptor
	ptr       unsafe.Pointer
	keepAlive any
}

func ArgID(val ID) Arg {
	v := uintptr(val)
	return Arg{typ: types.PointerTypeDescriptor, ptr: unsafe.Pointer(&v), keepAlive: &v}
}

func ArgSEL(val SEL) Arg {
	v := uintptr(val)
	return Arg{typ: types.PointerTypeDescriptor, ptr: unsafe.Pointer(&v), keepAlive: &v}
}

func ArgPointer(val uintptr) Arg {
	v := val
	return Arg{typ: types.PointerTypeDescriptor, ptr: unsafe.Pointer(&v), keepAlive: &v}
}

func ArgUint64(val uint64) Arg {
	v := val
	return Arg{typ: types.UInt64TypeDescriptor, ptr: unsafe.Pointer(&v), keepAlive: &v}
}

func ArgInt64(val int64) Arg {
	v := val
	return Arg{typ: types.SInt64TypeDescriptor, ptr: unsafe.Pointer(&v), keepAlive: &v}
}

func ArgBool(val bool) Arg {
	var v uint8
	if val {
		v = 1
	}
	return Arg{typ: types.UInt8TypeDescriptor, ptr: unsafe.Pointer(&v), keepAlive: &v}
}

func ArgFloat32(val float32) Arg {
	v := val
	return Arg{typ: types.FloatTypeDescriptor, ptr: unsafe.Pointer(&v), keepAlive: &v}
}

func ArgFloat64(val float64) Arg {
	v := val
	return Arg{typ: types.DoubleTypeDescriptor, ptr: unsafe.Pointer(&v), keepAlive: &v}
}

// ArgStruct wraps a by-value struct argument, described by td (built
// with StructType, matching the C struct's member layout).
func ArgStruct[T any](val T, td *types.TypeDescriptor) Arg {
	v := val
	return Arg{typ: td, ptr: unsafe.Pointer(&v), keepAlive: &v}
}

func send(obj ID, sel SEL, retType *types.TypeDescriptor, retPtr unsafe.Pointer, args ...Arg) error {
	if obj == 0 || sel == 0 {
		return nil
	}

	argTypes := make([]*types.TypeDescriptor, 2+len(args))
	argTypes[0] = types.PointerTypeDescriptor
	argTypes[1] = types.PointerTypeDescriptor
	for i, arg := range args {
		argTypes[2+i] = arg.typ
	}

	cif := &types.CallInterface{}
	if err := ffi.PrepareCallInterface(cif, types.DefaultCall, retType, argTypes); err != nil {
		return err
	}

	self := uintptr(obj)
	cmd := uintptr(sel)
	argPtrs := make([]unsafe.Pointer, 2+len(args))
	argPtrs[0] = unsafe.Pointer(&self)
	argPtrs[1] = unsafe.Pointer(&cmd)
	for i, arg := range args {
		argPtrs[2+i] = arg.ptr
	}

	fn := dispatchSymbol(retType)
	err := ffi.CallFunction(cif, fn, retPtr, argPtrs)
	runtime.KeepAlive(args)
	return err
}

// dispatchSymbol picks the ABI-correct objc_msgSend variant for the
// return type: struct returns larger than a register pair go through
// objc_msgSend_stret on amd64 (arm64 always returns structs through
// x8 and uses the plain entry point), floating-point returns go
// through objc_msgSend_fpret on amd64 (x87 register class).
func dispatchSymbol(retType *types.TypeDescriptor) unsafe.Pointer {
	if retType != nil && retType.Kind == types.StructType && runtime.GOARCH == "amd64" {
		if symObjcMsgSendStret != nil && typeSize(retType) > 16 {
			return symObjcMsgSendStret
		}
	}
	if retType != nil && (retType.Kind == types.FloatType || retType.Kind == types.DoubleType) && runtime.GOARCH == "amd64" {
		if symObjcMsgSendFpret != nil {
			return symObjcMsgSendFpret
		}
	}
	return symObjcMsgSend
}

// SendVoid sends a message with no useful return value.
func SendVoid(obj ID, sel SEL, args ...Arg) {
	_ = send(obj, sel, types.VoidTypeDescriptor, nil, args...)
}

// SendID sends a message returning an object pointer.
func SendID(obj ID, sel SEL, args ...Arg) ID {
	var result ID
	_ = send(obj, sel, types.PointerTypeDescriptor, unsafe.Pointer(&result), args...)
	return result
}

// SendClass sends a message returning a Class.
func SendClass(obj ID, sel SEL, args ...Arg) Class {
	var result Class
	_ = send(obj, sel, types.PointerTypeDescriptor, unsafe.Pointer(&result), args...)
	return result
}

// SendBool sends a message returning BOOL.
func SendBool(obj ID, sel SEL, args ...Arg) bool {
	var result uint8
	_ = send(obj, sel, types.UInt8TypeDescriptor, unsafe.Pointer(&result), args...)
	return result != 0
}

// SendUint sends a message returning NSUInteger.
func SendUint(obj ID, sel SEL, args ...Arg) uint {
	var result uint64
	_ = send(obj, sel, types.UInt64TypeDescriptor, unsafe.Pointer(&result), args...)
	return uint(result)
}

// SendInt sends a message returning NSInteger.
func SendInt(obj ID, sel SEL, args ...Arg) int {
	var result int64
	_ = send(obj, sel, types.SInt64TypeDescriptor, unsafe.Pointer(&result), args...)
	return int(result)
}

// SendFloat64 sends a message returning a double.
func SendFloat64(obj ID, sel SEL, args ...Arg) float64 {
	var result float64
	_ = send(obj, sel, types.DoubleTypeDescriptor, unsafe.Pointer(&result), args...)
	return result
}

// SendStruct sends a message returning a by-value struct described by
// retType, returning the result as a T.
func SendStruct[T any](obj ID, sel SEL, retType *types.TypeDescriptor, args ...Arg) T {
	var result T
	_ = send(obj, sel, retType, unsafe.Pointer(&result), args...)
	return result
}

func typeSize(td *types.TypeDescriptor) uintptr {
	if td == nil {
		return 0
	}
	if td.Size != 0 {
		return td.Size
	}
	if td.Kind != types.StructType {
		return 0
	}
	var size, maxAlign uintptr
	for _, member := range td.Members {
		align := typeAlign(member)
		size = alignUp(size, align)
		size += typeSize(member)
		if align > maxAlign {
			maxAlign = align
		}
	}
	return alignUp(size, maxAlign)
}

func typeAlign(td *types.TypeDescriptor) uintptr {
	if td == nil {
		return 1
	}
	if td.Alignment != 0 {
		return td.Alignment
	}
	if td.Kind != types.StructType {
		return 1
	}
	var maxAlign uintptr
	for _, member := range td.Members {
		if align := typeAlign(member); align > maxAlign {
			maxAlign = align
		}
	}
	if maxAlign == 0 {
		return 1
	}
	return maxAlign
}

func alignUp(val, align uintptr) uintptr {
	if align == 0 {
		return val
	}
	rem := val % align
	if rem == 0 {
		return val
	}
	return val + (align - rem)
}
