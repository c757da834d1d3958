//go:build darwin

package objcrt

// ObjC Block ABI — pure Go implementation.
//
// struct Block_literal {
//     void *isa;           // &_NSConcreteStackBlock
//     int  flags;
//     int  reserved;
//     void *invoke;        // (block_ptr, args...) -> ret
//     struct Block_descriptor *descriptor;
//     uint64 blockID;      // index into blockRegistry, appended after
//                          // the fields the ABI itself defines
// };
//
// Reference: https://clang.llvm.org/docs/Block-ABI-Apple.html

import (
	"fmt"
	"sync"
	"sync/atomic"
	"unsafe"

	"github.com/go-webgpu/goffi/ffi"
)

type blockLiteral struct {
	isa        uintptr
	flags      int32
	reserved   int32
	invoke     uintptr
	descriptor uintptr
	blockID    uint64
}

type blockDescriptor struct {
	reserved uint64
	size     uint64
}

var sharedBlockDescriptor = &blockDescriptor{size: uint64(unsafe.Sizeof(blockLiteral{}))}

var symNSConcreteStackBlock uintptr

// initBlockSupport resolves _NSConcreteStackBlock. Called once from
// Init, after the library handle is loaded.
func initBlockSupport() error {
	if objcLib == nil {
		return fmt.Errorf("objcrt: block support requires Init to run first")
	}
	sym, err := ffi.GetSymbol(objcLib, "_NSConcreteStackBlock")
	if err != nil {
		return fmt.Errorf("objcrt: _NSConcreteStackBlock not found: %w", err)
	}
	symNSConcreteStackBlock = uintptr(sym)
	return nil
}

// Handler receives a block invocation's arguments (excluding the block
// pointer itself, which the dispatcher strips off) as raw words; the
// generated call site decodes them into the real argument types its
// block signature expects.
type Handler func(args []uintptr)

var blockRegistry sync.Map // map[uint64]Handler
var blockIDCounter uint64

// blockIDOffset is where blockID lives in blockLiteral, read back out
// of the raw block pointer a trampoline receives.
const blockIDOffset = unsafe.Offsetof(blockLiteral{}.blockID)

func nextBlockID() uint64 { return atomic.AddUint64(&blockIDCounter, 1) }

func blockIDAt(blockPtr uintptr) uint64 {
	return *(*uint64)(unsafe.Pointer(blockPtr + blockIDOffset)) //nolint:govet // ObjC block ABI field access
}

func dispatch(blockPtr uintptr, args []uintptr) {
	if blockPtr == 0 {
		return
	}
	if v, ok := blockRegistry.Load(blockIDAt(blockPtr)); ok {
		v.(Handler)(args)
	}
}

// trampoline lazily builds and caches the single ffi.NewCallback
// function pointer serving every block of a given arity; arity counts
// only the block's declared parameters, not the implicit block
// pointer every invoke function receives first.
type trampoline struct {
	once sync.Once
	ptr  uintptr
	make func() uintptr
}

var trampolines [5]trampoline

func init() {
	trampolines[0].make = func() uintptr {
		return ffi.NewCallback(func(blockPtr uintptr) uintptr {
			dispatch(blockPtr, nil)
			return 0
		})
	}
	trampolines[1].make = func() uintptr {
		return ffi.NewCallback(func(blockPtr, a0 uintptr) uintptr {
			dispatch(blockPtr, []uintptr{a0})
			return 0
		})
	}
	trampolines[2].make = func() uintptr {
		return ffi.NewCallback(func(blockPtr, a0, a1 uintptr) uintptr {
			dispatch(blockPtr, []uintptr{a0, a1})
			return 0
		})
	}
	trampolines[3].make = func() uintptr {
		return ffi.NewCallback(func(blockPtr, a0, a1, a2 uintptr) uintptr {
			dispatch(blockPtr, []uintptr{a0, a1, a2})
			return 0
		})
	}
	trampolines[4].make = func() uintptr {
		return ffi.NewCallback(func(blockPtr, a0, a1, a2, a3 uintptr) uintptr {
			dispatch(blockPtr, []uintptr{a0, a1, a2, a3})
			return 0
		})
	}
}

func invokeFor(arity int) (uintptr, error) {
	if arity < 0 || arity >= len(trampolines) {
		return 0, fmt.Errorf("objcrt: block arity %d unsupported (max %d)", arity, len(trampolines)-1)
	}
	t := &trampolines[arity]
	t.once.Do(func() { t.ptr = t.make() })
	return t.ptr, nil
}

// Block is a Go closure exposed to Objective-C as a block literal.
// The caller must keep the Block alive (runtime.KeepAlive) until the
// method it was passed to has consumed it — Cocoa copies blocks it
// retains beyond the call that received them, but the copy happens on
// the Objective-C side only after the call returns.
type Block struct {
	ptr     uintptr
	blockID uint64
	literal *blockLiteral
}

// Ptr is the raw block literal pointer to pass as a block-typed
// argument.
func (b *Block) Ptr() uintptr { return b.ptr }

// NewBlock builds a block literal of the given arity whose invocation
// calls handler. symNSConcreteStackBlock must already be resolved
// (initBlockSupport, run once from Init).
func NewBlock(arity int, handler Handler) (*Block, error) {
	if symNSConcreteStackBlock == 0 {
		return nil, fmt.Errorf("objcrt: block support unavailable, Init did not run")
	}
	invoke, err := invokeFor(arity)
	if err != nil {
		return nil, err
	}

	id := nextBlockID()
	blockRegistry.Store(id, handler)

	literal := &blockLiteral{
		isa:        symNSConcreteStackBlock,
		invoke:     invoke,
		descriptor: uintptr(unsafe.Pointer(sharedBlockDescriptor)),
		blockID:    id,
	}
	return &Block{ptr: uintptr(unsafe.Pointer(literal)), blockID: id, literal: literal}, nil
}

// Release removes the block's registry entry. Call after the block
// has fired, or to cancel one that will never be invoked.
func (b *Block) Release() {
	blockRegistry.Delete(b.blockID)
}
