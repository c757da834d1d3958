package emit

import (
	"fmt"
	"strings"

	"github.com/gogpu/cocoagen/internal/ident"
	"github.com/gogpu/cocoagen/internal/tygraph"
)

// RenderType spells ty as Go source text for pos, implementing the
// spec.md §4.4 contract table. The Rust-flavored contracts the table
// is written against translate onto Go idioms already present in
// internal/objcrt: `Retained<T>` becomes `objcrt.Retained[T]`, a
// borrowed `&T` becomes a plain value of the generated wrapper type
// (itself just a handle, never an owner), and `Option<&T>` becomes
// `*T`.
func RenderType(ty tygraph.Ty, pos Position) string {
	switch t := ty.(type) {
	case tygraph.PrimitiveTy:
		return renderPrimitive(t.Kind, pos)

	case tygraph.ClassTy:
		name := className(t)
		switch pos {
		case MethodReturn, FnReturn:
			return retainedOf(name)
		case MethodReturnWithError:
			return fmt.Sprintf("(%s, error)", retainedOf(name))
		case FnArgument, MethodArgument, BehindPointer, Plain, Typedef, StructField, Var:
			return name
		default:
			return name
		}

	case tygraph.GenericParamTy:
		return t.Name

	case tygraph.AnyObjectTy:
		if len(t.Protocols) == 1 {
			return protocolName(t.Protocols[0])
		}
		return "objcrt.ID"

	case tygraph.AnyProtocolTy:
		return "objcrt.Class"

	case tygraph.AnyClassTy:
		if pos == FnReturn {
			return "objcrt.Class"
		}
		return "objcrt.Class"

	case tygraph.SelfTy:
		return "Self"

	case tygraph.SelTy:
		return "objcrt.SEL"

	case tygraph.PointerTy:
		return renderPointer(t, pos)

	case tygraph.TypeDefTy:
		return renderTypedef(t, pos)

	case tygraph.IncompleteArrayTy:
		return "[]" + RenderType(t.Pointee, StructField)

	case tygraph.ArrayTy:
		return fmt.Sprintf("[%d]%s", t.N, RenderType(t.Element, StructField))

	case tygraph.RustArrayTy:
		return fmt.Sprintf("[%d]%s", t.N, RenderType(t.Element, StructField))

	case tygraph.EnumTy:
		if pos == EnumUnderlying {
			return RenderType(t.Underlying, EnumUnderlying)
		}
		return t.ID.Name

	case tygraph.StructTy:
		return t.ID.Name

	case tygraph.FnTy:
		return renderFn(t)

	case tygraph.BlockTy:
		return renderBlock(t)

	default:
		return "any"
	}
}

func className(t tygraph.ClassTy) string {
	if len(t.Generics) == 0 {
		return t.Decl.ID.Name
	}
	parts := make([]string, len(t.Generics))
	for i, g := range t.Generics {
		parts[i] = RenderType(g, BehindPointer)
	}
	return fmt.Sprintf("%s[%s]", t.Decl.ID.Name, strings.Join(parts, ", "))
}

func protocolName(ref ident.ItemRef) string {
	return ref.ID.Name
}

func retainedOf(name string) string {
	return fmt.Sprintf("objcrt.Retained[%s]", name)
}

func renderPointer(t tygraph.PointerTy, pos Position) string {
	pointee := t.Pointee

	if _, isVoid := pointee.(tygraph.PrimitiveTy); isVoid && pointee.(tygraph.PrimitiveTy).Kind == tygraph.Void {
		return "unsafe.Pointer"
	}

	switch pos {
	case Var:
		// An extern global's pointee renders bare and non-optional-
		// retained: the same &T spelling as fn_argument, since a
		// global reference is never owned by the code that reads it.
		return renderReferenceArg(pointee, t.Nullability)

	case MethodArgument:
		// An autoreleasing pointer-to-pointer-to-object (the Cocoa
		// out-parameter pattern) renders as a mutable reference to an
		// optional retained handle.
		if inner, ok := pointee.(tygraph.PointerTy); ok && t.Lifetime == ident.LifetimeAutoreleasing {
			innerName := RenderType(inner.Pointee, BehindPointer)
			return fmt.Sprintf("*%s", retainedOptOf(innerName))
		}
		return renderReferenceArg(pointee, t.Nullability)

	case FnArgument:
		return renderReferenceArg(pointee, t.Nullability)

	default:
		inner := RenderType(pointee, BehindPointer)
		if t.Nullability == ident.Nullable || t.Nullability == ident.NullableResult {
			return "*" + inner
		}
		return inner
	}
}

// renderReferenceArg is the common &T / Option<&T> translation for
// fn_argument and method_argument object-pointer arguments: a Strong
// or Unspecified lifetime is a plain (non-owning) reference to the
// generated wrapper, optional exactly when the pointer may be null.
func renderReferenceArg(pointee tygraph.Ty, n ident.Nullability) string {
	inner := RenderType(pointee, BehindPointer)
	if n == ident.Nullable || n == ident.NullableResult {
		return "*" + inner
	}
	return inner
}

func retainedOptOf(name string) string {
	return fmt.Sprintf("objcrt.Retained[%s]", name)
}

func renderTypedef(t tygraph.TypeDefTy, pos Position) string {
	if t.IsCF {
		return t.ID.Name
	}
	switch pos {
	case Typedef:
		// The typedef's own right-hand side: an object-like underlying
		// renders as the referent type, since the typedef itself
		// becomes a newtype rather than a plain alias.
		return RenderType(t.To, BehindPointer)
	default:
		return t.ID.Name
	}
}

func renderFn(t tygraph.FnTy) string {
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = RenderType(a, FnArgument)
	}
	result := ""
	if t.Result != nil {
		result = " " + RenderType(t.Result, FnReturn)
	}
	return fmt.Sprintf("func(%s)%s", strings.Join(args, ", "), result)
}

func renderBlock(t tygraph.BlockTy) string {
	args := make([]string, len(t.Args))
	for i, a := range t.Args {
		args[i] = RenderType(a, FnArgument)
	}
	result := ""
	if t.Result != nil {
		result = " " + RenderType(t.Result, FnReturn)
	}
	return fmt.Sprintf("func(%s)%s", strings.Join(args, ", "), result)
}

func renderPrimitive(k tygraph.Primitive, pos Position) string {
	switch k {
	case tygraph.Void:
		return ""
	case tygraph.C99Bool, tygraph.ObjcBool:
		return "bool"
	case tygraph.Char, tygraph.SChar:
		return "int8"
	case tygraph.UChar:
		return "uint8"
	case tygraph.Short:
		return "int16"
	case tygraph.UShort:
		return "uint16"
	case tygraph.Int:
		return "int32"
	case tygraph.UInt:
		return "uint32"
	case tygraph.Long, tygraph.LongLong:
		return "int64"
	case tygraph.ULong, tygraph.ULongLong:
		return "uint64"
	case tygraph.Float:
		return "float32"
	case tygraph.Double:
		return "float64"
	case tygraph.F32:
		return "float32"
	case tygraph.F64:
		return "float64"
	case tygraph.I8:
		return "int8"
	case tygraph.U8:
		return "uint8"
	case tygraph.I16:
		return "int16"
	case tygraph.U16:
		return "uint16"
	case tygraph.I32:
		return "int32"
	case tygraph.U32:
		return "uint32"
	case tygraph.I64:
		return "int64"
	case tygraph.U64:
		return "uint64"
	case tygraph.ISize:
		return "int"
	case tygraph.USize:
		return "uint"
	case tygraph.PtrDiff:
		return "int"
	case tygraph.VaList:
		return "uintptr"
	case tygraph.NSInteger:
		return "int"
	case tygraph.NSUInteger:
		return "uint"
	case tygraph.Imp:
		return "uintptr"
	default:
		return "any"
	}
}
