// Package emit implements emission (spec.md §4.4, component J):
// position-sensitive rendering of a Ty/Statement into Go source text,
// converter triples for safe-handle trampolines, and a final
// goimports-style formatting pass.
package emit

// Position is the output position a Ty is being rendered into;
// spec.md §4.4 requires a single logical type to render differently
// depending on it.
type Position int

const (
	// Plain is the raw type spelling, ignoring retain semantics.
	Plain Position = iota
	// BehindPointer is how a reference/pointer's pointee appears:
	// class generics expand, AnyObject becomes the retained-object
	// surface or a single-protocol wrapper.
	BehindPointer
	// MethodReturn returns a retained handle for object-like/CF types
	// with unspecified lifetime; NonNull unwraps to non-optional,
	// Nullable wraps as optional.
	MethodReturn
	// MethodReturnWithError is MethodReturn plus an (T, error) pair —
	// the Go shape of Result<T, Retained<NSError>> — collapsing a
	// nullable object return plus a trailing NSError** into one
	// two-value return.
	MethodReturnWithError
	// FnReturn is MethodReturn for C functions, except pointers to
	// static objects (AnyClass) render as a bare, non-owning handle
	// rather than a Retained one (the Go shape of &'static T).
	FnReturn
	// FnArgument renders object-pointer arguments as a borrowed
	// handle value, or as a pointer to one when the argument may be
	// nil — the Go shape of &T / Option<&T>.
	FnArgument
	// MethodArgument is FnArgument, except an
	// autoreleasing-pointer-to-pointer-to-object renders as a pointer
	// to an optional retained handle (the Cocoa out-parameter
	// pattern).
	MethodArgument
	// Typedef is a typedef's right-hand side: object-like underlyings
	// render as the referent type, since a typedef to a pointer-to-
	// object is rebound to a newtype rather than an alias.
	Typedef
	// StructField is struct field position: C arrays become Go value
	// arrays.
	StructField
	// EnumUnderlying is an enum's underlying type, rendered as its
	// native primitive.
	EnumUnderlying
	// Encoding is a runtime type-encoding literal (an Objective-C
	// `@encode`-style string), not a Go type spelling at all.
	Encoding
	// Var is an extern global's declared type: object-like pointees
	// render as a bare, non-owning handle (the Go shape of &'static
	// T), since a process-global reference never participates in the
	// generated retain/release lifecycle the way a method or function
	// return does.
	Var
)

func (p Position) String() string {
	switch p {
	case BehindPointer:
		return "behind_pointer"
	case MethodReturn:
		return "method_return"
	case MethodReturnWithError:
		return "method_return_with_error"
	case FnReturn:
		return "fn_return"
	case FnArgument:
		return "fn_argument"
	case MethodArgument:
		return "method_argument"
	case Typedef:
		return "typedef"
	case StructField:
		return "struct_"
	case EnumUnderlying:
		return "enum_"
	case Encoding:
		return "*_encoding"
	case Var:
		return "var"
	default:
		return "plain"
	}
}
