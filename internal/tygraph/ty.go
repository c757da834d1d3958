// Package tygraph implements the type translator (spec.md §4.3,
// component D): the Ty type algebra and the Translate function that
// turns a clangx.Type into it.
package tygraph

import "github.com/gogpu/cocoagen/internal/ident"

// Primitive enumerates the scalar kinds spec.md §3 lists under
// Primitive(P).
type Primitive int

const (
	Void Primitive = iota
	C99Bool
	Char
	SChar
	UChar
	Short
	UShort
	Int
	UInt
	Long
	ULong
	LongLong
	ULongLong
	Float
	Double
	F32
	F64
	I8
	U8
	I16
	U16
	I32
	U32
	I64
	U64
	ISize
	USize
	PtrDiff
	VaList
	ObjcBool
	NSInteger
	NSUInteger
	Imp
)

// Ty is the closed type algebra of spec.md §3. Every variant below
// implements the unexported isTy marker so the set stays closed to
// this package; Emission (internal/emit) dispatches on it with an
// exhaustive type switch, matching spec.md §9 "Dynamic dispatch" note.
type Ty interface{ isTy() }

type PrimitiveTy struct{ Kind Primitive }

func (PrimitiveTy) isTy() {}

type ItemRef = ident.ItemRef

type ClassTy struct {
	Decl      ItemRef
	Generics  []Ty
	Protocols []ItemRef
}

func (ClassTy) isTy() {}

type GenericParamTy struct{ Name string }

func (GenericParamTy) isTy() {}

// AnyObjectTy is the unspecialized id<Protocol...>.
type AnyObjectTy struct{ Protocols []ItemRef }

func (AnyObjectTy) isTy() {}

type AnyProtocolTy struct{}

func (AnyProtocolTy) isTy() {}

type AnyClassTy struct{ Protocols []ItemRef }

func (AnyClassTy) isTy() {}

type SelfTy struct{}

func (SelfTy) isTy() {}

type SelTy struct{ Nullability ident.Nullability }

func (SelTy) isTy() {}

type PointerTy struct {
	Nullability ident.Nullability
	IsConst     bool
	Lifetime    ident.Lifetime
	Pointee     Ty
}

func (PointerTy) isTy() {}

type TypeDefTy struct {
	ID          ident.Identifier
	Nullability ident.Nullability
	Lifetime    ident.Lifetime
	To          Ty
	IsCF        bool
}

func (TypeDefTy) isTy() {}

type IncompleteArrayTy struct {
	Nullability ident.Nullability
	IsConst     bool
	Pointee     Ty
}

func (IncompleteArrayTy) isTy() {}

// ArrayTy has C array semantics (decays to a pointer at surface
// boundaries).
type ArrayTy struct {
	Element Ty
	N       int64
}

func (ArrayTy) isTy() {}

// RustArrayTy has value-array semantics, used for ext_vector_type
// (spec.md §4.3 step 3).
type RustArrayTy struct {
	Element Ty
	N       int64
}

func (RustArrayTy) isTy() {}

type EnumTy struct {
	ID         ident.Identifier
	Underlying Ty
}

func (EnumTy) isTy() {}

type StructTy struct {
	ID        ident.Identifier
	Fields    []Ty
	IsBridged bool
}

func (StructTy) isTy() {}

type FnTy struct {
	IsVariadic bool
	NoEscape   bool
	Args       []Ty
	Result     Ty
}

func (FnTy) isTy() {}

type BlockTy struct {
	// Sendable is nil when unknown (spec.md ?bool).
	Sendable *bool
	NoEscape bool
	Args     []Ty
	Result   Ty
}

func (BlockTy) isTy() {}
