package tygraph

import (
	"testing"

	"github.com/gogpu/cocoagen/internal/cctx"
	"github.com/gogpu/cocoagen/internal/clangx"
	"github.com/gogpu/cocoagen/internal/clangx/clangxtest"
	"github.com/gogpu/cocoagen/internal/ident"
)

func newCtx() *cctx.Context {
	return cctx.New(map[string]cctx.LibraryConfig{
		"Foundation":     {},
		"CoreFoundation": {},
	})
}

func TestTranslatePrimitiveVoid(t *testing.T) {
	ty := &clangxtest.Type{KindV: clangx.KindVoid, SpellingV: "void", AttributedSpellingV: "void"}
	got := Translate(ty, ident.LifetimeUnspecified, "Foundation", []string{"Foundation"}, newCtx())
	p, ok := got.(PrimitiveTy)
	if !ok || p.Kind != Void {
		t.Fatalf("expected PrimitiveTy{Void}, got %#v", got)
	}
}

func TestTranslateFixedWidthTypedef(t *testing.T) {
	underlying := &clangxtest.Type{KindV: clangx.KindInt, SpellingV: "int", AttributedSpellingV: "int"}
	decl := &clangxtest.Cursor{KindV: clangx.CursorTypedefDecl, SpellingV: "int32_t", TypeV: underlying}
	ty := &clangxtest.Type{
		KindV: clangx.KindTypedef, SpellingV: "int32_t", AttributedSpellingV: "int32_t",
		Decl: decl,
	}
	got := Translate(ty, ident.LifetimeUnspecified, "Foundation", []string{"Foundation"}, newCtx())
	p, ok := got.(PrimitiveTy)
	if !ok || p.Kind != I32 {
		t.Fatalf("expected PrimitiveTy{I32}, got %#v", got)
	}
}

func TestTranslateInstancetypeIsSelf(t *testing.T) {
	ty := &clangxtest.Type{KindV: clangx.KindTypedef, SpellingV: "instancetype", AttributedSpellingV: "instancetype"}
	got := Translate(ty, ident.LifetimeUnspecified, "Foundation", []string{"Foundation"}, newCtx())
	if _, ok := got.(SelfTy); !ok {
		t.Fatalf("expected SelfTy, got %#v", got)
	}
}

func TestTranslateCFTypedefStripsRef(t *testing.T) {
	pointee := &clangxtest.Type{KindV: clangx.KindRecord, SpellingV: "struct __CFString"}
	ptr := &clangxtest.Type{KindV: clangx.KindPointer, SpellingV: "struct __CFString *", AttributedSpellingV: "struct __CFString *", Pointee: pointee}
	decl := &clangxtest.Cursor{KindV: clangx.CursorTypedefDecl, SpellingV: "CFStringRef", Underlying: ptr}
	ty := &clangxtest.Type{
		KindV: clangx.KindTypedef, SpellingV: "CFStringRef", AttributedSpellingV: "CFStringRef",
		Decl: decl,
	}
	got := Translate(ty, ident.LifetimeUnspecified, "CoreFoundation", []string{"CoreFoundation"}, newCtx())
	td, ok := got.(TypeDefTy)
	if !ok {
		t.Fatalf("expected TypeDefTy, got %#v", got)
	}
	if !td.IsCF {
		t.Fatalf("expected IsCF=true for a pointer-to-record CF typedef")
	}
	if td.ID.Name != "CFString" {
		t.Fatalf("expected Ref suffix stripped, got %q", td.ID.Name)
	}
}

func TestTranslateCFTypeRefVoidPointeeIsCF(t *testing.T) {
	pointee := &clangxtest.Type{KindV: clangx.KindVoid, SpellingV: "void"}
	ptr := &clangxtest.Type{KindV: clangx.KindPointer, SpellingV: "const void *", AttributedSpellingV: "const void *", Pointee: pointee}
	decl := &clangxtest.Cursor{KindV: clangx.CursorTypedefDecl, SpellingV: "CFTypeRef", Underlying: ptr}
	ty := &clangxtest.Type{
		KindV: clangx.KindTypedef, SpellingV: "CFTypeRef", AttributedSpellingV: "CFTypeRef",
		Decl: decl,
	}
	got := Translate(ty, ident.LifetimeUnspecified, "CoreFoundation", []string{"CoreFoundation"}, newCtx())
	td, ok := got.(TypeDefTy)
	if !ok {
		t.Fatalf("expected TypeDefTy, got %#v", got)
	}
	if !td.IsCF {
		t.Fatalf("expected IsCF=true for CFTypeRef (pointer-to-void, name in the known CF list)")
	}
}

func TestTranslateBridgedStructPointerIsCFWithoutRefSuffix(t *testing.T) {
	pointee := &clangxtest.Type{KindV: clangx.KindRecord, SpellingV: "struct __SomeOpaque", Decl: &clangxtest.Cursor{KindV: clangx.CursorStructDecl, SpellingV: "__SomeOpaque"}}
	pointee.Decl.AttributesV = []string{`__attribute__((objc_bridge(SomeBridgedClass)))`}
	ptr := &clangxtest.Type{KindV: clangx.KindPointer, SpellingV: "struct __SomeOpaque *", AttributedSpellingV: "struct __SomeOpaque *", Pointee: pointee}
	decl := &clangxtest.Cursor{KindV: clangx.CursorTypedefDecl, SpellingV: "SomeBridgedOpaque", Underlying: ptr}
	ty := &clangxtest.Type{
		KindV: clangx.KindTypedef, SpellingV: "SomeBridgedOpaque", AttributedSpellingV: "SomeBridgedOpaque",
		Decl: decl,
	}
	got := Translate(ty, ident.LifetimeUnspecified, "CoreFoundation", []string{"CoreFoundation"}, newCtx())
	td, ok := got.(TypeDefTy)
	if !ok {
		t.Fatalf("expected TypeDefTy, got %#v", got)
	}
	if !td.IsCF {
		t.Fatalf("expected IsCF=true for a typedef pointing at a bridged struct, regardless of name")
	}
}

func TestTranslateObjCObjectPointerToInterface(t *testing.T) {
	iface := &clangxtest.Type{KindV: clangx.KindObjCInterface, SpellingV: "NSString"}
	ty := &clangxtest.Type{
		KindV: clangx.KindObjCObjectPointer, SpellingV: "NSString *", AttributedSpellingV: "NSString * _Nonnull",
		Pointee: iface, NullabilityV: clangx.NullabilityNonNull, NullabilityKnown: true,
	}
	got := Translate(ty, ident.LifetimeStrong, "Foundation", []string{"Foundation"}, newCtx())
	ptr, ok := got.(PointerTy)
	if !ok {
		t.Fatalf("expected PointerTy, got %#v", got)
	}
	if ptr.Nullability != ident.NonNull {
		t.Fatalf("expected NonNull, got %v", ptr.Nullability)
	}
	if ptr.Lifetime != ident.LifetimeStrong {
		t.Fatalf("expected inherited Strong lifetime, got %v", ptr.Lifetime)
	}
	cls, ok := ptr.Pointee.(ClassTy)
	if !ok || cls.Decl.ID.Name != "NSString" {
		t.Fatalf("expected ClassTy{NSString}, got %#v", ptr.Pointee)
	}
}

func TestTranslateBlockPointer(t *testing.T) {
	arg := &clangxtest.Type{KindV: clangx.KindObjCInterface, SpellingV: "NSError"}
	fn := &clangxtest.Type{KindV: clangx.KindFunctionProto, SpellingV: "void (NSError *)", ResultV: &clangxtest.Type{KindV: clangx.KindVoid, SpellingV: "void"}, Args: []clangx.Type{arg}}
	ty := &clangxtest.Type{
		KindV: clangx.KindBlockPointer, SpellingV: "void (^)(NSError *)", AttributedSpellingV: "void (^)(NSError *)",
		Pointee: fn,
	}
	got := Translate(ty, ident.LifetimeUnspecified, "Foundation", []string{"Foundation"}, newCtx())
	ptr, ok := got.(PointerTy)
	if !ok {
		t.Fatalf("expected PointerTy wrapping a block, got %#v", got)
	}
	block, ok := ptr.Pointee.(BlockTy)
	if !ok {
		t.Fatalf("expected BlockTy, got %#v", ptr.Pointee)
	}
	if len(block.Args) != 1 {
		t.Fatalf("expected one block argument, got %d", len(block.Args))
	}
}

func TestTranslateExtVector(t *testing.T) {
	ty := &clangxtest.Type{
		KindV: clangx.KindUnexposed,
		SpellingV: "float __attribute__((ext_vector_type(4)))",
		AttributedSpellingV: "float __attribute__((ext_vector_type(4)))",
	}
	got := Translate(ty, ident.LifetimeUnspecified, "Foundation", []string{"Foundation"}, newCtx())
	arr, ok := got.(RustArrayTy)
	if !ok || arr.N != 4 {
		t.Fatalf("expected RustArrayTy{N:4}, got %#v", got)
	}
	if p, ok := arr.Element.(PrimitiveTy); !ok || p.Kind != Float {
		t.Fatalf("expected float element, got %#v", arr.Element)
	}
}

func TestTranslateIncompleteArray(t *testing.T) {
	elem := &clangxtest.Type{KindV: clangx.KindObjCInterface, SpellingV: "NSString"}
	ty := &clangxtest.Type{
		KindV: clangx.KindIncompleteArray, SpellingV: "NSString * _Nonnull []",
		Element: elem, NullabilityV: clangx.NullabilityNonNull, NullabilityKnown: true,
	}
	got := Translate(ty, ident.LifetimeUnspecified, "Foundation", []string{"Foundation"}, newCtx())
	arr, ok := got.(IncompleteArrayTy)
	if !ok {
		t.Fatalf("expected IncompleteArrayTy, got %#v", got)
	}
	if arr.Nullability != ident.NonNull {
		t.Fatalf("expected NonNull, got %v", arr.Nullability)
	}
}

func TestTranslateStructRecord(t *testing.T) {
	field := &clangxtest.Cursor{KindV: clangx.CursorFieldDecl, SpellingV: "x", TypeV: &clangxtest.Type{KindV: clangx.KindDouble, SpellingV: "double"}}
	decl := &clangxtest.Cursor{KindV: clangx.CursorStructDecl, SpellingV: "CGPoint", Children: []clangx.Cursor{field}}
	ty := &clangxtest.Type{KindV: clangx.KindRecord, SpellingV: "CGPoint", Decl: decl}

	got := Translate(ty, ident.LifetimeUnspecified, "Foundation", []string{"Foundation"}, newCtx())
	st, ok := got.(StructTy)
	if !ok {
		t.Fatalf("expected StructTy, got %#v", got)
	}
	if st.ID.Name != "CGPoint" {
		t.Fatalf("expected struct named CGPoint, got %q", st.ID.Name)
	}
	if len(st.Fields) != 1 {
		t.Fatalf("expected 1 field, got %d", len(st.Fields))
	}
}

func TestTranslateExternalRefResolvesItemRef(t *testing.T) {
	ctx := cctx.New(map[string]cctx.LibraryConfig{
		"Foundation": {External: map[string]cctx.ExternalItem{
			"CGPoint": {Module: "CoreGraphics.CGGeometry"},
		}},
	})
	proto := &clangxtest.Cursor{KindV: clangx.CursorObjCProtocolRef, SpellingV: "CGPoint"}
	ty := &clangxtest.Type{KindV: clangx.KindObjCObject, SpellingV: "id<CGPoint>", Protocols: []clangx.Cursor{proto}}

	got := Translate(ty, ident.LifetimeUnspecified, "Foundation", []string{"Foundation"}, ctx)
	obj, ok := got.(AnyObjectTy)
	if !ok || len(obj.Protocols) != 1 {
		t.Fatalf("expected AnyObjectTy with one protocol ref, got %#v", got)
	}
	if obj.Protocols[0].ID.Location.Library != "external" {
		t.Fatalf("expected protocol ref resolved externally, got %+v", obj.Protocols[0])
	}
}
