package tygraph

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/gogpu/cocoagen/internal/attrparse"
	"github.com/gogpu/cocoagen/internal/cctx"
	"github.com/gogpu/cocoagen/internal/clangx"
	"github.com/gogpu/cocoagen/internal/ident"
)

// Translate parses a clangx.Type into the internal Ty algebra,
// implementing the algorithm of spec.md §4.3. library/module identify
// the declaration this type was found on, used to build ItemRefs for
// any declaration the type refers to.
func Translate(ty clangx.Type, inherited ident.Lifetime, library string, module []string, ctx *cctx.Context) Ty {
	t := &translator{ctx: ctx, library: library, module: module}
	return t.translate(ty, inherited)
}

type translator struct {
	ctx     *cctx.Context
	library string
	module  []string
}

func (t *translator) loc() ident.Location {
	return ident.Location{Library: t.library, ModulePath: t.module}
}

func (t *translator) ref(name string) ItemRef {
	if id, ts, ok := t.ctx.ResolveExternal(t.library, name); ok {
		return ItemRef{ID: id, ThreadSafety: ts}
	}
	return ItemRef{ID: ident.Identifier{Name: name, Location: t.loc()}}
}

var extVectorPattern = regexp.MustCompile(`__attribute__\s*\(\(.*ext_vector_type\((\d+)\).*\)\)`)
var extVectorPrimitives = map[string]Primitive{
	"float": Float, "double": Double, "int": Int, "unsigned int": UInt,
	"short": Short, "unsigned short": UShort, "char": Char,
	"unsigned char": UChar, "long": Long, "unsigned long": ULong,
	"__fp16": Float, "_Float16": Float,
}

// translate implements spec.md §4.3 steps 1-4.
func (t *translator) translate(ty clangx.Type, inherited ident.Lifetime) Ty {
	if ty == nil {
		return GenericParamTy{Name: "Unknown"}
	}

	// Step 3 (run before step 1, on the original attributed spelling):
	// ext_vector detection short-circuits the rest of parsing per
	// spec.md §4.3.b.
	if rt, ok := t.detectExtVector(ty); ok {
		return rt
	}

	lifetime := inherited
	noEscape := false

	// Step 1: peel unexposed/attributed wrappers.
	for ty.Kind() == clangx.KindUnexposed || ty.Kind() == clangx.KindAttributed {
		attributed := ty.AttributedSpelling()
		canonical := ty.Spelling()

		remA, attrsA := attrparse.ParseUnexposed(attributed)
		remC, attrsC := attrparse.ParseUnexposed(canonical)
		if len(attrsA) > 0 && len(attrsC) > 0 && attrsA[0].Kind != attrsC[0].Kind {
			t.ctx.Diagnostics.Soft(attributed, "unexposed attribute mismatch between attributed (%v) and canonical (%v) spellings", attrsA[0].Kind, attrsC[0].Kind)
		}
		_ = remA
		_ = remC

		for _, a := range attrsA {
			switch a.Kind {
			case attrparse.UnexposedReturnsRetained:
				if err := lifetime.Update(ident.LifetimeStrong); err != nil {
					t.ctx.Diagnostics.Soft(attributed, "%v", err)
				}
			case attrparse.UnexposedReturnsNotRetained:
				if err := lifetime.Update(ident.LifetimeAutoreleasing); err != nil {
					t.ctx.Diagnostics.Soft(attributed, "%v", err)
				}
			case attrparse.UnexposedNoEscape:
				noEscape = true
			}
		}

		pointee := ty.PointeeType()
		if pointee == nil {
			break
		}
		ty = pointee
	}

	// Step 2: elaborated peel.
	if ty.Kind() == clangx.KindElaborated {
		if pointee := ty.PointeeType(); pointee != nil {
			ty = pointee
		}
	}

	out := t.dispatch(ty, lifetime)
	if fn, ok := out.(FnTy); ok && noEscape {
		_ = fn // no_escape is carried on the Block wrapper, not bare Fn
	}
	return out
}

// detectExtVector implements spec.md §4.3 step 3/§4.3.b.
func (t *translator) detectExtVector(ty clangx.Type) (RustArrayTy, bool) {
	spelling := ty.AttributedSpelling()
	m := extVectorPattern.FindStringSubmatch(spelling)
	if m == nil {
		return RustArrayTy{}, false
	}
	n, err := strconv.ParseInt(m[1], 10, 64)
	if err != nil {
		t.ctx.Diagnostics.Soft(spelling, "malformed ext_vector_type length: %v", err)
		return RustArrayTy{}, false
	}

	base := strings.TrimSpace(extVectorPattern.ReplaceAllString(spelling, ""))
	prim, ok := extVectorPrimitives[base]
	if !ok {
		t.ctx.Diagnostics.Soft(spelling, "unsupported ext_vector_type element %q", base)
		return RustArrayTy{}, false
	}
	return RustArrayTy{Element: PrimitiveTy{Kind: prim}, N: n}, true
}

// dispatch implements spec.md §4.3 step 4.
func (t *translator) dispatch(ty clangx.Type, lifetime ident.Lifetime) Ty {
	switch ty.Kind() {
	case clangx.KindVoid:
		return PrimitiveTy{Kind: Void}
	case clangx.KindBool:
		return PrimitiveTy{Kind: C99Bool}

	case clangx.KindObjCId:
		return t.translateObjCId(ty, lifetime)
	case clangx.KindObjCClass:
		return PointerTy{IsConst: true, Pointee: AnyClassTy{}}
	case clangx.KindObjCSel:
		n, _ := ty.Nullability()
		return SelTy{Nullability: toIdentNullability(n)}
	case clangx.KindObjCInterface:
		return t.translateObjCInterface(ty)
	case clangx.KindObjCObject:
		return t.translateObjCObject(ty)
	case clangx.KindObjCObjectPointer:
		return t.translateObjCObjectPointer(ty, lifetime)

	case clangx.KindPointer:
		return t.translatePointer(ty, lifetime)
	case clangx.KindBlockPointer:
		return t.translateBlockPointer(ty, lifetime)

	case clangx.KindTypedef:
		return t.translateTypedef(ty, lifetime)

	case clangx.KindRecord:
		return t.translateStruct(ty)
	case clangx.KindEnum:
		return t.translateEnum(ty)

	case clangx.KindFunctionProto, clangx.KindFunctionNoProto:
		return t.translateFn(ty)

	case clangx.KindIncompleteArray:
		n, _ := ty.Nullability()
		pointee := t.translate(ty.ElementType(), ident.LifetimeUnspecified)
		return IncompleteArrayTy{Nullability: toIdentNullability(n), Pointee: pointee}

	case clangx.KindConstantArray:
		return ArrayTy{Element: t.translate(ty.ElementType(), ident.LifetimeUnspecified), N: ty.ArraySize()}

	case clangx.KindTemplateTypeParm:
		return PointerTy{Pointee: GenericParamTy{Name: ty.Spelling()}}

	default:
		t.ctx.Diagnostics.Soft(ty.Spelling(), "unknown type kind %v", ty.Kind())
		return GenericParamTy{Name: "Unknown"}
	}
}

func toIdentNullability(n clangx.Nullability) ident.Nullability {
	switch n {
	case clangx.NullabilityNonNull:
		return ident.NonNull
	case clangx.NullabilityNullable:
		return ident.Nullable
	case clangx.NullabilityNullableResult:
		return ident.NullableResult
	default:
		return ident.Unspecified
	}
}

func (t *translator) translateObjCId(ty clangx.Type, lifetime ident.Lifetime) Ty {
	p := attrparse.New(ty.AttributedSpelling(), ty.Spelling())
	if tok, ok := p.StripLifetime(attrparse.Prefix); ok {
		if err := lifetime.Update(lifetimeTokenValues[tok]); err != nil {
			t.ctx.Diagnostics.Soft(ty.AttributedSpelling(), "%v", err)
		}
	}
	nl, known := ty.Nullability()
	nullability := ident.Unspecified
	if known {
		nullability = toIdentNullability(nl)
	}
	isConst := p.Strip(attrparse.Prefix, attrparse.TokenConst)
	return PointerTy{Nullability: nullability, IsConst: isConst, Lifetime: lifetime, Pointee: AnyObjectTy{}}
}

func (t *translator) translateObjCInterface(ty clangx.Type) Ty {
	name := ty.Spelling()
	if name == "Protocol" {
		return AnyProtocolTy{}
	}
	return ClassTy{Decl: t.ref(name)}
}

func (t *translator) translateObjCObject(ty clangx.Type) Ty {
	protoRefs := ty.ProtocolRefs()
	protocols := make([]ItemRef, 0, len(protoRefs))
	for _, p := range protoRefs {
		protocols = append(protocols, t.ref(p.Spelling()))
	}

	base := ty.Declaration()
	generics := ty.GenericArgs()

	if base == nil {
		return AnyObjectTy{Protocols: protocols}
	}

	switch base.Kind() {
	case clangx.CursorObjCInterfaceDecl:
		if len(generics) > 0 && len(protocols) > 0 {
			t.ctx.Diagnostics.Soft(ty.Spelling(), "ObjCObject has both generics and protocols on an interface base")
		}
		genericTys := make([]Ty, 0, len(generics))
		for _, g := range generics {
			genericTys = append(genericTys, t.translate(g, ident.LifetimeUnspecified))
		}
		return ClassTy{Decl: t.ref(base.Spelling()), Generics: genericTys, Protocols: protocols}
	default:
		return AnyObjectTy{Protocols: protocols}
	}
}

var lifetimeTokenValues = map[attrparse.Token]ident.Lifetime{
	attrparse.TokenStrong:           ident.LifetimeStrong,
	attrparse.TokenWeak:             ident.LifetimeWeak,
	attrparse.TokenUnsafeUnretained: ident.LifetimeUnretained,
	attrparse.TokenAutoreleasing:    ident.LifetimeAutoreleasing,
}

var nullabilityTokenValues = map[attrparse.Token]ident.Nullability{
	attrparse.TokenNonnull:         ident.NonNull,
	attrparse.TokenNullable:        ident.Nullable,
	attrparse.TokenNullUnspecified: ident.Unspecified,
	attrparse.TokenNullableResult:  ident.NullableResult,
}

func (t *translator) translateObjCObjectPointer(ty clangx.Type, lifetime ident.Lifetime) Ty {
	outer := attrparse.New(ty.AttributedSpelling(), ty.Spelling())
	if tok, ok := outer.StripLifetime(attrparse.Prefix); ok {
		if err := lifetime.Update(lifetimeTokenValues[tok]); err != nil {
			t.ctx.Diagnostics.Soft(ty.AttributedSpelling(), "%v", err)
		}
	}
	strippedNull, hasStrippedNull := outer.StripNullability(attrparse.Suffix)

	pointee := ty.PointeeType()
	var inner Ty
	if pointee != nil {
		inner = t.translate(pointee, lifetime)
	} else {
		inner = AnyObjectTy{}
	}

	nullability := ident.Unspecified
	if n, ok := ty.Nullability(); ok {
		nullability = toIdentNullability(n)
	} else if hasStrippedNull {
		nullability = nullabilityTokenValues[strippedNull]
	}

	return PointerTy{Nullability: nullability, Lifetime: lifetime, Pointee: inner}
}

func (t *translator) translatePointer(ty clangx.Type, lifetime ident.Lifetime) Ty {
	pointee := ty.PointeeType()
	if pointee == nil {
		return PointerTy{Lifetime: lifetime, Pointee: PrimitiveTy{Kind: Void}}
	}

	if pointee.Kind() == clangx.KindFunctionProto || pointee.Kind() == clangx.KindFunctionNoProto {
		p := attrparse.New(ty.AttributedSpelling(), ty.Spelling())
		p.StripBlockWrapper()
	}

	n, _ := ty.Nullability()
	pointeeTy := t.translate(pointee, ident.LifetimeUnspecified)
	isConst := strings.Contains(ty.Spelling(), "const")
	return PointerTy{Nullability: toIdentNullability(n), IsConst: isConst, Lifetime: lifetime, Pointee: pointeeTy}
}

func (t *translator) translateBlockPointer(ty clangx.Type, lifetime ident.Lifetime) Ty {
	pointee := ty.PointeeType()
	inner := t.dispatch(pointee, ident.LifetimeUnspecified)
	fn, ok := inner.(FnTy)
	if !ok {
		t.ctx.Diagnostics.Soft(ty.Spelling(), "block pointer did not resolve to a function type")
		fn = FnTy{}
	}
	_, attrs := attrparse.ParseUnexposed(ty.AttributedSpelling())
	noEscape := false
	for _, a := range attrs {
		if a.Kind == attrparse.UnexposedNoEscape {
			noEscape = true
		}
	}
	block := BlockTy{Sendable: nil, NoEscape: noEscape, Args: fn.Args, Result: fn.Result}
	n, _ := ty.Nullability()
	return PointerTy{Nullability: toIdentNullability(n), Lifetime: lifetime, Pointee: block}
}

var fixedWidthTypedefs = map[string]Primitive{
	"BOOL": ObjcBool, "int8_t": I8, "uint8_t": U8, "int16_t": I16,
	"uint16_t": U16, "int32_t": I32, "uint32_t": U32, "int64_t": I64,
	"uint64_t": U64, "ssize_t": ISize, "size_t": USize,
	"ptrdiff_t": PtrDiff, "intptr_t": ISize, "uintptr_t": USize,
	"NSInteger": NSInteger, "NSUInteger": NSUInteger,
	"UInt8": U8, "UInt16": U16, "UInt32": U32, "UInt64": U64,
	"Int8": I8, "Int16": I16, "Int32": I32, "Int64": I64,
	"Float32": F32, "Float64": F64, "__builtin_va_list": VaList,
}

func (t *translator) translateTypedef(ty clangx.Type, lifetime ident.Lifetime) Ty {
	name := ty.Spelling()

	if name == "instancetype" {
		return SelfTy{}
	}
	if name == "IMP" {
		return PrimitiveTy{Kind: Imp}
	}
	if prim, ok := fixedWidthTypedefs[name]; ok {
		return PrimitiveTy{Kind: prim}
	}

	decl := ty.Declaration()
	if decl != nil && decl.Kind() == clangx.CursorTypedefDecl {
		underlying := decl.UnderlyingType()
		if underlying != nil && underlying.Kind() == clangx.KindTemplateTypeParm {
			return PointerTy{Pointee: GenericParamTy{Name: underlying.Spelling()}}
		}
	}

	var underlying clangx.Type
	if decl != nil {
		underlying = decl.UnderlyingType()
	}
	underlyingTy := t.translate(underlying, lifetime)

	isCF := t.isCF(name, underlyingTy, decl)
	id := ident.Identifier{Name: name, Location: t.loc()}
	id = t.ctx.ReplaceTypedefName(t.library, id, isCF)

	return TypeDefTy{ID: id, Lifetime: lifetime, To: underlyingTy, IsCF: isCF}
}

// isCF implements spec.md §4.3.a / P3: a TypeDef underlying a Pointer
// whose pointee is a Struct or Primitive(Void) is CF iff the struct is
// bridged (carries an objc_bridge attribute on its declaration), or the
// typedef's name appears in the built-in CF type database, or (the
// void-pointee case) the typedef itself is bridged. A typedef whose
// target already resolves to a CF typedef (a CF alias of a CF type) is
// CF transitively, without needing to satisfy any of the three shape
// tests again.
func (t *translator) isCF(name string, underlying Ty, decl clangx.Cursor) bool {
	if inner, ok := underlying.(TypeDefTy); ok && inner.IsCF {
		return true
	}

	ptr, ok := underlying.(PointerTy)
	if !ok {
		return false
	}

	switch pointee := ptr.Pointee.(type) {
	case StructTy:
		return pointee.IsBridged || knownCFName(name)
	case PrimitiveTy:
		if pointee.Kind != Void {
			return false
		}
		return isBridgedDecl(decl) || knownCFName(name)
	default:
		return false
	}
}

// isBridgedDecl reports whether decl carries an objc_bridge attribute,
// the same macro stmt.scanAttributes recognizes for struct declarations
// (internal/stmt/attributes.go's containsObjCBridge); tygraph can't
// import internal/stmt (stmt already imports tygraph), so the check is
// duplicated here at the same granularity it's needed: a raw substring
// test over the cursor's unexposed-attribute source text.
func isBridgedDecl(decl clangx.Cursor) bool {
	if decl == nil {
		return false
	}
	for _, raw := range decl.Attributes() {
		if strings.Contains(raw, "objc_bridge") {
			return true
		}
	}
	return false
}

func (t *translator) translateStruct(ty clangx.Type) Ty {
	decl := ty.Declaration()
	fields := []Ty{}
	if decl != nil {
		decl.VisitChildren(func(c clangx.Cursor) clangx.ChildVisitResult {
			if c.Kind() == clangx.CursorFieldDecl {
				fields = append(fields, t.translate(c.Type(), ident.LifetimeUnspecified))
			}
			return clangx.ChildVisitContinue
		})
	}
	return StructTy{ID: ident.Identifier{Name: ty.Spelling(), Location: t.loc()}, Fields: fields, IsBridged: isBridgedDecl(decl)}
}

func (t *translator) translateEnum(ty clangx.Type) Ty {
	decl := ty.Declaration()
	var underlying clangx.Type
	if decl != nil {
		underlying = decl.Type()
	}
	return EnumTy{ID: ident.Identifier{Name: ty.Spelling(), Location: t.loc()}, Underlying: t.translate(underlying, ident.LifetimeUnspecified)}
}

func (t *translator) translateFn(ty clangx.Type) Ty {
	args := make([]Ty, 0, len(ty.ArgTypes()))
	for _, a := range ty.ArgTypes() {
		args = append(args, t.translate(a, ident.LifetimeUnspecified))
	}
	result := t.translate(ty.ResultType(), ident.LifetimeUnspecified)
	return FnTy{IsVariadic: ty.IsVariadic(), Args: args, Result: result}
}
