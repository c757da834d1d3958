package stmt

import (
	"strings"

	"github.com/gogpu/cocoagen/internal/cctx"
	"github.com/gogpu/cocoagen/internal/clangx"
	"github.com/gogpu/cocoagen/internal/ident"
	"github.com/gogpu/cocoagen/internal/tygraph"
)

// Build implements spec.md §4.6: it turns one top-level Clang cursor
// into zero or more Statements, resolving the declaration's module from
// its expansion-location file and folding in every macro-driven fact
// (availability, renames, method family, designated-initializer) the
// unexposed-token parser and the dedicated cursor queries surface.
func Build(cursor clangx.Cursor, ctx *cctx.Context, library string) []Statement {
	b := &builder{ctx: ctx, library: library}
	return b.build(cursor)
}

type builder struct {
	ctx     *cctx.Context
	library string
}

func (b *builder) location(cursor clangx.Cursor) ident.Location {
	return ident.Location{Library: b.library, ModulePath: modulePathFromFile(cursor.File())}
}

func (b *builder) translate(ty clangx.Type, inherited ident.Lifetime, cursor clangx.Cursor) tygraph.Ty {
	return tygraph.Translate(ty, inherited, b.library, modulePathFromFile(cursor.File()), b.ctx)
}

func (b *builder) id(cursor clangx.Cursor) ident.Identifier {
	return ident.Identifier{Name: cursor.Spelling(), Location: b.location(cursor)}
}

func (b *builder) build(cursor clangx.Cursor) []Statement {
	if b.ctx.Skip(b.library, cursor.Spelling()) {
		return nil
	}

	facts := scanAttributes(cursor)

	switch cursor.Kind() {
	case clangx.CursorObjCInterfaceDecl:
		if facts.wholeDeclUnavailable {
			return nil
		}
		return []Statement{b.buildClass(cursor, facts)}
	case clangx.CursorObjCProtocolDecl:
		if facts.wholeDeclUnavailable {
			return nil
		}
		return []Statement{b.buildProtocol(cursor, facts)}
	case clangx.CursorObjCCategoryDecl:
		if facts.wholeDeclUnavailable {
			return nil
		}
		return []Statement{b.buildCategory(cursor, facts)}
	case clangx.CursorTypedefDecl:
		return []Statement{b.buildTypedef(cursor, facts)}
	case clangx.CursorEnumDecl:
		return []Statement{b.buildEnum(cursor, facts)}
	case clangx.CursorStructDecl:
		return []Statement{b.buildStruct(cursor, facts)}
	case clangx.CursorFunctionDecl:
		return []Statement{b.buildFn(cursor, facts)}
	case clangx.CursorVarDecl:
		return []Statement{b.buildStatic(cursor, facts)}
	default:
		return nil
	}
}

func (b *builder) buildClass(cursor clangx.Cursor, facts attributeFacts) ClassDecl {
	decl := ClassDecl{ID: b.id(cursor), Availability: facts.avail}
	cursor.VisitChildren(func(c clangx.Cursor) clangx.ChildVisitResult {
		switch c.Kind() {
		case clangx.CursorObjCSuperClassRef:
			ref := b.ref(c.Spelling())
			decl.Superclass = &ref
		case clangx.CursorObjCProtocolRef:
			decl.Protocols = append(decl.Protocols, b.ref(c.Spelling()))
		case clangx.CursorObjCInstanceMethodDecl, clangx.CursorObjCClassMethodDecl:
			decl.Methods = append(decl.Methods, b.buildMethod(c))
		case clangx.CursorObjCPropertyDecl:
			decl.Properties = append(decl.Properties, b.buildProperty(c))
		}
		return clangx.ChildVisitContinue
	})
	return decl
}

func (b *builder) buildProtocol(cursor clangx.Cursor, facts attributeFacts) ProtocolDecl {
	name := b.ctx.ReplaceProtocolName(cursor.Spelling())
	id := b.id(cursor)
	id.Name = name
	decl := ProtocolDecl{ID: id, Availability: facts.avail}
	cursor.VisitChildren(func(c clangx.Cursor) clangx.ChildVisitResult {
		switch c.Kind() {
		case clangx.CursorObjCProtocolRef:
			decl.Protocols = append(decl.Protocols, b.ref(c.Spelling()))
		case clangx.CursorObjCInstanceMethodDecl, clangx.CursorObjCClassMethodDecl:
			decl.Methods = append(decl.Methods, b.buildMethod(c))
		case clangx.CursorObjCPropertyDecl:
			decl.Properties = append(decl.Properties, b.buildProperty(c))
		}
		return clangx.ChildVisitContinue
	})
	return decl
}

func (b *builder) buildCategory(cursor clangx.Cursor, facts attributeFacts) CategoryDecl {
	decl := CategoryDecl{ID: b.id(cursor), Availability: facts.avail}
	cursor.VisitChildren(func(c clangx.Cursor) clangx.ChildVisitResult {
		switch c.Kind() {
		case clangx.CursorObjCSuperClassRef:
			decl.ClassName = b.ref(c.Spelling())
		case clangx.CursorObjCProtocolRef:
			decl.Protocols = append(decl.Protocols, b.ref(c.Spelling()))
		case clangx.CursorObjCInstanceMethodDecl, clangx.CursorObjCClassMethodDecl:
			decl.Methods = append(decl.Methods, b.buildMethod(c))
		case clangx.CursorObjCPropertyDecl:
			decl.Properties = append(decl.Properties, b.buildProperty(c))
		}
		return clangx.ChildVisitContinue
	})
	if decl.ClassName.ID.Name == "" {
		decl.ClassName = b.ref(cursor.Spelling())
	}
	return decl
}

func (b *builder) buildMethod(cursor clangx.Cursor) MethodDecl {
	facts := scanAttributes(cursor)

	inherited := ident.LifetimeUnspecified
	if facts.returnsRetained {
		inherited = ident.LifetimeStrong
	} else if facts.returnsNotRetained {
		inherited = ident.LifetimeAutoreleasing
	}

	args := make([]MethodArg, 0, len(cursor.Arguments()))
	for _, p := range cursor.Arguments() {
		args = append(args, MethodArg{Name: p.Spelling(), Type: b.translate(p.Type(), ident.LifetimeUnspecified, p)})
	}

	family := inferFamily(firstSelectorComponent(cursor.Spelling()))
	if facts.explicitFamily != nil {
		family = *facts.explicitFamily
	}
	if override, ok := b.ctx.MethodFamilyOverride(b.library, cursor.Spelling()); ok {
		if f, ok := methodFamilyFromMacro(override); ok {
			family = f
		}
	}

	qualifiers := []string{}
	if facts.swiftUnavailable {
		qualifiers = append(qualifiers, "swift_unavailable")
	}

	return MethodDecl{
		ID:                  b.id(cursor),
		Selector:            cursor.Spelling(),
		Args:                args,
		Result:              b.translate(cursor.ResultType(), inherited, cursor),
		ClassMethod:         cursor.Kind() == clangx.CursorObjCClassMethodDecl,
		Optional:            cursor.IsOptional(),
		DesignatedInit:      cursor.IsDesignatedInitializer(),
		ReturnsRetained:     facts.returnsRetained,
		ReturnsInnerPointer: facts.returnsInnerPointer,
		Family:              family,
		Variadic:            cursor.Type() != nil && cursor.Type().IsVariadic(),
		Qualifiers:          qualifiers,
		Availability:        facts.avail,
		RenamedTo:           facts.renamedTo,
		Refined:             facts.refined,
	}
}

func (b *builder) buildProperty(cursor clangx.Cursor) PropertyDecl {
	facts := scanAttributes(cursor)
	name := cursor.Spelling()
	setter := ""
	if name != "" {
		setter = "set" + strings.ToUpper(name[:1]) + name[1:] + ":"
	}
	attrs := []string{}
	if cursor.IsReadOnlyProperty() {
		attrs = append(attrs, "readonly")
	}
	return PropertyDecl{
		ID:           b.id(cursor),
		Type:         b.translate(cursor.Type(), ident.LifetimeUnspecified, cursor),
		Getter:       name,
		Setter:       setter,
		ReadOnly:     cursor.IsReadOnlyProperty(),
		Attrs:        attrs,
		Availability: facts.avail,
	}
}

func (b *builder) buildTypedef(cursor clangx.Cursor, facts attributeFacts) TypedefDecl {
	return TypedefDecl{
		ID:           b.id(cursor),
		Underlying:   b.translate(cursor.UnderlyingType(), ident.LifetimeUnspecified, cursor),
		Availability: facts.avail,
	}
}

func (b *builder) buildEnum(cursor clangx.Cursor, facts attributeFacts) EnumDecl {
	decl := EnumDecl{ID: b.id(cursor), Underlying: b.translate(cursor.UnderlyingType(), ident.LifetimeUnspecified, cursor), Availability: facts.avail}
	seenValues := make(map[int64]bool)
	monotonic := true
	bitmaskLike := true
	cursor.VisitChildren(func(c clangx.Cursor) clangx.ChildVisitResult {
		if c.Kind() != clangx.CursorEnumConstantDecl {
			return clangx.ChildVisitContinue
		}
		// Without a literal-value accessor on Cursor, case ordinals are
		// inferred from visitation order (C's own rule, absent an
		// explicit initializer) — adequate for flag/closed detection.
		value := int64(len(decl.Cases))
		decl.Cases = append(decl.Cases, EnumCase{Name: c.Spelling(), Value: value})
		if seenValues[value] {
			monotonic = false
		}
		seenValues[value] = true
		if value != 0 && value&(value-1) != 0 {
			bitmaskLike = false
		}
		return clangx.ChildVisitContinue
	})
	decl.IsFlag = bitmaskLike && len(decl.Cases) > 1
	decl.IsClosed = monotonic && !decl.IsFlag
	return decl
}

func (b *builder) buildStruct(cursor clangx.Cursor, facts attributeFacts) StructDecl {
	decl := StructDecl{ID: b.id(cursor), Availability: facts.avail, IsBridged: facts.bridged}
	cursor.VisitChildren(func(c clangx.Cursor) clangx.ChildVisitResult {
		if c.Kind() == clangx.CursorFieldDecl {
			decl.Fields = append(decl.Fields, StructField{Name: c.Spelling(), Type: b.translate(c.Type(), ident.LifetimeUnspecified, c)})
		}
		return clangx.ChildVisitContinue
	})
	return decl
}

func (b *builder) buildFn(cursor clangx.Cursor, facts attributeFacts) FnDecl {
	inherited := ident.LifetimeUnspecified
	if facts.returnsRetained {
		inherited = ident.LifetimeStrong
	} else if facts.returnsNotRetained {
		inherited = ident.LifetimeAutoreleasing
	}

	args := make([]MethodArg, 0, len(cursor.Arguments()))
	for _, p := range cursor.Arguments() {
		args = append(args, MethodArg{Name: p.Spelling(), Type: b.translate(p.Type(), ident.LifetimeUnspecified, p)})
	}
	variadic := false
	if t := cursor.Type(); t != nil {
		variadic = t.IsVariadic()
	}
	return FnDecl{
		ID:              b.id(cursor),
		Args:            args,
		Result:          b.translate(cursor.ResultType(), inherited, cursor),
		Variadic:        variadic,
		ReturnsRetained: facts.returnsRetained,
		Availability:    facts.avail,
	}
}

func (b *builder) buildStatic(cursor clangx.Cursor, facts attributeFacts) StaticDecl {
	return StaticDecl{ID: b.id(cursor), Type: b.translate(cursor.Type(), ident.LifetimeUnspecified, cursor), Availability: facts.avail}
}

func (b *builder) ref(name string) ident.ItemRef {
	if id, ts, ok := b.ctx.ResolveExternal(b.library, name); ok {
		return ident.ItemRef{ID: id, ThreadSafety: ts}
	}
	return ident.ItemRef{ID: ident.Identifier{Name: name, Location: ident.Location{Library: b.library}}}
}

func firstSelectorComponent(selector string) string {
	if i := strings.IndexByte(selector, ':'); i >= 0 {
		return selector[:i]
	}
	return selector
}

// modulePathFromFile derives a dotted module path from the declaration's
// expansion-location file, e.g.
// ".../Foundation.framework/Headers/NSString.h" → ["Foundation", "NSString"].
// SDK layout and framework-root discovery are out of scope (spec.md §1);
// this only needs to be stable and distinct per header.
func modulePathFromFile(file string) []string {
	file = strings.TrimSuffix(file, ".h")
	segments := strings.Split(file, "/")
	var out []string
	for _, s := range segments {
		if s == "" {
			continue
		}
		if strings.HasSuffix(s, ".framework") {
			out = append(out, strings.TrimSuffix(s, ".framework"))
			continue
		}
		if s == "Headers" || s == "PrivateHeaders" {
			continue
		}
		out = append(out, s)
	}
	if len(out) == 0 {
		return []string{"main"}
	}
	return out
}
