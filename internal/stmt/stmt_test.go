package stmt

import (
	"testing"

	"github.com/gogpu/cocoagen/internal/cctx"
	"github.com/gogpu/cocoagen/internal/clangx"
	"github.com/gogpu/cocoagen/internal/clangx/clangxtest"
	"github.com/gogpu/cocoagen/internal/ident"
)

func newCtx(libraries map[string]cctx.LibraryConfig) *cctx.Context {
	return cctx.New(libraries)
}

func voidType() *clangxtest.Type {
	return &clangxtest.Type{KindV: clangx.KindVoid, SpellingV: "void"}
}

func TestBuildClassWithSuperclassProtocolsAndMembers(t *testing.T) {
	ctx := newCtx(map[string]cctx.LibraryConfig{"Foundation": {}})

	initMethod := &clangxtest.Cursor{
		KindV:     clangx.CursorObjCInstanceMethodDecl,
		SpellingV: "init",
		TypeV:     &clangxtest.Type{KindV: clangx.KindObjCInterface, SpellingV: "NSObject"},
		ResultV:   &clangxtest.Type{KindV: clangx.KindObjCInterface, SpellingV: "instancetype"},
	}
	nameProp := &clangxtest.Cursor{
		KindV:     clangx.CursorObjCPropertyDecl,
		SpellingV: "name",
		TypeV:     &clangxtest.Type{KindV: clangx.KindObjCObjectPointer, SpellingV: "NSString *"},
		ReadOnlyV: true,
	}
	superRef := &clangxtest.Cursor{KindV: clangx.CursorObjCSuperClassRef, SpellingV: "NSObject"}
	protoRef := &clangxtest.Cursor{KindV: clangx.CursorObjCProtocolRef, SpellingV: "NSCopying"}

	cursor := &clangxtest.Cursor{
		KindV:     clangx.CursorObjCInterfaceDecl,
		SpellingV: "Widget",
		FileV:     "/SDK/Foundation.framework/Headers/Widget.h",
		Children:  []clangx.Cursor{superRef, protoRef, initMethod, nameProp},
	}

	stmts := Build(cursor, ctx, "Foundation")
	if len(stmts) != 1 {
		t.Fatalf("expected 1 statement, got %d", len(stmts))
	}
	class, ok := stmts[0].(ClassDecl)
	if !ok {
		t.Fatalf("expected ClassDecl, got %T", stmts[0])
	}
	if class.ID.Name != "Widget" {
		t.Fatalf("unexpected class name: %q", class.ID.Name)
	}
	if class.Superclass == nil || class.Superclass.ID.Name != "NSObject" {
		t.Fatalf("expected superclass NSObject, got %+v", class.Superclass)
	}
	if len(class.Protocols) != 1 || class.Protocols[0].ID.Name != "NSCopying" {
		t.Fatalf("expected protocol NSCopying, got %+v", class.Protocols)
	}
	if len(class.Methods) != 1 || class.Methods[0].Selector != "init" {
		t.Fatalf("expected init method, got %+v", class.Methods)
	}
	if class.Methods[0].Family != FamilyInit {
		t.Fatalf("expected init family, got %v", class.Methods[0].Family)
	}
	if len(class.Properties) != 1 || class.Properties[0].Getter != "name" {
		t.Fatalf("expected name property, got %+v", class.Properties)
	}
	if class.Properties[0].Setter != "setName:" {
		t.Fatalf("expected setter setName:, got %q", class.Properties[0].Setter)
	}
	if !class.Properties[0].ReadOnly {
		t.Fatalf("expected readonly property")
	}
}

func TestBuildProtocolAppliesRenameOnConflict(t *testing.T) {
	ctx := newCtx(map[string]cctx.LibraryConfig{"Foundation": {}})
	ctx.MarkProtocolConflict("NSCopying")

	cursor := &clangxtest.Cursor{
		KindV:     clangx.CursorObjCProtocolDecl,
		SpellingV: "NSCopying",
		FileV:     "/SDK/Foundation.framework/Headers/NSCopying.h",
	}

	stmts := Build(cursor, ctx, "Foundation")
	proto, ok := stmts[0].(ProtocolDecl)
	if !ok {
		t.Fatalf("expected ProtocolDecl, got %T", stmts[0])
	}
	if proto.ID.Name != "NSCopyingProtocol" {
		t.Fatalf("expected renamed protocol, got %q", proto.ID.Name)
	}
}

func TestBuildCategoryFallsBackToSpellingForClassName(t *testing.T) {
	ctx := newCtx(map[string]cctx.LibraryConfig{"Foundation": {}})
	method := &clangxtest.Cursor{
		KindV:     clangx.CursorObjCInstanceMethodDecl,
		SpellingV: "doThing",
		ResultV:   voidType(),
	}
	cursor := &clangxtest.Cursor{
		KindV:     clangx.CursorObjCCategoryDecl,
		SpellingV: "NSString",
		FileV:     "/SDK/Foundation.framework/Headers/NSString+Extras.h",
		Children:  []clangx.Cursor{method},
	}

	stmts := Build(cursor, ctx, "Foundation")
	cat, ok := stmts[0].(CategoryDecl)
	if !ok {
		t.Fatalf("expected CategoryDecl, got %T", stmts[0])
	}
	if cat.ClassName.ID.Name != "NSString" {
		t.Fatalf("expected class name fallback to NSString, got %q", cat.ClassName.ID.Name)
	}
	if len(cat.Methods) != 1 || cat.Methods[0].Selector != "doThing" {
		t.Fatalf("expected doThing method, got %+v", cat.Methods)
	}
}

func TestBuildMethodMethodFamilyOverride(t *testing.T) {
	ctx := newCtx(map[string]cctx.LibraryConfig{"Foundation": {}})
	method := &clangxtest.Cursor{
		KindV:       clangx.CursorObjCInstanceMethodDecl,
		SpellingV:   "newThing",
		ResultV:     voidType(),
		FileV:       "/SDK/Foundation.framework/Headers/Widget.h",
		AttributesV: []string{"NS_METHOD_FAMILY(none)"},
	}
	cursor := &clangxtest.Cursor{
		KindV:     clangx.CursorObjCInterfaceDecl,
		SpellingV: "Widget",
		FileV:     "/SDK/Foundation.framework/Headers/Widget.h",
		Children:  []clangx.Cursor{method},
	}

	stmts := Build(cursor, ctx, "Foundation")
	class := stmts[0].(ClassDecl)
	if class.Methods[0].Family != FamilyNone {
		t.Fatalf("expected NS_METHOD_FAMILY(none) to override inferred family, got %v", class.Methods[0].Family)
	}
}

func TestBuildMethodConfigFamilyOverrideWinsOverInference(t *testing.T) {
	ctx := newCtx(map[string]cctx.LibraryConfig{
		"Foundation": {MethodFamilyOverrides: map[string]string{"initWithCoder:": "none"}},
	})
	method := &clangxtest.Cursor{
		KindV:     clangx.CursorObjCInstanceMethodDecl,
		SpellingV: "initWithCoder:",
		ResultV:   voidType(),
		FileV:     "/SDK/Foundation.framework/Headers/Widget.h",
	}
	cursor := &clangxtest.Cursor{
		KindV:     clangx.CursorObjCInterfaceDecl,
		SpellingV: "Widget",
		FileV:     "/SDK/Foundation.framework/Headers/Widget.h",
		Children:  []clangx.Cursor{method},
	}

	stmts := Build(cursor, ctx, "Foundation")
	class := stmts[0].(ClassDecl)
	if class.Methods[0].Family != FamilyNone {
		t.Fatalf("expected configured override to force FamilyNone despite init-prefixed selector, got %v", class.Methods[0].Family)
	}
}

func TestBuildMethodDesignatedInitializerAndOptional(t *testing.T) {
	ctx := newCtx(map[string]cctx.LibraryConfig{"Foundation": {}})
	method := &clangxtest.Cursor{
		KindV:       clangx.CursorObjCInstanceMethodDecl,
		SpellingV:   "initWithName:",
		ResultV:     voidType(),
		FileV:       "/SDK/Foundation.framework/Headers/Widget.h",
		DesignatedV: true,
		OptionalV:   true,
		Args: []clangx.Cursor{
			&clangxtest.Cursor{SpellingV: "name", TypeV: &clangxtest.Type{KindV: clangx.KindObjCObjectPointer, SpellingV: "NSString *"}},
		},
	}
	cursor := &clangxtest.Cursor{
		KindV:     clangx.CursorObjCProtocolDecl,
		SpellingV: "Widget",
		FileV:     "/SDK/Foundation.framework/Headers/Widget.h",
		Children:  []clangx.Cursor{method},
	}

	stmts := Build(cursor, ctx, "Foundation")
	proto := stmts[0].(ProtocolDecl)
	m := proto.Methods[0]
	if !m.DesignatedInit {
		t.Fatalf("expected designated initializer flag")
	}
	if !m.Optional {
		t.Fatalf("expected optional flag")
	}
	if len(m.Args) != 1 || m.Args[0].Name != "name" {
		t.Fatalf("unexpected args: %+v", m.Args)
	}
}

func TestBuildMethodAvailabilityDeprecatedAndSwiftName(t *testing.T) {
	ctx := newCtx(map[string]cctx.LibraryConfig{"Foundation": {}})
	method := &clangxtest.Cursor{
		KindV:     clangx.CursorObjCInstanceMethodDecl,
		SpellingV: "oldThing",
		ResultV:   voidType(),
		FileV:     "/SDK/Foundation.framework/Headers/Widget.h",
		AttributesV: []string{
			`API_DEPRECATED("use newThing instead", macos(10.0, 10.15))`,
			"NS_SWIFT_NAME(newThingSwift())",
			"NS_REFINED_FOR_SWIFT",
		},
	}
	cursor := &clangxtest.Cursor{
		KindV:     clangx.CursorObjCInterfaceDecl,
		SpellingV: "Widget",
		FileV:     "/SDK/Foundation.framework/Headers/Widget.h",
		Children:  []clangx.Cursor{method},
	}

	stmts := Build(cursor, ctx, "Foundation")
	class := stmts[0].(ClassDecl)
	m := class.Methods[0]
	pa, ok := m.Availability.Platforms["macos"]
	if !ok {
		t.Fatalf("expected macos platform availability, got %+v", m.Availability)
	}
	if pa.Introduced != "10.0" || pa.Deprecated != "10.15" {
		t.Fatalf("unexpected platform availability: %+v", pa)
	}
	if pa.DeprecatedMessage != "use newThing instead" {
		t.Fatalf("unexpected deprecation message: %q", pa.DeprecatedMessage)
	}
	if m.RenamedTo == nil || *m.RenamedTo != "newThingSwift()" {
		t.Fatalf("expected renamed-to newThingSwift(), got %v", m.RenamedTo)
	}
	if !m.Refined {
		t.Fatalf("expected refined-for-swift flag")
	}
}

func TestBuildClassSkippedWhenWholeDeclUnavailable(t *testing.T) {
	ctx := newCtx(map[string]cctx.LibraryConfig{"Foundation": {}})
	cursor := &clangxtest.Cursor{
		KindV:       clangx.CursorObjCInterfaceDecl,
		SpellingV:   "Obsolete",
		FileV:       "/SDK/Foundation.framework/Headers/Obsolete.h",
		AttributesV: []string{"API_UNAVAILABLE"},
	}

	stmts := Build(cursor, ctx, "Foundation")
	if stmts != nil {
		t.Fatalf("expected whole-declaration API_UNAVAILABLE to drop the class, got %+v", stmts)
	}
}

func TestBuildSkipsConfiguredName(t *testing.T) {
	ctx := newCtx(map[string]cctx.LibraryConfig{"Foundation": {Skip: map[string]bool{"Internal": true}}})
	cursor := &clangxtest.Cursor{
		KindV:     clangx.CursorObjCInterfaceDecl,
		SpellingV: "Internal",
		FileV:     "/SDK/Foundation.framework/Headers/Internal.h",
	}

	stmts := Build(cursor, ctx, "Foundation")
	if stmts != nil {
		t.Fatalf("expected skipped declaration to produce no statements, got %+v", stmts)
	}
}

func TestBuildEnumFlagDetection(t *testing.T) {
	ctx := newCtx(map[string]cctx.LibraryConfig{"Foundation": {}})
	cursor := &clangxtest.Cursor{
		KindV:      clangx.CursorEnumDecl,
		SpellingV:  "WidgetOptions",
		FileV:      "/SDK/Foundation.framework/Headers/Widget.h",
		Underlying: &clangxtest.Type{KindV: clangx.KindUInt, SpellingV: "NSUInteger"},
		Children: []clangx.Cursor{
			&clangxtest.Cursor{KindV: clangx.CursorEnumConstantDecl, SpellingV: "WidgetOptionNone"},
			&clangxtest.Cursor{KindV: clangx.CursorEnumConstantDecl, SpellingV: "WidgetOptionA"},
			&clangxtest.Cursor{KindV: clangx.CursorEnumConstantDecl, SpellingV: "WidgetOptionB"},
		},
	}

	stmts := Build(cursor, ctx, "Foundation")
	enum, ok := stmts[0].(EnumDecl)
	if !ok {
		t.Fatalf("expected EnumDecl, got %T", stmts[0])
	}
	if len(enum.Cases) != 3 {
		t.Fatalf("expected 3 cases, got %d", len(enum.Cases))
	}
	if !enum.IsFlag {
		t.Fatalf("expected power-of-two ordinals to be detected as a flag enum")
	}
	if enum.IsClosed {
		t.Fatalf("flag enums should not also be reported closed")
	}
}

func TestBuildEnumClosedDetection(t *testing.T) {
	ctx := newCtx(map[string]cctx.LibraryConfig{"Foundation": {}})
	cursor := &clangxtest.Cursor{
		KindV:      clangx.CursorEnumDecl,
		SpellingV:  "WidgetKind",
		FileV:      "/SDK/Foundation.framework/Headers/Widget.h",
		Underlying: &clangxtest.Type{KindV: clangx.KindUInt, SpellingV: "NSUInteger"},
		Children: []clangx.Cursor{
			&clangxtest.Cursor{KindV: clangx.CursorEnumConstantDecl, SpellingV: "WidgetKindOne"},
			&clangxtest.Cursor{KindV: clangx.CursorEnumConstantDecl, SpellingV: "WidgetKindTwo"},
			&clangxtest.Cursor{KindV: clangx.CursorEnumConstantDecl, SpellingV: "WidgetKindThree"},
			&clangxtest.Cursor{KindV: clangx.CursorEnumConstantDecl, SpellingV: "WidgetKindFour"},
		},
	}

	stmts := Build(cursor, ctx, "Foundation")
	enum := stmts[0].(EnumDecl)
	if enum.IsFlag {
		t.Fatalf("sequential ordinals 0,1,2,3 should not be flagged as a bitmask")
	}
	if !enum.IsClosed {
		t.Fatalf("expected sequential, non-repeating ordinals to be reported closed")
	}
}

func TestBuildStructBridgedDetection(t *testing.T) {
	ctx := newCtx(map[string]cctx.LibraryConfig{"CoreFoundation": {}})
	cursor := &clangxtest.Cursor{
		KindV:       clangx.CursorStructDecl,
		SpellingV:   "CGPoint",
		FileV:       "/SDK/CoreGraphics.framework/Headers/CGGeometry.h",
		AttributesV: []string{"__attribute__((objc_bridge(id)))"},
		Children: []clangx.Cursor{
			&clangxtest.Cursor{KindV: clangx.CursorFieldDecl, SpellingV: "x", TypeV: &clangxtest.Type{KindV: clangx.KindDouble, SpellingV: "double"}},
			&clangxtest.Cursor{KindV: clangx.CursorFieldDecl, SpellingV: "y", TypeV: &clangxtest.Type{KindV: clangx.KindDouble, SpellingV: "double"}},
		},
	}

	stmts := Build(cursor, ctx, "CoreFoundation")
	strct, ok := stmts[0].(StructDecl)
	if !ok {
		t.Fatalf("expected StructDecl, got %T", stmts[0])
	}
	if !strct.IsBridged {
		t.Fatalf("expected objc_bridge attribute to mark the struct bridged")
	}
	if len(strct.Fields) != 2 || strct.Fields[0].Name != "x" || strct.Fields[1].Name != "y" {
		t.Fatalf("unexpected fields: %+v", strct.Fields)
	}
}

func TestBuildFnVariadic(t *testing.T) {
	ctx := newCtx(map[string]cctx.LibraryConfig{"Foundation": {}})
	cursor := &clangxtest.Cursor{
		KindV:     clangx.CursorFunctionDecl,
		SpellingV: "NSLog",
		FileV:     "/SDK/Foundation.framework/Headers/NSObjCRuntime.h",
		ResultV:   voidType(),
		TypeV:     &clangxtest.Type{KindV: clangx.KindFunctionProto, SpellingV: "void (NSString *, ...)", Variadic: true},
		Args: []clangx.Cursor{
			&clangxtest.Cursor{SpellingV: "format", TypeV: &clangxtest.Type{KindV: clangx.KindObjCObjectPointer, SpellingV: "NSString *"}},
		},
	}

	stmts := Build(cursor, ctx, "Foundation")
	fn, ok := stmts[0].(FnDecl)
	if !ok {
		t.Fatalf("expected FnDecl, got %T", stmts[0])
	}
	if !fn.Variadic {
		t.Fatalf("expected variadic function")
	}
	if len(fn.Args) != 1 || fn.Args[0].Name != "format" {
		t.Fatalf("unexpected args: %+v", fn.Args)
	}
}

func TestBuildStaticAndTypedef(t *testing.T) {
	ctx := newCtx(map[string]cctx.LibraryConfig{"Foundation": {}})

	staticCursor := &clangxtest.Cursor{
		KindV:     clangx.CursorVarDecl,
		SpellingV: "NSFoundationVersionNumber",
		FileV:     "/SDK/Foundation.framework/Headers/NSObjCRuntime.h",
		TypeV:     &clangxtest.Type{KindV: clangx.KindDouble, SpellingV: "double"},
	}
	stmts := Build(staticCursor, ctx, "Foundation")
	static, ok := stmts[0].(StaticDecl)
	if !ok {
		t.Fatalf("expected StaticDecl, got %T", stmts[0])
	}
	if static.ID.Name != "NSFoundationVersionNumber" {
		t.Fatalf("unexpected static name: %q", static.ID.Name)
	}

	typedefCursor := &clangxtest.Cursor{
		KindV:      clangx.CursorTypedefDecl,
		SpellingV:  "NSInteger",
		FileV:      "/SDK/Foundation.framework/Headers/NSObjCRuntime.h",
		Underlying: &clangxtest.Type{KindV: clangx.KindLong, SpellingV: "long"},
	}
	stmts = Build(typedefCursor, ctx, "Foundation")
	typedef, ok := stmts[0].(TypedefDecl)
	if !ok {
		t.Fatalf("expected TypedefDecl, got %T", stmts[0])
	}
	if typedef.ID.Name != "NSInteger" {
		t.Fatalf("unexpected typedef name: %q", typedef.ID.Name)
	}
}

func TestIdentifierHelperCoversEveryVariant(t *testing.T) {
	id := ident.Identifier{Name: "Widget", Location: ident.Location{Library: "Foundation", ModulePath: []string{"Foundation"}}}

	variants := []Statement{
		ClassDecl{ID: id},
		ProtocolDecl{ID: id},
		CategoryDecl{ID: id},
		TypedefDecl{ID: id},
		EnumDecl{ID: id},
		StructDecl{ID: id},
		FnDecl{ID: id},
		StaticDecl{ID: id},
		ConstDecl{ID: id},
	}
	for _, v := range variants {
		if !Identifier(v).Equal(id) {
			t.Fatalf("expected %T to report identifier %v, got %v", v, id, Identifier(v))
		}
	}
}
