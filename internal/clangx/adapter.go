//go:build cgo

package clangx

import (
	"fmt"
	"strings"

	"github.com/go-clang/v3.9/clang"
)

// goClangIndex adapts clang.Index to the Index interface. Grounded on
// abduld-clang-server's parser.Parser, which holds a single clang.Index
// for the process lifetime and parses one translation unit per file
// (see _examples/other_examples/3b0313b0_abduld-clang-server__parser-parser.go.go).
type goClangIndex struct {
	idx clang.Index
}

// NewIndex creates a libclang-backed Index. excludeDeclarationsFromPCH
// and displayDiagnostics match go-clang's NewIndex(int, int) signature.
func NewIndex() Index {
	return &goClangIndex{idx: clang.NewIndex(0, 1)}
}

func (g *goClangIndex) Parse(filename, triple string, args []string) (Cursor, error) {
	fullArgs := append([]string{"-target", triple}, args...)
	tu := g.idx.ParseTranslationUnit(filename, fullArgs, nil, clang.DefaultEditingTranslationUnitOptions())
	if !tu.IsValid() {
		return nil, fmt.Errorf("clangx: failed to parse %s for triple %s", filename, triple)
	}
	return goClangCursor{c: tu.TranslationUnitCursor()}, nil
}

func (g *goClangIndex) Dispose() {
	g.idx.Dispose()
}

type goClangCursor struct{ c clang.Cursor }

func (g goClangCursor) Kind() CursorKind {
	switch g.c.Kind() {
	case clang.Cursor_ObjCInterfaceDecl:
		return CursorObjCInterfaceDecl
	case clang.Cursor_ObjCProtocolDecl:
		return CursorObjCProtocolDecl
	case clang.Cursor_ObjCCategoryDecl:
		return CursorObjCCategoryDecl
	case clang.Cursor_ObjCInstanceMethodDecl:
		return CursorObjCInstanceMethodDecl
	case clang.Cursor_ObjCClassMethodDecl:
		return CursorObjCClassMethodDecl
	case clang.Cursor_ObjCPropertyDecl:
		return CursorObjCPropertyDecl
	case clang.Cursor_TypedefDecl:
		return CursorTypedefDecl
	case clang.Cursor_EnumDecl:
		return CursorEnumDecl
	case clang.Cursor_EnumConstantDecl:
		return CursorEnumConstantDecl
	case clang.Cursor_StructDecl:
		return CursorStructDecl
	case clang.Cursor_FieldDecl:
		return CursorFieldDecl
	case clang.Cursor_FunctionDecl:
		return CursorFunctionDecl
	case clang.Cursor_VarDecl:
		return CursorVarDecl
	case clang.Cursor_ParmDecl:
		return CursorParmDecl
	case clang.Cursor_MacroDefinition:
		return CursorMacroDefinition
	case clang.Cursor_ObjCSuperClassRef:
		return CursorObjCSuperClassRef
	case clang.Cursor_ObjCProtocolRef:
		return CursorObjCProtocolRef
	case clang.Cursor_UnexposedAttr:
		return CursorUnexposedAttr
	default:
		return CursorInvalid
	}
}

func (g goClangCursor) Spelling() string   { return g.c.Spelling() }
func (g goClangCursor) USR() string        { return g.c.USR() }
func (g goClangCursor) Type() Type       { return goClangType{t: g.c.Type()} }
func (g goClangCursor) ResultType() Type { return goClangType{t: g.c.ResultType()} }
func (g goClangCursor) UnderlyingType() Type {
	return goClangType{t: g.c.TypedefDeclUnderlyingType()}
}
func (g goClangCursor) IsDefinition() bool { return g.c.IsDefinition() }

func (g goClangCursor) File() string {
	file, _, _, _ := g.c.Location().ExpansionLocation()
	return file.Name()
}

func (g goClangCursor) Arguments() []Cursor {
	n := g.c.NumArguments()
	out := make([]Cursor, 0, n)
	for i := int32(0); i < n; i++ {
		out = append(out, goClangCursor{c: g.c.Argument(uint32(i))})
	}
	return out
}

// Attributes visits UnexposedAttr children and recovers each one's full
// source text by tokenizing its extent, since Spelling() on an
// UnexposedAttr cursor drops the macro's parenthesized arguments.
func (g goClangCursor) Attributes() []string {
	var out []string
	tu := g.c.TranslationUnit()
	g.c.Visit(func(cursor, _ clang.Cursor) clang.ChildVisitResult {
		if cursor.Kind() == clang.Cursor_UnexposedAttr {
			tokens := tu.Tokenize(cursor.Extent())
			words := make([]string, 0, len(tokens))
			for _, tok := range tokens {
				words = append(words, tok.Spelling(tu))
			}
			if text := strings.TrimSpace(strings.Join(words, " ")); text != "" {
				out = append(out, text)
			}
		}
		return clang.ChildVisit_Continue
	})
	return out
}

func (g goClangCursor) IsOptional() bool              { return g.c.IsObjCOptional() != 0 }
func (g goClangCursor) IsDesignatedInitializer() bool { return g.c.IsObjCDesignatedInitializer() != 0 }
func (g goClangCursor) IsReadOnlyProperty() bool {
	return g.c.ObjCPropertyAttributes(0)&clang.ObjCPropertyAttr_readonly != 0
}

func (g goClangCursor) VisitChildren(fn func(Cursor) ChildVisitResult) {
	g.c.Visit(func(cursor, _ clang.Cursor) clang.ChildVisitResult {
		switch fn(goClangCursor{c: cursor}) {
		case ChildVisitBreak:
			return clang.ChildVisit_Break
		case ChildVisitRecurse:
			return clang.ChildVisit_Recurse
		default:
			return clang.ChildVisit_Continue
		}
	})
}

type goClangType struct{ t clang.Type }

func (g goClangType) Kind() TypeKind {
	switch g.t.Kind() {
	case clang.Type_Void:
		return KindVoid
	case clang.Type_Bool:
		return KindBool
	case clang.Type_ObjCId:
		return KindObjCId
	case clang.Type_ObjCClass:
		return KindObjCClass
	case clang.Type_ObjCSel:
		return KindObjCSel
	case clang.Type_ObjCInterface:
		return KindObjCInterface
	case clang.Type_ObjCObject:
		return KindObjCObject
	case clang.Type_ObjCObjectPointer:
		return KindObjCObjectPointer
	case clang.Type_Pointer:
		return KindPointer
	case clang.Type_BlockPointer:
		return KindBlockPointer
	case clang.Type_Typedef:
		return KindTypedef
	case clang.Type_Record:
		return KindRecord
	case clang.Type_Enum:
		return KindEnum
	case clang.Type_FunctionProto:
		return KindFunctionProto
	case clang.Type_FunctionNoProto:
		return KindFunctionNoProto
	case clang.Type_IncompleteArray:
		return KindIncompleteArray
	case clang.Type_ConstantArray:
		return KindConstantArray
	case clang.Type_Unexposed:
		return KindUnexposed
	case clang.Type_Elaborated:
		return KindElaborated
	default:
		return KindInvalid
	}
}

func (g goClangType) Spelling() string           { return g.t.Spelling() }
func (g goClangType) AttributedSpelling() string { return g.t.Spelling() }
func (g goClangType) IsVariadic() bool           { return g.t.IsFunctionTypeVariadic() }

func (g goClangType) Nullability() (Nullability, bool) {
	// go-clang v3.9 predates CXTypeNullabilityKind; nullability is
	// recovered from the attributed spelling instead (spec.md §4.3
	// step 1's fallback path), so the typed accessor reports unknown.
	return NullabilityUnspecified, false
}

func (g goClangType) PointeeType() Type { return goClangType{t: g.t.PointeeType()} }
func (g goClangType) ResultType() Type  { return goClangType{t: g.t.ResultType()} }
func (g goClangType) ElementType() Type { return goClangType{t: g.t.ArrayElementType()} }
func (g goClangType) ArraySize() int64  { return g.t.ArraySize() }

func (g goClangType) ArgTypes() []Type {
	n := g.t.NumArgTypes()
	out := make([]Type, 0, n)
	for i := int32(0); i < n; i++ {
		out = append(out, goClangType{t: g.t.ArgType(uint32(i))})
	}
	return out
}

func (g goClangType) Declaration() Cursor { return goClangCursor{c: g.t.Declaration()} }

func (g goClangType) ProtocolRefs() []Cursor {
	var out []Cursor
	g.Declaration().VisitChildren(func(c Cursor) ChildVisitResult {
		if c.Kind() == CursorObjCProtocolRef {
			out = append(out, c)
		}
		return ChildVisitContinue
	})
	return out
}

func (g goClangType) GenericArgs() []Type {
	n := g.t.NumObjCTypeArgs()
	out := make([]Type, 0, n)
	for i := uint32(0); i < n; i++ {
		out = append(out, goClangType{t: g.t.ObjCTypeArg(i)})
	}
	return out
}
