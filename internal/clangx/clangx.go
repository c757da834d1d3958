// Package clangx narrows the Clang cursor/type surface the translation
// pipeline actually consumes down to two small interfaces, Cursor and
// Type. The type translator (internal/tygraph) and statement builder
// (internal/stmt) are written against these interfaces, never against
// github.com/go-clang/v3.9/clang directly, so they can be unit-tested
// without a libclang install. The real adapter lives in adapter.go
// (build-tagged cgo, matching how the corpus's own Clang consumer,
// abduld-clang-server, wraps libclang) and the in-memory fakes the
// consumers' tests use live in the clangxtest subpackage.
//
// SDK discovery and the Clang invocation argument list (-F, -isysroot,
// module map paths, …) are out of scope per spec.md §1 and are supplied
// to Index.Parse by the caller (cmd/cocoagen), not computed here.
package clangx

// TypeKind mirrors the subset of Clang's CXTypeKind this pipeline
// dispatches on (spec.md §4.3 step 4).
type TypeKind int

const (
	KindInvalid TypeKind = iota
	KindUnexposed
	KindAttributed
	KindElaborated
	KindVoid
	KindBool
	KindChar
	KindSChar
	KindUChar
	KindShort
	KindUShort
	KindInt
	KindUInt
	KindLong
	KindULong
	KindLongLong
	KindULongLong
	KindFloat
	KindDouble
	KindObjCId
	KindObjCClass
	KindObjCSel
	KindObjCInterface
	KindObjCObject
	KindObjCObjectPointer
	KindPointer
	KindBlockPointer
	KindTypedef
	KindRecord
	KindEnum
	KindFunctionProto
	KindFunctionNoProto
	KindIncompleteArray
	KindConstantArray
	KindTemplateTypeParm
)

// CursorKind mirrors the subset of Clang's CXCursorKind the statement
// builder (internal/stmt) dispatches on.
type CursorKind int

const (
	CursorInvalid CursorKind = iota
	CursorObjCInterfaceDecl
	CursorObjCProtocolDecl
	CursorObjCCategoryDecl
	CursorObjCInstanceMethodDecl
	CursorObjCClassMethodDecl
	CursorObjCPropertyDecl
	CursorTypedefDecl
	CursorEnumDecl
	CursorEnumConstantDecl
	CursorStructDecl
	CursorFieldDecl
	CursorFunctionDecl
	CursorVarDecl
	CursorParmDecl
	CursorMacroDefinition
	CursorObjCSuperClassRef
	CursorObjCProtocolRef
	CursorUnexposedAttr
)

// Nullability mirrors CXTypeNullabilityKind, as read directly from
// Clang's typed accessor rather than from a string (spec.md §4.3 step
// 1, "read Clang's own nullability if present").
type Nullability int

const (
	NullabilityUnspecified Nullability = iota
	NullabilityNonNull
	NullabilityNullable
	NullabilityNullableResult
)

// Type is the narrow view of clang.Type the type translator needs.
type Type interface {
	Kind() TypeKind
	// Spelling is the canonical display name (attributes elided).
	Spelling() string
	// AttributedSpelling is the display name including attributes in
	// source position; equal to Spelling() for types Clang never
	// attributes.
	AttributedSpelling() string
	Nullability() (Nullability, bool)
	PointeeType() Type
	ResultType() Type
	ArgTypes() []Type
	IsVariadic() bool
	ElementType() Type
	ArraySize() int64
	// Declaration returns the cursor that declares this type
	// (Record/Enum/Typedef/ObjCInterface).
	Declaration() Cursor
	// ProtocolRefs returns the protocol list carried on an
	// ObjCObject/ObjCObjectPointer type.
	ProtocolRefs() []Cursor
	// GenericArgs returns the specialization arguments of a
	// lightweight-generic ObjCInterface type.
	GenericArgs() []Type
}

// Cursor is the narrow view of clang.Cursor the statement builder
// needs.
type Cursor interface {
	Kind() CursorKind
	Spelling() string
	USR() string
	Type() Type
	ResultType() Type
	// UnderlyingType is clang_getTypedefDeclUnderlyingType: the RHS type
	// of a TypedefDecl cursor. Distinct from Type(), which on a
	// TypedefDecl cursor reports the typedef type itself (so that
	// references elsewhere — a field declared with the typedef'd name —
	// resolve its Declaration() back to this cursor).
	UnderlyingType() Type
	Arguments() []Cursor
	// File is the expansion-location file, used to compute the
	// declaration's ident.Location (spec.md "Module location").
	File() string
	IsDefinition() bool
	// Attributes returns the raw source text of every unexposed-attribute
	// child of this cursor — the only way to recover a compiler-macro
	// invocation's full text (arguments included), since Clang's typed
	// spelling APIs elide macro arguments for CXCursor_UnexposedAttr
	// (spec.md §4.2's "tokenizes the attributed name" applies equally to
	// declaration-level macros like NS_SWIFT_NAME or API_UNAVAILABLE).
	Attributes() []string
	// IsOptional reports whether this is an @optional protocol member.
	IsOptional() bool
	// IsDesignatedInitializer reports clang's own
	// objc_designated_initializer attribute flag.
	IsDesignatedInitializer() bool
	// IsReadOnlyProperty reports the "readonly" bit of
	// clang_Cursor_getObjCPropertyAttributes, for an ObjCPropertyDecl
	// cursor.
	IsReadOnlyProperty() bool
	VisitChildren(func(Cursor) ChildVisitResult)
}

// ChildVisitResult mirrors clang.ChildVisitResult.
type ChildVisitResult int

const (
	ChildVisitBreak ChildVisitResult = iota
	ChildVisitContinue
	ChildVisitRecurse
)

// Index owns every TranslationUnit it parses, matching spec.md §5's
// resource-ownership rule: a Cursor/Type must not outlive the Index
// that produced it.
type Index interface {
	// Parse parses filename for the given triple and compiler
	// arguments (module map paths, -F search paths, etc. — all
	// supplied by the out-of-scope SDK-discovery collaborator) and
	// returns the translation unit's root cursor.
	Parse(filename string, triple string, args []string) (Cursor, error)
	Dispose()
}
