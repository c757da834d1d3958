// Package stmt implements the statement builder (spec.md §4.6,
// component F): it turns a stream of Clang cursor visits into the
// tagged-union Statement store spec.md §3 describes.
package stmt

import (
	"github.com/gogpu/cocoagen/internal/ident"
	"github.com/gogpu/cocoagen/internal/tygraph"
)

// Statement is the closed sum type of spec.md §3's "Statement" tagged
// union. Every variant carries its own Location/Availability pair
// directly rather than through an embedded common header, matching how
// the teacher's own code-generation output (cmd/vk-gen) keeps emission
// data denormalized per record instead of behind shared base types.
type Statement interface{ isStmt() }

// Availability is the per-platform min-version record spec.md §3
// requires on every statement.
type Availability struct {
	Platforms map[string]PlatformAvailability
	// Unavailable is set when API_UNAVAILABLE is applied without a
	// platform list (whole-declaration unavailability). Per-platform
	// unavailability is recorded only in Platforms, even when every
	// platform is listed.
	Unavailable bool
}

// PlatformAvailability is one platform's entry in an API_AVAILABLE /
// API_DEPRECATED macro, e.g. "macos(10.15)" or
// "ios(13.0,deprecated=15.0)".
type PlatformAvailability struct {
	Introduced        string
	Deprecated        string
	DeprecatedMessage string
	Unavailable       bool
}

// MethodFamily is the Cocoa method-family classification spec.md §4.7
// step 1 uses for related-result-type propagation.
type MethodFamily int

const (
	FamilyNone MethodFamily = iota
	FamilyInit
	FamilyAlloc
	FamilyNew
	FamilyCopy
	FamilyMutableCopy
	FamilyAutorelease
	FamilyRetain
	FamilySelf
)

func (f MethodFamily) String() string {
	switch f {
	case FamilyInit:
		return "init"
	case FamilyAlloc:
		return "alloc"
	case FamilyNew:
		return "new"
	case FamilyCopy:
		return "copy"
	case FamilyMutableCopy:
		return "mutableCopy"
	case FamilyAutorelease:
		return "autorelease"
	case FamilyRetain:
		return "retain"
	case FamilySelf:
		return "self"
	default:
		return "none"
	}
}

// MethodArg is one selector argument, name plus translated type.
type MethodArg struct {
	Name string
	Type tygraph.Ty
}

// MethodDecl implements spec.md §3's MethodDecl fields plus the
// SPEC_FULL.md §10 supplements (RenamedTo, Refined).
type MethodDecl struct {
	ID                  ident.Identifier
	Selector            string
	Args                []MethodArg
	Result              tygraph.Ty
	ClassMethod         bool
	Optional            bool
	DesignatedInit      bool
	ReturnsRetained     bool
	ReturnsInnerPointer bool
	Family              MethodFamily
	Variadic            bool
	Qualifiers          []string
	Availability        Availability
	RenamedTo           *string
	Refined             bool
}

// PropertyDecl implements spec.md §3's PropertyDecl.
type PropertyDecl struct {
	ID           ident.Identifier
	Type         tygraph.Ty
	Getter       string
	Setter       string
	ReadOnly     bool
	Attrs        []string
	Availability Availability
}

// ClassDecl implements spec.md §3's ClassDecl.
type ClassDecl struct {
	ID               ident.Identifier
	Superclass       *ident.ItemRef
	Protocols        []ident.ItemRef
	Generics         []string
	Methods          []MethodDecl
	Properties       []PropertyDecl
	CategoryMethods  []MethodDecl
	ThreadSafety     ident.ThreadSafety
	MainThreadOnly   bool
	Availability     Availability
}

func (ClassDecl) isStmt() {}

// ProtocolDecl implements spec.md §3's ProtocolDecl.
type ProtocolDecl struct {
	ID           ident.Identifier
	Protocols    []ident.ItemRef
	Methods      []MethodDecl
	Properties   []PropertyDecl
	Availability Availability
}

func (ProtocolDecl) isStmt() {}

// CategoryDecl implements spec.md §3's CategoryDecl.
type CategoryDecl struct {
	ID           ident.Identifier
	ClassName    ident.ItemRef
	Protocols    []ident.ItemRef
	Methods      []MethodDecl
	Properties   []PropertyDecl
	Availability Availability
}

func (CategoryDecl) isStmt() {}

// TypedefDecl implements spec.md §3's TypedefDecl.
type TypedefDecl struct {
	ID           ident.Identifier
	Underlying   tygraph.Ty
	Availability Availability
}

func (TypedefDecl) isStmt() {}

// EnumDecl implements spec.md §3's EnumDecl, plus the enum
// flag/closed-detection spec.md §4.6 names.
type EnumDecl struct {
	ID           ident.Identifier
	Underlying   tygraph.Ty
	Cases        []EnumCase
	IsFlag       bool
	IsClosed     bool
	Availability Availability
}

func (EnumDecl) isStmt() {}

// EnumCase is one NS_ENUM/NS_OPTIONS constant.
type EnumCase struct {
	Name  string
	Value int64
}

// StructDecl implements spec.md §3's StructDecl, including the
// bridged-struct flag spec.md §4.6 names.
type StructDecl struct {
	ID           ident.Identifier
	Fields       []StructField
	IsBridged    bool
	Availability Availability
}

func (StructDecl) isStmt() {}

// StructField is one named field of a StructDecl.
type StructField struct {
	Name string
	Type tygraph.Ty
}

// FnDecl implements spec.md §3's FnDecl (a free C function).
type FnDecl struct {
	ID              ident.Identifier
	Args            []MethodArg
	Result          tygraph.Ty
	Variadic        bool
	ReturnsRetained bool
	Availability    Availability
}

func (FnDecl) isStmt() {}

// StaticDecl implements spec.md §3's StaticDecl (an extern global
// variable).
type StaticDecl struct {
	ID           ident.Identifier
	Type         tygraph.Ty
	Availability Availability
}

func (StaticDecl) isStmt() {}

// ConstDecl implements spec.md §3's ConstDecl (a preprocessor or
// compile-time numeric/string constant).
type ConstDecl struct {
	ID           ident.Identifier
	Type         tygraph.Ty
	Value        string
	Availability Availability
}

func (ConstDecl) isStmt() {}

// Identifier extracts the declaration identifier from any Statement
// variant, used by internal/library to dedup re-declarations by
// identifier+kind (spec.md §4.6).
func Identifier(s Statement) ident.Identifier {
	switch v := s.(type) {
	case ClassDecl:
		return v.ID
	case ProtocolDecl:
		return v.ID
	case CategoryDecl:
		return v.ID
	case TypedefDecl:
		return v.ID
	case EnumDecl:
		return v.ID
	case StructDecl:
		return v.ID
	case FnDecl:
		return v.ID
	case StaticDecl:
		return v.ID
	case ConstDecl:
		return v.ID
	default:
		return ident.Identifier{}
	}
}
