// Package clangxtest provides in-memory fakes of clangx.Type and
// clangx.Cursor for unit-testing internal/tygraph and internal/stmt
// without a libclang install.
package clangxtest

import "github.com/gogpu/cocoagen/internal/clangx"

// Type is a settable fake satisfying clangx.Type.
type Type struct {
	KindV               clangx.TypeKind
	SpellingV           string
	AttributedSpellingV string
	NullabilityV        clangx.Nullability
	NullabilityKnown    bool
	Pointee             *Type
	Result              *Type
	Args                []clangx.Type
	Variadic            bool
	Element             *Type
	Size                int64
	Decl                *Cursor
	Protocols           []clangx.Cursor
	Generics            []clangx.Type
}

func (t *Type) Kind() clangx.TypeKind              { return t.KindV }
func (t *Type) Spelling() string                   { return t.SpellingV }
func (t *Type) AttributedSpelling() string {
	if t.AttributedSpellingV != "" {
		return t.AttributedSpellingV
	}
	return t.SpellingV
}
func (t *Type) Nullability() (clangx.Nullability, bool) { return t.NullabilityV, t.NullabilityKnown }
func (t *Type) PointeeType() clangx.Type {
	if t.Pointee == nil {
		return nil
	}
	return t.Pointee
}
func (t *Type) ResultType() clangx.Type {
	if t.Result == nil {
		return nil
	}
	return t.Result
}
func (t *Type) ArgTypes() []clangx.Type { return t.Args }
func (t *Type) IsVariadic() bool        { return t.Variadic }
func (t *Type) ElementType() clangx.Type {
	if t.Element == nil {
		return nil
	}
	return t.Element
}
func (t *Type) ArraySize() int64 { return t.Size }
func (t *Type) Declaration() clangx.Cursor {
	if t.Decl == nil {
		return nil
	}
	return t.Decl
}
func (t *Type) ProtocolRefs() []clangx.Cursor { return t.Protocols }
func (t *Type) GenericArgs() []clangx.Type    { return t.Generics }

// Cursor is a settable fake satisfying clangx.Cursor.
type Cursor struct {
	KindV        clangx.CursorKind
	SpellingV    string
	USRV         string
	TypeV        *Type
	ResultV      *Type
	Args         []clangx.Cursor
	FileV        string
	Definition   bool
	Children     []clangx.Cursor
	AttributesV  []string
	OptionalV    bool
	DesignatedV  bool
	ReadOnlyV    bool
	Underlying   *Type
}

func (c *Cursor) Kind() clangx.CursorKind { return c.KindV }
func (c *Cursor) Spelling() string        { return c.SpellingV }
func (c *Cursor) USR() string             { return c.USRV }
func (c *Cursor) Type() clangx.Type {
	if c.TypeV == nil {
		return nil
	}
	return c.TypeV
}
func (c *Cursor) ResultType() clangx.Type {
	if c.ResultV == nil {
		return nil
	}
	return c.ResultV
}
func (c *Cursor) Arguments() []clangx.Cursor        { return c.Args }
func (c *Cursor) File() string                      { return c.FileV }
func (c *Cursor) IsDefinition() bool                { return c.Definition }
func (c *Cursor) Attributes() []string { return c.AttributesV }
func (c *Cursor) UnderlyingType() clangx.Type {
	if c.Underlying == nil {
		return nil
	}
	return c.Underlying
}
func (c *Cursor) IsOptional() bool                  { return c.OptionalV }
func (c *Cursor) IsDesignatedInitializer() bool { return c.DesignatedV }
func (c *Cursor) IsReadOnlyProperty() bool      { return c.ReadOnlyV }
func (c *Cursor) VisitChildren(fn func(clangx.Cursor) clangx.ChildVisitResult) {
	for _, child := range c.Children {
		switch fn(child) {
		case clangx.ChildVisitBreak:
			return
		default:
			continue
		}
	}
}
