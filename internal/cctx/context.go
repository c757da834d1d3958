package cctx

import (
	"strings"
	"sync"

	"github.com/gogpu/cocoagen/internal/ident"
)

// LibraryConfig is the subset of a loaded framework configuration the
// Context needs during parsing (internal/config.Framework populates it;
// cctx cannot import internal/config directly without creating an
// import cycle with internal/driver, so callers adapt).
type LibraryConfig struct {
	Krate                 string
	External              map[string]ExternalItem
	TypedefRenames        map[string]string
	Skip                  map[string]bool
	MethodFamilyOverrides map[string]string
}

// ExternalItem redirects a reference to a declaration outside the
// configured libraries (spec.md §6, "external.<Name>").
type ExternalItem struct {
	Module        string
	ThreadSafety  ident.ThreadSafety
	RequiredItems []string
}

// MacroLocation keys one macro expansion by source offset (spec.md
// §4.5).
type MacroLocation struct {
	File   string
	Offset int
}

// MacroEntity is the raw macro expansion recorded during preprocessing.
type MacroEntity struct {
	Name string
	Args []string
}

// Context is the process-wide state held for the duration of one
// library parse (spec.md §4.5). It is reconstructed per target triple
// by internal/driver (spec.md §4.8).
type Context struct {
	Diagnostics Diagnostics

	mu               sync.RWMutex
	libraries        map[string]LibraryConfig
	macroInvocations map[MacroLocation]MacroEntity
	protocolRenames  map[string]string
}

// New creates a Context over the given library configurations, keyed
// by library name.
func New(libraries map[string]LibraryConfig) *Context {
	return &Context{
		libraries:        libraries,
		macroInvocations: make(map[MacroLocation]MacroEntity),
		protocolRenames:  make(map[string]string),
	}
}

// Library looks up a configured library by name.
func (c *Context) Library(name string) (LibraryConfig, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	cfg, ok := c.libraries[name]
	return cfg, ok
}

// RecordMacro stores a macro expansion encountered during
// preprocessing, read back later by the statement builder (spec.md
// §4.5/§5).
func (c *Context) RecordMacro(loc MacroLocation, entity MacroEntity) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.macroInvocations[loc] = entity
}

// MacroAt returns the macro recorded at loc, if any.
func (c *Context) MacroAt(loc MacroLocation) (MacroEntity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.macroInvocations[loc]
	return e, ok
}

// ReplaceTypedefName enforces policy renames — e.g. stripping a
// trailing "Ref" from CF typedef names — for the named library (spec.md
// §4.5). is_cf gates the default "strip Ref" behavior; an explicit
// per-typedef override in TypedefRenames always wins.
func (c *Context) ReplaceTypedefName(library string, id ident.Identifier, isCF bool) ident.Identifier {
	cfg, ok := c.Library(library)
	if !ok {
		return id
	}
	if renamed, ok := cfg.TypedefRenames[id.Name]; ok {
		id.Name = renamed
		return id
	}
	if isCF && strings.HasSuffix(id.Name, "Ref") && len(id.Name) > len("Ref") {
		id.Name = strings.TrimSuffix(id.Name, "Ref")
	}
	return id
}

// ReplaceProtocolName resolves a protocol-name conflict with a
// homonymous interface by appending "Protocol", the same convention
// Swift/ObjC interop layers use (and the one
// original_source/crates/header-translator/src/main.rs applies).
func (c *Context) ReplaceProtocolName(name string) string {
	c.mu.RLock()
	renamed, ok := c.protocolRenames[name]
	c.mu.RUnlock()
	if ok {
		return renamed
	}
	return name
}

// MarkProtocolConflict records that name collides with an interface of
// the same name, so future ReplaceProtocolName calls rename it.
func (c *Context) MarkProtocolConflict(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.protocolRenames[name] = name + "Protocol"
}

// Skip reports whether the named declaration in library should be
// dropped before it reaches the statement store (SPEC_FULL.md §6.1).
func (c *Context) Skip(library, name string) bool {
	cfg, ok := c.Library(library)
	if !ok {
		return false
	}
	return cfg.Skip[name]
}

// MethodFamilyOverride looks up the configured method-family override
// for selector in library, e.g. `method_family_overrides."initWithFoo:"
// = "none"` forcing a selector that would otherwise infer init-family
// treatment to be excluded from related-result-type propagation.
func (c *Context) MethodFamilyOverride(library, selector string) (string, bool) {
	cfg, ok := c.Library(library)
	if !ok {
		return "", false
	}
	v, ok := cfg.MethodFamilyOverrides[selector]
	return v, ok
}

// ResolveExternal looks up an external-item redirect for name in
// library, returning the redirected Identifier and ItemRef metadata
// (spec.md I1).
func (c *Context) ResolveExternal(library, name string) (ident.Identifier, ident.ThreadSafety, bool) {
	cfg, ok := c.Library(library)
	if !ok {
		return ident.Identifier{}, ident.ThreadSafety{}, false
	}
	item, ok := cfg.External[name]
	if !ok {
		return ident.Identifier{}, ident.ThreadSafety{}, false
	}
	return ident.External(name, item.Module), item.ThreadSafety, true
}
