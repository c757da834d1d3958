// Package library implements the per-library Statement store (spec.md
// §3's "Library" type, component G): an ordered map from dotted module
// path to the statements declared there, with element-wise equality
// used by internal/driver to check the multi-target invariant (I5).
package library

import (
	"fmt"
	"reflect"
	"strings"

	"github.com/gogpu/cocoagen/internal/cctx"
	"github.com/gogpu/cocoagen/internal/stmt"
)

// Module is one dotted module path's ordered statement list. Statements
// preserve first-seen order; re-declarations of the same identifier and
// kind (the same class re-opened across repeated `#include`s of an
// umbrella header, for instance) are folded into the first occurrence
// rather than appended again.
type Module struct {
	Path       []string
	Statements []stmt.Statement
}

func (m *Module) key() string { return strings.Join(m.Path, ".") }

// Library owns every statement discovered while parsing one configured
// framework, keyed by module location (spec.md §3).
type Library struct {
	Name   string
	Config cctx.LibraryConfig

	modules []*Module
	index   map[string]int
	seen    map[string]map[string]int // module key -> identifier+kind key -> statement index
}

// New creates an empty Library for the named framework.
func New(name string, cfg cctx.LibraryConfig) *Library {
	return &Library{
		Name:   name,
		Config: cfg,
		index:  make(map[string]int),
		seen:   make(map[string]map[string]int),
	}
}

// Add inserts s into the module its own identifier names, creating the
// module entry on first reference and appending it to the library's
// module order. Duplicate identifier+kind pairs within the same module
// are dropped, keeping the first-seen statement (spec.md "Ordering
// guarantees").
func (l *Library) Add(s stmt.Statement) {
	id := stmt.Identifier(s)
	key := id.Location.Module()

	idx, ok := l.index[key]
	if !ok {
		l.modules = append(l.modules, &Module{Path: append([]string(nil), id.Location.ModulePath...)})
		idx = len(l.modules) - 1
		l.index[key] = idx
		l.seen[key] = make(map[string]int)
	}

	dedupKey := fmt.Sprintf("%s\x00%T", id.Key(), s)
	if _, dup := l.seen[key][dedupKey]; dup {
		return
	}

	mod := l.modules[idx]
	l.seen[key][dedupKey] = len(mod.Statements)
	mod.Statements = append(mod.Statements, s)
}

// Modules returns every module in insertion order.
func (l *Library) Modules() []*Module { return l.modules }

// Module looks up the module at the given dotted path.
func (l *Library) Module(path []string) (*Module, bool) {
	idx, ok := l.index[strings.Join(path, ".")]
	if !ok {
		return nil, false
	}
	return l.modules[idx], true
}

// Equal implements spec.md I5: two libraries are equal iff their
// modules appear in the same order, under the same paths, with
// element-wise equal statement lists.
func (l *Library) Equal(other *Library) bool {
	if other == nil {
		return false
	}
	if len(l.modules) != len(other.modules) {
		return false
	}
	for i, m := range l.modules {
		om := other.modules[i]
		if m.key() != om.key() {
			return false
		}
		if len(m.Statements) != len(om.Statements) {
			return false
		}
		for j := range m.Statements {
			if !reflect.DeepEqual(m.Statements[j], om.Statements[j]) {
				return false
			}
		}
	}
	return true
}
