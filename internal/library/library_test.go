package library

import (
	"testing"

	"github.com/gogpu/cocoagen/internal/cctx"
	"github.com/gogpu/cocoagen/internal/ident"
	"github.com/gogpu/cocoagen/internal/stmt"
)

func classID(name, module string) ident.Identifier {
	return ident.Identifier{Name: name, Location: ident.Location{Library: "Foundation", ModulePath: []string{module}}}
}

func TestAddOrdersModulesByFirstReference(t *testing.T) {
	lib := New("Foundation", cctx.LibraryConfig{})

	lib.Add(stmt.ClassDecl{ID: classID("NSArray", "NSArray")})
	lib.Add(stmt.ClassDecl{ID: classID("NSObject", "NSObject")})
	lib.Add(stmt.ClassDecl{ID: classID("NSMutableArray", "NSArray")})

	mods := lib.Modules()
	if len(mods) != 2 {
		t.Fatalf("expected 2 modules, got %d", len(mods))
	}
	if mods[0].key() != "NSArray" || mods[1].key() != "NSObject" {
		t.Fatalf("expected module insertion order NSArray, NSObject; got %q, %q", mods[0].key(), mods[1].key())
	}
	if len(mods[0].Statements) != 2 {
		t.Fatalf("expected 2 statements in NSArray module, got %d", len(mods[0].Statements))
	}
	first := mods[0].Statements[0].(stmt.ClassDecl)
	second := mods[0].Statements[1].(stmt.ClassDecl)
	if first.ID.Name != "NSArray" || second.ID.Name != "NSMutableArray" {
		t.Fatalf("expected first-seen order NSArray, NSMutableArray; got %q, %q", first.ID.Name, second.ID.Name)
	}
}

func TestAddDeduplicatesSameIdentifierAndKind(t *testing.T) {
	lib := New("Foundation", cctx.LibraryConfig{})

	lib.Add(stmt.ClassDecl{ID: classID("NSString", "NSString")})
	lib.Add(stmt.ClassDecl{ID: classID("NSString", "NSString"), MainThreadOnly: true})

	mod, ok := lib.Module([]string{"NSString"})
	if !ok {
		t.Fatalf("expected NSString module")
	}
	if len(mod.Statements) != 1 {
		t.Fatalf("expected re-declaration to be folded into one statement, got %d", len(mod.Statements))
	}
	if mod.Statements[0].(stmt.ClassDecl).MainThreadOnly {
		t.Fatalf("expected the first-seen statement to be kept, not the later duplicate")
	}
}

func TestAddKeepsDistinctKindsWithSameIdentifier(t *testing.T) {
	lib := New("Foundation", cctx.LibraryConfig{})
	id := classID("Thing", "Thing")

	lib.Add(stmt.TypedefDecl{ID: id})
	lib.Add(stmt.StructDecl{ID: id})

	mod, _ := lib.Module([]string{"Thing"})
	if len(mod.Statements) != 2 {
		t.Fatalf("expected distinct kinds sharing an identifier to both survive, got %d", len(mod.Statements))
	}
}

func buildIdenticalPair() (*Library, *Library) {
	a := New("Foundation", cctx.LibraryConfig{})
	b := New("Foundation", cctx.LibraryConfig{})
	for _, lib := range []*Library{a, b} {
		lib.Add(stmt.ClassDecl{ID: classID("NSObject", "NSObject")})
		lib.Add(stmt.EnumDecl{ID: classID("NSComparisonResult", "NSObjCRuntime"), IsClosed: true})
	}
	return a, b
}

func TestEqualTrueForIdenticalLibraries(t *testing.T) {
	a, b := buildIdenticalPair()
	if !a.Equal(b) {
		t.Fatalf("expected identically built libraries to compare equal")
	}
}

func TestEqualFalseOnStatementDivergence(t *testing.T) {
	a, b := buildIdenticalPair()
	b.Module([]string{"NSObject"})
	mod, _ := b.Module([]string{"NSObject"})
	mod.Statements[0] = stmt.ClassDecl{ID: classID("NSObject", "NSObject"), MainThreadOnly: true}

	if a.Equal(b) {
		t.Fatalf("expected diverging statement content to break equality")
	}
}

func TestEqualFalseOnModuleOrderDivergence(t *testing.T) {
	a := New("Foundation", cctx.LibraryConfig{})
	a.Add(stmt.ClassDecl{ID: classID("NSArray", "NSArray")})
	a.Add(stmt.ClassDecl{ID: classID("NSObject", "NSObject")})

	b := New("Foundation", cctx.LibraryConfig{})
	b.Add(stmt.ClassDecl{ID: classID("NSObject", "NSObject")})
	b.Add(stmt.ClassDecl{ID: classID("NSArray", "NSArray")})

	if a.Equal(b) {
		t.Fatalf("expected differing module insertion order to break equality")
	}
}

func TestEqualFalseForNil(t *testing.T) {
	a := New("Foundation", cctx.LibraryConfig{})
	if a.Equal(nil) {
		t.Fatalf("expected nil to never compare equal")
	}
}
