package writers

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/gogpu/cocoagen/internal/cctx"
	"github.com/gogpu/cocoagen/internal/config"
	"github.com/gogpu/cocoagen/internal/ident"
	"github.com/gogpu/cocoagen/internal/library"
	"github.com/gogpu/cocoagen/internal/stmt"
)

func widgetID(name, module string) ident.Identifier {
	return ident.Identifier{Name: name, Location: ident.Location{Library: "Widgets", ModulePath: []string{module}}}
}

func buildLibrary() *library.Library {
	lib := library.New("Widgets", cctx.LibraryConfig{})
	lib.Add(stmt.ClassDecl{ID: widgetID("Widget", "Widget")})
	lib.Add(stmt.ClassDecl{ID: widgetID("WidgetFactory", "WidgetFactory")})
	return lib
}

func TestWriteOutputTreeRendersModuleFilesAndDoc(t *testing.T) {
	outDir := t.TempDir()
	fw := config.Framework{Framework: "Widgets", Krate: "widgets"}
	lib := buildLibrary()

	importPath, err := WriteOutputTree(outDir, "github.com/gogpu/cocoagen/output", fw, lib)
	if err != nil {
		t.Fatalf("WriteOutputTree: %v", err)
	}
	if importPath != "github.com/gogpu/cocoagen/output/widgets" {
		t.Fatalf("importPath = %q", importPath)
	}

	pkgDir := filepath.Join(outDir, "widgets")
	entries, err := os.ReadDir(pkgDir)
	if err != nil {
		t.Fatalf("ReadDir: %v", err)
	}
	var names []string
	for _, e := range entries {
		names = append(names, e.Name())
	}
	joined := strings.Join(names, ",")
	if !strings.Contains(joined, "doc.go") {
		t.Fatalf("expected a doc.go, got %v", names)
	}
	if !strings.Contains(joined, "_gen.go") {
		t.Fatalf("expected generated module files, got %v", names)
	}

	doc, err := os.ReadFile(filepath.Join(pkgDir, "doc.go"))
	if err != nil {
		t.Fatalf("ReadFile doc.go: %v", err)
	}
	if !strings.Contains(string(doc), "package widgets") {
		t.Fatalf("expected package clause in doc.go, got:\n%s", doc)
	}
}

func TestWriteOutputTreeListsRequiredSiblingModules(t *testing.T) {
	outDir := t.TempDir()
	fw := config.Framework{
		Framework: "Widgets",
		Krate:     "widgets",
		External: map[string]config.ExternalItem{
			"NSString": {Module: "foundation"},
			"NSArray":  {Module: "foundation"},
			"CGPoint":  {Module: "corefoundation"},
		},
	}
	lib := buildLibrary()

	if _, err := WriteOutputTree(outDir, "github.com/gogpu/cocoagen/output", fw, lib); err != nil {
		t.Fatalf("WriteOutputTree: %v", err)
	}

	doc, err := os.ReadFile(filepath.Join(outDir, "widgets", "doc.go"))
	if err != nil {
		t.Fatalf("ReadFile doc.go: %v", err)
	}
	out := string(doc)
	if !strings.Contains(out, "foundation") || !strings.Contains(out, "corefoundation") {
		t.Fatalf("expected both sibling modules listed, got:\n%s", out)
	}
	if strings.Count(out, "- foundation\n") != 1 {
		t.Fatalf("expected foundation listed once (deduplicated), got:\n%s", out)
	}
}

func TestWriteCrateListSortsByFramework(t *testing.T) {
	path := filepath.Join(t.TempDir(), "crates.txt")
	err := WriteCrateList(path, []CrateEntry{
		{Framework: "Widgets", Krate: "widgets"},
		{Framework: "AppKit", Krate: "appkit"},
	})
	if err != nil {
		t.Fatalf("WriteCrateList: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	appKitIdx := strings.Index(string(data), "AppKit")
	widgetsIdx := strings.Index(string(data), "Widgets")
	if appKitIdx == -1 || widgetsIdx == -1 || appKitIdx > widgetsIdx {
		t.Fatalf("expected AppKit before Widgets, got:\n%s", data)
	}
}

func TestWriteCIMatrixReplacesMarkedRegionOnly(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ci.yml")
	initial := "env:\n" +
		"  # BEGIN AUTOMATICALLY GENERATED\n" +
		"  FRAMEWORKS_MACOS_10_15: --package=stale\n" +
		"  # END AUTOMATICALLY GENERATED\n" +
		"  OTHER_VAR: keep-me\n"
	if err := os.WriteFile(path, []byte(initial), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	err := WriteCIMatrix(path, map[string][]string{
		"FRAMEWORKS_MACOS_10_15": {"widgets", "appkit"},
	})
	if err != nil {
		t.Fatalf("WriteCIMatrix: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	out := string(data)
	if strings.Contains(out, "stale") {
		t.Fatalf("expected the stale entry to be replaced, got:\n%s", out)
	}
	if !strings.Contains(out, "--package=widgets --package=appkit") {
		t.Fatalf("expected the new package list, got:\n%s", out)
	}
	if !strings.Contains(out, "OTHER_VAR: keep-me") {
		t.Fatalf("expected content outside the markers to survive, got:\n%s", out)
	}
}

func TestWriteCIMatrixErrorsWithoutMarkers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ci.yml")
	if err := os.WriteFile(path, []byte("env:\n  OTHER_VAR: keep-me\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	if err := WriteCIMatrix(path, map[string][]string{"X": {"y"}}); err == nil {
		t.Fatal("expected an error when the marker lines are missing")
	}
}

func TestEnvNameNormalizesVersionPunctuation(t *testing.T) {
	got := EnvName("macos", "10.15")
	if got != "FRAMEWORKS_MACOS_10_15" {
		t.Fatalf("EnvName = %q", got)
	}
}

func TestWriteTestAggregatorBlankImportsSorted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "alltests.go")
	err := WriteTestAggregator(path, "alltests", []string{
		"github.com/gogpu/cocoagen/output/widgets",
		"github.com/gogpu/cocoagen/output/appkit",
	})
	if err != nil {
		t.Fatalf("WriteTestAggregator: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	out := string(data)
	appKitIdx := strings.Index(out, "appkit")
	widgetsIdx := strings.Index(out, "widgets")
	if appKitIdx == -1 || widgetsIdx == -1 || appKitIdx > widgetsIdx {
		t.Fatalf("expected imports sorted appkit before widgets, got:\n%s", out)
	}
	if !strings.Contains(out, "package alltests") {
		t.Fatalf("expected package clause, got:\n%s", out)
	}
}
