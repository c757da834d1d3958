// Package writers renders a parsed library's final artifacts to disk:
// the generated Go source tree itself, plus the handful of ancillary
// manifests a multi-framework run needs (spec.md §6, component K) —
// a framework-to-package list, a CI matrix, and a test aggregator.
// Every writer here follows the teacher's cmd/vk-gen/main.go shape:
// one function per output file, plain fmt.Fprintf/strings.Builder
// text assembly, failures returned rather than logged.
package writers

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gogpu/cocoagen/internal/config"
	"github.com/gogpu/cocoagen/internal/emit"
	"github.com/gogpu/cocoagen/internal/library"
)

// WriteOutputTree renders every module in lib to its own Go source
// file under outDir/<krate>/, plus a doc.go declaring the package's
// dependencies on sibling packages (spec.md's "dependency manifest
// declaring dependencies on sibling crates/packages based on
// required-item sets") and listing every generated file (spec.md's
// "`all` feature aggregating every generated module" — in a Go
// package every file in the directory is already part of the
// package, so the aggregation is a documentation artifact rather than
// a build-graph one). Returns the Go import path of the package
// written, for the caller to fold into a crate-list or test-aggregator
// entry.
func WriteOutputTree(outDir, modulePrefix string, fw config.Framework, lib *library.Library) (string, error) {
	pkgDir := filepath.Join(outDir, fw.Krate)
	if err := os.MkdirAll(pkgDir, 0o755); err != nil {
		return "", fmt.Errorf("writers: create %s: %w", pkgDir, err)
	}

	pkgName := goPackageName(fw.Krate)
	var fileNames []string
	for _, mod := range lib.Modules() {
		src, err := emit.RenderModule(pkgName, mod.Statements)
		if err != nil {
			return "", fmt.Errorf("writers: render module %s: %w", strings.Join(mod.Path, "."), err)
		}
		name := moduleFileName(mod.Path)
		if err := os.WriteFile(filepath.Join(pkgDir, name), src, 0o644); err != nil {
			return "", fmt.Errorf("writers: write %s: %w", name, err)
		}
		fileNames = append(fileNames, name)
	}

	if err := writeDoc(pkgDir, pkgName, fw, fileNames); err != nil {
		return "", err
	}

	return modulePrefix + "/" + fw.Krate, nil
}

func moduleFileName(path []string) string {
	return strings.ToLower(strings.Join(path, "_")) + "_gen.go"
}

// goPackageName turns a configured krate identifier (which may carry
// Rust-style hyphens, e.g. "app-kit") into a legal Go package name.
func goPackageName(krate string) string {
	return strings.ReplaceAll(krate, "-", "")
}

func writeDoc(pkgDir, pkgName string, fw config.Framework, fileNames []string) error {
	deps := requiredSiblingModules(fw)

	var b strings.Builder
	fmt.Fprintf(&b, "// Package %s holds the generated bindings for the %s framework.\n", pkgName, fw.Framework)
	b.WriteString("//\n")
	b.WriteString("// Generated files:\n")
	sorted := append([]string(nil), fileNames...)
	sort.Strings(sorted)
	for _, name := range sorted {
		fmt.Fprintf(&b, "//   - %s\n", name)
	}
	if len(deps) > 0 {
		b.WriteString("//\n")
		b.WriteString("// Depends on sibling packages for externally-redirected types:\n")
		for _, dep := range deps {
			fmt.Fprintf(&b, "//   - %s\n", dep)
		}
	}
	fmt.Fprintf(&b, "package %s\n", pkgName)

	formatted, err := emit.Format([]byte(b.String()), "doc.go")
	if err != nil {
		return fmt.Errorf("writers: format doc.go for %s: %w", fw.Krate, err)
	}
	return os.WriteFile(filepath.Join(pkgDir, "doc.go"), formatted, 0o644)
}

// requiredSiblingModules collects the distinct external module
// redirects this framework's configuration names, sorted for
// deterministic output (spec.md P5, emission stability).
func requiredSiblingModules(fw config.Framework) []string {
	seen := make(map[string]bool, len(fw.External))
	for _, item := range fw.External {
		if item.Module != "" {
			seen[item.Module] = true
		}
	}
	out := make([]string, 0, len(seen))
	for name := range seen {
		out = append(out, name)
	}
	sort.Strings(out)
	return out
}
